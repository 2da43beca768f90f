package mrm

import (
	"math"
	"testing"
)

// trapezoidIntegrator is a minimal external-integrator stand-in: area by
// the trapezoid rule, apex = max point.
func trapezoidIntegrator(x, y []float64, left, right float64) (area, apexHeight, apexPosition float64) {
	if len(x) == 0 {
		return 0, 0, 0
	}
	for i := 1; i < len(x); i++ {
		area += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	apexPosition = x[0]
	for i, v := range y {
		if v > apexHeight {
			apexHeight = v
			apexPosition = x[i]
		}
	}
	return area, apexHeight, apexPosition
}

func flatCrossCorrelator(a, b []float64) (lag, shape float64) {
	return 0, 1
}

func defaultTestOptions() Options {
	return Options{
		SeedPolicy:              SeedLargest,
		ConsensusMode:           true,
		RecalculateBorders:      false,
		MaxZ:                    2.5,
		MinPeakWidth:            1,
		QualityScoringEnabled:   false,
		MinQual:                 0,
		StopAfterFeature:        0,
		StopAfterIntensityRatio: 0,
		PeakIntegration:         IntegrateOriginal,
		Baseline:                BaselineNone,
		Integrator:              trapezoidIntegrator,
		CrossCorrelator:         flatCrossCorrelator,
	}
}

func gaussianTrace(centers []float64, intensities []float64, width float64, rtRange []float64) ([]float64, []float64) {
	x := rtRange
	y := make([]float64, len(x))
	for i, rt := range x {
		var v float64
		for k, c := range centers {
			d := rt - c
			v += intensities[k] * math.Exp(-d*d/(2*width*width))
		}
		y[i] = v
	}
	return x, y
}

func rtGrid(from, to, step float64) []float64 {
	var out []float64
	for v := from; v <= to+1e-9; v += step {
		out = append(out, v)
	}
	return out
}

func makePickedChromatogram(id string, peaks []Peak, rt []float64, intensity []float64) Chromatogram {
	return Chromatogram{
		ID:            id,
		ProductMZ:     500.0,
		RT:            rt,
		Intensity:     intensity,
		Picked:        peaks,
		IsQuantifying: true,
	}
}

// TestSingleTraceThreePeaks mirrors spec scenario S1: a chromatogram with
// peaks at RT=10,20,30 (intensities 100,50,10), picked boundaries
// 8-12,18-22,28-32, should produce three MRM features.
func TestSingleTraceThreePeaks(t *testing.T) {
	rt := rtGrid(0, 40, 0.5)
	_, y := gaussianTrace([]float64{10, 20, 30}, []float64{100, 50, 10}, 1.0, rt)

	peaks := []Peak{
		{RT: 10, Intensity: 100, Left: 8, Right: 12},
		{RT: 20, Intensity: 50, Left: 18, Right: 22},
		{RT: 30, Intensity: 10, Left: 28, Right: 32},
	}
	chrom := makePickedChromatogram("tr1", peaks, rt, y)
	group := &TransitionGroup{ID: "g1", Chromatograms: []Chromatogram{chrom}}

	opts := defaultTestOptions()
	if err := PickTransitionGroup(group, opts); err != nil {
		t.Fatalf("PickTransitionGroup: %v", err)
	}
	if len(group.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(group.Features))
	}
	for _, f := range group.Features {
		if f.Intensity <= 0 {
			t.Errorf("feature at RT %v has non-positive intensity %v", f.RT, f.Intensity)
		}
		if f.LeftWidth <= 0 || f.RightWidth <= 0 {
			t.Errorf("feature at RT %v missing widths: left=%v right=%v", f.RT, f.LeftWidth, f.RightWidth)
		}
	}
}

// TestOverlapSuppression mirrors spec scenario S2: two traces with
// overlapping picked peaks; consensus mode zeroes the peer trace's peak
// in the first iteration so only one feature results.
func TestOverlapSuppression(t *testing.T) {
	rt := rtGrid(0, 30, 0.5)
	_, y1 := gaussianTrace([]float64{15}, []float64{100}, 1.5, rt)
	_, y2 := gaussianTrace([]float64{15.5}, []float64{90}, 1.5, rt)

	c1 := makePickedChromatogram("a", []Peak{{RT: 15, Intensity: 100, Left: 13, Right: 17}}, rt, y1)
	c2 := makePickedChromatogram("b", []Peak{{RT: 15.5, Intensity: 90, Left: 13.5, Right: 17.5}}, rt, y2)

	group := &TransitionGroup{ID: "g2", Chromatograms: []Chromatogram{c1, c2}}
	opts := defaultTestOptions()

	if err := PickTransitionGroup(group, opts); err != nil {
		t.Fatalf("PickTransitionGroup: %v", err)
	}
	if len(group.Features) != 1 {
		t.Fatalf("expected overlap to collapse to 1 feature, got %d", len(group.Features))
	}
}

func TestEmptyGroupProducesNoFeatures(t *testing.T) {
	group := &TransitionGroup{ID: "empty"}
	opts := defaultTestOptions()
	if err := PickTransitionGroup(group, opts); err != nil {
		t.Fatalf("PickTransitionGroup on empty group: %v", err)
	}
	if len(group.Features) != 0 {
		t.Fatalf("expected no features, got %d", len(group.Features))
	}
}

func TestMissingIntegratorIsIllegalArgument(t *testing.T) {
	group := &TransitionGroup{ID: "g3"}
	opts := defaultTestOptions()
	opts.Integrator = nil
	if err := PickTransitionGroup(group, opts); err == nil {
		t.Fatal("expected error for missing integrator")
	}
}

func TestInvalidPeakIntegrationValueIsFatal(t *testing.T) {
	group := &TransitionGroup{ID: "g4"}
	opts := defaultTestOptions()
	opts.PeakIntegration = PeakIntegrationSource(99)
	if err := PickTransitionGroup(group, opts); err == nil {
		t.Fatal("expected error for invalid peak_integration value")
	}
}

func TestIdentifyingTransitionsExcludedFromPicking(t *testing.T) {
	rt := rtGrid(0, 20, 0.5)
	_, y := gaussianTrace([]float64{10}, []float64{100}, 1.0, rt)
	identifying := makePickedChromatogram("id1", []Peak{{RT: 10, Intensity: 100, Left: 8, Right: 12}}, rt, y)
	identifying.IsIdentifying = true

	group := &TransitionGroup{ID: "g5", Chromatograms: []Chromatogram{identifying}}
	opts := defaultTestOptions()
	if err := PickTransitionGroup(group, opts); err != nil {
		t.Fatalf("PickTransitionGroup: %v", err)
	}
	if len(group.Features) != 0 {
		t.Fatalf("identifying-only group should produce no features, got %d", len(group.Features))
	}
}

func TestDedupContainedFeatureDiscarded(t *testing.T) {
	existing := []Feature{{RT: 20, LeftWidth: 5, RightWidth: 5}}
	contained := Feature{RT: 21, LeftWidth: 2, RightWidth: 2}
	if !containedInExisting(contained, existing) {
		t.Fatal("expected contained feature to be discarded")
	}
	notContained := Feature{RT: 40, LeftWidth: 2, RightWidth: 2}
	if containedInExisting(notContained, existing) {
		t.Fatal("expected non-overlapping feature to survive dedup")
	}
}

func TestMinPeakWidthRejectsNarrowFeature(t *testing.T) {
	rt := rtGrid(0, 20, 0.5)
	_, y := gaussianTrace([]float64{10}, []float64{100}, 0.2, rt)
	peaks := []Peak{{RT: 10, Intensity: 100, Left: 9.9, Right: 10.1}}
	chrom := makePickedChromatogram("narrow", peaks, rt, y)
	group := &TransitionGroup{ID: "g6", Chromatograms: []Chromatogram{chrom}}

	opts := defaultTestOptions()
	opts.MinPeakWidth = 5
	if err := PickTransitionGroup(group, opts); err != nil {
		t.Fatalf("PickTransitionGroup: %v", err)
	}
	if len(group.Features) != 0 {
		t.Fatalf("expected narrow peak to be rejected, got %d features", len(group.Features))
	}
}
