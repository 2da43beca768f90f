package multiplex

import "testing"

// TestPatternOrderingSILACDoublet mirrors spec scenario S3: charges 1..2,
// patterns singlet []  and doublet [Lys8,Arg10] (mono-isotopic mass 500);
// sorted patterns begin with the doublet at charge 2.
func TestPatternOrderingSILACDoublet(t *testing.T) {
	singlet := DeltaMasses{Label: "none", MassShifts: []float64{0}}
	doublet := DeltaMasses{Label: "SILAC", MassShifts: []float64{0, 8.014}}

	patterns := GeneratePatterns(1, 2, 3, []DeltaMasses{singlet, doublet})
	if len(patterns) == 0 {
		t.Fatal("expected patterns")
	}
	first := patterns[0]
	if first.MassShiftCount() != 2 {
		t.Fatalf("expected doublet first, got shift count %d", first.MassShiftCount())
	}
	if first.Charge != 2 {
		t.Fatalf("expected charge 2+ first among equal-shift patterns, got %d", first.Charge)
	}
}

// TestPatternOrderingIsStrictWeakOrdering checks §8 testable property 1:
// more shifts before fewer; charge priority 2,3,4,1,5,6,... within ties.
func TestPatternOrderingIsStrictWeakOrdering(t *testing.T) {
	triplet := DeltaMasses{Label: "triplet", MassShifts: []float64{0, 4, 8}}
	doublet := DeltaMasses{Label: "doublet", MassShifts: []float64{0, 4}}
	singlet := DeltaMasses{Label: "singlet", MassShifts: []float64{0}}

	patterns := GeneratePatterns(1, 6, 3, []DeltaMasses{triplet, doublet, singlet})

	lastShiftCount := patterns[0].MassShiftCount()
	for _, p := range patterns[1:] {
		if p.MassShiftCount() > lastShiftCount {
			t.Fatalf("shift counts not descending: saw %d after %d", p.MassShiftCount(), lastShiftCount)
		}
		lastShiftCount = p.MassShiftCount()
	}

	// Within the singlet group (shift count 1, no MassShiftAt(1) tie-break
	// applies), charges must appear in priority order 2,3,4,1,5,6.
	var singletCharges []int
	for _, p := range patterns {
		if p.MassShiftCount() == 1 {
			singletCharges = append(singletCharges, p.Charge)
		}
	}
	want := []int{2, 3, 4, 1, 5, 6}
	if len(singletCharges) != len(want) {
		t.Fatalf("expected %d singlet patterns, got %d", len(want), len(singletCharges))
	}
	for i, c := range want {
		if singletCharges[i] != c {
			t.Fatalf("charge priority mismatch at %d: want %d got %d", i, c, singletCharges[i])
		}
	}
}

// TestIntensityCorrectionFallback mirrors spec scenario S4: fewer than 3
// pair satellites returns the raw sums unchanged.
func TestIntensityCorrectionFallback(t *testing.T) {
	pattern := PeakPattern{Charge: 2, IsotopesPerPeptide: 1, MassShifts: []float64{0, 8}}
	slots := SlotSatellites{
		0: {{RT: 10, Intensity: 100}, {RT: 10.1, Intensity: 90}},
		1: {{RT: 10, Intensity: 50}},
	}
	out := DeterminePeptideIntensities(pattern, 1, slots)
	if len(out) != 2 {
		t.Fatalf("expected 2 intensities, got %d", len(out))
	}
	if out[0] != 190 {
		t.Fatalf("expected raw sum 190 for peptide 0 (fallback), got %v", out[0])
	}
	if out[1] != 50 {
		t.Fatalf("expected raw sum 50 for peptide 1 (fallback), got %v", out[1])
	}
}

// TestIntensityCorrectionConsistency covers §8 testable property 4: for
// two peptides, the corrected intensities satisfy I1'/I0' == r.
func TestIntensityCorrectionConsistency(t *testing.T) {
	pattern := PeakPattern{Charge: 2, IsotopesPerPeptide: 1, MassShifts: []float64{0, 8}}

	// Construct >=3 aligned satellite pairs with an exact 2x ratio so the
	// regression recovers slope=2 precisely.
	slots := SlotSatellites{
		0: {
			{RT: 10.0, Intensity: 100},
			{RT: 10.5, Intensity: 80},
			{RT: 11.0, Intensity: 60},
			{RT: 11.5, Intensity: 40},
		},
		1: {
			{RT: 10.0, Intensity: 200},
			{RT: 10.5, Intensity: 160},
			{RT: 11.0, Intensity: 120},
			{RT: 11.5, Intensity: 80},
		},
	}
	out := DeterminePeptideIntensities(pattern, 1, slots)
	if len(out) != 2 {
		t.Fatalf("expected 2 intensities, got %d", len(out))
	}
	if out[0] == 0 {
		t.Fatal("expected non-zero corrected intensity for peptide 0")
	}
	ratio := out[1] / out[0]
	if diff := ratio - 2.0; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected corrected ratio ~2.0, got %v", ratio)
	}
}

func TestSingletonIntensityIdentity(t *testing.T) {
	pattern := PeakPattern{Charge: 1, IsotopesPerPeptide: 1, MassShifts: []float64{0}}
	slots := SlotSatellites{0: {{RT: 5, Intensity: 42}}}
	out := DeterminePeptideIntensities(pattern, 1, slots)
	if len(out) != 1 || out[0] != 42 {
		t.Fatalf("expected singleton identity [42], got %v", out)
	}
}

func TestClusterDiscardsShortElution(t *testing.T) {
	fe := FilteredExperiment{Peaks: []FilteredPeak{
		{RT: 10, MZ: 500},
		{RT: 10.2, MZ: 500.01},
	}}
	clusters := Cluster2D(fe, ClusterOptions{RTTypical: 1, RTMin: 5, MZGridSize: 0.1})
	if len(clusters) != 0 {
		t.Fatalf("expected short-elution cluster to be discarded, got %d clusters", len(clusters))
	}
}

func TestDetectCentroidedSparsePeaks(t *testing.T) {
	exp := &Experiment{Spectra: []Spectrum{
		{RT: 1, MZ: []float64{500, 600, 700}, Intensity: []float64{10, 20, 30}},
	}}
	if !DetectCentroided(exp) {
		t.Fatal("expected sparse, widely spaced peaks to be detected as centroided")
	}
}

func TestDetectCentroidedDenseProfile(t *testing.T) {
	mz := make([]float64, 0, 200)
	intensity := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		mz = append(mz, 500+float64(i)*0.001)
		intensity = append(intensity, 5)
	}
	exp := &Experiment{Spectra: []Spectrum{{RT: 1, MZ: mz, Intensity: intensity}}}
	if DetectCentroided(exp) {
		t.Fatal("expected densely, evenly sampled peaks to be detected as profile")
	}
}

func TestDetectCentroidedEmptyExperiment(t *testing.T) {
	if !DetectCentroided(&Experiment{}) {
		t.Fatal("expected an empty experiment to default to centroided")
	}
}

func TestRunAutoHonorsForceOverride(t *testing.T) {
	mz := make([]float64, 0, 200)
	intensity := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		mz = append(mz, 500+float64(i)*0.001)
		intensity = append(intensity, 5)
	}
	exp := &Experiment{Spectra: []Spectrum{{RT: 1, MZ: mz, Intensity: intensity}}}

	forced := true
	opts := Options{ChargeMin: 1, ChargeMax: 2, IsotopesPerPeptideMax: 1, ForceCentroided: &forced}
	// Forcing centroided on dense profile-shaped data must not panic and
	// must go through Run rather than RunProfile.
	_ = RunAuto(exp, opts, nil)
}

func TestClusterKeepsLongElution(t *testing.T) {
	fe := FilteredExperiment{Peaks: []FilteredPeak{
		{RT: 10, MZ: 500},
		{RT: 16, MZ: 500.01},
	}}
	clusters := Cluster2D(fe, ClusterOptions{RTTypical: 10, RTMin: 5, MZGridSize: 1})
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster spanning both points, got %d", len(clusters))
	}
}
