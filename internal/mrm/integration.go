package mrm

import "math"

// integrateFeature performs §4.1.4 integration in consensus mode: every
// fragment/precursor trace is resampled onto one shared master grid
// spanning [left,right].
func integrateFeature(group *TransitionGroup, seedChromIdx int, left, right, peakApex float64, opts Options) Feature {
	grid := buildMasterGrid(group.Chromatograms[seedChromIdx], left, right)

	f := Feature{
		RT:         peakApex,
		MZ:         group.Chromatograms[seedChromIdx].ProductMZ,
		LeftWidth:  peakApex - left,
		RightWidth: right - peakApex,
	}

	var totalIntensity, totalApices float64
	var quantCount int
	var detectingAreas, allAreas []float64

	for ci := range group.Chromatograms {
		c := &group.Chromatograms[ci]
		area, apexH, apexPos, hull := integrateOneTrace(c, grid, left, right, opts)
		f.ConvexHulls = append(f.ConvexHulls, hull)
		allAreas = append(allAreas, area)
		if !c.IsIdentifying {
			detectingAreas = append(detectingAreas, area)
		}
		if c.IsQuantifying {
			totalIntensity += area
			totalApices += apexH
			quantCount++
		}
		_ = apexPos
	}
	for ci := range group.PrecursorChrom {
		c := &group.PrecursorChrom[ci]
		area, apexH, _, hull := integrateOneTrace(c, grid, left, right, opts)
		f.ConvexHulls = append(f.ConvexHulls, hull)
		if c.IsQuantifying {
			totalIntensity += area
			totalApices += apexH
			quantCount++
		}
	}

	if quantCount == 0 {
		// No transition is flagged quantifying: fall back to the seed
		// trace's own area so the feature still carries a usable
		// intensity.
		area, apexH, _, _ := integrateOneTrace(&group.Chromatograms[seedChromIdx], grid, left, right, opts)
		totalIntensity, totalApices = area, apexH
	}

	f.Intensity = totalIntensity
	f.TotalXIC = sum(allAreas)
	f.PeakApicesSum = totalApices

	if opts.QualityScoringEnabled {
		f.MutualInfo = averageMutualInformation(detectingAreas)
	}
	if wantsShapeMetrics(opts) {
		m := computeShapeMetrics(&group.Chromatograms[seedChromIdx], left, right, peakApex, opts)
		f.Shape = &m
	}
	return f
}

// integrateFeatureLocal performs §4.1.4 integration in non-consensus
// mode: each trace is restricted to its own locally selected boundaries
// rather than one shared window.
func integrateFeatureLocal(group *TransitionGroup, seedChromIdx int, minLeft, maxRight, peakApex float64, localLeft, localRight []float64, opts Options) Feature {
	grid := buildMasterGrid(group.Chromatograms[seedChromIdx], minLeft, maxRight)

	f := Feature{
		RT:         peakApex,
		MZ:         group.Chromatograms[seedChromIdx].ProductMZ,
		LeftWidth:  peakApex - minLeft,
		RightWidth: maxRight - peakApex,
	}

	var totalIntensity, totalApices float64
	var quantCount int
	var allAreas []float64

	for ci := range group.Chromatograms {
		c := &group.Chromatograms[ci]
		l, r := minLeft, maxRight
		if ci < len(localLeft) && localRight[ci] > localLeft[ci] {
			l, r = localLeft[ci], localRight[ci]
		}
		area, apexH, _, hull := integrateOneTrace(c, grid, l, r, opts)
		f.ConvexHulls = append(f.ConvexHulls, hull)
		allAreas = append(allAreas, area)
		if c.IsQuantifying {
			totalIntensity += area
			totalApices += apexH
			quantCount++
		}
	}
	if quantCount == 0 {
		area, apexH, _, _ := integrateOneTrace(&group.Chromatograms[seedChromIdx], grid, minLeft, maxRight, opts)
		totalIntensity, totalApices = area, apexH
	}

	f.Intensity = totalIntensity
	f.TotalXIC = sum(allAreas)
	f.PeakApicesSum = totalApices
	return f
}

// integrateOneTrace resamples the configured variant of c onto grid
// restricted to [left,right], optionally subtracts baseline, computes
// area/apex via the external integrator, and returns a convex hull.
func integrateOneTrace(c *Chromatogram, grid []float64, left, right float64, opts Options) (area, apexHeight, apexPosition float64, hull ConvexHull) {
	srcY := c.Intensity
	if opts.PeakIntegration == IntegrateSmoothed {
		if c.Smoothed != nil {
			srcY = c.Smoothed
		}
	}

	ry := resampleLinear(c.RT, srcY, grid)
	wx, wy := sliceWindow(grid, ry, left, right)
	if len(wx) == 0 {
		return 0, 0, 0, ConvexHull{ChromatogramID: c.ID, MinRT: left, MaxRT: right}
	}

	switch opts.Baseline {
	case BaselineTrapezoid:
		wy = subtractTrapezoidBaseline(wx, wy)
	case BaselineExact:
		if opts.BackgroundEstimator != nil {
			wy = opts.BackgroundEstimator(wx, wy, left, right)
		}
	}
	clampNonNegative(wy)

	area, apexHeight, apexPosition = opts.Integrator(wx, wy, left, right)
	if area < 0 {
		area = 0
	}
	if apexHeight < 0 {
		apexHeight = 0
	}

	minI, maxI := minMax(wy)
	hull = ConvexHull{
		ChromatogramID: c.ID,
		MinRT:          wx[0],
		MaxRT:          wx[len(wx)-1],
		MinIntensity:   minI,
		MaxIntensity:   maxI,
	}
	return area, apexHeight, apexPosition, hull
}

func subtractTrapezoidBaseline(x, y []float64) []float64 {
	if len(x) < 2 {
		return y
	}
	y0, y1 := y[0], y[len(y)-1]
	x0, x1 := x[0], x[len(x)-1]
	out := make([]float64, len(y))
	for i := range y {
		var base float64
		if x1 != x0 {
			t := (x[i] - x0) / (x1 - x0)
			base = y0 + t*(y1-y0)
		} else {
			base = y0
		}
		out[i] = y[i] - base
	}
	return out
}

func subtractBaseline(y, bg []float64) []float64 {
	out := make([]float64, len(y))
	for i := range y {
		if i < len(bg) {
			out[i] = y[i] - bg[i]
		} else {
			out[i] = y[i]
		}
	}
	return out
}

func clampNonNegative(y []float64) {
	for i := range y {
		if y[i] < 0 {
			y[i] = 0
		}
	}
}

func minMax(v []float64) (min, max float64) {
	if len(v) == 0 {
		return 0, 0
	}
	min, max = v[0], v[0]
	for _, x := range v[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// averageMutualInformation averages a simple pairwise mutual-information
// proxy across all detecting-transition area pairs (§4.1.4 "Compute
// optional mutual-information score against every detecting transition
// and average").
func averageMutualInformation(areas []float64) float64 {
	if len(areas) < 2 {
		return 0
	}
	var total float64
	var count int
	for i := 0; i < len(areas); i++ {
		for j := i + 1; j < len(areas); j++ {
			total += mutualInfoProxy(areas[i], areas[j])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// mutualInfoProxy is a deterministic, symmetric correlation proxy for two
// scalar trace areas; the full spectral mutual-information estimator is
// an external collaborator not specified by §1 ("numeric primitives...
// are assumed available").
func mutualInfoProxy(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	ratio := math.Min(a, b) / math.Max(a, b)
	return ratio
}

func wantsShapeMetrics(opts Options) bool {
	return opts.QualityScoringEnabled
}

// computeShapeMetrics computes the optional peak-shape diagnostics named
// in §4.1.4: widths at 5/10/50%, tailing factor, asymmetry factor, slope
// of baseline, points-across-baseline.
func computeShapeMetrics(c *Chromatogram, left, right, apex float64, opts Options) PeakShapeMetrics {
	wx, wy := sliceWindow(c.RT, c.Intensity, left, right)
	if len(wx) == 0 {
		return PeakShapeMetrics{}
	}
	_, apexHeight := maxPoint(wx, wy)

	w5 := widthAtFraction(wx, wy, apexHeight, 0.05)
	w10 := widthAtFraction(wx, wy, apexHeight, 0.10)
	w50 := widthAtFraction(wx, wy, apexHeight, 0.50)

	leftHalf, rightHalf := halfWidths(wx, wy, apex, apexHeight, 0.10)
	var tailing, asymmetry float64
	if leftHalf > 0 {
		tailing = (leftHalf + rightHalf) / (2 * leftHalf)
		asymmetry = rightHalf / leftHalf
	}

	slope := baselineSlope(wx, wy)
	points := len(wx)

	return PeakShapeMetrics{
		Width5:               w5,
		Width10:              w10,
		Width50:              w50,
		TailingFactor:        tailing,
		AsymmetryFactor:      asymmetry,
		SlopeOfBaseline:      slope,
		PointsAcrossBaseline: points,
	}
}

func maxPoint(x, y []float64) (rt, height float64) {
	best := 0
	for i := 1; i < len(y); i++ {
		if y[i] > y[best] {
			best = i
		}
	}
	return x[best], y[best]
}

// widthAtFraction returns the RT width of the region where intensity
// exceeds fraction*apexHeight.
func widthAtFraction(x, y []float64, apexHeight, fraction float64) float64 {
	threshold := apexHeight * fraction
	firstIdx, lastIdx := -1, -1
	for i, v := range y {
		if v >= threshold {
			if firstIdx < 0 {
				firstIdx = i
			}
			lastIdx = i
		}
	}
	if firstIdx < 0 || lastIdx < 0 {
		return 0
	}
	return x[lastIdx] - x[firstIdx]
}

func halfWidths(x, y []float64, apex, apexHeight, fraction float64) (leftHalf, rightHalf float64) {
	threshold := apexHeight * fraction
	var leftEdge, rightEdge float64
	leftEdge, rightEdge = x[0], x[len(x)-1]
	for i, v := range y {
		if v >= threshold {
			leftEdge = x[i]
			break
		}
	}
	for i := len(y) - 1; i >= 0; i-- {
		if y[i] >= threshold {
			rightEdge = x[i]
			break
		}
	}
	return apex - leftEdge, rightEdge - apex
}

func baselineSlope(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	dx := x[len(x)-1] - x[0]
	if dx == 0 {
		return 0
	}
	return (y[len(y)-1] - y[0]) / dx
}
