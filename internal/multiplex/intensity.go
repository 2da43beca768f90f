package multiplex

import "sort"

// satellitePoint is a (rt, intensity) observation within one mass-trace
// slot, used by the §4.2.1 linear-regression intensity correction
// regardless of whether it originated from a centroided or profile
// satellite.
type satellitePoint struct {
	RT        float64
	Intensity float64
}

// SlotSatellites maps slot index (peptide*isotopesPerPeptide + isotope)
// to the satellite points gathered for that mass trace.
type SlotSatellites map[int][]satellitePoint

const unreliableIntensity = -1.0

// DeterminePeptideIntensities implements §4.2.1: per-peptide RT/intensity
// aggregation, fold-change estimation by no-intercept linear regression
// against peptide 0, and projection of the raw sums onto the fitted
// ratio.
func DeterminePeptideIntensities(pattern PeakPattern, isotopesPerPeptide int, slots SlotSatellites) []float64 {
	n := pattern.MassShiftCount()
	rtPeptide := make([]float64, n)
	intensityPeptide := make([]float64, n)

	for p := 0; p < n; p++ {
		var rtSum, intensitySum float64
		for iso := 0; iso < isotopesPerPeptide; iso++ {
			slot := p*isotopesPerPeptide + iso
			for _, s := range slots[slot] {
				rtSum += s.RT * s.Intensity
				intensitySum += s.Intensity
			}
		}
		if intensitySum == 0 {
			if p == 0 {
				return []float64{unreliableIntensity}
			}
			rtPeptide[p] = 0
		} else {
			rtPeptide[p] = rtSum / intensitySum
		}
		intensityPeptide[p] = intensitySum
	}

	if n == 1 {
		return []float64{intensityPeptide[0]}
	}

	ratio := make([]float64, n)
	ratio[0] = 1.0
	for p := 1; p < n; p++ {
		var light, other []float64
		for iso := 0; iso < isotopesPerPeptide; iso++ {
			lightSlot := slots[0*isotopesPerPeptide+iso]
			otherSlot := sortedByRT(slots[p*isotopesPerPeptide+iso])
			for _, s1 := range lightSlot {
				target := s1.RT + rtPeptide[p] - rtPeptide[0]
				interp, ok := interpolateAt(otherSlot, target)
				if !ok {
					continue
				}
				light = append(light, s1.Intensity)
				other = append(other, interp)
			}
		}
		if len(light) < 3 || len(other) < 3 {
			return intensityPeptide
		}
		ratio[p] = linearRegressionNoIntercept(light, other)
	}

	return projectIntensities(intensityPeptide, ratio)
}

func sortedByRT(pts []satellitePoint) []satellitePoint {
	out := append([]satellitePoint(nil), pts...)
	sort.Slice(out, func(i, j int) bool { return out[i].RT < out[j].RT })
	return out
}

// interpolateAt linearly interpolates the intensity at rt among sorted
// points: find the point immediately <= rt and the one immediately >=
// rt and interpolate between them (§4.2.1).
func interpolateAt(sorted []satellitePoint, rt float64) (float64, bool) {
	var earlier, later *satellitePoint
	for i := range sorted {
		p := &sorted[i]
		if p.RT <= rt {
			if earlier == nil || p.RT > earlier.RT {
				earlier = p
			}
		}
		if p.RT >= rt {
			if later == nil || p.RT < later.RT {
				later = p
			}
		}
	}
	if earlier == nil || later == nil {
		return 0, false
	}
	if earlier.RT == later.RT {
		return earlier.Intensity, true
	}
	t := (rt - earlier.RT) / (later.RT - earlier.RT)
	return earlier.Intensity + t*(later.Intensity-earlier.Intensity), true
}

// linearRegressionNoIntercept fits y = slope*x with no intercept via
// least squares: slope = sum(x*y) / sum(x*x).
func linearRegressionNoIntercept(x, y []float64) float64 {
	var sxy, sxx float64
	for i := range x {
		sxy += x[i] * y[i]
		sxx += x[i] * x[i]
	}
	if sxx == 0 {
		return 0
	}
	return sxy / sxx
}

// projectIntensities projects the raw intensity sums onto the fitted
// ratios (§4.2.1): for two peptides, solve for the closest point on the
// line I1 = r*I0 minimizing distance to (I0,I1); for more than two, keep
// I0 fixed and set Ip = ratio[p]*I0 (documented simplification — full
// hyperplane projection is a known TODO, see design notes).
func projectIntensities(intensityPeptide, ratio []float64) []float64 {
	n := len(intensityPeptide)
	out := make([]float64, n)
	switch {
	case n == 2:
		r := ratio[1]
		i0 := (intensityPeptide[0] + r*intensityPeptide[1]) / (1 + r*r)
		out[0] = i0
		out[1] = r * i0
	case n > 2:
		out[0] = intensityPeptide[0]
		for p := 1; p < n; p++ {
			// TODO: full hyperplane projection across all peptide ratios
			// simultaneously, instead of keeping peptide 0 fixed.
			out[p] = ratio[p] * intensityPeptide[0]
		}
	default:
		out[0] = intensityPeptide[0]
	}
	return out
}
