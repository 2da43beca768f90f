package mrm

import "math"

// buildFeature constructs a feature from seed (chromIdx, peakIdx) per
// §4.1.1. Returns built=false when the seed interval collapses below
// min_peak_width or the quality score is rejected — callers discard the
// zero-intensity placeholder either way, since zeroing the consumed peaks
// already happened here (non-termination guard, §4.1.1).
func buildFeature(group *TransitionGroup, chromIdx, peakIdx int, opts Options) (Feature, bool) {
	seedChrom := &group.Chromatograms[chromIdx]
	seedPeak := &seedChrom.Picked[peakIdx]

	bestLeft, bestRight := seedPeak.Left, seedPeak.Right
	peakApex := seedPeak.RT

	if opts.ConsensusMode {
		return buildConsensusFeature(group, chromIdx, peakIdx, bestLeft, bestRight, peakApex, opts)
	}
	return buildNonConsensusFeature(group, chromIdx, peakIdx, peakApex, opts)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func buildConsensusFeature(group *TransitionGroup, seedChromIdx, seedPeakIdx int, left, right, peakApex float64, opts Options) (Feature, bool) {
	if opts.RecalculateBorders {
		left, right = recalculateBorders(group, left, right, opts.MaxZ)
	}
	peakApex = clamp(peakApex, left, right)

	// Zero-intensity all picked peaks in other chromatograms overlapping
	// the consensus window, then zero the seed itself. This must happen
	// unconditionally before the width/quality rejections below so every
	// iteration consumes at least one picked peak (§4.1.1).
	for ci := range group.Chromatograms {
		c := &group.Chromatograms[ci]
		if c.IsIdentifying {
			continue
		}
		for pi := range c.Picked {
			p := &c.Picked[pi]
			if p.zeroed {
				continue
			}
			if ci == seedChromIdx && pi == seedPeakIdx {
				continue // zeroed last, below
			}
			if peaksOverlap(p.Left, p.Right, left, right) {
				zeroPeak(p)
			}
		}
	}
	zeroPeak(&group.Chromatograms[seedChromIdx].Picked[seedPeakIdx])

	if right-left < opts.MinPeakWidth {
		return Feature{}, false
	}

	if opts.QualityScoringEnabled {
		q, outlier, _ := computeQuality(group, left, right, opts)
		if q < opts.MinQual {
			return Feature{}, false
		}
		f := integrateFeature(group, seedChromIdx, left, right, peakApex, opts)
		f.Quality = q
		f.PotentialOutlier = outlier
		return f, true
	}

	f := integrateFeature(group, seedChromIdx, left, right, peakApex, opts)
	return f, true
}

func buildNonConsensusFeature(group *TransitionGroup, seedChromIdx, seedPeakIdx int, peakApex float64, opts Options) (Feature, bool) {
	minLeft := math.Inf(1)
	maxRight := math.Inf(-1)

	// local edges per chromatogram, keyed by index, for integration to
	// restrict itself to each trace's own picked boundaries.
	localLeft := make([]float64, len(group.Chromatograms))
	localRight := make([]float64, len(group.Chromatograms))

	for ci := range group.Chromatograms {
		c := &group.Chromatograms[ci]
		if c.IsIdentifying {
			continue
		}
		pi, ok := closestToApex(c, peakApex)
		if !ok {
			continue
		}
		p := &c.Picked[pi]
		zeroPeak(p)
		localLeft[ci] = p.Left
		localRight[ci] = p.Right
		if p.Left < minLeft {
			minLeft = p.Left
		}
		if p.Right > maxRight {
			maxRight = p.Right
		}
	}

	if math.IsInf(minLeft, 1) {
		// No chromatogram had a picked peak; ensure the seed is still
		// consumed so the loop terminates.
		zeroPeak(&group.Chromatograms[seedChromIdx].Picked[seedPeakIdx])
		return Feature{}, false
	}

	if maxRight-minLeft < opts.MinPeakWidth {
		return Feature{}, false
	}

	f := integrateFeatureLocal(group, seedChromIdx, minLeft, maxRight, peakApex, localLeft, localRight, opts)
	return f, true
}

// closestToApex selects the picked, non-zeroed peak whose apex RT is
// closest to target (§4.1.1 non-consensus mode).
func closestToApex(c *Chromatogram, target float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for pi := range c.Picked {
		p := &c.Picked[pi]
		if p.zeroed || p.Intensity <= 0 {
			continue
		}
		d := math.Abs(p.RT - target)
		if d < bestDist {
			bestDist = d
			best = pi
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

func zeroPeak(p *Peak) {
	p.Intensity = 0
	p.zeroed = true
}

func peaksOverlap(aLeft, aRight, bLeft, bRight float64) bool {
	return aLeft <= bRight && bLeft <= aRight
}

// recalculateBorders implements §4.1.2: from every chromatogram's most
// intense picked peak within the current window, collect left/right
// boundaries; replace an outlier boundary (|value-mean|/stddev > MaxZ)
// with the median of the collected boundaries.
func recalculateBorders(group *TransitionGroup, left, right, maxZ float64) (float64, float64) {
	var lefts, rights []float64
	for ci := range group.Chromatograms {
		c := &group.Chromatograms[ci]
		if c.IsIdentifying {
			continue
		}
		idx, ok := mostIntenseWithin(c, left, right)
		if !ok {
			continue
		}
		lefts = append(lefts, c.Picked[idx].Left)
		rights = append(rights, c.Picked[idx].Right)
	}
	if len(lefts) < 2 {
		return left, right
	}

	newLeft := recalcOneSide(left, lefts, maxZ)
	newRight := recalcOneSide(right, rights, maxZ)
	return newLeft, newRight
}

func recalcOneSide(seedValue float64, values []float64, maxZ float64) float64 {
	m := mean(values)
	sd := stddev(values, m)
	if sd == 0 {
		return seedValue
	}
	z := math.Abs(seedValue-m) / sd
	if z > maxZ {
		return median(values)
	}
	return seedValue
}

func mostIntenseWithin(c *Chromatogram, left, right float64) (int, bool) {
	best := -1
	bestIntensity := math.Inf(-1)
	for pi := range c.Picked {
		p := &c.Picked[pi]
		if p.zeroed {
			continue
		}
		if p.RT < left || p.RT > right {
			continue
		}
		if p.Intensity > bestIntensity {
			bestIntensity = p.Intensity
			best = pi
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
