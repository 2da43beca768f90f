package mrm

import "math"

const qualityPadding = 15.0 // seconds, window +/- 15s (§4.1.3)

// computeQuality implements §4.1.3: resample all chromatograms on a
// padded grid, compute pairwise normalized cross-correlation lag/shape,
// and derive a per-feature quality score plus an optional outlier flag.
func computeQuality(group *TransitionGroup, left, right float64, opts Options) (score float64, outlierID string, mutual float64) {
	chroms := detectingChromatograms(group)
	n := len(chroms)
	if n == 0 || opts.CrossCorrelator == nil {
		return 0, "", 0
	}

	padLeft, padRight := left-qualityPadding, right+qualityPadding
	grid := buildPaddedGrid(chroms, padLeft, padRight)

	resampled := make([][]float64, n)
	for i, c := range chroms {
		resampled[i] = resampleLinear(c.RT, c.Intensity, grid)
	}

	shapes := make([]float64, n)
	coels := make([]float64, n)
	missing := 0
	for k := 0; k < n; k++ {
		var peerShapes, peerCoels []float64
		for i := 0; i < n; i++ {
			if i == k {
				continue
			}
			lag, shape := opts.CrossCorrelator(resampled[k], resampled[i])
			peerShapes = append(peerShapes, shape)
			peerCoels = append(peerCoels, math.Abs(lag))
		}
		if len(peerShapes) == 0 {
			missing++
			continue
		}
		shapes[k] = mean(peerShapes)
		coels[k] = mean(peerCoels)
	}

	meanShape := mean(shapes)
	meanCoel := mean(coels)
	score = meanShape - (meanCoel-1)/2 - float64(missing)/float64(n)

	if idx := outlierIndex(shapes, coels); idx >= 0 {
		outlierID = chroms[idx].ID
	}

	if opts.Integrator != nil {
		mutual = 0 // mutual information is computed alongside integration (§4.1.4), not here.
	}
	return score, outlierID, mutual
}

// outlierIndex returns the chromatogram index that simultaneously
// minimizes shape and maximizes coelution lag, or -1 when the argmin of
// shapes and argmax of coels disagree (no single chromatogram implicated).
func outlierIndex(shapes, coels []float64) int {
	minShapeIdx, maxCoelIdx := -1, -1
	var minShape, maxCoel float64
	for k := range shapes {
		if minShapeIdx < 0 || shapes[k] < minShape {
			minShape = shapes[k]
			minShapeIdx = k
		}
		if maxCoelIdx < 0 || coels[k] > maxCoel {
			maxCoel = coels[k]
			maxCoelIdx = k
		}
	}
	if minShapeIdx >= 0 && minShapeIdx == maxCoelIdx {
		return minShapeIdx
	}
	return -1
}

func detectingChromatograms(group *TransitionGroup) []*Chromatogram {
	var out []*Chromatogram
	for i := range group.Chromatograms {
		c := &group.Chromatograms[i]
		if c.IsIdentifying {
			continue
		}
		out = append(out, c)
	}
	return out
}

func buildPaddedGrid(chroms []*Chromatogram, left, right float64) []float64 {
	if len(chroms) == 0 {
		return []float64{left, right}
	}
	return buildMasterGrid(*chroms[0], left, right)
}
