package svm

import (
	"math"
	"math/rand"
	"sort"
)

// GridParam names a parameter varied during grid search (§4.3.4).
type GridParam string

const (
	GridC      GridParam = "C"
	GridGamma  GridParam = "gamma"
	GridNu     GridParam = "nu"
	GridP      GridParam = "p"
	GridDegree GridParam = "degree"
	GridCoef0  GridParam = "coef0"
	GridSigma  GridParam = "sigma"
)

// GridAxis describes one dimension of the search: the inclusive range
// [Start, End] stepped by StepSize, either additively (v' = v + step) or
// multiplicatively (v' = v * step), per §4.3.4.
type GridAxis struct {
	Start      float64
	StepSize   float64
	End        float64
	Multiplied bool
}

// gridTolerance is the "end + 1e-4" cutoff from §4.3.4.
const gridTolerance = 1e-4

func applyGridParam(params *Parameters, key GridParam, value float64) {
	switch key {
	case GridC:
		params.C = value
	case GridGamma:
		params.Gamma = value
	case GridNu:
		params.Nu = value
	case GridP:
		params.P = value
	case GridDegree:
		params.Degree = int(value)
	case GridCoef0:
		params.Coef0 = value
	case GridSigma:
		params.Sigma = value
	}
}

// grid walks an n-dimensional parameter grid in row-major order over a
// fixed, sorted key ordering.
type grid struct {
	keys   []GridParam
	axes   map[GridParam]GridAxis
	values map[GridParam]float64
	done   bool
}

func newGrid(axes map[GridParam]GridAxis) *grid {
	keys := make([]GridParam, 0, len(axes))
	values := make(map[GridParam]float64, len(axes))
	for k, a := range axes {
		keys = append(keys, k)
		values[k] = a.Start
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &grid{keys: keys, axes: axes, values: values}
}

func (g *grid) current() map[GridParam]float64 {
	out := make(map[GridParam]float64, len(g.values))
	for k, v := range g.values {
		out[k] = v
	}
	return out
}

// size returns the total number of cells the grid will visit.
func (g *grid) size() int {
	total := 1
	for _, k := range g.keys {
		a := g.axes[k]
		total *= axisSteps(a)
	}
	return total
}

func axisSteps(a GridAxis) int {
	if a.StepSize == 0 {
		return 1
	}
	n := 1
	v := a.Start
	for {
		var next float64
		if a.Multiplied {
			next = v * a.StepSize
		} else {
			next = v + a.StepSize
		}
		if next > a.End+gridTolerance {
			break
		}
		v = next
		n++
		if n > 1_000_000 {
			break // pathological axis guard
		}
	}
	return n
}

// next advances the lowest-index parameter by its step, cascading
// (carrying) into higher-index parameters when the step would exceed
// end+tolerance, per §4.3.4. Returns false once the grid is exhausted.
func (g *grid) next() bool {
	if g.done {
		return false
	}
	for _, k := range g.keys {
		a := g.axes[k]
		var candidate float64
		if a.Multiplied {
			candidate = g.values[k] * a.StepSize
		} else {
			candidate = g.values[k] + a.StepSize
		}
		if candidate <= a.End+gridTolerance {
			g.values[k] = candidate
			return true
		}
		g.values[k] = a.Start
	}
	g.done = true
	return false
}

// CVConfig configures cross-validated grid search (§4.3.4).
type CVConfig struct {
	Runs                 int
	Partitions           int
	AdditiveStepSizes    bool // informational: callers set GridAxis.Multiplied directly
	MCCAsPerformanceMeasure bool
}

// CVResult is the outcome of a grid search.
type CVResult struct {
	BestParams      map[GridParam]float64
	BestPerformance float64
}

// ProgressFunc reports grid-search progress as (completed, total) cell
// evaluations, where total = grid-cells * runs * partitions (§4.3.4).
type ProgressFunc func(completed, total int)

// GridSearchCV performs k-fold cross-validated grid search over axes,
// returning the cell with maximum averaged performance (§4.3.4).
func GridSearchCV(problem Problem, base Parameters, axes map[GridParam]GridAxis, cfg CVConfig, progress ProgressFunc) CVResult {
	g := newGrid(axes)
	cellCount := g.size()
	total := cellCount * cfg.Runs * cfg.Partitions
	completed := 0

	sums := make([]float64, cellCount)
	counts := make([]int, cellCount)
	cellParams := make([]map[GridParam]float64, 0, cellCount)

	for run := 0; run < cfg.Runs; run++ {
		folds := randomPartition(len(problem.Samples), cfg.Partitions)

		g2 := newGrid(axes)
		cellIdx := 0
		for {
			values := g2.current()
			if run == 0 {
				cellParams = append(cellParams, values)
			}
			params := base
			for k, v := range values {
				applyGridParam(&params, k, v)
			}

			var foldPerf float64
			for p := 0; p < cfg.Partitions; p++ {
				train, test := splitFold(problem, folds, p)
				perf := evaluateFold(train, test, params, cfg.MCCAsPerformanceMeasure)
				foldPerf += perf
				completed++
				if progress != nil {
					progress(completed, total)
				}
			}
			foldPerf /= float64(cfg.Partitions)

			sums[cellIdx] += foldPerf
			counts[cellIdx]++
			cellIdx++

			if !g2.next() {
				break
			}
		}
	}

	bestIdx, bestPerf := 0, math.Inf(-1)
	for i, s := range sums {
		if counts[i] == 0 {
			continue
		}
		avg := s / float64(counts[i])
		if avg > bestPerf {
			bestPerf = avg
			bestIdx = i
		}
	}

	return CVResult{BestParams: cellParams[bestIdx], BestPerformance: bestPerf}
}

func randomPartition(n, k int) []int {
	fold := make([]int, n)
	perm := rand.Perm(n)
	for i, idx := range perm {
		fold[idx] = i % k
	}
	return fold
}

func splitFold(problem Problem, folds []int, heldOut int) (train, test Problem) {
	for i, s := range problem.Samples {
		if folds[i] == heldOut {
			test.Samples = append(test.Samples, s)
		} else {
			train.Samples = append(train.Samples, s)
		}
	}
	return train, test
}

func evaluateFold(train, test Problem, params Parameters, useMCC bool) float64 {
	if len(train.Samples) == 0 || len(test.Samples) == 0 {
		return 0
	}
	model, err := Train(train, params, nil)
	if err != nil {
		return 0
	}

	switch params.Type {
	case CSVC, NuSVC:
		if useMCC {
			return matthewsCorrelation(model, test)
		}
		return classificationRate(model, test)
	default:
		return pearsonCorrelation(model, test)
	}
}

func classificationRate(m *Model, test Problem) float64 {
	correct := 0
	for _, s := range test.Samples {
		if Predict(m, s) == s.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(test.Samples))
}

func matthewsCorrelation(m *Model, test Problem) float64 {
	var tp, tn, fp, fn float64
	pos := m.Labels[0]
	for _, s := range test.Samples {
		pred := Predict(m, s)
		actualPos := s.Label == pos
		predPos := pred == pos
		switch {
		case actualPos && predPos:
			tp++
		case !actualPos && !predPos:
			tn++
		case !actualPos && predPos:
			fp++
		default:
			fn++
		}
	}
	num := tp*tn - fp*fn
	denom := math.Sqrt((tp + fp) * (tp + fn) * (tn + fp) * (tn + fn))
	if denom == 0 {
		return 0
	}
	return num / denom
}

func pearsonCorrelation(m *Model, test Problem) float64 {
	n := len(test.Samples)
	if n < 2 {
		return 0
	}
	actual := make([]float64, n)
	predicted := make([]float64, n)
	for i, s := range test.Samples {
		actual[i] = s.Label
		predicted[i] = Predict(m, s)
	}
	return pearson(actual, predicted)
}

func pearson(a, b []float64) float64 {
	n := float64(len(a))
	var sumA, sumB, sumAB, sumA2, sumB2 float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
		sumAB += a[i] * b[i]
		sumA2 += a[i] * a[i]
		sumB2 += b[i] * b[i]
	}
	num := n*sumAB - sumA*sumB
	denom := math.Sqrt((n*sumA2-sumA*sumA)*(n*sumB2-sumB*sumB))
	if denom == 0 {
		return 0
	}
	return num / denom
}
