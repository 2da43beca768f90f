package svm

import (
	apperrors "github.com/msplatform/mscore/internal/errors"
)

const defaultMaxIter = 10000

// Train verifies parameters, recomputes the Gauss table if border_length
// changed, and dispatches to the solver appropriate for params.Type
// (§4.3.3 "train(problem)").
func Train(problem Problem, params Parameters, table *GaussTable) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Kernel == Oligo {
		if table == nil {
			table = NewGaussTable(params.BorderLength, params.Sigma)
		} else {
			table.Resize(params.BorderLength)
		}
	}

	switch params.Type {
	case CSVC, NuSVC:
		return trainClassifier(problem, params, table)
	case OneClass:
		return trainOneClass(problem, params, table)
	case EpsilonSVR, NuSVR:
		return trainRegressor(problem, params, table)
	default:
		return nil, apperrors.E(apperrors.Op("svm.Train"), apperrors.KindInvalidValue, "unknown svm type")
	}
}

func trainClassifier(problem Problem, params Parameters, table *GaussTable) (*Model, error) {
	const op = apperrors.Op("svm.trainClassifier")
	samples := problem.Samples
	if len(samples) < 2 {
		return nil, apperrors.E(op, apperrors.KindMissingInfo, "need at least two training samples")
	}

	pos, neg := samples[0].Label, 0.0
	haveNeg := false
	for _, s := range samples {
		if s.Label != pos {
			neg = s.Label
			haveNeg = true
			break
		}
	}
	if !haveNeg {
		return nil, apperrors.E(op, apperrors.KindInvalidValue, "training set has only one class")
	}

	y := make([]float64, len(samples))
	for i, s := range samples {
		if s.Label == pos {
			y[i] = 1
		} else {
			y[i] = -1
		}
	}

	c := params.C
	if params.Type == NuSVC {
		// Approximate nu-SVC by the standard nu-to-cost heuristic and
		// delegate to the same single-constraint solver as C-SVC; this
		// does not reproduce libsvm's exact two-constraint nu-SVC
		// formulation.
		c = 1 / (params.Nu * float64(len(samples)))
	}

	p := make([]float64, len(samples))
	cost := make([]float64, len(samples))
	for i := range samples {
		p[i] = -1
		cost[i] = c
	}

	q := newSVCQ(samples, params, table, y)
	s := newSolver(q, p, y, cost, 0, params.Eps)
	alpha, rho := s.solve(defaultMaxIter)

	m := &Model{Params: params, Rho: rho, Labels: [2]float64{pos, neg}, table: table}
	for i, a := range alpha {
		if a > 1e-8 {
			m.SVIndex = append(m.SVIndex, i)
			m.SVCoef = append(m.SVCoef, a*y[i])
		}
	}
	storeTrainingData(m, samples)
	return m, nil
}

func trainOneClass(problem Problem, params Parameters, table *GaussTable) (*Model, error) {
	const op = apperrors.Op("svm.trainOneClass")
	samples := problem.Samples
	if len(samples) < 1 {
		return nil, apperrors.E(op, apperrors.KindMissingInfo, "need at least one training sample")
	}

	n := len(samples)
	y := make([]float64, n)
	p := make([]float64, n)
	cost := make([]float64, n)
	nuTimesL := params.Nu * float64(n)
	for i := range samples {
		y[i] = 1
		p[i] = 0
		cost[i] = 1
	}

	q := newOneClassQ(samples, params, table)
	s := newSolver(q, p, y, cost, nuTimesL, params.Eps)
	alpha, rho := s.solve(defaultMaxIter)

	m := &Model{Params: params, Rho: rho, table: table}
	for i, a := range alpha {
		if a > 1e-8 {
			m.SVIndex = append(m.SVIndex, i)
			m.SVCoef = append(m.SVCoef, a)
		}
	}
	storeTrainingData(m, samples)
	return m, nil
}

func trainRegressor(problem Problem, params Parameters, table *GaussTable) (*Model, error) {
	const op = apperrors.Op("svm.trainRegressor")
	samples := problem.Samples
	l := len(samples)
	if l < 1 {
		return nil, apperrors.E(op, apperrors.KindMissingInfo, "need at least one training sample")
	}

	epsilon := params.P
	c := params.C
	if params.Type == NuSVR {
		// Same documented simplification as NuSVC: approximate nu-SVR
		// with an epsilon-SVR solve using a heuristically derived tube
		// width instead of libsvm's dynamic nu-constrained search.
		epsilon = params.Nu * params.C
	}

	y := make([]float64, 2*l)
	p := make([]float64, 2*l)
	cost := make([]float64, 2*l)
	for i := 0; i < l; i++ {
		y[i] = 1
		y[i+l] = -1
		p[i] = epsilon - samples[i].Label
		p[i+l] = epsilon + samples[i].Label
		cost[i] = c
		cost[i+l] = c
	}

	q := newSVRQ(samples, params, table)
	s := newSolver(q, p, y, cost, 0, params.Eps)
	alpha, rho := s.solve(defaultMaxIter)

	m := &Model{Params: params, Rho: rho, table: table}
	for i := 0; i < l; i++ {
		coef := alpha[i] - alpha[i+l]
		if coef > 1e-8 || coef < -1e-8 {
			m.SVIndex = append(m.SVIndex, i)
			m.SVCoef = append(m.SVCoef, coef)
		}
	}
	storeTrainingData(m, samples)
	return m, nil
}

func storeTrainingData(m *Model, samples []Sample) {
	if m.Params.Kernel == Oligo {
		seqs := make([][]Residue, len(samples))
		for i, s := range samples {
			seqs[i] = s.Sequence
		}
		m.trainSequences = seqs
		return
	}
	feats := make([][]float64, len(samples))
	for i, s := range samples {
		feats[i] = s.Features
	}
	m.trainFeatures = feats
}

// Decision evaluates the raw decision function sum(alpha_i*y_i*K(sv_i,x))
// - rho for a single sample.
func (m *Model) Decision(sample Sample) float64 {
	var sum float64
	for k, idx := range m.SVIndex {
		var sv Sample
		if m.Params.Kernel == Oligo {
			sv = Sample{Sequence: m.trainSequences[idx]}
		} else {
			sv = Sample{Features: m.trainFeatures[idx]}
		}
		sum += m.SVCoef[k] * kernelValue(m.Params, m.table, sv, sample)
	}
	return sum - m.Rho
}

// Predict applies the model to a single sample: the raw decision value
// for regression/one-class, or the predicted label for classification.
func Predict(m *Model, sample Sample) float64 {
	d := m.Decision(sample)
	switch m.Params.Type {
	case CSVC, NuSVC:
		if d > 0 {
			return m.Labels[0]
		}
		return m.Labels[1]
	case OneClass:
		if d > 0 {
			return 1
		}
		return -1
	default:
		return d
	}
}

// PredictBatch computes the kernel matrix of problem x training set and
// applies Predict per row (§4.3.3 "predict(problem) computes the kernel
// matrix of problem x training_set").
func PredictBatch(m *Model, problem Problem) []float64 {
	out := make([]float64, len(problem.Samples))
	for i, s := range problem.Samples {
		out[i] = Predict(m, s)
	}
	return out
}
