package svm

import "math"

// Model is a trained support vector machine: the support vectors
// (referenced by training-set index), their dual coefficients, and the
// decision-function bias.
type Model struct {
	Params  Parameters
	SVIndex []int
	SVCoef  []float64
	Rho     float64
	Labels  [2]float64 // [positive label, negative label], for CSVC/NuSVC

	// training data retained for prediction (dense feature kernels need
	// the raw vectors; oligo kernel needs the raw sequences).
	trainSequences [][]Residue
	trainFeatures  [][]float64

	table *GaussTable
}

func kernelValue(params Parameters, table *GaussTable, a, b Sample) float64 {
	if params.Kernel == Oligo {
		return OligoKernel(a.Sequence, b.Sequence, table, params.MaxDistance)
	}
	return denseKernel(params, a.Features, b.Features)
}

func denseKernel(params Parameters, a, b []float64) float64 {
	switch params.Kernel {
	case Linear:
		return dot(a, b)
	case Poly:
		return math.Pow(params.Gamma*dot(a, b)+params.Coef0, float64(params.Degree))
	case RBF:
		return math.Exp(-params.Gamma * sqDist(a, b))
	case Sigmoid:
		return math.Tanh(params.Gamma*dot(a, b) + params.Coef0)
	default:
		return dot(a, b)
	}
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var s float64
	for i := 0; i < n; i++ {
		s += a[i] * b[i]
	}
	return s
}

func sqDist(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var s float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
