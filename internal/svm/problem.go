package svm

import (
	apperrors "github.com/msplatform/mscore/internal/errors"
)

// Type selects the learning task (§4.3 "binary classification, one-class,
// or epsilon/nu-regression").
type Type int

const (
	CSVC Type = iota
	NuSVC
	OneClass
	EpsilonSVR
	NuSVR
)

// KernelKind selects the kernel function. Oligo routes through the
// precomputed biosequence kernel (§4.3.1); the others are standard SVM
// kernels evaluated directly on dense feature vectors.
type KernelKind int

const (
	Linear KernelKind = iota
	Poly
	RBF
	Sigmoid
	Oligo
)

// Parameters configures training, mirroring libsvm's parameter struct plus
// the oligo-kernel-specific fields (§4.3.1, §4.3.3).
type Parameters struct {
	Type   Type
	Kernel KernelKind

	Degree int
	Gamma  float64
	Coef0  float64

	C   float64 // C-SVC, epsilon-SVR, nu-SVR cost
	Nu  float64 // nu-SVC, one-class, nu-SVR
	P   float64 // epsilon-SVR tube width
	Eps float64 // stopping tolerance

	BorderLength int     // oligo kernel: max position distance retained
	MaxDistance  int     // oligo kernel: walk cutoff
	Sigma        float64 // oligo kernel: Gaussian width
}

// DefaultParameters returns libsvm-style defaults.
func DefaultParameters() Parameters {
	return Parameters{
		Type:         CSVC,
		Kernel:       RBF,
		Degree:       3,
		Gamma:        0,
		Coef0:        0,
		C:            1,
		Nu:           0.5,
		P:            0.1,
		Eps:          1e-3,
		BorderLength: 50,
		MaxDistance:  50,
		Sigma:        2.0,
	}
}

// Sample is one labeled training example. For Oligo kernels, Sequence
// carries the ordered residue list and Features is unused; for the dense
// kernels it is the other way around.
type Sample struct {
	Label    float64
	Sequence []Residue
	Features []float64
}

// Problem is a training or prediction set.
type Problem struct {
	Samples []Sample
}

func (p Problem) sequences() [][]Residue {
	seqs := make([][]Residue, len(p.Samples))
	for i, s := range p.Samples {
		seqs[i] = s.Sequence
	}
	return seqs
}

// Validate checks parameter/problem consistency (§4.3.3 "train(problem)
// verifies parameters").
func (params Parameters) Validate() error {
	const op = apperrors.Op("svm.Validate")
	if params.Kernel == Oligo {
		if params.BorderLength <= 0 {
			return apperrors.E(op, apperrors.KindInvalidValue, "oligo kernel requires positive border_length")
		}
		if params.Sigma <= 0 {
			return apperrors.E(op, apperrors.KindInvalidValue, "oligo kernel requires positive sigma")
		}
	}
	switch params.Type {
	case CSVC, EpsilonSVR, NuSVR:
		if params.C <= 0 {
			return apperrors.E(op, apperrors.KindInvalidValue, "C must be positive")
		}
	case NuSVC, OneClass:
		if params.Nu <= 0 || params.Nu > 1 {
			return apperrors.E(op, apperrors.KindInvalidValue, "nu must be in (0,1]")
		}
	}
	if params.Eps <= 0 {
		return apperrors.E(op, apperrors.KindInvalidValue, "eps must be positive")
	}
	return nil
}
