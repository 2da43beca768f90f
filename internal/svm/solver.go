package svm

import "math"

// QMatrix supplies rows of the Hessian Q_ij = y_i*y_j*K(x_i,x_j) (or the
// unsigned kernel, for one-class) on demand; kernel rows are computed
// lazily rather than materializing the full n x n matrix up front.
type QMatrix interface {
	Row(i int) []float64
	Diagonal(i int) float64
	Len() int
}

// solver is a small two-variable working-set SMO optimizer solving
//
//	minimize   0.5 * alpha' Q alpha + p' alpha
//	subject to y' alpha = target,  0 <= alpha_i <= cost[i]
//
// This is the same decomposition method libsvm uses for every SVM
// formulation; the different formulations (C-SVC, one-class, epsilon-SVR)
// differ only in how Q, p, y, cost and target are constructed, not in the
// iteration below.
type solver struct {
	q      QMatrix
	p      []float64
	y      []float64
	cost   []float64
	target float64
	eps    float64

	alpha []float64
	grad  []float64
}

func newSolver(q QMatrix, p, y, cost []float64, target, eps float64) *solver {
	n := q.Len()
	s := &solver{q: q, p: p, y: y, cost: cost, target: target, eps: eps,
		alpha: make([]float64, n), grad: make([]float64, n)}
	copy(s.grad, p)
	return s
}

// solve runs decomposition to convergence (bounded by maxIter as a
// safety backstop against pathological inputs) and returns the dual
// variables alpha and the resulting bias rho.
func (s *solver) solve(maxIter int) ([]float64, float64) {
	n := s.q.Len()
	if n == 0 {
		return s.alpha, 0
	}

	for iter := 0; iter < maxIter; iter++ {
		i, j, gap := s.selectWorkingSet()
		if i < 0 || gap < s.eps {
			break
		}
		s.updatePair(i, j)
	}

	return s.alpha, s.computeRho()
}

// selectWorkingSet picks the maximal-violating-pair (i,j): i maximizes
// -y_i*grad_i among "up" indices, j minimizes the second-order-corrected
// objective among "low" indices, following the standard SMO heuristic.
func (s *solver) selectWorkingSet() (int, int, float64) {
	n := len(s.alpha)
	gMax := math.Inf(-1)
	gMin := math.Inf(1)
	iSel := -1

	for t := 0; t < n; t++ {
		if s.isUp(t) {
			v := -s.y[t] * s.grad[t]
			if v > gMax {
				gMax = v
				iSel = t
			}
		}
	}
	if iSel < 0 {
		return -1, -1, 0
	}

	jSel := -1
	objMin := math.Inf(1)
	qi := s.q.Row(iSel)
	for t := 0; t < n; t++ {
		if !s.isLow(t) {
			continue
		}
		v := -s.y[t] * s.grad[t]
		if v < gMin {
			gMin = v
		}
		b := gMax - v
		if b <= 0 {
			continue
		}
		qii := s.q.Diagonal(iSel)
		qjj := s.q.Diagonal(t)
		qij := qi[t]
		denom := qii + qjj - 2*s.y[iSel]*s.y[t]*qij
		if denom <= 0 {
			denom = 1e-12
		}
		obj := -(b * b) / denom
		if obj < objMin {
			objMin = obj
			jSel = t
		}
	}

	return iSel, jSel, gMax - gMin
}

func (s *solver) isUp(i int) bool {
	if s.y[i] > 0 {
		return s.alpha[i] < s.cost[i]
	}
	return s.alpha[i] > 0
}

func (s *solver) isLow(i int) bool {
	if s.y[i] > 0 {
		return s.alpha[i] > 0
	}
	return s.alpha[i] < s.cost[i]
}

func (s *solver) updatePair(i, j int) {
	qi := s.q.Row(i)
	qj := s.q.Row(j)
	qii := s.q.Diagonal(i)
	qjj := s.q.Diagonal(j)
	qij := qi[j]

	oldAI, oldAJ := s.alpha[i], s.alpha[j]

	if s.y[i] != s.y[j] {
		quadCoef := qii + qjj + 2*qij
		if quadCoef <= 0 {
			quadCoef = 1e-12
		}
		delta := (-s.grad[i] - s.grad[j]) / quadCoef
		diff := s.alpha[i] - s.alpha[j]
		s.alpha[i] += delta
		s.alpha[j] += delta

		if diff > 0 {
			if s.alpha[j] < 0 {
				s.alpha[j] = 0
				s.alpha[i] = diff
			}
		} else {
			if s.alpha[i] < 0 {
				s.alpha[i] = 0
				s.alpha[j] = -diff
			}
		}
		if diff > s.cost[i]-s.cost[j] {
			if s.alpha[i] > s.cost[i] {
				s.alpha[i] = s.cost[i]
				s.alpha[j] = s.cost[i] - diff
			}
		} else {
			if s.alpha[j] > s.cost[j] {
				s.alpha[j] = s.cost[j]
				s.alpha[i] = s.cost[j] + diff
			}
		}
	} else {
		quadCoef := qii + qjj - 2*qij
		if quadCoef <= 0 {
			quadCoef = 1e-12
		}
		delta := (s.grad[i] - s.grad[j]) / quadCoef
		sum := s.alpha[i] + s.alpha[j]
		s.alpha[i] -= delta
		s.alpha[j] += delta

		if sum > s.cost[i] {
			if s.alpha[i] > s.cost[i] {
				s.alpha[i] = s.cost[i]
				s.alpha[j] = sum - s.cost[i]
			}
		} else {
			if s.alpha[j] < 0 {
				s.alpha[j] = 0
				s.alpha[i] = sum
			}
		}
		if sum > s.cost[j] {
			if s.alpha[j] > s.cost[j] {
				s.alpha[j] = s.cost[j]
				s.alpha[i] = sum - s.cost[j]
			}
		} else {
			if s.alpha[i] < 0 {
				s.alpha[i] = 0
				s.alpha[j] = sum
			}
		}
	}

	deltaAI := s.alpha[i] - oldAI
	deltaAJ := s.alpha[j] - oldAJ
	for t := range s.grad {
		s.grad[t] += qi[t]*deltaAI + qj[t]*deltaAJ
	}
}

func (s *solver) computeRho() float64 {
	var upperSum, upperCount, lowerSum, lowerCount float64
	var freeSum float64
	var freeCount int

	for i := range s.alpha {
		yg := s.y[i] * s.grad[i]
		if s.alpha[i] > 1e-8 && s.alpha[i] < s.cost[i]-1e-8 {
			freeSum += yg
			freeCount++
			continue
		}
		if s.isUp(i) {
			upperSum += yg
			upperCount++
		}
		if s.isLow(i) {
			lowerSum += yg
			lowerCount++
		}
	}

	if freeCount > 0 {
		return freeSum / float64(freeCount)
	}
	if upperCount == 0 || lowerCount == 0 {
		return 0
	}
	return (upperSum/upperCount + lowerSum/lowerCount) / 2
}
