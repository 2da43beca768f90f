package svm

import "math"

// SVCProbabilities fits a Platt-scaling sigmoid P(y=1|f) = 1/(1+exp(A*f+B))
// over the model's decision values on the training set and returns
// calibrated probabilities for problem (§4.3.3 "getSVCProbabilities").
// When the model's first (positive) label sorts as the numerically
// smaller/negative one, the sign convention is inverted so probabilities
// still track "probability of the positive label" rather than "probability
// of decision-value-positive".
func SVCProbabilities(m *Model, trainProblem Problem, trainLabels []float64, problem Problem) []float64 {
	deviations := make([]float64, len(trainProblem.Samples))
	for i, s := range trainProblem.Samples {
		deviations[i] = m.Decision(s)
	}

	invert := m.Labels[0] < m.Labels[1]
	if invert {
		for i := range deviations {
			deviations[i] = -deviations[i]
		}
	}

	a, b := plattFit(deviations, trainLabels, m.Labels, invert)

	probs := make([]float64, len(problem.Samples))
	for i, s := range problem.Samples {
		f := m.Decision(s)
		if invert {
			f = -f
		}
		probs[i] = 1 / (1 + math.Exp(a*f+b))
	}
	return probs
}

// plattFit implements the standard libsvm sigmoid-fitting Newton method
// (Lin, Lin & Weng, "A Note on Platt's Probabilistic Outputs for SVMs").
func plattFit(decisions, labels []float64, svmLabels [2]float64, invert bool) (float64, float64) {
	n := len(decisions)
	pos, neg := svmLabels[0], svmLabels[1]
	if invert {
		pos, neg = neg, pos
	}

	var nPos, nNeg float64
	target := make([]float64, n)
	for _, l := range labels {
		if l == pos {
			nPos++
		} else {
			nNeg++
		}
		_ = l
	}
	hiTarget := (nPos + 1) / (nPos + 2)
	loTarget := 1 / (nNeg + 2)
	for i, l := range labels {
		if l == pos {
			target[i] = hiTarget
		} else {
			target[i] = loTarget
		}
	}

	a, b := 0.0, math.Log((nNeg+1)/(nPos+1))
	const maxIter = 100
	const minStep = 1e-10
	const sigma = 1e-12
	fval := 0.0
	for i := 0; i < n; i++ {
		fApB := decisions[i]*a + b
		if fApB >= 0 {
			fval += target[i]*fApB + math.Log(1+math.Exp(-fApB))
		} else {
			fval += (target[i]-1)*fApB + math.Log(1+math.Exp(fApB))
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		h11, h22, h21 := sigma, sigma, 0.0
		g1, g2 := 0.0, 0.0
		for i := 0; i < n; i++ {
			fApB := decisions[i]*a + b
			var p, q float64
			if fApB >= 0 {
				p = math.Exp(-fApB) / (1 + math.Exp(-fApB))
				q = 1 / (1 + math.Exp(-fApB))
			} else {
				p = 1 / (1 + math.Exp(fApB))
				q = math.Exp(fApB) / (1 + math.Exp(fApB))
			}
			d2 := p * q
			h11 += decisions[i] * decisions[i] * d2
			h22 += d2
			h21 += decisions[i] * d2
			d1 := target[i] - p
			g1 += decisions[i] * d1
			g2 += d1
		}
		if math.Abs(g1) < 1e-5 && math.Abs(g2) < 1e-5 {
			break
		}

		det := h11*h22 - h21*h21
		if det == 0 {
			break
		}
		dA := -(h22*g1 - h21*g2) / det
		dB := -(-h21*g1 + h11*g2) / det
		gd := g1*dA + g2*dB

		stepsize := 1.0
		for stepsize >= minStep {
			newA := a + stepsize*dA
			newB := b + stepsize*dB
			newF := 0.0
			for i := 0; i < n; i++ {
				fApB := decisions[i]*newA + newB
				if fApB >= 0 {
					newF += target[i]*fApB + math.Log(1+math.Exp(-fApB))
				} else {
					newF += (target[i]-1)*fApB + math.Log(1+math.Exp(fApB))
				}
			}
			if newF < fval+1e-4*stepsize*gd {
				a, b, fval = newA, newB, newF
				break
			}
			stepsize /= 2
		}
		if stepsize < minStep {
			break
		}
	}

	return a, b
}
