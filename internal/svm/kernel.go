package svm

import "math"

// Residue is one (position, letter class) pair of a biosequence, as fed to
// the oligo kernel (§4.3.1).
type Residue struct {
	Position int
	Class    int
}

// GaussTable holds a precomputed Gaussian window indexed by position
// distance, gauss_table[i] = exp(-i^2 / (4*sigma^2)), truncated at
// borderLength (distances beyond it contribute nothing).
type GaussTable struct {
	sigma        float64
	borderLength int
	values       []float64
}

// NewGaussTable builds the table for the given border length and sigma.
func NewGaussTable(borderLength int, sigma float64) *GaussTable {
	t := &GaussTable{sigma: sigma, borderLength: borderLength}
	t.rebuild()
	return t
}

func (g *GaussTable) rebuild() {
	g.values = make([]float64, g.borderLength+1)
	denom := 4 * g.sigma * g.sigma
	for i := range g.values {
		g.values[i] = math.Exp(-float64(i*i) / denom)
	}
}

// Resize recomputes the table only if borderLength changed, matching
// train()'s "recompute the Gauss table if border_length changed" rule
// (§4.3.3).
func (g *GaussTable) Resize(borderLength int) {
	if borderLength == g.borderLength {
		return
	}
	g.borderLength = borderLength
	g.rebuild()
}

func (g *GaussTable) at(distance int) (float64, bool) {
	if distance < 0 || distance > g.borderLength {
		return 0, false
	}
	return g.values[distance], true
}

// OligoKernel computes the position-weighted, class-matched similarity
// between two sequences of residues via a two-pointer walk (§4.3.1). Both
// sequences must be ordered by Class ascending (by Position within a
// class): the walk advances by class, so same-class residues separated by
// a different class are not all paired. The result is symmetric:
// OligoKernel(a, b, ...) == OligoKernel(b, a, ...).
func OligoKernel(a, b []Residue, table *GaussTable, maxDistance int) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Class < b[j].Class:
			i++
		case a[i].Class > b[j].Class:
			j++
		default:
			// Same class: enumerate every position pair within this
			// class run on both sides before advancing past it.
			classVal := a[i].Class
			iEnd := i
			for iEnd < len(a) && a[iEnd].Class == classVal {
				iEnd++
			}
			jEnd := j
			for jEnd < len(b) && b[jEnd].Class == classVal {
				jEnd++
			}
			for x := i; x < iEnd; x++ {
				for y := j; y < jEnd; y++ {
					dist := a[x].Position - b[y].Position
					if dist < 0 {
						dist = -dist
					}
					if dist > maxDistance {
						continue
					}
					if w, ok := table.at(dist); ok {
						sum += w
					}
				}
			}
			i, j = iEnd, jEnd
		}
	}
	return sum
}
