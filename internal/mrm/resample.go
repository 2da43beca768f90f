package mrm

import (
	"math"
	"sort"
)

// buildMasterGrid constructs the resampling grid spanning [left,right],
// copying positions of the reference chromatogram (the one the seed came
// from) with one extra point on each side (§4.1.1 "Resampling container").
func buildMasterGrid(ref Chromatogram, left, right float64) []float64 {
	var grid []float64
	step := medianStep(ref.RT)
	for _, rt := range ref.RT {
		if rt >= left && rt <= right {
			grid = append(grid, rt)
		}
	}
	if len(grid) == 0 {
		// Reference chromatogram has no points in range; fall back to a
		// uniform grid using its typical spacing.
		if step <= 0 {
			step = 1
		}
		for rt := left; rt <= right; rt += step {
			grid = append(grid, rt)
		}
		if len(grid) == 0 {
			grid = []float64{left, right}
		}
	}
	if grid[0] > left {
		pre := grid[0] - step
		grid = append([]float64{pre}, grid...)
	}
	if grid[len(grid)-1] < right {
		post := grid[len(grid)-1] + step
		grid = append(grid, post)
	}
	return grid
}

func medianStep(rt []float64) float64 {
	if len(rt) < 2 {
		return 0
	}
	steps := make([]float64, 0, len(rt)-1)
	for i := 1; i < len(rt); i++ {
		steps = append(steps, rt[i]-rt[i-1])
	}
	sort.Float64s(steps)
	return steps[len(steps)/2]
}

// resampleLinear linearly interpolates y(x) at each point of grid.
func resampleLinear(x, y, grid []float64) []float64 {
	out := make([]float64, len(grid))
	if len(x) == 0 {
		return out
	}
	j := 0
	for i, g := range grid {
		for j < len(x)-2 && x[j+1] < g {
			j++
		}
		out[i] = interpAt(x, y, g, j)
	}
	return out
}

func interpAt(x, y []float64, g float64, j int) float64 {
	if len(x) == 1 {
		return y[0]
	}
	if g <= x[0] {
		return y[0]
	}
	if g >= x[len(x)-1] {
		return y[len(y)-1]
	}
	x0, x1 := x[j], x[j+1]
	if x1 == x0 {
		return y[j]
	}
	t := (g - x0) / (x1 - x0)
	return y[j] + t*(y[j+1]-y[j])
}

// sliceWindow returns the subset of (x,y) within [left,right], inclusive.
func sliceWindow(x, y []float64, left, right float64) ([]float64, []float64) {
	var ox, oy []float64
	for i, v := range x {
		if v >= left && v <= right {
			ox = append(ox, v)
			oy = append(oy, y[i])
		}
	}
	return ox, oy
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func stddev(v []float64, m float64) float64 {
	if len(v) < 2 {
		return 0
	}
	var s float64
	for _, x := range v {
		d := x - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(v)-1))
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	c := append([]float64(nil), v...)
	sort.Float64s(c)
	n := len(c)
	if n%2 == 1 {
		return c[n/2]
	}
	return (c[n/2-1] + c[n/2]) / 2
}
