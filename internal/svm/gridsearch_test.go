package svm

import "testing"

// TestGridExhaustiveness implements §8 testable property 2: the grid
// visits exactly the number of cells its axis bounds imply.
func TestGridExhaustiveness(t *testing.T) {
	axes := map[GridParam]GridAxis{
		GridC:     {Start: 1, StepSize: 1, End: 3, Multiplied: false},  // 1,2,3 -> 3
		GridGamma: {Start: 0.1, StepSize: 2, End: 0.5, Multiplied: true}, // 0.1,0.2,0.4 -> 3 (0.8 > 0.5+tol)
	}
	g := newGrid(axes)
	want := g.size()

	visited := 0
	for {
		visited++
		if !g.next() {
			break
		}
	}
	if visited != want {
		t.Errorf("grid visited %d cells, size() reported %d", visited, want)
	}
}

func TestGridSingleAxis(t *testing.T) {
	axes := map[GridParam]GridAxis{
		GridC: {Start: 1, StepSize: 1, End: 1, Multiplied: false},
	}
	g := newGrid(axes)
	if g.size() != 1 {
		t.Errorf("single-cell axis should report size 1, got %d", g.size())
	}
	if g.next() {
		t.Error("expected no further cells after the only one")
	}
}

func TestGridCascadeCarry(t *testing.T) {
	axes := map[GridParam]GridAxis{
		GridC:     {Start: 1, StepSize: 1, End: 2, Multiplied: false}, // 2 values
		GridGamma: {Start: 1, StepSize: 1, End: 2, Multiplied: false}, // 2 values
	}
	g := newGrid(axes)
	seen := make(map[[2]float64]bool)
	for {
		v := g.current()
		seen[[2]float64{v[GridC], v[GridGamma]}] = true
		if !g.next() {
			break
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct cells from 2x2 grid, got %d: %+v", len(seen), seen)
	}
}

func TestClassificationRateSeparableData(t *testing.T) {
	train := Problem{Samples: []Sample{
		{Label: 1, Features: []float64{1, 1}},
		{Label: 1, Features: []float64{1, 2}},
		{Label: -1, Features: []float64{-1, -1}},
		{Label: -1, Features: []float64{-1, -2}},
	}}
	params := DefaultParameters()
	params.Kernel = Linear
	model, err := Train(train, params, nil)
	if err != nil {
		t.Fatal(err)
	}
	rate := classificationRate(model, train)
	if rate < 0.5 {
		t.Errorf("expected reasonable separation on linearly separable data, got rate=%v", rate)
	}
}
