package svm

import "testing"

// TestOligoKernelSymmetric implements §8 testable property 3: the oligo
// kernel is symmetric.
func TestOligoKernelSymmetric(t *testing.T) {
	table := NewGaussTable(10, 2.0)
	a := []Residue{{Position: 0, Class: 1}, {Position: 3, Class: 2}, {Position: 7, Class: 1}}
	b := []Residue{{Position: 1, Class: 1}, {Position: 4, Class: 2}, {Position: 9, Class: 1}}

	ab := OligoKernel(a, b, table, 10)
	ba := OligoKernel(b, a, table, 10)
	if ab != ba {
		t.Errorf("oligo kernel not symmetric: K(a,b)=%v K(b,a)=%v", ab, ba)
	}
}

func TestOligoKernelEmptySequences(t *testing.T) {
	table := NewGaussTable(10, 2.0)
	if v := OligoKernel(nil, nil, table, 10); v != 0 {
		t.Errorf("expected 0 for empty sequences, got %v", v)
	}
	a := []Residue{{Position: 0, Class: 1}}
	if v := OligoKernel(a, nil, table, 10); v != 0 {
		t.Errorf("expected 0 when one sequence is empty, got %v", v)
	}
}

func TestOligoKernelIdenticalPositions(t *testing.T) {
	table := NewGaussTable(10, 2.0)
	a := []Residue{{Position: 5, Class: 1}}
	b := []Residue{{Position: 5, Class: 1}}
	v := OligoKernel(a, b, table, 10)
	if v != 1 { // gauss_table[0] = exp(0) = 1
		t.Errorf("identical-position same-class pair should score gauss_table[0]=1, got %v", v)
	}
}

func TestOligoKernelBeyondMaxDistanceIgnored(t *testing.T) {
	table := NewGaussTable(100, 2.0)
	a := []Residue{{Position: 0, Class: 1}}
	b := []Residue{{Position: 50, Class: 1}}
	v := OligoKernel(a, b, table, 5)
	if v != 0 {
		t.Errorf("pair beyond max_distance should contribute 0, got %v", v)
	}
}

func TestOligoKernelMismatchedClassesSkipped(t *testing.T) {
	table := NewGaussTable(10, 2.0)
	a := []Residue{{Position: 0, Class: 1}}
	b := []Residue{{Position: 0, Class: 2}}
	v := OligoKernel(a, b, table, 10)
	if v != 0 {
		t.Errorf("mismatched classes should never match, got %v", v)
	}
}

// TestKernelMatrixSentinelsAndIds checks the (m+2)-wide row layout from
// §4.3.2.
func TestKernelMatrixSentinelsAndIds(t *testing.T) {
	table := NewGaussTable(10, 2.0)
	a := [][]Residue{
		{{Position: 0, Class: 1}},
		{{Position: 1, Class: 1}},
	}
	rows := KernelMatrix(a, a, table, 10, true)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != len(a)+2 {
			t.Errorf("row %d: expected width %d, got %d", i, len(a)+2, len(row))
		}
		if row[0].Index != 0 || row[0].Value != float64(i+1) {
			t.Errorf("row %d: expected bookkeeping id %d, got %+v", i, i+1, row[0])
		}
		last := row[len(row)-1]
		if last.Index != -1 {
			t.Errorf("row %d: expected end sentinel index -1, got %+v", i, last)
		}
	}
}

func TestKernelMatrixSymmetricReuse(t *testing.T) {
	table := NewGaussTable(10, 2.0)
	a := [][]Residue{
		{{Position: 0, Class: 1}, {Position: 5, Class: 2}},
		{{Position: 2, Class: 1}, {Position: 6, Class: 2}},
		{{Position: 4, Class: 1}, {Position: 8, Class: 2}},
	}
	sym := KernelMatrix(a, a, table, 10, true)
	plain := KernelMatrix(a, a, table, 10, false)
	for i := range sym {
		for j := 1; j < len(sym[i])-1; j++ {
			if sym[i][j].Value != plain[i][j].Value {
				t.Errorf("symmetric-path value mismatch at (%d,%d): %v vs %v", i, j, sym[i][j].Value, plain[i][j].Value)
			}
		}
	}
}
