package svm

// KernelNode is one (index, value) entry of a precomputed-kernel row, in
// libsvm's sparse node convention: index 0 carries the bookkeeping sample
// id, indices 1..m carry the kernel values against the reference set, and
// a trailing node with index -1 sentinels the row end (§4.3.2).
type KernelNode struct {
	Index int
	Value float64
}

// KernelMatrix builds the precomputed kernel representation of problem A
// (n sequences) against reference set B (m sequences). Row i has length
// m+2: KernelNode{0, float64(i+1)} (1-based sample id), m similarity
// values, then the {-1, 0} end sentinel. When sameSet is true, A and B are
// the same underlying set and the symmetric half of the computation is
// reused.
func KernelMatrix(a, b [][]Residue, table *GaussTable, maxDistance int, sameSet bool) [][]KernelNode {
	n, m := len(a), len(b)
	rows := make([][]KernelNode, n)

	var cache [][]float64
	if sameSet {
		cache = make([][]float64, n)
		for i := range cache {
			cache[i] = make([]float64, m)
		}
	}

	for i := 0; i < n; i++ {
		row := make([]KernelNode, m+2)
		row[0] = KernelNode{Index: 0, Value: float64(i + 1)}
		for j := 0; j < m; j++ {
			var v float64
			switch {
			case sameSet && j < i:
				v = cache[j][i]
			case sameSet && j == i:
				v = OligoKernel(a[i], b[j], table, maxDistance)
				cache[i][j] = v
			case sameSet:
				v = OligoKernel(a[i], b[j], table, maxDistance)
				cache[i][j] = v
			default:
				v = OligoKernel(a[i], b[j], table, maxDistance)
			}
			row[j+1] = KernelNode{Index: j + 1, Value: v}
		}
		row[m+1] = KernelNode{Index: -1, Value: 0}
		rows[i] = row
	}

	return rows
}
