package svm

// svcQ computes Q_ij = y_i*y_j*K(x_i,x_j) on demand for C-SVC/nu-SVC,
// caching each requested row for reuse across SMO iterations (mirrors
// libsvm's LRU kernel cache at a scale suited to in-process training
// sets rather than out-of-core caching).
type svcQ struct {
	samples []Sample
	params  Parameters
	table   *GaussTable
	y       []float64
	cache   map[int][]float64
}

func newSVCQ(samples []Sample, params Parameters, table *GaussTable, y []float64) *svcQ {
	return &svcQ{samples: samples, params: params, table: table, y: y, cache: make(map[int][]float64)}
}

func (q *svcQ) Len() int { return len(q.samples) }

func (q *svcQ) Row(i int) []float64 {
	if row, ok := q.cache[i]; ok {
		return row
	}
	n := len(q.samples)
	row := make([]float64, n)
	for j := 0; j < n; j++ {
		k := kernelValue(q.params, q.table, q.samples[i], q.samples[j])
		row[j] = q.y[i] * q.y[j] * k
	}
	q.cache[i] = row
	return row
}

func (q *svcQ) Diagonal(i int) float64 {
	return kernelValue(q.params, q.table, q.samples[i], q.samples[i])
}

// oneClassQ computes Q_ij = K(x_i,x_j) directly (no label sign, §4.3
// one-class SVM).
type oneClassQ struct {
	samples []Sample
	params  Parameters
	table   *GaussTable
	cache   map[int][]float64
}

func newOneClassQ(samples []Sample, params Parameters, table *GaussTable) *oneClassQ {
	return &oneClassQ{samples: samples, params: params, table: table, cache: make(map[int][]float64)}
}

func (q *oneClassQ) Len() int { return len(q.samples) }

func (q *oneClassQ) Row(i int) []float64 {
	if row, ok := q.cache[i]; ok {
		return row
	}
	n := len(q.samples)
	row := make([]float64, n)
	for j := 0; j < n; j++ {
		row[j] = kernelValue(q.params, q.table, q.samples[i], q.samples[j])
	}
	q.cache[i] = row
	return row
}

func (q *oneClassQ) Diagonal(i int) float64 {
	return kernelValue(q.params, q.table, q.samples[i], q.samples[i])
}

// svrQ implements epsilon/nu-SVR by doubling the variable count: the
// first l entries are the alpha_i (upper deviation) variables and the
// next l are alpha_i* (lower deviation), following libsvm's standard
// reduction of SVR to a single-constraint QP of size 2l.
type svrQ struct {
	samples []Sample
	params  Parameters
	table   *GaussTable
	l       int
	cache   map[int][]float64
}

func newSVRQ(samples []Sample, params Parameters, table *GaussTable) *svrQ {
	return &svrQ{samples: samples, params: params, table: table, l: len(samples), cache: make(map[int][]float64)}
}

func (q *svrQ) Len() int { return 2 * q.l }

func (q *svrQ) realIndex(i int) int {
	if i < q.l {
		return i
	}
	return i - q.l
}

func (q *svrQ) Row(i int) []float64 {
	if row, ok := q.cache[i]; ok {
		return row
	}
	ri := q.realIndex(i)
	si := 1.0
	if i >= q.l {
		si = -1
	}
	row := make([]float64, 2*q.l)
	for j := 0; j < q.l; j++ {
		k := kernelValue(q.params, q.table, q.samples[ri], q.samples[j])
		row[j] = si * k
		row[j+q.l] = -si * k
	}
	q.cache[i] = row
	return row
}

func (q *svrQ) Diagonal(i int) float64 {
	ri := q.realIndex(i)
	return kernelValue(q.params, q.table, q.samples[ri], q.samples[ri])
}
