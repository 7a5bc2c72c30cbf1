package solver

// svcQ is the classification kernel matrix Q_ij = y_i y_j K(i, j), served
// column-wise through the LRU cache.
type svcQ struct {
	*kernel
	y     []int8
	cache *lruCache
	qd    []float64
}

func newSVCQ(prob *Problem, param *Parameter, y []int8) *svcQ {
	q := &svcQ{
		kernel: newKernel(prob.L, prob.X, param),
		y:      append([]int8(nil), y...),
		cache:  newCache(prob.L, int64(param.CacheSize*(1<<20))),
		qd:     make([]float64, prob.L),
	}
	for i := 0; i < prob.L; i++ {
		q.qd[i] = q.at(i, i)
	}
	return q
}

func (q *svcQ) getQ(i, n int) []float32 {
	data, start := q.cache.getData(i, n)
	for j := start; j < n; j++ {
		data[j] = float32(q.y[i]*q.y[j]) * float32(q.at(i, j))
	}
	return data
}

func (q *svcQ) getQD() []float64 { return q.qd }

func (q *svcQ) swapIndex(i, j int) {
	q.cache.swapIndex(i, j)
	q.kernel.swapIndex(i, j)
	q.y[i], q.y[j] = q.y[j], q.y[i]
	q.qd[i], q.qd[j] = q.qd[j], q.qd[i]
}

// oneClassQ is the plain kernel matrix Q_ij = K(i, j).
type oneClassQ struct {
	*kernel
	cache *lruCache
	qd    []float64
}

func newOneClassQ(prob *Problem, param *Parameter) *oneClassQ {
	q := &oneClassQ{
		kernel: newKernel(prob.L, prob.X, param),
		cache:  newCache(prob.L, int64(param.CacheSize*(1<<20))),
		qd:     make([]float64, prob.L),
	}
	for i := 0; i < prob.L; i++ {
		q.qd[i] = q.at(i, i)
	}
	return q
}

func (q *oneClassQ) getQ(i, n int) []float32 {
	data, start := q.cache.getData(i, n)
	for j := start; j < n; j++ {
		data[j] = float32(q.at(i, j))
	}
	return data
}

func (q *oneClassQ) getQD() []float64 { return q.qd }

func (q *oneClassQ) swapIndex(i, j int) {
	q.cache.swapIndex(i, j)
	q.kernel.swapIndex(i, j)
	q.qd[i], q.qd[j] = q.qd[j], q.qd[i]
}
