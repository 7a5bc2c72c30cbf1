package solver

import "math"

// qMatrix is the view of the kernel matrix the optimizer works against.
type qMatrix interface {
	swapIndex(i, j int)
	getQ(column, n int) []float32
	getQD() []float64
}

// kernel evaluates kernel values over the training rows. RBF keeps the
// squared norms so each evaluation is a single sparse dot product.
type kernel struct {
	x       [][]Node
	xSquare []float64

	kind   int
	degree int
	gamma  float64
	coef0  float64
}

func newKernel(l int, x [][]Node, param *Parameter) *kernel {
	k := &kernel{
		x:      x,
		kind:   param.Kernel,
		degree: param.Degree,
		gamma:  param.Gamma,
		coef0:  param.Coef0,
	}
	if k.kind == RBF {
		k.xSquare = make([]float64, l)
		for i := 0; i < l; i++ {
			k.xSquare[i] = dot(x[i], x[i])
		}
	}
	return k
}

func (k *kernel) swapIndex(i, j int) {
	k.x[i], k.x[j] = k.x[j], k.x[i]
	if k.xSquare != nil {
		k.xSquare[i], k.xSquare[j] = k.xSquare[j], k.xSquare[i]
	}
}

func (k *kernel) at(i, j int) float64 {
	switch k.kind {
	case Linear:
		return dot(k.x[i], k.x[j])
	case Poly:
		return powi(k.gamma*dot(k.x[i], k.x[j])+k.coef0, k.degree)
	case RBF:
		return math.Exp(-k.gamma * (k.xSquare[i] + k.xSquare[j] - 2*dot(k.x[i], k.x[j])))
	case Sigmoid:
		return math.Tanh(k.gamma*dot(k.x[i], k.x[j]) + k.coef0)
	case Precomputed:
		return k.x[i][int(k.x[j][0].Value)].Value
	}
	return 0
}

// powi is base^times by square and multiply; the polynomial degree is an
// integer so math.Pow is avoidable.
func powi(base float64, times int) float64 {
	tmp := base
	ret := 1.0
	for t := times; t > 0; t /= 2 {
		if t%2 == 1 {
			ret *= tmp
		}
		tmp *= tmp
	}
	return ret
}

// dot is the sparse inner product over two index-sorted rows.
func dot(x, y []Node) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(x) && j < len(y) {
		switch {
		case x[i].Index == y[j].Index:
			sum += x[i].Value * y[j].Value
			i++
			j++
		case x[i].Index > y[j].Index:
			j++
		default:
			i++
		}
	}
	return sum
}

// kernelValue evaluates the kernel between two arbitrary rows at prediction
// time. The RBF branch accumulates the squared distance sparsely instead of
// using stored norms.
func kernelValue(x, y []Node, param *Parameter) float64 {
	switch param.Kernel {
	case Linear:
		return dot(x, y)
	case Poly:
		return powi(param.Gamma*dot(x, y)+param.Coef0, param.Degree)
	case RBF:
		var sum float64
		i, j := 0, 0
		for i < len(x) && j < len(y) {
			switch {
			case x[i].Index == y[j].Index:
				d := x[i].Value - y[j].Value
				sum += d * d
				i++
				j++
			case x[i].Index > y[j].Index:
				sum += y[j].Value * y[j].Value
				j++
			default:
				sum += x[i].Value * x[i].Value
				i++
			}
		}
		for ; i < len(x); i++ {
			sum += x[i].Value * x[i].Value
		}
		for ; j < len(y); j++ {
			sum += y[j].Value * y[j].Value
		}
		return math.Exp(-param.Gamma * sum)
	case Sigmoid:
		return math.Tanh(param.Gamma*dot(x, y) + param.Coef0)
	case Precomputed:
		return x[int(y[0].Value)].Value
	}
	return 0
}
