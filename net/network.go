package net

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// network is the feedforward core behind the classifier: dense layers with
// a shared hidden activation and a softmax output, trained with full-batch
// gradient descent on the cross-entropy loss plus an L2 penalty.
type network struct {
	sizes      []int        // input width, hidden widths, output width
	weights    []*mat.Dense // weights[l] is sizes[l] x sizes[l+1]
	biases     [][]float64  // biases[l] has sizes[l+1] entries
	activation Activation
}

// newNetwork allocates the layer stack and initializes the weights from a
// seeded normal distribution scaled by fan-in, so identical seeds produce
// identical models.
func newNetwork(inputs int, hidden []int, outputs int, activation Activation, seed int64) *network {
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, inputs)
	sizes = append(sizes, hidden...)
	sizes = append(sizes, outputs)

	rng := rand.New(rand.NewSource(seed))
	nw := &network{sizes: sizes, activation: activation}
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		scale := math.Sqrt(2 / float64(in))
		w := mat.NewDense(in, out, nil)
		for i := 0; i < in; i++ {
			for j := 0; j < out; j++ {
				w.Set(i, j, rng.NormFloat64()*scale)
			}
		}
		nw.weights = append(nw.weights, w)
		nw.biases = append(nw.biases, make([]float64, out))
	}
	return nw
}

func (nw *network) activate(z float64) float64 {
	switch nw.activation {
	case Tanh:
		return math.Tanh(z)
	case Sigmoid:
		return 1 / (1 + math.Exp(-z))
	default:
		if z > 0 {
			return z
		}
		return 0
	}
}

// activateDeriv takes the activated value, not the pre-activation; each
// supported function's derivative is expressible in its own output.
func (nw *network) activateDeriv(a float64) float64 {
	switch nw.activation {
	case Tanh:
		return 1 - a*a
	case Sigmoid:
		return a * (1 - a)
	default:
		if a > 0 {
			return 1
		}
		return 0
	}
}

// forward runs the whole batch through the network and returns the
// activations of every layer, input included. The final entry holds the
// softmax class probabilities.
func (nw *network) forward(X *mat.Dense) []*mat.Dense {
	acts := make([]*mat.Dense, len(nw.sizes))
	acts[0] = X
	for l := 0; l < len(nw.weights); l++ {
		z := &mat.Dense{}
		z.Mul(acts[l], nw.weights[l])
		r, c := z.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				z.Set(i, j, z.At(i, j)+nw.biases[l][j])
			}
		}
		if l == len(nw.weights)-1 {
			softmaxRows(z)
		} else {
			z.Apply(func(_, _ int, v float64) float64 { return nw.activate(v) }, z)
		}
		acts[l+1] = z
	}
	return acts
}

// softmaxRows normalizes each row in place, shifting by the row maximum
// before exponentiating to keep the arithmetic stable.
func softmaxRows(z *mat.Dense) {
	r, c := z.Dims()
	for i := 0; i < r; i++ {
		max := z.At(i, 0)
		for j := 1; j < c; j++ {
			if v := z.At(i, j); v > max {
				max = v
			}
		}
		var sum float64
		for j := 0; j < c; j++ {
			e := math.Exp(z.At(i, j) - max)
			z.Set(i, j, e)
			sum += e
		}
		for j := 0; j < c; j++ {
			z.Set(i, j, z.At(i, j)/sum)
		}
	}
}

// loss is the mean cross-entropy of the predicted probabilities P against
// the one-hot targets T, plus the L2 penalty on the weights.
func (nw *network) loss(P, T *mat.Dense, lambda float64) float64 {
	n, k := P.Dims()
	var ce float64
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			if T.At(i, j) == 1 {
				p := P.At(i, j)
				if p < 1e-15 {
					p = 1e-15
				}
				ce -= math.Log(p)
			}
		}
	}
	ce /= float64(n)

	if lambda > 0 {
		var reg float64
		for _, w := range nw.weights {
			fro := mat.Norm(w, 2)
			reg += fro * fro
		}
		ce += 0.5 * lambda * reg / float64(n)
	}
	return ce
}

// fit runs full-batch gradient descent until the iteration limit or until
// the loss improvement drops below the tolerance. It returns the final loss
// and the number of iterations performed.
func (nw *network) fit(X, T *mat.Dense, cfg Config) (float64, int) {
	n, _ := X.Dims()
	prev := math.Inf(1)
	var loss float64
	iters := 0

	for iter := 1; iter <= cfg.IterationLimit; iter++ {
		iters = iter
		acts := nw.forward(X)
		P := acts[len(acts)-1]

		loss = nw.loss(P, T, cfg.Lambda)
		if math.Abs(prev-loss) < cfg.LossTolerance {
			break
		}
		prev = loss

		// Softmax plus cross-entropy gives (P - T) / n at the output.
		delta := &mat.Dense{}
		delta.Sub(P, T)
		delta.Scale(1/float64(n), delta)

		for l := len(nw.weights) - 1; l >= 0; l-- {
			gradW := &mat.Dense{}
			gradW.Mul(acts[l].T(), delta)
			if cfg.Lambda > 0 {
				reg := &mat.Dense{}
				reg.Scale(cfg.Lambda/float64(n), nw.weights[l])
				gradW.Add(gradW, reg)
			}

			_, out := nw.weights[l].Dims()
			gradB := make([]float64, out)
			dr, _ := delta.Dims()
			for i := 0; i < dr; i++ {
				for j := 0; j < out; j++ {
					gradB[j] += delta.At(i, j)
				}
			}

			// The error for the layer below uses this layer's weights
			// before they move.
			if l > 0 {
				below := &mat.Dense{}
				below.Mul(delta, nw.weights[l].T())
				below.Apply(func(i, j int, v float64) float64 {
					return v * nw.activateDeriv(acts[l].At(i, j))
				}, below)
				delta = below
			}

			step := &mat.Dense{}
			step.Scale(cfg.LearnRate, gradW)
			nw.weights[l].Sub(nw.weights[l], step)
			for j := 0; j < out; j++ {
				nw.biases[l][j] -= cfg.LearnRate * gradB[j]
			}
		}
	}
	return loss, iters
}

// predict returns the softmax class probabilities for each row of X.
func (nw *network) predict(X *mat.Dense) *mat.Dense {
	acts := nw.forward(X)
	return acts[len(acts)-1]
}
