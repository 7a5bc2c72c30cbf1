package solver

import (
	"math"
	"math/rand"

	"github.com/scistats/classify/pkg/log"
)

// sigmoidTrain fits Platt's sigmoid P(y=1|f) = 1/(1+exp(A f+B)) to paired
// decision values and labels by Newton's method with backtracking.
func sigmoidTrain(l int, decValues, labels []float64) (a, b float64) {
	var prior1, prior0 float64
	for i := 0; i < l; i++ {
		if labels[i] > 0 {
			prior1++
		} else {
			prior0++
		}
	}

	const (
		maxIter = 100
		minStep = 1e-10
		sigma   = 1e-12 // keeps the Hessian strictly positive definite
		eps     = 1e-5
	)
	hiTarget := (prior1 + 1.0) / (prior1 + 2.0)
	loTarget := 1 / (prior0 + 2.0)
	t := make([]float64, l)

	a = 0.0
	b = math.Log((prior0 + 1.0) / (prior1 + 1.0))
	var fval float64
	for i := 0; i < l; i++ {
		if labels[i] > 0 {
			t[i] = hiTarget
		} else {
			t[i] = loTarget
		}
		fApB := decValues[i]*a + b
		if fApB >= 0 {
			fval += t[i]*fApB + math.Log(1+math.Exp(-fApB))
		} else {
			fval += (t[i]-1)*fApB + math.Log(1+math.Exp(fApB))
		}
	}

	var iter int
	for iter = 0; iter < maxIter; iter++ {
		h11 := sigma
		h22 := sigma
		var h21, g1, g2 float64
		for i := 0; i < l; i++ {
			fApB := decValues[i]*a + b
			var p, q float64
			if fApB >= 0 {
				p = math.Exp(-fApB) / (1.0 + math.Exp(-fApB))
				q = 1.0 / (1.0 + math.Exp(-fApB))
			} else {
				p = 1.0 / (1.0 + math.Exp(fApB))
				q = math.Exp(fApB) / (1.0 + math.Exp(fApB))
			}
			d2 := p * q
			h11 += decValues[i] * decValues[i] * d2
			h22 += d2
			h21 += decValues[i] * d2
			d1 := t[i] - p
			g1 += decValues[i] * d1
			g2 += d1
		}

		if math.Abs(g1) < eps && math.Abs(g2) < eps {
			break
		}

		det := h11*h22 - h21*h21
		dA := -(h22*g1 - h21*g2) / det
		dB := -(-h21*g1 + h11*g2) / det
		gd := g1*dA + g2*dB

		stepsize := 1.0
		for stepsize >= minStep {
			newA := a + stepsize*dA
			newB := b + stepsize*dB

			var newf float64
			for i := 0; i < l; i++ {
				fApB := decValues[i]*newA + newB
				if fApB >= 0 {
					newf += t[i]*fApB + math.Log(1+math.Exp(-fApB))
				} else {
					newf += (t[i]-1)*fApB + math.Log(1+math.Exp(fApB))
				}
			}
			if newf < fval+0.0001*stepsize*gd {
				a = newA
				b = newB
				fval = newf
				break
			}
			stepsize /= 2.0
		}

		if stepsize < minStep {
			log.GetLogger().Warn("smo: line search failed in probability calibration")
			break
		}
	}

	if iter >= maxIter {
		log.GetLogger().Warn("smo: probability calibration hit the iteration limit")
	}
	return a, b
}

func sigmoidPredict(decisionValue, a, b float64) float64 {
	fApB := decisionValue*a + b
	if fApB >= 0 {
		return math.Exp(-fApB) / (1.0 + math.Exp(-fApB))
	}
	return 1.0 / (1 + math.Exp(fApB))
}

// multiclassProbability couples the pairwise estimates r into class
// probabilities p, method 2 of Wu, Lin and Weng (2004).
func multiclassProbability(k int, r [][]float64, p []float64) {
	maxIter := 100
	if k > maxIter {
		maxIter = k
	}
	q := make([][]float64, k)
	for i := range q {
		q[i] = make([]float64, k)
	}
	qp := make([]float64, k)
	eps := 0.005 / float64(k)

	for t := 0; t < k; t++ {
		p[t] = 1.0 / float64(k) // also valid for k = 1
		q[t][t] = 0
		for j := 0; j < t; j++ {
			q[t][t] += r[j][t] * r[j][t]
			q[t][j] = q[j][t]
		}
		for j := t + 1; j < k; j++ {
			q[t][t] += r[j][t] * r[j][t]
			q[t][j] = -r[j][t] * r[t][j]
		}
	}

	var iter int
	for iter = 0; iter < maxIter; iter++ {
		// recompute qp and p'qp to keep the stopping test accurate
		var pQp float64
		for t := 0; t < k; t++ {
			qp[t] = 0
			for j := 0; j < k; j++ {
				qp[t] += q[t][j] * p[j]
			}
			pQp += p[t] * qp[t]
		}
		var maxError float64
		for t := 0; t < k; t++ {
			if err := math.Abs(qp[t] - pQp); err > maxError {
				maxError = err
			}
		}
		if maxError < eps {
			break
		}

		for t := 0; t < k; t++ {
			diff := (-qp[t] + pQp) / q[t][t]
			p[t] += diff
			pQp = (pQp + diff*(diff*q[t][t]+2*qp[t])) / (1 + diff) / (1 + diff)
			for j := 0; j < k; j++ {
				qp[j] = (qp[j] + diff*q[t][j]) / (1 + diff)
				p[j] /= 1 + diff
			}
		}
	}
	if iter >= maxIter {
		log.GetLogger().Warn("smo: pairwise coupling hit the iteration limit")
	}
}

// binarySVCProbability estimates the sigmoid parameters for one binary
// subproblem by an internal five-fold cross-validation.
func binarySVCProbability(prob *Problem, param *Parameter, cp, cn float64, rng *rand.Rand) (a, b float64) {
	const nrFold = 5
	perm := make([]int, prob.L)
	decValues := make([]float64, prob.L)

	for i := 0; i < prob.L; i++ {
		perm[i] = i
	}
	for i := 0; i < prob.L; i++ {
		j := i + rng.Intn(prob.L-i)
		perm[i], perm[j] = perm[j], perm[i]
	}

	for i := 0; i < nrFold; i++ {
		begin := i * prob.L / nrFold
		end := (i + 1) * prob.L / nrFold

		sub := &Problem{
			L: prob.L - (end - begin),
			X: make([][]Node, prob.L-(end-begin)),
			Y: make([]float64, prob.L-(end-begin)),
		}
		k := 0
		for j := 0; j < begin; j++ {
			sub.X[k] = prob.X[perm[j]]
			sub.Y[k] = prob.Y[perm[j]]
			k++
		}
		for j := end; j < prob.L; j++ {
			sub.X[k] = prob.X[perm[j]]
			sub.Y[k] = prob.Y[perm[j]]
			k++
		}

		var pCount, nCount int
		for j := 0; j < k; j++ {
			if sub.Y[j] > 0 {
				pCount++
			} else {
				nCount++
			}
		}

		switch {
		case pCount == 0 && nCount == 0:
			for j := begin; j < end; j++ {
				decValues[perm[j]] = 0
			}
		case pCount > 0 && nCount == 0:
			for j := begin; j < end; j++ {
				decValues[perm[j]] = 1
			}
		case pCount == 0 && nCount > 0:
			for j := begin; j < end; j++ {
				decValues[perm[j]] = -1
			}
		default:
			subparam := param.Clone()
			subparam.Probability = false
			subparam.C = 1.0
			subparam.WeightLabel = []int{+1, -1}
			subparam.Weight = []float64{cp, cn}
			submodel := Train(sub, subparam)
			decValue := make([]float64, 1)
			for j := begin; j < end; j++ {
				PredictValues(submodel, prob.X[perm[j]], decValue)
				// keep the +1/-1 orientation regardless of submodel label order
				decValues[perm[j]] = decValue[0] * float64(submodel.Label[0])
			}
		}
	}
	return sigmoidTrain(prob.L, decValues, prob.Y)
}
