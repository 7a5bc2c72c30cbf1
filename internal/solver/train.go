package solver

import (
	"math"
	"math/rand"

	"github.com/scistats/classify/pkg/log"
)

// decisionFunction is the outcome of one binary subproblem.
type decisionFunction struct {
	alpha []float64
	rho   float64
}

func solveCSVC(prob *Problem, param *Parameter, alpha []float64, si *solutionInfo, cp, cn float64) {
	l := prob.L
	minusOnes := make([]float64, l)
	y := make([]int8, l)

	for i := 0; i < l; i++ {
		alpha[i] = 0
		minusOnes[i] = -1
		if prob.Y[i] > 0 {
			y[i] = +1
		} else {
			y[i] = -1
		}
	}

	s := new(smoSolver)
	s.solve(l, newSVCQ(prob, param, y), minusOnes, y,
		alpha, cp, cn, param.Eps, si, param.Shrinking)

	var sumAlpha float64
	for i := 0; i < l; i++ {
		sumAlpha += alpha[i]
	}
	if cp == cn {
		log.GetLogger().Debug("smo: c-svc solved", "nu", sumAlpha/(cp*float64(l)))
	}

	for i := 0; i < l; i++ {
		alpha[i] *= float64(y[i])
	}
}

func solveNuSVC(prob *Problem, param *Parameter, alpha []float64, si *solutionInfo) {
	l := prob.L
	nu := param.Nu
	y := make([]int8, l)

	for i := 0; i < l; i++ {
		if prob.Y[i] > 0 {
			y[i] = +1
		} else {
			y[i] = -1
		}
	}

	sumPos := nu * float64(l) / 2
	sumNeg := nu * float64(l) / 2
	for i := 0; i < l; i++ {
		if y[i] == +1 {
			alpha[i] = math.Min(1.0, sumPos)
			sumPos -= alpha[i]
		} else {
			alpha[i] = math.Min(1.0, sumNeg)
			sumNeg -= alpha[i]
		}
	}

	zeros := make([]float64, l)

	s := &smoSolver{nu: true}
	s.solve(l, newSVCQ(prob, param, y), zeros, y,
		alpha, 1.0, 1.0, param.Eps, si, param.Shrinking)
	r := si.r

	log.GetLogger().Debug("smo: nu-svc solved", "effective_c", 1/r)

	for i := 0; i < l; i++ {
		alpha[i] *= float64(y[i]) / r
	}
	si.rho /= r
	si.obj /= r * r
	si.upperBoundP = 1 / r
	si.upperBoundN = 1 / r
}

func solveOneClass(prob *Problem, param *Parameter, alpha []float64, si *solutionInfo) {
	l := prob.L
	zeros := make([]float64, l)
	ones := make([]int8, l)

	// number of alphas at the upper bound
	n := int(param.Nu * float64(l))

	for i := 0; i < n; i++ {
		alpha[i] = 1
	}
	if n < l {
		alpha[n] = param.Nu*float64(l) - float64(n)
	}
	for i := n + 1; i < l; i++ {
		alpha[i] = 0
	}
	for i := 0; i < l; i++ {
		ones[i] = 1
	}

	s := new(smoSolver)
	s.solve(l, newOneClassQ(prob, param), zeros, ones,
		alpha, 1.0, 1.0, param.Eps, si, param.Shrinking)
}

func trainOne(prob *Problem, param *Parameter, cp, cn float64) decisionFunction {
	alpha := make([]float64, prob.L)
	si := new(solutionInfo)
	switch param.SVMType {
	case CSVC:
		solveCSVC(prob, param, alpha, si, cp, cn)
	case NuSVC:
		solveNuSVC(prob, param, alpha, si)
	case OneClass:
		solveOneClass(prob, param, alpha, si)
	}

	nSV := 0
	nBSV := 0
	for i := 0; i < prob.L; i++ {
		if math.Abs(alpha[i]) > 0 {
			nSV++
			if prob.Y[i] > 0 {
				if math.Abs(alpha[i]) >= si.upperBoundP {
					nBSV++
				}
			} else {
				if math.Abs(alpha[i]) >= si.upperBoundN {
					nBSV++
				}
			}
		}
	}
	log.GetLogger().Debug("smo: subproblem solved",
		"obj", si.obj, "rho", si.rho, "nsv", nSV, "nbsv", nBSV)

	return decisionFunction{alpha: alpha, rho: si.rho}
}

// groupClasses discovers the distinct labels in encounter order and fills
// perm so that rows of each class are contiguous. Returned slices are
// label values, per-class counts and per-class start offsets into perm.
func groupClasses(prob *Problem, perm []int) (label, count, start []int) {
	l := prob.L

	var nrClass int
	dataLabel := make([]int, l)
	for i := 0; i < l; i++ {
		this := int(prob.Y[i])
		var j int
		for j = 0; j < nrClass; j++ {
			if this == label[j] {
				count[j]++
				break
			}
		}
		dataLabel[i] = j
		if j == nrClass {
			label = append(label, this)
			count = append(count, 1)
			nrClass++
		}
	}

	start = make([]int, nrClass)
	for i := 1; i < nrClass; i++ {
		start[i] = start[i-1] + count[i-1]
	}
	offset := append([]int(nil), start...)
	for i := 0; i < l; i++ {
		perm[offset[dataLabel[i]]] = i
		offset[dataLabel[i]]++
	}
	return label, count, start
}

// Train fits a model on prob. The parameter set must already have passed
// CheckParameter; Train itself never fails, though degenerate inputs (a
// single class) produce a degenerate model that predicts that class.
func Train(prob *Problem, param *Parameter) *Model {
	model := &Model{Param: param}

	if param.SVMType == OneClass {
		f := trainOne(prob, param, 0, 0)
		model.NrClass = 2
		model.Rho = []float64{f.rho}

		nSV := 0
		for i := 0; i < prob.L; i++ {
			if math.Abs(f.alpha[i]) > 0 {
				nSV++
			}
		}
		model.L = nSV
		model.SV = make([][]Node, nSV)
		model.SVCoef = [][]float64{make([]float64, nSV)}
		model.SVIndices = make([]int, nSV)
		j := 0
		for i := 0; i < prob.L; i++ {
			if math.Abs(f.alpha[i]) > 0 {
				model.SV[j] = prob.X[i]
				model.SVCoef[0][j] = f.alpha[i]
				model.SVIndices[j] = i + 1
				j++
			}
		}
		return model
	}

	return trainClassification(prob, param)
}

func trainClassification(prob *Problem, param *Parameter) *Model {
	l := prob.L
	perm := make([]int, l)

	label, count, start := groupClasses(prob, perm)
	nrClass := len(label)
	if nrClass == 1 {
		log.GetLogger().Warn("smo: training data contains only one class")
	}

	x := make([][]Node, l)
	for i := 0; i < l; i++ {
		x[i] = prob.X[perm[i]]
	}

	// per-class box constraints
	weightedC := make([]float64, nrClass)
	for i := range weightedC {
		weightedC[i] = param.C
	}
	for i, wl := range param.WeightLabel {
		var j int
		for j = 0; j < nrClass; j++ {
			if wl == label[j] {
				break
			}
		}
		if j == nrClass {
			log.GetLogger().Warn("smo: class label in weights not found in data",
				"label", wl)
			continue
		}
		weightedC[j] *= param.Weight[i]
	}

	// pairwise subproblems
	nonzero := make([]bool, l)
	nPairs := nrClass * (nrClass - 1) / 2
	f := make([]decisionFunction, nPairs)

	var probA, probB []float64
	if param.Probability {
		probA = make([]float64, nPairs)
		probB = make([]float64, nPairs)
	}

	rng := rand.New(rand.NewSource(1))

	p := 0
	for i := 0; i < nrClass; i++ {
		for j := i + 1; j < nrClass; j++ {
			si, sj := start[i], start[j]
			ci, cj := count[i], count[j]

			sub := &Problem{
				L: ci + cj,
				X: make([][]Node, ci+cj),
				Y: make([]float64, ci+cj),
			}
			for k := 0; k < ci; k++ {
				sub.X[k] = x[si+k]
				sub.Y[k] = +1
			}
			for k := 0; k < cj; k++ {
				sub.X[ci+k] = x[sj+k]
				sub.Y[ci+k] = -1
			}

			if param.Probability {
				probA[p], probB[p] = binarySVCProbability(sub, param, weightedC[i], weightedC[j], rng)
			}

			f[p] = trainOne(sub, param, weightedC[i], weightedC[j])
			for k := 0; k < ci; k++ {
				if !nonzero[si+k] && math.Abs(f[p].alpha[k]) > 0 {
					nonzero[si+k] = true
				}
			}
			for k := 0; k < cj; k++ {
				if !nonzero[sj+k] && math.Abs(f[p].alpha[ci+k]) > 0 {
					nonzero[sj+k] = true
				}
			}
			p++
		}
	}

	model := &Model{
		Param:   param,
		NrClass: nrClass,
		Label:   append([]int(nil), label...),
		Rho:     make([]float64, nPairs),
		ProbA:   probA,
		ProbB:   probB,
	}
	for i := range f {
		model.Rho[i] = f[i].rho
	}

	nnz := 0
	nzCount := make([]int, nrClass)
	model.NSV = make([]int, nrClass)
	for i := 0; i < nrClass; i++ {
		nSV := 0
		for j := 0; j < count[i]; j++ {
			if nonzero[start[i]+j] {
				nSV++
				nnz++
			}
		}
		model.NSV[i] = nSV
		nzCount[i] = nSV
	}
	log.GetLogger().Debug("smo: training finished", "total_sv", nnz)

	model.L = nnz
	model.SV = make([][]Node, nnz)
	model.SVIndices = make([]int, nnz)
	p = 0
	for i := 0; i < l; i++ {
		if nonzero[i] {
			model.SV[p] = x[i]
			model.SVIndices[p] = perm[i] + 1
			p++
		}
	}

	nzStart := make([]int, nrClass)
	for i := 1; i < nrClass; i++ {
		nzStart[i] = nzStart[i-1] + nzCount[i-1]
	}

	model.SVCoef = make([][]float64, nrClass-1)
	for i := range model.SVCoef {
		model.SVCoef[i] = make([]float64, nnz)
	}

	p = 0
	for i := 0; i < nrClass; i++ {
		for j := i + 1; j < nrClass; j++ {
			// classifier (i, j): coefficients with
			// i in sv_coef[j-1][nz_start[i]...],
			// j in sv_coef[i][nz_start[j]...]
			si, sj := start[i], start[j]
			ci, cj := count[i], count[j]

			q := nzStart[i]
			for k := 0; k < ci; k++ {
				if nonzero[si+k] {
					model.SVCoef[j-1][q] = f[p].alpha[k]
					q++
				}
			}
			q = nzStart[j]
			for k := 0; k < cj; k++ {
				if nonzero[sj+k] {
					model.SVCoef[i][q] = f[p].alpha[ci+k]
					q++
				}
			}
			p++
		}
	}
	return model
}

// CrossValidation trains on each fold's complement and writes the held-out
// prediction for row i into target[i]. Folds are stratified by class for
// the classification formulations.
func CrossValidation(prob *Problem, param *Parameter, nrFold int, target []float64) {
	l := prob.L
	perm := make([]int, l)
	foldStart := make([]int, nrFold+1)
	rng := rand.New(rand.NewSource(1))

	if (param.SVMType == CSVC || param.SVMType == NuSVC) && nrFold < l {
		tmpPerm := make([]int, l)
		label, count, start := groupClasses(prob, tmpPerm)
		nrClass := len(label)

		// shuffle within each class, then deal rows round-robin so every
		// fold sees the class balance of the whole set
		index := append([]int(nil), tmpPerm...)
		for c := 0; c < nrClass; c++ {
			for i := 0; i < count[c]; i++ {
				j := i + rng.Intn(count[c]-i)
				index[start[c]+i], index[start[c]+j] = index[start[c]+j], index[start[c]+i]
			}
		}

		foldCount := make([]int, nrFold)
		for i := 0; i < nrFold; i++ {
			for c := 0; c < nrClass; c++ {
				foldCount[i] += (i+1)*count[c]/nrFold - i*count[c]/nrFold
			}
		}
		for i := 1; i <= nrFold; i++ {
			foldStart[i] = foldStart[i-1] + foldCount[i-1]
		}
		fill := append([]int(nil), foldStart...)
		for c := 0; c < nrClass; c++ {
			for i := 0; i < nrFold; i++ {
				begin := start[c] + i*count[c]/nrFold
				end := start[c] + (i+1)*count[c]/nrFold
				for j := begin; j < end; j++ {
					perm[fill[i]] = index[j]
					fill[i]++
				}
			}
		}
	} else {
		for i := 0; i < l; i++ {
			perm[i] = i
		}
		for i := 0; i < l; i++ {
			j := i + rng.Intn(l-i)
			perm[i], perm[j] = perm[j], perm[i]
		}
		for i := 0; i <= nrFold; i++ {
			foldStart[i] = i * l / nrFold
		}
	}

	for i := 0; i < nrFold; i++ {
		begin := foldStart[i]
		end := foldStart[i+1]

		sub := &Problem{
			L: l - (end - begin),
			X: make([][]Node, l-(end-begin)),
			Y: make([]float64, l-(end-begin)),
		}
		k := 0
		for j := 0; j < begin; j++ {
			sub.X[k] = prob.X[perm[j]]
			sub.Y[k] = prob.Y[perm[j]]
			k++
		}
		for j := end; j < l; j++ {
			sub.X[k] = prob.X[perm[j]]
			sub.Y[k] = prob.Y[perm[j]]
			k++
		}

		submodel := Train(sub, param)
		if param.Probability && (param.SVMType == CSVC || param.SVMType == NuSVC) {
			estimates := make([]float64, submodel.NrClass)
			for j := begin; j < end; j++ {
				target[perm[j]] = PredictProbability(submodel, prob.X[perm[j]], estimates)
			}
		} else {
			for j := begin; j < end; j++ {
				target[perm[j]] = Predict(submodel, prob.X[perm[j]])
			}
		}
	}
}
