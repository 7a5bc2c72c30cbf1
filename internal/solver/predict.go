package solver

import "math"

// PredictValues writes the decision values for x into decValues and returns
// the predicted label. One-class models use a single value and return the
// sign; classification models fill one value per class pair and return the
// pairwise-vote winner.
func PredictValues(model *Model, x []Node, decValues []float64) float64 {
	if model.Param.SVMType == OneClass {
		coef := model.SVCoef[0]
		var sum float64
		for i := 0; i < model.L; i++ {
			sum += coef[i] * kernelValue(x, model.SV[i], model.Param)
		}
		sum -= model.Rho[0]
		decValues[0] = sum

		if sum > 0 {
			return 1
		}
		return -1
	}

	nrClass := model.NrClass
	l := model.L

	kvalue := make([]float64, l)
	for i := 0; i < l; i++ {
		kvalue[i] = kernelValue(x, model.SV[i], model.Param)
	}

	start := make([]int, nrClass)
	for i := 1; i < nrClass; i++ {
		start[i] = start[i-1] + model.NSV[i-1]
	}

	vote := make([]int, nrClass)
	p := 0
	for i := 0; i < nrClass; i++ {
		for j := i + 1; j < nrClass; j++ {
			var sum float64
			si, sj := start[i], start[j]
			ci, cj := model.NSV[i], model.NSV[j]

			coef1 := model.SVCoef[j-1]
			coef2 := model.SVCoef[i]
			for k := 0; k < ci; k++ {
				sum += coef1[si+k] * kvalue[si+k]
			}
			for k := 0; k < cj; k++ {
				sum += coef2[sj+k] * kvalue[sj+k]
			}
			sum -= model.Rho[p]
			decValues[p] = sum

			if decValues[p] > 0 {
				vote[i]++
			} else {
				vote[j]++
			}
			p++
		}
	}

	voteMax := 0
	for i := 1; i < nrClass; i++ {
		if vote[i] > vote[voteMax] {
			voteMax = i
		}
	}
	return float64(model.Label[voteMax])
}

// Predict returns the predicted label for x.
func Predict(model *Model, x []Node) float64 {
	var decValues []float64
	if model.Param.SVMType == OneClass {
		decValues = make([]float64, 1)
	} else {
		decValues = make([]float64, model.NrClass*(model.NrClass-1)/2)
	}
	return PredictValues(model, x, decValues)
}

// PredictProbability fills probEstimates with per-class probabilities, in
// model.Label order, and returns the most probable label. Models trained
// without probability calibration fall back to Predict.
func PredictProbability(model *Model, x []Node, probEstimates []float64) float64 {
	if model.Param.SVMType == OneClass || model.ProbA == nil || model.ProbB == nil {
		return Predict(model, x)
	}

	nrClass := model.NrClass
	decValues := make([]float64, nrClass*(nrClass-1)/2)
	PredictValues(model, x, decValues)

	const minProb = 1e-7
	pairwise := make([][]float64, nrClass)
	for i := range pairwise {
		pairwise[i] = make([]float64, nrClass)
	}
	k := 0
	for i := 0; i < nrClass; i++ {
		for j := i + 1; j < nrClass; j++ {
			p := sigmoidPredict(decValues[k], model.ProbA[k], model.ProbB[k])
			pairwise[i][j] = math.Min(math.Max(p, minProb), 1-minProb)
			pairwise[j][i] = 1 - pairwise[i][j]
			k++
		}
	}
	multiclassProbability(nrClass, pairwise, probEstimates)

	probMax := 0
	for i := 1; i < nrClass; i++ {
		if probEstimates[i] > probEstimates[probMax] {
			probMax = i
		}
	}
	return float64(model.Label[probMax])
}
