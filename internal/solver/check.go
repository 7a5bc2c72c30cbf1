package solver

import "math"

// CheckParameter validates param against prob and returns an empty string
// when the pair is trainable, otherwise a short description of the first
// problem found.
func CheckParameter(prob *Problem, param *Parameter) string {
	switch param.SVMType {
	case CSVC, NuSVC, OneClass:
	default:
		return "unknown svm type"
	}

	switch param.Kernel {
	case Linear, Poly, RBF, Sigmoid, Precomputed:
	default:
		return "unknown kernel type"
	}

	if param.Gamma < 0 {
		return "gamma < 0"
	}
	if param.Degree < 0 {
		return "degree of polynomial kernel < 0"
	}
	if param.CacheSize <= 0 {
		return "cache_size <= 0"
	}
	if param.Eps <= 0 {
		return "eps <= 0"
	}
	if param.SVMType == CSVC && param.C <= 0 {
		return "C <= 0"
	}
	if param.SVMType == NuSVC || param.SVMType == OneClass {
		if param.Nu <= 0 || param.Nu > 1 {
			return "nu <= 0 or nu > 1"
		}
	}
	if param.Probability && param.SVMType == OneClass {
		return "one-class SVM probability output not supported"
	}

	// nu-svc feasibility: nu may not exceed the balance of any class pair
	if param.SVMType == NuSVC {
		var label, count []int
		for i := 0; i < prob.L; i++ {
			this := int(prob.Y[i])
			var j int
			for j = 0; j < len(label); j++ {
				if this == label[j] {
					count[j]++
					break
				}
			}
			if j == len(label) {
				label = append(label, this)
				count = append(count, 1)
			}
		}
		for i := 0; i < len(label); i++ {
			for j := i + 1; j < len(label); j++ {
				n1, n2 := float64(count[i]), float64(count[j])
				if param.Nu*(n1+n2)/2 > math.Min(n1, n2) {
					return "specified nu is infeasible"
				}
			}
		}
	}
	return ""
}
