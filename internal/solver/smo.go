package solver

import (
	"math"

	"github.com/scistats/classify/pkg/log"
)

// SMO working-set solver after Fan et al., JMLR 6(2005) 1889-1918.
// Minimizes 0.5 a'Qa + p'a subject to y'a = delta, 0 <= a_i <= Cp/Cn.
// The nu formulations add e'a = constant, which changes working-set
// selection, shrinking and the rho computation; that variant is selected
// by the nu flag rather than a separate solver type.

const (
	lowerBound = int8(0)
	upperBound = int8(1)
	free       = int8(2)

	inf = math.MaxFloat64
	tau = 1e-12
)

// solutionInfo reports the optimum found by smoSolver.solve.
type solutionInfo struct {
	obj         float64
	rho         float64
	upperBoundP float64
	upperBoundN float64
	r           float64 // nu formulations only
}

type smoSolver struct {
	nu bool

	activeSize  int
	y           []int8
	g           []float64 // gradient of the objective
	alphaStatus []int8
	alpha       []float64
	q           qMatrix
	qd          []float64
	eps         float64
	cp, cn      float64
	p           []float64
	activeSet   []int
	gBar        []float64 // gradient with free variables treated as 0
	l           int
	unshrink    bool

	si *solutionInfo
}

func (s *smoSolver) boxC(i int) float64 {
	if s.y[i] > 0 {
		return s.cp
	}
	return s.cn
}

func (s *smoSolver) updateAlphaStatus(i int) {
	switch {
	case s.alpha[i] >= s.boxC(i):
		s.alphaStatus[i] = upperBound
	case s.alpha[i] <= 0:
		s.alphaStatus[i] = lowerBound
	default:
		s.alphaStatus[i] = free
	}
}

func (s *smoSolver) isUpperBound(i int) bool { return s.alphaStatus[i] == upperBound }
func (s *smoSolver) isLowerBound(i int) bool { return s.alphaStatus[i] == lowerBound }
func (s *smoSolver) isFree(i int) bool       { return s.alphaStatus[i] == free }

func (s *smoSolver) swapIndex(i, j int) {
	s.q.swapIndex(i, j)
	s.y[i], s.y[j] = s.y[j], s.y[i]
	s.g[i], s.g[j] = s.g[j], s.g[i]
	s.alphaStatus[i], s.alphaStatus[j] = s.alphaStatus[j], s.alphaStatus[i]
	s.alpha[i], s.alpha[j] = s.alpha[j], s.alpha[i]
	s.p[i], s.p[j] = s.p[j], s.p[i]
	s.activeSet[i], s.activeSet[j] = s.activeSet[j], s.activeSet[i]
	s.gBar[i], s.gBar[j] = s.gBar[j], s.gBar[i]
}

// reconstructGradient rebuilds the inactive part of g from gBar and the
// free variables after shrinking.
func (s *smoSolver) reconstructGradient() {
	if s.activeSize == s.l {
		return
	}

	nFree := 0
	for j := s.activeSize; j < s.l; j++ {
		s.g[j] = s.gBar[j] + s.p[j]
	}
	for j := 0; j < s.activeSize; j++ {
		if s.isFree(j) {
			nFree++
		}
	}
	if 2*nFree < s.activeSize {
		log.GetLogger().Warn("smo: disabling shrinking may be faster on this problem")
	}

	if nFree*s.l > 2*s.activeSize*(s.l-s.activeSize) {
		for i := s.activeSize; i < s.l; i++ {
			qi := s.q.getQ(i, s.activeSize)
			for j := 0; j < s.activeSize; j++ {
				if s.isFree(j) {
					s.g[i] += s.alpha[j] * float64(qi[j])
				}
			}
		}
	} else {
		for i := 0; i < s.activeSize; i++ {
			if s.isFree(i) {
				qi := s.q.getQ(i, s.l)
				alphaI := s.alpha[i]
				for j := s.activeSize; j < s.l; j++ {
					s.g[j] += alphaI * float64(qi[j])
				}
			}
		}
	}
}

func (s *smoSolver) solve(l int, q qMatrix, p []float64, y []int8, alpha []float64, cp, cn, eps float64, si *solutionInfo, shrinking bool) {
	s.l = l
	s.q = q
	s.qd = q.getQD()
	s.p = append([]float64(nil), p...)
	s.y = append([]int8(nil), y...)
	s.alpha = append([]float64(nil), alpha...)
	s.cp = cp
	s.cn = cn
	s.eps = eps
	s.si = si
	s.unshrink = false

	s.alphaStatus = make([]int8, l)
	for i := 0; i < l; i++ {
		s.updateAlphaStatus(i)
	}

	s.activeSet = make([]int, l)
	for i := 0; i < l; i++ {
		s.activeSet[i] = i
	}
	s.activeSize = l

	s.g = make([]float64, l)
	s.gBar = make([]float64, l)
	copy(s.g, s.p)
	for i := 0; i < l; i++ {
		if !s.isLowerBound(i) {
			qi := s.q.getQ(i, l)
			alphaI := s.alpha[i]
			for j := 0; j < l; j++ {
				s.g[j] += alphaI * float64(qi[j])
			}
			if s.isUpperBound(i) {
				for j := 0; j < l; j++ {
					s.gBar[j] += s.boxC(i) * float64(qi[j])
				}
			}
		}
	}

	iter := 0
	maxIter := 100 * l
	if l > math.MaxInt32/100 {
		maxIter = math.MaxInt32
	}
	if maxIter < 10000000 {
		maxIter = 10000000
	}
	counter := minInt(l, 1000) + 1

	var wi, wj int
	for iter < maxIter {
		if counter--; counter == 0 {
			counter = minInt(l, 1000)
			if shrinking {
				s.doShrinking()
			}
		}

		var ok bool
		if wi, wj, ok = s.selectWorkingSet(); !ok {
			// optimal over the active set; retry over everything
			s.reconstructGradient()
			s.activeSize = l
			if wi, wj, ok = s.selectWorkingSet(); !ok {
				break
			}
			counter = 1 // shrink on the next iteration
		}
		i, j := wi, wj

		iter++

		// update alpha[i] and alpha[j], clipping to the box

		qi := s.q.getQ(i, s.activeSize)
		qj := s.q.getQ(j, s.activeSize)

		ci := s.boxC(i)
		cj := s.boxC(j)

		oldAlphaI := s.alpha[i]
		oldAlphaJ := s.alpha[j]

		if s.y[i] != s.y[j] {
			quadCoef := s.qd[i] + s.qd[j] + 2*float64(qi[j])
			if quadCoef <= 0 {
				quadCoef = tau
			}
			delta := (-s.g[i] - s.g[j]) / quadCoef
			diff := s.alpha[i] - s.alpha[j]
			s.alpha[i] += delta
			s.alpha[j] += delta

			if diff > 0 {
				if s.alpha[j] < 0 {
					s.alpha[j] = 0
					s.alpha[i] = diff
				}
			} else {
				if s.alpha[i] < 0 {
					s.alpha[i] = 0
					s.alpha[j] = -diff
				}
			}
			if diff > ci-cj {
				if s.alpha[i] > ci {
					s.alpha[i] = ci
					s.alpha[j] = ci - diff
				}
			} else {
				if s.alpha[j] > cj {
					s.alpha[j] = cj
					s.alpha[i] = cj + diff
				}
			}
		} else {
			quadCoef := s.qd[i] + s.qd[j] - 2*float64(qi[j])
			if quadCoef <= 0 {
				quadCoef = tau
			}
			delta := (s.g[i] - s.g[j]) / quadCoef
			sum := s.alpha[i] + s.alpha[j]
			s.alpha[i] -= delta
			s.alpha[j] += delta

			if sum > ci {
				if s.alpha[i] > ci {
					s.alpha[i] = ci
					s.alpha[j] = sum - ci
				}
			} else {
				if s.alpha[j] < 0 {
					s.alpha[j] = 0
					s.alpha[i] = sum
				}
			}
			if sum > cj {
				if s.alpha[j] > cj {
					s.alpha[j] = cj
					s.alpha[i] = sum - cj
				}
			} else {
				if s.alpha[i] < 0 {
					s.alpha[i] = 0
					s.alpha[j] = sum
				}
			}
		}

		deltaAlphaI := s.alpha[i] - oldAlphaI
		deltaAlphaJ := s.alpha[j] - oldAlphaJ
		for k := 0; k < s.activeSize; k++ {
			s.g[k] += float64(qi[k])*deltaAlphaI + float64(qj[k])*deltaAlphaJ
		}

		ui := s.isUpperBound(i)
		uj := s.isUpperBound(j)
		s.updateAlphaStatus(i)
		s.updateAlphaStatus(j)
		if ui != s.isUpperBound(i) {
			qi = s.q.getQ(i, l)
			if ui {
				for k := 0; k < l; k++ {
					s.gBar[k] -= ci * float64(qi[k])
				}
			} else {
				for k := 0; k < l; k++ {
					s.gBar[k] += ci * float64(qi[k])
				}
			}
		}
		if uj != s.isUpperBound(j) {
			qj = s.q.getQ(j, l)
			if uj {
				for k := 0; k < l; k++ {
					s.gBar[k] -= cj * float64(qj[k])
				}
			} else {
				for k := 0; k < l; k++ {
					s.gBar[k] += cj * float64(qj[k])
				}
			}
		}
	}

	if iter >= maxIter {
		if s.activeSize < l {
			s.reconstructGradient()
			s.activeSize = l
		}
		log.GetLogger().Warn("smo: reached the iteration limit before convergence",
			"iterations", iter)
	}

	si.rho = s.calculateRho()

	var obj float64
	for i := 0; i < l; i++ {
		obj += s.alpha[i] * (s.g[i] + s.p[i])
	}
	si.obj = obj / 2

	for i := 0; i < l; i++ {
		alpha[s.activeSet[i]] = s.alpha[i]
	}

	si.upperBoundP = cp
	si.upperBoundN = cn
	log.GetLogger().Debug("smo: optimization finished", "iterations", iter)
}

// selectWorkingSet picks the maximal violating pair with second-order
// tie-breaking. ok is false when the optimality gap over the active set is
// within eps.
func (s *smoSolver) selectWorkingSet() (i, j int, ok bool) {
	if s.nu {
		return s.selectWorkingSetNu()
	}

	gmax := -inf
	gmax2 := -inf
	gmaxIdx := -1
	gminIdx := -1
	objDiffMin := inf

	for t := 0; t < s.activeSize; t++ {
		if s.y[t] == +1 {
			if !s.isUpperBound(t) && -s.g[t] >= gmax {
				gmax = -s.g[t]
				gmaxIdx = t
			}
		} else {
			if !s.isLowerBound(t) && s.g[t] >= gmax {
				gmax = s.g[t]
				gmaxIdx = t
			}
		}
	}

	var qi []float32
	if gmaxIdx != -1 {
		qi = s.q.getQ(gmaxIdx, s.activeSize)
	}

	for t := 0; t < s.activeSize; t++ {
		if s.y[t] == +1 {
			if !s.isLowerBound(t) {
				gradDiff := gmax + s.g[t]
				if s.g[t] >= gmax2 {
					gmax2 = s.g[t]
				}
				if gradDiff > 0 {
					quadCoef := s.qd[gmaxIdx] + s.qd[t] - float64(s.y[gmaxIdx])*float64(2*qi[t])
					if quadCoef <= 0 {
						quadCoef = tau
					}
					if objDiff := -(gradDiff * gradDiff) / quadCoef; objDiff <= objDiffMin {
						gminIdx = t
						objDiffMin = objDiff
					}
				}
			}
		} else {
			if !s.isUpperBound(t) {
				gradDiff := gmax - s.g[t]
				if -s.g[t] >= gmax2 {
					gmax2 = -s.g[t]
				}
				if gradDiff > 0 {
					quadCoef := s.qd[gmaxIdx] + s.qd[t] + float64(s.y[gmaxIdx])*float64(2*qi[t])
					if quadCoef <= 0 {
						quadCoef = tau
					}
					if objDiff := -(gradDiff * gradDiff) / quadCoef; objDiff <= objDiffMin {
						gminIdx = t
						objDiffMin = objDiff
					}
				}
			}
		}
	}

	if gmax+gmax2 < s.eps {
		return 0, 0, false
	}
	return gmaxIdx, gminIdx, true
}

// selectWorkingSetNu keeps the pair within one label sign so the extra
// equality constraint of the nu formulations stays satisfied.
func (s *smoSolver) selectWorkingSetNu() (i, j int, ok bool) {
	gmaxp := -inf
	gmaxp2 := -inf
	gmaxpIdx := -1

	gmaxn := -inf
	gmaxn2 := -inf
	gmaxnIdx := -1

	gminIdx := -1
	objDiffMin := inf

	for t := 0; t < s.activeSize; t++ {
		if s.y[t] == +1 {
			if !s.isUpperBound(t) && -s.g[t] >= gmaxp {
				gmaxp = -s.g[t]
				gmaxpIdx = t
			}
		} else {
			if !s.isLowerBound(t) && s.g[t] >= gmaxn {
				gmaxn = s.g[t]
				gmaxnIdx = t
			}
		}
	}

	var qip, qin []float32
	if gmaxpIdx != -1 {
		qip = s.q.getQ(gmaxpIdx, s.activeSize)
	}
	if gmaxnIdx != -1 {
		qin = s.q.getQ(gmaxnIdx, s.activeSize)
	}

	for t := 0; t < s.activeSize; t++ {
		if s.y[t] == +1 {
			if !s.isLowerBound(t) {
				gradDiff := gmaxp + s.g[t]
				if s.g[t] >= gmaxp2 {
					gmaxp2 = s.g[t]
				}
				if gradDiff > 0 {
					quadCoef := s.qd[gmaxpIdx] + s.qd[t] - 2*float64(qip[t])
					if quadCoef <= 0 {
						quadCoef = tau
					}
					if objDiff := -(gradDiff * gradDiff) / quadCoef; objDiff <= objDiffMin {
						gminIdx = t
						objDiffMin = objDiff
					}
				}
			}
		} else {
			if !s.isUpperBound(t) {
				gradDiff := gmaxn - s.g[t]
				if -s.g[t] >= gmaxn2 {
					gmaxn2 = -s.g[t]
				}
				if gradDiff > 0 {
					quadCoef := s.qd[gmaxnIdx] + s.qd[t] - 2*float64(qin[t])
					if quadCoef <= 0 {
						quadCoef = tau
					}
					if objDiff := -(gradDiff * gradDiff) / quadCoef; objDiff <= objDiffMin {
						gminIdx = t
						objDiffMin = objDiff
					}
				}
			}
		}
	}

	if math.Max(gmaxp+gmaxp2, gmaxn+gmaxn2) < s.eps {
		return 0, 0, false
	}

	if s.y[gminIdx] == +1 {
		return gmaxpIdx, gminIdx, true
	}
	return gmaxnIdx, gminIdx, true
}

func (s *smoSolver) beShrunk(i int, gmax1, gmax2 float64) bool {
	if s.isUpperBound(i) {
		if s.y[i] == +1 {
			return -s.g[i] > gmax1
		}
		return -s.g[i] > gmax2
	}
	if s.isLowerBound(i) {
		if s.y[i] == +1 {
			return s.g[i] > gmax2
		}
		return s.g[i] > gmax1
	}
	return false
}

func (s *smoSolver) beShrunkNu(i int, gmax1, gmax2, gmax3, gmax4 float64) bool {
	if s.isUpperBound(i) {
		if s.y[i] == +1 {
			return -s.g[i] > gmax1
		}
		return -s.g[i] > gmax4
	}
	if s.isLowerBound(i) {
		if s.y[i] == +1 {
			return s.g[i] > gmax2
		}
		return s.g[i] > gmax3
	}
	return false
}

func (s *smoSolver) doShrinking() {
	if s.nu {
		s.doShrinkingNu()
		return
	}

	gmax1 := -inf // max { -y_i grad_i | i in I_up }
	gmax2 := -inf // max { y_i grad_i | i in I_low }

	for i := 0; i < s.activeSize; i++ {
		if s.y[i] == +1 {
			if !s.isUpperBound(i) && -s.g[i] >= gmax1 {
				gmax1 = -s.g[i]
			}
			if !s.isLowerBound(i) && s.g[i] >= gmax2 {
				gmax2 = s.g[i]
			}
		} else {
			if !s.isUpperBound(i) && -s.g[i] >= gmax2 {
				gmax2 = -s.g[i]
			}
			if !s.isLowerBound(i) && s.g[i] >= gmax1 {
				gmax1 = s.g[i]
			}
		}
	}

	if !s.unshrink && gmax1+gmax2 <= s.eps*10 {
		s.unshrink = true
		s.reconstructGradient()
		s.activeSize = s.l
	}

	for i := 0; i < s.activeSize; i++ {
		if s.beShrunk(i, gmax1, gmax2) {
			s.activeSize--
			for s.activeSize > i {
				if !s.beShrunk(s.activeSize, gmax1, gmax2) {
					s.swapIndex(i, s.activeSize)
					break
				}
				s.activeSize--
			}
		}
	}
}

func (s *smoSolver) doShrinkingNu() {
	gmax1 := -inf // max { -y_i grad_i | y_i = +1, i in I_up }
	gmax2 := -inf // max { y_i grad_i | y_i = +1, i in I_low }
	gmax3 := -inf // max { -y_i grad_i | y_i = -1, i in I_up }
	gmax4 := -inf // max { y_i grad_i | y_i = -1, i in I_low }

	for i := 0; i < s.activeSize; i++ {
		if !s.isUpperBound(i) {
			if s.y[i] == +1 {
				if -s.g[i] > gmax1 {
					gmax1 = -s.g[i]
				}
			} else if -s.g[i] > gmax4 {
				gmax4 = -s.g[i]
			}
		}
		if !s.isLowerBound(i) {
			if s.y[i] == +1 {
				if s.g[i] > gmax2 {
					gmax2 = s.g[i]
				}
			} else if s.g[i] > gmax3 {
				gmax3 = s.g[i]
			}
		}
	}

	if !s.unshrink && math.Max(gmax1+gmax2, gmax3+gmax4) <= s.eps*10 {
		s.unshrink = true
		s.reconstructGradient()
		s.activeSize = s.l
	}

	for i := 0; i < s.activeSize; i++ {
		if s.beShrunkNu(i, gmax1, gmax2, gmax3, gmax4) {
			s.activeSize--
			for s.activeSize > i {
				if !s.beShrunkNu(s.activeSize, gmax1, gmax2, gmax3, gmax4) {
					s.swapIndex(i, s.activeSize)
					break
				}
				s.activeSize--
			}
		}
	}
}

func (s *smoSolver) calculateRho() float64 {
	if s.nu {
		return s.calculateRhoNu()
	}

	nFree := 0
	ub, lb := inf, -inf
	var sumFree float64
	for i := 0; i < s.activeSize; i++ {
		yg := float64(s.y[i]) * s.g[i]
		if s.isLowerBound(i) {
			if s.y[i] > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		} else if s.isUpperBound(i) {
			if s.y[i] < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		} else {
			nFree++
			sumFree += yg
		}
	}

	if nFree > 0 {
		return sumFree / float64(nFree)
	}
	return (ub + lb) / 2
}

func (s *smoSolver) calculateRhoNu() float64 {
	nFree1, nFree2 := 0, 0
	ub1, ub2 := inf, inf
	lb1, lb2 := -inf, -inf
	var sumFree1, sumFree2 float64

	for i := 0; i < s.activeSize; i++ {
		if s.y[i] == +1 {
			if s.isLowerBound(i) {
				ub1 = math.Min(ub1, s.g[i])
			} else if s.isUpperBound(i) {
				lb1 = math.Max(lb1, s.g[i])
			} else {
				nFree1++
				sumFree1 += s.g[i]
			}
		} else {
			if s.isLowerBound(i) {
				ub2 = math.Min(ub2, s.g[i])
			} else if s.isUpperBound(i) {
				lb2 = math.Max(lb2, s.g[i])
			} else {
				nFree2++
				sumFree2 += s.g[i]
			}
		}
	}

	var r1, r2 float64
	if nFree1 > 0 {
		r1 = sumFree1 / float64(nFree1)
	} else {
		r1 = (ub1 + lb1) / 2
	}
	if nFree2 > 0 {
		r2 = sumFree2 / float64(nFree2)
	} else {
		r2 = (ub2 + lb2) / 2
	}

	s.si.r = (r1 + r2) / 2
	return (r1 - r2) / 2
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
