package qp

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultTolerance is the maximal violation of the optimality conditions at exit.
	DefaultTolerance = 1e-3
	tau              = 1e-12
)

// SMO solves boxed quadratic programs with one equality constraint by sequential
// minimal optimisation: every step moves the pair of variables that violates the
// optimality conditions the most, picked with second order information.
type SMO struct {
	// Tolerance on the optimality gap, DefaultTolerance if zero.
	Tolerance float64
	// MaxIter bounds the number of pair updates, max(10^7, 100·n) if zero.
	MaxIter int
}

// NewSMO creates a solver with the default tolerance.
func NewSMO() *SMO {
	return &SMO{Tolerance: DefaultTolerance}
}

// Solve minimises the problem. P must be positive semi-definite.
func (s *SMO) Solve(p Problem) ([]float64, error) {
	n, err := p.Dim()
	if err != nil {
		return nil, err
	}
	lower, upper, err := p.Bounds()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if math.IsInf(lower[i], 0) || math.IsInf(upper[i], 0) {
			return nil, fmt.Errorf("variable %d is not boxed in [%g, %g]: %w", i, lower[i], upper[i], UnboundedErr)
		}
		if p.A[i] == 0 {
			return nil, fmt.Errorf("variable %d is missing from the equality: %w", i, UnsupportedErr)
		}
	}

	w := newWorkspace(p, lower, upper)
	if err := w.init(p.B); err != nil {
		return nil, err
	}

	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 10000000
		if 100*n > maxIter {
			maxIter = 100 * n
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		i, j, ok := w.selectPair(tol)
		if !ok {
			log.Debug().
				Int("variables", n).
				Int("iterations", iter).
				Msg("qp solved")
			return w.solution(), nil
		}
		w.update(i, j)
	}
	return nil, fmt.Errorf("no solution after %d iterations: %w", maxIter, NotConvergedErr)
}

// workspace holds the problem rewritten as
//
//	minimize ½·αᵀQα + pᵀα, yᵀα = delta, 0 <= α <= c
//
// with y in {-1, +1}, through x = (α + shift) / scale.
type workspace struct {
	n     int
	q     *mat.SymDense
	p     []float64
	y     []float64
	c     []float64
	scale []float64
	shift []float64
	alpha []float64
	grad  []float64
}

func newWorkspace(p Problem, lower, upper []float64) *workspace {
	n := len(lower)
	w := &workspace{
		n:     n,
		q:     mat.NewSymDense(n, nil),
		p:     make([]float64, n),
		y:     make([]float64, n),
		c:     make([]float64, n),
		scale: make([]float64, n),
		shift: make([]float64, n),
		alpha: make([]float64, n),
		grad:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		w.scale[i] = math.Abs(p.A[i])
		w.y[i] = math.Copysign(1, p.A[i])
		w.shift[i] = w.scale[i] * lower[i]
		w.c[i] = w.scale[i] * (upper[i] - lower[i])
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			w.q.SetSym(i, j, p.P.At(i, j)/(w.scale[i]*w.scale[j]))
		}
	}
	// linear term of the shifted problem: Q·shift + q/scale
	for i := 0; i < n; i++ {
		v := p.Q[i] / w.scale[i]
		for j := 0; j < n; j++ {
			v += w.q.At(i, j) * w.shift[j]
		}
		w.p[i] = v
	}
	return w
}

// init finds a feasible starting point for yᵀα = b - yᵀ·shift and the gradient there.
func (w *workspace) init(b float64) error {
	delta := b
	for i := 0; i < w.n; i++ {
		delta -= w.y[i] * w.shift[i]
	}
	sign := math.Copysign(1, delta)
	rest := math.Abs(delta)
	for i := 0; i < w.n && rest > 0; i++ {
		if w.y[i] != sign {
			continue
		}
		step := math.Min(rest, w.c[i])
		w.alpha[i] = step
		rest -= step
	}
	if rest > 1e-12*math.Max(1, math.Abs(delta)) {
		return fmt.Errorf("equality short by %g within the box: %w", rest, InfeasibleErr)
	}
	for i := 0; i < w.n; i++ {
		g := w.p[i]
		for j := 0; j < w.n; j++ {
			g += w.q.At(i, j) * w.alpha[j]
		}
		w.grad[i] = g
	}
	return nil
}

func (w *workspace) atUpper(i int) bool {
	return w.alpha[i] >= w.c[i]
}

func (w *workspace) atLower(i int) bool {
	return w.alpha[i] <= 0
}

// selectPair returns the maximal violating pair, with the second index chosen
// to maximise the decrease of the objective.
func (w *workspace) selectPair(tol float64) (int, int, bool) {
	gmax, gmax2 := math.Inf(-1), math.Inf(-1)
	i := -1
	for t := 0; t < w.n; t++ {
		if w.y[t] > 0 {
			if !w.atUpper(t) && -w.grad[t] >= gmax {
				gmax = -w.grad[t]
				i = t
			}
		} else {
			if !w.atLower(t) && w.grad[t] >= gmax {
				gmax = w.grad[t]
				i = t
			}
		}
	}

	j := -1
	objMin := math.Inf(1)
	for t := 0; t < w.n; t++ {
		var diff, quad float64
		if w.y[t] > 0 {
			if w.atLower(t) {
				continue
			}
			diff = gmax + w.grad[t]
			if w.grad[t] >= gmax2 {
				gmax2 = w.grad[t]
			}
			if diff <= 0 || i == -1 {
				continue
			}
			quad = w.q.At(i, i) + w.q.At(t, t) - 2*w.y[i]*w.q.At(i, t)
		} else {
			if w.atUpper(t) {
				continue
			}
			diff = gmax - w.grad[t]
			if -w.grad[t] >= gmax2 {
				gmax2 = -w.grad[t]
			}
			if diff <= 0 || i == -1 {
				continue
			}
			quad = w.q.At(i, i) + w.q.At(t, t) + 2*w.y[i]*w.q.At(i, t)
		}
		if quad <= 0 {
			quad = tau
		}
		if obj := -(diff * diff) / quad; obj <= objMin {
			j = t
			objMin = obj
		}
	}

	if gmax+gmax2 < tol || j == -1 {
		return 0, 0, false
	}
	return i, j, true
}

// update solves the two variable sub-problem analytically and clips it to the box.
func (w *workspace) update(i, j int) {
	ci, cj := w.c[i], w.c[j]
	oldI, oldJ := w.alpha[i], w.alpha[j]
	ai, aj := oldI, oldJ

	if w.y[i] != w.y[j] {
		quad := w.q.At(i, i) + w.q.At(j, j) + 2*w.q.At(i, j)
		if quad <= 0 {
			quad = tau
		}
		delta := (-w.grad[i] - w.grad[j]) / quad
		diff := ai - aj
		ai += delta
		aj += delta
		if diff > 0 {
			if aj < 0 {
				aj = 0
				ai = diff
			}
		} else {
			if ai < 0 {
				ai = 0
				aj = -diff
			}
		}
		if diff > ci-cj {
			if ai > ci {
				ai = ci
				aj = ci - diff
			}
		} else {
			if aj > cj {
				aj = cj
				ai = cj + diff
			}
		}
	} else {
		quad := w.q.At(i, i) + w.q.At(j, j) - 2*w.q.At(i, j)
		if quad <= 0 {
			quad = tau
		}
		delta := (w.grad[i] - w.grad[j]) / quad
		sum := ai + aj
		ai -= delta
		aj += delta
		if sum > ci {
			if ai > ci {
				ai = ci
				aj = sum - ci
			}
		} else {
			if aj < 0 {
				aj = 0
				ai = sum
			}
		}
		if sum > cj {
			if aj > cj {
				aj = cj
				ai = sum - cj
			}
		} else {
			if ai < 0 {
				ai = 0
				aj = sum
			}
		}
	}

	w.alpha[i], w.alpha[j] = ai, aj
	di, dj := ai-oldI, aj-oldJ
	for t := 0; t < w.n; t++ {
		w.grad[t] += w.q.At(t, i)*di + w.q.At(t, j)*dj
	}
}

func (w *workspace) solution() []float64 {
	x := make([]float64, w.n)
	for i := range x {
		x[i] = (w.alpha[i] + w.shift[i]) / w.scale[i]
	}
	return x
}
