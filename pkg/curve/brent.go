package curve

import (
	"fmt"
	"math"
)

// Root finder settings.
const (
	BrentAbsTol  = 1e-5
	BrentRelTol  = 1e-9
	BrentMaxEval = 100
)

var (
	ErrNoBracket          = fmt.Errorf("%w: root not bracketed", ErrPrecondition)
	ErrTooManyEvaluations = fmt.Errorf("%w: root finder exceeded %d evaluations", ErrPrecondition, BrentMaxEval)
)

// Brent finds a root of f in the interval [a, b] using Brent's method.
// f(a) and f(b) must have opposite signs (or one of them be zero). The
// returned abscissa may lie on either side of the true root.
func Brent(f func(float64) float64, a, b float64) (float64, error) {
	fa, fb := f(a), f(b)
	evals := 2
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if math.IsNaN(fa) || math.IsNaN(fb) || (fa > 0) == (fb > 0) {
		return 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoBracket, a, fa, b, fb)
	}

	c, fc := b, fb
	var d, e float64
	for evals < BrentMaxEval {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol := 2*BrentRelTol*math.Abs(b) + 0.5*BrentAbsTol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol || fb == 0 {
			return b, nil
		}
		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			// inverse quadratic interpolation, secant when a == c
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}
		fb = f(b)
		evals++
	}
	return 0, ErrTooManyEvaluations
}

// IntersectArrays returns the abscissa in [lo, hi] where the linear
// interpolant of (xs, ys) meets the linear interpolant of (xs, target).
func IntersectArrays(xs, ys, target []float64, lo, hi float64) (float64, error) {
	if len(xs) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 samples, have %d", ErrPrecondition, len(xs))
	}
	curve, err := NewTable(xs, ys)
	if err != nil {
		return 0, err
	}
	line, err := NewTable(xs, target)
	if err != nil {
		return 0, err
	}
	return Brent(func(x float64) float64 { return curve.At(x) - line.At(x) }, lo, hi)
}
