package curve

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Table is a piecewise-linear lookup over sampled (x, y) pairs.
//
// Construction collapses runs of equal x to their first occurrence and
// sorts by x. Lookups outside the sampled domain return the nearest
// boundary value; At never fails.
type Table struct {
	xs, ys []float64
	fit    *interp.PiecewiseLinear
}

// NewTable builds a table from parallel slices. It fails on empty input,
// mismatched lengths or NaN abscissae.
func NewTable(xs, ys []float64) (*Table, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: empty interpolation table", ErrPrecondition)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: table has %d x values and %d y values", ErrPrecondition, len(xs), len(ys))
	}
	for i, x := range xs {
		if math.IsNaN(x) {
			return nil, fmt.Errorf("%w: NaN abscissa at index %d", ErrPrecondition, i)
		}
	}

	dx, dy := DedupConsecutive(xs, ys)
	sort.Stable(pairs{dx, dy})
	// Sorting can bring equal x values together that were not adjacent.
	dx, dy = DedupConsecutive(dx, dy)

	t := &Table{xs: dx, ys: dy}
	if len(dx) > 1 {
		pl := &interp.PiecewiseLinear{}
		if err := pl.Fit(dx, dy); err != nil {
			return nil, fmt.Errorf("fit table: %w", err)
		}
		t.fit = pl
	}
	return t, nil
}

// TableFrom builds a table over a polyline's coordinates.
func TableFrom(p Polyline) (*Table, error) {
	return NewTable(p.Xs(), p.Ys())
}

// At returns the interpolated value at x with flat extrapolation.
func (t *Table) At(x float64) float64 {
	n := len(t.xs)
	switch {
	case n == 1 || x <= t.xs[0]:
		return t.ys[0]
	case x >= t.xs[n-1]:
		return t.ys[n-1]
	}
	return t.fit.Predict(x)
}

// Domain returns the smallest and largest sampled x.
func (t *Table) Domain() (lo, hi float64) {
	return t.xs[0], t.xs[len(t.xs)-1]
}

// Len is the number of distinct samples.
func (t *Table) Len() int { return len(t.xs) }

// Xs returns a copy of the distinct sorted abscissae.
func (t *Table) Xs() []float64 { return append([]float64(nil), t.xs...) }

// Ys returns a copy of the ordinates matching Xs.
func (t *Table) Ys() []float64 { return append([]float64(nil), t.ys...) }

// DedupConsecutive drops every pair whose x equals the x of the previous
// kept pair. The first occurrence wins.
func DedupConsecutive(xs, ys []float64) ([]float64, []float64) {
	if len(xs) == 0 {
		return nil, nil
	}
	ox := make([]float64, 0, len(xs))
	oy := make([]float64, 0, len(ys))
	ox = append(ox, xs[0])
	oy = append(oy, ys[0])
	for i := 1; i < len(xs); i++ {
		if xs[i] == ox[len(ox)-1] {
			continue
		}
		ox = append(ox, xs[i])
		oy = append(oy, ys[i])
	}
	return ox, oy
}

type pairs struct{ xs, ys []float64 }

func (p pairs) Len() int           { return len(p.xs) }
func (p pairs) Less(i, j int) bool { return p.xs[i] < p.xs[j] }
func (p pairs) Swap(i, j int) {
	p.xs[i], p.xs[j] = p.xs[j], p.xs[i]
	p.ys[i], p.ys[j] = p.ys[j], p.ys[i]
}
