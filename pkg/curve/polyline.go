// Package curve provides the sampled-curve primitives shared by the
// section and outline generators: polylines, clamped interpolation tables,
// uniform spacing and bracketed root finding.
package curve

import (
	"errors"
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"gonum.org/v1/gonum/floats"
)

// ErrPrecondition is returned when an operation is asked to work on data
// that cannot support it (empty tables, empty sample ranges, unbracketed
// roots). It aborts the computation in progress.
var ErrPrecondition = errors.New("precondition violation")

// Polyline is an ordered sequence of 2-D points. Insertion order is
// arc-length order; no method reorders the receiver.
type Polyline []v2.Vec

// FromXY zips two coordinate slices into a polyline.
func FromXY(xs, ys []float64) (Polyline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values and %d y values", ErrPrecondition, len(xs), len(ys))
	}
	p := make(Polyline, len(xs))
	for i := range xs {
		p[i] = v2.Vec{X: xs[i], Y: ys[i]}
	}
	return p, nil
}

// Xs returns the first coordinate of every point.
func (p Polyline) Xs() []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v.X
	}
	return out
}

// Ys returns the second coordinate of every point.
func (p Polyline) Ys() []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v.Y
	}
	return out
}

// Clone returns an independent copy.
func (p Polyline) Clone() Polyline {
	if p == nil {
		return nil
	}
	out := make(Polyline, len(p))
	copy(out, p)
	return out
}

// MirrorY flips the sign of the second coordinate, keeping point order.
func (p Polyline) MirrorY() Polyline {
	out := make(Polyline, len(p))
	for i, v := range p {
		out[i] = v2.Vec{X: v.X, Y: -v.Y}
	}
	return out
}

// MirrorX flips the sign of the first coordinate, keeping point order.
func (p Polyline) MirrorX() Polyline {
	out := make(Polyline, len(p))
	for i, v := range p {
		out[i] = v2.Vec{X: -v.X, Y: v.Y}
	}
	return out
}

// Reverse returns the points in reverse order.
func (p Polyline) Reverse() Polyline {
	out := make(Polyline, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// TranslateY shifts every point by d along the second axis.
func (p Polyline) TranslateY(d float64) Polyline {
	out := make(Polyline, len(p))
	for i, v := range p {
		out[i] = v2.Vec{X: v.X, Y: v.Y + d}
	}
	return out
}

// Last returns the final point, or false for an empty polyline.
func (p Polyline) Last() (v2.Vec, bool) {
	if len(p) == 0 {
		return v2.Vec{}, false
	}
	return p[len(p)-1], true
}

// Equal reports whether both polylines hold identical points.
func (p Polyline) Equal(q Polyline) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Linspace returns n evenly spaced values from l to u inclusive. The last
// element is exactly u.
func Linspace(l, u float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{l}
	}
	dst := floats.Span(make([]float64, n), l, u)
	dst[n-1] = u
	return dst
}
