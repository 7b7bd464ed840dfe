package fuselage

import (
	"fmt"
	"math"

	"github.com/chazu/airframe/pkg/curve"
	"gonum.org/v1/gonum/floats"
)

// Reference heights, as fractions of the cylinder height above the
// relevant minimum z.
const (
	UpsweepHeightFraction    = 0.26
	WindshieldHeightFraction = 0.75
)

// AngleSolver locates where a horizontal reference line crosses a sampled
// longitudinal profile and measures the profile slope there.
type AngleSolver struct {
	X []float64
	Z []float64
}

// newAngleSolver keeps the samples of p accepted by keep, drops repeated
// x values and fails if fewer than two samples remain.
func newAngleSolver(p curve.Polyline, keep func(x float64) bool) (*AngleSolver, error) {
	var xs, zs []float64
	for _, v := range p {
		if keep(v.X) {
			xs = append(xs, v.X)
			zs = append(zs, v.Y)
		}
	}
	xs, zs = curve.DedupConsecutive(xs, zs)
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: %d samples in angle range", curve.ErrPrecondition, len(xs))
	}
	return &AngleSolver{X: xs, Z: zs}, nil
}

// Solve returns the slope angle in degrees where the profile reaches
// height target.
func (s *AngleSolver) Solve(target float64) (float64, error) {
	n := len(s.X)
	if n < 2 || len(s.Z) != n {
		return 0, fmt.Errorf("%w: angle solver needs matching samples", curve.ErrPrecondition)
	}
	xStar, err := curve.IntersectArrays(s.X, s.Z, constant(target, n), s.X[0], s.X[n-1])
	if err != nil {
		return 0, fmt.Errorf("reference crossing: %w", err)
	}
	// paired height, axes exchanged
	zStar, err := curve.IntersectArrays(s.Z, s.X, constant(xStar, n), s.Z[0], s.Z[n-1])
	if err != nil {
		return 0, fmt.Errorf("paired height: %w", err)
	}

	idx := n - 1
	for i, x := range s.X {
		if x-xStar > curve.BrentAbsTol {
			idx = i
			break
		}
	}
	if math.Abs(s.X[idx]-xStar) <= curve.BrentAbsTol && idx > 0 {
		idx--
	}
	dx := s.X[idx] - xStar
	if dx == 0 {
		return 0, fmt.Errorf("%w: degenerate slope at x=%g", curve.ErrPrecondition, xStar)
	}
	return degrees(math.Atan((s.Z[idx] - zStar) / dx)), nil
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// upsweepAngle is the tail underside angle where the lower outline reaches
// 26% of the cylinder height above its value at the cylinder end.
func (g *Geometry) upsweepAngle() (float64, error) {
	x0 := g.NoseLength + g.CylinderLength
	s, err := newAngleSolver(g.Outlines.Lower, func(x float64) bool { return x > x0 })
	if err != nil {
		return 0, fmt.Errorf("upsweep angle: %w", err)
	}
	a, err := s.Solve(s.Z[0] + UpsweepHeightFraction*g.Params.CylinderHeight)
	if err != nil {
		return 0, fmt.Errorf("upsweep angle: %w", err)
	}
	return a, nil
}

// windshieldAngle is the nose top angle where the upper outline reaches 75%
// of the cylinder height above the lowest point of the fuselage.
func (g *Geometry) windshieldAngle() (float64, error) {
	ln := g.NoseLength
	s, err := newAngleSolver(g.Outlines.Upper, func(x float64) bool { return x < ln })
	if err != nil {
		return 0, fmt.Errorf("windshield angle: %w", err)
	}
	zMin := floats.Min(g.Outlines.Lower.Ys())
	a, err := s.Solve(zMin + WindshieldHeightFraction*g.Params.CylinderHeight)
	if err != nil {
		return 0, fmt.Errorf("windshield angle: %w", err)
	}
	return a, nil
}
