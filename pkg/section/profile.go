// Package section generates fuselage cross-section profiles.
//
// A profile lives in the YZ plane: Vec.X is the lateral coordinate y and
// Vec.Y is the vertical coordinate z. Each of the four quadrant curves is a
// rational quadratic Bézier arc whose control point is the corner of the
// bounding box; the corner weight blends the arc from an exact ellipse
// (rho = 0) toward the rectangle (rho = 1).
package section

import (
	"math"

	"github.com/chazu/airframe/pkg/curve"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Minimum number of points per quadrant curve.
const MinPoints = 2

// ellipseRho is the conic shape factor of an elliptical quadrant, w/(1+w)
// with w = cos(45°).
var ellipseRho = (math.Sqrt2 / 2) / (1 + math.Sqrt2/2)

// Profile is one closed cross-section.
type Profile struct {
	Width    float64
	Height   float64
	A        float64 // lower-to-total height ratio; places the max-width line
	RhoUpper float64
	RhoLower float64

	// X tags the longitudinal station the profile belongs to.
	X float64
	// ZOffset is the vertical translation applied since generation.
	ZOffset float64

	UpperRight curve.Polyline // right side to top
	UpperLeft  curve.Polyline // top to left side
	LowerLeft  curve.Polyline // left side to bottom
	LowerRight curve.Polyline // bottom to right side
}

// Generate builds a profile centred on the origin, spanning z in
// [-height/2, height/2]. Shape parameters are clamped to [0, 1] and point
// counts are raised to MinPoints. Zero width or height yields a collapsed
// but well-formed profile.
func Generate(width, height, a, rhoUpper, rhoLower float64, nUpper, nLower int) *Profile {
	a = clamp01(a)
	rhoUpper = clamp01(rhoUpper)
	rhoLower = clamp01(rhoLower)
	nUpper = max(nUpper, MinPoints)
	nLower = max(nLower, MinPoints)

	hw := width / 2
	top := height / 2
	bottom := -height / 2
	zw := bottom + a*height

	wu := cornerWeight(rhoUpper)
	wl := cornerWeight(rhoLower)

	return &Profile{
		Width:    width,
		Height:   height,
		A:        a,
		RhoUpper: rhoUpper,
		RhoLower: rhoLower,
		UpperRight: conicArc(
			v2.Vec{X: hw, Y: zw}, v2.Vec{X: hw, Y: top}, v2.Vec{X: 0, Y: top}, wu, nUpper),
		UpperLeft: conicArc(
			v2.Vec{X: 0, Y: top}, v2.Vec{X: -hw, Y: top}, v2.Vec{X: -hw, Y: zw}, wu, nUpper),
		LowerLeft: conicArc(
			v2.Vec{X: -hw, Y: zw}, v2.Vec{X: -hw, Y: bottom}, v2.Vec{X: 0, Y: bottom}, wl, nLower),
		LowerRight: conicArc(
			v2.Vec{X: 0, Y: bottom}, v2.Vec{X: hw, Y: bottom}, v2.Vec{X: hw, Y: zw}, wl, nLower),
	}
}

// cornerWeight maps rho in [0, 1] to the Bézier weight of the corner
// control point. rho = 0 gives the elliptical weight cos(45°).
func cornerWeight(rho float64) float64 {
	r := ellipseRho + rho*(1-ellipseRho)
	r = math.Min(r, 1-1e-9)
	return r / (1 - r)
}

// conicArc samples a rational quadratic Bézier from p0 to p2 with middle
// control point p1 carrying weight w, at n uniformly spaced parameters.
func conicArc(p0, p1, p2 v2.Vec, w float64, n int) curve.Polyline {
	out := make(curve.Polyline, n)
	for i, t := range curve.Linspace(0, 1, n) {
		b0 := (1 - t) * (1 - t)
		b1 := 2 * t * (1 - t) * w
		b2 := t * t
		den := b0 + b1 + b2
		out[i] = v2.Vec{
			X: (b0*p0.X + b1*p1.X + b2*p2.X) / den,
			Y: (b0*p0.Y + b1*p1.Y + b2*p2.Y) / den,
		}
	}
	// endpoints exactly, whatever the weight
	out[0] = p0
	out[n-1] = p2
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// TranslateZ moves the whole profile vertically by dz.
func (p *Profile) TranslateZ(dz float64) {
	p.UpperRight = p.UpperRight.TranslateY(dz)
	p.UpperLeft = p.UpperLeft.TranslateY(dz)
	p.LowerLeft = p.LowerLeft.TranslateY(dz)
	p.LowerRight = p.LowerRight.TranslateY(dz)
	p.ZOffset += dz
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	c.UpperRight = p.UpperRight.Clone()
	c.UpperLeft = p.UpperLeft.Clone()
	c.LowerLeft = p.LowerLeft.Clone()
	c.LowerRight = p.LowerRight.Clone()
	return &c
}

// Points returns the four quadrant curves in outline order.
func (p *Profile) Points() []curve.Polyline {
	return []curve.Polyline{p.UpperRight, p.UpperLeft, p.LowerLeft, p.LowerRight}
}

// ZSide is the height of the maximum-width line, taken from the last point
// of the upper-left curve.
func (p *Profile) ZSide() float64 {
	v, ok := p.UpperLeft.Last()
	if !ok {
		return p.ZOffset
	}
	return v.Y
}

// Outline returns the closed counter-clockwise boundary without the
// repeated quadrant seam points. The first point is not repeated at the
// end.
func (p *Profile) Outline() curve.Polyline {
	out := make(curve.Polyline, 0,
		len(p.UpperRight)+len(p.UpperLeft)+len(p.LowerLeft)+len(p.LowerRight))
	out = append(out, p.UpperRight...)
	if len(p.UpperLeft) > 1 {
		out = append(out, p.UpperLeft[1:]...)
	}
	if len(p.LowerLeft) > 1 {
		out = append(out, p.LowerLeft[1:]...)
	}
	if len(p.LowerRight) > 2 {
		out = append(out, p.LowerRight[1:len(p.LowerRight)-1]...)
	}
	return out
}

// Area is the enclosed area of the outline.
func (p *Profile) Area() float64 {
	pts := p.Outline()
	var s float64
	for i := range pts {
		j := (i + 1) % len(pts)
		s += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(s) / 2
}

// RightCurve is the right half from top to bottom: the upper-right curve
// reversed followed by the lower-right curve reversed.
func (p *Profile) RightCurve() curve.Polyline {
	out := p.UpperRight.Reverse()
	if lr := p.LowerRight.Reverse(); len(lr) > 1 {
		out = append(out, lr[1:]...)
	}
	return out
}

// LeftCurve is the left half from top to bottom.
func (p *Profile) LeftCurve() curve.Polyline {
	out := p.UpperLeft.Clone()
	if len(p.LowerLeft) > 1 {
		out = append(out, p.LowerLeft[1:]...)
	}
	return out
}
