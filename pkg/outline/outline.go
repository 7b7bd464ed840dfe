// Package outline generates the longitudinal side-view (XZ) and top-view
// (XY) curves of a fuselage and answers height and width queries along x.
package outline

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/chazu/airframe/pkg/curve"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Segment identifies one longitudinal segment.
type Segment int

const (
	Nose Segment = iota
	Cylinder
	Tail
)

func (s Segment) String() string {
	switch s {
	case Nose:
		return "nose"
	case Cylinder:
		return "cylinder"
	case Tail:
		return "tail"
	}
	return fmt.Sprintf("segment(%d)", int(s))
}

// Spec holds the inputs of the longitudinal generator.
type Spec struct {
	NoseLength     float64
	CylinderLength float64
	TailLength     float64

	NoseTipOffset float64 // z of the nose tip
	TailTipOffset float64 // z of the tail tip

	HalfHeight float64 // cylinder half-height
	HalfWidth  float64 // cylinder half-width
	A          float64 // cylinder lower-to-total height ratio

	NosePoints     int
	CylinderPoints int
	TailPoints     int
}

// Length is the sum of the segment lengths.
func (s Spec) Length() float64 {
	return s.NoseLength + s.CylinderLength + s.TailLength
}

// CylinderTop and CylinderBottom are the side-view z of the cylinder.
func (s Spec) CylinderTop() float64    { return 2 * s.HalfHeight * (1 - s.A) }
func (s Spec) CylinderBottom() float64 { return -2 * s.HalfHeight * s.A }

func (s Spec) validate() error {
	switch {
	case s.NoseLength <= 0, s.CylinderLength <= 0, s.TailLength <= 0:
		return fmt.Errorf("%w: segment lengths must be positive (%g, %g, %g)",
			curve.ErrPrecondition, s.NoseLength, s.CylinderLength, s.TailLength)
	case s.HalfHeight < 0, s.HalfWidth < 0:
		return fmt.Errorf("%w: negative cylinder size", curve.ErrPrecondition)
	case s.NosePoints < 2, s.CylinderPoints < 2, s.TailPoints < 2:
		return fmt.Errorf("%w: each segment needs at least 2 points", curve.ErrPrecondition)
	}
	return nil
}

// Outlines is the full set of longitudinal curves of one geometry version.
// Segments are concatenated nose, cylinder, tail; the seam points appear
// twice.
type Outlines struct {
	Version uint64

	Upper  curve.Polyline // XZ
	Lower  curve.Polyline // XZ
	Camber curve.Polyline // XZ

	SideRight curve.Polyline // XY, y >= 0
	SideLeft  curve.Polyline // XY, mirror of SideRight

	// SideRightZ and SideLeftZ hold the z height of each top-view sample.
	// They are filled by the station interpolator.
	SideRightZ []float64
	SideLeftZ  []float64

	// SegmentStart indexes the first sample of each segment.
	SegmentStart [3]int
}

var versions atomic.Uint64

// Generate samples all longitudinal curves.
func Generate(s Spec) (*Outlines, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	zU, zL := s.CylinderTop(), s.CylinderBottom()
	hw := s.HalfWidth
	x0 := s.NoseLength + s.CylinderLength

	o := &Outlines{Version: versions.Add(1)}
	n := s.NosePoints + s.CylinderPoints + s.TailPoints
	o.Upper = make(curve.Polyline, 0, n)
	o.Lower = make(curve.Polyline, 0, n)
	o.SideRight = make(curve.Polyline, 0, n)

	add := func(x, up, low, y float64) {
		o.Upper = append(o.Upper, v2.Vec{X: x, Y: up})
		o.Lower = append(o.Lower, v2.Vec{X: x, Y: low})
		o.SideRight = append(o.SideRight, v2.Vec{X: x, Y: y})
	}

	o.SegmentStart[Nose] = 0
	for _, t := range curve.Linspace(0, 1, s.NosePoints) {
		e := noseShape(t)
		add(t*s.NoseLength,
			s.NoseTipOffset+(zU-s.NoseTipOffset)*e,
			s.NoseTipOffset+(zL-s.NoseTipOffset)*e,
			hw*e)
	}

	o.SegmentStart[Cylinder] = len(o.Upper)
	for _, x := range curve.Linspace(s.NoseLength, x0, s.CylinderPoints) {
		add(x, zU, zL, hw)
	}

	o.SegmentStart[Tail] = len(o.Upper)
	for _, t := range curve.Linspace(0, 1, s.TailPoints) {
		add(x0+t*s.TailLength,
			zU+(s.TailTipOffset-zU)*t*t,
			zL+(s.TailTipOffset-zL)*t*t*(3-2*t),
			hw*(1-t*t))
	}

	o.Camber = make(curve.Polyline, len(o.Upper))
	for i := range o.Upper {
		o.Camber[i] = v2.Vec{X: o.Upper[i].X, Y: (o.Upper[i].Y + o.Lower[i].Y) / 2}
	}
	o.SideLeft = o.SideRight.MirrorY()
	o.SideRightZ = make([]float64, len(o.SideRight))
	o.SideLeftZ = make([]float64, len(o.SideLeft))
	return o, nil
}

// noseShape is the elliptical nose law, 0 at the tip and 1 at the
// cylinder junction.
func noseShape(t float64) float64 {
	u := 1 - t
	return math.Sqrt(math.Max(0, 1-u*u))
}

// SetSideZ stores the z height of every top-view sample and mirrors it to
// the left curve.
func (o *Outlines) SetSideZ(zs []float64) error {
	if len(zs) != len(o.SideRight) {
		return fmt.Errorf("%w: %d side heights for %d samples", curve.ErrPrecondition, len(zs), len(o.SideRight))
	}
	o.SideRightZ = append(o.SideRightZ[:0], zs...)
	o.SideLeftZ = append(o.SideLeftZ[:0], zs...)
	o.SideLeft = o.SideRight.MirrorY()
	return nil
}

// Segment returns the samples of one segment of a concatenated curve.
func (o *Outlines) Segment(p curve.Polyline, seg Segment) curve.Polyline {
	start := o.SegmentStart[seg]
	end := len(p)
	if seg < Tail {
		end = o.SegmentStart[seg+1]
	}
	return p[start:end]
}

// Clone returns a deep copy carrying the same version.
func (o *Outlines) Clone() *Outlines {
	c := *o
	c.Upper = o.Upper.Clone()
	c.Lower = o.Lower.Clone()
	c.Camber = o.Camber.Clone()
	c.SideRight = o.SideRight.Clone()
	c.SideLeft = o.SideLeft.Clone()
	c.SideRightZ = append([]float64(nil), o.SideRightZ...)
	c.SideLeftZ = append([]float64(nil), o.SideLeftZ...)
	return &c
}
