// Package fuselage computes the parametric outer-mold-line geometry of an
// aircraft fuselage: longitudinal outlines, eight interpolated
// cross-section stations, equivalent diameters, wetted areas, form factor
// and the upsweep and windshield reference angles.
//
// Parameters are an immutable value. Compute is a pure function from
// Parameters to Geometry; Engine wraps it for callers that want a
// long-lived, setter-driven object.
package fuselage

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidParameter is returned when a parameter set violates a hard
	// constraint of the geometry model.
	ErrInvalidParameter = errors.New("invalid fuselage parameter")
	// ErrNotComputed is returned when derived data is requested before the
	// geometry has been calculated.
	ErrNotComputed = errors.New("fuselage geometry not computed")
)

// WindshieldType classifies the windshield (Roskam part VI).
type WindshieldType int

const (
	WindshieldFlatProtruding WindshieldType = iota
	WindshieldFlatFlush
	WindshieldSingleRound
	WindshieldSingleSharp
	WindshieldDouble
)

var windshieldNames = map[WindshieldType]string{
	WindshieldFlatProtruding: "FLAT_PROTRUDING",
	WindshieldFlatFlush:      "FLAT_FLUSH",
	WindshieldSingleRound:    "SINGLE_ROUND",
	WindshieldSingleSharp:    "SINGLE_SHARP",
	WindshieldDouble:         "DOUBLE",
}

func (w WindshieldType) String() string {
	if s, ok := windshieldNames[w]; ok {
		return s
	}
	return fmt.Sprintf("WindshieldType(%d)", int(w))
}

// ParseWindshieldType accepts the upper-case names, case-insensitively,
// with '-' or '_' separators.
func ParseWindshieldType(s string) (WindshieldType, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for w, name := range windshieldNames {
		if name == norm {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown windshield type %q", ErrInvalidParameter, s)
}

// WetAreaMethod selects the wetted-area formula.
type WetAreaMethod string

const (
	Stanford  WetAreaMethod = "Stanford"
	Torenbeek WetAreaMethod = "Torenbeek"
)

// ParseWetAreaMethod matches the method name case-insensitively.
func ParseWetAreaMethod(s string) (WetAreaMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stanford":
		return Stanford, nil
	case "torenbeek":
		return Torenbeek, nil
	}
	return "", fmt.Errorf("%w: unknown wetted area method %q", ErrInvalidParameter, s)
}

// canonical returns the constant m names, or m itself when it names none
// so that Validate can report it.
func (m WetAreaMethod) canonical() WetAreaMethod {
	if c, err := ParseWetAreaMethod(string(m)); err == nil {
		return c
	}
	return m
}

// Shape holds the cross-section blend parameters of one station.
type Shape struct {
	A        float64 // lower-to-total height ratio
	RhoUpper float64
	RhoLower float64
}

// EllipseShape is the canonical shape of the cap and tip stations.
var EllipseShape = Shape{A: 0.5}

// Windshield describes the windshield panel.
type Windshield struct {
	Type   WindshieldType
	Width  float64
	Height float64
}

// Discretization holds the sample counts of every generated curve.
type Discretization struct {
	Nose         int
	Cylinder     int
	Tail         int
	SectionUpper int
	SectionLower int
}

// MinNoseTailPoints is the smallest nose or tail sample count that leaves
// the windshield and upsweep angle solvers two samples to interpolate.
const MinNoseTailPoints = 3

// DefaultDiscretization matches the reference point counts.
var DefaultDiscretization = Discretization{Nose: 10, Cylinder: 4, Tail: 10, SectionUpper: 10, SectionLower: 10}

// Parameters is the full scalar input of the geometry model, in SI units.
type Parameters struct {
	ID       string
	Aircraft AircraftID

	Pressurized   bool
	DeckNumber    int
	MassReference float64 // kg
	Roughness     float64 // m

	Length              float64
	NoseLengthRatio     float64
	CylinderLengthRatio float64
	NoseFinenessRatio   float64

	CylinderWidth    float64
	CylinderHeight   float64
	HeightFromGround float64

	NoseTipOffset float64 // z of the nose tip
	TailTipOffset float64 // z of the tail tip

	NoseCapPercent float64 // nose cap station as a fraction of nose length
	TailCapPercent float64 // tail cap distance from the tip as a fraction of tail length

	Windshield Windshield

	CylinderShape Shape
	MidNoseShape  Shape
	MidTailShape  Shape

	WetAreaMethod WetAreaMethod
	Points        Discretization
}

// NoseLength is NoseLengthRatio times Length.
func (p Parameters) NoseLength() float64 { return p.NoseLengthRatio * p.Length }

// CylinderLength is CylinderLengthRatio times Length.
func (p Parameters) CylinderLength() float64 { return p.CylinderLengthRatio * p.Length }

// TailLength is what remains of Length after nose and cylinder.
func (p Parameters) TailLength() float64 {
	return p.Length - p.NoseLength() - p.CylinderLength()
}

// TailLengthRatio is 1 - NoseLengthRatio - CylinderLengthRatio.
func (p Parameters) TailLengthRatio() float64 {
	return 1 - p.NoseLengthRatio - p.CylinderLengthRatio
}

// normalize rewrites the wetted-area method to its canonical constant.
func (p *Parameters) normalize() {
	p.WetAreaMethod = p.WetAreaMethod.canonical()
}

// Validate checks the hard constraints every computation depends on.
func (p Parameters) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...))
	}
	finite := func(name string, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad("%s is not finite", name)
			return false
		}
		return true
	}

	if finite("length", p.Length) && p.Length <= 0 {
		bad("length must be positive, got %g", p.Length)
	}
	if finite("nose length ratio", p.NoseLengthRatio) && p.NoseLengthRatio <= 0 {
		bad("nose length ratio must be positive, got %g", p.NoseLengthRatio)
	}
	if finite("cylinder length ratio", p.CylinderLengthRatio) && p.CylinderLengthRatio <= 0 {
		bad("cylinder length ratio must be positive, got %g", p.CylinderLengthRatio)
	}
	if p.NoseLengthRatio+p.CylinderLengthRatio >= 1 {
		bad("nose and cylinder ratios leave no tail (%g + %g)", p.NoseLengthRatio, p.CylinderLengthRatio)
	}
	if finite("cylinder width", p.CylinderWidth) && p.CylinderWidth <= 0 {
		bad("cylinder width must be positive, got %g", p.CylinderWidth)
	}
	if finite("cylinder height", p.CylinderHeight) && p.CylinderHeight <= 0 {
		bad("cylinder height must be positive, got %g", p.CylinderHeight)
	}
	finite("nose tip offset", p.NoseTipOffset)
	finite("tail tip offset", p.TailTipOffset)

	if finite("nose cap percent", p.NoseCapPercent) && (p.NoseCapPercent <= 0 || p.NoseCapPercent >= 0.5) {
		bad("nose cap percent must lie in (0, 0.5), got %g", p.NoseCapPercent)
	}
	if finite("tail cap percent", p.TailCapPercent) {
		if p.TailCapPercent >= 0.5 {
			bad("tail cap percent must be below 0.5, got %g", p.TailCapPercent)
		} else if p.TailLength() > 0 && p.TailCapPercent*p.TailLength() <= (1-TailTipFactor)*p.Length {
			bad("tail cap at %g of tail length falls behind the tail tip station", p.TailCapPercent)
		}
	}

	for _, s := range []struct {
		name  string
		shape Shape
	}{
		{"cylinder", p.CylinderShape},
		{"mid-nose", p.MidNoseShape},
		{"mid-tail", p.MidTailShape},
	} {
		if !in01(s.shape.A) || !in01(s.shape.RhoUpper) || !in01(s.shape.RhoLower) {
			bad("%s shape (a=%g, rhoUpper=%g, rhoLower=%g) outside [0, 1]",
				s.name, s.shape.A, s.shape.RhoUpper, s.shape.RhoLower)
		}
	}

	pts := p.Points
	if pts.Nose < MinNoseTailPoints || pts.Tail < MinNoseTailPoints {
		bad("nose and tail curves need at least %d points, got nose=%d tail=%d",
			MinNoseTailPoints, pts.Nose, pts.Tail)
	}
	if pts.Cylinder < 2 || pts.SectionUpper < 2 || pts.SectionLower < 2 {
		bad("cylinder and section curves need at least 2 points, got %+v", pts)
	}
	if _, err := ParseWetAreaMethod(string(p.WetAreaMethod)); err != nil {
		errs = append(errs, err)
	}
	if p.DeckNumber < 0 || p.MassReference < 0 || p.Roughness < 0 {
		bad("deck number, mass and roughness must be non-negative")
	}
	if p.Windshield.Width < 0 || p.Windshield.Height < 0 {
		bad("windshield size must be non-negative")
	}
	return errors.Join(errs...)
}

func in01(v float64) bool { return v >= 0 && v <= 1 }
