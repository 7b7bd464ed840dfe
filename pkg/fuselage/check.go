package fuselage

import "fmt"

// Design-rule limits used by CheckGeometry.
const (
	finenessMin, finenessMax                 = 8.0, 12.5
	noseFinenessMin, noseFinenessMax         = 1.2, 2.5
	cylinderFinenessMin, cylinderFinenessMax = 3.0, 7.0
	tailFinenessMin, tailFinenessMax         = 2.8, 3.2

	lengthMin, lengthMax                 = 10.0, 80.0
	noseRatioMin, noseRatioMax           = 0.1, 0.2
	cylinderRatioMin, cylinderRatioMax   = 0.4, 0.8
	noseLengthMin, noseLengthMax         = 1.0, 8.0
	tailLengthMin, tailLengthMax         = 2.0, 25.0
	cylinderHeightMin, cylinderHeightMax = 2.0, 10.0
)

// Bound is one checked quantity with its admissible range.
type Bound struct {
	Code  string
	Name  string
	Unit  string
	Value float64
	Min   float64
	Max   float64
}

// Within reports whether Value lies in [Min, Max].
func (b Bound) Within() bool { return b.Value >= b.Min && b.Value <= b.Max }

// ValidationWarning describes a quantity outside its design-rule range.
// It never blocks computation.
type ValidationWarning struct {
	Code    string
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("[warning] %s: %s", w.Code, w.Message)
}

// CheckResult bundles every bound and the warnings for those violated.
type CheckResult struct {
	Bounds   []Bound
	Warnings []ValidationWarning
}

// OK reports whether every bound is satisfied.
func (r CheckResult) OK() bool { return len(r.Warnings) == 0 }

// CheckGeometry compares the geometry against fixed design-rule ranges.
func CheckGeometry(g *Geometry) CheckResult {
	p := g.Params
	d := g.Derived
	H := p.CylinderHeight

	bounds := []Bound{
		{"FINENESS", "fineness ratio", "", d.FinenessRatio, finenessMin, finenessMax},
		{"NOSE_FINENESS", "nose fineness ratio", "", d.NoseFineness, noseFinenessMin, noseFinenessMax},
		{"CYLINDER_FINENESS", "cylinder fineness ratio", "", d.CylinderFineness, cylinderFinenessMin, cylinderFinenessMax},
		{"TAIL_FINENESS", "tail fineness ratio", "", d.TailFineness, tailFinenessMin, tailFinenessMax},
		{"LENGTH", "fuselage length", "m", p.Length, lengthMin, lengthMax},
		{"NOSE_RATIO", "nose length ratio", "", p.NoseLengthRatio, noseRatioMin, noseRatioMax},
		{"CYLINDER_RATIO", "cylinder length ratio", "", p.CylinderLengthRatio, cylinderRatioMin, cylinderRatioMax},
		{"TAIL_RATIO", "tail length ratio", "", p.TailLengthRatio(),
			1 - cylinderRatioMax - noseRatioMax, 1 - cylinderRatioMin - noseRatioMin},
		{"NOSE_LENGTH", "nose length", "m", g.NoseLength, noseLengthMin, noseLengthMax},
		{"CYLINDER_LENGTH", "cylinder length", "m", g.CylinderLength, 0.35 * lengthMin, 0.75 * lengthMax},
		{"TAIL_LENGTH", "tail length", "m", g.TailLength, tailLengthMin, tailLengthMax},
		{"CYLINDER_HEIGHT", "cylinder height", "m", H, cylinderHeightMin, cylinderHeightMax},
		{"CYLINDER_WIDTH", "cylinder width", "m", p.CylinderWidth, 0.7 * cylinderHeightMin, 1.3 * cylinderHeightMax},
		{"NOSE_TIP_OFFSET", "nose tip offset", "m", p.NoseTipOffset, -0.2 * H, 0.2 * H},
		{"TAIL_TIP_OFFSET", "tail tip offset", "m", p.TailTipOffset, 0.4 * (H / 2), 1.0 * (H / 2)},
		{"NOSE_CAP", "nose cap offset", "m", p.NoseCapPercent * g.NoseLength, 0.015 * g.NoseLength, 0.15 * g.NoseLength},
		{"TAIL_CAP", "tail cap offset", "m", p.TailCapPercent * g.TailLength, 0, 0.1 * g.TailLength},
		{"SECTION_A", "cylinder lower-to-total height ratio", "", p.CylinderShape.A, 0.1, 0.5},
		{"SECTION_RHO_UPPER", "cylinder upper rho", "", p.CylinderShape.RhoUpper, 0, 1},
		{"SECTION_RHO_LOWER", "cylinder lower rho", "", p.CylinderShape.RhoLower, 0, 1},
	}

	res := CheckResult{Bounds: bounds}
	for _, b := range bounds {
		if b.Within() {
			continue
		}
		res.Warnings = append(res.Warnings, ValidationWarning{
			Code: b.Code,
			Message: fmt.Sprintf("%s %.4g%s outside [%.4g, %.4g]",
				b.Name, b.Value, unitSuffix(b.Unit), b.Min, b.Max),
		})
	}
	return res
}

func unitSuffix(u string) string {
	if u == "" {
		return ""
	}
	return " " + u
}
