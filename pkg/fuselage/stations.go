package fuselage

import (
	"fmt"
	"math"

	"github.com/chazu/airframe/pkg/curve"
	"github.com/chazu/airframe/pkg/outline"
	"github.com/chazu/airframe/pkg/section"
)

// TailTipFactor places the tail tip station just short of the overall
// length so that its profile is never queried exactly on the last sample.
const TailTipFactor = 0.999995

// StationIndex names one of the eight control stations.
type StationIndex int

const (
	NoseTip StationIndex = iota
	NoseCap
	MidNose
	CylinderStart
	CylinderEnd
	MidTail
	TailCap
	TailTip

	NumStations = 8
)

var stationNames = [NumStations]string{
	"nose-tip", "nose-cap", "mid-nose", "cylinder-start",
	"cylinder-end", "mid-tail", "tail-cap", "tail-tip",
}

func (s StationIndex) String() string {
	if s >= 0 && int(s) < NumStations {
		return stationNames[s]
	}
	return fmt.Sprintf("station(%d)", int(s))
}

// ParseStation accepts names like "mid-nose" or "mid_nose".
func ParseStation(name string) (StationIndex, error) {
	for i, n := range stationNames {
		if n == name || underscored(n) == name {
			return StationIndex(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown station %q", ErrInvalidParameter, name)
}

func underscored(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}

// fixedShape reports whether a station always carries the canonical
// ellipse.
func (s StationIndex) fixedShape() bool {
	return s == NoseTip || s == NoseCap || s == TailCap || s == TailTip
}

// StationTable holds the control cross-sections and their x positions.
type StationTable struct {
	X        []float64
	Profiles []*section.Profile

	shapes *shapeTables
}

type shapeTables struct {
	a, rhoU, rhoL *curve.Table
}

// Len is the number of stations.
func (st *StationTable) Len() int {
	if st == nil {
		return 0
	}
	return len(st.Profiles)
}

// Station returns the profile at index i.
func (st *StationTable) Station(i StationIndex) *section.Profile {
	if int(i) < 0 || int(i) >= st.Len() {
		return nil
	}
	return st.Profiles[i]
}

// Clone deep-copies the table.
func (st *StationTable) Clone() *StationTable {
	c := &StationTable{X: append([]float64(nil), st.X...)}
	for _, p := range st.Profiles {
		c.Profiles = append(c.Profiles, p.Clone())
	}
	return c
}

// shapeAt interpolates the blend parameters across the station positions.
// Positions outside the table clamp to the end stations.
func (st *StationTable) shapeAt(x float64) (Shape, error) {
	if st.Len() == 0 {
		return Shape{}, fmt.Errorf("%w: empty station table", curve.ErrPrecondition)
	}
	if st.shapes == nil {
		n := st.Len()
		as, ru, rl := make([]float64, n), make([]float64, n), make([]float64, n)
		for i, p := range st.Profiles {
			as[i], ru[i], rl[i] = p.A, p.RhoUpper, p.RhoLower
		}
		var t shapeTables
		var err error
		if t.a, err = curve.NewTable(st.X, as); err != nil {
			return Shape{}, err
		}
		if t.rhoU, err = curve.NewTable(st.X, ru); err != nil {
			return Shape{}, err
		}
		if t.rhoL, err = curve.NewTable(st.X, rl); err != nil {
			return Shape{}, err
		}
		st.shapes = &t
	}
	return Shape{A: st.shapes.a.At(x), RhoUpper: st.shapes.rhoU.At(x), RhoLower: st.shapes.rhoL.At(x)}, nil
}

// StationPositions returns the x of every station for p.
func StationPositions(p Parameters) [NumStations]float64 {
	ln, lt := p.NoseLength(), p.TailLength()
	x0 := ln + p.CylinderLength()
	return [NumStations]float64{
		NoseTip:       0,
		NoseCap:       p.NoseCapPercent * ln,
		MidNose:       0.5 * ln,
		CylinderStart: ln,
		CylinderEnd:   x0,
		MidTail:       p.Length - 0.5*lt,
		TailCap:       p.Length - p.TailCapPercent*lt,
		TailTip:       p.Length * TailTipFactor,
	}
}

// stationShape is the blend a station is built with.
func stationShape(p Parameters, i StationIndex) Shape {
	switch i {
	case MidNose:
		return p.MidNoseShape
	case CylinderStart, CylinderEnd:
		return p.CylinderShape
	case MidTail:
		return p.MidTailShape
	}
	return EllipseShape
}

// BuildStations generates the eight control profiles from the outlines.
func BuildStations(p Parameters, q *outline.Query) (*StationTable, error) {
	xs := StationPositions(p)
	for i := 1; i < NumStations; i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: station %s at %g does not follow %s at %g",
				curve.ErrPrecondition, StationIndex(i), xs[i], StationIndex(i-1), xs[i-1])
		}
	}
	st := &StationTable{X: xs[:], Profiles: make([]*section.Profile, NumStations)}
	for i, x := range xs {
		st.Profiles[i] = profileAt(q, x, stationShape(p, StationIndex(i)), p.Points)
	}
	return st, nil
}

// profileAt generates a profile at x sized from the outlines and placed on
// the lower outline.
func profileAt(q *outline.Query, x float64, s Shape, pts Discretization) *section.Profile {
	w := 2 * q.YSideRight(x)
	h := math.Abs(q.ZUpper(x) - q.ZLower(x))
	prof := section.Generate(w, h, s.A, s.RhoUpper, s.RhoLower, pts.SectionUpper, pts.SectionLower)
	prof.TranslateZ(q.ZLower(x) + 0.5*h)
	prof.X = x
	return prof
}

// ProfileAt returns a freshly generated cross-section at x, with blend
// parameters interpolated between stations.
func (g *Geometry) ProfileAt(x float64) (*section.Profile, error) {
	s, err := g.Stations.shapeAt(x)
	if err != nil {
		return nil, err
	}
	return profileAt(g.Query, x, s, g.Params.Points), nil
}

// ZSide is the height of the maximum-width line of the cross-section at x.
func (g *Geometry) ZSide(x float64) (float64, error) {
	prof, err := g.ProfileAt(x)
	if err != nil {
		return 0, err
	}
	return prof.ZSide(), nil
}

// AdjustStationShape regenerates one station with new blend parameters.
// The nose and tail caps keep the canonical ellipse whatever is asked; the
// tips are left untouched. Afterwards the top-view heights are
// recomputed.
func (g *Geometry) AdjustStationShape(i StationIndex, a, rhoUpper, rhoLower float64) error {
	if g.Stations.Len() == 0 {
		return fmt.Errorf("%w: empty station table", curve.ErrPrecondition)
	}
	if int(i) < 0 || int(i) >= g.Stations.Len() {
		return fmt.Errorf("%w: station index %d out of range", ErrInvalidParameter, int(i))
	}
	if i == NoseTip || i == TailTip {
		return nil
	}
	s := Shape{A: a, RhoUpper: rhoUpper, RhoLower: rhoLower}
	if i.fixedShape() {
		s = EllipseShape
	}
	g.Stations.Profiles[i] = profileAt(g.Query, g.Stations.X[i], s, g.Params.Points)
	g.Stations.shapes = nil
	return g.updateSideZ()
}

// updateSideZ recomputes the z height of every top-view sample and the
// mirrored left curve.
func (g *Geometry) updateSideZ() error {
	zs := make([]float64, len(g.Outlines.SideRight))
	for i, v := range g.Outlines.SideRight {
		z, err := g.ZSide(v.X)
		if err != nil {
			return err
		}
		zs[i] = z
	}
	return g.Outlines.SetSideZ(zs)
}
