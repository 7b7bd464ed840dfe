package outline

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/airframe/pkg/curve"
)

func atrSpec() Spec {
	const (
		length = 27.166
		height = 2.6514
	)
	ln := 0.1496 * length
	lc := 0.62 * length
	return Spec{
		NoseLength:     ln,
		CylinderLength: lc,
		TailLength:     length - ln - lc,
		NoseTipOffset:  -0.15 * height,
		TailTipOffset:  0.8 * height / 2,
		HalfHeight:     height / 2,
		HalfWidth:      2.865 / 2,
		A:              0.4,
		NosePoints:     10,
		CylinderPoints: 4,
		TailPoints:     10,
	}
}

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

func TestGenerateKeepsSeamDuplicates(t *testing.T) {
	s := atrSpec()
	o, err := Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got, want := len(o.Upper), 24; got != want {
		t.Fatalf("upper has %d points, want %d", got, want)
	}
	for _, p := range []curve.Polyline{o.Lower, o.Camber, o.SideRight, o.SideLeft} {
		if len(p) != len(o.Upper) {
			t.Fatalf("curve lengths differ: %d vs %d", len(p), len(o.Upper))
		}
	}
	// nose end and cylinder start share x
	if o.Upper[9].X != o.Upper[10].X {
		t.Errorf("nose/cylinder seam not duplicated: %v %v", o.Upper[9], o.Upper[10])
	}
	if o.Upper[13].X != o.Upper[14].X {
		t.Errorf("cylinder/tail seam not duplicated: %v %v", o.Upper[13], o.Upper[14])
	}
	if o.SegmentStart != [3]int{0, 10, 14} {
		t.Errorf("segment starts = %v", o.SegmentStart)
	}
	if n := len(o.Segment(o.Upper, Tail)); n != 10 {
		t.Errorf("tail segment has %d samples", n)
	}
}

func TestGenerateEndpoints(t *testing.T) {
	s := atrSpec()
	o, err := Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if o.Upper[0].X != 0 || o.Upper[0].Y != s.NoseTipOffset || o.Lower[0].Y != s.NoseTipOffset {
		t.Errorf("nose tip = %v / %v", o.Upper[0], o.Lower[0])
	}
	if o.SideRight[0].Y != 0 {
		t.Errorf("nose tip half-width = %v", o.SideRight[0].Y)
	}
	last := len(o.Upper) - 1
	if math.Abs(o.Upper[last].X-s.Length()) > 1e-12 {
		t.Errorf("tail tip x = %v, want %v", o.Upper[last].X, s.Length())
	}
	if math.Abs(o.Upper[last].Y-s.TailTipOffset) > 1e-12 || math.Abs(o.Lower[last].Y-s.TailTipOffset) > 1e-12 {
		t.Errorf("tail tip z = %v / %v", o.Upper[last].Y, o.Lower[last].Y)
	}
	if o.SideRight[last].Y != 0 {
		t.Errorf("tail tip half-width = %v", o.SideRight[last].Y)
	}
	for i := o.SegmentStart[Cylinder]; i < o.SegmentStart[Tail]; i++ {
		if o.Upper[i].Y != s.CylinderTop() || o.Lower[i].Y != s.CylinderBottom() || o.SideRight[i].Y != s.HalfWidth {
			t.Fatalf("cylinder sample %d not constant", i)
		}
	}
	if h := s.CylinderTop() - s.CylinderBottom(); math.Abs(h-2*s.HalfHeight) > 1e-12 {
		t.Errorf("cylinder height = %v", h)
	}
}

func TestGenerateCamberIsMean(t *testing.T) {
	o, err := Generate(atrSpec())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := range o.Camber {
		if want := (o.Upper[i].Y + o.Lower[i].Y) / 2; o.Camber[i].Y != want {
			t.Fatalf("camber %d = %v, want %v", i, o.Camber[i].Y, want)
		}
	}
}

func TestGenerateVersionsIncrease(t *testing.T) {
	a, _ := Generate(atrSpec())
	b, _ := Generate(atrSpec())
	if b.Version <= a.Version {
		t.Errorf("versions %d then %d", a.Version, b.Version)
	}
	if !a.Upper.Equal(b.Upper) || !a.SideRight.Equal(b.SideRight) {
		t.Error("regeneration with equal inputs changed the curves")
	}
}

func TestGenerateRejectsBadSpec(t *testing.T) {
	s := atrSpec()
	s.CylinderLength = 0
	if _, err := Generate(s); !errors.Is(err, curve.ErrPrecondition) {
		t.Errorf("zero cylinder: expected ErrPrecondition, got %v", err)
	}
	s = atrSpec()
	s.TailPoints = 1
	if _, err := Generate(s); !errors.Is(err, curve.ErrPrecondition) {
		t.Errorf("one tail point: expected ErrPrecondition, got %v", err)
	}
}

func TestSetSideZ(t *testing.T) {
	o, _ := Generate(atrSpec())
	zs := make([]float64, len(o.SideRight))
	for i := range zs {
		zs[i] = float64(i)
	}
	if err := o.SetSideZ(zs); err != nil {
		t.Fatalf("SetSideZ: %v", err)
	}
	if o.SideLeftZ[5] != 5 || o.SideRightZ[5] != 5 {
		t.Errorf("side z not stored")
	}
	if err := o.SetSideZ(zs[:3]); !errors.Is(err, curve.ErrPrecondition) {
		t.Errorf("short slice: expected ErrPrecondition, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Query
// ---------------------------------------------------------------------------

func TestQueryFlatExtrapolation(t *testing.T) {
	s := atrSpec()
	o, _ := Generate(s)
	q, err := NewQuery(o)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	last := len(o.Upper) - 1
	if got := q.ZUpper(-5); got != o.Upper[0].Y {
		t.Errorf("ZUpper below domain = %v, want %v", got, o.Upper[0].Y)
	}
	if got := q.ZUpper(s.Length() + 5); got != o.Upper[last].Y {
		t.Errorf("ZUpper above domain = %v, want %v", got, o.Upper[last].Y)
	}
	if got := q.ZLower(1e6); got != o.Lower[last].Y {
		t.Errorf("ZLower above domain = %v", got)
	}
	if q.Version() != o.Version {
		t.Errorf("version = %d, want %d", q.Version(), o.Version)
	}
}

func TestQuerySeamUsesFirstOccurrence(t *testing.T) {
	s := atrSpec()
	o, _ := Generate(s)
	q, _ := NewQuery(o)
	if got := q.ZUpper(s.NoseLength); got != o.Upper[9].Y {
		t.Errorf("ZUpper(lN) = %v, want %v", got, o.Upper[9].Y)
	}
}

func TestQueryMirrorSymmetry(t *testing.T) {
	s := atrSpec()
	o, _ := Generate(s)
	q, _ := NewQuery(o)
	for _, x := range curve.Linspace(-1, s.Length()+1, 301) {
		if l, r := q.YSideLeft(x), q.YSideRight(x); l != -r {
			t.Fatalf("x=%v: left %v, right %v", x, l, r)
		}
	}
}

func TestQueryCylinderExact(t *testing.T) {
	s := atrSpec()
	o, _ := Generate(s)
	q, _ := NewQuery(o)
	mid := s.NoseLength + s.CylinderLength/2
	if h := q.ZUpper(mid) - q.ZLower(mid); math.Abs(h-2*s.HalfHeight) > 1e-12 {
		t.Errorf("height = %v, want %v", h, 2*s.HalfHeight)
	}
	if w := 2 * q.YSideRight(mid); math.Abs(w-2*s.HalfWidth) > 1e-12 {
		t.Errorf("width = %v, want %v", w, 2*s.HalfWidth)
	}
	if c := q.ZCamber(mid); math.Abs(c-(s.CylinderTop()+s.CylinderBottom())/2) > 1e-12 {
		t.Errorf("camber = %v", c)
	}
}

func TestQueryEmptyOutlines(t *testing.T) {
	if _, err := NewQuery(&Outlines{}); !errors.Is(err, curve.ErrPrecondition) {
		t.Errorf("expected ErrPrecondition, got %v", err)
	}
	if _, err := NewQuery(nil); !errors.Is(err, curve.ErrPrecondition) {
		t.Errorf("nil: expected ErrPrecondition, got %v", err)
	}
}
