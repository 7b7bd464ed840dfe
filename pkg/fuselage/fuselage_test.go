package fuselage

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/chazu/airframe/pkg/curve"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func mustReference(t *testing.T, id AircraftID) Parameters {
	t.Helper()
	p, err := ReferenceAircraft(id)
	if err != nil {
		t.Fatalf("ReferenceAircraft(%s): %v", id, err)
	}
	return p
}

func mustCompute(t *testing.T, p Parameters, opts ...Option) *Geometry {
	t.Helper()
	g, err := Compute(context.Background(), p, opts...)
	if err != nil {
		t.Fatalf("Compute(%s): %v", p.ID, err)
	}
	return g
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// ---------------------------------------------------------------------------
// Reference aircraft
// ---------------------------------------------------------------------------

func TestReferenceAircraftLookup(t *testing.T) {
	p, err := ReferenceAircraft("atr72")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.ID != "ATR72" || p.Aircraft != ATR72 {
		t.Errorf("got ID %q aircraft %q", p.ID, p.Aircraft)
	}
	if p.Points != DefaultDiscretization || p.WetAreaMethod != Stanford {
		t.Errorf("defaults not applied: %+v %s", p.Points, p.WetAreaMethod)
	}

	if _, err := ReferenceAircraft("A380"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown aircraft error = %v", err)
	}

	ids := ReferenceAircraftIDs()
	want := []AircraftID{AGILE_DC1, ATR72, B747_100B}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestEveryReferenceAircraftComputes(t *testing.T) {
	for _, id := range ReferenceAircraftIDs() {
		t.Run(string(id), func(t *testing.T) {
			g := mustCompute(t, mustReference(t, id))
			d := g.Derived
			for name, v := range map[string]float64{
				"fineness":         d.FinenessRatio,
				"wetted area":      d.WettedArea.Total,
				"form factor":      d.FormFactor,
				"upsweep angle":    d.UpsweepAngle,
				"windshield angle": d.WindshieldAngle,
				"mean diameter":    d.DiameterMeanGM,
			} {
				if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
					t.Errorf("%s = %g, want finite positive", name, v)
				}
			}
			if d.UpsweepAngle >= 90 || d.WindshieldAngle >= 90 {
				t.Errorf("angles out of range: upsweep %g windshield %g", d.UpsweepAngle, d.WindshieldAngle)
			}
			if d.DiameterMeanGM >= d.DiameterGM {
				t.Errorf("mean diameter %g should be below cylinder diameter %g", d.DiameterMeanGM, d.DiameterGM)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Derived quantities
// ---------------------------------------------------------------------------

func TestATR72Fineness(t *testing.T) {
	p := mustReference(t, ATR72)
	g := mustCompute(t, p)
	d := g.Derived

	dgm := math.Sqrt(p.CylinderWidth * p.CylinderHeight)
	if !near(d.DiameterGM, dgm, 1e-12) {
		t.Errorf("DiameterGM = %g, want %g", d.DiameterGM, dgm)
	}
	if !near(d.DiameterAM, (p.CylinderWidth+p.CylinderHeight)/2, 1e-12) {
		t.Errorf("DiameterAM = %g", d.DiameterAM)
	}
	if d.FinenessRatio < 8 || d.FinenessRatio > 12.5 {
		t.Errorf("fineness = %g, want within [8, 12.5]", d.FinenessRatio)
	}
	sum := d.NoseFineness + d.CylinderFineness + d.TailFineness
	if !near(sum, d.FinenessRatio, 1e-9) {
		t.Errorf("segment finenesses sum to %g, want %g", sum, d.FinenessRatio)
	}
	if !near(d.FormFactor, FormFactor(d.FinenessRatio), 0) {
		t.Errorf("form factor mismatch")
	}
	if !near(d.CylinderArea, math.Pi*p.CylinderWidth*p.CylinderHeight/4, 1e-12) {
		t.Errorf("CylinderArea = %g", d.CylinderArea)
	}
	if !near(d.WindshieldArea, 2.5*0.8, 1e-12) {
		t.Errorf("WindshieldArea = %g", d.WindshieldArea)
	}
}

func TestFormFactor(t *testing.T) {
	tests := []struct {
		fineness, want float64
	}{
		{10, 1 + 60.0/1000 + 0.025},
		{5, 1 + 60.0/125 + 0.0125},
	}
	for _, tt := range tests {
		if got := FormFactor(tt.fineness); !near(got, tt.want, 1e-12) {
			t.Errorf("FormFactor(%g) = %g, want %g", tt.fineness, got, tt.want)
		}
	}
}

func TestWettedAreas(t *testing.T) {
	st, err := WettedAreas(Stanford, 2, 2, 1, 3, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Pi * 2 * (0.75*1 + 3 + 0.72*2)
	if !near(st.Total, want, 1e-9) {
		t.Errorf("Stanford total = %g, want %g", st.Total, want)
	}
	if !near(st.Nose+st.Cylinder+st.Tail, st.Total, 1e-12) {
		t.Errorf("Stanford segments do not sum to total")
	}

	tb, err := WettedAreas(Torenbeek, 2, 2, 1, 3, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	front := math.Pi / 4 * 4
	if !near(tb.Front, front, 1e-12) || !near(tb.Total, front*4*(5-1.30), 1e-9) {
		t.Errorf("Torenbeek = %+v", tb)
	}

	if _, err := WettedAreas("Raymer", 2, 2, 1, 3, 2, 5); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown method error = %v", err)
	}
}

func TestComputeTorenbeek(t *testing.T) {
	p := mustReference(t, B747_100B)
	p.WetAreaMethod = Torenbeek
	g := mustCompute(t, p)
	if g.Derived.WettedArea.Method != Torenbeek || g.Derived.WettedArea.Front <= 0 {
		t.Errorf("wetted area = %+v", g.Derived.WettedArea)
	}
}

func TestCamberAngle(t *testing.T) {
	g := mustCompute(t, mustReference(t, ATR72))
	mid := g.NoseLength + g.CylinderLength/2
	if got := g.CamberAngleAt(mid); got != 0 {
		t.Errorf("camber angle in cylinder = %g, want 0", got)
	}
	if got := g.CamberAngleAt(0); got != 0 {
		t.Errorf("camber angle at nose tip = %g, want 0", got)
	}
	// the nose tip sits below the cylinder camber line, the tail tip above
	if got := g.CamberAngleAt(g.NoseLength); got <= 0 {
		t.Errorf("nose camber angle = %g, want positive", got)
	}
	if got := g.CamberAngleAt(g.NoseLength + g.CylinderLength); got <= 0 {
		t.Errorf("tail camber angle = %g, want positive", got)
	}
}

// ---------------------------------------------------------------------------
// Stations and cross-sections
// ---------------------------------------------------------------------------

func TestStationsOrdered(t *testing.T) {
	g := mustCompute(t, mustReference(t, ATR72))
	if g.Stations.Len() != NumStations {
		t.Fatalf("got %d stations", g.Stations.Len())
	}
	for i := 1; i < NumStations; i++ {
		if !(g.Stations.X[i] > g.Stations.X[i-1]) {
			t.Errorf("station %d at %g not after %g", i, g.Stations.X[i], g.Stations.X[i-1])
		}
	}
	for _, i := range []StationIndex{NoseTip, NoseCap, TailCap, TailTip} {
		if a := g.Stations.Station(i).A; a != 0.5 {
			t.Errorf("%s A = %g, want 0.5", i, a)
		}
	}
	if g.Stations.Station(StationIndex(NumStations)) != nil {
		t.Error("out-of-range station should be nil")
	}
}

func TestCylinderSectionExact(t *testing.T) {
	p := mustReference(t, ATR72)
	g := mustCompute(t, p)
	for _, x := range []float64{g.NoseLength, g.NoseLength + g.CylinderLength/2} {
		prof, err := g.ProfileAt(x)
		if err != nil {
			t.Fatal(err)
		}
		if !near(prof.Width, p.CylinderWidth, 1e-9) || !near(prof.Height, p.CylinderHeight, 1e-9) {
			t.Errorf("profile at %g is %g x %g, want %g x %g",
				x, prof.Width, prof.Height, p.CylinderWidth, p.CylinderHeight)
		}
		if !near(prof.A, p.CylinderShape.A, 1e-12) {
			t.Errorf("profile at %g has A %g", x, prof.A)
		}
	}
}

func TestProfileAtClampsOutsideStations(t *testing.T) {
	g := mustCompute(t, mustReference(t, ATR72))
	prof, err := g.ProfileAt(g.Params.Length * 2)
	if err != nil {
		t.Fatal(err)
	}
	if prof.A != g.Stations.Station(TailTip).A {
		t.Errorf("A beyond the tail = %g", prof.A)
	}
}

func TestProfileAtEmptyStations(t *testing.T) {
	g := &Geometry{Stations: &StationTable{}}
	if _, err := g.ProfileAt(1); !errors.Is(err, curve.ErrPrecondition) {
		t.Errorf("error = %v, want ErrPrecondition", err)
	}
	if err := g.AdjustStationShape(MidNose, 0.3, 0, 0); !errors.Is(err, curve.ErrPrecondition) {
		t.Errorf("adjust error = %v, want ErrPrecondition", err)
	}
}

func TestAdjustStationShape(t *testing.T) {
	base := mustCompute(t, mustReference(t, ATR72))

	t.Run("cap keeps ellipse", func(t *testing.T) {
		g := base.Clone()
		if err := g.AdjustStationShape(NoseCap, 0.9, 0.5, 0.5); err != nil {
			t.Fatal(err)
		}
		s := g.Stations.Station(NoseCap)
		if s.A != 0.5 || s.RhoUpper != 0 || s.RhoLower != 0 {
			t.Errorf("nose cap shape = %g/%g/%g", s.A, s.RhoUpper, s.RhoLower)
		}
	})

	t.Run("tip ignored", func(t *testing.T) {
		g := base.Clone()
		before := g.Stations.Station(TailTip)
		if err := g.AdjustStationShape(TailTip, 0.1, 0.9, 0.9); err != nil {
			t.Fatal(err)
		}
		if g.Stations.Station(TailTip) != before {
			t.Error("tail tip profile replaced")
		}
	})

	t.Run("mid nose changes side line", func(t *testing.T) {
		g := base.Clone()
		x := g.Stations.X[MidNose]
		zBefore, err := g.ZSide(x)
		if err != nil {
			t.Fatal(err)
		}
		if err := g.AdjustStationShape(MidNose, 0.3, 0.5, 0.5); err != nil {
			t.Fatal(err)
		}
		if got := g.Stations.Station(MidNose).A; got != 0.3 {
			t.Errorf("mid nose A = %g", got)
		}
		zAfter, err := g.ZSide(x)
		if err != nil {
			t.Fatal(err)
		}
		if zAfter >= zBefore {
			t.Errorf("lower a should lower the side line: %g -> %g", zBefore, zAfter)
		}
		if base.Stations.Station(MidNose).A != base.Params.MidNoseShape.A {
			t.Error("adjusting a clone changed the original")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		g := base.Clone()
		if err := g.AdjustStationShape(StationIndex(9), 0.3, 0, 0); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("error = %v", err)
		}
	})
}

func TestParseStation(t *testing.T) {
	tests := []struct {
		in   string
		want StationIndex
	}{
		{"nose-tip", NoseTip},
		{"mid_nose", MidNose},
		{"cylinder-end", CylinderEnd},
		{"tail_tip", TailTip},
	}
	for _, tt := range tests {
		got, err := ParseStation(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseStation(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseStation("wing"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown station error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Determinism
// ---------------------------------------------------------------------------

func TestComputeIdempotent(t *testing.T) {
	p := mustReference(t, AGILE_DC1)
	a := mustCompute(t, p)
	b := mustCompute(t, p)

	if !a.Outlines.Upper.Equal(b.Outlines.Upper) || !a.Outlines.Lower.Equal(b.Outlines.Lower) ||
		!a.Outlines.SideRight.Equal(b.Outlines.SideRight) {
		t.Error("outlines differ between computations")
	}
	for i := 0; i < NumStations; i++ {
		pa, pb := a.Stations.Profiles[i], b.Stations.Profiles[i]
		if a.Stations.X[i] != b.Stations.X[i] || !pa.Outline().Equal(pb.Outline()) {
			t.Errorf("station %d differs", i)
		}
	}
	if a.Derived != b.Derived {
		t.Errorf("derived values differ:\n%+v\n%+v", a.Derived, b.Derived)
	}
	if a.Outlines.Version == b.Outlines.Version {
		t.Error("each computation should carry a fresh outline version")
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestBuilderValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) *Builder
	}{
		{"negative length", func(b *Builder) *Builder { return b.Length(-1) }},
		{"no tail", func(b *Builder) *Builder { return b.NoseLengthRatio(0.5).CylinderLengthRatio(0.6) }},
		{"nan width", func(b *Builder) *Builder { return b.CylinderWidth(math.NaN()) }},
		{"nose cap too far", func(b *Builder) *Builder { return b.NoseCapPercent(0.6) }},
		{"tail cap behind tip", func(b *Builder) *Builder { return b.TailCapPercent(0) }},
		{"shape out of range", func(b *Builder) *Builder { return b.CylinderShape(Shape{A: 1.5}) }},
		{"too few points", func(b *Builder) *Builder {
			d := DefaultDiscretization
			d.Tail = 1
			return b.Points(d)
		}},
		{"unknown method", func(b *Builder) *Builder { return b.WetAreaMethod("Raymer") }},
		{"two nose points", func(b *Builder) *Builder {
			d := DefaultDiscretization
			d.Nose = 2
			return b.Points(d)
		}},
		{"two tail points", func(b *Builder) *Builder {
			d := DefaultDiscretization
			d.Tail = 2
			return b.Points(d)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(NewBuilder("x", ATR72)).Build()
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestBuilderMethodAnyCase(t *testing.T) {
	tests := []struct {
		in   WetAreaMethod
		want WetAreaMethod
	}{
		{"torenbeek", Torenbeek},
		{"TORENBEEK", Torenbeek},
		{" stanford ", Stanford},
		{"", Stanford},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			p, err := NewBuilder("x", ATR72).WetAreaMethod(tt.in).Build()
			if err != nil {
				t.Fatal(err)
			}
			if p.WetAreaMethod != tt.want {
				t.Errorf("built method = %q, want %q", p.WetAreaMethod, tt.want)
			}
			g := mustCompute(t, p)
			if g.Derived.WettedArea.Method != tt.want {
				t.Errorf("wetted area method = %q, want %q", g.Derived.WettedArea.Method, tt.want)
			}
		})
	}
}

func TestComputeMethodAnyCase(t *testing.T) {
	p := mustReference(t, ATR72)
	p.WetAreaMethod = "torenbeek"
	g := mustCompute(t, p)
	if g.Params.WetAreaMethod != Torenbeek || g.Derived.WettedArea.Method != Torenbeek {
		t.Errorf("method = %q / %q", g.Params.WetAreaMethod, g.Derived.WettedArea.Method)
	}
}

func TestMinimumNoseTailPointsCompute(t *testing.T) {
	p := mustReference(t, ATR72)
	p.Points.Nose = MinNoseTailPoints
	p.Points.Tail = MinNoseTailPoints
	g := mustCompute(t, p)
	if g.Derived.WindshieldAngle <= 0 || g.Derived.UpsweepAngle <= 0 {
		t.Errorf("angles = %g, %g", g.Derived.WindshieldAngle, g.Derived.UpsweepAngle)
	}
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, err := Compute(ctx, mustReference(t, ATR72))
	if g != nil || !errors.Is(err, context.Canceled) {
		t.Errorf("Compute = %v, %v", g, err)
	}
}

func TestBuilderDefaults(t *testing.T) {
	p, err := FromParameters(Parameters{
		Length: 30, NoseLengthRatio: 0.15, CylinderLengthRatio: 0.6,
		CylinderWidth: 3, CylinderHeight: 3,
		NoseCapPercent: 0.075, TailCapPercent: 0.02,
		CylinderShape: Shape{A: 0.4}, MidNoseShape: Shape{A: 0.4}, MidTailShape: Shape{A: 0.4},
	}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if p.WetAreaMethod != Stanford || p.Points != DefaultDiscretization {
		t.Errorf("defaults not filled: %s %+v", p.WetAreaMethod, p.Points)
	}
	if !near(p.TailLength(), 30*0.25, 1e-12) {
		t.Errorf("tail length = %g", p.TailLength())
	}
}

func TestUnknownAircraftBuilder(t *testing.T) {
	if _, err := NewBuilder("x", "Concorde").Length(60).Build(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v", err)
	}
}

func TestComputeRejectsInvalid(t *testing.T) {
	p := mustReference(t, ATR72)
	p.CylinderHeight = 0
	g, err := Compute(context.Background(), p)
	if g != nil || !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Compute = %v, %v", g, err)
	}
}

func TestParseEnums(t *testing.T) {
	if m, err := ParseWetAreaMethod("TORENBEEK"); err != nil || m != Torenbeek {
		t.Errorf("ParseWetAreaMethod = %v, %v", m, err)
	}
	if w, err := ParseWindshieldType("single-round"); err != nil || w != WindshieldSingleRound {
		t.Errorf("ParseWindshieldType = %v, %v", w, err)
	}
	if _, err := ParseWindshieldType("bubble"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bad windshield error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Design-rule check
// ---------------------------------------------------------------------------

func TestCheckGeometryATR72(t *testing.T) {
	res := CheckGeometry(mustCompute(t, mustReference(t, ATR72)))
	codes := map[string]bool{}
	for _, w := range res.Warnings {
		codes[w.Code] = true
	}
	if !codes["TAIL_FINENESS"] {
		t.Errorf("expected TAIL_FINENESS warning, got %v", res.Warnings)
	}
	for _, c := range []string{"FINENESS", "LENGTH", "NOSE_CAP", "TAIL_RATIO"} {
		if codes[c] {
			t.Errorf("unexpected %s warning", c)
		}
	}
	if res.OK() {
		t.Error("OK() with warnings present")
	}
}

func TestCheckGeometryOutOfRange(t *testing.T) {
	p := mustReference(t, ATR72)
	p.Length = 120
	res := CheckGeometry(mustCompute(t, p))
	found := false
	for _, w := range res.Warnings {
		if w.Code == "LENGTH" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected LENGTH warning, got %v", res.Warnings)
	}
}

// ---------------------------------------------------------------------------
// Observability hooks
// ---------------------------------------------------------------------------

type fakeRecorder struct {
	mu       sync.Mutex
	computes int
	errs     int
	warnings []string
}

func (r *fakeRecorder) ObserveCompute(_ string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.computes++
	if err != nil {
		r.errs++
	}
}

func (r *fakeRecorder) ObserveWarnings(_ string, codes []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, codes...)
}

func TestComputeRecordsMetricsAndSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	rec := &fakeRecorder{}

	mustCompute(t, mustReference(t, ATR72), WithRecorder(rec), WithTracerProvider(tp))

	bad := mustReference(t, ATR72)
	bad.Length = -1
	if _, err := Compute(context.Background(), bad, WithRecorder(rec), WithTracerProvider(tp)); err == nil {
		t.Fatal("expected error")
	}

	if rec.computes != 2 || rec.errs != 1 {
		t.Errorf("recorder saw %d computes, %d errors", rec.computes, rec.errs)
	}

	names := map[string]int{}
	for _, s := range sr.Ended() {
		names[s.Name()]++
	}
	if names["fuselage.Compute"] != 2 || names["fuselage.BuildStations"] != 1 || names["fuselage.SolveAngles"] != 1 {
		t.Errorf("spans = %v", names)
	}
}
