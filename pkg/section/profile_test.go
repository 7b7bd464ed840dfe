package section

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestGenerateCollapsedProfile(t *testing.T) {
	p := Generate(0, 0, 0.5, 0, 0, 10, 10)
	if p == nil {
		t.Fatal("expected a profile")
	}
	for qi, q := range p.Points() {
		if len(q) != 10 {
			t.Fatalf("quadrant %d has %d points, want 10", qi, len(q))
		}
		for i, v := range q {
			if v.X != 0 || v.Y != 0 {
				t.Fatalf("quadrant %d point %d = %v, want origin", qi, i, v)
			}
		}
	}
	if p.Area() != 0 {
		t.Errorf("area = %v, want 0", p.Area())
	}
	if _, err := p.SDF(); err == nil {
		t.Error("expected SDF error for collapsed profile")
	}
	if p.Contains(0, 0) {
		t.Error("collapsed profile must not contain anything")
	}
}

func TestGenerateEllipseAtRhoZero(t *testing.T) {
	w, h, a := 3.0, 2.0, 0.4
	p := Generate(w, h, a, 0, 0, 25, 25)
	zw := -h/2 + a*h

	check := func(name string, hz float64, pts []struct{ X, Y float64 }) {
		for i, v := range pts {
			u := v.X / (w / 2)
			s := (v.Y - zw) / hz
			if r := u*u + s*s; math.Abs(r-1) > 1e-9 {
				t.Fatalf("%s point %d off ellipse: %v", name, i, r)
			}
		}
	}
	toXY := func(i int) []struct{ X, Y float64 } {
		q := p.Points()[i]
		out := make([]struct{ X, Y float64 }, len(q))
		for j, v := range q {
			out[j].X, out[j].Y = v.X, v.Y
		}
		return out
	}
	check("upper right", h/2-zw, toXY(0))
	check("upper left", h/2-zw, toXY(1))
	check("lower left", zw+h/2, toXY(2))
	check("lower right", zw+h/2, toXY(3))
}

func TestGenerateEndpoints(t *testing.T) {
	w, h, a := 4.0, 3.0, 0.3
	p := Generate(w, h, a, 0.5, 0.7, 8, 6)
	zw := -h/2 + a*h

	if v := p.UpperRight[0]; v.X != w/2 || v.Y != zw {
		t.Errorf("upper right start = %v", v)
	}
	if v, _ := p.UpperRight.Last(); v.X != 0 || v.Y != h/2 {
		t.Errorf("upper right end = %v", v)
	}
	if v, _ := p.LowerLeft.Last(); v.X != 0 || v.Y != -h/2 {
		t.Errorf("lower left end = %v", v)
	}
	if got := p.ZSide(); math.Abs(got-zw) > tol {
		t.Errorf("ZSide = %v, want %v", got, zw)
	}
	if len(p.UpperLeft) != 8 || len(p.LowerRight) != 6 {
		t.Errorf("point counts = %d/%d, want 8/6", len(p.UpperLeft), len(p.LowerRight))
	}
}

func TestGenerateSymmetric(t *testing.T) {
	p := Generate(2, 2, 0.5, 0.3, 0.3, 12, 12)
	for i := range p.UpperRight {
		ur := p.UpperRight[i]
		ll := p.LowerLeft[i]
		if math.Abs(ur.X+ll.X) > tol || math.Abs(ur.Y+ll.Y) > tol {
			t.Fatalf("point %d not point-symmetric: %v vs %v", i, ur, ll)
		}
	}
}

func TestRhoBlendsTowardRectangle(t *testing.T) {
	w, h := 2.0, 2.0
	ellipse := Generate(w, h, 0.5, 0, 0, 41, 41).Area()
	mid := Generate(w, h, 0.5, 0.5, 0.5, 41, 41).Area()
	box := Generate(w, h, 0.5, 1, 1, 41, 41).Area()

	if !(ellipse < mid && mid < box) {
		t.Fatalf("areas not increasing with rho: %v %v %v", ellipse, mid, box)
	}
	if math.Abs(ellipse-math.Pi) > 0.02 {
		t.Errorf("ellipse area = %v, want ~pi", ellipse)
	}
	if math.Abs(box-w*h) > 1e-3 {
		t.Errorf("rho=1 area = %v, want ~%v", box, w*h)
	}
}

func TestGenerateClampsInputs(t *testing.T) {
	p := Generate(1, 1, 1.7, -2, math.NaN(), 0, 1)
	if p.A != 1 || p.RhoUpper != 0 || p.RhoLower != 0 {
		t.Errorf("clamped params = %v %v %v", p.A, p.RhoUpper, p.RhoLower)
	}
	if len(p.UpperRight) != MinPoints || len(p.LowerLeft) != MinPoints {
		t.Errorf("point counts not raised to %d", MinPoints)
	}
}

func TestTranslateZ(t *testing.T) {
	p := Generate(2, 2, 0.5, 0, 0, 5, 5)
	before := p.Clone()
	p.TranslateZ(1.5)
	if p.ZOffset != 1.5 {
		t.Errorf("ZOffset = %v", p.ZOffset)
	}
	for i := range p.UpperLeft {
		if d := p.UpperLeft[i].Y - before.UpperLeft[i].Y; math.Abs(d-1.5) > tol {
			t.Fatalf("point %d moved %v", i, d)
		}
	}
	if before.ZOffset != 0 {
		t.Error("clone shares state with original")
	}
}

func TestContainsUsesSignedDistance(t *testing.T) {
	p := Generate(4, 2, 0.5, 0, 0, 20, 20)
	if !p.Contains(0, 0) {
		t.Error("centre should be inside")
	}
	if p.Contains(1.99, 0.99) {
		t.Error("bounding-box corner should be outside an ellipse")
	}
	if p.Contains(0, 5) {
		t.Error("far point should be outside")
	}
	b := p.Bounds()
	if math.Abs(b.Min.X+2) > tol || math.Abs(b.Max.Y-1) > tol {
		t.Errorf("bounds = %v", b)
	}
}

func TestLeftAndRightCurves(t *testing.T) {
	p := Generate(2, 3, 0.5, 0, 0, 6, 4)
	left := p.LeftCurve()
	right := p.RightCurve()
	if len(left) != 6+4-1 || len(right) != 6+4-1 {
		t.Fatalf("lengths = %d/%d", len(left), len(right))
	}
	if left[0].Y != 1.5 || right[0].Y != 1.5 {
		t.Errorf("curves must start at the top: %v %v", left[0], right[0])
	}
	for i := range left {
		if math.Abs(left[i].X+right[i].X) > tol || math.Abs(left[i].Y-right[i].Y) > tol {
			t.Fatalf("point %d not mirrored: %v vs %v", i, left[i], right[i])
		}
	}
}
