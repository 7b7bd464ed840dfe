package curve

import (
	"errors"
	"math"
	"testing"
)

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

func TestTableEmptyIsPrecondition(t *testing.T) {
	_, err := NewTable(nil, nil)
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestTableMismatchedLengths(t *testing.T) {
	_, err := NewTable([]float64{0, 1}, []float64{0})
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestTableRejectsNaN(t *testing.T) {
	_, err := NewTable([]float64{0, math.NaN()}, []float64{0, 1})
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestTableDedupKeepsFirst(t *testing.T) {
	// Seam duplicate at x=1: the first sample (y=10) must win.
	tb, err := NewTable([]float64{0, 1, 1, 2}, []float64{0, 10, 99, 20})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if tb.Len() != 3 {
		t.Fatalf("expected 3 distinct samples, got %d", tb.Len())
	}
	if got := tb.At(1); got != 10 {
		t.Errorf("At(1) = %v, want 10", got)
	}
	if got := tb.At(1.5); got != 15 {
		t.Errorf("At(1.5) = %v, want 15", got)
	}
}

func TestTableSortsUnorderedInput(t *testing.T) {
	tb, err := NewTable([]float64{2, 0, 1}, []float64{4, 0, 2})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	lo, hi := tb.Domain()
	if lo != 0 || hi != 2 {
		t.Fatalf("domain = [%v, %v], want [0, 2]", lo, hi)
	}
	if got := tb.At(0.5); got != 1 {
		t.Errorf("At(0.5) = %v, want 1", got)
	}
}

func TestTableFlatExtrapolation(t *testing.T) {
	tb, err := NewTable([]float64{1, 2, 3}, []float64{5, 7, 4})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	tests := []struct {
		x    float64
		want float64
	}{
		{-100, 5},
		{0.999, 5},
		{1, 5},
		{3, 4},
		{3.0001, 4},
		{1e9, 4},
	}
	for _, tt := range tests {
		if got := tb.At(tt.x); got != tt.want {
			t.Errorf("At(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestTableSinglePoint(t *testing.T) {
	tb, err := NewTable([]float64{3, 3, 3}, []float64{7, 8, 9})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	for _, x := range []float64{-1, 3, 10} {
		if got := tb.At(x); got != 7 {
			t.Errorf("At(%v) = %v, want 7", x, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Polyline helpers
// ---------------------------------------------------------------------------

func TestLinspaceEndpoints(t *testing.T) {
	xs := Linspace(0.1, 0.7, 7)
	if len(xs) != 7 {
		t.Fatalf("len = %d, want 7", len(xs))
	}
	if xs[0] != 0.1 || xs[6] != 0.7 {
		t.Errorf("endpoints = %v, %v", xs[0], xs[6])
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			t.Fatalf("not increasing at %d: %v", i, xs)
		}
	}
	if got := Linspace(1, 2, 1); len(got) != 1 || got[0] != 1 {
		t.Errorf("Linspace n=1 = %v", got)
	}
	if got := Linspace(1, 2, 0); got != nil {
		t.Errorf("Linspace n=0 = %v", got)
	}
}

func TestPolylineMirrorKeepsOrder(t *testing.T) {
	p, err := FromXY([]float64{0, 1, 2}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("FromXY: %v", err)
	}
	m := p.MirrorY()
	for i := range p {
		if m[i].X != p[i].X || m[i].Y != -p[i].Y {
			t.Errorf("point %d: got %v, want mirror of %v", i, m[i], p[i])
		}
	}
	r := p.Reverse()
	if r[0] != p[2] || r[2] != p[0] {
		t.Errorf("Reverse = %v", r)
	}
	if !p.Clone().Equal(p) {
		t.Error("clone differs from original")
	}
	if _, ok := (Polyline{}).Last(); ok {
		t.Error("Last on empty polyline reported ok")
	}
}

// ---------------------------------------------------------------------------
// Root finding
// ---------------------------------------------------------------------------

func TestBrentFindsRoot(t *testing.T) {
	root, err := Brent(func(x float64) float64 { return x*x - 2 }, 0, 2)
	if err != nil {
		t.Fatalf("Brent: %v", err)
	}
	if math.Abs(root-math.Sqrt2) > 1e-5 {
		t.Errorf("root = %v, want %v", root, math.Sqrt2)
	}
}

func TestBrentReversedInterval(t *testing.T) {
	root, err := Brent(func(x float64) float64 { return math.Cos(x) }, 3, 0)
	if err != nil {
		t.Fatalf("Brent: %v", err)
	}
	if math.Abs(root-math.Pi/2) > 1e-5 {
		t.Errorf("root = %v, want %v", root, math.Pi/2)
	}
}

func TestBrentNoBracket(t *testing.T) {
	_, err := Brent(func(x float64) float64 { return x*x + 1 }, -1, 1)
	if !errors.Is(err, ErrNoBracket) {
		t.Fatalf("expected ErrNoBracket, got %v", err)
	}
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("ErrNoBracket must wrap ErrPrecondition")
	}
}

func TestIntersectArrays(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 2, 3}
	target := []float64{1.5, 1.5, 1.5, 1.5}
	x, err := IntersectArrays(xs, ys, target, 0, 3)
	if err != nil {
		t.Fatalf("IntersectArrays: %v", err)
	}
	if math.Abs(x-1.5) > 1e-5 {
		t.Errorf("x = %v, want 1.5", x)
	}

	if _, err := IntersectArrays([]float64{1}, []float64{1}, []float64{1}, 0, 1); !errors.Is(err, ErrPrecondition) {
		t.Errorf("single sample: expected ErrPrecondition, got %v", err)
	}
}
