package fuselage

import (
	"context"
	"fmt"
	"math"

	"github.com/chazu/airframe/pkg/curve"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"
)

// Sampling of the length-wise equivalent diameter.
const (
	diameterSamples   = 200
	diameterSpanRatio = 1 - 0.0001
)

// WettedArea holds the wetted surface estimate, in m².
type WettedArea struct {
	Method   WetAreaMethod
	Nose     float64
	Cylinder float64
	Tail     float64
	Front    float64 // frontal area, Torenbeek only
	Total    float64
}

// Derived holds the scalar outputs of a computation.
type Derived struct {
	DiameterGM     float64 // sqrt(W*H) of the cylinder
	DiameterAM     float64 // (W+H)/2 of the cylinder
	DiameterMeanGM float64 // mean of sqrt(w*h) along the length

	FinenessRatio    float64 // L / DiameterGM
	NoseFineness     float64
	CylinderFineness float64
	TailFineness     float64

	CylinderArea   float64 // π*W*H/4
	WindshieldArea float64
	NoseSlopeAngle float64 // degrees

	WettedArea WettedArea
	FormFactor float64

	UpsweepAngle    float64 // degrees
	WindshieldAngle float64 // degrees
}

func (g *Geometry) computeDerived(ctx context.Context, tracer trace.Tracer) error {
	p := g.Params
	d := &g.Derived

	d.DiameterGM = math.Sqrt(p.CylinderWidth * p.CylinderHeight)
	d.DiameterAM = (p.CylinderWidth + p.CylinderHeight) / 2
	d.DiameterMeanGM = g.meanEquivalentDiameter()

	d.FinenessRatio = p.Length / d.DiameterGM
	d.NoseFineness = g.NoseLength / d.DiameterGM
	d.CylinderFineness = g.CylinderLength / d.DiameterGM
	d.TailFineness = g.TailLength / d.DiameterGM

	d.CylinderArea = math.Pi * p.CylinderHeight * p.CylinderWidth / 4
	d.WindshieldArea = p.Windshield.Height * p.Windshield.Width
	d.NoseSlopeAngle = degrees(math.Atan((p.CylinderHeight - p.NoseTipOffset) / g.NoseLength))

	wa, err := WettedAreas(p.WetAreaMethod, d.DiameterGM, p.CylinderHeight,
		g.NoseLength, g.CylinderLength, g.TailLength, d.FinenessRatio)
	if err != nil {
		return err
	}
	d.WettedArea = wa
	d.FormFactor = FormFactor(d.FinenessRatio)

	_, span := tracer.Start(ctx, "fuselage.SolveAngles")
	defer span.End()
	if d.UpsweepAngle, err = g.upsweepAngle(); err != nil {
		span.RecordError(err)
		return err
	}
	if d.WindshieldAngle, err = g.windshieldAngle(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// FormFactor is the fuselage form factor 1 + 60/λ³ + 0.0025λ.
func FormFactor(fineness float64) float64 {
	return 1 + 60/math.Pow(fineness, 3) + 0.0025*fineness
}

// WettedAreas estimates the wetted surface. Stanford sums per-segment
// π·d·l terms weighted 0.75 (nose), 1.0 (cylinder) and 0.72 (tail);
// Torenbeek scales the frontal area by the fineness ratio.
func WettedAreas(method WetAreaMethod, diameter, height, ln, lc, lt, fineness float64) (WettedArea, error) {
	switch method {
	case Stanford, "":
		wa := WettedArea{
			Method:   Stanford,
			Nose:     0.75 * math.Pi * diameter * ln,
			Cylinder: math.Pi * diameter * lc,
			Tail:     0.72 * math.Pi * diameter * lt,
		}
		wa.Total = wa.Nose + wa.Cylinder + wa.Tail
		return wa, nil
	case Torenbeek:
		front := math.Pi / 4 * height * height
		return WettedArea{
			Method: Torenbeek,
			Front:  front,
			Total:  front * 4 * (fineness - 1.30),
		}, nil
	}
	return WettedArea{}, fmt.Errorf("%w: unknown wetted area method %q", ErrInvalidParameter, method)
}

func (g *Geometry) meanEquivalentDiameter() float64 {
	xs := curve.Linspace(0, g.Params.Length*diameterSpanRatio, diameterSamples)
	ds := make([]float64, len(xs))
	for i, x := range xs {
		ds[i] = g.EquivalentDiameterAt(x)
	}
	return stat.Mean(ds, nil)
}

// WidthAt is the fuselage width at x.
func (g *Geometry) WidthAt(x float64) float64 { return 2 * g.Query.YSideRight(x) }

// HeightAt is the fuselage height at x.
func (g *Geometry) HeightAt(x float64) float64 {
	return math.Abs(g.Query.ZUpper(x) - g.Query.ZLower(x))
}

// EquivalentDiameterAt is sqrt(width*height) at x.
func (g *Geometry) EquivalentDiameterAt(x float64) float64 {
	return math.Sqrt(g.WidthAt(x) * g.HeightAt(x))
}

// CamberAngleAt is the slope of the camber line in degrees, measured from
// the nose tip over the nose and toward the tail tip over the tail. It is
// zero along the cylinder, where the camber line is flat, and at the tips.
func (g *Geometry) CamberAngleAt(x float64) float64 {
	ln := g.NoseLength
	x0 := ln + g.CylinderLength
	L := g.Params.Length
	switch {
	case x > 0 && x <= ln:
		return degrees(math.Atan((g.Query.ZCamber(x) - g.Query.ZCamber(0)) / x))
	case x >= x0 && x < L:
		return degrees(math.Atan((g.Query.ZCamber(L) - g.Query.ZCamber(x)) / (L - x)))
	}
	return 0
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
