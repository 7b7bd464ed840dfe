package fuselage

import (
	"context"
	"fmt"
	"time"

	"github.com/chazu/airframe/pkg/logging"
	"github.com/chazu/airframe/pkg/outline"
	"github.com/chazu/airframe/pkg/section"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/chazu/airframe/pkg/fuselage"

// Geometry is the result of one computation. Everything in it derives
// from Params; a parameter change means a new Compute.
type Geometry struct {
	Params Parameters

	NoseLength     float64
	CylinderLength float64
	TailLength     float64

	Outlines *outline.Outlines
	Query    *outline.Query
	Stations *StationTable

	// CylinderSection is the reference cross-section of the cylinder,
	// centred on the origin.
	CylinderSection *section.Profile

	Derived Derived
}

// Recorder receives computation metrics.
type Recorder interface {
	ObserveCompute(aircraft string, d time.Duration, err error)
	ObserveWarnings(aircraft string, codes []string)
}

type options struct {
	log    logging.Logger
	rec    Recorder
	tracer trace.Tracer
}

// Option configures Compute and Engine.
type Option func(*options)

// WithLogger sets the logger. The default drops everything.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.rec = r }
}

// WithTracerProvider sets the tracer provider. The default is the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: logging.Noop(), tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Compute validates p and generates the complete geometry. A failure in
// any step aborts the computation; no partial geometry is returned.
func Compute(ctx context.Context, p Parameters, opts ...Option) (*Geometry, error) {
	return compute(ctx, p, newOptions(opts))
}

func compute(ctx context.Context, p Parameters, o options) (*Geometry, error) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "fuselage.Compute", trace.WithAttributes(
		attribute.String("fuselage.id", p.ID),
		attribute.String("fuselage.aircraft", string(p.Aircraft)),
	))
	defer span.End()

	g, err := build(ctx, p, o.tracer)
	if o.rec != nil {
		o.rec.ObserveCompute(string(p.Aircraft), time.Since(start), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.Warn(ctx, "fuselage computation failed",
			logging.String("id", p.ID),
			logging.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("fuselage.fineness_ratio", g.Derived.FinenessRatio),
		attribute.Float64("fuselage.wetted_area", g.Derived.WettedArea.Total),
	)
	o.log.Debug(ctx, "fuselage computed",
		logging.String("id", p.ID),
		logging.String("aircraft", string(p.Aircraft)),
		logging.Any("fineness_ratio", g.Derived.FinenessRatio),
		logging.Any("upsweep_deg", g.Derived.UpsweepAngle),
		logging.Any("windshield_deg", g.Derived.WindshieldAngle),
		logging.Any("elapsed", time.Since(start)),
	)
	return g, nil
}

func build(ctx context.Context, p Parameters, tracer trace.Tracer) (*Geometry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g := &Geometry{
		Params:         p,
		NoseLength:     p.NoseLength(),
		CylinderLength: p.CylinderLength(),
		TailLength:     p.TailLength(),
	}

	out, err := outline.Generate(outline.Spec{
		NoseLength:     g.NoseLength,
		CylinderLength: g.CylinderLength,
		TailLength:     g.TailLength,
		NoseTipOffset:  p.NoseTipOffset,
		TailTipOffset:  p.TailTipOffset,
		HalfHeight:     p.CylinderHeight / 2,
		HalfWidth:      p.CylinderWidth / 2,
		A:              p.CylinderShape.A,
		NosePoints:     p.Points.Nose,
		CylinderPoints: p.Points.Cylinder,
		TailPoints:     p.Points.Tail,
	})
	if err != nil {
		return nil, fmt.Errorf("outlines: %w", err)
	}
	q, err := outline.NewQuery(out)
	if err != nil {
		return nil, fmt.Errorf("outline query: %w", err)
	}
	g.Outlines, g.Query = out, q

	_, span := tracer.Start(ctx, "fuselage.BuildStations")
	g.Stations, err = BuildStations(p, q)
	if err == nil {
		err = g.updateSideZ()
	}
	span.End()
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}

	cs := p.CylinderShape
	g.CylinderSection = section.Generate(p.CylinderWidth, p.CylinderHeight,
		cs.A, cs.RhoUpper, cs.RhoLower, p.Points.SectionUpper, p.Points.SectionLower)

	if err := g.computeDerived(ctx, tracer); err != nil {
		return nil, err
	}
	return g, nil
}

// Clone deep-copies the geometry so that station adjustments on the copy
// leave the original untouched.
func (g *Geometry) Clone() *Geometry {
	c := *g
	c.Outlines = g.Outlines.Clone()
	c.Stations = g.Stations.Clone()
	c.CylinderSection = g.CylinderSection.Clone()
	return &c
}
