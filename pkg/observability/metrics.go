// Package observability wires Prometheus metrics and OpenTelemetry tracing
// for fuselage computations.
package observability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chazu/airframe/pkg/curve"
	"github.com/chazu/airframe/pkg/fuselage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Computation results used as the "result" label.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Collector bundles the computation metrics. It satisfies
// fuselage.Recorder.
type Collector struct {
	gatherer prometheus.Gatherer

	Computations *prometheus.CounterVec
	Durations    *prometheus.HistogramVec
	Warnings     *prometheus.CounterVec
}

var _ fuselage.Recorder = (*Collector)(nil)

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Registering twice on the same registry reuses the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	computations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuselage_computations_total",
		Help: "Fuselage geometry computations, labeled by reference aircraft and result.",
	}, []string{"aircraft", "result"}), "fuselage_computations_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fuselage_computation_duration_seconds",
		Help:    "Fuselage geometry computation latency in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
	}, []string{"aircraft"}), "fuselage_computation_duration_seconds")
	if err != nil {
		return nil, err
	}

	warnings, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuselage_design_warnings_total",
		Help: "Design-rule warnings raised after computation, labeled by aircraft and warning code.",
	}, []string{"aircraft", "code"}), "fuselage_design_warnings_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Computations: computations,
		Durations:    durations,
		Warnings:     warnings,
	}, nil
}

// ObserveCompute records one computation.
func (c *Collector) ObserveCompute(aircraft string, d time.Duration, err error) {
	if c == nil {
		return
	}
	aircraft = aircraftLabel(aircraft)
	if c.Computations != nil {
		c.Computations.WithLabelValues(aircraft, resultLabel(err)).Inc()
	}
	if c.Durations != nil {
		c.Durations.WithLabelValues(aircraft).Observe(d.Seconds())
	}
}

// ObserveWarnings counts design-rule warnings by code.
func (c *Collector) ObserveWarnings(aircraft string, codes []string) {
	if c == nil || c.Warnings == nil {
		return
	}
	aircraft = aircraftLabel(aircraft)
	for _, code := range codes {
		c.Warnings.WithLabelValues(aircraft, code).Inc()
	}
}

// Handler exposes a /metrics handler over the collector's registry.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func aircraftLabel(a string) string {
	if a == "" {
		return "custom"
	}
	return a
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, fuselage.ErrInvalidParameter), errors.Is(err, curve.ErrPrecondition):
		return ResultInvalid
	default:
		return ResultError
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
