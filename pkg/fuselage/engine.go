package fuselage

import (
	"context"
	"fmt"
	"sync"

	"github.com/chazu/airframe/pkg/logging"
)

// State is the lifecycle state of an Engine.
type State int

const (
	Uninitialized State = iota
	Configured
	Computed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Configured:
		return "configured"
	case Computed:
		return "computed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Engine owns one parameter set and its computed geometry. Setters
// validate, then recompute immediately. It is safe for concurrent use;
// geometries it hands out must not be modified.
type Engine struct {
	mu     sync.Mutex
	opts   options
	state  State
	params Parameters
	geom   *Geometry
	check  CheckResult
}

// NewEngine returns an uninitialized engine.
func NewEngine(opts ...Option) *Engine {
	return &Engine{opts: newOptions(opts)}
}

// NewEngineFor returns an engine configured with a reference aircraft and
// already computed.
func NewEngineFor(ctx context.Context, id AircraftID, opts ...Option) (*Engine, error) {
	p, err := ReferenceAircraft(id)
	if err != nil {
		return nil, err
	}
	e := NewEngine(opts...)
	if err := e.Configure(p); err != nil {
		return nil, err
	}
	if err := e.Calculate(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Configure replaces the parameter set. Derived data is discarded until the
// next Calculate.
func (e *Engine) Configure(p Parameters) error {
	p.normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p
	e.geom = nil
	e.check = CheckResult{}
	e.state = Configured
	return nil
}

// Parameters returns the current parameter set.
func (e *Engine) Parameters() (Parameters, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Uninitialized {
		return Parameters{}, fmt.Errorf("%w: engine has no parameters", ErrNotComputed)
	}
	return e.params, nil
}

// Calculate recomputes the whole geometry from the current parameters.
// Calling it repeatedly without parameter changes yields identical curves.
func (e *Engine) Calculate(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calculateLocked(ctx)
}

func (e *Engine) calculateLocked(ctx context.Context) error {
	if e.state == Uninitialized {
		return fmt.Errorf("%w: engine has no parameters", ErrNotComputed)
	}
	e.geom = nil
	e.state = Configured

	g, err := compute(ctx, e.params, e.opts)
	if err != nil {
		return err
	}
	e.geom = g
	e.check = CheckGeometry(g)
	e.state = Computed

	if n := len(e.check.Warnings); n > 0 {
		codes := make([]string, n)
		for i, w := range e.check.Warnings {
			codes[i] = w.Code
			e.opts.log.Warn(ctx, "fuselage outside design range",
				logging.String("id", e.params.ID),
				logging.String("code", w.Code),
				logging.String("detail", w.Message),
			)
		}
		if e.opts.rec != nil {
			e.opts.rec.ObserveWarnings(string(e.params.Aircraft), codes)
		}
	}
	return nil
}

// Geometry returns the computed geometry.
func (e *Engine) Geometry() (*Geometry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Computed {
		return nil, fmt.Errorf("%w (state %s)", ErrNotComputed, e.state)
	}
	return e.geom, nil
}

// Check returns the design-rule check of the last computation.
func (e *Engine) Check() (CheckResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Computed {
		return CheckResult{}, fmt.Errorf("%w (state %s)", ErrNotComputed, e.state)
	}
	return e.check, nil
}

// AdjustStationShape changes the blend parameters of one station of the
// computed geometry. The adjustment lasts until the next recomputation.
func (e *Engine) AdjustStationShape(i StationIndex, a, rhoUpper, rhoLower float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Computed {
		return fmt.Errorf("%w (state %s)", ErrNotComputed, e.state)
	}
	// Copy first so geometries handed out earlier stay unchanged.
	g := e.geom.Clone()
	if err := g.AdjustStationShape(i, a, rhoUpper, rhoLower); err != nil {
		return err
	}
	e.geom = g
	return nil
}

// Update applies fn to a copy of the parameters, validates the result and
// recomputes. Invalid updates, and updates whose recomputation fails, leave
// the engine untouched.
func (e *Engine) Update(ctx context.Context, fn func(p *Parameters)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Uninitialized {
		return fmt.Errorf("%w: engine has no parameters", ErrNotComputed)
	}
	next := e.params
	fn(&next)
	next.normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	prevParams, prevGeom, prevCheck, prevState := e.params, e.geom, e.check, e.state
	e.params = next
	if err := e.calculateLocked(ctx); err != nil {
		e.params, e.geom, e.check, e.state = prevParams, prevGeom, prevCheck, prevState
		return err
	}
	return nil
}

func (e *Engine) set(fn func(p *Parameters)) error {
	return e.Update(context.Background(), fn)
}

func (e *Engine) SetLength(v float64) error {
	return e.set(func(p *Parameters) { p.Length = v })
}

func (e *Engine) SetNoseLengthRatio(v float64) error {
	return e.set(func(p *Parameters) { p.NoseLengthRatio = v })
}

func (e *Engine) SetCylinderLengthRatio(v float64) error {
	return e.set(func(p *Parameters) { p.CylinderLengthRatio = v })
}

func (e *Engine) SetCylinderWidth(v float64) error {
	return e.set(func(p *Parameters) { p.CylinderWidth = v })
}

func (e *Engine) SetCylinderHeight(v float64) error {
	return e.set(func(p *Parameters) { p.CylinderHeight = v })
}

func (e *Engine) SetNoseTipOffset(v float64) error {
	return e.set(func(p *Parameters) { p.NoseTipOffset = v })
}

func (e *Engine) SetTailTipOffset(v float64) error {
	return e.set(func(p *Parameters) { p.TailTipOffset = v })
}

func (e *Engine) SetNoseCapPercent(v float64) error {
	return e.set(func(p *Parameters) { p.NoseCapPercent = v })
}

func (e *Engine) SetTailCapPercent(v float64) error {
	return e.set(func(p *Parameters) { p.TailCapPercent = v })
}

func (e *Engine) SetWetAreaMethod(m WetAreaMethod) error {
	return e.set(func(p *Parameters) { p.WetAreaMethod = m })
}

func (e *Engine) SetDiscretization(d Discretization) error {
	return e.set(func(p *Parameters) { p.Points = d })
}

// SetStationShape changes the parameter-level shape of the cylinder,
// mid-nose or mid-tail stations. Other stations have fixed shapes.
func (e *Engine) SetStationShape(i StationIndex, s Shape) error {
	var apply func(p *Parameters)
	switch i {
	case CylinderStart, CylinderEnd:
		apply = func(p *Parameters) { p.CylinderShape = s }
	case MidNose:
		apply = func(p *Parameters) { p.MidNoseShape = s }
	case MidTail:
		apply = func(p *Parameters) { p.MidTailShape = s }
	default:
		return fmt.Errorf("%w: station %s has a fixed shape", ErrInvalidParameter, i)
	}
	return e.set(apply)
}
