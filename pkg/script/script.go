// Package script evaluates fuselage definitions written in a small Lisp
// dialect. It wraps zygomys in a sandboxed environment and produces
// validated fuselage parameter sets plus any station adjustments.
package script

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/airframe/pkg/fuselage"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal error in user source, such as a parse error or
// an invalid parameter passed to a builtin.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Adjustment is a post-computation station shape change.
type Adjustment struct {
	Station  fuselage.StationIndex
	A        float64
	RhoUpper float64
	RhoLower float64
}

// Definition is one (fuselage ...) form.
type Definition struct {
	Params      fuselage.Parameters
	Adjustments []Adjustment
}

// Compute generates the geometry and applies the adjustments in order.
func (d *Definition) Compute(ctx context.Context, opts ...fuselage.Option) (*fuselage.Geometry, error) {
	g, err := fuselage.Compute(ctx, d.Params, opts...)
	if err != nil {
		return nil, err
	}
	for _, a := range d.Adjustments {
		if err := g.AdjustStationShape(a.Station, a.A, a.RhoUpper, a.RhoLower); err != nil {
			return nil, fmt.Errorf("adjust %s: %w", a.Station, err)
		}
	}
	return g, nil
}

// Result holds every fuselage defined by a script, in definition order.
type Result struct {
	Fuselages []*Definition
}

// Lookup finds a definition by ID.
func (r *Result) Lookup(id string) *Definition {
	for _, d := range r.Fuselages {
		if d.Params.ID == id {
			return d
		}
	}
	return nil
}

// Evaluator runs scripts. It is safe for concurrent use; each call to
// Evaluate creates a fresh sandbox, and a newer call supersedes an older
// one still running.
type Evaluator struct {
	// Timeout bounds one evaluation; zero means DefaultTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEvaluator creates an Evaluator with the default timeout.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs source and collects the fuselages it defines.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure: returns nil + nil + error, where the error wraps
//     ErrTimeout, ErrSuperseded or the context error, or reports a panic
func (e *Evaluator) Evaluate(ctx context.Context, source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return e.await(ctx, ch, gen)
}

func evaluate(source string) (*Result, []EvalError, error) {
	res := &Result{}
	if strings.TrimSpace(source) == "" {
		return res, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, res)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return res, nil, nil
}

var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
