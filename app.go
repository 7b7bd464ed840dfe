package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chazu/airframe/pkg/fuselage"
	"github.com/chazu/airframe/pkg/logging"
	"github.com/chazu/airframe/pkg/report"
	"github.com/chazu/airframe/pkg/script"
)

// colorPalette assigns distinct colours to the fuselages of one script.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties the script evaluator, the geometry model and the report
// outputs together. The CLI commands and the HTTP handlers go
// through it.
type App struct {
	eval *script.Evaluator
	log  logging.Logger
	rec  fuselage.Recorder
	opts []fuselage.Option
}

// OutlineData is the drawable form of a fuselage: its curves and the
// colour a viewer should use for them.
type OutlineData struct {
	Curves *report.Curves `json:"curves"`
	Color  string         `json:"color"`
}

// EvalErrorData is a JSON-serializable script error or design warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// FuselageResult is one computed fuselage.
type FuselageResult struct {
	Report  *report.Report `json:"report"`
	Outline OutlineData    `json:"outline"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Fuselages []FuselageResult `json:"fuselages"`
	Errors    []EvalErrorData  `json:"errors"`
	Warnings  []EvalErrorData  `json:"warnings"`
}

// Selection picks the fuselage a command works on: a reference aircraft,
// or a fuselage from a script file.
type Selection struct {
	Aircraft   string
	ScriptPath string
	ID         string // fuselage ID within the script; first one when empty
	Method     string // wetted-area method override
}

// NewApp creates an App. rec, when non-nil, receives computation and
// design-rule metrics; opts are passed to every computation.
func NewApp(log logging.Logger, rec fuselage.Recorder, opts ...fuselage.Option) *App {
	if log == nil {
		log = logging.Noop()
	}
	base := []fuselage.Option{fuselage.WithLogger(log)}
	if rec != nil {
		base = append(base, fuselage.WithRecorder(rec))
	}
	return &App{
		eval: script.NewEvaluator(),
		log:  log,
		rec:  rec,
		opts: append(base, opts...),
	}
}

// Evaluate runs a fuselage script and computes and checks every fuselage
// it defines. A failing fuselage aborts the whole script: the result then
// carries the error and no fuselages.
func (a *App) Evaluate(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Fuselages: []FuselageResult{},
		Errors:    []EvalErrorData{},
		Warnings:  []EvalErrorData{},
	}

	res, evalErrs, err := a.eval.Evaluate(ctx, source)
	if err != nil {
		a.log.Error(ctx, "script evaluation failed", logging.Err(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	for i, def := range res.Fuselages {
		g, err := def.Compute(ctx, a.opts...)
		if err != nil {
			result.Errors = append(result.Errors, EvalErrorData{
				Message: fmt.Sprintf("fuselage %s: %v", def.Params.ID, err),
			})
			result.Fuselages = []FuselageResult{}
			result.Warnings = []EvalErrorData{}
			return result
		}
		check := fuselage.CheckGeometry(g)
		a.recordWarnings(g, check)
		for _, w := range check.Warnings {
			result.Warnings = append(result.Warnings, EvalErrorData{
				Message: fmt.Sprintf("fuselage %s: %s: %s", def.Params.ID, w.Code, w.Message),
			})
		}
		result.Fuselages = append(result.Fuselages, FuselageResult{
			Report: report.FromGeometry(g, check),
			Outline: OutlineData{
				Curves: report.CurvesFromGeometry(g),
				Color:  colorPalette[i%len(colorPalette)],
			},
		})
	}
	return result
}

// Geometry computes the selected fuselage.
func (a *App) Geometry(ctx context.Context, sel Selection) (*fuselage.Geometry, error) {
	def, err := a.definition(ctx, sel)
	if err != nil {
		return nil, err
	}
	if sel.Method != "" {
		m, err := fuselage.ParseWetAreaMethod(sel.Method)
		if err != nil {
			return nil, err
		}
		def.Params.WetAreaMethod = m
	}
	return def.Compute(ctx, a.opts...)
}

// Report computes and checks the selected fuselage.
func (a *App) Report(ctx context.Context, sel Selection) (*fuselage.Geometry, *report.Report, error) {
	g, err := a.Geometry(ctx, sel)
	if err != nil {
		return nil, nil, err
	}
	check := fuselage.CheckGeometry(g)
	a.recordWarnings(g, check)
	return g, report.FromGeometry(g, check), nil
}

func (a *App) recordWarnings(g *fuselage.Geometry, check fuselage.CheckResult) {
	if len(check.Warnings) == 0 {
		return
	}
	codes := make([]string, len(check.Warnings))
	for i, w := range check.Warnings {
		codes[i] = w.Code
		a.log.Warn(context.Background(), "design rule violated",
			logging.String("id", g.Params.ID),
			logging.String("code", w.Code),
			logging.String("message", w.Message),
		)
	}
	if a.rec != nil {
		a.rec.ObserveWarnings(string(g.Params.Aircraft), codes)
	}
}

func (a *App) definition(ctx context.Context, sel Selection) (*script.Definition, error) {
	if sel.ScriptPath == "" {
		id := sel.Aircraft
		if id == "" {
			id = string(fuselage.ATR72)
		}
		p, err := fuselage.ReferenceAircraft(fuselage.AircraftID(id))
		if err != nil {
			return nil, err
		}
		return &script.Definition{Params: p}, nil
	}

	src, err := os.ReadFile(sel.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	res, evalErrs, err := a.eval.Evaluate(ctx, string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sel.ScriptPath, err)
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("%s: %w", sel.ScriptPath, evalErrs[0])
	}
	if len(res.Fuselages) == 0 {
		return nil, fmt.Errorf("%s: script defines no fuselage", sel.ScriptPath)
	}
	if sel.ID == "" {
		return res.Fuselages[0], nil
	}
	if def := res.Lookup(sel.ID); def != nil {
		return def, nil
	}
	return nil, fmt.Errorf("%s: no fuselage with id %q", sel.ScriptPath, sel.ID)
}
