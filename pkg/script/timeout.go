package script

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds one evaluation when the Evaluator sets no Timeout.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the evaluator's limit.
	ErrTimeout = errors.New("script evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started on the same Evaluator.
	ErrSuperseded = errors.New("script evaluation superseded by a newer request")
)

type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

func (e *Evaluator) timeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return DefaultTimeout
}

func (e *Evaluator) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}

// await waits for the evaluation of generation gen. A goroutine left
// behind by a timeout or a cancelled context sends into a buffered
// channel nobody reads.
func (e *Evaluator) await(ctx context.Context, ch <-chan evalResult, gen uint64) (*Result, []EvalError, error) {
	limit := e.timeout()
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.result, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("script evaluation: %w", ctx.Err())
	}
}
