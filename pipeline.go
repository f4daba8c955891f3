package skema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reoring/skema/schema"
)

// Stage tells which side of a guarded function failed validation.
type Stage string

const (
	StageInput  Stage = "input"
	StageOutput Stage = "output"
)

// ErrGuardTimeout is returned (wrapped) when a guarded function does not
// finish within its timeout.
var ErrGuardTimeout = errors.New("skema: guarded function timed out")

// GuardError reports a validation failure at a guarded function boundary.
type GuardError struct {
	Func  string
	Stage Stage
	Err   *ValidationError
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("skema: %s validation failed for %s: %v", e.Stage, e.Func, e.Err)
}

func (e *GuardError) Unwrap() error { return e.Err }

// Guard wraps a function with input and output validation. Boundaries are
// always checked exhaustively (no sampling).
type Guard[I, O any] struct {
	name    string
	in      *schema.Node
	out     *schema.Node
	fn      func(context.Context, I) (O, error)
	timeout time.Duration
	v       *Validator
}

// GuardOption configures a Guard.
type GuardOption func(*guardConfig)

type guardConfig struct {
	timeout time.Duration
	v       *Validator
}

// WithTimeout bounds each call. Zero means no timeout.
func WithTimeout(d time.Duration) GuardOption {
	return func(c *guardConfig) { c.timeout = d }
}

// WithValidator uses v instead of the default Validator.
func WithValidator(v *Validator) GuardOption {
	return func(c *guardConfig) { c.v = v }
}

// NewGuard wraps fn. A nil schema on either side skips that check.
func NewGuard[I, O any](name string, in, out *schema.Node, fn func(context.Context, I) (O, error), opts ...GuardOption) *Guard[I, O] {
	cfg := guardConfig{v: defaultValidator}
	for _, o := range opts {
		o(&cfg)
	}
	return &Guard[I, O]{name: name, in: in, out: out, fn: fn, timeout: cfg.timeout, v: cfg.v}
}

// Name returns the guarded function's identity.
func (g *Guard[I, O]) Name() string { return g.name }

// Call validates input, runs the function and validates its output.
func (g *Guard[I, O]) Call(ctx context.Context, input I) (O, error) {
	var zero O
	if err := g.boundary(StageInput, g.in, input); err != nil {
		return zero, err
	}

	out, err := g.invoke(ctx, input)
	if err != nil {
		return zero, err
	}

	if err := g.boundary(StageOutput, g.out, out); err != nil {
		return zero, err
	}
	return out, nil
}

func (g *Guard[I, O]) boundary(stage Stage, node *schema.Node, v any) error {
	if node == nil {
		return nil
	}
	if err := g.v.Check(v, node, true); err != nil {
		ve, _ := AsValidationError(err)
		return &GuardError{Func: g.name, Stage: stage, Err: ve}
	}
	return nil
}

type guardResult[O any] struct {
	out O
	err error
}

func (g *Guard[I, O]) invoke(ctx context.Context, input I) (O, error) {
	if g.timeout <= 0 {
		return g.fn(ctx, input)
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan guardResult[O], 1)
	go func() {
		out, err := g.fn(ctx, input)
		done <- guardResult[O]{out: out, err: err}
	}()

	select {
	case res := <-done:
		return res.out, res.err
	case <-ctx.Done():
		var zero O
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%s: %w", g.name, ErrGuardTimeout)
		}
		return zero, ctx.Err()
	}
}
