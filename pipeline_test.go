package skema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
)

func countGuard(opts ...skema.GuardOption) *skema.Guard[[]any, any] {
	in := g.Array(g.Number()).Node()
	out := g.Integer().Max(1000).Node()
	return skema.NewGuard("count", in, out, func(_ context.Context, xs []any) (any, error) {
		return len(xs), nil
	}, opts...)
}

func TestGuard_Call(t *testing.T) {
	gd := countGuard()
	got, err := gd.Call(context.Background(), numbersWithBadAt(10))
	if err != nil || got != 10 {
		t.Fatalf("got %v err=%v", got, err)
	}
	if gd.Name() != "count" {
		t.Fatalf("name: %q", gd.Name())
	}
}

func TestGuard_InputIsCheckedExhaustively(t *testing.T) {
	// 995 is never sampled in a 1000-element array; guards do not sample.
	_, err := countGuard().Call(context.Background(), numbersWithBadAt(1000, 995))
	var ge *skema.GuardError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GuardError, got %v", err)
	}
	if ge.Stage != skema.StageInput || ge.Func != "count" || ge.Err.Path != "995" {
		t.Fatalf("unexpected guard error: %+v", ge)
	}
	if !skema.HasCode(err, skema.CodeInvalidType) {
		t.Fatalf("expected wrapped invalid_type, got %v", err)
	}
}

func TestGuard_Output(t *testing.T) {
	_, err := countGuard().Call(context.Background(), numbersWithBadAt(1001))
	var ge *skema.GuardError
	if !errors.As(err, &ge) || ge.Stage != skema.StageOutput {
		t.Fatalf("expected output GuardError, got %v", err)
	}
	if ge.Err.Code != skema.CodeOutOfRange {
		t.Fatalf("code: %s", ge.Err.Code)
	}
}

func TestGuard_FunctionErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	gd := skema.NewGuard("fail", nil, nil, func(context.Context, string) (string, error) {
		return "", boom
	})
	if _, err := gd.Call(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestGuard_Timeout(t *testing.T) {
	gd := skema.NewGuard("slow", nil, nil, func(ctx context.Context, _ int) (int, error) {
		select {
		case <-time.After(time.Second):
			return 1, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}, skema.WithTimeout(10*time.Millisecond))

	_, err := gd.Call(context.Background(), 1)
	if !errors.Is(err, skema.ErrGuardTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestGuard_WithValidator(t *testing.T) {
	v := skema.New(skema.Config{Stride: 5})
	gd := countGuard(skema.WithValidator(v))
	if _, err := gd.Call(context.Background(), numbersWithBadAt(100, 42)); err == nil {
		t.Fatalf("guard must scan fully regardless of stride")
	}
}
