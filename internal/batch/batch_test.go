package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
)

func TestRunner_ValidateKeepsOrder(t *testing.T) {
	s := g.Object(g.Prop("n", g.Integer().Min(0))).Node()
	docs := make([]Doc, 50)
	for i := range docs {
		v := float64(i)
		if i%7 == 3 {
			v = -1
		}
		docs[i] = Doc{Name: "d" + strconv.Itoa(i), Value: map[string]any{"n": v}}
	}

	r := New(skema.New(skema.Config{}), Options{Concurrency: 4})
	res, err := r.Validate(context.Background(), s, docs)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for i, got := range res {
		if got.Name != docs[i].Name {
			t.Fatalf("result %d is %s", i, got.Name)
		}
		if want := i%7 != 3; got.Valid() != want {
			t.Fatalf("%s: valid=%v err=%v", got.Name, got.Valid(), got.Err)
		}
	}
	if Invalid(res) != 7 {
		t.Fatalf("invalid count: %d", Invalid(res))
	}
	if !skema.HasCode(res[3].Err, skema.CodeOutOfRange) {
		t.Fatalf("expected out_of_range, got %v", res[3].Err)
	}
}

func TestRunner_Files(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		return p
	}
	paths := []string{
		write("ok.json", `{"id": 1}`),
		write("bad.yaml", "id: one\n"),
		write("broken.json", `{"id":`),
	}
	s := g.Object(g.Prop("id", g.Number())).Node()

	res, err := New(skema.New(skema.Config{}), Options{Concurrency: 2}).Files(context.Background(), s, paths)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if !res[0].Valid() {
		t.Fatalf("ok.json: %v", res[0].Err)
	}
	if ve, ok := skema.AsValidationError(res[1].Err); !ok || ve.Path != "id" {
		t.Fatalf("bad.yaml: %v", res[1].Err)
	}
	if _, ok := skema.AsValidationError(res[2].Err); ok || res[2].Err == nil {
		t.Fatalf("broken.json should carry a decode error, got %v", res[2].Err)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(skema.New(skema.Config{}), Options{}).Validate(ctx, g.Any().Node(), []Doc{{Name: "a"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
