package dsl_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	g "github.com/reoring/skema/dsl"
	"github.com/reoring/skema/schema"
)

func TestPrimitives_Types(t *testing.T) {
	cases := []struct {
		name string
		s    g.Schema
		want string
	}{
		{"string", g.String(), "string"},
		{"number", g.Number(), "number"},
		{"integer", g.Integer(), "integer"},
		{"boolean", g.Boolean(), "boolean"},
		{"any", g.Any(), "any"},
		{"optional", g.String().Optional(), "string,null"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.Node().Type.String(); got != tc.want {
				t.Fatalf("type: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestModifiers_DoNotMutateReceiver(t *testing.T) {
	base := g.Number()
	bounded := base.Min(1).Max(10)
	if base.Node().Minimum != nil || base.Node().Maximum != nil {
		t.Fatalf("base mutated: %v", base.Node())
	}
	if *bounded.Node().Minimum != 1 || *bounded.Node().Maximum != 10 {
		t.Fatalf("bounds not set: %v", bounded.Node())
	}

	opt := base.Optional()
	if base.Node().Type.Nullable {
		t.Fatalf("Optional mutated receiver type")
	}
	if !opt.IsOptional() {
		t.Fatalf("expected optional")
	}
}

func TestObject_RequiredFollowsOptional(t *testing.T) {
	s := g.Object(
		g.Prop("id", g.Number()),
		g.Prop("nick", g.String().Optional()),
		g.Prop("email", g.String().Email()),
	).Node()

	if diff := cmp.Diff([]string{"id", "email"}, s.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id", "nick", "email"}, s.Properties.Names()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
	email, _ := s.Properties.Get("email")
	if email.Format != "email" {
		t.Fatalf("format: got %q", email.Format)
	}
}

func TestObject_Extend(t *testing.T) {
	base := g.Object(g.Prop("a", g.String()))
	ext := base.Extend(g.Prop("a", g.Number().Optional()), g.Prop("b", g.Boolean()))

	if len(base.Node().Properties) != 1 {
		t.Fatalf("base mutated")
	}
	n := ext.Node()
	a, _ := n.Properties.Get("a")
	if !a.Type.Is(schema.TypeNumber) {
		t.Fatalf("a not replaced: %v", a.Type)
	}
	if diff := cmp.Diff([]string{"b"}, n.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestTuple_SetsArity(t *testing.T) {
	n := g.Tuple(g.String(), g.Number()).Node()
	if !n.Items.IsTuple() || len(n.Items.Tuple) != 2 {
		t.Fatalf("expected tuple of 2, got %v", n.Items)
	}
	if *n.MinItems != 2 || *n.MaxItems != 2 {
		t.Fatalf("arity: min=%d max=%d", *n.MinItems, *n.MaxItems)
	}
}

func TestEnum_InfersType(t *testing.T) {
	if got := g.Enum("a", "b").Node().Type.String(); got != "string" {
		t.Fatalf("string enum type: %q", got)
	}
	n := g.Enum(1, 2.5).Node()
	if got := n.Type.String(); got != "number" {
		t.Fatalf("number enum type: %q", got)
	}
	if diff := cmp.Diff([]any{1.0, 2.5}, n.Enum); diff != "" {
		t.Fatalf("enum literals (-want +got):\n%s", diff)
	}
	if g.Enum("a", 1).Node().Type != nil {
		t.Fatalf("mixed enum should be untyped")
	}
}

func TestDiscriminatedUnion(t *testing.T) {
	u := g.DiscriminatedUnion("kind", map[string]g.Schema{
		"circle": g.Object(g.Prop("r", g.Number())),
		"box":    g.Object(g.Prop("w", g.Number())),
	}).Node()
	if !u.IsUnion() || len(u.AnyOf) != 2 {
		t.Fatalf("expected 2-member union")
	}
	first := u.AnyOf[0]
	kind, ok := first.Properties.Get("kind")
	if !ok || kind.Enum[0] != "box" {
		t.Fatalf("first variant should be tagged box, got %v", first)
	}
}

func TestRecordAndMeta(t *testing.T) {
	n := g.Record(g.Integer()).MinProps(1).MaxProps(5).Title("counts").Meta("x-owner", "team").Node()
	if !n.AdditionalProperties.Type.Is(schema.TypeInteger) {
		t.Fatalf("record value type: %v", n.AdditionalProperties.Type)
	}
	if *n.MinProperties != 1 || *n.MaxProperties != 5 {
		t.Fatalf("prop bounds")
	}
	if n.Title != "counts" || n.Extra["x-owner"] != "team" {
		t.Fatalf("meta not set: %v", n)
	}
}
