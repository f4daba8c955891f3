package schema_test

import (
	"testing"

	"github.com/reoring/skema/schema"
)

func mustParse(t *testing.T, src string) *schema.Node {
	t.Helper()
	n, err := schema.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse %s: %v", src, err)
	}
	return n
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", `{"type":"string"}`, `{"type":"string"}`, true},
		{"required order", `{"required":["a","b"]}`, `{"required":["b","a"]}`, true},
		{"integer literal vs float", `{"minimum":1}`, `{"minimum":1.0}`, true},
		{"enum numbers", `{"enum":[1,2]}`, `{"enum":[1.0,2.0]}`, true},
		{"enum order matters", `{"enum":[1,2]}`, `{"enum":[2,1]}`, false},
		{"nullable", `{"type":"string"}`, `{"type":["string","null"]}`, false},
		{"extra key", `{"x-a":1}`, `{"x-a":2}`, false},
		{"default", `{"default":{"a":[1]}}`, `{"default":{"a":[1.0]}}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := schema.Equal(mustParse(t, tc.a), mustParse(t, tc.b)); got != tc.want {
				t.Fatalf("Equal: got %v want %v", got, tc.want)
			}
		})
	}
	if !schema.Equal(nil, &schema.Node{}) {
		t.Fatalf("nil must equal empty")
	}
}

func TestType_String(t *testing.T) {
	var none *schema.Type
	if none.String() != "any" {
		t.Fatalf("nil type: %q", none.String())
	}
	if got := (&schema.Type{Base: "string", Nullable: true}).String(); got != "string,null" {
		t.Fatalf("nullable: %q", got)
	}
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{1, int8(1), uint64(1), float32(1), 1.0} {
		if f, ok := schema.ToFloat(v); !ok || f != 1 {
			t.Fatalf("ToFloat(%T) = %v %v", v, f, ok)
		}
	}
	for _, v := range []any{"1", true, nil, []any{}} {
		if _, ok := schema.ToFloat(v); ok {
			t.Fatalf("ToFloat(%T) should fail", v)
		}
	}
}
