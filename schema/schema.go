// Package schema defines the immutable tree consumed by the validation and
// diff engines. A Node is built once (by the dsl package or by decoding a
// JSON/YAML document) and is read-only afterwards, so a single tree can be
// shared by any number of concurrent validations and diffs.
package schema

import "strings"

// Base type names accepted in the "type" keyword.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Type is the "type" keyword. The JSON form is either a bare name ("string")
// or the null-inclusive pair (["string", "null"]), which sets Nullable.
type Type struct {
	Base     string
	Nullable bool
}

// String renders the type the way it appears in diff messages.
func (t *Type) String() string {
	if t == nil {
		return "any"
	}
	if t.Nullable {
		return t.Base + ",null"
	}
	return t.Base
}

// Is reports whether t resolves to the given base type.
func (t *Type) Is(base string) bool { return t != nil && t.Base == base }

// Equal compares two types, treating nil as "any".
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == nil && o == nil
	}
	return *t == *o
}

// Items holds the "items" keyword: either a single homogeneous element schema
// or a fixed-arity tuple.
type Items struct {
	Schema *Node
	Tuple  []*Node
}

// IsTuple reports whether the items keyword is the list (tuple) form.
func (it *Items) IsTuple() bool { return it != nil && it.Tuple != nil }

// Property is one named entry of an object's "properties".
type Property struct {
	Name   string
	Schema *Node
}

// Properties keeps declared properties in a stable order so that fail-fast
// traversal reports the same first violation on every run.
type Properties []Property

// Get returns the schema declared for name.
func (ps Properties) Get(name string) (*Node, bool) {
	for i := range ps {
		if ps[i].Name == name {
			return ps[i].Schema, true
		}
	}
	return nil, false
}

// Has reports whether name is declared.
func (ps Properties) Has(name string) bool {
	_, ok := ps.Get(name)
	return ok
}

// Names returns the declared property names in order.
func (ps Properties) Names() []string {
	out := make([]string, len(ps))
	for i := range ps {
		out[i] = ps[i].Name
	}
	return out
}

// Node is a single schema tree node. Every field is optional; an absent
// constraint means "no constraint". The shape of a node is one of: a plain
// type (Type set), a union (AnyOf set) or "any" (neither set).
type Node struct {
	Type  *Type
	AnyOf []*Node
	Enum  []any

	// String
	MinLength *int
	MaxLength *int
	Pattern   string
	Format    string

	// Number
	Minimum    *float64
	Maximum    *float64
	MultipleOf *float64

	// Array
	Items    *Items
	MinItems *int
	MaxItems *int

	// Object
	Properties           Properties
	Required             []string
	AdditionalProperties *Node
	// AdditionalAllowed records the boolean form of additionalProperties. It is
	// carried for round-tripping only; the validator does not reject extras.
	AdditionalAllowed *bool
	MinProperties     *int
	// MaxProperties is documentation only and never enforced by validation.
	MaxProperties *int

	// Metadata (validation-inert)
	Title       string
	Description string
	Default     any
	Extra       map[string]any
}

// IsUnion reports whether n is a union node.
func (n *Node) IsUnion() bool { return n != nil && len(n.AnyOf) > 0 }

// IsAny reports whether n accepts every value (no type, no union).
func (n *Node) IsAny() bool { return n == nil || (n.Type == nil && len(n.AnyOf) == 0) }

// Clone returns a shallow copy of n with its own slices and maps. Child nodes
// are shared; they are immutable.
func (n *Node) Clone() *Node {
	if n == nil {
		return &Node{}
	}
	c := *n
	if n.Type != nil {
		t := *n.Type
		c.Type = &t
	}
	if n.AnyOf != nil {
		c.AnyOf = append([]*Node(nil), n.AnyOf...)
	}
	if n.Enum != nil {
		c.Enum = append([]any(nil), n.Enum...)
	}
	if n.Items != nil {
		it := *n.Items
		if n.Items.Tuple != nil {
			it.Tuple = append([]*Node(nil), n.Items.Tuple...)
		}
		c.Items = &it
	}
	if n.Properties != nil {
		c.Properties = append(Properties(nil), n.Properties...)
	}
	if n.Required != nil {
		c.Required = append([]string(nil), n.Required...)
	}
	if n.Extra != nil {
		c.Extra = make(map[string]any, len(n.Extra))
		for k, v := range n.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// String renders a short description, for logs.
func (n *Node) String() string {
	switch {
	case n == nil:
		return "any"
	case n.IsUnion():
		parts := make([]string, len(n.AnyOf))
		for i, m := range n.AnyOf {
			parts[i] = m.String()
		}
		return "anyOf(" + strings.Join(parts, "|") + ")"
	default:
		return n.Type.String()
	}
}
