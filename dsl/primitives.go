package dsl

import "github.com/reoring/skema/schema"

// Schema wraps an immutable schema node. Every method returns a new Schema;
// the receiver is never modified.
type Schema struct {
	node *schema.Node
}

// From wraps an existing node.
func From(n *schema.Node) Schema { return Schema{node: n} }

// Node returns the built schema tree.
func (s Schema) Node() *schema.Node {
	if s.node == nil {
		return &schema.Node{}
	}
	return s.node
}

func (s Schema) with(f func(n *schema.Node)) Schema {
	c := s.node.Clone()
	f(c)
	return Schema{node: c}
}

func typed(base string) Schema {
	return Schema{node: &schema.Node{Type: &schema.Type{Base: base}}}
}

// String returns a string schema.
func String() Schema { return typed(schema.TypeString) }

// Number returns a number schema.
func Number() Schema { return typed(schema.TypeNumber) }

// Integer returns an integer schema.
func Integer() Schema { return typed(schema.TypeInteger) }

// Boolean returns a boolean schema.
func Boolean() Schema { return typed(schema.TypeBoolean) }

// Any returns a schema that accepts every value, including null.
func Any() Schema { return Schema{node: &schema.Node{}} }

// Enum returns a schema accepting exactly the given literals. The type is
// string or number when all literals share it.
func Enum(values ...any) Schema {
	n := &schema.Node{Enum: make([]any, len(values))}
	allStrings, allNumbers := len(values) > 0, len(values) > 0
	for i, v := range values {
		n.Enum[i] = schema.NormalizeLiteral(v)
		if _, ok := v.(string); !ok {
			allStrings = false
		}
		if !schema.IsNumeric(v) {
			allNumbers = false
		}
	}
	switch {
	case allStrings:
		n.Type = &schema.Type{Base: schema.TypeString}
	case allNumbers:
		n.Type = &schema.Type{Base: schema.TypeNumber}
	}
	return Schema{node: n}
}

// Optional makes the schema accept null. A schema without a type already
// does.
func (s Schema) Optional() Schema {
	if s.Node().Type == nil {
		return s
	}
	return s.with(func(n *schema.Node) { n.Type.Nullable = true })
}

// IsOptional reports whether the schema accepts null.
func (s Schema) IsOptional() bool {
	n := s.Node()
	return n.Type == nil || n.Type.Nullable
}

// Min sets minimum for numbers.
func (s Schema) Min(v float64) Schema { return s.with(func(n *schema.Node) { n.Minimum = &v }) }

// Max sets maximum for numbers.
func (s Schema) Max(v float64) Schema { return s.with(func(n *schema.Node) { n.Maximum = &v }) }

// MultipleOf sets the numeric step.
func (s Schema) MultipleOf(v float64) Schema {
	return s.with(func(n *schema.Node) { n.MultipleOf = &v })
}

// MinLength sets the minimum string length (in characters).
func (s Schema) MinLength(v int) Schema { return s.with(func(n *schema.Node) { n.MinLength = &v }) }

// MaxLength sets the maximum string length (in characters).
func (s Schema) MaxLength(v int) Schema { return s.with(func(n *schema.Node) { n.MaxLength = &v }) }

// Pattern sets a regular expression the string must match.
func (s Schema) Pattern(re string) Schema { return s.with(func(n *schema.Node) { n.Pattern = re }) }

// Format sets a named format (see package format).
func (s Schema) Format(name string) Schema { return s.with(func(n *schema.Node) { n.Format = name }) }

func (s Schema) Email() Schema    { return s.Format("email") }
func (s Schema) UUID() Schema     { return s.Format("uuid") }
func (s Schema) IPv4() Schema     { return s.Format("ipv4") }
func (s Schema) URI() Schema      { return s.Format("uri") }
func (s Schema) DateTime() Schema { return s.Format("date-time") }
func (s Schema) Emoji() Schema    { return s.Format("emoji") }

// Title sets the title metadata.
func (s Schema) Title(t string) Schema { return s.with(func(n *schema.Node) { n.Title = t }) }

// Describe sets the description metadata.
func (s Schema) Describe(d string) Schema {
	return s.with(func(n *schema.Node) { n.Description = d })
}

// Default sets the default metadata. Defaults are never applied to values.
func (s Schema) Default(v any) Schema {
	return s.with(func(n *schema.Node) { n.Default = schema.NormalizeLiteral(v) })
}

// Meta attaches an arbitrary extra key.
func (s Schema) Meta(key string, v any) Schema {
	return s.with(func(n *schema.Node) {
		if n.Extra == nil {
			n.Extra = make(map[string]any)
		}
		n.Extra[key] = schema.NormalizeLiteral(v)
	})
}
