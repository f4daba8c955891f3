package skema

import (
	"fmt"
	"strconv"

	"github.com/reoring/skema/schema"
)

// Diff reports the structural differences between two schema trees, or nil
// when they are identical. Diff is pure; it never fails.
func Diff(a, b *schema.Node) *Change {
	if a == nil {
		a = &schema.Node{}
	}
	if b == nil {
		b = &schema.Node{}
	}
	if schema.Equal(a, b) {
		return nil
	}

	// Member-level diffing inside unions is not attempted.
	if a.IsUnion() || b.IsUnion() {
		if schema.EqualNodes(a.AnyOf, b.AnyOf) {
			return nil
		}
		return &Change{Kind: ChangeMismatch, Error: "Union mismatch", From: a.AnyOf, To: b.AnyOf}
	}

	if !a.Type.Equal(b.Type) {
		return mismatch(fmt.Sprintf("Type mismatch: %s vs %s", a.Type, b.Type))
	}

	switch {
	case a.Type.Is(schema.TypeObject):
		return diffObject(a, b)
	case a.Type.Is(schema.TypeArray):
		return diffArray(a, b)
	}
	return diffLeaf(a, b)
}

func diffObject(a, b *schema.Node) *Change {
	fields := make(map[string]*Change)
	for _, p := range a.Properties {
		bs, ok := b.Properties.Get(p.Name)
		if !ok {
			fields[p.Name] = &Change{Kind: ChangeRemoved}
			continue
		}
		if c := Diff(p.Schema, bs); c != nil {
			fields[p.Name] = c
		}
	}
	for _, p := range b.Properties {
		if !a.Properties.Has(p.Name) {
			fields[p.Name] = &Change{Kind: ChangeAdded}
		}
	}
	// maxProperties is never enforced by validation but is part of the
	// schema's documented contract, so it shows up here.
	if !equalInt(a.MinProperties, b.MinProperties) {
		fields["minProperties"] = valueChange(intValue(a.MinProperties), intValue(b.MinProperties))
	}
	if !equalInt(a.MaxProperties, b.MaxProperties) {
		fields["maxProperties"] = valueChange(intValue(a.MaxProperties), intValue(b.MaxProperties))
	}
	return fieldsChange(fields)
}

func diffArray(a, b *schema.Node) *Change {
	at, bt := a.Items.IsTuple(), b.Items.IsTuple()
	switch {
	case at && bt:
		if len(a.Items.Tuple) != len(b.Items.Tuple) {
			return mismatch("Tuple length mismatch")
		}
		items := make(map[string]*Change)
		for i := range a.Items.Tuple {
			if c := Diff(a.Items.Tuple[i], b.Items.Tuple[i]); c != nil {
				items[strconv.Itoa(i)] = c
			}
		}
		if len(items) == 0 {
			return nil
		}
		return fieldsChange(map[string]*Change{"items": fieldsChange(items)})
	case !at && !bt:
		c := Diff(itemSchema(a), itemSchema(b))
		if c == nil {
			return nil
		}
		return fieldsChange(map[string]*Change{"items": c})
	default:
		return mismatch("Array type mismatch (Tuple vs List)")
	}
}

func itemSchema(n *schema.Node) *schema.Node {
	if n.Items == nil {
		return nil
	}
	return n.Items.Schema
}

// diffLeaf compares the fixed attribute set of scalar nodes by literal
// equality.
func diffLeaf(a, b *schema.Node) *Change {
	fields := make(map[string]*Change)
	attr := func(name string, from, to any) {
		if !schema.EqualValues(from, to) {
			fields[name] = valueChange(from, to)
		}
	}
	attr("minimum", floatValue(a.Minimum), floatValue(b.Minimum))
	attr("maximum", floatValue(a.Maximum), floatValue(b.Maximum))
	attr("minLength", intValue(a.MinLength), intValue(b.MinLength))
	attr("pattern", stringValue(a.Pattern), stringValue(b.Pattern))
	attr("format", stringValue(a.Format), stringValue(b.Format))
	attr("enum", enumValue(a.Enum), enumValue(b.Enum))
	attr("title", stringValue(a.Title), stringValue(b.Title))
	attr("description", stringValue(a.Description), stringValue(b.Description))
	attr("default", a.Default, b.Default)
	return fieldsChange(fields)
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// The value helpers turn absent attributes into nil so that "absent" and
// "present" always differ and render as null.

func intValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func enumValue(e []any) any {
	if e == nil {
		return nil
	}
	return e
}
