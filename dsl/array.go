package dsl

import "github.com/reoring/skema/schema"

// Array returns a homogeneous list schema.
func Array(item Schema) Schema {
	return Schema{node: &schema.Node{
		Type:  &schema.Type{Base: schema.TypeArray},
		Items: &schema.Items{Schema: item.Node()},
	}}
}

// Tuple returns a fixed-arity array schema. minItems and maxItems are both
// set to the number of positions.
func Tuple(items ...Schema) Schema {
	tuple := make([]*schema.Node, len(items))
	for i, it := range items {
		tuple[i] = it.Node()
	}
	l := len(items)
	minItems, maxItems := l, l
	return Schema{node: &schema.Node{
		Type:     &schema.Type{Base: schema.TypeArray},
		Items:    &schema.Items{Tuple: tuple},
		MinItems: &minItems,
		MaxItems: &maxItems,
	}}
}

// MinItems sets the minimum array length.
func (s Schema) MinItems(v int) Schema { return s.with(func(n *schema.Node) { n.MinItems = &v }) }

// MaxItems sets the maximum array length.
func (s Schema) MaxItems(v int) Schema { return s.with(func(n *schema.Node) { n.MaxItems = &v }) }

// NonEmpty requires at least one element.
func (s Schema) NonEmpty() Schema { return s.MinItems(1) }
