package dsl

import "github.com/reoring/skema/schema"

// Field is one named property of an object schema.
type Field struct {
	Name   string
	Schema Schema
}

// Prop declares a property.
func Prop(name string, s Schema) Field { return Field{Name: name, Schema: s} }

// Object returns an object schema. Fields whose schema does not accept null
// are required; optional fields are not.
func Object(fields ...Field) Schema {
	n := &schema.Node{
		Type:       &schema.Type{Base: schema.TypeObject},
		Properties: make(schema.Properties, 0, len(fields)),
	}
	for _, f := range fields {
		n.Properties = append(n.Properties, schema.Property{Name: f.Name, Schema: f.Schema.Node()})
		if !f.Schema.IsOptional() {
			n.Required = append(n.Required, f.Name)
		}
	}
	return Schema{node: n}
}

// Record returns a dictionary schema: every key's value must match value.
func Record(value Schema) Schema {
	return Schema{node: &schema.Node{
		Type:                 &schema.Type{Base: schema.TypeObject},
		AdditionalProperties: value.Node(),
	}}
}

// Extend adds or replaces properties of an object schema.
func (s Schema) Extend(fields ...Field) Schema {
	return s.with(func(n *schema.Node) {
		for _, f := range fields {
			replaced := false
			for i := range n.Properties {
				if n.Properties[i].Name == f.Name {
					n.Properties[i].Schema = f.Schema.Node()
					replaced = true
				}
			}
			if !replaced {
				n.Properties = append(n.Properties, schema.Property{Name: f.Name, Schema: f.Schema.Node()})
			}
			n.Required = removeString(n.Required, f.Name)
			if !f.Schema.IsOptional() {
				n.Required = append(n.Required, f.Name)
			}
		}
	})
}

// Require marks keys as required.
func (s Schema) Require(keys ...string) Schema {
	return s.with(func(n *schema.Node) {
		for _, k := range keys {
			n.Required = append(removeString(n.Required, k), k)
		}
	})
}

// Catchall validates undeclared keys against value.
func (s Schema) Catchall(value Schema) Schema {
	return s.with(func(n *schema.Node) { n.AdditionalProperties = value.Node() })
}

// Strict records additionalProperties: false. The validator does not reject
// extra keys; the flag is documentation for other tooling.
func (s Schema) Strict() Schema {
	f := false
	return s.with(func(n *schema.Node) { n.AdditionalAllowed = &f })
}

// MinProps sets minProperties, which validation enforces.
func (s Schema) MinProps(v int) Schema {
	return s.with(func(n *schema.Node) { n.MinProperties = &v })
}

// MaxProps sets maxProperties. It is documentation only: validation never
// enforces it, diffs report it.
func (s Schema) MaxProps(v int) Schema {
	return s.with(func(n *schema.Node) { n.MaxProperties = &v })
}

func removeString(list []string, s string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
