package dsl

import (
	"sort"

	"github.com/reoring/skema/schema"
)

// Union returns a schema accepting a value that matches any member. Members
// are tried in order.
func Union(members ...Schema) Schema {
	n := &schema.Node{AnyOf: make([]*schema.Node, len(members))}
	for i, m := range members {
		n.AnyOf[i] = m.Node()
	}
	return Schema{node: n}
}

// Literal is a one-member Enum.
func Literal(v any) Schema { return Enum(v) }

// DiscriminatedUnion returns a union of object variants tagged by key. Each
// variant gets key pinned to its tag value.
func DiscriminatedUnion(key string, variants map[string]Schema) Schema {
	tags := make([]string, 0, len(variants))
	for tag := range variants {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	members := make([]Schema, 0, len(tags))
	for _, tag := range tags {
		members = append(members, variants[tag].Extend(Prop(key, Literal(tag))))
	}
	return Union(members...)
}

