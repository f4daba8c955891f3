// Package dsl builds schema trees in Go code.
//
// Overview
//   - Primitives: String()/Number()/Integer()/Boolean()/Any()/Enum().
//   - Containers: Object(Prop(...)...), Record(value), Array(elem), Tuple(elems...).
//   - Combinators: Union(members...), DiscriminatedUnion(key, variants).
//   - Modifiers return a new Schema: Min/Max/MultipleOf, MinLength/MaxLength/Pattern/Format,
//     MinItems/MaxItems, MinProps/MaxProps, Optional, Title/Describe/Default/Meta.
//
// Builders never mutate their receiver, so a Schema value can be shared and
// extended from several places. Call Node() to hand the tree to skema.Validate
// or skema.Diff.
//
// Requiredness follows nullability: Object marks every property required
// unless its schema was made Optional().
package dsl
