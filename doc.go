// Package skema provides:
//
// - Structural validation of JSON-like values against schema trees (Validate/Check)
// - Prime-stride sampling for large homogeneous arrays and dictionaries, disabled with FullScan
// - Fail-fast reporting of exactly one violation (path, code, message)
// - Structural diffing of two schema trees into a change-set (Diff)
// - Guarded functions that validate their input and output exhaustively (NewGuard)
//
// Design policy:
// - Values are never coerced, copied or mutated; validation only reads.
// - Schema trees are immutable and may be shared across goroutines.
// - The schema model lives under schema/, builders under dsl/, formats under format/,
//   and the CLI under cmd/skema.
//
// Typical usage:
//
//  s := dsl.Object(dsl.Prop("id", dsl.Number()), dsl.Prop("email", dsl.String())).Node()
//  ok := skema.Validate(value, s, skema.Options{})
//  err := skema.Check(value, s, true)
//
//  changes := skema.Diff(oldSchema, newSchema)
package skema
