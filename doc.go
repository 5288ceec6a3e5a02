// Package pathstore provides:
//
// - A schema (field model) describing nested documents once: field kinds,
// required flags and default values (package field).
// - Persistent, structurally shared document values (package pvalue).
// - Path-addressed CRUD on a single document (package record) and on a keyed
// collection of documents (package store).
// - Change notifications scoped to the dotted paths a mutation touched
// (package subscription).
//
// Design policy:
// - Keep shared vocabulary (paths, Issues, presence flags) in the root package;
// everything else lives in subpackages.
// - Schema-level problems are reported as Issues with dotted paths, never panics.
// - Records are replaced, never mutated in place; readers hold immutable snapshots.
//
// Typical usage:
//
//	model := field.Record().
//		Field("container1", field.Record().
//			Field("field1", field.Scalar()).
//			MustBuild()).
//		MustBuild()
//	items := store.New(model, store.NewMemory())
//	_, _ = items.LoadFromData(ctx, map[string]any{"x": map[string]any{"container1": map[string]any{"field1": 42}}})
//	v, ok, err := items.GetAttr(ctx, "x.container1.field1")
package pathstore
