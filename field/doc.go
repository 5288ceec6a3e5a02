// Package field declares document schemas as trees of field models.
//
// A Model is one of four kinds:
//
//   - Scalar: any JSON-like value, deep-converted into persistent form.
//   - Set: a persistent set built from an array-like input.
//   - Record: a fixed, ordered set of named child models.
//   - Dict: a dynamic mapping whose values share one item model, optionally
//     the enclosing record itself (self-referential trees).
//
// Every model carries a required flag and an optional default provider.
// Record loads fill absent optional fields from their defaults and report
// absent required fields as Issues with code "required", while still
// returning the partial record.
//
// Example:
//
//	node := field.Record().
//		Field("name", field.Scalar()).Required().
//		Field("tags", field.Set().EmptyDefault()).
//		Field("children", field.DictOfSelf("name")).
//		MustBuild()
//	v, ok, err := node.Load(map[string]any{"name": "root"})
package field
