// Package pvalue holds persistent document values: Map, List, Set and Record.
//
// Every value is immutable. Mutators return a new value that shares structure
// with the receiver, so a handle taken before a write never observes it.
// Storage is provided by github.com/benbjohnson/immutable.
//
// Plain Go data (map[string]any, []any, scalars) is converted with FromJS and
// converted back with ToJS. Path helpers (GetIn, SetIn, DeleteIn) address
// nested values by segment lists.
package pvalue
