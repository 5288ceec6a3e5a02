// Package store exposes the path-addressed CRUD of package record over a
// keyed collection of records.
//
// The first segment of a collection path selects the record key, the rest is
// handed to that record's wrapper. Records are looked up through a Backend,
// which may block (network, cache) and may report a key as absent; absent
// records are skipped by batch operations.
package store
