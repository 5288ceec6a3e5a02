// Package record binds one schema to one persistent document and exposes
// path-addressed reads and writes on it.
//
// A Wrapper never mutates its document. Every successful write computes a new
// persistent value, installs it with a single swap and then requests a
// notification for the paths it changed. Readers always see either the old or
// the new document, never a mix.
package record
