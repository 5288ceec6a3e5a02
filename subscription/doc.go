// Package subscription fans change events out to interested callbacks.
//
// A Manager keeps global subscribers (every change) and path subscribers
// (changes overlapping one dotted path). Each trigger returns a
// *Notification that completes once every matching callback has returned.
package subscription
