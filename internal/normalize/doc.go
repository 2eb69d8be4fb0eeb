// Package normalize holds the pure per-field canonicalizers used to clean
// movie records.
//
// Every function tolerates arbitrary scalar input and never errors: a value
// that cannot be normalized collapses to its field type's default (empty
// string, zero, empty list, absent). That keeps per-record cleaning a
// straight-line transform with no recoverable failure paths.
package normalize
