// Package value provides the CIF value model: a closed tagged union of six
// kinds (text, number, list, table, not-applicable, unknown) with in-place
// re-tagging, deep cloning, and an exact-decimal numeric sub-model.
//
// # Kinds
//
// A [Value] is always exactly one of the six [Kind]s. Composite kinds own
// their elements: values read out of a list, table, or packet are dependent
// on their container and must not be released independently, though they may
// be mutated in place. Inserting a value into an aggregate stores a deep
// copy, never the caller's reference.
//
// # Numbers
//
// A number simultaneously carries a double-precision approximation of the
// value, an approximation of its standard uncertainty (0 for exact numbers),
// and the exact decimal text. Numbers are built three ways:
//
//   - [Parse] consumes a CIF numeric literal and retains it verbatim.
//   - [NewNumber] formats a value/uncertainty pair at an explicit scale.
//   - [AutoNumber] picks the scale from the uncertainty and a rounding rule.
//
// # Errors
//
// Operations applied to the wrong kind fail with [ErrKind]; out-of-range list
// indexes fail with [ErrIndex]; absent table keys fail with [ErrNoSuchKey].
package value
