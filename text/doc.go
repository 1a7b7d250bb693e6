// Package text classifies Unicode strings for CIF serialization: given a
// value's text, it computes the minimal legal delimiting strategy and the
// line-shape statistics the fold/prefix codec needs.
//
// Classification is purely syntactic (CIF 2.0 level); it knows nothing about
// dictionaries or item semantics. Analyze is pure and side-effect-free.
package text
