// Package fold implements the line-folding and line-prefixing protocols used
// to serialize multi-line text blocks: folding splits lines that exceed the
// configured width at reversible fold points, and prefixing neutralizes
// content that would otherwise be misread as a block terminator.
//
// The two protocols are decided independently ([Decide]) from a value's
// line-shape statistics, and applied together by [Encode]. [Decode] reverses
// an encoded body exactly, so folded and prefixed text round-trips
// losslessly.
package fold
