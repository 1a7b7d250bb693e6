// Package writer serializes a CIF document tree to CIF 2.0 text. It asks
// the text package how each value must be delimited and lays out multi-line
// text blocks with the fold package, so that what it writes reads back to an
// equivalent document.
package writer
