// Package cifkit provides a model for CIF (Crystallographic Information
// File) documents: building and querying the document tree, typed values
// with exact numeric text, and lossless round-tripping between the model and
// CIF 2.0 text.
//
// Basic usage:
//
//	doc := cifkit.NewDocument()
//	block := cifkit.Must(doc.CreateBlock("example"))
//	if err := block.SetValue("_cell.length_a", cifkit.Must(value.AutoNumber(5.417, 0.002, 19))); err != nil {
//	    // handle error
//	}
//	out, err := cifkit.Write(doc, cifkit.DefaultWriteOptions())
//
// Reading:
//
//	doc, err := cifkit.Parse(src)
//	if err != nil {
//	    // handle error
//	}
//	block, err := doc.Block("example")
//
// For advanced use cases, the lower-level model, value, text, fold, writer,
// and reader packages are also available.
package cifkit

import (
	"github.com/tsawler/cifkit/model"
	"github.com/tsawler/cifkit/reader"
	"github.com/tsawler/cifkit/writer"
)

// NewDocument creates a new empty document.
func NewDocument() *model.Document {
	return model.NewDocument()
}

// Parse builds a document from decoded CIF 2.0 text.
func Parse(src string) (*model.Document, error) {
	return reader.Parse(src)
}

// Write renders the document as CIF 2.0 text.
func Write(doc *model.Document, opts WriteOptions) (string, error) {
	return writer.Write(doc, opts.build())
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	block := cifkit.Must(doc.CreateBlock("example"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
