// Package reader parses already-decoded CIF 2.0 text into a document tree.
// It drives the model package's mutation API the way any tokenizer front end
// would: byte-stream decoding, encoding detection, and file handling belong
// to the caller.
//
// Parsing stops at the first syntax error; errors carry the line and column
// where the problem was found.
package reader
