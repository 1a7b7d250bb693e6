package cifkit

import (
	"github.com/tsawler/cifkit/fold"
	"github.com/tsawler/cifkit/writer"
)

// WriteOptions holds configuration for serialization.
type WriteOptions struct {
	// Line layout for multi-line text blocks
	lineWidth  int
	foldWindow int
	prefix     string

	// Structural limits
	maxFrameDepth int
}

// DefaultWriteOptions returns the default serialization options.
func DefaultWriteOptions() WriteOptions {
	f := fold.DefaultOptions()
	return WriteOptions{
		lineWidth:     f.Width,
		foldWindow:    f.Window,
		prefix:        f.Prefix,
		maxFrameDepth: 1,
	}
}

// LineWidth sets the longest content line emitted without folding.
func (o WriteOptions) LineWidth(width int) WriteOptions {
	o.lineWidth = width
	return o
}

// Prefix sets the string used by the line-prefix protocol.
func (o WriteOptions) Prefix(prefix string) WriteOptions {
	o.prefix = prefix
	return o
}

// MaxFrameDepth sets the deepest allowed save-frame nesting. Standard CIF
// allows one level; higher values opt into nested frames.
func (o WriteOptions) MaxFrameDepth(depth int) WriteOptions {
	o.maxFrameDepth = depth
	return o
}

func (o WriteOptions) build() writer.Options {
	return writer.Options{
		Fold: fold.Options{
			Width:  o.lineWidth,
			Window: o.foldWindow,
			Prefix: o.prefix,
		},
		MaxFrameDepth: o.maxFrameDepth,
	}
}
