package model

import (
	"fmt"

	"github.com/tsawler/cifkit/identifier"
)

// Document is the root of a CIF document tree. It owns its blocks; block
// codes are unique in normalized form, and iteration preserves insertion
// order. The zero value is not usable; create documents with NewDocument.
type Document struct {
	blocks   []*containerNode
	blockIdx map[string]*containerNode
}

// NewDocument creates a new empty document.
func NewDocument() *Document {
	return &Document{blockIdx: make(map[string]*containerNode)}
}

// CreateBlock adds a new empty block with the given code and returns a
// handle to it. Fails with ErrInvalidCode if the code breaks the block-code
// grammar and ErrDuplicateCode if a block with the same normalized code
// already exists.
func (d *Document) CreateBlock(code string) (Container, error) {
	if err := identifier.ValidateBlockCode(code); err != nil {
		return Container{}, fmt.Errorf("%w: %q: %w", ErrInvalidCode, code, err)
	}
	norm := identifier.Normalize(code)
	if _, ok := d.blockIdx[norm]; ok {
		return Container{}, fmt.Errorf("%w: %q", ErrDuplicateCode, code)
	}
	n := &containerNode{
		doc:      d,
		code:     code,
		norm:     norm,
		frameIdx: make(map[string]*containerNode),
		items:    make(map[string]*loopNode),
	}
	d.blocks = append(d.blocks, n)
	d.blockIdx[norm] = n
	return handleFor(n), nil
}

// Block returns a handle to the block whose code normalizes the same as
// code, or ErrNotFound.
func (d *Document) Block(code string) (Container, error) {
	n, ok := d.blockIdx[identifier.Normalize(code)]
	if !ok {
		return Container{}, fmt.Errorf("%w: block %q", ErrNotFound, code)
	}
	return handleFor(n), nil
}

// Blocks returns handles to every block in insertion order.
func (d *Document) Blocks() []Container {
	out := make([]Container, len(d.blocks))
	for i, n := range d.blocks {
		out[i] = handleFor(n)
	}
	return out
}

// BlockCount returns the number of blocks in the document.
func (d *Document) BlockCount() int { return len(d.blocks) }

func (d *Document) detachBlock(n *containerNode) {
	delete(d.blockIdx, n.norm)
	for i, b := range d.blocks {
		if b == n {
			d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
			return
		}
	}
}
