package model

import (
	"fmt"

	"github.com/tsawler/cifkit/identifier"
	"github.com/tsawler/cifkit/value"
)

// containerNode is the shared structure behind Container handles. Destroying
// the node bumps gen, invalidating every outstanding handle.
type containerNode struct {
	gen      uint64
	doc      *Document
	parent   *containerNode // nil for blocks
	code     string         // original spelling
	norm     string
	frames   []*containerNode
	frameIdx map[string]*containerNode
	loops    []*loopNode
	items    map[string]*loopNode // normalized item name -> owning loop
}

// Container is a handle to a block or save frame. Handles are cheap values;
// any number may alias the same structure.
type Container struct {
	n   *containerNode
	gen uint64
}

func handleFor(n *containerNode) Container { return Container{n: n, gen: n.gen} }

func (c Container) node() (*containerNode, error) {
	if c.n == nil || c.gen != c.n.gen {
		return nil, ErrInvalidHandle
	}
	return c.n, nil
}

// Code returns the container's code with its original spelling.
func (c Container) Code() (string, error) {
	n, err := c.node()
	if err != nil {
		return "", err
	}
	return n.code, nil
}

// IsBlock reports whether the container is a top-level block rather than a
// save frame.
func (c Container) IsBlock() (bool, error) {
	n, err := c.node()
	if err != nil {
		return false, err
	}
	return n.parent == nil, nil
}

// CreateFrame adds a new empty save frame with the given code and returns a
// handle to it. Frame codes follow the block-code rules, scoped to this
// container; frames may nest inside frames.
func (c Container) CreateFrame(code string) (Container, error) {
	n, err := c.node()
	if err != nil {
		return Container{}, err
	}
	if err := identifier.ValidateFrameCode(code); err != nil {
		return Container{}, fmt.Errorf("%w: %q: %w", ErrInvalidCode, code, err)
	}
	norm := identifier.Normalize(code)
	if _, ok := n.frameIdx[norm]; ok {
		return Container{}, fmt.Errorf("%w: %q", ErrDuplicateCode, code)
	}
	f := &containerNode{
		doc:      n.doc,
		parent:   n,
		code:     code,
		norm:     norm,
		frameIdx: make(map[string]*containerNode),
		items:    make(map[string]*loopNode),
	}
	n.frames = append(n.frames, f)
	n.frameIdx[norm] = f
	return handleFor(f), nil
}

// Frame returns a handle to the child frame whose code normalizes the same
// as code, or ErrNotFound.
func (c Container) Frame(code string) (Container, error) {
	n, err := c.node()
	if err != nil {
		return Container{}, err
	}
	f, ok := n.frameIdx[identifier.Normalize(code)]
	if !ok {
		return Container{}, fmt.Errorf("%w: frame %q", ErrNotFound, code)
	}
	return handleFor(f), nil
}

// Frames returns handles to every child frame in insertion order.
func (c Container) Frames() ([]Container, error) {
	n, err := c.node()
	if err != nil {
		return nil, err
	}
	out := make([]Container, len(n.frames))
	for i, f := range n.frames {
		out[i] = handleFor(f)
	}
	return out, nil
}

// CreateLoop adds a new loop holding the given item names and returns a
// handle to it. The loop starts with zero packets, a legal but transient
// state; Prune removes loops still empty when building is done.
//
// Fails with ErrEmptyNames for an empty name list, ErrInvalidName if any
// name breaks the item-name grammar, ErrDuplicateName if any name already
// exists anywhere in the container (items are unique per container, not per
// loop), and ErrReservedCategory if category is the reserved scalar category
// and the container already has a scalar loop.
func (c Container) CreateLoop(category Category, names []string) (Loop, error) {
	n, err := c.node()
	if err != nil {
		return Loop{}, err
	}
	if len(names) == 0 {
		return Loop{}, ErrEmptyNames
	}
	norms := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if err := identifier.ValidateItemName(name); err != nil {
			return Loop{}, fmt.Errorf("%w: %q: %w", ErrInvalidName, name, err)
		}
		norm := identifier.Normalize(name)
		if seen[norm] {
			return Loop{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		if _, ok := n.items[norm]; ok {
			return Loop{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[norm] = true
		norms[i] = norm
	}
	if category.IsScalar() && n.scalarLoop() != nil {
		return Loop{}, ErrReservedCategory
	}
	ln := &loopNode{
		owner:    n,
		category: category,
		names:    append([]string(nil), names...),
		norms:    norms,
	}
	n.loops = append(n.loops, ln)
	for _, norm := range norms {
		n.items[norm] = ln
	}
	return loopHandleFor(ln), nil
}

// CategoryLoop returns the single loop carrying the given category. Fails
// with ErrInvalidCategory if category is unset, ErrNotFound if no loop
// matches, and ErrNotUnique if two or more do.
func (c Container) CategoryLoop(category Category) (Loop, error) {
	n, err := c.node()
	if err != nil {
		return Loop{}, err
	}
	if !category.set {
		return Loop{}, ErrInvalidCategory
	}
	var found *loopNode
	for _, ln := range n.loops {
		if ln.category.set && ln.category.name == category.name {
			if found != nil {
				return Loop{}, fmt.Errorf("%w: category %q", ErrNotUnique, category.name)
			}
			found = ln
		}
	}
	if found == nil {
		return Loop{}, fmt.Errorf("%w: category %q", ErrNotFound, category.name)
	}
	return loopHandleFor(found), nil
}

// ItemLoop returns the loop owning the given item name. A zero-packet loop
// still locates its items; only value retrieval treats them as absent.
func (c Container) ItemLoop(name string) (Loop, error) {
	n, err := c.node()
	if err != nil {
		return Loop{}, err
	}
	ln, ok := n.items[identifier.Normalize(name)]
	if !ok {
		return Loop{}, fmt.Errorf("%w: item %q", ErrNotFound, name)
	}
	return loopHandleFor(ln), nil
}

// Loops returns handles to every loop in insertion order.
func (c Container) Loops() ([]Loop, error) {
	n, err := c.node()
	if err != nil {
		return nil, err
	}
	out := make([]Loop, len(n.loops))
	for i, ln := range n.loops {
		out[i] = loopHandleFor(ln)
	}
	return out, nil
}

// Value returns a copy-free view of the item's value. Fails with ErrNotFound
// if the item is absent or its loop has no packets, and with ErrAmbiguous if
// the loop has more than one packet.
func (c Container) Value(name string) (*value.Value, error) {
	n, err := c.node()
	if err != nil {
		return nil, err
	}
	norm := identifier.Normalize(name)
	ln, ok := n.items[norm]
	if !ok || len(ln.packets) == 0 {
		return nil, fmt.Errorf("%w: item %q", ErrNotFound, name)
	}
	if len(ln.packets) > 1 {
		return nil, fmt.Errorf("%w: item %q", ErrAmbiguous, name)
	}
	return ln.packets[0][norm], nil
}

// SetValue stores a copy of v as the item's value. An existing item receives
// the value in every packet of its loop (broadcast). An absent item is added
// to the container's scalar loop, creating the loop with a single packet if
// necessary; other items of an existing scalar loop keep their values.
func (c Container) SetValue(name string, v *value.Value) error {
	n, err := c.node()
	if err != nil {
		return err
	}
	if err := identifier.ValidateItemName(name); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidName, name, err)
	}
	norm := identifier.Normalize(name)
	if ln, ok := n.items[norm]; ok {
		for _, row := range ln.packets {
			row[norm] = v.Clone()
		}
		return nil
	}
	ln := n.scalarLoop()
	if ln == nil {
		ln = &loopNode{owner: n, category: Scalar, names: []string{name}, norms: []string{norm}}
		ln.packets = []packetRow{{norm: v.Clone()}}
		n.loops = append(n.loops, ln)
		n.items[norm] = ln
		return nil
	}
	ln.names = append(ln.names, name)
	ln.norms = append(ln.norms, norm)
	n.items[norm] = ln
	if len(ln.packets) == 0 {
		ln.packets = append(ln.packets, packetRow{})
		for _, other := range ln.norms {
			ln.packets[0][other] = value.New(value.Unknown)
		}
	}
	for _, row := range ln.packets {
		row[norm] = v.Clone()
	}
	return nil
}

// RemoveItem removes the item from every packet of its loop. If that leaves
// the loop with no item names, the loop itself is destroyed, invalidating
// handles and iterators over it.
func (c Container) RemoveItem(name string) error {
	n, err := c.node()
	if err != nil {
		return err
	}
	norm := identifier.Normalize(name)
	ln, ok := n.items[norm]
	if !ok {
		return fmt.Errorf("%w: item %q", ErrNotFound, name)
	}
	ln.removeName(norm)
	delete(n.items, norm)
	if len(ln.norms) == 0 {
		n.destroyLoop(ln)
	}
	return nil
}

// Prune destroys every loop in the container that currently has zero
// packets. It does not recurse into child frames and is idempotent.
func (c Container) Prune() error {
	n, err := c.node()
	if err != nil {
		return err
	}
	for _, ln := range append([]*loopNode(nil), n.loops...) {
		if len(ln.packets) == 0 {
			for _, norm := range ln.norms {
				delete(n.items, norm)
			}
			n.destroyLoop(ln)
		}
	}
	return nil
}

// Destroy detaches the container from its parent and frees it together with
// everything nested inside. All other handles to the container or its
// descendants become invalid.
func (c Container) Destroy() error {
	n, err := c.node()
	if err != nil {
		return err
	}
	if n.parent != nil {
		n.parent.detachFrame(n)
	} else if n.doc != nil {
		n.doc.detachBlock(n)
	}
	n.invalidate()
	return nil
}

func (n *containerNode) invalidate() {
	n.gen++
	for _, f := range n.frames {
		f.invalidate()
	}
	for _, ln := range n.loops {
		ln.gen++
	}
}

func (n *containerNode) detachFrame(f *containerNode) {
	delete(n.frameIdx, f.norm)
	for i, x := range n.frames {
		if x == f {
			n.frames = append(n.frames[:i], n.frames[i+1:]...)
			return
		}
	}
}

func (n *containerNode) destroyLoop(ln *loopNode) {
	ln.gen++
	for i, x := range n.loops {
		if x == ln {
			n.loops = append(n.loops[:i], n.loops[i+1:]...)
			return
		}
	}
}

func (n *containerNode) scalarLoop() *loopNode {
	for _, ln := range n.loops {
		if ln.category.IsScalar() {
			return ln
		}
	}
	return nil
}
