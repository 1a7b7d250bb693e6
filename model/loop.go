package model

import (
	"fmt"

	"github.com/tsawler/cifkit/identifier"
	"github.com/tsawler/cifkit/value"
)

// Category is a loop's optional category tag. The zero Category is unset;
// the reserved empty-string category marks the container's scalar loop.
type Category struct {
	name string
	set  bool
}

// NewCategory returns a set category with the given name.
func NewCategory(name string) Category { return Category{name: name, set: true} }

// NoCategory is the unset category.
var NoCategory = Category{}

// Scalar is the reserved category of the per-container scalar loop.
var Scalar = NewCategory("")

// Name returns the category name and whether the category is set.
func (c Category) Name() (string, bool) { return c.name, c.set }

// IsScalar reports whether this is the reserved scalar-loop category.
func (c Category) IsScalar() bool { return c.set && c.name == "" }

// packetRow is one stored row, keyed by normalized item name.
type packetRow map[string]*value.Value

// loopNode is the shared structure behind Loop handles.
type loopNode struct {
	gen      uint64
	owner    *containerNode
	category Category
	names    []string // original spellings, column order
	norms    []string
	packets  []packetRow
}

// Loop is a handle to one loop of a container.
type Loop struct {
	n   *loopNode
	gen uint64
}

func loopHandleFor(n *loopNode) Loop { return Loop{n: n, gen: n.gen} }

func (l Loop) node() (*loopNode, error) {
	if l.n == nil || l.gen != l.n.gen {
		return nil, ErrInvalidHandle
	}
	return l.n, nil
}

// Category returns the loop's category tag.
func (l Loop) Category() (Category, error) {
	n, err := l.node()
	if err != nil {
		return Category{}, err
	}
	return n.category, nil
}

// Names returns the loop's item names in column order, with their original
// spelling.
func (l Loop) Names() ([]string, error) {
	n, err := l.node()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), n.names...), nil
}

// PacketCount returns the number of packets currently in the loop.
func (l Loop) PacketCount() (int, error) {
	n, err := l.node()
	if err != nil {
		return 0, err
	}
	return len(n.packets), nil
}

// AddPacket appends a row built from p. Every name in p must belong to the
// loop (ErrWrongLoop otherwise); loop items missing from p receive the
// Unknown placeholder. The packet's values are copied, never captured.
func (l Loop) AddPacket(p *Packet) error {
	n, err := l.node()
	if err != nil {
		return err
	}
	if p == nil || len(p.names) == 0 {
		return ErrEmptyPacket
	}
	row, err := n.rowFrom(p)
	if err != nil {
		return err
	}
	n.packets = append(n.packets, row)
	return nil
}

// AddItem adds a new column to the loop, filling every existing packet with
// a copy of def (the Unknown placeholder when def is nil). The name must be
// unused anywhere in the owning container.
func (l Loop) AddItem(name string, def *value.Value) error {
	n, err := l.node()
	if err != nil {
		return err
	}
	if err := identifier.ValidateItemName(name); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidName, name, err)
	}
	norm := identifier.Normalize(name)
	if _, ok := n.owner.items[norm]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if def == nil {
		def = value.New(value.Unknown)
	}
	n.names = append(n.names, name)
	n.norms = append(n.norms, norm)
	n.owner.items[norm] = n
	for _, row := range n.packets {
		row[norm] = def.Clone()
	}
	return nil
}

// Destroy detaches the loop from its container and frees it, removing its
// items from the container and invalidating all other handles and iterators
// over the loop.
func (l Loop) Destroy() error {
	n, err := l.node()
	if err != nil {
		return err
	}
	for _, norm := range n.norms {
		delete(n.owner.items, norm)
	}
	n.owner.destroyLoop(n)
	return nil
}

func (n *loopNode) hasNorm(norm string) bool {
	for _, x := range n.norms {
		if x == norm {
			return true
		}
	}
	return false
}

func (n *loopNode) removeName(norm string) {
	for i, x := range n.norms {
		if x == norm {
			n.norms = append(n.norms[:i], n.norms[i+1:]...)
			n.names = append(n.names[:i], n.names[i+1:]...)
			break
		}
	}
	for _, row := range n.packets {
		delete(row, norm)
	}
}

// rowFrom validates p against the loop's name set and builds a stored row,
// cloning values and defaulting absent items to Unknown.
func (n *loopNode) rowFrom(p *Packet) (packetRow, error) {
	for _, norm := range p.norms {
		if !n.hasNorm(norm) {
			return nil, fmt.Errorf("%w: %q", ErrWrongLoop, norm)
		}
	}
	row := make(packetRow, len(n.norms))
	for _, norm := range n.norms {
		if v, ok := p.vals[norm]; ok {
			row[norm] = v.Clone()
		} else {
			row[norm] = value.New(value.Unknown)
		}
	}
	return row, nil
}
