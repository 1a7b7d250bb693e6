package model

import (
	"fmt"

	"github.com/tsawler/cifkit/identifier"
	"github.com/tsawler/cifkit/value"
)

// Packet is one row of a loop: an unordered mapping from item name to value.
// Freestanding packets (built with NewPacket, or returned by an iterator)
// are owned by the caller; applying one to a loop copies its values.
type Packet struct {
	names []string // original spellings, insertion order
	norms []string
	vals  map[string]*value.Value // keyed by normalized name
}

// NewPacket creates an empty packet.
func NewPacket() *Packet {
	return &Packet{vals: make(map[string]*value.Value)}
}

// Set stores a copy of v under the given item name, replacing any previous
// value for a name that normalizes the same.
func (p *Packet) Set(name string, v *value.Value) error {
	if err := identifier.ValidateItemName(name); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidName, name, err)
	}
	norm := identifier.Normalize(name)
	if _, ok := p.vals[norm]; !ok {
		p.names = append(p.names, name)
		p.norms = append(p.norms, norm)
	}
	p.vals[norm] = v.Clone()
	return nil
}

// Get returns the packet's value for the given item name. The value is owned
// by the packet; callers may mutate it in place.
func (p *Packet) Get(name string) (*value.Value, error) {
	v, ok := p.vals[identifier.Normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: item %q", ErrNotFound, name)
	}
	return v, nil
}

// Remove drops the item from the packet.
func (p *Packet) Remove(name string) error {
	norm := identifier.Normalize(name)
	if _, ok := p.vals[norm]; !ok {
		return fmt.Errorf("%w: item %q", ErrNotFound, name)
	}
	delete(p.vals, norm)
	for i, x := range p.norms {
		if x == norm {
			p.norms = append(p.norms[:i], p.norms[i+1:]...)
			p.names = append(p.names[:i], p.names[i+1:]...)
			break
		}
	}
	return nil
}

// Names returns the packet's item names in insertion order.
func (p *Packet) Names() []string {
	return append([]string(nil), p.names...)
}

// Len returns the number of items in the packet.
func (p *Packet) Len() int { return len(p.norms) }
