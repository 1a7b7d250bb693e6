package model

import "fmt"

// iterState tracks the iterator's position in its lifecycle.
type iterState int

const (
	iterNew iterState = iota
	iterIterated
	iterRemoved
	iterFinished
	iterClosed
)

// Iterator is a cursor over one loop's packets. At most one mutating
// iterator should be open per loop at a time; structural changes to the loop
// through other handles while an iterator is open leave its subsequent
// results unspecified. The iteration order is unspecified.
type Iterator struct {
	loop  Loop
	state iterState
	idx   int
}

// Iterator opens a cursor over the loop's packets.
func (l Loop) Iterator() (*Iterator, error) {
	if _, err := l.node(); err != nil {
		return nil, err
	}
	return &Iterator{loop: l, idx: -1}, nil
}

// Next advances to the next packet and returns a caller-owned snapshot of
// it. When the loop is exhausted Next returns ErrExhausted; that is the
// expected end-of-iteration signal, after which only Close or Abort are
// valid.
func (it *Iterator) Next() (*Packet, error) {
	n, err := it.loop.node()
	if err != nil {
		return nil, err
	}
	switch it.state {
	case iterNew, iterIterated, iterRemoved:
	default:
		return nil, fmt.Errorf("%w: iterator is finished or closed", ErrMisuse)
	}
	it.idx++
	if it.idx >= len(n.packets) {
		it.state = iterFinished
		return nil, ErrExhausted
	}
	it.state = iterIterated
	p := NewPacket()
	row := n.packets[it.idx]
	for i, norm := range n.norms {
		p.names = append(p.names, n.names[i])
		p.norms = append(p.norms, norm)
		p.vals[norm] = row[norm].Clone()
	}
	return p, nil
}

// Update overwrites the current packet's values for the items named in p.
// Every name in p must belong to the iterated loop (ErrWrongLoop). Fails
// with ErrMisuse when there is no current packet.
func (it *Iterator) Update(p *Packet) error {
	n, err := it.loop.node()
	if err != nil {
		return err
	}
	if it.state != iterIterated {
		return ErrMisuse
	}
	if p == nil || len(p.norms) == 0 {
		return ErrEmptyPacket
	}
	for _, norm := range p.norms {
		if !n.hasNorm(norm) {
			return fmt.Errorf("%w: %q", ErrWrongLoop, norm)
		}
	}
	row := n.packets[it.idx]
	for _, norm := range p.norms {
		row[norm] = p.vals[norm].Clone()
	}
	return nil
}

// Remove deletes the current packet from the loop. The iterator is left with
// no current packet; the next call to Next continues with the packet after
// the removed one. Fails with ErrMisuse when there is no current packet.
func (it *Iterator) Remove() error {
	n, err := it.loop.node()
	if err != nil {
		return err
	}
	if it.state != iterIterated {
		return ErrMisuse
	}
	n.packets = append(n.packets[:it.idx], n.packets[it.idx+1:]...)
	it.idx--
	it.state = iterRemoved
	return nil
}

// Close commits the iterator's edits (already applied) and releases it. It
// is valid in any state.
func (it *Iterator) Close() error {
	it.state = iterClosed
	return nil
}

// Abort releases the iterator. Rolling back edits made through the iterator
// is not supported, so Abort reports ErrNotSupported after releasing; the
// loop keeps the edits applied so far.
func (it *Iterator) Abort() error {
	it.state = iterClosed
	return fmt.Errorf("%w: iterator rollback", ErrNotSupported)
}
