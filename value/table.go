package value

import "github.com/tsawler/cifkit/identifier"

// tableRep is the ordered table payload. Entries keep their original key
// spelling and insertion order; lookup is by canonically-equivalent key.
type tableRep struct {
	entries []tableEntry
	index   map[string]int // canonical key -> entries index
}

type tableEntry struct {
	key   string // original spelling
	canon string
	val   *Value
}

func newTableRep() *tableRep {
	return &tableRep{index: make(map[string]int)}
}

func (t *tableRep) clone() *tableRep {
	c := newTableRep()
	c.entries = make([]tableEntry, len(t.entries))
	for i, e := range t.entries {
		c.entries[i] = tableEntry{key: e.key, canon: e.canon, val: e.val.Clone()}
		c.index[e.canon] = i
	}
	return c
}

func (t *tableRep) equal(o *tableRep) bool {
	if len(t.entries) != len(o.entries) {
		return false
	}
	for i, e := range t.entries {
		if e.canon != o.entries[i].canon || !Equal(e.val, o.entries[i].val) {
			return false
		}
	}
	return true
}

// TableGet returns the entry for key, compared under canonical equivalence.
// The returned value is owned by the table.
func (v *Value) TableGet(key string) (*Value, error) {
	if v.kind != Table {
		return nil, ErrKind
	}
	i, ok := v.table.index[identifier.CanonicalKey(key)]
	if !ok {
		return nil, ErrNoSuchKey
	}
	return v.table.entries[i].val, nil
}

// TableSet stores a deep copy of elem under key. An existing entry for a
// canonically-equivalent key is replaced in place, keeping its position and
// original spelling; otherwise the entry is appended. Assigning an entry's
// own value back to its key is a no-op.
func (v *Value) TableSet(key string, elem *Value) error {
	if v.kind != Table {
		return ErrKind
	}
	canon := identifier.CanonicalKey(key)
	if i, ok := v.table.index[canon]; ok {
		if v.table.entries[i].val == elem {
			return nil
		}
		v.table.entries[i].val = elem.Clone()
		return nil
	}
	v.table.index[canon] = len(v.table.entries)
	v.table.entries = append(v.table.entries, tableEntry{key: key, canon: canon, val: elem.Clone()})
	return nil
}

// TableRemove removes and releases the entry for key.
func (v *Value) TableRemove(key string) error {
	if v.kind != Table {
		return ErrKind
	}
	canon := identifier.CanonicalKey(key)
	i, ok := v.table.index[canon]
	if !ok {
		return ErrNoSuchKey
	}
	copy(v.table.entries[i:], v.table.entries[i+1:])
	v.table.entries = v.table.entries[:len(v.table.entries)-1]
	delete(v.table.index, canon)
	for j := i; j < len(v.table.entries); j++ {
		v.table.index[v.table.entries[j].canon] = j
	}
	return nil
}

// TableKeys returns the table's keys in insertion order, with their original
// spelling.
func (v *Value) TableKeys() ([]string, error) {
	if v.kind != Table {
		return nil, ErrKind
	}
	keys := make([]string, len(v.table.entries))
	for i, e := range v.table.entries {
		keys[i] = e.key
	}
	return keys, nil
}
