package value

import (
	"errors"
)

// Kind represents the kind of a CIF value
type Kind int

const (
	Unknown Kind = iota
	NA
	Text
	Number
	List
	Table
)

// String returns the string representation of the value kind
func (k Kind) String() string {
	switch k {
	case NA:
		return "NA"
	case Text:
		return "Text"
	case Number:
		return "Number"
	case List:
		return "List"
	case Table:
		return "Table"
	default:
		return "Unknown"
	}
}

var (
	// ErrKind reports an operation applied to a value of the wrong kind.
	ErrKind = errors.New("cif: operation not valid for this value kind")
	// ErrIndex reports a list index outside the current bounds.
	ErrIndex = errors.New("cif: list index out of range")
	// ErrNoSuchKey reports a lookup for an absent table key.
	ErrNoSuchKey = errors.New("cif: no table entry for key")
)

// Value is a CIF data value. The zero Value is the Unknown placeholder.
type Value struct {
	kind   Kind
	text   string  // Text payload, or the Number literal
	quoted bool    // preferred quoting for Text/Number when serialized
	num    numeric // Number payload
	list   []*Value
	table  *tableRep
}

type numeric struct {
	val float64
	su  float64
}

// New creates a value of the given kind with its default payload: empty
// text, exact zero, empty list or table, or the NA/Unknown placeholder.
func New(kind Kind) *Value {
	v := &Value{}
	switch kind {
	case Text:
		v.kind = Text
	case Number:
		v.kind = Number
		v.text = "0"
	case List:
		v.kind = List
		v.list = make([]*Value, 0)
	case Table:
		v.kind = Table
		v.table = newTableRep()
	case NA:
		v.kind = NA
	default:
		v.kind = Unknown
	}
	return v
}

// Kind returns the value's current kind.
func (v *Value) Kind() Kind { return v.kind }

// Clean releases the value's payload and re-tags it as Unknown in place.
// The value itself remains usable.
func (v *Value) Clean() {
	v.kind = Unknown
	v.text = ""
	v.quoted = false
	v.num = numeric{}
	v.list = nil
	v.table = nil
}

// SetNA re-tags the value as the not-applicable placeholder.
func (v *Value) SetNA() {
	v.Clean()
	v.kind = NA
}

// SetText re-tags the value as Text with the given content. The previous
// payload is released.
func (v *Value) SetText(s string) {
	v.Clean()
	v.kind = Text
	v.text = s
}

// Text returns the textual content of a Text value or the decimal literal of
// a Number value.
func (v *Value) Text() (string, error) {
	if v.kind != Text && v.kind != Number {
		return "", ErrKind
	}
	return v.text, nil
}

// Quoted reports the cached quoting preference of a Text or Number value.
// The preference is a serialization hint, not part of value equality.
func (v *Value) Quoted() (bool, error) {
	if v.kind != Text && v.kind != Number {
		return false, ErrKind
	}
	return v.quoted, nil
}

// SetQuoted records the quoting preference of a Text or Number value.
func (v *Value) SetQuoted(quoted bool) error {
	if v.kind != Text && v.kind != Number {
		return ErrKind
	}
	v.quoted = quoted
	return nil
}

// Float64 returns the double-precision approximation of a Number value.
func (v *Value) Float64() (float64, error) {
	if v.kind != Number {
		return 0, ErrKind
	}
	return v.num.val, nil
}

// SU returns the double-precision approximation of a Number value's standard
// uncertainty; it is 0 for exact numbers.
func (v *Value) SU() (float64, error) {
	if v.kind != Number {
		return 0, ErrKind
	}
	return v.num.su, nil
}

// Clone returns a deep copy of the value. List and table elements are
// recursively cloned, never aliased.
func (v *Value) Clone() *Value {
	c := &Value{
		kind:   v.kind,
		text:   v.text,
		quoted: v.quoted,
		num:    v.num,
	}
	if v.list != nil {
		c.list = make([]*Value, len(v.list))
		for i, e := range v.list {
			c.list[i] = e.Clone()
		}
	}
	if v.table != nil {
		c.table = v.table.clone()
	}
	return c
}

// Len returns the number of direct children of a List or Table value: list
// elements or table key/value pairs.
func (v *Value) Len() (int, error) {
	switch v.kind {
	case List:
		return len(v.list), nil
	case Table:
		return len(v.table.entries), nil
	default:
		return 0, ErrKind
	}
}

// Equal reports deep value equality. Two values are equal when they have the
// same kind and payload; list and table element order is significant, table
// keys compare under canonical equivalence, and numbers compare by value,
// uncertainty, and retained text. Quoting preferences are ignored.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Text:
		return a.text == b.text
	case Number:
		return a.text == b.text && a.num == b.num
	case List:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case Table:
		return a.table.equal(b.table)
	default:
		return true
	}
}

// ============================================================================
// List operations
// ============================================================================

// ListGet returns the element at index. The element is owned by the list:
// callers may mutate it in place but must not insert it elsewhere without
// cloning.
func (v *Value) ListGet(index int) (*Value, error) {
	if v.kind != List {
		return nil, ErrKind
	}
	if index < 0 || index >= len(v.list) {
		return nil, ErrIndex
	}
	return v.list[index], nil
}

// ListSet replaces the element at index with a deep copy of elem. Assigning
// an element to its own slot is a no-op.
func (v *Value) ListSet(index int, elem *Value) error {
	if v.kind != List {
		return ErrKind
	}
	if index < 0 || index >= len(v.list) {
		return ErrIndex
	}
	if v.list[index] == elem {
		return nil
	}
	v.list[index] = elem.Clone()
	return nil
}

// ListInsert inserts a deep copy of elem at index, shifting later elements
// right. index may equal the current length, appending.
func (v *Value) ListInsert(index int, elem *Value) error {
	if v.kind != List {
		return ErrKind
	}
	if index < 0 || index > len(v.list) {
		return ErrIndex
	}
	v.list = append(v.list, nil)
	copy(v.list[index+1:], v.list[index:])
	v.list[index] = elem.Clone()
	return nil
}

// ListAppend appends a deep copy of elem to the list.
func (v *Value) ListAppend(elem *Value) error {
	if v.kind != List {
		return ErrKind
	}
	return v.ListInsert(len(v.list), elem)
}

// ListRemove removes and releases the element at index.
func (v *Value) ListRemove(index int) error {
	if v.kind != List {
		return ErrKind
	}
	if index < 0 || index >= len(v.list) {
		return ErrIndex
	}
	copy(v.list[index:], v.list[index+1:])
	v.list = v.list[:len(v.list)-1]
	return nil
}
