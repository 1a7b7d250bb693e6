package model

import "errors"

var (
	// ErrDuplicateCode reports a block or frame code already present under
	// the same parent (in normalized form).
	ErrDuplicateCode = errors.New("cif: duplicate block or frame code")
	// ErrInvalidCode reports a code that fails the block/frame-code grammar.
	ErrInvalidCode = errors.New("cif: invalid block or frame code")
	// ErrNotFound reports a lookup that matched nothing.
	ErrNotFound = errors.New("cif: not found")
	// ErrEmptyNames reports loop creation with no item names.
	ErrEmptyNames = errors.New("cif: a loop needs at least one item name")
	// ErrInvalidName reports a name that fails the item-name grammar.
	ErrInvalidName = errors.New("cif: invalid item name")
	// ErrDuplicateName reports an item name already present in the container.
	ErrDuplicateName = errors.New("cif: item name already present in container")
	// ErrReservedCategory reports a second loop claiming the empty category,
	// which is reserved for the container's single scalar loop.
	ErrReservedCategory = errors.New("cif: the empty category is reserved for the scalar loop")
	// ErrInvalidCategory reports a category lookup with an unset category.
	ErrInvalidCategory = errors.New("cif: loop category is unset")
	// ErrNotUnique reports a category shared by two or more loops.
	ErrNotUnique = errors.New("cif: category matches more than one loop")
	// ErrAmbiguous reports single-value retrieval of an item whose loop has
	// more than one packet.
	ErrAmbiguous = errors.New("cif: item has more than one packet")
	// ErrWrongLoop reports a packet naming an item outside the loop it is
	// applied to.
	ErrWrongLoop = errors.New("cif: packet names an item outside the loop")
	// ErrEmptyPacket reports a packet with no items where one is required.
	ErrEmptyPacket = errors.New("cif: packet has no items")
	// ErrMisuse reports an iterator operation out of sequence.
	ErrMisuse = errors.New("cif: iterator has no current packet")
	// ErrExhausted signals that an iterator has run out of packets. It is an
	// expected outcome, not a failure, in the manner of io.EOF.
	ErrExhausted = errors.New("cif: no more packets")
	// ErrNotSupported reports a requested capability the model does not
	// implement, such as iterator rollback.
	ErrNotSupported = errors.New("cif: not supported")
	// ErrInvalidHandle reports use of a handle whose underlying structure
	// was destroyed. Detection is best-effort.
	ErrInvalidHandle = errors.New("cif: handle refers to destroyed structure")
)
