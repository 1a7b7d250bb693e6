package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsawler/cifkit/value"
)

func textValue(s string) *value.Value {
	v := value.New(value.Text)
	v.SetText(s)
	return v
}

// ============================================================================
// Blocks & frames
// ============================================================================

func TestCreateBlock(t *testing.T) {
	doc := NewDocument()
	blk, err := doc.CreateBlock("Example")
	require.NoError(t, err)

	code, err := blk.Code()
	require.NoError(t, err)
	require.Equal(t, "Example", code, "original spelling is preserved")

	isBlock, err := blk.IsBlock()
	require.NoError(t, err)
	require.True(t, isBlock)
}

func TestBlockIdentityIsNormalized(t *testing.T) {
	doc := NewDocument()
	_, err := doc.CreateBlock("Café") // composed é
	require.NoError(t, err)

	// Same identifier: different case, decomposed form.
	_, err = doc.CreateBlock("CAFÉ")
	require.ErrorIs(t, err, ErrDuplicateCode)

	got, err := doc.Block("café")
	require.NoError(t, err)
	code, err := got.Code()
	require.NoError(t, err)
	require.Equal(t, "Café", code)
}

func TestCreateBlockInvalidCode(t *testing.T) {
	doc := NewDocument()
	for _, code := range []string{"", "two words", "a\nb"} {
		_, err := doc.CreateBlock(code)
		require.ErrorIs(t, err, ErrInvalidCode, "code %q", code)
	}
}

func TestBlockOrder(t *testing.T) {
	doc := NewDocument()
	for _, code := range []string{"c", "a", "b"} {
		_, err := doc.CreateBlock(code)
		require.NoError(t, err)
	}
	var got []string
	for _, b := range doc.Blocks() {
		code, err := b.Code()
		require.NoError(t, err)
		got = append(got, code)
	}
	require.Equal(t, []string{"c", "a", "b"}, got, "insertion order is preserved")
}

func TestFramesNest(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	f1, err := blk.CreateFrame("outer")
	require.NoError(t, err)
	f2, err := f1.CreateFrame("inner")
	require.NoError(t, err)

	isBlock, err := f2.IsBlock()
	require.NoError(t, err)
	require.False(t, isBlock)

	// Frame codes are scoped to their parent: reusing "outer" inside f1 is
	// fine, reusing it inside blk is not.
	_, err = f1.CreateFrame("outer")
	require.NoError(t, err)
	_, err = blk.CreateFrame("OUTER")
	require.ErrorIs(t, err, ErrDuplicateCode)

	_, err = blk.Frame("nowhere")
	require.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// Loops
// ============================================================================

func TestCreateLoop(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")

	l, err := blk.CreateLoop(NewCategory("atoms"), []string{"_x", "_y"})
	require.NoError(t, err)
	names, err := l.Names()
	require.NoError(t, err)
	require.Equal(t, []string{"_x", "_y"}, names)
	count, err := l.PacketCount()
	require.NoError(t, err)
	require.Zero(t, count, "new loops start with zero packets")
}

func TestCreateLoopErrors(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	_, err := blk.CreateLoop(NoCategory, nil)
	require.ErrorIs(t, err, ErrEmptyNames)

	_, err = blk.CreateLoop(NoCategory, []string{"no_underscore"})
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = blk.CreateLoop(NoCategory, []string{"_a", "_A"})
	require.ErrorIs(t, err, ErrDuplicateName, "duplicate within the list, by normalized form")

	_, err = blk.CreateLoop(NoCategory, []string{"_a"})
	require.NoError(t, err)
	_, err = blk.CreateLoop(NewCategory("other"), []string{"_a"})
	require.ErrorIs(t, err, ErrDuplicateName, "items are unique per container, not per loop")
}

func TestScalarCategoryReserved(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	_, err := blk.CreateLoop(Scalar, []string{"_a"})
	require.NoError(t, err)
	_, err = blk.CreateLoop(Scalar, []string{"_b"})
	require.ErrorIs(t, err, ErrReservedCategory)
}

func TestCategoryLoop(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	_, err := blk.CreateLoop(NewCategory("atoms"), []string{"_a"})
	require.NoError(t, err)
	_, err = blk.CreateLoop(NewCategory("bonds"), []string{"_b"})
	require.NoError(t, err)
	_, err = blk.CreateLoop(NewCategory("bonds"), []string{"_c"})
	require.NoError(t, err)

	l, err := blk.CategoryLoop(NewCategory("atoms"))
	require.NoError(t, err)
	names, _ := l.Names()
	require.Equal(t, []string{"_a"}, names)

	_, err = blk.CategoryLoop(NewCategory("bonds"))
	require.ErrorIs(t, err, ErrNotUnique)
	_, err = blk.CategoryLoop(NewCategory("absent"))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = blk.CategoryLoop(NoCategory)
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestItemLoopFindsZeroPacketItems(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	_, err := blk.CreateLoop(NewCategory("c"), []string{"_a"})
	require.NoError(t, err)

	// Loop location succeeds even with zero packets...
	_, err = blk.ItemLoop("_A")
	require.NoError(t, err)
	// ...but value retrieval treats the item as absent.
	_, err = blk.Value("_a")
	require.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// SetValue / RemoveItem / Prune
// ============================================================================

func TestSetValueCreatesScalarLoop(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	require.NoError(t, blk.SetValue("_title", textValue("hello")))

	l, err := blk.ItemLoop("_title")
	require.NoError(t, err)
	cat, err := l.Category()
	require.NoError(t, err)
	require.True(t, cat.IsScalar())

	v, err := blk.Value("_title")
	require.NoError(t, err)
	s, err := v.Text()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	// A second scalar item joins the same loop.
	require.NoError(t, blk.SetValue("_subtitle", textValue("world")))
	l2, err := blk.ItemLoop("_subtitle")
	require.NoError(t, err)
	names, err := l2.Names()
	require.NoError(t, err)
	require.Equal(t, []string{"_title", "_subtitle"}, names)
}

func TestSetValueBroadcasts(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	l, _ := blk.CreateLoop(NewCategory("c"), []string{"_a", "_b"})
	for i := 0; i < 3; i++ {
		p := NewPacket()
		require.NoError(t, p.Set("_a", textValue("row")))
		require.NoError(t, p.Set("_b", textValue("row")))
		require.NoError(t, l.AddPacket(p))
	}

	require.NoError(t, blk.SetValue("_a", textValue("same")))

	it, err := l.Iterator()
	require.NoError(t, err)
	defer it.Close()
	for i := 0; i < 3; i++ {
		p, err := it.Next()
		require.NoError(t, err)
		v, err := p.Get("_a")
		require.NoError(t, err)
		s, _ := v.Text()
		require.Equal(t, "same", s, "broadcast reaches every packet")
	}
}

func TestSetValueCopies(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	v := textValue("before")
	require.NoError(t, blk.SetValue("_x", v))
	v.SetText("after")

	got, err := blk.Value("_x")
	require.NoError(t, err)
	s, _ := got.Text()
	require.Equal(t, "before", s)
}

func TestRemoveItemDestroysEmptiedLoop(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	l, err := blk.CreateLoop(NewCategory("cat"), []string{"_a", "_b"})
	require.NoError(t, err)
	p := NewPacket()
	require.NoError(t, p.Set("_a", textValue("1")))
	require.NoError(t, p.Set("_b", textValue("2")))
	require.NoError(t, l.AddPacket(p))

	require.NoError(t, blk.RemoveItem("_a"))
	require.NoError(t, blk.RemoveItem("_b"))

	_, err = blk.CategoryLoop(NewCategory("cat"))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = l.PacketCount()
	require.ErrorIs(t, err, ErrInvalidHandle, "handles to the destroyed loop are invalid")
}

func TestPrune(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	empty, err := blk.CreateLoop(NewCategory("empty"), []string{"_e"})
	require.NoError(t, err)
	full, err := blk.CreateLoop(NewCategory("full"), []string{"_f"})
	require.NoError(t, err)
	p := NewPacket()
	require.NoError(t, p.Set("_f", textValue("x")))
	require.NoError(t, full.AddPacket(p))

	require.NoError(t, blk.Prune())
	_, err = blk.CategoryLoop(NewCategory("empty"))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = blk.CategoryLoop(NewCategory("full"))
	require.NoError(t, err)
	_, err = empty.Names()
	require.ErrorIs(t, err, ErrInvalidHandle)
	_, err = blk.ItemLoop("_e")
	require.ErrorIs(t, err, ErrNotFound)

	// Idempotent.
	require.NoError(t, blk.Prune())
}

// ============================================================================
// Destruction & handle validity
// ============================================================================

func TestDestroyCascades(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	frame, _ := blk.CreateFrame("f")
	loop, _ := frame.CreateLoop(NewCategory("c"), []string{"_a"})

	alias, err := doc.Block("b")
	require.NoError(t, err)

	require.NoError(t, blk.Destroy())

	_, err = alias.Code()
	require.ErrorIs(t, err, ErrInvalidHandle, "aliases of the destroyed block are invalid")
	_, err = frame.Code()
	require.ErrorIs(t, err, ErrInvalidHandle, "nested frames are invalidated")
	_, err = loop.Names()
	require.ErrorIs(t, err, ErrInvalidHandle, "nested loops are invalidated")
	require.Zero(t, doc.BlockCount())

	// The code is free for reuse.
	_, err = doc.CreateBlock("b")
	require.NoError(t, err)
}

func TestLoopDestroyFreesItems(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	l, _ := blk.CreateLoop(NewCategory("c"), []string{"_a"})
	require.NoError(t, l.Destroy())
	_, err := blk.ItemLoop("_a")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, l.Destroy(), ErrInvalidHandle)
}

// ============================================================================
// AddPacket / AddItem
// ============================================================================

func TestAddPacketValidation(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	l, _ := blk.CreateLoop(NewCategory("c"), []string{"_a", "_b"})

	require.ErrorIs(t, l.AddPacket(NewPacket()), ErrEmptyPacket)

	stray := NewPacket()
	require.NoError(t, stray.Set("_other", textValue("x")))
	require.ErrorIs(t, l.AddPacket(stray), ErrWrongLoop)

	partial := NewPacket()
	require.NoError(t, partial.Set("_a", textValue("1")))
	require.NoError(t, l.AddPacket(partial))

	it, _ := l.Iterator()
	defer it.Close()
	p, err := it.Next()
	require.NoError(t, err)
	v, err := p.Get("_b")
	require.NoError(t, err)
	require.Equal(t, value.Unknown, v.Kind(), "missing items default to Unknown")
}

func TestAddItemBackfills(t *testing.T) {
	doc := NewDocument()
	blk, _ := doc.CreateBlock("b")
	l, _ := blk.CreateLoop(NewCategory("c"), []string{"_a"})
	p := NewPacket()
	require.NoError(t, p.Set("_a", textValue("1")))
	require.NoError(t, l.AddPacket(p))

	require.NoError(t, l.AddItem("_b", textValue("filled")))
	require.ErrorIs(t, l.AddItem("_a", nil), ErrDuplicateName)

	it, _ := l.Iterator()
	defer it.Close()
	row, err := it.Next()
	require.NoError(t, err)
	v, err := row.Get("_b")
	require.NoError(t, err)
	s, _ := v.Text()
	require.Equal(t, "filled", s)
}
