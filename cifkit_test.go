package cifkit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsawler/cifkit"
	"github.com/tsawler/cifkit/model"
	"github.com/tsawler/cifkit/value"
)

func textValue(s string) *value.Value {
	v := value.New(value.Text)
	v.SetText(s)
	return v
}

// buildRichDocument exercises every value kind and container construct in one
// document.
func buildRichDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := cifkit.NewDocument()

	blk := cifkit.Must(doc.CreateBlock("crystal"))
	require.NoError(t, blk.SetValue("_title", textValue("A Test Structure")))
	require.NoError(t, blk.SetValue("_cell.length_a", cifkit.Must(value.AutoNumber(5.417, 0.002, 19))))
	require.NoError(t, blk.SetValue("_status", value.New(value.Unknown)))
	require.NoError(t, blk.SetValue("_retired", value.New(value.NA)))
	require.NoError(t, blk.SetValue("_story", textValue("First paragraph line.\nSecond line with ; semicolon mid-text.")))

	lst := value.New(value.List)
	require.NoError(t, lst.ListAppend(cifkit.Must(value.Parse("1.5(2)"))))
	require.NoError(t, lst.ListAppend(textValue("plain")))
	require.NoError(t, blk.SetValue("_axes", lst))

	tbl := value.New(value.Table)
	require.NoError(t, tbl.TableSet("Alpha", cifkit.Must(value.Parse("90"))))
	require.NoError(t, tbl.TableSet("beta", textValue("oblique angle")))
	require.NoError(t, blk.SetValue("_angles", tbl))

	atoms := cifkit.Must(blk.CreateLoop(model.NewCategory("atoms"), []string{"_atom.el", "_atom.x"}))
	for _, row := range [][2]string{{"C", "0.125"}, {"N", "0.250"}, {"O", "0.500"}} {
		p := model.NewPacket()
		require.NoError(t, p.Set("_atom.el", textValue(row[0])))
		require.NoError(t, p.Set("_atom.x", cifkit.Must(value.Parse(row[1]))))
		require.NoError(t, atoms.AddPacket(p))
	}

	frame := cifkit.Must(blk.CreateFrame("refinement"))
	require.NoError(t, frame.SetValue("_cycles", cifkit.Must(value.Parse("12"))))

	second := cifkit.Must(doc.CreateBlock("reference"))
	require.NoError(t, second.SetValue("_doi", textValue("10.1000/example")))

	return doc
}

// requireSameValue compares two values the way the round-trip contract
// defines equivalence: kind, payload, and for numbers the verbatim text.
func requireSameValue(t *testing.T, want, got *value.Value, label string) {
	t.Helper()
	require.Equal(t, want.Kind(), got.Kind(), "%s: kind", label)
	require.True(t, value.Equal(want, got), "%s: values differ", label)
}

func TestRoundTrip(t *testing.T) {
	doc := buildRichDocument(t)

	out, err := cifkit.Write(doc, cifkit.DefaultWriteOptions())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "#\\#CIF_2.0\n"))

	back, err := cifkit.Parse(out)
	require.NoError(t, err)
	require.Equal(t, doc.BlockCount(), back.BlockCount())

	blk := cifkit.Must(back.Block("crystal"))
	for _, name := range []string{
		"_title", "_cell.length_a", "_status", "_retired",
		"_story", "_axes", "_angles",
	} {
		want, err := cifkit.Must(doc.Block("crystal")).Value(name)
		require.NoError(t, err)
		got, err := blk.Value(name)
		require.NoError(t, err, "item %s lost in round trip", name)
		requireSameValue(t, want, got, name)
	}

	// Number text survives verbatim.
	a, err := blk.Value("_cell.length_a")
	require.NoError(t, err)
	s, err := a.Text()
	require.NoError(t, err)
	require.Equal(t, "5.417(2)", s)

	// Loop shape and contents.
	l, err := blk.ItemLoop("_atom.el")
	require.NoError(t, err)
	names := cifkit.Must(l.Names())
	require.Equal(t, []string{"_atom.el", "_atom.x"}, names)
	require.Equal(t, 3, cifkit.Must(l.PacketCount()))

	// Frames.
	f, err := blk.Frame("refinement")
	require.NoError(t, err)
	cycles, err := f.Value("_cycles")
	require.NoError(t, err)
	require.Equal(t, value.Number, cycles.Kind())

	// Second block.
	ref, err := back.Block("reference")
	require.NoError(t, err)
	doi, err := ref.Value("_doi")
	require.NoError(t, err)
	ds, _ := doi.Text()
	require.Equal(t, "10.1000/example", ds)
}

func TestRoundTripIsStable(t *testing.T) {
	doc := buildRichDocument(t)
	first, err := cifkit.Write(doc, cifkit.DefaultWriteOptions())
	require.NoError(t, err)

	back, err := cifkit.Parse(first)
	require.NoError(t, err)
	second, err := cifkit.Write(back, cifkit.DefaultWriteOptions())
	require.NoError(t, err)

	require.Equal(t, first, second, "write/parse/write must be a fixed point")
}

func TestRoundTripAwkwardText(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"question mark", "?"},
		{"period", "."},
		{"reserved stem", "loop_the_loop"},
		{"leading underscore", "_looks_like_a_tag"},
		{"brackets", "a[i]{j}"},
		{"multi-line", "one\ntwo\nthree"},
		{"leading semicolon line", "text\n;starts the line"},
		{"long line", strings.Repeat("pneumonoultramicroscopic ", 8)},
		{"number lookalike", "42(1)"},
		{"mixed quotes", `both ' and " inside`},
		{"unicode", "βρωμος Brønsted Å"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := cifkit.NewDocument()
			blk := cifkit.Must(doc.CreateBlock("d"))
			require.NoError(t, blk.SetValue("_s", textValue(tt.in)))

			out, err := cifkit.Write(doc, cifkit.DefaultWriteOptions())
			require.NoError(t, err)
			back, err := cifkit.Parse(out)
			require.NoError(t, err)

			got, err := cifkit.Must(back.Block("d")).Value("_s")
			require.NoError(t, err)
			require.Equal(t, value.Text, got.Kind(), "output was:\n%s", out)
			gs, err := got.Text()
			require.NoError(t, err)
			require.Equal(t, tt.in, gs, "output was:\n%s", out)
		})
	}
}

func TestMustPanics(t *testing.T) {
	require.Panics(t, func() {
		cifkit.Must(cifkit.Parse("not cif at all _"))
	})
	doc := cifkit.NewDocument()
	require.NotPanics(t, func() {
		cifkit.Must(doc.CreateBlock("fine"))
	})
}

func TestWriteOptionsFluent(t *testing.T) {
	doc := cifkit.NewDocument()
	blk := cifkit.Must(doc.CreateBlock("d"))
	require.NoError(t, blk.SetValue("_note", textValue(strings.Repeat("word ", 40))))

	out, err := cifkit.Write(doc, cifkit.DefaultWriteOptions().LineWidth(40))
	require.NoError(t, err)
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), 40, "line %q", line)
	}
}
