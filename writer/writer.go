package writer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/cifkit/fold"
	"github.com/tsawler/cifkit/model"
	"github.com/tsawler/cifkit/text"
	"github.com/tsawler/cifkit/value"
)

var (
	// ErrFrameDepth reports frame nesting beyond the configured maximum.
	ErrFrameDepth = errors.New("cif: frame nesting exceeds the configured maximum")
	// ErrInline reports a value that cannot be represented in an inline
	// context, such as a multi-line string inside a list that collides with
	// both triple-quote delimiters.
	ErrInline = errors.New("cif: value cannot be represented inline")
)

// Options configures serialization.
type Options struct {
	// Fold configures text-block folding and prefixing.
	Fold fold.Options
	// MaxFrameDepth bounds save-frame nesting. Standard CIF allows one
	// level; deeper nesting is an extension the caller opts into.
	MaxFrameDepth int
}

// DefaultOptions returns the defaults: standard folding and single-level
// frames.
func DefaultOptions() Options {
	return Options{Fold: fold.DefaultOptions(), MaxFrameDepth: 1}
}

// Write renders the document as CIF 2.0 text.
func Write(doc *model.Document, opts Options) (string, error) {
	p := &printer{opts: opts}
	p.rawLine("#\\#CIF_2.0")
	for _, blk := range doc.Blocks() {
		code, err := blk.Code()
		if err != nil {
			return "", err
		}
		p.rawLine("data_" + code)
		if err := p.container(blk, 1); err != nil {
			return "", err
		}
	}
	return p.b.String(), nil
}

// printer accumulates output and tracks whether the cursor sits at the start
// of a line, which text blocks require.
type printer struct {
	b       strings.Builder
	midline bool
	opts    Options
}

func (p *printer) newline() {
	if p.midline {
		p.b.WriteByte('\n')
		p.midline = false
	}
}

func (p *printer) rawLine(s string) {
	p.newline()
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *printer) token(s string) {
	if p.midline {
		p.b.WriteByte(' ')
	}
	p.b.WriteString(s)
	p.midline = true
}

// block emits a semicolon-delimited text block with the given encoded body.
func (p *printer) block(body string) {
	p.newline()
	p.b.WriteString(";\n")
	p.b.WriteString(body)
	p.b.WriteString("\n;\n")
}

func (p *printer) container(c model.Container, depth int) error {
	loops, err := c.Loops()
	if err != nil {
		return err
	}
	for _, l := range loops {
		if err := p.loop(l); err != nil {
			return err
		}
	}
	frames, err := c.Frames()
	if err != nil {
		return err
	}
	for _, f := range frames {
		if depth > p.opts.MaxFrameDepth {
			return ErrFrameDepth
		}
		code, err := f.Code()
		if err != nil {
			return err
		}
		p.rawLine("save_" + code)
		if err := p.container(f, depth+1); err != nil {
			return err
		}
		p.rawLine("save_")
	}
	return nil
}

func (p *printer) loop(l model.Loop) error {
	names, err := l.Names()
	if err != nil {
		return err
	}
	count, err := l.PacketCount()
	if err != nil {
		return err
	}
	if count == 0 {
		// A zero-packet loop has no CIF representation; it is a transient
		// state the caller should have pruned.
		return nil
	}
	cat, err := l.Category()
	if err != nil {
		return err
	}

	it, err := l.Iterator()
	if err != nil {
		return err
	}
	defer it.Close()

	if cat.IsScalar() && count == 1 {
		pkt, err := it.Next()
		if err != nil {
			return err
		}
		for _, name := range names {
			v, err := pkt.Get(name)
			if err != nil {
				return err
			}
			p.token(name)
			if err := p.value(v); err != nil {
				return err
			}
			p.newline()
		}
		return nil
	}

	p.rawLine("loop_")
	for _, name := range names {
		p.rawLine(name)
	}
	for {
		pkt, err := it.Next()
		if errors.Is(err, model.ErrExhausted) {
			break
		}
		if err != nil {
			return err
		}
		for _, name := range names {
			v, err := pkt.Get(name)
			if err != nil {
				return err
			}
			if err := p.value(v); err != nil {
				return err
			}
		}
		p.newline()
	}
	return nil
}

// value emits one value in a whitespace-separated context. Multi-line text
// becomes a semicolon-delimited block; everything else is a single token.
func (p *printer) value(v *value.Value) error {
	switch v.Kind() {
	case value.NA:
		p.token(".")
		return nil
	case value.Unknown:
		p.token("?")
		return nil
	case value.Number:
		// Numeric literals are always legal bare tokens; quoting one would
		// turn it into text on re-read.
		t, err := v.Text()
		if err != nil {
			return err
		}
		p.token(t)
		return nil
	case value.Text:
		return p.text(v)
	case value.List, value.Table:
		s, err := p.inline(v)
		if err != nil {
			return err
		}
		p.token(s)
		return nil
	default:
		return fmt.Errorf("cif: unwritable value kind %v", v.Kind())
	}
}

func (p *printer) text(v *value.Value) error {
	s, err := v.Text()
	if err != nil {
		return err
	}
	a := text.Analyze(s)
	delim := a.Delim
	if delim == text.Bare {
		q, _ := v.Quoted()
		if q || readsAsNumber(s) {
			delim = quoteDelim(s)
		}
	}
	if delim != text.Block {
		tok := delim.Marker() + s + delim.Marker()
		// A token longer than the line width has no legal single-line
		// rendering; a text block lets the fold codec lay it out.
		if w := p.opts.Fold.Width; w > 0 && utf8.RuneCountInString(tok) > w {
			delim = text.Block
		} else {
			p.token(tok)
			return nil
		}
	}
	p.block(fold.Encode(s, p.opts.Fold))
	return nil
}

// inline renders a value for contexts where a text block is impossible:
// list elements, table entries, and table keys.
func (p *printer) inline(v *value.Value) (string, error) {
	switch v.Kind() {
	case value.NA:
		return ".", nil
	case value.Unknown:
		return "?", nil
	case value.Number:
		return v.Text()
	case value.Text:
		s, err := v.Text()
		if err != nil {
			return "", err
		}
		return inlineText(s, readsAsNumber(s))
	case value.List:
		n, err := v.Len()
		if err != nil {
			return "", err
		}
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			e, err := v.ListGet(i)
			if err != nil {
				return "", err
			}
			if parts[i], err = p.inline(e); err != nil {
				return "", err
			}
		}
		return "[" + strings.Join(parts, " ") + "]", nil
	case value.Table:
		keys, err := v.TableKeys()
		if err != nil {
			return "", err
		}
		parts := make([]string, len(keys))
		for i, k := range keys {
			e, err := v.TableGet(k)
			if err != nil {
				return "", err
			}
			ks, err := inlineText(k, true)
			if err != nil {
				return "", err
			}
			vs, err := p.inline(e)
			if err != nil {
				return "", err
			}
			parts[i] = ks + ":" + vs
		}
		return "{" + strings.Join(parts, " ") + "}", nil
	default:
		return "", fmt.Errorf("cif: unwritable value kind %v", v.Kind())
	}
}

// quoteDelim picks the smallest quoting delimiter able to hold a string the
// classifier would otherwise leave bare. Bare strings never contain line
// terminators, so the result is a quote form, or Block only when the string
// collides with both triple delimiters.
func quoteDelim(s string) text.Delim {
	switch {
	case !strings.Contains(s, "'"):
		return text.Apostrophe
	case !strings.Contains(s, `"`):
		return text.Quote
	case !strings.Contains(s, "'''") && !strings.HasSuffix(s, "'"):
		return text.TripleApostrophe
	case !strings.Contains(s, `"""`) && !strings.HasSuffix(s, `"`):
		return text.TripleQuote
	default:
		return text.Block
	}
}

// readsAsNumber reports whether a bare rendering of s would parse back as a
// numeric literal instead of text.
func readsAsNumber(s string) bool {
	_, err := value.Parse(s)
	return err == nil
}

// inlineText quotes a string for an inline context. Table keys are always
// quoted; other strings stay bare when the classifier allows it.
func inlineText(s string, forceQuote bool) (string, error) {
	a := text.Analyze(s)
	delim := a.Delim
	if delim == text.Bare && forceQuote {
		delim = quoteDelim(s)
	}
	if delim == text.Block {
		// No text blocks inside brackets; try the triple forms directly.
		switch {
		case !strings.Contains(s, "'''") && !strings.HasSuffix(s, "'"):
			delim = text.TripleApostrophe
		case !strings.Contains(s, `"""`) && !strings.HasSuffix(s, `"`):
			delim = text.TripleQuote
		default:
			return "", fmt.Errorf("%w: %.20q", ErrInline, s)
		}
	}
	return delim.Marker() + s + delim.Marker(), nil
}
