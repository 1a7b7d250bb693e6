package reader

import (
	"github.com/tsawler/cifkit/fold"
	"github.com/tsawler/cifkit/model"
	"github.com/tsawler/cifkit/value"
)

// Parse builds a document from decoded CIF text. It stops at the first
// error; the partially-built document is discarded.
func Parse(src string) (*model.Document, error) {
	p := &parser{lex: newLexer(src), doc: model.NewDocument()}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// parser consumes the token stream and drives the model mutation API.
type parser struct {
	lex    *lexer
	doc    *model.Document
	tok    token
	peeked bool
}

func (p *parser) next() (token, error) {
	if p.peeked {
		p.peeked = false
		return p.tok, nil
	}
	return p.lex.next()
}

func (p *parser) peek() (token, error) {
	if !p.peeked {
		t, err := p.lex.next()
		if err != nil {
			return token{}, err
		}
		p.tok = t
		p.peeked = true
	}
	return p.tok, nil
}

func (p *parser) run() error {
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		switch t.typ {
		case tokEOF:
			return nil
		case tokData:
			block, err := p.doc.CreateBlock(t.text)
			if err != nil {
				return err
			}
			if err := p.container(block, false); err != nil {
				return err
			}
		default:
			return p.lex.errorf("expected a data block header")
		}
	}
}

// container parses the items, loops, and frames of one container. For a
// frame it consumes the save_ terminator; for a block it stops at the next
// block header or end of input.
func (p *parser) container(c model.Container, frame bool) error {
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		switch t.typ {
		case tokEOF, tokData:
			if frame {
				return p.lex.errorf("unterminated save frame")
			}
			return nil
		case tokSaveEnd:
			if !frame {
				return p.lex.errorf("save_ terminator outside a save frame")
			}
			p.peeked = false
			return nil
		case tokSave:
			p.peeked = false
			f, err := c.CreateFrame(t.text)
			if err != nil {
				return err
			}
			if err := p.container(f, true); err != nil {
				return err
			}
		case tokLoop:
			p.peeked = false
			if err := p.loop(c); err != nil {
				return err
			}
		case tokTag:
			p.peeked = false
			// SetValue would silently overwrite a repeated data name.
			if _, err := c.ItemLoop(t.text); err == nil {
				return p.lex.errorf("duplicate item name %q", t.text)
			}
			v, err := p.value()
			if err != nil {
				return err
			}
			if err := c.SetValue(t.text, v); err != nil {
				return err
			}
		default:
			return p.lex.errorf("value without a preceding item name")
		}
	}
}

// loop parses a loop_ construct: one or more tags, then a whitespace-
// separated stream of values whose count must be a multiple of the tag
// count.
func (p *parser) loop(c model.Container) error {
	var names []string
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.typ != tokTag {
			break
		}
		p.peeked = false
		names = append(names, t.text)
	}
	if len(names) == 0 {
		return p.lex.errorf("loop_ without item names")
	}
	l, err := c.CreateLoop(model.NoCategory, names)
	if err != nil {
		return err
	}

	row := model.NewPacket()
	col := 0
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		if !startsValue(t.typ) {
			break
		}
		v, err := p.value()
		if err != nil {
			return err
		}
		if err := row.Set(names[col], v); err != nil {
			return err
		}
		col++
		if col == len(names) {
			if err := l.AddPacket(row); err != nil {
				return err
			}
			row = model.NewPacket()
			col = 0
		}
	}
	if col != 0 {
		return p.lex.errorf("loop body ends mid-packet (%d of %d values)", col, len(names))
	}
	count, err := l.PacketCount()
	if err != nil {
		return err
	}
	if count == 0 {
		return p.lex.errorf("loop_ construct with no packets")
	}
	return nil
}

func startsValue(t tokenType) bool {
	switch t {
	case tokValue, tokListOpen, tokTableOpen:
		return true
	default:
		return false
	}
}

// value parses one value: a scalar token, a bracketed list, or a braced
// table.
func (p *parser) value() (*value.Value, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch t.typ {
	case tokValue:
		return p.scalar(t)
	case tokListOpen:
		return p.list()
	case tokTableOpen:
		return p.table()
	default:
		return nil, p.lex.errorf("expected a value")
	}
}

// scalar converts one value token. Bare tokens are tried as the reserved
// placeholders, then as a numeric literal, then fall back to text; quoting
// suppresses all three readings.
func (p *parser) scalar(t token) (*value.Value, error) {
	if t.block {
		v := value.New(value.Text)
		v.SetText(fold.Decode(t.text))
		return v, nil
	}
	if t.quoted {
		v := value.New(value.Text)
		v.SetText(t.text)
		_ = v.SetQuoted(true)
		return v, nil
	}
	switch t.text {
	case ".":
		return value.New(value.NA), nil
	case "?":
		return value.New(value.Unknown), nil
	}
	if n, err := value.Parse(t.text); err == nil {
		return n, nil
	}
	v := value.New(value.Text)
	v.SetText(t.text)
	return v, nil
}

func (p *parser) list() (*value.Value, error) {
	v := value.New(value.List)
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.typ == tokListClose {
			p.peeked = false
			return v, nil
		}
		if !startsValue(t.typ) {
			return nil, p.lex.errorf("expected a list element or ']'")
		}
		e, err := p.value()
		if err != nil {
			return nil, err
		}
		if err := v.ListAppend(e); err != nil {
			return nil, err
		}
	}
}

func (p *parser) table() (*value.Value, error) {
	v := value.New(value.Table)
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t.typ {
		case tokTableClose:
			return v, nil
		case tokKey:
			e, err := p.value()
			if err != nil {
				return nil, err
			}
			if err := v.TableSet(t.text, e); err != nil {
				return nil, err
			}
		default:
			return nil, p.lex.errorf("expected a quoted table key or '}'")
		}
	}
}
