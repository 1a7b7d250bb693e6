package reader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax reports malformed CIF text. The wrapped message carries the line
// and column of the offending input.
var ErrSyntax = errors.New("cif: syntax error")

// tokenType represents the type of token
type tokenType int

const (
	tokEOF     tokenType = iota
	tokData              // data_<code> header
	tokSave              // save_<code> header
	tokSaveEnd           // bare save_ terminator
	tokLoop              // loop_ keyword
	tokTag               // _item.name
	tokValue             // bare, quoted, or text-block value
	tokKey               // quoted string immediately followed by ':' (table key)
	tokListOpen
	tokListClose
	tokTableOpen
	tokTableClose
)

// token represents one lexical token.
type token struct {
	typ    tokenType
	text   string // decoded content (code for headers, body for values)
	quoted bool   // value was quote-delimited
	block  bool   // value was a text block (body still fold-encoded)
	line   int
	col    int
}

// lexer performs lexical analysis of decoded CIF text.
type lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1}
}

func (l *lexer) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s at line %d, column %d", ErrSyntax, msg, l.line, l.col)
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return -1
	}
	return l.src[l.pos]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func isWS(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

// skipSpace consumes whitespace and comments.
func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r := l.peek()
		if isWS(r) {
			l.advance()
			continue
		}
		if r == '#' {
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		return
	}
}

// next returns the next token from the input.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{typ: tokEOF, line: l.line, col: l.col}, nil
	}
	start := token{line: l.line, col: l.col}
	switch r := l.peek(); r {
	case ';':
		if l.col == 0 {
			return l.readBlock(start)
		}
		return l.readBare(start)
	case '\'', '"':
		return l.readQuoted(start)
	case '[':
		l.advance()
		start.typ = tokListOpen
		return start, nil
	case ']':
		l.advance()
		start.typ = tokListClose
		return start, nil
	case '{':
		l.advance()
		start.typ = tokTableOpen
		return start, nil
	case '}':
		l.advance()
		start.typ = tokTableClose
		return start, nil
	default:
		return l.readBare(start)
	}
}

// readBlock consumes a semicolon-delimited text block opened at the start of
// a line. The body runs to the next line that begins with a semicolon.
func (l *lexer) readBlock(t token) (token, error) {
	l.advance() // opening ';'
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return t, l.errorf("unterminated text block")
		}
		r := l.advance()
		if r == ';' && l.col == 1 && endsWithNewline(&b) {
			body := b.String()
			body = strings.TrimSuffix(body, "\n") // the terminator's newline
			body = strings.TrimPrefix(body, "\n") // the writer's opening newline
			t.typ = tokValue
			t.block = true
			t.text = body
			return t, nil
		}
		b.WriteRune(r)
	}
}

func endsWithNewline(b *strings.Builder) bool {
	s := b.String()
	return len(s) > 0 && s[len(s)-1] == '\n'
}

// readQuoted consumes a single- or triple-quoted string. Triple-quoted
// strings may span lines; single-quoted strings may not. A quoted string
// immediately followed by a colon is a table key.
func (l *lexer) readQuoted(t token) (token, error) {
	q := l.advance()
	triple := false
	if l.pos+1 < len(l.src) && l.src[l.pos] == q && l.src[l.pos+1] == q {
		l.advance()
		l.advance()
		triple = true
	}
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return t, l.errorf("unterminated quoted string")
		}
		r := l.peek()
		if !triple && (r == '\n' || r == '\r') {
			return t, l.errorf("newline in quoted string")
		}
		l.advance()
		if r != q {
			b.WriteRune(r)
			continue
		}
		if !triple {
			break
		}
		if l.pos+1 < len(l.src) && l.src[l.pos] == q && l.src[l.pos+1] == q {
			l.advance()
			l.advance()
			break
		}
		b.WriteRune(r)
	}
	t.typ = tokValue
	t.quoted = true
	t.text = b.String()
	if l.peek() == ':' {
		l.advance()
		t.typ = tokKey
	}
	return t, nil
}

// readBare consumes a whitespace-delimited token and classifies it as a
// keyword, tag, or bare value.
func (l *lexer) readBare(t token) (token, error) {
	var b strings.Builder
	for l.pos < len(l.src) {
		r := l.peek()
		if isWS(r) || r == '[' || r == ']' || r == '{' || r == '}' {
			break
		}
		b.WriteRune(l.advance())
	}
	word := b.String()
	lower := strings.ToLower(word)
	switch {
	case strings.HasPrefix(lower, "data_"):
		if len(word) == len("data_") {
			return t, l.errorf("data block header needs a code")
		}
		t.typ = tokData
		t.text = word[len("data_"):]
	case strings.HasPrefix(lower, "save_"):
		if len(word) == len("save_") {
			t.typ = tokSaveEnd
		} else {
			t.typ = tokSave
			t.text = word[len("save_"):]
		}
	case lower == "loop_":
		t.typ = tokLoop
	case lower == "global_" || lower == "stop_":
		return t, l.errorf("unsupported keyword %q", word)
	case strings.HasPrefix(word, "_"):
		t.typ = tokTag
		t.text = word
	default:
		t.typ = tokValue
		t.text = word
	}
	return t, nil
}
