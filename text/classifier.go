package text

import "strings"

// Delim identifies a CIF value delimiting strategy.
type Delim int

const (
	// Bare needs no delimiter.
	Bare Delim = iota
	// Apostrophe is a single-quoted string: 'like this'.
	Apostrophe
	// Quote is a double-quoted string: "like this".
	Quote
	// TripleApostrophe is a triple-single-quoted string: '''like this'''.
	TripleApostrophe
	// TripleQuote is a triple-double-quoted string: """like this""".
	TripleQuote
	// Block is a semicolon-delimited text block.
	Block
)

// String returns the string representation of the delimiter.
func (d Delim) String() string {
	switch d {
	case Bare:
		return "bare"
	case Apostrophe:
		return "apostrophe"
	case Quote:
		return "quote"
	case TripleApostrophe:
		return "triple-apostrophe"
	case TripleQuote:
		return "triple-quote"
	case Block:
		return "text-block"
	default:
		return "unknown"
	}
}

// Marker returns the opening delimiter characters.
func (d Delim) Marker() string {
	switch d {
	case Apostrophe:
		return "'"
	case Quote:
		return `"`
	case TripleApostrophe:
		return "'''"
	case TripleQuote:
		return `"""`
	default:
		return ""
	}
}

// Analysis is the result of classifying one string.
type Analysis struct {
	// Delim is the minimal legal delimiting strategy.
	Delim Delim
	// DelimLen is the delimiter's length in characters: 0 for bare, 1 for
	// single quotes, 3 for triple quotes, and 2 for a text block (the
	// collapsed form a triple quote falls back to).
	DelimLen int
	// Length is the total length in code points.
	Length int
	// Lines is the number of lines (1 for any string without a terminator).
	Lines int
	// FirstLine, LastLine, and MaxLine are per-line lengths in code points.
	FirstLine int
	LastLine  int
	MaxLine   int
	// LeadSemicolons is the longest run of consecutive semicolons opening
	// any line of the string.
	LeadSemicolons int
	// ReservedStem reports a leading data_/save_/loop_/stop_/global_ stem,
	// matched case-insensitively.
	ReservedStem bool
	// TrailingSpace reports inline whitespace at the end of any line.
	TrailingSpace bool
}

// reservedStems are the keyword stems that force quoting when a value starts
// with one of them.
var reservedStems = []string{"data_", "save_", "loop_", "stop_", "global_"}

// bareLeadDisallowed are the characters that may not open a bare value.
const bareLeadDisallowed = `'";$[]{}#_`

// reservedChars may not appear anywhere in a bare value.
const reservedChars = "[]{}"

// Analyze classifies s in a single pass. The rules are those of CIF syntax:
// a string containing a line terminator or starting with a semicolon needs a
// text block; a string that is empty, starts with a reserved stem or a
// disallowed leading character, contains whitespace or a bracket, or is one
// of the reserved single-character tokens "?" and "." needs quoting; a
// string holding both quote characters against its own boundary may need a
// text block even without a line break.
func Analyze(s string) Analysis {
	a := Analysis{Lines: 1, FirstLine: -1}

	var (
		lineLen   int
		atStart   = true // at start of a line
		semiRun   = 0    // current leading-semicolon run
		inSemis   = false
		lastRune  rune
		haveRune  bool
		hasWS     bool
		hasResv   bool // a character from reservedChars
		hasApos   bool
		hasQuote  bool
		aposRun   = 0
		quoteRun  = 0
		hasTriApo bool
		hasTriQuo bool
		skipLF    bool // swallow the \n of a \r\n pair
	)

	endLine := func() {
		if a.FirstLine < 0 {
			a.FirstLine = lineLen
		}
		if lineLen > a.MaxLine {
			a.MaxLine = lineLen
		}
		if haveRune && (lastRune == ' ' || lastRune == '\t') {
			a.TrailingSpace = true
		}
		a.LastLine = lineLen
		lineLen = 0
		atStart = true
		inSemis = false
		semiRun = 0
	}

	for _, r := range s {
		if skipLF && r == '\n' {
			skipLF = false
			continue
		}
		skipLF = false
		a.Length++
		if r == '\n' || r == '\r' {
			skipLF = r == '\r'
			endLine()
			a.Lines++
			haveRune = false
			continue
		}
		if atStart {
			inSemis = r == ';'
			atStart = false
		}
		if inSemis {
			if r == ';' {
				semiRun++
				if semiRun > a.LeadSemicolons {
					a.LeadSemicolons = semiRun
				}
			} else {
				inSemis = false
			}
		}
		switch r {
		case ' ', '\t':
			hasWS = true
		case '\'':
			hasApos = true
			aposRun++
			if aposRun >= 3 {
				hasTriApo = true
			}
		case '"':
			hasQuote = true
			quoteRun++
			if quoteRun >= 3 {
				hasTriQuo = true
			}
		}
		if r != '\'' {
			aposRun = 0
		}
		if r != '"' {
			quoteRun = 0
		}
		if strings.ContainsRune(reservedChars, r) {
			hasResv = true
		}
		lineLen++
		lastRune = r
		haveRune = true
	}
	endLine()

	for _, stem := range reservedStems {
		if len(s) >= len(stem) && strings.EqualFold(s[:len(stem)], stem) {
			a.ReservedStem = true
			hasResv = true
			break
		}
	}

	needsBlock := a.Lines > 1 || strings.HasPrefix(s, ";")
	needsQuote := s == "" || s == "?" || s == "." ||
		hasWS || hasResv ||
		(len(s) > 0 && strings.ContainsRune(bareLeadDisallowed, rune(s[0])))

	switch {
	case needsBlock:
		a.Delim, a.DelimLen = Block, 2
	case !needsQuote:
		a.Delim, a.DelimLen = Bare, 0
	case !hasApos:
		a.Delim, a.DelimLen = Apostrophe, 1
	case !hasQuote:
		a.Delim, a.DelimLen = Quote, 1
	case !hasTriApo && !strings.HasSuffix(s, "'"):
		a.Delim, a.DelimLen = TripleApostrophe, 3
	case !hasTriQuo && !strings.HasSuffix(s, `"`):
		a.Delim, a.DelimLen = TripleQuote, 3
	default:
		// Both quote characters collide with their own boundary: fall back
		// to a text block even without a line break.
		a.Delim, a.DelimLen = Block, 2
	}
	return a
}
