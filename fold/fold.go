package fold

import (
	"strings"

	"github.com/tsawler/cifkit/text"
)

// Options configures the codec.
type Options struct {
	// Width is the longest content line emitted without folding.
	Width int
	// Window is the search radius around the fold target when looking for a
	// natural break point.
	Window int
	// Prefix is the string prepended to every line when prefixing applies.
	Prefix string
}

// DefaultOptions returns the defaults: 80-character lines, a 10-character
// fold window, and a ">" prefix.
func DefaultOptions() Options {
	return Options{Width: 80, Window: 10, Prefix: ">"}
}

// Plan records which protocols apply to one text block.
type Plan struct {
	// Fold is set when some line exceeds the width and must be split.
	Fold bool
	// Prefix is set when the content could be misread as CIF structure, such
	// as a line opening with a semicolon.
	Prefix bool
}

// Decide computes the plan for a value with the given line statistics.
// Folding and prefixing are decided independently.
func Decide(a text.Analysis, opts Options) Plan {
	return Plan{
		Fold:   opts.Width > 0 && a.MaxLine > opts.Width,
		Prefix: a.LeadSemicolons > 0,
	}
}

// foldPoint picks the index at which to break line so the head segment stays
// near target. It scans a symmetric window around the target, preferring the
// whitespace-to-non-whitespace transition nearest the target. Breaking
// immediately before a semicolon is refused unless prefixing is active,
// because the continuation line would open with a semicolon; if the whole
// window is semicolons, the scan falls back to the nearest earlier
// non-semicolon position.
func foldPoint(line []rune, target, window int, prefixing bool) int {
	if target >= len(line) {
		return len(line)
	}
	lo := target - window
	if lo < 1 {
		lo = 1
	}
	hi := target + window
	if hi > len(line)-1 {
		hi = len(line) - 1
	}

	allowed := func(i int) bool { return prefixing || line[i] != ';' }

	best, bestDist := -1, 0
	for i := lo; i <= hi; i++ {
		if !allowed(i) {
			continue
		}
		if !isSpace(line[i-1]) || isSpace(line[i]) {
			continue
		}
		d := i - target
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return best
	}
	// No natural transition: take the nearest allowed position to the
	// target, preferring the target itself.
	for d := 0; d <= window; d++ {
		for _, i := range []int{target - d, target + d} {
			if i >= lo && i <= hi && allowed(i) {
				return i
			}
		}
	}
	// The entire window is semicolons; back away to the nearest position
	// that does not put a semicolon at the head of the continuation.
	for i := lo - 1; i >= 1; i-- {
		if allowed(i) {
			return i
		}
	}
	return target
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

// foldLine splits one line into segments no longer than opts.Width.
func foldLine(line string, opts Options, prefixing bool) []string {
	width := opts.Width
	if width <= 0 {
		return []string{line}
	}
	// Aim below the width so the search window cannot push a segment past it.
	target := width - opts.Window
	if target < 1 {
		target = width
	}
	var segs []string
	rest := []rune(line)
	for len(rest) > width {
		i := foldPoint(rest, target, opts.Window, prefixing)
		if i <= 0 || i >= len(rest) {
			break
		}
		segs = append(segs, string(rest[:i]))
		rest = rest[i:]
	}
	return append(segs, string(rest))
}

// Encode lays out a text block's content, applying folding and prefixing as
// planned. The result is the block body: what goes between the opening and
// closing semicolon delimiters. Content needing neither protocol is returned
// unchanged.
func Encode(content string, opts Options) string {
	a := text.Analyze(content)
	plan := Decide(a, opts)
	lines := strings.Split(content, "\n")
	// A first line that itself looks like a protocol header must be shielded
	// by the prefix protocol.
	if strings.HasSuffix(lines[0], `\`) {
		plan.Prefix = true
	}
	if !plan.Fold && !plan.Prefix {
		return content
	}

	prefix := ""
	if plan.Prefix {
		prefix = opts.Prefix
	}
	if plan.Fold {
		// Reserve room for the prefix and the fold marker on emitted lines.
		opts.Width -= len(prefix) + 1
	}
	var b strings.Builder
	b.WriteString(header(plan, prefix))
	for _, line := range lines {
		segs := []string{line}
		if plan.Fold {
			segs = foldLine(line, opts, plan.Prefix)
		}
		for i, seg := range segs {
			b.WriteByte('\n')
			b.WriteString(prefix)
			b.WriteString(seg)
			if i < len(segs)-1 {
				b.WriteByte('\\')
			} else if plan.Fold && strings.HasSuffix(seg, `\`) {
				// A literal backslash at a line's end would read as a fold
				// marker; emit an empty continuation to absorb it.
				b.WriteString("\\\n")
				b.WriteString(prefix)
			}
		}
	}
	return b.String()
}

// header builds the protocol announcement line: a lone backslash for
// folding, the prefix plus a backslash for prefixing, and the prefix plus
// two backslashes when both apply.
func header(plan Plan, prefix string) string {
	switch {
	case plan.Prefix && plan.Fold:
		return prefix + `\\`
	case plan.Prefix:
		return prefix + `\`
	default:
		return `\`
	}
}

// Decode reverses Encode, reconstructing the original content from a block
// body. Bodies that carry no protocol header pass through unchanged.
func Decode(body string) string {
	lines := strings.Split(body, "\n")
	head := lines[0]

	var prefix string
	var folded bool
	switch {
	case head == `\`:
		folded = true
	case strings.HasSuffix(head, `\\`) && len(head) > 2:
		prefix, folded = head[:len(head)-2], true
	case strings.HasSuffix(head, `\`) && len(head) > 1:
		prefix = head[:len(head)-1]
	default:
		return body
	}

	var b strings.Builder
	pending := false // previous segment ended with a fold marker
	for i, line := range lines[1:] {
		line = strings.TrimPrefix(line, prefix)
		join := pending
		pending = false
		if folded && strings.HasSuffix(line, `\`) {
			line = line[:len(line)-1]
			pending = true
		}
		if i > 0 && !join {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
