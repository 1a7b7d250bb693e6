package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/cifkit/identifier"
)

var (
	// ErrInvalidNumber reports text that does not match the numeric-literal
	// grammar in full.
	ErrInvalidNumber = errors.New("cif: malformed numeric literal")
	// ErrArgument reports an out-of-domain argument to a numeric constructor.
	ErrArgument = errors.New("cif: invalid numeric argument")
	// ErrLineLength reports a formatted number that cannot fit within the
	// line-length ceiling.
	ErrLineLength = errors.New("cif: number text exceeds the line-length ceiling")
)

// Parse builds a Number value from a CIF numeric literal:
//
//	[sign] digits ['.' digits] ['e'|'E' [sign] digits] ['(' digits ')']
//
// The whole string must match or Parse fails with ErrInvalidNumber. On
// success the literal is retained verbatim as the value's text, so the
// original spelling round-trips losslessly.
func Parse(text string) (*Value, error) {
	if text == "" || utf8.RuneCountInString(text) > identifier.MaxLength {
		return nil, ErrInvalidNumber
	}
	i := 0
	if text[i] == '+' || text[i] == '-' {
		i++
	}
	intStart := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	if i == intStart {
		return nil, ErrInvalidNumber
	}
	fracLen := 0
	if i < len(text) && text[i] == '.' {
		i++
		for i < len(text) && isDigit(text[i]) {
			i++
			fracLen++
		}
	}
	exp := 0
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		expStart := i
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		digStart := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == digStart {
			return nil, ErrInvalidNumber
		}
		e, err := strconv.Atoi(text[expStart:i])
		if err != nil {
			return nil, ErrInvalidNumber
		}
		exp = e
	}
	numEnd := i
	suDigits := ""
	if i < len(text) && text[i] == '(' {
		i++
		suStart := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == suStart || i >= len(text) || text[i] != ')' {
			return nil, ErrInvalidNumber
		}
		suDigits = text[suStart:i]
		i++
	}
	if i != len(text) {
		return nil, ErrInvalidNumber
	}

	val, err := strconv.ParseFloat(text[:numEnd], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// The grammar above should guarantee a parsable float; out-of-range
		// values degrade to signed infinity rather than failing.
		return nil, ErrInvalidNumber
	}
	su := 0.0
	if suDigits != "" {
		// Trailing-digit notation: the uncertainty applies to the last place
		// of the mantissa.
		su, err = strconv.ParseFloat(suDigits+"e"+strconv.Itoa(exp-fracLen), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, ErrInvalidNumber
		}
	}
	return &Value{kind: Number, text: text, num: numeric{val: val, su: su}}, nil
}

// NewNumber builds a Number value from a double approximation and its
// standard uncertainty, rounding both to scale decimal digits right of the
// units place (scale may be negative). The uncertainty suffix is omitted iff
// the rounded uncertainty is exactly zero. Scientific notation is chosen iff
// scale is negative or the zero-padded decimal form would need more leading
// zeroes than maxLeadingZeroes. Fails with ErrLineLength if the text would
// exceed the line-length ceiling.
func NewNumber(val, su float64, scale, maxLeadingZeroes int) (*Value, error) {
	if err := checkNumericArgs(val, su); err != nil {
		return nil, err
	}
	text, err := formatNumber(val, su, scale, maxLeadingZeroes, false, su != 0)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

// AutoNumber builds a Number value choosing the scale from the uncertainty.
// If su is zero the number is exact: every digit of val is significant and no
// uncertainty suffix appears. Otherwise the largest scale is chosen such that
// the rounded uncertainty's significant digits, read as an integer, do not
// exceed suRule (which must be at least 2); scientific notation is used iff
// the plain form would show more than five leading zeroes or an
// insignificant trailing zero. suRule values below 6 can round the displayed
// uncertainty down to "(0)".
func AutoNumber(val, su float64, suRule int) (*Value, error) {
	if err := checkNumericArgs(val, su); err != nil {
		return nil, err
	}
	if su == 0 {
		text, err := formatExact(val)
		if err != nil {
			return nil, err
		}
		return Parse(text)
	}
	if suRule < 2 {
		return nil, ErrArgument
	}
	scale := pickScale(su, suRule)
	text, err := formatNumber(val, su, scale, 5, true, true)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

func checkNumericArgs(val, su float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return ErrArgument
	}
	if su < 0 || math.IsNaN(su) || math.IsInf(su, 0) {
		return ErrArgument
	}
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ============================================================================
// Exact decimal machinery
// ============================================================================

// dec is an exact decimal: value = 0.digits * 10^decpt, digits holding the
// significant digits with no leading zeros. A zero value has no digits.
type dec struct {
	neg    bool
	digits []byte
	decpt  int
}

func (d *dec) zero() bool { return len(d.digits) == 0 }

// decFromFloat captures the shortest decimal representation that round-trips
// the given double.
func decFromFloat(f float64) dec {
	d := dec{neg: math.Signbit(f)}
	if f == 0 {
		return d
	}
	s := strconv.FormatFloat(math.Abs(f), 'e', -1, 64)
	// Shape is d[.ddd]e±dd.
	e := strings.IndexByte(s, 'e')
	mant := s[:e]
	exp, _ := strconv.Atoi(s[e+1:])
	mant = strings.Replace(mant, ".", "", 1)
	d.digits = []byte(mant)
	d.decpt = exp + 1
	d.trim()
	return d
}

func (d *dec) trim() {
	for len(d.digits) > 0 && d.digits[len(d.digits)-1] == '0' {
		d.digits = d.digits[:len(d.digits)-1]
	}
	if len(d.digits) == 0 {
		d.decpt = 0
	}
}

// roundAt rounds the decimal half-up so that its least significant digit sits
// no finer than 10^-scale.
func (d *dec) roundAt(scale int) {
	if d.zero() {
		return
	}
	keep := d.decpt + scale
	if keep >= len(d.digits) {
		return
	}
	if keep < 0 {
		d.digits = nil
		d.decpt = 0
		return
	}
	up := d.digits[keep] >= '5'
	d.digits = append([]byte(nil), d.digits[:keep]...)
	if up {
		i := len(d.digits) - 1
		for i >= 0 {
			if d.digits[i] < '9' {
				d.digits[i]++
				break
			}
			d.digits[i] = '0'
			i--
		}
		if i < 0 {
			d.digits = append([]byte{'1'}, d.digits...)
			d.decpt++
		}
	}
	d.trim()
	if d.zero() {
		d.decpt = 0
	}
}

// suDigitsAt returns the rounded uncertainty's significant digits read as an
// unsigned integer in decimal, e.g. "3" for su 0.003 at scale 3.
func suDigitsAt(su float64, scale int) string {
	d := decFromFloat(su)
	d.roundAt(scale)
	if d.zero() {
		return "0"
	}
	zeros := d.decpt - len(d.digits) + scale
	return string(d.digits) + strings.Repeat("0", zeros)
}

// cmpDigits compares two unsigned decimal digit strings numerically.
func cmpDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) != len(b):
		if len(a) < len(b) {
			return -1
		}
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// pickScale finds the largest scale at which the rounded uncertainty, read as
// an integer, does not exceed suRule.
func pickScale(su float64, suRule int) int {
	rule := strconv.Itoa(suRule)
	d := decFromFloat(su)
	scale := len(rule) - d.decpt
	for cmpDigits(suDigitsAt(su, scale), rule) > 0 {
		scale--
	}
	for cmpDigits(suDigitsAt(su, scale+1), rule) <= 0 {
		scale++
	}
	return scale
}

// ============================================================================
// Rendering
// ============================================================================

// formatNumber renders val at the given scale, appending the trailing-digit
// uncertainty suffix when wantSU is set (always for auto-scale construction,
// only for nonzero rounded uncertainty otherwise). auto selects the
// auto-scale scientific-notation rule.
func formatNumber(val, su float64, scale, maxLeadingZeroes int, auto, wantSU bool) (string, error) {
	d := decFromFloat(val)
	d.roundAt(scale)
	suInt := suDigitsAt(su, scale)

	lz := 0
	if !d.zero() && d.decpt < 0 {
		lz = -d.decpt
	}
	sci := scale < 0 || lz > maxLeadingZeroes

	var b strings.Builder
	if d.neg && !d.zero() {
		b.WriteByte('-')
	}
	if sci {
		writeScientific(&b, d, scale)
	} else {
		writePlain(&b, d, scale)
	}
	if wantSU && (auto || suInt != "0") {
		b.WriteByte('(')
		b.WriteString(suInt)
		b.WriteByte(')')
	}
	text := b.String()
	if utf8.RuneCountInString(text) > identifier.MaxLength {
		return "", ErrLineLength
	}
	return text, nil
}

// writePlain renders the decimal in positional notation with exactly scale
// digits after the point (no point when scale is zero). Requires scale >= 0.
func writePlain(b *strings.Builder, d dec, scale int) {
	if d.zero() {
		b.WriteByte('0')
		if scale > 0 {
			b.WriteByte('.')
			b.WriteString(strings.Repeat("0", scale))
		}
		return
	}
	if d.decpt > 0 {
		n := d.decpt
		if n > len(d.digits) {
			b.Write(d.digits)
			b.WriteString(strings.Repeat("0", n-len(d.digits)))
		} else {
			b.Write(d.digits[:n])
		}
	} else {
		b.WriteByte('0')
	}
	if scale == 0 {
		return
	}
	b.WriteByte('.')
	frac := 0
	if d.decpt < 0 {
		z := -d.decpt
		if z > scale {
			z = scale
		}
		b.WriteString(strings.Repeat("0", z))
		frac += z
	}
	if d.decpt < len(d.digits) {
		start := d.decpt
		if start < 0 {
			start = 0
		}
		b.Write(d.digits[start:])
		frac += len(d.digits) - start
	}
	if frac < scale {
		b.WriteString(strings.Repeat("0", scale-frac))
	}
}

// writeScientific renders the decimal as m[.mmm]e±XX with the mantissa
// carrying every digit down to the 10^-scale place.
func writeScientific(b *strings.Builder, d dec, scale int) {
	if d.zero() {
		b.WriteString("0e+00")
		return
	}
	decimals := d.decpt - 1 + scale
	b.WriteByte(d.digits[0])
	if decimals > 0 {
		b.WriteByte('.')
		rest := d.digits[1:]
		if len(rest) > decimals {
			rest = rest[:decimals]
		}
		b.Write(rest)
		if len(rest) < decimals {
			b.WriteString(strings.Repeat("0", decimals-len(rest)))
		}
	}
	fmt.Fprintf(b, "e%+03d", d.decpt-1)
}

// formatExact renders a value with zero uncertainty: every digit significant,
// scientific notation only when the plain form would pad with zeros.
func formatExact(val float64) (string, error) {
	d := decFromFloat(val)
	var b strings.Builder
	if d.neg && !d.zero() {
		b.WriteByte('-')
	}
	switch {
	case d.zero():
		b.WriteByte('0')
	case d.decpt <= len(d.digits) && d.decpt > -6:
		// No trailing padding needed and at most five leading zeroes.
		scale := len(d.digits) - d.decpt
		if scale < 0 {
			scale = 0
		}
		writePlain(&b, d, scale)
	default:
		scale := len(d.digits) - d.decpt
		writeScientific(&b, d, scale)
	}
	text := b.String()
	if utf8.RuneCountInString(text) > identifier.MaxLength {
		return "", ErrLineLength
	}
	return text, nil
}
