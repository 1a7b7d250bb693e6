// Package identifier implements the identity rules for CIF block codes,
// frame codes, item names, and table keys.
package identifier

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the ceiling, in code points, for any identifier or numeric
// literal in a CIF document.
const MaxLength = 2048

var (
	// ErrEmpty reports an identifier with no characters.
	ErrEmpty = errors.New("cif: empty identifier")
	// ErrTooLong reports an identifier past the MaxLength ceiling.
	ErrTooLong = errors.New("cif: identifier exceeds 2048 code points")
	// ErrBadChar reports a control or whitespace character in an identifier.
	ErrBadChar = errors.New("cif: identifier contains a disallowed character")
	// ErrNoPrefix reports an item name missing its leading underscore.
	ErrNoPrefix = errors.New("cif: item name must begin with an underscore")
	// ErrBareUnder reports an item name that is a lone underscore.
	ErrBareUnder = errors.New("cif: item name needs at least one character after the underscore")
)

// Normalize maps an identifier to its canonical form: canonical decomposition,
// default case folding, then canonical recomposition. Two identifiers are the
// same name iff their normalized forms are code-point-identical.
func Normalize(s string) string {
	return norm.NFC.String(cases.Fold().String(norm.NFD.String(s)))
}

// CanonicalKey maps a table key to canonical form. Table keys compare under
// canonical equivalence only; case is significant.
func CanonicalKey(s string) string {
	return norm.NFC.String(s)
}

// ValidateBlockCode reports whether code is a legal block code: non-empty,
// at most MaxLength code points, and free of whitespace and control
// characters.
func ValidateBlockCode(code string) error {
	return validateCode(code)
}

// ValidateFrameCode reports whether code is a legal save-frame code. Frame
// codes follow the same grammar as block codes.
func ValidateFrameCode(code string) error {
	return validateCode(code)
}

// ValidateItemName reports whether name is a legal item (data name): an
// underscore followed by at least one more character, within the length
// ceiling, and free of whitespace and control characters.
func ValidateItemName(name string) error {
	if name == "" {
		return ErrEmpty
	}
	if !strings.HasPrefix(name, "_") {
		return ErrNoPrefix
	}
	if utf8.RuneCountInString(name) < 2 {
		return ErrBareUnder
	}
	return validateCode(name)
}

func validateCode(s string) error {
	if s == "" {
		return ErrEmpty
	}
	n := 0
	for _, r := range s {
		n++
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ErrBadChar
		}
	}
	if n > MaxLength {
		return ErrTooLong
	}
	return nil
}
