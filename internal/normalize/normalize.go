// Package normalize converts raw spreadsheet cells into canonical forms:
// lookup keys, signed decimal amounts and calendar dates.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/concilia-dev/concilia/internal/model"
)

var (
	// ErrMalformedAmount marks an amount whose numeric portion cannot be
	// parsed or whose sign and C/D suffix conflict.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrMalformedDate marks an unparsable or ambiguous date string.
	ErrMalformedDate = errors.New("malformed date")
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)

	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Key normalizes text into a chart lookup key: diacritics stripped,
// uppercased, non-alphanumerics collapsed to single spaces. Empty or
// whitespace-only input yields "" so lookups fail predictably.
func Key(text string) string {
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToUpper(folded)
	folded = nonAlphanumericRegex.ReplaceAllString(folded, " ")
	folded = whitespaceRegex.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// complementMaxLen caps complement text for the downstream accounting import.
const complementMaxLen = 60

// Complement cleans free text for the CSV complement column: accents folded,
// control characters dropped, whitespace collapsed, capped at 60 runes.
// Unlike Key it keeps case and basic punctuation readable.
func Complement(text string) string {
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(" -/.,:;()_", r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	out := strings.TrimSpace(whitespaceRegex.ReplaceAllString(b.String(), " "))
	if runes := []rune(out); len(runes) > complementMaxLen {
		out = strings.TrimSpace(string(runes[:complementMaxLen]))
	}
	return out
}

// ParseAmount converts a locale-formatted amount string to a signed decimal.
// Accepted forms: "1.234,56" (comma decimal), "1234.56" (dot decimal), an
// optional leading sign, and an optional trailing C (credit, positive) or
// D (debit, negative) suffix. A suffix that contradicts an explicit leading
// sign is a parse failure, not a silent fix.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", ErrMalformedAmount)
	}

	suffix := byte(0)
	switch s[len(s)-1] {
	case 'C', 'c', 'D', 'd':
		suffix = s[len(s)-1] &^ 0x20 // uppercase
		s = strings.TrimSpace(s[:len(s)-1])
	}

	negative := false
	explicitSign := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		explicitSign = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		explicitSign = true
		s = s[1:]
	}

	if explicitSign && suffix != 0 {
		if (negative && suffix == 'C') || (!negative && suffix == 'D') {
			return decimal.Zero, fmt.Errorf("%w: sign conflicts with %c suffix in %q", ErrMalformedAmount, suffix, text)
		}
	}
	// Doubled signs would still parse below; reject them here.
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, text)
	}

	// Comma present means Brazilian format: dots are thousands separators.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, text)
	}

	if suffix == 'D' || negative {
		return d.Abs().Neg(), nil
	}
	return d.Abs(), nil
}

// ParseAmountDirection parses a statement value and returns its unsigned
// magnitude plus the credit/debit marker. The marker comes from the C/D
// suffix when present, otherwise from the sign; ParseAmount already rejects
// conflicting combinations.
func ParseAmountDirection(text string) (decimal.Decimal, model.Direction, error) {
	d, err := ParseAmount(text)
	if err != nil {
		return decimal.Zero, "", err
	}
	if d.IsNegative() {
		return d.Abs(), model.DirectionDebit, nil
	}
	return d, model.DirectionCredit, nil
}

// dateLayouts, in match order. Day-first forms come before ISO.
var dateLayouts = []string{
	"02/01/2006",
	"02/01/06",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
}

// ParseDate parses day/month/year and ISO-like date strings. Anything else
// is ErrMalformedDate; the parser never guesses.
func ParseDate(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrMalformedDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, text)
}

// FormatDate renders a date as zero-padded day/month/year.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatValue renders an unsigned value with two decimals and a comma
// separator, no thousands grouping ("1234,56").
func FormatValue(d decimal.Decimal) string {
	return strings.Replace(d.Abs().StringFixed(2), ".", ",", 1)
}
