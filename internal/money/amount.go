// Package money tokenizes and normalizes monetary amounts found in
// statement text. All arithmetic downstream runs on decimal values so
// balance reconciliation is exact to the penny.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Token is a single monetary token recovered from a line, in
// left-to-right order. Negative marks the parenthesis-wrapped
// convention some institutions use for credits/reversals; the flag is
// carried through to amount assignment and never dropped.
type Token struct {
	Text     string
	Value    decimal.Decimal
	Negative bool
	Start    int
	End      int
}

// tokenPattern matches digits with optional thousands separators and
// exactly two fraction digits, optionally currency-prefixed and
// optionally wrapped in parentheses. Whitespace is only allowed after
// a currency symbol; a match can never begin on a bare space, which
// would make the adjacency check misfire on single-space-separated
// amount columns.
var tokenPattern = regexp.MustCompile(
	`(\()?(?:[£$€]\s?)?((?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2})(\))?`,
)

// Tokenize returns every monetary token on the line, ordered by
// position. Downstream heuristics rely on that order (first token vs
// last token), so it must match the visual layout.
//
// Tokens that match the pattern but fail decimal conversion are
// skipped rather than aborting the line. Matches embedded in longer
// digit runs (reference codes like "31.117.02") are rejected.
func Tokenize(line string) []Token {
	var tokens []Token
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[0], m[1]
		if embedded(line, start, end) {
			continue
		}
		text := line[start:end]
		numeric := line[m[4]:m[5]]
		value, err := decimal.NewFromString(strings.ReplaceAll(numeric, ",", ""))
		if err != nil {
			continue
		}
		tokens = append(tokens, Token{
			Text:     text,
			Value:    value,
			Negative: m[2] >= 0 && m[6] >= 0,
			Start:    start,
			End:      end,
		})
	}
	return tokens
}

// embedded reports whether the match is part of a longer digit run and
// therefore a reference code rather than an amount.
func embedded(line string, start, end int) bool {
	if start > 0 {
		prev := line[start-1]
		if prev >= '0' && prev <= '9' || prev == '.' {
			return true
		}
	}
	if end < len(line) {
		next := line[end]
		if next >= '0' && next <= '9' {
			return true
		}
	}
	return false
}

// Parse converts a string like "1,234.56", "£1,234.56" or "(45.00)"
// to a decimal. Currency symbols, separators and stray whitespace are
// stripped; parentheses yield a negative value. Empty or dash-only
// input parses as zero.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	replacer := strings.NewReplacer(
		"£", "", "$", "", "€", "",
		",", "", " ", "", " ", "",
	)
	s = replacer.Replace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Format renders a decimal with exactly two fraction digits and no
// thousands separators, the canonical form for output records.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Strip removes every monetary token from s, collapsing the leftover
// whitespace. The categorizer uses it to clean amount substrings out
// of descriptions; stripping twice is a no-op.
func Strip(s string) string {
	out := tokenPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(out), " ")
}
