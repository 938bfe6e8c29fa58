// Package categorize maps finished transactions to category labels
// via an ordered keyword rule table, and performs the description
// cleanup that goes with it. Both happen in one pass so callers can
// treat the (category, description) pair as a single transformation.
package categorize

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-extract/internal/money"
)

// Rule maps a keyword set to a category label. Rules evaluate
// top-to-bottom; the first match wins, so specific categories must
// sort before generic ones.
type Rule struct {
	Category string
	Keywords []string
}

// Rules is the default table. Merchant categories sit before the
// relationship categories so "CARD PAYMENT TO TESCO" lands in
// Groceries, not Transfer; Salary outranks everything because payroll
// markers are the strongest signal a statement carries.
var Rules = []Rule{
	{"Salary", []string{"salary", "payroll", "wages", "paye"}},
	{"Interest", []string{"interest paid", "interest earned", "gross interest"}},
	{"Investment", []string{"dividend", "investment", "vanguard", "hargreaves"}},
	{"Refund", []string{"refund", "reversal", "cashback"}},
	{"Groceries", []string{
		"tesco", "sainsbury", "asda", "aldi", "lidl", "waitrose",
		"morrisons", "co-op", "iceland foods", "grocery", "supermarket",
	}},
	{"Dining", []string{
		"restaurant", "cafe", "coffee", "costa", "starbucks", "mcdonald",
		"kfc", "burger", "pizza", "deliveroo", "just eat", "uber eats",
		"nando", "greggs", "pret a manger",
	}},
	{"Transport", []string{
		"uber", "bolt.eu", "tfl", "trainline", "rail", "national express",
		"fuel", "petrol", "shell", "bp ", "esso", "texaco", "parking", "taxi",
	}},
	{"Shopping", []string{
		"amazon", "ebay", "argos", "john lewis", "next retail", "currys",
		"ikea", "asos", "marks & spencer", "m&s", "primark", "boots",
	}},
	{"Utilities", []string{
		"british gas", "edf energy", "e.on", "octopus energy", "ovo energy",
		"thames water", "severn trent", "united utilities", "electricity",
	}},
	{"Telecom", []string{
		"vodafone", "o2 ", "ee limited", "three.co", "bt group",
		"virgin media", "sky digital", "talktalk", "giffgaff", "broadband",
	}},
	{"Housing", []string{"rent ", "mortgage", "landlord", "letting"}},
	{"Insurance", []string{
		"insurance", "aviva", "axa", "admiral", "direct line", "legal & general",
	}},
	{"Bills", []string{
		"council tax", "tv licence", "netflix", "spotify", "subscription",
		"direct debit",
	}},
	{"Transfer", []string{
		"transfer", "fast payment", "faster payment", "standing order",
		"chaps", "bgc", "bacs", "payment to", "payment from",
	}},
}

// Result is the atomic outcome of one categorization pass: the label
// plus the cleaned description and the structured sub-fields pulled
// from recipient lines. Applying the pass again to its own output
// yields the identical result.
type Result struct {
	Category    string
	Description string
	Merchant    string
	CardSuffix  string
	Reference   string
}

var (
	merchantPattern = regexp.MustCompile(`(?i)\b(?:TO|FROM)\s*:?\s+([A-Z0-9][A-Za-z0-9&.' -]*[A-Za-z0-9.])`)
	cardPattern     = regexp.MustCompile(`(?i)\bCARD(?:\s+(?:NO|NUMBER))?\.?\s*[*Xx]*\s*(\d{4})\b`)
	refPattern      = regexp.MustCompile(`(?i)\bREF(?:ERENCE)?\s*[:.]?\s*([A-Za-z0-9][A-Za-z0-9/_-]+)`)
)

// Apply categorizes one transaction. Pure: no inputs are mutated. The
// haystack for rule matching is the description plus the recipient
// lines, so party names captured off the description still steer the
// category.
func Apply(description string, recipients []string, hasDebit, hasCredit bool) Result {
	haystack := strings.ToLower(description + " " + strings.Join(recipients, " "))

	res := Result{Description: cleanDescription(description)}
	for _, rule := range Rules {
		for _, kw := range rule.Keywords {
			if matchesKeyword(haystack, kw) {
				res.Category = rule.Category
				break
			}
		}
		if res.Category != "" {
			break
		}
	}
	if res.Category == "" {
		switch {
		case hasCredit && !hasDebit:
			res.Category = "Income"
		case hasDebit:
			res.Category = "Expense"
		}
	}

	source := append([]string{res.Description}, recipients...)
	res.Merchant = firstSubmatch(merchantPattern, source)
	res.CardSuffix = firstSubmatch(cardPattern, source)
	res.Reference = firstSubmatch(refPattern, source)
	return res
}

// matchesKeyword reports whether kw occurs in haystack starting at a
// word boundary. Short keywords like "tfl" or "rent " would otherwise
// fire inside unrelated words ("netflix", "current"). The end stays
// unanchored so merchant stems keep matching suffixed forms
// ("sainsbury" vs "sainsburys").
func matchesKeyword(haystack, kw string) bool {
	for i := 0; ; {
		j := strings.Index(haystack[i:], kw)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || !isWordByte(haystack[at-1]) {
			return true
		}
		i = at + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// cleanDescription strips embedded amount substrings and collapses
// whitespace. Cleaning an already-clean description is a no-op.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(money.Strip(s)), " ")
}

func firstSubmatch(pat *regexp.Regexp, texts []string) string {
	for _, t := range texts {
		if m := pat.FindStringSubmatch(t); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
