package engine

import (
	"strings"

	"github.com/insightdelivered/statement-extract/internal/models"
)

// LineKind is the classifier's verdict for a single line.
type LineKind int

const (
	// LineContinuation is free text inside the section that extends
	// the open draft (description or recipient detail).
	LineContinuation LineKind = iota
	// LineSectionStart is a transaction-table header row.
	LineSectionStart
	// LineSectionEnd is a terminating marker (carried-forward balance,
	// period totals).
	LineSectionEnd
	// LineMetadata is text outside the section gate: account numbers,
	// statement dates, holder names, boilerplate.
	LineMetadata
	// LineDateAnchor opens a new transaction draft.
	LineDateAnchor
)

func (k LineKind) String() string {
	switch k {
	case LineSectionStart:
		return "section-start"
	case LineSectionEnd:
		return "section-end"
	case LineMetadata:
		return "metadata"
	case LineDateAnchor:
		return "date-anchor"
	default:
		return "continuation"
	}
}

// profile carries the institution-specific detection rules the
// classifier and accumulator run on. Each supported layout supplies
// one; the generic fallback engine uses a permissive one.
type profile struct {
	institution models.Institution

	// detectWords identify the institution in auto-detection.
	detectWords []string

	// preprocess runs after normalizeLine; layouts with exotic column
	// separators flatten them here.
	preprocess func(string) string

	// isHeader recognizes the transaction-table header row.
	isHeader func(string) bool

	// sectionEndWords terminate the transaction section.
	sectionEndWords []string

	// skipWords mark in-section lines that are neither transactions
	// nor description continuations (page furniture, totals rows that
	// do not end the section).
	skipWords []string

	// openingBalanceWords mark lines carrying the starting balance.
	openingBalanceWords []string

	// recipientMarkers on a draft's seed line switch the draft into
	// recipient-collection mode.
	recipientMarkers []string

	// debitWords / creditWords drive directional keyword scoring.
	debitWords  []string
	creditWords []string

	// shortDates enables year-less "D Mon" anchors.
	shortDates bool

	// datelessAnchor, when set, recognizes in-section rows that open a
	// new transaction without their own date (business layouts print
	// the date once per day). The new draft inherits the last seen
	// anchor date.
	datelessAnchor func(string) bool
}

// classify categorizes one normalized line given the current section
// gate state. Pure: gate toggling and metadata capture belong to the
// accumulator acting on the returned kind.
func (p *profile) classify(line string, inSection bool) LineKind {
	switch {
	case p.isHeader(line):
		return LineSectionStart
	case inSection && containsAnyFold(line, p.sectionEndWords):
		return LineSectionEnd
	case p.anchorDate(line) != "":
		// A date anchor implies a transaction table even when the
		// header row was mangled by extraction; the accumulator opens
		// the gate.
		return LineDateAnchor
	case inSection && p.datelessAnchor != nil && p.datelessAnchor(line):
		return LineDateAnchor
	case inSection:
		return LineContinuation
	default:
		return LineMetadata
	}
}

// anchorDate returns the date token anchoring the line, or "".
func (p *profile) anchorDate(line string) string {
	if d := leadingDate(line); d != "" {
		return d
	}
	if p.shortDates {
		return leadingShortDate(line)
	}
	return ""
}

// directionScores counts debit-indicating versus credit-indicating
// keywords in the text. The strictly higher score wins; equal nonzero
// scores defer to the balance-delta tie-break.
func (p *profile) directionScores(text string) (debit, credit int) {
	lower := strings.ToLower(text)
	for _, w := range p.debitWords {
		if strings.Contains(lower, w) {
			debit++
		}
	}
	for _, w := range p.creditWords {
		if strings.Contains(lower, w) {
			credit++
		}
	}
	return debit, credit
}

// headerMatcher builds the standard header detector: the row must
// mention a date column plus a description-ish column plus an
// amount-ish column. Column names are spread across institutions, so
// each profile passes its own sets.
func headerMatcher(descWords, amountWords []string) func(string) bool {
	return func(line string) bool {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "date") {
			return false
		}
		return containsAnyFold(lower, descWords) && containsAnyFold(lower, amountWords)
	}
}
