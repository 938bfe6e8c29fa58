package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyHeaderRow(t *testing.T) {
	p := hsbcProfile()
	kind := p.classify("Date Payment type and details Paid out Paid in Balance", false)
	assert.Equal(t, LineSectionStart, kind)
}

func TestClassifyAnchorOpensSectionImplicitly(t *testing.T) {
	// A mangled header must not lose the table: a date anchor counts
	// even before any header row was seen.
	p := hsbcProfile()
	kind := p.classify("01/12/2024 CARD PAYMENT TESCO 25.99 1,234.56", false)
	assert.Equal(t, LineDateAnchor, kind)
}

func TestClassifySectionEndRequiresGate(t *testing.T) {
	p := hsbcProfile()
	line := "Balance carried forward 3,674.07"
	assert.Equal(t, LineSectionEnd, p.classify(line, true))
	assert.Equal(t, LineMetadata, p.classify(line, false))
}

func TestClassifyContinuation(t *testing.T) {
	p := hsbcProfile()
	assert.Equal(t, LineContinuation, p.classify("JOHN DOE REF 1234", true))
	assert.Equal(t, LineMetadata, p.classify("JOHN DOE REF 1234", false))
}

func TestClassifyShortDatesPerProfile(t *testing.T) {
	line := "4 Dec Card Payment to Shop 9.99 190.01"
	assert.Equal(t, LineDateAnchor, barclaysProfile().classify(line, false))
	// Without shortDates a year-less date is not an anchor.
	assert.Equal(t, LineMetadata, hsbcProfile().classify(line, false))
}

func TestBarclaysDatelessAnchor(t *testing.T) {
	p := barclaysProfile()
	line := "On-Line Banking Bill Payment to  400.00  9,456.68"

	// Inside the section a keyword-led amount row opens its own draft.
	assert.Equal(t, LineDateAnchor, p.classify(line, true))
	// Outside the section it stays metadata.
	assert.Equal(t, LineMetadata, p.classify(line, false))
	// Without a directional keyword it extends the open draft instead.
	assert.Equal(t, LineContinuation, p.classify("Sundry note  400.00  9,456.68", true))
	// A single amount is never enough.
	assert.Equal(t, LineContinuation, p.classify("Bill Payment to  400.00", true))
}

func TestDirectionScores(t *testing.T) {
	p := hsbcProfile()

	deb, cred := p.directionScores("CARD PAYMENT TO TESCO")
	assert.Greater(t, deb, cred)

	deb, cred = p.directionScores("SALARY RECEIVED FROM ACME")
	assert.Greater(t, cred, deb)

	deb, cred = p.directionScores("NOTHING RELEVANT")
	assert.Zero(t, deb)
	assert.Zero(t, cred)
}

func TestLeadingDate(t *testing.T) {
	assert.Equal(t, "01/12/2024", leadingDate("01/12/2024 CARD PAYMENT"))
	assert.Equal(t, "15 Jan 2024", leadingDate("15 Jan 2024 TRANSFER"))
	assert.Equal(t, "15-Jan-24", leadingDate("15-Jan-24 TRANSFER"))
	// Dates deeper in the line do not anchor it.
	assert.Equal(t, "", leadingDate("balance at 15 Jan 2024"))
	assert.Equal(t, "", leadingDate("no date here"))
}

func TestLeadingShortDate(t *testing.T) {
	assert.Equal(t, "4 Dec", leadingShortDate("4 Dec Start Balance 9,856.68"))
	assert.Equal(t, "", leadingShortDate("4 December opening"))
	assert.Equal(t, "", leadingShortDate("Dec 4 something"))
}

func TestNormalizeLineRepairsMojibake(t *testing.T) {
	// UTF-8 pound signs decoded as Latin-1 arrive as "Â£".
	assert.Equal(t, "£45.00 paid", normalizeLine("Â£45.00 paid"))
	assert.Equal(t, "£45.00", normalizeLine("  £45.00  "))
}

func TestSanitizeOCRAmounts(t *testing.T) {
	assert.Equal(t, "PAYMENT 45.00", sanitizeOCRAmounts("PAYMENT 45;00"))
	assert.Equal(t, "PAYMENT 1,234.56", sanitizeOCRAmounts("PAYMENT 1,234:56"))
	assert.Equal(t, "BALANCE 100 END", sanitizeOCRAmounts("BALANCE 100: END"))
	assert.Equal(t, "BALANCE 45", sanitizeOCRAmounts("BALANCE 45:"))
	assert.Equal(t, "12.00", sanitizeOCRAmounts("12.00 NA"))
}

func TestFindMetadata(t *testing.T) {
	text := "Account Number: 12345678 Sort Code: 40-12-34"
	assert.Equal(t, "12345678", findAccountNumber(text))
	assert.Equal(t, "40-12-34", findSortCode(text))

	period := findPeriod("Statement period 01/12/2024 to 31/12/2024")
	assert.Equal(t, "01/12/2024 to 31/12/2024", period)
	assert.Equal(t, "2024", yearFromPeriod(period))
}

func TestNameNearLabel(t *testing.T) {
	got := nameNearLabel("Account holder: MR J SMITH\nmore text", []string{"Account holder"})
	assert.Equal(t, "MR J SMITH", got)

	got = nameNearLabel("nothing here", []string{"Account holder"})
	assert.Equal(t, "", got)
}
