package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-extract/internal/models"
	"github.com/insightdelivered/statement-extract/internal/money"
)

type direction int

const (
	dirUnknown direction = iota
	dirDebit
	dirCredit
)

// draft is an in-progress transaction, owned exclusively by the
// accumulator until finalized.
type draft struct {
	date       string
	descParts  []string
	recipients []string
	// collecting is true while the draft still accepts recipient
	// lines; it drops the moment any amount is assigned.
	collecting bool
	debit      *decimal.Decimal
	credit     *decimal.Decimal
	balance    *decimal.Decimal
	// twoLegs marks the equal-score exception where a transaction is
	// deliberately recorded with both a debit and a credit leg.
	twoLegs bool
}

func (d *draft) setDebit(v decimal.Decimal) {
	if d.debit == nil {
		d.debit = &v
	}
}

func (d *draft) setCredit(v decimal.Decimal) {
	if d.credit == nil {
		d.credit = &v
	}
}

func (d *draft) setBalance(v decimal.Decimal) {
	if d.balance == nil {
		d.balance = &v
	}
}

// snapshot freezes the draft into an immutable transaction record.
// Recipient lines collected from continuations are trimmed out of the
// description; the anchor line's own text stays.
func (d *draft) snapshot(account string) models.Transaction {
	desc := strings.Join(d.descParts, " ")
	for _, r := range d.recipients {
		if len(d.descParts) > 0 && r == d.descParts[0] {
			continue
		}
		desc = strings.Replace(desc, r, " ", 1)
	}
	desc = strings.Join(strings.Fields(desc), " ")

	t := models.Transaction{Date: d.date, Description: desc, Account: account}
	if d.debit != nil {
		t.Debit = money.Format(*d.debit)
	}
	if d.credit != nil {
		t.Credit = money.Format(*d.credit)
	}
	if d.balance != nil {
		t.Balance = money.Format(*d.balance)
	}
	return t
}

// finalized pairs a frozen transaction with the recipient lines the
// categorizer consumes.
type finalized struct {
	models.Transaction
	recipients []string
}

// accumulator walks classified lines and opens, extends and closes
// transaction drafts. One instance per document; never reused.
type accumulator struct {
	prof *profile
	ctx  *Context
	open *draft
	out  []finalized
	// lastDate is the most recent anchor date, inherited by dateless
	// anchor rows.
	lastDate string
}

func newAccumulator(prof *profile, ctx *Context) *accumulator {
	return &accumulator{prof: prof, ctx: ctx}
}

// feed consumes one raw line. Empty lines vanish here; every other
// line is attributed to exactly one draft or to statement metadata.
func (a *accumulator) feed(raw string) {
	line := normalizeLine(raw)
	if line == "" {
		return
	}
	if a.prof.preprocess != nil {
		line = a.prof.preprocess(line)
	}
	line = sanitizeOCRAmounts(line)

	kind := a.prof.classify(line, a.ctx.InSection)
	a.ctx.Logger.Debug("classified line", "kind", kind.String(), "text", truncate(line, 80))

	switch kind {
	case LineSectionStart:
		// Headers repeat on page breaks; an open draft survives them.
		a.ctx.InSection = true
	case LineSectionEnd:
		a.finalizeDraft()
		a.ctx.InSection = false
	case LineMetadata:
		a.captureMetadata(line)
	case LineDateAnchor:
		a.finalizeDraft()
		a.ctx.InSection = true
		a.openDraft(line)
	case LineContinuation:
		a.continuation(line)
	}
}

// finish closes any draft still open at end of input.
func (a *accumulator) finish() []finalized {
	a.finalizeDraft()
	return a.out
}

// openDraft seeds a new draft from an anchor line. When the anchor
// itself carries amount tokens, assignment runs immediately on the
// remainder-after-date; it is never deferred to a later pass.
// Dateless anchors inherit the last seen date; anchored rows that are
// really opening-balance markers seed the running balance instead of
// opening a draft.
func (a *accumulator) openDraft(line string) {
	date := a.prof.anchorDate(line)
	rest := line
	resolved := a.lastDate
	if date != "" {
		rest = strings.TrimSpace(line[strings.Index(line, date)+len(date):])
		resolved = a.resolveDate(date)
	}
	a.lastDate = resolved

	if containsAnyFold(rest, a.prof.openingBalanceWords) {
		if toks := money.Tokenize(rest); len(toks) > 0 {
			a.ctx.LastKnownBalance = toks[len(toks)-1].Value
			a.ctx.Logger.Debug("opening balance", "balance", money.Format(a.ctx.LastKnownBalance))
		}
		return
	}

	d := &draft{date: resolved}
	toks := money.Tokenize(rest)

	seed := rest
	if len(toks) > 0 {
		seed = strings.TrimSpace(rest[:toks[0].Start])
	}
	if seed != "" {
		d.descParts = append(d.descParts, seed)
		if containsAnyFold(seed, a.prof.recipientMarkers) {
			d.collecting = true
			d.recipients = append(d.recipients, seed)
		}
	}
	a.open = d

	if len(toks) > 0 {
		a.assign(d, rest, toks, date != "")
		d.collecting = false
	}
}

// continuation extends the open draft, or captures pre-transaction
// balance rows while no draft is open.
func (a *accumulator) continuation(line string) {
	if a.open == nil {
		a.captureOpeningBalance(line)
		return
	}
	if a.captureOpeningBalance(line) {
		return
	}
	if containsAnyFold(line, a.prof.skipWords) {
		return
	}

	toks := money.Tokenize(line)
	if len(toks) > 0 {
		if lead := strings.TrimSpace(line[:toks[0].Start]); lead != "" {
			a.open.descParts = append(a.open.descParts, lead)
		}
		a.assign(a.open, line, toks, false)
		a.open.collecting = false
		return
	}

	a.open.descParts = append(a.open.descParts, line)
	if a.open.collecting {
		a.open.recipients = append(a.open.recipients, line)
	}
}

// assign routes the line's amount tokens into the draft's debit,
// credit and balance slots.
//
// Priority order: directional keyword scoring first, then the
// token-count policy, then the balance-delta tie-break, with the
// final default preferring credit only when no keyword signal exists.
func (a *accumulator) assign(d *draft, text string, toks []money.Token, anchor bool) {
	deb, cred := a.prof.directionScores(text)
	if deb == cred && deb > 0 {
		// Tie on the line itself: widen the scan to the accumulated
		// description.
		d2, c2 := a.prof.directionScores(strings.Join(d.descParts, " "))
		deb += d2
		cred += c2
	}

	dir := dirUnknown
	switch {
	case deb > cred:
		dir = dirDebit
	case cred > deb:
		dir = dirCredit
	}
	if toks[0].Negative {
		// Parenthesis-wrapped amounts carry the signed-negative flag
		// from tokenization; the convention means money in.
		dir = dirCredit
	}

	switch len(toks) {
	case 1:
		// A lone token on a fresh transaction header, or with no
		// direction signal, is the running balance.
		if anchor || dir == dirUnknown {
			d.setBalance(toks[0].Value)
		} else {
			a.place(d, toks[0].Value, dir, deb, cred)
		}
	case 2:
		d.setBalance(toks[1].Value)
		a.place(d, toks[0].Value, dir, deb, cred)
	default:
		// First token is the directional amount, last is the balance;
		// middle tokens are informational and never overwrite.
		d.setBalance(toks[len(toks)-1].Value)
		a.place(d, toks[0].Value, dir, deb, cred)
	}
}

// place commits an amount to the winning side, falling back to the
// balance delta and then to the documented defaults.
func (a *accumulator) place(d *draft, v decimal.Decimal, dir direction, deb, cred int) {
	if dir == dirUnknown {
		dir = a.deltaDirection(d)
	}
	switch dir {
	case dirDebit:
		d.setDebit(v)
	case dirCredit:
		d.setCredit(v)
	default:
		if deb == 0 && cred == 0 {
			d.setCredit(v)
			return
		}
		// Equal nonzero keyword scores and no usable balance delta:
		// record both legs and let finalization decide.
		d.setDebit(v)
		d.setCredit(v)
		d.twoLegs = true
	}
}

// deltaDirection infers direction from the declared balance against
// the running balance. Zero delta stays unknown.
func (a *accumulator) deltaDirection(d *draft) direction {
	if d.balance == nil || a.ctx.LastKnownBalance.Sign() <= 0 {
		return dirUnknown
	}
	switch d.balance.Sub(a.ctx.LastKnownBalance).Sign() {
	case -1:
		return dirDebit
	case 1:
		return dirCredit
	default:
		return dirUnknown
	}
}

// finalizeDraft is the single closure point for a draft, invoked on a
// new anchor, on section end and at end of input. It enforces the
// one-sided invariant, runs reconciliation, advances the running
// balance and freezes the record. A draft is never finalized twice.
func (a *accumulator) finalizeDraft() {
	d := a.open
	if d == nil {
		return
	}
	a.open = nil

	if d.debit == nil && d.credit == nil && d.balance == nil {
		// Date-led prelude lines (statement dates, letter headers) open
		// drafts that never see an amount; they are not transactions.
		a.ctx.Logger.Debug("dropping amountless draft",
			"date", d.date, "description", truncate(strings.Join(d.descParts, " "), 60))
		return
	}

	a.enforceOneSide(d)
	reconcile(d, a.ctx)

	if d.balance != nil {
		a.ctx.LastKnownBalance = *d.balance
	}
	a.out = append(a.out, finalized{
		Transaction: d.snapshot(a.ctx.Account),
		recipients:  d.recipients,
	})
}

// enforceOneSide resolves drafts that ended up with both debit and
// credit set. The side with keyword support over the full accumulated
// text wins; equal support retains both legs — a deliberate,
// warn-logged exception to the one-sided invariant that downstream
// consumers must treat as a flagged two-leg record.
func (a *accumulator) enforceOneSide(d *draft) {
	if d.debit == nil || d.credit == nil {
		return
	}
	full := strings.Join(append(append([]string{}, d.descParts...), d.recipients...), " ")
	deb, cred := a.prof.directionScores(full)
	switch {
	case deb > cred:
		d.credit = nil
		d.twoLegs = false
	case cred > deb:
		d.debit = nil
		d.twoLegs = false
	default:
		d.twoLegs = true
		a.ctx.Logger.Warn("transaction retains both debit and credit legs",
			"date", d.date, "description", truncate(strings.Join(d.descParts, " "), 60))
	}
}

// captureOpeningBalance seeds the running balance from opening or
// brought-forward rows. Returns true when the line was one.
func (a *accumulator) captureOpeningBalance(line string) bool {
	if !containsAnyFold(line, a.prof.openingBalanceWords) {
		return false
	}
	if toks := money.Tokenize(line); len(toks) > 0 {
		a.ctx.LastKnownBalance = toks[len(toks)-1].Value
		a.ctx.Logger.Debug("opening balance", "balance", money.Format(a.ctx.LastKnownBalance))
	}
	return true
}

// captureMetadata updates the current account identifier from
// metadata lines outside the section gate.
func (a *accumulator) captureMetadata(line string) {
	if containsAnyFold(line, a.prof.openingBalanceWords) {
		a.captureOpeningBalance(line)
		return
	}
	if acct := findAccountNumber(line); acct != "" && acct != a.ctx.Account {
		a.ctx.Account = acct
		a.ctx.Logger.Debug("account updated", "account", acct)
	}
}

// resolveDate appends the statement year to year-less short dates.
func (a *accumulator) resolveDate(date string) string {
	if a.prof.shortDates && a.ctx.Year != "" && datePatternShort.MatchString(date+" ") && leadingDate(date) == "" {
		return date + " " + a.ctx.Year
	}
	return date
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
