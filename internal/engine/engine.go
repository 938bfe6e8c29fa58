// Package engine converts line-oriented statement text into normalized
// transaction records. The hard part lives here: a stateful
// line-by-line scanner recovering dates, descriptions, debit/credit
// amounts and running balances from layouts that vary by institution,
// span several physical lines per transaction and contain numeric
// tokens that could be an amount or a balance.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/statement-extract/internal/categorize"
	"github.com/insightdelivered/statement-extract/internal/models"
	"github.com/insightdelivered/statement-extract/internal/summarize"
)

// Engine is the extraction strategy contract. The primary
// institution-specific engines and the best-effort Fallback all
// satisfy it, so a host can swap or chain them.
type Engine interface {
	// Name returns the institution or strategy identifier.
	Name() string
	// Extract parses one document's text. It never fails on malformed
	// content — the result is a best-effort, possibly empty statement.
	// When ctx is cancelled mid-document, transactions finalized so
	// far are returned and the open draft is dropped.
	Extract(ctx context.Context, text string) (*models.Statement, error)
}

// New returns the engine for the given institution.
func New(inst models.Institution, logger *log.Logger) (Engine, error) {
	switch inst {
	case models.InstitutionHSBC:
		return NewHSBC(logger), nil
	case models.InstitutionBarclays:
		return NewBarclays(logger), nil
	default:
		return nil, fmt.Errorf("unsupported institution: %q", inst)
	}
}

// Detect identifies the institution from the statement text.
func Detect(text string) (models.Institution, error) {
	for _, prof := range []*profile{hsbcProfile(), barclaysProfile()} {
		if containsAnyFold(text, prof.detectWords) {
			return prof.institution, nil
		}
	}
	return "", fmt.Errorf("could not detect institution from statement text; specify one explicitly")
}

// run is the shared parse pass: prescan metadata, walk the lines
// through the accumulator, then categorize the finalized transactions.
func run(ctx context.Context, text string, prof *profile, logger *log.Logger) (*models.Statement, error) {
	st := &models.Statement{Institution: prof.institution}

	st.AccountNumber = findAccountNumber(text)
	st.SortCode = findSortCode(text)
	st.AccountHolder = nameNearLabel(text, []string{
		"Account holder", "Account name", "Mr ", "Mrs ", "Ms ", "Miss ",
	})
	st.StatementPeriod = findPeriod(text)

	pctx := NewContext(logger)
	pctx.Account = st.AccountNumber
	pctx.Year = yearFromPeriod(st.StatementPeriod)

	acc := newAccumulator(prof, pctx)
	cancelled := false
	for _, line := range strings.Split(text, "\n") {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		acc.feed(line)
	}

	var done []finalized
	if cancelled {
		// Keep what was finalized; never finalize a partial draft on
		// abort.
		done = acc.out
	} else {
		done = acc.finish()
	}

	st.Transactions = make([]models.Transaction, 0, len(done))
	for _, f := range done {
		t := f.Transaction
		res := categorize.Apply(t.Description, f.recipients, t.Debit != "", t.Credit != "")
		t.Description = res.Description
		t.Category = res.Category
		st.Transactions = append(st.Transactions, t)
	}
	return st, nil
}

// PlaceholderLabel is the single explanatory record emitted when a
// document yields no transactions at all.
const PlaceholderLabel = "NO TRANSACTIONS EXTRACTED"

// Records flattens a statement into the output record sequence:
// every transaction in document order, then one subtotal row per
// category and a grand total. An empty statement yields the
// explanatory placeholder instead.
func Records(st *models.Statement) []models.Record {
	if st == nil || len(st.Transactions) == 0 {
		return []models.Record{models.SummaryRecord(models.SummaryRow{Label: PlaceholderLabel})}
	}
	recs := make([]models.Record, 0, len(st.Transactions)+4)
	for _, t := range st.Transactions {
		recs = append(recs, models.TransactionRecord(t))
	}
	for _, row := range summarize.Build(st.Transactions) {
		recs = append(recs, models.SummaryRecord(row))
	}
	return recs
}

// dedupeDescLen is how much leading description participates in the
// merge identity.
const dedupeDescLen = 12

// Merge combines the primary engine's transactions with a fallback
// strategy's, dropping fallback records that duplicate a primary one
// on (date, amount, leading description). The host invokes the
// fallback only when the primary yields zero transactions, so in
// practice one side is usually empty; the dedup guards the boundary.
func Merge(primary, fallback []models.Transaction) []models.Transaction {
	seen := make(map[string]struct{}, len(primary))
	for _, t := range primary {
		seen[mergeKey(t)] = struct{}{}
	}
	out := append([]models.Transaction(nil), primary...)
	for _, t := range fallback {
		if _, dup := seen[mergeKey(t)]; dup {
			continue
		}
		seen[mergeKey(t)] = struct{}{}
		out = append(out, t)
	}
	return out
}

func mergeKey(t models.Transaction) string {
	amount := t.Debit
	if amount == "" {
		amount = t.Credit
	}
	desc := t.Description
	if len(desc) > dedupeDescLen {
		desc = desc[:dedupeDescLen]
	}
	return t.Date + "|" + amount + "|" + desc
}
