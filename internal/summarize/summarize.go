// Package summarize folds a finished transaction sequence into
// per-category and grand totals, emitted as synthetic trailer rows.
package summarize

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-extract/internal/models"
	"github.com/insightdelivered/statement-extract/internal/money"
)

// GrandTotalLabel titles the final trailer row.
const GrandTotalLabel = "TOTAL"

// SubtotalPrefix titles the per-category trailer rows.
const SubtotalPrefix = "SUBTOTAL: "

type totals struct {
	debit  decimal.Decimal
	credit decimal.Decimal
}

// Build returns one subtotal row per category with a nonzero debit or
// credit total, in first-seen category order, followed by one grand
// total row. The input sequence is never mutated or reordered;
// unparseable amounts are ignored. Transactions without a category
// count toward the grand total only.
func Build(txns []models.Transaction) []models.SummaryRow {
	if len(txns) == 0 {
		return nil
	}

	var order []string
	perCategory := make(map[string]*totals)
	var grand totals

	for _, t := range txns {
		debit := parseOrZero(t.Debit)
		credit := parseOrZero(t.Credit)
		grand.debit = grand.debit.Add(debit)
		grand.credit = grand.credit.Add(credit)

		if t.Category == "" {
			continue
		}
		tot, ok := perCategory[t.Category]
		if !ok {
			tot = &totals{}
			perCategory[t.Category] = tot
			order = append(order, t.Category)
		}
		tot.debit = tot.debit.Add(debit)
		tot.credit = tot.credit.Add(credit)
	}

	rows := make([]models.SummaryRow, 0, len(order)+1)
	for _, cat := range order {
		tot := perCategory[cat]
		if tot.debit.IsZero() && tot.credit.IsZero() {
			continue
		}
		rows = append(rows, models.SummaryRow{
			Label:  SubtotalPrefix + cat,
			Debit:  formatNonzero(tot.debit),
			Credit: formatNonzero(tot.credit),
		})
	}
	rows = append(rows, models.SummaryRow{
		Label:  GrandTotalLabel,
		Debit:  formatNonzero(grand.debit),
		Credit: formatNonzero(grand.credit),
	})
	return rows
}

func parseOrZero(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// formatNonzero keeps the absent-vs-empty distinction: a zero total
// renders as the empty string, not "0.00".
func formatNonzero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return money.Format(d)
}
