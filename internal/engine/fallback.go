package engine

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/statement-extract/internal/models"
)

// Fallback is the best-effort alternate strategy: no institution
// assumptions, just date-anchored lines with trailing amounts. Hosts
// invoke it when the primary engine returns zero transactions and
// merge the results with Merge.
type Fallback struct {
	logger *log.Logger
}

// NewFallback returns the generic fallback engine. The logger may be
// nil.
func NewFallback(logger *log.Logger) *Fallback {
	return &Fallback{logger: logger}
}

func (e *Fallback) Name() string {
	return string(models.InstitutionGeneric)
}

// Extract runs the generic parse pass.
func (e *Fallback) Extract(ctx context.Context, text string) (*models.Statement, error) {
	return run(ctx, text, genericProfile(), e.logger)
}

// genericProfile accepts any common UK statement vocabulary. Header
// detection is the permissive union of the institution profiles; the
// section gate still opens implicitly on the first date anchor.
func genericProfile() *profile {
	return &profile{
		institution: models.InstitutionGeneric,
		isHeader: headerMatcher(
			[]string{"description", "details", "transaction", "paid"},
			[]string{"amount", "paid", "balance", "money", "withdrawal", "deposit", "debit", "credit"},
		),
		sectionEndWords: []string{
			"balance carried forward", "closing balance", "end balance",
			"total payments", "total receipts",
		},
		skipWords: []string{"page ", "continued", "statement period"},
		openingBalanceWords: []string{
			"opening balance", "balance brought forward", "brought forward",
			"start balance",
		},
		recipientMarkers: []string{
			"payment to", "payment from", "transfer to", "transfer from",
			"fast payment", "standing order", "direct debit", "direct credit",
			"advice", "card", "payroll", "salary",
		},
		debitWords: []string{
			"card payment", "direct debit", "withdrawal", "payment to",
			"purchase", "standing order", "transfer to", "fee", "charge",
			"atm", "bill payment",
		},
		creditWords: []string{
			"direct credit", "credit from", "payment from", "transfer from",
			"salary", "interest paid", "refund", "bgc", "bacs credit",
			"deposit", "received from",
		},
		shortDates: true,
	}
}
