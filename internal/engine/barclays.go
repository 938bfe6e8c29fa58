package engine

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/statement-extract/internal/models"
	"github.com/insightdelivered/statement-extract/internal/money"
)

// Barclays extracts transactions from Barclays statement text.
//
// Two layouts exist in the wild:
//
// Standard: Date | Description | Money out | Money in | Balance with
// slash or "15 Jan 2024" dates.
//
// Business: arrow-separated columns and year-less "5 Dec" dates that
// appear only on the first transaction of a day:
//
//	"4 Dec Start Balance → 9,856.68"
//	"On-Line Banking Bill Payment to → 400.00 → 9,456.68"
//	"Ref: Antalis Limited" (continuation)
//
// Arrows are flattened to spaces before classification; dateless rows
// that carry amounts and a directional keyword open their own drafts.
type Barclays struct {
	logger *log.Logger
}

// NewBarclays returns a Barclays engine. The logger may be nil.
func NewBarclays(logger *log.Logger) *Barclays {
	return &Barclays{logger: logger}
}

func (e *Barclays) Name() string {
	return string(models.InstitutionBarclays)
}

// Extract runs one parse pass over the statement text.
func (e *Barclays) Extract(ctx context.Context, text string) (*models.Statement, error) {
	return run(ctx, text, barclaysProfile(), e.logger)
}

func barclaysProfile() *profile {
	p := &profile{
		institution: models.InstitutionBarclays,
		detectWords: []string{"barclays", "barclays.co.uk"},
		preprocess: func(line string) string {
			line = strings.ReplaceAll(line, "→", "  ")
			return strings.TrimSpace(line)
		},
		isHeader: headerMatcher(
			[]string{"description", "details"},
			[]string{"money out", "money in", "balance", "amount"},
		),
		sectionEndWords: []string{
			"balance carried forward", "end balance", "closing balance",
			"total payments", "total receipts",
		},
		skipWords: []string{
			"page ", "continued", "at a glance", "your deposit is eligible",
			"compensation scheme", "issued on", "swiftbic", "iban gb",
			"anything wrong", "barclays bank", "registered in",
			"authorised by", "financial conduct", "prudential regulation",
			// FX detail rows carry decimals that are rates, not amounts.
			"exchange rate", "non-sterling transaction fee", "final gbp amount",
		},
		openingBalanceWords: []string{
			"start balance", "balance brought forward", "opening balance",
		},
		recipientMarkers: []string{
			"payment to", "payment from", "transfer to", "transfer from",
			"direct debit to", "direct credit from", "bill payment",
			"standing order", "advice", "card", "payroll", "salary", "ref:",
		},
		debitWords: []string{
			"card payment", "direct debit", "bill payment", "payment to",
			"withdrawal", "standing order", "transfer to", "purchase",
			"fee", "charge", "atm", "commission",
		},
		creditWords: []string{
			"direct credit", "credit from", "received from", "transfer from",
			"payment from", "salary", "refund", "interest paid",
			"bgc", "bacs credit", "giro credit",
		},
		shortDates: true,
	}
	p.datelessAnchor = func(line string) bool {
		toks := money.Tokenize(line)
		if len(toks) < 2 {
			return false
		}
		// The row must lead with transaction text, not be a stray
		// numeric column fragment.
		if toks[0].Start < 4 {
			return false
		}
		deb, cred := p.directionScores(line[:toks[0].Start])
		return deb+cred > 0
	}
	return p
}
