package engine

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/statement-extract/internal/models"
)

// HSBC extracts transactions from HSBC UK statement text.
//
// Layout: Date | Payment type and details | Paid out | Paid in | Balance
// Dates: "15 Jan 24", "15-Jan-24" or "15/01/2024". Multi-line payment
// details are common; the payee usually sits on its own line under the
// payment-type line.
type HSBC struct {
	logger *log.Logger
}

// NewHSBC returns an HSBC engine. The logger may be nil.
func NewHSBC(logger *log.Logger) *HSBC {
	return &HSBC{logger: logger}
}

func (e *HSBC) Name() string {
	return string(models.InstitutionHSBC)
}

// Extract runs one parse pass over the statement text.
func (e *HSBC) Extract(ctx context.Context, text string) (*models.Statement, error) {
	return run(ctx, text, hsbcProfile(), e.logger)
}

func hsbcProfile() *profile {
	return &profile{
		institution: models.InstitutionHSBC,
		detectWords: []string{"hsbc", "hsbc.co.uk", "hsbc uk bank"},
		// "paid" covers headers whose "details" column arrives with
		// spread characters from PDF extraction.
		isHeader: headerMatcher(
			[]string{"description", "details", "payment type", "paid"},
			[]string{"paid", "amount", "balance", "withdrawal", "deposit", "money"},
		),
		sectionEndWords: []string{
			"balance carried forward", "closing balance", "end balance",
			"total payments", "total receipts", "totals for",
		},
		skipWords: []string{
			"page ", "continued", "statement period", "sheet number",
			"financial conduct", "registered in", "authorised by",
		},
		openingBalanceWords: []string{
			"opening balance", "balance brought forward", "brought forward",
		},
		recipientMarkers: []string{
			"payment to", "payment from", "transfer to", "transfer from",
			"fast payment", "faster payment", "standing order",
			"direct debit", "direct credit", "advice", "card", "payroll", "salary",
		},
		debitWords: []string{
			"card payment", "direct debit", "withdrawal", "payment to",
			"purchase", "standing order", "transfer to", "fee", "charge",
			"atm", "pos ", "cheque paid", "bill payment",
		},
		creditWords: []string{
			"direct credit", "credit from", "payment from", "transfer from",
			"salary", "interest paid", "refund", "bgc", "bacs credit",
			"deposit", "received from",
		},
	}
}
