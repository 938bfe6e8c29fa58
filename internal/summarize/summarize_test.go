package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-extract/internal/models"
)

func TestBuildEmptyInput(t *testing.T) {
	assert.Nil(t, Build(nil))
	assert.Nil(t, Build([]models.Transaction{}))
}

func TestBuildSubtotalsAndGrandTotal(t *testing.T) {
	txns := []models.Transaction{
		{Date: "01/12/2024", Description: "TESCO STORES", Debit: "25.99", Category: "Groceries"},
		{Date: "02/12/2024", Description: "SALARY ACME", Credit: "2,500.00", Category: "Salary"},
		{Date: "03/12/2024", Description: "SAINSBURYS", Debit: "14.01", Category: "Groceries"},
		{Date: "04/12/2024", Description: "REFUND AMAZON", Credit: "9.99", Category: "Refund"},
	}

	rows := Build(txns)
	require.Len(t, rows, 4)

	// First-seen category order, grand total last.
	assert.Equal(t, "SUBTOTAL: Groceries", rows[0].Label)
	assert.Equal(t, "40.00", rows[0].Debit)
	assert.Equal(t, "", rows[0].Credit)

	assert.Equal(t, "SUBTOTAL: Salary", rows[1].Label)
	assert.Equal(t, "2500.00", rows[1].Credit)

	assert.Equal(t, "SUBTOTAL: Refund", rows[2].Label)
	assert.Equal(t, "9.99", rows[2].Credit)

	assert.Equal(t, GrandTotalLabel, rows[3].Label)
	assert.Equal(t, "40.00", rows[3].Debit)
	assert.Equal(t, "2509.99", rows[3].Credit)
}

func TestBuildUncategorizedCountsTowardGrandTotalOnly(t *testing.T) {
	txns := []models.Transaction{
		{Date: "01/12/2024", Description: "MISC", Debit: "10.00"},
		{Date: "02/12/2024", Description: "TESCO", Debit: "5.00", Category: "Groceries"},
	}

	rows := Build(txns)
	require.Len(t, rows, 2)
	assert.Equal(t, "SUBTOTAL: Groceries", rows[0].Label)
	assert.Equal(t, "5.00", rows[0].Debit)
	assert.Equal(t, "15.00", rows[1].Debit)
}

func TestBuildZeroCategoryTotalOmitted(t *testing.T) {
	// A refund that fully cancels a purchase leaves the category at
	// zero on both sides; no subtotal row should appear for it.
	txns := []models.Transaction{
		{Date: "01/12/2024", Description: "ARGOS", Debit: "30.00", Category: "Shopping"},
		{Date: "02/12/2024", Description: "ARGOS REVERSAL", Debit: "(30.00)", Category: "Shopping"},
		{Date: "03/12/2024", Description: "TESCO", Debit: "8.50", Category: "Groceries"},
	}

	rows := Build(txns)
	require.Len(t, rows, 2)
	assert.Equal(t, "SUBTOTAL: Groceries", rows[0].Label)
	assert.Equal(t, GrandTotalLabel, rows[1].Label)
	assert.Equal(t, "8.50", rows[1].Debit)
}

func TestBuildUnparseableAmountsIgnored(t *testing.T) {
	txns := []models.Transaction{
		{Date: "01/12/2024", Description: "BAD ROW", Debit: "n/a", Category: "Bills"},
		{Date: "02/12/2024", Description: "GOOD ROW", Debit: "12.00", Category: "Bills"},
	}

	rows := Build(txns)
	require.Len(t, rows, 2)
	assert.Equal(t, "12.00", rows[0].Debit)
	assert.Equal(t, "12.00", rows[1].Debit)
}
