package writer

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-extract/internal/models"
)

func sampleStatement() *models.Statement {
	return &models.Statement{
		Institution:     models.InstitutionHSBC,
		AccountHolder:   "MR J SMITH",
		AccountNumber:   "12345678",
		SortCode:        "40-12-34",
		StatementPeriod: "1 December 2024 to 31 December 2024",
	}
}

func TestWriteRows(t *testing.T) {
	records := []models.Record{
		models.TransactionRecord(models.Transaction{
			Date:        "01/12/2024",
			Description: "CARD PAYMENT TESCO",
			Debit:       "25.99",
			Balance:     "1234.56",
			Account:     "12345678",
			Category:    "Groceries",
		}),
		models.SummaryRecord(models.SummaryRow{Label: "TOTAL", Debit: "25.99"}),
	}

	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, sampleStatement(), records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t,
		[]string{"Date", "Description", "Debit", "Credit", "Balance", "Account", "Category"},
		rows[0])
	assert.Equal(t,
		[]string{"01/12/2024", "CARD PAYMENT TESCO", "25.99", "", "1234.56", "12345678", "Groceries"},
		rows[1])
	// Summary rows keep the transaction column set with blanks.
	assert.Equal(t,
		[]string{"", "TOTAL", "25.99", "", "", "", ""},
		rows[2])
}

func TestWriteMetadataHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, sampleStatement(), nil))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, []string{"# Institution", "hsbc"}, rows[0])
	assert.Equal(t, []string{"# Account Holder", "MR J SMITH"}, rows[1])
	assert.Equal(t, []string{"# Account Number", "12345678"}, rows[2])
	assert.Equal(t, []string{"# Sort Code", "40-12-34"}, rows[3])
	assert.Equal(t, []string{"# Statement Period", "1 December 2024 to 31 December 2024"}, rows[4])
	assert.Equal(t, "Date", rows[5][0])
}

func TestWriteSkipsEmptyMetadata(t *testing.T) {
	st := &models.Statement{Institution: models.InstitutionBarclays}

	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, st, nil))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"# Institution", "barclays"}, rows[0])
}
