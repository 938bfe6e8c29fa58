// Package writer serializes extraction results to CSV. Field
// presence is significant: an empty record field stays an empty cell.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-extract/internal/models"
)

// CSVWriter writes the output record sequence to CSV.
type CSVWriter struct {
	// IncludeHeader adds account metadata comment rows before the
	// column header.
	IncludeHeader bool
}

// WriteToFile writes the records to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, st *models.Statement, records []models.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, st, records)
}

// Write writes metadata rows, the column header and one row per
// record to out. Summary rows serialize with the same column set as
// transactions, their date/balance/category cells blank.
func (w *CSVWriter) Write(out io.Writer, st *models.Statement, records []models.Record) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if w.IncludeHeader && st != nil {
		meta := [][2]string{
			{"# Institution", string(st.Institution)},
			{"# Account Holder", st.AccountHolder},
			{"# Account Number", st.AccountNumber},
			{"# Sort Code", st.SortCode},
			{"# Statement Period", st.StatementPeriod},
		}
		for _, m := range meta {
			if m[1] == "" {
				continue
			}
			if err := cw.Write([]string{m[0], m[1]}); err != nil {
				return fmt.Errorf("failed to write metadata row: %w", err)
			}
		}
	}

	header := []string{"Date", "Description", "Debit", "Credit", "Balance", "Account", "Category"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{r.Date, r.Description, r.Debit, r.Credit, r.Balance, r.Account, r.Category}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return cw.Error()
}
