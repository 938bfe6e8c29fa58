// Package extractor acquires raw statement text from PDF files. The
// extraction engine itself only ever sees the resulting string.
package extractor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a PDF file and returns the text of each page.
// Row-based extraction is tried first for its layout preservation,
// then plain-text extraction. Garbage output (custom font encodings,
// scanned images) is rejected rather than returned.
func ExtractText(filePath string) (pages []string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("PDF extraction crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r)
	if readable(pages) {
		return pages, nil
	}

	pages = extractPlainText(r)
	if readable(pages) {
		return pages, nil
	}

	return nil, fmt.Errorf("no readable text could be extracted; the PDF may be image-based or use custom font encodings")
}

// ExtractTextCombined returns the whole document as one string, the
// shape the extraction engine consumes.
func ExtractTextCombined(filePath string) (string, error) {
	pages, err := ExtractText(filePath)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

func extractByRow(r *pdf.Reader) []string {
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	return pages
}

func extractPlainText(r *pdf.Reader) []string {
	var pages []string
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

// statementWords appear in virtually every statement; extracted text
// containing none of them is treated as garbage.
var statementWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "paid",
}

// readable requires enough text, a high ratio of plain ASCII, and at
// least one recognizable statement word.
func readable(pages []string) bool {
	total, ok := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if unicode.IsSpace(r) ||
				(r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r))) ||
				strings.ContainsRune(".,-/:;()'\"%&@#!?+=*£$€", r) {
				ok++
			}
		}
	}
	if total <= 50 || float64(ok)/float64(total) <= 0.6 {
		return false
	}
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, w := range statementWords {
		if strings.Contains(combined, w) {
			return true
		}
	}
	return false
}
