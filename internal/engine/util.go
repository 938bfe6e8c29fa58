package engine

import (
	"regexp"
	"strings"
)

// Date shapes seen across UK statement layouts.
var (
	// DD/MM/YYYY or DD/MM/YY
	datePatternSlash = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`)
	// DD Mon YYYY or DD Mon YY (e.g., 15 Jan 2024)
	datePatternText = regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})\b`)
	// DD-Mon-YYYY or DD-Mon-YY
	datePatternDash = regexp.MustCompile(`(?i)\b(\d{1,2}-(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*-\d{2,4})\b`)
	// DD Mon with no year (e.g., "4 Dec") — business statements resolve
	// these against the statement period year.
	datePatternShort = regexp.MustCompile(`(?i)^(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec))(?:\s|$)`)
)

// leadingDate returns the date token starting within the first few
// characters of the line, or "" when the line is not date-anchored.
func leadingDate(line string) string {
	line = strings.TrimSpace(line)
	for _, pat := range []*regexp.Regexp{datePatternSlash, datePatternText, datePatternDash} {
		if loc := pat.FindStringIndex(line); loc != nil && loc[0] < 3 {
			return line[loc[0]:loc[1]]
		}
	}
	return ""
}

// leadingShortDate returns a year-less "D Mon" token from the start of
// the line, or "".
func leadingShortDate(line string) string {
	if m := datePatternShort.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
		return m[1]
	}
	return ""
}

// normalizeLine cleans common text-extraction artifacts before
// classification.
func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "Â£", "£")
	line = strings.ReplaceAll(line, "​", "")
	line = strings.ReplaceAll(line, " ", " ")
	return strings.TrimSpace(line)
}

// sanitizeOCRAmounts fixes punctuation that OCR commonly misreads
// inside numbers (semicolons and colons in place of decimal points).
func sanitizeOCRAmounts(line string) string {
	line = regexp.MustCompile(`(\d);(\s*)(\d)`).ReplaceAllString(line, "$1.$3")
	line = regexp.MustCompile(`(\d):(\d)`).ReplaceAllString(line, "$1.$2")
	line = regexp.MustCompile(`(\d):\s`).ReplaceAllString(line, "$1 ")
	line = regexp.MustCompile(`(\d):$`).ReplaceAllString(line, "$1")
	line = regexp.MustCompile(`\s+NA\b`).ReplaceAllString(line, "")
	return line
}

// Statement-level metadata patterns.
var (
	accountNumberPattern = regexp.MustCompile(`\b(\d{8})\b`)
	sortCodePattern      = regexp.MustCompile(`\b(\d{2}-\d{2}-\d{2})\b`)
	yearPattern          = regexp.MustCompile(`\b(20\d{2})\b`)
)

func findAccountNumber(text string) string {
	return accountNumberPattern.FindString(text)
}

func findSortCode(text string) string {
	return sortCodePattern.FindString(text)
}

// nameNearLabel finds holder names sitting after labels like
// "Account holder:" anywhere in the text.
func nameNearLabel(text string, labels []string) string {
	for _, line := range strings.Split(text, "\n") {
		for _, label := range labels {
			idx := strings.Index(line, label)
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(line[idx+len(label):])
			rest = strings.TrimPrefix(rest, ":")
			rest = strings.TrimSpace(rest)
			if rest != "" {
				parts := strings.Split(rest, "  ")
				return strings.TrimSpace(parts[0])
			}
		}
	}
	return ""
}

// findPeriod locates a "statement period" line and returns its date
// range as "start to end".
func findPeriod(text string) string {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "statement period") && !strings.Contains(lower, "period") {
			continue
		}
		if dates := datePatternSlash.FindAllString(line, 2); len(dates) == 2 {
			return dates[0] + " to " + dates[1]
		}
		if dates := datePatternText.FindAllString(line, 2); len(dates) == 2 {
			return dates[0] + " to " + dates[1]
		}
	}
	return ""
}

// yearFromPeriod pulls a four-digit year out of the statement period
// so short dates can be resolved to full ones.
func yearFromPeriod(period string) string {
	return yearPattern.FindString(period)
}

func containsAnyFold(line string, needles []string) bool {
	lower := strings.ToLower(line)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
