package models

// Institution identifies a supported statement layout.
type Institution string

const (
	InstitutionHSBC     Institution = "hsbc"
	InstitutionBarclays Institution = "barclays"
	// InstitutionGeneric is the layout-agnostic fallback strategy.
	InstitutionGeneric Institution = "generic"
)

// Transaction is an immutable snapshot of a finalized transaction.
// All fields are strings; an empty string means the field is absent,
// which the serialization layer must preserve verbatim. Amounts carry
// exactly two fraction digits with thousands separators stripped.
//
// At most one of Debit/Credit is set, except when directional keyword
// scoring ties at a nonzero score and the transaction is deliberately
// recorded with both legs.
type Transaction struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Balance     string `json:"balance"`
	Account     string `json:"account,omitempty"`
	Category    string `json:"category,omitempty"`
}

// SummaryRow is a synthetic trailer row carrying aggregated totals.
// It never participates in reconciliation.
type SummaryRow struct {
	Label  string `json:"label"`
	Debit  string `json:"debit"`
	Credit string `json:"credit"`
}

// RecordKind tags the two record shapes that cross the output boundary.
type RecordKind string

const (
	KindTransaction RecordKind = "transaction"
	KindSummary     RecordKind = "summary"
)

// Record is the tagged union emitted to writers and API responses:
// either a real transaction or a summary trailer row, with a fixed
// field set. Fields not applicable to the kind stay empty.
type Record struct {
	Kind        RecordKind `json:"kind"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Debit       string     `json:"debit"`
	Credit      string     `json:"credit"`
	Balance     string     `json:"balance"`
	Account     string     `json:"account,omitempty"`
	Category    string     `json:"category,omitempty"`
}

// TransactionRecord wraps a finalized transaction as an output record.
func TransactionRecord(t Transaction) Record {
	return Record{
		Kind:        KindTransaction,
		Date:        t.Date,
		Description: t.Description,
		Debit:       t.Debit,
		Credit:      t.Credit,
		Balance:     t.Balance,
		Account:     t.Account,
		Category:    t.Category,
	}
}

// SummaryRecord wraps a summary row as an output record. Date, balance
// and category remain blank.
func SummaryRecord(s SummaryRow) Record {
	return Record{
		Kind:        KindSummary,
		Description: s.Label,
		Debit:       s.Debit,
		Credit:      s.Credit,
	}
}

// Statement holds everything recovered from one document: account
// metadata plus the finalized transactions in document order.
type Statement struct {
	Institution     Institution
	AccountHolder   string
	AccountNumber   string
	SortCode        string
	StatementPeriod string
	Transactions    []Transaction
}
