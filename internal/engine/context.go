package engine

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

// Context is the running state of one parse pass: the section gate,
// the most recently confirmed balance and the current account. It is
// created fresh for every document and threaded explicitly through the
// classifier, accumulator and reconciler — never shared across
// documents or goroutines.
type Context struct {
	// LastKnownBalance is the balance of the most recently finalized
	// transaction. A non-positive value means not yet initialized;
	// the reconciler skips its check until the first real balance
	// lands.
	LastKnownBalance decimal.Decimal

	// Account is the account or card identifier currently in effect,
	// updated when metadata lines carry a new one.
	Account string

	// InSection reports whether the scanner sits between a detected
	// transaction-table header and its terminating marker.
	InSection bool

	// Year resolves year-less "D Mon" dates, taken from the statement
	// period metadata.
	Year string

	Logger *log.Logger
}

// NewContext returns a fresh per-document parse context. A nil logger
// is replaced with a silent one so call sites never nil-check.
func NewContext(logger *log.Logger) *Context {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Context{Logger: logger}
}
