package engine

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-extract/internal/money"
)

// reconcileTolerance is the penny slack allowed between a recorded
// amount and the balance arithmetic before the reconciler overrides.
var reconcileTolerance = decimal.NewFromFloat(0.01)

// reconcile cross-checks a draft's declared balance against the
// running balance and corrects the debit/credit assignment when they
// disagree. Balance arithmetic is ground truth when available, so this
// overrides the keyword heuristics; it runs exactly once per draft,
// after amount assignment, before the draft is pushed.
//
// Skipped when either balance is missing or the running balance has
// not been initialized yet (non-positive). A nil draft is a
// programming error.
func reconcile(d *draft, ctx *Context) {
	if d == nil {
		panic("engine: reconcile called without a draft")
	}
	if d.balance == nil || ctx.LastKnownBalance.Sign() <= 0 {
		return
	}

	delta := d.balance.Sub(ctx.LastKnownBalance)
	switch delta.Sign() {
	case -1:
		expected := delta.Abs()
		if d.debit == nil || d.debit.Sub(expected).Abs().GreaterThan(reconcileTolerance) {
			ctx.Logger.Debug("reconciler overriding debit",
				"expected", money.Format(expected), "balance", money.Format(*d.balance))
			d.debit = &expected
			d.credit = nil
			d.twoLegs = false
		}
	case 1:
		expected := delta
		if d.credit == nil || d.credit.Sub(expected).Abs().GreaterThan(reconcileTolerance) {
			ctx.Logger.Debug("reconciler overriding credit",
				"expected", money.Format(expected), "balance", money.Format(*d.balance))
			d.credit = &expected
			d.debit = nil
			d.twoLegs = false
		}
	}
}
