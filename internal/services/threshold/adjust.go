package threshold

import (
	"antifraud/internal/models"

	"github.com/shopspring/decimal"
)

// Direction says whether a limit moves towards (Widen) or away from (Narrow)
// the reviewed amount.
type Direction int

const (
	Narrow Direction = iota
	Widen
)

var (
	limitWeight  = decimal.New(8, -1) // 0.8
	amountWeight = decimal.New(2, -1) // 0.2
)

// Adjust computes ceil(0.8*limit ± 0.2*amount) in exact decimal arithmetic.
func Adjust(limit, amount int64, d Direction) int64 {
	l := decimal.NewFromInt(limit).Mul(limitWeight)
	a := decimal.NewFromInt(amount).Mul(amountWeight)

	var next decimal.Decimal
	if d == Widen {
		next = l.Add(a)
	} else {
		next = l.Sub(a)
	}
	return next.Ceil().IntPart()
}

// AdjustmentFor returns the limits transform for a reviewer correcting result
// to feedback on a transaction of the given amount. ok is false when the pair
// has no effect (equal or unknown verdicts).
func AdjustmentFor(feedback, result models.Verdict, amount int64) (adj Adjustment, ok bool) {
	allowed := func(d Direction) Adjustment {
		return func(l Limits) Limits {
			l.MaxAllowed = Adjust(l.MaxAllowed, amount, d)
			return l
		}
	}
	manual := func(d Direction) Adjustment {
		return func(l Limits) Limits {
			l.MaxManualProcessing = Adjust(l.MaxManualProcessing, amount, d)
			return l
		}
	}
	both := func(d Direction) Adjustment {
		return func(l Limits) Limits {
			return manual(d)(allowed(d)(l))
		}
	}

	switch feedback {
	case models.VerdictAllowed:
		switch result {
		case models.VerdictManualProcessing:
			return allowed(Widen), true
		case models.VerdictProhibited:
			return both(Widen), true
		}
	case models.VerdictManualProcessing:
		switch result {
		case models.VerdictAllowed:
			return allowed(Narrow), true
		case models.VerdictProhibited:
			return manual(Widen), true
		}
	case models.VerdictProhibited:
		switch result {
		case models.VerdictAllowed:
			return both(Narrow), true
		case models.VerdictManualProcessing:
			return manual(Narrow), true
		}
	}
	return nil, false
}
