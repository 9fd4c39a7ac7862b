package screening

import (
	"context"

	appErrors "antifraud/internal/errors"
	"antifraud/internal/models"
)

// IPBlocklistRule prohibits transactions from a suspicious IP.
type IPBlocklistRule struct{}

func (IPBlocklistRule) Name() string { return "ip-blocklist" }

func (IPBlocklistRule) Evaluate(ctx context.Context, s *Scope, acc *Accumulator) error {
	hit, err := s.Blocklist.IsSuspiciousIP(ctx, s.Transaction.IP)
	if err != nil {
		return appErrors.ErrBlocklistUnavailable.WithCause(err)
	}
	if hit {
		acc.Escalate(models.VerdictProhibited)
		acc.Flag(models.ReasonIP)
	}
	return nil
}

// StolenCardRule prohibits transactions on a stolen card.
type StolenCardRule struct{}

func (StolenCardRule) Name() string { return "stolen-card" }

func (StolenCardRule) Evaluate(ctx context.Context, s *Scope, acc *Accumulator) error {
	hit, err := s.Blocklist.IsStolenCard(ctx, s.Transaction.Number)
	if err != nil {
		return appErrors.ErrBlocklistUnavailable.WithCause(err)
	}
	if hit {
		acc.Escalate(models.VerdictProhibited)
		acc.Flag(models.ReasonCardNumber)
	}
	return nil
}

// CorrelationRule counts distinct values of one attribute across the recent
// transactions on the same card, ignoring the candidate's own value.
// Exactly correlationLimit distinct values flags the reason and raises to
// MANUAL_PROCESSING; more prohibits.
type CorrelationRule struct {
	name   string
	reason models.Reason
	key    func(*models.Transaction) string
}

func NewIPCorrelationRule() CorrelationRule {
	return CorrelationRule{
		name:   "ip-correlation",
		reason: models.ReasonIPCorrelation,
		key:    func(tx *models.Transaction) string { return tx.IP },
	}
}

func NewRegionCorrelationRule() CorrelationRule {
	return CorrelationRule{
		name:   "region-correlation",
		reason: models.ReasonRegionCorrelation,
		key:    func(tx *models.Transaction) string { return string(tx.Region) },
	}
}

func (r CorrelationRule) Name() string { return r.name }

func (r CorrelationRule) Evaluate(ctx context.Context, s *Scope, acc *Accumulator) error {
	recent, err := s.RecentOnCard(ctx)
	if err != nil {
		return appErrors.ErrStorageUnavailable.WithCause(err)
	}

	own := r.key(s.Transaction)
	distinct := make(map[string]struct{})
	for i := range recent {
		if v := r.key(&recent[i]); v != own {
			distinct[v] = struct{}{}
		}
	}

	switch n := len(distinct); {
	case n > correlationLimit:
		acc.Escalate(models.VerdictProhibited)
		acc.Flag(r.reason)
	case n == correlationLimit:
		// No-op on the verdict if an earlier rule already prohibited.
		acc.Escalate(models.VerdictManualProcessing)
		acc.Flag(r.reason)
	}
	return nil
}

// AmountRule compares the amount against the live limits. The manual
// review branch only applies when no earlier rule flagged anything.
type AmountRule struct{}

func (AmountRule) Name() string { return "amount" }

func (AmountRule) Evaluate(_ context.Context, s *Scope, acc *Accumulator) error {
	limits := s.Limits.Snapshot()
	amount := s.Transaction.Amount

	switch {
	case amount > limits.MaxManualProcessing:
		acc.Escalate(models.VerdictProhibited)
		acc.Flag(models.ReasonAmount)
	case amount > limits.MaxAllowed && acc.Reasons().Empty():
		acc.Escalate(models.VerdictManualProcessing)
		acc.Flag(models.ReasonAmount)
	}
	return nil
}
