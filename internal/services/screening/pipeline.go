package screening

import (
	"context"
	"fmt"
	"time"

	"antifraud/internal/models"
	"antifraud/internal/repositories"
)

// Rule is one step of the scoring pipeline.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, s *Scope, acc *Accumulator) error
}

// Scope is what a rule can see while scoring one transaction. It is not
// safe for concurrent use; each scoring pass gets its own.
type Scope struct {
	Transaction *models.Transaction
	Blocklist   repositories.BlocklistRepository
	History     repositories.TransactionRepository
	Limits      ThresholdStore
	Window      time.Duration

	recent       []models.Transaction
	recentLoaded bool
}

// RecentOnCard returns the transactions on the same card dated within
// [date-window, date). The query runs once per scope.
func (s *Scope) RecentOnCard(ctx context.Context) ([]models.Transaction, error) {
	if s.recentLoaded {
		return s.recent, nil
	}
	to := s.Transaction.Date
	from := to.Add(-s.Window)
	recent, err := s.History.FindByCardInWindow(ctx, s.Transaction.Number, from, to)
	if err != nil {
		return nil, err
	}
	s.recent = recent
	s.recentLoaded = true
	return recent, nil
}

// Accumulator carries the verdict and reasons through the pipeline. The
// verdict can only be raised.
type Accumulator struct {
	verdict models.Verdict
	reasons models.Reasons
}

func NewAccumulator() *Accumulator {
	return &Accumulator{verdict: models.VerdictAllowed}
}

func (a *Accumulator) Escalate(v models.Verdict) {
	a.verdict = a.verdict.Escalate(v)
}

func (a *Accumulator) Flag(r models.Reason) {
	a.reasons.Add(r)
}

func (a *Accumulator) Verdict() models.Verdict {
	return a.verdict
}

// Reasons returns a copy of the reasons flagged so far.
func (a *Accumulator) Reasons() models.Reasons {
	out := make(models.Reasons, len(a.reasons))
	copy(out, a.reasons)
	return out
}

// Pipeline runs rules in order. The order is significant: the amount rule
// looks at the reasons added before it.
type Pipeline struct {
	rules []Rule
}

func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: rules}
}

// DefaultRules returns the production rule order.
func DefaultRules() []Rule {
	return []Rule{
		IPBlocklistRule{},
		StolenCardRule{},
		NewIPCorrelationRule(),
		NewRegionCorrelationRule(),
		AmountRule{},
	}
}

func (p *Pipeline) Rules() []Rule {
	return p.rules
}

// Run evaluates every rule and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context, s *Scope) (*Accumulator, error) {
	acc := NewAccumulator()
	for _, rule := range p.rules {
		if err := rule.Evaluate(ctx, s, acc); err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
	}
	return acc, nil
}
