package screening

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"antifraud/internal/models"
	"antifraud/internal/repositories/memory"
	"antifraud/internal/services/threshold"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cardA = "4532015112830366"
	cardB = "5425233430109903"
)

var baseDate = time.Date(2022, 1, 22, 16, 4, 0, 0, time.UTC)

type fixture struct {
	history   *memory.TransactionRepository
	blocklist *memory.Blocklist
	limits    *threshold.Store
}

func newFixture() *fixture {
	return &fixture{
		history:   memory.NewTransactionRepository(),
		blocklist: memory.NewBlocklist([]string{"192.168.1.66"}, []string{"4000008449433403"}),
		limits:    threshold.NewStore(threshold.DefaultLimits()),
	}
}

func (f *fixture) seed(t *testing.T, number, ip string, region models.Region, date time.Time) {
	t.Helper()
	require.NoError(t, f.history.Save(context.Background(), &models.Transaction{
		Amount: 10,
		IP:     ip,
		Number: number,
		Region: region,
		Date:   date,
		Result: models.VerdictAllowed,
	}))
}

func (f *fixture) run(t *testing.T, tx *models.Transaction) *Accumulator {
	t.Helper()
	scope := &Scope{
		Transaction: tx,
		Blocklist:   f.blocklist,
		History:     f.history,
		Limits:      f.limits,
		Window:      time.Hour,
	}
	acc, err := NewPipeline(DefaultRules()...).Run(context.Background(), scope)
	require.NoError(t, err)
	return acc
}

func candidate(amount int64, ip, number string, region models.Region) *models.Transaction {
	return &models.Transaction{
		Amount: amount,
		IP:     ip,
		Number: number,
		Region: region,
		Date:   baseDate,
	}
}

func TestDefaultRules_Order(t *testing.T) {
	var names []string
	for _, r := range NewPipeline(DefaultRules()...).Rules() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"ip-blocklist", "stolen-card", "ip-correlation", "region-correlation", "amount"}, names)
}

func TestPipeline_AmountRule(t *testing.T) {
	tests := []struct {
		amount  int64
		verdict models.Verdict
		reasons string
	}{
		{1, models.VerdictAllowed, "none"},
		{200, models.VerdictAllowed, "none"},
		{201, models.VerdictManualProcessing, "amount"},
		{1500, models.VerdictManualProcessing, "amount"},
		{1501, models.VerdictProhibited, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.reasons+"/"+string(tt.verdict), func(t *testing.T) {
			f := newFixture()
			acc := f.run(t, candidate(tt.amount, "10.0.0.1", cardA, models.RegionEAP))
			assert.Equal(t, tt.verdict, acc.Verdict())
			assert.Equal(t, tt.reasons, acc.Reasons().String())
		})
	}
}

func TestPipeline_Blocklists(t *testing.T) {
	tests := []struct {
		name    string
		tx      *models.Transaction
		verdict models.Verdict
		reasons string
	}{
		{
			name:    "suspicious ip suppresses amount review",
			tx:      candidate(1000, "192.168.1.66", cardA, models.RegionEAP),
			verdict: models.VerdictProhibited,
			reasons: "ip",
		},
		{
			name:    "stolen card",
			tx:      candidate(100, "10.0.0.1", "4000008449433403", models.RegionEAP),
			verdict: models.VerdictProhibited,
			reasons: "card-number",
		},
		{
			name:    "everything at once",
			tx:      candidate(2000, "192.168.1.66", "4000008449433403", models.RegionEAP),
			verdict: models.VerdictProhibited,
			reasons: "amount, card-number, ip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			acc := f.run(t, tt.tx)
			assert.Equal(t, tt.verdict, acc.Verdict())
			assert.Equal(t, tt.reasons, acc.Reasons().String())
		})
	}
}

func TestPipeline_IPCorrelation(t *testing.T) {
	t.Run("two other ips ask for review", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.2", models.RegionEAP, baseDate.Add(-10*time.Minute))
		f.seed(t, cardA, "10.0.0.3", models.RegionEAP, baseDate.Add(-20*time.Minute))

		acc := f.run(t, candidate(100, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictManualProcessing, acc.Verdict())
		assert.Equal(t, "ip-correlation", acc.Reasons().String())
	})

	t.Run("three other ips prohibit", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.2", models.RegionEAP, baseDate.Add(-10*time.Minute))
		f.seed(t, cardA, "10.0.0.3", models.RegionEAP, baseDate.Add(-20*time.Minute))
		f.seed(t, cardA, "10.0.0.4", models.RegionEAP, baseDate.Add(-30*time.Minute))

		acc := f.run(t, candidate(100, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictProhibited, acc.Verdict())
		assert.Equal(t, "ip-correlation", acc.Reasons().String())
	})

	t.Run("candidate ip and repeats are not counted", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.1", models.RegionEAP, baseDate.Add(-10*time.Minute))
		f.seed(t, cardA, "10.0.0.2", models.RegionEAP, baseDate.Add(-20*time.Minute))
		f.seed(t, cardA, "10.0.0.2", models.RegionEAP, baseDate.Add(-30*time.Minute))

		acc := f.run(t, candidate(100, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictAllowed, acc.Verdict())
		assert.Equal(t, "none", acc.Reasons().String())
	})

	t.Run("other cards are ignored", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardB, "10.0.0.2", models.RegionEAP, baseDate.Add(-10*time.Minute))
		f.seed(t, cardB, "10.0.0.3", models.RegionEAP, baseDate.Add(-20*time.Minute))

		acc := f.run(t, candidate(100, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictAllowed, acc.Verdict())
	})

	t.Run("review flag suppresses amount review", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.2", models.RegionEAP, baseDate.Add(-10*time.Minute))
		f.seed(t, cardA, "10.0.0.3", models.RegionEAP, baseDate.Add(-20*time.Minute))

		acc := f.run(t, candidate(1000, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictManualProcessing, acc.Verdict())
		assert.Equal(t, "ip-correlation", acc.Reasons().String())
	})

	t.Run("review does not downgrade a prohibition", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.2", models.RegionEAP, baseDate.Add(-10*time.Minute))
		f.seed(t, cardA, "10.0.0.3", models.RegionEAP, baseDate.Add(-20*time.Minute))

		acc := f.run(t, candidate(100, "192.168.1.66", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictProhibited, acc.Verdict())
		assert.Equal(t, "ip, ip-correlation", acc.Reasons().String())
	})
}

func TestPipeline_CorrelationWindowBoundary(t *testing.T) {
	f := newFixture()
	f.seed(t, cardA, "10.0.0.2", models.RegionECA, baseDate.Add(-time.Hour))                 // included
	f.seed(t, cardA, "10.0.0.3", models.RegionHIC, baseDate.Add(-time.Hour+time.Nanosecond)) // included
	f.seed(t, cardA, "10.0.0.4", models.RegionLAC, baseDate.Add(-time.Hour-time.Nanosecond)) // excluded
	f.seed(t, cardA, "10.0.0.5", models.RegionSA, baseDate)                                  // excluded

	acc := f.run(t, candidate(100, "10.0.0.1", cardA, models.RegionEAP))

	assert.Equal(t, models.VerdictManualProcessing, acc.Verdict())
	assert.Equal(t, "ip-correlation, region-correlation", acc.Reasons().String())
}

func TestPipeline_RegionCorrelation(t *testing.T) {
	t.Run("two other regions ask for review", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.1", models.RegionECA, baseDate.Add(-5*time.Minute))
		f.seed(t, cardA, "10.0.0.1", models.RegionMENA, baseDate.Add(-6*time.Minute))
		f.seed(t, cardA, "10.0.0.1", models.RegionEAP, baseDate.Add(-7*time.Minute))

		acc := f.run(t, candidate(100, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictManualProcessing, acc.Verdict())
		assert.Equal(t, "region-correlation", acc.Reasons().String())
	})

	t.Run("three other regions prohibit", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.1", models.RegionECA, baseDate.Add(-5*time.Minute))
		f.seed(t, cardA, "10.0.0.1", models.RegionMENA, baseDate.Add(-6*time.Minute))
		f.seed(t, cardA, "10.0.0.1", models.RegionSSA, baseDate.Add(-7*time.Minute))

		acc := f.run(t, candidate(100, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictProhibited, acc.Verdict())
		assert.Equal(t, "region-correlation", acc.Reasons().String())
	})

	t.Run("review flag suppresses amount review", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.1", models.RegionECA, baseDate.Add(-5*time.Minute))
		f.seed(t, cardA, "10.0.0.1", models.RegionMENA, baseDate.Add(-6*time.Minute))

		acc := f.run(t, candidate(1000, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictManualProcessing, acc.Verdict())
		assert.Equal(t, "region-correlation", acc.Reasons().String())
	})

	t.Run("amount above manual limit still adds its reason", func(t *testing.T) {
		f := newFixture()
		f.seed(t, cardA, "10.0.0.2", models.RegionECA, baseDate.Add(-5*time.Minute))
		f.seed(t, cardA, "10.0.0.3", models.RegionMENA, baseDate.Add(-6*time.Minute))

		acc := f.run(t, candidate(5000, "10.0.0.1", cardA, models.RegionEAP))
		assert.Equal(t, models.VerdictProhibited, acc.Verdict())
		assert.Equal(t, "amount, ip-correlation, region-correlation", acc.Reasons().String())
	})
}

func TestPipeline_AmountRuleReadsLiveLimits(t *testing.T) {
	f := newFixture()
	f.limits.Apply(func(threshold.Limits) threshold.Limits {
		return threshold.Limits{MaxAllowed: 1000, MaxManualProcessing: 3000}
	})

	acc := f.run(t, candidate(900, "10.0.0.1", cardA, models.RegionEAP))
	assert.Equal(t, models.VerdictAllowed, acc.Verdict())
}

func TestScope_RecentOnCardQueriesOnce(t *testing.T) {
	f := newFixture()
	f.seed(t, cardA, "10.0.0.2", models.RegionECA, baseDate.Add(-5*time.Minute))
	scope := &Scope{Transaction: candidate(1, "10.0.0.1", cardA, models.RegionEAP), History: f.history, Window: time.Hour}

	first, err := scope.RecentOnCard(context.Background())
	require.NoError(t, err)
	f.seed(t, cardA, "10.0.0.3", models.RegionECA, baseDate.Add(-4*time.Minute))
	second, err := scope.RecentOnCard(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Equal(t, first, second)
}

// escalatingRule raises to a fixed verdict and records what it saw.
type escalatingRule struct {
	to   models.Verdict
	seen *[]models.Verdict
}

func (r escalatingRule) Name() string { return "escalate-" + string(r.to) }

func (r escalatingRule) Evaluate(_ context.Context, _ *Scope, acc *Accumulator) error {
	acc.Escalate(r.to)
	*r.seen = append(*r.seen, acc.Verdict())
	return nil
}

func TestPipeline_VerdictNeverDecreases(t *testing.T) {
	verdicts := []models.Verdict{models.VerdictAllowed, models.VerdictManualProcessing, models.VerdictProhibited}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		var seen []models.Verdict
		rules := make([]Rule, 1+rng.Intn(8))
		for i := range rules {
			rules[i] = escalatingRule{to: verdicts[rng.Intn(len(verdicts))], seen: &seen}
		}

		acc, err := NewPipeline(rules...).Run(context.Background(), &Scope{})
		require.NoError(t, err)

		for i := 1; i < len(seen); i++ {
			require.GreaterOrEqual(t, seen[i].Rank(), seen[i-1].Rank())
		}
		assert.Equal(t, seen[len(seen)-1], acc.Verdict())
	}
}
