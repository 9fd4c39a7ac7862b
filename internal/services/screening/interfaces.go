package screening

import (
	"context"
	"time"

	"antifraud/internal/models"
	"antifraud/internal/services/threshold"
)

// Service defines the screening operations
type Service interface {
	// Scoring
	Score(ctx context.Context, in TransactionInput) (*ScoreResult, error)

	// Feedback
	ApplyFeedback(ctx context.Context, transactionID uint, feedback models.Verdict) (*models.Transaction, error)

	// History
	History(ctx context.Context) ([]models.Transaction, error)
	HistoryByCard(ctx context.Context, number string) ([]models.Transaction, error)

	// Limits returns the current amount limits.
	Limits() threshold.Limits
}

// ThresholdStore holds the amount limits. *threshold.Store implements it.
type ThresholdStore interface {
	Snapshot() threshold.Limits
	Apply(fn threshold.Adjustment) threshold.Limits
}

// MetricsCollector receives screening outcomes
type MetricsCollector interface {
	RecordVerdict(verdict models.Verdict, reasons models.Reasons)
	RecordScoringDuration(d time.Duration)
	RecordFeedback(feedback, result models.Verdict)
	RecordLimits(limits threshold.Limits)
	RecordError(operation, kind string)
}
