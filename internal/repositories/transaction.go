package repositories

import (
	"context"
	"errors"
	"time"

	"antifraud/internal/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrFeedbackExists      = errors.New("transaction feedback already recorded")
)

// TransactionRepository is the history of screened transactions.
type TransactionRepository interface {
	// Scoring
	FindByCardInWindow(ctx context.Context, number string, from, to time.Time) ([]models.Transaction, error)
	Save(ctx context.Context, tx *models.Transaction) error

	// Feedback
	FindByID(ctx context.Context, id uint) (*models.Transaction, error)
	// RecordFeedback sets feedback only if none is recorded yet and returns
	// ErrFeedbackExists otherwise. Concurrent calls for one id have at most
	// one winner.
	RecordFeedback(ctx context.Context, id uint, feedback models.Verdict) (*models.Transaction, error)

	// History
	FindAll(ctx context.Context) ([]models.Transaction, error)
	FindByCard(ctx context.Context, number string) ([]models.Transaction, error)

	// RunInTx runs fn against a repository bound to a single unit of work.
	RunInTx(ctx context.Context, fn func(repo TransactionRepository) error) error
}
