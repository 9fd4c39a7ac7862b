package screening

import (
	"context"
	"errors"
	"fmt"
	"time"

	appErrors "antifraud/internal/errors"
	"antifraud/internal/models"
	"antifraud/internal/repositories"
	"antifraud/internal/services/threshold"
	"antifraud/internal/validation"
)

type service struct {
	history   repositories.TransactionRepository
	blocklist repositories.BlocklistRepository
	limits    ThresholdStore
	pipeline  *Pipeline
	config    Config
	metrics   MetricsCollector
	now       func() time.Time
}

// NewService creates a new screening service running DefaultRules.
func NewService(
	history repositories.TransactionRepository,
	blocklist repositories.BlocklistRepository,
	limits ThresholdStore,
	config Config,
	metrics MetricsCollector,
) Service {
	if history == nil {
		panic("history repository is required")
	}
	if blocklist == nil {
		panic("blocklist repository is required")
	}
	if limits == nil {
		panic("threshold store is required")
	}

	if config.CorrelationWindow <= 0 {
		config.CorrelationWindow = DefaultCorrelationWindow
	}
	if config.OperationTimeout <= 0 {
		config.OperationTimeout = DefaultOperationTimeout
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	metrics.RecordLimits(limits.Snapshot())

	return &service{
		history:   history,
		blocklist: blocklist,
		limits:    limits,
		pipeline:  NewPipeline(DefaultRules()...),
		config:    config,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Score validates in, runs the rule pipeline and stores the transaction with
// its verdict. Nothing is stored when validation or a rule fails.
func (s *service) Score(ctx context.Context, in TransactionInput) (*ScoreResult, error) {
	start := s.now()

	if err := validateInput(in); err != nil {
		s.metrics.RecordError(opScore, string(appErrors.KindValidation))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	tx := in.toModel()
	var acc *Accumulator
	err := s.history.RunInTx(ctx, func(repo repositories.TransactionRepository) error {
		scope := &Scope{
			Transaction: tx,
			Blocklist:   s.blocklist,
			History:     repo,
			Limits:      s.limits,
			Window:      s.config.CorrelationWindow,
		}

		var err error
		acc, err = s.pipeline.Run(ctx, scope)
		if err != nil {
			return err
		}

		tx.Result = acc.Verdict()
		return repo.Save(ctx, tx)
	})
	if err != nil {
		err = appErrors.AsDomain(err, appErrors.ErrStorageUnavailable)
		s.metrics.RecordError(opScore, string(appErrors.KindOf(err)))
		return nil, err
	}

	reasons := acc.Reasons()
	s.metrics.RecordVerdict(tx.Result, reasons)
	s.metrics.RecordScoringDuration(s.now().Sub(start))

	return &ScoreResult{
		Transaction: tx,
		Verdict:     tx.Result,
		Reasons:     reasons.String(),
	}, nil
}

// ApplyFeedback records a reviewer's verdict on a stored transaction and
// adjusts the limits accordingly.
func (s *service) ApplyFeedback(ctx context.Context, transactionID uint, feedback models.Verdict) (*models.Transaction, error) {
	if !feedback.Valid() {
		s.metrics.RecordError(opFeedback, string(appErrors.KindValidation))
		return nil, appErrors.ErrInvalidFeedback.WithFields(map[string]string{
			"feedback": "must be one of ALLOWED, MANUAL_PROCESSING, PROHIBITED",
		})
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	var (
		updated    *models.Transaction
		adjustment threshold.Adjustment
	)
	err := s.history.RunInTx(ctx, func(repo repositories.TransactionRepository) error {
		tx, err := repo.FindByID(ctx, transactionID)
		if err != nil {
			return translateStoreError(err)
		}
		if tx.HasFeedback() {
			return appErrors.ErrFeedbackAlreadySet
		}

		adj, ok := threshold.AdjustmentFor(feedback, tx.Result, tx.Amount)
		if !ok {
			return appErrors.ErrFeedbackMatchesResult
		}

		updated, err = repo.RecordFeedback(ctx, transactionID, feedback)
		if err != nil {
			return translateStoreError(err)
		}
		adjustment = adj
		return nil
	})
	if err != nil {
		err = appErrors.AsDomain(err, appErrors.ErrStorageUnavailable)
		s.metrics.RecordError(opFeedback, string(appErrors.KindOf(err)))
		return nil, err
	}

	// The feedback is committed; the limits move in one atomic step.
	limits := s.limits.Apply(adjustment)
	s.metrics.RecordFeedback(feedback, updated.Result)
	s.metrics.RecordLimits(limits)

	return updated, nil
}

// History lists every stored transaction by ascending id.
func (s *service) History(ctx context.Context) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	txs, err := s.history.FindAll(ctx)
	if err != nil {
		s.metrics.RecordError(opHistory, string(appErrors.KindCollaborator))
		return nil, appErrors.ErrStorageUnavailable.WithCause(err)
	}
	return txs, nil
}

// HistoryByCard lists the transactions on one card by ascending id.
func (s *service) HistoryByCard(ctx context.Context, number string) ([]models.Transaction, error) {
	if !validation.IsValidCardNumber(number) {
		s.metrics.RecordError(opHistoryByCard, string(appErrors.KindValidation))
		return nil, appErrors.ErrInvalidCardNumber.WithFields(map[string]string{
			"number": "must be a valid 16-digit card number",
		})
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	txs, err := s.history.FindByCard(ctx, number)
	if err != nil {
		s.metrics.RecordError(opHistoryByCard, string(appErrors.KindCollaborator))
		return nil, appErrors.ErrStorageUnavailable.WithCause(err)
	}
	if len(txs) == 0 {
		return nil, appErrors.ErrHistoryNotFound
	}
	return txs, nil
}

func (s *service) Limits() threshold.Limits {
	return s.limits.Snapshot()
}

func validateInput(in TransactionInput) error {
	v, err := validation.Struct(in)
	if err != nil {
		return fmt.Errorf("failed to validate transaction: %w", err)
	}
	if !v.Valid() {
		return appErrors.ErrInvalidTransaction.WithFields(v.Errors)
	}
	return nil
}

func translateStoreError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTransactionNotFound):
		return appErrors.ErrTransactionNotFound
	case errors.Is(err, repositories.ErrFeedbackExists):
		return appErrors.ErrFeedbackAlreadySet
	default:
		return appErrors.ErrStorageUnavailable.WithCause(err)
	}
}
