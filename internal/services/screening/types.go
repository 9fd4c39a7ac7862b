package screening

import (
	"time"

	"antifraud/internal/models"
)

// Config tunes the service. Zero values fall back to the defaults.
type Config struct {
	CorrelationWindow time.Duration
	OperationTimeout  time.Duration
}

// TransactionInput is a transaction submitted for scoring.
type TransactionInput struct {
	Amount int64         `json:"amount" validate:"gt=0"`
	IP     string        `json:"ip" validate:"required,ipaddr"`
	Number string        `json:"number" validate:"required,luhn"`
	Region models.Region `json:"region" validate:"required,region"`
	Date   time.Time     `json:"date" validate:"required"`
}

func (in TransactionInput) toModel() *models.Transaction {
	return &models.Transaction{
		Amount: in.Amount,
		IP:     in.IP,
		Number: in.Number,
		Region: in.Region,
		Date:   in.Date,
		Result: models.VerdictAllowed,
	}
}

// ScoreResult is the outcome of scoring one transaction.
type ScoreResult struct {
	Transaction *models.Transaction
	Verdict     models.Verdict
	// Reasons is the sorted, comma-separated reason list or "none".
	Reasons string
}
