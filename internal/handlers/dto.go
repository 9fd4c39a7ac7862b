package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"antifraud/internal/models"
	"antifraud/internal/services/screening"
)

// DateLayout is the wire format of transaction dates. Dates carry no zone and
// are read and written as UTC wall-clock time.
const DateLayout = "2006-01-02T15:04:05"

type localDateTime struct {
	time.Time
}

func (d *localDateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("date must match %s: %w", DateLayout, err)
	}
	d.Time = t
	return nil
}

type transactionRequest struct {
	Amount int64         `json:"amount"`
	IP     string        `json:"ip"`
	Number string        `json:"number"`
	Region string        `json:"region"`
	Date   localDateTime `json:"date"`
}

func (r transactionRequest) toInput() screening.TransactionInput {
	return screening.TransactionInput{
		Amount: r.Amount,
		IP:     r.IP,
		Number: r.Number,
		Region: models.Region(r.Region),
		Date:   r.Date.Time,
	}
}

type scoreResponse struct {
	Result models.Verdict `json:"result"`
	Info   string         `json:"info"`
}

type feedbackRequest struct {
	TransactionID uint   `json:"transactionId"`
	Feedback      string `json:"feedback"`
}

type transactionResponse struct {
	TransactionID uint   `json:"transactionId"`
	Amount        int64  `json:"amount"`
	IP            string `json:"ip"`
	Number        string `json:"number"`
	Region        string `json:"region"`
	Date          string `json:"date"`
	Result        string `json:"result"`
	Feedback      string `json:"feedback"`
}

func newTransactionResponse(tx *models.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		IP:            tx.IP,
		Number:        tx.Number,
		Region:        string(tx.Region),
		Date:          tx.Date.UTC().Format(DateLayout),
		Result:        string(tx.Result),
		Feedback:      tx.FeedbackString(),
	}
}

func newTransactionList(txs []models.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, newTransactionResponse(&txs[i]))
	}
	return out
}
