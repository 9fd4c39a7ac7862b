// Package memory provides in-process repository implementations used by
// tests and by the server when STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"antifraud/internal/models"
	"antifraud/internal/repositories"
)

type TransactionRepository struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[uint]models.Transaction
	now    func() time.Time
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		rows: make(map[uint]models.Transaction),
		now:  time.Now,
	}
}

var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

func (r *TransactionRepository) FindByCardInWindow(ctx context.Context, number string, from, to time.Time) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(tx *models.Transaction) bool {
		return tx.Number == number && !tx.Date.Before(from) && tx.Date.Before(to)
	}), nil
}

// Save assigns the next id to tx and stores a copy.
func (r *TransactionRepository) Save(ctx context.Context, tx *models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now()
	tx.ID = r.nextID
	tx.CreatedAt = now
	tx.UpdatedAt = now
	r.rows[tx.ID] = clone(*tx)
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	out := clone(tx)
	return &out, nil
}

// RecordFeedback checks and writes under one lock, so at most one caller wins.
func (r *TransactionRepository) RecordFeedback(ctx context.Context, id uint, feedback models.Verdict) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	if tx.HasFeedback() {
		return nil, repositories.ErrFeedbackExists
	}
	fb := feedback
	tx.Feedback = &fb
	tx.UpdatedAt = r.now()
	r.rows[id] = tx

	out := clone(tx)
	return &out, nil
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(*models.Transaction) bool { return true }), nil
}

func (r *TransactionRepository) FindByCard(ctx context.Context, number string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(tx *models.Transaction) bool { return tx.Number == number }), nil
}

// RunInTx runs fn directly. Every method is individually atomic and no lock
// is held while fn calls out to other collaborators.
func (r *TransactionRepository) RunInTx(ctx context.Context, fn func(repo repositories.TransactionRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r)
}

// Len returns the number of stored transactions.
func (r *TransactionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func (r *TransactionRepository) filter(keep func(*models.Transaction) bool) []models.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Transaction, 0)
	for _, tx := range r.rows {
		if keep(&tx) {
			out = append(out, clone(tx))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func clone(tx models.Transaction) models.Transaction {
	if tx.Feedback != nil {
		fb := *tx.Feedback
		tx.Feedback = &fb
	}
	return tx
}
