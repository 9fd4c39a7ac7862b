package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"antifraud/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// FindByCardInWindow returns transactions on number with from <= date < to.
func (r *transactionRepository) FindByCardInWindow(ctx context.Context, number string, from, to time.Time) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("number = ? AND date >= ? AND date < ?", number, from, to).
		Order("id ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query card window: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) Save(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) RecordFeedback(ctx context.Context, id uint, feedback models.Verdict) (*models.Transaction, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND (feedback IS NULL OR feedback = '')", id).
		Update("feedback", feedback)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to record feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrFeedbackExists
	}
	return r.FindByID(ctx, id)
}

func (r *transactionRepository) FindAll(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) FindByCard(ctx context.Context, number string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("number = ?", number).
		Order("id ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list card transactions: %w", err)
	}
	return txs, nil
}

// RunInTx uses READ COMMITTED so a conditional feedback update that lost a
// race re-evaluates its predicate and affects zero rows instead of failing
// with a serialization error.
func (r *transactionRepository) RunInTx(ctx context.Context, fn func(repo TransactionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transactionRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}
