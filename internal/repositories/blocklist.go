package repositories

import (
	"context"
	"fmt"

	"antifraud/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlocklistRepository answers set-membership queries against the suspicious
// IP and stolen card lists.
type BlocklistRepository interface {
	IsSuspiciousIP(ctx context.Context, ip string) (bool, error)
	IsStolenCard(ctx context.Context, number string) (bool, error)
}

// BlocklistStore adds the writes used by the seeding tool.
type BlocklistStore interface {
	BlocklistRepository
	// AddSuspiciousIP reports whether a new row was inserted.
	AddSuspiciousIP(ctx context.Context, ip string) (bool, error)
	AddStolenCard(ctx context.Context, number string) (bool, error)
}

type blocklistRepository struct {
	db *gorm.DB
}

func NewBlocklistRepository(db *gorm.DB) BlocklistStore {
	return &blocklistRepository{db: db}
}

func (r *blocklistRepository) IsSuspiciousIP(ctx context.Context, ip string) (bool, error) {
	return r.exists(ctx, &models.SuspiciousIP{}, "ip = ?", ip)
}

func (r *blocklistRepository) IsStolenCard(ctx context.Context, number string) (bool, error) {
	return r.exists(ctx, &models.StolenCard{}, "number = ?", number)
}

func (r *blocklistRepository) AddSuspiciousIP(ctx context.Context, ip string) (bool, error) {
	return r.insertIgnore(ctx, &models.SuspiciousIP{IP: ip})
}

func (r *blocklistRepository) AddStolenCard(ctx context.Context, number string) (bool, error) {
	return r.insertIgnore(ctx, &models.StolenCard{Number: number})
}

func (r *blocklistRepository) exists(ctx context.Context, model interface{}, query string, arg string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(model).
		Where(query, arg).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to query blocklist: %w", err)
	}
	return count > 0, nil
}

func (r *blocklistRepository) insertIgnore(ctx context.Context, row interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert blocklist entry: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
