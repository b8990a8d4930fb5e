package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
)

// MeasurementRepository handles measurement record operations
type MeasurementRepository struct {
	db *gorm.DB
}

// NewMeasurementRepository creates a new measurement repository
func NewMeasurementRepository(db *gorm.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

// Create appends a measurement record
func (r *MeasurementRepository) Create(ctx context.Context, record *domain.MeasurementRecord) error {
	return translateError(r.db.WithContext(ctx).Create(record).Error)
}

// Latest gets the newest record of an account
func (r *MeasurementRepository) Latest(ctx context.Context, accountID uint) (*domain.MeasurementRecord, error) {
	db := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	return findOne[domain.MeasurementRecord](db, "account_id = ?", accountID)
}

// LatestAtOrBefore gets the newest record created at or before t
func (r *MeasurementRepository) LatestAtOrBefore(ctx context.Context, accountID uint, t time.Time) (*domain.MeasurementRecord, error) {
	db := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	return findOne[domain.MeasurementRecord](db, "account_id = ? AND created_at <= ?", accountID, t)
}

// List gets records of an account, newest first. A non-positive limit returns all.
func (r *MeasurementRepository) List(ctx context.Context, accountID uint, limit int) ([]domain.MeasurementRecord, error) {
	var records []domain.MeasurementRecord
	query := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, translateError(err)
	}
	return records, nil
}
