package services

import (
	"context"
	"time"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/logger"
)

// Progress messages
const (
	MessageGreatJob   = "Great job! Your weight is going down."
	MessageReconsider = "Your weight went up. Maybe it is time to reconsider your goals."
	MessageKeepUp     = "Your weight is stable. Keep up!"
)

// Trend values reported with progress
const (
	TrendDown = "down"
	TrendUp   = "up"
	TrendFlat = "flat"
)

// MeasurementInput carries a new biometric submission
type MeasurementInput struct {
	Weight float64
	Height float64
	Chest  *float64
	Waist  *float64
	Hips   *float64
}

// Progress compares the latest record with an older reference record
type Progress struct {
	Latest    domain.MeasurementRecord `json:"latest"`
	Reference domain.MeasurementRecord `json:"reference"`
	Delta     float64                  `json:"delta"`
	Trend     string                   `json:"trend"`
	Message   string                   `json:"message"`
}

// MeasurementService is the append-only measurement ledger
type MeasurementService struct {
	store    domain.Store
	interval time.Duration
	now      func() time.Time
}

// NewMeasurementService creates a ledger that accepts one submission per interval
func NewMeasurementService(store domain.Store, interval time.Duration) *MeasurementService {
	return &MeasurementService{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *MeasurementService) WithClock(now func() time.Time) *MeasurementService {
	s.now = now
	return s
}

func validMeasure(v *float64) bool {
	return v == nil || *v > 0
}

// Submit stores a measurement unless the previous one is younger than the
// interval. The check and the insert are not serialized.
func (s *MeasurementService) Submit(ctx context.Context, accountID uint, in MeasurementInput) (*domain.MeasurementRecord, error) {
	if in.Weight <= 0 || in.Height <= 0 {
		return nil, apperrors.NewValidationError("weight and height must be positive")
	}
	if !validMeasure(in.Chest) || !validMeasure(in.Waist) || !validMeasure(in.Hips) {
		return nil, apperrors.NewValidationError("chest, waist and hips must be positive when given")
	}

	now := s.now()
	latest, err := s.store.Measurements().Latest(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		if wait := latest.CreatedAt.Add(s.interval).Sub(now); wait > 0 {
			return nil, apperrors.NewRateLimitedError("You can add new measurements once per interval", wait)
		}
	}

	record := &domain.MeasurementRecord{
		AccountID: accountID,
		Weight:    in.Weight,
		Height:    in.Height,
		Chest:     in.Chest,
		Waist:     in.Waist,
		Hips:      in.Hips,
		CreatedAt: now,
	}
	if err := s.store.Measurements().Create(ctx, record); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Measurement recorded", "account_id", accountID, "record_id", record.ID)
	return record, nil
}

// Progress compares the latest record with the newest one at least one
// interval older.
func (s *MeasurementService) Progress(ctx context.Context, accountID uint) (*Progress, error) {
	latest, err := s.store.Measurements().Latest(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, apperrors.NewInsufficientDataError("No measurements yet")
	}

	reference, err := s.store.Measurements().LatestAtOrBefore(ctx, accountID, latest.CreatedAt.Add(-s.interval))
	if err != nil {
		return nil, err
	}
	if reference == nil {
		return nil, apperrors.NewInsufficientDataError("Not enough measurements to compare")
	}

	p := &Progress{
		Latest:    *latest,
		Reference: *reference,
		Delta:     latest.Weight - reference.Weight,
	}
	switch {
	case latest.Weight < reference.Weight:
		p.Trend, p.Message = TrendDown, MessageGreatJob
	case latest.Weight > reference.Weight:
		p.Trend, p.Message = TrendUp, MessageReconsider
	default:
		p.Trend, p.Message = TrendFlat, MessageKeepUp
	}
	return p, nil
}

// History lists records newest first
func (s *MeasurementService) History(ctx context.Context, accountID uint, limit int) ([]domain.MeasurementRecord, error) {
	return s.store.Measurements().List(ctx, accountID, limit)
}
