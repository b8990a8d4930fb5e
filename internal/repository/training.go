package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
)

// TrainingRepository handles training data operations
type TrainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository creates a new training repository
func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// Create inserts a training
func (r *TrainingRepository) Create(ctx context.Context, training *domain.Training) error {
	return translateError(r.db.WithContext(ctx).Create(training).Error)
}

// GetByID gets a training by its id
func (r *TrainingRepository) GetByID(ctx context.Context, id uint) (*domain.Training, error) {
	return findOne[domain.Training](r.db.WithContext(ctx), "id = ?", id)
}

// List gets trainings of a level, or all trainings when level is zero
func (r *TrainingRepository) List(ctx context.Context, level domain.TrainingLevel) ([]domain.Training, error) {
	var trainings []domain.Training
	query := r.db.WithContext(ctx).Order("level, name")
	if level != 0 {
		query = query.Where("level = ?", level)
	}
	if err := query.Find(&trainings).Error; err != nil {
		return nil, translateError(err)
	}
	return trainings, nil
}

// MarkConducted records that an account has done a training
func (r *TrainingRepository) MarkConducted(ctx context.Context, mark *domain.ConductedTraining) error {
	return translateError(r.db.WithContext(ctx).Create(mark).Error)
}

// ListConducted gets the conducted-training marks of an account
func (r *TrainingRepository) ListConducted(ctx context.Context, accountID uint) ([]domain.ConductedTraining, error) {
	var marks []domain.ConductedTraining
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&marks).Error
	if err != nil {
		return nil, translateError(err)
	}
	return marks, nil
}
