package services

import (
	"context"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
)

// TrainingService exposes the training catalog and conducted marks
type TrainingService struct {
	store domain.Store
}

func NewTrainingService(store domain.Store) *TrainingService {
	return &TrainingService{store: store}
}

func (s *TrainingService) CreateTraining(ctx context.Context, training *domain.Training) error {
	if training.Name == "" || training.Video == "" {
		return apperrors.NewValidationError("training name and video are required")
	}
	if !training.Level.Valid() {
		return apperrors.NewValidationError("training level must be between 1 and 4")
	}
	return s.store.Trainings().Create(ctx, training)
}

// ListTrainings returns trainings of a level, or all when level is zero
func (s *TrainingService) ListTrainings(ctx context.Context, level domain.TrainingLevel) ([]domain.Training, error) {
	if level != 0 && !level.Valid() {
		return nil, apperrors.NewValidationError("training level must be between 1 and 4")
	}
	return s.store.Trainings().List(ctx, level)
}

func (s *TrainingService) MarkConducted(ctx context.Context, accountID, trainingID uint) (*domain.ConductedTraining, error) {
	training, err := s.store.Trainings().GetByID(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	if training == nil {
		return nil, apperrors.NewNotFoundError("training")
	}

	mark := &domain.ConductedTraining{TrainingID: trainingID, AccountID: accountID}
	if err := s.store.Trainings().MarkConducted(ctx, mark); err != nil {
		return nil, err
	}
	return mark, nil
}

func (s *TrainingService) ConductedTrainings(ctx context.Context, accountID uint) ([]domain.ConductedTraining, error) {
	return s.store.Trainings().ListConducted(ctx, accountID)
}
