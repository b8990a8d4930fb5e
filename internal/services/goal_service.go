package services

import (
	"context"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
)

// GoalService keeps the single goal of an account
type GoalService struct {
	store domain.Store
}

func NewGoalService(store domain.Store) *GoalService {
	return &GoalService{store: store}
}

// SetGoal creates or overwrites the goal of an account
func (s *GoalService) SetGoal(ctx context.Context, accountID uint, kind domain.GoalKind) (*domain.Goal, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("goal must be one of loss, gain, maintain")
	}
	goal := &domain.Goal{AccountID: accountID, Goal: kind}
	if err := s.store.Goals().Upsert(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) GetGoal(ctx context.Context, accountID uint) (*domain.Goal, error) {
	goal, err := s.store.Goals().GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, apperrors.NewNotFoundError("goal")
	}
	return goal, nil
}
