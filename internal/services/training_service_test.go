package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/repository"
)

func TestTrainingService(t *testing.T) {
	svc := NewTrainingService(repository.NewMemoryStore())
	ctx := context.Background()

	squat := &domain.Training{Name: "squat", Video: "https://videos.example/squat", Level: domain.TrainingMedium}
	require.NoError(t, svc.CreateTraining(ctx, squat))
	require.NoError(t, svc.CreateTraining(ctx, &domain.Training{Name: "plank", Video: "https://videos.example/plank", Level: domain.TrainingEasy}))

	err := svc.CreateTraining(ctx, &domain.Training{Name: "burpee", Video: "v", Level: 9})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	medium, err := svc.ListTrainings(ctx, domain.TrainingMedium)
	require.NoError(t, err)
	require.Len(t, medium, 1)
	assert.Equal(t, "squat", medium[0].Name)

	_, err = svc.ListTrainings(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	mark, err := svc.MarkConducted(ctx, 1, squat.ID)
	require.NoError(t, err)
	assert.Equal(t, squat.ID, mark.TrainingID)

	_, err = svc.MarkConducted(ctx, 1, squat.ID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateField)

	_, err = svc.MarkConducted(ctx, 1, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	marks, err := svc.ConductedTrainings(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, marks, 1)
}

func TestGoalService(t *testing.T) {
	svc := NewGoalService(repository.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.GetGoal(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.SetGoal(ctx, 1, "shred")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.SetGoal(ctx, 1, domain.GoalLoss)
	require.NoError(t, err)
	_, err = svc.SetGoal(ctx, 1, domain.GoalMaintain)
	require.NoError(t, err)

	goal, err := svc.GetGoal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalMaintain, goal.Goal)
}
