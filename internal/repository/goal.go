package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
)

// GoalRepository handles goal data operations
type GoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Upsert creates the goal of an account or replaces its value. goal is
// refreshed from the stored row, so an overwrite keeps the original
// created_at.
func (r *GoalRepository) Upsert(ctx context.Context, goal *domain.Goal) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"goal"}),
	}).Create(goal).Error
	if err != nil {
		return translateError(err)
	}

	stored, err := findOne[domain.Goal](db, "account_id = ?", goal.AccountID)
	if err != nil {
		return err
	}
	if stored != nil {
		*goal = *stored
	}
	return nil
}

// GetByAccount gets the goal of an account
func (r *GoalRepository) GetByAccount(ctx context.Context, accountID uint) (*domain.Goal, error) {
	return findOne[domain.Goal](r.db.WithContext(ctx), "account_id = ?", accountID)
}
