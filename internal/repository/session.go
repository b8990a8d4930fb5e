package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
)

// SessionRepository handles session data operations
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create always inserts a new active session for the account
func (r *SessionRepository) Create(ctx context.Context, accountID uint) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.New(),
		AccountID: accountID,
		Active:    true,
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, translateError(err)
	}
	return session, nil
}

// GetByID gets a session by its id
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return findOne[domain.Session](r.db.WithContext(ctx), "id = ?", id)
}

// Revoke marks a session inactive
func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&domain.Session{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("session")
	}
	return nil
}
