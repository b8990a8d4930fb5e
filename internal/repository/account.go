package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
)

// AccountRepository handles account data operations
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return translateError(r.db.WithContext(ctx).Create(account).Error)
}

// GetByID gets an account by its id
func (r *AccountRepository) GetByID(ctx context.Context, id uint) (*domain.Account, error) {
	return findOne[domain.Account](r.db.WithContext(ctx), "id = ?", id)
}

// GetByUsername gets an account by its username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return findOne[domain.Account](r.db.WithContext(ctx), "username = ?", username)
}
