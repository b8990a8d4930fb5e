package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
)

// MenuRepository handles menu data operations
type MenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// Create inserts a menu together with its items
func (r *MenuRepository) Create(ctx context.Context, menu *domain.Menu) error {
	return translateError(r.db.WithContext(ctx).Create(menu).Error)
}

// GetByID gets a menu with its items
func (r *MenuRepository) GetByID(ctx context.Context, id uint) (*domain.Menu, error) {
	db := r.db.WithContext(ctx).Preload("Items", orderedItems)
	return findOne[domain.Menu](db, "id = ?", id)
}

// ListByAccount gets the menus of an account for a date, or all of them when date is zero
func (r *MenuRepository) ListByAccount(ctx context.Context, accountID uint, date time.Time) ([]domain.Menu, error) {
	var menus []domain.Menu
	query := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("account_id = ?", accountID).
		Order("date DESC, id")
	if !date.IsZero() {
		query = query.Where("date = ?", date)
	}
	if err := query.Find(&menus).Error; err != nil {
		return nil, translateError(err)
	}
	return menus, nil
}
