package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
)

// PostgresStore is the gorm-backed unit of work
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps an open gorm connection
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetDB returns the underlying GORM database instance
func (s *PostgresStore) GetDB() *gorm.DB {
	return s.db
}

func (s *PostgresStore) Accounts() domain.AccountRepository {
	return &AccountRepository{db: s.db}
}

func (s *PostgresStore) Sessions() domain.SessionRepository {
	return &SessionRepository{db: s.db}
}

func (s *PostgresStore) Measurements() domain.MeasurementRepository {
	return &MeasurementRepository{db: s.db}
}

func (s *PostgresStore) Goals() domain.GoalRepository {
	return &GoalRepository{db: s.db}
}

func (s *PostgresStore) Products() domain.ProductRepository {
	return &ProductRepository{db: s.db}
}

func (s *PostgresStore) Menus() domain.MenuRepository {
	return &MenuRepository{db: s.db}
}

func (s *PostgresStore) Trainings() domain.TrainingRepository {
	return &TrainingRepository{db: s.db}
}

// Transaction runs fn inside a database transaction. gorm commits when fn
// returns nil and rolls back otherwise.
func (s *PostgresStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresStore{db: tx})
	})
}
