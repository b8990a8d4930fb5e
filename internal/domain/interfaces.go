package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lookups return (nil, nil) when the row does not exist. Uniqueness
// violations surface as a duplicate field error naming the column.

// AccountRepository handles account persistence
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uint) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

// SessionRepository is the session store: sessions are created, read and revoked, never deleted.
type SessionRepository interface {
	Create(ctx context.Context, accountID uint) (*Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// MeasurementRepository handles append-only measurement records
type MeasurementRepository interface {
	Create(ctx context.Context, record *MeasurementRecord) error
	Latest(ctx context.Context, accountID uint) (*MeasurementRecord, error)
	// LatestAtOrBefore returns the newest record created at or before t.
	LatestAtOrBefore(ctx context.Context, accountID uint, t time.Time) (*MeasurementRecord, error)
	List(ctx context.Context, accountID uint, limit int) ([]MeasurementRecord, error)
}

// GoalRepository keeps the single goal row of an account
type GoalRepository interface {
	Upsert(ctx context.Context, goal *Goal) error
	GetByAccount(ctx context.Context, accountID uint) (*Goal, error)
}

// ProductRepository handles the catalog: products, ingredients and their links
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	// List returns products of the given type, or all products when productType is empty.
	List(ctx context.Context, productType ProductType) ([]Product, error)
	// RandomByType draws up to limit distinct products of a type in random order.
	RandomByType(ctx context.Context, productType ProductType, limit int) ([]Product, error)
	CreateIngredient(ctx context.Context, ingredient *Ingredient) error
	GetIngredient(ctx context.Context, id uint) (*Ingredient, error)
	LinkIngredient(ctx context.Context, link *ProductIngredient) error
	Ingredients(ctx context.Context, productID uint) ([]Ingredient, error)
}

// MenuRepository persists menus together with their items
type MenuRepository interface {
	Create(ctx context.Context, menu *Menu) error
	GetByID(ctx context.Context, id uint) (*Menu, error)
	ListByAccount(ctx context.Context, accountID uint, date time.Time) ([]Menu, error)
}

// TrainingRepository handles trainings and conducted-training marks
type TrainingRepository interface {
	Create(ctx context.Context, training *Training) error
	GetByID(ctx context.Context, id uint) (*Training, error)
	// List returns trainings of a level, or all trainings when level is zero.
	List(ctx context.Context, level TrainingLevel) ([]Training, error)
	MarkConducted(ctx context.Context, mark *ConductedTraining) error
	ListConducted(ctx context.Context, accountID uint) ([]ConductedTraining, error)
}

// Store is the unit of work over all repositories.
type Store interface {
	Accounts() AccountRepository
	Sessions() SessionRepository
	Measurements() MeasurementRepository
	Goals() GoalRepository
	Products() ProductRepository
	Menus() MenuRepository
	Trainings() TrainingRepository

	// Transaction runs fn against a Store bound to one transaction. The
	// transaction commits when fn returns nil and is discarded otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
