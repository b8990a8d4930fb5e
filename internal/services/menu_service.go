package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/logger"
	"github.com/vladimiradmaev/diet-tracker/internal/utils"
)

// Quota is the number of products required per product type
type Quota map[domain.ProductType]int

// Validate rejects empty quotas, unknown types and negative counts.
func (q Quota) Validate() error {
	total := 0
	for t, n := range q {
		if !t.Valid() {
			return apperrors.NewValidationError(fmt.Sprintf("unknown product type %q", t))
		}
		if n < 0 {
			return apperrors.NewValidationError(fmt.Sprintf("quantity of %s must not be negative", t))
		}
		total += n
	}
	if total == 0 {
		return apperrors.NewValidationError("quota must request at least one product")
	}
	return nil
}

// GenerateMenuInput describes the menu to generate
type GenerateMenuInput struct {
	MealTime domain.MealTime
	Date     time.Time
	Envelope Envelope
	Quota    Quota
}

// MenuService draws menus from the catalog
type MenuService struct {
	store domain.Store
	now   func() time.Time
}

func NewMenuService(store domain.Store) *MenuService {
	return &MenuService{store: store, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *MenuService) WithClock(now func() time.Time) *MenuService {
	s.now = now
	return s
}

// Generate draws the quota of each product type at random and keeps the
// menu only when its total calories fall inside the envelope. Nothing is
// persisted on failure.
func (s *MenuService) Generate(ctx context.Context, accountID uint, in GenerateMenuInput) (*domain.Menu, error) {
	if !in.MealTime.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown meal time %q", in.MealTime))
	}
	if err := in.Envelope.Validate(); err != nil {
		return nil, err
	}
	if err := in.Quota.Validate(); err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	menu := &domain.Menu{
		AccountID: accountID,
		MealTime:  in.MealTime,
		Date:      utils.DateOnly(date),
	}

	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		total := 0
		for _, productType := range domain.ProductTypes {
			want := in.Quota[productType]
			if want <= 0 {
				continue
			}
			products, err := tx.Products().RandomByType(ctx, productType, want)
			if err != nil {
				return err
			}
			if len(products) < want {
				return apperrors.NewInfeasibleMenuError(
					fmt.Sprintf("Not enough products of type %s: want %d, have %d", productType, want, len(products)))
			}
			for i := range products {
				p := products[i]
				menu.Items = append(menu.Items, domain.MenuItem{
					ProductID: p.ID,
					Position:  len(menu.Items),
					Product:   &p,
				})
				total += p.Calories
			}
		}

		if !in.Envelope.Contains(total) {
			return apperrors.NewInfeasibleMenuError(
				fmt.Sprintf("Not found products for given amount of type: %d kcal outside [%d, %d]",
					total, in.Envelope.Min, in.Envelope.Max))
		}
		menu.TotalCalories = total
		return tx.Menus().Create(ctx, menu)
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Menu generated",
		"account_id", accountID,
		"menu_id", menu.ID,
		"meal_time", menu.MealTime.String(),
		"items", len(menu.Items),
		"total_calories", menu.TotalCalories,
	)
	return menu, nil
}

// SuggestEnvelope derives the meal envelope of an account from its
// biometrics and latest measurement.
func (s *MenuService) SuggestEnvelope(ctx context.Context, accountID uint, meal domain.MealTime) (Envelope, error) {
	if !meal.Valid() {
		return Envelope{}, apperrors.NewValidationError(fmt.Sprintf("unknown meal time %q", meal))
	}
	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return Envelope{}, err
	}
	if account == nil {
		return Envelope{}, apperrors.NewNotFoundError("account")
	}
	latest, err := s.store.Measurements().Latest(ctx, accountID)
	if err != nil {
		return Envelope{}, err
	}
	if latest == nil {
		return Envelope{}, apperrors.NewInsufficientDataError("A measurement is required to derive the calorie envelope")
	}
	return MealEnvelope(DailyEnvelope(account, latest, s.now()), meal), nil
}

// Menu returns a stored menu of an account with its products resolved
func (s *MenuService) Menu(ctx context.Context, accountID, menuID uint) (*domain.Menu, error) {
	menu, err := s.store.Menus().GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu == nil || menu.AccountID != accountID {
		return nil, apperrors.NewNotFoundError("menu")
	}
	if err := s.resolveProducts(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// Menus lists the menus of an account for a date, or all when date is zero
func (s *MenuService) Menus(ctx context.Context, accountID uint, date time.Time) ([]domain.Menu, error) {
	if !date.IsZero() {
		date = utils.DateOnly(date)
	}
	menus, err := s.store.Menus().ListByAccount(ctx, accountID, date)
	if err != nil {
		return nil, err
	}
	for i := range menus {
		if err := s.resolveProducts(ctx, &menus[i]); err != nil {
			return nil, err
		}
	}
	return menus, nil
}

func (s *MenuService) resolveProducts(ctx context.Context, menu *domain.Menu) error {
	for i := range menu.Items {
		product, err := s.store.Products().GetByID(ctx, menu.Items[i].ProductID)
		if err != nil {
			return err
		}
		menu.Items[i].Product = product
	}
	return nil
}
