package services

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
)

// CatalogService manages products and ingredients
type CatalogService struct {
	store domain.Store
}

func NewCatalogService(store domain.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.Name == "" {
		return apperrors.NewValidationError("product name is required")
	}
	if !product.Type.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown product type %q", product.Type))
	}
	if product.Calories < 0 || product.Price < 0 {
		return apperrors.NewValidationError("calories and price must not be negative")
	}
	return s.store.Products().Create(ctx, product)
}

// ListProducts returns products of a type, or all when productType is empty
func (s *CatalogService) ListProducts(ctx context.Context, productType domain.ProductType) ([]domain.Product, error) {
	if productType != "" && !productType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown product type %q", productType))
	}
	return s.store.Products().List(ctx, productType)
}

func (s *CatalogService) CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error {
	if ingredient.Name == "" {
		return apperrors.NewValidationError("ingredient name is required")
	}
	if !ingredient.AllergicIndex.Valid() {
		return apperrors.NewValidationError("allergic index must be one of l, m, h")
	}
	if ingredient.AllergicPercentage < 0 || ingredient.AllergicPercentage > 100 {
		return apperrors.NewValidationError("allergic percentage must be between 0 and 100")
	}
	return s.store.Products().CreateIngredient(ctx, ingredient)
}

// LinkIngredient records that a product contains an ingredient. A repeated
// pair is a duplicate field error.
func (s *CatalogService) LinkIngredient(ctx context.Context, productID, ingredientID uint) (*domain.ProductIngredient, error) {
	products := s.store.Products()

	product, err := products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NewNotFoundError("product")
	}
	ingredient, err := products.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, apperrors.NewNotFoundError("ingredient")
	}

	link := &domain.ProductIngredient{ProductID: productID, IngredientID: ingredientID}
	if err := products.LinkIngredient(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *CatalogService) ProductIngredients(ctx context.Context, productID uint) ([]domain.Ingredient, error) {
	product, err := s.store.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NewNotFoundError("product")
	}
	return s.store.Products().Ingredients(ctx, productID)
}
