package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
)

// ProductRepository handles catalog data operations
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error)
}

// GetByID gets a product by its id
func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	return findOne[domain.Product](r.db.WithContext(ctx), "id = ?", id)
}

// List gets products of a type, or every product when productType is empty
func (r *ProductRepository) List(ctx context.Context, productType domain.ProductType) ([]domain.Product, error) {
	var products []domain.Product
	query := r.db.WithContext(ctx).Order("id")
	if productType != "" {
		query = query.Where("type = ?", productType)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, translateError(err)
	}
	return products, nil
}

// RandomByType draws up to limit distinct products of a type in random order
func (r *ProductRepository) RandomByType(ctx context.Context, productType domain.ProductType, limit int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Where("type = ?", productType).
		Order("RANDOM()").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, translateError(err)
	}
	return products, nil
}

// CreateIngredient inserts an ingredient
func (r *ProductRepository) CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error {
	return translateError(r.db.WithContext(ctx).Create(ingredient).Error)
}

// GetIngredient gets an ingredient by its id
func (r *ProductRepository) GetIngredient(ctx context.Context, id uint) (*domain.Ingredient, error) {
	return findOne[domain.Ingredient](r.db.WithContext(ctx), "id = ?", id)
}

// LinkIngredient records that a product contains an ingredient
func (r *ProductRepository) LinkIngredient(ctx context.Context, link *domain.ProductIngredient) error {
	return translateError(r.db.WithContext(ctx).Create(link).Error)
}

// Ingredients gets the ingredients of a product
func (r *ProductRepository) Ingredients(ctx context.Context, productID uint) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	err := r.db.WithContext(ctx).
		Joins("JOIN product_ingredients ON product_ingredients.ingredient_id = ingredients.id").
		Where("product_ingredients.product_id = ?", productID).
		Order("ingredients.id").
		Find(&ingredients).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ingredients, nil
}
