package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vladimiradmaev/diet-tracker/internal/api/response"
	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	"github.com/vladimiradmaev/diet-tracker/internal/interfaces"
)

// CatalogHandler handles product and ingredient requests
type CatalogHandler struct {
	catalog  interfaces.CatalogServiceInterface
	validate *validator.Validate
}

func NewCatalogHandler(catalog interfaces.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, validate: newValidator()}
}

// ProductRequest is the body of POST /products/
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=64"`
	Description string  `json:"description" validate:"max=256"`
	Image       string  `json:"image" validate:"omitempty,max=256"`
	Type        string  `json:"type" validate:"required,oneof=fruit vegetable grain nut meat dairy snack food"`
	Price       float64 `json:"price" validate:"gte=0"`
	Calories    int     `json:"calories" validate:"gte=0"`
}

// ListProducts handles GET /products/?type=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	productType := domain.ProductType(r.URL.Query().Get("type"))
	products, err := h.catalog.ListProducts(r.Context(), productType)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, products)
}

// CreateProduct handles POST /products/
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decode(r, h.validate, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Type:        domain.ProductType(req.Type),
		Price:       req.Price,
		Calories:    req.Calories,
	}
	if err := h.catalog.CreateProduct(r.Context(), product); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, product)
}

// IngredientRequest is the body of POST /ingredients/
type IngredientRequest struct {
	Name               string `json:"name" validate:"required,max=64"`
	CaloriesPerUnit    int    `json:"calories_per_unit" validate:"gte=0"`
	AllergicIndex      string `json:"allergic_index" validate:"required,oneof=l m h"`
	AllergicPercentage int    `json:"allergic_percentage" validate:"gte=0,lte=100"`
}

// CreateIngredient handles POST /ingredients/
func (h *CatalogHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req IngredientRequest
	if err := decode(r, h.validate, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	ingredient := &domain.Ingredient{
		Name:               req.Name,
		CaloriesPerUnit:    req.CaloriesPerUnit,
		AllergicIndex:      domain.AllergicIndex(req.AllergicIndex),
		AllergicPercentage: req.AllergicPercentage,
	}
	if err := h.catalog.CreateIngredient(r.Context(), ingredient); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, ingredient)
}

// LinkRequest is the body of POST /products/{id}/ingredients
type LinkRequest struct {
	IngredientID uint `json:"ingredient_id" validate:"required,gt=0"`
}

// LinkIngredient handles POST /products/{id}/ingredients
func (h *CatalogHandler) LinkIngredient(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var req LinkRequest
	if err := decode(r, h.validate, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	link, err := h.catalog.LinkIngredient(r.Context(), productID, req.IngredientID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, link)
}

// ProductIngredients handles GET /products/{id}/ingredients
func (h *CatalogHandler) ProductIngredients(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	ingredients, err := h.catalog.ProductIngredients(r.Context(), productID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, ingredients)
}
