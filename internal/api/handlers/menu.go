package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vladimiradmaev/diet-tracker/internal/api/middleware"
	"github.com/vladimiradmaev/diet-tracker/internal/api/response"
	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/interfaces"
	"github.com/vladimiradmaev/diet-tracker/internal/services"
	"github.com/vladimiradmaev/diet-tracker/internal/utils"
)

// MenuHandler handles menu generation requests
type MenuHandler struct {
	menus    interfaces.MenuServiceInterface
	validate *validator.Validate
}

func NewMenuHandler(menus interfaces.MenuServiceInterface) *MenuHandler {
	return &MenuHandler{menus: menus, validate: newValidator()}
}

// CaloriesRequest is an explicit calorie envelope
type CaloriesRequest struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// GenerateMenuRequest is the body of POST /menus/. Without calories the
// envelope is derived from the caller's latest measurement.
type GenerateMenuRequest struct {
	MealTime string           `json:"meal_time" validate:"required,oneof=bt sk lu ll an dr"`
	Date     string           `json:"date,omitempty"`
	Calories *CaloriesRequest `json:"calories,omitempty"`
	Quota    map[string]int   `json:"quota" validate:"required,min=1"`
}

// Generate handles POST /menus/
func (h *MenuHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateMenuRequest
	if err := decode(r, h.validate, &req); err != nil {
		middleware.RecordMenu("invalid")
		response.Error(w, r, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		d, err := utils.ParseDate(req.Date)
		if err != nil {
			middleware.RecordMenu("invalid")
			response.ValidationError(w, r, "date", "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	quota := make(services.Quota, len(req.Quota))
	for t, n := range req.Quota {
		quota[domain.ProductType(t)] = n
	}

	ctx := r.Context()
	session := middleware.SessionFromContext(ctx)
	meal := domain.MealTime(req.MealTime)

	var envelope services.Envelope
	if req.Calories != nil {
		envelope = services.Envelope{Min: req.Calories.Min, Max: req.Calories.Max}
	} else {
		suggested, err := h.menus.SuggestEnvelope(ctx, session.AccountID, meal)
		if err != nil {
			middleware.RecordMenu("error")
			response.Error(w, r, err)
			return
		}
		envelope = suggested
	}

	menu, err := h.menus.Generate(ctx, session.AccountID, services.GenerateMenuInput{
		MealTime: meal,
		Date:     date,
		Envelope: envelope,
		Quota:    quota,
	})
	if err != nil {
		switch apperrors.TypeOf(err) {
		case apperrors.ErrorTypeInfeasibleMenu:
			middleware.RecordMenu("infeasible")
		case apperrors.ErrorTypeValidation:
			middleware.RecordMenu("invalid")
		default:
			middleware.RecordMenu("error")
		}
		response.Error(w, r, err)
		return
	}
	middleware.RecordMenu("ok")
	response.Created(w, menu)
}

// List handles GET /menus/?date=
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			response.ValidationError(w, r, "date", "date must be YYYY-MM-DD")
			return
		}
		date = d
	}
	session := middleware.SessionFromContext(r.Context())
	menus, err := h.menus.Menus(r.Context(), session.AccountID, date)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, menus)
}

// Get handles GET /menus/{id}
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	session := middleware.SessionFromContext(r.Context())
	menu, err := h.menus.Menu(r.Context(), session.AccountID, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, menu)
}
