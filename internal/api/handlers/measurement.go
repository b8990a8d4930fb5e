package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vladimiradmaev/diet-tracker/internal/api/middleware"
	"github.com/vladimiradmaev/diet-tracker/internal/api/response"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/interfaces"
	"github.com/vladimiradmaev/diet-tracker/internal/services"
)

// MeasurementHandler handles measurement ledger requests
type MeasurementHandler struct {
	measurements interfaces.MeasurementServiceInterface
	validate     *validator.Validate
}

func NewMeasurementHandler(measurements interfaces.MeasurementServiceInterface) *MeasurementHandler {
	return &MeasurementHandler{measurements: measurements, validate: newValidator()}
}

// MeasurementRequest is the body of POST /measurements/
type MeasurementRequest struct {
	Weight float64  `json:"weight" validate:"required,gt=0,lt=700"`
	Height float64  `json:"height" validate:"required,gt=0,lt=300"`
	Chest  *float64 `json:"chest,omitempty" validate:"omitempty,gt=0"`
	Waist  *float64 `json:"waist,omitempty" validate:"omitempty,gt=0"`
	Hips   *float64 `json:"hips,omitempty" validate:"omitempty,gt=0"`
}

// Submit handles POST /measurements/
func (h *MeasurementHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req MeasurementRequest
	if err := decode(r, h.validate, &req); err != nil {
		middleware.RecordMeasurement("invalid")
		response.Error(w, r, err)
		return
	}

	session := middleware.SessionFromContext(r.Context())
	record, err := h.measurements.Submit(r.Context(), session.AccountID, services.MeasurementInput{
		Weight: req.Weight,
		Height: req.Height,
		Chest:  req.Chest,
		Waist:  req.Waist,
		Hips:   req.Hips,
	})
	if err != nil {
		switch apperrors.TypeOf(err) {
		case apperrors.ErrorTypeRateLimit:
			middleware.RecordMeasurement("too_soon")
		case apperrors.ErrorTypeValidation:
			middleware.RecordMeasurement("invalid")
		default:
			middleware.RecordMeasurement("error")
		}
		response.Error(w, r, err)
		return
	}
	middleware.RecordMeasurement("ok")
	response.Created(w, record)
}

// History handles GET /measurements/?limit=
func (h *MeasurementHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	session := middleware.SessionFromContext(r.Context())
	records, err := h.measurements.History(r.Context(), session.AccountID, limit)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, records)
}

// Progress handles GET /measurements/progress
func (h *MeasurementHandler) Progress(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	progress, err := h.measurements.Progress(r.Context(), session.AccountID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, progress)
}
