package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vladimiradmaev/diet-tracker/internal/api/middleware"
	"github.com/vladimiradmaev/diet-tracker/internal/api/response"
	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	"github.com/vladimiradmaev/diet-tracker/internal/interfaces"
)

// TrainingHandler handles training catalog requests
type TrainingHandler struct {
	trainings interfaces.TrainingServiceInterface
	validate  *validator.Validate
}

func NewTrainingHandler(trainings interfaces.TrainingServiceInterface) *TrainingHandler {
	return &TrainingHandler{trainings: trainings, validate: newValidator()}
}

// TrainingRequest is the body of POST /trainings/
type TrainingRequest struct {
	Name  string `json:"name" validate:"required,max=32"`
	Video string `json:"video" validate:"required,url,max=256"`
	Level int    `json:"level" validate:"required,min=1,max=4"`
}

// List handles GET /trainings/?level=
func (h *TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	level, err := intQuery(r, "level")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	trainings, err := h.trainings.ListTrainings(r.Context(), domain.TrainingLevel(level))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, trainings)
}

// Create handles POST /trainings/
func (h *TrainingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TrainingRequest
	if err := decode(r, h.validate, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	training := &domain.Training{
		Name:  req.Name,
		Video: req.Video,
		Level: domain.TrainingLevel(req.Level),
	}
	if err := h.trainings.CreateTraining(r.Context(), training); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, training)
}

// MarkConducted handles POST /trainings/{id}/conducted
func (h *TrainingHandler) MarkConducted(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	session := middleware.SessionFromContext(r.Context())
	mark, err := h.trainings.MarkConducted(r.Context(), session.AccountID, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, mark)
}

// Conducted handles GET /trainings/conducted
func (h *TrainingHandler) Conducted(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	marks, err := h.trainings.ConductedTrainings(r.Context(), session.AccountID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, marks)
}
