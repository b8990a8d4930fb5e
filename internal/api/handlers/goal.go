package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vladimiradmaev/diet-tracker/internal/api/middleware"
	"github.com/vladimiradmaev/diet-tracker/internal/api/response"
	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	"github.com/vladimiradmaev/diet-tracker/internal/interfaces"
)

// GoalHandler handles goal requests
type GoalHandler struct {
	goals    interfaces.GoalServiceInterface
	validate *validator.Validate
}

func NewGoalHandler(goals interfaces.GoalServiceInterface) *GoalHandler {
	return &GoalHandler{goals: goals, validate: newValidator()}
}

// GoalRequest is the body of PUT /goal/
type GoalRequest struct {
	Goal string `json:"goal" validate:"required,oneof=loss gain maintain"`
}

// Set handles PUT /goal/
func (h *GoalHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req GoalRequest
	if err := decode(r, h.validate, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	session := middleware.SessionFromContext(r.Context())
	goal, err := h.goals.SetGoal(r.Context(), session.AccountID, domain.GoalKind(req.Goal))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, goal)
}

// Get handles GET /goal/
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	goal, err := h.goals.GetGoal(r.Context(), session.AccountID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, goal)
}
