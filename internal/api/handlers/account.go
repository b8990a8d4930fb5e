package handlers

import (
	"net/http"
	"strings"
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

// AccountHandler handles registration, login and session requests
type AccountHandler struct {
	auth     interfaces.AuthServiceInterface
	validate *validator.Validate
}

func NewAccountHandler(auth interfaces.AuthServiceInterface) *AccountHandler {
	return &AccountHandler{auth: auth, validate: newValidator()}
}

// RegisterRequest is the body of POST /account/
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Phone     string `json:"phone" validate:"required,e164"`
	BirthDate string `json:"birth_date" validate:"required"`
	Gender    string `json:"gender" validate:"required,oneof=male female"`
}

// AccountResponse is the public view of an account
type AccountResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Phone     string    `json:"phone"`
	BirthDate string    `json:"birth_date"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Phone:     a.Phone,
		BirthDate: a.BirthDate.Format(time.DateOnly),
		Gender:    string(a.Gender),
		CreatedAt: a.CreatedAt,
	}
}

// Register handles POST /account/
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, h.validate, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	birth, err := utils.ParseDate(req.BirthDate)
	if err != nil {
		response.ValidationError(w, r, "birth_date", "birth_date must be YYYY-MM-DD")
		return
	}

	account, err := h.auth.Register(r.Context(), services.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Phone:     req.Phone,
		BirthDate: birth,
		Gender:    domain.Gender(req.Gender),
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, toAccountResponse(account))
}

// LoginRequest is the body of POST /account/token. Form-encoded bodies
// with the same field names are accepted too.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /account/token
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			response.BadRequest(w, r, "Invalid form body")
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		if err := validate(h.validate, &req); err != nil {
			response.Error(w, r, err)
			return
		}
	} else if err := decode(r, h.validate, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch apperrors.TypeOf(err) {
		case apperrors.ErrorTypeInvalidCredentials:
			middleware.RecordLogin("invalid")
		case apperrors.ErrorTypeRateLimit:
			middleware.RecordLogin("blocked")
		default:
			middleware.RecordLogin("error")
		}
		response.Error(w, r, err)
		return
	}
	middleware.RecordLogin("ok")
	response.OK(w, pair)
}

// RefreshRequest is the body of POST /account/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles POST /account/refresh
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decode(r, h.validate, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	access, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, map[string]string{
		"access_token": access,
		"token_type":   "bearer",
	})
}

// Me handles GET /account/
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	account, err := h.auth.CurrentAccount(r.Context(), session)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, toAccountResponse(account))
}

// Logout handles POST /account/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), session.ID); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}
