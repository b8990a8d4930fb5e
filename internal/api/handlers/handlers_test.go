package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diet-tracker/internal/api/middleware"
	"github.com/vladimiradmaev/diet-tracker/internal/api/response"
	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/services"
)

// Mock services

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, in services.RegisterInput) (*domain.Account, error) {
	args := m.Called(ctx, in)
	if a := args.Get(0); a != nil {
		return a.(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if p := args.Get(0); p != nil {
		return p.(*services.TokenPair), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) ResolveCurrentUser(ctx context.Context, accessToken string) (*domain.Session, error) {
	args := m.Called(ctx, accessToken)
	if s := args.Get(0); s != nil {
		return s.(*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuth) CurrentAccount(ctx context.Context, session *domain.Session) (*domain.Account, error) {
	args := m.Called(ctx, session)
	if a := args.Get(0); a != nil {
		return a.(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockMeasurements struct{ mock.Mock }

func (m *mockMeasurements) Submit(ctx context.Context, accountID uint, in services.MeasurementInput) (*domain.MeasurementRecord, error) {
	args := m.Called(ctx, accountID, in)
	if r := args.Get(0); r != nil {
		return r.(*domain.MeasurementRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMeasurements) Progress(ctx context.Context, accountID uint) (*services.Progress, error) {
	args := m.Called(ctx, accountID)
	if p := args.Get(0); p != nil {
		return p.(*services.Progress), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMeasurements) History(ctx context.Context, accountID uint, limit int) ([]domain.MeasurementRecord, error) {
	args := m.Called(ctx, accountID, limit)
	records, _ := args.Get(0).([]domain.MeasurementRecord)
	return records, args.Error(1)
}

type mockMenus struct{ mock.Mock }

func (m *mockMenus) Generate(ctx context.Context, accountID uint, in services.GenerateMenuInput) (*domain.Menu, error) {
	args := m.Called(ctx, accountID, in)
	if menu := args.Get(0); menu != nil {
		return menu.(*domain.Menu), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMenus) SuggestEnvelope(ctx context.Context, accountID uint, meal domain.MealTime) (services.Envelope, error) {
	args := m.Called(ctx, accountID, meal)
	return args.Get(0).(services.Envelope), args.Error(1)
}

func (m *mockMenus) Menu(ctx context.Context, accountID, menuID uint) (*domain.Menu, error) {
	args := m.Called(ctx, accountID, menuID)
	if menu := args.Get(0); menu != nil {
		return menu.(*domain.Menu), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMenus) Menus(ctx context.Context, accountID uint, date time.Time) ([]domain.Menu, error) {
	args := m.Called(ctx, accountID, date)
	menus, _ := args.Get(0).([]domain.Menu)
	return menus, args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) CreateProduct(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockCatalog) ListProducts(ctx context.Context, productType domain.ProductType) ([]domain.Product, error) {
	args := m.Called(ctx, productType)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *mockCatalog) CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error {
	return m.Called(ctx, ingredient).Error(0)
}

func (m *mockCatalog) LinkIngredient(ctx context.Context, productID, ingredientID uint) (*domain.ProductIngredient, error) {
	args := m.Called(ctx, productID, ingredientID)
	if link := args.Get(0); link != nil {
		return link.(*domain.ProductIngredient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) ProductIngredients(ctx context.Context, productID uint) ([]domain.Ingredient, error) {
	args := m.Called(ctx, productID)
	ingredients, _ := args.Get(0).([]domain.Ingredient)
	return ingredients, args.Error(1)
}

type mockTrainings struct{ mock.Mock }

func (m *mockTrainings) CreateTraining(ctx context.Context, training *domain.Training) error {
	return m.Called(ctx, training).Error(0)
}

func (m *mockTrainings) ListTrainings(ctx context.Context, level domain.TrainingLevel) ([]domain.Training, error) {
	args := m.Called(ctx, level)
	trainings, _ := args.Get(0).([]domain.Training)
	return trainings, args.Error(1)
}

func (m *mockTrainings) MarkConducted(ctx context.Context, accountID, trainingID uint) (*domain.ConductedTraining, error) {
	args := m.Called(ctx, accountID, trainingID)
	if mark := args.Get(0); mark != nil {
		return mark.(*domain.ConductedTraining), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTrainings) ConductedTrainings(ctx context.Context, accountID uint) ([]domain.ConductedTraining, error) {
	args := m.Called(ctx, accountID)
	marks, _ := args.Get(0).([]domain.ConductedTraining)
	return marks, args.Error(1)
}

// Helpers

var testSession = &domain.Session{ID: uuid.MustParse("6f1c1c1e-2d2f-4a4b-9c1e-0d1e2f3a4b5c"), AccountID: 7, Active: true}

func newRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r.WithContext(middleware.WithSession(r.Context(), testSession))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorBody `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// Account

func TestAccountHandler_Register(t *testing.T) {
	birth := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)

	t.Run("created", func(t *testing.T) {
		svc := new(mockAuth)
		svc.On("Register", mock.Anything, mock.MatchedBy(func(in services.RegisterInput) bool {
			return in.Username == "alice" && in.Phone == "+15551234567" &&
				in.BirthDate.Equal(birth) && in.Gender == domain.GenderFemale
		})).Return(&domain.Account{ID: 1, Username: "alice", Phone: "+15551234567", BirthDate: birth, Gender: domain.GenderFemale}, nil)

		w := httptest.NewRecorder()
		NewAccountHandler(svc).Register(w, newRequest(http.MethodPost, "/account/",
			`{"username":"alice","password":"s3cret!","phone":"+15551234567","birth_date":"1990-05-17","gender":"female"}`))

		assert.Equal(t, http.StatusCreated, w.Code)
		var account AccountResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &account))
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, "1990-05-17", account.BirthDate)
		assert.NotContains(t, w.Body.String(), "password")
		svc.AssertExpectations(t)
	})

	t.Run("invalid phone", func(t *testing.T) {
		svc := new(mockAuth)
		w := httptest.NewRecorder()
		NewAccountHandler(svc).Register(w, newRequest(http.MethodPost, "/account/",
			`{"username":"alice","password":"s3cret!","phone":"12345","birth_date":"1990-05-17","gender":"female"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "phone", decodeEnvelope(t, w).Error.Field)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("bad birth date", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewAccountHandler(new(mockAuth)).Register(w, newRequest(http.MethodPost, "/account/",
			`{"username":"alice","password":"s3cret!","phone":"+15551234567","birth_date":"17.05.1990","gender":"female"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "birth_date", decodeEnvelope(t, w).Error.Field)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := new(mockAuth)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.NewDuplicateFieldError("username"))

		w := httptest.NewRecorder()
		NewAccountHandler(svc).Register(w, newRequest(http.MethodPost, "/account/",
			`{"username":"alice","password":"s3cret!","phone":"+15551234567","birth_date":"1990-05-17","gender":"male"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, "DUPLICATE_FIELD", body.Error.Code)
		assert.Equal(t, "username", body.Error.Field)
	})
}

func TestAccountHandler_Login(t *testing.T) {
	pair := &services.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "bearer"}

	t.Run("json body", func(t *testing.T) {
		svc := new(mockAuth)
		svc.On("Login", mock.Anything, "alice", "s3cret!").Return(pair, nil)

		w := httptest.NewRecorder()
		NewAccountHandler(svc).Login(w, newRequest(http.MethodPost, "/account/token", `{"username":"alice","password":"s3cret!"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		var got services.TokenPair
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
		assert.Equal(t, *pair, got)
	})

	t.Run("form body", func(t *testing.T) {
		svc := new(mockAuth)
		svc.On("Login", mock.Anything, "alice", "s3cret!").Return(pair, nil)

		form := url.Values{"username": {"alice"}, "password": {"s3cret!"}}
		r := newRequest(http.MethodPost, "/account/token", form.Encode())
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := httptest.NewRecorder()
		NewAccountHandler(svc).Login(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing password", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewAccountHandler(new(mockAuth)).Login(w, newRequest(http.MethodPost, "/account/token", `{"username":"alice"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "password", decodeEnvelope(t, w).Error.Field)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := new(mockAuth)
		svc.On("Login", mock.Anything, "alice", "nope").Return(nil, apperrors.ErrInvalidCredentials)

		w := httptest.NewRecorder()
		NewAccountHandler(svc).Login(w, newRequest(http.MethodPost, "/account/token", `{"username":"alice","password":"nope"}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("blocked", func(t *testing.T) {
		svc := new(mockAuth)
		svc.On("Login", mock.Anything, "alice", "nope").
			Return(nil, apperrors.NewRateLimitedError("Too many failed login attempts", 90*time.Second+time.Millisecond))

		w := httptest.NewRecorder()
		NewAccountHandler(svc).Login(w, newRequest(http.MethodPost, "/account/token", `{"username":"alice","password":"nope"}`))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "91", w.Header().Get("Retry-After"))
		assert.Equal(t, 91, decodeEnvelope(t, w).Error.RetryAfter)
	})
}

func TestAccountHandler_Refresh(t *testing.T) {
	svc := new(mockAuth)
	svc.On("Refresh", mock.Anything, "good").Return("new-access", nil)
	svc.On("Refresh", mock.Anything, "revoked").Return("", apperrors.NewInvalidTokenError("session revoked"))
	h := NewAccountHandler(svc)

	w := httptest.NewRecorder()
	h.Refresh(w, newRequest(http.MethodPost, "/account/refresh", `{"refresh_token":"good"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, "new-access", got["access_token"])
	assert.Equal(t, "bearer", got["token_type"])

	w = httptest.NewRecorder()
	h.Refresh(w, newRequest(http.MethodPost, "/account/refresh", `{"refresh_token":"revoked"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", decodeEnvelope(t, w).Error.Code)
}

func TestAccountHandler_MeAndLogout(t *testing.T) {
	svc := new(mockAuth)
	svc.On("CurrentAccount", mock.Anything, testSession).Return(&domain.Account{ID: 7, Username: "alice"}, nil)
	svc.On("Logout", mock.Anything, testSession.ID).Return(nil)
	h := NewAccountHandler(svc)

	w := httptest.NewRecorder()
	h.Me(w, newRequest(http.MethodGet, "/account/", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	var account AccountResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &account))
	assert.Equal(t, uint(7), account.ID)

	w = httptest.NewRecorder()
	h.Logout(w, newRequest(http.MethodPost, "/account/logout", ""))
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

// Measurements

func TestMeasurementHandler_Submit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockMeasurements)
		svc.On("Submit", mock.Anything, uint(7), mock.MatchedBy(func(in services.MeasurementInput) bool {
			return in.Weight == 80 && in.Height == 180 && in.Waist != nil && *in.Waist == 90 && in.Chest == nil
		})).Return(&domain.MeasurementRecord{ID: 3, AccountID: 7, Weight: 80, Height: 180}, nil)

		w := httptest.NewRecorder()
		NewMeasurementHandler(svc).Submit(w, newRequest(http.MethodPost, "/measurements/", `{"weight":80,"height":180,"waist":90}`))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("non-positive weight", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewMeasurementHandler(new(mockMeasurements)).Submit(w, newRequest(http.MethodPost, "/measurements/", `{"weight":-1,"height":180}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "weight", decodeEnvelope(t, w).Error.Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewMeasurementHandler(new(mockMeasurements)).Submit(w, newRequest(http.MethodPost, "/measurements/", `{"weight":`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too soon", func(t *testing.T) {
		svc := new(mockMeasurements)
		svc.On("Submit", mock.Anything, uint(7), mock.Anything).
			Return(nil, apperrors.NewRateLimitedError("You can add new measurements once per interval", 48*time.Hour))

		w := httptest.NewRecorder()
		NewMeasurementHandler(svc).Submit(w, newRequest(http.MethodPost, "/measurements/", `{"weight":80,"height":180}`))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "172800", w.Header().Get("Retry-After"))
	})
}

func TestMeasurementHandler_HistoryAndProgress(t *testing.T) {
	svc := new(mockMeasurements)
	svc.On("History", mock.Anything, uint(7), 2).Return([]domain.MeasurementRecord{{ID: 2}, {ID: 1}}, nil)
	svc.On("Progress", mock.Anything, uint(7)).Return(nil, apperrors.NewInsufficientDataError("Not enough measurements to compare"))
	h := NewMeasurementHandler(svc)

	w := httptest.NewRecorder()
	h.History(w, newRequest(http.MethodGet, "/measurements/?limit=2", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	var records []domain.MeasurementRecord
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &records))
	assert.Len(t, records, 2)

	w = httptest.NewRecorder()
	h.History(w, newRequest(http.MethodGet, "/measurements/?limit=abc", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "limit", decodeEnvelope(t, w).Error.Field)

	w = httptest.NewRecorder()
	h.Progress(w, newRequest(http.MethodGet, "/measurements/progress", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "INSUFFICIENT_DATA", decodeEnvelope(t, w).Error.Code)
}

// Goal

func TestGoalHandler(t *testing.T) {
	svc := new(mockGoals)
	svc.On("SetGoal", mock.Anything, uint(7), domain.GoalLoss).Return(&domain.Goal{AccountID: 7, Goal: domain.GoalLoss}, nil)
	svc.On("GetGoal", mock.Anything, uint(7)).Return(nil, apperrors.NewNotFoundError("goal"))
	h := NewGoalHandler(svc)

	w := httptest.NewRecorder()
	h.Set(w, newRequest(http.MethodPut, "/goal/", `{"goal":"loss"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.Set(w, newRequest(http.MethodPut, "/goal/", `{"goal":"bulk"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "goal", decodeEnvelope(t, w).Error.Field)

	w = httptest.NewRecorder()
	h.Get(w, newRequest(http.MethodGet, "/goal/", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type mockGoals struct{ mock.Mock }

func (m *mockGoals) SetGoal(ctx context.Context, accountID uint, kind domain.GoalKind) (*domain.Goal, error) {
	args := m.Called(ctx, accountID, kind)
	if g := args.Get(0); g != nil {
		return g.(*domain.Goal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGoals) GetGoal(ctx context.Context, accountID uint) (*domain.Goal, error) {
	args := m.Called(ctx, accountID)
	if g := args.Get(0); g != nil {
		return g.(*domain.Goal), args.Error(1)
	}
	return nil, args.Error(1)
}

// Menus

func TestMenuHandler_Generate(t *testing.T) {
	t.Run("explicit envelope", func(t *testing.T) {
		svc := new(mockMenus)
		svc.On("Generate", mock.Anything, uint(7), mock.MatchedBy(func(in services.GenerateMenuInput) bool {
			return in.MealTime == domain.MealLunch &&
				in.Envelope == services.Envelope{Min: 600, Max: 800} &&
				in.Quota[domain.ProductFruit] == 2 &&
				in.Date.Equal(time.Date(2024, time.November, 9, 0, 0, 0, 0, time.UTC))
		})).Return(&domain.Menu{ID: 5, TotalCalories: 700}, nil)

		w := httptest.NewRecorder()
		NewMenuHandler(svc).Generate(w, newRequest(http.MethodPost, "/menus/",
			`{"meal_time":"lu","date":"2024-11-09","calories":{"min":600,"max":800},"quota":{"fruit":2}}`))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
		svc.AssertNotCalled(t, "SuggestEnvelope", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("derived envelope", func(t *testing.T) {
		svc := new(mockMenus)
		svc.On("SuggestEnvelope", mock.Anything, uint(7), domain.MealDinner).Return(services.Envelope{Min: 500, Max: 650}, nil)
		svc.On("Generate", mock.Anything, uint(7), mock.MatchedBy(func(in services.GenerateMenuInput) bool {
			return in.Envelope == services.Envelope{Min: 500, Max: 650} && in.Date.IsZero()
		})).Return(&domain.Menu{ID: 6}, nil)

		w := httptest.NewRecorder()
		NewMenuHandler(svc).Generate(w, newRequest(http.MethodPost, "/menus/", `{"meal_time":"dr","quota":{"meat":1}}`))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("no measurement to derive from", func(t *testing.T) {
		svc := new(mockMenus)
		svc.On("SuggestEnvelope", mock.Anything, uint(7), domain.MealDinner).
			Return(services.Envelope{}, apperrors.NewInsufficientDataError("A measurement is required to derive the calorie envelope"))

		w := httptest.NewRecorder()
		NewMenuHandler(svc).Generate(w, newRequest(http.MethodPost, "/menus/", `{"meal_time":"dr","quota":{"meat":1}}`))

		assert.Equal(t, http.StatusNotFound, w.Code)
		svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("infeasible", func(t *testing.T) {
		svc := new(mockMenus)
		svc.On("Generate", mock.Anything, uint(7), mock.Anything).
			Return(nil, apperrors.NewInfeasibleMenuError("Not found products for given amount of type"))

		w := httptest.NewRecorder()
		NewMenuHandler(svc).Generate(w, newRequest(http.MethodPost, "/menus/",
			`{"meal_time":"lu","calories":{"min":600,"max":800},"quota":{"fruit":2}}`))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INFEASIBLE_MENU", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			body  string
			field string
		}{
			{"unknown meal", `{"meal_time":"xx","quota":{"fruit":1}}`, "meal_time"},
			{"missing quota", `{"meal_time":"lu"}`, "quota"},
			{"inverted envelope", `{"meal_time":"lu","calories":{"min":800,"max":600},"quota":{"fruit":1}}`, "max"},
			{"bad date", `{"meal_time":"lu","date":"tomorrow","quota":{"fruit":1}}`, "date"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := new(mockMenus)
				w := httptest.NewRecorder()
				NewMenuHandler(svc).Generate(w, newRequest(http.MethodPost, "/menus/", tt.body))

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, tt.field, decodeEnvelope(t, w).Error.Field)
				svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})
}

func TestMenuHandler_Get(t *testing.T) {
	svc := new(mockMenus)
	svc.On("Menu", mock.Anything, uint(7), uint(5)).Return(&domain.Menu{ID: 5, AccountID: 7}, nil)
	svc.On("Menu", mock.Anything, uint(7), uint(9)).Return(nil, apperrors.NewNotFoundError("menu"))
	h := NewMenuHandler(svc)

	w := httptest.NewRecorder()
	h.Get(w, withURLParam(newRequest(http.MethodGet, "/menus/5", ""), "id", "5"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.Get(w, withURLParam(newRequest(http.MethodGet, "/menus/9", ""), "id", "9"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.Get(w, withURLParam(newRequest(http.MethodGet, "/menus/abc", ""), "id", "abc"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decodeEnvelope(t, w).Error.Field)
}

func TestMenuHandler_List(t *testing.T) {
	svc := new(mockMenus)
	svc.On("Menus", mock.Anything, uint(7), time.Date(2024, time.November, 9, 0, 0, 0, 0, time.UTC)).
		Return([]domain.Menu{{ID: 5}}, nil)
	h := NewMenuHandler(svc)

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/menus/?date=2024-11-09", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

// Catalog

func TestCatalogHandler(t *testing.T) {
	svc := new(mockCatalog)
	svc.On("ListProducts", mock.Anything, domain.ProductFruit).Return([]domain.Product{{ID: 1, Name: "apple"}}, nil)
	svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "apple" && p.Type == domain.ProductFruit && p.Calories == 52
	})).Return(nil)
	svc.On("LinkIngredient", mock.Anything, uint(1), uint(4)).Return(&domain.ProductIngredient{ID: 1, ProductID: 1, IngredientID: 4}, nil)
	svc.On("LinkIngredient", mock.Anything, uint(1), uint(5)).Return(nil, apperrors.NewDuplicateFieldError("product_id, ingredient_id"))
	h := NewCatalogHandler(svc)

	w := httptest.NewRecorder()
	h.ListProducts(w, newRequest(http.MethodGet, "/products/?type=fruit", ""))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.CreateProduct(w, newRequest(http.MethodPost, "/products/", `{"name":"apple","type":"fruit","price":1.5,"calories":52}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.CreateProduct(w, newRequest(http.MethodPost, "/products/", `{"name":"apple","type":"candy","calories":52}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "type", decodeEnvelope(t, w).Error.Field)

	w = httptest.NewRecorder()
	h.LinkIngredient(w, withURLParam(newRequest(http.MethodPost, "/products/1/ingredients", `{"ingredient_id":4}`), "id", "1"))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.LinkIngredient(w, withURLParam(newRequest(http.MethodPost, "/products/1/ingredients", `{"ingredient_id":5}`), "id", "1"))
	assert.Equal(t, http.StatusConflict, w.Code)

	svc.AssertExpectations(t)
}

func TestCatalogHandler_CreateIngredient(t *testing.T) {
	svc := new(mockCatalog)
	svc.On("CreateIngredient", mock.Anything, mock.MatchedBy(func(i *domain.Ingredient) bool {
		return i.Name == "peanut" && i.AllergicIndex == domain.AllergicHigh
	})).Return(nil)
	h := NewCatalogHandler(svc)

	w := httptest.NewRecorder()
	h.CreateIngredient(w, newRequest(http.MethodPost, "/ingredients/",
		`{"name":"peanut","calories_per_unit":6,"allergic_index":"h","allergic_percentage":2}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.CreateIngredient(w, newRequest(http.MethodPost, "/ingredients/",
		`{"name":"peanut","allergic_index":"x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "allergic_index", decodeEnvelope(t, w).Error.Field)
}

// Trainings

func TestTrainingHandler(t *testing.T) {
	svc := new(mockTrainings)
	svc.On("ListTrainings", mock.Anything, domain.TrainingHard).Return([]domain.Training{{ID: 2, Level: domain.TrainingHard}}, nil)
	svc.On("CreateTraining", mock.Anything, mock.Anything).Return(nil)
	svc.On("MarkConducted", mock.Anything, uint(7), uint(2)).Return(&domain.ConductedTraining{ID: 1, TrainingID: 2, AccountID: 7}, nil)
	svc.On("MarkConducted", mock.Anything, uint(7), uint(3)).Return(nil, apperrors.NewNotFoundError("training"))
	svc.On("ConductedTrainings", mock.Anything, uint(7)).Return([]domain.ConductedTraining{{ID: 1}}, nil)
	h := NewTrainingHandler(svc)

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/trainings/?level=3", ""))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.Create(w, newRequest(http.MethodPost, "/trainings/", `{"name":"plank","video":"https://videos.example.com/plank","level":2}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.Create(w, newRequest(http.MethodPost, "/trainings/", `{"name":"plank","video":"https://videos.example.com/plank","level":5}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "level", decodeEnvelope(t, w).Error.Field)

	w = httptest.NewRecorder()
	h.MarkConducted(w, withURLParam(newRequest(http.MethodPost, "/trainings/2/conducted", ""), "id", "2"))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	h.MarkConducted(w, withURLParam(newRequest(http.MethodPost, "/trainings/3/conducted", ""), "id", "3"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.Conducted(w, newRequest(http.MethodGet, "/trainings/conducted", ""))
	assert.Equal(t, http.StatusOK, w.Code)

	svc.AssertExpectations(t)
}
