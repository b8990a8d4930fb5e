// Package handlers provides the HTTP handlers of the API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	AuthService        interfaces.AuthServiceInterface
	MeasurementService interfaces.MeasurementServiceInterface
	GoalService        interfaces.GoalServiceInterface
	MenuService        interfaces.MenuServiceInterface
	CatalogService     interfaces.CatalogServiceInterface
	TrainingService    interfaces.TrainingServiceInterface
}

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, v *validator.Validate, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}
	return validate(v, dst)
}

func validate(v *validator.Validate, dst any) error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s is invalid (%s=%s)", fe.Field(), fe.Tag(), fe.Param())
		}
		return apperrors.NewValidationError(msg).WithContext(apperrors.FieldKey, fe.Field())
	}
	return apperrors.NewValidationError(err.Error())
}

// idParam parses a positive numeric URL parameter.
func idParam(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be a positive integer", name)).
			WithContext(apperrors.FieldKey, name)
	}
	return uint(id), nil
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be a non-negative integer", name)).
			WithContext(apperrors.FieldKey, name)
	}
	return n, nil
}
