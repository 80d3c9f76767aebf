package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"relief/pkg/types"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError maps typed errors onto status codes. Anything untyped is logged and
// reported as a generic 500.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *types.Error
	if !errors.As(err, &e) {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case types.KindValidation:
		status = http.StatusBadRequest
	case types.KindUnauthenticated:
		status = http.StatusUnauthorized
	case types.KindPermission:
		status = http.StatusForbidden
	case types.KindNotFound:
		status = http.StatusNotFound
	}

	s.writeJSON(w, status, errorBody{Error: e.Message, Field: e.Field})
}

// decode reads a JSON body into dst and runs struct validation on it.
func (s *Service) decode(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return types.Validation("request body is empty")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return types.FieldValidation(typeErr.Field, "expected "+typeErr.Type.String())
		}
		return types.Validation("request body is not valid JSON")
	}

	return s.check(dst)
}

func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return types.FieldValidation(fe.Field(), "this field is required")
	case "email":
		return types.FieldValidation(fe.Field(), "enter a valid email address")
	case "max":
		return types.FieldValidation(fe.Field(), "ensure this field has no more than "+fe.Param()+" characters")
	case "min":
		return types.FieldValidation(fe.Field(), "ensure this field has at least "+fe.Param()+" characters")
	case "lte":
		return types.FieldValidation(fe.Field(), "ensure this value is less than or equal to "+fe.Param())
	case "gt":
		return types.FieldValidation(fe.Field(), "ensure this value is greater than "+fe.Param())
	}
	return types.FieldValidation(fe.Field(), "invalid value")
}

func optionalQuery(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}
