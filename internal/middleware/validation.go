package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "shiftboard/internal/errors"
	"shiftboard/internal/schedule"
)

// maxBodySize caps JSON request bodies
const maxBodySize = 64 << 10

// RequestValidator decodes JSON bodies and checks them against struct tags
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator creates a validator that reports fields by their JSON name
// and understands the datekey tag.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	_ = v.RegisterValidation("datekey", isDateKey)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validator: v}
}

// Decode reads r's JSON body into dst and validates it. Errors are *APIError.
func (rv *RequestValidator) Decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apierrors.New(http.StatusBadRequest, "INVALID_REQUEST", "Request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierrors.InvalidRequestWithError(err)
	}
	return rv.Struct(dst)
}

// Struct validates v and converts failures into a VALIDATION_FAILED error
func (rv *RequestValidator) Struct(v interface{}) error {
	err := rv.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(out)
}

// Var validates a single value, e.g. a URL parameter, against tag
func (rv *RequestValidator) Var(field string, value interface{}, tag string) error {
	if err := rv.validator.Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apierrors.NewValidationErrors([]apierrors.ValidationError{{
				Field:   field,
				Message: formatTag(field, fe.Tag(), fe.Param()),
			}})
		}
		return apierrors.InvalidRequestWithError(err)
	}
	return nil
}

func formatValidationError(fe validator.FieldError) string {
	return formatTag(fe.Field(), fe.Tag(), fe.Param())
}

func formatTag(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "datekey":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

func isDateKey(fl validator.FieldLevel) bool {
	_, ok := schedule.KeyTime(fl.Field().String())
	return ok
}
