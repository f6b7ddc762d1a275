// Package validation wraps go-playground/validator with the rules shared by
// every railbook domain and renders failures as field level messages.
package validation

import (
	"errors"
	"fmt"
	"railbook/pkg/logger"
	"railbook/pkg/model"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	TagUserName = "username"
	TagStation  = "station"
	TagDate     = "date"
)

var reUserName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]{2,31}$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// New returns a validator with the shared rules registered and json field
// names reported in errors.
func New(log *logger.Logger) *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		TagUserName: validateUserName,
		TagStation:  validateStation,
		TagDate:     validateDate,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	return v
}

func validateUserName(fl validator.FieldLevel) bool {
	return reUserName.MatchString(fl.Field().String())
}

func validateStation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s != strings.TrimSpace(s) {
		return false
	}
	n := utf8.RuneCountInString(s)
	return n >= 2 && n <= 64
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.DateLayout, fl.Field().String())
	return err == nil
}

// Struct validates s and translates field failures into ValidationErrors.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Translate(validationErrs)
		}
		return err
	}
	return nil
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			if err.Kind() == reflect.String {
				message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
			} else {
				message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
			}
		case "max":
			if err.Kind() == reflect.String {
				message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
			} else {
				message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
			}
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param())
		case "nefield":
			message = fmt.Sprintf("%s must differ from %s", err.Field(), strings.ToLower(err.Param()))
		case TagUserName:
			message = fmt.Sprintf("%s must be 3-32 letters, digits, '.', '_' or '-' and start with a letter or digit", err.Field())
		case TagStation:
			message = fmt.Sprintf("%s must be 2-64 characters without surrounding whitespace", err.Field())
		case TagDate:
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

// Details renders err for an AppError details map.
func Details(err error) map[string]any {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return map[string]any{"errors": []ValidationError(ve)}
	}
	return map[string]any{"error": err.Error()}
}
