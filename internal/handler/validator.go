package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"project-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidationError lists every failed field of a request body
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrValidation
}

// RequestValidator plugs go-playground/validator into echo's c.Validate
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// RegisterValidation only fails on an empty tag
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return hasLetterAndDigit(fl.Field().String())
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, describe(fe))
	}
	return &ValidationError{Details: details}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "slug":
		return fmt.Sprintf("%s must be lowercase letters, digits and single hyphens", fe.Field())
	case "password":
		return fmt.Sprintf("%s must contain at least one letter and one digit", fe.Field())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
