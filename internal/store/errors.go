package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports empty or malformed required input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ReferenceError reports a subject that does not exist at write time.
type ReferenceError struct {
	SubjectID int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("subject not found: %d", e.SubjectID)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsReference reports whether err is a *ReferenceError.
func IsReference(err error) bool {
	var re *ReferenceError
	return errors.As(err, &re)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateParams(p interface{}) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return &ValidationError{Field: fe.Field(), Reason: reason(fe.Tag())}
	}
	return err
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	default:
		return "failed " + tag + " check"
	}
}
