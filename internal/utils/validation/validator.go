package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// report fields by their JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator struct {
	Errors []ValidationError
}

func New() *Validator {
	return &Validator{
		Errors: make([]ValidationError, 0),
	}
}

// Validate checks obj against its `validate` struct tags.
func Validate(obj interface{}) *Validator {
	v := New()
	err := validate.Struct(obj)
	if err == nil {
		return v
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.AddError("", err.Error())
		return v
	}
	for _, fe := range verrs {
		v.AddError(fe.Field(), message(fe))
	}
	return v
}

// IsUUID reports whether s is a canonical UUID.
func IsUUID(s string) bool {
	return validate.Var(s, "required,uuid") == nil
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "alpha":
		return "Must contain letters only"
	case "gte":
		return "Value must be greater than or equal to " + fe.Param()
	default:
		return "Invalid value"
	}
}
