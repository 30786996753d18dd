package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is a single constraint failure on one field.
type Violation struct {
	PropertyPath string `json:"propertyPath"`
	Message      string `json:"message"`
}

// Violations is a machine-readable list of constraint failures. It implements
// error so services can return it directly; the HTTP layer renders it as 422.
type Violations []Violation

func (v Violations) Error() string {
	return "validation failed"
}

// Add appends a violation and returns the extended list.
func (v Violations) Add(path, message string) Violations {
	return append(v, Violation{PropertyPath: path, Message: message})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the JSON field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates the tagged constraints on an entity and returns the
// accumulated violations, or nil when the entity is valid.
func Struct(entity any) Violations {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Violations{{PropertyPath: "", Message: err.Error()}}
	}

	out := make(Violations, 0, len(ve))
	for _, fe := range ve {
		out = append(out, Violation{
			PropertyPath: fe.Field(),
			Message:      message(fe),
		})
	}
	return out
}

// message converts a field error into the constraint message exposed to
// API consumers.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This value should not be blank."
	case "email":
		return "This value is not a valid email address."
	case "min":
		return "This value is too short. It should have " + fe.Param() + " characters or more."
	case "max":
		if fe.Field() == "title" {
			return "Describe your cheese in 50 chars or less"
		}
		return "This value is too long. It should have " + fe.Param() + " characters or less."
	default:
		return "This value is not valid."
	}
}
