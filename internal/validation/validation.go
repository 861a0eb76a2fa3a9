package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// emailShape is a deliberately loose local@domain.tld check.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Error describes why a request payload was rejected.
type Error struct {
	Missing []string
	Invalid []string
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	}
	if len(e.Invalid) == 1 && e.Invalid[0] == "email" {
		return "invalid email address"
	}
	return "invalid fields: " + strings.Join(e.Invalid, ", ")
}

// Validator checks request structs and cleans free text.
type Validator struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

// New creates a Validator with the emailshape rule registered and fields
// reported by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})

	return &Validator{
		validate:  v,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Struct validates s using its `validate` tags. Failures come back as *Error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	verr := &Error{}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			verr.Missing = append(verr.Missing, fe.Field())
			continue
		}
		verr.Invalid = append(verr.Invalid, fe.Field())
	}
	return verr
}

// IsEmail reports whether s looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailShape.MatchString(s)
}

// Sanitize strips every HTML tag from user supplied free text and returns
// plain text, with the entities the policy emits decoded again.
func (v *Validator) Sanitize(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(v.sanitizer.Sanitize(s)))
}
