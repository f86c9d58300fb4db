package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// usernameRe keeps usernames safe to embed in file names.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return usernameRe.MatchString(s) && s != "." && s != ".."
	})
}

// FieldError describes one failed rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (f FieldError) String() string {
	if f.Param != "" {
		return fmt.Sprintf("%s (%s=%s)", f.Field, f.Tag, f.Param)
	}
	return fmt.Sprintf("%s (%s)", f.Field, f.Tag)
}

// Error lists every failed rule of a struct.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldNames returns the names of the failing fields.
func (e *Error) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// ValidateStruct checks s against its `validate` tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// ValidateVar checks a single value against a tag expression.
func ValidateVar(v interface{}, tag string) error {
	return validate.Var(v, tag)
}
