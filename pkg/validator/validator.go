// Package validator wraps go-playground/validator with readable field names
// and per-tag messages. It validates configuration structs before a client
// is built from them.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	gvalidator "github.com/go-playground/validator/v10"
)

// FieldError represents a single field validation problem.
type FieldError struct {
	Field   string
	Message string
	Tag     string
	Param   string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator is the wrapper around go-playground validator with extra features.
type Validator struct {
	v                *gvalidator.Validate
	tagErrorBuilders map[string]func(fe gvalidator.FieldError) string
}

// New creates a Validator that reports fields by their mapstructure or json
// tag name, falling back to the Go field name.
func New() *Validator {
	v := gvalidator.New(gvalidator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"mapstructure", "json"} {
			if name := getTagName(f, tag); name != "" {
				return name
			}
		}
		return f.Name
	})

	vi := &Validator{
		v:                v,
		tagErrorBuilders: make(map[string]func(gvalidator.FieldError) string),
	}
	vi.RegisterTagError("required", func(fe gvalidator.FieldError) string {
		return fmt.Sprintf("%s is required", fe.Field())
	})
	vi.RegisterTagError("url", func(fe gvalidator.FieldError) string {
		return fmt.Sprintf("%s must be an absolute URL", fe.Field())
	})
	return vi
}

func getTagName(f reflect.StructField, tagName string) string {
	tagValue := f.Tag.Get(tagName)
	if tagValue == "-" {
		return ""
	}
	return strings.SplitN(tagValue, ",", 2)[0]
}

// RegisterValidation registers a custom validator (name) to the engine.
func (vi *Validator) RegisterValidation(tag string, fn gvalidator.Func) error {
	return vi.v.RegisterValidation(tag, fn)
}

// RegisterTagError sets the message builder used for failures of tag.
func (vi *Validator) RegisterTagError(tag string, builder func(gvalidator.FieldError) string) {
	vi.tagErrorBuilders[tag] = builder
}

// Struct validates s and returns a *ValidationError listing every failure.
func (vi *Validator) Struct(s any) error {
	err := vi.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(gvalidator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: vi.buildMessageForField(fe),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
		})
	}
	return out
}

// buildMessageForField uses registered tag builders or defaults
func (vi *Validator) buildMessageForField(fe gvalidator.FieldError) string {
	if b, ok := vi.tagErrorBuilders[fe.Tag()]; ok && b != nil {
		return b(fe)
	}
	if fe.Param() != "" {
		return fmt.Sprintf("field %s failed on '%s' validation (param=%s)", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("field %s failed on '%s' validation", fe.Field(), fe.Tag())
}
