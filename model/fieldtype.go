package model

import (
	"fmt"
	"time"

	"github.com/mbolis/quick-forms/apperr"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldDate     FieldType = "date"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
)

const (
	MaxTextLen     = 1000
	MaxTextareaLen = 10000

	dateLayout = "2006-01-02"
)

// typeSpec is one entry of the field type registry: which properties apply to
// the type and how a submitted value is checked against a field of that type.
// Client rendering and server validation both derive from this table, so the
// two can never drift apart.
type typeSpec struct {
	hasPlaceholder bool
	hasOptions     bool
	validate       func(f FormField, value any) error
}

var fieldTypes = map[FieldType]typeSpec{
	FieldText: {
		hasPlaceholder: true,
		validate:       validateText("text", MaxTextLen),
	},
	FieldTextarea: {
		hasPlaceholder: true,
		validate:       validateText("textarea", MaxTextareaLen),
	},
	FieldDate: {
		hasPlaceholder: true,
		validate:       validateDate,
	},
	FieldRadio: {
		hasOptions: true,
		validate:   validateRadio,
	},
	FieldCheckbox: {
		hasOptions: true,
		validate:   validateCheckbox,
	},
}

// KnownFieldType reports whether t names a registered field type. The
// registry has no default: callers must reject unknown types outright.
func KnownFieldType(t FieldType) bool {
	_, ok := fieldTypes[t]
	return ok
}

// ApplyTypeDefaults resets the properties that do not apply to the field's
// type, as happens when the user switches a field from one type to another.
// Label, required flag and position are always preserved.
func ApplyTypeDefaults(f *FormField) {
	spec := fieldTypes[f.Type]
	if !spec.hasPlaceholder {
		f.Placeholder = ""
	}
	if !spec.hasOptions {
		f.Options = nil
	}
}

// ValidateFieldSpec checks a field definition as supplied by the form editor.
func ValidateFieldSpec(f FormField) *apperr.Error {
	spec, ok := fieldTypes[f.Type]
	if !ok {
		return apperr.Validation("unknown field type %q", f.Type)
	}
	if f.Label == "" {
		return apperr.Validation("field label is required")
	}
	if len([]rune(f.Label)) > MaxLabelLen {
		return apperr.Validation("field label must be at most %d characters", MaxLabelLen)
	}
	if len([]rune(f.Placeholder)) > MaxPlaceholderLen {
		return apperr.Validation("field placeholder must be at most %d characters", MaxPlaceholderLen)
	}
	if f.Position < 1 {
		return apperr.Validation("field position must be a positive integer")
	}

	if spec.hasOptions {
		if len(f.Options) == 0 {
			return apperr.Validation("field %q requires at least one option", f.Label)
		}
		seen := make(map[string]bool, len(f.Options))
		for _, o := range f.Options {
			if len([]rune(o.Label)) > MaxOptionLen || len([]rune(o.Value)) > MaxOptionLen {
				return apperr.Validation("option labels and values must be at most %d characters", MaxOptionLen)
			}
			if seen[o.Value] {
				return apperr.Validation("field %q has duplicate option value %q", f.Label, o.Value)
			}
			seen[o.Value] = true
		}
	}
	return nil
}

// ValidateValue checks a present, non-empty submitted value against the
// field's type contract. Required/empty handling happens before this call.
func ValidateValue(f FormField, value any) *apperr.Error {
	spec, ok := fieldTypes[f.Type]
	if !ok {
		return apperr.Validation("unknown field type %q", f.Type)
	}
	if err := spec.validate(f, value); err != nil {
		return apperr.FieldValidation(f.ID, f.Label, err.Error())
	}
	return nil
}

func validateText(kind string, max int) func(f FormField, value any) error {
	return func(f FormField, value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s value must be a string", kind)
		}
		if len([]rune(s)) > max {
			return fmt.Errorf("%s value must be at most %d characters", kind, max)
		}
		return nil
	}
}

func validateDate(f FormField, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("date value must be a string")
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("%q is not a valid date", s)
	}
	return nil
}

func validateRadio(f FormField, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("radio value must be a string")
	}
	if !hasOptionValue(f.Options, s) {
		return fmt.Errorf("%q is not one of the allowed options", s)
	}
	return nil
}

func validateCheckbox(f FormField, value any) error {
	values, err := stringSlice(value)
	if err != nil {
		return err
	}
	for _, s := range values {
		if !hasOptionValue(f.Options, s) {
			return fmt.Errorf("%q is not one of the allowed options", s)
		}
	}
	return nil
}

func hasOptionValue(options []FieldOption, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// stringSlice accepts both []string and the []any produced by JSON decoding.
func stringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("checkbox values must be strings")
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("checkbox value must be a list of strings")
	}
}
