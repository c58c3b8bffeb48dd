package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/apperr"
)

func TestKnownFieldType(t *testing.T) {
	for _, ft := range []FieldType{FieldText, FieldTextarea, FieldDate, FieldRadio, FieldCheckbox} {
		assert.True(t, KnownFieldType(ft), "type %q should be registered", ft)
	}
	assert.False(t, KnownFieldType("number"))
	assert.False(t, KnownFieldType(""))
}

func TestApplyTypeDefaults(t *testing.T) {
	t.Run("choice types drop the placeholder", func(t *testing.T) {
		f := FormField{
			Type:        FieldRadio,
			Label:       "Color",
			Placeholder: "leftover from text",
			Required:    true,
			Options:     []FieldOption{{Label: "Red", Value: "red"}},
			Position:    3,
		}
		ApplyTypeDefaults(&f)

		assert.Empty(t, f.Placeholder)
		assert.NotEmpty(t, f.Options)
		assert.Equal(t, "Color", f.Label)
		assert.True(t, f.Required)
		assert.Equal(t, 3, f.Position)
	})

	t.Run("text types drop the options", func(t *testing.T) {
		f := FormField{
			Type:        FieldText,
			Label:       "Name",
			Placeholder: "Your name",
			Options:     []FieldOption{{Label: "Red", Value: "red"}},
			Position:    1,
		}
		ApplyTypeDefaults(&f)

		assert.Nil(t, f.Options)
		assert.Equal(t, "Your name", f.Placeholder)
	})
}

func TestValidateFieldSpec(t *testing.T) {
	valid := FormField{Type: FieldText, Label: "Name", Position: 1}
	require.Nil(t, ValidateFieldSpec(valid))

	tests := []struct {
		name  string
		field FormField
		msg   string
	}{
		{
			"unknown type",
			FormField{Type: "number", Label: "Age", Position: 1},
			"unknown field type",
		},
		{
			"missing label",
			FormField{Type: FieldText, Position: 1},
			"label is required",
		},
		{
			"label too long",
			FormField{Type: FieldText, Label: strings.Repeat("x", 256), Position: 1},
			"at most 255",
		},
		{
			"placeholder too long",
			FormField{Type: FieldText, Label: "Name", Placeholder: strings.Repeat("x", 501), Position: 1},
			"at most 500",
		},
		{
			"zero position",
			FormField{Type: FieldText, Label: "Name"},
			"positive",
		},
		{
			"radio without options",
			FormField{Type: FieldRadio, Label: "Color", Position: 1},
			"at least one option",
		},
		{
			"checkbox without options",
			FormField{Type: FieldCheckbox, Label: "Toppings", Position: 1},
			"at least one option",
		},
		{
			"duplicate option values",
			FormField{
				Type: FieldRadio, Label: "Color", Position: 1,
				Options: []FieldOption{{Label: "Red", Value: "red"}, {Label: "Dark Red", Value: "red"}},
			},
			"duplicate option value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldSpec(tt.field)
			require.NotNil(t, err)
			assert.Equal(t, apperr.CodeValidation, err.Code)
			assert.Contains(t, err.Message, tt.msg)
		})
	}
}

func TestValidateValue(t *testing.T) {
	radio := FormField{
		ID: "f1", Type: FieldRadio, Label: "Color",
		Options: []FieldOption{{Label: "Red", Value: "red"}, {Label: "Blue", Value: "blue"}},
	}
	checkbox := FormField{
		ID: "f2", Type: FieldCheckbox, Label: "Toppings",
		Options: []FieldOption{{Label: "Ham", Value: "ham"}, {Label: "Olives", Value: "olives"}},
	}

	tests := []struct {
		name  string
		field FormField
		value any
		ok    bool
	}{
		{"text ok", FormField{Type: FieldText}, "hello", true},
		{"text too long", FormField{Type: FieldText}, strings.Repeat("x", 1001), false},
		{"text at limit", FormField{Type: FieldText}, strings.Repeat("x", 1000), true},
		{"text wrong shape", FormField{Type: FieldText}, []any{"hello"}, false},

		{"textarea ok", FormField{Type: FieldTextarea}, strings.Repeat("x", 5000), true},
		{"textarea too long", FormField{Type: FieldTextarea}, strings.Repeat("x", 10001), false},

		{"date ok", FormField{Type: FieldDate}, "2024-02-29", true},
		{"date malformed", FormField{Type: FieldDate}, "29/02/2024", false},
		{"date invalid calendar day", FormField{Type: FieldDate}, "2023-02-29", false},
		{"date wrong shape", FormField{Type: FieldDate}, 20240229, false},

		{"radio ok", radio, "blue", true},
		{"radio not in options", radio, "green", false},
		{"radio wrong shape", radio, []any{"red"}, false},

		{"checkbox ok", checkbox, []any{"ham", "olives"}, true},
		{"checkbox typed slice ok", checkbox, []string{"ham"}, true},
		{"checkbox unknown value", checkbox, []any{"ham", "pineapple"}, false},
		{"checkbox wrong shape", checkbox, "ham", false},
		{"checkbox non-string member", checkbox, []any{"ham", 42}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateValue(tt.field, tt.value)
			if tt.ok {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, apperr.CodeValidation, err.Code)
			}
		})
	}
}

func TestValidateValue_unknownType(t *testing.T) {
	err := ValidateValue(FormField{Type: "number"}, "42")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unknown field type")
}

func TestValidateValue_fieldDetails(t *testing.T) {
	field := FormField{ID: "abc", Type: FieldText, Label: "Name"}
	err := ValidateValue(field, 42)
	require.NotNil(t, err)
	assert.Equal(t, "abc", err.Details["fieldId"])
	assert.Equal(t, "Name", err.Details["fieldLabel"])
}
