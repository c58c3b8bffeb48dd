package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/apperr"
)

func testFields() []FormField {
	return []FormField{
		{ID: "name", Type: FieldText, Label: "Name", Required: true, Position: 1},
		{ID: "birthday", Type: FieldDate, Label: "Birthday", Position: 2},
		{ID: "color", Type: FieldRadio, Label: "Color", Position: 3,
			Options: []FieldOption{{Label: "Red", Value: "red"}, {Label: "Blue", Value: "blue"}}},
		{ID: "toppings", Type: FieldCheckbox, Label: "Toppings", Required: true, Position: 4,
			Options: []FieldOption{{Label: "Ham", Value: "ham"}, {Label: "Olives", Value: "olives"}}},
	}
}

func TestValidateSubmission(t *testing.T) {
	data, err := ValidateSubmission(testFields(), map[string]any{
		"name":     "Alice",
		"birthday": "1990-05-12",
		"color":    "blue",
		"toppings": []any{"olives"},
		"dangling": "not a field, ignored",
	})
	require.Nil(t, err)

	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "1990-05-12", data["birthday"])
	assert.Equal(t, "blue", data["color"])
	assert.Equal(t, []string{"olives"}, data["toppings"])
	assert.NotContains(t, data, "dangling")
}

func TestValidateSubmission_optionalNormalizedToNil(t *testing.T) {
	data, err := ValidateSubmission(testFields(), map[string]any{
		"name":     "Alice",
		"toppings": []any{"ham"},
	})
	require.Nil(t, err)

	assert.Contains(t, data, "birthday")
	assert.Nil(t, data["birthday"])
	assert.Contains(t, data, "color")
	assert.Nil(t, data["color"])
}

func TestValidateSubmission_requiredMissing(t *testing.T) {
	for _, payload := range []map[string]any{
		{},
		{"name": nil},
		{"name": ""},
	} {
		_, err := ValidateSubmission(testFields(), payload)
		require.NotNil(t, err)
		assert.Equal(t, apperr.CodeValidation, err.Code)
		assert.Equal(t, "name", err.Details["fieldId"])
		assert.Equal(t, "Name", err.Details["fieldLabel"])
	}
}

func TestValidateSubmission_requiredEmptySelection(t *testing.T) {
	// "required" on a checkbox means at least one selected
	_, err := ValidateSubmission(testFields(), map[string]any{
		"name":     "Alice",
		"toppings": []any{},
	})
	require.NotNil(t, err)
	assert.Equal(t, "toppings", err.Details["fieldId"])
}

func TestValidateSubmission_optionMembership(t *testing.T) {
	// everything else valid, one stray radio value
	_, err := ValidateSubmission(testFields(), map[string]any{
		"name":     "Alice",
		"color":    "green",
		"toppings": []any{"ham"},
	})
	require.NotNil(t, err)
	assert.Equal(t, apperr.CodeValidation, err.Code)
	assert.Equal(t, "color", err.Details["fieldId"])
}

func TestValidateSubmission_shortCircuitsInFieldOrder(t *testing.T) {
	// both name and toppings are invalid: the first in position order wins
	_, err := ValidateSubmission(testFields(), map[string]any{
		"toppings": []any{"pineapple"},
	})
	require.NotNil(t, err)
	assert.Equal(t, "name", err.Details["fieldId"])
}
