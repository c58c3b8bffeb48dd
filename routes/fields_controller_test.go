package routes

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddField(t *testing.T) {
	h := newTestRouter(t)
	formID, _ := createForm(t, h, feedbackForm())

	rec, env := do(t, h, "POST", "/forms/"+formID+"/fields", map[string]any{
		"type":  "radio",
		"label": "Color",
		"options": []map[string]any{
			{"label": "Red", "value": "red"},
			{"label": "Blue", "value": "blue"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.NotEmpty(t, env.Data["id"])
	// appended after the existing field
	assert.Equal(t, float64(2), env.Data["position"])

	_, got := do(t, h, "GET", "/forms/"+formID+"/fields", nil)
	assert.Len(t, got.Data["fields"].([]any), 2)
}

func TestAddField_validation(t *testing.T) {
	h := newTestRouter(t)
	formID, _ := createForm(t, h, feedbackForm())

	rec, env := do(t, h, "POST", "/forms/"+formID+"/fields", map[string]any{
		"type":  "checkbox",
		"label": "Toppings",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "at least one option")
}

func TestUpdateField_typeSwitchResetsProperties(t *testing.T) {
	h := newTestRouter(t)
	formID, _ := createForm(t, h, map[string]any{
		"title": "Survey",
		"fields": []map[string]any{{
			"type": "radio", "label": "Color", "required": true,
			"options": []map[string]any{{"label": "Red", "value": "red"}},
		}},
	})
	_, fieldsEnv := do(t, h, "GET", "/forms/"+formID+"/fields", nil)
	fieldID := fieldsEnv.Data["fields"].([]any)[0].(map[string]any)["id"].(string)

	// switch radio -> text: options dropped, label/required/position kept
	rec, env := do(t, h, "PUT", "/forms/"+formID+"/fields/"+fieldID, map[string]any{
		"type": "text", "label": "Color", "required": true,
		"options": []map[string]any{{"label": "Red", "value": "red"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text", env.Data["type"])
	assert.Nil(t, env.Data["options"])
	assert.Equal(t, true, env.Data["required"])
	assert.Equal(t, float64(1), env.Data["position"])

	// switch text -> checkbox without options: now invalid
	rec, env = do(t, h, "PUT", "/forms/"+formID+"/fields/"+fieldID, map[string]any{
		"type": "checkbox", "label": "Color",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestUpdateField_notFound(t *testing.T) {
	h := newTestRouter(t)
	formID, _ := createForm(t, h, feedbackForm())

	rec, env := do(t, h, "PUT", "/forms/"+formID+"/fields/nope", map[string]any{
		"type": "text", "label": "X",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestDeleteField(t *testing.T) {
	h := newTestRouter(t)
	formID, fieldIDs := createForm(t, h, feedbackForm())

	rec, _ := do(t, h, "DELETE", "/forms/"+formID+"/fields/"+fieldIDs[0], nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, got := do(t, h, "GET", "/forms/"+formID+"/fields", nil)
	assert.Empty(t, got.Data["fields"])

	rec, _ = do(t, h, "DELETE", "/forms/"+formID+"/fields/"+fieldIDs[0], nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
