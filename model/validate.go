package model

import "github.com/mbolis/quick-forms/apperr"

// ValidateSubmission checks a raw payload against the form's fields, walking
// them in position order and stopping at the first failure. On success it
// returns the normalized data to store: absent optional values become nil,
// checkbox selections become []string.
func ValidateSubmission(fields []FormField, raw map[string]any) (map[string]any, *apperr.Error) {
	normalized := make(map[string]any, len(fields))

	for _, f := range fields {
		value, present := raw[f.ID]
		if !present || isEmpty(value) {
			if f.Required {
				return nil, apperr.FieldValidation(f.ID, f.Label, "field \""+f.Label+"\" is required")
			}
			normalized[f.ID] = nil
			continue
		}

		if err := ValidateValue(f, value); err != nil {
			return nil, err
		}

		if f.Type == FieldCheckbox {
			// already validated, cannot fail
			values, _ := stringSlice(value)
			normalized[f.ID] = values
		} else {
			normalized[f.ID] = value
		}
	}

	return normalized, nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}
