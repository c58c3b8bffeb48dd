package model

import (
	"time"

	"github.com/mbolis/quick-forms/apperr"
)

type FormStatus string

const (
	StatusDraft     FormStatus = "draft"
	StatusPublished FormStatus = "published"
)

const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 1000
	MaxLabelLen       = 255
	MaxPlaceholderLen = 500
	MaxOptionLen      = 255
)

type Form struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      FormStatus  `json:"status"`
	Slug        *string     `json:"slug"`
	PublishedAt *time.Time  `json:"publishedAt"`
	Fields      []FormField `json:"fields,omitempty"`
}

type FormField struct {
	ID          string        `json:"id"`
	FormID      string        `json:"formId,omitempty"`
	Type        FieldType     `json:"type"`
	Label       string        `json:"label"`
	Placeholder string        `json:"placeholder,omitempty"`
	Required    bool          `json:"required"`
	Options     []FieldOption `json:"options,omitempty"`
	Position    int           `json:"position"`
}

type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Submission data maps field id to the normalized value: a string for
// text/textarea/date/radio, a []string for checkbox, nil for an omitted
// optional field.
type Submission struct {
	ID          string         `json:"id"`
	FormID      string         `json:"formId,omitempty"`
	Data        map[string]any `json:"data"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// ValidateMetadata checks the form's own attributes, not its fields.
func (f Form) ValidateMetadata() *apperr.Error {
	if f.Title == "" {
		return apperr.Validation("title is required")
	}
	if len([]rune(f.Title)) > MaxTitleLen {
		return apperr.Validation("title must be at most %d characters", MaxTitleLen)
	}
	if len([]rune(f.Description)) > MaxDescriptionLen {
		return apperr.Validation("description must be at most %d characters", MaxDescriptionLen)
	}
	return nil
}
