package model

import "github.com/mbolis/quick-forms/apperr"

// SlugFromID derives the public slug of a published form. The slug is the
// form's own id, which makes derivation deterministic and collision-free.
func SlugFromID(id string) string {
	return id
}

// CanPublish checks the publish preconditions in order, each with its own
// distinct failure. A nil form means the lookup came back empty.
func CanPublish(form *Form, fieldCount int) *apperr.Error {
	if form == nil {
		return apperr.NotFound("form", "")
	}
	if form.Status != StatusDraft {
		return apperr.Validation("form is already published")
	}
	if fieldCount == 0 {
		return apperr.Validation("add at least one field before publishing")
	}
	return nil
}

// CanMutate gates every edit/delete of a form or its fields. Published forms
// are frozen.
func CanMutate(form *Form) *apperr.Error {
	if form == nil {
		return apperr.NotFound("form", "")
	}
	if form.Status == StatusPublished {
		return apperr.Forbidden("published forms cannot be modified")
	}
	return nil
}

// CanSubmit gates submission creation: only published forms accept input.
func CanSubmit(form *Form) *apperr.Error {
	if form == nil {
		return apperr.NotFound("form", "")
	}
	if form.Status != StatusPublished {
		return apperr.Forbidden("cannot submit to unpublished form")
	}
	return nil
}
