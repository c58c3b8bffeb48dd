package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/apperr"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/model"
)

// GetSharedForm is the public fetch of a published form by slug, the endpoint
// behind every shareable link.
func GetSharedForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		form, err := getFormBySlug(r.Context(), app.DB, slug)
		if err != nil {
			httpx.Fail(w, r, "db.get_shared_form", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "get_shared_form", apperr.NotFound("form", slug))
			return
		}

		form.Fields, err = getFields(r.Context(), app.DB, form.ID)
		if err != nil {
			httpx.Fail(w, r, "db.get_shared_form.fields", apperr.Internal(err))
			return
		}

		httpx.OK(w, r, form)
	}
}

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		raw := map[string]any{}
		err := render.DecodeJSON(r.Body, &raw)
		if err != nil {
			httpx.BadRequest(w, r, "submit_form.parse_body")
			return
		}

		// re-read status right before validating, never act on a stale guard
		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.submit_form.get_form", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "submit_form", apperr.NotFound("form", formID))
			return
		}
		if verr := model.CanSubmit(form); verr != nil {
			httpx.Fail(w, r, "submit_form.unpublished", verr)
			return
		}

		fields, err := getFields(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.submit_form.fields", apperr.Internal(err))
			return
		}

		data, verr := model.ValidateSubmission(fields, raw)
		if verr != nil {
			httpx.Fail(w, r, "submit_form.validate", verr)
			return
		}

		id, err := uuid.NewV4()
		if err != nil {
			httpx.Fail(w, r, "submit_form.uuid", apperr.Internal(err))
			return
		}
		dataJson, err := json.Marshal(data)
		if err != nil {
			httpx.Fail(w, r, "submit_form.marshal_data", apperr.Internal(err))
			return
		}

		submission := model.Submission{
			ID:          id.String(),
			FormID:      formID,
			Data:        data,
			SubmittedAt: time.Now().UTC(),
		}
		_, err = app.ExecContext(r.Context(), `
			INSERT INTO form_submission (id, form_id, data, submitted_at)
			VALUES (?, ?, ?, ?)`,
			submission.ID,
			submission.FormID,
			string(dataJson),
			submission.SubmittedAt,
		)
		if err != nil {
			httpx.Fail(w, r, "db.insert_submission", apperr.Internal(err))
			return
		}

		httpx.Created(w, r, map[string]any{"id": submission.ID})
	}
}
