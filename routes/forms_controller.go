package routes

import (
	"database/sql"
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

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := model.Form{}
		err := render.DecodeJSON(r.Body, &form)
		if err != nil {
			httpx.BadRequest(w, r, "create_form.parse_body")
			return
		}

		if verr := form.ValidateMetadata(); verr != nil {
			httpx.Fail(w, r, "create_form.metadata", verr)
			return
		}
		fields, verr := prepareFields(form.Fields)
		if verr != nil {
			httpx.Fail(w, r, "create_form.fields", verr)
			return
		}

		id, err := uuid.NewV4()
		if err != nil {
			httpx.Fail(w, r, "create_form.uuid", apperr.Internal(err))
			return
		}
		form.ID = id.String()
		form.Status = model.StatusDraft
		form.Slug = nil
		form.PublishedAt = nil
		form.Fields = fields

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.Fail(w, r, "db.begin_tx", apperr.Internal(err))
			return
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO form (id, title, description, status)
			VALUES (?, ?, ?, ?)`,
			form.ID,
			form.Title,
			form.Description,
			form.Status,
		)
		if err != nil {
			httpx.Fail(w, r, "db.insert_form", apperr.Internal(err))
			return
		}

		err = insertFields(r.Context(), tx, form.ID, form.Fields)
		if err != nil {
			httpx.Fail(w, r, "db.insert_form.fields", apperr.Internal(err))
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.Fail(w, r, "db.insert_form.commit", apperr.Internal(err))
			return
		}

		httpx.Created(w, r, form)
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT id, title, description, status, slug, published_at
			FROM form`
		args := []any{}

		if status := r.URL.Query().Get("status"); status != "" {
			if status != string(model.StatusDraft) && status != string(model.StatusPublished) {
				httpx.Fail(w, r, "list_forms.status",
					apperr.Validation("unknown status %q", status))
				return
			}
			query += " WHERE status = ?"
			args = append(args, status)
		}

		rows, err := app.QueryContext(r.Context(), query, args...)
		if err != nil {
			httpx.Fail(w, r, "db.get_forms", apperr.Internal(err))
			return
		}
		defer rows.Close()

		forms := []model.Form{}
		for rows.Next() {
			form := model.Form{}
			var slug sql.NullString
			var publishedAt sql.NullTime
			err = rows.Scan(&form.ID, &form.Title, &form.Description, &form.Status, &slug, &publishedAt)
			if err != nil {
				httpx.Fail(w, r, "db.get_forms.scan", apperr.Internal(err))
				return
			}
			if slug.Valid {
				s := slug.String
				form.Slug = &s
			}
			if publishedAt.Valid {
				t := publishedAt.Time
				form.PublishedAt = &t
			}
			forms = append(forms, form)
		}

		httpx.OK(w, r, map[string]any{"forms": forms})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.get_form", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "get_form", apperr.NotFound("form", formID))
			return
		}

		form.Fields, err = getFields(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.get_form.fields", apperr.Internal(err))
			return
		}

		httpx.OK(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		update := model.Form{}
		err := render.DecodeJSON(r.Body, &update)
		if err != nil {
			httpx.BadRequest(w, r, "update_form.parse_body")
			return
		}

		if verr := update.ValidateMetadata(); verr != nil {
			httpx.Fail(w, r, "update_form.metadata", verr)
			return
		}
		fields, verr := prepareFields(update.Fields)
		if verr != nil {
			httpx.Fail(w, r, "update_form.fields", verr)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.Fail(w, r, "db.begin_tx", apperr.Internal(err))
			return
		}
		defer tx.Rollback()

		form, err := getForm(r.Context(), tx, formID)
		if err != nil {
			httpx.Fail(w, r, "db.update_form.get", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "update_form", apperr.NotFound("form", formID))
			return
		}
		if verr := model.CanMutate(form); verr != nil {
			httpx.Fail(w, r, "update_form.locked", verr)
			return
		}

		// replace all fields
		_, err = tx.ExecContext(r.Context(),
			"DELETE FROM form_field WHERE form_id = ?",
			formID,
		)
		if err != nil {
			httpx.Fail(w, r, "db.update_form.delete_fields", apperr.Internal(err))
			return
		}
		err = insertFields(r.Context(), tx, formID, fields)
		if err != nil {
			httpx.Fail(w, r, "db.update_form.fields", apperr.Internal(err))
			return
		}

		// the guard above re-read status inside this tx, so the conditional
		// update can only miss if the form vanished concurrently
		res, err := tx.ExecContext(r.Context(), `
			UPDATE form
			SET title = ?, description = ?
			WHERE id = ?
				AND status = ?`,
			update.Title,
			update.Description,
			formID,
			model.StatusDraft,
		)
		if err != nil {
			httpx.Fail(w, r, "db.update_form", apperr.Internal(err))
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.Fail(w, r, "db.update_form.verify", apperr.Internal(err))
			return
		}
		if n < 1 {
			httpx.Fail(w, r, "update_form.verify", apperr.NotFound("form", formID))
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.Fail(w, r, "db.update_form.commit", apperr.Internal(err))
			return
		}

		form.Title = update.Title
		form.Description = update.Description
		form.Fields = fields
		httpx.OK(w, r, form)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.delete_form.get", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "delete_form", apperr.NotFound("form", formID))
			return
		}
		if verr := model.CanMutate(form); verr != nil {
			httpx.Fail(w, r, "delete_form.locked", verr)
			return
		}

		// fields and submissions go with the form via FK cascade
		res, err := app.ExecContext(r.Context(), `
			DELETE FROM form
			WHERE id = ?
				AND status = ?`,
			formID,
			model.StatusDraft,
		)
		if err != nil {
			httpx.Fail(w, r, "db.delete_form", apperr.Internal(err))
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.Fail(w, r, "db.delete_form.verify", apperr.Internal(err))
			return
		}
		if n < 1 {
			httpx.Fail(w, r, "delete_form.verify", apperr.NotFound("form", formID))
			return
		}

		httpx.OK(w, r, nil)
	}
}

func PublishForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.publish_form.get", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "publish_form", apperr.NotFound("form", formID))
			return
		}

		fieldCount, err := countFields(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.publish_form.count_fields", apperr.Internal(err))
			return
		}

		if verr := model.CanPublish(form, fieldCount); verr != nil {
			httpx.Fail(w, r, "publish_form.precondition", verr)
			return
		}

		slug := model.SlugFromID(formID)
		publishedAt := time.Now().UTC()

		// conditional update: at most one publish attempt can win
		res, err := app.ExecContext(r.Context(), `
			UPDATE form
			SET status = ?, slug = ?, published_at = ?
			WHERE id = ?
				AND status = ?`,
			model.StatusPublished,
			slug,
			publishedAt,
			formID,
			model.StatusDraft,
		)
		if err != nil {
			httpx.Fail(w, r, "db.publish_form", apperr.Internal(err))
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.Fail(w, r, "db.publish_form.verify", apperr.Internal(err))
			return
		}
		if n < 1 {
			// lost the race to a concurrent publish
			httpx.Fail(w, r, "publish_form.conflict", apperr.Validation("form is already published"))
			return
		}

		form.Status = model.StatusPublished
		form.Slug = &slug
		form.PublishedAt = &publishedAt
		httpx.OK(w, r, form)
	}
}

func CopyForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.copy_form.get", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "copy_form", apperr.NotFound("form", formID))
			return
		}

		fields, err := getFields(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.copy_form.fields", apperr.Internal(err))
			return
		}

		id, err := uuid.NewV4()
		if err != nil {
			httpx.Fail(w, r, "copy_form.uuid", apperr.Internal(err))
			return
		}

		clone := model.Form{
			ID:          id.String(),
			Title:       form.Title + " (copy)",
			Description: form.Description,
			Status:      model.StatusDraft,
		}
		for _, f := range fields {
			fieldID, err := uuid.NewV4()
			if err != nil {
				httpx.Fail(w, r, "copy_form.field_uuid", apperr.Internal(err))
				return
			}
			f.ID = fieldID.String()
			f.FormID = clone.ID
			clone.Fields = append(clone.Fields, f)
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.Fail(w, r, "db.begin_tx", apperr.Internal(err))
			return
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO form (id, title, description, status)
			VALUES (?, ?, ?, ?)`,
			clone.ID,
			clone.Title,
			clone.Description,
			clone.Status,
		)
		if err != nil {
			httpx.Fail(w, r, "db.copy_form.insert", apperr.Internal(err))
			return
		}
		err = insertFields(r.Context(), tx, clone.ID, clone.Fields)
		if err != nil {
			httpx.Fail(w, r, "db.copy_form.insert_fields", apperr.Internal(err))
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.Fail(w, r, "db.copy_form.commit", apperr.Internal(err))
			return
		}

		httpx.Created(w, r, clone)
	}
}

// prepareFields readies a client-supplied field list for storage: fresh ids,
// sequential positions where missing, type defaults applied, every spec
// validated.
func prepareFields(fields []model.FormField) ([]model.FormField, *apperr.Error) {
	prepared := make([]model.FormField, 0, len(fields))
	for i, f := range fields {
		if !model.KnownFieldType(f.Type) {
			return nil, apperr.Validation("unknown field type %q", f.Type)
		}
		if f.Position == 0 {
			f.Position = i + 1
		}
		model.ApplyTypeDefaults(&f)
		if verr := model.ValidateFieldSpec(f); verr != nil {
			return nil, verr
		}

		id, err := uuid.NewV4()
		if err != nil {
			return nil, apperr.Internal(err)
		}
		f.ID = id.String()
		prepared = append(prepared, f)
	}
	return prepared, nil
}
