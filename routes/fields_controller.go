package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/apperr"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/model"
)

func ListFields(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.list_fields.get_form", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "list_fields", apperr.NotFound("form", formID))
			return
		}

		fields, err := getFields(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.list_fields", apperr.Internal(err))
			return
		}

		httpx.OK(w, r, map[string]any{"fields": fields})
	}
}

func AddField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		field := model.FormField{}
		err := render.DecodeJSON(r.Body, &field)
		if err != nil {
			httpx.BadRequest(w, r, "add_field.parse_body")
			return
		}

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.add_field.get_form", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "add_field", apperr.NotFound("form", formID))
			return
		}
		if verr := model.CanMutate(form); verr != nil {
			httpx.Fail(w, r, "add_field.locked", verr)
			return
		}

		if !model.KnownFieldType(field.Type) {
			httpx.Fail(w, r, "add_field.type", apperr.Validation("unknown field type %q", field.Type))
			return
		}
		if field.Position == 0 {
			// append after the current last field
			err = app.QueryRowContext(r.Context(),
				"SELECT coalesce(max(position), 0) + 1 FROM form_field WHERE form_id = ?",
				formID,
			).Scan(&field.Position)
			if err != nil {
				httpx.Fail(w, r, "db.add_field.position", apperr.Internal(err))
				return
			}
		}
		model.ApplyTypeDefaults(&field)
		if verr := model.ValidateFieldSpec(field); verr != nil {
			httpx.Fail(w, r, "add_field.spec", verr)
			return
		}

		id, err := uuid.NewV4()
		if err != nil {
			httpx.Fail(w, r, "add_field.uuid", apperr.Internal(err))
			return
		}
		field.ID = id.String()
		field.FormID = formID

		opts, err := marshalOptions(field.Options)
		if err != nil {
			httpx.Fail(w, r, "add_field.options", apperr.Internal(err))
			return
		}
		_, err = app.ExecContext(r.Context(), `
			INSERT INTO form_field (id, form_id, type, label, placeholder, required, options, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			field.ID,
			field.FormID,
			field.Type,
			field.Label,
			field.Placeholder,
			field.Required,
			opts,
			field.Position,
		)
		if err != nil {
			httpx.Fail(w, r, "db.add_field", apperr.Internal(err))
			return
		}

		httpx.Created(w, r, field)
	}
}

func UpdateField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")
		fieldID := chi.URLParam(r, "fieldID")

		update := model.FormField{}
		err := render.DecodeJSON(r.Body, &update)
		if err != nil {
			httpx.BadRequest(w, r, "update_field.parse_body")
			return
		}

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.update_field.get_form", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "update_field", apperr.NotFound("form", formID))
			return
		}
		if verr := model.CanMutate(form); verr != nil {
			httpx.Fail(w, r, "update_field.locked", verr)
			return
		}

		field, err := getField(r.Context(), app.DB, formID, fieldID)
		if err != nil {
			httpx.Fail(w, r, "db.update_field.get", apperr.Internal(err))
			return
		}
		if field == nil {
			httpx.Fail(w, r, "update_field", apperr.NotFound("field", fieldID))
			return
		}

		if !model.KnownFieldType(update.Type) {
			httpx.Fail(w, r, "update_field.type", apperr.Validation("unknown field type %q", update.Type))
			return
		}
		if update.Position == 0 {
			update.Position = field.Position
		}
		// switching type resets properties that do not carry over
		model.ApplyTypeDefaults(&update)
		if verr := model.ValidateFieldSpec(update); verr != nil {
			httpx.Fail(w, r, "update_field.spec", verr)
			return
		}
		update.ID = field.ID
		update.FormID = formID

		opts, err := marshalOptions(update.Options)
		if err != nil {
			httpx.Fail(w, r, "update_field.options", apperr.Internal(err))
			return
		}
		_, err = app.ExecContext(r.Context(), `
			UPDATE form_field
			SET type = ?, label = ?, placeholder = ?, required = ?, options = ?, position = ?
			WHERE id = ?
				AND form_id = ?`,
			update.Type,
			update.Label,
			update.Placeholder,
			update.Required,
			opts,
			update.Position,
			fieldID,
			formID,
		)
		if err != nil {
			httpx.Fail(w, r, "db.update_field", apperr.Internal(err))
			return
		}

		httpx.OK(w, r, update)
	}
}

func DeleteField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")
		fieldID := chi.URLParam(r, "fieldID")

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.delete_field.get_form", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "delete_field", apperr.NotFound("form", formID))
			return
		}
		if verr := model.CanMutate(form); verr != nil {
			httpx.Fail(w, r, "delete_field.locked", verr)
			return
		}

		res, err := app.ExecContext(r.Context(), `
			DELETE FROM form_field
			WHERE id = ?
				AND form_id = ?`,
			fieldID,
			formID,
		)
		if err != nil {
			httpx.Fail(w, r, "db.delete_field", apperr.Internal(err))
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.Fail(w, r, "db.delete_field.verify", apperr.Internal(err))
			return
		}
		if n < 1 {
			httpx.Fail(w, r, "delete_field.verify", apperr.NotFound("field", fieldID))
			return
		}

		httpx.OK(w, r, nil)
	}
}
