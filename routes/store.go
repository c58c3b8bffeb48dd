package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

// querier lets the fetch helpers run against *sql.DB and *sql.Tx alike.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// getForm returns (nil, nil) when no such form exists.
func getForm(ctx context.Context, q querier, id string) (*model.Form, error) {
	form := model.Form{}
	var slug sql.NullString
	var publishedAt sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT id, title, description, status, slug, published_at
		FROM form
		WHERE id = ?`,
		id,
	).Scan(&form.ID, &form.Title, &form.Description, &form.Status, &slug, &publishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if slug.Valid {
		form.Slug = &slug.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		form.PublishedAt = &t
	}
	return &form, nil
}

func getFormBySlug(ctx context.Context, q querier, slug string) (*model.Form, error) {
	var id string
	err := q.QueryRowContext(ctx, `
		SELECT id FROM form
		WHERE slug = ?
			AND status = ?`,
		slug,
		model.StatusPublished,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return getForm(ctx, q, id)
}

func getFields(ctx context.Context, q querier, formID string) ([]model.FormField, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, form_id, type, label, placeholder, required, options, position
		FROM form_field
		WHERE form_id = ?
		ORDER BY position`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := []model.FormField{}
	for rows.Next() {
		f := model.FormField{}
		var opts sql.NullString
		err = rows.Scan(&f.ID, &f.FormID, &f.Type, &f.Label, &f.Placeholder, &f.Required, &opts, &f.Position)
		if err != nil {
			return nil, err
		}
		f.Options = parseOptions(opts, f.ID)
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func getField(ctx context.Context, q querier, formID, fieldID string) (*model.FormField, error) {
	f := model.FormField{}
	var opts sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, form_id, type, label, placeholder, required, options, position
		FROM form_field
		WHERE id = ?
			AND form_id = ?`,
		fieldID,
		formID,
	).Scan(&f.ID, &f.FormID, &f.Type, &f.Label, &f.Placeholder, &f.Required, &opts, &f.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.Options = parseOptions(opts, f.ID)
	return &f, nil
}

func countFields(ctx context.Context, q querier, formID string) (n int, err error) {
	err = q.QueryRowContext(ctx,
		"SELECT count(*) FROM form_field WHERE form_id = ?",
		formID,
	).Scan(&n)
	return
}

// parseOptions degrades a corrupted options column to "no options" instead of
// failing the whole read.
func parseOptions(opts sql.NullString, fieldID string) []model.FieldOption {
	if !opts.Valid || opts.String == "" {
		return nil
	}
	var options []model.FieldOption
	err := json.Unmarshal([]byte(opts.String), &options)
	if err != nil {
		log.Warnf("db.parse_options: field %s has malformed options: %s", fieldID, err)
		return nil
	}
	return options
}

func marshalOptions(options []model.FieldOption) (any, error) {
	if len(options) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func insertFields(ctx context.Context, tx *sql.Tx, formID string, fields []model.FormField) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_field (id, form_id, type, label, placeholder, required, options, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range fields {
		opts, err := marshalOptions(f.Options)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx, f.ID, formID, f.Type, f.Label, f.Placeholder, f.Required, opts, f.Position)
		if err != nil {
			return err
		}
	}
	return nil
}
