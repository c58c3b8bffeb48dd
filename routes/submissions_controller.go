package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/apperr"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/model"
)

const maxPageSize = 100

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formID")

		form, err := getForm(r.Context(), app.DB, formID)
		if err != nil {
			httpx.Fail(w, r, "db.get_submissions.get_form", apperr.Internal(err))
			return
		}
		if form == nil {
			httpx.Fail(w, r, "get_submissions", apperr.NotFound("form", formID))
			return
		}

		page, pageSize, verr := pagination(r, app.PageSize)
		if verr != nil {
			httpx.Fail(w, r, "get_submissions.pagination", verr)
			return
		}

		var total int
		err = app.QueryRowContext(r.Context(),
			"SELECT count(*) FROM form_submission WHERE form_id = ?",
			formID,
		).Scan(&total)
		if err != nil {
			httpx.Fail(w, r, "db.get_submissions.count", apperr.Internal(err))
			return
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT id, form_id, data, submitted_at
			FROM form_submission
			WHERE form_id = ?
			ORDER BY submitted_at, id
			LIMIT ? OFFSET ?`,
			formID,
			pageSize,
			(page-1)*pageSize,
		)
		if err != nil {
			httpx.Fail(w, r, "db.get_submissions", apperr.Internal(err))
			return
		}
		defer rows.Close()

		submissions := []model.Submission{}
		for rows.Next() {
			s := model.Submission{}
			var data string
			err = rows.Scan(&s.ID, &s.FormID, &data, &s.SubmittedAt)
			if err != nil {
				httpx.Fail(w, r, "db.get_submissions.scan", apperr.Internal(err))
				return
			}
			err = json.Unmarshal([]byte(data), &s.Data)
			if err != nil {
				httpx.Fail(w, r, "db.get_submissions.parse_data", apperr.Internal(err))
				return
			}
			submissions = append(submissions, s)
		}

		httpx.OK(w, r, map[string]any{
			"submissions": submissions,
			"total":       total,
			"page":        page,
			"pageSize":    pageSize,
		})
	}
}

func pagination(r *http.Request, defaultSize int) (page, pageSize int, err *apperr.Error) {
	page, pageSize = 1, defaultSize

	query := r.URL.Query()
	if raw := query.Get("page"); raw != "" {
		n, perr := strconv.Atoi(raw)
		if perr != nil || n < 1 {
			return 0, 0, apperr.Validation("page must be a positive integer")
		}
		page = n
	}
	if raw := query.Get("pageSize"); raw != "" {
		n, perr := strconv.Atoi(raw)
		if perr != nil || n < 1 || n > maxPageSize {
			return 0, 0, apperr.Validation("pageSize must be between 1 and %d", maxPageSize)
		}
		pageSize = n
	}
	return page, pageSize, nil
}
