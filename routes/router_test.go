package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
)

type envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   *envelopeError `json:"error"`
}

type envelopeError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func newTestApp(t *testing.T) app.App {
	t.Helper()

	cfg := config.Config{
		DBUrl:       filepath.Join(t.TempDir(), "test.sqlite"),
		TokenSecret: "test-secret",
		TokenTTL:    time.Minute,
		PageSize:    20,
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return app.App{DB: db, Config: cfg}
}

// newTestRouter mounts the api endpoints without the auth middleware, which
// has its own plumbing and is not under test here.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	a := newTestApp(t)
	r := chi.NewRouter()
	MountAdminRoutes(r, a)
	r.Get("/forms/share/{slug}", GetSharedForm(a))
	r.Post("/forms/{formID}/submissions", SubmitForm(a))
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("content-type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	env := envelope{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

// createForm posts a form and returns its id plus the field ids in order.
func createForm(t *testing.T, h http.Handler, body map[string]any) (formID string, fieldIDs []string) {
	t.Helper()

	rec, env := do(t, h, "POST", "/forms", body)
	require.Equal(t, http.StatusCreated, rec.Code, "create form: %s", rec.Body)

	formID = env.Data["id"].(string)
	if rawFields, ok := env.Data["fields"].([]any); ok {
		for _, rf := range rawFields {
			fieldIDs = append(fieldIDs, rf.(map[string]any)["id"].(string))
		}
	}
	return formID, fieldIDs
}

func publishForm(t *testing.T, h http.Handler, formID string) envelope {
	t.Helper()

	rec, env := do(t, h, "POST", "/forms/"+formID+"/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code, "publish form: %s", rec.Body)
	return env
}
