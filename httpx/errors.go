package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/quick-forms/apperr"
	"github.com/mbolis/quick-forms/log"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    apperr.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func OK(w http.ResponseWriter, r *http.Request, data any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, r *http.Request, data any) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, envelope{Success: true, Data: data})
}

// Fail logs the failure under a dotted code and writes the error envelope.
// Internal errors are logged with their cause at ERROR level; everything else
// is a client fault and only worth DEBUG.
func Fail(w http.ResponseWriter, r *http.Request, code string, err *apperr.Error) {
	if err.Code == apperr.CodeInternal {
		log.Errorf("%s: %s", code, err)
	} else {
		log.Debugf("%s: %s", code, err)
	}

	render.Status(r, err.HTTPStatus())
	render.JSON(w, r, envelope{
		Success: false,
		Error: &errorBody{
			Code:    err.Code,
			Message: err.Message,
			Details: err.Details,
		},
	})
}

// BadRequest rejects an unparsable request body.
func BadRequest(w http.ResponseWriter, r *http.Request, code string) {
	Fail(w, r, code, apperr.Validation("malformed request body"))
}
