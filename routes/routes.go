package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// public endpoints
	api.Get("/forms/share/{slug}", GetSharedForm(app))
	api.Post("/forms/{formID}/submissions", SubmitForm(app))

	// form management
	api.Group(func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))
		MountAdminRoutes(r, app)
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

// MountAdminRoutes registers the form management endpoints on r. Split out of
// apiRouter so tests can mount them without the auth middleware.
func MountAdminRoutes(r chi.Router, app app.App) {
	r.Post("/forms", CreateForm(app))
	r.Get("/forms", ListForms(app))
	r.Get("/forms/{formID}", GetForm(app))
	r.Put("/forms/{formID}", UpdateForm(app))
	r.Delete("/forms/{formID}", DeleteForm(app))

	r.Post("/forms/{formID}/publish", PublishForm(app))
	r.Post("/forms/{formID}/copy", CopyForm(app))

	r.Get("/forms/{formID}/fields", ListFields(app))
	r.Post("/forms/{formID}/fields", AddField(app))
	r.Put("/forms/{formID}/fields/{fieldID}", UpdateField(app))
	r.Delete("/forms/{formID}/fields/{fieldID}", DeleteField(app))

	r.Get("/forms/{formID}/submissions", ListSubmissions(app))
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
