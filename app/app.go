package app

import (
	"database/sql"

	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-forms/config"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
}
