package app

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"battleship-server/internal/config"
	"battleship-server/internal/session"
)

type App struct {
	logger  *logrus.Logger
	cookies *config.Cookies
	store   *session.Store
	router  http.Handler
}

func New(
	logger *logrus.Logger,
	cookies *config.Cookies,
	store *session.Store,
) *App {
	a := &App{
		logger:  logger,
		cookies: cookies,
		store:   store,
	}
	a.router = a.loadRoutes()
	return a
}

func (a *App) Handler() http.Handler {
	return a.router
}
