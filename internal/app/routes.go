package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"battleship-server/internal/handlers"
	"battleship-server/internal/middleware"
	webui "battleship-server/internal/web"
	"battleship-server/web"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(a.logger))

	game := handlers.NewGameHandler(a.logger, a.store, createRand())
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Cors())
		api.Post("/game", game.Create)
		api.Get("/game/{id}", game.Fetch)
		api.Post("/game/{id}/guess", game.Guess)
		api.Post("/game/{id}/reveal", game.Reveal)
		api.Post("/game/{id}/batch", game.Batch)
		api.HandleFunc("/game/{id}/connect", game.ConnectWS)
	})

	ui := webui.NewHandler(a.logger, a.store, a.cookies, createRand())
	r.Group(func(pages chi.Router) {
		pages.Use(middleware.Session(a.cookies))
		pages.Get("/", ui.Index)
		pages.Post("/", ui.Start)
		pages.Get("/game", ui.Game)
		pages.Post("/game", ui.Guess)
		pages.Get("/new", ui.Abandon)
	})

	r.Handle(
		"/static/*",
		http.StripPrefix("/static/", http.FileServer(web.StaticFS())),
	)

	return r
}
