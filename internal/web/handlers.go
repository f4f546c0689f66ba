package web

import (
	"fmt"
	"html/template"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"battleship-server/internal/battleship"
	"battleship-server/internal/config"
	"battleship-server/internal/middleware"
	"battleship-server/internal/session"
	assets "battleship-server/web"
)

// Countries the player can fly the flag of. Flavor only.
var countries = []string{
	"USA", "United Kingdom", "France", "Germany", "Japan", "Australia",
}

type Handler struct {
	logger  *logrus.Logger
	store   *session.Store
	cookies *config.Cookies
	rnd     *rand.Rand
	tpl     *template.Template
}

func NewHandler(
	logger *logrus.Logger,
	store *session.Store,
	cookies *config.Cookies,
	rnd *rand.Rand,
) *Handler {
	return &Handler{
		logger:  logger,
		store:   store,
		cookies: cookies,
		rnd:     rnd,
		tpl:     assets.Templates(),
	}
}

type indexData struct {
	Error     string
	Size      int
	Ships     int
	Countries []string
}

func (h *Handler) renderIndex(w http.ResponseWriter, data indexData) {
	if data.Size == 0 {
		data.Size = 6
	}
	if data.Ships == 0 {
		data.Ships = 4
	}
	data.Countries = countries
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tpl.ExecuteTemplate(w, "index", data); err != nil {
		h.logger.Error("unable to render index: ", err)
	}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, indexData{})
}

type startForm struct {
	Size    int    `schema:"size,required"`
	Ships   int    `schema:"ships,required"`
	Country string `schema:"country"`
}

// Start validates the new-game form, creates a session and sends the
// player to the board. Invalid input re-renders the form with an error
// line instead.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var form startForm
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&form, r.PostForm); err != nil {
		h.renderIndex(w, indexData{Error: "Please enter valid numbers."})
		return
	}

	params := battleship.GameParams{
		Size: form.Size, ShipCount: form.Ships,
	}
	game, err := battleship.NewGame(&params, h.rnd)
	if err != nil {
		h.renderIndex(w, indexData{
			Error: err.Error(),
			Size:  form.Size,
			Ships: form.Ships,
		})
		return
	}

	state, err := game.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to encode game state: ", err)
		return
	}
	sess := h.store.Create(state, form.Country)

	if err := h.cookies.Refresh(w, sess.SessionID.String()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to set session cookie: ", err)
		return
	}
	http.Redirect(w, r, "/game", http.StatusSeeOther)
}

func (h *Handler) Game(w http.ResponseWriter, r *http.Request) {
	sess, game, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	h.renderGame(w, sess, game, endgameMessage(game))
}

type guessForm struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

// Guess resolves one shot per request. Repeated cells cost no turn and
// malformed input only re-renders the prompt.
func (h *Handler) Guess(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaims(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sessionID, err := uuid.Parse(claims.GameSessionID)
	if err != nil {
		h.cookies.Clear(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var form guessForm
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&form, r.PostForm); err != nil {
		sess, game, ok := h.loadSession(w, r)
		if !ok {
			return
		}
		h.renderGame(
			w, sess, game,
			"Invalid input. Please enter numbers for row and column.",
		)
		return
	}

	var (
		game   *battleship.GameState
		result battleship.GuessResult
	)
	sess, err := h.store.Update(
		sessionID, func(s *session.GameSession) error {
			g, err := battleship.DecodeGameState(s.State)
			if err != nil {
				return err
			}
			res, err := g.Guess(form.Row, form.Col)
			if err != nil {
				return err
			}
			if res.Status.Terminal() && s.EndedAt.IsZero() {
				s.EndedAt = time.Now().UTC()
			}
			buf, err := g.Bytes()
			if err != nil {
				return err
			}
			s.State = buf
			game, result = g, res
			return nil
		},
	)

	switch {
	case err == session.ErrNotFound:
		h.cookies.Clear(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case err == battleship.ErrOutOfBounds:
		sess, game, ok := h.loadSession(w, r)
		if !ok {
			return
		}
		h.renderGame(w, sess, game, fmt.Sprintf(
			"Please choose numbers between 1 and %d.", game.Size,
		))
		return
	case err == battleship.ErrGameOver:
		sess, game, ok := h.loadSession(w, r)
		if !ok {
			return
		}
		h.renderGame(w, sess, game, endgameMessage(game))
		return
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error(err)
		return
	}

	h.renderGame(w, sess, game, guessMessage(game, result))
}

// Abandon drops the session cookie and returns to the new-game form.
func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	if claims, ok := sessionClaims(r); ok {
		if sessionID, err := uuid.Parse(claims.GameSessionID); err == nil {
			h.store.Delete(sessionID)
		}
	}
	h.cookies.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func sessionClaims(r *http.Request) (*config.SessionClaims, bool) {
	claims, ok := r.Context().
		Value(middleware.CtxSessionClaims).(*config.SessionClaims)
	return claims, ok
}

func (h *Handler) loadSession(
	w http.ResponseWriter, r *http.Request,
) (*session.GameSession, *battleship.GameState, bool) {
	claims, ok := sessionClaims(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, nil, false
	}
	sessionID, err := uuid.Parse(claims.GameSessionID)
	if err != nil {
		h.cookies.Clear(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, nil, false
	}
	sess, err := h.store.Get(sessionID)
	if err == session.ErrNotFound {
		h.cookies.Clear(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, nil, false
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error(err)
		return nil, nil, false
	}
	game, err := battleship.DecodeGameState(sess.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to decode game state: ", err)
		return nil, nil, false
	}
	return sess, game, true
}

func guessMessage(
	g *battleship.GameState, result battleship.GuessResult,
) string {
	if msg := endgameMessage(g); msg != "" {
		return msg
	}
	switch result.Outcome {
	case battleship.Repeat:
		return "You already guessed that location. Try again."
	case battleship.Hit:
		return "Hit! You sank a battleship!"
	default:
		return "Miss. No ship at that location."
	}
}

func endgameMessage(g *battleship.GameState) string {
	switch g.Status {
	case battleship.Won:
		return "Congratulations! You sank all the battleships!"
	case battleship.Lost:
		return "Game over! You ran out of turns."
	default:
		return ""
	}
}
