package handlers

import (
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"battleship-server/internal/battleship"
	"battleship-server/internal/session"
)

type GameHandler struct {
	logger *logrus.Logger
	store  *session.Store
	rnd    *rand.Rand
	ws     websocket.Upgrader
}

func NewGameHandler(
	logger *logrus.Logger,
	store *session.Store,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		store:  store,
		rnd:    rnd,
		ws: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	params := battleship.GameParams{
		Size: dto.Size, ShipCount: dto.ShipCount,
	}
	game, err := battleship.NewGame(&params, h.rnd)
	var ce battleship.ConfigError
	if errors.As(err, &ce) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(ce))
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create a new game: ", err)
		return
	}

	state, err := game.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to encode game state: ", err)
		return
	}

	sess := h.store.Create(state, dto.Country)
	h.logger.WithFields(logrus.Fields{
		"session": sess.SessionID,
		"size":    params.Size,
		"ships":   params.ShipCount,
	}).Debug("created game\n", game.Board.ToString(game.Size))

	sendJSONOrLog(w, h.logger, NewGameSessionDTO(sess, game))
}

func (h *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	sess, game, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, NewGameSessionDTO(sess, game))
}

func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseGuessDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
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
			res, err := g.Guess(dto.Row, dto.Col)
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
	if err != nil {
		h.sendGameError(w, err)
		return
	}

	sendJSONOrLog(
		w, h.logger, NewGameSessionDTO(sess, game).WithOutcome(result.Outcome),
	)
}

func (h *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var game *battleship.GameState
	sess, err := h.store.Update(
		sessionID, func(s *session.GameSession) error {
			g, err := battleship.DecodeGameState(s.State)
			if err != nil {
				return err
			}
			g.Reveal()
			if s.EndedAt.IsZero() {
				s.EndedAt = time.Now().UTC()
			}
			buf, err := g.Bytes()
			if err != nil {
				return err
			}
			s.State = buf
			game = g
			return nil
		},
	)
	if err != nil {
		h.sendGameError(w, err)
		return
	}

	sendJSONOrLog(w, h.logger, NewGameSessionDTO(sess, game))
}

// Accepts newline-separated commands transferred via body of following
// syntax:
//
//	g ROW COL // guess a cell at ROW:COL (one-based)
//	v         // reveal the board, forfeiting a live game
//
// Commands are interpreted in the order they are listed; interpretation
// stops once the game is over. A malformed command aborts the batch
// with a payload carrying its line number and an error message, and no
// change to game state is kept.
func (h *GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error(err)
		return
	}
	lines := strings.TrimSpace(string(body))

	var game *battleship.GameState
	sess, err := h.store.Update(
		sessionID, func(s *session.GameSession) error {
			g, err := battleship.DecodeGameState(s.State)
			if err != nil {
				return err
			}
			for i, c := range byPiece(lines, "\n") {
				if g.Status.Terminal() {
					break
				}
				if err := executeCommand(g, c); err != nil {
					return batchError{loc: i, err: err}
				}
			}
			if g.Status.Terminal() && s.EndedAt.IsZero() {
				s.EndedAt = time.Now().UTC()
			}
			buf, err := g.Bytes()
			if err != nil {
				return err
			}
			s.State = buf
			game = g
			return nil
		},
	)
	var be batchError
	if errors.As(err, &be) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, map[string]any{
			"loc":   be.loc,
			"error": be.err.Error(),
		})
		return
	} else if err != nil {
		h.sendGameError(w, err)
		return
	}

	sendJSONOrLog(w, h.logger, NewGameSessionDTO(sess, game))
}

type batchError struct {
	loc int
	err error
}

// [batchError] implements [error]
func (e batchError) Error() string {
	return e.err.Error()
}

func (h *GameHandler) loadSession(
	w http.ResponseWriter, r *http.Request,
) (*session.GameSession, *battleship.GameState, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}
	sess, err := h.store.Get(sessionID)
	if err == session.ErrNotFound {
		w.WriteHeader(http.StatusNotFound)
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

func (h *GameHandler) sendGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, battleship.ErrOutOfBounds):
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
	case errors.Is(err, battleship.ErrGameOver):
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(err))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error(err)
	}
}
