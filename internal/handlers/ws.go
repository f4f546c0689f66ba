package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"battleship-server/internal/battleship"
	"battleship-server/internal/session"
)

// ConnectWS upgrades the connection and plays the session over it. Each
// text message is a batch of commands (see [GameHandler.Batch]); the
// session DTO is sent back after every message.
func (h *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, err := h.store.Get(sessionID); err == session.ErrNotFound {
		w.WriteHeader(http.StatusNotFound)
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error(err)
		return
	}
	c, err := h.ws.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade: ", err)
		return
	}
	defer c.Close()
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				h.logger.Warn("read: ", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		h.logger.Debug("\t> ", text)

		var game *battleship.GameState
		sess, err := h.store.Update(
			sessionID, func(s *session.GameSession) error {
				g, err := battleship.DecodeGameState(s.State)
				if err != nil {
					return err
				}
				for _, c := range byPiece(text, "\n") {
					if g.Status.Terminal() {
						break
					}
					if err := executeCommand(g, c); err != nil {
						return err
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
		if err != nil {
			h.logger.Error("command: ", err)
			return
		}
		if err := c.WriteJSON(NewGameSessionDTO(sess, game)); err != nil {
			h.logger.Error("write: ", err)
			break
		}
		h.logger.Debug("\t< <session data>")
	}
}
