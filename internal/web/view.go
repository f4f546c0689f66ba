package web

import (
	"net/http"

	"battleship-server/internal/battleship"
	"battleship-server/internal/session"
)

type cellView struct {
	Text  string
	Class string
}

type rowView struct {
	Number int
	Cells  []cellView
}

type gameData struct {
	Country   string
	Message   string
	Size      int
	TurnsLeft int
	ShipsLeft int
	Endgame   bool
	Cols      []int
	Rows      []rowView
}

func buildGameData(
	sess *session.GameSession, g *battleship.GameState, message string,
) gameData {
	data := gameData{
		Country:   sess.Country,
		Message:   message,
		Size:      g.Size,
		TurnsLeft: g.TurnsLeft,
		ShipsLeft: g.ShipsLeft(),
		Endgame:   g.Status.Terminal(),
	}
	for col := 1; col <= g.Size; col++ {
		data.Cols = append(data.Cols, col)
	}

	rows := make([]rowView, g.Size)
	for i := range rows {
		rows[i] = rowView{Number: i + 1, Cells: make([]cellView, 0, g.Size)}
	}
	for c, v := range g.Cells(data.Endgame) {
		cell := cellView{Text: v.State.String()}
		switch {
		case v.Ship:
			cell.Text = "S"
			cell.Class = "ship"
		case v.State == battleship.CellHit:
			cell.Class = "hit"
		case v.State == battleship.CellMiss:
			cell.Class = "miss"
		}
		if g.LastGuess != nil && *g.LastGuess == c {
			cell.Class += " last"
		}
		rows[c.Row].Cells = append(rows[c.Row].Cells, cell)
	}
	data.Rows = rows
	return data
}

func (h *Handler) renderGame(
	w http.ResponseWriter,
	sess *session.GameSession,
	g *battleship.GameState,
	message string,
) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := buildGameData(sess, g, message)
	if err := h.tpl.ExecuteTemplate(w, "game", data); err != nil {
		h.logger.Error("unable to render game: ", err)
	}
}
