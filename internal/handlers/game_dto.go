package handlers

import (
	"net/url"

	"github.com/gorilla/schema"

	"battleship-server/internal/battleship"
	"battleship-server/internal/session"
)

type CreateNewGameDTO struct {
	Size      int    `schema:"size,required"`
	ShipCount int    `schema:"ships,required"`
	Country   string `schema:"country"`
}

func ParseCreateNewGameDTO(src url.Values) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

type GuessDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParseGuessDTO(src url.Values) (GuessDTO, error) {
	var dto GuessDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameSessionID string              `json:"game_session_id"`
	Grid          battleship.Grid     `json:"grid"`
	Size          int                 `json:"size"`
	ShipCount     int                 `json:"ship_count"`
	ShipsLeft     int                 `json:"ships_left"`
	TurnsLeft     int                 `json:"turns_left"`
	TurnBudget    int                 `json:"turn_budget"`
	Status        battleship.Status   `json:"status"`
	Country       string              `json:"country,omitempty"`
	LastGuess     *battleship.Coord   `json:"last_guess,omitempty"`
	Outcome       *battleship.Outcome `json:"outcome,omitempty"`
	Ships         []battleship.Coord  `json:"ships,omitempty"`
	StartedAt     int64               `json:"started_at"`
	EndedAt       *int64              `json:"ended_at,omitempty"`
}

// Coordinates are one-based everywhere outside the engine.
func externalCoord(c battleship.Coord) battleship.Coord {
	return battleship.Coord{Row: c.Row + 1, Col: c.Col + 1}
}

// NewGameSessionDTO builds the API view of one session. Un-sunk ship
// positions are only included once the game is over.
func NewGameSessionDTO(
	s *session.GameSession, g *battleship.GameState,
) *GameSessionDTO {
	var endedAt *int64
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	var lastGuess *battleship.Coord
	if g.LastGuess != nil {
		c := externalCoord(*g.LastGuess)
		lastGuess = &c
	}
	dto := &GameSessionDTO{
		GameSessionID: s.SessionID.String(),
		Grid:          g.Board,
		Size:          g.Size,
		ShipCount:     g.ShipCount,
		ShipsLeft:     g.ShipsLeft(),
		TurnsLeft:     g.TurnsLeft,
		TurnBudget:    g.TurnBudget(),
		Status:        g.Status,
		Country:       s.Country,
		LastGuess:     lastGuess,
		StartedAt:     s.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
	if g.Status.Terminal() {
		ships := g.ShipCoords()
		for i, c := range ships {
			ships[i] = externalCoord(c)
		}
		dto.Ships = ships
	}
	return dto
}

func (dto *GameSessionDTO) WithOutcome(o battleship.Outcome) *GameSessionDTO {
	dto.Outcome = &o
	return dto
}
