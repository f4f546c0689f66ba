package battleship

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type GameParams struct {
	Size      int
	ShipCount int
}

func (p GameParams) Validate() error {
	if p.Size < MinSize || p.Size > MaxSize {
		return ConfigError{
			Param: "size", Value: p.Size, Min: MinSize, Max: MaxSize,
		}
	}
	if max := MaxShipCount(p.Size); p.ShipCount < 1 || p.ShipCount > max {
		return ConfigError{
			Param: "ship count", Value: p.ShipCount, Min: 1, Max: max,
		}
	}
	return nil
}

// TurnBudget is the number of distinct guesses allowed before the game
// is lost: two per ship plus one per board row. Players can deduce it
// from the turns-left display, so changing it changes the game.
func (p GameParams) TurnBudget() int {
	return p.ShipCount*2 + p.Size
}

// ValidateCell reports whether a one-based guess lands on the board.
func (p GameParams) ValidateCell(row, col int) bool {
	return 1 <= row && row <= p.Size && 1 <= col && col <= p.Size
}

type Status int8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "in_progress"
	}
}

// [Status] implements [json.Marshaler]
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s Status) Terminal() bool {
	return s != InProgress
}

type Outcome int8

const (
	Miss Outcome = iota
	Hit
	Repeat
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Repeat:
		return "repeat"
	default:
		return "miss"
	}
}

// [Outcome] implements [json.Marshaler]
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

type GuessResult struct {
	Outcome   Outcome `json:"outcome"`
	TurnsLeft int     `json:"turns_left"`
	Status    Status  `json:"status"`
}

type GameState struct {
	GameParams
	Board     Grid           /* player knowledge */
	Ships     map[Coord]bool /* un-sunk ship cells */
	TurnsLeft int
	Status    Status
	LastGuess *Coord /* last applied (non-repeat) guess */
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var game GameState
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, err
}

func (g GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(g)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func NewGame(params *GameParams, r *rand.Rand) (*GameState, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	ships, err := placeShips(params.Size, params.ShipCount, r)
	if err != nil {
		return nil, err
	}
	board := make(Grid, params.Size*params.Size)
	state := &GameState{
		GameParams: *params,
		Board:      board,
		Ships:      ships,
		TurnsLeft:  params.TurnBudget(),
	}
	return state, nil
}

func (g *GameState) at(c Coord) CellState {
	return g.Board[c.Row*g.Size+c.Col]
}

func (g *GameState) mark(c Coord, s CellState) {
	g.Board[c.Row*g.Size+c.Col] = s
}

// Guess resolves one player guess at a one-based row and column.
//
// A guess outside the board fails with [ErrOutOfBounds], a guess against
// a finished game with [ErrGameOver]; neither mutates anything. A guess
// at an already-resolved cell is a [Repeat] and costs no turn. Only a
// [Hit] or [Miss] marks the board and consumes a turn, after which the
// game is won if no ships remain, else lost if no turns remain. A win
// and an exhausted budget on the same guess is a win.
func (g *GameState) Guess(row, col int) (GuessResult, error) {
	if g.Status.Terminal() {
		return GuessResult{}, ErrGameOver
	}
	if !g.ValidateCell(row, col) {
		return GuessResult{}, ErrOutOfBounds
	}
	c := Coord{Row: row - 1, Col: col - 1}

	if g.at(c) != CellUnknown {
		return GuessResult{
			Outcome: Repeat, TurnsLeft: g.TurnsLeft, Status: g.Status,
		}, nil
	}

	outcome := Miss
	if g.Ships[c] {
		outcome = Hit
		delete(g.Ships, c)
		g.mark(c, CellHit)
	} else {
		g.mark(c, CellMiss)
	}
	g.TurnsLeft--
	g.LastGuess = &c

	if len(g.Ships) == 0 {
		g.Status = Won
	} else if g.TurnsLeft <= 0 {
		g.Status = Lost
	}

	return GuessResult{
		Outcome: outcome, TurnsLeft: g.TurnsLeft, Status: g.Status,
	}, nil
}

// Reveal ends a game still in progress as a forfeit. Finished games are
// left untouched, so revealing a terminal game is a pure read.
func (g *GameState) Reveal() {
	if !g.Status.Terminal() {
		g.Status = Lost
	}
}

func (g *GameState) ShipsLeft() int {
	return len(g.Ships)
}

// ShipCoords lists the un-sunk ship cells in row-major order.
func (g *GameState) ShipCoords() []Coord {
	coords := make([]Coord, 0, len(g.Ships))
	for c := range g.Ships {
		coords = append(coords, c)
	}
	slices.SortFunc(coords, func(a, b Coord) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})
	return coords
}
