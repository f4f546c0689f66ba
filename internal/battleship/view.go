package battleship

import "iter"

type CellView struct {
	State CellState `json:"state"`
	Ship  bool      `json:"ship,omitempty"`
}

// Cells walks the board row-major. With reveal set, cells still
// occupied by an un-sunk ship carry the Ship flag for end-of-game
// display. The sequence can be ranged over any number of times.
func (g *GameState) Cells(reveal bool) iter.Seq2[Coord, CellView] {
	return func(yield func(Coord, CellView) bool) {
		for row := range g.Size {
			for col := range g.Size {
				c := Coord{Row: row, Col: col}
				view := CellView{State: g.at(c)}
				if reveal && g.Ships[c] {
					view.Ship = true
				}
				if !yield(c, view) {
					return
				}
			}
		}
	}
}
