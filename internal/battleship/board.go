package battleship

import (
	"fmt"
	"strings"
)

// Board size limits. Smaller boards are trivial, larger ones unwieldy.
const (
	MinSize = 4
	MaxSize = 10
)

// MaxShipCount caps ship density at a quarter of the board so rejection
// sampling terminates quickly and the turn budget stays winnable.
func MaxShipCount(size int) int {
	return size * size / 4
}

type CellState int8

const (
	CellUnknown CellState = iota
	CellHit
	CellMiss
)

func (s CellState) String() string {
	switch s {
	case CellHit:
		return "X"
	case CellMiss:
		return "O"
	default:
		return " "
	}
}

// Coord addresses a single cell, zero-based. One-based coordinates only
// exist at the API boundary.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is a square board stored row-major.
type Grid []CellState

func (g Grid) ToString(size int) string {
	var b strings.Builder
	for row := range len(g) / size {
		for col := range size {
			i := row*size + col
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
