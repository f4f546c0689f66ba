package handlers

import (
	"errors"
	"iter"
	"strconv"
	"strings"

	"battleship-server/internal/battleship"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 2,
	"v": 0,
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func executeCommand(g *battleship.GameState, c string) error {
	parts := strings.Split(c, " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	switch parts[0] {
	case "g":
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return err
		}
		if _, err := g.Guess(row, col); err != nil {
			return err
		}
		return nil
	case "v":
		g.Reveal()
		return nil
	}
	return errors.New("invalid command")
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
