package battleship

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds reports a guess outside the board. The guess is not
	// applied and costs no turn.
	ErrOutOfBounds = errors.New("guess out of bounds")

	// ErrGameOver reports a guess against a finished game. Finished games
	// are immutable; start a new one instead.
	ErrGameOver = errors.New("game is over")
)

// ConfigError reports a new-game parameter outside its allowed range.
type ConfigError struct {
	Param    string
	Value    int
	Min, Max int
}

// [ConfigError] implements [error]
func (e ConfigError) Error() string {
	return fmt.Sprintf(
		"%s must be between %d and %d (got %d)",
		e.Param, e.Min, e.Max, e.Value,
	)
}

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
