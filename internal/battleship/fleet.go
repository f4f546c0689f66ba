package battleship

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Generous ceiling on placement draws. With density capped at 25% the
// expected number of draws is well under 2x the ship count, so hitting
// this means the RNG is broken.
const maxPlaceAttempts = 10000

// placeShips draws shipCount unique coordinates uniformly at random
// from the size x size grid. Ships occupy single cells.
func placeShips(size, shipCount int, r *rand.Rand) (map[Coord]bool, error) {
	ships := make(map[Coord]bool, shipCount)
	for attempt := 0; len(ships) < shipCount; attempt++ {
		if attempt >= maxPlaceAttempts {
			Log.WithFields(logrus.Fields{
				"size": size, "ships": shipCount,
			}).Error("ship placement attempts exhausted")
			return nil, AssertionError{"ship placement attempts exhausted"}
		}
		c := Coord{Row: r.IntN(size), Col: r.IntN(size)}
		if ships[c] {
			continue
		}
		ships[c] = true
	}
	return ships, nil
}
