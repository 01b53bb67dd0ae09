// Package posgen produces varied legal chess positions by random playout,
// used by property tests and the search benchmark. It runs on dragontoothmg
// for fast move generation; consumers receive plain FEN strings.
package posgen

import (
	"math/rand"

	"github.com/dylhunn/dragontoothmg"
)

// Generator plays random legal games from the starting position.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator with deterministic output for a fixed seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Random plays up to plies random legal moves from the starting position and
// returns the resulting FEN. The returned position always has at least one
// legal move: a final move that would end the game is taken back.
func (g *Generator) Random(plies int) string {
	board := dragontoothmg.ParseFen(dragontoothmg.Startpos)
	for i := 0; i < plies; i++ {
		moves := board.GenerateLegalMoves()
		if len(moves) == 0 {
			break
		}
		mv := moves[g.rng.Intn(len(moves))]
		unapply := board.Apply(mv)
		if len(board.GenerateLegalMoves()) == 0 {
			unapply()
			break
		}
	}
	return board.ToFen()
}

// Positions returns n positions of up to maxPlies random moves each.
func (g *Generator) Positions(n, maxPlies int) []string {
	fens := make([]string, n)
	for i := range fens {
		plies := 1 + g.rng.Intn(maxPlies)
		fens[i] = g.Random(plies)
	}
	return fens
}
