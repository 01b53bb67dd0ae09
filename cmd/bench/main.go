// Search benchmark: generates random positions and times the fixed-depth
// search on each, printing per-position and aggregate nodes/nps.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"chess-companion/engine"
	"chess-companion/posgen"
	"chess-companion/rules"
)

func main() {
	positions := flag.Int("positions", 20, "number of random positions")
	maxPlies := flag.Int("plies", 40, "maximum random plies per position")
	depth := flag.Int("depth", 3, "search depth")
	seed := flag.Int64("seed", 1, "playout seed")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	eng := engine.New(engine.WithLogger(log), engine.WithRand(rand.New(rand.NewSource(*seed))))

	fens := posgen.New(*seed).Positions(*positions, *maxPlies)

	var totalNodes uint64
	var totalTime time.Duration
	for i, fen := range fens {
		board, err := rules.NewBoardFEN(fen)
		if err != nil {
			log.Fatal().Err(err).Str("fen", fen).Msg("generated position did not parse")
		}
		start := time.Now()
		result, err := eng.Search(board, *depth)
		elapsed := time.Since(start)
		if err != nil {
			log.Fatal().Err(err).Str("fen", fen).Msg("search failed")
		}

		totalNodes += result.Nodes
		totalTime += elapsed
		best := "(none)"
		if result.Move != nil {
			best = result.Move.String()
		}
		fmt.Printf("%2d  depth %d  best %-6s  score %8.1f  nodes %8d  time %s\n",
			i+1, *depth, best, float64(result.Score), result.Nodes, elapsed.Round(time.Millisecond))
	}

	nps := float64(totalNodes) / totalTime.Seconds()
	fmt.Printf("total: %d nodes in %s (%.0f nps)\n", totalNodes, totalTime.Round(time.Millisecond), nps)
}
