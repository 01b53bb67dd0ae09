// Minimal UCI adapter over the engine, enough to plug into a GUI or test
// harness: position setup, fixed-depth or difficulty-based go, bestmove.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"chess-companion/engine"
	"chess-companion/rules"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	eng := engine.New(engine.WithLogger(log))
	uciLoop(eng, log)
}

func uciLoop(eng *engine.Engine, log zerolog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	board := rules.NewBoard()
	difficulty := engine.Grandmaster

	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name chess-companion")
			fmt.Println("option name Difficulty type combo default grandmaster var easy var medium var hard var grandmaster")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			board = rules.NewBoard()
		case "setoption":
			if d, ok := parseDifficultyOption(tokens); ok {
				difficulty = d
			}
		case "position":
			if b, ok := parsePosition(tokens, log); ok {
				board = b
			}
		case "go":
			runGo(eng, board, difficulty, tokens)
		case "quit":
			return
		}
	}
}

// parseDifficultyOption handles "setoption name Difficulty value <level>".
func parseDifficultyOption(tokens []string) (engine.Difficulty, bool) {
	for i := 0; i+1 < len(tokens); i++ {
		if strings.ToLower(tokens[i]) == "value" {
			d, err := engine.ParseDifficulty(strings.ToLower(tokens[i+1]))
			return d, err == nil
		}
	}
	return 0, false
}

// parsePosition handles "position startpos [moves ...]" and
// "position fen <fen> [moves ...]".
func parsePosition(tokens []string, log zerolog.Logger) (*rules.Board, bool) {
	if len(tokens) < 2 {
		return nil, false
	}
	var board *rules.Board
	movesAt := -1
	switch tokens[1] {
	case "startpos":
		board = rules.NewBoard()
		movesAt = 2
	case "fen":
		fenEnd := len(tokens)
		for i := 2; i < len(tokens); i++ {
			if tokens[i] == "moves" {
				fenEnd = i
				break
			}
		}
		b, err := rules.NewBoardFEN(strings.Join(tokens[2:fenEnd], " "))
		if err != nil {
			log.Warn().Err(err).Msg("bad position command")
			return nil, false
		}
		board = b
		movesAt = fenEnd
	default:
		return nil, false
	}

	if movesAt < len(tokens) && tokens[movesAt] == "moves" {
		for _, s := range tokens[movesAt+1:] {
			mv, err := board.MoveFromUCI(s)
			if err != nil {
				log.Warn().Err(err).Str("move", s).Msg("skipping move")
				break
			}
			if err := board.Push(mv); err != nil {
				log.Warn().Err(err).Str("move", s).Msg("skipping move")
				break
			}
		}
	}
	return board, true
}

func runGo(eng *engine.Engine, board *rules.Board, difficulty engine.Difficulty, tokens []string) {
	depth := difficulty.Depth()
	for i := 1; i+1 < len(tokens); i++ {
		if tokens[i] == "depth" {
			if v, err := strconv.Atoi(tokens[i+1]); err == nil && v > 0 {
				depth = v
			}
		}
	}

	if depth == 0 {
		// Easy level: non-search policy.
		mv, err := eng.SelectMove(engine.Easy, board)
		if err != nil || mv == nil {
			fmt.Println("bestmove (none)")
			return
		}
		fmt.Println("bestmove", mv)
		return
	}

	result, err := eng.Search(board, depth)
	if err != nil || result.Move == nil {
		fmt.Println("bestmove (none)")
		return
	}
	fmt.Println("info depth", depth, "score cp", int(result.Score), "nodes", result.Nodes)
	fmt.Println("bestmove", result.Move)
}
