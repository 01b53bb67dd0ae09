package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/rs/zerolog"
)

// defaultYieldInterval is how many visited nodes pass between cooperative
// yields to the scheduler. Yielding never changes the search outcome.
const defaultYieldInterval = 500

// searcher drives one fixed-depth search over a single position. It owns no
// state beyond the search itself; the position is a mutable scratchpad that is
// restored by an undo on every exit path, including failures.
type searcher struct {
	pos        Position
	engineSide Side
	rng        *rand.Rand
	log        zerolog.Logger

	nodes         uint64
	yieldInterval uint64
	yield         func()
}

func newSearcher(pos Position, rng *rand.Rand, log zerolog.Logger) *searcher {
	return &searcher{
		pos:           pos,
		engineSide:    pos.SideToMove(),
		rng:           rng,
		log:           log,
		yieldInterval: defaultYieldInterval,
		yield:         runtime.Gosched,
	}
}

// findBestMove searches to the given depth and returns the best root move, or
// nil when the position has no legal moves. Root moves are ordered captures
// first; the first move encountered with the strictly best value wins.
func (s *searcher) findBestMove(depth int) (*Move, Score, error) {
	moves := s.pos.LegalMoves()
	if len(moves) == 0 {
		return nil, DrawScore, nil
	}
	ordered := orderRootMoves(s.rng, moves)

	alpha := Score(math.Inf(-1))
	beta := Score(math.Inf(1))
	bestScore := Score(math.Inf(-1))
	var best *Move

	for i := range ordered {
		value, err := s.searchRoot(ordered[i], depth, alpha, beta)
		if err != nil {
			if errors.Is(err, ErrIllegalMove) {
				// Should be unreachable: the move came from the rules
				// engine's own enumeration. Skip the branch.
				s.log.Warn().Stringer("move", ordered[i]).Msg("rules engine rejected a generated move")
				continue
			}
			return nil, 0, err
		}
		if value > bestScore {
			bestScore = value
			best = &ordered[i]
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			break
		}
	}
	return best, bestScore, nil
}

// searchRoot applies one root move and evaluates the reply tree. The root is
// the single place the recursive result is negated; deeper levels stay in
// fixed-perspective min/max form.
func (s *searcher) searchRoot(mv Move, depth int, alpha, beta Score) (Score, error) {
	undo, err := s.pos.Apply(mv)
	if err != nil {
		return 0, fmt.Errorf("apply %s: %w", mv, err)
	}
	defer undo()

	value, err := s.minimax(depth-1, -beta, -alpha, false)
	if err != nil {
		return 0, err
	}
	return -value, nil
}

// minimax explores the move tree to the remaining depth. Scores are read from
// the evaluator as-is: the evaluator is always engine-perspective, so internal
// nodes alternate max/min branches without negating child results.
func (s *searcher) minimax(depth int, alpha, beta Score, maximizing bool) (Score, error) {
	s.visitNode()

	if depth <= 0 {
		return Evaluate(s.pos, s.engineSide), nil
	}
	moves := s.pos.LegalMoves()
	if len(moves) == 0 {
		// Checkmate and stalemate fall through to the evaluator's
		// terminal branch.
		return Evaluate(s.pos, s.engineSide), nil
	}

	if maximizing {
		best := Score(math.Inf(-1))
		for _, mv := range moves {
			value, err := s.searchChild(mv, depth-1, alpha, beta, false)
			if err != nil {
				if errors.Is(err, ErrIllegalMove) {
					continue
				}
				return 0, err
			}
			if value > best {
				best = value
			}
			if value > alpha {
				alpha = value
			}
			if alpha >= beta {
				break
			}
		}
		return best, nil
	}

	worst := Score(math.Inf(1))
	for _, mv := range moves {
		value, err := s.searchChild(mv, depth-1, alpha, beta, true)
		if err != nil {
			if errors.Is(err, ErrIllegalMove) {
				continue
			}
			return 0, err
		}
		if value < worst {
			worst = value
		}
		if value < beta {
			beta = value
		}
		if beta <= alpha {
			break
		}
	}
	return worst, nil
}

// searchChild pairs one apply with a guaranteed undo around the recursive
// call, so no applied move can leak even when the recursion fails.
func (s *searcher) searchChild(mv Move, depth int, alpha, beta Score, maximizing bool) (Score, error) {
	undo, err := s.pos.Apply(mv)
	if err != nil {
		return 0, fmt.Errorf("apply %s: %w", mv, err)
	}
	defer undo()
	return s.minimax(depth, alpha, beta, maximizing)
}

// visitNode counts a node and periodically hands control back to the
// scheduler so the host stays responsive during deep searches.
func (s *searcher) visitNode() {
	s.nodes++
	if s.yieldInterval > 0 && s.nodes%s.yieldInterval == 0 && s.yield != nil {
		s.yield()
	}
}
