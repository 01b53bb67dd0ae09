// Package engine selects chess moves at a configurable strength. Legality,
// move application and terminal detection are delegated to a rules
// implementation behind the Position interface; this package owns move
// ordering, the fixed-depth alpha-beta search and the positional evaluator.
package engine

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// captureBias is the chance the Easy policy picks among captures instead of
// all legal moves.
const captureBias = 0.3

// Engine is the single entry point for callers. It is configuration only:
// per-turn search state lives on the stack of SelectMove.
type Engine struct {
	rng           *rand.Rand
	log           zerolog.Logger
	yieldInterval uint64
	yield         func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to the given logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRand fixes the randomness source used for move ordering and the Easy
// policy. Useful for reproducible play and tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithYield overrides the cooperative yield: fn runs every interval visited
// nodes. An interval of 0 disables yielding.
func WithYield(interval uint64, fn func()) Option {
	return func(e *Engine) {
		e.yieldInterval = interval
		e.yield = fn
	}
}

// New builds an Engine with a time-seeded randomness source and a no-op
// logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		log:           zerolog.Nop(),
		yieldInterval: defaultYieldInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SelectMove picks a move for the side to move at the given difficulty. It
// returns nil when the position has no legal moves; callers normally should
// not invoke it on a terminal position. On failure the position has already
// been restored to its pre-call state.
func (e *Engine) SelectMove(d Difficulty, pos Position) (*Move, error) {
	if d == Easy {
		return e.randomMove(pos), nil
	}
	result, err := e.Search(pos, d.Depth())
	if err != nil {
		return nil, err
	}
	return result.Move, nil
}

// Result carries the outcome of one fixed-depth search.
type Result struct {
	Move  *Move
	Score Score
	Nodes uint64
}

// Search runs the fixed-depth search directly, bypassing the difficulty
// mapping. Used by the UCI adapter and benchmarks.
func (e *Engine) Search(pos Position, depth int) (Result, error) {
	s := newSearcher(pos, e.rng, e.log)
	s.yieldInterval = e.yieldInterval
	if e.yield != nil {
		s.yield = e.yield
	}
	mv, score, err := s.findBestMove(depth)
	if err != nil {
		return Result{}, err
	}
	return Result{Move: mv, Score: score, Nodes: s.nodes}, nil
}

// randomMove is the Easy policy: usually a uniformly random legal move, with
// a captureBias chance of picking uniformly among captures when any exist.
func (e *Engine) randomMove(pos Position) *Move {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return nil
	}
	var captures []Move
	for _, mv := range moves {
		if mv.IsCapture() {
			captures = append(captures, mv)
		}
	}
	if len(captures) > 0 && e.rng.Float64() < captureBias {
		mv := captures[e.rng.Intn(len(captures))]
		return &mv
	}
	mv := moves[e.rng.Intn(len(moves))]
	return &mv
}
