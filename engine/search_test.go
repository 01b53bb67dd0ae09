package engine_test

import (
	"math"
	"math/rand"
	"testing"

	"chess-companion/engine"
	"chess-companion/posgen"
	"chess-companion/rules"
)

// quietEndgame is a sparse king-and-pawn position used where deep searches
// would be too slow on a full board.
const quietEndgame = "8/4k3/8/4P3/4K3/8/8/8 w - - 0 1"

func newTestEngine(seed int64) *engine.Engine {
	return engine.New(engine.WithRand(rand.New(rand.NewSource(seed))))
}

func containsMove(moves []engine.Move, mv engine.Move) bool {
	for _, m := range moves {
		if m.Equal(mv) {
			return true
		}
	}
	return false
}

func TestSelectMoveReturnsLegalMove(t *testing.T) {
	eng := newTestEngine(1)

	board := rules.NewBoard()
	for _, d := range []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard} {
		mv, err := eng.SelectMove(d, board)
		if err != nil {
			t.Fatalf("%s: SelectMove failed: %v", d, err)
		}
		if mv == nil {
			t.Fatalf("%s: SelectMove returned nil with legal moves available", d)
		}
		if !containsMove(board.LegalMoves(), *mv) {
			t.Errorf("%s: SelectMove returned non-legal move %s", d, mv)
		}
	}

	// Grandmaster depth on a sparse position.
	board, err := rules.NewBoardFEN(quietEndgame)
	if err != nil {
		t.Fatalf("parse endgame fen: %v", err)
	}
	mv, err := eng.SelectMove(engine.Grandmaster, board)
	if err != nil {
		t.Fatalf("grandmaster: SelectMove failed: %v", err)
	}
	if mv == nil || !containsMove(board.LegalMoves(), *mv) {
		t.Errorf("grandmaster: SelectMove returned %v, want a legal move", mv)
	}
}

func TestSearchRestoresPosition(t *testing.T) {
	eng := newTestEngine(2)

	fens := posgen.New(11).Positions(20, 60)
	for _, fen := range fens {
		board, err := rules.NewBoardFEN(fen)
		if err != nil {
			t.Fatalf("generated fen %q did not parse: %v", fen, err)
		}
		for depth := 1; depth <= 2; depth++ {
			before := board.FEN()
			if _, err := eng.Search(board, depth); err != nil {
				t.Fatalf("search depth %d on %q failed: %v", depth, fen, err)
			}
			if after := board.FEN(); after != before {
				t.Fatalf("depth %d left the position changed:\nbefore %s\nafter  %s", depth, before, after)
			}
		}
	}

	// Deeper searches on cheaper positions.
	board, err := rules.NewBoardFEN(fens[0])
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	before := board.FEN()
	if _, err := eng.Search(board, 3); err != nil {
		t.Fatalf("depth 3 search failed: %v", err)
	}
	if board.FEN() != before {
		t.Fatal("depth 3 left the position changed")
	}

	board, err = rules.NewBoardFEN(quietEndgame)
	if err != nil {
		t.Fatalf("parse endgame fen: %v", err)
	}
	before = board.FEN()
	if _, err := eng.Search(board, 4); err != nil {
		t.Fatalf("depth 4 search failed: %v", err)
	}
	if board.FEN() != before {
		t.Fatal("depth 4 left the position changed")
	}
}

func TestSelectMoveRestoresPosition(t *testing.T) {
	eng := newTestEngine(3)
	board := rules.NewBoard()
	for _, d := range []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard} {
		before := board.FEN()
		if _, err := eng.SelectMove(d, board); err != nil {
			t.Fatalf("%s: SelectMove failed: %v", d, err)
		}
		if board.FEN() != before {
			t.Fatalf("%s: SelectMove left the position changed", d)
		}
	}
}

// fullWidthValue recomputes the root search value with no pruning and no
// ordering: max over root moves of the negated fixed-perspective reply value.
func fullWidthValue(t *testing.T, board *rules.Board, depth int) engine.Score {
	t.Helper()
	engineSide := board.SideToMove()
	best := engine.Score(math.Inf(-1))
	for _, mv := range board.LegalMoves() {
		undo, err := board.Apply(mv)
		if err != nil {
			t.Fatalf("apply %s: %v", mv, err)
		}
		value := -fullWidth(t, board, engineSide, depth-1, false)
		undo()
		if value > best {
			best = value
		}
	}
	return best
}

func fullWidth(t *testing.T, board *rules.Board, engineSide engine.Side, depth int, maximizing bool) engine.Score {
	if depth <= 0 {
		return engine.Evaluate(board, engineSide)
	}
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return engine.Evaluate(board, engineSide)
	}
	best := engine.Score(math.Inf(-1))
	if !maximizing {
		best = engine.Score(math.Inf(1))
	}
	for _, mv := range moves {
		undo, err := board.Apply(mv)
		if err != nil {
			t.Fatalf("apply %s: %v", mv, err)
		}
		value := fullWidth(t, board, engineSide, depth-1, !maximizing)
		undo()
		if maximizing && value > best {
			best = value
		}
		if !maximizing && value < best {
			best = value
		}
	}
	return best
}

func TestPruningMatchesFullWidthValue(t *testing.T) {
	eng := newTestEngine(4)

	fens := posgen.New(23).Positions(6, 40)
	for _, fen := range fens {
		board, err := rules.NewBoardFEN(fen)
		if err != nil {
			t.Fatalf("generated fen %q did not parse: %v", fen, err)
		}
		result, err := eng.Search(board, 2)
		if err != nil {
			t.Fatalf("search on %q failed: %v", fen, err)
		}
		if result.Move == nil {
			t.Fatalf("search on %q found no move", fen)
		}
		want := fullWidthValue(t, board, 2)
		if result.Score != want {
			t.Errorf("pruned value %v != full-width value %v on %q", result.Score, want, fen)
		}
	}

	board, err := rules.NewBoardFEN(quietEndgame)
	if err != nil {
		t.Fatalf("parse endgame fen: %v", err)
	}
	result, err := eng.Search(board, 3)
	if err != nil {
		t.Fatalf("depth 3 search failed: %v", err)
	}
	if want := fullWidthValue(t, board, 3); result.Score != want {
		t.Errorf("depth 3 pruned value %v != full-width value %v", result.Score, want)
	}
}

func TestYieldingDoesNotChangeOutcome(t *testing.T) {
	board := rules.NewBoard()

	noYield := engine.New(
		engine.WithRand(rand.New(rand.NewSource(9))),
		engine.WithYield(0, nil),
	)
	yields := 0
	withYield := engine.New(
		engine.WithRand(rand.New(rand.NewSource(9))),
		engine.WithYield(100, func() { yields++ }),
	)

	a, err := noYield.Search(board, 2)
	if err != nil {
		t.Fatalf("search without yielding failed: %v", err)
	}
	b, err := withYield.Search(board, 2)
	if err != nil {
		t.Fatalf("search with yielding failed: %v", err)
	}

	if yields == 0 {
		t.Fatal("yield hook never ran")
	}
	if a.Score != b.Score {
		t.Errorf("scores diverged: %v vs %v", a.Score, b.Score)
	}
	if a.Move == nil || b.Move == nil || !a.Move.Equal(*b.Move) {
		t.Errorf("moves diverged: %v vs %v", a.Move, b.Move)
	}
	if a.Nodes != b.Nodes {
		t.Errorf("node counts diverged: %d vs %d", a.Nodes, b.Nodes)
	}
}

func TestMateEvaluatesToMateScore(t *testing.T) {
	// White mates with Qxg7, the queen protected by the c3 bishop.
	board, err := rules.NewBoardFEN("7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	mv, err := board.MoveFromUCI("g6g7")
	if err != nil {
		t.Fatalf("resolve mating move: %v", err)
	}
	undo, err := board.Apply(mv)
	if err != nil {
		t.Fatalf("apply mating move: %v", err)
	}
	defer undo()

	if board.Status() != engine.Checkmate {
		t.Fatalf("Status = %s, want checkmate", board.Status())
	}
	if got := engine.Evaluate(board, engine.White); got != engine.MateScore {
		t.Errorf("Evaluate = %v, want %v", got, engine.MateScore)
	}
	if got := engine.Evaluate(board, engine.Black); got != -engine.MateScore {
		t.Errorf("Evaluate for mated side = %v, want %v", got, -engine.MateScore)
	}
}

func TestStartingPositionEvaluationSymmetry(t *testing.T) {
	board := rules.NewBoard()

	evalWhite := engine.Evaluate(board, engine.White)
	evalBlack := engine.Evaluate(board, engine.Black)

	if math.Abs(float64(evalWhite+evalBlack)) > 1e-9 {
		t.Errorf("perspectives not symmetric: white %v, black %v", evalWhite, evalBlack)
	}
	// Material, placement, shields and structure all cancel; only the side to
	// move's mobility remains (20 legal moves).
	wantMobility := 20 * 0.1
	if math.Abs(float64(evalWhite)-wantMobility) > 1e-9 {
		t.Errorf("Evaluate(startpos, white) = %v, want %v", evalWhite, wantMobility)
	}
}
