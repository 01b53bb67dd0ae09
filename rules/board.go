// Package rules adapts github.com/notnil/chess to the engine's Position
// contract. It owns the position stack the search pushes and pops, and layers
// repetition, fifty-move and insufficient-material detection over it.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"golang.org/x/exp/slices"

	"chess-companion/engine"
)

const fiftyMoveLimit = 100

// Board is a mutable chess position with full history. Apply pushes a new
// position and returns the matching pop; the stack doubles as the game
// history that repetition detection scans. Not safe for concurrent use: the
// search owns it exclusively while a turn is in flight.
type Board struct {
	positions []*chess.Position
	keys      []string
	seen      map[string]int
}

// NewBoard returns a board at the standard starting position.
func NewBoard() *Board {
	b := &Board{seen: make(map[string]int)}
	b.push(chess.NewGame().Position())
	return b
}

// NewBoardFEN returns a board at the given FEN position.
func NewBoardFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	b := &Board{seen: make(map[string]int)}
	b.push(chess.NewGame(opt).Position())
	return b, nil
}

func (b *Board) top() *chess.Position {
	return b.positions[len(b.positions)-1]
}

func (b *Board) push(pos *chess.Position) {
	key := repetitionKey(pos)
	b.positions = append(b.positions, pos)
	b.keys = append(b.keys, key)
	b.seen[key]++
}

func (b *Board) pop() {
	last := len(b.positions) - 1
	b.seen[b.keys[last]]--
	if b.seen[b.keys[last]] == 0 {
		delete(b.seen, b.keys[last])
	}
	b.positions = b.positions[:last]
	b.keys = b.keys[:last]
}

// repetitionKey identifies a position for threefold purposes: placement, side
// to move, castling rights and en passant square, clocks excluded.
func repetitionKey(pos *chess.Position) string {
	fields := strings.Fields(pos.String())
	return strings.Join(fields[:4], " ")
}

// FEN returns the current position in FEN form.
func (b *Board) FEN() string {
	return b.top().String()
}

// SideToMove implements engine.Position.
func (b *Board) SideToMove() engine.Side {
	if b.top().Turn() == chess.White {
		return engine.White
	}
	return engine.Black
}

// Status implements engine.Position. Mate and stalemate come from the rules
// library; the draw rules are resolved from the position stack.
func (b *Board) Status() engine.Status {
	switch b.top().Status() {
	case chess.Checkmate:
		return engine.Checkmate
	case chess.Stalemate:
		return engine.Stalemate
	}
	if b.halfMoveClock() >= fiftyMoveLimit {
		return engine.FiftyMoveRule
	}
	if b.seen[b.keys[len(b.keys)-1]] >= 3 {
		return engine.ThreefoldRepetition
	}
	if b.insufficientMaterial() {
		return engine.InsufficientMaterial
	}
	return engine.InPlay
}

func (b *Board) halfMoveClock() int {
	fields := strings.Fields(b.top().String())
	clock, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return clock
}

// LegalMoves implements engine.Position, annotating captured piece types.
func (b *Board) LegalMoves() []engine.Move {
	pos := b.top()
	valid := pos.ValidMoves()
	moves := make([]engine.Move, 0, len(valid))
	for _, vm := range valid {
		moves = append(moves, b.convertMove(pos, vm))
	}
	return moves
}

func (b *Board) convertMove(pos *chess.Position, vm *chess.Move) engine.Move {
	mv := engine.Move{
		From:      engine.Square(vm.S1()),
		To:        engine.Square(vm.S2()),
		Promotion: fromChessPieceType(vm.Promo()),
	}
	switch {
	case vm.HasTag(chess.EnPassant):
		mv.Captured = engine.Pawn
	case vm.HasTag(chess.Capture):
		mv.Captured = fromChessPieceType(pos.Board().Piece(vm.S2()).Type())
	}
	return mv
}

// Apply implements engine.Position. The returned closure restores the prior
// position exactly; calls nest to match the search's stack discipline.
func (b *Board) Apply(mv engine.Move) (func(), error) {
	pos := b.top()
	valid := pos.ValidMoves()
	i := slices.IndexFunc(valid, func(vm *chess.Move) bool {
		return b.convertMove(pos, vm).Equal(mv)
	})
	if i < 0 {
		return nil, fmt.Errorf("%s in %q: %w", mv, b.FEN(), engine.ErrIllegalMove)
	}
	b.push(pos.Update(valid[i]))
	return b.pop, nil
}

// Push plays a move permanently: the position stays on the history stack, so
// repetitions across the whole game are still seen.
func (b *Board) Push(mv engine.Move) error {
	_, err := b.Apply(mv)
	return err
}

// PieceAt implements engine.Position.
func (b *Board) PieceAt(sq engine.Square) (engine.PieceType, engine.Side, bool) {
	piece := b.top().Board().Piece(chess.Square(sq))
	if piece == chess.NoPiece {
		return engine.NoPieceType, engine.White, false
	}
	side := engine.White
	if piece.Color() == chess.Black {
		side = engine.Black
	}
	return fromChessPieceType(piece.Type()), side, true
}

// MoveFromUCI resolves long algebraic input ("e2e4", "e7e8q") against the
// legal moves of the current position.
func (b *Board) MoveFromUCI(s string) (engine.Move, error) {
	for _, mv := range b.LegalMoves() {
		if mv.String() == s {
			return mv, nil
		}
	}
	return engine.Move{}, fmt.Errorf("%q in %q: %w", s, b.FEN(), engine.ErrIllegalMove)
}

// insufficientMaterial reports the dead positions neither side can win: bare
// kings, a lone minor piece, or same-colored lone bishops.
func (b *Board) insufficientMaterial() bool {
	var whiteMinors, blackMinors int
	var bishopSquares []engine.Square
	for sq := engine.Square(0); sq < 64; sq++ {
		pt, side, ok := b.PieceAt(sq)
		if !ok || pt == engine.King {
			continue
		}
		switch pt {
		case engine.Pawn, engine.Rook, engine.Queen:
			return false
		case engine.Bishop:
			bishopSquares = append(bishopSquares, sq)
			fallthrough
		case engine.Knight:
			if side == engine.White {
				whiteMinors++
			} else {
				blackMinors++
			}
		}
	}
	if whiteMinors+blackMinors <= 1 {
		return true
	}
	if whiteMinors == 1 && blackMinors == 1 && len(bishopSquares) == 2 {
		c1 := (bishopSquares[0].File() + bishopSquares[0].Rank()) % 2
		c2 := (bishopSquares[1].File() + bishopSquares[1].Rank()) % 2
		return c1 == c2
	}
	return false
}

func fromChessPieceType(pt chess.PieceType) engine.PieceType {
	switch pt {
	case chess.Pawn:
		return engine.Pawn
	case chess.Knight:
		return engine.Knight
	case chess.Bishop:
		return engine.Bishop
	case chess.Rook:
		return engine.Rook
	case chess.Queen:
		return engine.Queen
	case chess.King:
		return engine.King
	}
	return engine.NoPieceType
}
