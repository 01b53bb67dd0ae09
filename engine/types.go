package engine

import (
	"errors"
	"fmt"
)

// Side identifies one of the two armies.
type Side uint8

const (
	White Side = iota
	Black
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// PieceType is the kind of a piece, independent of its side.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [7]string{"", "p", "n", "b", "r", "q", "k"}

func (pt PieceType) String() string {
	return pieceLetters[pt]
}

// Square indexes the board 0..63, a1=0, b1=1, ..., h8=63.
type Square uint8

// NewSquare builds a square from file (0=a) and rank (0=rank 1).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// File returns the file index, 0 for the a-file.
func (sq Square) File() int { return int(sq) % 8 }

// Rank returns the rank index, 0 for rank 1.
func (sq Square) Rank() int { return int(sq) / 8 }

func (sq Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+sq.File(), sq.Rank()+1)
}

// Move is a single chess move. Captured is annotated by the rules engine when
// the move takes a piece; it does not participate in equality.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Captured  PieceType
}

// IsCapture reports whether the move takes an opposing piece.
func (m Move) IsCapture() bool { return m.Captured != NoPieceType }

// Equal compares moves by origin, destination and promotion piece.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String renders the move in long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.Promotion != NoPieceType {
		return m.From.String() + m.To.String() + m.Promotion.String()
	}
	return m.From.String() + m.To.String()
}

// Status is the terminal state of a position, if any.
type Status uint8

const (
	InPlay Status = iota
	Checkmate
	Stalemate
	ThreefoldRepetition
	InsufficientMaterial
	FiftyMoveRule
)

var statusNames = [...]string{
	"in play",
	"checkmate",
	"stalemate",
	"threefold repetition",
	"insufficient material",
	"fifty-move rule",
}

func (st Status) String() string { return statusNames[st] }

// IsTerminal reports whether the game is over.
func (st Status) IsTerminal() bool { return st != InPlay }

// IsDraw reports whether the status is any drawn terminal state.
func (st Status) IsDraw() bool {
	return st == Stalemate || st == ThreefoldRepetition ||
		st == InsufficientMaterial || st == FiftyMoveRule
}

// Position is the contract the engine needs from a rules implementation. The
// engine never copies the position; it applies a move, recurses and undoes it
// through the closure returned by Apply, so implementations must support
// nested apply/undo matching the search's stack discipline.
type Position interface {
	// SideToMove returns the side whose turn it is.
	SideToMove() Side

	// Status reports the terminal state of the position.
	Status() Status

	// LegalMoves enumerates all legal moves for the side to move, with
	// Captured annotated where applicable.
	LegalMoves() []Move

	// Apply plays the move and returns a closure that restores the prior
	// state exactly. It fails with ErrIllegalMove if the move is not legal.
	Apply(Move) (undo func(), err error)

	// PieceAt reports the occupant of a square, if any.
	PieceAt(Square) (PieceType, Side, bool)
}

// ErrIllegalMove is returned by Position.Apply when a move is rejected. The
// search skips the offending branch.
var ErrIllegalMove = errors.New("illegal move")
