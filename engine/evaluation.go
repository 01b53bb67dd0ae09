package engine

// Evaluate scores the position from the perspective of engineSide: positive
// favors the engine. It never mutates the position and is safe to call at any
// recursion depth.
//
// Terms, summed in order: terminal state, material plus piece-square bonus,
// mobility of the side to move, king pawn shield, pawn structure.
func Evaluate(pos Position, engineSide Side) Score {
	switch st := pos.Status(); {
	case st == Checkmate:
		// Mate is against the side to move, which is good for the other side.
		if pos.SideToMove() == engineSide {
			return -MateScore
		}
		return MateScore
	case st.IsDraw():
		return DrawScore
	}

	var score Score
	score += materialAndPlacement(pos, engineSide)

	mobility := Score(len(pos.LegalMoves())) * mobilityWeight
	if pos.SideToMove() == engineSide {
		score += mobility
	} else {
		score -= mobility
	}

	score += kingShield(pos, engineSide) - kingShield(pos, engineSide.Other())
	score += pawnStructure(pos, engineSide) - pawnStructure(pos, engineSide.Other())

	return score
}

const (
	mobilityWeight   Score = 0.1
	shieldPawnBonus  Score = 10
	doubledPawnCost  Score = 10
	isolatedPawnCost Score = 15
)

// materialAndPlacement sums base piece values and piece-square bonuses for
// every occupied square. The table is read in natural orientation for the
// engine's pieces and rank-mirrored for the opponent's.
func materialAndPlacement(pos Position, engineSide Side) Score {
	var total Score
	for sq := Square(0); sq < 64; sq++ {
		pt, side, ok := pos.PieceAt(sq)
		if !ok {
			continue
		}
		row := 7 - sq.Rank()
		if side != engineSide {
			row = 7 - row
		}
		value := pieceValue[pt] + pieceSquareTable[pt][row][sq.File()]
		if side == engineSide {
			total += value
		} else {
			total -= value
		}
	}
	return total
}

// kingShield awards a bonus for each friendly pawn on the three squares one
// rank in front of the king, as seen from that side.
func kingShield(pos Position, side Side) Score {
	kingSq, ok := findKing(pos, side)
	if !ok {
		return 0
	}
	dir := 1
	if side == Black {
		dir = -1
	}
	rank := kingSq.Rank() + dir
	if rank < 0 || rank > 7 {
		return 0
	}
	var bonus Score
	for file := kingSq.File() - 1; file <= kingSq.File()+1; file++ {
		if file < 0 || file > 7 {
			continue
		}
		pt, owner, occupied := pos.PieceAt(NewSquare(file, rank))
		if occupied && pt == Pawn && owner == side {
			bonus += shieldPawnBonus
		}
	}
	return bonus
}

// pawnStructure penalizes doubled pawns (per extra pawn on a file) and
// isolated files (no friendly pawn on either adjacent file).
func pawnStructure(pos Position, side Side) Score {
	var filePawns [8]int
	for sq := Square(0); sq < 64; sq++ {
		pt, owner, ok := pos.PieceAt(sq)
		if ok && pt == Pawn && owner == side {
			filePawns[sq.File()]++
		}
	}

	var structure Score
	for file := 0; file < 8; file++ {
		count := filePawns[file]
		if count == 0 {
			continue
		}
		if count > 1 {
			structure -= doubledPawnCost * Score(count-1)
		}
		neighbors := 0
		if file > 0 {
			neighbors += filePawns[file-1]
		}
		if file < 7 {
			neighbors += filePawns[file+1]
		}
		if neighbors == 0 {
			structure -= isolatedPawnCost
		}
	}
	return structure
}

func findKing(pos Position, side Side) (Square, bool) {
	for sq := Square(0); sq < 64; sq++ {
		pt, owner, ok := pos.PieceAt(sq)
		if ok && pt == King && owner == side {
			return sq, true
		}
	}
	return 0, false
}
