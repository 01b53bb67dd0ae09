package engine

import "math/rand"

// orderRootMoves partitions the candidate list into captures and quiet moves,
// shuffles each partition uniformly and returns captures first. Captures tend
// to produce early cutoffs; shuffling inside each partition keeps move choice
// among equal candidates from being predictable. Applied at the root only;
// deeper nodes search moves in the order the rules engine produced them.
func orderRootMoves(rng *rand.Rand, moves []Move) []Move {
	captures := make([]Move, 0, len(moves))
	quiets := make([]Move, 0, len(moves))
	for _, mv := range moves {
		if mv.IsCapture() {
			captures = append(captures, mv)
		} else {
			quiets = append(quiets, mv)
		}
	}
	rng.Shuffle(len(captures), func(i, j int) {
		captures[i], captures[j] = captures[j], captures[i]
	})
	rng.Shuffle(len(quiets), func(i, j int) {
		quiets[i], quiets[j] = quiets[j], quiets[i]
	})
	return append(captures, quiets...)
}
