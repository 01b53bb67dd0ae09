package engine

import "fmt"

// Difficulty selects how the engine picks a move: a non-search random policy
// for Easy, a fixed-depth search for everything above it. The set is closed;
// callers pick one before each engine turn.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
	Grandmaster
)

var difficultyNames = [...]string{"easy", "medium", "hard", "grandmaster"}

var difficultyDepths = [...]int{0, 2, 3, 4}

func (d Difficulty) String() string {
	if int(d) >= len(difficultyNames) {
		return fmt.Sprintf("difficulty(%d)", uint8(d))
	}
	return difficultyNames[d]
}

// Depth returns the search depth for the level; 0 for the non-search Easy
// policy.
func (d Difficulty) Depth() int {
	if int(d) >= len(difficultyDepths) {
		return 0
	}
	return difficultyDepths[d]
}

// ParseDifficulty maps a level name to its Difficulty.
func ParseDifficulty(name string) (Difficulty, error) {
	for i, n := range difficultyNames {
		if n == name {
			return Difficulty(i), nil
		}
	}
	return Easy, fmt.Errorf("unknown difficulty %q", name)
}
