package guard

import "fmt"

// Match is a single rule hit.
type Match struct {
	ID     string
	Weight float64
}

// Evaluation is the result of scoring one input.
type Evaluation struct {
	Score     float64
	Hits      []Match
	Threshold float64
}

// Malicious reports whether the score reached the block threshold.
func (e Evaluation) Malicious() bool {
	return e.Score >= e.Threshold
}

// BlockedError is returned when input is rejected by the guard.
type BlockedError struct {
	Score     float64
	Threshold float64
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("input blocked by content guard (score=%.2f, threshold=%.2f)", e.Score, e.Threshold)
}
