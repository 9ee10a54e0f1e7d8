package game

import "fmt"

// Feedback describes the graded answer of the current round.
type Feedback struct {
	Correct   bool `json:"correct"`
	Submitted int  `json:"submitted"`
	Expected  int  `json:"expected"`
}

// Message is the line shown over the feedback overlay.
func (f Feedback) Message() string {
	if f.Correct {
		return "Correct!"
	}
	return fmt.Sprintf("Wrong! It was %d", f.Expected)
}

// Snapshot is the comparable, copyable view of the game published to the
// presentation layer.
type Snapshot struct {
	Phase       Phase    `json:"phase"`
	Round       int      `json:"round"`
	TotalRounds int      `json:"totalRounds"`
	Score       int      `json:"score"`
	Problem     Problem  `json:"problem"`
	Question    string   `json:"question"`
	Fingers     int      `json:"fingers"`
	Progress    float64  `json:"progress"`
	Stability   string   `json:"stability"`
	HasFeedback bool     `json:"hasFeedback"`
	Feedback    Feedback `json:"feedback"`
	Complete    bool     `json:"complete"`
}

// RoundLabel renders the 1-based position, e.g. "3 out of 10".
func (s Snapshot) RoundLabel() string {
	return fmt.Sprintf("%d out of %d", s.Round+1, s.TotalRounds)
}

// ScoreLabel renders the score, e.g. "7/10".
func (s Snapshot) ScoreLabel() string {
	return fmt.Sprintf("%d/%d", s.Score, s.TotalRounds)
}
