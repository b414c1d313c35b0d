package mastery

// State is a subject's position in the learning cycle.
type State string

const (
	StateNotStarted   State = "not-started"
	StateInProgress   State = "in-progress"
	StateNeedsReview  State = "needs-review"
	StateReadyForNext State = "ready-for-next"
	StateCompleted    State = "completed"
)

// Progress tracks a learner's answers for the current lesson of a
// subject. Reset when the lesson advances.
type Progress struct {
	CorrectAnswers int  `json:"correctAnswers"`
	TotalAttempts  int  `json:"totalAttempts"`
	NeedsReview    bool `json:"needsReview"`
	ReadyForNext   bool `json:"readyForNext"`
}

// Accuracy returns the fraction of correct answers, 0 when unattempted.
func (p Progress) Accuracy() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.CorrectAnswers) / float64(p.TotalAttempts)
}
