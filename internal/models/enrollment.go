package models

import "time"

// ProgressState is the aggregate state of an enrollment
type ProgressState int

const (
	ProgressStateNotStarted ProgressState = 0
	ProgressStateInProgress ProgressState = 1
	ProgressStateCompleted  ProgressState = 2
)

// String returns a readable name of the state
func (s ProgressState) String() string {
	switch s {
	case ProgressStateNotStarted:
		return "not-started"
	case ProgressStateInProgress:
		return "in-progress"
	case ProgressStateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// EnrolledUser is a user's participation in a mooc
type EnrolledUser struct {
	ID               int            `json:"id"`
	MoocID           int            `json:"moocId"`
	UserID           int            `json:"userId"`
	CurrentDeckIndex int            `json:"currentDeckIndex"`
	ProgressState    ProgressState  `json:"progressState"`
	StartedAt        time.Time      `json:"startedAt"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
	DeckProgress     []DeckProgress `json:"deckProgress"`
}

// DeckProgress is the completion record of one deck within an enrollment
type DeckProgress struct {
	DeckID      int        `json:"deckId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ProgressByDeck indexes the deck progress entries by deck id
func (e *EnrolledUser) ProgressByDeck() map[int]DeckProgress {
	byDeck := make(map[int]DeckProgress, len(e.DeckProgress))
	for _, p := range e.DeckProgress {
		byDeck[p.DeckID] = p
	}
	return byDeck
}

// SetDeckProgress inserts or replaces the entry for p.DeckID
func (e *EnrolledUser) SetDeckProgress(p DeckProgress) {
	for i := range e.DeckProgress {
		if e.DeckProgress[i].DeckID == p.DeckID {
			e.DeckProgress[i] = p
			return
		}
	}
	e.DeckProgress = append(e.DeckProgress, p)
}

// UpdateProgressRequest represents a deck completion report
type UpdateProgressRequest struct {
	DeckID    int   `json:"deckId" validate:"required,min=1"`
	Completed *bool `json:"completed" validate:"required"`
}

// UnlockDeckRequest represents an owner granting a learner access to a deck
type UnlockDeckRequest struct {
	UserID int `json:"userId" validate:"required,min=1"`
}
