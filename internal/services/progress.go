package services

import "github.com/flashlearn/mooc-service/internal/models"

// RecomputeProgressState derives the aggregate state of an enrollment.
//
// "current" is the state stored before the change.
// "deckIDs" are the mooc's decks in order.
// "progress" are the enrollment's deck progress entries.
//
// The result is completed when every deck of the mooc has a completed entry,
// in-progress when at least one entry exists, and not-started only when the
// enrollment never left that state.
func RecomputeProgressState(current models.ProgressState, deckIDs []int, progress []models.DeckProgress) models.ProgressState {
	if allDecksCompleted(deckIDs, progress) {
		return models.ProgressStateCompleted
	}
	if len(progress) > 0 || current != models.ProgressStateNotStarted {
		return models.ProgressStateInProgress
	}
	return models.ProgressStateNotStarted
}

// NextDeckIndex returns the position of the first deck without a completed entry.
// When every deck is completed the last position is returned.
func NextDeckIndex(deckIDs []int, progress []models.DeckProgress) int {
	completed := completedDecks(progress)
	for i, id := range deckIDs {
		if !completed[id] {
			return i
		}
	}
	if len(deckIDs) == 0 {
		return 0
	}
	return len(deckIDs) - 1
}

func allDecksCompleted(deckIDs []int, progress []models.DeckProgress) bool {
	if len(deckIDs) == 0 {
		return false
	}
	completed := completedDecks(progress)
	for _, id := range deckIDs {
		if !completed[id] {
			return false
		}
	}
	return true
}

func completedDecks(progress []models.DeckProgress) map[int]bool {
	completed := make(map[int]bool, len(progress))
	for _, p := range progress {
		if p.Completed {
			completed[p.DeckID] = true
		}
	}
	return completed
}
