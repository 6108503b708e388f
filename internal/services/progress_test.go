package services

import (
	"testing"

	"github.com/flashlearn/mooc-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRecomputeProgressState(t *testing.T) {
	decks := []int{1, 2, 3}

	tests := []struct {
		name     string
		current  models.ProgressState
		deckIDs  []int
		progress []models.DeckProgress
		expected models.ProgressState
	}{
		{
			name:     "fresh enrollment stays not started",
			current:  models.ProgressStateNotStarted,
			deckIDs:  decks,
			expected: models.ProgressStateNotStarted,
		},
		{
			name:     "first completed deck starts the course",
			current:  models.ProgressStateNotStarted,
			deckIDs:  decks,
			progress: []models.DeckProgress{{DeckID: 1, Completed: true}},
			expected: models.ProgressStateInProgress,
		},
		{
			name:     "incomplete entry still counts as started",
			current:  models.ProgressStateNotStarted,
			deckIDs:  decks,
			progress: []models.DeckProgress{{DeckID: 2, Completed: false}},
			expected: models.ProgressStateInProgress,
		},
		{
			name:     "completion out of order is in progress",
			current:  models.ProgressStateInProgress,
			deckIDs:  decks,
			progress: []models.DeckProgress{{DeckID: 3, Completed: true}, {DeckID: 1, Completed: true}},
			expected: models.ProgressStateInProgress,
		},
		{
			name:    "all decks completed",
			current: models.ProgressStateInProgress,
			deckIDs: decks,
			progress: []models.DeckProgress{
				{DeckID: 2, Completed: true},
				{DeckID: 1, Completed: true},
				{DeckID: 3, Completed: true},
			},
			expected: models.ProgressStateCompleted,
		},
		{
			name:    "completed entries for every existing entry but a deck is missing",
			current: models.ProgressStateInProgress,
			deckIDs: decks,
			progress: []models.DeckProgress{
				{DeckID: 1, Completed: true},
				{DeckID: 2, Completed: true},
			},
			expected: models.ProgressStateInProgress,
		},
		{
			name:    "un-completing a deck leaves completed",
			current: models.ProgressStateCompleted,
			deckIDs: decks,
			progress: []models.DeckProgress{
				{DeckID: 1, Completed: true},
				{DeckID: 2, Completed: false},
				{DeckID: 3, Completed: true},
			},
			expected: models.ProgressStateInProgress,
		},
		{
			name:     "started state is sticky",
			current:  models.ProgressStateInProgress,
			deckIDs:  decks,
			expected: models.ProgressStateInProgress,
		},
		{
			name:     "mooc without decks is never completed",
			current:  models.ProgressStateNotStarted,
			deckIDs:  nil,
			expected: models.ProgressStateNotStarted,
		},
		{
			name:     "progress for a deck no longer in the mooc",
			current:  models.ProgressStateInProgress,
			deckIDs:  []int{1},
			progress: []models.DeckProgress{{DeckID: 9, Completed: true}},
			expected: models.ProgressStateInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RecomputeProgressState(tt.current, tt.deckIDs, tt.progress)

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNextDeckIndex(t *testing.T) {
	tests := []struct {
		name     string
		deckIDs  []int
		progress []models.DeckProgress
		expected int
	}{
		{name: "no progress", deckIDs: []int{4, 5, 6}, expected: 0},
		{
			name:     "first deck done",
			deckIDs:  []int{4, 5, 6},
			progress: []models.DeckProgress{{DeckID: 4, Completed: true}},
			expected: 1,
		},
		{
			name:     "gap in completion",
			deckIDs:  []int{4, 5, 6},
			progress: []models.DeckProgress{{DeckID: 4, Completed: true}, {DeckID: 6, Completed: true}},
			expected: 1,
		},
		{
			name:     "incomplete entry is not done",
			deckIDs:  []int{4, 5},
			progress: []models.DeckProgress{{DeckID: 4, Completed: false}},
			expected: 0,
		},
		{
			name:     "all done points at the last deck",
			deckIDs:  []int{4, 5},
			progress: []models.DeckProgress{{DeckID: 4, Completed: true}, {DeckID: 5, Completed: true}},
			expected: 1,
		},
		{name: "no decks", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextDeckIndex(tt.deckIDs, tt.progress))
		})
	}
}
