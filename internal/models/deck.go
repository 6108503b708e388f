package models

import "time"

// PublicStatus represents the visibility of a mooc or a deck
type PublicStatus int

const (
	PublicStatusPrivate PublicStatus = 0
	PublicStatusPublic  PublicStatus = 2
)

// IsValid reports whether the status is one of the known values
func (s PublicStatus) IsValid() bool {
	return s == PublicStatusPrivate || s == PublicStatusPublic
}

// Deck represents a named collection of flashcards
type Deck struct {
	ID             int          `json:"id"`
	OwnerID        int          `json:"ownerId"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	PublicStatus   PublicStatus `json:"publicStatus"`
	PointsRequired int          `json:"pointsRequired"`
	CardCount      int          `json:"cardCount"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Card represents a single front/back flashcard
type Card struct {
	ID     int      `json:"id"`
	DeckID int      `json:"deckId"`
	Front  string   `json:"front"`
	Back   string   `json:"back"`
	Tags   []string `json:"tags"`
}

// CardInput is an inline card in a create or update request.
//
// A card with an ID updates the existing card; omitted fields keep their values.
type CardInput struct {
	ID    *int      `json:"id,omitempty"`
	Front *string   `json:"front,omitempty" validate:"omitempty,max=2000"`
	Back  *string   `json:"back,omitempty" validate:"omitempty,max=2000"`
	Tags  *[]string `json:"tags,omitempty"`
}

// DeckInput is a deck entry in a create or update request.
//
// A deck with an ID references (and on update, modifies) an existing deck.
// A deck without an ID is created fresh. Order defaults to the entry's 1-based position.
type DeckInput struct {
	ID             *int        `json:"id,omitempty"`
	Title          *string     `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description    *string     `json:"description,omitempty"`
	PointsRequired *int        `json:"pointsRequired,omitempty" validate:"omitempty,min=0"`
	Order          int         `json:"order,omitempty" validate:"min=0"`
	Cards          []CardInput `json:"cards,omitempty" validate:"dive"`
}

// DeckStatus is the outcome of the unlock policy for a deck
type DeckStatus string

const (
	DeckStatusAvailable DeckStatus = "available"
	DeckStatusLocked    DeckStatus = "locked"
)

// DeckAvailability describes whether a learner can open a deck of a mooc
type DeckAvailability struct {
	DeckID         int        `json:"deckId"`
	Order          int        `json:"order"`
	PointsRequired int        `json:"pointsRequired"`
	Unlocked       bool       `json:"unlocked"`
	Status         DeckStatus `json:"status"`
}
