package models

import "time"

// Mooc represents a course built from an ordered list of decks
type Mooc struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	OwnerID       int            `json:"ownerId"`
	ClassID       *int           `json:"classId,omitempty"`
	IsPaid        bool           `json:"isPaid"`
	Price         float64        `json:"price"`
	Currency      string         `json:"currency"`
	PublicStatus  PublicStatus   `json:"publicStatus"`
	Decks         []MoocDeck     `json:"decks"`
	EnrolledUsers []EnrolledUser `json:"enrolledUsers"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// MoocDeck links a deck to a mooc at a position
type MoocDeck struct {
	DeckID int   `json:"deckId"`
	Order  int   `json:"order"`
	Deck   *Deck `json:"deck,omitempty"`
}

// DeckIDs returns the ids of the mooc's decks in order
func (m *Mooc) DeckIDs() []int {
	ids := make([]int, 0, len(m.Decks))
	for _, d := range m.Decks {
		ids = append(ids, d.DeckID)
	}
	return ids
}

// Enrollment returns the enrollment of a user, or nil
func (m *Mooc) Enrollment(userID int) *EnrolledUser {
	for i := range m.EnrolledUsers {
		if m.EnrolledUsers[i].UserID == userID {
			return &m.EnrolledUsers[i]
		}
	}
	return nil
}

// MoocResponse is the result of mooc creation
type MoocResponse struct {
	Mooc  *Mooc      `json:"mooc"`
	Class *ClassInfo `json:"class,omitempty"`
}

// CreateMoocRequest represents a request to create a mooc
type CreateMoocRequest struct {
	Title        string       `json:"title" validate:"required,max=255"`
	Description  string       `json:"description"`
	OwnerID      int          `json:"-"`
	ClassID      *int         `json:"classId,omitempty" validate:"omitempty,min=1"`
	IsPaid       bool         `json:"isPaid"`
	Price        float64      `json:"price" validate:"min=0"`
	Currency     string       `json:"currency" validate:"omitempty,len=3"`
	PublicStatus PublicStatus `json:"publicStatus" validate:"oneof=0 2"`
	Decks        []DeckInput  `json:"decks" validate:"dive"`
}

// UpdateMoocRequest represents a partial update of a mooc.
//
// A non-nil Decks replaces the mooc's whole deck list.
type UpdateMoocRequest struct {
	Title        *string       `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string       `json:"description,omitempty"`
	ClassID      *int          `json:"classId,omitempty" validate:"omitempty,min=1"`
	IsPaid       *bool         `json:"isPaid,omitempty"`
	Price        *float64      `json:"price,omitempty" validate:"omitempty,min=0"`
	Currency     *string       `json:"currency,omitempty" validate:"omitempty,len=3"`
	PublicStatus *PublicStatus `json:"publicStatus,omitempty" validate:"omitempty,oneof=0 2"`
	Decks        []DeckInput   `json:"decks,omitempty" validate:"dive"`
}
