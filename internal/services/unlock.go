package services

import (
	"context"
	"fmt"

	"github.com/flashlearn/mooc-service/internal/models"
	"go.uber.org/zap"
)

// DeckAvailabilityFor applies the unlock policy to a single deck.
//
// A deck is available when the owner unlocked it for the user or when the
// user's cumulative points reach the deck's threshold.
func DeckAvailabilityFor(pointsRequired, points int, overridden bool) models.DeckStatus {
	if overridden || points >= pointsRequired {
		return models.DeckStatusAvailable
	}
	return models.DeckStatusLocked
}

// UnlockOverrideRepository is the interface that wraps access to decks unlocked by hand
type UnlockOverrideRepository interface {
	// Add records that a user may open a deck regardless of points.
	Add(ctx context.Context, moocID, userID, deckID int) error
	// GetDeckIDs returns the set of decks unlocked for the user in the mooc.
	GetDeckIDs(ctx context.Context, moocID, userID int) (map[int]bool, error)
	// DeleteByMoocID drops every override of the mooc.
	DeleteByMoocID(ctx context.Context, moocID int) error
}

type unlockService struct {
	moocRepo     MoocRepository
	overrideRepo UnlockOverrideRepository
	logger       *zap.Logger
}

// NewUnlockService creates a new unlock service
func NewUnlockService(moocRepo MoocRepository, overrideRepo UnlockOverrideRepository, logger *zap.Logger) *unlockService {
	return &unlockService{
		moocRepo:     moocRepo,
		overrideRepo: overrideRepo,
		logger:       logger,
	}
}

// GetDeckAvailability evaluates the unlock policy for every deck of a mooc.
//
// "points" are the user's cumulative points, supplied by the caller.
func (s *unlockService) GetDeckAvailability(ctx context.Context, moocID, userID, points int) ([]models.DeckAvailability, error) {
	if points < 0 {
		return nil, fmt.Errorf("%w: points must not be negative", models.ErrValidation)
	}

	if _, err := s.moocRepo.GetByID(ctx, moocID); err != nil {
		return nil, err
	}

	decks, err := s.moocRepo.GetDecks(ctx, moocID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.overrideRepo.GetDeckIDs(ctx, moocID, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.DeckAvailability, 0, len(decks))
	for _, d := range decks {
		pointsRequired := 0
		if d.Deck != nil {
			pointsRequired = d.Deck.PointsRequired
		}
		status := DeckAvailabilityFor(pointsRequired, points, overrides[d.DeckID])
		result = append(result, models.DeckAvailability{
			DeckID:         d.DeckID,
			Order:          d.Order,
			PointsRequired: pointsRequired,
			Unlocked:       overrides[d.DeckID],
			Status:         status,
		})
	}
	return result, nil
}

// UnlockDeck lets the mooc owner open a deck for a learner regardless of points
func (s *unlockService) UnlockDeck(ctx context.Context, moocID, requesterID, userID, deckID int) error {
	mooc, err := s.moocRepo.GetByID(ctx, moocID)
	if err != nil {
		return err
	}
	if mooc.OwnerID != requesterID {
		return fmt.Errorf("%w: only the owner can unlock decks of mooc %d", models.ErrPermissionDenied, moocID)
	}

	decks, err := s.moocRepo.GetDecks(ctx, moocID)
	if err != nil {
		return err
	}
	if !containsDeck(decks, deckID) {
		return fmt.Errorf("%w: deck %d in mooc %d", models.ErrNotFound, deckID, moocID)
	}

	if err := s.overrideRepo.Add(ctx, moocID, userID, deckID); err != nil {
		return err
	}

	s.logger.Info("Deck unlocked",
		zap.Int("mooc_id", moocID),
		zap.Int("user_id", userID),
		zap.Int("deck_id", deckID),
	)
	return nil
}

func containsDeck(decks []models.MoocDeck, deckID int) bool {
	for _, d := range decks {
		if d.DeckID == deckID {
			return true
		}
	}
	return false
}
