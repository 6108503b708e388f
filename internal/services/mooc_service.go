package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/flashlearn/mooc-service/internal/models"
	"go.uber.org/zap"
)

// Transactor runs a function inside a database transaction
type Transactor interface {
	// WithinTx calls fn with a context bound to a transaction.
	//
	// The transaction is committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher is the interface that wraps domain event publication
type EventPublisher interface {
	PublishMoocPublished(ctx context.Context, moocID int) error
	PublishEnrollmentCompleted(ctx context.Context, moocID, userID int) error
}

// MoocRepository is the interface that wraps methods for moocs table data access
type MoocRepository interface {
	// Method GetByID retrieves a mooc row without its decks and enrollments.
	//
	// An unknown id returns an error wrapping models.ErrNotFound.
	GetByID(ctx context.Context, id int) (*models.Mooc, error)
	// Method GetAll retrieves all moocs, filtered by class when "classID" is not nil.
	GetAll(ctx context.Context, classID *int) ([]models.Mooc, error)
	// Method Create inserts a mooc row and sets its ID.
	Create(ctx context.Context, mooc *models.Mooc) error
	// Method Update overwrites the scalar fields of a mooc.
	Update(ctx context.Context, mooc *models.Mooc) error
	// Method GetDecks retrieves the decks of a mooc ordered by position, with deck details.
	GetDecks(ctx context.Context, moocID int) ([]models.MoocDeck, error)
	// Method ReplaceDecks replaces the whole deck list of a mooc.
	ReplaceDecks(ctx context.Context, moocID int, decks []models.MoocDeck) error
	// Method GetMoocIDByDeck retrieves the ID of the mooc a deck is linked to.
	//
	// A deck that belongs to no mooc returns an error wrapping models.ErrNotFound.
	GetMoocIDByDeck(ctx context.Context, deckID int) (int, error)
	// Method Delete deletes a mooc row. Deck links and enrollments go with it.
	Delete(ctx context.Context, id int) error
}

// DeckRepository is the interface that wraps methods for decks table data access
type DeckRepository interface {
	GetByID(ctx context.Context, id int) (*models.Deck, error)
	Create(ctx context.Context, deck *models.Deck) error
	Update(ctx context.Context, deck *models.Deck) error
	SetPublicStatus(ctx context.Context, ids []int, status models.PublicStatus) error
	SyncCardCount(ctx context.Context, deckID int) (int, error)
	DeleteByIDs(ctx context.Context, ids []int) error
}

// CardRepository is the interface that wraps methods for cards table data access
type CardRepository interface {
	GetByID(ctx context.Context, id int) (*models.Card, error)
	CreateBatch(ctx context.Context, deckID int, cards []models.Card) error
	Update(ctx context.Context, card *models.Card) error
	DeleteByDeckIDs(ctx context.Context, deckIDs []int) error
}

// ClassRepository is the interface that wraps read access to classes
type ClassRepository interface {
	// Method GetByID retrieves a class by its ID.
	//
	// An unknown id returns an error wrapping models.ErrNotFound.
	GetByID(ctx context.Context, id int) (*models.ClassInfo, error)
	// Method IsMember checks if the user is in the member list of the class.
	IsMember(ctx context.Context, classID, userID int) (bool, error)
	// Method GetMemberIDs retrieves the user IDs of all members of the class.
	GetMemberIDs(ctx context.Context, classID int) ([]int, error)
}

type moocService struct {
	tx             Transactor
	moocRepo       MoocRepository
	deckRepo       DeckRepository
	cardRepo       CardRepository
	classRepo      ClassRepository
	enrollmentRepo EnrollmentRepository
	overrideRepo   UnlockOverrideRepository
	events         EventPublisher
	logger         *zap.Logger
}

// NewMoocService creates a new mooc service
func NewMoocService(
	tx Transactor,
	moocRepo MoocRepository,
	deckRepo DeckRepository,
	cardRepo CardRepository,
	classRepo ClassRepository,
	enrollmentRepo EnrollmentRepository,
	overrideRepo UnlockOverrideRepository,
	events EventPublisher,
	logger *zap.Logger,
) *moocService {
	return &moocService{
		tx:             tx,
		moocRepo:       moocRepo,
		deckRepo:       deckRepo,
		cardRepo:       cardRepo,
		classRepo:      classRepo,
		enrollmentRepo: enrollmentRepo,
		overrideRepo:   overrideRepo,
		events:         events,
		logger:         logger,
	}
}

// CreateMooc creates a mooc together with its inline decks and cards.
//
// Referenced decks and the class must exist. A referenced deck must belong to
// the mooc's owner and to no other mooc. Everything is written in one transaction.
func (s *moocService) CreateMooc(ctx context.Context, request *models.CreateMoocRequest) (*models.MoocResponse, error) {
	if err := validateCreateRequest(request); err != nil {
		return nil, err
	}
	orders, err := deckOrders(request.Decks)
	if err != nil {
		return nil, err
	}

	mooc := &models.Mooc{
		Title:        strings.TrimSpace(request.Title),
		Description:  request.Description,
		OwnerID:      request.OwnerID,
		ClassID:      request.ClassID,
		IsPaid:       request.IsPaid,
		Price:        request.Price,
		Currency:     request.Currency,
		PublicStatus: request.PublicStatus,
	}

	var class *models.ClassInfo
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if mooc.ClassID != nil {
			c, err := s.classRepo.GetByID(ctx, *mooc.ClassID)
			if err != nil {
				return err
			}
			class = c
		}

		links := make([]models.MoocDeck, 0, len(request.Decks))
		for i, input := range request.Decks {
			deck, err := s.resolveDeck(ctx, input, mooc)
			if err != nil {
				return err
			}
			links = append(links, models.MoocDeck{DeckID: deck.ID, Order: orders[i], Deck: deck})
		}

		if err := s.moocRepo.Create(ctx, mooc); err != nil {
			return err
		}
		if err := s.moocRepo.ReplaceDecks(ctx, mooc.ID, links); err != nil {
			return err
		}

		sortDecks(links)
		mooc.Decks = links
		mooc.EnrolledUsers = []models.EnrolledUser{}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("Failed to create mooc", zap.Int("owner_id", request.OwnerID), zap.Error(err))
		return nil, fmt.Errorf("failed to create mooc: %w", err)
	}

	if mooc.PublicStatus == models.PublicStatusPublic {
		s.publishMoocPublished(ctx, mooc.ID)
	}

	s.logger.Info("Mooc created", zap.Int("mooc_id", mooc.ID), zap.Int("decks", len(mooc.Decks)))
	return &models.MoocResponse{Mooc: mooc, Class: class}, nil
}

// GetAllMoocs retrieves all moocs, filtered by class when classID is not nil
func (s *moocService) GetAllMoocs(ctx context.Context, classID *int) ([]models.Mooc, error) {
	moocs, err := s.moocRepo.GetAll(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moocs: %w", err)
	}
	return moocs, nil
}

// GetMoocByID retrieves the full mooc aggregate
func (s *moocService) GetMoocByID(ctx context.Context, id int) (*models.Mooc, error) {
	return loadMooc(ctx, s.moocRepo, s.enrollmentRepo, id)
}

// UpdateMooc applies a partial update to a mooc.
//
// Only the owner may update a mooc. A non-nil deck list replaces the mooc's decks.
// Setting publicStatus to public makes every deck referenced before or after the update public.
func (s *moocService) UpdateMooc(ctx context.Context, id, requesterID int, request *models.UpdateMoocRequest) (*models.Mooc, error) {
	if err := validateUpdateRequest(request); err != nil {
		return nil, err
	}
	var orders []int
	if request.Decks != nil {
		var err error
		if orders, err = deckOrders(request.Decks); err != nil {
			return nil, err
		}
	}

	var (
		result       *models.Mooc
		becamePublic bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		mooc, err := s.moocRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if mooc.OwnerID != requesterID {
			return fmt.Errorf("%w: user %d does not own mooc %d", models.ErrPermissionDenied, requesterID, id)
		}
		wasPublic := mooc.PublicStatus == models.PublicStatusPublic
		if request.ClassID != nil {
			if _, err := s.classRepo.GetByID(ctx, *request.ClassID); err != nil {
				return err
			}
		}
		applyMoocUpdate(mooc, request)

		if err := s.moocRepo.Update(ctx, mooc); err != nil {
			return err
		}

		previous, err := s.moocRepo.GetDecks(ctx, id)
		if err != nil {
			return err
		}
		deckIDs := deckIDsOf(previous)

		if request.Decks != nil {
			links := make([]models.MoocDeck, 0, len(request.Decks))
			for i, input := range request.Decks {
				deck, err := s.resolveDeck(ctx, input, mooc)
				if err != nil {
					return err
				}
				links = append(links, models.MoocDeck{DeckID: deck.ID, Order: orders[i], Deck: deck})
			}
			if err := s.moocRepo.ReplaceDecks(ctx, id, links); err != nil {
				return err
			}
			deckIDs = unionIDs(deckIDs, deckIDsOf(links))
		}

		if request.PublicStatus != nil && *request.PublicStatus == models.PublicStatusPublic {
			if err := s.onMoocPublished(ctx, deckIDs); err != nil {
				return err
			}
			becamePublic = !wasPublic
		}

		result, err = loadMooc(ctx, s.moocRepo, s.enrollmentRepo, id)
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("Failed to update mooc", zap.Int("mooc_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update mooc: %w", err)
	}

	if becamePublic {
		s.publishMoocPublished(ctx, id)
	}
	return result, nil
}

// onMoocPublished handles the MoocPublished event inside the update transaction
func (s *moocService) onMoocPublished(ctx context.Context, deckIDs []int) error {
	return s.deckRepo.SetPublicStatus(ctx, deckIDs, models.PublicStatusPublic)
}

// DeleteMooc deletes a mooc with its decks and cards and returns what was deleted.
//
// Only the owner may delete a mooc.
func (s *moocService) DeleteMooc(ctx context.Context, id, requesterID int) (*models.Mooc, error) {
	var deleted *models.Mooc
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		mooc, err := loadMooc(ctx, s.moocRepo, s.enrollmentRepo, id)
		if err != nil {
			return err
		}
		if mooc.OwnerID != requesterID {
			return fmt.Errorf("%w: only the owner can delete mooc %d", models.ErrPermissionDenied, id)
		}

		deckIDs := mooc.DeckIDs()
		if err := s.cardRepo.DeleteByDeckIDs(ctx, deckIDs); err != nil {
			return err
		}
		if err := s.deckRepo.DeleteByIDs(ctx, deckIDs); err != nil {
			return err
		}
		if err := s.moocRepo.Delete(ctx, id); err != nil {
			return err
		}

		deleted = mooc
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("Failed to delete mooc", zap.Int("mooc_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to delete mooc: %w", err)
	}

	if err := s.overrideRepo.DeleteByMoocID(ctx, id); err != nil {
		s.logger.Warn("Failed to delete unlock overrides", zap.Int("mooc_id", id), zap.Error(err))
	}

	s.logger.Info("Mooc deleted", zap.Int("mooc_id", id), zap.Int("decks", len(deleted.Decks)))
	return deleted, nil
}

// resolveDeck returns the existing deck referenced by input, updated with the
// input's fields, or creates a new deck owned by the mooc's owner
func (s *moocService) resolveDeck(ctx context.Context, input models.DeckInput, mooc *models.Mooc) (*models.Deck, error) {
	if input.ID == nil {
		deck := &models.Deck{
			OwnerID:      mooc.OwnerID,
			Title:        strings.TrimSpace(*input.Title),
			PublicStatus: mooc.PublicStatus,
		}
		if input.Description != nil {
			deck.Description = *input.Description
		}
		if input.PointsRequired != nil {
			deck.PointsRequired = *input.PointsRequired
		}
		if err := s.deckRepo.Create(ctx, deck); err != nil {
			return nil, err
		}
		if err := s.saveCards(ctx, deck, input.Cards); err != nil {
			return nil, err
		}
		return deck, nil
	}

	deck, err := s.deckRepo.GetByID(ctx, *input.ID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != mooc.OwnerID {
		return nil, fmt.Errorf("%w: deck %d belongs to another user", models.ErrPermissionDenied, deck.ID)
	}
	// mooc.ID is zero while the mooc is being created, so any existing link conflicts
	linkedTo, err := s.moocRepo.GetMoocIDByDeck(ctx, deck.ID)
	switch {
	case err == nil && linkedTo != mooc.ID:
		return nil, fmt.Errorf("%w: deck %d is already part of mooc %d", models.ErrValidation, deck.ID, linkedTo)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return nil, err
	}
	if !hasDeckChanges(input) {
		return deck, nil
	}

	if input.Title != nil {
		deck.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		deck.Description = *input.Description
	}
	if input.PointsRequired != nil {
		deck.PointsRequired = *input.PointsRequired
	}
	if err := s.deckRepo.Update(ctx, deck); err != nil {
		return nil, err
	}
	if err := s.saveCards(ctx, deck, input.Cards); err != nil {
		return nil, err
	}
	return deck, nil
}

// saveCards updates referenced cards, inserts new ones in bulk and refreshes the deck's card count
func (s *moocService) saveCards(ctx context.Context, deck *models.Deck, inputs []models.CardInput) error {
	if len(inputs) == 0 {
		return nil
	}

	var created []models.Card
	for _, input := range inputs {
		if input.ID == nil {
			card := models.Card{Front: *input.Front, Back: *input.Back}
			if input.Tags != nil {
				card.Tags = *input.Tags
			}
			created = append(created, card)
			continue
		}

		card, err := s.cardRepo.GetByID(ctx, *input.ID)
		if err != nil {
			return err
		}
		if card.DeckID != deck.ID {
			return fmt.Errorf("%w: card %d in deck %d", models.ErrNotFound, card.ID, deck.ID)
		}
		if input.Front != nil {
			card.Front = *input.Front
		}
		if input.Back != nil {
			card.Back = *input.Back
		}
		if input.Tags != nil {
			card.Tags = *input.Tags
		}
		if err := s.cardRepo.Update(ctx, card); err != nil {
			return err
		}
	}

	if err := s.cardRepo.CreateBatch(ctx, deck.ID, created); err != nil {
		return err
	}

	count, err := s.deckRepo.SyncCardCount(ctx, deck.ID)
	if err != nil {
		return err
	}
	deck.CardCount = count
	return nil
}

func (s *moocService) publishMoocPublished(ctx context.Context, moocID int) {
	if err := s.events.PublishMoocPublished(ctx, moocID); err != nil {
		s.logger.Warn("Failed to publish mooc published event", zap.Int("mooc_id", moocID), zap.Error(err))
	}
}

// loadMooc assembles the mooc aggregate: the mooc row, its ordered decks and its enrollments
func loadMooc(ctx context.Context, moocRepo MoocRepository, enrollmentRepo EnrollmentRepository, id int) (*models.Mooc, error) {
	mooc, err := moocRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mooc.Decks, err = moocRepo.GetDecks(ctx, id)
	if err != nil {
		return nil, err
	}

	mooc.EnrolledUsers, err = enrollmentRepo.GetByMoocID(ctx, id)
	if err != nil {
		return nil, err
	}

	return mooc, nil
}

func validateCreateRequest(request *models.CreateMoocRequest) error {
	if strings.TrimSpace(request.Title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if !request.PublicStatus.IsValid() {
		return fmt.Errorf("%w: invalid public status %d", models.ErrValidation, request.PublicStatus)
	}
	if request.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", models.ErrValidation)
	}
	return validateDeckInputs(request.Decks)
}

func validateUpdateRequest(request *models.UpdateMoocRequest) error {
	if request.Title != nil && strings.TrimSpace(*request.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", models.ErrValidation)
	}
	if request.PublicStatus != nil && !request.PublicStatus.IsValid() {
		return fmt.Errorf("%w: invalid public status %d", models.ErrValidation, *request.PublicStatus)
	}
	if request.Price != nil && *request.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", models.ErrValidation)
	}
	return validateDeckInputs(request.Decks)
}

func validateDeckInputs(decks []models.DeckInput) error {
	for i, deck := range decks {
		if deck.ID == nil && (deck.Title == nil || strings.TrimSpace(*deck.Title) == "") {
			return fmt.Errorf("%w: deck %d: title is required for a new deck", models.ErrValidation, i+1)
		}
		if deck.PointsRequired != nil && *deck.PointsRequired < 0 {
			return fmt.Errorf("%w: deck %d: points required must not be negative", models.ErrValidation, i+1)
		}
		for j, card := range deck.Cards {
			if card.ID == nil && (card.Front == nil || card.Back == nil) {
				return fmt.Errorf("%w: deck %d card %d: front and back are required for a new card", models.ErrValidation, i+1, j+1)
			}
		}
	}
	return nil
}

// deckOrders resolves the order of each deck entry. A missing order defaults
// to the entry's 1-based position. Orders and referenced deck IDs must be unique.
func deckOrders(decks []models.DeckInput) ([]int, error) {
	orders := make([]int, len(decks))
	seen := make(map[int]bool, len(decks))
	referenced := make(map[int]bool, len(decks))
	for i, deck := range decks {
		if deck.ID != nil {
			if referenced[*deck.ID] {
				return nil, fmt.Errorf("%w: deck %d is listed more than once", models.ErrValidation, *deck.ID)
			}
			referenced[*deck.ID] = true
		}
		order := deck.Order
		if order <= 0 {
			order = i + 1
		}
		if seen[order] {
			return nil, fmt.Errorf("%w: duplicate deck order %d", models.ErrValidation, order)
		}
		seen[order] = true
		orders[i] = order
	}
	return orders, nil
}

func applyMoocUpdate(mooc *models.Mooc, request *models.UpdateMoocRequest) {
	if request.Title != nil {
		mooc.Title = strings.TrimSpace(*request.Title)
	}
	if request.Description != nil {
		mooc.Description = *request.Description
	}
	if request.ClassID != nil {
		mooc.ClassID = request.ClassID
	}
	if request.IsPaid != nil {
		mooc.IsPaid = *request.IsPaid
	}
	if request.Price != nil {
		mooc.Price = *request.Price
	}
	if request.Currency != nil {
		mooc.Currency = *request.Currency
	}
	if request.PublicStatus != nil {
		mooc.PublicStatus = *request.PublicStatus
	}
}

func hasDeckChanges(input models.DeckInput) bool {
	return input.Title != nil || input.Description != nil || input.PointsRequired != nil || len(input.Cards) > 0
}

func isDomainError(err error) bool {
	return errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrValidation) ||
		errors.Is(err, models.ErrPermissionDenied) ||
		errors.Is(err, models.ErrNotAMember) ||
		errors.Is(err, models.ErrNotEnrolled)
}

func sortDecks(decks []models.MoocDeck) {
	sort.SliceStable(decks, func(i, j int) bool {
		return decks[i].Order < decks[j].Order
	})
}

func deckIDsOf(decks []models.MoocDeck) []int {
	ids := make([]int, 0, len(decks))
	for _, d := range decks {
		ids = append(ids, d.DeckID)
	}
	return ids
}

func unionIDs(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	result := make([]int, 0, len(a)+len(b))
	for _, ids := range [][]int{a, b} {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				result = append(result, id)
			}
		}
	}
	return result
}
