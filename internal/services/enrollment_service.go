package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flashlearn/mooc-service/internal/models"
	"go.uber.org/zap"
)

// EnrollmentRepository is the interface that wraps methods for enrollment data access
type EnrollmentRepository interface {
	// Method GetByMoocID retrieves every enrollment of a mooc together with its deck progress.
	GetByMoocID(ctx context.Context, moocID int) ([]models.EnrolledUser, error)
	// Method GetByMoocAndUser retrieves the enrollment of a user in a mooc with its deck progress.
	//
	// The enrollment row stays locked until the surrounding transaction ends.
	// A missing enrollment returns an error wrapping models.ErrNotFound.
	GetByMoocAndUser(ctx context.Context, moocID, userID int) (*models.EnrolledUser, error)
	// Method Create inserts an enrollment and sets its ID.
	Create(ctx context.Context, enrollment *models.EnrolledUser) error
	// Method UpsertDeckProgress inserts or overwrites the progress entry of a deck.
	UpsertDeckProgress(ctx context.Context, enrollmentID int, progress models.DeckProgress) error
	// Method UpdateState stores currentDeckIndex, progressState and completedAt of an enrollment.
	UpdateState(ctx context.Context, enrollment *models.EnrolledUser) error
}

type enrollmentService struct {
	tx             Transactor
	moocRepo       MoocRepository
	classRepo      ClassRepository
	enrollmentRepo EnrollmentRepository
	events         EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	tx Transactor,
	moocRepo MoocRepository,
	classRepo ClassRepository,
	enrollmentRepo EnrollmentRepository,
	events EventPublisher,
	logger *zap.Logger,
) *enrollmentService {
	return &enrollmentService{
		tx:             tx,
		moocRepo:       moocRepo,
		classRepo:      classRepo,
		enrollmentRepo: enrollmentRepo,
		events:         events,
		logger:         logger,
		now:            time.Now,
	}
}

// EnrollUser enrolls a user in a mooc and returns the updated mooc.
//
// Enrolling twice is a no-op. When the mooc belongs to a class, only class members may enroll.
func (s *enrollmentService) EnrollUser(ctx context.Context, moocID, userID int) (*models.Mooc, error) {
	result, err := s.enroll(ctx, moocID, userID)
	if errors.Is(err, models.ErrAlreadyExists) {
		// a concurrent request enrolled the user first; the retry finds its row
		s.logger.Info("Concurrent enrollment detected, retrying", zap.Int("mooc_id", moocID), zap.Int("user_id", userID))
		result, err = s.enroll(ctx, moocID, userID)
	}
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("Failed to enroll user", zap.Int("mooc_id", moocID), zap.Int("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to enroll user: %w", err)
	}

	return result, nil
}

func (s *enrollmentService) enroll(ctx context.Context, moocID, userID int) (*models.Mooc, error) {
	var result *models.Mooc
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		mooc, err := s.moocRepo.GetByID(ctx, moocID)
		if err != nil {
			return err
		}

		if mooc.ClassID != nil {
			isMember, err := s.classRepo.IsMember(ctx, *mooc.ClassID, userID)
			if err != nil {
				return err
			}
			if !isMember {
				return fmt.Errorf("%w: user %d, class %d", models.ErrNotAMember, userID, *mooc.ClassID)
			}
		}

		_, err = s.enrollmentRepo.GetByMoocAndUser(ctx, moocID, userID)
		switch {
		case err == nil:
			// already enrolled
		case errors.Is(err, models.ErrNotFound):
			enrollment := &models.EnrolledUser{
				MoocID:           moocID,
				UserID:           userID,
				CurrentDeckIndex: 0,
				ProgressState:    models.ProgressStateNotStarted,
				StartedAt:        s.now().UTC(),
				DeckProgress:     []models.DeckProgress{},
			}
			if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
				return err
			}
			s.logger.Info("User enrolled", zap.Int("mooc_id", moocID), zap.Int("user_id", userID))
		default:
			return err
		}

		result, err = loadMooc(ctx, s.moocRepo, s.enrollmentRepo, moocID)
		return err
	})
	return result, err
}

// UpdateProgress records the completion state of a deck for an enrolled user
// and recomputes the enrollment's aggregate state
func (s *enrollmentService) UpdateProgress(ctx context.Context, moocID, userID, deckID int, completed bool) (*models.Mooc, error) {
	var (
		result        *models.Mooc
		justCompleted bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.moocRepo.GetByID(ctx, moocID); err != nil {
			return err
		}

		enrollment, err := s.enrollmentRepo.GetByMoocAndUser(ctx, moocID, userID)
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: user %d, mooc %d", models.ErrNotEnrolled, userID, moocID)
		}
		if err != nil {
			return err
		}

		decks, err := s.moocRepo.GetDecks(ctx, moocID)
		if err != nil {
			return err
		}
		if !containsDeck(decks, deckID) {
			return fmt.Errorf("%w: deck %d in mooc %d", models.ErrNotFound, deckID, moocID)
		}

		now := s.now().UTC()
		entry := models.DeckProgress{DeckID: deckID, Completed: completed}
		if completed {
			previous, ok := enrollment.ProgressByDeck()[deckID]
			if ok && previous.Completed && previous.CompletedAt != nil {
				entry.CompletedAt = previous.CompletedAt
			} else {
				entry.CompletedAt = &now
			}
		}
		if err := s.enrollmentRepo.UpsertDeckProgress(ctx, enrollment.ID, entry); err != nil {
			return err
		}
		enrollment.SetDeckProgress(entry)

		deckIDs := deckIDsOf(decks)
		previousState := enrollment.ProgressState
		enrollment.ProgressState = RecomputeProgressState(previousState, deckIDs, enrollment.DeckProgress)
		enrollment.CurrentDeckIndex = NextDeckIndex(deckIDs, enrollment.DeckProgress)

		switch {
		case enrollment.ProgressState != models.ProgressStateCompleted:
			enrollment.CompletedAt = nil
		case previousState != models.ProgressStateCompleted:
			enrollment.CompletedAt = &now
			justCompleted = true
		}

		if err := s.enrollmentRepo.UpdateState(ctx, enrollment); err != nil {
			return err
		}

		result, err = loadMooc(ctx, s.moocRepo, s.enrollmentRepo, moocID)
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("Failed to update progress",
			zap.Int("mooc_id", moocID),
			zap.Int("user_id", userID),
			zap.Int("deck_id", deckID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	if justCompleted {
		if err := s.events.PublishEnrollmentCompleted(ctx, moocID, userID); err != nil {
			s.logger.Warn("Failed to publish enrollment completed event",
				zap.Int("mooc_id", moocID),
				zap.Int("user_id", userID),
				zap.Error(err),
			)
		}
	}
	return result, nil
}
