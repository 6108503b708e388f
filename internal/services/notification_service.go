package services

import (
	"context"
	"fmt"

	"github.com/flashlearn/mooc-service/internal/models"
	"go.uber.org/zap"
)

// NotificationRepository is the interface that wraps methods for notifications table data access
type NotificationRepository interface {
	// Method CreateBatch inserts several notifications at once.
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	// Method GetByUserID retrieves a page of the user's notifications, newest first.
	//
	// "page" starts from 1, "count" is the page size.
	GetByUserID(ctx context.Context, userID, page, count int) ([]models.Notification, error)
	// Method MarkRead marks a notification of the user as read.
	//
	// A notification that does not exist or belongs to another user returns an error wrapping models.ErrNotFound.
	MarkRead(ctx context.Context, id, userID int) error
}

type notificationService struct {
	repo      NotificationRepository
	moocRepo  MoocRepository
	classRepo ClassRepository
	logger    *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo NotificationRepository, moocRepo MoocRepository, classRepo ClassRepository, logger *zap.Logger) *notificationService {
	return &notificationService{
		repo:      repo,
		moocRepo:  moocRepo,
		classRepo: classRepo,
		logger:    logger,
	}
}

// List retrieves a page of the user's notifications
func (s *notificationService) List(ctx context.Context, userID, page, count int) ([]models.Notification, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", models.ErrValidation)
	}
	if count < 1 || count > 100 {
		return nil, fmt.Errorf("%w: count must be between 1 and 100", models.ErrValidation)
	}

	notifications, err := s.repo.GetByUserID(ctx, userID, page, count)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a notification of the user as read
func (s *notificationService) MarkRead(ctx context.Context, id, userID int) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// NotifyMoocPublished tells every member of the mooc's class that the mooc is available.
// A mooc outside a class notifies nobody. Returns the number of notifications created.
func (s *notificationService) NotifyMoocPublished(ctx context.Context, moocID int) (int, error) {
	mooc, err := s.moocRepo.GetByID(ctx, moocID)
	if err != nil {
		return 0, err
	}
	if mooc.ClassID == nil {
		return 0, nil
	}

	memberIDs, err := s.classRepo.GetMemberIDs(ctx, *mooc.ClassID)
	if err != nil {
		return 0, err
	}

	notifications := make([]models.Notification, 0, len(memberIDs))
	for _, userID := range memberIDs {
		notifications = append(notifications, models.Notification{
			UserID:  userID,
			Kind:    models.NotificationKindMoocPublished,
			MoocID:  moocID,
			Message: fmt.Sprintf("New course available: %s", mooc.Title),
		})
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return 0, err
	}
	return len(notifications), nil
}

// NotifyEnrollmentCompleted congratulates a user on finishing a mooc
func (s *notificationService) NotifyEnrollmentCompleted(ctx context.Context, moocID, userID int) error {
	mooc, err := s.moocRepo.GetByID(ctx, moocID)
	if err != nil {
		return err
	}

	return s.repo.CreateBatch(ctx, []models.Notification{{
		UserID:  userID,
		Kind:    models.NotificationKindMoocCompleted,
		MoocID:  moocID,
		Message: fmt.Sprintf("You completed the course %s", mooc.Title),
	}})
}
