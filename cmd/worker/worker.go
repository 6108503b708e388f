package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flashlearn/mooc-service/internal/models"
	"github.com/flashlearn/mooc-service/internal/queue"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier defines the interface for turning domain events into notifications
type Notifier interface {
	// NotifyMoocPublished creates a notification for every member of the mooc's class
	//
	// "moocID" parameter is the mooc that became public.
	//
	// The number of notifications created is returned. If the mooc is gone an error wrapping models.ErrNotFound is returned.
	NotifyMoocPublished(ctx context.Context, moocID int) (int, error)
	// NotifyEnrollmentCompleted creates a completion notification for the user
	//
	// "moocID" and "userID" parameters identify the completed enrollment.
	NotifyEnrollmentCompleted(ctx context.Context, moocID, userID int) error
}

// Worker handles task processing
type Worker struct {
	logger   *zap.Logger
	notifier Notifier
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, notifier Notifier) *Worker {
	return &Worker{
		logger:   logger,
		notifier: notifier,
	}
}

// HandleMoocPublished handles mooc:published tasks
func (w *Worker) HandleMoocPublished(ctx context.Context, t *asynq.Task) error {
	var payload queue.MoocPublishedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %v: %w", err, asynq.SkipRetry)
	}

	created, err := w.notifier.NotifyMoocPublished(ctx, payload.MoocID)
	if err != nil {
		// Mooc was deleted before processing
		if errors.Is(err, models.ErrNotFound) {
			w.logger.Warn("Mooc not found, skipping publish notifications", zap.Int("mooc_id", payload.MoocID))
			return nil
		}
		return err
	}

	w.logger.Info("Mooc published notifications created",
		zap.Int("mooc_id", payload.MoocID),
		zap.Int("count", created),
	)
	return nil
}

// HandleEnrollmentCompleted handles mooc:enrollment_completed tasks
func (w *Worker) HandleEnrollmentCompleted(ctx context.Context, t *asynq.Task) error {
	var payload queue.EnrollmentCompletedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.notifier.NotifyEnrollmentCompleted(ctx, payload.MoocID, payload.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			w.logger.Warn("Mooc not found, skipping completion notification", zap.Int("mooc_id", payload.MoocID))
			return nil
		}
		return err
	}

	w.logger.Info("Completion notification created",
		zap.Int("mooc_id", payload.MoocID),
		zap.Int("user_id", payload.UserID),
	)
	return nil
}
