// Package queue defines the background tasks exchanged between the API and the worker
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeMoocPublished       = "mooc:published"
	TypeEnrollmentCompleted = "mooc:enrollment_completed"
)

// QueueEvents is the queue domain events are enqueued to
const QueueEvents = "events"

// MoocPublishedPayload is the payload of a TypeMoocPublished task
type MoocPublishedPayload struct {
	MoocID int `json:"moocId"`
}

// EnrollmentCompletedPayload is the payload of a TypeEnrollmentCompleted task
type EnrollmentCompletedPayload struct {
	MoocID int `json:"moocId"`
	UserID int `json:"userId"`
}

// NewMoocPublishedTask creates a task announcing that a mooc became public
func NewMoocPublishedTask(moocID int) (*asynq.Task, error) {
	payload, err := json.Marshal(MoocPublishedPayload{MoocID: moocID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMoocPublished, payload, asynq.MaxRetry(5)), nil
}

// NewEnrollmentCompletedTask creates a task announcing that a user completed a mooc
func NewEnrollmentCompletedTask(moocID, userID int) (*asynq.Task, error) {
	payload, err := json.Marshal(EnrollmentCompletedPayload{MoocID: moocID, UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEnrollmentCompleted, payload, asynq.MaxRetry(5)), nil
}

// Enqueuer is the subset of *asynq.Client used by Publisher
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher enqueues domain events for the worker
type Publisher struct {
	client Enqueuer
}

// NewPublisher creates a new publisher
func NewPublisher(client Enqueuer) *Publisher {
	return &Publisher{client: client}
}

// PublishMoocPublished enqueues a TypeMoocPublished task
func (p *Publisher) PublishMoocPublished(ctx context.Context, moocID int) error {
	task, err := NewMoocPublishedTask(moocID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	if _, err := p.client.EnqueueContext(ctx, task, asynq.Queue(QueueEvents)); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeMoocPublished, err)
	}
	return nil
}

// PublishEnrollmentCompleted enqueues a TypeEnrollmentCompleted task
func (p *Publisher) PublishEnrollmentCompleted(ctx context.Context, moocID, userID int) error {
	task, err := NewEnrollmentCompletedTask(moocID, userID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	if _, err := p.client.EnqueueContext(ctx, task, asynq.Queue(QueueEvents)); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeEnrollmentCompleted, err)
	}
	return nil
}
