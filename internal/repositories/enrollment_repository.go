package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flashlearn/mooc-service/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

const enrollmentColumns = "id, mooc_id, user_id, current_deck_index, progress_state, started_at, completed_at"

func scanEnrollment(row interface{ Scan(...any) error }, e *models.EnrolledUser) error {
	var completedAt sql.NullTime
	err := row.Scan(
		&e.ID,
		&e.MoocID,
		&e.UserID,
		&e.CurrentDeckIndex,
		&e.ProgressState,
		&e.StartedAt,
		&completedAt,
	)
	if err != nil {
		return err
	}
	if completedAt.Valid {
		t := completedAt.Time
		e.CompletedAt = &t
	}
	e.DeckProgress = []models.DeckProgress{}
	return nil
}

// GetByMoocID retrieves every enrollment of a mooc together with its deck progress
func (r *enrollmentRepository) GetByMoocID(ctx context.Context, moocID int) ([]models.EnrolledUser, error) {
	db := conn(ctx, r.db)

	query := "SELECT " + enrollmentColumns + " FROM mooc_enrollments WHERE mooc_id = ? ORDER BY id"
	rows, err := db.QueryContext(ctx, query, moocID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.EnrolledUser{}
	index := make(map[int]int)
	for rows.Next() {
		var e models.EnrolledUser
		if err := scanEnrollment(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		index[e.ID] = len(enrollments)
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if len(enrollments) == 0 {
		return enrollments, nil
	}

	progressQuery := `
		SELECT p.enrollment_id, p.deck_id, p.completed, p.completed_at
		FROM mooc_deck_progress p
		JOIN mooc_enrollments e ON e.id = p.enrollment_id
		WHERE e.mooc_id = ?
		ORDER BY p.enrollment_id, p.deck_id
	`
	progressRows, err := db.QueryContext(ctx, progressQuery, moocID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deck progress: %w", err)
	}
	defer progressRows.Close()

	for progressRows.Next() {
		var enrollmentID int
		p, err := scanDeckProgress(progressRows, &enrollmentID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[enrollmentID]; ok {
			enrollments[i].DeckProgress = append(enrollments[i].DeckProgress, p)
		}
	}
	if err := progressRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return enrollments, nil
}

// GetByMoocAndUser retrieves the enrollment of a user in a mooc and locks it for update
func (r *enrollmentRepository) GetByMoocAndUser(ctx context.Context, moocID, userID int) (*models.EnrolledUser, error) {
	db := conn(ctx, r.db)

	query := "SELECT " + enrollmentColumns + " FROM mooc_enrollments WHERE mooc_id = ? AND user_id = ? LIMIT 1 FOR UPDATE"

	var e models.EnrolledUser
	err := scanEnrollment(db.QueryRowContext(ctx, query, moocID, userID), &e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: enrollment of user %d in mooc %d", models.ErrNotFound, userID, moocID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	progressQuery := "SELECT enrollment_id, deck_id, completed, completed_at FROM mooc_deck_progress WHERE enrollment_id = ? ORDER BY deck_id"
	rows, err := db.QueryContext(ctx, progressQuery, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deck progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var enrollmentID int
		p, err := scanDeckProgress(rows, &enrollmentID)
		if err != nil {
			return nil, err
		}
		e.DeckProgress = append(e.DeckProgress, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &e, nil
}

// Create inserts a new enrollment and sets its ID.
//
// Losing an insert race to another enrollment of the same user returns an error
// wrapping models.ErrAlreadyExists.
func (r *enrollmentRepository) Create(ctx context.Context, e *models.EnrolledUser) error {
	query := `
		INSERT INTO mooc_enrollments (mooc_id, user_id, current_deck_index, progress_state, started_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		e.MoocID,
		e.UserID,
		e.CurrentDeckIndex,
		e.ProgressState,
		e.StartedAt,
	)
	if isMySQLError(err, errDuplicateEntry, errLockDeadlock) {
		// a concurrent first enrollment of the same user won the insert
		return fmt.Errorf("%w: enrollment of user %d in mooc %d: %v", models.ErrAlreadyExists, e.UserID, e.MoocID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	e.ID = int(id)
	if e.DeckProgress == nil {
		e.DeckProgress = []models.DeckProgress{}
	}
	return nil
}

// UpsertDeckProgress inserts or overwrites the progress entry of a deck
func (r *enrollmentRepository) UpsertDeckProgress(ctx context.Context, enrollmentID int, p models.DeckProgress) error {
	query := `
		INSERT INTO mooc_deck_progress (enrollment_id, deck_id, completed, completed_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE completed = VALUES(completed), completed_at = VALUES(completed_at)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query, enrollmentID, p.DeckID, p.Completed, nullableTime(p.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert deck progress: %w", err)
	}
	return nil
}

// UpdateState stores the aggregate progress fields of an enrollment
func (r *enrollmentRepository) UpdateState(ctx context.Context, e *models.EnrolledUser) error {
	query := `
		UPDATE mooc_enrollments
		SET current_deck_index = ?, progress_state = ?, completed_at = ?
		WHERE id = ?
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		e.CurrentDeckIndex,
		e.ProgressState,
		nullableTime(e.CompletedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update enrollment state: %w", err)
	}
	return nil
}

func scanDeckProgress(rows *sql.Rows, enrollmentID *int) (models.DeckProgress, error) {
	var p models.DeckProgress
	var completedAt sql.NullTime
	if err := rows.Scan(enrollmentID, &p.DeckID, &p.Completed, &completedAt); err != nil {
		return p, fmt.Errorf("failed to scan deck progress: %w", err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		p.CompletedAt = &t
	}
	return p, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
