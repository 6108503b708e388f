package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flashlearn/mooc-service/internal/models"
)

// classRepository reads classes owned by the class management module
type classRepository struct {
	db *sql.DB
}

// NewClassRepository creates a new class repository
func NewClassRepository(db *sql.DB) *classRepository {
	return &classRepository{
		db: db,
	}
}

// GetByID retrieves a class by its ID
func (r *classRepository) GetByID(ctx context.Context, id int) (*models.ClassInfo, error) {
	query := "SELECT id, name, owner_id FROM classes WHERE id = ? LIMIT 1"

	var class models.ClassInfo
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&class.ID, &class.Name, &class.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: class %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class by id: %w", err)
	}

	return &class, nil
}

// IsMember checks if a user is in the member list of a class
func (r *classRepository) IsMember(ctx context.Context, classID, userID int) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM class_members WHERE class_id = ? AND user_id = ?)"

	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, classID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check class membership: %w", err)
	}
	return exists, nil
}

// GetMemberIDs retrieves the user IDs of all members of a class
func (r *classRepository) GetMemberIDs(ctx context.Context, classID int) ([]int, error) {
	query := "SELECT user_id FROM class_members WHERE class_id = ? ORDER BY user_id"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query class members: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan class member: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}
