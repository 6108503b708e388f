package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flashlearn/mooc-service/internal/models"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new deck repository
func NewDeckRepository(db *sql.DB) *deckRepository {
	return &deckRepository{
		db: db,
	}
}

const deckColumns = "id, owner_id, title, description, public_status, points_required, card_count, created_at, updated_at"

func scanDeck(row interface{ Scan(...any) error }, deck *models.Deck) error {
	return row.Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Title,
		&deck.Description,
		&deck.PublicStatus,
		&deck.PointsRequired,
		&deck.CardCount,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
}

// GetByID retrieves a deck by its ID
func (r *deckRepository) GetByID(ctx context.Context, id int) (*models.Deck, error) {
	query := "SELECT " + deckColumns + " FROM decks WHERE id = ? LIMIT 1"

	var deck models.Deck
	err := scanDeck(conn(ctx, r.db).QueryRowContext(ctx, query, id), &deck)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: deck %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	return &deck, nil
}

// Create inserts a new deck and sets its ID
func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	query := `
		INSERT INTO decks (owner_id, title, description, public_status, points_required, card_count)
		VALUES (?, ?, ?, ?, ?, 0)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		deck.OwnerID,
		deck.Title,
		deck.Description,
		deck.PublicStatus,
		deck.PointsRequired,
	)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	deck.ID = int(id)
	deck.CardCount = 0
	return nil
}

// Update overwrites the editable fields of a deck
func (r *deckRepository) Update(ctx context.Context, deck *models.Deck) error {
	query := `
		UPDATE decks
		SET title = ?, description = ?, public_status = ?, points_required = ?
		WHERE id = ?
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		deck.Title,
		deck.Description,
		deck.PublicStatus,
		deck.PointsRequired,
		deck.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	return nil
}

// SetPublicStatus sets the public status of several decks at once
func (r *deckRepository) SetPublicStatus(ctx context.Context, ids []int, status models.PublicStatus) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders, args := inClause(ids)
	query := fmt.Sprintf("UPDATE decks SET public_status = ? WHERE id IN (%s)", placeholders)

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, append([]any{status}, args...)...); err != nil {
		return fmt.Errorf("failed to set deck public status: %w", err)
	}
	return nil
}

// SyncCardCount recomputes the cached card count of a deck and returns it
func (r *deckRepository) SyncCardCount(ctx context.Context, deckID int) (int, error) {
	db := conn(ctx, r.db)

	query := "UPDATE decks SET card_count = (SELECT COUNT(*) FROM cards WHERE deck_id = ?) WHERE id = ?"
	if _, err := db.ExecContext(ctx, query, deckID, deckID); err != nil {
		return 0, fmt.Errorf("failed to update card count: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT card_count FROM decks WHERE id = ?", deckID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to read card count: %w", err)
	}
	return count, nil
}

// DeleteByIDs deletes decks by their IDs
func (r *deckRepository) DeleteByIDs(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders, args := inClause(ids)
	query := fmt.Sprintf("DELETE FROM decks WHERE id IN (%s)", placeholders)

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete decks: %w", err)
	}
	return nil
}
