package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/flashlearn/mooc-service/internal/models"
)

type moocRepository struct {
	db *sql.DB
}

// NewMoocRepository creates a new mooc repository
func NewMoocRepository(db *sql.DB) *moocRepository {
	return &moocRepository{
		db: db,
	}
}

const moocColumns = "id, title, description, owner_id, class_id, is_paid, price, currency, public_status, created_at, updated_at"

func scanMooc(row interface{ Scan(...any) error }, mooc *models.Mooc) error {
	var classID sql.NullInt64
	err := row.Scan(
		&mooc.ID,
		&mooc.Title,
		&mooc.Description,
		&mooc.OwnerID,
		&classID,
		&mooc.IsPaid,
		&mooc.Price,
		&mooc.Currency,
		&mooc.PublicStatus,
		&mooc.CreatedAt,
		&mooc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if classID.Valid {
		id := int(classID.Int64)
		mooc.ClassID = &id
	}
	return nil
}

// GetByID retrieves the mooc row by its ID, without decks and enrollments
func (r *moocRepository) GetByID(ctx context.Context, id int) (*models.Mooc, error) {
	query := "SELECT " + moocColumns + " FROM moocs WHERE id = ? LIMIT 1"

	var mooc models.Mooc
	err := scanMooc(conn(ctx, r.db).QueryRowContext(ctx, query, id), &mooc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: mooc %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mooc by id: %w", err)
	}

	return &mooc, nil
}

// GetAll retrieves all moocs, optionally filtered by class
func (r *moocRepository) GetAll(ctx context.Context, classID *int) ([]models.Mooc, error) {
	query := "SELECT " + moocColumns + " FROM moocs"
	var args []any
	if classID != nil {
		query += " WHERE class_id = ?"
		args = append(args, *classID)
	}
	query += " ORDER BY id"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query moocs: %w", err)
	}
	defer rows.Close()

	moocs := []models.Mooc{}
	for rows.Next() {
		var mooc models.Mooc
		if err := scanMooc(rows, &mooc); err != nil {
			return nil, fmt.Errorf("failed to scan mooc: %w", err)
		}
		moocs = append(moocs, mooc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return moocs, nil
}

// Create inserts a new mooc row and sets its ID
func (r *moocRepository) Create(ctx context.Context, mooc *models.Mooc) error {
	query := `
		INSERT INTO moocs (title, description, owner_id, class_id, is_paid, price, currency, public_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		mooc.Title,
		mooc.Description,
		mooc.OwnerID,
		nullableInt(mooc.ClassID),
		mooc.IsPaid,
		mooc.Price,
		mooc.Currency,
		mooc.PublicStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to create mooc: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	mooc.ID = int(id)
	return nil
}

// Update overwrites the scalar fields of a mooc
func (r *moocRepository) Update(ctx context.Context, mooc *models.Mooc) error {
	query := `
		UPDATE moocs
		SET title = ?, description = ?, class_id = ?, is_paid = ?, price = ?, currency = ?, public_status = ?
		WHERE id = ?
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		mooc.Title,
		mooc.Description,
		nullableInt(mooc.ClassID),
		mooc.IsPaid,
		mooc.Price,
		mooc.Currency,
		mooc.PublicStatus,
		mooc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mooc: %w", err)
	}

	return nil
}

// GetDecks retrieves the decks of a mooc ordered by their position
func (r *moocRepository) GetDecks(ctx context.Context, moocID int) ([]models.MoocDeck, error) {
	query := `
		SELECT
			md.deck_id,
			md.deck_order,
			d.owner_id,
			d.title,
			d.description,
			d.public_status,
			d.points_required,
			d.card_count,
			d.created_at,
			d.updated_at
		FROM mooc_decks md
		JOIN decks d ON d.id = md.deck_id
		WHERE md.mooc_id = ?
		ORDER BY md.deck_order
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, moocID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mooc decks: %w", err)
	}
	defer rows.Close()

	decks := []models.MoocDeck{}
	for rows.Next() {
		var md models.MoocDeck
		deck := &models.Deck{}
		err := rows.Scan(
			&md.DeckID,
			&md.Order,
			&deck.OwnerID,
			&deck.Title,
			&deck.Description,
			&deck.PublicStatus,
			&deck.PointsRequired,
			&deck.CardCount,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mooc deck: %w", err)
		}
		deck.ID = md.DeckID
		md.Deck = deck
		decks = append(decks, md)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return decks, nil
}

// ReplaceDecks replaces the whole deck list of a mooc
func (r *moocRepository) ReplaceDecks(ctx context.Context, moocID int, decks []models.MoocDeck) error {
	db := conn(ctx, r.db)

	if _, err := db.ExecContext(ctx, "DELETE FROM mooc_decks WHERE mooc_id = ?", moocID); err != nil {
		return fmt.Errorf("failed to clear mooc decks: %w", err)
	}

	if len(decks) == 0 {
		return nil
	}

	placeholders := make([]string, len(decks))
	args := make([]any, 0, len(decks)*3)
	for i, d := range decks {
		placeholders[i] = "(?, ?, ?)"
		args = append(args, moocID, d.DeckID, d.Order)
	}

	query := fmt.Sprintf("INSERT INTO mooc_decks (mooc_id, deck_id, deck_order) VALUES %s", strings.Join(placeholders, ", "))
	_, err := db.ExecContext(ctx, query, args...)
	if isMySQLError(err, errDuplicateEntry) {
		return fmt.Errorf("%w: deck is already part of a mooc", models.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("failed to insert mooc decks: %w", err)
	}
	return nil
}

// GetMoocIDByDeck retrieves the ID of the mooc a deck is linked to
func (r *moocRepository) GetMoocIDByDeck(ctx context.Context, deckID int) (int, error) {
	var moocID int
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT mooc_id FROM mooc_decks WHERE deck_id = ? LIMIT 1", deckID).Scan(&moocID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no mooc for deck %d", models.ErrNotFound, deckID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get mooc of deck: %w", err)
	}
	return moocID, nil
}

// Delete deletes a mooc by ID.
//
// Deck links, enrollments and deck progress are removed by foreign key cascade.
func (r *moocRepository) Delete(ctx context.Context, id int) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM moocs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete mooc: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: mooc %d", models.ErrNotFound, id)
	}

	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
