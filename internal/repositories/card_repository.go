package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/flashlearn/mooc-service/internal/models"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *sql.DB) *cardRepository {
	return &cardRepository{
		db: db,
	}
}

// GetByID retrieves a card by its ID
func (r *cardRepository) GetByID(ctx context.Context, id int) (*models.Card, error) {
	query := "SELECT id, deck_id, front, back, tags FROM cards WHERE id = ? LIMIT 1"

	var card models.Card
	var tags []byte
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&tags,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: card %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	if err := decodeTags(tags, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateBatch inserts cards into a deck with a single statement
func (r *cardRepository) CreateBatch(ctx context.Context, deckID int, cards []models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	placeholders := make([]string, len(cards))
	args := make([]any, 0, len(cards)*4)
	for i, card := range cards {
		tags, err := encodeTags(card.Tags)
		if err != nil {
			return err
		}
		placeholders[i] = "(?, ?, ?, ?)"
		args = append(args, deckID, card.Front, card.Back, tags)
	}

	query := fmt.Sprintf("INSERT INTO cards (deck_id, front, back, tags) VALUES %s", strings.Join(placeholders, ", "))
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert cards: %w", err)
	}
	return nil
}

// Update overwrites the content of a card
func (r *cardRepository) Update(ctx context.Context, card *models.Card) error {
	tags, err := encodeTags(card.Tags)
	if err != nil {
		return err
	}

	query := "UPDATE cards SET front = ?, back = ?, tags = ? WHERE id = ?"
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, card.Front, card.Back, tags, card.ID); err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

// DeleteByDeckIDs deletes every card of the given decks
func (r *cardRepository) DeleteByDeckIDs(ctx context.Context, deckIDs []int) error {
	if len(deckIDs) == 0 {
		return nil
	}

	placeholders, args := inClause(deckIDs)
	query := fmt.Sprintf("DELETE FROM cards WHERE deck_id IN (%s)", placeholders)

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete cards: %w", err)
	}
	return nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode card tags: %w", err)
	}
	return string(raw), nil
}

func decodeTags(raw []byte, card *models.Card) error {
	card.Tags = []string{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &card.Tags); err != nil {
		return fmt.Errorf("failed to decode card tags: %w", err)
	}
	return nil
}
