package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
)

// setClient is the subset of *redis.Client used for unlock overrides
type setClient interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// unlockOverrideRepository keeps the decks a mooc owner unlocked by hand.
//
// Every mooc has one Redis set whose members are "<userID>:<deckID>".
type unlockOverrideRepository struct {
	client setClient
}

// NewUnlockOverrideRepository creates a new unlock override repository
func NewUnlockOverrideRepository(client setClient) *unlockOverrideRepository {
	return &unlockOverrideRepository{
		client: client,
	}
}

func unlockKey(moocID int) string {
	return fmt.Sprintf("mooc:%d:unlocked", moocID)
}

func unlockMember(userID, deckID int) string {
	return fmt.Sprintf("%d:%d", userID, deckID)
}

// Add records that userID may open deckID regardless of points
func (r *unlockOverrideRepository) Add(ctx context.Context, moocID, userID, deckID int) error {
	if err := r.client.SAdd(ctx, unlockKey(moocID), unlockMember(userID, deckID)).Err(); err != nil {
		return fmt.Errorf("failed to store unlock override: %w", err)
	}
	return nil
}

// GetDeckIDs returns the set of decks unlocked for a user in a mooc
func (r *unlockOverrideRepository) GetDeckIDs(ctx context.Context, moocID, userID int) (map[int]bool, error) {
	members, err := r.client.SMembers(ctx, unlockKey(moocID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read unlock overrides: %w", err)
	}

	prefix := strconv.Itoa(userID) + ":"
	deckIDs := make(map[int]bool)
	for _, member := range members {
		if !strings.HasPrefix(member, prefix) {
			continue
		}
		deckID, err := strconv.Atoi(strings.TrimPrefix(member, prefix))
		if err != nil {
			continue
		}
		deckIDs[deckID] = true
	}
	return deckIDs, nil
}

// DeleteByMoocID drops every override of a mooc
func (r *unlockOverrideRepository) DeleteByMoocID(ctx context.Context, moocID int) error {
	if err := r.client.Del(ctx, unlockKey(moocID)).Err(); err != nil {
		return fmt.Errorf("failed to delete unlock overrides: %w", err)
	}
	return nil
}
