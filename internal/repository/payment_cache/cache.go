// Package payment_cache remembers processed gateway references in Redis so
// replayed notifications can be answered without opening a transaction.
// Postgres stays the source of truth; a miss or a Redis error always falls
// through to the ledger.
package payment_cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/entities"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dispatch:payment:processed:"

type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type cachedResult struct {
	Outcome    entities.PaymentOutcome `json:"outcome"`
	DeliveryID *int64                  `json:"delivery_id,omitempty"`
}

type Cache struct {
	store cmdable
	ttl   time.Duration
}

func New(store cmdable, ttl time.Duration) *Cache {
	return &Cache{
		store: store,
		ttl:   ttl,
	}
}

func (c *Cache) Get(ctx context.Context, reference string) (*entities.SettlementResult, bool, error) {
	raw, err := c.store.Get(ctx, key(reference)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("payment cache get: %w", err)
	}

	var cached cachedResult
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false, fmt.Errorf("payment cache decode %q: %w", reference, err)
	}

	return &entities.SettlementResult{
		Reference:  reference,
		DeliveryID: cached.DeliveryID,
		Outcome:    cached.Outcome,
		Replayed:   true,
	}, true, nil
}

func (c *Cache) MarkProcessed(ctx context.Context, result entities.SettlementResult) error {
	value, err := json.Marshal(cachedResult{
		Outcome:    result.Outcome,
		DeliveryID: result.DeliveryID,
	})
	if err != nil {
		return fmt.Errorf("payment cache encode: %w", err)
	}

	if err := c.store.Set(ctx, key(result.Reference), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("payment cache set: %w", err)
	}
	return nil
}

func key(reference string) string {
	return keyPrefix + reference
}

// Nop is used when Redis is not configured.
type Nop struct{}

func NewNop() *Nop {
	return &Nop{}
}

func (Nop) Get(context.Context, string) (*entities.SettlementResult, bool, error) {
	return nil, false, nil
}

func (Nop) MarkProcessed(context.Context, entities.SettlementResult) error {
	return nil
}
