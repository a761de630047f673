package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// TicketNumberAllocator hands out sequential, shop-scoped ticket numbers.
type TicketNumberAllocator interface {
	Next(ctx context.Context, locationID string) (string, error)
}

type redisTicketNumberAllocator struct {
	client *redis.Client
}

// NewTicketNumberAllocator builds a Redis-backed allocator. The counter is
// one key per location so numbers stay sequential within a shop.
func NewTicketNumberAllocator(client *redis.Client) TicketNumberAllocator {
	return &redisTicketNumberAllocator{client: client}
}

func (a *redisTicketNumberAllocator) Next(ctx context.Context, locationID string) (string, error) {
	seq, err := a.client.Incr(ctx, "ticket_seq:"+locationID).Result()
	if err != nil {
		return "", fmt.Errorf("allocate ticket number: %w", err)
	}
	return FormatTicketNumber(locationID, seq), nil
}

// FormatTicketNumber renders the human-readable ticket number.
func FormatTicketNumber(locationID string, seq int64) string {
	return fmt.Sprintf("EV-%s-%06d", locationID, seq)
}
