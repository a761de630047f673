package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ewheels/service-desk/internal/domain"
)

type statusUpdateRepository struct {
	mu      sync.RWMutex
	entries []domain.StatusUpdateEntry
}

func newStatusUpdateRepository() *statusUpdateRepository {
	return &statusUpdateRepository{}
}

func (r *statusUpdateRepository) Append(ctx context.Context, entry *domain.StatusUpdateEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *statusUpdateRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.StatusUpdateEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.StatusUpdateEntry
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}
