package memory

import (
	"context"
	"sync"

	"github.com/ewheels/service-desk/internal/repository"
)

type numberAllocator struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newNumberAllocator() *numberAllocator {
	return &numberAllocator{counters: make(map[string]int64)}
}

func (a *numberAllocator) Next(ctx context.Context, locationID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counters[locationID]++
	return repository.FormatTicketNumber(locationID, a.counters[locationID]), nil
}
