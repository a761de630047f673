package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewheels/service-desk/internal/domain"
)

type caseRepository struct {
	mu    sync.RWMutex
	cases map[string]*domain.ServiceCase
}

func newCaseRepository() *caseRepository {
	return &caseRepository{cases: make(map[string]*domain.ServiceCase)}
}

func (r *caseRepository) CreateVehicleCase(ctx context.Context, c *domain.ServiceCase) error {
	c.Type = domain.CaseTypeVehicle
	return r.create(c)
}

func (r *caseRepository) CreateBatteryCase(ctx context.Context, c *domain.ServiceCase) error {
	c.Type = domain.CaseTypeBattery
	return r.create(c)
}

func (r *caseRepository) create(c *domain.ServiceCase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	clone := *c
	r.cases[c.ID] = &clone
	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, caseType domain.CaseType, id string) (*domain.ServiceCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cases[id]
	if !ok || c.Type != caseType {
		return nil, pgx.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (r *caseRepository) Update(ctx context.Context, c *domain.ServiceCase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cases[c.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = time.Now()
	clone := *c
	r.cases[c.ID] = &clone
	return nil
}

func (r *caseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ServiceCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.ServiceCase
	for _, c := range r.cases {
		if c.TicketID == ticketID {
			result = append(result, *c)
		}
	}
	return result, nil
}
