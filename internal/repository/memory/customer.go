package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewheels/service-desk/internal/domain"
)

type customerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

func newCustomerRepository() *customerRepository {
	return &customerRepository{customers: make(map[string]*domain.Customer)}
}

// Put seeds a customer record, assigning an id when missing.
func (r *customerRepository) Put(customer *domain.Customer) *domain.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	clone := *customer
	r.customers[customer.ID] = &clone
	return customer
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *customer
	return &clone, nil
}
