package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewheels/service-desk/internal/domain"
)

type staffRepository struct {
	mu    sync.RWMutex
	staff map[string]*domain.StaffMember
}

func newStaffRepository() *staffRepository {
	return &staffRepository{staff: make(map[string]*domain.StaffMember)}
}

// Put seeds a staff record, assigning an id when missing.
func (r *staffRepository) Put(member *domain.StaffMember) *domain.StaffMember {
	r.mu.Lock()
	defer r.mu.Unlock()
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	clone := *member
	r.staff[member.ID] = &clone
	return member
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	member, ok := r.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *member
	return &clone, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, member := range r.staff {
		if member.Email == email {
			clone := *member
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *staffRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.staff[id]
	if !ok {
		return pgx.ErrNoRows
	}
	member.PasswordHash = passwordHash
	member.UpdatedAt = time.Now()
	return nil
}
