package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ewheels/service-desk/internal/domain"
)

// StatusUpdateRepository stores the append-only narrative trail. Entries are
// never edited or deleted through this service.
type StatusUpdateRepository interface {
	Append(ctx context.Context, entry *domain.StatusUpdateEntry) error
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.StatusUpdateEntry, error)
}

type statusUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewStatusUpdateRepository builds repository.
func NewStatusUpdateRepository(pool *pgxpool.Pool) StatusUpdateRepository {
	return &statusUpdateRepository{pool: pool}
}

func (r *statusUpdateRepository) Append(ctx context.Context, entry *domain.StatusUpdateEntry) error {
	const query = `
        INSERT INTO status_updates (ticket_id, ticket_status, message, author_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.TicketStatus,
		entry.Message,
		entry.AuthorID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *statusUpdateRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.StatusUpdateEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, ticket_status, message, author_id, created_at
        FROM status_updates WHERE ticket_id=$1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusUpdateEntry
	for rows.Next() {
		var entry domain.StatusUpdateEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.TicketStatus,
			&entry.Message,
			&entry.AuthorID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
