package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ewheels/service-desk/internal/domain"
)

// ErrStatusConflict signals that a guarded ticket update lost a race: the
// row no longer holds the status the caller validated against.
var ErrStatusConflict = errors.New("ticket status changed concurrently")

// TicketFilter captures listing parameters.
type TicketFilter struct {
	LocationID  *string
	CustomerID  *string
	AssigneeID  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.ServiceTicket) error
	GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error)
	GetByNumber(ctx context.Context, number string) (*domain.ServiceTicket, error)
	// UpdateFromStatus persists the ticket only if the stored row still
	// holds the expected status; returns ErrStatusConflict otherwise.
	UpdateFromStatus(ctx context.Context, ticket *domain.ServiceTicket, expected domain.TicketStatus) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.ServiceTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, location_id, customer_id, complaint,
        vehicle_make, vehicle_model, vehicle_reg, vehicle_year,
        status, priority, assignee_id, due_date,
        customer_bringing, triaged_at, triaged_by, triage_notes,
        vehicle_case_id, battery_case_id,
        completed_at, delivered_at, closed_at, cancelled_at,
        created_by, updated_by, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.ServiceTicket) error {
	const query = `
        INSERT INTO service_tickets (ticket_number, location_id, customer_id, complaint,
            vehicle_make, vehicle_model, vehicle_reg, vehicle_year,
            status, priority, assignee_id, due_date, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.LocationID,
		ticket.CustomerID,
		ticket.Complaint,
		ticket.VehicleMake,
		ticket.VehicleModel,
		ticket.VehicleReg,
		ticket.VehicleYear,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.DueDate,
		ticket.CreatedBy,
		ticket.UpdatedBy,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) UpdateFromStatus(ctx context.Context, ticket *domain.ServiceTicket, expected domain.TicketStatus) error {
	const query = `
        UPDATE service_tickets SET status=$1, priority=$2, assignee_id=$3, due_date=$4,
            customer_bringing=$5, triaged_at=$6, triaged_by=$7, triage_notes=$8,
            vehicle_case_id=$9, battery_case_id=$10,
            completed_at=$11, delivered_at=$12, closed_at=$13, cancelled_at=$14,
            updated_by=$15, updated_at=NOW()
        WHERE id=$16 AND status=$17`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.DueDate,
		ticket.CustomerBringing,
		ticket.TriagedAt,
		ticket.TriagedBy,
		ticket.TriageNotes,
		ticket.VehicleCaseID,
		ticket.BatteryCaseID,
		ticket.CompletedAt,
		ticket.DeliveredAt,
		ticket.ClosedAt,
		ticket.CancelledAt,
		ticket.UpdatedBy,
		ticket.ID,
		expected,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.ServiceTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_tickets WHERE ticket_number=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.ServiceTicket, error) {
	var ticket domain.ServiceTicket
	if err := scanTicket(r.pool.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.ServiceTicket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.LocationID != nil {
		args = append(args, *filter.LocationID)
		clauses = append(clauses, fmt.Sprintf("location_id=$%d", len(args)))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(complaint) LIKE %s OR LOWER(ticket_number) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM service_tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner, ticket *domain.ServiceTicket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.LocationID,
		&ticket.CustomerID,
		&ticket.Complaint,
		&ticket.VehicleMake,
		&ticket.VehicleModel,
		&ticket.VehicleReg,
		&ticket.VehicleYear,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AssigneeID,
		&ticket.DueDate,
		&ticket.CustomerBringing,
		&ticket.TriagedAt,
		&ticket.TriagedBy,
		&ticket.TriageNotes,
		&ticket.VehicleCaseID,
		&ticket.BatteryCaseID,
		&ticket.CompletedAt,
		&ticket.DeliveredAt,
		&ticket.ClosedAt,
		&ticket.CancelledAt,
		&ticket.CreatedBy,
		&ticket.UpdatedBy,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.ServiceTicket, error) {
	var result []domain.ServiceTicket
	for rows.Next() {
		var ticket domain.ServiceTicket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
