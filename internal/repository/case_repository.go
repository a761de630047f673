package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ewheels/service-desk/internal/domain"
)

// CaseRepository persists vehicle and battery cases. The two variants live
// in separate tables but share a schema; Type selects the table.
type CaseRepository interface {
	CreateVehicleCase(ctx context.Context, c *domain.ServiceCase) error
	CreateBatteryCase(ctx context.Context, c *domain.ServiceCase) error
	GetByID(ctx context.Context, caseType domain.CaseType, id string) (*domain.ServiceCase, error)
	Update(ctx context.Context, c *domain.ServiceCase) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ServiceCase, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

func caseTable(t domain.CaseType) string {
	if t == domain.CaseTypeBattery {
		return "battery_cases"
	}
	return "vehicle_cases"
}

func (r *caseRepository) CreateVehicleCase(ctx context.Context, c *domain.ServiceCase) error {
	c.Type = domain.CaseTypeVehicle
	return r.create(ctx, c)
}

func (r *caseRepository) CreateBatteryCase(ctx context.Context, c *domain.ServiceCase) error {
	c.Type = domain.CaseTypeBattery
	return r.create(ctx, c)
}

func (r *caseRepository) create(ctx context.Context, c *domain.ServiceCase) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (ticket_id, status, diagnostic_notes, parts_cost, labor_cost, total_cost)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`, caseTable(c.Type))
	return r.pool.QueryRow(ctx, query,
		c.TicketID,
		c.Status,
		c.DiagnosticNotes,
		c.PartsCost,
		c.LaborCost,
		c.TotalCost,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) GetByID(ctx context.Context, caseType domain.CaseType, id string) (*domain.ServiceCase, error) {
	query := fmt.Sprintf(`
        SELECT id, ticket_id, status, diagnostic_notes, parts_cost, labor_cost, total_cost, created_at, updated_at
        FROM %s WHERE id=$1`, caseTable(caseType))
	c := domain.ServiceCase{Type: caseType}
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.TicketID,
		&c.Status,
		&c.DiagnosticNotes,
		&c.PartsCost,
		&c.LaborCost,
		&c.TotalCost,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) Update(ctx context.Context, c *domain.ServiceCase) error {
	query := fmt.Sprintf(`
        UPDATE %s SET status=$1, diagnostic_notes=$2, parts_cost=$3, labor_cost=$4, total_cost=$5, updated_at=NOW()
        WHERE id=$6`, caseTable(c.Type))
	cmd, err := r.pool.Exec(ctx, query,
		c.Status,
		c.DiagnosticNotes,
		c.PartsCost,
		c.LaborCost,
		c.TotalCost,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ServiceCase, error) {
	var result []domain.ServiceCase
	for _, caseType := range []domain.CaseType{domain.CaseTypeVehicle, domain.CaseTypeBattery} {
		query := fmt.Sprintf(`
            SELECT id, ticket_id, status, diagnostic_notes, parts_cost, labor_cost, total_cost, created_at, updated_at
            FROM %s WHERE ticket_id=$1`, caseTable(caseType))
		rows, err := r.pool.Query(ctx, query, ticketID)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			c := domain.ServiceCase{Type: caseType}
			if err := rows.Scan(
				&c.ID,
				&c.TicketID,
				&c.Status,
				&c.DiagnosticNotes,
				&c.PartsCost,
				&c.LaborCost,
				&c.TotalCost,
				&c.CreatedAt,
				&c.UpdatedAt,
			); err != nil {
				rows.Close()
				return nil, err
			}
			result = append(result, c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return result, nil
}
