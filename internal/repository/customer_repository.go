package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ewheels/service-desk/internal/domain"
)

// CustomerRepository reads customer references; customer records are owned
// by the surrounding application.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `SELECT id, name, phone, email, created_at FROM customers WHERE id=$1`
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&customer.Email,
		&customer.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}
