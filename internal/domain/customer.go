package domain

import "time"

// Customer is a read-only reference from tickets; customer records are
// owned by the surrounding application, not this service.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     *string
	CreatedAt time.Time
}
