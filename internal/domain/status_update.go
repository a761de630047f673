package domain

import "time"

// StatusUpdateMaxLength bounds the free-text update message.
const StatusUpdateMaxLength = 500

// StatusUpdateEntry is an append-only narrative note attached to a ticket.
// The recorded status is the status the ticket was in when the note was
// authored; it is an annotation, not a second source of truth.
type StatusUpdateEntry struct {
	ID           string
	TicketID     string
	TicketStatus TicketStatus
	Message      string
	AuthorID     string
	CreatedAt    time.Time
}
