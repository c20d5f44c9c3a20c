// Package queue defines the rental events exchanged over RabbitMQ together
// with their publisher and the background consumer.
package queue

import (
	"github.com/shopspring/decimal"
)

// QueueName is the durable queue carrying every rental event.
const QueueName = "rental.events"

// Event types.
const (
	TypeReservationCreated  = "reservation.created"
	TypeReservationReturned = "reservation.returned"
)

// EventLine is one reservation line referenced by an event.
type EventLine struct {
	LineID   uint64 `json:"line_id"`
	ItemID   uint64 `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int64  `json:"quantity"`
}

// ReservationEvent is published after a reservation or a return commits.
// Amount is the revenue booked by the operation, zero when none was.
type ReservationEvent struct {
	EventID       string          `json:"event_id"`
	Type          string          `json:"type"`
	CustomerID    uint64          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	EventDate     string          `json:"event_date"`
	ReturnDate    string          `json:"return_date"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Overdue       bool            `json:"overdue,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Lines         []EventLine     `json:"lines"`
	OccurredAt    string          `json:"occurred_at"`
}
