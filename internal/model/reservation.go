package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation line statuses. A line is open until it is Finalizado.
const (
	StatusPending   = "Pendente"
	StatusPaid      = "Pago"
	StatusFinalized = "Finalizado"
)

// Payment methods accepted at the counter.
const (
	PaymentCash   = "Dinheiro"
	PaymentDebit  = "Débito"
	PaymentCredit = "Crédito"
	PaymentPIX    = "PIX"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []string{PaymentCash, PaymentDebit, PaymentCredit, PaymentPIX}

// ReservationLine mirrors a row of `reservas`: one item rented by one
// customer for one event. ItemName is a display snapshot; ItemID is the
// reference. UnitPrice is the price at reservation time.
type ReservationLine struct {
	ID            uint64           `json:"id"`
	CustomerID    uint64           `json:"customer_id"`
	CustomerName  string           `json:"customer_name,omitempty"`
	ItemID        uint64           `json:"item_id"`
	ItemName      string           `json:"item_name"`
	Quantity      int64            `json:"quantity"`
	EventDate     time.Time        `json:"event_date"`
	ReturnDate    time.Time        `json:"return_date"`
	Status        string           `json:"status"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	ReturnedAt    *time.Time       `json:"returned_at,omitempty"`
}

// Open reports whether the items of the line are still with the customer.
func (l ReservationLine) Open() bool { return l.Status != StatusFinalized }

// PaidUpFront reports whether revenue was already booked at reservation time.
func (l ReservationLine) PaidUpFront() bool { return l.Status == StatusPaid }
