package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Order is the derived grouping of open reservation lines of one customer
// for one event date. ReturnDate is the earliest return date of its lines.
type Order struct {
	Key           string            `json:"key"`
	CustomerID    uint64            `json:"customer_id"`
	CustomerName  string            `json:"customer_name"`
	EventDate     time.Time         `json:"event_date"`
	ReturnDate    time.Time         `json:"return_date"`
	TotalQuantity int64             `json:"total_quantity"`
	Overdue       bool              `json:"overdue"`
	Lines         []ReservationLine `json:"lines"`
}

const orderKeyDate = "20060102"

// OrderKey identifies an order on the wire as "<customer id>-<YYYYMMDD>".
func OrderKey(customerID uint64, eventDate time.Time) string {
	return fmt.Sprintf("%d-%s", customerID, DateOnly(eventDate).Format(orderKeyDate))
}

// ParseOrderKey is the inverse of OrderKey.
func ParseOrderKey(key string) (customerID uint64, eventDate time.Time, err error) {
	idPart, datePart, ok := strings.Cut(key, "-")
	if !ok {
		return 0, time.Time{}, errors.Errorf("malformed order key %q", key)
	}
	customerID, err = strconv.ParseUint(idPart, 10, 64)
	if err != nil || customerID == 0 {
		return 0, time.Time{}, errors.Errorf("malformed order key %q", key)
	}
	eventDate, err = time.Parse(orderKeyDate, datePart)
	if err != nil {
		return 0, time.Time{}, errors.Errorf("malformed order key %q", key)
	}
	return customerID, eventDate, nil
}
