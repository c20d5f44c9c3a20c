package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/repository"
)

// ErrNotFound is the repository sentinel re-exported for callers of the services.
var ErrNotFound = repository.ErrNotFound

var (
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrDuplicateItem        = errors.New("item repeated in one reservation")
	ErrCustomerBlacklisted  = errors.New("customer is blacklisted")
	ErrAlreadyReturned      = errors.New("reservation line already returned")
	ErrNoOpenLines          = errors.New("order has no open reservation lines")
	ErrCustomerHasOpenLines = errors.New("customer has open reservations")
	ErrItemNameTaken        = errors.New("an item with this name already exists")
)

// ValidationError reports a rejected input field. Nothing was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// StockError names the line that failed the availability check.
type StockError struct {
	ItemID    uint64
	ItemName  string
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ItemName, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// fromValidator converts the first go-playground validation failure.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := "failed " + fe.Tag()
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			msg = "must be at least " + fe.Param()
		case "max":
			msg = "must be at most " + fe.Param()
		}
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return invalid(field, msg)
	}
	return err
}
