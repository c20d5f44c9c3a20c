package service

import (
	"context"

	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/queue"
	"github.com/iliyamo/party-rental/internal/repository"
)

// TxRunner runs fn in a single database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
}

type RentalRepository interface {
	TxRunner
	ListOpenLines(ctx context.Context) ([]model.ReservationLine, error)
	ListCustomerLines(ctx context.Context, customerID uint64) ([]model.ReservationLine, error)
}

type InventoryRepository interface {
	TxRunner
	ListItems(ctx context.Context) ([]model.InventoryItem, error)
	GetItem(ctx context.Context, id uint64) (model.InventoryItem, error)
	ListMovements(ctx context.Context, itemID uint64) ([]model.StockMovement, error)
}

type CustomerRepository interface {
	TxRunner
	ListCustomers(ctx context.Context, f repository.CustomerFilter) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id uint64) (model.Customer, error)
	CreateCustomer(ctx context.Context, c *model.Customer) error
	SetBlacklisted(ctx context.Context, id uint64, flag bool) error
	ListCustomerLines(ctx context.Context, customerID uint64) ([]model.ReservationLine, error)
}

type FinanceRepository interface {
	ListLedger(ctx context.Context) ([]model.LedgerEntry, error)
	AddLedgerEntry(ctx context.Context, e *model.LedgerEntry) error
}

// EventPublisher delivers rental events after a workflow commits.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}
