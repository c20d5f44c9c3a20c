package handler

import (
	"context"
	"time"

	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/service"
)

// Rentals is the reservation, return and order side of the API.
type Rentals interface {
	Reserve(ctx context.Context, req service.ReservationRequest) (service.ReservationResult, error)
	ReturnLine(ctx context.Context, lineID uint64) (service.ReturnResult, error)
	ReturnOrder(ctx context.Context, customerID uint64, eventDate time.Time) (service.ReturnResult, error)
	OpenOrders(ctx context.Context) ([]model.Order, error)
	UpcomingReturns(ctx context.Context, limit int) ([]model.Order, error)
	Order(ctx context.Context, key string) (model.Order, error)
	Today() time.Time
}

type Inventory interface {
	CreateItem(ctx context.Context, in service.ItemInput) (model.InventoryItem, error)
	UpdateItem(ctx context.Context, id uint64, in service.ItemInput) (model.InventoryItem, error)
	ListItems(ctx context.Context) ([]model.InventoryItem, error)
	GetItem(ctx context.Context, id uint64) (model.InventoryItem, error)
	ListMovements(ctx context.Context, itemID uint64) ([]model.StockMovement, error)
}

type Customers interface {
	Register(ctx context.Context, in service.CustomerInput) (model.Customer, error)
	List(ctx context.Context, tab, search string) ([]model.Customer, error)
	Get(ctx context.Context, id uint64) (model.Customer, error)
	SetBlacklisted(ctx context.Context, id uint64, flag bool) (model.Customer, error)
	ToggleBlacklist(ctx context.Context, id uint64) (model.Customer, error)
	Delete(ctx context.Context, id uint64) error
	History(ctx context.Context, id uint64) ([]model.ReservationLine, error)
}

type Finance interface {
	ListEntries(ctx context.Context) ([]model.LedgerEntry, error)
	Summary(ctx context.Context, period string) (model.FinanceSummary, error)
	AddExpense(ctx context.Context, in service.ExpenseInput) (model.LedgerEntry, error)
}

// Documents renders the printable pages of an order.
type Documents interface {
	Render(kind string, o model.Order, c model.Customer) ([]byte, error)
}

// Operators and Tokens back the operator session endpoints.
type Operators interface {
	GetByEmail(ctx context.Context, email string) (model.Operator, error)
	GetByID(ctx context.Context, id uint64) (model.Operator, error)
}

type Tokens interface {
	StoreRefresh(ctx context.Context, operatorID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForOperator(ctx context.Context, operatorID uint64) error
}
