package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/model"
)

// Tx is the set of writes the rental workflows perform inside a single
// database transaction. Reads through Tx lock the rows they return.
type Tx interface {
	GetCustomer(ctx context.Context, id uint64) (model.Customer, error)
	DeleteCustomer(ctx context.Context, id uint64) error
	CountOpenLines(ctx context.Context, customerID uint64) (int, error)

	GetItem(ctx context.Context, id uint64) (model.InventoryItem, error)
	CreateItem(ctx context.Context, item *model.InventoryItem) error
	UpdateItem(ctx context.Context, item model.InventoryItem) error
	ReserveStock(ctx context.Context, itemID uint64, qty int64) error
	ReleaseStock(ctx context.Context, itemID uint64, qty int64) error
	AddMovement(ctx context.Context, m *model.StockMovement) error

	CreateLine(ctx context.Context, line *model.ReservationLine) error
	GetLine(ctx context.Context, id uint64) (model.ReservationLine, error)
	ListOpenLines(ctx context.Context, customerID uint64) ([]model.ReservationLine, error)
	FinalizeLine(ctx context.Context, id uint64, at time.Time) error

	AddLedgerEntry(ctx context.Context, e *model.LedgerEntry) error
}

// Store bundles the repositories behind one *sql.DB and runs transactions
// over them.
type Store struct {
	db           *sql.DB
	Customers    *CustomerRepo
	Inventory    *InventoryRepo
	Reservations *ReservationRepo
	Ledger       *LedgerRepo
	Movements    *MovementRepo
	Operators    *OperatorRepo
	Tokens       *TokenRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Customers:    NewCustomerRepo(db),
		Inventory:    NewInventoryRepo(db),
		Reservations: NewReservationRepo(db),
		Ledger:       NewLedgerRepo(db),
		Movements:    NewMovementRepo(db),
		Operators:    NewOperatorRepo(db),
		Tokens:       NewTokenRepo(db),
	}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()

	if err := fn(ctx, &storeTx{s: s, tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	committed = true
	return nil
}

// Read-side methods used by the services outside of transactions.

func (s *Store) ListCustomers(ctx context.Context, f CustomerFilter) ([]model.Customer, error) {
	return s.Customers.List(ctx, f)
}

func (s *Store) GetCustomer(ctx context.Context, id uint64) (model.Customer, error) {
	return s.Customers.GetByID(ctx, id)
}

func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	return s.Customers.Create(ctx, c)
}

func (s *Store) SetBlacklisted(ctx context.Context, id uint64, flag bool) error {
	return s.Customers.SetBlacklisted(ctx, id, flag)
}

func (s *Store) ListItems(ctx context.Context) ([]model.InventoryItem, error) {
	return s.Inventory.List(ctx)
}

func (s *Store) GetItem(ctx context.Context, id uint64) (model.InventoryItem, error) {
	return s.Inventory.GetByID(ctx, id)
}

func (s *Store) ListMovements(ctx context.Context, itemID uint64) ([]model.StockMovement, error) {
	return s.Movements.List(ctx, itemID)
}

func (s *Store) ListOpenLines(ctx context.Context) ([]model.ReservationLine, error) {
	return s.Reservations.ListOpen(ctx)
}

func (s *Store) ListCustomerLines(ctx context.Context, customerID uint64) ([]model.ReservationLine, error) {
	return s.Reservations.ListByCustomer(ctx, customerID)
}

func (s *Store) ListLedger(ctx context.Context) ([]model.LedgerEntry, error) {
	return s.Ledger.List(ctx)
}

func (s *Store) AddLedgerEntry(ctx context.Context, e *model.LedgerEntry) error {
	return s.Ledger.Create(ctx, e)
}

// storeTx adapts the repositories' ...Tx methods to the Tx interface.
type storeTx struct {
	s  *Store
	tx *sql.Tx
}

func (t *storeTx) GetCustomer(ctx context.Context, id uint64) (model.Customer, error) {
	return t.s.Customers.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) DeleteCustomer(ctx context.Context, id uint64) error {
	return t.s.Customers.DeleteTx(ctx, t.tx, id)
}

func (t *storeTx) CountOpenLines(ctx context.Context, customerID uint64) (int, error) {
	return t.s.Reservations.CountOpenByCustomerTx(ctx, t.tx, customerID)
}

func (t *storeTx) GetItem(ctx context.Context, id uint64) (model.InventoryItem, error) {
	return t.s.Inventory.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	return t.s.Inventory.CreateTx(ctx, t.tx, item)
}

func (t *storeTx) UpdateItem(ctx context.Context, item model.InventoryItem) error {
	return t.s.Inventory.UpdateTx(ctx, t.tx, item)
}

func (t *storeTx) ReserveStock(ctx context.Context, itemID uint64, qty int64) error {
	return t.s.Inventory.ReserveTx(ctx, t.tx, itemID, qty)
}

func (t *storeTx) ReleaseStock(ctx context.Context, itemID uint64, qty int64) error {
	return t.s.Inventory.ReleaseTx(ctx, t.tx, itemID, qty)
}

func (t *storeTx) AddMovement(ctx context.Context, m *model.StockMovement) error {
	return t.s.Movements.CreateTx(ctx, t.tx, m)
}

func (t *storeTx) CreateLine(ctx context.Context, line *model.ReservationLine) error {
	return t.s.Reservations.CreateTx(ctx, t.tx, line)
}

func (t *storeTx) GetLine(ctx context.Context, id uint64) (model.ReservationLine, error) {
	return t.s.Reservations.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) ListOpenLines(ctx context.Context, customerID uint64) ([]model.ReservationLine, error) {
	return t.s.Reservations.ListOpenByCustomerTx(ctx, t.tx, customerID)
}

func (t *storeTx) FinalizeLine(ctx context.Context, id uint64, at time.Time) error {
	return t.s.Reservations.FinalizeTx(ctx, t.tx, id, at)
}

func (t *storeTx) AddLedgerEntry(ctx context.Context, e *model.LedgerEntry) error {
	return t.s.Ledger.CreateTx(ctx, t.tx, e)
}
