package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/model"
)

// InventoryRepo reads and writes the `estoque` table. Counter changes go
// through conditional updates so available never drops below zero.
type InventoryRepo struct {
	db   *sql.DB
	lock string
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db, lock: lockRows} }

const itemColumns = `id, item, codigo_interno, disponivel, reservado, preco`

func scanItem(s rowScanner) (model.InventoryItem, error) {
	var (
		it   model.InventoryItem
		code sql.NullString
	)
	err := s.Scan(&it.ID, &it.Name, &code, &it.Available, &it.Reserved, &it.UnitPrice)
	it.InternalCode = stringPtr(code)
	return it, err
}

// List returns every item ordered by name.
func (r *InventoryRepo) List(ctx context.Context) ([]model.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM estoque ORDER BY item, id`)
	if err != nil {
		return nil, errors.Wrap(err, "inventory: list")
	}
	defer rows.Close()

	out := []model.InventoryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) GetByID(ctx context.Context, id uint64) (model.InventoryItem, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM estoque WHERE id = ?`, id))
	return it, notFound(err)
}

// GetForUpdateTx loads and locks one item row.
func (r *InventoryRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.InventoryItem, error) {
	it, err := scanItem(tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM estoque WHERE id = ?`+r.lock, id))
	return it, notFound(err)
}

// CreateTx inserts an item and fills its ID. A duplicate name yields ErrConflict.
func (r *InventoryRepo) CreateTx(ctx context.Context, tx *sql.Tx, it *model.InventoryItem) error {
	const q = `INSERT INTO estoque (item, codigo_interno, disponivel, reservado, preco) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, it.Name, nullString(it.InternalCode), it.Available, it.Reserved, it.UnitPrice)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return errors.Wrap(err, "inventory: insert")
	}
	it.ID, err = insertedID(res)
	return err
}

// UpdateTx overwrites name, code, available count and price. The reserved
// counter is owned by the rental workflows and is left alone.
func (r *InventoryRepo) UpdateTx(ctx context.Context, tx *sql.Tx, it model.InventoryItem) error {
	const q = `UPDATE estoque SET item = ?, codigo_interno = ?, disponivel = ?, preco = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, it.Name, nullString(it.InternalCode), it.Available, it.UnitPrice, it.ID); err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return errors.Wrap(err, "inventory: update")
	}
	return nil
}

// ReserveTx moves qty units from available to reserved. It fails with
// ErrStockUnavailable, touching nothing, when fewer than qty are available.
func (r *InventoryRepo) ReserveTx(ctx context.Context, tx *sql.Tx, id uint64, qty int64) error {
	const q = `UPDATE estoque SET disponivel = disponivel - ?, reservado = reservado + ?
	           WHERE id = ? AND disponivel >= ?`
	res, err := tx.ExecContext(ctx, q, qty, qty, id, qty)
	if err != nil {
		return errors.Wrap(err, "inventory: reserve")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStockUnavailable
	}
	return nil
}

// ReleaseTx moves qty units back to available. Reserved is floored at
// zero to absorb earlier drift between the counters.
func (r *InventoryRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, id uint64, qty int64) error {
	const q = `UPDATE estoque SET disponivel = disponivel + ?,
	                  reservado = CASE WHEN reservado > ? THEN reservado - ? ELSE 0 END
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, qty, qty, qty, id)
	if err != nil {
		return errors.Wrap(err, "inventory: release")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
