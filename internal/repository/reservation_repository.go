package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/party-rental/internal/model"
)

// ReservationRepo reads and writes reservation lines in `reservas`.
type ReservationRepo struct {
	db   *sql.DB
	lock string
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db, lock: lockRows} }

const lineColumns = `r.id, r.cliente_id, COALESCE(c.cliente, ''), r.item_id, r.item, r.quantidade,
       r.data_evento, r.data_devolucao, r.status, r.forma_pagamento, r.preco_unitario,
       r.valor_total, r.created_at, r.devolvido_em`

const lineFrom = ` FROM reservas r LEFT JOIN cadastro c ON c.id = r.cliente_id`

// plain columns for locking reads, which skip the join
const lineColumnsNoJoin = `r.id, r.cliente_id, '', r.item_id, r.item, r.quantidade,
       r.data_evento, r.data_devolucao, r.status, r.forma_pagamento, r.preco_unitario,
       r.valor_total, r.created_at, r.devolvido_em`

func scanLine(s rowScanner) (model.ReservationLine, error) {
	var (
		l        model.ReservationLine
		method   sql.NullString
		total    decimal.NullDecimal
		returned sql.NullTime
	)
	err := s.Scan(&l.ID, &l.CustomerID, &l.CustomerName, &l.ItemID, &l.ItemName, &l.Quantity,
		&l.EventDate, &l.ReturnDate, &l.Status, &method, &l.UnitPrice,
		&total, &l.CreatedAt, &returned)
	if err != nil {
		return l, err
	}
	l.PaymentMethod = stringPtr(method)
	if total.Valid {
		t := total.Decimal
		l.Total = &t
	}
	if returned.Valid {
		t := returned.Time
		l.ReturnedAt = &t
	}
	return l, nil
}

func collectLines(rows *sql.Rows) ([]model.ReservationLine, error) {
	defer rows.Close()
	out := []model.ReservationLine{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateTx inserts one reservation line and fills its ID.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, l *model.ReservationLine) error {
	const q = `INSERT INTO reservas (cliente_id, item_id, item, quantidade, data_evento, data_devolucao,
	                                 status, forma_pagamento, preco_unitario, valor_total, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var total decimal.NullDecimal
	if l.Total != nil {
		total = decimal.NewNullDecimal(*l.Total)
	}
	res, err := tx.ExecContext(ctx, q, l.CustomerID, l.ItemID, l.ItemName, l.Quantity,
		model.DateOnly(l.EventDate), model.DateOnly(l.ReturnDate),
		l.Status, nullString(l.PaymentMethod), l.UnitPrice, total, l.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "reservation: insert line")
	}
	l.ID, err = insertedID(res)
	return err
}

// GetByID loads one line with its customer name.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.ReservationLine, error) {
	l, err := scanLine(r.db.QueryRowContext(ctx, `SELECT `+lineColumns+lineFrom+` WHERE r.id = ?`, id))
	return l, notFound(err)
}

// GetForUpdateTx loads and locks one line.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.ReservationLine, error) {
	l, err := scanLine(tx.QueryRowContext(ctx, `SELECT `+lineColumnsNoJoin+` FROM reservas r WHERE r.id = ?`+r.lock, id))
	return l, notFound(err)
}

// ListOpenByCustomerTx loads and locks every open line of a customer.
func (r *ReservationRepo) ListOpenByCustomerTx(ctx context.Context, tx *sql.Tx, customerID uint64) ([]model.ReservationLine, error) {
	q := `SELECT ` + lineColumnsNoJoin + ` FROM reservas r
	      WHERE r.cliente_id = ? AND r.status <> ?
	      ORDER BY r.data_devolucao, r.id` + r.lock
	rows, err := tx.QueryContext(ctx, q, customerID, model.StatusFinalized)
	if err != nil {
		return nil, errors.Wrap(err, "reservation: list open by customer")
	}
	return collectLines(rows)
}

// CountOpenByCustomerTx counts the open lines of a customer.
func (r *ReservationRepo) CountOpenByCustomerTx(ctx context.Context, tx *sql.Tx, customerID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservas WHERE cliente_id = ? AND status <> ?`,
		customerID, model.StatusFinalized).Scan(&n)
	return n, errors.Wrap(err, "reservation: count open")
}

// FinalizeTx marks a line as returned. The status guard makes a second
// call fail with ErrLineFinalized instead of repeating side effects.
func (r *ReservationRepo) FinalizeTx(ctx context.Context, tx *sql.Tx, id uint64, at time.Time) error {
	const q = `UPDATE reservas SET status = ?, devolvido_em = ? WHERE id = ? AND status <> ?`
	res, err := tx.ExecContext(ctx, q, model.StatusFinalized, at, id, model.StatusFinalized)
	if err != nil {
		return errors.Wrap(err, "reservation: finalize")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLineFinalized
	}
	return nil
}

// ListOpen returns every open line ordered by return date, then event date.
func (r *ReservationRepo) ListOpen(ctx context.Context) ([]model.ReservationLine, error) {
	q := `SELECT ` + lineColumns + lineFrom + `
	      WHERE r.status <> ?
	      ORDER BY r.data_devolucao, r.data_evento, r.id`
	rows, err := r.db.QueryContext(ctx, q, model.StatusFinalized)
	if err != nil {
		return nil, errors.Wrap(err, "reservation: list open")
	}
	return collectLines(rows)
}

// ListByCustomer returns the full rental history of a customer, newest event first.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.ReservationLine, error) {
	q := `SELECT ` + lineColumns + lineFrom + `
	      WHERE r.cliente_id = ?
	      ORDER BY r.data_evento DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "reservation: list by customer")
	}
	return collectLines(rows)
}
