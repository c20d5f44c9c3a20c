package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/model"
)

// LedgerRepo appends to and reads the `movimentacao_caixa` cash ledger.
// Entries are never updated or deleted.
type LedgerRepo struct{ db *sql.DB }

func NewLedgerRepo(db *sql.DB) *LedgerRepo { return &LedgerRepo{db: db} }

const insertEntry = `INSERT INTO movimentacao_caixa (descricao, valor, tipo, categoria, cliente_id, reserva_id, data)
                     VALUES (?, ?, ?, ?, ?, ?, ?)`

func entryArgs(e *model.LedgerEntry) []any {
	return []any{e.Description, e.Amount, e.Type, e.Category, nullUint(e.CustomerID), nullUint(e.ReservationID), e.CreatedAt}
}

func (r *LedgerRepo) Create(ctx context.Context, e *model.LedgerEntry) error {
	res, err := r.db.ExecContext(ctx, insertEntry, entryArgs(e)...)
	if err != nil {
		return errors.Wrap(err, "ledger: insert")
	}
	e.ID, err = insertedID(res)
	return err
}

func (r *LedgerRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.LedgerEntry) error {
	res, err := tx.ExecContext(ctx, insertEntry, entryArgs(e)...)
	if err != nil {
		return errors.Wrap(err, "ledger: insert")
	}
	e.ID, err = insertedID(res)
	return err
}

// List returns all entries newest first with the customer name joined in.
func (r *LedgerRepo) List(ctx context.Context) ([]model.LedgerEntry, error) {
	const q = `SELECT m.id, m.descricao, m.valor, m.tipo, m.categoria, m.cliente_id, c.cliente, m.reserva_id, m.data
	           FROM movimentacao_caixa m
	           LEFT JOIN cadastro c ON c.id = m.cliente_id
	           ORDER BY m.data DESC, m.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "ledger: list")
	}
	defer rows.Close()

	out := []model.LedgerEntry{}
	for rows.Next() {
		var (
			e            model.LedgerEntry
			customerID   sql.NullInt64
			customerName sql.NullString
			reservation  sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Type, &e.Category,
			&customerID, &customerName, &reservation, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.CustomerID = uintPtr(customerID)
		e.CustomerName = stringPtr(customerName)
		e.ReservationID = uintPtr(reservation)
		out = append(out, e)
	}
	return out, rows.Err()
}
