package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/model"
)

// MovementRepo appends to and reads the `movimentacoes` stock history.
type MovementRepo struct{ db *sql.DB }

func NewMovementRepo(db *sql.DB) *MovementRepo { return &MovementRepo{db: db} }

func (r *MovementRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.StockMovement) error {
	const q = `INSERT INTO movimentacoes (item_id, nome, quantidade, tipo, data) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, m.ItemID, m.ItemName, m.Quantity, m.Type, m.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "movement: insert")
	}
	m.ID, err = insertedID(res)
	return err
}

// List returns the history newest first. itemID zero lists every item.
func (r *MovementRepo) List(ctx context.Context, itemID uint64) ([]model.StockMovement, error) {
	q := `SELECT id, item_id, nome, quantidade, tipo, data FROM movimentacoes`
	var args []any
	if itemID != 0 {
		q += ` WHERE item_id = ?`
		args = append(args, itemID)
	}
	q += ` ORDER BY data DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "movement: list")
	}
	defer rows.Close()

	out := []model.StockMovement{}
	for rows.Next() {
		var m model.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.Quantity, &m.Type, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
