package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/model"
)

// CustomerRepo reads and writes the `cadastro` table.
type CustomerRepo struct {
	db   *sql.DB
	lock string
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db, lock: lockRows} }

// CustomerFilter narrows List. A nil Blacklisted returns both tabs; Search
// matches the name case-insensitively.
type CustomerFilter struct {
	Blacklisted *bool
	Search      string
}

const customerColumns = `id, cliente, telefone, documento, endereco, bairro, lista_negra, created_at`

func scanCustomer(s rowScanner) (model.Customer, error) {
	var (
		c   model.Customer
		doc sql.NullString
	)
	err := s.Scan(&c.ID, &c.Name, &c.Phone, &doc, &c.Address, &c.Neighborhood, &c.Blacklisted, &c.CreatedAt)
	c.Document = stringPtr(doc)
	return c, err
}

// Create inserts a customer and fills its generated ID.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	const q = `INSERT INTO cadastro (cliente, telefone, documento, endereco, bairro, lista_negra, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, nullString(c.Document), c.Address, c.Neighborhood, c.Blacklisted, c.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "customer: insert")
	}
	c.ID, err = insertedID(res)
	return err
}

// GetByID loads one customer or returns ErrNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM cadastro WHERE id = ?`, id))
	return c, notFound(err)
}

// GetForUpdateTx loads and locks a customer row.
func (r *CustomerRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Customer, error) {
	c, err := scanCustomer(tx.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM cadastro WHERE id = ?`+r.lock, id))
	return c, notFound(err)
}

// List returns customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context, f CustomerFilter) ([]model.Customer, error) {
	var (
		where []string
		args  []any
	)
	if f.Blacklisted != nil {
		where = append(where, "lista_negra = ?")
		args = append(args, *f.Blacklisted)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "LOWER(cliente) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	q := `SELECT ` + customerColumns + ` FROM cadastro`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY cliente, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "customer: list")
	}
	defer rows.Close()

	out := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetBlacklisted sets the blacklist flag of a customer.
func (r *CustomerRepo) SetBlacklisted(ctx context.Context, id uint64, flag bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cadastro SET lista_negra = ? WHERE id = ?`, flag, id)
	if err != nil {
		return errors.Wrap(err, "customer: set blacklist")
	}
	// MySQL reports zero affected rows when the value is unchanged
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTx removes a customer row inside tx.
func (r *CustomerRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM cadastro WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "customer: delete")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
