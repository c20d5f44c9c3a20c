package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/utils"
)

// OperatorRepo manages console accounts in `operadores`.
type OperatorRepo struct{ DB *sql.DB }

func NewOperatorRepo(db *sql.DB) *OperatorRepo { return &OperatorRepo{DB: db} }

const operatorColumns = `id, email, nome, password_hash, role, is_active, created_at`

func scanOperator(s rowScanner) (model.Operator, error) {
	var o model.Operator
	err := s.Scan(&o.ID, &o.Email, &o.Name, &o.PasswordHash, &o.Role, &o.IsActive, &o.CreatedAt)
	return o, notFound(err)
}

// Create hashes the password and inserts the operator, returning its ID.
func (r *OperatorRepo) Create(ctx context.Context, email, name, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO operadores (email, nome, password_hash, role, is_active, created_at) VALUES (?,?,?,?,?,?)",
		email, strings.TrimSpace(name), hash, role, true, time.Now().UTC())
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, errors.Wrap(err, "operator: insert")
	}
	return insertedID(res)
}

// GetByEmail fetches an operator by normalized email.
func (r *OperatorRepo) GetByEmail(ctx context.Context, email string) (model.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanOperator(r.DB.QueryRowContext(ctx,
		"SELECT "+operatorColumns+" FROM operadores WHERE email=? LIMIT 1", email))
}

// GetByID fetches an operator by id.
func (r *OperatorRepo) GetByID(ctx context.Context, id uint64) (model.Operator, error) {
	return scanOperator(r.DB.QueryRowContext(ctx,
		"SELECT "+operatorColumns+" FROM operadores WHERE id=? LIMIT 1", id))
}

// SetActive enables or disables an account.
func (r *OperatorRepo) SetActive(ctx context.Context, email string, active bool) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx, "UPDATE operadores SET is_active=? WHERE email=?", active, email)
	if err != nil {
		return errors.Wrap(err, "operator: set active")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByEmail(ctx, email); err != nil {
			return err
		}
	}
	return nil
}
