package model

import "time"

// Operator roles. ADMIN may edit inventory counts and prices.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Operator is a console account stored in `operadores`.
type Operator struct {
	ID           uint64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

// RefreshToken models a row of `refresh_tokens`. Only the SHA-256 hash of
// the raw token is stored.
type RefreshToken struct {
	ID         uint64
	OperatorID uint64
	TokenHash  string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time
}
