// Package repository implements persistence for the rental console on top
// of database/sql. The sentinel errors below let the service and handler
// layers tell storage outcomes apart with errors.Is.
package repository

import "github.com/pkg/errors"

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with existing state, such
// as a duplicate item name or deleting a customer with open rentals.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when an operator email is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrStockUnavailable is returned by a reserve update that would take the
// available count below zero. No row is modified.
var ErrStockUnavailable = errors.New("insufficient available stock")

// ErrLineFinalized is returned when finalizing a reservation line that was
// already returned. No row is modified.
var ErrLineFinalized = errors.New("reservation line already finalized")
