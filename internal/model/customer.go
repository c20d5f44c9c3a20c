package model

import "time"

// Customer mirrors a row of the `cadastro` table. Blacklisted customers
// stay in the registry but cannot place new reservations.
type Customer struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Document     *string   `json:"document,omitempty"`
	Address      string    `json:"address"`
	Neighborhood string    `json:"neighborhood"`
	Blacklisted  bool      `json:"blacklisted"`
	CreatedAt    time.Time `json:"created_at"`
}
