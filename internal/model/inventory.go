package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem mirrors a row of the `estoque` table. Available plus
// Reserved is the total stock the company owns of the item.
type InventoryItem struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	InternalCode *string         `json:"internal_code,omitempty"`
	Available    int64           `json:"available"`
	Reserved     int64           `json:"reserved"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// Total is the owned quantity regardless of where the units are.
func (i InventoryItem) Total() int64 { return i.Available + i.Reserved }

// Stock movement types recorded in `movimentacoes`.
const (
	MovementIn  = "entrada"
	MovementOut = "saida"
)

// StockMovement is one append-only audit row of a manual stock change.
// Quantity is always positive; Type carries the direction.
type StockMovement struct {
	ID        uint64    `json:"id"`
	ItemID    uint64    `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int64     `json:"quantity"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementForDelta converts a signed change of the available count into a
// movement. ok is false when delta is zero.
func MovementForDelta(item InventoryItem, delta int64) (m StockMovement, ok bool) {
	switch {
	case delta > 0:
		return StockMovement{ItemID: item.ID, ItemName: item.Name, Quantity: delta, Type: MovementIn}, true
	case delta < 0:
		return StockMovement{ItemID: item.ID, ItemName: item.Name, Quantity: -delta, Type: MovementOut}, true
	}
	return StockMovement{}, false
}
