package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry types.
const (
	EntryRevenue = "Receita"
	EntryExpense = "Despesa"
)

// Ledger categories.
const (
	CategoryRental = "Aluguel"
	CategoryOther  = "Outros"
)

// LedgerEntry is one append-only row of `movimentacao_caixa`.
// CustomerName is filled by list queries through a join.
type LedgerEntry struct {
	ID            uint64          `json:"id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	CustomerID    *uint64         `json:"customer_id,omitempty"`
	CustomerName  *string         `json:"customer_name,omitempty"`
	ReservationID *uint64         `json:"reservation_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Finance summary periods.
const (
	PeriodDay   = "dia"
	PeriodMonth = "mes"
	PeriodAll   = "total"
)

// FinanceSummary aggregates the ledger over one period.
type FinanceSummary struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Entries []LedgerEntry   `json:"entries"`
}
