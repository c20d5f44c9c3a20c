package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/party-rental/internal/model"
)

func TestLedgerRepo_ListWithCustomer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	maria := seedCustomer(t, s, "Maria")

	revenue := model.LedgerEntry{
		Description: "Venda Direta (PIX): Cadeira",
		Amount:      decimal.RequireFromString("25.00"),
		Type:        model.EntryRevenue,
		Category:    model.CategoryRental,
		CustomerID:  &maria.ID,
		CreatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.AddLedgerEntry(ctx, &revenue)
	}))
	expense := model.LedgerEntry{
		Description: "Gasolina",
		Amount:      decimal.RequireFromString("80.35"),
		Type:        model.EntryExpense,
		Category:    model.CategoryOther,
		CreatedAt:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.AddLedgerEntry(ctx, &expense))

	entries, err := s.ListLedger(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, expense.ID, entries[0].ID)
	assert.Nil(t, entries[0].CustomerID)
	assert.Nil(t, entries[0].CustomerName)
	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("80.35")))

	require.NotNil(t, entries[1].CustomerName)
	assert.Equal(t, "Maria", *entries[1].CustomerName)
	assert.Equal(t, model.EntryRevenue, entries[1].Type)
}
