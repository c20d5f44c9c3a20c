package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/party-rental/internal/model"
)

func newLine(c model.Customer, it model.InventoryItem, qty int64, event, ret string) model.ReservationLine {
	return model.ReservationLine{
		CustomerID: c.ID,
		ItemID:     it.ID,
		ItemName:   it.Name,
		Quantity:   qty,
		EventDate:  date(event),
		ReturnDate: date(ret),
		Status:     model.StatusPending,
		UnitPrice:  it.UnitPrice,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestReservationRepo_LinesLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	maria := seedCustomer(t, s, "Maria")
	joao := seedCustomer(t, s, "João")
	chair := seedItem(t, s, "Cadeira", 100, "2.50")

	first := newLine(maria, chair, 10, "2025-06-01", "2025-06-02")
	pix := model.PaymentPIX
	total := decimal.RequireFromString("25")
	second := newLine(joao, chair, 4, "2025-05-20", "2025-05-21")
	second.Status = model.StatusPaid
	second.PaymentMethod = &pix
	second.Total = &total

	err := s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.CreateLine(ctx, &first); err != nil {
			return err
		}
		return tx.CreateLine(ctx, &second)
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	t.Run("open lines ordered by return date", func(t *testing.T) {
		open, err := s.ListOpenLines(ctx)
		require.NoError(t, err)
		require.Len(t, open, 2)
		assert.Equal(t, second.ID, open[0].ID)
		assert.Equal(t, "João", open[0].CustomerName)
		require.NotNil(t, open[0].PaymentMethod)
		assert.Equal(t, model.PaymentPIX, *open[0].PaymentMethod)
		require.NotNil(t, open[0].Total)
		assert.True(t, open[0].Total.Equal(total))
		assert.True(t, model.SameDay(open[1].EventDate, date("2025-06-01")))
		assert.Nil(t, open[1].Total)
	})

	t.Run("finalize is guarded", func(t *testing.T) {
		err := s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
			return tx.FinalizeLine(ctx, first.ID, time.Now().UTC())
		})
		require.NoError(t, err)

		err = s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
			return tx.FinalizeLine(ctx, first.ID, time.Now().UTC())
		})
		assert.ErrorIs(t, err, ErrLineFinalized)

		open, err := s.ListOpenLines(ctx)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, second.ID, open[0].ID)
	})

	t.Run("history keeps finalized lines", func(t *testing.T) {
		history, err := s.ListCustomerLines(ctx, maria.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, model.StatusFinalized, history[0].Status)
		assert.NotNil(t, history[0].ReturnedAt)
	})

	t.Run("open lines of customer inside tx", func(t *testing.T) {
		err := s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
			lines, err := tx.ListOpenLines(ctx, joao.ID)
			if err != nil {
				return err
			}
			assert.Len(t, lines, 1)
			n, err := tx.CountOpenLines(ctx, maria.ID)
			assert.Equal(t, 0, n)
			return err
		})
		require.NoError(t, err)
	})

	t.Run("missing line", func(t *testing.T) {
		err := s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
			_, err := tx.GetLine(ctx, 12345)
			return err
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_WithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	maria := seedCustomer(t, s, "Maria")
	chair := seedItem(t, s, "Cadeira", 5, "2.50")
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		line := newLine(maria, chair, 2, "2025-06-01", "2025-06-02")
		if err := tx.CreateLine(ctx, &line); err != nil {
			return err
		}
		if err := tx.ReserveStock(ctx, chair.ID, 2); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	open, err := s.ListOpenLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	got, err := s.GetItem(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Available)
	assert.Equal(t, int64(0), got.Reserved)
}
