package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/metrics"
	"github.com/iliyamo/party-rental/internal/model"
)

// FinanceService reads and extends the cash ledger.
type FinanceService struct {
	repo    FinanceRepository
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

func NewFinanceService(repo FinanceRepository, m *metrics.Metrics, loc *time.Location) *FinanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &FinanceService{repo: repo, metrics: m, loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (s *FinanceService) WithClock(now func() time.Time) *FinanceService {
	s.now = now
	return s
}

// ListEntries returns the whole ledger, newest first.
func (s *FinanceService) ListEntries(ctx context.Context) ([]model.LedgerEntry, error) {
	return s.repo.ListLedger(ctx)
}

// Summary totals revenue and expense for the current day, the current
// month or all time, in the business time zone.
func (s *FinanceService) Summary(ctx context.Context, period string) (model.FinanceSummary, error) {
	if period == "" {
		period = model.PeriodMonth
	}
	if period != model.PeriodDay && period != model.PeriodMonth && period != model.PeriodAll {
		return model.FinanceSummary{}, invalid("period", "must be dia, mes or total")
	}
	entries, err := s.repo.ListLedger(ctx)
	if err != nil {
		return model.FinanceSummary{}, err
	}

	now := s.now().In(s.loc)
	sum := model.FinanceSummary{
		Period:  period,
		Revenue: decimal.Zero,
		Expense: decimal.Zero,
		Entries: []model.LedgerEntry{},
	}
	for _, e := range entries {
		if !inPeriod(e.CreatedAt.In(s.loc), now, period) {
			continue
		}
		switch e.Type {
		case model.EntryRevenue:
			sum.Revenue = sum.Revenue.Add(e.Amount)
		case model.EntryExpense:
			sum.Expense = sum.Expense.Add(e.Amount)
		}
		sum.Entries = append(sum.Entries, e)
	}
	sum.Balance = sum.Revenue.Sub(sum.Expense)
	return sum, nil
}

func inPeriod(t, now time.Time, period string) bool {
	switch period {
	case model.PeriodDay:
		return model.SameDay(t, now)
	case model.PeriodMonth:
		return t.Year() == now.Year() && t.Month() == now.Month()
	}
	return true
}

// ExpenseInput is a manual cash outflow.
type ExpenseInput struct {
	Description string
	Amount      decimal.Decimal
}

// AddExpense appends a Despesa entry in the Outros category.
func (s *FinanceService) AddExpense(ctx context.Context, in ExpenseInput) (model.LedgerEntry, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return model.LedgerEntry{}, invalid("description", "is required")
	}
	if !in.Amount.IsPositive() {
		return model.LedgerEntry{}, invalid("amount", "must be greater than zero")
	}
	e := model.LedgerEntry{
		Description: desc,
		Amount:      in.Amount.Round(2),
		Type:        model.EntryExpense,
		Category:    model.CategoryOther,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.AddLedgerEntry(ctx, &e); err != nil {
		return model.LedgerEntry{}, err
	}
	s.metrics.LedgerEntry(model.EntryExpense, e.Amount)
	logger.Info("expense recorded", "entry_id", e.ID, "amount", e.Amount.StringFixed(2))
	return e, nil
}
