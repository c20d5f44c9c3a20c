// Package service holds the rental business rules: the reservation and
// return workflows, order grouping, inventory administration, the cash
// ledger and the customer registry.
package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/party-rental/internal/config"
	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/metrics"
	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/queue"
	"github.com/iliyamo/party-rental/internal/repository"
)

const defaultUpcomingLimit = 6

// RentalOptions tunes the rental workflows.
type RentalOptions struct {
	// PricePolicy is config.PriceCurrent or config.PriceSnapshot.
	PricePolicy   string
	Location      *time.Location
	UpcomingLimit int
}

type RentalService struct {
	repo     RentalRepository
	events   EventPublisher
	metrics  *metrics.Metrics
	opts     RentalOptions
	now      func() time.Time
	validate *validator.Validate
}

func NewRentalService(repo RentalRepository, events EventPublisher, m *metrics.Metrics, opts RentalOptions) *RentalService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = defaultUpcomingLimit
	}
	if opts.PricePolicy == "" {
		opts.PricePolicy = config.PriceCurrent
	}
	return &RentalService{
		repo:     repo,
		events:   events,
		metrics:  m,
		opts:     opts,
		now:      time.Now,
		validate: validator.New(),
	}
}

// WithClock replaces the time source.
func (s *RentalService) WithClock(now func() time.Time) *RentalService {
	s.now = now
	return s
}

// Today is the current instant in the business time zone.
func (s *RentalService) Today() time.Time { return s.now().In(s.opts.Location) }

type ReservationItem struct {
	ItemID   uint64 `validate:"required"`
	Quantity int64  `validate:"min=1"`
}

// ReservationRequest is one submission of the reservation form. A non-empty
// PaymentMethod books the revenue immediately and marks the lines paid.
type ReservationRequest struct {
	CustomerID    uint64 `validate:"required"`
	EventDate     time.Time
	ReturnDate    time.Time
	Items         []ReservationItem `validate:"required,min=1,dive"`
	PaymentMethod string
}

// ReservationResult describes what one submission wrote.
type ReservationResult struct {
	OrderKey string                  `json:"order_key"`
	Customer model.Customer          `json:"customer"`
	Lines    []model.ReservationLine `json:"lines"`
	Revenue  decimal.Decimal         `json:"revenue"`
}

func (s *RentalService) checkRequest(req ReservationRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fromValidator(err)
	}
	if req.EventDate.IsZero() {
		return invalid("event_date", "is required")
	}
	if req.ReturnDate.IsZero() {
		return invalid("return_date", "is required")
	}
	if model.DateOnly(req.ReturnDate).Before(model.DateOnly(req.EventDate)) {
		return invalid("return_date", "must not be before the event date")
	}
	if req.PaymentMethod != "" && !slices.Contains(model.PaymentMethods, req.PaymentMethod) {
		return invalid("payment_method", "must be one of Dinheiro, Débito, Crédito, PIX")
	}
	seen := make(map[uint64]bool, len(req.Items))
	for _, it := range req.Items {
		if seen[it.ItemID] {
			return ErrDuplicateItem
		}
		seen[it.ItemID] = true
	}
	return nil
}

// Reserve validates the whole submission against current stock and then,
// in one transaction, writes a line per item, moves the quantities from
// available to reserved and books revenue for paid submissions. Any
// failure leaves no trace.
func (s *RentalService) Reserve(ctx context.Context, req ReservationRequest) (ReservationResult, error) {
	if err := s.checkRequest(req); err != nil {
		return ReservationResult{}, err
	}
	now := s.now().UTC()
	paid := req.PaymentMethod != ""
	res := ReservationResult{Revenue: decimal.Zero}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		customer, err := tx.GetCustomer(ctx, req.CustomerID)
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("customer_id", "customer not found")
		}
		if err != nil {
			return err
		}
		if customer.Blacklisted {
			return ErrCustomerBlacklisted
		}
		res.Customer = customer

		items := make([]model.InventoryItem, len(req.Items))
		for i, want := range req.Items {
			item, err := tx.GetItem(ctx, want.ItemID)
			if errors.Is(err, repository.ErrNotFound) {
				return invalid(fmt.Sprintf("items[%d].item_id", i), "item not found")
			}
			if err != nil {
				return err
			}
			if want.Quantity > item.Available {
				return &StockError{ItemID: item.ID, ItemName: item.Name, Requested: want.Quantity, Available: item.Available}
			}
			items[i] = item
		}

		for i, want := range req.Items {
			item := items[i]
			line := model.ReservationLine{
				CustomerID:   customer.ID,
				CustomerName: customer.Name,
				ItemID:       item.ID,
				ItemName:     item.Name,
				Quantity:     want.Quantity,
				EventDate:    model.DateOnly(req.EventDate),
				ReturnDate:   model.DateOnly(req.ReturnDate),
				Status:       model.StatusPending,
				UnitPrice:    item.UnitPrice,
				CreatedAt:    now,
			}
			amount := item.UnitPrice.Mul(decimal.NewFromInt(want.Quantity))
			if paid {
				method := req.PaymentMethod
				line.Status = model.StatusPaid
				line.PaymentMethod = &method
				line.Total = &amount
			}
			if err := tx.CreateLine(ctx, &line); err != nil {
				return err
			}
			if err := tx.ReserveStock(ctx, item.ID, want.Quantity); err != nil {
				if errors.Is(err, repository.ErrStockUnavailable) {
					return &StockError{ItemID: item.ID, ItemName: item.Name, Requested: want.Quantity, Available: item.Available}
				}
				return err
			}
			if paid {
				entry := model.LedgerEntry{
					Description:   fmt.Sprintf("Venda Direta (%s): %s", req.PaymentMethod, item.Name),
					Amount:        amount,
					Type:          model.EntryRevenue,
					Category:      model.CategoryRental,
					CustomerID:    &line.CustomerID,
					ReservationID: &line.ID,
					CreatedAt:     now,
				}
				if err := tx.AddLedgerEntry(ctx, &entry); err != nil {
					return err
				}
				res.Revenue = res.Revenue.Add(amount)
			}
			res.Lines = append(res.Lines, line)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.metrics.StockRejected()
		}
		return ReservationResult{}, err
	}

	res.OrderKey = model.OrderKey(res.Customer.ID, req.EventDate)
	s.metrics.LinesReserved(len(res.Lines))
	if paid {
		s.metrics.LedgerEntry(model.EntryRevenue, res.Revenue)
	}
	logger.Info("reservation created", "customer_id", res.Customer.ID, "lines", len(res.Lines),
		"event_date", req.EventDate.Format(model.DateLayout), "paid", paid)

	s.publish(ctx, queue.TypeReservationCreated, res.Customer, res.Lines, res.Revenue, req.PaymentMethod, false)
	return res, nil
}

// ReturnResult describes the lines closed by one return operation.
type ReturnResult struct {
	OrderKey string                  `json:"order_key"`
	Lines    []model.ReservationLine `json:"lines"`
	Revenue  decimal.Decimal         `json:"revenue"`
	Overdue  bool                    `json:"overdue"`
}

// ReturnLine closes one reservation line. Returning a line twice fails
// with ErrAlreadyReturned and changes nothing.
func (s *RentalService) ReturnLine(ctx context.Context, lineID uint64) (ReturnResult, error) {
	return s.returnLines(ctx, func(ctx context.Context, tx repository.Tx) ([]model.ReservationLine, error) {
		line, err := tx.GetLine(ctx, lineID)
		if err != nil {
			return nil, err
		}
		if !line.Open() {
			return nil, ErrAlreadyReturned
		}
		return []model.ReservationLine{line}, nil
	})
}

// ReturnOrder closes every open line of the customer's order for eventDate.
func (s *RentalService) ReturnOrder(ctx context.Context, customerID uint64, eventDate time.Time) (ReturnResult, error) {
	return s.returnLines(ctx, func(ctx context.Context, tx repository.Tx) ([]model.ReservationLine, error) {
		open, err := tx.ListOpenLines(ctx, customerID)
		if err != nil {
			return nil, err
		}
		var lines []model.ReservationLine
		for _, l := range open {
			if model.SameDay(l.EventDate, eventDate) {
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			return nil, ErrNoOpenLines
		}
		return lines, nil
	})
}

func (s *RentalService) returnLines(ctx context.Context, pick func(context.Context, repository.Tx) ([]model.ReservationLine, error)) (ReturnResult, error) {
	now := s.now().UTC()
	today := s.Today()
	res := ReturnResult{Revenue: decimal.Zero}
	var customer model.Customer

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		lines, err := pick(ctx, tx)
		if err != nil {
			return err
		}
		for _, line := range lines {
			amount, err := s.finalize(ctx, tx, line, now)
			if err != nil {
				return err
			}
			res.Revenue = res.Revenue.Add(amount)
			if model.IsOverdue(today, line.ReturnDate) {
				res.Overdue = true
			}
			line.Status = model.StatusFinalized
			line.ReturnedAt = &now
			res.Lines = append(res.Lines, line)
		}
		customer, err = tx.GetCustomer(ctx, lines[0].CustomerID)
		if errors.Is(err, repository.ErrNotFound) {
			customer = model.Customer{ID: lines[0].CustomerID}
			return nil
		}
		return err
	})
	if err != nil {
		return ReturnResult{}, err
	}

	res.OrderKey = model.OrderKey(customer.ID, res.Lines[0].EventDate)
	for range res.Lines {
		s.metrics.LineReturned(res.Overdue)
	}
	if res.Revenue.IsPositive() {
		s.metrics.LedgerEntry(model.EntryRevenue, res.Revenue)
	}
	logger.Info("reservation returned", "customer_id", customer.ID, "lines", len(res.Lines),
		"revenue", res.Revenue.StringFixed(2), "overdue", res.Overdue)

	s.publish(ctx, queue.TypeReservationReturned, customer, res.Lines, res.Revenue, "", res.Overdue)
	return res, nil
}

// finalize closes one line inside tx and returns the revenue it booked.
// Lines paid up front were credited at reservation time and book nothing.
func (s *RentalService) finalize(ctx context.Context, tx repository.Tx, line model.ReservationLine, now time.Time) (decimal.Decimal, error) {
	price := line.UnitPrice
	if s.opts.PricePolicy == config.PriceCurrent {
		item, err := tx.GetItem(ctx, line.ItemID)
		switch {
		case err == nil:
			price = item.UnitPrice
		case errors.Is(err, repository.ErrNotFound):
			logger.Warn("returned item no longer in inventory, using reservation price", "item_id", line.ItemID)
		default:
			return decimal.Zero, err
		}
	}

	if err := tx.FinalizeLine(ctx, line.ID, now); err != nil {
		if errors.Is(err, repository.ErrLineFinalized) {
			return decimal.Zero, ErrAlreadyReturned
		}
		return decimal.Zero, err
	}
	if err := tx.ReleaseStock(ctx, line.ItemID, line.Quantity); err != nil {
		return decimal.Zero, err
	}
	if line.PaidUpFront() {
		return decimal.Zero, nil
	}

	amount := price.Mul(decimal.NewFromInt(line.Quantity))
	entry := model.LedgerEntry{
		Description:   "Aluguel Finalizado: " + line.ItemName,
		Amount:        amount,
		Type:          model.EntryRevenue,
		Category:      model.CategoryRental,
		CustomerID:    &line.CustomerID,
		ReservationID: &line.ID,
		CreatedAt:     now,
	}
	if err := tx.AddLedgerEntry(ctx, &entry); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// OpenOrders groups every open line into orders, soonest return first.
func (s *RentalService) OpenOrders(ctx context.Context) ([]model.Order, error) {
	lines, err := s.repo.ListOpenLines(ctx)
	if err != nil {
		return nil, err
	}
	return GroupOrders(lines, s.Today()), nil
}

// UpcomingReturns is OpenOrders capped at limit, or the configured
// default when limit is not positive.
func (s *RentalService) UpcomingReturns(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = s.opts.UpcomingLimit
	}
	orders, err := s.OpenOrders(ctx)
	if err != nil {
		return nil, err
	}
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// Order loads every line, open or returned, of the order identified by key.
func (s *RentalService) Order(ctx context.Context, key string) (model.Order, error) {
	customerID, eventDate, err := model.ParseOrderKey(key)
	if err != nil {
		return model.Order{}, invalid("key", err.Error())
	}
	lines, err := s.repo.ListCustomerLines(ctx, customerID)
	if err != nil {
		return model.Order{}, err
	}
	var picked []model.ReservationLine
	for _, l := range lines {
		if model.SameDay(l.EventDate, eventDate) {
			picked = append(picked, l)
		}
	}
	orders := GroupOrders(picked, s.Today())
	if len(orders) == 0 {
		return model.Order{}, ErrNotFound
	}
	return orders[0], nil
}

func (s *RentalService) publish(ctx context.Context, typ string, c model.Customer, lines []model.ReservationLine,
	amount decimal.Decimal, method string, overdue bool) {
	if s.events == nil || len(lines) == 0 {
		return
	}
	ev := queue.ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		CustomerID:    c.ID,
		CustomerName:  c.Name,
		EventDate:     lines[0].EventDate.Format(model.DateLayout),
		ReturnDate:    lines[0].ReturnDate.Format(model.DateLayout),
		PaymentMethod: method,
		Overdue:       overdue,
		Amount:        amount,
		OccurredAt:    s.now().UTC().Format(time.RFC3339),
	}
	for _, l := range lines {
		ev.Lines = append(ev.Lines, queue.EventLine{LineID: l.ID, ItemID: l.ItemID, ItemName: l.ItemName, Quantity: l.Quantity})
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		logger.Warn("publish rental event failed", "type", typ, "error", err)
	}
}
