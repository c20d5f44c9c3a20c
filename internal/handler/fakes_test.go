package handler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/repository"
	"github.com/iliyamo/party-rental/internal/service"
)

type fakeRentals struct {
	reserved   []service.ReservationRequest
	returned   []uint64
	reserveErr error
	returnErr  error
	orders     []model.Order
	lastLimit  int
}

func (f *fakeRentals) Reserve(ctx context.Context, req service.ReservationRequest) (service.ReservationResult, error) {
	if f.reserveErr != nil {
		return service.ReservationResult{}, f.reserveErr
	}
	f.reserved = append(f.reserved, req)
	return service.ReservationResult{
		OrderKey: model.OrderKey(req.CustomerID, req.EventDate),
		Customer: model.Customer{ID: req.CustomerID, Name: "Maria"},
		Revenue:  decimal.Zero,
	}, nil
}

func (f *fakeRentals) ReturnLine(ctx context.Context, lineID uint64) (service.ReturnResult, error) {
	if f.returnErr != nil {
		return service.ReturnResult{}, f.returnErr
	}
	f.returned = append(f.returned, lineID)
	return service.ReturnResult{Revenue: decimal.RequireFromString("250")}, nil
}

func (f *fakeRentals) ReturnOrder(ctx context.Context, customerID uint64, eventDate time.Time) (service.ReturnResult, error) {
	if f.returnErr != nil {
		return service.ReturnResult{}, f.returnErr
	}
	return service.ReturnResult{OrderKey: model.OrderKey(customerID, eventDate), Overdue: true}, nil
}

func (f *fakeRentals) OpenOrders(ctx context.Context) ([]model.Order, error) { return f.orders, nil }

func (f *fakeRentals) UpcomingReturns(ctx context.Context, limit int) ([]model.Order, error) {
	f.lastLimit = limit
	return f.orders, nil
}

func (f *fakeRentals) Order(ctx context.Context, key string) (model.Order, error) {
	for _, o := range f.orders {
		if o.Key == key {
			return o, nil
		}
	}
	return model.Order{}, service.ErrNotFound
}

func (f *fakeRentals) Today() time.Time { return time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC) }

type fakeCustomers struct {
	byID      map[uint64]model.Customer
	deleteErr error
}

func (f *fakeCustomers) Register(ctx context.Context, in service.CustomerInput) (model.Customer, error) {
	if in.Name == "" {
		return model.Customer{}, &service.ValidationError{Field: "Name", Message: "is required"}
	}
	c := model.Customer{ID: uint64(len(f.byID) + 1), Name: in.Name, Phone: in.Phone}
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeCustomers) List(ctx context.Context, tab, search string) ([]model.Customer, error) {
	out := []model.Customer{}
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomers) Get(ctx context.Context, id uint64) (model.Customer, error) {
	c, ok := f.byID[id]
	if !ok {
		return c, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomers) SetBlacklisted(ctx context.Context, id uint64, flag bool) (model.Customer, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return c, err
	}
	c.Blacklisted = flag
	f.byID[id] = c
	return c, nil
}

func (f *fakeCustomers) ToggleBlacklist(ctx context.Context, id uint64) (model.Customer, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return c, err
	}
	return f.SetBlacklisted(ctx, id, !c.Blacklisted)
}

func (f *fakeCustomers) Delete(ctx context.Context, id uint64) error { return f.deleteErr }

func (f *fakeCustomers) History(ctx context.Context, id uint64) ([]model.ReservationLine, error) {
	return []model.ReservationLine{}, nil
}

type fakeOperators struct{ ops []model.Operator }

func (f *fakeOperators) GetByEmail(ctx context.Context, email string) (model.Operator, error) {
	for _, o := range f.ops {
		if o.Email == email {
			return o, nil
		}
	}
	return model.Operator{}, repository.ErrNotFound
}

func (f *fakeOperators) GetByID(ctx context.Context, id uint64) (model.Operator, error) {
	for _, o := range f.ops {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Operator{}, repository.ErrNotFound
}

type fakeTokens struct {
	live map[string]uint64
}

func (f *fakeTokens) StoreRefresh(ctx context.Context, operatorID uint64, hash string, exp time.Time) error {
	f.live[hash] = operatorID
	return nil
}

func (f *fakeTokens) ValidateRefresh(ctx context.Context, hash string) (uint64, error) {
	id, ok := f.live[hash]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (f *fakeTokens) RevokeByHash(ctx context.Context, hash string) error {
	delete(f.live, hash)
	return nil
}

func (f *fakeTokens) RevokeAllForOperator(ctx context.Context, operatorID uint64) error {
	for h, id := range f.live {
		if id == operatorID {
			delete(f.live, h)
		}
	}
	return nil
}
