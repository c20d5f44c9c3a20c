package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/queue"
	"github.com/iliyamo/party-rental/internal/repository"
)

// memoryRepo is an in-memory stand-in for repository.Store. WithTx works
// on a copy of the state and keeps it only when fn succeeds.
type memoryRepo struct {
	customers map[uint64]model.Customer
	items     map[uint64]model.InventoryItem
	lines     map[uint64]model.ReservationLine
	ledger    []model.LedgerEntry
	movements []model.StockMovement
	nextID    uint64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		customers: make(map[uint64]model.Customer),
		items:     make(map[uint64]model.InventoryItem),
		lines:     make(map[uint64]model.ReservationLine),
	}
}

func (r *memoryRepo) clone() *memoryRepo {
	c := newMemoryRepo()
	for k, v := range r.customers {
		c.customers[k] = v
	}
	for k, v := range r.items {
		c.items[k] = v
	}
	for k, v := range r.lines {
		c.lines[k] = v
	}
	c.ledger = append([]model.LedgerEntry(nil), r.ledger...)
	c.movements = append([]model.StockMovement(nil), r.movements...)
	c.nextID = r.nextID
	return c
}

func (r *memoryRepo) id() uint64 {
	r.nextID++
	return r.nextID
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, repository.Tx) error) error {
	work := r.clone()
	if err := fn(ctx, &memoryTx{repo: work}); err != nil {
		return err
	}
	*r = *work
	return nil
}

func (r *memoryRepo) addCustomer(name string, blacklisted bool) model.Customer {
	c := model.Customer{ID: r.id(), Name: name, Phone: "0", Blacklisted: blacklisted}
	r.customers[c.ID] = c
	return c
}

func (r *memoryRepo) addItem(name string, available int64, price string) model.InventoryItem {
	it := model.InventoryItem{ID: r.id(), Name: name, Available: available, UnitPrice: dec(price)}
	r.items[it.ID] = it
	return it
}

func (r *memoryRepo) sortedLines(keep func(model.ReservationLine) bool) []model.ReservationLine {
	out := []model.ReservationLine{}
	for _, l := range r.lines {
		if keep(l) {
			l.CustomerName = r.customers[l.CustomerID].Name
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryRepo) ListOpenLines(ctx context.Context) ([]model.ReservationLine, error) {
	return r.sortedLines(model.ReservationLine.Open), nil
}

func (r *memoryRepo) ListCustomerLines(ctx context.Context, customerID uint64) ([]model.ReservationLine, error) {
	return r.sortedLines(func(l model.ReservationLine) bool { return l.CustomerID == customerID }), nil
}

func (r *memoryRepo) ListItems(ctx context.Context) ([]model.InventoryItem, error) {
	out := []model.InventoryItem{}
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) GetItem(ctx context.Context, id uint64) (model.InventoryItem, error) {
	it, ok := r.items[id]
	if !ok {
		return it, repository.ErrNotFound
	}
	return it, nil
}

func (r *memoryRepo) ListMovements(ctx context.Context, itemID uint64) ([]model.StockMovement, error) {
	out := []model.StockMovement{}
	for i := len(r.movements) - 1; i >= 0; i-- {
		if itemID == 0 || r.movements[i].ItemID == itemID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memoryRepo) ListCustomers(ctx context.Context, f repository.CustomerFilter) ([]model.Customer, error) {
	out := []model.Customer{}
	for _, c := range r.customers {
		if f.Blacklisted != nil && c.Blacklisted != *f.Blacklisted {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) GetCustomer(ctx context.Context, id uint64) (model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return c, repository.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) CreateCustomer(ctx context.Context, c *model.Customer) error {
	c.ID = r.id()
	r.customers[c.ID] = *c
	return nil
}

func (r *memoryRepo) SetBlacklisted(ctx context.Context, id uint64, flag bool) error {
	c, ok := r.customers[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Blacklisted = flag
	r.customers[id] = c
	return nil
}

func (r *memoryRepo) ListLedger(ctx context.Context) ([]model.LedgerEntry, error) {
	out := make([]model.LedgerEntry, 0, len(r.ledger))
	for i := len(r.ledger) - 1; i >= 0; i-- {
		out = append(out, r.ledger[i])
	}
	return out, nil
}

func (r *memoryRepo) AddLedgerEntry(ctx context.Context, e *model.LedgerEntry) error {
	e.ID = r.id()
	r.ledger = append(r.ledger, *e)
	return nil
}

func (tx *memoryTx) GetCustomer(ctx context.Context, id uint64) (model.Customer, error) {
	return tx.repo.GetCustomer(ctx, id)
}

func (tx *memoryTx) DeleteCustomer(ctx context.Context, id uint64) error {
	if _, ok := tx.repo.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(tx.repo.customers, id)
	for lid, l := range tx.repo.lines {
		if l.CustomerID == id {
			delete(tx.repo.lines, lid)
		}
	}
	return nil
}

func (tx *memoryTx) CountOpenLines(ctx context.Context, customerID uint64) (int, error) {
	n := 0
	for _, l := range tx.repo.lines {
		if l.CustomerID == customerID && l.Open() {
			n++
		}
	}
	return n, nil
}

func (tx *memoryTx) GetItem(ctx context.Context, id uint64) (model.InventoryItem, error) {
	return tx.repo.GetItem(ctx, id)
}

func (tx *memoryTx) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	for _, it := range tx.repo.items {
		if it.Name == item.Name {
			return repository.ErrConflict
		}
	}
	item.ID = tx.repo.id()
	tx.repo.items[item.ID] = *item
	return nil
}

func (tx *memoryTx) UpdateItem(ctx context.Context, item model.InventoryItem) error {
	cur, ok := tx.repo.items[item.ID]
	if !ok {
		return repository.ErrNotFound
	}
	item.Reserved = cur.Reserved
	tx.repo.items[item.ID] = item
	return nil
}

func (tx *memoryTx) ReserveStock(ctx context.Context, itemID uint64, qty int64) error {
	it, ok := tx.repo.items[itemID]
	if !ok || it.Available < qty {
		return repository.ErrStockUnavailable
	}
	it.Available -= qty
	it.Reserved += qty
	tx.repo.items[itemID] = it
	return nil
}

func (tx *memoryTx) ReleaseStock(ctx context.Context, itemID uint64, qty int64) error {
	it, ok := tx.repo.items[itemID]
	if !ok {
		return repository.ErrNotFound
	}
	it.Available += qty
	it.Reserved -= qty
	if it.Reserved < 0 {
		it.Reserved = 0
	}
	tx.repo.items[itemID] = it
	return nil
}

func (tx *memoryTx) AddMovement(ctx context.Context, m *model.StockMovement) error {
	m.ID = tx.repo.id()
	tx.repo.movements = append(tx.repo.movements, *m)
	return nil
}

func (tx *memoryTx) CreateLine(ctx context.Context, line *model.ReservationLine) error {
	line.ID = tx.repo.id()
	tx.repo.lines[line.ID] = *line
	return nil
}

func (tx *memoryTx) GetLine(ctx context.Context, id uint64) (model.ReservationLine, error) {
	l, ok := tx.repo.lines[id]
	if !ok {
		return l, repository.ErrNotFound
	}
	return l, nil
}

func (tx *memoryTx) ListOpenLines(ctx context.Context, customerID uint64) ([]model.ReservationLine, error) {
	return tx.repo.sortedLines(func(l model.ReservationLine) bool { return l.CustomerID == customerID && l.Open() }), nil
}

func (tx *memoryTx) FinalizeLine(ctx context.Context, id uint64, at time.Time) error {
	l, ok := tx.repo.lines[id]
	if !ok || !l.Open() {
		return repository.ErrLineFinalized
	}
	l.Status = model.StatusFinalized
	l.ReturnedAt = &at
	tx.repo.lines[id] = l
	return nil
}

func (tx *memoryTx) AddLedgerEntry(ctx context.Context, e *model.LedgerEntry) error {
	return tx.repo.AddLedgerEntry(ctx, e)
}

// memoryPublisher records published events.
type memoryPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
	fail   bool
}

func (p *memoryPublisher) Publish(ctx context.Context, ev queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, ev)
	return nil
}
