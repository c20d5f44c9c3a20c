package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/repository"
)

// ItemInput carries the editable fields of an inventory item.
type ItemInput struct {
	Name         string `validate:"required,max=160"`
	InternalCode string `validate:"max=60"`
	Available    int64  `validate:"min=0"`
	UnitPrice    decimal.Decimal
}

// InventoryService administers the stock table. Every change of an
// available count is mirrored by a stock movement.
type InventoryService struct {
	repo     InventoryRepository
	now      func() time.Time
	validate *validator.Validate
}

func NewInventoryService(repo InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo, now: time.Now, validate: validator.New()}
}

func (s *InventoryService) check(in *ItemInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.InternalCode = strings.TrimSpace(in.InternalCode)
	if err := s.validate.Struct(in); err != nil {
		return fromValidator(err)
	}
	if in.UnitPrice.IsNegative() {
		return invalid("unit_price", "must not be negative")
	}
	return nil
}

func codePtr(code string) *string {
	if code == "" {
		return nil
	}
	return &code
}

// CreateItem adds an item and records its opening stock as an entrada.
func (s *InventoryService) CreateItem(ctx context.Context, in ItemInput) (model.InventoryItem, error) {
	if err := s.check(&in); err != nil {
		return model.InventoryItem{}, err
	}
	item := model.InventoryItem{
		Name:         in.Name,
		InternalCode: codePtr(in.InternalCode),
		Available:    in.Available,
		UnitPrice:    in.UnitPrice.Round(2),
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.CreateItem(ctx, &item); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrItemNameTaken
			}
			return err
		}
		if m, ok := model.MovementForDelta(item, item.Available); ok {
			m.CreatedAt = s.now().UTC()
			return tx.AddMovement(ctx, &m)
		}
		return nil
	})
	if err != nil {
		return model.InventoryItem{}, err
	}
	logger.Info("inventory item created", "item_id", item.ID, "name", item.Name, "available", item.Available)
	return item, nil
}

// UpdateItem overwrites an item's name, code, available count and price.
// A changed available count writes an entrada or saida movement for the
// difference.
func (s *InventoryService) UpdateItem(ctx context.Context, id uint64, in ItemInput) (model.InventoryItem, error) {
	if err := s.check(&in); err != nil {
		return model.InventoryItem{}, err
	}
	var updated model.InventoryItem
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.GetItem(ctx, id)
		if err != nil {
			return err
		}
		updated = current
		updated.Name = in.Name
		updated.InternalCode = codePtr(in.InternalCode)
		updated.Available = in.Available
		updated.UnitPrice = in.UnitPrice.Round(2)
		if err := tx.UpdateItem(ctx, updated); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrItemNameTaken
			}
			return err
		}
		if m, ok := model.MovementForDelta(updated, in.Available-current.Available); ok {
			m.CreatedAt = s.now().UTC()
			if err := tx.AddMovement(ctx, &m); err != nil {
				return err
			}
			logger.Info("stock adjusted", "item_id", id, "type", m.Type, "quantity", m.Quantity)
		}
		return nil
	})
	if err != nil {
		return model.InventoryItem{}, err
	}
	return updated, nil
}

func (s *InventoryService) ListItems(ctx context.Context) ([]model.InventoryItem, error) {
	return s.repo.ListItems(ctx)
}

func (s *InventoryService) GetItem(ctx context.Context, id uint64) (model.InventoryItem, error) {
	return s.repo.GetItem(ctx, id)
}

// ListMovements returns stock history newest first; itemID zero means all items.
func (s *InventoryService) ListMovements(ctx context.Context, itemID uint64) ([]model.StockMovement, error) {
	return s.repo.ListMovements(ctx, itemID)
}
