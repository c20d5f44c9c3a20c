package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/party-rental/internal/service"
)

type InventoryHandler struct {
	Inventory Inventory
}

func NewInventoryHandler(s Inventory) *InventoryHandler { return &InventoryHandler{Inventory: s} }

type itemBody struct {
	Name         string          `json:"name"`
	InternalCode string          `json:"internal_code"`
	Available    int64           `json:"available"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

func (b itemBody) input() service.ItemInput {
	return service.ItemInput{Name: b.Name, InternalCode: b.InternalCode, Available: b.Available, UnitPrice: b.UnitPrice}
}

func (h *InventoryHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Inventory.ListItems(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	item, err := h.Inventory.GetItem(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /v1/inventory.
func (h *InventoryHandler) Create(c echo.Context) error {
	var body itemBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	item, err := h.Inventory.CreateItem(ctx, body.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /v1/inventory/:id (ADMIN only).
func (h *InventoryHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body itemBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	item, err := h.Inventory.UpdateItem(ctx, id, body.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Movements handles GET /v1/inventory/movements?item_id=.
func (h *InventoryHandler) Movements(c echo.Context) error {
	var itemID uint64
	if raw := c.QueryParam("item_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(c, "invalid item_id")
		}
		itemID = v
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	moves, err := h.Inventory.ListMovements(ctx, itemID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, moves)
}
