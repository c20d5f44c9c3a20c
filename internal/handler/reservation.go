package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/service"
)

// RentalHandler serves reservations, returns, orders and their documents.
type RentalHandler struct {
	Rentals   Rentals
	Customers Customers
	Documents Documents
}

func NewRentalHandler(r Rentals, c Customers, d Documents) *RentalHandler {
	return &RentalHandler{Rentals: r, Customers: c, Documents: d}
}

type reservationBody struct {
	CustomerID uint64 `json:"customer_id"`
	EventDate  string `json:"event_date"`
	ReturnDate string `json:"return_date"`
	Items      []struct {
		ItemID   uint64 `json:"item_id"`
		Quantity int64  `json:"quantity"`
	} `json:"items"`
	PaymentMethod string `json:"payment_method"`
}

// confirmBody gates the return endpoints: nothing changes without confirm=true.
type confirmBody struct {
	Confirm bool `json:"confirm"`
}

func confirmed(c echo.Context) bool {
	var body confirmBody
	return c.Bind(&body) == nil && body.Confirm
}

func confirmRequired(c echo.Context) error {
	return c.JSON(http.StatusPreconditionRequired, echo.Map{"error": `confirm the return with {"confirm": true}`})
}

// Reserve handles POST /v1/reservations.
func (h *RentalHandler) Reserve(c echo.Context) error {
	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	req := service.ReservationRequest{
		CustomerID:    body.CustomerID,
		PaymentMethod: strings.TrimSpace(body.PaymentMethod),
	}
	var err error
	if req.EventDate, err = model.ParseDate(body.EventDate); err != nil {
		return badRequest(c, "event_date must be YYYY-MM-DD")
	}
	if req.ReturnDate, err = model.ParseDate(body.ReturnDate); err != nil {
		return badRequest(c, "return_date must be YYYY-MM-DD")
	}
	for _, it := range body.Items {
		req.Items = append(req.Items, service.ReservationItem{ItemID: it.ItemID, Quantity: it.Quantity})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	res, err := h.Rentals.Reserve(ctx, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// ReturnLine handles POST /v1/reservations/:id/return.
func (h *RentalHandler) ReturnLine(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if !confirmed(c) {
		return confirmRequired(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	res, err := h.Rentals.ReturnLine(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Orders handles GET /v1/orders.
func (h *RentalHandler) Orders(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	orders, err := h.Rentals.OpenOrders(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Upcoming handles GET /v1/orders/upcoming?limit=.
func (h *RentalHandler) Upcoming(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest(c, "invalid limit")
		}
		limit = n
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	orders, err := h.Rentals.UpcomingReturns(ctx, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Order handles GET /v1/orders/:key.
func (h *RentalHandler) Order(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	o, err := h.Rentals.Order(ctx, c.Param("key"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// ReturnOrder handles POST /v1/orders/:key/return.
func (h *RentalHandler) ReturnOrder(c echo.Context) error {
	customerID, eventDate, err := model.ParseOrderKey(c.Param("key"))
	if err != nil {
		return badRequest(c, "invalid order key")
	}
	if !confirmed(c) {
		return confirmRequired(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	res, err := h.Rentals.ReturnOrder(ctx, customerID, eventDate)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Document handles GET /v1/orders/:key/documents/:kind and answers HTML.
func (h *RentalHandler) Document(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	o, err := h.Rentals.Order(ctx, c.Param("key"))
	if err != nil {
		return fail(c, err)
	}
	cust, err := h.Customers.Get(ctx, o.CustomerID)
	if err != nil {
		return fail(c, err)
	}
	page, err := h.Documents.Render(c.Param("kind"), o, cust)
	if err != nil {
		return fail(c, err)
	}
	return c.HTMLBlob(http.StatusOK, page)
}
