package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/service"
)

type CustomerHandler struct {
	Customers Customers
}

func NewCustomerHandler(s Customers) *CustomerHandler { return &CustomerHandler{Customers: s} }

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var body struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Document     string `json:"document"`
		Address      string `json:"address"`
		Neighborhood string `json:"neighborhood"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	cust, err := h.Customers.Register(ctx, service.CustomerInput{
		Name:         body.Name,
		Phone:        body.Phone,
		Document:     body.Document,
		Address:      body.Address,
		Neighborhood: body.Neighborhood,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, cust)
}

// List handles GET /v1/customers?tab=ativos|lista_negra&q=name.
func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Customers.List(ctx, c.QueryParam("tab"), c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	cust, err := h.Customers.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

// Blacklist handles PATCH /v1/customers/:id/blacklist. A body of
// {"blacklisted": bool} sets the flag; an empty body toggles it.
func (h *CustomerHandler) Blacklist(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body struct {
		Blacklisted *bool `json:"blacklisted"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	var (
		cust model.Customer
		err  error
	)
	if body.Blacklisted == nil {
		cust, err = h.Customers.ToggleBlacklist(ctx, id)
	} else {
		cust, err = h.Customers.SetBlacklisted(ctx, id, *body.Blacklisted)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Customers.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// History handles GET /v1/customers/:id/reservations.
func (h *CustomerHandler) History(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	lines, err := h.Customers.History(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, lines)
}
