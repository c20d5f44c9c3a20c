package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/party-rental/internal/service"
)

type FinanceHandler struct {
	Finance Finance
}

func NewFinanceHandler(s Finance) *FinanceHandler { return &FinanceHandler{Finance: s} }

// Summary handles GET /v1/finance/summary?period=dia|mes|total.
func (h *FinanceHandler) Summary(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	sum, err := h.Finance.Summary(ctx, c.QueryParam("period"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *FinanceHandler) Entries(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	entries, err := h.Finance.ListEntries(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// AddExpense handles POST /v1/finance/expenses.
func (h *FinanceHandler) AddExpense(c echo.Context) error {
	var body struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	e, err := h.Finance.AddExpense(ctx, service.ExpenseInput{Description: body.Description, Amount: body.Amount})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}
