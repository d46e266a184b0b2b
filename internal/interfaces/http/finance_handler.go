package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/finance"
	"github.com/jhoicas/ledger-api/internal/domain"
)

// FinanceHandler asientos manuales y reportes financieros.
type FinanceHandler struct {
	uc *finance.UseCase
}

func NewFinanceHandler(uc *finance.UseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc}
}

// rangeQuery lee start y end obligatorios. El rango es [start, end).
func rangeQuery(c *fiber.Ctx) (time.Time, time.Time, error) {
	rawStart, rawEnd := c.Query("start"), c.Query("end")
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, domain.NewValidation("start,end", "ambos son obligatorios")
	}
	start, err := parseTime("start", rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseTime("end", rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// CreateTransaction godoc
// @Summary      Registrar transacción manual (categoría Other)
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "income|expense|transfer"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/transactions [post]
func (h *FinanceHandler) CreateTransaction(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateTransaction(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransactions godoc
// @Summary      Listar transacciones del rango
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true   "Inicio (inclusive)"
// @Param        end    query  string  true   "Fin (exclusivo)"
// @Param        type   query  string  false  "income|expense|transfer"
// @Success      200    {array}   dto.TransactionResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/finance/transactions [get]
func (h *FinanceHandler) ListTransactions(c *fiber.Ctx) error {
	start, end, err := rangeQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListTransactions(c.UserContext(), start, end, c.Query("type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen financiero del rango
// @Description  Totales por tipo, desglose por categoría, subcategoría y origen, y valor de inventario actual.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Inicio (inclusive)"
// @Param        end    query  string  true  "Fin (exclusivo)"
// @Success      200    {object}  dto.FinancialSummaryResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/finance/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	start, end, err := rangeQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetFinancialSummary(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProfitAndLoss godoc
// @Summary      Estado de resultados del rango
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Inicio (inclusive)"
// @Param        end    query  string  true  "Fin (exclusivo)"
// @Success      200    {object}  dto.ProfitAndLossResponse
// @Router       /api/finance/profit-loss [get]
func (h *FinanceHandler) ProfitAndLoss(c *fiber.Ctx) error {
	start, end, err := rangeQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetProfitAndLoss(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconciliation godoc
// @Summary      Conciliación de inventario: log financiero vs proyección de productos
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryReconciliationResponse
// @Router       /api/finance/reconciliation [get]
func (h *FinanceHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.uc.GetInventoryReconciliation(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
