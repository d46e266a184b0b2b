package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/sales"
)

// SalesHandler ventas de mostrador y cierre de tickets de servicio.
type SalesHandler struct {
	checkout *sales.CheckoutUseCase
	service  *sales.ServiceUseCase
}

func NewSalesHandler(checkout *sales.CheckoutUseCase, service *sales.ServiceUseCase) *SalesHandler {
	return &SalesHandler{checkout: checkout, service: service}
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Valida todas las líneas; si alguna no tiene stock la venta completa se rechaza sin dejar rastro.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas y medio de pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.checkout.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSale godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.checkout.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CompleteServiceTicket godoc
// @Summary      Completar ticket de servicio
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del ticket"
// @Param        body  body  dto.CompleteServiceRequest  true  "Tarifa y repuestos"
// @Success      201   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/service-tickets/{id}/complete [post]
func (h *SalesHandler) CompleteServiceTicket(c *fiber.Ctx) error {
	var in dto.CompleteServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.service.CompleteServiceTicket(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
