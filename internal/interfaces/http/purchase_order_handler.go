package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/purchasing"
)

// PurchaseOrderHandler ciclo de vida de órdenes de compra, recepción y saldos pendientes.
type PurchaseOrderHandler struct {
	orders      *purchasing.OrderUseCase
	receiving   *purchasing.ReceivingUseCase
	outstanding *purchasing.OutstandingUseCase
}

func NewPurchaseOrderHandler(
	orders *purchasing.OrderUseCase,
	receiving *purchasing.ReceivingUseCase,
	outstanding *purchasing.OutstandingUseCase,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders, receiving: receiving, outstanding: outstanding}
}

// Create godoc
// @Summary      Crear orden de compra
// @Description  Sin ítems la orden nace en draft; con ítems, en pending.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Proveedor e ítems opcionales"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.CreateOrder(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener orden de compra con ítems
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.orders.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "draft|pending|confirmed|partial_received|received|cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AwaitingReceipt godoc
// @Summary      Ítems con saldo por recibir
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PurchaseOrderItemResponse
// @Router       /api/purchase-orders/awaiting-receipt [get]
func (h *PurchaseOrderHandler) AwaitingReceipt(c *fiber.Ctx) error {
	out, err := h.orders.ListAwaitingReceipt(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar ítem a una orden en draft o pending
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la orden"
// @Param        body  body  dto.AddItemRequest  true  "Producto, cantidad y costo unitario"
// @Success      201   {object}  dto.PurchaseOrderItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/items [post]
func (h *PurchaseOrderHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.AddItem(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar ítem de una orden en draft o pending
// @Tags         purchase-orders
// @Security     Bearer
// @Param        id      path  string  true  "ID de la orden"
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/items/{itemId} [delete]
func (h *PurchaseOrderHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.orders.RemoveItem(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("itemId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve godoc
// @Summary      Aprobar orden (pending -> confirmed)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	out, err := h.orders.Approve(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden sin recepciones
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la orden"
// @Param        body  body  dto.CancelPurchaseOrderRequest  true  "Motivo"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelPurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.Cancel(c.UserContext(), GetUserID(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir cantidad de un ítem
// @Description  Registra la entrada al ledger, recalcula el HPP y asienta el gasto de compra en una sola transacción.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string                  true  "ID del ítem"
// @Param        body    body  dto.ReceiveItemRequest  true  "Cantidad recibida"
// @Success      200     {object}  dto.ReceiptResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/items/{itemId}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.receiving.Receive(c.UserContext(), GetUserID(c), c.Params("itemId"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetOutstanding godoc
// @Summary      Clasificar el saldo pendiente de un ítem
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string                           true  "ID del ítem"
// @Param        body    body  dto.SetOutstandingStatusRequest  true  "pending|backordered|cancelled|refunded y motivo"
// @Success      200     {object}  dto.PurchaseOrderItemResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/items/{itemId}/outstanding [put]
func (h *PurchaseOrderHandler) SetOutstanding(c *fiber.Ctx) error {
	var in dto.SetOutstandingStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.outstanding.SetOutstandingStatus(c.UserContext(), GetUserID(c), c.Params("itemId"), in.Status, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProcessRefund godoc
// @Summary      Procesar reembolso como recepción
// @Description  Para un ítem refunded: recibe el saldo en stock y asienta el gasto como Refund Retained.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      200     {object}  dto.ReceiptResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/items/{itemId}/refund [post]
func (h *PurchaseOrderHandler) ProcessRefund(c *fiber.Ctx) error {
	out, err := h.outstanding.ProcessRefundAsReceived(c.UserContext(), GetUserID(c), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
