package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddItemRequest body para POST /api/purchase-orders/:id/items.
type AddItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Notes     string          `json:"notes"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID           string           `json:"supplier_id" validate:"required"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date,omitempty"`
	Notes                string           `json:"notes"`
	Items                []AddItemRequest `json:"items" validate:"omitempty,dive"`
}

// ReceiveItemRequest body para POST /api/purchase-orders/items/:itemId/receive.
type ReceiveItemRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

// CancelPurchaseOrderRequest body para POST /api/purchase-orders/:id/cancel.
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// SetOutstandingStatusRequest body para PUT /api/purchase-orders/items/:itemId/outstanding.
type SetOutstandingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending backordered cancelled refunded"`
	Reason string `json:"reason" validate:"max=500"`
}

// PurchaseOrderItemResponse línea de orden con su saldo pendiente.
type PurchaseOrderItemResponse struct {
	ID                  string          `json:"id"`
	PurchaseOrderID     string          `json:"purchase_order_id"`
	ProductID           string          `json:"product_id"`
	OrderedQuantity     int             `json:"ordered_quantity"`
	ReceivedQuantity    int             `json:"received_quantity"`
	OutstandingQuantity int             `json:"outstanding_quantity"`
	OutstandingStatus   string          `json:"outstanding_status"`
	OutstandingReason   string          `json:"outstanding_reason,omitempty"`
	RefundProcessedAt   *time.Time      `json:"refund_processed_at,omitempty"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	Notes               string          `json:"notes,omitempty"`
}

// PurchaseOrderResponse orden de compra con sus ítems.
type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	PONumber             string                      `json:"po_number"`
	SupplierID           string                      `json:"supplier_id"`
	Status               string                      `json:"status"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	OrderDate            time.Time                   `json:"order_date"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	Notes                string                      `json:"notes,omitempty"`
	ApprovedBy           string                      `json:"approved_by,omitempty"`
	ApprovedDate         *time.Time                  `json:"approved_date,omitempty"`
	CancelledBy          string                      `json:"cancelled_by,omitempty"`
	CancelledDate        *time.Time                  `json:"cancelled_date,omitempty"`
	CancelReason         string                      `json:"cancel_reason,omitempty"`
	Items                []PurchaseOrderItemResponse `json:"items"`
}

// PurchaseOrderListResponse lista paginada de órdenes (sin ítems).
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ReceiptResponse resultado de una recepción.
type ReceiptResponse struct {
	Item        PurchaseOrderItemResponse `json:"item"`
	OrderStatus string                    `json:"order_status"`
	MovementID  string                    `json:"movement_id"`
	AverageCost decimal.Decimal           `json:"average_cost"`
	ExpenseID   string                    `json:"expense_id,omitempty"`
	Source      string                    `json:"source"`
}
