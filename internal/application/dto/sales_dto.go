package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. SellingPrice vacío usa el precio del producto.
type SaleLineRequest struct {
	ProductID    string           `json:"product_id" validate:"required"`
	Quantity     int              `json:"quantity" validate:"gt=0"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Items         []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method"`
}

// CompleteServiceRequest body para POST /api/service-tickets/:id/complete.
type CompleteServiceRequest struct {
	ServiceFee    decimal.Decimal   `json:"service_fee"`
	Parts         []SaleLineRequest `json:"parts" validate:"omitempty,dive"`
	PaymentMethod string            `json:"payment_method"`
}

// SaleItemResponse línea vendida con su costo capturado.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CostTotal decimal.Decimal `json:"cost_total"`
}

// SaleResponse venta o consumo de servicio registrado.
type SaleResponse struct {
	ID            string             `json:"id"`
	Kind          string             `json:"kind"`
	ReferenceID   string             `json:"reference_id,omitempty"`
	Total         decimal.Decimal    `json:"total"`
	CostTotal     decimal.Decimal    `json:"cost_total"`
	ServiceFee    decimal.Decimal    `json:"service_fee"`
	GrossProfit   decimal.Decimal    `json:"gross_profit"`
	PaymentMethod string             `json:"payment_method"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items"`
}
