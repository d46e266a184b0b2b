package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Direction: in | out. UnitCost solo aplica a entradas.
type AdjustStockRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Direction string           `json:"direction" validate:"required,oneof=in out"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason    string           `json:"reason" validate:"required,max=500"`
}

// WarrantyMovementRequest body para POST /api/inventory/warranty.
// Kind: return (suma stock) | exchange (resta stock).
type WarrantyMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=return exchange"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
	ReferenceID string `json:"reference_id"`
	Notes       string `json:"notes"`
}

// StockMovementResponse entrada del ledger.
type StockMovementResponse struct {
	ID            string           `json:"id"`
	Seq           int64            `json:"seq"`
	ProductID     string           `json:"product_id"`
	MovementType  string           `json:"movement_type"`
	Quantity      int              `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	ReferenceType string           `json:"reference_type"`
	ReferenceID   string           `json:"reference_id"`
	Notes         string           `json:"notes"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
}

// StockMovementListResponse export paginado del ledger.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// AverageCostResponse HPP calculado al vuelo desde el ledger.
type AverageCostResponse struct {
	ProductID   string          `json:"product_id"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// LedgerCheckResponse resultado de comparar la proyección del producto con el ledger.
type LedgerCheckResponse struct {
	ProductID         string          `json:"product_id"`
	StoredStock       int             `json:"stored_stock"`
	LedgerStock       int             `json:"ledger_stock"`
	StoredAverageCost decimal.Decimal `json:"stored_average_cost"`
	LedgerAverageCost decimal.Decimal `json:"ledger_average_cost"`
	Consistent        bool            `json:"consistent"`
}

// LedgerRepairResponse resultado de RecomputeFromLedger: valores antes y después.
type LedgerRepairResponse struct {
	Before   LedgerCheckResponse `json:"before"`
	Stock    int                 `json:"stock"`
	Average  decimal.Decimal     `json:"average_cost"`
	Repaired bool                `json:"repaired"`
}

// LowStockDTO producto en o bajo su stock mínimo, con sugerencia de reposición hasta MaxStock.
type LowStockDTO struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	CurrentStock      int             `json:"current_stock"`
	MinStock          int             `json:"min_stock"`
	MaxStock          int             `json:"max_stock"`
	SuggestedOrderQty int             `json:"suggested_order_qty"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
}
