package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock y costos nacen en cero y
// solo cambian vía movimientos del ledger.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MinStock     int             `json:"min_stock"`
	MaxStock     int             `json:"max_stock"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock ni costos).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	MinStock     *int             `json:"min_stock"`
	MaxStock     *int             `json:"max_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	Stock             int             `json:"stock"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
	MinStock          int             `json:"min_stock"`
	MaxStock          int             `json:"max_stock"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
