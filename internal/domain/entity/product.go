package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o repuesto del inventario.
// Stock y AverageCost son proyecciones materializadas del ledger de movimientos:
// se leen rápido pero siempre deben poder recalcularse desde StockMovement.
type Product struct {
	ID                string
	SKU               string // código único
	Name              string
	SellingPrice      decimal.Decimal // precio de venta
	Stock             int             // suma firmada de los movimientos
	AverageCost       decimal.Decimal // HPP: costo promedio ponderado
	LastPurchasePrice decimal.Decimal // costo unitario de la última recepción
	MinStock          int
	MaxStock          int
	IsActive          bool // los productos nunca se borran, solo se desactivan
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValuationCost costo usado para valorizar el inventario: AverageCost o, si es cero,
// LastPurchasePrice.
func (p *Product) ValuationCost() decimal.Decimal {
	if p.AverageCost.GreaterThan(decimal.Zero) {
		return p.AverageCost
	}
	return p.LastPurchasePrice
}

// InventoryValue Stock × ValuationCost.
func (p *Product) InventoryValue() decimal.Decimal {
	return decimal.NewFromInt(int64(p.Stock)).Mul(p.ValuationCost())
}

// IsLowStock true cuando el stock está en o por debajo del mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.MinStock > 0 && p.Stock <= p.MinStock
}
