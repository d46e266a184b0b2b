package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeIn               = "in"                // entrada (compra, ajuste positivo)
	MovementTypeOut              = "out"               // salida (venta, servicio, ajuste negativo)
	MovementTypeWarrantyReturn   = "warranty_return"   // devolución en garantía, suma stock
	MovementTypeWarrantyExchange = "warranty_exchange" // cambio en garantía, resta stock
)

// Tipos de documento que originan un movimiento o una transacción financiera.
const (
	ReferenceTypePurchase   = "purchase"
	ReferenceTypeSale       = "sale"
	ReferenceTypeService    = "service"
	ReferenceTypeAdjustment = "adjustment"
	ReferenceTypeWarranty   = "warranty"
	ReferenceTypeManual     = "manual"
)

// StockMovement entrada inmutable del ledger. Nunca se actualiza ni se borra.
type StockMovement struct {
	ID            string
	Seq           int64 // orden de inserción
	ProductID     string
	MovementType  string
	Quantity      int              // siempre positiva; el signo lo da MovementType
	UnitCost      *decimal.Decimal // nil cuando el movimiento no aporta costo
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string
}

// IsValidMovementType indica si t es uno de los tipos soportados.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeWarrantyReturn, MovementTypeWarrantyExchange:
		return true
	}
	return false
}

// IsInbound true para los tipos que suman stock.
func IsInbound(t string) bool {
	return t == MovementTypeIn || t == MovementTypeWarrantyReturn
}

// SignedQuantity cantidad con signo según el tipo de movimiento.
func (m *StockMovement) SignedQuantity() int {
	if IsInbound(m.MovementType) {
		return m.Quantity
	}
	return -m.Quantity
}
