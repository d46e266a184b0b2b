package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta de mostrador. UnitCost de cada línea es el HPP vigente antes de la salida.
type Sale struct {
	ID            string
	Kind          string // sale | service
	ReferenceID   string // ticket de servicio cuando Kind = service
	Total         decimal.Decimal
	CostTotal     decimal.Decimal
	ServiceFee    decimal.Decimal
	PaymentMethod string
	CreatedBy     string
	CreatedAt     time.Time
	Items         []SaleItem
}

// Tipos de venta.
const (
	SaleKindSale    = "sale"
	SaleKindService = "service"
)

// SaleItem línea vendida o repuesto consumido.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
	Subtotal  decimal.Decimal
	CostTotal decimal.Decimal
}

// GrossProfit Total − CostTotal.
func (s *Sale) GrossProfit() decimal.Decimal {
	return s.Total.Sub(s.CostTotal)
}
