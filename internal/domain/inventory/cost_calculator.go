package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// CostScale decimales con los que se persiste el costo promedio.
const CostScale = domain.MoneyScale

// WeightedAverageCost calcula el HPP a partir de los totales de entradas con costo:
// Costo = Σ(cantidad × costo) / Σ(cantidad). Si no hay entradas con costo devuelve
// fallback (normalmente lastPurchasePrice, o cero).
func WeightedAverageCost(totalQty int64, totalValue, fallback decimal.Decimal) decimal.Decimal {
	if totalQty <= 0 {
		return fallback
	}
	return totalValue.Div(decimal.NewFromInt(totalQty)).Round(CostScale)
}

// InboundTotals suma cantidad y valor de los movimientos "in" que traen costo unitario.
// Las devoluciones en garantía y las entradas sin costo no participan del promedio.
func InboundTotals(movs []*entity.StockMovement) (int64, decimal.Decimal) {
	var qty int64
	value := decimal.Zero
	for _, m := range movs {
		if m.MovementType != entity.MovementTypeIn || m.UnitCost == nil {
			continue
		}
		qty += int64(m.Quantity)
		value = value.Add(decimal.NewFromInt(int64(m.Quantity)).Mul(*m.UnitCost))
	}
	return qty, value
}

// AverageCostFromLedger aplica WeightedAverageCost directamente sobre el ledger de un producto.
func AverageCostFromLedger(movs []*entity.StockMovement, lastPurchasePrice decimal.Decimal) decimal.Decimal {
	qty, value := InboundTotals(movs)
	return WeightedAverageCost(qty, value, lastPurchasePrice)
}

// StockFromLedger Σ(in + warranty_return) − Σ(out + warranty_exchange).
func StockFromLedger(movs []*entity.StockMovement) int {
	stock := 0
	for _, m := range movs {
		stock += m.SignedQuantity()
	}
	return stock
}
