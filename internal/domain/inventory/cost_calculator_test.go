package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

func costPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestAverageCostFromLedger_WeightedAverage(t *testing.T) {
	movs := []*entity.StockMovement{
		{MovementType: entity.MovementTypeIn, Quantity: 5, UnitCost: costPtr("100")},
		{MovementType: entity.MovementTypeIn, Quantity: 3, UnitCost: costPtr("120")},
	}
	got := AverageCostFromLedger(movs, decimal.Zero)
	assert.True(t, got.Equal(decimal.RequireFromString("107.5")), "got %s", got)
}

func TestAverageCostFromLedger_IgnoresOutAndUncosted(t *testing.T) {
	movs := []*entity.StockMovement{
		{MovementType: entity.MovementTypeIn, Quantity: 5, UnitCost: costPtr("100")},
		{MovementType: entity.MovementTypeOut, Quantity: 2, UnitCost: costPtr("100")},
		{MovementType: entity.MovementTypeIn, Quantity: 4},
		{MovementType: entity.MovementTypeWarrantyReturn, Quantity: 1, UnitCost: costPtr("999")},
		{MovementType: entity.MovementTypeIn, Quantity: 3, UnitCost: costPtr("120")},
	}
	got := AverageCostFromLedger(movs, decimal.NewFromInt(1))
	assert.True(t, got.Equal(decimal.RequireFromString("107.5")), "got %s", got)
}

func TestAverageCostFromLedger_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		movs     []*entity.StockMovement
		fallback decimal.Decimal
		want     decimal.Decimal
	}{
		{"sin movimientos usa último precio", nil, decimal.NewFromInt(80), decimal.NewFromInt(80)},
		{"sin movimientos ni precio es cero", nil, decimal.Zero, decimal.Zero},
		{"solo entradas sin costo", []*entity.StockMovement{{MovementType: entity.MovementTypeIn, Quantity: 2}}, decimal.NewFromInt(15), decimal.NewFromInt(15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageCostFromLedger(tt.movs, tt.fallback)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestWeightedAverageCost_RoundsToScale(t *testing.T) {
	got := WeightedAverageCost(3, decimal.NewFromInt(10), decimal.Zero)
	assert.Equal(t, "3.3333", got.String())
}

func TestStockFromLedger(t *testing.T) {
	movs := []*entity.StockMovement{
		{MovementType: entity.MovementTypeIn, Quantity: 10},
		{MovementType: entity.MovementTypeOut, Quantity: 3},
		{MovementType: entity.MovementTypeWarrantyReturn, Quantity: 1},
		{MovementType: entity.MovementTypeWarrantyExchange, Quantity: 2},
	}
	assert.Equal(t, 6, StockFromLedger(movs))
	assert.Equal(t, 0, StockFromLedger(nil))
}
