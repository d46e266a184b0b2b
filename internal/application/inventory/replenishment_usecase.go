package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// ReplenishmentUseCase lista productos en o bajo su stock mínimo como sugerencia de reorden.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products}
}

// ListLowStock devuelve los productos activos con stock <= minStock, con la cantidad sugerida
// para volver a MaxStock (o al doble del mínimo si MaxStock no está configurado),
// ordenados por mayor déficit.
func (uc *ReplenishmentUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockDTO, error) {
	list, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0, len(list))
	for _, p := range list {
		target := p.MaxStock
		if target <= p.MinStock {
			target = p.MinStock * 2
		}
		suggested := target - p.Stock
		if suggested < 0 {
			suggested = 0
		}
		unitCost := p.ValuationCost()
		out = append(out, dto.LowStockDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			CurrentStock:      p.Stock,
			MinStock:          p.MinStock,
			MaxStock:          p.MaxStock,
			SuggestedOrderQty: suggested,
			UnitCost:          unitCost,
			EstimatedCost:     decimal.NewFromInt(int64(suggested)).Mul(unitCost),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinStock-out[i].CurrentStock > out[j].MinStock-out[j].CurrentStock
	})
	return out, nil
}
