package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/inventory"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// ComputeAverageCost recalcula el HPP completo desde el ledger en cada llamada.
// Funciona con repos del pool o atados a una transacción; en una venta debe invocarse
// antes de registrar la salida para que la venta no altere su propia base de costo.
func ComputeAverageCost(
	ctx context.Context,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	productID string,
) (decimal.Decimal, error) {
	product, err := products.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.NewNotFound("producto", productID)
	}
	qty, value, err := movements.InboundCostTotals(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.WeightedAverageCost(qty, value, product.LastPurchasePrice), nil
}

// RefreshAverageCost recalcula y persiste el HPP del producto.
func RefreshAverageCost(
	ctx context.Context,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	productID string,
) (decimal.Decimal, error) {
	avg, err := ComputeAverageCost(ctx, products, movements, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := products.UpdateAverageCost(ctx, productID, avg); err != nil {
		return decimal.Zero, err
	}
	return avg, nil
}
