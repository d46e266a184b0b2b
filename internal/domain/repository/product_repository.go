package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Stock solo cambia por incrementos relativos; AverageCost lo persiste el motor de costos.
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	// IncrementStock aplica stock = stock + delta y devuelve el stock resultante.
	IncrementStock(ctx context.Context, productID string, delta int) (int, error)
	SetLastPurchasePrice(ctx context.Context, productID string, price decimal.Decimal) error
	UpdateAverageCost(ctx context.Context, productID string, cost decimal.Decimal) error
	// OverwriteProjection solo la usa la reparación desde el ledger.
	OverwriteProjection(ctx context.Context, productID string, stock int, averageCost decimal.Decimal) error
	Deactivate(ctx context.Context, productID string) error
	// InventoryValue Σ stock × (averageCost, o lastPurchasePrice si es cero) sobre productos con stock.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}
