package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// MovementFilter filtros para exportar el ledger. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID     string
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// StockMovementRepository puerto del ledger de movimientos: solo inserción y lectura.
type StockMovementRepository interface {
	// Append inserta el movimiento y le asigna Seq.
	Append(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos del producto en orden de inserción.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// InboundCostTotals Σ cantidad y Σ cantidad×costo de los "in" con costo unitario.
	InboundCostTotals(ctx context.Context, productID string) (int64, decimal.Decimal, error)
	// SignedQuantitySum stock según el ledger.
	SignedQuantitySum(ctx context.Context, productID string) (int, error)
}
