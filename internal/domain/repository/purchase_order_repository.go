package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia de órdenes de compra y sus ítems.
// Los Get* devuelven (nil, nil) cuando no hay fila.
type PurchaseOrderRepository interface {
	NextPONumber(ctx context.Context, at time.Time) (string, error)
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	// Update persiste estado, aprobación, cancelación y notas.
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	// RecalculateTotal fija total_amount = Σ total_cost de los ítems y lo devuelve.
	RecalculateTotal(ctx context.Context, poID string) (decimal.Decimal, error)

	AddItem(ctx context.Context, item *entity.PurchaseOrderItem) error
	GetItem(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error)
	GetItemForUpdate(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error)
	ListItems(ctx context.Context, poID string) ([]*entity.PurchaseOrderItem, error)
	DeleteItem(ctx context.Context, itemID string) error
	// IncrementReceived received_quantity = received_quantity + qty; devuelve el nuevo valor.
	IncrementReceived(ctx context.Context, itemID string, qty int) (int, error)
	UpdateOutstanding(ctx context.Context, itemID, status, reason string, refundProcessedAt *time.Time) error
	// QuantityTotals Σ ordered y Σ received de la orden.
	QuantityTotals(ctx context.Context, poID string) (ordered int, received int, err error)
	// ListAwaitingReceipt ítems con saldo pendiente o backordered en órdenes confirmadas o parciales.
	ListAwaitingReceipt(ctx context.Context) ([]*entity.PurchaseOrderItem, error)
}
