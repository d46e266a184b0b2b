package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const orderColumns = `id, po_number, supplier_id, status, total_amount, order_date, expected_delivery_date, notes,
	approved_by, approved_date, cancelled_by, cancelled_date, cancel_reason, created_by, created_at, updated_at`

const itemColumns = `id, purchase_order_id, product_id, ordered_quantity, received_quantity, unit_cost, total_cost,
	outstanding_status, outstanding_reason, refund_processed_at, notes, created_at, updated_at`

// PurchaseOrderRepo órdenes de compra e ítems sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// NextPONumber PO-AAAAMM-NNNNN tomado de una secuencia: nextval no se revierte con la tx,
// así que puede haber saltos pero nunca duplicados.
func (r *PurchaseOrderRepo) NextPONumber(ctx context.Context, at time.Time) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('po_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next po number: %w", err)
	}
	return fmt.Sprintf("PO-%s-%05d", at.Format("200601"), n), nil
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `INSERT INTO purchase_orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		po.ID, po.PONumber, po.SupplierID, po.Status, po.TotalAmount, po.OrderDate, po.ExpectedDeliveryDate,
		po.Notes, po.ApprovedBy, po.ApprovedDate, po.CancelledBy, po.CancelledDate, po.CancelReason,
		po.CreatedBy, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.PONumber, &po.SupplierID, &po.Status, &po.TotalAmount, &po.OrderDate,
		&po.ExpectedDeliveryDate, &po.Notes, &po.ApprovedBy, &po.ApprovedDate, &po.CancelledBy,
		&po.CancelledDate, &po.CancelReason, &po.CreatedBy, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return po, nil
}

// GetForUpdate bloquea la orden: serializa la derivación de estado entre recepciones de distintos ítems.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock purchase order: %w", err)
	}
	return po, nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY po_number DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, notes = $3, expected_delivery_date = $4, approved_by = $5,
			approved_date = $6, cancelled_by = $7, cancelled_date = $8, cancel_reason = $9, updated_at = $10
		WHERE id = $1`,
		po.ID, po.Status, po.Notes, po.ExpectedDeliveryDate, po.ApprovedBy, po.ApprovedDate,
		po.CancelledBy, po.CancelledDate, po.CancelReason, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) RecalculateTotal(ctx context.Context, poID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		UPDATE purchase_orders
		SET total_amount = (SELECT COALESCE(SUM(total_cost), 0) FROM purchase_order_items WHERE purchase_order_id = $1),
			updated_at = now()
		WHERE id = $1
		RETURNING total_amount`, poID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("recalculate po total: %w", err)
	}
	return total, nil
}

func (r *PurchaseOrderRepo) AddItem(ctx context.Context, it *entity.PurchaseOrderItem) error {
	_, err := r.q.Exec(ctx, `INSERT INTO purchase_order_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		it.ID, it.PurchaseOrderID, it.ProductID, it.OrderedQuantity, it.ReceivedQuantity, it.UnitCost,
		it.TotalCost, it.OutstandingStatus, it.OutstandingReason, it.RefundProcessedAt, it.Notes,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order item: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.PurchaseOrderItem, error) {
	var it entity.PurchaseOrderItem
	err := row.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.OrderedQuantity, &it.ReceivedQuantity,
		&it.UnitCost, &it.TotalCost, &it.OutstandingStatus, &it.OutstandingReason, &it.RefundProcessedAt,
		&it.Notes, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *PurchaseOrderRepo) GetItem(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM purchase_order_items WHERE id = $1`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order item: %w", err)
	}
	return it, nil
}

// GetItemForUpdate row lock del ítem: serializa recepciones concurrentes del mismo ítem.
func (r *PurchaseOrderRepo) GetItemForUpdate(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM purchase_order_items WHERE id = $1 FOR UPDATE`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock purchase order item: %w", err)
	}
	return it, nil
}

func (r *PurchaseOrderRepo) ListItems(ctx context.Context, poID string) ([]*entity.PurchaseOrderItem, error) {
	return r.listItems(ctx, `SELECT `+itemColumns+` FROM purchase_order_items
		WHERE purchase_order_id = $1 ORDER BY created_at, id`, poID)
}

func (r *PurchaseOrderRepo) ListAwaitingReceipt(ctx context.Context) ([]*entity.PurchaseOrderItem, error) {
	return r.listItems(ctx, `
		SELECT i.id, i.purchase_order_id, i.product_id, i.ordered_quantity, i.received_quantity, i.unit_cost,
			i.total_cost, i.outstanding_status, i.outstanding_reason, i.refund_processed_at, i.notes,
			i.created_at, i.updated_at
		FROM purchase_order_items i
		JOIN purchase_orders po ON po.id = i.purchase_order_id
		WHERE po.status IN ($1, $2)
			AND i.received_quantity < i.ordered_quantity
			AND i.outstanding_status IN ($3, $4)
		ORDER BY i.created_at, i.id`,
		entity.POStatusConfirmed, entity.POStatusPartialReceived,
		entity.OutstandingPending, entity.OutstandingBackordered,
	)
}

func (r *PurchaseOrderRepo) listItems(ctx context.Context, query string, args ...any) ([]*entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *PurchaseOrderRepo) DeleteItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("delete purchase order item: %w", err)
	}
	return nil
}

// IncrementReceived actualización relativa bajo el row lock tomado por GetItemForUpdate.
func (r *PurchaseOrderRepo) IncrementReceived(ctx context.Context, itemID string, qty int) (int, error) {
	var received int
	err := r.q.QueryRow(ctx, `
		UPDATE purchase_order_items SET received_quantity = received_quantity + $2, updated_at = now()
		WHERE id = $1 RETURNING received_quantity`, itemID, qty,
	).Scan(&received)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewNotFound("ítem de orden", itemID)
		}
		if isCheckViolation(err) {
			return 0, domain.NewValidation("quantity", "excede la cantidad ordenada")
		}
		return 0, fmt.Errorf("increment received quantity: %w", err)
	}
	return received, nil
}

func (r *PurchaseOrderRepo) UpdateOutstanding(ctx context.Context, itemID, status, reason string, refundProcessedAt *time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_order_items
		SET outstanding_status = $2, outstanding_reason = $3,
			refund_processed_at = COALESCE($4, refund_processed_at), updated_at = now()
		WHERE id = $1`, itemID, status, reason, refundProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("update outstanding status: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) QuantityTotals(ctx context.Context, poID string) (int, int, error) {
	var ordered, received int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(ordered_quantity), 0), COALESCE(SUM(received_quantity), 0)
		FROM purchase_order_items WHERE purchase_order_id = $1`, poID,
	).Scan(&ordered, &received)
	if err != nil {
		return 0, 0, fmt.Errorf("po quantity totals: %w", err)
	}
	return ordered, received, nil
}
