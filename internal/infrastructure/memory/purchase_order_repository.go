package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra e ítems en memoria.
type PurchaseOrderRepo struct {
	v view
}

func (r *PurchaseOrderRepo) NextPONumber(_ context.Context, at time.Time) (string, error) {
	var number string
	err := r.v.write(func(st *state) error {
		st.poSeq++
		number = fmt.Sprintf("PO-%s-%05d", at.Format("200601"), st.poSeq)
		return nil
	})
	return number, err
}

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.v.write(func(st *state) error {
		for _, o := range st.orders {
			if o.PONumber == po.PONumber {
				return domain.ErrDuplicate
			}
		}
		st.orders[po.ID] = *po
		return nil
	})
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.v.read(func(st *state) error {
		if po, ok := st.orders[id]; ok {
			out = &po
		}
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseOrderRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.v.read(func(st *state) error {
		for _, po := range st.orders {
			if status != "" && po.Status != status {
				continue
			}
			po := po
			out = append(out, &po)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PONumber > out[j].PONumber })
	return paginate(out, limit, offset), err
}

func (r *PurchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.orders[po.ID]
		if !ok {
			return nil
		}
		cur.Status = po.Status
		cur.Notes = po.Notes
		cur.ExpectedDeliveryDate = po.ExpectedDeliveryDate
		cur.ApprovedBy = po.ApprovedBy
		cur.ApprovedDate = po.ApprovedDate
		cur.CancelledBy = po.CancelledBy
		cur.CancelledDate = po.CancelledDate
		cur.CancelReason = po.CancelReason
		cur.UpdatedAt = po.UpdatedAt
		st.orders[po.ID] = cur
		return nil
	})
}

func (r *PurchaseOrderRepo) RecalculateTotal(_ context.Context, poID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.write(func(st *state) error {
		po, ok := st.orders[poID]
		if !ok {
			return nil
		}
		for _, it := range st.items {
			if it.PurchaseOrderID == poID {
				total = total.Add(it.TotalCost)
			}
		}
		po.TotalAmount = total
		st.orders[poID] = po
		return nil
	})
	return total, err
}

func (r *PurchaseOrderRepo) AddItem(_ context.Context, item *entity.PurchaseOrderItem) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.orders[item.PurchaseOrderID]; !ok {
			return fmt.Errorf("insert purchase order item: orden %s no existe", item.PurchaseOrderID)
		}
		st.rowSeq++
		st.items[item.ID] = *item
		st.itemSeq[item.ID] = st.rowSeq
		return nil
	})
}

func (r *PurchaseOrderRepo) GetItem(_ context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	var out *entity.PurchaseOrderItem
	err := r.v.read(func(st *state) error {
		if it, ok := st.items[itemID]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) GetItemForUpdate(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	return r.GetItem(ctx, itemID)
}

func (r *PurchaseOrderRepo) ListItems(_ context.Context, poID string) ([]*entity.PurchaseOrderItem, error) {
	var out []*entity.PurchaseOrderItem
	var seq map[string]int64
	err := r.v.read(func(st *state) error {
		seq = st.itemSeq
		for _, it := range st.items {
			if it.PurchaseOrderID == poID {
				it := it
				out = append(out, &it)
			}
		}
		sort.Slice(out, func(i, j int) bool { return seq[out[i].ID] < seq[out[j].ID] })
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) DeleteItem(_ context.Context, itemID string) error {
	return r.v.write(func(st *state) error {
		delete(st.items, itemID)
		delete(st.itemSeq, itemID)
		return nil
	})
}

func (r *PurchaseOrderRepo) IncrementReceived(_ context.Context, itemID string, qty int) (int, error) {
	var received int
	err := r.v.write(func(st *state) error {
		it, ok := st.items[itemID]
		if !ok {
			return fmt.Errorf("increment received: ítem %s no existe", itemID)
		}
		it.ReceivedQuantity += qty
		it.UpdatedAt = time.Now()
		st.items[itemID] = it
		received = it.ReceivedQuantity
		return nil
	})
	return received, err
}

func (r *PurchaseOrderRepo) UpdateOutstanding(_ context.Context, itemID, status, reason string, refundProcessedAt *time.Time) error {
	return r.v.write(func(st *state) error {
		it, ok := st.items[itemID]
		if !ok {
			return nil
		}
		it.OutstandingStatus = status
		it.OutstandingReason = reason
		if refundProcessedAt != nil {
			it.RefundProcessedAt = refundProcessedAt
		}
		it.UpdatedAt = time.Now()
		st.items[itemID] = it
		return nil
	})
}

func (r *PurchaseOrderRepo) QuantityTotals(_ context.Context, poID string) (int, int, error) {
	var ordered, received int
	err := r.v.read(func(st *state) error {
		for _, it := range st.items {
			if it.PurchaseOrderID == poID {
				ordered += it.OrderedQuantity
				received += it.ReceivedQuantity
			}
		}
		return nil
	})
	return ordered, received, err
}

func (r *PurchaseOrderRepo) ListAwaitingReceipt(_ context.Context) ([]*entity.PurchaseOrderItem, error) {
	var out []*entity.PurchaseOrderItem
	var seq map[string]int64
	err := r.v.read(func(st *state) error {
		seq = st.itemSeq
		for _, it := range st.items {
			po, ok := st.orders[it.PurchaseOrderID]
			if !ok || !po.CanReceive() || !it.IsAwaitingReceipt() {
				continue
			}
			it := it
			out = append(out, &it)
		}
		sort.Slice(out, func(i, j int) bool { return seq[out[i].ID] < seq[out[j].ID] })
		return nil
	})
	return out, err
}
