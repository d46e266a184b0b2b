package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/inventory"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger en memoria: slice append-only ordenado por Seq.
type StockMovementRepo struct {
	v view
}

func (r *StockMovementRepo) Append(_ context.Context, movement *entity.StockMovement) error {
	return r.v.write(func(st *state) error {
		st.movSeq++
		movement.Seq = st.movSeq
		st.movements = append(st.movements, *movement)
		return nil
	})
}

func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *StockMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.ReferenceType != "" && m.ReferenceType != filter.ReferenceType {
				continue
			}
			if filter.ReferenceID != "" && m.ReferenceID != filter.ReferenceID {
				continue
			}
			if filter.From != nil && m.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !m.CreatedAt.Before(*filter.To) {
				continue
			}
			m := m
			out = append(out, &m)
		}
		return nil
	})
	return paginate(out, filter.Limit, filter.Offset), err
}

func (r *StockMovementRepo) InboundCostTotals(ctx context.Context, productID string) (int64, decimal.Decimal, error) {
	movs, err := r.ListByProduct(ctx, productID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	qty, value := inventory.InboundTotals(movs)
	return qty, value, nil
}

func (r *StockMovementRepo) SignedQuantitySum(ctx context.Context, productID string) (int, error) {
	movs, err := r.ListByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return inventory.StockFromLedger(movs), nil
}
