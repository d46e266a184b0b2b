package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y consumos de servicio. Create debe ejecutarse dentro de la tx del checkout.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, kind, reference_id, total, cost_total, service_fee, payment_method, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sale.ID, sale.Kind, sale.ReferenceID, sale.Total, sale.CostTotal, sale.ServiceFee,
		sale.PaymentMethod, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for i := range sale.Items {
		it := &sale.Items[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, line_no, product_id, quantity, unit_price, unit_cost, subtotal, cost_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, sale.ID, i+1, it.ProductID, it.Quantity, it.UnitPrice, it.UnitCost, it.Subtotal, it.CostTotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, kind, reference_id, total, cost_total, service_fee, payment_method, created_by, created_at
		FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.Kind, &s.ReferenceID, &s.Total, &s.CostTotal, &s.ServiceFee, &s.PaymentMethod,
		&s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, unit_cost, subtotal, cost_total
		FROM sale_items WHERE sale_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.UnitCost,
			&it.Subtotal, &it.CostTotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) ExistsForReference(ctx context.Context, kind, referenceID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales WHERE kind = $1 AND reference_id = $2)`, kind, referenceID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sale exists for reference: %w", err)
	}
	return exists, nil
}
