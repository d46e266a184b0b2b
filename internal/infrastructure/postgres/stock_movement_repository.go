package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, seq, product_id, movement_type, quantity, unit_cost, reference_type, reference_id,
	notes, created_at, created_by`

// StockMovementRepo ledger de stock sobre PostgreSQL. La tabla no admite UPDATE ni DELETE
// (ver trigger en la migración); seq es un bigserial que fija el orden de inserción.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta el movimiento y asigna Seq.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, unit_cost, reference_type, reference_id, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`,
		m.ID, m.ProductID, m.MovementType, m.Quantity, m.UnitCost, m.ReferenceType, m.ReferenceID,
		m.Notes, m.CreatedAt, m.CreatedBy,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("append stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	return r.query(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE product_id = $1 ORDER BY seq`, productID)
}

// List export del ledger con filtros opcionales, en orden de inserción.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE true`
	var args []any
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if filter.ProductID != "" {
		add("product_id = $%d", filter.ProductID)
	}
	if filter.ReferenceType != "" {
		add("reference_type = $%d", filter.ReferenceType)
	}
	if filter.ReferenceID != "" {
		add("reference_id = $%d", filter.ReferenceID)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at < $%d", *filter.To)
	}
	query += fmt.Sprintf(" ORDER BY seq LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)
	return r.query(ctx, query, args...)
}

func (r *StockMovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(&m.ID, &m.Seq, &m.ProductID, &m.MovementType, &m.Quantity, &m.UnitCost,
		&m.ReferenceType, &m.ReferenceID, &m.Notes, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// InboundCostTotals agrega en la base lo mismo que inventory.InboundTotals.
func (r *StockMovementRepo) InboundCostTotals(ctx context.Context, productID string) (int64, decimal.Decimal, error) {
	var qty int64
	var value decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * unit_cost), 0)
		FROM stock_movements
		WHERE product_id = $1 AND movement_type = $2 AND unit_cost IS NOT NULL`,
		productID, entity.MovementTypeIn,
	).Scan(&qty, &value)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("inbound cost totals: %w", err)
	}
	return qty, value, nil
}

func (r *StockMovementRepo) SignedQuantitySum(ctx context.Context, productID string) (int, error) {
	var sum int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN movement_type IN ($2, $3) THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE product_id = $1`,
		productID, entity.MovementTypeIn, entity.MovementTypeWarrantyReturn,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("signed quantity sum: %w", err)
	}
	return sum, nil
}
