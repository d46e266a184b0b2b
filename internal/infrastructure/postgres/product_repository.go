package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, selling_price, stock, average_cost, last_purchase_price,
	min_stock, max_stock, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.SellingPrice, &p.Stock, &p.AverageCost, &p.LastPurchasePrice,
		&p.MinStock, &p.MaxStock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.SellingPrice, product.Stock, product.AverageCost,
		product.LastPurchasePrice, product.MinStock, product.MaxStock, product.IsActive,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. No toca stock ni costos.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, selling_price = $3, min_stock = $4, max_stock = $5, updated_at = $6
		WHERE id = $1`,
		product.ID, product.Name, product.SellingPrice, product.MinStock, product.MaxStock, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if filter.ActiveOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sku LIMIT $1 OFFSET $2`
	return r.list(ctx, query, filter.Limit, filter.Offset)
}

// ListLowStock productos activos con umbral configurado y stock en o bajo el mínimo.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products
		WHERE is_active AND min_stock > 0 AND stock <= min_stock ORDER BY sku`)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// IncrementStock stock relativo: nunca se escribe un valor absoluto leído antes.
func (r *ProductRepo) IncrementStock(ctx context.Context, productID string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		productID, delta,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewNotFound("producto", productID)
		}
		if isCheckViolation(err) {
			return 0, &domain.InsufficientStockError{ProductID: productID, Requested: -delta}
		}
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return stock, nil
}

func (r *ProductRepo) SetLastPurchasePrice(ctx context.Context, productID string, price decimal.Decimal) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE products SET last_purchase_price = $2, updated_at = now() WHERE id = $1`, productID, price,
	); err != nil {
		return fmt.Errorf("update last purchase price: %w", err)
	}
	return nil
}

// UpdateAverageCost persiste el HPP calculado por el motor de costos.
func (r *ProductRepo) UpdateAverageCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE products SET average_cost = $2, updated_at = now() WHERE id = $1`, productID, cost,
	); err != nil {
		return fmt.Errorf("update average cost: %w", err)
	}
	return nil
}

func (r *ProductRepo) OverwriteProjection(ctx context.Context, productID string, stock int, averageCost decimal.Decimal) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $2, average_cost = $3, updated_at = now() WHERE id = $1`,
		productID, stock, averageCost,
	); err != nil {
		return fmt.Errorf("overwrite projection: %w", err)
	}
	return nil
}

func (r *ProductRepo) Deactivate(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE products SET is_active = false, updated_at = now() WHERE id = $1`, productID,
	); err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

func (r *ProductRepo) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(stock * CASE WHEN average_cost > 0 THEN average_cost ELSE last_purchase_price END), 0)
		FROM products WHERE stock > 0`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("inventory value: %w", err)
	}
	return total, nil
}
