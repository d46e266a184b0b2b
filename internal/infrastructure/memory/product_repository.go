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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	v view
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.v.write(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == product.SKU {
				return domain.ErrDuplicate
			}
		}
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de una tx el store ya está serializado; equivale a GetByID.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.v.write(func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok {
			return nil
		}
		p.Name = product.Name
		p.SellingPrice = product.SellingPrice
		p.MinStock = product.MinStock
		p.MaxStock = product.MaxStock
		p.UpdatedAt = product.UpdatedAt
		st.products[p.ID] = p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if filter.ActiveOnly && !p.IsActive {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	// mismo orden que Postgres: ORDER BY sku (único)
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, filter.Limit, filter.Offset), err
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if p.IsActive && p.IsLowStock() {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, err
}

func (r *ProductRepo) IncrementStock(_ context.Context, productID string, delta int) (int, error) {
	var stock int
	err := r.v.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("increment stock: producto %s no existe", productID)
		}
		p.Stock += delta
		p.UpdatedAt = time.Now()
		st.products[productID] = p
		stock = p.Stock
		return nil
	})
	return stock, err
}

func (r *ProductRepo) SetLastPurchasePrice(_ context.Context, productID string, price decimal.Decimal) error {
	return r.mutate(productID, func(p *entity.Product) { p.LastPurchasePrice = price })
}

func (r *ProductRepo) UpdateAverageCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.mutate(productID, func(p *entity.Product) { p.AverageCost = cost })
}

func (r *ProductRepo) OverwriteProjection(_ context.Context, productID string, stock int, averageCost decimal.Decimal) error {
	return r.mutate(productID, func(p *entity.Product) {
		p.Stock = stock
		p.AverageCost = averageCost
	})
}

func (r *ProductRepo) Deactivate(_ context.Context, productID string) error {
	return r.mutate(productID, func(p *entity.Product) { p.IsActive = false })
}

func (r *ProductRepo) InventoryValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if p.Stock > 0 {
				total = total.Add(p.InventoryValue())
			}
		}
		return nil
	})
	return total, err
}

func (r *ProductRepo) mutate(productID string, fn func(p *entity.Product)) error {
	return r.v.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return nil
		}
		fn(&p)
		p.UpdatedAt = time.Now()
		st.products[productID] = p
		return nil
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
