package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.FinancialTransactionRepository = (*FinancialTransactionRepo)(nil)
var _ repository.SaleRepository = (*SaleRepo)(nil)

// FinancialTransactionRepo transacciones financieras en memoria (append-only).
type FinancialTransactionRepo struct {
	v view
}

func (r *FinancialTransactionRepo) Create(_ context.Context, tx *entity.FinancialTransaction) error {
	return r.v.write(func(st *state) error {
		st.transactions = append(st.transactions, *tx)
		return nil
	})
}

func (r *FinancialTransactionRepo) List(_ context.Context, filter entity.TransactionFilter) ([]*entity.FinancialTransaction, error) {
	var out []*entity.FinancialTransaction
	err := r.v.read(func(st *state) error {
		for _, t := range st.transactions {
			if !inRange(t, filter) {
				continue
			}
			t := t
			out = append(out, &t)
		}
		return nil
	})
	return out, err
}

func (r *FinancialTransactionRepo) Breakdown(_ context.Context, filter entity.TransactionFilter) ([]entity.TransactionBreakdown, error) {
	type key struct{ typ, cat, sub, ref string }
	var order []key
	groups := map[key]*entity.TransactionBreakdown{}
	err := r.v.read(func(st *state) error {
		for _, t := range st.transactions {
			if !inRange(t, filter) {
				continue
			}
			k := key{t.Type, t.Category, t.Subcategory, t.ReferenceType}
			g, ok := groups[k]
			if !ok {
				g = &entity.TransactionBreakdown{Type: t.Type, Category: t.Category, Subcategory: t.Subcategory, ReferenceType: t.ReferenceType, Total: decimal.Zero}
				groups[k] = g
				order = append(order, k)
			}
			g.Total = g.Total.Add(t.Amount)
			g.Count++
		}
		return nil
	})
	out := make([]entity.TransactionBreakdown, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out, err
}

func (r *FinancialTransactionRepo) SumByCategory(_ context.Context, txType, category string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.read(func(st *state) error {
		for _, t := range st.transactions {
			if t.Type == txType && t.Category == category {
				total = total.Add(t.Amount)
			}
		}
		return nil
	})
	return total, err
}

func inRange(t entity.FinancialTransaction, f entity.TransactionFilter) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && t.TransactionDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.TransactionDate.Before(f.To) {
		return false
	}
	return true
}

// SaleRepo ventas en memoria.
type SaleRepo struct {
	v view
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.v.write(func(st *state) error {
		s := *sale
		s.Items = append([]entity.SaleItem(nil), sale.Items...)
		st.sales[s.ID] = s
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.read(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			s.Items = append([]entity.SaleItem(nil), s.Items...)
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) ExistsForReference(_ context.Context, kind, referenceID string) (bool, error) {
	found := false
	err := r.v.read(func(st *state) error {
		for _, s := range st.sales {
			if s.Kind == kind && s.ReferenceID == referenceID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}
