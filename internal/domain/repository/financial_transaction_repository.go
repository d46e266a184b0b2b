package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// FinancialTransactionRepository puerto append-only de transacciones financieras.
type FinancialTransactionRepository interface {
	Create(ctx context.Context, tx *entity.FinancialTransaction) error
	List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.FinancialTransaction, error)
	// Breakdown agrupa por tipo, categoría, subcategoría y origen dentro del rango.
	Breakdown(ctx context.Context, filter entity.TransactionFilter) ([]entity.TransactionBreakdown, error)
	// SumByCategory total histórico (sin rango) de un tipo y categoría.
	SumByCategory(ctx context.Context, txType, category string) (decimal.Decimal, error)
}
