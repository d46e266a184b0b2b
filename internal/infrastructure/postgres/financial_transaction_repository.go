package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.FinancialTransactionRepository = (*FinancialTransactionRepo)(nil)

const transactionColumns = `id, type, category, subcategory, amount, description, reference_type, reference,
	payment_method, status, transaction_date, created_by, created_at`

// FinancialTransactionRepo asientos financieros. Solo INSERT y SELECT.
type FinancialTransactionRepo struct {
	q Querier
}

func NewFinancialTransactionRepository(q Querier) *FinancialTransactionRepo {
	return &FinancialTransactionRepo{q: q}
}

func (r *FinancialTransactionRepo) Create(ctx context.Context, tx *entity.FinancialTransaction) error {
	_, err := r.q.Exec(ctx, `INSERT INTO financial_transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		tx.ID, tx.Type, tx.Category, tx.Subcategory, tx.Amount, tx.Description, tx.ReferenceType,
		tx.Reference, tx.PaymentMethod, tx.Status, tx.TransactionDate, tx.CreatedBy, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert financial transaction: %w", err)
	}
	return nil
}

// transactionWhere arma el filtro común de List y Breakdown. Devuelve la cláusula y sus argumentos.
func transactionWhere(filter entity.TransactionFilter) (string, []any) {
	clause := ` WHERE true`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		clause += fmt.Sprintf(" AND "+cond, len(args))
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if !filter.From.IsZero() {
		add("transaction_date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("transaction_date < $%d", filter.To)
	}
	return clause, args
}

func (r *FinancialTransactionRepo) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.FinancialTransaction, error) {
	where, args := transactionWhere(filter)
	rows, err := r.q.Query(ctx, `SELECT `+transactionColumns+` FROM financial_transactions`+where+
		` ORDER BY transaction_date, created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list financial transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.FinancialTransaction
	for rows.Next() {
		var t entity.FinancialTransaction
		if err := rows.Scan(&t.ID, &t.Type, &t.Category, &t.Subcategory, &t.Amount, &t.Description,
			&t.ReferenceType, &t.Reference, &t.PaymentMethod, &t.Status, &t.TransactionDate,
			&t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan financial transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *FinancialTransactionRepo) Breakdown(ctx context.Context, filter entity.TransactionFilter) ([]entity.TransactionBreakdown, error) {
	where, args := transactionWhere(filter)
	rows, err := r.q.Query(ctx, `
		SELECT type, category, subcategory, reference_type, SUM(amount), COUNT(*)
		FROM financial_transactions`+where+`
		GROUP BY type, category, subcategory, reference_type
		ORDER BY type, category, subcategory, reference_type`, args...)
	if err != nil {
		return nil, fmt.Errorf("financial breakdown: %w", err)
	}
	defer rows.Close()
	var out []entity.TransactionBreakdown
	for rows.Next() {
		var b entity.TransactionBreakdown
		if err := rows.Scan(&b.Type, &b.Category, &b.Subcategory, &b.ReferenceType, &b.Total, &b.Count); err != nil {
			return nil, fmt.Errorf("scan financial breakdown: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *FinancialTransactionRepo) SumByCategory(ctx context.Context, txType, category string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM financial_transactions WHERE type = $1 AND category = $2`,
		txType, category,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum by category: %w", err)
	}
	return total, nil
}
