package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ledger-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

var tracer = otel.Tracer("github.com/jhoicas/ledger-api/internal/infrastructure/postgres")

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los SELECT ... FOR UPDATE de los repos toman los row locks dentro de esta misma tx.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	ctx, span := tracer.Start(ctx, "postgres.Tx", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rollback")
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos construye el juego de repositorios sobre q (pool o tx).
func NewRepos(q Querier) ports.TxRepos {
	return ports.TxRepos{
		Products:       NewProductRepository(q),
		Movements:      NewStockMovementRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Finance:        NewFinancialTransactionRepository(q),
		Sales:          NewSaleRepository(q),
	}
}
