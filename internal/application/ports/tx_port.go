package ports

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción. Todo lo que se escribe a través
// de ellos se confirma junto o se descarta junto.
type TxRepos struct {
	Products       repository.ProductRepository
	Movements      repository.StockMovementRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Finance        repository.FinancialTransactionRepository
	Sales          repository.SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en
// cualquier otro caso. Ledger, stock, órdenes y finanzas quedan consistentes entre sí.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
