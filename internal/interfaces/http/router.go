package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/finance"
	"github.com/jhoicas/ledger-api/internal/application/inventory"
	"github.com/jhoicas/ledger-api/internal/application/purchasing"
	"github.com/jhoicas/ledger-api/internal/application/sales"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/jhoicas/ledger-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	Ledger        *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Orders        *purchasing.OrderUseCase
	Receiving     *purchasing.ReceivingUseCase
	Outstanding   *purchasing.OutstandingUseCase
	Finance       *finance.UseCase
	Checkout      *sales.CheckoutUseCase
	Service       *sales.ServiceUseCase
	JWTSecret     string
	RateLimit     fiber.Handler // opcional
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	if deps.RateLimit != nil {
		api.Use(deps.RateLimit)
	}

	warehouse := RequireRole(jwt.RoleWarehouse)
	financeOnly := RequireRole(jwt.RoleFinance)
	cashier := RequireRole(jwt.RoleCashier)
	anyRole := RequireRole(jwt.RoleWarehouse, jwt.RoleCashier, jwt.RoleFinance)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", warehouse, productHandler.Create)
	products.Put("/:id", warehouse, productHandler.Update)
	products.Delete("/:id", warehouse, productHandler.Deactivate)

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Replenishment)
	inv.Get("/movements", RequireRole(jwt.RoleWarehouse, jwt.RoleFinance), inventoryHandler.ListMovements)
	inv.Get("/low-stock", warehouse, inventoryHandler.LowStock)
	inv.Post("/adjustments", warehouse, inventoryHandler.AdjustStock)
	inv.Post("/warranty", warehouse, inventoryHandler.RegisterWarranty)
	inv.Get("/products/:id/movements", warehouse, inventoryHandler.ProductMovements)
	inv.Get("/products/:id/average-cost", anyRole, inventoryHandler.AverageCost)
	inv.Get("/products/:id/verify", warehouse, inventoryHandler.Verify)
	inv.Post("/products/:id/recompute", RequireRole(), inventoryHandler.Recompute)

	po := api.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.Orders, deps.Receiving, deps.Outstanding)
	po.Get("/awaiting-receipt", warehouse, poHandler.AwaitingReceipt)
	po.Post("/items/:itemId/receive", warehouse, poHandler.Receive)
	po.Put("/items/:itemId/outstanding", warehouse, poHandler.SetOutstanding)
	po.Post("/items/:itemId/refund", RequireRole(jwt.RoleWarehouse, jwt.RoleFinance), poHandler.ProcessRefund)
	po.Get("/", warehouse, poHandler.List)
	po.Post("/", warehouse, poHandler.Create)
	po.Get("/:id", warehouse, poHandler.Get)
	po.Post("/:id/items", warehouse, poHandler.AddItem)
	po.Delete("/:id/items/:itemId", warehouse, poHandler.RemoveItem)
	po.Post("/:id/approve", financeOnly, poHandler.Approve)
	po.Post("/:id/cancel", RequireRole(jwt.RoleWarehouse, jwt.RoleFinance), poHandler.Cancel)

	fin := api.Group("/finance", financeOnly)
	financeHandler := NewFinanceHandler(deps.Finance)
	fin.Post("/transactions", financeHandler.CreateTransaction)
	fin.Get("/transactions", financeHandler.ListTransactions)
	fin.Get("/summary", financeHandler.Summary)
	fin.Get("/profit-loss", financeHandler.ProfitAndLoss)
	fin.Get("/reconciliation", financeHandler.Reconciliation)

	salesHandler := NewSalesHandler(deps.Checkout, deps.Service)
	api.Post("/sales", cashier, salesHandler.CreateSale)
	api.Get("/sales/:id", RequireRole(jwt.RoleCashier, jwt.RoleFinance), salesHandler.GetSale)
	api.Post("/service-tickets/:id/complete", cashier, salesHandler.CompleteServiceTicket)
}
