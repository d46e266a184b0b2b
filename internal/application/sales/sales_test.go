package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/inventory"
	"github.com/jhoicas/ledger-api/internal/application/sales"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
)

const cashier = "cashier-1"

type fixture struct {
	store    *memory.Store
	ledger   *inventory.LedgerUseCase
	checkout *sales.CheckoutUseCase
	service  *sales.ServiceUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	repos := s.Repos()
	log := zerolog.Nop()
	return &fixture{
		store:    s,
		ledger:   inventory.NewLedgerUseCase(s, repos.Products, repos.Movements, log),
		checkout: sales.NewCheckoutUseCase(s, repos.Sales, log),
		service:  sales.NewServiceUseCase(s, log),
	}
}

func (f *fixture) product(t *testing.T, id, price string) {
	t.Helper()
	require.NoError(t, f.store.Repos().Products.Create(context.Background(), &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: id, SellingPrice: decimal.RequireFromString(price),
		IsActive: true, CreatedAt: time.Now(),
	}))
}

func (f *fixture) stockIn(t *testing.T, id string, qty int, cost string) {
	t.Helper()
	c := decimal.RequireFromString(cost)
	_, err := f.ledger.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: id, Direction: inventory.DirectionIn, Quantity: qty, UnitCost: &c,
		Reason: "conteo inicial", ActorID: "admin",
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) transactions(t *testing.T) []*entity.FinancialTransaction {
	t.Helper()
	list, err := f.store.Repos().Finance.List(context.Background(), entity.TransactionFilter{})
	require.NoError(t, err)
	return list
}

func TestCreateSale_CapturesAverageCostBeforeOutflow(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "150")
	f.stockIn(t, "p1", 5, "100")
	f.stockIn(t, "p1", 3, "120")
	ctx := context.Background()

	sale, err := f.checkout.CreateSale(ctx, cashier, dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{{ProductID: "p1", Quantity: 2}},
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	assert.True(t, sale.CostTotal.Equal(decimal.NewFromInt(215)), "got %s", sale.CostTotal)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(300)))
	assert.True(t, sale.GrossProfit.Equal(decimal.NewFromInt(85)))
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].UnitCost.Equal(decimal.RequireFromString("107.5")))
	assert.Equal(t, 6, f.stock(t, "p1"))

	movs, err := f.store.Repos().Movements.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	out := movs[len(movs)-1]
	assert.Equal(t, entity.MovementTypeOut, out.MovementType)
	assert.Equal(t, entity.ReferenceTypeSale, out.ReferenceType)
	assert.Equal(t, sale.ID, out.ReferenceID)
	require.NotNil(t, out.UnitCost)
	assert.True(t, out.UnitCost.Equal(decimal.RequireFromString("107.5")))

	// una compra posterior mueve el HPP pero no la venta ya registrada
	f.stockIn(t, "p1", 2, "200")
	avg, err := f.ledger.AverageCost(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, avg.AverageCost.Equal(decimal.RequireFromString("107.5")))

	stored, err := f.checkout.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.CostTotal.Equal(decimal.NewFromInt(215)))

	var income, cogs decimal.Decimal
	for _, tx := range f.transactions(t) {
		assert.Equal(t, sale.ID, tx.Reference)
		assert.Equal(t, "card", tx.PaymentMethod)
		switch tx.Category {
		case entity.CategorySales:
			income = tx.Amount
		case entity.CategoryCOGS:
			cogs = tx.Amount
		}
	}
	assert.True(t, income.Equal(decimal.NewFromInt(300)))
	assert.True(t, cogs.Equal(decimal.NewFromInt(215)))
}

func TestCreateSale_InsufficientStockLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "10")
	f.product(t, "p2", "10")
	f.stockIn(t, "p1", 8, "5")
	f.stockIn(t, "p2", 1, "5")
	ctx := context.Background()

	_, err := f.checkout.CreateSale(ctx, cashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 5}},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p2", stockErr.ProductID)
	assert.Equal(t, 4, stockErr.Shortfall())

	assert.Equal(t, 8, f.stock(t, "p1"))
	assert.Equal(t, 1, f.stock(t, "p2"))
	movs, _ := f.store.Repos().Movements.List(ctx, repository.MovementFilter{ReferenceType: entity.ReferenceTypeSale})
	assert.Empty(t, movs)
	assert.Empty(t, f.transactions(t))
}

func TestCreateSale_RepeatedLinesAreAggregated(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "10")
	f.stockIn(t, "p1", 8, "5")

	_, err := f.checkout.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: "p1", Quantity: 5}, {ProductID: "p1", Quantity: 5}},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Requested)
	assert.Equal(t, 8, f.stock(t, "p1"))
}

func TestCreateSale_PriceOverride(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "10")
	f.stockIn(t, "p1", 4, "5")
	price := decimal.RequireFromString("8.5")

	sale, err := f.checkout.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: "p1", Quantity: 2, SellingPrice: &price}},
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(17)))
	assert.True(t, sale.CostTotal.Equal(decimal.NewFromInt(10)))
}

func TestCreateSale_Validation(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "10")
	ctx := context.Background()

	tests := []struct {
		name  string
		actor string
		in    dto.CreateSaleRequest
		field string
	}{
		{"sin actor", "", dto.CreateSaleRequest{Items: []dto.SaleLineRequest{{ProductID: "p1", Quantity: 1}}}, "actor_id"},
		{"sin líneas", cashier, dto.CreateSaleRequest{}, "items"},
		{"cantidad cero", cashier, dto.CreateSaleRequest{Items: []dto.SaleLineRequest{{ProductID: "p1"}}}, "items[0].quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.checkout.CreateSale(ctx, tt.actor, tt.in)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	_, err := f.checkout.CreateSale(ctx, cashier, dto.CreateSaleRequest{Items: []dto.SaleLineRequest{{ProductID: "ghost", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetSale_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.GetSale(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteServiceTicket(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "150")
	f.stockIn(t, "p1", 5, "100")
	f.stockIn(t, "p1", 3, "120")
	ctx := context.Background()

	sale, err := f.service.CompleteServiceTicket(ctx, "tech-1", "TCK-1", dto.CompleteServiceRequest{
		ServiceFee: decimal.NewFromInt(50),
		Parts:      []dto.SaleLineRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleKindService, sale.Kind)
	assert.Equal(t, "TCK-1", sale.ReferenceID)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(200)))
	assert.True(t, sale.CostTotal.Equal(decimal.RequireFromString("107.5")))
	assert.Equal(t, 7, f.stock(t, "p1"))

	movs, err := f.store.Repos().Movements.List(ctx, repository.MovementFilter{ReferenceType: entity.ReferenceTypeService})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "TCK-1", movs[0].ReferenceID)

	txs := f.transactions(t)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, entity.ReferenceTypeService, tx.ReferenceType)
		if tx.Type == entity.TransactionTypeIncome {
			assert.Equal(t, entity.CategoryService, tx.Category)
			assert.True(t, tx.Amount.Equal(decimal.NewFromInt(200)))
		} else {
			assert.Equal(t, entity.SubcategoryServiceParts, tx.Subcategory)
			assert.True(t, tx.Amount.Equal(decimal.RequireFromString("107.5")))
		}
	}

	_, err = f.service.CompleteServiceTicket(ctx, "tech-1", "TCK-1", dto.CompleteServiceRequest{ServiceFee: decimal.NewFromInt(50)})
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Len(t, f.transactions(t), 2)
	assert.Equal(t, 7, f.stock(t, "p1"))
}

func TestCompleteServiceTicket_FeeOnly(t *testing.T) {
	f := newFixture(t)
	sale, err := f.service.CompleteServiceTicket(context.Background(), "tech-1", "TCK-2", dto.CompleteServiceRequest{
		ServiceFee: decimal.NewFromInt(75),
	})
	require.NoError(t, err)
	assert.True(t, sale.CostTotal.IsZero())
	txs := f.transactions(t)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TransactionTypeIncome, txs[0].Type)
}

func TestCompleteServiceTicket_Empty(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CompleteServiceTicket(context.Background(), "tech-1", "TCK-3", dto.CompleteServiceRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
