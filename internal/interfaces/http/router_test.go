package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/finance"
	"github.com/jhoicas/ledger-api/internal/application/inventory"
	"github.com/jhoicas/ledger-api/internal/application/purchasing"
	"github.com/jhoicas/ledger-api/internal/application/sales"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/ledger-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ledger-api/pkg/jwt"
)

func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	repos := s.Repos()
	log := zerolog.Nop()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(repos.Products),
		Ledger:        inventory.NewLedgerUseCase(s, repos.Products, repos.Movements, log),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Products),
		Orders:        purchasing.NewOrderUseCase(s, repos.PurchaseOrders, log),
		Receiving:     purchasing.NewReceivingUseCase(s, log),
		Outstanding:   purchasing.NewOutstandingUseCase(s, log),
		Finance:       finance.NewUseCase(s, repos.Finance, repos.Products, nil, log),
		Checkout:      sales.NewCheckoutUseCase(s, repos.Sales, log),
		Service:       sales.NewServiceUseCase(s, log),
		JWTSecret:     testJWTSecret,
	})
	return app
}

// call hace la petición como role y decodifica la respuesta en out si no es nil.
func call(t *testing.T, app *fiber.App, role, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAPI_PurchaseReceiveSellFlow(t *testing.T) {
	app := newAPI(t)

	var product dto.ProductResponse
	code := call(t, app, pkgjwt.RoleWarehouse, http.MethodPost, "/api/products",
		dto.CreateProductRequest{SKU: "KB-01", Name: "Teclado", SellingPrice: decimal.NewFromInt(150)}, &product)
	require.Equal(t, http.StatusCreated, code)

	var po dto.PurchaseOrderResponse
	code = call(t, app, pkgjwt.RoleWarehouse, http.MethodPost, "/api/purchase-orders", dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1",
		Items:      []dto.AddItemRequest{{ProductID: product.ID, Quantity: 4, UnitCost: decimal.NewFromInt(100)}},
	}, &po)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, po.Items, 1)

	// el almacén no aprueba
	code = call(t, app, pkgjwt.RoleWarehouse, http.MethodPost, "/api/purchase-orders/"+po.ID+"/approve", nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code = call(t, app, pkgjwt.RoleFinance, http.MethodPost, "/api/purchase-orders/"+po.ID+"/approve", nil, &po)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "confirmed", po.Status)

	var receipt dto.ReceiptResponse
	code = call(t, app, pkgjwt.RoleWarehouse, http.MethodPost, "/api/purchase-orders/items/"+po.Items[0].ID+"/receive",
		dto.ReceiveItemRequest{Quantity: 4}, &receipt)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "received", receipt.OrderStatus)
	assert.True(t, receipt.AverageCost.Equal(decimal.NewFromInt(100)))

	var errBody dto.ErrorResponse
	code = call(t, app, pkgjwt.RoleWarehouse, http.MethodPost, "/api/purchase-orders/items/"+po.Items[0].ID+"/receive",
		dto.ReceiveItemRequest{Quantity: 1}, &errBody)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_STATE", errBody.Code)

	code = call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: product.ID, Quantity: 5}},
	}, &errBody)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	var sale dto.SaleResponse
	code = call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	}, &sale)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, sale.CostTotal.Equal(decimal.NewFromInt(100)))

	q := url.Values{}
	q.Set("start", time.Now().Add(-time.Hour).UTC().Format(time.RFC3339))
	q.Set("end", time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
	var summary dto.FinancialSummaryResponse
	code = call(t, app, pkgjwt.RoleFinance, http.MethodGet, "/api/finance/summary?"+q.Encode(), nil, &summary)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(150)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(500)), "compra 400 + COGS 100")
	assert.True(t, summary.InventoryValue.Equal(decimal.NewFromInt(300)))

	var movements dto.StockMovementListResponse
	code = call(t, app, pkgjwt.RoleFinance, http.MethodGet, "/api/inventory/movements?product_id="+product.ID, nil, &movements)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, movements.Items, 2)
	assert.Equal(t, "in", movements.Items[0].MovementType)
	assert.Equal(t, "out", movements.Items[1].MovementType)
}

func TestAPI_ErrorMapping(t *testing.T) {
	app := newAPI(t)
	var errBody dto.ErrorResponse

	code := call(t, app, pkgjwt.RoleWarehouse, http.MethodGet, "/api/purchase-orders/ghost", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	code = call(t, app, pkgjwt.RoleWarehouse, http.MethodPost, "/api/inventory/adjustments",
		dto.AdjustStockRequest{ProductID: "ghost", Direction: "sideways", Quantity: 1, Reason: "x"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", errBody.Code)

	code = call(t, app, pkgjwt.RoleFinance, http.MethodGet, "/api/finance/summary?start=2024-05-01", nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, code)

	code = call(t, app, pkgjwt.RoleFinance, http.MethodGet, "/api/finance/summary?start=ayer&end=hoy", nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, code)

	code = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/finance/reconciliation", nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAPI_InvalidBody(t *testing.T) {
	app := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleCashier))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
