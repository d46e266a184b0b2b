package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
)

func TestValidateStruct_ReportsJSONFieldNames(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		field string
	}{
		{"venta sin líneas", dto.CreateSaleRequest{}, "items"},
		{"línea sin producto", dto.CreateSaleRequest{Items: []dto.SaleLineRequest{{Quantity: 1}}}, "items[0].product_id"},
		{"ítem con cantidad cero", dto.CreatePurchaseOrderRequest{SupplierID: "s", Items: []dto.AddItemRequest{{ProductID: "p", Quantity: 0}}}, "items[0].quantity"},
		{"estado de saldo desconocido", dto.SetOutstandingStatusRequest{Status: "lost"}, "status"},
		{"dirección inválida", dto.AdjustStockRequest{ProductID: "p", Direction: "sideways", Quantity: 1, Reason: "x"}, "direction"},
		{"sku vacío", dto.CreateProductRequest{Name: "Teclado"}, "sku"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStruct(tt.in)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	assert.NoError(t, validateStruct(dto.CreateSaleRequest{Items: []dto.SaleLineRequest{{ProductID: "p", Quantity: 2}}}))
	assert.NoError(t, validateStruct(dto.CompleteServiceRequest{}))
}

func TestPageFromQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		page, err := pageFromQuery(c)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(page)
	})

	cases := map[string]int{
		"/":                    http.StatusOK,
		"/?limit=50&offset=10": http.StatusOK,
		"/?limit=500":          http.StatusBadRequest,
		"/?limit=abc":          http.StatusBadRequest,
	}
	for target, want := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, target)
	}
}
