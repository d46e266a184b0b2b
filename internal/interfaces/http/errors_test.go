package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
)

func TestWriteError_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{"validación con campo", domain.NewValidation("unit_cost", "máximo 4 decimales"), http.StatusBadRequest, "VALIDATION", "unit_cost"},
		{"no encontrado", domain.NewNotFound("product", "p-1"), http.StatusNotFound, "NOT_FOUND", ""},
		{"stock insuficiente", &domain.InsufficientStockError{ProductID: "p-1", Requested: 3, Available: 1}, http.StatusConflict, "INSUFFICIENT_STOCK", ""},
		{"sentinel de stock envuelto", fmt.Errorf("increment stock: %w", domain.ErrInsufficientStock), http.StatusConflict, "INSUFFICIENT_STOCK", ""},
		{"duplicado", fmt.Errorf("insert: %w", domain.ErrDuplicate), http.StatusConflict, "DUPLICATE", ""},
		{"desconocido", errors.New("boom"), http.StatusInternalServerError, "INTERNAL", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.field, body.Field)
		})
	}
}
