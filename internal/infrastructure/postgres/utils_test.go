package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert product: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})
	check := fmt.Errorf("increment stock: %w", &pgconn.PgError{Code: "23514", ConstraintName: "products_stock_check"})

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isCheckViolation(unique))
	assert.True(t, isCheckViolation(check))
	assert.False(t, isUniqueViolation(check))

	// un texto con el código no basta: solo cuenta el SQLSTATE
	assert.False(t, isUniqueViolation(errors.New("driver: 23505")))
	assert.Empty(t, pgErrorCode(errors.New("timeout")))
}
