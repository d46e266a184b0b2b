package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/tern/v2/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

func TestMigrations_SequenceAndContent(t *testing.T) {
	fsys, err := migrationsFS()
	require.NoError(t, err)

	paths, err := migrate.FindMigrations(fsys)
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	assert.Equal(t, "001_init.sql", paths[0])

	body, err := fs.ReadFile(fsys, paths[0])
	require.NoError(t, err)
	sql := string(body)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS stock_movements")
	assert.Contains(t, sql, "append-only")
	assert.NotContains(t, sql, "{{", "tern evalúa las migraciones como plantillas")
}

// Los montos derivados de costos con 4 decimales no deben redondearse al persistir.
func TestMigrations_MoneyColumnsKeepCostScale(t *testing.T) {
	fsys, err := migrationsFS()
	require.NoError(t, err)
	body, err := fs.ReadFile(fsys, "001_init.sql")
	require.NoError(t, err)

	for i, line := range strings.Split(string(body), "\n") {
		if !strings.Contains(line, "NUMERIC") {
			continue
		}
		assert.Contains(t, line, "NUMERIC(18, 4)", "línea %d: %s", i+1, strings.TrimSpace(line))
	}
}

func TestTransactionWhere(t *testing.T) {
	clause, args := transactionWhere(entity.TransactionFilter{Type: entity.TransactionTypeExpense})
	assert.Equal(t, " WHERE true AND type = $1", clause)
	assert.Equal(t, []any{"expense"}, args)

	clause, args = transactionWhere(entity.TransactionFilter{})
	assert.Equal(t, " WHERE true", clause)
	assert.Empty(t, args)
}
