package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
)

func TestProductUseCase_Lifecycle(t *testing.T) {
	uc := NewProductUseCase(memory.NewStore().Repos().Products)
	ctx := context.Background()

	created, err := uc.Create(ctx, "admin", dto.CreateProductRequest{
		SKU: "KB-01", Name: "Teclado", SellingPrice: decimal.NewFromInt(150), MinStock: 2, MaxStock: 10,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, 0, created.Stock)
	assert.True(t, created.AverageCost.IsZero())

	_, err = uc.Create(ctx, "admin", dto.CreateProductRequest{SKU: "KB-01", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	name := "Teclado mecánico"
	updated, err := uc.Update(ctx, "admin", created.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	minStock := 20
	_, err = uc.Update(ctx, "admin", created.ID, dto.UpdateProductRequest{MinStock: &minStock})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "min_stock mayor que max_stock")

	require.NoError(t, uc.Deactivate(ctx, "admin", created.ID))
	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := uc.List(ctx, true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, active.Items)
	all, err := uc.List(ctx, false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
}

func TestProductUseCase_Validation(t *testing.T) {
	uc := NewProductUseCase(memory.NewStore().Repos().Products)
	ctx := context.Background()

	_, err := uc.Create(ctx, "", dto.CreateProductRequest{SKU: "A", Name: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, "admin", dto.CreateProductRequest{Name: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, "admin", dto.CreateProductRequest{SKU: "A", Name: "A", SellingPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Deactivate(ctx, "admin", "ghost"), domain.ErrNotFound)
}
