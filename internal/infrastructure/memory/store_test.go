package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

func seedProduct(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.Repos().Products.Create(context.Background(), &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: id, IsActive: true, CreatedAt: time.Now(),
	}))
}

func TestStore_RunCommits(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1")
	ctx := context.Background()

	err := s.Run(ctx, func(ctx context.Context, r ports.TxRepos) error {
		require.NoError(t, r.Movements.Append(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", MovementType: entity.MovementTypeIn, Quantity: 4}))
		_, err := r.Products.IncrementStock(ctx, "p1", 4)
		return err
	})
	require.NoError(t, err)

	p, err := s.Repos().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
	sum, err := s.Repos().Movements.SignedQuantitySum(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, sum)
}

func TestStore_RunRollsBackEverything(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1")
	ctx := context.Background()
	boom := errors.New("connection reset")

	err := s.Run(ctx, func(ctx context.Context, r ports.TxRepos) error {
		require.NoError(t, r.Movements.Append(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", MovementType: entity.MovementTypeIn, Quantity: 4}))
		_, err := r.Products.IncrementStock(ctx, "p1", 4)
		require.NoError(t, err)
		require.NoError(t, r.Finance.Create(ctx, &entity.FinancialTransaction{ID: "t1", Type: entity.TransactionTypeExpense, Amount: decimal.NewFromInt(10)}))
		number, err := r.PurchaseOrders.NextPONumber(ctx, time.Now())
		require.NoError(t, err)
		assert.NotEmpty(t, number)
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Repos().Products.GetByID(ctx, "p1")
	assert.Equal(t, 0, p.Stock)
	movs, _ := s.Repos().Movements.ListByProduct(ctx, "p1")
	assert.Empty(t, movs)
	txs, _ := s.Repos().Finance.List(ctx, entity.TransactionFilter{})
	assert.Empty(t, txs)
}

func TestStore_RunHonoursCancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Run(ctx, func(context.Context, ports.TxRepos) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_ConcurrentIncrementsAreNotLost(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Run(ctx, func(ctx context.Context, r ports.TxRepos) error {
				_, err := r.Products.IncrementStock(ctx, "p1", 1)
				return err
			})
		}()
	}
	wg.Wait()
	p, _ := s.Repos().Products.GetByID(ctx, "p1")
	assert.Equal(t, 50, p.Stock)
}

func TestProductRepo_DuplicateSKU(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1")
	err := s.Repos().Products.Create(context.Background(), &entity.Product{ID: "p2", SKU: "SKU-p1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_ListOrderedBySKU(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Now()
	for i, sku := range []string{"SKU-C", "SKU-A", "SKU-B"} {
		require.NoError(t, s.Repos().Products.Create(ctx, &entity.Product{
			ID: sku, SKU: sku, Name: sku, IsActive: true, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := s.Repos().Products.List(ctx, repository.ProductFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"SKU-A", "SKU-B", "SKU-C"}, []string{list[0].SKU, list[1].SKU, list[2].SKU})

	page, err := s.Repos().Products.List(ctx, repository.ProductFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "SKU-B", page[0].SKU)
}
