package finance

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/application/dto"
)

// SummaryCache cache de agregados financieros por rango cerrado. Un fallo del cache nunca
// bloquea la consulta: se recalcula desde la base. InventoryValue no se cachea.
type SummaryCache interface {
	Get(ctx context.Context, start, end time.Time) (*dto.FinancialSummaryResponse, bool, error)
	Set(ctx context.Context, start, end time.Time, summary *dto.FinancialSummaryResponse) error
	// Invalidate descarta todos los rangos cacheados.
	Invalidate(ctx context.Context) error
}
