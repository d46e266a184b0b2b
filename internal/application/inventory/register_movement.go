package inventory

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/application/dto"
)

// AdjustStockFromRequest adapta el request HTTP al caso de uso AdjustStock.
func (uc *LedgerUseCase) AdjustStockFromRequest(ctx context.Context, actorID string, in dto.AdjustStockRequest) (*dto.StockMovementResponse, error) {
	return uc.AdjustStock(ctx, AdjustStockInput{
		ProductID: in.ProductID,
		Direction: in.Direction,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reason:    in.Reason,
		ActorID:   actorID,
	})
}

// RegisterWarrantyFromRequest adapta el request HTTP al caso de uso RegisterWarrantyMovement.
func (uc *LedgerUseCase) RegisterWarrantyFromRequest(ctx context.Context, actorID string, in dto.WarrantyMovementRequest) (*dto.StockMovementResponse, error) {
	return uc.RegisterWarrantyMovement(ctx, WarrantyInput{
		ProductID:   in.ProductID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		ActorID:     actorID,
	})
}
