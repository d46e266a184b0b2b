package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// SaleRepository persiste ventas y consumos de servicio con sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// ExistsForReference indica si ya hay una venta del tipo dado para el documento externo.
	ExistsForReference(ctx context.Context, kind, referenceID string) (bool, error)
}
