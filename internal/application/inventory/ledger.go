package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// Posting movimiento a registrar en el ledger.
type Posting struct {
	ProductID     string
	MovementType  string
	Quantity      int
	UnitCost      *decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Notes         string
	ActorID       string
	At            time.Time
}

func (p Posting) validate() error {
	if err := domain.RequireActor(p.ActorID); err != nil {
		return err
	}
	if p.ProductID == "" {
		return domain.NewValidation("product_id", "requerido")
	}
	if !entity.IsValidMovementType(p.MovementType) {
		return domain.NewValidation("movement_type", fmt.Sprintf("tipo %q no soportado", p.MovementType))
	}
	if p.Quantity <= 0 {
		return domain.NewValidation("quantity", "debe ser mayor a cero")
	}
	if p.UnitCost != nil && p.UnitCost.IsNegative() {
		return domain.NewValidation("unit_cost", "no puede ser negativo")
	}
	if p.UnitCost != nil {
		if err := domain.RequireMoneyScale("unit_cost", *p.UnitCost); err != nil {
			return err
		}
	}
	if p.ReferenceType == "" {
		return domain.NewValidation("reference_type", "requerido")
	}
	return nil
}

// PostMovementInTx agrega el movimiento al ledger y aplica el delta de stock con un
// incremento relativo, ambos dentro de la transacción de repos. Bloquea la fila del
// producto (SELECT FOR UPDATE) antes de validar stock, de modo que el par
// (append, incremento) queda serializado por producto.
// Devuelve el movimiento insertado y el producto tal como estaba antes del movimiento.
func PostMovementInTx(ctx context.Context, repos ports.TxRepos, p Posting) (*entity.StockMovement, *entity.Product, error) {
	if err := p.validate(); err != nil {
		return nil, nil, err
	}
	product, err := repos.Products.GetForUpdate(ctx, p.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.NewNotFound("producto", p.ProductID)
	}
	if !product.IsActive {
		return nil, nil, &domain.InvalidStateError{Entity: "producto", ID: product.ID, Current: "inactive", Action: "mover stock de"}
	}

	inbound := entity.IsInbound(p.MovementType)
	if !inbound && product.Stock < p.Quantity {
		return nil, nil, &domain.InsufficientStockError{ProductID: product.ID, Requested: p.Quantity, Available: product.Stock}
	}

	at := p.At
	if at.IsZero() {
		at = time.Now()
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     p.ProductID,
		MovementType:  p.MovementType,
		Quantity:      p.Quantity,
		UnitCost:      p.UnitCost,
		ReferenceType: p.ReferenceType,
		ReferenceID:   p.ReferenceID,
		Notes:         p.Notes,
		CreatedAt:     at,
		CreatedBy:     p.ActorID,
	}
	if err := repos.Movements.Append(ctx, mov); err != nil {
		return nil, nil, err
	}
	newStock, err := repos.Products.IncrementStock(ctx, p.ProductID, mov.SignedQuantity())
	if err != nil {
		return nil, nil, err
	}
	if newStock < 0 {
		// La proyección estaba desfasada respecto al lock; el llamador hace rollback.
		return nil, nil, &domain.InsufficientStockError{ProductID: product.ID, Requested: p.Quantity, Available: newStock + p.Quantity}
	}
	return mov, product, nil
}
