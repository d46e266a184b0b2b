package inventory

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/inventory"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/ledger-api/internal/application/inventory")

// Direcciones de ajuste manual.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Tipos de movimiento de garantía.
const (
	WarrantyReturn   = "return"
	WarrantyExchange = "exchange"
)

// LedgerUseCase expone el ledger de stock: ajustes, garantías, export, HPP y reparación.
type LedgerUseCase struct {
	txRunner  ports.TxRunner
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	log       zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner ports.TxRunner,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:  txRunner,
		products:  products,
		movements: movements,
		log:       log.With().Str("component", "ledger").Logger(),
	}
}

// AdjustStockInput ajuste manual de stock (conteo físico, merma, hallazgo).
type AdjustStockInput struct {
	ProductID string
	Direction string
	Quantity  int
	UnitCost  *decimal.Decimal
	Reason    string
	ActorID   string
}

// AdjustStock registra un ajuste con referenceType adjustment. Las salidas se valorizan
// al HPP vigente y validan stock; los ajustes no generan asientos financieros.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, in AdjustStockInput) (*dto.StockMovementResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.AdjustStock")
	defer span.End()

	if in.Reason == "" {
		return nil, domain.NewValidation("reason", "requerido para ajustes")
	}
	var movementType string
	switch in.Direction {
	case DirectionIn:
		movementType = entity.MovementTypeIn
	case DirectionOut:
		movementType = entity.MovementTypeOut
		if in.UnitCost != nil {
			return nil, domain.NewValidation("unit_cost", "solo aplica a ajustes de entrada")
		}
	default:
		return nil, domain.NewValidation("direction", "debe ser in u out")
	}

	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		unitCost := in.UnitCost
		if movementType == entity.MovementTypeOut && in.ProductID != "" {
			avg, err := ComputeAverageCost(ctx, repos.Products, repos.Movements, in.ProductID)
			if err != nil {
				return err
			}
			unitCost = &avg
		}
		var err error
		mov, _, err = PostMovementInTx(ctx, repos, Posting{
			ProductID:     in.ProductID,
			MovementType:  movementType,
			Quantity:      in.Quantity,
			UnitCost:      unitCost,
			ReferenceType: entity.ReferenceTypeAdjustment,
			ReferenceID:   in.ProductID,
			Notes:         in.Reason,
			ActorID:       in.ActorID,
		})
		if err != nil {
			return err
		}
		if movementType == entity.MovementTypeIn && in.UnitCost != nil {
			_, err = RefreshAverageCost(ctx, repos.Products, repos.Movements, in.ProductID)
		}
		return err
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("product_id", in.ProductID).Str("direction", in.Direction).Msg("ajuste rechazado")
		return nil, err
	}
	span.SetAttributes(attribute.String("product_id", in.ProductID), attribute.Int("quantity", in.Quantity))
	uc.log.Info().Ctx(ctx).Str("product_id", in.ProductID).Str("direction", in.Direction).Int("quantity", in.Quantity).
		Str("actor_id", in.ActorID).Msg("ajuste de stock registrado")
	return ToStockMovementResponse(mov), nil
}

// WarrantyInput devolución o cambio en garantía.
type WarrantyInput struct {
	ProductID   string
	Kind        string
	Quantity    int
	ReferenceID string
	Notes       string
	ActorID     string
}

// RegisterWarrantyMovement registra warranty_return (+stock) o warranty_exchange (−stock).
// Ninguno participa del HPP.
func (uc *LedgerUseCase) RegisterWarrantyMovement(ctx context.Context, in WarrantyInput) (*dto.StockMovementResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.RegisterWarrantyMovement")
	defer span.End()

	var movementType string
	switch in.Kind {
	case WarrantyReturn:
		movementType = entity.MovementTypeWarrantyReturn
	case WarrantyExchange:
		movementType = entity.MovementTypeWarrantyExchange
	default:
		return nil, domain.NewValidation("kind", "debe ser return o exchange")
	}
	if in.ReferenceID == "" {
		return nil, domain.NewValidation("reference_id", "se requiere el documento de garantía")
	}

	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		mov, _, err = PostMovementInTx(ctx, repos, Posting{
			ProductID:     in.ProductID,
			MovementType:  movementType,
			Quantity:      in.Quantity,
			ReferenceType: entity.ReferenceTypeWarranty,
			ReferenceID:   in.ReferenceID,
			Notes:         in.Notes,
			ActorID:       in.ActorID,
		})
		return err
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("product_id", in.ProductID).Str("kind", in.Kind).Msg("movimiento de garantía rechazado")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("product_id", in.ProductID).Str("kind", in.Kind).Int("quantity", in.Quantity).Msg("movimiento de garantía registrado")
	return ToStockMovementResponse(mov), nil
}

// GetStockMovements export de solo lectura del ledger en orden de inserción.
func (uc *LedgerUseCase) GetStockMovements(ctx context.Context, filter repository.MovementFilter) (*dto.StockMovementListResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.GetStockMovements")
	defer span.End()

	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToStockMovementResponse(m))
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.NewPageResponse(filter.Limit, filter.Offset, len(list)),
	}, nil
}

// ListFor todos los movimientos del producto en orden de inserción.
func (uc *LedgerUseCase) ListFor(ctx context.Context, productID string) ([]dto.StockMovementResponse, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("producto", productID)
	}
	list, err := uc.movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToStockMovementResponse(m))
	}
	return items, nil
}

// AverageCost HPP del producto calculado desde el ledger.
func (uc *LedgerUseCase) AverageCost(ctx context.Context, productID string) (*dto.AverageCostResponse, error) {
	avg, err := ComputeAverageCost(ctx, uc.products, uc.movements, productID)
	if err != nil {
		return nil, err
	}
	return &dto.AverageCostResponse{ProductID: productID, AverageCost: avg}, nil
}

// VerifyLedger compara stock y HPP almacenados con lo que deriva el ledger. No modifica nada.
func (uc *LedgerUseCase) VerifyLedger(ctx context.Context, productID string) (*dto.LedgerCheckResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.VerifyLedger")
	defer span.End()

	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("producto", productID)
	}
	movs, err := uc.movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return checkProjection(product, movs), nil
}

// RecomputeFromLedger reconstruye stock y HPP del producto desde el ledger y sobrescribe la
// proyección. Es la única operación que fija el stock en valor absoluto.
func (uc *LedgerUseCase) RecomputeFromLedger(ctx context.Context, productID, actorID string) (*dto.LedgerRepairResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.RecomputeFromLedger")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	var out *dto.LedgerRepairResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		product, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NewNotFound("producto", productID)
		}
		movs, err := repos.Movements.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		check := checkProjection(product, movs)
		if err := repos.Products.OverwriteProjection(ctx, productID, check.LedgerStock, check.LedgerAverageCost); err != nil {
			return err
		}
		out = &dto.LedgerRepairResponse{
			Before:   *check,
			Stock:    check.LedgerStock,
			Average:  check.LedgerAverageCost,
			Repaired: !check.Consistent,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Info()
	if out.Repaired {
		ev = uc.log.Warn()
	}
	ev.Ctx(ctx).Str("product_id", productID).Str("actor_id", actorID).
		Int("stored_stock", out.Before.StoredStock).Int("ledger_stock", out.Stock).
		Bool("repaired", out.Repaired).Msg("proyección recalculada desde el ledger")
	return out, nil
}

func checkProjection(product *entity.Product, movs []*entity.StockMovement) *dto.LedgerCheckResponse {
	ledgerStock := inventory.StockFromLedger(movs)
	ledgerAvg := inventory.AverageCostFromLedger(movs, product.LastPurchasePrice)
	return &dto.LedgerCheckResponse{
		ProductID:         product.ID,
		StoredStock:       product.Stock,
		LedgerStock:       ledgerStock,
		StoredAverageCost: product.AverageCost,
		LedgerAverageCost: ledgerAvg,
		Consistent:        product.Stock == ledgerStock && product.AverageCost.Equal(ledgerAvg),
	}
}

// ToStockMovementResponse convierte la entidad al DTO de salida.
func ToStockMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	if m == nil {
		return nil
	}
	return &dto.StockMovementResponse{
		ID:            m.ID,
		Seq:           m.Seq,
		ProductID:     m.ProductID,
		MovementType:  m.MovementType,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
