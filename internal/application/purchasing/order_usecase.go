package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/ledger-api/internal/application/purchasing")

const entityOrder = "orden de compra"
const entityItem = "ítem de orden"

// OrderUseCase ciclo de vida de la orden de compra: creación, ítems, aprobación y cancelación.
type OrderUseCase struct {
	txRunner ports.TxRunner
	orders   repository.PurchaseOrderRepository
	log      zerolog.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner ports.TxRunner, orders repository.PurchaseOrderRepository, log zerolog.Logger) *OrderUseCase {
	return &OrderUseCase{
		txRunner: txRunner,
		orders:   orders,
		log:      log.With().Str("component", "purchase_orders").Logger(),
	}
}

// CreateOrder crea la orden en draft con número secuencial. Si trae ítems, cada uno pasa por
// la misma lógica de AddItem (y la orden queda en pending).
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actorID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	ctx, span := tracer.Start(ctx, "purchasing.CreateOrder")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if in.SupplierID == "" {
		return nil, domain.NewValidation("supplier_id", "requerido")
	}

	var out *dto.PurchaseOrderResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		now := time.Now()
		number, err := repos.PurchaseOrders.NextPONumber(ctx, now)
		if err != nil {
			return err
		}
		po := &entity.PurchaseOrder{
			ID:                   uuid.New().String(),
			PONumber:             number,
			SupplierID:           in.SupplierID,
			Status:               entity.POStatusDraft,
			TotalAmount:          decimal.Zero,
			OrderDate:            now,
			ExpectedDeliveryDate: in.ExpectedDeliveryDate,
			Notes:                in.Notes,
			CreatedBy:            actorID,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := repos.PurchaseOrders.Create(ctx, po); err != nil {
			return err
		}
		for _, it := range in.Items {
			if _, err := addItemInTx(ctx, repos, po, it); err != nil {
				return err
			}
		}
		out, err = loadOrderResponse(ctx, repos.PurchaseOrders, po.ID)
		return err
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("supplier_id", in.SupplierID).Msg("orden de compra rechazada")
		return nil, err
	}
	span.SetAttributes(attribute.String("po_id", out.ID))
	uc.log.Info().Ctx(ctx).Str("po_id", out.ID).Str("po_number", out.PONumber).Int("items", len(out.Items)).
		Str("actor_id", actorID).Msg("orden de compra creada")
	return out, nil
}

// AddItem agrega una línea, recalcula el total y pasa la orden de draft a pending.
func (uc *OrderUseCase) AddItem(ctx context.Context, actorID, poID string, in dto.AddItemRequest) (*dto.PurchaseOrderItemResponse, error) {
	ctx, span := tracer.Start(ctx, "purchasing.AddItem")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	var item *entity.PurchaseOrderItem
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		po, err := lockOrder(ctx, repos.PurchaseOrders, poID)
		if err != nil {
			return err
		}
		item, err = addItemInTx(ctx, repos, po, in)
		return err
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("po_id", poID).Str("product_id", in.ProductID).Msg("ítem rechazado")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("po_id", poID).Str("item_id", item.ID).Str("product_id", item.ProductID).
		Int("quantity", item.OrderedQuantity).Msg("ítem agregado a la orden")
	return toItemResponse(item), nil
}

// RemoveItem elimina una línea. Solo con la orden en pending y sin recepciones en el ítem.
// Sin ítems restantes la orden vuelve a draft.
func (uc *OrderUseCase) RemoveItem(ctx context.Context, actorID, poID, itemID string) error {
	ctx, span := tracer.Start(ctx, "purchasing.RemoveItem")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return err
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		po, err := lockOrder(ctx, repos.PurchaseOrders, poID)
		if err != nil {
			return err
		}
		if po.Status != entity.POStatusPending {
			return &domain.InvalidStateError{Entity: entityOrder, ID: po.ID, Current: po.Status, Action: "eliminar ítems de"}
		}
		item, err := repos.PurchaseOrders.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.PurchaseOrderID != po.ID {
			return domain.NewNotFound(entityItem, itemID)
		}
		if item.HasReceipts() {
			return &domain.InvalidStateError{Entity: entityItem, ID: item.ID, Current: "received", Action: "eliminar"}
		}
		if err := repos.PurchaseOrders.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		if _, err := repos.PurchaseOrders.RecalculateTotal(ctx, po.ID); err != nil {
			return err
		}
		remaining, err := repos.PurchaseOrders.ListItems(ctx, po.ID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			po.Status = entity.POStatusDraft
			po.UpdatedAt = time.Now()
			return repos.PurchaseOrders.Update(ctx, po)
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("po_id", poID).Str("item_id", itemID).Msg("eliminación de ítem rechazada")
		return err
	}
	uc.log.Info().Ctx(ctx).Str("po_id", poID).Str("item_id", itemID).Str("actor_id", actorID).Msg("ítem eliminado")
	return nil
}

// Approve pending → confirmed, registrando aprobador y fecha.
func (uc *OrderUseCase) Approve(ctx context.Context, poID, approverID string) (*dto.PurchaseOrderResponse, error) {
	ctx, span := tracer.Start(ctx, "purchasing.Approve")
	defer span.End()

	if err := domain.RequireActor(approverID); err != nil {
		return nil, err
	}
	var out *dto.PurchaseOrderResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		po, err := lockOrder(ctx, repos.PurchaseOrders, poID)
		if err != nil {
			return err
		}
		if po.Status != entity.POStatusPending {
			return &domain.InvalidStateError{Entity: entityOrder, ID: po.ID, Current: po.Status, Action: "aprobar"}
		}
		items, err := repos.PurchaseOrders.ListItems(ctx, po.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return &domain.InvalidStateError{Entity: entityOrder, ID: po.ID, Current: po.Status, Action: "aprobar sin ítems"}
		}
		now := time.Now()
		po.Status = entity.POStatusConfirmed
		po.ApprovedBy = approverID
		po.ApprovedDate = &now
		po.UpdatedAt = now
		if err := repos.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		out, err = loadOrderResponse(ctx, repos.PurchaseOrders, po.ID)
		return err
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("po_id", poID).Msg("aprobación rechazada")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("po_id", poID).Str("approved_by", approverID).Msg("orden de compra aprobada")
	return out, nil
}

// Cancel cancela la orden desde draft, pending o confirmed siempre que ningún ítem tenga
// recepciones. Nada se registró todavía en el ledger ni en finanzas, así que no hay reversos.
// Con recepciones, el saldo se resuelve ítem por ítem con SetOutstandingStatus.
func (uc *OrderUseCase) Cancel(ctx context.Context, actorID, poID, reason string) (*dto.PurchaseOrderResponse, error) {
	ctx, span := tracer.Start(ctx, "purchasing.Cancel")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, domain.NewValidation("reason", "requerido para cancelar")
	}
	var out *dto.PurchaseOrderResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		po, err := lockOrder(ctx, repos.PurchaseOrders, poID)
		if err != nil {
			return err
		}
		if !po.CanTransitionTo(entity.POStatusCancelled) {
			return &domain.InvalidStateError{Entity: entityOrder, ID: po.ID, Current: po.Status, Action: "cancelar"}
		}
		_, received, err := repos.PurchaseOrders.QuantityTotals(ctx, po.ID)
		if err != nil {
			return err
		}
		if received > 0 {
			return &domain.InvalidStateError{Entity: entityOrder, ID: po.ID, Current: po.Status, Action: "cancelar con recepciones"}
		}
		now := time.Now()
		po.Status = entity.POStatusCancelled
		po.CancelledBy = actorID
		po.CancelledDate = &now
		po.CancelReason = reason
		po.UpdatedAt = now
		if err := repos.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		out, err = loadOrderResponse(ctx, repos.PurchaseOrders, po.ID)
		return err
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("po_id", poID).Msg("cancelación rechazada")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("po_id", poID).Str("actor_id", actorID).Str("reason", reason).Msg("orden de compra cancelada")
	return out, nil
}

// Get obtiene la orden con sus ítems.
func (uc *OrderUseCase) Get(ctx context.Context, poID string) (*dto.PurchaseOrderResponse, error) {
	return loadOrderResponse(ctx, uc.orders, poID)
}

// List lista órdenes, opcionalmente por estado, sin ítems.
func (uc *OrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.orders.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toOrderResponse(po, nil))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.NewPageResponse(page.Limit, page.Offset, len(list)),
	}, nil
}

// ListAwaitingReceipt ítems que todavía se esperan del proveedor. Excluye cancelados y
// reembolsados aunque conserven saldo.
func (uc *OrderUseCase) ListAwaitingReceipt(ctx context.Context) ([]dto.PurchaseOrderItemResponse, error) {
	list, err := uc.orders.ListAwaitingReceipt(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

func addItemInTx(ctx context.Context, repos ports.TxRepos, po *entity.PurchaseOrder, in dto.AddItemRequest) (*entity.PurchaseOrderItem, error) {
	if po.Status != entity.POStatusDraft && po.Status != entity.POStatusPending {
		return nil, &domain.InvalidStateError{Entity: entityOrder, ID: po.ID, Current: po.Status, Action: "agregar ítems a"}
	}
	if in.ProductID == "" {
		return nil, domain.NewValidation("product_id", "requerido")
	}
	if in.Quantity < 1 {
		return nil, domain.NewValidation("quantity", "debe ser al menos 1")
	}
	if err := domain.RequireMoneyScale("unit_cost", in.UnitCost); err != nil {
		return nil, err
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.NewValidation("unit_cost", "no puede ser negativo")
	}
	product, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("producto", in.ProductID)
	}
	if !product.IsActive {
		return nil, &domain.InvalidStateError{Entity: "producto", ID: product.ID, Current: "inactive", Action: "comprar"}
	}

	now := time.Now()
	item := &entity.PurchaseOrderItem{
		ID:                uuid.New().String(),
		PurchaseOrderID:   po.ID,
		ProductID:         in.ProductID,
		OrderedQuantity:   in.Quantity,
		UnitCost:          in.UnitCost,
		OutstandingStatus: entity.OutstandingPending,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	item.TotalCost = item.ComputeTotal()
	if err := repos.PurchaseOrders.AddItem(ctx, item); err != nil {
		return nil, err
	}
	total, err := repos.PurchaseOrders.RecalculateTotal(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.TotalAmount = total
	if po.Status == entity.POStatusDraft {
		po.Status = entity.POStatusPending
		po.UpdatedAt = now
		if err := repos.PurchaseOrders.Update(ctx, po); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func lockOrder(ctx context.Context, orders repository.PurchaseOrderRepository, poID string) (*entity.PurchaseOrder, error) {
	po, err := orders.GetForUpdate(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NewNotFound(entityOrder, poID)
	}
	return po, nil
}

func loadOrderResponse(ctx context.Context, orders repository.PurchaseOrderRepository, poID string) (*dto.PurchaseOrderResponse, error) {
	po, err := orders.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NewNotFound(entityOrder, poID)
	}
	items, err := orders.ListItems(ctx, poID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(po, items), nil
}

func toOrderResponse(po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) *dto.PurchaseOrderResponse {
	out := &dto.PurchaseOrderResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		Status:               po.Status,
		TotalAmount:          po.TotalAmount,
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		Notes:                po.Notes,
		ApprovedBy:           po.ApprovedBy,
		ApprovedDate:         po.ApprovedDate,
		CancelledBy:          po.CancelledBy,
		CancelledDate:        po.CancelledDate,
		CancelReason:         po.CancelReason,
		Items:                make([]dto.PurchaseOrderItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, *toItemResponse(it))
	}
	return out
}

func toItemResponse(it *entity.PurchaseOrderItem) *dto.PurchaseOrderItemResponse {
	return &dto.PurchaseOrderItemResponse{
		ID:                  it.ID,
		PurchaseOrderID:     it.PurchaseOrderID,
		ProductID:           it.ProductID,
		OrderedQuantity:     it.OrderedQuantity,
		ReceivedQuantity:    it.ReceivedQuantity,
		OutstandingQuantity: it.OutstandingQuantity(),
		OutstandingStatus:   it.OutstandingStatus,
		OutstandingReason:   it.OutstandingReason,
		RefundProcessedAt:   it.RefundProcessedAt,
		UnitCost:            it.UnitCost,
		TotalCost:           it.TotalCost,
		Notes:               it.Notes,
	}
}
