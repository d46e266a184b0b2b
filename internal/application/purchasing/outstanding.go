package purchasing

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// OutstandingUseCase resuelve el saldo no recibido de cada ítem: pending, cancelled,
// refunded o backordered. Un ítem refunded puede además procesarse como recibido.
type OutstandingUseCase struct {
	txRunner ports.TxRunner
	log      zerolog.Logger
}

// NewOutstandingUseCase construye el caso de uso.
func NewOutstandingUseCase(txRunner ports.TxRunner, log zerolog.Logger) *OutstandingUseCase {
	return &OutstandingUseCase{
		txRunner: txRunner,
		log:      log.With().Str("component", "outstanding").Logger(),
	}
}

// SetOutstandingStatus fija la resolución del saldo pendiente. No toca cantidades: un ítem
// cancelado con saldo 3 sigue mostrando saldo 3, pero deja de contarse como esperado.
// Solo pending y backordered admiten cambios; cancelled y refunded no se reabren.
func (uc *OutstandingUseCase) SetOutstandingStatus(ctx context.Context, actorID, itemID, status, reason string) (*dto.PurchaseOrderItemResponse, error) {
	ctx, span := tracer.Start(ctx, "purchasing.SetOutstandingStatus")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if !entity.IsSettableOutstandingStatus(status) {
		return nil, domain.NewValidation("status", "debe ser pending, cancelled, refunded o backordered")
	}
	if status != entity.OutstandingPending && reason == "" {
		return nil, domain.NewValidation("reason", "requerido para resolver el saldo")
	}

	var item *entity.PurchaseOrderItem
	var previous string
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		peek, err := repos.PurchaseOrders.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if peek == nil {
			return domain.NewNotFound(entityItem, itemID)
		}
		po, err := lockOrder(ctx, repos.PurchaseOrders, peek.PurchaseOrderID)
		if err != nil {
			return err
		}
		item, err = repos.PurchaseOrders.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NewNotFound(entityItem, itemID)
		}
		if !po.CanReceive() {
			return &domain.InvalidStateError{Entity: entityOrder, ID: po.ID, Current: po.Status, Action: "resolver saldos de"}
		}
		if item.OutstandingQuantity() == 0 {
			return domain.NewValidation("outstanding_quantity", "el ítem no tiene saldo pendiente")
		}
		if !item.CanSetOutstanding(status) {
			return &domain.InvalidStateError{Entity: entityItem, ID: item.ID, Current: item.OutstandingStatus, Action: "cambiar el saldo a " + status + " en"}
		}
		previous = item.OutstandingStatus
		if err := repos.PurchaseOrders.UpdateOutstanding(ctx, item.ID, status, reason, nil); err != nil {
			return err
		}
		item.OutstandingStatus = status
		item.OutstandingReason = reason
		return nil
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("item_id", itemID).Str("status", status).Msg("cambio de saldo rechazado")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("po_id", item.PurchaseOrderID).Str("item_id", itemID).Str("from", previous).Str("to", status).
		Int("outstanding", item.OutstandingQuantity()).Str("actor_id", actorID).Msg("saldo pendiente actualizado")
	return toItemResponse(item), nil
}

// ProcessRefundAsReceived trata el saldo de un ítem refunded como recibido: los bienes
// reembolsados se conservan físicamente, así que entran al ledger y al HPP por el mismo
// algoritmo de recepción, marcados como reembolso retenido.
func (uc *OutstandingUseCase) ProcessRefundAsReceived(ctx context.Context, actorID, itemID string) (*dto.ReceiptResponse, error) {
	ctx, span := tracer.Start(ctx, "purchasing.ProcessRefundAsReceived")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	var out *dto.ReceiptResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		out, err = receiveInTx(ctx, repos, receipt{ItemID: itemID, Source: entity.ReceiptSourceRefundRetained, ActorID: actorID})
		return err
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("item_id", itemID).Msg("reembolso como recibido rechazado")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("po_id", out.Item.PurchaseOrderID).Str("item_id", itemID).
		Int("received", out.Item.ReceivedQuantity).Str("order_status", out.OrderStatus).Msg("reembolso procesado como recibido")
	return out, nil
}
