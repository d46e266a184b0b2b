package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/finance"
	"github.com/jhoicas/ledger-api/internal/application/inventory"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/pkg/money"
)

// ReceivingUseCase registra recepciones de ítems de órdenes de compra.
type ReceivingUseCase struct {
	txRunner ports.TxRunner
	log      zerolog.Logger
}

// NewReceivingUseCase construye el caso de uso.
func NewReceivingUseCase(txRunner ports.TxRunner, log zerolog.Logger) *ReceivingUseCase {
	return &ReceivingUseCase{
		txRunner: txRunner,
		log:      log.With().Str("component", "receiving").Logger(),
	}
}

// receipt datos de una recepción. Para ReceiptSourceRefundRetained la cantidad se toma del
// saldo pendiente del ítem una vez bloqueado.
type receipt struct {
	ItemID   string
	Quantity int
	Source   entity.ReceiptSource
	ActorID  string
}

// Receive registra una entrega física de qty unidades del ítem.
func (uc *ReceivingUseCase) Receive(ctx context.Context, actorID, itemID string, qty int) (*dto.ReceiptResponse, error) {
	ctx, span := tracer.Start(ctx, "purchasing.Receive")
	defer span.End()
	span.SetAttributes(attribute.String("item_id", itemID), attribute.Int("quantity", qty))

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, domain.NewValidation("quantity", "debe ser mayor a cero")
	}
	var out *dto.ReceiptResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		out, err = receiveInTx(ctx, repos, receipt{ItemID: itemID, Quantity: qty, Source: entity.ReceiptSourceDelivery, ActorID: actorID})
		return err
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("item_id", itemID).Int("quantity", qty).Msg("recepción rechazada")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("po_id", out.Item.PurchaseOrderID).Str("item_id", itemID).Str("product_id", out.Item.ProductID).
		Int("quantity", qty).Str("order_status", out.OrderStatus).Msg("recepción registrada")
	return out, nil
}

// receiveInTx orden de bloqueo: orden y luego ítem. El bloqueo de la orden serializa la
// derivación del estado agregado entre ítems; el del ítem serializa su received_quantity.
// Todo ocurre en la transacción del llamador: cualquier error descarta ledger, stock,
// gasto y estados.
func receiveInTx(ctx context.Context, repos ports.TxRepos, r receipt) (*dto.ReceiptResponse, error) {
	peek, err := repos.PurchaseOrders.GetItem(ctx, r.ItemID)
	if err != nil {
		return nil, err
	}
	if peek == nil {
		return nil, domain.NewNotFound(entityItem, r.ItemID)
	}
	po, err := lockOrder(ctx, repos.PurchaseOrders, peek.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	item, err := repos.PurchaseOrders.GetItemForUpdate(ctx, r.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFound(entityItem, r.ItemID)
	}
	if !po.CanReceive() {
		return nil, &domain.InvalidStateError{Entity: entityOrder, ID: po.ID, Current: po.Status, Action: "recibir"}
	}
	if !item.AcceptsReceipt(r.Source) {
		return nil, &domain.InvalidStateError{Entity: entityItem, ID: item.ID, Current: item.OutstandingStatus, Action: "recibir"}
	}

	outstanding := item.OutstandingQuantity()
	qty := r.Quantity
	if r.Source == entity.ReceiptSourceRefundRetained {
		qty = outstanding
	}
	if outstanding == 0 || qty <= 0 {
		return nil, domain.NewValidation("outstanding_quantity", "el ítem no tiene saldo pendiente")
	}
	if qty > outstanding {
		return nil, domain.NewValidation("quantity", fmt.Sprintf("excede el saldo pendiente (%d)", outstanding))
	}

	newReceived, err := repos.PurchaseOrders.IncrementReceived(ctx, item.ID, qty)
	if err != nil {
		return nil, err
	}
	item.ReceivedQuantity = newReceived

	unitCost := item.UnitCost
	notes := fmt.Sprintf("%s recepción", po.PONumber)
	subcategory := entity.SubcategoryReceiving
	if r.Source == entity.ReceiptSourceRefundRetained {
		notes = fmt.Sprintf("%s reembolso retenido", po.PONumber)
		subcategory = entity.SubcategoryRefundRetained
	}
	mov, _, err := inventory.PostMovementInTx(ctx, repos, inventory.Posting{
		ProductID:     item.ProductID,
		MovementType:  entity.MovementTypeIn,
		Quantity:      qty,
		UnitCost:      &unitCost,
		ReferenceType: entity.ReferenceTypePurchase,
		ReferenceID:   po.ID,
		Notes:         notes,
		ActorID:       r.ActorID,
	})
	if err != nil {
		return nil, err
	}

	out := &dto.ReceiptResponse{MovementID: mov.ID, Source: string(r.Source)}
	amount := decimal.NewFromInt(int64(qty)).Mul(unitCost)
	if amount.IsPositive() {
		expense, err := finance.RecordInTx(ctx, repos, finance.Entry{
			Type:          entity.TransactionTypeExpense,
			Category:      entity.CategoryInventoryPurchase,
			Subcategory:   subcategory,
			Amount:        amount,
			Description:   fmt.Sprintf("%s: %d × %s", notes, qty, money.FormatIDR(unitCost)),
			ReferenceType: entity.ReferenceTypePurchase,
			Reference:     po.ID,
			ActorID:       r.ActorID,
		})
		if err != nil {
			return nil, err
		}
		out.ExpenseID = expense.ID
	}

	if err := repos.Products.SetLastPurchasePrice(ctx, item.ProductID, unitCost); err != nil {
		return nil, err
	}
	avg, err := inventory.RefreshAverageCost(ctx, repos.Products, repos.Movements, item.ProductID)
	if err != nil {
		return nil, err
	}
	out.AverageCost = avg

	if item.OutstandingQuantity() == 0 {
		var processedAt *time.Time
		if r.Source == entity.ReceiptSourceRefundRetained {
			now := time.Now()
			processedAt = &now
		}
		if err := repos.PurchaseOrders.UpdateOutstanding(ctx, item.ID, entity.OutstandingCompleted, item.OutstandingReason, processedAt); err != nil {
			return nil, err
		}
		item.OutstandingStatus = entity.OutstandingCompleted
		item.RefundProcessedAt = processedAt
	}

	ordered, received, err := repos.PurchaseOrders.QuantityTotals(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	if next := entity.DeriveReceiptStatus(po.Status, ordered, received); next != po.Status {
		po.Status = next
		po.UpdatedAt = time.Now()
		if err := repos.PurchaseOrders.Update(ctx, po); err != nil {
			return nil, err
		}
	}
	out.OrderStatus = po.Status
	out.Item = *toItemResponse(item)
	return out, nil
}
