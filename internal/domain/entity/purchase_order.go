package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra.
const (
	POStatusDraft           = "draft"
	POStatusPending         = "pending"
	POStatusConfirmed       = "confirmed"
	POStatusPartialReceived = "partial_received"
	POStatusReceived        = "received"
	POStatusCancelled       = "cancelled"
)

// Estado de resolución del saldo pendiente de un ítem.
const (
	OutstandingPending     = "pending"
	OutstandingCancelled   = "cancelled"
	OutstandingRefunded    = "refunded"
	OutstandingBackordered = "backordered"
	OutstandingCompleted   = "completed"
)

// ReceiptSource origen de una recepción. Una entrada al ledger por reembolso retenido
// no corresponde a una entrega física y queda marcada como tal.
type ReceiptSource string

const (
	ReceiptSourceDelivery       ReceiptSource = "delivery"
	ReceiptSourceRefundRetained ReceiptSource = "refund_retained"
)

// PurchaseOrder orden de compra a proveedor. TotalAmount siempre se recalcula desde los ítems.
type PurchaseOrder struct {
	ID                   string
	PONumber             string
	SupplierID           string
	Status               string
	TotalAmount          decimal.Decimal
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	Notes                string
	ApprovedBy           string
	ApprovedDate         *time.Time
	CancelledBy          string
	CancelledDate        *time.Time
	CancelReason         string
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// poTransitions transiciones manuales válidas. partial_received y received se derivan
// de las cantidades recibidas y no se fijan a mano. pending vuelve a draft al quitar el último ítem.
var poTransitions = map[string][]string{
	POStatusDraft:           {POStatusPending, POStatusCancelled},
	POStatusPending:         {POStatusDraft, POStatusConfirmed, POStatusCancelled},
	POStatusConfirmed:       {POStatusPartialReceived, POStatusReceived, POStatusCancelled},
	POStatusPartialReceived: {POStatusReceived},
}

// CanTransitionTo indica si la orden puede pasar al estado indicado.
func (po *PurchaseOrder) CanTransitionTo(target string) bool {
	for _, s := range poTransitions[po.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// CanReceive true cuando la orden admite recepciones.
func (po *PurchaseOrder) CanReceive() bool {
	return po.Status == POStatusConfirmed || po.Status == POStatusPartialReceived
}

// IsTerminal received y cancelled cierran el flujo normal.
func (po *PurchaseOrder) IsTerminal() bool {
	return po.Status == POStatusReceived || po.Status == POStatusCancelled
}

// DeriveReceiptStatus estado agregado a partir de las cantidades de todos los ítems.
// Una orden con recepciones nunca vuelve a confirmed.
func DeriveReceiptStatus(current string, ordered, received int) string {
	switch {
	case ordered > 0 && received >= ordered:
		return POStatusReceived
	case received > 0:
		return POStatusPartialReceived
	case current == POStatusPartialReceived || current == POStatusReceived:
		return current
	default:
		return POStatusConfirmed
	}
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ID                string
	PurchaseOrderID   string
	ProductID         string
	OrderedQuantity   int
	ReceivedQuantity  int // monótona no decreciente
	UnitCost          decimal.Decimal
	TotalCost         decimal.Decimal
	OutstandingStatus string
	OutstandingReason string
	RefundProcessedAt *time.Time
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OutstandingQuantity max(0, ordered − received).
func (i *PurchaseOrderItem) OutstandingQuantity() int {
	if i.ReceivedQuantity >= i.OrderedQuantity {
		return 0
	}
	return i.OrderedQuantity - i.ReceivedQuantity
}

// ComputeTotal ordered × unitCost.
func (i *PurchaseOrderItem) ComputeTotal() decimal.Decimal {
	return decimal.NewFromInt(int64(i.OrderedQuantity)).Mul(i.UnitCost)
}

// HasReceipts true si ya se registró alguna recepción.
func (i *PurchaseOrderItem) HasReceipts() bool {
	return i.ReceivedQuantity > 0
}

// IsAwaitingReceipt saldo abierto que todavía se espera del proveedor.
// Cancelados y reembolsados quedan fuera aunque conserven cantidad pendiente.
func (i *PurchaseOrderItem) IsAwaitingReceipt() bool {
	if i.OutstandingQuantity() == 0 {
		return false
	}
	return i.OutstandingStatus == OutstandingPending || i.OutstandingStatus == OutstandingBackordered
}

// IsSettableOutstandingStatus estados que se pueden fijar manualmente sobre el saldo.
func IsSettableOutstandingStatus(s string) bool {
	switch s {
	case OutstandingPending, OutstandingCancelled, OutstandingRefunded, OutstandingBackordered:
		return true
	}
	return false
}

// outstandingTransitions resoluciones manuales del saldo. cancelled y refunded son
// terminales: refunded solo sale por "procesar como recibido", que lo deja completed.
var outstandingTransitions = map[string][]string{
	OutstandingPending:     {OutstandingPending, OutstandingBackordered, OutstandingCancelled, OutstandingRefunded},
	OutstandingBackordered: {OutstandingBackordered, OutstandingPending, OutstandingCancelled, OutstandingRefunded},
}

// CanSetOutstanding indica si el saldo del ítem puede pasar al estado indicado.
func (i *PurchaseOrderItem) CanSetOutstanding(target string) bool {
	for _, s := range outstandingTransitions[i.OutstandingStatus] {
		if s == target {
			return true
		}
	}
	return false
}

// AcceptsReceipt indica si el ítem admite una recepción del origen dado.
// Una entrega física se acepta mientras el saldo siga esperándose; el reembolso retenido
// solo aplica a ítems marcados como refunded.
func (i *PurchaseOrderItem) AcceptsReceipt(source ReceiptSource) bool {
	switch source {
	case ReceiptSourceDelivery:
		return i.OutstandingStatus == OutstandingPending || i.OutstandingStatus == OutstandingBackordered
	case ReceiptSourceRefundRetained:
		return i.OutstandingStatus == OutstandingRefunded
	}
	return false
}
