package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{POStatusDraft, POStatusPending, true},
		{POStatusDraft, POStatusConfirmed, false},
		{POStatusPending, POStatusConfirmed, true},
		{POStatusPending, POStatusCancelled, true},
		{POStatusConfirmed, POStatusCancelled, true},
		{POStatusPartialReceived, POStatusCancelled, false},
		{POStatusReceived, POStatusCancelled, false},
		{POStatusCancelled, POStatusPending, false},
	}
	for _, tt := range tests {
		po := &PurchaseOrder{Status: tt.from}
		assert.Equal(t, tt.want, po.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDeriveReceiptStatus(t *testing.T) {
	assert.Equal(t, POStatusReceived, DeriveReceiptStatus(POStatusPartialReceived, 5, 5))
	assert.Equal(t, POStatusPartialReceived, DeriveReceiptStatus(POStatusConfirmed, 10, 4))
	assert.Equal(t, POStatusConfirmed, DeriveReceiptStatus(POStatusConfirmed, 10, 0))
	assert.Equal(t, POStatusPartialReceived, DeriveReceiptStatus(POStatusPartialReceived, 10, 0))
}

func TestPurchaseOrderItem_Outstanding(t *testing.T) {
	item := &PurchaseOrderItem{OrderedQuantity: 10, ReceivedQuantity: 4, OutstandingStatus: OutstandingPending}
	assert.Equal(t, 6, item.OutstandingQuantity())
	assert.True(t, item.IsAwaitingReceipt())

	item.OutstandingStatus = OutstandingCancelled
	assert.Equal(t, 6, item.OutstandingQuantity())
	assert.False(t, item.IsAwaitingReceipt())
	assert.False(t, item.AcceptsReceipt(ReceiptSourceDelivery))

	item.OutstandingStatus = OutstandingRefunded
	assert.True(t, item.AcceptsReceipt(ReceiptSourceRefundRetained))
	assert.False(t, item.AcceptsReceipt(ReceiptSourceDelivery))

	item.ReceivedQuantity = 12
	assert.Equal(t, 0, item.OutstandingQuantity())
}

func TestPurchaseOrderItem_CanSetOutstanding(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OutstandingPending, OutstandingBackordered, true},
		{OutstandingBackordered, OutstandingPending, true},
		{OutstandingBackordered, OutstandingCancelled, true},
		{OutstandingPending, OutstandingRefunded, true},
		{OutstandingCancelled, OutstandingPending, false},
		{OutstandingCancelled, OutstandingBackordered, false},
		{OutstandingCancelled, OutstandingRefunded, false},
		{OutstandingRefunded, OutstandingPending, false},
		{OutstandingRefunded, OutstandingCancelled, false},
		{OutstandingCompleted, OutstandingPending, false},
	}
	for _, tt := range tests {
		item := &PurchaseOrderItem{OrderedQuantity: 5, OutstandingStatus: tt.from}
		assert.Equal(t, tt.want, item.CanSetOutstanding(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
