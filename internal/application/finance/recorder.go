package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// Entry asiento a registrar como efecto de un evento de inventario, compra, venta o servicio.
type Entry struct {
	Type          string
	Category      string
	Subcategory   string
	Amount        decimal.Decimal
	Description   string
	ReferenceType string
	Reference     string
	PaymentMethod string
	ActorID       string
	At            time.Time
}

// RecordInTx inserta la transacción en la misma transacción de BD que el evento que la origina.
// El monto debe ser positivo: los llamadores omiten el asiento cuando el monto es cero.
func RecordInTx(ctx context.Context, repos ports.TxRepos, e Entry) (*entity.FinancialTransaction, error) {
	if err := domain.RequireActor(e.ActorID); err != nil {
		return nil, err
	}
	if !entity.IsValidTransactionType(e.Type) {
		return nil, domain.NewValidation("type", "debe ser income, expense o transfer")
	}
	if e.Category == "" {
		return nil, domain.NewValidation("category", "requerida")
	}
	if !e.Amount.IsPositive() {
		return nil, domain.NewValidation("amount", "debe ser mayor a cero")
	}
	if err := domain.RequireMoneyScale("amount", e.Amount); err != nil {
		return nil, err
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	paymentMethod := e.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}
	tx := &entity.FinancialTransaction{
		ID:              uuid.New().String(),
		Type:            e.Type,
		Category:        e.Category,
		Subcategory:     e.Subcategory,
		Amount:          e.Amount,
		Description:     e.Description,
		ReferenceType:   e.ReferenceType,
		Reference:       e.Reference,
		PaymentMethod:   paymentMethod,
		Status:          entity.TransactionStatusCompleted,
		TransactionDate: at,
		CreatedBy:       e.ActorID,
		CreatedAt:       at,
	}
	if err := repos.Finance.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
