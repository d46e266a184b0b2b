package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/finance"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/pkg/money"
)

// ServiceUseCase cierre de tickets de servicio técnico: consume repuestos del inventario y
// registra el ingreso del servicio y el COGS de los repuestos.
type ServiceUseCase struct {
	txRunner ports.TxRunner
	log      zerolog.Logger
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(txRunner ports.TxRunner, log zerolog.Logger) *ServiceUseCase {
	return &ServiceUseCase{
		txRunner: txRunner,
		log:      log.With().Str("component", "service_tickets").Logger(),
	}
}

// CompleteServiceTicket registra la salida de los repuestos (referenceType service), un ingreso
// por mano de obra más repuestos y un gasto COGS por el costo de los repuestos.
// Un ticket solo puede completarse una vez.
func (uc *ServiceUseCase) CompleteServiceTicket(ctx context.Context, actorID, ticketID string, in dto.CompleteServiceRequest) (*dto.SaleResponse, error) {
	ctx, span := tracer.Start(ctx, "sales.CompleteServiceTicket")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if ticketID == "" {
		return nil, domain.NewValidation("ticket_id", "requerido")
	}
	if in.ServiceFee.IsNegative() {
		return nil, domain.NewValidation("service_fee", "no puede ser negativo")
	}
	if err := domain.RequireMoneyScale("service_fee", in.ServiceFee); err != nil {
		return nil, err
	}
	if in.ServiceFee.IsZero() && len(in.Parts) == 0 {
		return nil, domain.NewValidation("parts", "el ticket no tiene mano de obra ni repuestos")
	}
	if err := validateLines(in.Parts); err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Kind:          entity.SaleKindService,
		ReferenceID:   ticketID,
		ServiceFee:    in.ServiceFee,
		PaymentMethod: in.PaymentMethod,
		CreatedBy:     actorID,
		CreatedAt:     time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		done, err := repos.Sales.ExistsForReference(ctx, entity.SaleKindService, ticketID)
		if err != nil {
			return err
		}
		if done {
			return &domain.InvalidStateError{Entity: "ticket de servicio", ID: ticketID, Current: "completed", Action: "completar"}
		}
		var items []entity.SaleItem
		if len(in.Parts) > 0 {
			items, err = consumeLinesInTx(ctx, repos, in.Parts, entity.ReferenceTypeService, ticketID, actorID)
			if err != nil {
				return err
			}
			for i := range items {
				items[i].SaleID = sale.ID
			}
		}
		sale.Items = items
		partsRevenue, partsCost := totals(items)
		sale.Total = partsRevenue.Add(in.ServiceFee)
		sale.CostTotal = partsCost

		if sale.Total.IsPositive() {
			if _, err := finance.RecordInTx(ctx, repos, finance.Entry{
				Type:          entity.TransactionTypeIncome,
				Category:      entity.CategoryService,
				Subcategory:   entity.SubcategoryServiceFee,
				Amount:        sale.Total,
				Description:   fmt.Sprintf("Servicio %s: mano de obra %s, repuestos %s", ticketID, money.FormatIDR(in.ServiceFee), money.FormatIDR(partsRevenue)),
				ReferenceType: entity.ReferenceTypeService,
				Reference:     ticketID,
				PaymentMethod: in.PaymentMethod,
				ActorID:       actorID,
				At:            sale.CreatedAt,
			}); err != nil {
				return err
			}
		}
		if partsCost.IsPositive() {
			if _, err := finance.RecordInTx(ctx, repos, finance.Entry{
				Type:          entity.TransactionTypeExpense,
				Category:      entity.CategoryCOGS,
				Subcategory:   entity.SubcategoryServiceParts,
				Amount:        partsCost,
				Description:   fmt.Sprintf("HPP repuestos servicio %s: %s", ticketID, money.FormatIDR(partsCost)),
				ReferenceType: entity.ReferenceTypeService,
				Reference:     ticketID,
				PaymentMethod: in.PaymentMethod,
				ActorID:       actorID,
				At:            sale.CreatedAt,
			}); err != nil {
				return err
			}
		}
		return repos.Sales.Create(ctx, sale)
	})
	if err != nil {
		uc.log.Warn().Ctx(ctx).Err(err).Str("ticket_id", ticketID).Msg("cierre de servicio rechazado")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("ticket_id", ticketID).Str("sale_id", sale.ID).Str("total", sale.Total.String()).
		Str("parts_cost", sale.CostTotal.String()).Msg("ticket de servicio completado")
	return ToSaleResponse(sale), nil
}
