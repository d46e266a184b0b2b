package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/finance"
	"github.com/jhoicas/ledger-api/internal/application/inventory"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/pkg/money"
)

var tracer = otel.Tracer("github.com/jhoicas/ledger-api/internal/application/sales")

// CheckoutUseCase venta de mostrador: salida de stock al HPP vigente, ingreso y COGS en una
// sola transacción.
type CheckoutUseCase struct {
	txRunner ports.TxRunner
	sales    repository.SaleRepository
	log      zerolog.Logger
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(txRunner ports.TxRunner, sales repository.SaleRepository, log zerolog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner: txRunner,
		sales:    sales,
		log:      log.With().Str("component", "checkout").Logger(),
	}
}

// CreateSale registra la venta. Si alguna línea no tiene stock suficiente, nada se registra.
func (uc *CheckoutUseCase) CreateSale(ctx context.Context, actorID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	ctx, span := tracer.Start(ctx, "sales.CreateSale")
	defer span.End()

	if err := domain.RequireActor(actorID); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidation("items", "la venta necesita al menos una línea")
	}
	if err := validateLines(in.Items); err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Kind:          entity.SaleKindSale,
		ServiceFee:    decimal.Zero,
		PaymentMethod: in.PaymentMethod,
		CreatedBy:     actorID,
		CreatedAt:     time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		items, err := consumeLinesInTx(ctx, repos, in.Items, entity.ReferenceTypeSale, sale.ID, actorID)
		if err != nil {
			return err
		}
		sale.Items = items
		sale.Total, sale.CostTotal = totals(items)

		if sale.Total.IsPositive() {
			if _, err := finance.RecordInTx(ctx, repos, finance.Entry{
				Type:          entity.TransactionTypeIncome,
				Category:      entity.CategorySales,
				Subcategory:   entity.SubcategoryProductSales,
				Amount:        sale.Total,
				Description:   fmt.Sprintf("Venta %s: %s", shortID(sale.ID), money.FormatIDR(sale.Total)),
				ReferenceType: entity.ReferenceTypeSale,
				Reference:     sale.ID,
				PaymentMethod: in.PaymentMethod,
				ActorID:       actorID,
				At:            sale.CreatedAt,
			}); err != nil {
				return err
			}
		}
		if sale.CostTotal.IsPositive() {
			if _, err := finance.RecordInTx(ctx, repos, finance.Entry{
				Type:          entity.TransactionTypeExpense,
				Category:      entity.CategoryCOGS,
				Subcategory:   entity.SubcategoryProductSales,
				Amount:        sale.CostTotal,
				Description:   fmt.Sprintf("HPP venta %s: %s", shortID(sale.ID), money.FormatIDR(sale.CostTotal)),
				ReferenceType: entity.ReferenceTypeSale,
				Reference:     sale.ID,
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
		uc.log.Warn().Ctx(ctx).Err(err).Int("lines", len(in.Items)).Msg("venta rechazada")
		return nil, err
	}
	uc.log.Info().Ctx(ctx).Str("sale_id", sale.ID).Str("total", sale.Total.String()).Str("cogs", sale.CostTotal.String()).
		Str("actor_id", actorID).Msg("venta registrada")
	return ToSaleResponse(sale), nil
}

// GetSale obtiene una venta con sus líneas.
func (uc *CheckoutUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewNotFound("venta", id)
	}
	return ToSaleResponse(sale), nil
}

func validateLines(lines []dto.SaleLineRequest) error {
	for i, l := range lines {
		if l.ProductID == "" {
			return domain.NewValidation(fmt.Sprintf("items[%d].product_id", i), "requerido")
		}
		if l.Quantity <= 0 {
			return domain.NewValidation(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor a cero")
		}
		if l.SellingPrice != nil && l.SellingPrice.IsNegative() {
			return domain.NewValidation(fmt.Sprintf("items[%d].selling_price", i), "no puede ser negativo")
		}
		if l.SellingPrice != nil {
			if err := domain.RequireMoneyScale(fmt.Sprintf("items[%d].selling_price", i), *l.SellingPrice); err != nil {
				return err
			}
		}
	}
	return nil
}

// consumeLinesInTx bloquea los productos en orden de ID, valida el stock agregado por producto
// y captura el HPP antes de registrar cualquier salida. Luego registra una salida por línea
// valorizada a ese HPP.
func consumeLinesInTx(
	ctx context.Context,
	repos ports.TxRepos,
	lines []dto.SaleLineRequest,
	referenceType, referenceID, actorID string,
) ([]entity.SaleItem, error) {
	requested := make(map[string]int, len(lines))
	for _, l := range lines {
		requested[l.ProductID] += l.Quantity
	}
	ids := make([]string, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products := make(map[string]*entity.Product, len(ids))
	costs := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NewNotFound("producto", id)
		}
		if !p.IsActive {
			return nil, &domain.InvalidStateError{Entity: "producto", ID: p.ID, Current: "inactive", Action: "vender"}
		}
		if p.Stock < requested[id] {
			return nil, &domain.InsufficientStockError{ProductID: id, Requested: requested[id], Available: p.Stock}
		}
		avg, err := inventory.ComputeAverageCost(ctx, repos.Products, repos.Movements, id)
		if err != nil {
			return nil, err
		}
		products[id] = p
		costs[id] = avg
	}

	items := make([]entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		p := products[l.ProductID]
		unitCost := costs[l.ProductID]
		if _, _, err := inventory.PostMovementInTx(ctx, repos, inventory.Posting{
			ProductID:     l.ProductID,
			MovementType:  entity.MovementTypeOut,
			Quantity:      l.Quantity,
			UnitCost:      &unitCost,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
			ActorID:       actorID,
		}); err != nil {
			return nil, err
		}
		price := p.SellingPrice
		if l.SellingPrice != nil {
			price = *l.SellingPrice
		}
		qty := decimal.NewFromInt(int64(l.Quantity))
		items = append(items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    referenceID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: price,
			UnitCost:  unitCost,
			Subtotal:  qty.Mul(price),
			CostTotal: qty.Mul(unitCost),
		})
	}
	return items, nil
}

func totals(items []entity.SaleItem) (decimal.Decimal, decimal.Decimal) {
	revenue, cost := decimal.Zero, decimal.Zero
	for _, it := range items {
		revenue = revenue.Add(it.Subtotal)
		cost = cost.Add(it.CostTotal)
	}
	return revenue, cost
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ToSaleResponse convierte la entidad al DTO de salida.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		Kind:          s.Kind,
		ReferenceID:   s.ReferenceID,
		Total:         s.Total,
		CostTotal:     s.CostTotal,
		ServiceFee:    s.ServiceFee,
		GrossProfit:   s.GrossProfit(),
		PaymentMethod: s.PaymentMethod,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal,
			CostTotal: it.CostTotal,
		})
	}
	return out
}
