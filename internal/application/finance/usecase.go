package finance

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/pkg/money"
)

var tracer = otel.Tracer("github.com/jhoicas/ledger-api/internal/application/finance")

// closedRangeGrace margen tras end para considerar cerrado un rango. Los asientos de eventos
// usan la hora actual, así que un rango cerrado ya no recibe movimientos nuevos.
const closedRangeGrace = time.Minute

// UseCase transacciones manuales, resúmenes y estados financieros simplificados.
type UseCase struct {
	txRunner ports.TxRunner
	finance  repository.FinancialTransactionRepository
	products repository.ProductRepository
	cache    SummaryCache // opcional
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(
	txRunner ports.TxRunner,
	finance repository.FinancialTransactionRepository,
	products repository.ProductRepository,
	cache SummaryCache,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		finance:  finance,
		products: products,
		cache:    cache,
		log:      log.With().Str("component", "finance").Logger(),
	}
}

// CreateTransaction registra una transacción manual. Solo se permite la categoría "Other":
// el resto de categorías las generan los eventos de inventario, compras y ventas.
func (uc *UseCase) CreateTransaction(ctx context.Context, actorID string, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	ctx, span := tracer.Start(ctx, "finance.CreateTransaction")
	defer span.End()

	if in.Description == "" {
		return nil, domain.NewValidation("description", "requerida")
	}
	at := time.Now()
	if in.TransactionDate != nil {
		at = *in.TransactionDate
	}
	var created *entity.FinancialTransaction
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		created, err = RecordInTx(ctx, repos, Entry{
			Type:          in.Type,
			Category:      entity.CategoryOther,
			Subcategory:   in.Subcategory,
			Amount:        in.Amount,
			Description:   in.Description,
			ReferenceType: entity.ReferenceTypeManual,
			Reference:     in.Reference,
			PaymentMethod: in.PaymentMethod,
			ActorID:       actorID,
			At:            at,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	// una transacción manual puede llevar fecha pasada y caer en un rango ya cacheado
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.log.Warn().Ctx(ctx).Err(err).Msg("no se pudo invalidar el cache de resúmenes")
		}
	}
	uc.log.Info().Ctx(ctx).Str("transaction_id", created.ID).Str("type", created.Type).
		Str("amount", money.FormatIDR(created.Amount)).Msg("transacción manual registrada")
	return ToTransactionResponse(created), nil
}

// ListTransactions transacciones en [start, end), opcionalmente de un tipo.
func (uc *UseCase) ListTransactions(ctx context.Context, start, end time.Time, txType string) ([]dto.TransactionResponse, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if txType != "" && !entity.IsValidTransactionType(txType) {
		return nil, domain.NewValidation("type", "debe ser income, expense o transfer")
	}
	list, err := uc.finance.List(ctx, entity.TransactionFilter{From: start, To: end, Type: txType})
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *ToTransactionResponse(t))
	}
	return out, nil
}

// GetFinancialSummary totales, utilidad neta y desgloses del rango [start, end), más el valor
// de inventario leído de los productos al momento de la consulta.
// Solo los agregados de rangos cerrados pasan por el cache; InventoryValue siempre es actual.
func (uc *UseCase) GetFinancialSummary(ctx context.Context, start, end time.Time) (*dto.FinancialSummaryResponse, error) {
	ctx, span := tracer.Start(ctx, "finance.GetFinancialSummary")
	defer span.End()

	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	cacheable := uc.cache != nil && end.Before(time.Now().Add(-closedRangeGrace))

	var summary *dto.FinancialSummaryResponse
	if cacheable {
		cached, ok, err := uc.cache.Get(ctx, start, end)
		if err != nil {
			uc.log.Warn().Ctx(ctx).Err(err).Msg("cache de resumen no disponible")
		} else if ok {
			copied := *cached
			summary = &copied
		}
	}
	if summary == nil {
		rows, err := uc.finance.Breakdown(ctx, entity.TransactionFilter{From: start, To: end})
		if err != nil {
			return nil, err
		}
		summary = buildSummary(rows)
		summary.Start = start
		summary.End = end
		if cacheable {
			if err := uc.cache.Set(ctx, start, end, summary); err != nil {
				uc.log.Warn().Ctx(ctx).Err(err).Msg("no se pudo guardar el resumen en cache")
			}
		}
	}

	inventoryValue, err := uc.products.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	summary.InventoryValue = inventoryValue
	return summary, nil
}

// GetProfitAndLoss estado de resultados del rango [start, end).
func (uc *UseCase) GetProfitAndLoss(ctx context.Context, start, end time.Time) (*dto.ProfitAndLossResponse, error) {
	ctx, span := tracer.Start(ctx, "finance.GetProfitAndLoss")
	defer span.End()

	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	rows, err := uc.finance.Breakdown(ctx, entity.TransactionFilter{From: start, To: end})
	if err != nil {
		return nil, err
	}
	pl := &dto.ProfitAndLossResponse{
		Start:             start,
		End:               end,
		SalesRevenue:      decimal.Zero,
		ServiceRevenue:    decimal.Zero,
		OtherIncome:       decimal.Zero,
		COGS:              decimal.Zero,
		OperatingExpenses: decimal.Zero,
	}
	for _, r := range rows {
		switch r.Type {
		case entity.TransactionTypeIncome:
			switch r.Category {
			case entity.CategorySales:
				pl.SalesRevenue = pl.SalesRevenue.Add(r.Total)
			case entity.CategoryService:
				pl.ServiceRevenue = pl.ServiceRevenue.Add(r.Total)
			default:
				pl.OtherIncome = pl.OtherIncome.Add(r.Total)
			}
		case entity.TransactionTypeExpense:
			switch r.Category {
			case entity.CategoryCOGS:
				pl.COGS = pl.COGS.Add(r.Total)
			case entity.CategoryInventoryPurchase:
				// capitalizado en inventario
			default:
				pl.OperatingExpenses = pl.OperatingExpenses.Add(r.Total)
			}
		}
	}
	pl.TotalRevenue = pl.SalesRevenue.Add(pl.ServiceRevenue).Add(pl.OtherIncome)
	pl.GrossProfit = pl.TotalRevenue.Sub(pl.COGS)
	pl.NetProfit = pl.GrossProfit.Sub(pl.OperatingExpenses)
	return pl, nil
}

// GetInventoryReconciliation contrasta el valor de inventario del log (compras − COGS) con la
// foto de productos. Solo reporta; nunca corrige ninguno de los dos.
func (uc *UseCase) GetInventoryReconciliation(ctx context.Context) (*dto.InventoryReconciliationResponse, error) {
	ctx, span := tracer.Start(ctx, "finance.GetInventoryReconciliation")
	defer span.End()

	purchases, err := uc.finance.SumByCategory(ctx, entity.TransactionTypeExpense, entity.CategoryInventoryPurchase)
	if err != nil {
		return nil, err
	}
	cogs, err := uc.finance.SumByCategory(ctx, entity.TransactionTypeExpense, entity.CategoryCOGS)
	if err != nil {
		return nil, err
	}
	snapshot, err := uc.products.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	logValue := purchases.Sub(cogs)
	diff := snapshot.Sub(logValue)
	if !diff.IsZero() {
		uc.log.Info().Ctx(ctx).Str("difference", diff.String()).Msg("valor de inventario difiere del log de transacciones")
	}
	return &dto.InventoryReconciliationResponse{
		PurchasesTotal: purchases,
		COGSTotal:      cogs,
		LogValue:       logValue,
		SnapshotValue:  snapshot,
		Difference:     diff,
		Formatted:      money.FormatIDR(diff),
	}, nil
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.NewValidation("start_date", "se requieren fecha inicial y final")
	}
	if !end.After(start) {
		return domain.NewValidation("end_date", "debe ser posterior a la fecha inicial")
	}
	return nil
}

func buildSummary(rows []entity.TransactionBreakdown) *dto.FinancialSummaryResponse {
	s := &dto.FinancialSummaryResponse{
		TotalIncome:   decimal.Zero,
		TotalExpense:  decimal.Zero,
		TotalTransfer: decimal.Zero,
	}
	byCategory := map[[2]string]*dto.BreakdownLine{}
	bySub := map[[2]string]*dto.BreakdownLine{}
	bySource := map[[2]string]*dto.BreakdownLine{}
	add := func(m map[[2]string]*dto.BreakdownLine, txType, key string, r entity.TransactionBreakdown) {
		k := [2]string{txType, key}
		line, ok := m[k]
		if !ok {
			line = &dto.BreakdownLine{Type: txType, Key: key, Total: decimal.Zero}
			m[k] = line
		}
		line.Total = line.Total.Add(r.Total)
		line.Count += r.Count
	}
	for _, r := range rows {
		switch r.Type {
		case entity.TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(r.Total)
		case entity.TransactionTypeExpense:
			s.TotalExpense = s.TotalExpense.Add(r.Total)
		case entity.TransactionTypeTransfer:
			s.TotalTransfer = s.TotalTransfer.Add(r.Total)
		}
		s.TransactionsCnt += r.Count
		add(byCategory, r.Type, r.Category, r)
		add(bySub, r.Type, r.Subcategory, r)
		add(bySource, r.Type, r.ReferenceType, r)
	}
	s.NetProfit = s.TotalIncome.Sub(s.TotalExpense)
	s.ByCategory = sortedLines(byCategory)
	s.BySubcategory = sortedLines(bySub)
	s.BySource = sortedLines(bySource)
	return s
}

func sortedLines(m map[[2]string]*dto.BreakdownLine) []dto.BreakdownLine {
	out := make([]dto.BreakdownLine, 0, len(m))
	for _, l := range m {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// ToTransactionResponse convierte la entidad al DTO de salida.
func ToTransactionResponse(t *entity.FinancialTransaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:              t.ID,
		Type:            t.Type,
		Category:        t.Category,
		Subcategory:     t.Subcategory,
		Amount:          t.Amount,
		Description:     t.Description,
		ReferenceType:   t.ReferenceType,
		Reference:       t.Reference,
		PaymentMethod:   t.PaymentMethod,
		Status:          t.Status,
		TransactionDate: t.TransactionDate,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}
