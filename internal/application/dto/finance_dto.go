package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest body para POST /api/finance/transactions (solo categoría "Other").
type CreateTransactionRequest struct {
	Type            string          `json:"type" validate:"required,oneof=income expense transfer"`
	Subcategory     string          `json:"subcategory"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description" validate:"required,max=500"`
	Reference       string          `json:"reference"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionDate *time.Time      `json:"transaction_date,omitempty"`
}

// TransactionResponse transacción financiera.
type TransactionResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Subcategory     string          `json:"subcategory"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	ReferenceType   string          `json:"reference_type"`
	Reference       string          `json:"reference"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BreakdownLine total por clave (categoría, subcategoría u origen) y tipo.
type BreakdownLine struct {
	Type  string          `json:"type"`
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// FinancialSummaryResponse salida de GET /api/finance/summary.
// InventoryValue es una foto de los productos y no se concilia con el log de transacciones.
type FinancialSummaryResponse struct {
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	TotalTransfer   decimal.Decimal `json:"total_transfer"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	ByCategory      []BreakdownLine `json:"by_category"`
	BySubcategory   []BreakdownLine `json:"by_subcategory"`
	BySource        []BreakdownLine `json:"by_source"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	TransactionsCnt int             `json:"transactions_count"`
}

// ProfitAndLossResponse estado de resultados simplificado.
// Las compras de inventario se capitalizan y no son gasto operativo: entran vía COGS.
type ProfitAndLossResponse struct {
	Start             time.Time       `json:"start"`
	End               time.Time       `json:"end"`
	SalesRevenue      decimal.Decimal `json:"sales_revenue"`
	ServiceRevenue    decimal.Decimal `json:"service_revenue"`
	OtherIncome       decimal.Decimal `json:"other_income"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	COGS              decimal.Decimal `json:"cogs"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	OperatingExpenses decimal.Decimal `json:"operating_expenses"`
	NetProfit         decimal.Decimal `json:"net_profit"`
}

// InventoryReconciliationResponse compara el valor de inventario derivado del log
// (compras − COGS) con la foto actual de productos. Solo informa la diferencia.
type InventoryReconciliationResponse struct {
	PurchasesTotal decimal.Decimal `json:"purchases_total"`
	COGSTotal      decimal.Decimal `json:"cogs_total"`
	LogValue       decimal.Decimal `json:"log_value"`
	SnapshotValue  decimal.Decimal `json:"snapshot_value"`
	Difference     decimal.Decimal `json:"difference"`
	Formatted      string          `json:"formatted_difference"`
}
