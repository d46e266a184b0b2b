package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción financiera.
const (
	TransactionTypeIncome   = "income"
	TransactionTypeExpense  = "expense"
	TransactionTypeTransfer = "transfer"
)

// Categorías generadas por los eventos del inventario.
const (
	CategoryInventoryPurchase = "Inventory Purchase"
	CategoryCOGS              = "Cost of Goods Sold"
	CategorySales             = "Sales"
	CategoryService           = "Service"
	CategoryOther             = "Other"
)

// Subcategorías usadas por los asientos automáticos.
const (
	SubcategoryReceiving      = "Receiving"
	SubcategoryRefundRetained = "Refund Retained"
	SubcategoryProductSales   = "Product Sales"
	SubcategoryServiceFee     = "Service Fee"
	SubcategoryServiceParts   = "Service Parts"
)

// Estados de la transacción.
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusPending   = "pending"
)

// FinancialTransaction asiento de ingreso/gasto. Solo se inserta, nunca se edita.
type FinancialTransaction struct {
	ID              string
	Type            string
	Category        string
	Subcategory     string
	Amount          decimal.Decimal
	Description     string
	ReferenceType   string
	Reference       string
	PaymentMethod   string
	Status          string
	TransactionDate time.Time
	CreatedBy       string
	CreatedAt       time.Time
}

// IsValidTransactionType indica si t es income, expense o transfer.
func IsValidTransactionType(t string) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense || t == TransactionTypeTransfer
}

// TransactionFilter filtro para listar y agregar transacciones en un rango [From, To).
type TransactionFilter struct {
	From time.Time
	To   time.Time
	Type string
}

// TransactionBreakdown total agrupado por tipo, categoría, subcategoría y origen.
type TransactionBreakdown struct {
	Type          string
	Category      string
	Subcategory   string
	ReferenceType string
	Total         decimal.Decimal
	Count         int
}
