package entity

import (
	"time"
)

// StockTransactionType
const (
	TxTypeProductionIn = "PRODUCTION_IN" // production receipt
	TxTypePurchaseIn   = "PURCHASE_IN"   // purchase receipt
	TxTypeSalesOut     = "SALES_OUT"     // shipment to customer
	TxTypeAdjust       = "ADJUST"        // manual correction
)

// StockTransaction is the ledger of product stock movements. Quantity
// is signed: positive for receipts, negative for issues.
type StockTransaction struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID       string    `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductCode     string    `json:"product_code" gorm:"size:64"`
	TransactionType string    `json:"transaction_type" gorm:"size:20;not null"`
	Quantity        float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	ReferenceType   string    `json:"reference_type" gorm:"size:20"` // SO, SHIPMENT, MANUAL
	ReferenceID     string    `json:"reference_id" gorm:"size:64"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedBy       string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt       time.Time `json:"created_at"`
}

func (StockTransaction) TableName() string {
	return "erp_stock_transactions"
}
