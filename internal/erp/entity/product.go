package entity

import (
	"time"

	"gorm.io/gorm"
)

// ProductType
const (
	ProductTypeFinished = "FINISHED" // sellable end product
	ProductTypeSemi     = "SEMI"     // semi-finished, produced in-house
	ProductTypeRaw      = "RAW"      // purchased raw material
)

// ProductStatus
const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusInactive = "INACTIVE"
)

// Product is a manufactured or purchased item. CurrentStock is the
// authoritative on-hand quantity and is only moved through stock
// transactions.
type Product struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductCode  string         `json:"product_code" gorm:"size:64;not null;uniqueIndex"`
	ProductName  string         `json:"product_name" gorm:"size:128;not null"`
	ProductType  string         `json:"product_type" gorm:"size:20;not null;default:FINISHED"`
	Description  string         `json:"description" gorm:"type:text"`
	Unit         string         `json:"unit" gorm:"size:20;not null;default:pcs"`
	CurrentStock float64        `json:"current_stock" gorm:"type:decimal(12,4);not null;default:0"`
	SafetyStock  float64        `json:"safety_stock" gorm:"type:decimal(12,4);default:0"`
	ActiveBOMID  *string        `json:"active_bom_id" gorm:"type:uuid"`
	Status       string         `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	CreatedBy    string         `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	ActiveBOM *BOM `json:"active_bom,omitempty" gorm:"foreignKey:ActiveBOMID"`
}

func (Product) TableName() string {
	return "erp_products"
}
