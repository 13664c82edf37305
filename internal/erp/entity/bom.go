package entity

import (
	"time"

	"gorm.io/gorm"
)

// BOMStatus
const (
	BOMStatusDraft    = "DRAFT"
	BOMStatusActive   = "ACTIVE"
	BOMStatusObsolete = "OBSOLETE"
)

// BOMComponentType
const (
	ComponentTypeProduct = "PRODUCT" // consumes another product
	ComponentTypeProcess = "PROCESS" // a manufacturing step
)

// BOM is a versioned bill of materials for one product. At most one
// version per product is active, referenced by product.active_bom_id.
type BOM struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID string         `json:"product" gorm:"type:uuid;not null;index"`
	Version   string         `json:"version" gorm:"size:16;not null"`
	Status    string         `json:"status" gorm:"size:20;not null;default:DRAFT"`
	Notes     string         `json:"notes" gorm:"type:text"`
	CreatedBy string         `json:"created_by" gorm:"size:64;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Product    *Product       `json:"product_details,omitempty" gorm:"foreignKey:ProductID"`
	Components []BOMComponent `json:"components,omitempty" gorm:"foreignKey:BOMID"`
}

func (BOM) TableName() string {
	return "erp_boms"
}

// BOMComponent is one ordered line of a BOM, polymorphic over
// PRODUCT and PROCESS. Quantity is meaningful for PRODUCT components
// only; PROCESS components carry the process payload instead.
type BOMComponent struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BOMID         string    `json:"bom" gorm:"type:uuid;not null;index"`
	ComponentType string    `json:"component_type" gorm:"size:20;not null"`
	SequenceOrder int       `json:"sequence_order" gorm:"not null;default:0"`
	Quantity      float64   `json:"quantity" gorm:"type:decimal(12,4);default:0"`
	Notes         string    `json:"notes" gorm:"type:text"`

	// PRODUCT payload
	ProductID *string `json:"product_component" gorm:"type:uuid"`

	// PROCESS payload
	ProcessName string `json:"process_name" gorm:"size:128"`
	MachineType string `json:"machine_type" gorm:"size:64"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BOM     *BOM     `json:"bom_details,omitempty" gorm:"foreignKey:BOMID"`
	Product *Product `json:"product_component_details,omitempty" gorm:"foreignKey:ProductID"`
}

func (BOMComponent) TableName() string {
	return "erp_bom_components"
}
