package entity

import (
	"time"

	"gorm.io/gorm"
)

// Shipment is a recorded dispatch of some quantity of one order item.
// ShippingNo is assigned by the operator and immutable after creation.
type Shipment struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ShippingNo    string         `json:"shipping_no" gorm:"size:50;not null;uniqueIndex"`
	OrderItemID   string         `json:"order_item" gorm:"type:uuid;not null;index"`
	ShippingDate  time.Time      `json:"shipping_date" gorm:"not null"`
	Quantity      float64        `json:"quantity" gorm:"type:decimal(12,4);not null"`
	PackageNumber int            `json:"package_number" gorm:"not null;default:1"`
	ShippingNote  string         `json:"shipping_note" gorm:"type:text"`
	CreatedBy     string         `json:"created_by" gorm:"size:64;not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	OrderItem *OrderItem `json:"order_item_details,omitempty" gorm:"foreignKey:OrderItemID"`
}

func (Shipment) TableName() string {
	return "erp_shipments"
}
