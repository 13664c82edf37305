package entity

import (
	"time"

	"gorm.io/gorm"
)

// SalesOrderStatus is the canonical order workflow. The legacy client
// modules disagreed on the enum (OPEN/CLOSED vs. the approval
// workflow); OPEN maps to APPROVED and CLOSED maps to COMPLETED.
const (
	SOStatusDraft           = "DRAFT"
	SOStatusPendingApproval = "PENDING_APPROVAL"
	SOStatusApproved        = "APPROVED"
	SOStatusCompleted       = "COMPLETED"
	SOStatusCancelled       = "CANCELLED"
)

// SalesOrder is a customer order with its item lines and shipments.
type SalesOrder struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNumber  string         `json:"order_number" gorm:"size:50;not null;uniqueIndex"`
	CustomerID   string         `json:"customer_id" gorm:"type:uuid;not null;index"`
	CustomerName string         `json:"customer_name" gorm:"size:128"`
	Status       string         `json:"status" gorm:"size:20;not null;default:DRAFT"`
	OrderDate    *time.Time     `json:"order_date"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedBy    string         `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Customer *Customer   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (SalesOrder) TableName() string {
	return "erp_sales_orders"
}

// StatusDisplay is derived presentation text; never stored.
func (so *SalesOrder) StatusDisplay() string {
	switch so.Status {
	case SOStatusDraft:
		return "Draft"
	case SOStatusPendingApproval:
		return "Pending Approval"
	case SOStatusApproved:
		return "Approved"
	case SOStatusCompleted:
		return "Completed"
	case SOStatusCancelled:
		return "Cancelled"
	}
	return so.Status
}

// OrderItem is a single product line within a sales order.
// FulfilledQuantity is maintained exclusively by shipment mutations.
type OrderItem struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID            string     `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID          string     `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductCode        string     `json:"product_code" gorm:"size:64"`
	ProductName        string     `json:"product_name" gorm:"size:128"`
	OrderedQuantity    float64    `json:"ordered_quantity" gorm:"type:decimal(12,4);not null"`
	FulfilledQuantity  float64    `json:"fulfilled_quantity" gorm:"type:decimal(12,4);not null;default:0"`
	DeadlineDate       *time.Time `json:"deadline_date"`
	KapsamDeadlineDate *time.Time `json:"kapsam_deadline_date"` // secondary "scope" deadline
	ReceivingDate      *time.Time `json:"receiving_date"`
	Notes              string     `json:"notes" gorm:"type:text"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Order     *SalesOrder `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Product   *Product    `json:"product_details,omitempty" gorm:"foreignKey:ProductID"`
	Shipments []Shipment  `json:"shipments,omitempty" gorm:"foreignKey:OrderItemID"`
}

func (OrderItem) TableName() string {
	return "erp_order_items"
}
