package entity

import (
	"time"

	"gorm.io/gorm"
)

// CustomerType
const (
	CustomerTypeCorporate = "CORPORATE"
	CustomerTypeRetail    = "RETAIL"
)

// CustomerStatus
const (
	CustomerStatusActive   = "ACTIVE"
	CustomerStatusInactive = "INACTIVE"
)

// Customer is a buyer that sales orders are issued against.
type Customer struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CustomerCode string         `json:"customer_code" gorm:"size:50;not null;uniqueIndex"`
	Name         string         `json:"name" gorm:"size:128;not null"`
	Type         string         `json:"type" gorm:"size:20;not null;default:CORPORATE"`
	ContactName  string         `json:"contact_name" gorm:"size:64"`
	Phone        string         `json:"phone" gorm:"size:32"`
	Email        string         `json:"email" gorm:"size:128"`
	Address      string         `json:"address" gorm:"size:500"`
	TaxNumber    string         `json:"tax_number" gorm:"size:50"`
	Status       string         `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedBy    string         `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

func (Customer) TableName() string {
	return "erp_customers"
}
