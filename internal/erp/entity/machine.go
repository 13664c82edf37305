package entity

import (
	"time"

	"gorm.io/gorm"
)

// MachineStatus
const (
	MachineStatusActive      = "ACTIVE"
	MachineStatusMaintenance = "MAINTENANCE"
	MachineStatusRetired     = "RETIRED"
)

// MaintenanceType
const (
	MaintenanceTypePlanned   = "PLANNED"
	MaintenanceTypeBreakdown = "BREAKDOWN"
)

// Machine is a production machine on the shop floor.
type Machine struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MachineCode string         `json:"machine_code" gorm:"size:50;not null;uniqueIndex"`
	MachineType string         `json:"machine_type" gorm:"size:64;not null"`
	Brand       string         `json:"brand" gorm:"size:64"`
	Model       string         `json:"model" gorm:"size:64"`
	Status      string         `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedBy   string         `json:"created_by" gorm:"size:64;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	MaintenanceLogs []MaintenanceLog `json:"maintenance_logs,omitempty" gorm:"foreignKey:MachineID"`
}

func (Machine) TableName() string {
	return "erp_machines"
}

// MaintenanceLog records one maintenance intervention on a machine.
// An open BREAKDOWN log keeps the machine in MAINTENANCE status.
type MaintenanceLog struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MachineID       string     `json:"machine" gorm:"type:uuid;not null;index"`
	MaintenanceType string     `json:"maintenance_type" gorm:"size:20;not null;default:PLANNED"`
	StartDate       time.Time  `json:"start_date" gorm:"not null"`
	EndDate         *time.Time `json:"end_date"`
	Description     string     `json:"description" gorm:"type:text"`
	Resolved        bool       `json:"resolved" gorm:"not null;default:false"`
	CreatedBy       string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Machine *Machine `json:"machine_details,omitempty" gorm:"foreignKey:MachineID"`
}

func (MaintenanceLog) TableName() string {
	return "erp_maintenance_logs"
}
