package entity

import "gorm.io/gorm"

// AutoMigrate migrates all ERP tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// master data
		&Customer{},
		&Product{},

		// sales
		&SalesOrder{},
		&OrderItem{},
		&Shipment{},

		// stock
		&StockTransaction{},

		// engineering
		&BOM{},
		&BOMComponent{},

		// maintenance
		&Machine{},
		&MaintenanceLog{},
	)
}
