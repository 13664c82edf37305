package repository

import "gorm.io/gorm"

// Repositories is the ERP repository collection.
type Repositories struct {
	Sales    *SalesRepository
	Shipment *ShipmentRepository
	Product  *ProductRepository
	BOM      *BOMRepository
	Machine  *MachineRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Sales:    NewSalesRepository(db),
		Shipment: NewShipmentRepository(db),
		Product:  NewProductRepository(db),
		BOM:      NewBOMRepository(db),
		Machine:  NewMachineRepository(db),
	}
}
