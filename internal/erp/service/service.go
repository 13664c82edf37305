package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
	"gorm.io/gorm"
)

// Services is the ERP service collection.
type Services struct {
	Sales     *SalesService
	Shipment  *ShipmentService
	Product   *ProductService
	BOM       *BOMService
	Machine   *MachineService
	Dashboard *DashboardService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client) *Services {
	return &Services{
		Sales:     NewSalesService(repos.Sales, repos.Product, rdb),
		Shipment:  NewShipmentService(repos.Shipment, repos.Sales, repos.Product, db, rdb),
		Product:   NewProductService(repos.Product, db),
		BOM:       NewBOMService(repos.BOM, repos.Product),
		Machine:   NewMachineService(repos.Machine),
		Dashboard: NewDashboardService(repos.Sales, repos.Shipment, repos.Product, rdb),
	}
}
