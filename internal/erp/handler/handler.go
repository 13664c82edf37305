package handler

import "github.com/yigtkaya/kapsam-erp-sub000/internal/erp/service"

// Handlers is the ERP HTTP handler collection.
type Handlers struct {
	Sales     *SalesHandler
	Shipment  *ShipmentHandler
	Product   *ProductHandler
	BOM       *BOMHandler
	Machine   *MachineHandler
	Dashboard *DashboardHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Sales:     NewSalesHandler(services.Sales),
		Shipment:  NewShipmentHandler(services.Shipment),
		Product:   NewProductHandler(services.Product),
		BOM:       NewBOMHandler(services.BOM),
		Machine:   NewMachineHandler(services.Machine),
		Dashboard: NewDashboardHandler(services.Dashboard),
	}
}
