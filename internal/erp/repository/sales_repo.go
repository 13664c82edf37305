package repository

import (
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// --- Customer ---

func (r *SalesRepository) CreateCustomer(c *entity.Customer) error {
	return r.db.Create(c).Error
}

func (r *SalesRepository) GetCustomerByID(id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *SalesRepository) UpdateCustomer(c *entity.Customer) error {
	return r.db.Save(c).Error
}

func (r *SalesRepository) DeleteCustomer(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Customer{}).Error
}

type CustomerListParams struct {
	Status  string
	Type    string
	Keyword string
	Page    int
	Size    int
}

func (r *SalesRepository) ListCustomers(params CustomerListParams) ([]entity.Customer, int64, error) {
	query := r.db.Model(&entity.Customer{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name ILIKE ? OR customer_code ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var customers []entity.Customer
	err := query.Order("created_at DESC").Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&customers).Error
	return customers, total, err
}

// --- Sales Order ---

func (r *SalesRepository) CreateOrder(so *entity.SalesOrder) error {
	return r.db.Create(so).Error
}

func (r *SalesRepository) GetOrderByID(id string) (*entity.SalesOrder, error) {
	var so entity.SalesOrder
	err := r.db.Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Preload("Items.Shipments").
		Where("id = ?", id).First(&so).Error
	return &so, err
}

func (r *SalesRepository) UpdateOrder(so *entity.SalesOrder) error {
	return r.db.Save(so).Error
}

func (r *SalesRepository) DeleteOrder(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.SalesOrder{}).Error
}

type OrderListParams struct {
	Status     string
	CustomerID string
	Keyword    string
	Page       int
	Size       int
}

func (r *SalesRepository) ListOrders(params OrderListParams) ([]entity.SalesOrder, int64, error) {
	query := r.db.Model(&entity.SalesOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.SalesOrder
	err := query.Preload("Customer").Preload("Items").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&orders).Error
	return orders, total, err
}

// --- Order Item ---

func (r *SalesRepository) GetItemByID(id string) (*entity.OrderItem, error) {
	var item entity.OrderItem
	err := r.db.Preload("Product").Preload("Order").
		Where("id = ?", id).First(&item).Error
	return &item, err
}

// GetItemForUpdate loads an order item under a row lock. Must be
// called inside a transaction; concurrent shipment writers serialize
// on this lock so fulfilled_quantity cannot overshoot.
func (r *SalesRepository) GetItemForUpdate(tx *gorm.DB, id string) (*entity.OrderItem, error) {
	var item entity.OrderItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error
	return &item, err
}

func (r *SalesRepository) CreateItem(item *entity.OrderItem) error {
	return r.db.Create(item).Error
}

func (r *SalesRepository) UpdateItem(item *entity.OrderItem) error {
	return r.db.Save(item).Error
}

func (r *SalesRepository) DeleteItem(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.OrderItem{}).Error
}

// ListOpenItems returns items of APPROVED orders that still have
// remaining quantity, with product stock preloaded.
func (r *SalesRepository) ListOpenItems() ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.db.Preload("Product").Preload("Order").
		Joins("JOIN erp_sales_orders so ON so.id = erp_order_items.order_id").
		Where("so.status = ? AND so.deleted_at IS NULL", entity.SOStatusApproved).
		Where("erp_order_items.fulfilled_quantity < erp_order_items.ordered_quantity").
		Order("erp_order_items.deadline_date ASC NULLS LAST").
		Find(&items).Error
	return items, err
}

// ListDeadlineItems returns items of open (approved, not yet
// completed) orders regardless of fulfillment, for deadline
// bucketing.
func (r *SalesRepository) ListDeadlineItems() ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.db.Joins("JOIN erp_sales_orders so ON so.id = erp_order_items.order_id").
		Where("so.status IN ? AND so.deleted_at IS NULL", []string{entity.SOStatusApproved, entity.SOStatusPendingApproval}).
		Find(&items).Error
	return items, err
}

// PendingDemand sums remaining quantity per product over approved
// orders.
func (r *SalesRepository) PendingDemand() (map[string]float64, error) {
	type demandRow struct {
		ProductID string
		Total     float64
	}
	var rows []demandRow
	err := r.db.Raw(`
		SELECT i.product_id, COALESCE(SUM(i.ordered_quantity - i.fulfilled_quantity), 0) as total
		FROM erp_order_items i
		JOIN erp_sales_orders so ON so.id = i.order_id
		WHERE so.status = 'APPROVED'
		AND so.deleted_at IS NULL
		AND i.fulfilled_quantity < i.ordered_quantity
		GROUP BY i.product_id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	demand := make(map[string]float64)
	for _, row := range rows {
		demand[row.ProductID] = row.Total
	}
	return demand, nil
}

// CountOrdersByStatus returns order counts keyed by status.
func (r *SalesRepository) CountOrdersByStatus() (map[string]int64, error) {
	type statusRow struct {
		Status string
		Total  int64
	}
	var rows []statusRow
	err := r.db.Raw(`
		SELECT status, COUNT(*) as total
		FROM erp_sales_orders
		WHERE deleted_at IS NULL
		GROUP BY status
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
