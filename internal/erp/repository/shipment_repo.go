package repository

import (
	"time"

	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"gorm.io/gorm"
)

type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) Create(tx *gorm.DB, s *entity.Shipment) error {
	return tx.Create(s).Error
}

func (r *ShipmentRepository) GetByID(id string) (*entity.Shipment, error) {
	var s entity.Shipment
	err := r.db.Preload("OrderItem").Preload("OrderItem.Order").
		Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *ShipmentRepository) GetByShippingNo(no string) (*entity.Shipment, error) {
	var s entity.Shipment
	err := r.db.Where("shipping_no = ?", no).First(&s).Error
	return &s, err
}

func (r *ShipmentRepository) Update(s *entity.Shipment) error {
	return r.db.Save(s).Error
}

func (r *ShipmentRepository) Delete(tx *gorm.DB, id string) error {
	return tx.Where("id = ?", id).Delete(&entity.Shipment{}).Error
}

type ShipmentListParams struct {
	OrderItemID string
	OrderID     string
	Keyword     string
	From        *time.Time
	To          *time.Time
	Page        int
	Size        int
}

func (r *ShipmentRepository) List(params ShipmentListParams) ([]entity.Shipment, int64, error) {
	query := r.db.Model(&entity.Shipment{})
	if params.OrderItemID != "" {
		query = query.Where("order_item_id = ?", params.OrderItemID)
	}
	if params.OrderID != "" {
		query = query.Joins("JOIN erp_order_items i ON i.id = erp_shipments.order_item_id").
			Where("i.order_id = ?", params.OrderID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("shipping_no ILIKE ?", kw)
	}
	if params.From != nil {
		query = query.Where("shipping_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("shipping_date <= ?", *params.To)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var shipments []entity.Shipment
	err := query.Preload("OrderItem").Order("shipping_date DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&shipments).Error
	return shipments, total, err
}

// MonthlyShipped sums shipped quantity per product for a calendar
// month, for the production report.
func (r *ShipmentRepository) MonthlyShipped(year int, month time.Month) ([]MonthlyShippedRow, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rows []MonthlyShippedRow
	err := r.db.Raw(`
		SELECT i.product_id, i.product_code, i.product_name,
		       COALESCE(SUM(s.quantity), 0) as total_quantity,
		       COUNT(s.id) as shipment_count
		FROM erp_shipments s
		JOIN erp_order_items i ON i.id = s.order_item_id
		WHERE s.shipping_date >= ? AND s.shipping_date < ?
		AND s.deleted_at IS NULL
		GROUP BY i.product_id, i.product_code, i.product_name
		ORDER BY total_quantity DESC
	`, start, end).Scan(&rows).Error
	return rows, err
}

type MonthlyShippedRow struct {
	ProductID     string  `json:"product_id"`
	ProductCode   string  `json:"product_code"`
	ProductName   string  `json:"product_name"`
	TotalQuantity float64 `json:"total_quantity"`
	ShipmentCount int64   `json:"shipment_count"`
}
