package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/fulfillment"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
	"gorm.io/gorm"
)

// ShipmentService records dispatches against order items. All
// fulfillment-bearing writes run in a transaction with a row lock on
// the order item, so two concurrent shipments cannot overshoot the
// remaining quantity. Plain field edits elsewhere stay
// last-write-wins.
type ShipmentService struct {
	repo        *repository.ShipmentRepository
	salesRepo   *repository.SalesRepository
	productRepo *repository.ProductRepository
	db          *gorm.DB
	rdb         *redis.Client
}

func NewShipmentService(repo *repository.ShipmentRepository, salesRepo *repository.SalesRepository, productRepo *repository.ProductRepository, db *gorm.DB, rdb *redis.Client) *ShipmentService {
	return &ShipmentService{repo: repo, salesRepo: salesRepo, productRepo: productRepo, db: db, rdb: rdb}
}

type CreateShipmentRequest struct {
	ShippingNo    string  `json:"shipping_no" binding:"required"`
	OrderItemID   string  `json:"order_item" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
	ShippingDate  string  `json:"shipping_date"` // YYYY-MM-DD, defaults to today
	PackageNumber int     `json:"package_number" binding:"omitempty,gte=1"`
	ShippingNote  string  `json:"shipping_note"`
}

func (s *ShipmentService) Create(req CreateShipmentRequest, userID string) (*entity.Shipment, error) {
	if _, err := s.repo.GetByShippingNo(req.ShippingNo); err == nil {
		return nil, fmt.Errorf("shipping no %s is already used", req.ShippingNo)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check shipping no: %w", err)
	}

	shippingDate := time.Now()
	if d := parseDate(req.ShippingDate); d != nil {
		shippingDate = *d
	}
	packageNumber := req.PackageNumber
	if packageNumber == 0 {
		packageNumber = 1
	}

	shipment := &entity.Shipment{
		ID:            uuid.New().String(),
		ShippingNo:    req.ShippingNo,
		OrderItemID:   req.OrderItemID,
		ShippingDate:  shippingDate,
		Quantity:      req.Quantity,
		PackageNumber: packageNumber,
		ShippingNote:  req.ShippingNote,
		CreatedBy:     userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.salesRepo.GetItemForUpdate(tx, req.OrderItemID)
		if err != nil {
			return fmt.Errorf("order item not found: %w", err)
		}

		var so entity.SalesOrder
		if err := tx.Where("id = ?", item.OrderID).First(&so).Error; err != nil {
			return fmt.Errorf("sales order not found: %w", err)
		}
		if so.Status != entity.SOStatusApproved {
			return fmt.Errorf("order in status %s cannot be shipped", so.Status)
		}

		// authoritative re-check under the lock; the form-level check
		// on the client is advisory only
		if err := fulfillment.ValidateQuantity(*item, req.Quantity); err != nil {
			return err
		}

		if err := s.repo.Create(tx, shipment); err != nil {
			return fmt.Errorf("create shipment: %w", err)
		}

		item.FulfilledQuantity += req.Quantity
		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("update order item: %w", err)
		}

		if err := s.postStock(tx, item, -req.Quantity, entity.TxTypeSalesOut, shipment.ID, userID); err != nil {
			return err
		}

		// auto-complete once every item is fully fulfilled
		var items []entity.OrderItem
		if err := tx.Where("order_id = ?", so.ID).Find(&items).Error; err != nil {
			return fmt.Errorf("load order items: %w", err)
		}
		m := fulfillment.Aggregate(items)
		if m.CompletedItemsCount == m.TotalItems && m.TotalItems > 0 {
			so.Status = entity.SOStatusCompleted
			if err := tx.Save(&so).Error; err != nil {
				return fmt.Errorf("complete sales order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboard(context.Background(), s.rdb)
	return shipment, nil
}

// postStock moves product stock inside the shipment transaction and
// writes the ledger row. Stock is allowed to go negative: sufficiency
// is a planning signal, not a shipping gate.
func (s *ShipmentService) postStock(tx *gorm.DB, item *entity.OrderItem, quantity float64, txType, referenceID, userID string) error {
	product, err := s.productRepo.GetForUpdate(tx, item.ProductID)
	if err != nil {
		return fmt.Errorf("product not found: %w", err)
	}
	product.CurrentStock += quantity
	if err := tx.Save(product).Error; err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	st := &entity.StockTransaction{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		ProductCode:     product.ProductCode,
		TransactionType: txType,
		Quantity:        quantity,
		ReferenceType:   "SHIPMENT",
		ReferenceID:     referenceID,
		CreatedBy:       userID,
	}
	if err := s.productRepo.CreateStockTransaction(tx, st); err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

func (s *ShipmentService) GetByID(id string) (*entity.Shipment, error) {
	return s.repo.GetByID(id)
}

func (s *ShipmentService) List(params repository.ShipmentListParams) ([]entity.Shipment, int64, error) {
	return s.repo.List(params)
}

type UpdateShipmentRequest struct {
	PackageNumber *int    `json:"package_number" binding:"omitempty,gte=1"`
	ShippingNote  *string `json:"shipping_note"`
	ShippingDate  *string `json:"shipping_date"`
}

// Update changes non-quantity fields only. ShippingNo and Quantity
// are immutable after creation; correcting a quantity means deleting
// the shipment and recording a new one.
func (s *ShipmentService) Update(id string, req UpdateShipmentRequest) (*entity.Shipment, error) {
	shipment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("shipment not found: %w", err)
	}
	if req.PackageNumber != nil {
		shipment.PackageNumber = *req.PackageNumber
	}
	if req.ShippingNote != nil {
		shipment.ShippingNote = *req.ShippingNote
	}
	if req.ShippingDate != nil {
		if d := parseDate(*req.ShippingDate); d != nil {
			shipment.ShippingDate = *d
		}
	}
	if err := s.repo.Update(shipment); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}
	return shipment, nil
}

// Delete reverses a mis-recorded shipment: fulfilled quantity and
// product stock are restored and a completed order is reopened.
func (s *ShipmentService) Delete(id string, userID string) error {
	shipment, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("shipment not found: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.salesRepo.GetItemForUpdate(tx, shipment.OrderItemID)
		if err != nil {
			return fmt.Errorf("order item not found: %w", err)
		}

		item.FulfilledQuantity -= shipment.Quantity
		if item.FulfilledQuantity < 0 {
			item.FulfilledQuantity = 0
		}
		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("update order item: %w", err)
		}

		if err := s.repo.Delete(tx, id); err != nil {
			return fmt.Errorf("delete shipment: %w", err)
		}

		if err := s.postStock(tx, item, shipment.Quantity, entity.TxTypeAdjust, shipment.ID, userID); err != nil {
			return err
		}

		var so entity.SalesOrder
		if err := tx.Where("id = ?", item.OrderID).First(&so).Error; err != nil {
			return fmt.Errorf("sales order not found: %w", err)
		}
		if so.Status == entity.SOStatusCompleted {
			so.Status = entity.SOStatusApproved
			if err := tx.Save(&so).Error; err != nil {
				return fmt.Errorf("reopen sales order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidateDashboard(context.Background(), s.rdb)
	return nil
}
