package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
	"gorm.io/gorm"
)

type ProductService struct {
	repo *repository.ProductRepository
	db   *gorm.DB
}

func NewProductService(repo *repository.ProductRepository, db *gorm.DB) *ProductService {
	return &ProductService{repo: repo, db: db}
}

type CreateProductRequest struct {
	ProductCode string  `json:"product_code" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	ProductType string  `json:"product_type"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	SafetyStock float64 `json:"safety_stock" binding:"omitempty,gte=0"`
}

func (s *ProductService) Create(req CreateProductRequest, userID string) (*entity.Product, error) {
	if _, err := s.repo.GetByCode(req.ProductCode); err == nil {
		return nil, fmt.Errorf("product code %s is already used", req.ProductCode)
	}

	productType := req.ProductType
	if productType == "" {
		productType = entity.ProductTypeFinished
	}
	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	product := &entity.Product{
		ID:          uuid.New().String(),
		ProductCode: req.ProductCode,
		ProductName: req.ProductName,
		ProductType: productType,
		Description: req.Description,
		Unit:        unit,
		SafetyStock: req.SafetyStock,
		Status:      entity.ProductStatusActive,
		CreatedBy:   userID,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetByID(id string) (*entity.Product, error) {
	return s.repo.GetByID(id)
}

func (s *ProductService) List(params repository.ProductListParams) ([]entity.Product, int64, error) {
	return s.repo.List(params)
}

type UpdateProductRequest struct {
	ProductName string   `json:"product_name"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	SafetyStock *float64 `json:"safety_stock" binding:"omitempty,gte=0"`
	Status      string   `json:"status"`
}

func (s *ProductService) Update(id string, req UpdateProductRequest) (*entity.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if req.ProductName != "" {
		product.ProductName = req.ProductName
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	if req.SafetyStock != nil {
		product.SafetyStock = *req.SafetyStock
	}
	if req.Status != "" {
		product.Status = req.Status
	}
	if err := s.repo.Update(product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Delete(id string) error {
	return s.repo.Delete(id)
}

type AdjustStockRequest struct {
	AdjustQty float64 `json:"adjust_qty" binding:"required"`
	Reason    string  `json:"reason" binding:"required"`
}

// AdjustStock applies a manual stock correction. Unlike shipment
// postings, a manual adjustment may not take stock negative.
func (s *ProductService) AdjustStock(id string, req AdjustStockRequest, userID string) (*entity.Product, error) {
	var product *entity.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.repo.GetForUpdate(tx, id)
		if err != nil {
			return fmt.Errorf("product not found: %w", err)
		}
		if product.CurrentStock+req.AdjustQty < 0 {
			return fmt.Errorf("adjustment would take stock negative: current %g, adjust %g",
				product.CurrentStock, req.AdjustQty)
		}
		product.CurrentStock += req.AdjustQty
		if err := tx.Save(product).Error; err != nil {
			return fmt.Errorf("update product stock: %w", err)
		}

		txType := entity.TxTypeAdjust
		if req.AdjustQty > 0 {
			txType = entity.TxTypeProductionIn
		}
		st := &entity.StockTransaction{
			ID:              uuid.New().String(),
			ProductID:       product.ID,
			ProductCode:     product.ProductCode,
			TransactionType: txType,
			Quantity:        req.AdjustQty,
			ReferenceType:   "MANUAL",
			ReferenceID:     uuid.New().String(),
			Notes:           req.Reason,
			CreatedBy:       userID,
		}
		return s.repo.CreateStockTransaction(tx, st)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ListStockTransactions(productID string, page, size int) ([]entity.StockTransaction, int64, error) {
	return s.repo.ListStockTransactions(productID, page, size)
}
