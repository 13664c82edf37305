package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/fulfillment"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
)

type SalesService struct {
	repo        *repository.SalesRepository
	productRepo *repository.ProductRepository
	rdb         *redis.Client
}

func NewSalesService(repo *repository.SalesRepository, productRepo *repository.ProductRepository, rdb *redis.Client) *SalesService {
	return &SalesService{repo: repo, productRepo: productRepo, rdb: rdb}
}

// --- Customer ---

type CreateCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	TaxNumber   string `json:"tax_number"`
	Notes       string `json:"notes"`
}

func (s *SalesService) CreateCustomer(req CreateCustomerRequest, userID string) (*entity.Customer, error) {
	code := fmt.Sprintf("CUS-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
	custType := req.Type
	if custType == "" {
		custType = entity.CustomerTypeCorporate
	}

	customer := &entity.Customer{
		ID:           uuid.New().String(),
		CustomerCode: code,
		Name:         req.Name,
		Type:         custType,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		TaxNumber:    req.TaxNumber,
		Status:       entity.CustomerStatusActive,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}

	if err := s.repo.CreateCustomer(customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

func (s *SalesService) GetCustomerByID(id string) (*entity.Customer, error) {
	return s.repo.GetCustomerByID(id)
}

func (s *SalesService) ListCustomers(params repository.CustomerListParams) ([]entity.Customer, int64, error) {
	return s.repo.ListCustomers(params)
}

type UpdateCustomerRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

func (s *SalesService) UpdateCustomer(id string, req UpdateCustomerRequest) (*entity.Customer, error) {
	customer, err := s.repo.GetCustomerByID(id)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.ContactName != "" {
		customer.ContactName = req.ContactName
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.Status != "" {
		customer.Status = req.Status
	}
	if req.Notes != "" {
		customer.Notes = req.Notes
	}
	if err := s.repo.UpdateCustomer(customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

func (s *SalesService) DeleteCustomer(id string) error {
	return s.repo.DeleteCustomer(id)
}

// --- Sales Order ---

type CreateOrderRequest struct {
	CustomerID string                   `json:"customer" binding:"required"`
	Notes      string                   `json:"notes"`
	Items      []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CreateOrderItemRequest struct {
	ProductID          string  `json:"product" binding:"required"`
	OrderedQuantity    float64 `json:"ordered_quantity" binding:"required,gte=1"`
	DeadlineDate       string  `json:"deadline_date"`        // YYYY-MM-DD
	KapsamDeadlineDate string  `json:"kapsam_deadline_date"` // YYYY-MM-DD
	ReceivingDate      string  `json:"receiving_date"`       // YYYY-MM-DD
	Notes              string  `json:"notes"`
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func (s *SalesService) CreateOrder(req CreateOrderRequest, userID string) (*entity.SalesOrder, error) {
	customer, err := s.repo.GetCustomerByID(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}

	number := fmt.Sprintf("SO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
	now := time.Now()

	so := &entity.SalesOrder{
		ID:           uuid.New().String(),
		OrderNumber:  number,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Status:       entity.SOStatusDraft,
		OrderDate:    &now,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}

	var items []entity.OrderItem
	for _, ir := range req.Items {
		product, err := s.productRepo.GetByID(ir.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", ir.ProductID, err)
		}
		items = append(items, entity.OrderItem{
			ID:                 uuid.New().String(),
			OrderID:            so.ID,
			ProductID:          product.ID,
			ProductCode:        product.ProductCode,
			ProductName:        product.ProductName,
			OrderedQuantity:    ir.OrderedQuantity,
			DeadlineDate:       parseDate(ir.DeadlineDate),
			KapsamDeadlineDate: parseDate(ir.KapsamDeadlineDate),
			ReceivingDate:      parseDate(ir.ReceivingDate),
			Notes:              ir.Notes,
		})
	}
	so.Items = items

	if err := s.repo.CreateOrder(so); err != nil {
		return nil, fmt.Errorf("create sales order: %w", err)
	}
	invalidateDashboard(context.Background(), s.rdb)
	return so, nil
}

func (s *SalesService) GetOrderByID(id string) (*entity.SalesOrder, error) {
	return s.repo.GetOrderByID(id)
}

// ItemStats is the per-item fulfillment view returned alongside an
// order: remaining quantity and stock classification against the
// product's current stock.
type ItemStats struct {
	ItemID            string                  `json:"item_id"`
	ProductCode       string                  `json:"product_code"`
	RemainingQuantity float64                 `json:"remaining_quantity"`
	StockStatus       fulfillment.StockStatus `json:"stock_status"`
}

// OrderStats bundles the aggregated metrics with per-item detail.
type OrderStats struct {
	fulfillment.OrderMetrics
	Items []ItemStats `json:"items"`
}

// GetOrderStats computes fulfillment metrics for one order.
func (s *SalesService) GetOrderStats(id string) (*entity.SalesOrder, *OrderStats, error) {
	so, err := s.repo.GetOrderByID(id)
	if err != nil {
		return nil, nil, fmt.Errorf("sales order not found: %w", err)
	}

	stats := &OrderStats{OrderMetrics: fulfillment.Aggregate(so.Items)}
	for _, item := range so.Items {
		remaining := fulfillment.Remaining(item)
		var stock float64
		if item.Product != nil {
			stock = item.Product.CurrentStock
		}
		stats.Items = append(stats.Items, ItemStats{
			ItemID:            item.ID,
			ProductCode:       item.ProductCode,
			RemainingQuantity: remaining,
			StockStatus:       fulfillment.ClassifyStock(remaining, stock),
		})
	}
	return so, stats, nil
}

func (s *SalesService) ListOrders(params repository.OrderListParams) ([]entity.SalesOrder, int64, error) {
	return s.repo.ListOrders(params)
}

type UpdateOrderRequest struct {
	Notes string `json:"notes"`
}

func (s *SalesService) UpdateOrder(id string, req UpdateOrderRequest) (*entity.SalesOrder, error) {
	so, err := s.repo.GetOrderByID(id)
	if err != nil {
		return nil, fmt.Errorf("sales order not found: %w", err)
	}
	if so.Status == entity.SOStatusCancelled || so.Status == entity.SOStatusCompleted {
		return nil, fmt.Errorf("order in status %s cannot be edited", so.Status)
	}
	so.Notes = req.Notes
	if err := s.repo.UpdateOrder(so); err != nil {
		return nil, fmt.Errorf("update sales order: %w", err)
	}
	return so, nil
}

// Submit moves a draft order into the approval queue.
func (s *SalesService) Submit(id string) error {
	so, err := s.repo.GetOrderByID(id)
	if err != nil {
		return fmt.Errorf("sales order not found: %w", err)
	}
	if so.Status != entity.SOStatusDraft {
		return fmt.Errorf("order in status %s cannot be submitted", so.Status)
	}
	so.Status = entity.SOStatusPendingApproval
	if err := s.repo.UpdateOrder(so); err != nil {
		return err
	}
	invalidateDashboard(context.Background(), s.rdb)
	return nil
}

// Approve releases an order for shipping.
func (s *SalesService) Approve(id string) error {
	so, err := s.repo.GetOrderByID(id)
	if err != nil {
		return fmt.Errorf("sales order not found: %w", err)
	}
	if so.Status != entity.SOStatusPendingApproval {
		return fmt.Errorf("order in status %s cannot be approved", so.Status)
	}
	so.Status = entity.SOStatusApproved
	if err := s.repo.UpdateOrder(so); err != nil {
		return err
	}
	invalidateDashboard(context.Background(), s.rdb)
	return nil
}

// Cancel is allowed until the order is completed.
func (s *SalesService) Cancel(id string) error {
	so, err := s.repo.GetOrderByID(id)
	if err != nil {
		return fmt.Errorf("sales order not found: %w", err)
	}
	if so.Status == entity.SOStatusCompleted {
		return fmt.Errorf("completed order cannot be cancelled")
	}
	if so.Status == entity.SOStatusCancelled {
		return fmt.Errorf("order is already cancelled")
	}
	so.Status = entity.SOStatusCancelled
	if err := s.repo.UpdateOrder(so); err != nil {
		return err
	}
	invalidateDashboard(context.Background(), s.rdb)
	return nil
}

func (s *SalesService) DeleteOrder(id string) error {
	so, err := s.repo.GetOrderByID(id)
	if err != nil {
		return fmt.Errorf("sales order not found: %w", err)
	}
	if so.Status == entity.SOStatusApproved || so.Status == entity.SOStatusCompleted {
		return fmt.Errorf("order in status %s cannot be deleted", so.Status)
	}
	if err := s.repo.DeleteOrder(id); err != nil {
		return err
	}
	invalidateDashboard(context.Background(), s.rdb)
	return nil
}

// --- Order Item ---

type AddItemRequest struct {
	ProductID          string  `json:"product" binding:"required"`
	OrderedQuantity    float64 `json:"ordered_quantity" binding:"required,gte=1"`
	DeadlineDate       string  `json:"deadline_date"`
	KapsamDeadlineDate string  `json:"kapsam_deadline_date"`
	Notes              string  `json:"notes"`
}

func (s *SalesService) AddItem(orderID string, req AddItemRequest) (*entity.OrderItem, error) {
	so, err := s.repo.GetOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("sales order not found: %w", err)
	}
	if so.Status != entity.SOStatusDraft && so.Status != entity.SOStatusPendingApproval {
		return nil, fmt.Errorf("items cannot be added to order in status %s", so.Status)
	}
	product, err := s.productRepo.GetByID(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	item := &entity.OrderItem{
		ID:                 uuid.New().String(),
		OrderID:            so.ID,
		ProductID:          product.ID,
		ProductCode:        product.ProductCode,
		ProductName:        product.ProductName,
		OrderedQuantity:    req.OrderedQuantity,
		DeadlineDate:       parseDate(req.DeadlineDate),
		KapsamDeadlineDate: parseDate(req.KapsamDeadlineDate),
		Notes:              req.Notes,
	}
	if err := s.repo.CreateItem(item); err != nil {
		return nil, fmt.Errorf("create order item: %w", err)
	}
	invalidateDashboard(context.Background(), s.rdb)
	return item, nil
}

type UpdateItemRequest struct {
	OrderedQuantity    *float64 `json:"ordered_quantity" binding:"omitempty,gte=1"`
	DeadlineDate       *string  `json:"deadline_date"`
	KapsamDeadlineDate *string  `json:"kapsam_deadline_date"`
	ReceivingDate      *string  `json:"receiving_date"`
	Notes              *string  `json:"notes"`
}

func (s *SalesService) UpdateItem(itemID string, req UpdateItemRequest) (*entity.OrderItem, error) {
	item, err := s.repo.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("order item not found: %w", err)
	}
	if item.Order != nil && (item.Order.Status == entity.SOStatusCancelled || item.Order.Status == entity.SOStatusCompleted) {
		return nil, fmt.Errorf("items of order in status %s cannot be edited", item.Order.Status)
	}

	if req.OrderedQuantity != nil {
		// ordered quantity may never fall below what is already shipped
		if *req.OrderedQuantity < item.FulfilledQuantity {
			return nil, fmt.Errorf("ordered quantity %g is below already fulfilled quantity %g",
				*req.OrderedQuantity, item.FulfilledQuantity)
		}
		item.OrderedQuantity = *req.OrderedQuantity
	}
	if req.DeadlineDate != nil {
		item.DeadlineDate = parseDate(*req.DeadlineDate)
	}
	if req.KapsamDeadlineDate != nil {
		item.KapsamDeadlineDate = parseDate(*req.KapsamDeadlineDate)
	}
	if req.ReceivingDate != nil {
		item.ReceivingDate = parseDate(*req.ReceivingDate)
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := s.repo.UpdateItem(item); err != nil {
		return nil, fmt.Errorf("update order item: %w", err)
	}
	invalidateDashboard(context.Background(), s.rdb)
	return item, nil
}

func (s *SalesService) DeleteItem(itemID string) error {
	item, err := s.repo.GetItemByID(itemID)
	if err != nil {
		return fmt.Errorf("order item not found: %w", err)
	}
	if item.FulfilledQuantity > 0 {
		return fmt.Errorf("item with recorded shipments cannot be deleted")
	}
	if item.Order != nil && item.Order.Status != entity.SOStatusDraft && item.Order.Status != entity.SOStatusPendingApproval {
		return fmt.Errorf("items of order in status %s cannot be deleted", item.Order.Status)
	}
	if err := s.repo.DeleteItem(itemID); err != nil {
		return err
	}
	invalidateDashboard(context.Background(), s.rdb)
	return nil
}
