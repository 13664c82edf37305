package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/fulfillment"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
)

// DashboardService builds the production-tracker read models. Heavy
// rollups are cached in Redis for a short TTL; order and shipment
// mutations invalidate the cache.
type DashboardService struct {
	salesRepo    *repository.SalesRepository
	shipmentRepo *repository.ShipmentRepository
	productRepo  *repository.ProductRepository
	rdb          *redis.Client
}

func NewDashboardService(salesRepo *repository.SalesRepository, shipmentRepo *repository.ShipmentRepository, productRepo *repository.ProductRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{salesRepo: salesRepo, shipmentRepo: shipmentRepo, productRepo: productRepo, rdb: rdb}
}

func (s *DashboardService) cached(ctx context.Context, key string, dest interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *DashboardService) store(ctx context.Context, key string, v interface{}) {
	if s.rdb == nil {
		return
	}
	if raw, err := json.Marshal(v); err == nil {
		s.rdb.Set(ctx, key, raw, ttlDashboard)
	}
}

// DeadlineSummary counts open order items per deadline bucket. The
// buckets overlap: due-this-week items are also due-this-month.
type DeadlineSummary struct {
	Overdue      int       `json:"overdue"`
	DueThisWeek  int       `json:"due_this_week"`
	DueThisMonth int       `json:"due_this_month"`
	TotalItems   int       `json:"total_items"`
	AsOf         time.Time `json:"as_of"`
}

func (s *DashboardService) DeadlineSummary(ctx context.Context, now time.Time) (*DeadlineSummary, error) {
	var summary DeadlineSummary
	if s.cached(ctx, cacheKeyDeadlines, &summary) {
		return &summary, nil
	}

	items, err := s.salesRepo.ListDeadlineItems()
	if err != nil {
		return nil, fmt.Errorf("load deadline items: %w", err)
	}
	summary = DeadlineSummary{TotalItems: len(items), AsOf: now}
	for _, item := range items {
		b := fulfillment.ClassifyDeadline(item, now)
		if b.Overdue {
			summary.Overdue++
		}
		if b.DueThisWeek {
			summary.DueThisWeek++
		}
		if b.DueThisMonth {
			summary.DueThisMonth++
		}
	}

	s.store(ctx, cacheKeyDeadlines, &summary)
	return &summary, nil
}

// OrderSummary is the tracker headline: orders by status plus the
// overall completion rate across open orders.
type OrderSummary struct {
	ByStatus       map[string]int64         `json:"by_status"`
	OpenOrderStats fulfillment.OrderMetrics `json:"open_order_stats"`
}

func (s *DashboardService) OrderSummary(ctx context.Context) (*OrderSummary, error) {
	var summary OrderSummary
	if s.cached(ctx, cacheKeyOrderSummary, &summary) {
		return &summary, nil
	}

	counts, err := s.salesRepo.CountOrdersByStatus()
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	items, err := s.salesRepo.ListDeadlineItems()
	if err != nil {
		return nil, fmt.Errorf("load open items: %w", err)
	}
	summary = OrderSummary{
		ByStatus:       counts,
		OpenOrderStats: fulfillment.Aggregate(items),
	}

	s.store(ctx, cacheKeyOrderSummary, &summary)
	return &summary, nil
}

// PendingDemandRow pairs a product with the total remaining quantity
// ordered against it.
type PendingDemandRow struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

func (s *DashboardService) PendingDemand(ctx context.Context) ([]PendingDemandRow, error) {
	var rows []PendingDemandRow
	if s.cached(ctx, cacheKeyDemand, &rows) {
		return rows, nil
	}

	demand, err := s.salesRepo.PendingDemand()
	if err != nil {
		return nil, fmt.Errorf("load pending demand: %w", err)
	}
	for productID, qty := range demand {
		rows = append(rows, PendingDemandRow{ProductID: productID, Quantity: qty})
	}

	s.store(ctx, cacheKeyDemand, rows)
	return rows, nil
}

// StockSufficiencyRow classifies one open order item against product
// stock. INSUFFICIENT rows are the production-planning worklist.
type StockSufficiencyRow struct {
	ItemID            string                  `json:"item_id"`
	OrderID           string                  `json:"order_id"`
	ProductID         string                  `json:"product_id"`
	ProductCode       string                  `json:"product_code"`
	RemainingQuantity float64                 `json:"remaining_quantity"`
	CurrentStock      float64                 `json:"current_stock"`
	Status            fulfillment.StockStatus `json:"status"`
}

func (s *DashboardService) StockSufficiency() ([]StockSufficiencyRow, error) {
	items, err := s.salesRepo.ListOpenItems()
	if err != nil {
		return nil, fmt.Errorf("load open items: %w", err)
	}

	rows := make([]StockSufficiencyRow, 0, len(items))
	for _, item := range items {
		remaining := fulfillment.Remaining(item)
		var stock float64
		if item.Product != nil {
			stock = item.Product.CurrentStock
		}
		rows = append(rows, StockSufficiencyRow{
			ItemID:            item.ID,
			OrderID:           item.OrderID,
			ProductID:         item.ProductID,
			ProductCode:       item.ProductCode,
			RemainingQuantity: remaining,
			CurrentStock:      stock,
			Status:            fulfillment.ClassifyStock(remaining, stock),
		})
	}
	return rows, nil
}

// MonthlyShipped is the production report for one calendar month.
func (s *DashboardService) MonthlyShipped(year int, month time.Month) ([]repository.MonthlyShippedRow, error) {
	return s.shipmentRepo.MonthlyShipped(year, month)
}

var monthlyShippedHeaders = []string{
	"Product Code", "Product Name", "Shipped Quantity", "Shipment Count",
}

// ExportMonthlyShipped renders the monthly production report as an
// xlsx workbook.
func (s *DashboardService) ExportMonthlyShipped(year int, month time.Month) (*excelize.File, string, error) {
	rows, err := s.shipmentRepo.MonthlyShipped(year, month)
	if err != nil {
		return nil, "", fmt.Errorf("load monthly shipped: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Monthly Shipped"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range monthlyShippedHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	var totalQty float64
	var totalCount int64
	for rowIdx, row := range rows {
		r := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.ProductCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.TotalQuantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.ShipmentCount)
		totalQty += row.TotalQuantity
		totalCount += row.ShipmentCount
	}

	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), totalQty)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), totalCount)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("D%d", summaryRow), summaryStyle)

	colWidths := []float64{16, 28, 16, 14}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("Shipped_%04d-%02d.xlsx", year, int(month))
	return f, filename, nil
}
