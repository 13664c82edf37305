package handler

import (
	"net/http"
	"testing"

	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/service"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/testutil"
)

func setupERPTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil)
	h := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/erp")

	api.POST("/customers", h.Sales.CreateCustomer)
	api.GET("/customers/:id", h.Sales.GetCustomer)
	api.GET("/customers", h.Sales.ListCustomers)
	api.PUT("/customers/:id", h.Sales.UpdateCustomer)

	api.POST("/sales-orders", h.Sales.CreateOrder)
	api.GET("/sales-orders/:id", h.Sales.GetOrder)
	api.GET("/sales-orders", h.Sales.ListOrders)
	api.POST("/sales-orders/:id/submit", h.Sales.SubmitOrder)
	api.POST("/sales-orders/:id/approve", h.Sales.ApproveOrder)
	api.POST("/sales-orders/:id/cancel", h.Sales.CancelOrder)
	api.DELETE("/sales-orders/:id", h.Sales.DeleteOrder)
	api.POST("/sales-orders/:id/items", h.Sales.AddItem)
	api.PUT("/sales-orders/:id/items/:itemId", h.Sales.UpdateItem)
	api.DELETE("/sales-orders/:id/items/:itemId", h.Sales.DeleteItem)

	api.POST("/shipments", h.Shipment.Create)
	api.GET("/shipments", h.Shipment.List)
	api.DELETE("/shipments/:id", h.Shipment.Delete)

	api.GET("/dashboard/monthly-shipped/export", h.Dashboard.ExportMonthlyShipped)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// createTestOrder creates an order with one item via the API and
// returns the order and item ids.
func createTestOrder(t *testing.T, env *testutil.TestEnv, token, customerID, productID string, qty float64) (orderID, itemID string) {
	t.Helper()
	body := map[string]interface{}{
		"customer": customerID,
		"items": []map[string]interface{}{
			{"product": productID, "ordered_quantity": qty, "deadline_date": "2026-12-31"},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating order, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	orderID = data["id"].(string)
	items := data["items"].([]interface{})
	itemID = items[0].(map[string]interface{})["id"].(string)
	return orderID, itemID
}

func TestCustomerCreateAndUpdate(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/customers",
		map[string]interface{}{"name": "Acme Machining", "contact_name": "J. Doe"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["customer_code"].(string) == "" {
		t.Fatal("expected generated customer_code")
	}
	if data["status"] != entity.CustomerStatusActive {
		t.Fatalf("expected ACTIVE, got %v", data["status"])
	}
	customerID := data["id"].(string)

	w2 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/erp/customers/"+customerID,
		map[string]interface{}{"phone": "+90 555 000 0000"}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	resp2 := testutil.ParseResponse(w2)
	if resp2["data"].(map[string]interface{})["phone"] != "+90 555 000 0000" {
		t.Fatal("expected phone to be updated")
	}
}

func TestOrderLifecycle(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-T001", "Test Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-T001", "Bracket", 20)

	orderID, _ := createTestOrder(t, env, token, customer.ID, product.ID, 15)

	// Created orders start in DRAFT with a generated order number
	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/erp/sales-orders/"+orderID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	order := data["order"].(map[string]interface{})
	if order["status"] != entity.SOStatusDraft {
		t.Fatalf("expected DRAFT, got %v", order["status"])
	}
	if order["order_number"].(string) == "" {
		t.Fatal("expected generated order_number")
	}

	stats := data["stats"].(map[string]interface{})
	if stats["completion_rate"].(float64) != 0 {
		t.Fatalf("expected completion rate 0, got %v", stats["completion_rate"])
	}
	if stats["remaining_quantity"].(float64) != 15 {
		t.Fatalf("expected remaining 15, got %v", stats["remaining_quantity"])
	}
	itemStats := stats["items"].([]interface{})[0].(map[string]interface{})
	if itemStats["stock_status"] != "SUFFICIENT" {
		t.Fatalf("expected SUFFICIENT for stock 20 vs remaining 15, got %v", itemStats["stock_status"])
	}

	// DRAFT -> PENDING_APPROVAL -> APPROVED
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/submit", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 on submit, got %d: %s", w2.Code, w2.Body.String())
	}
	w3 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/approve", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 on approve, got %d: %s", w3.Code, w3.Body.String())
	}

	var so entity.SalesOrder
	env.DB.Where("id = ?", orderID).First(&so)
	if so.Status != entity.SOStatusApproved {
		t.Fatalf("expected APPROVED, got %s", so.Status)
	}

	// Approving twice is rejected
	w4 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/approve", nil, token)
	if w4.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on double approve, got %d", w4.Code)
	}

	// Approved orders cannot be deleted
	w5 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/erp/sales-orders/"+orderID, nil, token)
	if w5.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting approved order, got %d", w5.Code)
	}
}

func TestOrderCreateValidation(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-T002", "Test Customer")

	// An order without items fails binding
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders",
		map[string]interface{}{"customer": customer.ID, "items": []map[string]interface{}{}}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty items, got %d", w.Code)
	}

	// Zero quantity fails binding
	product := testutil.SeedTestProduct(t, env.DB, "PRD-T002", "Shaft", 0)
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders",
		map[string]interface{}{
			"customer": customer.ID,
			"items":    []map[string]interface{}{{"product": product.ID, "ordered_quantity": 0}},
		}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", w2.Code)
	}
}

func TestOrderItemGuards(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-T003", "Test Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-T003", "Housing", 50)

	orderID, itemID := createTestOrder(t, env, token, customer.ID, product.ID, 10)

	// Items can be added while the order is a draft
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/items",
		map[string]interface{}{"product": product.ID, "ordered_quantity": 5}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 adding item, got %d: %s", w.Code, w.Body.String())
	}
	addedID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// Unshipped items can be deleted
	w2 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/erp/sales-orders/"+orderID+"/items/"+addedID, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting item, got %d: %s", w2.Code, w2.Body.String())
	}

	// Once approved and partially shipped, the ordered quantity cannot
	// fall below what was already fulfilled
	testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/submit", nil, token)
	testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/approve", nil, token)
	ws := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{"shipping_no": "SHP-G001", "order_item": itemID, "quantity": 6}, token)
	if ws.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating shipment, got %d: %s", ws.Code, ws.Body.String())
	}

	w3 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/erp/sales-orders/"+orderID+"/items/"+itemID,
		map[string]interface{}{"ordered_quantity": 5}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 shrinking below fulfilled, got %d: %s", w3.Code, w3.Body.String())
	}

	// Shipped items cannot be deleted
	w4 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/erp/sales-orders/"+orderID+"/items/"+itemID, nil, token)
	if w4.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting shipped item, got %d", w4.Code)
	}
}

func TestOrderCancel(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-T004", "Test Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-T004", "Plate", 5)

	orderID, _ := createTestOrder(t, env, token, customer.ID, product.ID, 3)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/cancel", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on cancel, got %d: %s", w.Code, w.Body.String())
	}

	// Cancelling twice is rejected
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/cancel", nil, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on double cancel, got %d", w2.Code)
	}
}

func TestOrderSoftDelete(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-T005", "Test Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-T005", "Bracket", 5)

	// Deleting a draft order succeeds even with item rows attached
	orderID, _ := createTestOrder(t, env, token, customer.ID, product.ID, 3)

	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/erp/sales-orders/"+orderID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/erp/sales-orders/"+orderID, nil, token)
	if w2.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w2.Code)
	}

	// The row survives with deleted_at stamped
	var count int64
	env.DB.Unscoped().Model(&entity.SalesOrder{}).
		Where("id = ? AND deleted_at IS NOT NULL", orderID).Count(&count)
	if count != 1 {
		t.Fatalf("expected soft-deleted order row to remain, found %d", count)
	}

	// Deleted orders no longer appear in listings
	w3 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/erp/sales-orders", nil, token)
	resp := testutil.ParseResponse(w3)
	data := resp["data"].(map[string]interface{})
	if total := data["total"].(float64); total != 0 {
		t.Fatalf("expected 0 orders listed after delete, got %g", total)
	}
}
