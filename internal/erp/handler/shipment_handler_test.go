package handler

import (
	"net/http"
	"testing"

	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/testutil"
)

// approveTestOrder walks an order through submit and approve.
func approveTestOrder(t *testing.T, env *testutil.TestEnv, token, orderID string) {
	t.Helper()
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/submit", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on submit, got %d: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/sales-orders/"+orderID+"/approve", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on approve, got %d: %s", w.Code, w.Body.String())
	}
}

func TestShipmentCreateUpdatesFulfillment(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-S001", "Ship Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-S001", "Flange", 20)

	orderID, itemID := createTestOrder(t, env, token, customer.ID, product.ID, 15)
	approveTestOrder(t, env, token, orderID)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{
			"shipping_no":    "SHP-0001",
			"order_item":     itemID,
			"quantity":       10,
			"shipping_date":  "2026-08-10",
			"package_number": 2,
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var item entity.OrderItem
	env.DB.Where("id = ?", itemID).First(&item)
	if item.FulfilledQuantity != 10 {
		t.Fatalf("expected fulfilled 10, got %g", item.FulfilledQuantity)
	}

	// Stock is drawn down by the shipped quantity
	var prod entity.Product
	env.DB.Where("id = ?", product.ID).First(&prod)
	if prod.CurrentStock != 10 {
		t.Fatalf("expected stock 10 after shipping 10 of 20, got %g", prod.CurrentStock)
	}

	// A SALES_OUT ledger row references the shipment
	var tx entity.StockTransaction
	if err := env.DB.Where("product_id = ? AND transaction_type = ?", product.ID, entity.TxTypeSalesOut).First(&tx).Error; err != nil {
		t.Fatalf("expected SALES_OUT stock transaction: %v", err)
	}
	if tx.Quantity != -10 {
		t.Fatalf("expected ledger quantity -10, got %g", tx.Quantity)
	}

	// The order stays open while quantity remains
	var so entity.SalesOrder
	env.DB.Where("id = ?", orderID).First(&so)
	if so.Status != entity.SOStatusApproved {
		t.Fatalf("expected APPROVED, got %s", so.Status)
	}
}

func TestShipmentOverQuantityRejected(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-S002", "Ship Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-S002", "Gear", 50)

	orderID, itemID := createTestOrder(t, env, token, customer.ID, product.ID, 15)
	approveTestOrder(t, env, token, orderID)

	testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{"shipping_no": "SHP-0010", "order_item": itemID, "quantity": 10}, token)

	// 10 of 15 shipped, so 10 more must be rejected with the exact
	// remaining quantity in the response
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{"shipping_no": "SHP-0011", "order_item": itemID, "quantity": 10}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10005 {
		t.Fatalf("expected code 10005, got %v", resp["code"])
	}
	data := resp["data"].(map[string]interface{})
	if data["remaining_quantity"].(float64) != 5 {
		t.Fatalf("expected remaining_quantity 5, got %v", data["remaining_quantity"])
	}

	// Fulfillment is untouched by the rejected attempt
	var item entity.OrderItem
	env.DB.Where("id = ?", itemID).First(&item)
	if item.FulfilledQuantity != 10 {
		t.Fatalf("expected fulfilled 10, got %g", item.FulfilledQuantity)
	}
}

func TestShipmentDuplicateShippingNoRejected(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-S003", "Ship Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-S003", "Bolt", 100)

	orderID, itemID := createTestOrder(t, env, token, customer.ID, product.ID, 20)
	approveTestOrder(t, env, token, orderID)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{"shipping_no": "SHP-SAME", "order_item": itemID, "quantity": 5}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{"shipping_no": "SHP-SAME", "order_item": itemID, "quantity": 5}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate shipping_no, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestShipmentCompletesAndReopensOrder(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-S004", "Ship Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-S004", "Cover", 30)

	orderID, itemID := createTestOrder(t, env, token, customer.ID, product.ID, 10)
	approveTestOrder(t, env, token, orderID)

	// Shipping the full quantity completes the order
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{"shipping_no": "SHP-FULL", "order_item": itemID, "quantity": 10}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	shipmentID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	var so entity.SalesOrder
	env.DB.Where("id = ?", orderID).First(&so)
	if so.Status != entity.SOStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", so.Status)
	}

	// Shipping against a completed order is rejected
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{"shipping_no": "SHP-LATE", "order_item": itemID, "quantity": 1}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 shipping completed order, got %d: %s", w2.Code, w2.Body.String())
	}

	// Deleting the shipment reverses fulfillment, restores stock and
	// reopens the order
	w3 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/erp/shipments/"+shipmentID, nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting shipment, got %d: %s", w3.Code, w3.Body.String())
	}

	var item entity.OrderItem
	env.DB.Where("id = ?", itemID).First(&item)
	if item.FulfilledQuantity != 0 {
		t.Fatalf("expected fulfilled 0 after reversal, got %g", item.FulfilledQuantity)
	}
	var prod entity.Product
	env.DB.Where("id = ?", product.ID).First(&prod)
	if prod.CurrentStock != 30 {
		t.Fatalf("expected stock restored to 30, got %g", prod.CurrentStock)
	}
	env.DB.Where("id = ?", orderID).First(&so)
	if so.Status != entity.SOStatusApproved {
		t.Fatalf("expected order reopened to APPROVED, got %s", so.Status)
	}
}

func TestShipmentRequiresApprovedOrder(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-S005", "Ship Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-S005", "Pin", 10)

	_, itemID := createTestOrder(t, env, token, customer.ID, product.ID, 5)

	// Order is still DRAFT
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{"shipping_no": "SHP-DRAFT", "order_item": itemID, "quantity": 1}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 shipping draft order, got %d: %s", w.Code, w.Body.String())
	}
}
