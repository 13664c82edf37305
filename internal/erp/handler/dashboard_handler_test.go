package handler

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/testutil"
)

func TestMonthlyShippedExport(t *testing.T) {
	env := setupERPTest(t)
	token := testutil.DefaultTestToken()

	customer := testutil.SeedTestCustomer(t, env.DB, "CUS-X001", "Export Customer")
	product := testutil.SeedTestProduct(t, env.DB, "PRD-X001", "Housing", 30)

	orderID, itemID := createTestOrder(t, env, token, customer.ID, product.ID, 20)
	approveTestOrder(t, env, token, orderID)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/shipments",
		map[string]interface{}{
			"shipping_no":   "SHP-X001",
			"order_item":    itemID,
			"quantity":      12,
			"shipping_date": "2026-08-10",
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating shipment, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/erp/dashboard/monthly-shipped/export?year=2026&month=8", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	if ct := w2.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w2.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	// Header, one product row, one total row
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Product Code" {
		t.Fatalf("unexpected header %q", rows[0][0])
	}
	if rows[1][0] != "PRD-X001" {
		t.Fatalf("expected product code in first data row, got %q", rows[1][0])
	}
	if rows[1][2] != "12" {
		t.Fatalf("expected shipped quantity 12, got %q", rows[1][2])
	}

	// Month out of range is rejected before hitting the report
	w3 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/erp/dashboard/monthly-shipped/export?year=2026&month=13", nil, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for month 13, got %d", w3.Code)
	}
}
