package handler

import (
	"net/http"
	"testing"

	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/entity"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/repository"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/erp/service"
	"github.com/yigtkaya/kapsam-erp-sub000/internal/testutil"
)

func setupBOMTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil)
	h := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/erp")

	api.POST("/boms", h.BOM.Create)
	api.GET("/boms/:id", h.BOM.Get)
	api.POST("/boms/:id/activate", h.BOM.Activate)
	api.DELETE("/boms/:id", h.BOM.Delete)
	api.POST("/boms/:id/components", h.BOM.AddComponent)
	api.PUT("/boms/:id/components/:componentId", h.BOM.UpdateComponent)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestBOMComposition(t *testing.T) {
	env := setupBOMTest(t)
	token := testutil.DefaultTestToken()

	finished := testutil.SeedTestProduct(t, env.DB, "PRD-B001", "Assembly", 0)
	raw := testutil.SeedTestProduct(t, env.DB, "PRD-B002", "Sheet Metal", 100)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/boms",
		map[string]interface{}{"product": finished.ID, "version": "v1"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	bomID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// First component gets sequence 1 automatically
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/boms/"+bomID+"/components",
		map[string]interface{}{"component_type": "PRODUCT", "product_component": raw.ID, "quantity": 2.5}, token)
	if w2.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w2.Code, w2.Body.String())
	}
	comp := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if comp["sequence_order"].(float64) != 1 {
		t.Fatalf("expected sequence 1, got %v", comp["sequence_order"])
	}

	// Process step follows at sequence 2
	w3 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/boms/"+bomID+"/components",
		map[string]interface{}{"component_type": "PROCESS", "process_name": "CNC milling", "machine_type": "CNC"}, token)
	if w3.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w3.Code, w3.Body.String())
	}
	comp2 := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	if comp2["sequence_order"].(float64) != 2 {
		t.Fatalf("expected sequence 2, got %v", comp2["sequence_order"])
	}

	// The BOM's own product cannot be one of its components
	w4 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/boms/"+bomID+"/components",
		map[string]interface{}{"component_type": "PRODUCT", "product_component": finished.ID, "quantity": 1}, token)
	if w4.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-reference, got %d: %s", w4.Code, w4.Body.String())
	}

	// A product component without quantity is rejected
	w5 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/boms/"+bomID+"/components",
		map[string]interface{}{"component_type": "PRODUCT", "product_component": raw.ID}, token)
	if w5.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing quantity, got %d: %s", w5.Code, w5.Body.String())
	}
}

func TestBOMActivate(t *testing.T) {
	env := setupBOMTest(t)
	token := testutil.DefaultTestToken()

	product := testutil.SeedTestProduct(t, env.DB, "PRD-B010", "Gearbox", 0)

	createBOM := func(version string) string {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/boms",
			map[string]interface{}{"product": product.ID, "version": version}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 creating bom %s, got %d: %s", version, w.Code, w.Body.String())
		}
		return testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
	}

	v1 := createBOM("v1")
	v2 := createBOM("v2")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/boms/"+v1+"/activate", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 activating v1, got %d: %s", w.Code, w.Body.String())
	}

	var prod entity.Product
	env.DB.Where("id = ?", product.ID).First(&prod)
	if prod.ActiveBOMID == nil || *prod.ActiveBOMID != v1 {
		t.Fatal("expected product active_bom_id to point at v1")
	}

	// Active versions cannot be deleted
	w2 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/erp/boms/"+v1, nil, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting active bom, got %d", w2.Code)
	}

	// Activating v2 obsoletes v1 and repoints the product
	w3 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/erp/boms/"+v2+"/activate", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 activating v2, got %d: %s", w3.Code, w3.Body.String())
	}

	var old entity.BOM
	env.DB.Where("id = ?", v1).First(&old)
	if old.Status != entity.BOMStatusObsolete {
		t.Fatalf("expected v1 OBSOLETE, got %s", old.Status)
	}
	env.DB.Where("id = ?", product.ID).First(&prod)
	if prod.ActiveBOMID == nil || *prod.ActiveBOMID != v2 {
		t.Fatal("expected product active_bom_id to point at v2")
	}
}
