package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oficinapro/workshop/internal/models"
)

// stubGenerator substitutes the Gemini client and records the prompt.
type stubGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.text, s.err
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.InventoryItem{}, &models.ServiceOrder{}, &models.ServiceOrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

// seed a client, an order and a stocked part through the HTTP surface
func seedViaAPI(t *testing.T, h http.Handler) (clientID, itemID, orderID int) {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/clients", `{"name":"João Lima","phone":"11 97777 1234","car_model":"Gol G5","car_plate":"XYZ9A88"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create client: %d %s", w.Code, w.Body.String())
	}
	clientID = int(decode(t, w)["id"].(float64))

	w = doJSON(t, h, http.MethodPost, "/inventory", `{"name":"Filtro de óleo","category":"Motor","cost_price":20,"sell_price":50,"quantity":10,"min_quantity":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create item: %d %s", w.Code, w.Body.String())
	}
	itemID = int(decode(t, w)["id"].(float64))

	w = doJSON(t, h, http.MethodPost, "/os", fmt.Sprintf(`{"client_id":%d}`, clientID))
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["status"] != string(models.StatusOpen) {
		t.Fatalf("new order not Open: %v", body["status"])
	}
	orderID = int(body["id"].(float64))
	return clientID, itemID, orderID
}

func TestOrderLineItemFlow(t *testing.T) {
	db := setupRouterTestDB(t)
	h := New(db, &stubGenerator{text: "ok"})
	_, itemID, orderID := seedViaAPI(t, h)

	// add line item
	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/os/%d/items", orderID), fmt.Sprintf(`{"item_id":%d,"quantity":3}`, itemID))
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: %d %s", w.Code, w.Body.String())
	}
	view := decode(t, w)
	order := view["order"].(map[string]any)
	if order["total_value"].(float64) != 150 {
		t.Fatalf("expected total 150, got %v", order["total_value"])
	}
	lines := view["lines"].([]any)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	lineID := int(lines[0].(map[string]any)["id"].(float64))

	// stock went down
	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/inventory/%d", itemID), "")
	if got := decode(t, w)["quantity"].(float64); got != 7 {
		t.Fatalf("expected stock 7, got %v", got)
	}

	// remove line item, stock and total reversed
	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/os/%d/items/%d", orderID, lineID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("remove item: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/inventory/%d", itemID), "")
	if got := decode(t, w)["quantity"].(float64); got != 10 {
		t.Fatalf("expected stock back to 10, got %v", got)
	}
	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/os/%d", orderID), "")
	if got := decode(t, w)["order"].(map[string]any)["total_value"].(float64); got != 0 {
		t.Fatalf("expected total 0, got %v", got)
	}
}

func TestAddItemInsufficientStockPayload(t *testing.T) {
	db := setupRouterTestDB(t)
	h := New(db, &stubGenerator{text: "ok"})
	_, itemID, orderID := seedViaAPI(t, h)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/os/%d/items", orderID), fmt.Sprintf(`{"item_id":%d,"quantity":25}`, itemID))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["error"] != "insufficient_stock" {
		t.Fatalf("unexpected error code: %v", body["error"])
	}
	details := body["details"].(map[string]any)
	if details["available"].(float64) != 10 || details["requested"].(float64) != 25 {
		t.Fatalf("payload must carry both quantities: %v", details)
	}
}

func TestCloseOrderTwiceViaHTTP(t *testing.T) {
	db := setupRouterTestDB(t)
	h := New(db, &stubGenerator{text: "ok"})
	_, _, orderID := seedViaAPI(t, h)

	for i := 0; i < 2; i++ {
		w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/os/%d/close", orderID), "")
		if w.Code != http.StatusOK {
			t.Fatalf("close #%d: %d %s", i+1, w.Code, w.Body.String())
		}
		if got := decode(t, w)["status"]; got != string(models.StatusClosed) {
			t.Fatalf("close #%d: expected Closed, got %v", i+1, got)
		}
	}
}

func TestOrderReportSuccessAndDegraded(t *testing.T) {
	db := setupRouterTestDB(t)
	gen := &stubGenerator{text: "Olá João, trocamos o filtro de óleo do seu Gol."}
	h := New(db, gen)
	_, itemID, orderID := seedViaAPI(t, h)

	// empty order is rejected before calling the generator
	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/os/%d/report", orderID), "")
	if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "empty_order" {
		t.Fatalf("expected empty_order rejection, got %d %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/os/%d/items", orderID), fmt.Sprintf(`{"item_id":%d,"quantity":2}`, itemID)); w.Code != http.StatusCreated {
		t.Fatalf("add item: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodPost, fmt.Sprintf("/os/%d/report", orderID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("report: %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["message"] != gen.text {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	link := body["whatsapp_link"].(string)
	if !strings.HasPrefix(link, "https://wa.me/5511977771234?text=") {
		t.Fatalf("unexpected whatsapp link: %s", link)
	}
	if !strings.Contains(gen.lastPrompt, "Filtro de óleo (x2)") || !strings.Contains(gen.lastPrompt, "100.00") {
		t.Fatalf("prompt missing order data: %s", gen.lastPrompt)
	}

	// upstream failure degrades the response instead of failing the request
	gen.err = errors.New("deadline exceeded")
	w = doJSON(t, h, http.MethodPost, fmt.Sprintf("/os/%d/report", orderID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("degraded report must stay 200, got %d", w.Code)
	}
	body = decode(t, w)
	if body["degraded"] != true {
		t.Fatalf("expected degraded flag, got %v", body)
	}
}

func TestAnalyzePrice(t *testing.T) {
	db := setupRouterTestDB(t)
	gen := &stubGenerator{text: "Preço Justo. Faixa de mercado: R$ 40-60."}
	h := New(db, gen)
	_, itemID, _ := seedViaAPI(t, h)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/inventory/%d/analyze", itemID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("analyze: %d %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["analysis"]; got != gen.text {
		t.Fatalf("unexpected analysis: %v", got)
	}

	w = doJSON(t, h, http.MethodPost, "/inventory/9999/analyze", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", w.Code)
	}
}

func TestDashboardAndHealth(t *testing.T) {
	db := setupRouterTestDB(t)
	h := New(db, &stubGenerator{text: "ok"})
	seedViaAPI(t, h)

	w := doJSON(t, h, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["total_inventory_value"].(float64) != 200 {
		t.Fatalf("expected inventory value 200, got %v", body["total_inventory_value"])
	}
	if body["open_order_count"].(float64) != 1 {
		t.Fatalf("expected 1 open order, got %v", body["open_order_count"])
	}

	for _, path := range []string{"/health", "/healthz"} {
		if w := doJSON(t, h, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, w.Code)
		}
	}
}

func TestCreateOrderUnknownClient(t *testing.T) {
	db := setupRouterTestDB(t)
	h := New(db, &stubGenerator{text: "ok"})

	w := doJSON(t, h, http.MethodPost, "/os", `{"client_id":42}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %s", w.Code, w.Body.String())
	}
}
