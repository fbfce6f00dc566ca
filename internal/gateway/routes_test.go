package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sunatstock/internal/blob/local"
	"sunatstock/internal/database/dbtest"
	"sunatstock/internal/gateway"
	inventoryhandler "sunatstock/internal/services/inventory/handler"
	userhandler "sunatstock/internal/services/user/handler"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testGateway struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t)
	users := userhandler.NewUserHandler(db, zerolog.Nop())
	if _, err := users.CreateUser(context.Background(), "admin", "rahasia", "Admin"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	images, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}

	router, err := gateway.NewRouter(gateway.RouterConfig{
		Inventory:   inventoryhandler.NewInventoryHandler(db, nil, zerolog.Nop(), inventoryhandler.WithLocation(time.UTC)),
		User:        users,
		Images:      images,
		Location:    time.UTC,
		Logger:      zerolog.Nop(),
		CORSOrigins: []string{"*"},
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	g := &testGateway{t: t, router: router}
	g.token = g.login("admin", "rahasia")
	return g
}

func (g *testGateway) do(method, path string, body interface{}, auth bool) (*httptest.ResponseRecorder, envelope) {
	g.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			g.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	return g.serve(req)
}

func (g *testGateway) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	g.t.Helper()
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (g *testGateway) login(username, password string) string {
	g.t.Helper()
	w, env := g.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": username, "password": password}, false)
	if w.Code != http.StatusOK {
		g.t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil || result.Token == "" {
		g.t.Fatalf("login data: %s", env.Data)
	}
	return result.Token
}

func (g *testGateway) createItem(name string, stock int) int64 {
	g.t.Helper()
	w, env := g.do(http.MethodPost, "/api/v1/items", map[string]interface{}{
		"name": name, "category": "habis_pakai", "unit": "pcs", "current_stock": stock, "minimum_threshold": 1,
	}, true)
	if w.Code != http.StatusCreated {
		g.t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var item struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &item); err != nil {
		g.t.Fatalf("decode item: %v", err)
	}
	return item.ID
}

func TestLogin(t *testing.T) {
	g := newTestGateway(t)

	w, env := g.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "salah"}, false)
	if w.Code != http.StatusUnauthorized || env.Success {
		t.Errorf("wrong password: status %d, body %s", w.Code, w.Body.String())
	}

	w, _ = g.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin"}, false)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing password: status %d", w.Code)
	}

	w, _ = g.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "rahasia"}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "password_hash") || strings.Contains(body, "rahasia") {
		t.Errorf("login response leaks the password: %s", body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	g := newTestGateway(t)

	for _, path := range []string{"/api/v1/items", "/api/v1/dashboard", "/api/v1/procedures"} {
		w, _ := g.do(http.MethodGet, path, nil, false)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status %d", path, w.Code)
		}
	}

	w, _ := g.do(http.MethodGet, "/health", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
	w, _ = g.do(http.MethodGet, "/metrics", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("metrics status = %d", w.Code)
	}
}

func TestItemLifecycle(t *testing.T) {
	g := newTestGateway(t)
	id := g.createItem("Kasa", 10)
	itemPath := "/api/v1/items/" + jsonID(id)

	w, env := g.do(http.MethodGet, itemPath, nil, true)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("get status = %d: %s", w.Code, w.Body.String())
	}

	w, env = g.do(http.MethodPatch, itemPath, map[string]interface{}{"purchase_price": 1500.5}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", w.Code, w.Body.String())
	}
	var item struct {
		Name          string   `json:"name"`
		PurchasePrice *float64 `json:"purchase_price"`
		CurrentStock  int32    `json:"current_stock"`
	}
	_ = json.Unmarshal(env.Data, &item)
	if item.Name != "Kasa" || item.PurchasePrice == nil || *item.PurchasePrice != 1500.5 {
		t.Errorf("unexpected item after patch: %s", env.Data)
	}

	w, env = g.do(http.MethodPost, itemPath+"/restock", map[string]interface{}{"quantity": 5}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("restock status = %d: %s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(env.Data, &item)
	if item.CurrentStock != 15 {
		t.Errorf("current_stock = %d, want 15", item.CurrentStock)
	}

	w, env = g.do(http.MethodGet, itemPath+"/history", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var history []json.RawMessage
	_ = json.Unmarshal(env.Data, &history)
	if len(history) != 2 {
		t.Errorf("history rows = %d, want 2", len(history))
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"get missing", http.MethodGet, "/api/v1/items/999", nil, http.StatusNotFound},
		{"patch missing", http.MethodPatch, "/api/v1/items/999", map[string]string{"name": "x"}, http.StatusNotFound},
		{"restock missing", http.MethodPost, "/api/v1/items/999/restock", map[string]int{"quantity": 1}, http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/v1/items/abc", nil, http.StatusBadRequest},
		{"invalid create", http.MethodPost, "/api/v1/items", map[string]string{"name": "x", "category": "lain", "unit": "pcs"}, http.StatusBadRequest},
		{"invalid restock", http.MethodPost, itemPath + "/restock", map[string]int{"quantity": 0}, http.StatusBadRequest},
		{"bad status filter", http.MethodGet, "/api/v1/items?status=habis", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := g.do(tt.method, tt.path, tt.body, true)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if env.Success || env.Error == "" {
				t.Errorf("expected error envelope, got %s", w.Body.String())
			}
		})
	}
}

func TestProcedureErrors(t *testing.T) {
	g := newTestGateway(t)
	id := g.createItem("Kasa", 2)

	tests := []struct {
		name  string
		items []map[string]int64
		want  int
		msg   string
	}{
		{"insufficient stock", []map[string]int64{{"item_id": id, "quantity_used": 5}}, http.StatusConflict,
			"Insufficient stock for item Kasa. Available: 2, Required: 5"},
		{"missing item", []map[string]int64{{"item_id": 999, "quantity_used": 1}}, http.StatusNotFound,
			"Medical item with ID 999 not found"},
		{"zero quantity", []map[string]int64{{"item_id": id, "quantity_used": 0}}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := g.do(http.MethodPost, "/api/v1/procedures", map[string]interface{}{
				"patient_name":   "Budi",
				"procedure_date": "2026-03-14T09:00:00Z",
				"items_used":     tt.items,
			}, true)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.msg != "" && env.Error != tt.msg {
				t.Errorf("error = %q, want %q", env.Error, tt.msg)
			}
		})
	}

	w, _ := g.do(http.MethodPost, "/api/v1/procedures", map[string]interface{}{
		"procedure_date": "2026-03-14T09:00:00Z",
		"items_used":     []map[string]int64{{"item_id": id, "quantity_used": 2}},
	}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("create procedure status = %d: %s", w.Code, w.Body.String())
	}

	w, env := g.do(http.MethodGet, "/api/v1/reports/usage?start_date=2026-03-14&end_date=2026-03-14", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("usage report status = %d: %s", w.Code, w.Body.String())
	}
	var report []struct {
		TotalUsed int64 `json:"total_used"`
	}
	_ = json.Unmarshal(env.Data, &report)
	if len(report) != 1 || report[0].TotalUsed != 2 {
		t.Errorf("unexpected report: %s", env.Data)
	}

	w, env = g.do(http.MethodGet, "/api/v1/procedures?start_date=2026-03-14&end_date=2026-03-14", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("procedures status = %d", w.Code)
	}
	var procs []json.RawMessage
	_ = json.Unmarshal(env.Data, &procs)
	if len(procs) != 1 {
		t.Errorf("procedures = %d, want 1", len(procs))
	}

	w, _ = g.do(http.MethodGet, "/api/v1/reports/usage", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("usage without dates: status %d", w.Code)
	}
	w, _ = g.do(http.MethodGet, "/api/v1/procedures?start_date=2026-03-14", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("half range: status %d", w.Code)
	}
	w, _ = g.do(http.MethodGet, "/api/v1/reports/usage?start_date=2026-03-15&end_date=2026-03-01", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("inverted range: status %d", w.Code)
	}

	w, env = g.do(http.MethodGet, "/api/v1/dashboard", nil, true)
	if w.Code != http.StatusOK || !env.Success {
		t.Errorf("dashboard status = %d", w.Code)
	}
}

func TestItemImageUpload(t *testing.T) {
	g := newTestGateway(t)
	id := g.createItem("Gunting", 1)
	imagePath := "/api/v1/items/" + jsonID(id) + "/image"

	upload := func(path string, content []byte) (*httptest.ResponseRecorder, envelope) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("image", "photo")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		fw.Write(content)
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, path, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+g.token)
		return g.serve(req)
	}

	w, env := upload(imagePath, pngHeader)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", w.Code, w.Body.String())
	}
	var item struct {
		ImagePath *string `json:"image_path"`
	}
	_ = json.Unmarshal(env.Data, &item)
	if item.ImagePath == nil {
		t.Fatal("expected image_path to be set")
	}

	req := httptest.NewRequest(http.MethodGet, imagePath, nil)
	req.Header.Set("Authorization", "Bearer "+g.token)
	w = httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), pngHeader) {
		t.Error("downloaded image differs from upload")
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}

	w, _ = upload(imagePath, []byte("GIF89a....."))
	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("gif upload status = %d", w.Code)
	}

	w, _ = upload("/api/v1/items/999/image", pngHeader)
	if w.Code != http.StatusNotFound {
		t.Errorf("upload for missing item status = %d", w.Code)
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
