package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/events"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/order"
)

const address = `{"shippingAddress":{"firstName":"Ada","lastName":"Lovelace","address":"12 Olympus Road","city":"Pune","state":"MH","pincode":"411001","phone":"+91 98765 43210"}}`

type testServer struct {
	router *gin.Engine
	events *events.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := &events.Recorder{}
	reg := prometheus.NewRegistry()
	a, err := newApp(memoryStores(), order.NewMemoryLocker(), rec, settings{
		jwtSecret:        "customer-test-secret",
		adminSecret:      "admin-test-secret",
		tokenExpiry:      time.Hour,
		adminTokenExpiry: time.Hour,
		bcryptCost:       4,
	}, reg, zap.NewNop())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if err := a.seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &testServer{
		router: newRouter(a, nil, httpx.NewServerMetrics(reg, "api"), zap.NewNop()),
		events: rec,
	}
}

func (s *testServer) do(t *testing.T, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Buffer
	if body != "" {
		rd = bytes.NewBufferString(body)
	} else {
		rd = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, w.Body.String())
	}
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/register", "", `{"name":"Ada","email":"`+email+`","password":"s3cret!"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	decode(t, w, &res)
	return res.Token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/admin/login", "", `{"username":"admin","password":"admin123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("admin login status=%d body=%s", w.Code, w.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	decode(t, w, &res)
	return res.Token
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "ada@example.com")

	w := s.do(t, http.MethodPost, "/api/cart", token, `{"product_id":"zeus-whey","quantity":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add to cart status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/orders", token, address)
	if w.Code != http.StatusCreated {
		t.Fatalf("place order status=%d body=%s", w.Code, w.Body.String())
	}
	var placed order.CreateOrderResponse
	decode(t, w, &placed)
	if placed.OrderID == "" || placed.Message != "Order created successfully" {
		t.Fatalf("unexpected response %+v", placed)
	}

	w = s.do(t, http.MethodGet, "/api/orders", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list orders status=%d body=%s", w.Code, w.Body.String())
	}
	var orders []map[string]any
	decode(t, w, &orders)
	if len(orders) != 1 || orders[0]["id"] != placed.OrderID {
		t.Fatalf("orders=%v, want the placed order", orders)
	}

	w = s.do(t, http.MethodGet, "/api/cart", token, "")
	var view struct {
		Items []any `json:"items"`
	}
	decode(t, w, &view)
	if len(view.Items) != 0 {
		t.Fatalf("cart still has %d items after checkout", len(view.Items))
	}

	w = s.do(t, http.MethodPost, "/api/orders", token, address)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart status=%d body=%s", w.Code, w.Body.String())
	}
	var body httpx.ErrorBody
	decode(t, w, &body)
	if body.Code != "empty_cart" {
		t.Fatalf("code=%q, want empty_cart", body.Code)
	}

	placedEvents := 0
	for _, e := range s.events.Events() {
		if e.Topic == events.TopicOrderPlaced {
			placedEvents++
		}
	}
	if placedEvents != 1 {
		t.Fatalf("order placed events=%d, want 1", placedEvents)
	}
}

func TestPlaceOrderWithoutAddress(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "noaddr@example.com")
	s.do(t, http.MethodPost, "/api/cart", token, `{"product_id":"zeus-whey","quantity":1}`)

	w := s.do(t, http.MethodPost, "/api/orders", token, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestPlaceOrderIdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "idem@example.com")
	s.do(t, http.MethodPost, "/api/cart", token, `{"product_id":"hermes-energy","quantity":1}`)

	first := s.do(t, http.MethodPost, "/api/orders", token, address, "Idempotency-Key", "k-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("first status=%d body=%s", first.Code, first.Body.String())
	}
	second := s.do(t, http.MethodPost, "/api/orders", token, address, "Idempotency-Key", "k-1")
	if second.Code != http.StatusOK {
		t.Fatalf("replay status=%d body=%s (want 200)", second.Code, second.Body.String())
	}
	var a, b order.CreateOrderResponse
	decode(t, first, &a)
	decode(t, second, &b)
	if a.OrderID != b.OrderID {
		t.Fatalf("replay returned %s, want %s", b.OrderID, a.OrderID)
	}
}

func TestCustomerRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusForbidden},
		{"admin token", admin, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/cart", tc.token, "")
			if w.Code != tc.want {
				t.Fatalf("status=%d body=%s (want %d)", w.Code, w.Body.String(), tc.want)
			}
		})
	}
}

func TestAdminRoutesRejectCustomerToken(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "nosy@example.com")

	w := s.do(t, http.MethodGet, "/api/admin/dashboard", token, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d body=%s (want 403)", w.Code, w.Body.String())
	}
}

func TestAdminDashboardAndOrderStatus(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "buyer@example.com")
	s.do(t, http.MethodPost, "/api/cart", token, `{"product_id":"zeus-whey","quantity":1}`)
	w := s.do(t, http.MethodPost, "/api/orders", token, address)
	var placed order.CreateOrderResponse
	decode(t, w, &placed)

	admin := s.adminToken(t)
	w = s.do(t, http.MethodPut, "/api/admin/orders/"+placed.OrderID+"/status", admin, `{"status":"shipped"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodPut, "/api/admin/orders/"+placed.OrderID+"/status", admin, `{"status":"lost"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status=%d body=%s (want 400)", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/admin/dashboard", admin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d body=%s", w.Code, w.Body.String())
	}
	var d struct {
		TotalOrders  int    `json:"totalOrders"`
		TotalRevenue string `json:"totalRevenue"`
	}
	decode(t, w, &d)
	if d.TotalOrders != 1 || d.TotalRevenue != "2999" {
		t.Fatalf("dashboard=%+v, want 1 order and 2999 revenue", d)
	}

	w = s.do(t, http.MethodGet, "/api/admin/orders?status=shipped", admin, "")
	var orders []map[string]any
	decode(t, w, &orders)
	if len(orders) != 1 {
		t.Fatalf("shipped orders=%d, want 1", len(orders))
	}
}

func TestContactAndEnquiryAdmin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/contact", "", `{"name":"Ada","email":"ada@example.com","message":"Do you ship to Goa?"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("contact status=%d body=%s", w.Code, w.Body.String())
	}
	var e struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &e)
	if e.Status != "new" {
		t.Fatalf("status=%q, want new", e.Status)
	}

	admin := s.adminToken(t)
	w = s.do(t, http.MethodPut, "/api/admin/enquiries/"+e.ID+"/status", admin, `{"status":"replied"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update enquiry status=%d body=%s", w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodGet, "/api/admin/enquiries?status=bogus", admin, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bogus filter status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestListProductsRejectsBadPaging(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products?limit=ten", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodGet, "/api/products?limit=2", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestSetCartQuantityRequiresQuantity(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "qty@example.com")

	w := s.do(t, http.MethodPut, "/api/cart/some-item", token, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAddToCartRejectsHugeQuantity(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "bulk@example.com")

	w := s.do(t, http.MethodPost, "/api/cart", token, `{"product_id":"zeus-whey","quantity":10000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodPost, "/api/cart", token, `{"product_id":"zeus-whey","quantity":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400)", w.Code, w.Body.String())
	}
}

func TestEmptyCartWinsOverMissingAddress(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "empty@example.com")

	w := s.do(t, http.MethodPost, "/api/orders", token, `{}`)
	var body httpx.ErrorBody
	decode(t, w, &body)
	if w.Code != http.StatusBadRequest || body.Code != "empty_cart" {
		t.Fatalf("status=%d body=%s (want 400 empty_cart)", w.Code, w.Body.String())
	}
}
