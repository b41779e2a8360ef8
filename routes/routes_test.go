package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cableerp/handlers"
	"cableerp/models"
	"cableerp/repository"
	"cableerp/services"
	"cableerp/utils"
)

type envelope struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Data          json.RawMessage `json:"data"`
	Token         string          `json:"token"`
	UpdatedOrders json.RawMessage `json:"updatedOrders"`
	Payments      json.RawMessage `json:"payments"`
}

type testAPI struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestAPI(t *testing.T, rateLimit string) *testAPI {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := services.New(store, services.Options{Log: zerolog.Nop()})
	tokens := &utils.TokenIssuer{Secret: []byte("test-secret"), TTL: time.Hour}

	router, err := NewRouter(Handlers{
		Users:     &handlers.UserHandler{Repo: store.Users, Tokens: tokens},
		Customers: &handlers.PartyHandler{Svc: svc.Parties, Kind: models.PartyCustomer},
		Vendors:   &handlers.PartyHandler{Svc: svc.Parties, Kind: models.PartyVendor},
		Sales:     &handlers.OrderHandler{Svc: svc.Orders, Kind: models.SalesOrderKind},
		Purchases: &handlers.OrderHandler{Svc: svc.Orders, Kind: models.PurchaseOrderKind},
		Invoices:  &handlers.InvoiceHandler{Svc: svc.Invoices},
		PDF:       &handlers.PDFHandler{Invoices: svc.Invoices},
		Payments:  &handlers.PaymentHandler{Allocator: svc.Allocator},
		Balances:  &handlers.BalanceHandler{Ledger: svc.Ledger},
		Company:   &handlers.CompanyHandler{Repo: store.Company},
	}, Options{Tokens: tokens, CORSOrigin: "https://erp.example.com", RateLimit: rateLimit})
	require.NoError(t, err)
	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path string, body interface{}) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func (a *testAPI) login() {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Accounts", "email": "accounts@cableerp.com", "password": "s3cret!",
	})
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	require.NotEmpty(a.t, env.Token)
	a.token = env.Token
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestAPIRequiresToken(t *testing.T) {
	api := newTestAPI(t, "")

	status, env := api.do(http.MethodGet, "/api/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	api.token = "garbage"
	status, _ = api.do(http.MethodGet, "/api/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	api.token = ""
	status, _ = api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t, "")
	api.login()

	status, _ := api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "accounts@cableerp.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "Accounts@CableERP.com", "password": "s3cret!",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, env.Token)

	api.token = env.Token
	status, env = api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	var me models.AppUser
	decodeData(t, env, &me)
	assert.Equal(t, "accounts@cableerp.com", me.Email)
	assert.Equal(t, "user", me.Role)
	assert.Empty(t, me.Password)

	status, _ = api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Again", "email": "accounts@cableerp.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSalesFlow(t *testing.T) {
	api := newTestAPI(t, "")
	api.login()

	status, env := api.do(http.MethodPost, "/api/customers", map[string]interface{}{
		"name":           "Shree Traders",
		"billingAddress": map[string]string{"city": "Pune", "state": "Maharashtra", "pincode": "411001"},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var customer models.Party
	decodeData(t, env, &customer)

	status, env = api.do(http.MethodPost, "/api/sales", map[string]interface{}{
		"customer": customer.ID,
		"items": []map[string]interface{}{
			{"description": "4 core armoured", "quantity": 10, "rate": 100},
			{"description": "2 core flexible", "quantity": 5, "rate": 40},
		},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var order models.Order
	decodeData(t, env, &order)
	assert.Equal(t, "1416", order.TotalAmount.String())
	assert.NotEmpty(t, order.CreatedBy)

	status, env = api.do(http.MethodPost, "/api/sales/"+order.ID+"/invoice", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "no delivered items")

	status, _ = api.do(http.MethodPatch, "/api/sales/"+order.ID+"/items/"+order.Items[0].ID+"/delivery", nil)
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodPost, "/api/sales/"+order.ID+"/invoice", nil)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var inv models.Invoice
	decodeData(t, env, &inv)
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.SaleWithinMaharashtra)

	status, env = api.do(http.MethodGet, "/api/sales/"+order.ID+"/invoice", nil)
	require.Equal(t, http.StatusOK, status)
	var latest models.Invoice
	decodeData(t, env, &latest)
	assert.Equal(t, inv.ID, latest.ID)

	status, env = api.do(http.MethodPost, "/api/customers/"+customer.ID+"/payment", map[string]interface{}{
		"amount": 500, "paymentMethod": "upi",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "Payment of ₹500.00 received and applied to 1 order(s)", env.Message)
	var party models.Party
	decodeData(t, env, &party)
	assert.Equal(t, "916", party.OutstandingBalance.String())
	var payments []models.Payment
	require.NoError(t, json.Unmarshal(env.Payments, &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, order.OrderNumber, payments[0].ReferenceNumber)

	status, env = api.do(http.MethodPost, "/api/sales/"+order.ID+"/payment", map[string]interface{}{"amount": 1000})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	status, env = api.do(http.MethodGet, "/api/payments?type=received", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &payments))
	assert.Len(t, payments, 1)

	status, env = api.do(http.MethodGet, "/api/customers/"+customer.ID+"/ledger", nil)
	require.Equal(t, http.StatusOK, status)
	var ledger []models.Order
	decodeData(t, env, &ledger)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.PaymentPartial, ledger[0].PaymentStatus)

	status, _ = api.do(http.MethodPost, "/api/balances/resync", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodGet, "/api/sales/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Sales order not found", env.Message)
}

func TestMalformedPayload(t *testing.T) {
	api := newTestAPI(t, "")
	api.login()

	req := httptest.NewRequest(http.MethodPost, "/api/vendors", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+api.token)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, "")
	req := httptest.NewRequest(http.MethodOptions, "/api/sales", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://erp.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	api := newTestAPI(t, "2-M")
	for i := 0; i < 2; i++ {
		status, _ := api.do(http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI(t, "")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}
