package routes

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"cableerp/handlers"
	"cableerp/logger"
	"cableerp/utils"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Users     *handlers.UserHandler
	Customers *handlers.PartyHandler
	Vendors   *handlers.PartyHandler
	Sales     *handlers.OrderHandler
	Purchases *handlers.OrderHandler
	Invoices  *handlers.InvoiceHandler
	PDF       *handlers.PDFHandler
	Payments  *handlers.PaymentHandler
	Balances  *handlers.BalanceHandler
	Company   *handlers.CompanyHandler
}

type Options struct {
	Tokens     *utils.TokenIssuer
	CORSOrigin string
	// RateLimit uses the limiter format, e.g. "300-M". Empty disables it.
	RateLimit string
}

// CORS middleware
func withCORS(origin string, next http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func withRateLimit(format string, next http.Handler) (http.Handler, error) {
	if format == "" {
		return next, nil
	}
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)
	return stdlib.NewMiddleware(instance).Handler(next), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withRequestLog gives each request an id and a logger in its context, and
// logs the outcome.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		l := logger.WithRequestID(requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(l.WithContext(r.Context())))

		event := l.Info()
		if rec.status >= http.StatusInternalServerError {
			event = l.Error()
		}
		event.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// NewRouter builds the API. Everything under /api except register and login
// needs a bearer token.
func NewRouter(h Handlers, opts Options) (http.Handler, error) {
	mux := http.NewServeMux()
	auth := handlers.RequireAuth(opts.Tokens)

	public := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, handlers.RecoverWrapper(fn))
	}
	private := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, handlers.RecoverWrapper(auth(fn)))
	}

	public("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	})

	// User routes
	public("POST /api/auth/register", h.Users.Signup)
	public("POST /api/auth/login", h.Users.Login)
	private("GET /api/auth/me", h.Users.Me)

	// Party routes
	for prefix, ph := range map[string]*handlers.PartyHandler{"/api/customers": h.Customers, "/api/vendors": h.Vendors} {
		private("GET "+prefix, ph.List)
		private("POST "+prefix, ph.Create)
		private("POST "+prefix+"/sync-balances", ph.SyncBalances)
		private("GET "+prefix+"/{id}", ph.Get)
		private("PUT "+prefix+"/{id}", ph.Update)
		private("DELETE "+prefix+"/{id}", ph.Delete)
		private("GET "+prefix+"/{id}/ledger", ph.Ledger)
		private("POST "+prefix+"/{id}/payment", h.Payments.Allocate(ph.Kind))
	}
	private("GET /api/vendors/{id}/orders", h.Vendors.OpenOrders)
	private("POST /api/balances/resync", h.Balances.ResyncAll)

	// Order routes
	for prefix, oh := range map[string]*handlers.OrderHandler{"/api/sales": h.Sales, "/api/purchases": h.Purchases} {
		private("GET "+prefix, oh.List)
		private("POST "+prefix, oh.Create)
		private("GET "+prefix+"/{id}", oh.Get)
		private("PUT "+prefix+"/{id}", oh.Update)
		private("DELETE "+prefix+"/{id}", oh.Delete)
		private("POST "+prefix+"/{id}/payment", oh.Payment)
	}
	private("PATCH /api/sales/{id}/items/{itemId}/delivery", h.Sales.ToggleDelivery)
	private("POST /api/sales/{id}/invoice", h.Invoices.Generate)
	private("GET /api/sales/{id}/invoice", h.Invoices.ByOrder)

	// Invoice routes
	private("GET /api/invoices", h.Invoices.List)
	private("GET /api/invoices/{id}", h.Invoices.Get)
	private("PUT /api/invoices/{id}", h.Invoices.Update)
	private("DELETE /api/invoices/{id}", h.Invoices.Delete)
	private("GET /api/invoices/{id}/pdf", h.PDF.InvoicePDF)

	private("GET /api/payments", h.Payments.List)

	private("GET /api/company", h.Company.GetCompany)
	private("POST /api/company", h.Company.SaveCompany)

	limited, err := withRateLimit(opts.RateLimit, mux)
	if err != nil {
		return nil, err
	}
	return withCORS(opts.CORSOrigin, withRequestLog(limited)), nil
}
