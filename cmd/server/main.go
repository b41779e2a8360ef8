package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"cableerp/app"
	"cableerp/config"
	"cableerp/handlers"
	"cableerp/logger"
	"cableerp/models"
	"cableerp/routes"
	"cableerp/utils"
)

func main() {
	// Load config from .env and the environment
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		panic(err)
	}
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	svc := a.Services
	tokens := &utils.TokenIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL}
	if cfg.JWTSecret == "" {
		tokens.Secret = []byte("dev-only-secret")
		log.Warn().Msg("JWT_SECRET not set, using a development secret")
	}

	router, err := routes.NewRouter(routes.Handlers{
		Users:     &handlers.UserHandler{Repo: a.Store.Users, Tokens: tokens},
		Customers: &handlers.PartyHandler{Svc: svc.Parties, Kind: models.PartyCustomer},
		Vendors:   &handlers.PartyHandler{Svc: svc.Parties, Kind: models.PartyVendor},
		Sales:     &handlers.OrderHandler{Svc: svc.Orders, Kind: models.SalesOrderKind},
		Purchases: &handlers.OrderHandler{Svc: svc.Orders, Kind: models.PurchaseOrderKind},
		Invoices:  &handlers.InvoiceHandler{Svc: svc.Invoices},
		PDF:       &handlers.PDFHandler{Invoices: svc.Invoices},
		Payments:  &handlers.PaymentHandler{Allocator: svc.Allocator},
		Balances:  &handlers.BalanceHandler{Ledger: svc.Ledger},
		Company:   &handlers.CompanyHandler{Repo: a.Store.Company},
	}, routes.Options{
		Tokens:     tokens,
		CORSOrigin: cfg.CORSOrigin,
		RateLimit:  cfg.RateLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid RATE_LIMIT")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", cfg.Port).Str("db", string(cfg.DBType)).Msg("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
