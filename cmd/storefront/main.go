package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/mw"
	"storefront/internal/processor"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/worker"
)

func main() {
	cfg := config.New()

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(context.Background(), db)

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	// Stores
	settingsStore := store.NewSettingsStore(db)
	orderStore := store.NewOrderStore(db)
	txnStore := store.NewTransactionStore(db)
	webhookStore := store.NewWebhookStore(db)
	customerStore := store.NewCustomerStore(db)

	// Services
	authSvc := service.NewAuthService(customerStore)
	orderSvc := service.NewOrderService(orderStore)
	paymentSvc := service.NewPaymentService(settingsStore, txnStore, processor.NewStripeClient)
	verifySvc := service.NewVerifyService(settingsStore, txnStore, orderStore, processor.NewStripeClient)
	webhookSvc := service.NewWebhookService(settingsStore, txnStore, orderStore, webhookStore, processor.VerifyAndDecode)

	// Worker
	reconcileWorker := worker.NewReconcileWorker(txnStore, verifySvc)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/customers/register", handler.RegisterHandler(authSvc, cfg.JWTSecret))
	r.Post("/api/customers/login", handler.LoginHandler(authSvc, cfg.JWTSecret))
	r.Post("/api/payments/verify", handler.VerifyPaymentHandler(verifySvc))
	r.Post("/api/webhooks/stripe", handler.StripeWebhookHandler(webhookSvc))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Post("/api/orders", handler.CheckoutHandler(orderSvc))
		r.Get("/api/orders", handler.ListOrdersHandler(orderSvc))
		r.Post("/api/payments/intent", handler.CreateIntentHandler(paymentSvc))
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go reconcileWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
