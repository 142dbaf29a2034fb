package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/client"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/config"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/handler"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/repository"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/server"
	"github.com/WYLDWAGNER/accordous-next-sub000/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Log)

	db := client.InitMysqlClient(cfg.DatabaseURL)
	notifier := client.NewNotifier(&cfg.Notifier)

	contractRepo := repository.NewContractRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	planRepo := repository.NewPlanRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewLicenseAuditRepository(db)
	checkoutRepo := repository.NewCheckoutSessionRepository(db)

	if err := planRepo.Seed(context.Background()); err != nil {
		logger.WithError(err).Warn("seed plans")
	}

	billingService := service.NewBillingService(
		db, logger, notifier,
		contractRepo,
		invoiceRepo,
		sequenceRepo,
	)
	licenseService := service.NewLicenseService(
		logger,
		userRepo,
		auditRepo,
		checkoutRepo,
	)
	webhookService := service.NewWebhookService(
		db, logger, cfg.Cakto.WebhookSecret,
		paymentRepo,
		userRepo,
		planRepo,
		licenseService,
	)

	billingHandler := handler.NewBillingHandler(billingService)
	webhookHandler := handler.NewWebhookHandler(webhookService, logger)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg.JWTSecret, billingHandler, webhookHandler)

	logger.Info("starting HTTP server on ", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error")
	}
}
