package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"koelnr-payments/internal/client"
	"koelnr-payments/internal/config"
	"koelnr-payments/internal/handler"
	"koelnr-payments/internal/payu"
	"koelnr-payments/internal/razorpay"
	"koelnr-payments/internal/repository"
	"koelnr-payments/internal/server"
	"koelnr-payments/internal/service"
)

func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

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

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db := client.InitMysqlClient(cfg.DatabaseURL)

	orderRepo := repository.NewOrderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	if err := catalogRepo.Seed(context.Background()); err != nil {
		logger.Fatal("seed price catalog", zap.Error(err))
	}

	gateway := payu.NewGateway(&cfg.PayU, cfg.BaseURL)
	rzpClient := razorpay.NewClient(&cfg.Razorpay)

	provisioner := service.NewSubscriptionProvisioner(subscriptionRepo, logger)
	paymentService := service.NewPaymentService(db, gateway, orderRepo, catalogRepo, provisioner, logger)
	razorpayService := service.NewRazorpayService(db, rzpClient, orderRepo, catalogRepo, provisioner, logger)
	orderService := service.NewOrderService(orderRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo)

	paymentHandler := handler.NewPaymentHandler(paymentService, razorpayService, cfg.BaseURL, cfg.PayU.WebhookSecret, logger)
	orderHandler := handler.NewOrderHandler(orderService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)

	srv := server.NewServer(cfg.Auth.JWTSecret, paymentHandler, orderHandler, subscriptionHandler)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
