package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"souq-kart/internal/config"
	"souq-kart/internal/database"
	"souq-kart/internal/handler"
	"souq-kart/internal/notify"
	"souq-kart/internal/pricing"
	"souq-kart/internal/repository"
	"souq-kart/internal/router"
	"souq-kart/internal/service"
	"souq-kart/internal/shipping"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting souq-kart order API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	loyaltyRepo := repository.NewLoyaltyRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Resolve the shipping rate table: S3, then local file, then the
	// built-in governorate defaults.
	rates := loadRateTable(ctx, cfg, logger)

	// Outbound collaborators; log-backed until real providers are wired.
	mailer := notify.NewLogEmailSender(logger)
	notifier := notify.NewLogNotificationSink(logger)

	loyaltyCfg := loyaltyFromConfig(cfg.Loyalty)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, logger)
	checkoutService := service.NewCheckoutService(
		orderRepo, cartRepo, productRepo, couponRepo, loyaltyRepo,
		rates, mailer, notifier, loyaltyCfg, logger,
	)
	statusService := service.NewOrderStatusService(orderRepo, mailer, notifier, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(catalogService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	orderHandler := handler.NewOrderHandler(checkoutService, logger)
	adminHandler := handler.NewAdminOrderHandler(statusService, logger)

	// Initialize router
	mux := router.New(productHandler, checkoutHandler, orderHandler, adminHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loyaltyFromConfig maps the deployment loyalty settings onto the
// pricing points economy.
func loyaltyFromConfig(cfg config.LoyaltyConfig) pricing.LoyaltyConfig {
	return pricing.LoyaltyConfig{
		PointsToDinars:  cfg.PointValue,
		MinRedeemPoints: cfg.MinRedemption,
		EarnPerDinars:   cfg.EarnPerDinars,
	}
}

// loadRateTable resolves the shipping rate table from the configured
// sources, degrading to the built-in defaults on any failure. A bad
// rates file must not stop the server from taking orders.
func loadRateTable(ctx context.Context, cfg *config.Config, logger zerolog.Logger) shipping.RateTable {
	if cfg.S3.Enabled {
		s3Loader, err := shipping.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 rates loader, trying local sources")
		} else {
			doc, err := s3Loader.Load(ctx, cfg.S3.Key)
			if err == nil {
				return shipping.TableFromDocument(doc)
			}
			logger.Warn().Err(err).Msg("failed to load shipping rates from S3, trying local sources")
		}
	}

	if cfg.Shipping.RatesFile != "" {
		doc, err := shipping.NewFileLoader(logger).Load(ctx, cfg.Shipping.RatesFile)
		if err == nil {
			return shipping.TableFromDocument(doc)
		}
		logger.Warn().Err(err).Msg("failed to load shipping rates file, using built-in defaults")
	}

	logger.Info().Msg("using built-in governorate shipping rates")
	return shipping.NewTable(shipping.DefaultRates(), shipping.DefaultFallback())
}
