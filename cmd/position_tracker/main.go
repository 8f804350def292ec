package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"position_tracker/internal/app/service"
	"position_tracker/internal/client"
	"position_tracker/internal/infrastructure/configloader"
	evmclient "position_tracker/internal/infrastructure/network/client"
	networkdefinition "position_tracker/internal/infrastructure/network/definition"
	"position_tracker/internal/infrastructure/restapi"
	"position_tracker/internal/pkg/logger"
	"position_tracker/internal/pkg/pricecache"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// Bootstrap logger until the real logging stack is configured.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	cfgPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapCfg := zap.NewProductionConfig()
	if level, parseErr := zapcore.ParseLevel(strings.ToLower(cfg.Logging.Level)); parseErr == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	} else {
		log.Warnf("Invalid logging level %q, keeping INFO", cfg.Logging.Level)
	}
	zapLogger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Route slog (and the port.Logger adapter) through the zap core.
	logger.SetHandler(zapslog.NewHandler(zapLogger.Core()))
	appLogger := logger.NewSlogAdapter()

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	networkProvider := networkdefinition.NewNetworkDefinitionProvider(appLogger)
	clientProvider := evmclient.NewEVMClientProvider(cfg, appLogger)

	positionsClient := client.NewPositionAPIClient(
		cfg.PositionProvider.BaseURL,
		time.Duration(cfg.PositionProvider.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	zapLogger.Info("Position provider client initialized")

	pricingClient := client.NewPricingAPIClient(
		cfg.Pricing.BaseURL,
		cfg.Pricing.APIKey,
		time.Duration(cfg.Pricing.RequestTimeoutMillis)*time.Millisecond,
		cfg.Pricing.RequestsPerSecond,
		zapLogger,
		cfg.Pricing.MaxTokensPerBatchRequest,
	)
	priceCache := pricecache.New(time.Duration(cfg.Pricing.CacheTTLMillis) * time.Millisecond)
	pricingService := service.NewPricingService(
		pricingClient,
		priceCache,
		networkProvider,
		appLogger,
		cfg.Pricing.APIKey != "",
	)
	if cfg.Pricing.APIKey == "" {
		zapLogger.Warn("No pricing API key configured; prices will resolve to zero")
	}
	zapLogger.Info("Pricing service initialized")

	fetcher := service.NewChainPositionFetcher(positionsClient, networkProvider, clientProvider, appLogger)
	aggregator := service.NewPositionAggregator(
		fetcher,
		pricingService,
		networkProvider,
		appLogger,
		cfg.Performance.MaxConcurrentRoutines,
	)
	zapLogger.Info("Position aggregator initialized")

	positionHandler := restapi.NewPositionHandler(aggregator, networkProvider, appLogger)
	cacheHandler := restapi.NewCacheAdminHandler(priceCache, appLogger)
	router := restapi.SetupRouter(positionHandler, cacheHandler, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
