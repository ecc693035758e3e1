package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio_tracker/internal/app/provider"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/configloader"
	"portfolio_tracker/internal/infrastructure/restapi"
	"portfolio_tracker/internal/pkg/logger"
	"portfolio_tracker/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.yml"

func main() {
	configloader.LoadDotEnv()

	cfgPath := configloader.GetEnv(os.LookupEnv, "CONFIG_PATH", defaultConfigPath)
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.NewSlogAdapter()

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath), zap.String("level", cfg.Logging.Level))

	defaultQuote, err := entity.ParseQuoteCurrency(cfg.PortfolioService.QuoteCurrency)
	if err != nil {
		zapLogger.Fatal("Invalid default quote currency", zap.Error(err))
	}

	metrics.MustRegisterMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := provider.NewServices(ctx, cfg, appLogger, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to build services", zap.Error(err))
	}
	defer func() {
		if err := services.Close(); err != nil {
			zapLogger.Warn("Failed to release resources", zap.Error(err))
		}
	}()

	ledgers := provider.NewLedgerProvider(cfg.PortfolioService.LedgerPath, appLogger)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := restapi.NewPortfolioHandler(services.Portfolio, ledgers, defaultQuote, appLogger)
	router := restapi.SetupRouter(handler, zapLogger)

	// Make sure to protect these in a production environment
	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		zapLogger.Error("Server failed", zap.Error(err))
	case <-ctx.Done():
		zapLogger.Info("Shutting down server...")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
