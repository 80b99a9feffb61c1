package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/monetaflow/wallet_backend/internal/adapters/chain"
	"github.com/monetaflow/wallet_backend/internal/adapters/database/pgsql"
	"github.com/monetaflow/wallet_backend/internal/adapters/offchain"
	"github.com/monetaflow/wallet_backend/internal/adapters/rates"
	"github.com/monetaflow/wallet_backend/internal/core/services"
	"github.com/monetaflow/wallet_backend/internal/handlers"
	"github.com/monetaflow/wallet_backend/internal/middleware"
	"github.com/monetaflow/wallet_backend/internal/platform/config"
	"github.com/monetaflow/wallet_backend/internal/utils"
	"github.com/monetaflow/wallet_backend/pkg/database"
)

// @title Wallet Backend API
// @version 1.0
// @description Custodial wallet backend: accounts, payments, off-chain transfers and funds-pull pre-approvals.

// @host localhost:5000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Outbound adapters
	chainClient := chain.NewClient(cfg.ChainJSONRPCURL, cfg.VASPAddress)
	vaspClient := offchain.NewVASPClient(chainClient, cfg.VASPAddress)

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, services.ClientProvider{
		VASPClient:  vaspClient,
		ChainClient: chainClient,
	})

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogHostURL, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Off-chain worker: advances outbound commands, KYC exchanges and
	// on-chain settlement on a fixed interval.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.OffchainTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n, err := serviceContainer.Offchain.Tick(gctx); err != nil {
					logger.Error("Off-chain worker tick failed", slog.String("error", err.Error()))
				} else if n > 0 {
					logger.Info("Off-chain worker advanced items", slog.Int("count", n))
				}
			}
		}
	})

	if cfg.RatesAPIURL != "" {
		g.Go(func() error {
			return rates.RunPoller(gctx, logger, rates.NewProvider(cfg.RatesAPIURL), serviceContainer.ExchangeRate, cfg.RatesPollInterval)
		})
	} else {
		logger.Warn("RATES_API_URL not set, exchange rate polling disabled.")
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped.")
}

// runMigrations applies all pending "up" migrations using a short-lived
// database/sql connection alongside the pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
