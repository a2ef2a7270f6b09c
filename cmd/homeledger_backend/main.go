package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/famfin/homeledger/internal/core/ports"
	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
	"github.com/famfin/homeledger/internal/core/services"
	"github.com/famfin/homeledger/internal/handlers"
	"github.com/famfin/homeledger/internal/middleware"
	"github.com/famfin/homeledger/internal/platform/config"
	"github.com/famfin/homeledger/internal/repositories/database/pgsql"
	"github.com/famfin/homeledger/internal/repositories/memory"
	"github.com/famfin/homeledger/internal/repositories/ratesapi"
	"github.com/famfin/homeledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Historical rate valuation needs the database; the live conversion path
	// works without it.
	var historical ports.HistoricalRateStore
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)
		logger.Info("Database connection pool established.")

		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		historical = pgsql.NewPgxExchangeRateRepository(dbPool)
	} else {
		logger.Warn("No database configured; historical rate requests will fail.")
	}

	// Currency registry: static seed, read-only after this point.
	registry, err := services.NewCurrencyRegistry(services.DefaultCurrencies())
	if err != nil {
		logger.Error("Failed to build currency registry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateSource := ratesapi.NewRoutingSource(registry,
		ratesapi.NewFrankfurterSource(cfg.FiatRateAPIURL),
		ratesapi.NewCoinGeckoSource(cfg.CryptoRateAPIURL),
	)

	providerOptions := []services.RateProviderOption{
		services.WithRateTTL(cfg.RateCacheTTL),
		services.WithCryptoRateTTL(cfg.CryptoRateCacheTTL),
		services.WithGraceWindow(cfg.RateGraceWindow),
		services.WithFetchTimeout(cfg.RateFetchTimeout),
	}
	if historical != nil {
		providerOptions = append(providerOptions, services.WithHistoricalStore(historical))
	}
	rateProvider := services.NewRateProviderService(memory.NewRateCache(), rateSource, registry, providerOptions...)

	conversionService := services.NewConversionService(registry, rateProvider)
	aggregationService := services.NewAggregationService(registry, conversionService)

	container := &portssvc.ServiceContainer{
		Registry:    registry,
		Rates:       rateProvider,
		Conversion:  conversionService,
		Aggregation: aggregationService,
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if rate, err := limiter.NewRateFromFormatted(cfg.APIRateLimit); err == nil {
		r.Use(middleware.RateLimit(limiter.New(limitermemory.NewStore(), rate)))
	} else {
		logger.Warn("Invalid API_RATE_LIMIT, rate limiting disabled", slog.String("error", err.Error()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterValidators()
	handlers.RegisterRoutes(r, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection, using the pgx stdlib driver to stay compatible
// with the main pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

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

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
