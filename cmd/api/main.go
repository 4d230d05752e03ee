package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/landscape-promotions/internal/catalog"
	"github.com/fairyhunter13/landscape-promotions/internal/config"
	"github.com/fairyhunter13/landscape-promotions/internal/handler"
	"github.com/fairyhunter13/landscape-promotions/internal/metrics"
	"github.com/fairyhunter13/landscape-promotions/internal/middleware"
	"github.com/fairyhunter13/landscape-promotions/internal/promotion"
	"github.com/fairyhunter13/landscape-promotions/internal/repository"
	"github.com/fairyhunter13/landscape-promotions/internal/service"
	"github.com/fairyhunter13/landscape-promotions/internal/validator"
	"github.com/fairyhunter13/landscape-promotions/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	// The database is optional: it backs the promotion table when
	// PROMO_SOURCE=database and stores the validation audit trail.
	var pool *pgxpool.Pool
	if cfg.DB.Enabled {
		pool, err = database.NewPool(ctx, cfg.DB.DSN(), 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to apply database schema")
		}
	}

	table, err := loadTable(ctx, cfg, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load promotion table")
	}
	log.Info().
		Str("source", cfg.Promo.Source).
		Int("promotions", table.Len()).
		Msg("promotion table loaded")

	evaluator := promotion.NewEvaluator(table,
		promotion.WithPriceList(catalog.ServicePrices()),
		promotion.WithSuggestionDistance(cfg.Promo.SuggestionDistance),
	)

	var attempts service.AttemptRecorder
	if pool != nil {
		attempts = repository.NewAttemptRepository(pool)
	}
	promotionService := service.NewPromotionService(evaluator, attempts, metrics.Recorder{}, cfg.Promo.DisplayLimit)
	promotionHandler := handler.NewPromotionHandler(promotionService, validator.New())

	var pinger handler.Pinger
	if pool != nil {
		pinger = pool
	}
	healthHandler := handler.NewHealthHandler(pinger, table.Len())

	app := fiber.New(fiber.Config{
		AppName:      "Landscape Promotions",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    64 * 1024, // promotion requests are tiny
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/promotions")
	api.Get("/", promotionHandler.ListPromotions)
	api.Post("/validate",
		middleware.RateLimit(cfg.Promo.RateLimitRPS, cfg.Promo.RateLimitBurst),
		promotionHandler.ValidatePromotion,
	)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close the pool only after in-flight requests have finished
	if pool != nil {
		pool.Close()
		log.Info().Msg("database connections closed")
	}
	log.Info().Msg("server stopped")
}

// loadTable builds the immutable promotion table from the configured source.
func loadTable(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*promotion.Table, error) {
	if cfg.Promo.Source != config.SourceDatabase {
		return promotion.NewTable(catalog.Promotions())
	}
	promos, err := repository.NewPromotionRepository(pool).ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return promotion.NewTable(promos)
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
