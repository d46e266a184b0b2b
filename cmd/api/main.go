package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/ledger-api/internal/application/finance"
	"github.com/jhoicas/ledger-api/internal/application/inventory"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/application/purchasing"
	"github.com/jhoicas/ledger-api/internal/application/sales"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/jhoicas/ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ledger-api/internal/interfaces/http"
	"github.com/jhoicas/ledger-api/pkg/config"
	"github.com/jhoicas/ledger-api/pkg/logger"
	"github.com/jhoicas/ledger-api/pkg/telemetry"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar tracer")
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error().Err(err).Msg("apagado del tracer")
		}
	}()

	var (
		txRunner ports.TxRunner
		repos    ports.TxRepos
	)
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.App.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	var summaryCache finance.SummaryCache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, resumen financiero sin cache")
		} else {
			defer rdb.Close()
			summaryCache = cache.NewSummaryCache(rdb, cfg.Redis.SummaryCacheTTL)
		}
	}

	zl := log.Zerolog()
	deps := httpRouter.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(repos.Products),
		Ledger:        inventory.NewLedgerUseCase(txRunner, repos.Products, repos.Movements, zl),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Products),
		Orders:        purchasing.NewOrderUseCase(txRunner, repos.PurchaseOrders, zl),
		Receiving:     purchasing.NewReceivingUseCase(txRunner, zl),
		Outstanding:   purchasing.NewOutstandingUseCase(txRunner, zl),
		Finance:       finance.NewUseCase(txRunner, repos.Finance, repos.Products, summaryCache, zl),
		Checkout:      sales.NewCheckoutUseCase(txRunner, repos.Sales, zl),
		Service:       sales.NewServiceUseCase(txRunner, zl),
		JWTSecret:     cfg.JWT.Secret,
	}
	if cfg.RateLimit.Rate != "" {
		deps.RateLimit, err = httpRouter.RateLimit(cfg.RateLimit.Rate)
		if err != nil {
			log.Fatal().Err(err).Msg("rate limit")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.StorageDriver})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
