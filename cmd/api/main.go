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

	"github.com/tu-usuario/keystock/internal/application/inventory"
	"github.com/tu-usuario/keystock/internal/domain/vendor"
	"github.com/tu-usuario/keystock/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/keystock/internal/interfaces/http"
	"github.com/tu-usuario/keystock/pkg/config"
	"github.com/tu-usuario/keystock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewInventoryRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	itemUC := inventory.NewItemUseCase(txRunner, itemRepo, cfg.Inventory.DefaultThreshold)
	usageUC := inventory.NewUsageUseCase(txRunner, usageRepo)
	importUC := inventory.NewImportUseCase(vendor.NewParser(), itemUC)

	// Reconciliador: colección local alimentada por LISTEN/NOTIFY, con
	// resincronización completa al reconectar.
	feed := postgres.NewFeedListener(pool, cfg.Feed.Channel, log)
	reconciler := inventory.NewReconciler(feed, itemRepo, log, cfg.Feed.ReconnectBackoff)
	if err := reconciler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("carga inicial del inventario")
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
		Title:    "KeyStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": cfg.App.Name,
			"feed":    reconciler.State().String(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Items:      itemUC,
		Usage:      usageUC,
		Import:     importUC,
		Reconciler: reconciler,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	reconciler.Close()
	log.Info().Msg("aplicación detenida")
}
