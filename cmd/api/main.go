package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Inventario-eventos/docs"
	"github.com/jhoicas/Inventario-eventos/internal/bootstrap"
	httpRouter "github.com/jhoicas/Inventario-eventos/internal/interfaces/http"
	"github.com/jhoicas/Inventario-eventos/pkg/config"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
)

// @title                       Inventario Eventos API
// @version                     1.0
// @description                 Bridge local del núcleo de sincronización de stock para eventos.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api_default_host", cfg.API.DefaultHost).
		Msg("iniciando aplicación")

	// Vistas montadas y streams SSE viven hasta la señal de apagado.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	core := bootstrap.New(cfg, log, true)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Sin WriteTimeout: /api/events es un stream largo.
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Eventos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		sess := core.Store.Session()
		return c.JSON(fiber.Map{
			"status":     "ok",
			"service":    cfg.App.Name,
			"permission": sess.Permission,
			"views":      len(core.Sync.Views()),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Context:          ctx,
		Store:            core.Store,
		Sessions:         core.Sessions,
		Sync:             core.Sync,
		Overview:         core.Overview,
		RegisterMovement: core.RegisterMovement,
		SupplyPlan:       core.SupplyPlan,
		Reports:          core.Reports,
		Toasts:           core.Toasts,
		Metrics:          core.Metrics.Handler(),
		Logger:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	core.Sync.CloseViews()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
