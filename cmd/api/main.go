package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"restaurante-admin/internal/config"
	"restaurante-admin/internal/domain"
	"restaurante-admin/internal/handler"
	"restaurante-admin/internal/middleware"
	"restaurante-admin/internal/repository"
	"restaurante-admin/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to database: %v (event journal disabled)", err)
	}
	if db != nil {
		defer db.Close()
	}

	redis, err := openRedis(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (session store disabled)", err)
	}
	if redis != nil {
		defer redis.Close()
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, cfg)
	defer services.Shutdown()
	handlers := handler.NewHandlers(services, repos)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openDatabase and openRedis treat an unset URL as "feature off" rather
// than an error.
func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	return config.NewPostgresDB(cfg)
}

func openRedis(cfg *config.Config) (*goredis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	return config.NewRedisClient(cfg)
}

func setupRoutes(app *fiber.App, h *handler.Handlers, services *service.Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	// The auth flow hands the operator credential over here; the token in
	// the body is validated, so no bearer header is required yet.
	v1.Put("/realtime/session", h.Realtime.SetSession)

	protected := v1.Group("", middleware.AuthRequired(services.Session))

	realtime := protected.Group("/realtime")
	realtime.Get("/status", h.Realtime.Status)
	realtime.Post("/connect", h.Realtime.Connect)
	realtime.Post("/disconnect", h.Realtime.Disconnect)
	realtime.Delete("/session", h.Realtime.ClearSession)
	realtime.Get("/clientes-conectados", h.Presence.List)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Post("/:id/click", h.Notification.Click)
	notifications.Delete("/:id", h.Notification.Delete)
	notifications.Post("/categories/:category/reset", h.Notification.ResetCategory)

	status := protected.Group("/status-notifications")
	status.Get("/", h.Status.List)
	status.Post("/", h.Status.Create)
	status.Delete("/:id", h.Status.Delete)

	// The journaled history backs the reports views, which only admins see.
	events := protected.Group("/events", middleware.RequireRole(domain.RoleAdmin))
	events.Get("/", h.EventLog.List)
}
