package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-stockscan/internal/config"
	"go-stockscan/internal/events"
	"go-stockscan/internal/handler"
	"go-stockscan/internal/middleware"
	"go-stockscan/internal/model"
	"go-stockscan/internal/repository"
	"go-stockscan/internal/service"
	"go-stockscan/internal/ws"
	"go-stockscan/pkg/database"
	"go-stockscan/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env (.env is optional outside local development)
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Logger.Level, cfg.Server.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 2. Setup Database
	db := database.ConnectDB(log)
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(&model.Product{}, &model.ScanLog{})

	// 3. Seed demo products so a fresh install has something to scan
	seedProducts(db, log)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 5. Kafka scan-event publisher (no-op when brokers are not configured)
	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	defer publisher.Close()

	// 6. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	scanLogRepo := repository.NewScanLogRepo(db)

	invService := service.NewInventoryService(productRepo, scanLogRepo, db, wsHub, publisher, log)
	dashService := service.NewDashboardService(scanLogRepo)

	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stockscan Inventory v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// Scan endpoint consumed by both scan surfaces
	api.Post("/inventory/scan", middleware.DeviceContext(), invHandler.Scan)

	// Product catalog
	api.Get("/products", invHandler.GetProducts)
	api.Post("/products", invHandler.CreateProduct)
	api.Get("/products/:id", invHandler.GetProduct)

	// Scan audit log
	api.Get("/scan-logs", invHandler.GetScanLogs)
	api.Get("/scan-logs/:id", invHandler.GetScanLog)

	// Dashboard
	api.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	api.Get("/dashboard/scan-movement", dashHandler.GetScanMovement)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// WebSocket stock update feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// seedProducts creates a handful of demo products on an empty catalog.
func seedProducts(db *gorm.DB, log *zap.Logger) {
	var count int64
	db.Model(&model.Product{}).Count(&count)
	if count > 0 {
		return
	}

	barcode := func(s string) *string { return &s }
	demo := []model.Product{
		{SKU: "DEMO-001", Name: "Demo Widget", Stock: 10, Unit: "pcs", Price: 15000},
		{SKU: "DEMO-002", Name: "Demo Gadget", Stock: 5, Unit: "pcs", Price: 42000, Barcode: barcode("8991234567890")},
		{SKU: "DEMO-003", Name: "Demo Gizmo", Stock: 0, Unit: "box", Price: 99000},
	}
	for i := range demo {
		if err := db.Create(&demo[i]).Error; err != nil {
			log.Warn("failed to seed product", zap.String("sku", demo[i].SKU), zap.Error(err))
		}
	}
	log.Info("seeded demo products", zap.Int("count", len(demo)))
}
