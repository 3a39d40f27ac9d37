package main

import (
	"log"
	"strings"

	"masapos-backend/internal/analytics"
	"masapos-backend/internal/audit"
	"masapos-backend/internal/auth"
	"masapos-backend/internal/cache"
	"masapos-backend/internal/config"
	"masapos-backend/internal/database"
	"masapos-backend/internal/menu"
	"masapos-backend/internal/models"
	"masapos-backend/internal/orders"
	"masapos-backend/internal/reservations"
	"masapos-backend/internal/state"
	"masapos-backend/internal/stock"
	"masapos-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	cache.Init(cfg.RedisAddr)

	loc := cfg.Location()

	// Tek yetkili ayna: önce önbellekten ısıt, sonra yetkili veriyle senkronla
	store := state.NewStore()
	stock.WarmFromCache(store)
	stock.Refresh(store)

	// Zamanlayıcılar: 2 dakikada bir satılabilirlik senkronu, dakikada bir
	// süresi geçen rezervasyon süpürmesi
	scheduler := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := scheduler.AddFunc("*/2 * * * *", func() { stock.Refresh(store) }); err != nil {
		log.Fatalf("Satılabilirlik zamanlayıcısı kurulamadı: %v", err)
	}
	if _, err := scheduler.AddFunc("* * * * *", func() { reservations.SweepExpired(loc) }); err != nil {
		log.Fatalf("Rezervasyon süpürme zamanlayıcısı kurulamadı: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kullanıcı yönetimi
	adminRoutes.Post("/users", auth.CreateUserHandler())

	// Ürün yönetimi
	adminRoutes.Post("/products", menu.CreateProductHandler(store))
	adminRoutes.Put("/products/:id", menu.UpdateProductHandler(store))
	adminRoutes.Delete("/products/:id", menu.DeleteProductHandler(store))

	// Salon ve masa yönetimi
	adminRoutes.Post("/salons", tables.CreateSalonHandler())
	adminRoutes.Delete("/salons/:id", tables.DeleteSalonHandler())
	adminRoutes.Post("/dining-tables", tables.CreateTableHandler())
	adminRoutes.Put("/dining-tables/:id", tables.UpdateTableHandler())
	adminRoutes.Delete("/dining-tables/:id", tables.DeleteTableHandler())

	// Ürün listesi ve tarifler
	protected.Get("/products", menu.ListProductsHandler(store))
	protected.Get("/products/available-quantities", stock.AvailableQuantitiesHandler(store))
	protected.Get("/product-ingredients", menu.ListProductIngredientsHandler())

	// Stok yönetimi (admin)
	stocksRoutes := protected.Group("/stocks")
	stocksRoutes.Use(auth.RequireRole(models.RoleAdmin))
	stocksRoutes.Get("", stock.ListIngredientsHandler())
	stocksRoutes.Post("", stock.CreateIngredientHandler())
	stocksRoutes.Put("/:id/min", stock.UpdateMinStockHandler())
	stocksRoutes.Delete("/:id", stock.DeleteIngredientHandler())

	movementRoutes := protected.Group("/stock-movements")
	movementRoutes.Use(auth.RequireRole(models.RoleAdmin))
	movementRoutes.Post("", stock.CreateMovementHandler(store))
	movementRoutes.Get("", stock.ListMovementsHandler())
	movementRoutes.Post("/import", stock.ImportPurchasesHandler(store))

	// Masalar ve salonlar
	protected.Get("/salons", tables.ListSalonsHandler())
	protected.Get("/dining-tables", tables.ListTablesHandler(loc))

	// Siparişler
	protected.Post("/orders", orders.UpsertOrderHandler(store))
	protected.Post("/orders/upsert-sync", orders.UpsertOrderHandler(store))
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/my", orders.MyOrdersHandler())
	protected.Get("/orders/table/:id/open", orders.OpenOrderForTableHandler())
	protected.Delete("/orders/:id", orders.CancelOrderHandler(store))

	// Ödemeler
	protected.Post("/payments", orders.CreatePaymentHandler(store))
	protected.Get("/payments", orders.ListPaymentsHandler())

	// Rezervasyonlar
	protected.Post("/reservations", reservations.CreateReservationHandler())
	protected.Get("/reservations", reservations.ListReservationsHandler())
	protected.Put("/reservations/:id", reservations.UpdateReservationHandler())
	protected.Delete("/reservations/:id", reservations.DeleteReservationHandler())
	protected.Post("/reservations/:tableId/complete-active", reservations.CompleteActiveHandler())

	// Analitik
	protected.Get("/analytics/top-products", analytics.TopProductsHandler())
	protected.Get("/analytics/sales-by-category", analytics.SalesByCategoryHandler())
	protected.Get("/daily-sales-summary/daily", analytics.DailySummaryHandler())
	protected.Get("/daily-sales-summary/range", analytics.RangeSummaryHandler())
	protected.Get("/daily-sales-summary/export", analytics.ExportSummaryHandler())

	// Audit logs
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
