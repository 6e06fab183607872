package main

import (
	"log"
	"strings"

	"ahmedcenter-backend/internal/auth"
	"ahmedcenter-backend/internal/config"
	"ahmedcenter-backend/internal/database"
	"ahmedcenter-backend/internal/export"
	"ahmedcenter-backend/internal/ledger"
	"ahmedcenter-backend/internal/menu"
	"ahmedcenter-backend/internal/models"
	"ahmedcenter-backend/internal/sales"
	"ahmedcenter-backend/internal/wastage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using the process environment")
	}

	cfg := config.Load()
	database.Init(cfg)

	if _, err := menu.EnsureDefaults(database.DB); err != nil {
		log.Fatalf("Could not seed default menu: %v", err)
	}

	store := ledger.NewStore(database.DB)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Everything else needs a session
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	requireAdmin := auth.RequireRole(models.RoleAdmin)
	requireBilling := auth.RequireRole(models.RoleAdmin, models.RoleBiller)

	// Menu: everyone logged in can browse, only the admin edits
	protected.Get("/products", menu.ListProductsHandler())
	protected.Post("/products", requireAdmin, menu.CreateProductHandler())
	protected.Put("/products/:id", requireAdmin, menu.UpdateProductHandler())
	protected.Delete("/products/:id", requireAdmin, menu.DeleteProductHandler())
	protected.Delete("/products/categories/:name", requireAdmin, menu.DeleteCategoryHandler())
	protected.Post("/products/restore-defaults", requireAdmin, menu.RestoreDefaultsHandler())

	// Ledger mutations: admin and biller
	protected.Post("/sales", requireBilling, sales.RecordSaleHandler(store))
	protected.Get("/sales", requireBilling, sales.ListSalesHandler(store))
	protected.Put("/sales/:id", requireBilling, sales.UpdateSaleHandler(store))
	protected.Get("/sales/:id/receipt", requireBilling, export.ReceiptHandler(store, cfg))
	protected.Post("/wastage", requireBilling, wastage.CreateWastageHandler(store))
	protected.Post("/wastage/batch", requireBilling, wastage.CreateBatchWastageHandler(store))
	protected.Get("/wastage", requireBilling, wastage.ListWastageHandler(store))
	protected.Delete("/wastage/:id", requireBilling, wastage.DeleteWastageHandler(store))

	// Reports: admin only
	protected.Get("/reports/summary", requireAdmin, export.GetSummaryHandler(store))
	protected.Get("/reports/export", requireAdmin, export.ExportWorkbookHandler(store, cfg))
	protected.Get("/reports/print", requireAdmin, export.PrintReportHandler(store, cfg))

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
