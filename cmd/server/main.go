package main

import (
	"log"
	"strings"

	"stockbook-backend/internal/auth"
	"stockbook-backend/internal/config"
	"stockbook-backend/internal/customers"
	"stockbook-backend/internal/dashboard"
	"stockbook-backend/internal/database"
	"stockbook-backend/internal/inventory"
	"stockbook-backend/internal/models"
	"stockbook-backend/internal/purchases"
	"stockbook-backend/internal/sales"
	"stockbook-backend/internal/vendors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

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
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Products
	protected.Post("/products", inventory.CreateProductHandler())
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Get("/products/low-stock", inventory.ListLowStockProductsHandler())
	protected.Get("/products/:id", inventory.GetProductHandler())
	protected.Put("/products/:id", inventory.UpdateProductHandler())

	// Customers
	protected.Post("/customers", customers.CreateCustomerHandler())
	protected.Get("/customers", customers.ListCustomersHandler())
	protected.Get("/customers/:id", customers.GetCustomerHandler())
	protected.Put("/customers/:id", customers.UpdateCustomerHandler())

	// Vendors & vendor payments
	protected.Post("/vendors", vendors.CreateVendorHandler())
	protected.Get("/vendors", vendors.ListVendorsHandler())
	protected.Get("/vendors/:id", vendors.GetVendorHandler())
	protected.Put("/vendors/:id", vendors.UpdateVendorHandler())
	protected.Post("/vendors/:id/payments", vendors.RecordVendorPaymentHandler())
	protected.Get("/vendors/:id/payments", vendors.ListVendorPaymentsHandler())

	// Sales & sale payments
	protected.Post("/sales", sales.CreateSaleHandler())
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Get("/sales/:id", sales.GetSaleHandler())
	protected.Post("/sales/:id/payments", sales.RecordPaymentHandler())
	protected.Get("/sales/:id/payments", sales.ListSalePaymentsHandler())

	// Purchases
	protected.Post("/purchases", purchases.CreatePurchaseHandler())
	protected.Get("/purchases", purchases.ListPurchasesHandler())
	protected.Get("/purchases/:id", purchases.GetPurchaseHandler())

	// Dashboard & reports
	protected.Get("/dashboard/summary", dashboard.SummaryHandler())
	protected.Get("/reports/profit-loss", dashboard.ProfitLossHandler())

	// Destructive operations are admin-only
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Delete("/products/:id", inventory.DeleteProductHandler())
	adminRoutes.Delete("/vendors/:id", vendors.DeleteVendorHandler())
	adminRoutes.Delete("/sales/:id", sales.DeleteSaleHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
