package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-billing-api/internal/application/auth"
	"github.com/jhoicas/stock-billing-api/internal/application/billing"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/application/usecase"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	StockUC       *inventory.StockLedgerUseCase
	BillUC        *billing.CreateBillUseCase
	ReceiptUC     *billing.ReceiptUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
	AdminPassword string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.AdminPassword)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	api.Post("/init", authHandler.Init)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	// Rutas fijas antes de /:id
	products.Get("/active", productHandler.ListActive)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/search", productHandler.Search)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Stock ledger
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/update", stockHandler.Update)
	stock.Get("/transactions", stockHandler.ListTransactions)
	stock.Get("/transactions/product/:productId", stockHandler.ListByProduct)

	// Bills
	bills := protected.Group("/bills")
	billHandler := NewBillHandler(deps.BillUC, deps.ReceiptUC)
	bills.Post("/", billHandler.Create)
	bills.Get("/", billHandler.List)
	bills.Get("/number/:billNumber", billHandler.GetByNumber)
	bills.Get("/:id", billHandler.GetByID)
	bills.Get("/:id/pdf", billHandler.DownloadPDF)
	bills.Post("/:id/cancel", billHandler.Cancel)
	bills.Delete("/:id", adminOnly, billHandler.Delete)
}
