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
	"github.com/joho/godotenv"

	"github.com/jhoicas/stock-billing-api/internal/application/auth"
	"github.com/jhoicas/stock-billing-api/internal/application/billing"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/stock-billing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-billing-api/internal/infrastructure/provider"
	httpRouter "github.com/jhoicas/stock-billing-api/internal/interfaces/http"
	"github.com/jhoicas/stock-billing-api/pkg/config"
	"github.com/jhoicas/stock-billing-api/pkg/logger"
)

func main() {
	// .env opcional; las variables del entorno tienen prioridad
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if envErr != nil {
		log.Debug().Msg(".env no encontrado, se usan variables de entorno")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos, err := provider.New(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.Close()

	stockUC := inventory.NewStockLedgerUseCase(repos.TxRunner, repos.StockTransactions, log.Component("stock"))
	billUC := billing.NewCreateBillUseCase(
		repos.TxRunner, stockUC, repos.Bills,
		cfg.Billing.NumberPrefix, log.Component("billing"),
	)
	productUC := usecase.NewProductUseCase(repos.Products, cfg.Stock.DefaultMinLevel)

	// PDF: comprobante de la factura
	receiptUC := billing.NewReceiptUseCase(repos.Bills, infrapdf.NewReceiptGenerator(cfg.App.Name))

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock & Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		StockUC:       stockUC,
		BillUC:        billUC,
		ReceiptUC:     receiptUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
		AdminPassword: cfg.App.AdminDefaultPassword,
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

	log.Info().Msg("aplicación detenida")
}
