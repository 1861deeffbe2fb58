package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockmaster-api/internal/application/auth"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/reconciler"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	OperationUC   *usecase.OperationUseCase
	StockMoveUC   *inventory.StockMoveUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Reconciler    *reconciler.Reconciler
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	Session       SessionConfig
	Log           zerolog.Logger
}

// NewApp crea la app Fiber con el ErrorHandler de dominio y los middlewares comunes.
func NewApp(appName string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: NewErrorHandler(log),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(metrics.Middleware())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", Root)
	app.Get("/health", Health)
	app.Get("/metrics", metrics.Handler())
	app.Get("/openapi.json", OpenAPI)

	// Auth (público salvo el registro)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.Session, deps.Log)
	authGroup := app.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/request-otp", authHandler.RequestOTP)

	// Sin JWT_SECRET las rutas quedan abiertas (modo desarrollo).
	guard := func(c *fiber.Ctx) error { return c.Next() }
	if deps.Session.Secret != "" {
		guard = AuthMiddleware(deps.Session.Secret)
		authGroup.Post("/register", guard, RequireRole(entity.RoleAdmin), authHandler.Register)
	} else {
		deps.Log.Warn().Msg("JWT_SECRET vacío: rutas sin autenticación")
		authGroup.Post("/register", authHandler.Register)
	}

	products := app.Group("/products", guard)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	operations := app.Group("/operations", guard)
	operationHandler := NewOperationHandler(deps.OperationUC)
	operations.Post("/", operationHandler.Create)
	operations.Get("/", operationHandler.List)
	operations.Get("/:id", operationHandler.GetByID)
	operations.Get("/:id/moves", operationHandler.ListMoves)
	operations.Put("/:id", operationHandler.Update)
	operations.Delete("/:id", operationHandler.Delete)

	moves := app.Group("/stock-moves", guard)
	moveHandler := NewStockMoveHandler(deps.StockMoveUC)
	moves.Post("/", moveHandler.Create)
	moves.Get("/", moveHandler.List)
	moves.Get("/:id", moveHandler.GetByID)
	moves.Put("/:id", moveHandler.Update)
	moves.Delete("/:id", moveHandler.Delete)

	syncGroup := app.Group("/sync", guard)
	syncHandler := NewSyncHandler(deps.Reconciler)
	syncGroup.Post("/push", syncHandler.Push)
	syncGroup.Get("/pull", syncHandler.Pull)

	reports := app.Group("/reports", guard)
	reportHandler := NewReportHandler(deps.Replenishment)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/low-stock.pdf", reportHandler.LowStockPDF)
}
