package api

import (
	"errors"

	"expense-tracker/docs"
	"expense-tracker/internal/api/handlers"
	"expense-tracker/internal/dto"
	"expense-tracker/pkg/auth"
	"expense-tracker/pkg/config"
	"expense-tracker/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SetupRouter builds the fiber app. jwtManager may be nil, which leaves the
// API unauthenticated.
func SetupRouter(
	cfg *config.Config,
	txHandler *handlers.TransactionHandler,
	summaryHandler *handlers.SummaryHandler,
	healthHandler *handlers.HealthHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.ProjectName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "An unexpected error occurred"
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			} else {
				appLogger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(dto.Fail(message))
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	if cfg.Server.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.Server.RateLimitMax,
			Expiration: cfg.Server.RateLimitWindow,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail("Too many requests"))
			},
		}))
	}

	// Swagger: importing docs registers the OpenAPI document in init()
	docs.SwaggerInfo.Title = cfg.App.ProjectName
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Health)

	var api fiber.Router
	if jwtManager != nil {
		api = app.Group(cfg.App.APIPrefix, middleware.AuthMiddleware(jwtManager, appLogger))
	} else {
		appLogger.Warn("AUTH_JWT_SECRET not set, API routes are unauthenticated")
		api = app.Group(cfg.App.APIPrefix)
	}

	transactions := api.Group("/transactions")

	summary := transactions.Group("/summary")
	summary.Get("/monthly", summaryHandler.MonthlySummary)
	summary.Get("/weekly", summaryHandler.WeeklySummary)
	summary.Get("/category", summaryHandler.CategoryBreakdown)
	summary.Get("/projection", summaryHandler.Projection)
	summary.Get("/daily", summaryHandler.DailySpending)

	transactions.Post("/", txHandler.CreateTransaction)
	transactions.Get("/", txHandler.ListTransactions)
	transactions.Get("/:id", txHandler.GetTransaction)
	transactions.Put("/:id", txHandler.UpdateTransaction)
	transactions.Patch("/:id", txHandler.UpdateTransaction)
	transactions.Delete("/:id", txHandler.DeleteTransaction)

	return app
}
