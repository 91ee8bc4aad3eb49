package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bankcore/cards-api/internal/api/handler"
	"github.com/bankcore/cards-api/internal/api/middleware"
	"github.com/bankcore/cards-api/internal/core/ports"
)

// Deps carries everything the router needs to register the API surface.
type Deps struct {
	Cards     ports.CardService
	Users     ports.UserService
	Auth      ports.AuthService
	Emitter   ports.EventEmitter
	Dedup     handler.DedupChecker // nil disables idempotency
	DB        *mongo.Database
	RDB       *redis.Client // nil when idempotency is disabled
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	cardHandler := handler.NewCardHandler(d.Cards, d.Dedup, d.Log)
	userHandler := handler.NewUserHandler(d.Users)
	eventHandler := handler.NewEventHandler(d.Emitter)
	healthHandler := handler.NewHealthHandler(d.DB, d.RDB)

	authMW := middleware.Auth(d.JWTSecret)
	adminOnly := middleware.RequireRole("ADMIN")

	// --- API routes ---
	g := e.Group("/api/v1/bank")

	g.PUT("/auth/signUp", authHandler.SignUp)
	g.POST("/auth/signIn", authHandler.SignIn)

	cards := g.Group("/cards", authMW)
	cards.POST("", cardHandler.Create, adminOnly)
	cards.GET("/:id", cardHandler.FindByID, adminOnly)
	cards.DELETE("/:id", cardHandler.Delete, adminOnly)
	cards.GET("", cardHandler.ListOwn)
	cards.GET("/all", cardHandler.ListAll, adminOnly)
	cards.POST("/deposit", cardHandler.Deposit)
	cards.POST("/transfer", cardHandler.Transfer)
	cards.POST("/block", cardHandler.Block)
	cards.POST("/changeStatus", cardHandler.ChangeStatus, adminOnly)
	cards.GET("/balance", cardHandler.Balance)

	users := g.Group("/users", authMW, adminOnly)
	users.POST("", userHandler.Create)
	users.DELETE("/:id", userHandler.Delete)
	users.GET("", userHandler.List)

	g.POST("/test", eventHandler.Probe, authMW, adminOnly)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
