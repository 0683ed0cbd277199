package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookinghub/user-service/internal/api/handler"
	"github.com/bookinghub/user-service/internal/api/middleware"
	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/ports"
)

// Dependencies carries everything the router needs wired in from main.
type Dependencies struct {
	Users    ports.UserService
	Sessions ports.SessionService
	Limiter  handler.LoginLimiter
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("usersvc"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Users, deps.Limiter, deps.Log)
	userHandler := handler.NewUserHandler(deps.Users)
	session := middleware.Session(deps.Sessions)

	// --- Auth routes (open) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Self-service profile. The service resolves the pair itself, so the
	// route does not sit behind the Session middleware. ---
	e.GET("/users/me", userHandler.Me)

	// --- Admin routes (session + role gate) ---
	admin := e.Group("/users", session, middleware.RBAC(domain.RoleAdmin))
	admin.GET("", userHandler.List)
	admin.PATCH("/:username", userHandler.Update)
	admin.DELETE("/:username", userHandler.Delete)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
