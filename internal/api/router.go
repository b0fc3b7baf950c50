package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rdfz3d/campus-api/internal/api/handler"
	"github.com/rdfz3d/campus-api/internal/api/middleware"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

// Deps bundles the constructed services and stores the router wires into
// handlers and middleware.
type Deps struct {
	Accounts    ports.AccountService
	GameServers ports.GameServerService
	AccountRepo ports.AccountRepository
	TokenStore  ports.TokenStore

	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("campus"))

	authed := middleware.Auth(deps.TokenStore, deps.AccountRepo)
	maybeAuthed := middleware.OptionalAuth(deps.TokenStore, deps.AccountRepo)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Accounts)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authed)
	e.POST("/auth/request-verify-token", authHandler.RequestVerify)
	e.POST("/auth/verify", authHandler.Verify)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	// --- Account self-service ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	e.GET("/auth/me", accountHandler.Me, authed)
	e.PATCH("/auth/me", accountHandler.Update, authed)
	e.POST("/auth/change-password", accountHandler.ChangePassword, authed)

	// --- Game-server directory + status reports ---
	serverHandler := handler.NewGameServerHandler(deps.GameServers)
	e.POST("/game-server", serverHandler.Create, authed, middleware.RequireVerified())
	e.GET("/game-server", serverHandler.List, maybeAuthed)
	e.GET("/game-server/:id", serverHandler.Get, maybeAuthed)
	e.PATCH("/game-server/:id", serverHandler.Update, authed)
	// Reports are pushed by the game servers themselves; admission is by
	// user agent and reporter host, not by bearer token.
	e.POST("/game-server/:id/report", serverHandler.Report)

	// --- Health probes + metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)     // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
