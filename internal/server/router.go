package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/realtime"
	"taskboard/internal/store"
)

type Deps struct {
	Store       store.Store
	Cache       *cache.Cache
	TokenConfig auth.TokenConfig
	Config      config.Config
	Logger      *slog.Logger
}

// Realtime bundles the live-connection components the server lifecycle
// owns beyond the router itself.
type Realtime struct {
	Registry   *realtime.Registry
	Dispatcher *realtime.Dispatcher
	Monitor    *realtime.Monitor
}

func NewRouter(deps Deps) (*gin.Engine, *Realtime) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	registry := realtime.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry, deps.Logger)
	pingInterval := deps.Config.PingInterval
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	monitor := realtime.NewMonitor(registry, pingInterval, deps.Logger)
	gate := realtime.NewAuthenticator(deps.Store, deps.Store, deps.TokenConfig, deps.Logger)
	gate.Cache = deps.Cache
	gate.CacheTTL = deps.Config.CacheTTL

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	authHandler := &handler.AuthHandler{
		Users:       deps.Store,
		Sessions:    deps.Store,
		Cache:       deps.Cache,
		TokenConfig: deps.TokenConfig,
		SessionTTL:  deps.Config.SessionTTL,
	}

	r.POST("/v1/auth/register", authHandler.Register)
	r.POST("/v1/auth/login", middleware.RateLimit(loginLimiter), authHandler.Login)

	protected := r.Group("/v1")
	protected.Use(middleware.RequireAuth(gate))
	protected.POST("/auth/logout", authHandler.Logout)

	userHandler := &handler.UserHandler{Users: deps.Store}
	protected.GET("/me", userHandler.Me)

	taskHandler := &handler.TaskHandler{
		Tasks:      deps.Store,
		Cache:      deps.Cache,
		Dispatcher: dispatcher,
		CacheTTL:   deps.Config.CacheTTL,
	}
	protected.GET("/tasks", taskHandler.List)
	protected.POST("/tasks", taskHandler.Create)
	protected.GET("/tasks/:id", taskHandler.Get)
	protected.PUT("/tasks/:id", taskHandler.Update)
	protected.DELETE("/tasks/:id", taskHandler.Delete)

	wsHandler := &handler.WebSocketHandler{Registry: registry, Gate: gate}
	r.GET("/ws", wsHandler.Serve)

	return r, &Realtime{Registry: registry, Dispatcher: dispatcher, Monitor: monitor}
}
