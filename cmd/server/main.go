package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/server"
	"taskboard/internal/store"
	"taskboard/internal/store/memory"
	"taskboard/internal/store/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(context.Background(), cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		defer func() { _ = pg.Close() }()
		st = pg
	} else {
		logger.Warn("no database_url configured, using in-memory store")
		st = memory.New()
	}

	c := cache.New(time.Minute)
	defer c.Stop()

	tokenCfg := auth.TokenConfig{
		Secret: cfg.MasterSecret,
		Expiry: cfg.TokenExpiry,
		Issuer: "taskboard",
	}

	router, rt := server.NewRouter(server.Deps{
		Store:       st,
		Cache:       c,
		TokenConfig: tokenCfg,
		Config:      cfg,
		Logger:      logger,
	})

	logger.Info("listening", "port", cfg.Port)
	if err := server.Run(cfg, router, rt, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
