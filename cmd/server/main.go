package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/digitalarchive/internal/cache"
	"github.com/digitalarchive/internal/config"
	"github.com/digitalarchive/internal/content"
	"github.com/digitalarchive/internal/db"
	"github.com/digitalarchive/internal/handler"
	"github.com/digitalarchive/internal/logger"
	"github.com/digitalarchive/internal/router"
	"github.com/digitalarchive/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg); err != nil {
		os.Exit(1)
	}
	defer logger.L.Sync()

	gin.SetMode(cfg.GinMode)

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.S.Fatalw("open analytics database", "error", err)
	}

	store := content.NewClient(cfg.ContentAPIURL, cfg.ContentProjectID, cfg.ContentDataset)
	images := content.NewResolver(cfg.ContentCDNURL, cfg.ContentProjectID, cfg.ContentDataset)

	responseCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	defer responseCache.Close()
	if responseCache.Enabled() {
		logger.S.Infow("response cache enabled", "addr", cfg.RedisAddr)
	}

	api := handler.NewAPI(store, images, responseCache, service.NewAnalyticsService(gdb))

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router.Setup(api),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.S.Infow("server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.S.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.S.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.S.Errorw("shutdown error", "error", err)
	}
}
