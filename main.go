package main

import (
	"context"
	"errors"
	"handmade-store/config"
	_ "handmade-store/docs"
	"handmade-store/routes"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title Handmade Store API
// @version 1.0
// @description Product catalog and admin session API for the handmade store.
// @BasePath /
func main() {
	cfg := config.LoadConfig()
	config.SetupLogger(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if os.Getenv("JWT_SECRET") == "" {
			log.Fatal("JWT_SECRET must be set in production")
		}
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx := context.Background()
	store, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to datastore")
	}
	defer store.Close()

	if err := os.MkdirAll(cfg.UploadTmpDir, 0o700); err != nil {
		log.WithError(err).Fatal("failed to create upload temp directory")
	}

	router := routes.NewRouter(cfg, routes.BuildDependencies(cfg, store))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":   cfg.Port,
			"env":    cfg.AppEnv,
			"driver": store.Driver,
		}).Info("server starting")
		log.Infof("Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	log.Info("server stopped")
}
