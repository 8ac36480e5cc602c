package api

import (
	"context"
	"handmade-store/config"
	"handmade-store/routes"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var (
	router *gin.Engine
	once   sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		config.SetupLogger(cfg)

		store, err := config.ConnectDB(context.Background(), cfg)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to datastore")
		}

		router = routes.NewRouter(cfg, routes.BuildDependencies(cfg, store))
	})
}

// Handler is the serverless entry point; the router is built on first use and
// reused across invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	router.ServeHTTP(w, r)
}
