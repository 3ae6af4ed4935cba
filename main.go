package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"quizzer-backend/catalog"
	"quizzer-backend/igproxy"
	"quizzer-backend/logging"
	"quizzer-backend/session"
)

func main() {
	_ = godotenv.Load()

	mode := os.Getenv("APP_ENV")
	log, err := logging.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dataRoot := getenv("DATA_ROOT", "./data")
	port := getenv("PORT", "5174")

	svc := catalog.NewService(dataRoot, log)
	svc.Reload()

	if mode == "prod" || mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(corsConfig()))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Clip Quizzer backend is running. See /api/entries.")
	})
	r.Static("/data", dataRoot)

	catalog.NewHandler(svc).RegisterRoutes(r)
	session.NewHandler(svc, log).RegisterRoutes(r)
	igproxy.NewHandler(svc, log).RegisterRoutes(r)

	log.Info("server listening", "port", port, "data_root", dataRoot, "entries", svc.Len())
	if err := r.Run(":" + port); err != nil {
		log.Fatal("server exited", "err", err)
	}
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
