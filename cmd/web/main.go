package main

import (
	"log"
	"log/slog"
	"os"
	"reviewsense/internal/config"
	"reviewsense/internal/handler"
	"reviewsense/internal/pipeline"
	"reviewsense/internal/render"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("error parsing templates: %v", err)
	}

	summaryPipeline := pipeline.New(cfg.NewCompleter(), cfg.Model)
	summaryHandler := handler.NewSummaryHandler(summaryPipeline, renderer, cfg.MaxUploadBytes)

	r := gin.Default()

	allowedOrigins := cfg.AllowedOrigins()
	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/", summaryHandler.GetIndex)
	r.POST("/", summaryHandler.PostUpload)
	r.POST("/api/summary", summaryHandler.PostSummary)
	r.GET("/health", summaryHandler.GetHealth)

	slog.Info("starting server", "addr", cfg.Addr(), "provider", cfg.Provider, "model", cfg.Model)

	err = r.Run(cfg.Addr())
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
