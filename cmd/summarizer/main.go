package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"reviewsense/internal/config"
	"reviewsense/internal/pipeline"
	"reviewsense/internal/render"
	"reviewsense/internal/repository"
)

func main() {
	// stdout carries the report.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if cfg.ReviewsFile == "" {
		log.Fatalf("REVIEWS_FILE environment variable is not set")
	}

	f, err := os.Open(cfg.ReviewsFile)
	if err != nil {
		log.Fatalf("error opening reviews file: %v", err)
	}
	defer f.Close()

	reviews, err := repository.LoadReviews(f)
	if err != nil {
		log.Fatalf("error loading reviews: %v", err)
	}

	slog.Info("summarizing reviews", "count", len(reviews), "provider", cfg.Provider, "model", cfg.Model)

	summaryPipeline := pipeline.New(cfg.NewCompleter(), cfg.Model)
	result := summaryPipeline.Run(context.Background(), reviews, func(e pipeline.Event) {
		if err := render.WriteEventText(os.Stdout, e); err != nil {
			slog.Error("error writing stage output", "stage", e.Stage.String(), "error", err)
		}
	})

	if err := render.WriteReviewsText(os.Stdout, reviews); err != nil {
		slog.Warn("review output stopped", "error", err)
	}

	if result.State.Failed() {
		slog.Error("summary run failed", "run_id", result.RunID, "state", result.State, "error", result.Err)
		return
	}

	slog.Info("summary run complete", "run_id", result.RunID)
}
