package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/junggyoo/oh-my-stock/db"
	"github.com/junggyoo/oh-my-stock/internal/app"
	"github.com/junggyoo/oh-my-stock/internal/config"
	"github.com/junggyoo/oh-my-stock/internal/digest"
	"github.com/junggyoo/oh-my-stock/internal/logging"
)

func main() {
	days := flag.Int("days", digest.ScheduledLookbackDays, "news lookback window in days")
	flag.Parse()

	godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.LogFormat, cfg.LogLevel)

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newsService := app.NewNewsService(ctx, cfg)
	defer db.CloseRedis()

	assembler, _, _, err := app.NewAssembler(cfg, db.DB, newsService)
	if err != nil {
		log.Fatalf("error configuring digest: %v", err)
	}

	results, err := assembler.Run(ctx, *days)
	if err != nil {
		log.Fatalf("error running daily digest: %v", err)
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			slog.Warn("digest not delivered", "email", r.Email, "error", r.Error)
		}
	}

	slog.Info("daily digest done", "recipients", len(results), "failed", failed)
}
