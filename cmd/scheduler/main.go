package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/junggyoo/oh-my-stock/internal/config"
	"github.com/junggyoo/oh-my-stock/internal/logging"
	"github.com/junggyoo/oh-my-stock/internal/scheduler"
)

func main() {
	runNow := flag.Bool("now", false, "trigger one digest run immediately after starting")
	flag.Parse()

	godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.LogFormat, cfg.LogLevel)

	if cfg.CronSecret == "" {
		log.Fatalf("CRON_SECRET is not set")
	}

	loc, err := time.LoadLocation(cfg.DigestTimezone)
	if err != nil {
		log.Fatalf("error loading timezone %q: %v", cfg.DigestTimezone, err)
	}

	trigger := scheduler.NewHTTPTrigger(cfg.AppURL, cfg.CronSecret)
	s := scheduler.New(loc, trigger.Trigger)

	if err := s.Start(cfg.DigestCron); err != nil {
		log.Fatalf("error starting scheduler: %v", err)
	}
	slog.Info("next digest run", "at", s.Next())

	if *runNow {
		go s.RunNow()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	slog.Info("shutting down scheduler")
	s.Stop()
}
