package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/junggyoo/oh-my-stock/db"
	"github.com/junggyoo/oh-my-stock/internal/app"
	"github.com/junggyoo/oh-my-stock/internal/config"
	"github.com/junggyoo/oh-my-stock/internal/digest"
	"github.com/junggyoo/oh-my-stock/internal/logging"
	"github.com/junggyoo/oh-my-stock/internal/repository"
)

func main() {

	godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.LogFormat, cfg.LogLevel)

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	newsService := app.NewNewsService(ctx, cfg)
	defer db.CloseRedis()

	stockRepo := repository.NewStockRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)

	stocks, err := stockRepo.ListWatched(ctx)
	if err != nil {
		log.Fatalf("error loading watched stocks: %v", err)
	}

	if len(stocks) == 0 {
		slog.Info("no watched stocks, exiting")
		return
	}

	symbols := make([]string, len(stocks))
	for i, s := range stocks {
		symbols[i] = s.Symbol
	}

	fetched := newsService.FetchMany(ctx, symbols)

	var saved, errors int
	for _, stock := range stocks {
		for _, item := range fetched[stock.Symbol] {
			article := digest.ArticleFromProvider(stock.ID, item)
			if err := newsRepo.UpsertArticle(ctx, article); err != nil {
				slog.Error("error saving article", "symbol", stock.Symbol, "error", err)
				errors++
				continue
			}
			saved++
		}
	}

	slog.Info("fetch complete", "stocks", len(stocks), "saved", saved, "errors", errors)
}
