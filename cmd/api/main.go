package main

import (
	"context"
	"log"
	"log/slog"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/junggyoo/oh-my-stock/db"
	"github.com/junggyoo/oh-my-stock/internal/app"
	"github.com/junggyoo/oh-my-stock/internal/auth"
	"github.com/junggyoo/oh-my-stock/internal/config"
	"github.com/junggyoo/oh-my-stock/internal/handler"
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

	if err := db.Migrate(); err != nil {
		log.Fatalf("error migrating DB: %v", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("error configuring auth: %v", err)
	}

	newsService := app.NewNewsService(context.Background(), cfg)
	defer db.CloseRedis()

	assembler, analyzer, mailer, err := app.NewAssembler(cfg, db.DB, newsService)
	if err != nil {
		log.Fatalf("error configuring digest: %v", err)
	}

	if cfg.CronSecret == "" {
		slog.Warn("CRON_SECRET is not set, the daily digest endpoint will refuse every request")
	}

	userRepo := repository.NewUserRepository(db.DB)
	stockRepo := repository.NewStockRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(userRepo, tokens, strings.HasPrefix(cfg.AppURL, "https://")),
		Stocks:   handler.NewStockHandler(stockRepo, newsService),
		News:     handler.NewNewsHandler(stockRepo, newsRepo, newsService, analyzer),
		Settings: handler.NewSettingsHandler(userRepo, mailer),
		Cron:     handler.NewCronHandler(assembler, cfg.CronSecret),
		Health:   handler.NewHealthHandler(db.DB),
	}

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	handler.RegisterRoutes(r, handlers, tokens)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
