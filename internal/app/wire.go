package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/junggyoo/oh-my-stock/db"
	"github.com/junggyoo/oh-my-stock/internal/config"
	"github.com/junggyoo/oh-my-stock/internal/digest"
	"github.com/junggyoo/oh-my-stock/internal/repository"
	"github.com/junggyoo/oh-my-stock/pkg/llm"
	"github.com/junggyoo/oh-my-stock/pkg/mail"
	"github.com/junggyoo/oh-my-stock/pkg/news"
)

// NewNewsService builds the news front. A missing Finnhub key or an
// unreachable Redis only degrade it.
func NewNewsService(ctx context.Context, cfg *config.Config) *news.Service {
	var client news.NewsClient
	if cfg.FinnhubAPIKey != "" {
		client = news.NewFinnHubClient(cfg.FinnhubAPIKey, cfg.FinnhubRatePerMin)
	} else {
		slog.Warn("FINNHUB_API_KEY is not set, news fetch disabled and search uses the fallback list")
	}

	var cache news.Cache
	if err := db.ConnectRedis(ctx); err != nil {
		slog.Warn("redis unavailable, running without news cache", "error", err)
	} else {
		cache = news.NewRedisCache(db.Redis, db.KeyPrefix)
	}

	return news.NewService(client, cache, cfg.NewsCacheTTL)
}

func NewCompleter(cfg *config.Config) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		client, err := llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI:
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// NewAssembler wires the digest run. Missing model or mail credentials are
// startup errors.
func NewAssembler(cfg *config.Config, conn *sql.DB, newsService *news.Service) (*digest.Assembler, *llm.Analyzer, *mail.Mailer, error) {
	completer, err := NewCompleter(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	mailer, err := mail.NewMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	if err != nil {
		return nil, nil, nil, err
	}

	analyzer := llm.NewAnalyzer(completer)
	assembler := digest.NewAssembler(repository.NewDigestStore(conn), newsService, analyzer, mailer)
	return assembler, analyzer, mailer, nil
}
