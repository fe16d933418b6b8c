package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	DefaultLookbackDays = 2
	maxArticles         = 10

	defaultBatchSize  = 5
	defaultBatchPause = time.Second
)

// Service is the degraded-mode front of the news provider: it never returns
// an error, it returns nothing. Callers cannot tell "no news" from "fetch
// failed"; the failure is only visible in the logs.
type Service struct {
	client   NewsClient
	cache    Cache
	cacheTTL time.Duration

	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration)
	batchSize  int
	batchPause time.Duration
}

// NewService accepts a nil client (no API key configured) and a nil cache.
func NewService(client NewsClient, cache Cache, cacheTTL time.Duration) *Service {
	return &Service{
		client:     client,
		cache:      cache,
		cacheTTL:   cacheTTL,
		now:        time.Now,
		sleep:      sleepContext,
		batchSize:  defaultBatchSize,
		batchPause: defaultBatchPause,
	}
}

// FetchNews returns at most 10 articles in provider order (most recent first)
// published in the last lookbackDays days.
func (s *Service) FetchNews(ctx context.Context, symbol string, lookbackDays int) []Article {
	if s.client == nil {
		slog.Error("FINNHUB_API_KEY is not set", "symbol", symbol)
		return []Article{}
	}

	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	to := s.now()
	from := to.AddDate(0, 0, -lookbackDays)
	key := fmt.Sprintf("news:%s:%s:%s", strings.ToUpper(symbol), from.UTC().Format(dateLayout), to.UTC().Format(dateLayout))

	if articles, ok := s.cached(ctx, key); ok {
		return articles
	}

	articles, err := s.client.CompanyNews(ctx, symbol, from, to)
	if err != nil {
		slog.Error("error fetching news", "source", s.client.Name(), "symbol", symbol, "error", err)
		return []Article{}
	}

	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	s.store(ctx, key, articles)

	return articles
}

// FetchMany fetches the default lookback for every symbol. Symbols are
// processed in batches of five: members of a batch run concurrently, batches
// run one after another with a one second pause in between.
func (s *Service) FetchMany(ctx context.Context, symbols []string) map[string][]Article {
	results := make(map[string][]Article, len(symbols))
	var mu sync.Mutex

	for start := 0; start < len(symbols); start += s.batchSize {
		end := min(start+s.batchSize, len(symbols))

		var wg sync.WaitGroup
		for _, symbol := range symbols[start:end] {
			wg.Add(1)
			go func(sym string) {
				defer wg.Done()

				articles := s.FetchNews(ctx, sym, DefaultLookbackDays)

				mu.Lock()
				results[sym] = articles
				mu.Unlock()
			}(symbol)
		}
		wg.Wait()

		if end < len(symbols) {
			s.sleep(ctx, s.batchPause)
		}
	}

	return results
}

func (s *Service) cached(ctx context.Context, key string) ([]Article, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var articles []Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		slog.Warn("discarding unreadable news cache entry", "key", key, "error", err)
		return nil, false
	}
	return articles, true
}

func (s *Service) store(ctx context.Context, key string, articles []Article) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}

	raw, err := json.Marshal(articles)
	if err != nil {
		slog.Warn("error encoding news cache entry", "key", key, "error", err)
		return
	}
	s.cache.Set(ctx, key, raw, s.cacheTTL)
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func logCacheError(op, key string, err error) {
	slog.Warn("news cache error", "op", op, "key", key, "error", err)
}
