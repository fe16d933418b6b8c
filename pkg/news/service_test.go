package news

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type fakeClient struct {
	mu       sync.Mutex
	articles map[string][]Article
	results  []SearchResult
	err      error
	calls    []string
	from, to time.Time
}

func (f *fakeClient) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	f.from, f.to = from, to
	return f.articles[symbol], f.err
}

func (f *fakeClient) SymbolSearch(ctx context.Context, query string) ([]SearchResult, error) {
	return f.results, f.err
}

func (f *fakeClient) Name() string {
	return "Fake"
}

type memoryCache struct {
	data map[string][]byte
	sets int
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.data[key] = value
	m.sets++
}

func makeArticles(n int) []Article {
	articles := make([]Article, n)
	for i := range articles {
		articles[i] = Article{ID: int64(i + 1), Headline: fmt.Sprintf("headline %d", i+1)}
	}
	return articles
}

func TestFetchNews_TruncatesToTen(t *testing.T) {
	client := &fakeClient{articles: map[string][]Article{"AAPL": makeArticles(15)}}
	svc := NewService(client, nil, 0)

	articles := svc.FetchNews(context.Background(), "AAPL", 1)

	assert.Equal(t, 10, len(articles))
	assert.Equal(t, int64(1), articles[0].ID)
	assert.Equal(t, int64(10), articles[9].ID)
}

func TestFetchNews_LookbackWindow(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	client := &fakeClient{}
	svc := NewService(client, nil, 0)
	svc.now = func() time.Time { return now }

	svc.FetchNews(context.Background(), "AAPL", 1)

	assert.Equal(t, now, client.to)
	assert.Equal(t, now.AddDate(0, 0, -1), client.from)
}

func TestFetchNews_ProviderErrorIsAbsorbed(t *testing.T) {
	client := &fakeClient{err: errors.New("provider down")}
	svc := NewService(client, nil, 0)

	articles := svc.FetchNews(context.Background(), "AAPL", 1)

	assert.Equal(t, 0, len(articles))
}

func TestFetchNews_MissingClientIsAbsorbed(t *testing.T) {
	svc := NewService(nil, nil, 0)

	articles := svc.FetchNews(context.Background(), "AAPL", 1)

	assert.Equal(t, 0, len(articles))
}

func TestFetchNews_UsesCache(t *testing.T) {
	client := &fakeClient{articles: map[string][]Article{"AAPL": makeArticles(2)}}
	cache := &memoryCache{data: map[string][]byte{}}
	svc := NewService(client, cache, time.Hour)

	first := svc.FetchNews(context.Background(), "AAPL", 1)
	second := svc.FetchNews(context.Background(), "AAPL", 1)

	assert.Equal(t, 1, len(client.calls))
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first[1].Headline, second[1].Headline)
}

func TestFetchNews_ErrorsAreNotCached(t *testing.T) {
	client := &fakeClient{err: errors.New("provider down")}
	cache := &memoryCache{data: map[string][]byte{}}
	svc := NewService(client, cache, time.Hour)

	svc.FetchNews(context.Background(), "AAPL", 1)

	assert.Equal(t, 0, cache.sets)
}

func TestFetchMany_BatchesWithPause(t *testing.T) {
	symbols := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	articles := map[string][]Article{}
	for _, s := range symbols {
		articles[s] = []Article{{Headline: s}}
	}

	client := &fakeClient{articles: articles}
	svc := NewService(client, nil, 0)

	var pauses []time.Duration
	svc.sleep = func(ctx context.Context, d time.Duration) {
		pauses = append(pauses, d)
	}

	result := svc.FetchMany(context.Background(), symbols)

	assert.Equal(t, len(symbols), len(result))
	assert.Equal(t, "K", result["K"][0].Headline)
	// 12 symbols are 3 batches with a pause between each pair.
	assert.Equal(t, []time.Duration{time.Second, time.Second}, pauses)

	calls := append([]string(nil), client.calls...)
	sort.Strings(calls)
	assert.Equal(t, symbols, calls)
}

func TestFetchMany_SingleBatchNoPause(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil, 0)

	paused := false
	svc.sleep = func(ctx context.Context, d time.Duration) { paused = true }

	result := svc.FetchMany(context.Background(), []string{"AAPL", "MSFT"})

	assert.Equal(t, 2, len(result))
	assert.Equal(t, false, paused)
}
