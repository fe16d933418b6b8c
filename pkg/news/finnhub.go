package news

import (
	"context"
	"fmt"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"golang.org/x/time/rate"
)

const dateLayout = "2006-01-02"

type FinnHubClient struct {
	client  *finnhub.DefaultApiService
	limiter *rate.Limiter
}

// NewFinnHubClient builds a client throttled to ratePerMin calls. The free
// Finnhub tier allows 60 calls per minute.
func NewFinnHubClient(apiKey string, ratePerMin int) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return newFinnHubClient(cfg, ratePerMin)
}

func newFinnHubClient(cfg *finnhub.Configuration, ratePerMin int) *FinnHubClient {
	if ratePerMin <= 0 {
		ratePerMin = 60
	}
	return &FinnHubClient{
		client:  finnhub.NewAPIClient(cfg).DefaultApi,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMin)), defaultBatchSize),
	}
}

func (c *FinnHubClient) Name() string {
	return "FinnHub"
}

func (c *FinnHubClient) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("finnhub rate limit: %w", err)
	}

	res, _, err := c.client.CompanyNews(ctx).
		Symbol(symbol).
		From(from.UTC().Format(dateLayout)).
		To(to.UTC().Format(dateLayout)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub company news %s: %w", symbol, err)
	}

	articles := make([]Article, 0, len(res))
	for _, n := range res {
		a := Article{
			ID:       n.GetId(),
			Headline: n.GetHeadline(),
			Summary:  n.GetSummary(),
			Source:   n.GetSource(),
			URL:      n.GetUrl(),
			Image:    n.GetImage(),
			Related:  n.GetRelated(),
		}

		if n.Datetime != nil {
			a.PublishedAt = time.Unix(*n.Datetime, 0)
		}

		articles = append(articles, a)
	}

	return articles, nil
}

func (c *FinnHubClient) SymbolSearch(ctx context.Context, query string) ([]SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("finnhub rate limit: %w", err)
	}

	res, _, err := c.client.SymbolSearch(ctx).Q(query).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub symbol search: %w", err)
	}

	var results []SearchResult
	for _, item := range res.GetResult() {
		results = append(results, SearchResult{
			Symbol:      item.GetSymbol(),
			Description: item.GetDescription(),
		})
	}

	return results, nil
}
