package news

import (
	"context"
	"time"
)

// Article is one provider news item for a single symbol.
type Article struct {
	ID          int64
	Headline    string
	Summary     string
	Source      string
	URL         string
	Image       string
	Related     string
	PublishedAt time.Time
}

type SearchResult struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

type NewsClient interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]Article, error)
	SymbolSearch(ctx context.Context, query string) ([]SearchResult, error)
	Name() string
}
