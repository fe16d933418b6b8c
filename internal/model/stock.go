package model

import "time"

type Stock struct {
	ID        string
	Symbol    string
	Name      string
	Market    string
	CreatedAt time.Time
}

type WatchlistEntry struct {
	ID        string
	UserID    string
	StockID   string
	CreatedAt time.Time
}

// WatchedStock is a watchlist stock with its most recent stored news.
type WatchedStock struct {
	Stock
	News []NewsWithAnalysis
}
