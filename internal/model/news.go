package model

import "time"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"

	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

type NewsArticle struct {
	ID                string
	StockID           string
	ProviderArticleID int64
	Title             string
	Summary           string
	URL               string
	Source            string
	ImageURL          *string
	PublishedAt       time.Time
	CreatedAt         time.Time
}

type NewsAnalysis struct {
	ID             string
	NewsID         string
	Sentiment      string
	Impact         string
	KeyPoints      []string
	InvestorAction string
	Confidence     float64
}

type NewsWithAnalysis struct {
	NewsArticle
	Analysis *NewsAnalysis
}
