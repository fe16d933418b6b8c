package handler

import (
	"time"

	"github.com/junggyoo/oh-my-stock/internal/model"
)

type UserResponse struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	Name          *string           `json:"name"`
	CreatedAt     string            `json:"createdAt"`
	EmailSettings *SettingsResponse `json:"emailSettings,omitempty"`
}

type SettingsResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Enabled  bool   `json:"enabled"`
	SendTime string `json:"sendTime"`
	Timezone string `json:"timezone"`
}

type StockResponse struct {
	ID     string         `json:"id"`
	Symbol string         `json:"symbol"`
	Name   string         `json:"name"`
	Market string         `json:"market"`
	News   []NewsResponse `json:"news,omitempty"`
}

type NewsResponse struct {
	ID          string            `json:"id"`
	StockID     string            `json:"stockId"`
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	URL         string            `json:"url"`
	Source      string            `json:"source"`
	ImageURL    *string           `json:"imageUrl"`
	PublishedAt string            `json:"publishedAt"`
	Analysis    *AnalysisResponse `json:"analysis"`
}

type AnalysisResponse struct {
	ID             string   `json:"id"`
	Sentiment      string   `json:"sentiment"`
	Impact         string   `json:"impact"`
	KeyPoints      []string `json:"keyPoints"`
	InvestorAction string   `json:"investorAction"`
	Confidence     float64  `json:"confidence"`
}

func toUserResponse(u model.User, s *model.EmailSettings) UserResponse {
	res := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if s != nil {
		settings := toSettingsResponse(*s)
		res.EmailSettings = &settings
	}
	return res
}

func toSettingsResponse(s model.EmailSettings) SettingsResponse {
	return SettingsResponse{
		ID:       s.ID,
		UserID:   s.UserID,
		Enabled:  s.Enabled,
		SendTime: s.SendTime,
		Timezone: s.Timezone,
	}
}

func toStockResponse(s model.Stock) StockResponse {
	return StockResponse{
		ID:     s.ID,
		Symbol: s.Symbol,
		Name:   s.Name,
		Market: s.Market,
	}
}

func toNewsResponses(items []model.NewsWithAnalysis) []NewsResponse {
	res := make([]NewsResponse, len(items))
	for i, n := range items {
		res[i] = NewsResponse{
			ID:          n.ID,
			StockID:     n.StockID,
			Title:       n.Title,
			Summary:     n.Summary,
			URL:         n.URL,
			Source:      n.Source,
			ImageURL:    n.ImageURL,
			PublishedAt: n.PublishedAt.Format(time.RFC3339),
		}
		if a := n.Analysis; a != nil {
			res[i].Analysis = &AnalysisResponse{
				ID:             a.ID,
				Sentiment:      a.Sentiment,
				Impact:         a.Impact,
				KeyPoints:      a.KeyPoints,
				InvestorAction: a.InvestorAction,
				Confidence:     a.Confidence,
			}
		}
	}
	return res
}
