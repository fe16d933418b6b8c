package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junggyoo/oh-my-stock/internal/digest"
	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/junggyoo/oh-my-stock/pkg/llm"
	"github.com/junggyoo/oh-my-stock/pkg/news"
)

const newsListLimit = 10

type StockLookup interface {
	GetByID(ctx context.Context, id string) (*model.Stock, error)
}

type NewsStore interface {
	UpsertArticle(ctx context.Context, article *model.NewsArticle) error
	UpsertAnalysis(ctx context.Context, analysis *model.NewsAnalysis) error
	ListLatest(ctx context.Context, stockID string, limit int) ([]model.NewsWithAnalysis, error)
}

type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol string, lookbackDays int) []news.Article
}

type ArticleAnalyzer interface {
	AnalyzeArticles(ctx context.Context, symbol, name string, articles []llm.ArticleInput) ([]llm.ArticleAnalysis, error)
}

type NewsHandler struct {
	stocks   StockLookup
	store    NewsStore
	fetcher  NewsFetcher
	analyzer ArticleAnalyzer
}

func NewNewsHandler(stocks StockLookup, store NewsStore, fetcher NewsFetcher, analyzer ArticleAnalyzer) *NewsHandler {
	return &NewsHandler{stocks: stocks, store: store, fetcher: fetcher, analyzer: analyzer}
}

type refreshNewsRequest struct {
	StockID string `json:"stockId"`
}

// RefreshNews fetches the stock's recent news, stores it and stores the
// analyses of every fetched article.
func (h *NewsHandler) RefreshNews(c *gin.Context) {
	var req refreshNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StockID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stockId is required"})
		return
	}

	ctx := c.Request.Context()
	stock, ok := h.lookupStock(c, req.StockID)
	if !ok {
		return
	}

	articles := h.fetcher.FetchNews(ctx, stock.Symbol, news.DefaultLookbackDays)
	if len(articles) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No news found", "news": []NewsResponse{}})
		return
	}

	stored := make([]*model.NewsArticle, 0, len(articles))
	inputs := make([]llm.ArticleInput, 0, len(articles))
	for _, item := range articles {
		article := digest.ArticleFromProvider(stock.ID, item)
		if err := h.store.UpsertArticle(ctx, article); err != nil {
			slog.Error("error saving article", "symbol", stock.Symbol, "provider_id", item.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		stored = append(stored, article)
		inputs = append(inputs, llm.ArticleInput{
			Title:   item.Headline,
			Summary: item.Summary,
			Source:  item.Source,
			URL:     item.URL,
		})
	}

	analyses, err := h.analyzer.AnalyzeArticles(ctx, stock.Symbol, stock.Name, inputs)
	if err != nil {
		slog.Error("error analyzing news", "symbol", stock.Symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "뉴스 분석 중 오류가 발생했습니다."})
		return
	}

	for i, an := range analyses {
		if i >= len(stored) {
			break
		}
		if err := h.store.UpsertAnalysis(ctx, digest.AnalysisFromModel(stored[i].ID, an)); err != nil {
			slog.Error("error saving analysis", "news_id", stored[i].ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	h.respondLatest(c, stock.ID)
}

func (h *NewsHandler) ListNews(c *gin.Context) {
	stockID := c.Query("stockId")
	if stockID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stockId is required"})
		return
	}

	if _, ok := h.lookupStock(c, stockID); !ok {
		return
	}

	h.respondLatest(c, stockID)
}

func (h *NewsHandler) lookupStock(c *gin.Context, id string) (*model.Stock, bool) {
	stock, err := h.stocks.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("error fetching stock", "stock_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if stock == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found"})
		return nil, false
	}
	return stock, true
}

func (h *NewsHandler) respondLatest(c *gin.Context, stockID string) {
	items, err := h.store.ListLatest(c.Request.Context(), stockID, newsListLimit)
	if err != nil {
		slog.Error("error fetching news", "stock_id", stockID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toNewsResponses(items))
}
