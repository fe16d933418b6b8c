package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/junggyoo/oh-my-stock/pkg/news"
)

type StockStore interface {
	Upsert(ctx context.Context, symbol, name, market string) (*model.Stock, error)
	AddToWatchlist(ctx context.Context, userID, stockID string) error
	RemoveFromWatchlist(ctx context.Context, userID, stockID string) (bool, error)
	ListWatchlist(ctx context.Context, userID string) ([]model.WatchedStock, error)
}

type StockSearcher interface {
	Search(ctx context.Context, query string) []news.SearchResult
}

type StockHandler struct {
	stocks   StockStore
	searcher StockSearcher
}

func NewStockHandler(stocks StockStore, searcher StockSearcher) *StockHandler {
	return &StockHandler{stocks: stocks, searcher: searcher}
}

type addStockRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Market string `json:"market"`
}

func (h *StockHandler) ListStocks(c *gin.Context) {
	watched, err := h.stocks.ListWatchlist(c.Request.Context(), currentUserID(c))
	if err != nil {
		slog.Error("error fetching watchlist", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]StockResponse, len(watched))
	for i, w := range watched {
		res[i] = toStockResponse(w.Stock)
		res[i].News = toNewsResponses(w.News)
	}

	c.JSON(http.StatusOK, res)
}

func (h *StockHandler) AddStock(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다."})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	name := strings.TrimSpace(req.Name)
	if symbol == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol and name are required"})
		return
	}

	ctx := c.Request.Context()
	stock, err := h.stocks.Upsert(ctx, symbol, name, req.Market)
	if err != nil {
		slog.Error("error saving stock", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.stocks.AddToWatchlist(ctx, currentUserID(c), stock.ID); err != nil {
		slog.Error("error adding to watchlist", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock": toStockResponse(*stock)})
}

func (h *StockHandler) RemoveStock(c *gin.Context) {
	stockID := c.Param("stockId")

	removed, err := h.stocks.RemoveFromWatchlist(c.Request.Context(), currentUserID(c), stockID)
	if err != nil {
		slog.Error("error removing from watchlist", "stock_id", stockID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not in watchlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *StockHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	c.JSON(http.StatusOK, h.searcher.Search(c.Request.Context(), query))
}
