package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/junggyoo/oh-my-stock/pkg/news"
)

func TestAddStock(t *testing.T) {
	d := newTestDeps()

	w := d.do("POST", "/api/stocks", `{"symbol":" aapl ","name":"Apple Inc"}`, "user-1")

	assert.Equal(t, http.StatusOK, w.Code)
	stock := d.stocks.stocks["stock-aapl"]
	assert.Equal(t, "AAPL", stock.Symbol)
	assert.Equal(t, "US", stock.Market)
	assert.Equal(t, []string{"stock-aapl"}, d.stocks.watchlist["user-1"])
}

func TestAddStock_Idempotent(t *testing.T) {
	d := newTestDeps()

	d.do("POST", "/api/stocks", `{"symbol":"AAPL","name":"Apple Inc"}`, "user-1")
	d.do("POST", "/api/stocks", `{"symbol":"AAPL","name":"Apple"}`, "user-1")

	assert.Equal(t, 1, len(d.stocks.stocks))
	assert.Equal(t, "Apple Inc", d.stocks.stocks["stock-aapl"].Name)
	assert.Equal(t, 1, len(d.stocks.watchlist["user-1"]))
}

func TestAddStock_MissingFields(t *testing.T) {
	w := newTestDeps().do("POST", "/api/stocks", `{"symbol":"AAPL"}`, "user-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddStock_RequiresAuth(t *testing.T) {
	w := newTestDeps().do("POST", "/api/stocks", `{"symbol":"AAPL","name":"Apple Inc"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListStocks(t *testing.T) {
	d := newTestDeps()
	d.do("POST", "/api/stocks", `{"symbol":"AAPL","name":"Apple Inc"}`, "user-1")
	d.do("POST", "/api/stocks", `{"symbol":"TSLA","name":"Tesla Inc"}`, "user-1")
	d.stocks.news["stock-aapl"] = []model.NewsWithAnalysis{{
		NewsArticle: model.NewsArticle{ID: "n1", StockID: "stock-aapl", Title: "Apple beats", PublishedAt: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		Analysis:    &model.NewsAnalysis{ID: "a1", Sentiment: "positive", Impact: "high", KeyPoints: []string{"x"}},
	}}

	w := d.do("GET", "/api/stocks", "", "user-1")

	assert.Equal(t, http.StatusOK, w.Code)
	var res []StockResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, "TSLA", res[0].Symbol)
	assert.Equal(t, "AAPL", res[1].Symbol)
	assert.Equal(t, "2025-01-06T00:00:00Z", res[1].News[0].PublishedAt)
	assert.Equal(t, "positive", res[1].News[0].Analysis.Sentiment)
}

func TestListStocks_DBError(t *testing.T) {
	d := newTestDeps()
	d.stocks.err = errDBDown

	w := d.do("GET", "/api/stocks", "", "user-1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRemoveStock(t *testing.T) {
	d := newTestDeps()
	d.do("POST", "/api/stocks", `{"symbol":"AAPL","name":"Apple Inc"}`, "user-1")

	w := d.do("DELETE", "/api/stocks/stock-aapl", "", "user-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, len(d.stocks.watchlist["user-1"]))
	// The stock itself stays.
	assert.Equal(t, 1, len(d.stocks.stocks))

	w = d.do("DELETE", "/api/stocks/stock-aapl", "", "user-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearch(t *testing.T) {
	d := newTestDeps()
	d.searcher.results = []news.SearchResult{{Symbol: "AAPL", Description: "Apple Inc"}}

	w := d.do("GET", "/api/stocks/search?q=apple", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apple", d.searcher.query)
	var res []news.SearchResult
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, d.searcher.results, res)
}

func TestSearch_EmptyQuery(t *testing.T) {
	w := newTestDeps().do("GET", "/api/stocks/search?q=%20", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
