package news

import (
	"context"
	"log/slog"
	"strings"
)

const maxSearchResults = 10

var popularStocks = []SearchResult{
	{Symbol: "AAPL", Description: "Apple Inc"},
	{Symbol: "MSFT", Description: "Microsoft Corporation"},
	{Symbol: "GOOGL", Description: "Alphabet Inc"},
	{Symbol: "AMZN", Description: "Amazon.com Inc"},
	{Symbol: "NVDA", Description: "NVIDIA Corporation"},
	{Symbol: "META", Description: "Meta Platforms Inc"},
	{Symbol: "TSLA", Description: "Tesla Inc"},
	{Symbol: "BRK.B", Description: "Berkshire Hathaway Inc"},
	{Symbol: "JPM", Description: "JPMorgan Chase & Co"},
	{Symbol: "V", Description: "Visa Inc"},
	{Symbol: "JNJ", Description: "Johnson & Johnson"},
	{Symbol: "WMT", Description: "Walmart Inc"},
	{Symbol: "PG", Description: "Procter & Gamble Co"},
	{Symbol: "MA", Description: "Mastercard Inc"},
	{Symbol: "UNH", Description: "UnitedHealth Group Inc"},
	{Symbol: "HD", Description: "Home Depot Inc"},
	{Symbol: "DIS", Description: "Walt Disney Co"},
	{Symbol: "BAC", Description: "Bank of America Corp"},
	{Symbol: "ADBE", Description: "Adobe Inc"},
	{Symbol: "CRM", Description: "Salesforce Inc"},
	{Symbol: "NFLX", Description: "Netflix Inc"},
	{Symbol: "AMD", Description: "Advanced Micro Devices Inc"},
	{Symbol: "INTC", Description: "Intel Corporation"},
	{Symbol: "CSCO", Description: "Cisco Systems Inc"},
	{Symbol: "PEP", Description: "PepsiCo Inc"},
	{Symbol: "COST", Description: "Costco Wholesale Corp"},
	{Symbol: "AVGO", Description: "Broadcom Inc"},
	{Symbol: "QCOM", Description: "Qualcomm Inc"},
	{Symbol: "PLTR", Description: "Palantir Technologies Inc"},
	{Symbol: "COIN", Description: "Coinbase Global Inc"},
}

// Search asks the provider first and falls back to the embedded popular list
// when the provider is missing, failing or has nothing. It never fails.
func (s *Service) Search(ctx context.Context, query string) []SearchResult {
	if s.client != nil {
		results, err := s.client.SymbolSearch(ctx, query)
		if err != nil {
			slog.Warn("provider search failed, using fallback", "source", s.client.Name(), "query", query, "error", err)
		} else if len(results) > 0 {
			if len(results) > maxSearchResults {
				results = results[:maxSearchResults]
			}
			return results
		}
	}

	return searchPopular(query)
}

func searchPopular(query string) []SearchResult {
	q := strings.ToLower(query)

	results := []SearchResult{}
	for _, stock := range popularStocks {
		if strings.Contains(strings.ToLower(stock.Symbol), q) || strings.Contains(strings.ToLower(stock.Description), q) {
			results = append(results, stock)
			if len(results) == maxSearchResults {
				break
			}
		}
	}
	return results
}
