package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

type ArticleInput struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
	URL     string `json:"url"`
}

type ArticleAnalysis struct {
	Sentiment      string   `json:"sentiment"`
	Impact         string   `json:"impact"`
	KeyPoints      []string `json:"keyPoints"`
	InvestorAction string   `json:"investorAction"`
	Confidence     float64  `json:"confidence"`
}

// StockBriefing is one stock's briefing as fed into the overall summary.
type StockBriefing struct {
	Symbol   string
	Name     string
	Briefing string
}

// Analyzer turns articles into analyses and briefings with one model call per
// operation. Model-call errors are returned as is; only an unusable answer
// is absorbed.
type Analyzer struct {
	llm Completer
}

func NewAnalyzer(llm Completer) *Analyzer {
	return &Analyzer{llm: llm}
}

// AnalyzeArticles returns analyses in input order. An answer without a
// parseable JSON array yields an empty slice and a nil error, so the result
// may be shorter than the input.
func (a *Analyzer) AnalyzeArticles(ctx context.Context, symbol, name string, articles []ArticleInput) ([]ArticleAnalysis, error) {
	if len(articles) == 0 {
		return []ArticleAnalysis{}, nil
	}

	var sb strings.Builder
	for i, item := range articles {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("[%d] %s\nSource: %s\nSummary: %s", i+1, item.Title, item.Source, item.Summary))
	}

	content, err := a.llm.Complete(ctx, fmt.Sprintf(analyzePrompt, name, symbol, sb.String()), analyzeMaxTokens)
	if err != nil {
		return nil, err
	}

	analyses, err := ParseAnalyses(content)
	if err != nil {
		slog.Warn("failed to parse analysis response", "symbol", symbol, "model", a.llm.Model(), "error", err)
		return []ArticleAnalysis{}, nil
	}

	return analyses, nil
}

// DailyBriefing writes the per-stock narrative. Without articles it returns a
// fixed sentence and makes no model call.
func (a *Analyzer) DailyBriefing(ctx context.Context, symbol, name string, articles []ArticleInput, analyses []ArticleAnalysis) (string, error) {
	if len(articles) == 0 {
		return fmt.Sprintf(noNewsBriefing, name, symbol), nil
	}

	type combined struct {
		ArticleInput
		Analysis *ArticleAnalysis `json:"analysis"`
	}

	items := make([]combined, len(articles))
	for i, item := range articles {
		items[i] = combined{ArticleInput: item}
		if i < len(analyses) {
			items[i].Analysis = &analyses[i]
		}
	}

	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode briefing input: %w", err)
	}

	return a.llm.Complete(ctx, fmt.Sprintf(briefingPrompt, name, symbol, payload), briefingMaxTokens)
}

// FullDigestSummary writes the cross-stock overview. Empty input returns an
// empty string without a model call.
func (a *Analyzer) FullDigestSummary(ctx context.Context, stocks []StockBriefing) (string, error) {
	if len(stocks) == 0 {
		return "", nil
	}

	parts := make([]string, len(stocks))
	for i, s := range stocks {
		parts[i] = fmt.Sprintf("%s(%s): %s", s.Name, s.Symbol, s.Briefing)
	}

	return a.llm.Complete(ctx, fmt.Sprintf(digestSummaryPrompt, strings.Join(parts, "\n\n")), summaryMaxTokens)
}
