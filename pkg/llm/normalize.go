package llm

import (
	"strings"

	"github.com/junggyoo/oh-my-stock/internal/model"
)

var sentimentLabels = map[string]string{
	model.SentimentPositive: model.SentimentPositive,
	model.SentimentNegative: model.SentimentNegative,
	model.SentimentNeutral:  model.SentimentNeutral,
	"bullish":               model.SentimentPositive,
	"bearish":               model.SentimentNegative,
}

var impactLabels = map[string]string{
	model.ImpactHigh:   model.ImpactHigh,
	model.ImpactMedium: model.ImpactMedium,
	model.ImpactLow:    model.ImpactLow,
}

// Normalize maps model labels onto the stored domains. Unknown sentiment
// becomes neutral, unknown impact low, and confidence is clamped to [0,1].
func (a ArticleAnalysis) Normalize() ArticleAnalysis {
	if s, ok := sentimentLabels[strings.ToLower(strings.TrimSpace(a.Sentiment))]; ok {
		a.Sentiment = s
	} else {
		a.Sentiment = model.SentimentNeutral
	}

	if i, ok := impactLabels[strings.ToLower(strings.TrimSpace(a.Impact))]; ok {
		a.Impact = i
	} else {
		a.Impact = model.ImpactLow
	}

	switch {
	case a.Confidence < 0:
		a.Confidence = 0
	case a.Confidence > 1:
		a.Confidence = 1
	}

	if a.KeyPoints == nil {
		a.KeyPoints = []string{}
	}
	a.InvestorAction = strings.TrimSpace(a.InvestorAction)
	return a
}
