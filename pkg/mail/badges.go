package mail

import "github.com/junggyoo/oh-my-stock/internal/model"

func sentimentEmoji(sentiment string) string {
	switch sentiment {
	case model.SentimentPositive:
		return "🟢"
	case model.SentimentNegative:
		return "🔴"
	default:
		return "🟡"
	}
}

// sentimentLabel is the wording of the per-stock outlook badge.
func sentimentLabel(sentiment string) string {
	switch sentiment {
	case model.SentimentPositive:
		return "긍정적"
	case model.SentimentNegative:
		return "부정적"
	default:
		return "중립"
	}
}

// sentimentShort is the wording of the per-article badge.
func sentimentShort(sentiment string) string {
	switch sentiment {
	case model.SentimentPositive:
		return "긍정"
	case model.SentimentNegative:
		return "부정"
	default:
		return "중립"
	}
}

func sentimentColor(sentiment string) string {
	switch sentiment {
	case model.SentimentPositive:
		return "#22c55e"
	case model.SentimentNegative:
		return "#ef4444"
	default:
		return "#eab308"
	}
}

func impactLabel(impact string) string {
	switch impact {
	case model.ImpactHigh:
		return "⚡ 높음"
	case model.ImpactMedium:
		return "📊 보통"
	default:
		return "📋 낮음"
	}
}
