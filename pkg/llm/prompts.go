package llm

const analyzePrompt = `You are a professional stock market analyst. Analyze the following news articles about %s (%s) and provide your analysis for each article.

News Articles:
%s

For EACH article, respond with a JSON array. Each element should have:
- "sentiment": "positive", "negative", or "neutral"
- "impact": "high", "medium", or "low" (impact on stock price)
- "keyPoints": array of 2-3 key takeaways (in Korean)
- "investorAction": a brief recommendation for investors (in Korean)
- "confidence": 0.0 to 1.0

Respond ONLY with a valid JSON array, no other text.`

const briefingPrompt = `You are a professional Korean stock market analyst writing a morning briefing.

Based on the following news and analyses for %s (%s), write a concise Korean morning briefing (3-5 sentences) that summarizes the key developments and provides an overall outlook.

News and Analyses:
%s

Write the briefing in Korean. Be concise and actionable. Start directly with the content, no greeting or title needed.`

const digestSummaryPrompt = `You are a professional Korean stock market analyst. Write a brief overall market summary (2-3 sentences in Korean) based on the following stock briefings:

%s

Provide a concise overall sentiment and key themes to watch today. Write in Korean.`

const noNewsBriefing = "%s(%s)에 대한 최신 뉴스가 없습니다."

const (
	analyzeMaxTokens  = 2000
	briefingMaxTokens = 1000
	summaryMaxTokens  = 500
)
