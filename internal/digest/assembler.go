package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/junggyoo/oh-my-stock/pkg/llm"
	"github.com/junggyoo/oh-my-stock/pkg/mail"
	"github.com/junggyoo/oh-my-stock/pkg/news"
)

const (
	ScheduledLookbackDays = 1
	articlesPerStock      = 5

	defaultInvestorAction = "추가 분석 필요"
	logSubject            = "Daily Digest - %s"
)

type Store interface {
	LoadDigestRecipients(ctx context.Context) ([]model.DigestRecipient, error)
	UpsertArticle(ctx context.Context, article *model.NewsArticle) error
	UpsertAnalysis(ctx context.Context, analysis *model.NewsAnalysis) error
	CreateEmailLog(ctx context.Context, log *model.EmailLog) error
}

type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol string, lookbackDays int) []news.Article
}

type Analyzer interface {
	AnalyzeArticles(ctx context.Context, symbol, name string, articles []llm.ArticleInput) ([]llm.ArticleAnalysis, error)
	DailyBriefing(ctx context.Context, symbol, name string, articles []llm.ArticleInput, analyses []llm.ArticleAnalysis) (string, error)
	FullDigestSummary(ctx context.Context, stocks []llm.StockBriefing) (string, error)
}

type Mailer interface {
	SendDigest(ctx context.Context, to string, digest model.Digest, overallSummary string) mail.SendResult
}

// Result is one mailed (or failed) recipient. Skipped users have no result.
type Result struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Assembler runs the daily digest: users one after another in load order,
// each user's stocks one after another in watchlist order.
type Assembler struct {
	store    Store
	news     NewsFetcher
	analyzer Analyzer
	mailer   Mailer
	now      func() time.Time
}

func NewAssembler(store Store, news NewsFetcher, analyzer Analyzer, mailer Mailer) *Assembler {
	return &Assembler{
		store:    store,
		news:     news,
		analyzer: analyzer,
		mailer:   mailer,
		now:      time.Now,
	}
}

func (a *Assembler) Run(ctx context.Context, lookbackDays int) ([]Result, error) {
	if lookbackDays <= 0 {
		lookbackDays = ScheduledLookbackDays
	}

	recipients, err := a.store.LoadDigestRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load digest recipients: %w", err)
	}

	slog.Info("starting daily digest", "users", len(recipients), "lookback_days", lookbackDays)

	results := []Result{}
	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if r.Settings == nil || !r.Settings.Enabled {
			continue
		}

		result, ok := a.runUser(ctx, r, lookbackDays)
		if ok {
			results = append(results, result)
		}
	}

	slog.Info("daily digest finished", "mailed", len(results))
	return results, nil
}

// runUser returns false when the user has nothing to mail.
func (a *Assembler) runUser(ctx context.Context, r model.DigestRecipient, lookbackDays int) (Result, bool) {
	user := r.User

	stocks := make([]model.StockDigest, 0, len(r.Watchlist))
	for _, stock := range r.Watchlist {
		sd, ok := a.runStock(ctx, stock, lookbackDays)
		if ok {
			stocks = append(stocks, sd)
		}
	}

	if len(stocks) == 0 {
		slog.Info("no news for any watched stock, skipping user", "user_id", user.ID)
		return Result{}, false
	}

	now := a.now()
	date := model.DateLabel(now)
	result := Result{Email: user.Email}

	briefings := make([]llm.StockBriefing, len(stocks))
	for i, s := range stocks {
		briefings[i] = llm.StockBriefing{Symbol: s.Symbol, Name: s.Name, Briefing: s.Briefing}
	}

	summary, err := a.analyzer.FullDigestSummary(ctx, briefings)
	if err != nil {
		slog.Error("failed to generate digest summary", "user_id", user.ID, "error", err)
		result.Error = fmt.Sprintf("generate digest summary: %v", err)
	} else {
		sent := a.mailer.SendDigest(ctx, user.Email, model.Digest{
			UserName: user.DisplayName(),
			Stocks:   stocks,
			Date:     date,
		}, summary)
		result.Success = sent.Success
		result.Error = sent.Error
	}

	a.logDelivery(ctx, user.ID, date, result)
	return result, true
}

func (a *Assembler) logDelivery(ctx context.Context, userID, date string, result Result) {
	entry := &model.EmailLog{
		UserID:  userID,
		Subject: fmt.Sprintf(logSubject, date),
		Status:  model.EmailStatusSent,
	}
	if !result.Success {
		entry.Status = model.EmailStatusFailed
		msg := result.Error
		entry.Error = &msg
	}

	if err := a.store.CreateEmailLog(ctx, entry); err != nil {
		slog.Error("failed to write email log", "user_id", userID, "error", err)
	}
}

// runStock is the fault boundary for one watched stock. A model error drops
// the stock from this run and nothing else.
func (a *Assembler) runStock(ctx context.Context, stock model.Stock, lookbackDays int) (model.StockDigest, bool) {
	articles := a.news.FetchNews(ctx, stock.Symbol, lookbackDays)
	if len(articles) == 0 {
		return model.StockDigest{}, false
	}
	if len(articles) > articlesPerStock {
		articles = articles[:articlesPerStock]
	}

	inputs := make([]llm.ArticleInput, len(articles))
	for i, item := range articles {
		inputs[i] = llm.ArticleInput{
			Title:   item.Headline,
			Summary: item.Summary,
			Source:  item.Source,
			URL:     item.URL,
		}
	}

	analyses, err := a.analyzer.AnalyzeArticles(ctx, stock.Symbol, stock.Name, inputs)
	if err != nil {
		slog.Error("failed to analyze news, skipping stock", "symbol", stock.Symbol, "error", err)
		return model.StockDigest{}, false
	}
	analyses = normalizeAnalyses(analyses, len(inputs))

	briefing, err := a.analyzer.DailyBriefing(ctx, stock.Symbol, stock.Name, inputs, analyses)
	if err != nil {
		slog.Error("failed to generate briefing, skipping stock", "symbol", stock.Symbol, "error", err)
		return model.StockDigest{}, false
	}

	sentiments := make([]string, len(analyses))
	for i, an := range analyses {
		sentiments[i] = an.Sentiment
	}

	items := make([]model.DigestNewsItem, len(inputs))
	for i, in := range inputs {
		items[i] = digestItem(in, analysisAt(analyses, i))
	}

	a.persist(ctx, stock, articles, analyses)

	return model.StockDigest{
		Symbol:           stock.Symbol,
		Name:             stock.Name,
		News:             items,
		OverallSentiment: AggregateSentiment(sentiments),
		Briefing:         briefing,
	}, true
}

// normalizeAnalyses drops entries past the last article and maps the rest
// onto the stored label domains.
func normalizeAnalyses(analyses []llm.ArticleAnalysis, articles int) []llm.ArticleAnalysis {
	if len(analyses) > articles {
		analyses = analyses[:articles]
	}
	out := make([]llm.ArticleAnalysis, len(analyses))
	for i, an := range analyses {
		out[i] = an.Normalize()
	}
	return out
}

func analysisAt(analyses []llm.ArticleAnalysis, i int) *llm.ArticleAnalysis {
	if i < len(analyses) {
		return &analyses[i]
	}
	return nil
}

// digestItem fills the fields a missing or partial analysis leaves empty.
func digestItem(in llm.ArticleInput, an *llm.ArticleAnalysis) model.DigestNewsItem {
	item := model.DigestNewsItem{
		Title:          in.Title,
		Summary:        in.Summary,
		URL:            in.URL,
		Source:         in.Source,
		Sentiment:      model.SentimentNeutral,
		Impact:         model.ImpactLow,
		KeyPoints:      []string{},
		InvestorAction: defaultInvestorAction,
	}
	if an == nil {
		return item
	}

	item.Sentiment = an.Sentiment
	item.Impact = an.Impact
	if an.KeyPoints != nil {
		item.KeyPoints = an.KeyPoints
	}
	if an.InvestorAction != "" {
		item.InvestorAction = an.InvestorAction
	}
	return item
}

// persist upserts the analyzed articles and the analyses the model actually
// returned. Store errors are logged; the digest still goes out.
func (a *Assembler) persist(ctx context.Context, stock model.Stock, articles []news.Article, analyses []llm.ArticleAnalysis) {
	for i, item := range articles {
		article := ArticleFromProvider(stock.ID, item)
		if err := a.store.UpsertArticle(ctx, article); err != nil {
			slog.Error("failed to save article", "symbol", stock.Symbol, "provider_id", item.ID, "error", err)
			continue
		}

		an := analysisAt(analyses, i)
		if an == nil {
			continue
		}
		if err := a.store.UpsertAnalysis(ctx, AnalysisFromModel(article.ID, *an)); err != nil {
			slog.Error("failed to save analysis", "symbol", stock.Symbol, "news_id", article.ID, "error", err)
		}
	}
}

// ArticleFromProvider maps a fetched article onto the stored row for stockID.
func ArticleFromProvider(stockID string, item news.Article) *model.NewsArticle {
	article := &model.NewsArticle{
		StockID:           stockID,
		ProviderArticleID: item.ID,
		Title:             item.Headline,
		Summary:           item.Summary,
		URL:               item.URL,
		Source:            item.Source,
		PublishedAt:       item.PublishedAt,
	}
	if item.Image != "" {
		image := item.Image
		article.ImageURL = &image
	}
	return article
}

// AnalysisFromModel maps a model analysis onto the stored row for newsID,
// with labels and confidence normalized.
func AnalysisFromModel(newsID string, an llm.ArticleAnalysis) *model.NewsAnalysis {
	an = an.Normalize()
	return &model.NewsAnalysis{
		NewsID:         newsID,
		Sentiment:      an.Sentiment,
		Impact:         an.Impact,
		KeyPoints:      an.KeyPoints,
		InvestorAction: an.InvestorAction,
		Confidence:     an.Confidence,
	}
}
