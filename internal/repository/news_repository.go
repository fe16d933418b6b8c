package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/junggyoo/oh-my-stock/internal/model"
)

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// UpsertArticle inserts the article keyed by (stock, provider article id). An
// existing row is kept as is; either way article.ID is set to the stored id.
func (r *NewsRepository) UpsertArticle(ctx context.Context, article *model.NewsArticle) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO stock_news(id, stock_id, provider_article_id, title, summary, url, source, image_url, published_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (stock_id, provider_article_id) DO UPDATE SET stock_id = EXCLUDED.stock_id
		RETURNING id, created_at
	`, uuid.NewString(), article.StockID, article.ProviderArticleID, article.Title, article.Summary,
		article.URL, article.Source, article.ImageURL, article.PublishedAt).Scan(&article.ID, &article.CreatedAt)
}

// UpsertAnalysis replaces the analysis of analysis.NewsID.
func (r *NewsRepository) UpsertAnalysis(ctx context.Context, analysis *model.NewsAnalysis) error {
	keyPoints, err := json.Marshal(analysis.KeyPoints)
	if err != nil {
		return fmt.Errorf("encode key points: %w", err)
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO news_analyses(id, news_id, sentiment, impact, key_points, investor_action, confidence)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (news_id) DO UPDATE
		SET sentiment = EXCLUDED.sentiment,
		    impact = EXCLUDED.impact,
		    key_points = EXCLUDED.key_points,
		    investor_action = EXCLUDED.investor_action,
		    confidence = EXCLUDED.confidence,
		    updated_at = NOW()
		RETURNING id
	`, uuid.NewString(), analysis.NewsID, analysis.Sentiment, analysis.Impact, string(keyPoints),
		analysis.InvestorAction, analysis.Confidence).Scan(&analysis.ID)
}

func (r *NewsRepository) ListLatest(ctx context.Context, stockID string, limit int) ([]model.NewsWithAnalysis, error) {
	return latestNews(ctx, r.db, stockID, limit)
}

func latestNews(ctx context.Context, db *sql.DB, stockID string, limit int) ([]model.NewsWithAnalysis, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT n.id, n.stock_id, n.provider_article_id, n.title, n.summary, n.url, n.source,
		       n.image_url, n.published_at, n.created_at,
		       a.id, a.sentiment, a.impact, a.key_points, a.investor_action, a.confidence
		FROM stock_news n
		LEFT JOIN news_analyses a ON a.news_id = n.id
		WHERE n.stock_id = $1
		ORDER BY n.published_at DESC
		LIMIT $2
	`, stockID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.NewsWithAnalysis{}
	for rows.Next() {
		var (
			item           model.NewsWithAnalysis
			analysisID     sql.NullString
			sentiment      sql.NullString
			impact         sql.NullString
			keyPoints      []byte
			investorAction sql.NullString
			confidence     sql.NullFloat64
		)
		err := rows.Scan(&item.ID, &item.StockID, &item.ProviderArticleID, &item.Title, &item.Summary,
			&item.URL, &item.Source, &item.ImageURL, &item.PublishedAt, &item.CreatedAt,
			&analysisID, &sentiment, &impact, &keyPoints, &investorAction, &confidence)
		if err != nil {
			return nil, err
		}

		if analysisID.Valid {
			analysis, err := decodeAnalysis(keyPoints)
			if err != nil {
				return nil, err
			}
			analysis.ID = analysisID.String
			analysis.NewsID = item.ID
			analysis.Sentiment = sentiment.String
			analysis.Impact = impact.String
			analysis.InvestorAction = investorAction.String
			analysis.Confidence = confidence.Float64
			item.Analysis = analysis
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func decodeAnalysis(keyPoints []byte) (*model.NewsAnalysis, error) {
	a := &model.NewsAnalysis{KeyPoints: []string{}}
	if len(keyPoints) == 0 {
		return a, nil
	}
	if err := json.Unmarshal(keyPoints, &a.KeyPoints); err != nil {
		return nil, fmt.Errorf("decode key points: %w", err)
	}
	if a.KeyPoints == nil {
		a.KeyPoints = []string{}
	}
	return a, nil
}
