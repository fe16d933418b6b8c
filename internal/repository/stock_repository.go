package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/junggyoo/oh-my-stock/internal/model"
)

const watchlistNewsLimit = 5

type StockRepository struct {
	db *sql.DB
}

func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

// Upsert returns the stock for symbol, creating it when it does not exist.
// An existing row is returned unchanged.
func (r *StockRepository) Upsert(ctx context.Context, symbol, name, market string) (*model.Stock, error) {
	if market == "" {
		market = model.DefaultMarket
	}

	var s model.Stock
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO stocks(id, symbol, name, market)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (symbol) DO UPDATE SET symbol = EXCLUDED.symbol
		RETURNING id, symbol, name, market, created_at
	`, uuid.NewString(), symbol, name, market).Scan(&s.ID, &s.Symbol, &s.Name, &s.Market, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepository) GetByID(ctx context.Context, id string) (*model.Stock, error) {
	var s model.Stock
	err := r.db.QueryRowContext(ctx, `
		SELECT id, symbol, name, market, created_at FROM stocks WHERE id = $1
	`, id).Scan(&s.ID, &s.Symbol, &s.Name, &s.Market, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepository) AddToWatchlist(ctx context.Context, userID, stockID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_stocks(id, user_id, stock_id)
		VALUES($1, $2, $3)
		ON CONFLICT (user_id, stock_id) DO NOTHING
	`, uuid.NewString(), userID, stockID)
	return err
}

// RemoveFromWatchlist reports whether an entry was deleted. The stock and its
// news stay.
func (r *StockRepository) RemoveFromWatchlist(ctx context.Context, userID, stockID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM user_stocks WHERE user_id = $1 AND stock_id = $2
	`, userID, stockID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListWatchlist returns the user's stocks, most recently added first, each
// with its latest stored news.
func (r *StockRepository) ListWatchlist(ctx context.Context, userID string) ([]model.WatchedStock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.symbol, s.name, s.market, s.created_at
		FROM user_stocks us
		JOIN stocks s ON s.id = us.stock_id
		WHERE us.user_id = $1
		ORDER BY us.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stocks := []model.WatchedStock{}
	for rows.Next() {
		var ws model.WatchedStock
		if err := rows.Scan(&ws.ID, &ws.Symbol, &ws.Name, &ws.Market, &ws.CreatedAt); err != nil {
			return nil, err
		}
		stocks = append(stocks, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range stocks {
		items, err := latestNews(ctx, r.db, stocks[i].ID, watchlistNewsLimit)
		if err != nil {
			return nil, err
		}
		stocks[i].News = items
	}

	return stocks, nil
}

// ListWatched returns every stock on at least one watchlist.
func (r *StockRepository) ListWatched(ctx context.Context) ([]model.Stock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.symbol, s.name, s.market, s.created_at
		FROM stocks s
		WHERE EXISTS (SELECT 1 FROM user_stocks us WHERE us.stock_id = s.id)
		ORDER BY s.symbol ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []model.Stock
	for rows.Next() {
		var s model.Stock
		if err := rows.Scan(&s.ID, &s.Symbol, &s.Name, &s.Market, &s.CreatedAt); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}
