package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junggyoo/oh-my-stock/internal/auth"
	"github.com/junggyoo/oh-my-stock/internal/digest"
	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/junggyoo/oh-my-stock/internal/repository"
	"github.com/junggyoo/oh-my-stock/pkg/llm"
	"github.com/junggyoo/oh-my-stock/pkg/mail"
	"github.com/junggyoo/oh-my-stock/pkg/news"
)

var errDBDown = errors.New("DB down")

type fakeTokens struct{}

func (fakeTokens) Issue(userID string) (string, error) {
	return "token-" + userID, nil
}

func (fakeTokens) Verify(token string) (string, error) {
	if !strings.HasPrefix(token, "token-") {
		return "", auth.ErrInvalidToken
	}
	return strings.TrimPrefix(token, "token-"), nil
}

type fakeUserStore struct {
	users    map[string]*model.User
	settings map[string]*model.EmailSettings
	deleted  []string
	err      error
	nextID   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    map[string]*model.User{},
		settings: map[string]*model.EmailSettings{},
	}
}

func (f *fakeUserStore) add(id, email, password string) *model.User {
	u := &model.User{ID: id, Email: email, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	if password != "" {
		hash, _ := auth.HashPassword(password)
		u.PasswordHash = &hash
	}
	f.users[id] = u
	s := model.DefaultEmailSettings(id)
	s.ID = "settings-" + id
	f.settings[id] = &s
	return u
}

func (f *fakeUserStore) Create(ctx context.Context, email string, name *string, passwordHash string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}
	f.nextID++
	id := fmt.Sprintf("user-%d", f.nextID)
	u := &model.User{ID: id, Email: email, Name: name, PasswordHash: &passwordHash}
	f.users[id] = u
	s := model.DefaultEmailSettings(id)
	f.settings[id] = &s
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, id string, name, email *string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	if email != nil {
		for _, other := range f.users {
			if other.ID != id && other.Email == *email {
				return nil, repository.ErrEmailTaken
			}
		}
		u.Email = *email
	}
	if name != nil {
		u.Name = name
	}
	return u, nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	f.users[id].PasswordHash = &passwordHash
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.users, id)
	delete(f.settings, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserStore) GetSettings(ctx context.Context, userID string) (*model.EmailSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings[userID], nil
}

func (f *fakeUserStore) UpsertSettings(ctx context.Context, s *model.EmailSettings) error {
	if s.ID == "" {
		s.ID = "settings-" + s.UserID
	}
	stored := *s
	f.settings[s.UserID] = &stored
	return nil
}

type fakeStockStore struct {
	stocks    map[string]*model.Stock
	watchlist map[string][]string
	news      map[string][]model.NewsWithAnalysis
	err       error
}

func newFakeStockStore() *fakeStockStore {
	return &fakeStockStore{
		stocks:    map[string]*model.Stock{},
		watchlist: map[string][]string{},
		news:      map[string][]model.NewsWithAnalysis{},
	}
}

func (f *fakeStockStore) Upsert(ctx context.Context, symbol, name, market string) (*model.Stock, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.stocks {
		if s.Symbol == symbol {
			return s, nil
		}
	}
	if market == "" {
		market = model.DefaultMarket
	}
	s := &model.Stock{ID: "stock-" + strings.ToLower(symbol), Symbol: symbol, Name: name, Market: market}
	f.stocks[s.ID] = s
	return s, nil
}

func (f *fakeStockStore) GetByID(ctx context.Context, id string) (*model.Stock, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stocks[id], nil
}

func (f *fakeStockStore) AddToWatchlist(ctx context.Context, userID, stockID string) error {
	for _, id := range f.watchlist[userID] {
		if id == stockID {
			return nil
		}
	}
	f.watchlist[userID] = append(f.watchlist[userID], stockID)
	return nil
}

func (f *fakeStockStore) RemoveFromWatchlist(ctx context.Context, userID, stockID string) (bool, error) {
	ids := f.watchlist[userID]
	for i, id := range ids {
		if id == stockID {
			f.watchlist[userID] = append(ids[:i], ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStockStore) ListWatchlist(ctx context.Context, userID string) ([]model.WatchedStock, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := f.watchlist[userID]
	out := []model.WatchedStock{}
	for i := len(ids) - 1; i >= 0; i-- {
		s := f.stocks[ids[i]]
		out = append(out, model.WatchedStock{Stock: *s, News: f.news[s.ID]})
	}
	return out, nil
}

type fakeNewsStore struct {
	articles map[string]*model.NewsArticle
	analyses map[string]*model.NewsAnalysis
	order    []string
}

func newFakeNewsStore() *fakeNewsStore {
	return &fakeNewsStore{
		articles: map[string]*model.NewsArticle{},
		analyses: map[string]*model.NewsAnalysis{},
	}
}

func (f *fakeNewsStore) UpsertArticle(ctx context.Context, article *model.NewsArticle) error {
	for id, a := range f.articles {
		if a.StockID == article.StockID && a.ProviderArticleID == article.ProviderArticleID {
			article.ID = id
			return nil
		}
	}
	article.ID = fmt.Sprintf("news-%d", len(f.articles)+1)
	stored := *article
	f.articles[article.ID] = &stored
	f.order = append(f.order, article.ID)
	return nil
}

func (f *fakeNewsStore) UpsertAnalysis(ctx context.Context, analysis *model.NewsAnalysis) error {
	stored := *analysis
	f.analyses[analysis.NewsID] = &stored
	return nil
}

func (f *fakeNewsStore) ListLatest(ctx context.Context, stockID string, limit int) ([]model.NewsWithAnalysis, error) {
	out := []model.NewsWithAnalysis{}
	for _, id := range f.order {
		a := f.articles[id]
		if a.StockID != stockID {
			continue
		}
		out = append(out, model.NewsWithAnalysis{NewsArticle: *a, Analysis: f.analyses[id]})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeFetcher struct {
	articles []news.Article
	lookback int
}

func (f *fakeFetcher) FetchNews(ctx context.Context, symbol string, lookbackDays int) []news.Article {
	f.lookback = lookbackDays
	return f.articles
}

type fakeSearcher struct {
	results []news.SearchResult
	query   string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) []news.SearchResult {
	f.query = query
	return f.results
}

type fakeArticleAnalyzer struct {
	analyses []llm.ArticleAnalysis
	err      error
	calls    int
}

func (f *fakeArticleAnalyzer) AnalyzeArticles(ctx context.Context, symbol, name string, articles []llm.ArticleInput) ([]llm.ArticleAnalysis, error) {
	f.calls++
	return f.analyses, f.err
}

type fakeTestMailer struct {
	result mail.SendResult
	to     string
	name   string
}

func (f *fakeTestMailer) SendTest(ctx context.Context, to, userName string) mail.SendResult {
	f.to, f.name = to, userName
	return f.result
}

type fakeRunner struct {
	results  []digest.Result
	err      error
	lookback int
	calls    int
}

func (f *fakeRunner) Run(ctx context.Context, lookbackDays int) ([]digest.Result, error) {
	f.calls++
	f.lookback = lookbackDays
	return f.results, f.err
}

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(ctx context.Context) error {
	return f.err
}

type testDeps struct {
	users    *fakeUserStore
	stocks   *fakeStockStore
	news     *fakeNewsStore
	fetcher  *fakeFetcher
	searcher *fakeSearcher
	analyzer *fakeArticleAnalyzer
	mailer   *fakeTestMailer
	runner   *fakeRunner
	pinger   fakePinger
	secret   string
}

func newTestDeps() *testDeps {
	return &testDeps{
		users:    newFakeUserStore(),
		stocks:   newFakeStockStore(),
		news:     newFakeNewsStore(),
		fetcher:  &fakeFetcher{},
		searcher: &fakeSearcher{},
		analyzer: &fakeArticleAnalyzer{},
		mailer:   &fakeTestMailer{result: mail.SendResult{Success: true}},
		runner:   &fakeRunner{},
		secret:   "cron-secret",
	}
}

func (d *testDeps) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Handlers{
		Auth:     NewAuthHandler(d.users, fakeTokens{}, false),
		Stocks:   NewStockHandler(d.stocks, d.searcher),
		News:     NewNewsHandler(d.stocks, d.news, d.fetcher, d.analyzer),
		Settings: NewSettingsHandler(d.users, d.mailer),
		Cron:     NewCronHandler(d.runner, d.secret),
		Health:   NewHealthHandler(d.pinger),
	}, fakeTokens{})
	return r
}

// do sends a request as userID (anonymous when empty).
func (d *testDeps) do(method, path, body, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "token-" + userID})
	}

	w := httptest.NewRecorder()
	d.router().ServeHTTP(w, req)
	return w
}
