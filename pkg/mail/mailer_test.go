package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/resend/resend-go/v2"
)

type fakeSender struct {
	requests []*resend.SendEmailRequest
	err      error
	panicky  bool
}

func (f *fakeSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.panicky {
		panic("connection reset")
	}
	f.requests = append(f.requests, params)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func sampleDigest() model.Digest {
	return model.Digest{
		UserName: "민지",
		Date:     "2025년 1월 6일 월요일",
		Stocks: []model.StockDigest{
			{
				Symbol:           "AAPL",
				Name:             "Apple Inc",
				OverallSentiment: model.SentimentPositive,
				Briefing:         "애플은 견조한 실적을 발표했습니다.",
				News: []model.DigestNewsItem{
					{
						Title:          "Apple beats <estimates>",
						URL:            "https://example.com/aapl",
						Source:         "Reuters",
						Sentiment:      model.SentimentPositive,
						Impact:         model.ImpactHigh,
						KeyPoints:      []string{"매출 8% 증가", "서비스 부문 호조"},
						InvestorAction: "보유 유지",
					},
				},
			},
			{
				Symbol:           "TSLA",
				Name:             "Tesla Inc",
				OverallSentiment: model.SentimentNeutral,
				Briefing:         "테슬라는 보합세입니다.",
				News: []model.DigestNewsItem{
					{
						Title:          "Tesla deliveries flat",
						URL:            "https://example.com/tsla",
						Source:         "CNBC",
						Sentiment:      model.SentimentNeutral,
						Impact:         model.ImpactLow,
						InvestorAction: "추가 분석 필요",
					},
				},
			},
		},
	}
}

func TestSendDigest(t *testing.T) {
	fake := &fakeSender{}
	m := newMailerWithSender(fake, "")

	result := m.SendDigest(context.Background(), "user@example.com", sampleDigest(), "기술주 강세가 이어집니다.")

	assert.Equal(t, SendResult{Success: true}, result)
	assert.Equal(t, 1, len(fake.requests))

	req := fake.requests[0]
	assert.Equal(t, DefaultFrom, req.From)
	assert.Equal(t, []string{"user@example.com"}, req.To)
	assert.Equal(t, "📈 [Oh My Stock] 2025년 1월 6일 월요일 모닝 브리핑 - AAPL, TSLA", req.Subject)

	html := req.Html
	for _, want := range []string{
		"기술주 강세가 이어집니다.",
		"애플은 견조한 실적을 발표했습니다.",
		"🟢 긍정적",
		"🟡 중립",
		"⚡ 높음",
		"📋 낮음",
		"<li>매출 8% 증가</li>",
		"💡 보유 유지",
		`href="https://example.com/aapl"`,
		"Reuters",
		"border-left: 4px solid #22c55e",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("digest html missing %q", want)
		}
	}
	assert.Equal(t, true, strings.Contains(html, "Apple beats &lt;estimates&gt;"))
}

func TestSendDigest_CustomFrom(t *testing.T) {
	fake := &fakeSender{}
	m := newMailerWithSender(fake, "Briefing <brief@example.com>")

	m.SendDigest(context.Background(), "user@example.com", sampleDigest(), "")

	assert.Equal(t, "Briefing <brief@example.com>", fake.requests[0].From)
}

func TestSendDigest_ProviderError(t *testing.T) {
	m := newMailerWithSender(&fakeSender{err: errors.New("domain not verified")}, "")

	result := m.SendDigest(context.Background(), "user@example.com", sampleDigest(), "summary")

	assert.Equal(t, false, result.Success)
	assert.Equal(t, "domain not verified", result.Error)
}

func TestSendDigest_PanicBecomesResult(t *testing.T) {
	m := newMailerWithSender(&fakeSender{panicky: true}, "")

	result := m.SendDigest(context.Background(), "user@example.com", sampleDigest(), "summary")

	assert.Equal(t, false, result.Success)
	assert.Equal(t, "connection reset", result.Error)
}

func TestSendTest(t *testing.T) {
	fake := &fakeSender{}
	m := newMailerWithSender(fake, "")
	m.now = func() time.Time { return time.Date(2025, time.January, 6, 1, 0, 0, 0, time.UTC) }

	result := m.SendTest(context.Background(), "user@example.com", "민지")

	assert.Equal(t, true, result.Success)
	req := fake.requests[0]
	assert.Equal(t, testSubject, req.Subject)
	assert.Equal(t, true, strings.Contains(req.Html, "안녕하세요, 민지님!"))
	assert.Equal(t, true, strings.Contains(req.Html, "📅 2025년 1월 6일 월요일"))
	assert.Equal(t, true, strings.Contains(req.Html, "📧 수신 이메일: user@example.com"))
}

func TestNewMailer_MissingKey(t *testing.T) {
	_, err := NewMailer("", "")

	assert.Equal(t, ErrMissingAPIKey, err)
}

type rewriteTransport struct {
	base   http.RoundTripper
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return t.base.RoundTrip(req)
}

func TestResendRoundTrip(t *testing.T) {
	var got map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	httpClient := &http.Client{Transport: &rewriteTransport{base: http.DefaultTransport, target: target}}
	m := newMailer(resend.NewCustomClient(httpClient, "re_test"), "")

	result := m.SendTest(context.Background(), "user@example.com", "민지")

	assert.Equal(t, true, result.Success)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, testSubject, got["subject"])
}

func TestResendRoundTrip_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	httpClient := &http.Client{Transport: &rewriteTransport{base: http.DefaultTransport, target: target}}
	m := newMailer(resend.NewCustomClient(httpClient, "re_test"), "")

	result := m.SendDigest(context.Background(), "not-an-email", sampleDigest(), "summary")

	assert.Equal(t, false, result.Success)
	assert.NotEqual(t, "", result.Error)
}
