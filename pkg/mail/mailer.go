package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/resend/resend-go/v2"
)

const DefaultFrom = "Oh My Stock <onboarding@resend.dev>"

const (
	digestSubject = "📈 [Oh My Stock] %s 모닝 브리핑 - %s"
	testSubject   = "📈 [Oh My Stock] 테스트 이메일 - 설정 완료!"
)

var ErrMissingAPIKey = errors.New("RESEND_API_KEY is not set")

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"sentimentEmoji": sentimentEmoji,
	"sentimentLabel": sentimentLabel,
	"sentimentShort": sentimentShort,
	"sentimentColor": sentimentColor,
	"impactLabel":    impactLabel,
}).ParseFS(templateFS, "templates/*.html"))

// SendResult is the outcome of one delivery. Send methods never return an
// error; failures are reported here.
type SendResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Mailer struct {
	emails sender
	from   string
	now    func() time.Time
}

func NewMailer(apiKey, from string) (*Mailer, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return newMailer(resend.NewClient(apiKey), from), nil
}

func newMailer(client *resend.Client, from string) *Mailer {
	return newMailerWithSender(client.Emails, from)
}

func newMailerWithSender(emails sender, from string) *Mailer {
	if from == "" {
		from = DefaultFrom
	}
	return &Mailer{emails: emails, from: from, now: time.Now}
}

type digestView struct {
	Digest         model.Digest
	OverallSummary string
}

// SendDigest renders the morning briefing for one recipient and sends it.
func (m *Mailer) SendDigest(ctx context.Context, to string, digest model.Digest, overallSummary string) (result SendResult) {
	defer recoverSend(&result)

	html, err := render("digest.html", digestView{Digest: digest, OverallSummary: overallSummary})
	if err != nil {
		return failed(err)
	}

	subject := fmt.Sprintf(digestSubject, digest.Date, strings.Join(digest.Symbols(), ", "))
	return m.send(ctx, to, subject, html)
}

type testView struct {
	UserName string
	Email    string
	Date     string
}

// SendTest sends the static confirmation mail used to check email settings.
func (m *Mailer) SendTest(ctx context.Context, to, userName string) (result SendResult) {
	defer recoverSend(&result)

	html, err := render("test.html", testView{
		UserName: userName,
		Email:    to,
		Date:     model.DateLabel(m.now()),
	})
	if err != nil {
		return failed(err)
	}

	return m.send(ctx, to, testSubject, html)
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) SendResult {
	resp, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		slog.Error("failed to send email", "to", to, "error", err)
		return failed(err)
	}

	slog.Info("email sent", "to", to, "id", resp.Id)
	return SendResult{Success: true}
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func failed(err error) SendResult {
	return SendResult{Success: false, Error: err.Error()}
}

func recoverSend(result *SendResult) {
	if r := recover(); r != nil {
		slog.Error("panic while sending email", "panic", r)
		*result = SendResult{Success: false, Error: fmt.Sprint(r)}
	}
}
