package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const digestPath = "/api/cron/daily-digest"

type triggerResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HTTPTrigger starts a digest run by calling the API's cron endpoint with the
// shared bearer secret.
type HTTPTrigger struct {
	client *http.Client
	url    string
	secret string
}

func NewHTTPTrigger(baseURL, secret string) *HTTPTrigger {
	return &HTTPTrigger{
		client: &http.Client{Timeout: runTimeout},
		url:    strings.TrimRight(baseURL, "/") + digestPath,
		secret: secret,
	}
}

func (t *HTTPTrigger) Trigger(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.secret)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("call digest endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("digest endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Results []triggerResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode digest response: %w", err)
	}

	failed := 0
	for _, r := range body.Results {
		if !r.Success {
			failed++
			slog.Warn("digest delivery failed", "email", r.Email, "error", r.Error)
		}
	}
	slog.Info("daily digest results", "recipients", len(body.Results), "failed", failed, "at", time.Now().Format(time.RFC3339))
	return nil
}
