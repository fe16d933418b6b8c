package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junggyoo/oh-my-stock/internal/digest"
)

const maxManualLookbackDays = 7

type DigestRunner interface {
	Run(ctx context.Context, lookbackDays int) ([]digest.Result, error)
}

type CronHandler struct {
	runner DigestRunner
	secret string
}

func NewCronHandler(runner DigestRunner, secret string) *CronHandler {
	return &CronHandler{runner: runner, secret: secret}
}

// DailyDigest runs the digest for every enabled user. Requests are refused
// unless a secret is configured and presented as a bearer token.
func (h *CronHandler) DailyDigest(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	days := getQueryInt("days", digest.ScheduledLookbackDays, c)
	if days < 1 || days > maxManualLookbackDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 7"})
		return
	}

	results, err := h.runner.Run(c.Request.Context(), days)
	if err != nil {
		slog.Error("daily digest run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Daily digest failed"})
		return
	}
	if results == nil {
		results = []digest.Result{}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *CronHandler) authorized(header string) bool {
	if h.secret == "" {
		return false
	}
	expected := "Bearer " + h.secret
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}
