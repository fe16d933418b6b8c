package handler

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/junggyoo/oh-my-stock/pkg/mail"
)

var sendTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type SettingsStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetSettings(ctx context.Context, userID string) (*model.EmailSettings, error)
	UpsertSettings(ctx context.Context, s *model.EmailSettings) error
}

type TestMailer interface {
	SendTest(ctx context.Context, to, userName string) mail.SendResult
}

type SettingsHandler struct {
	users  SettingsStore
	mailer TestMailer
}

func NewSettingsHandler(users SettingsStore, mailer TestMailer) *SettingsHandler {
	return &SettingsHandler{users: users, mailer: mailer}
}

type settingsRequest struct {
	Enabled  *bool   `json:"enabled"`
	SendTime *string `json:"sendTime"`
	Timezone *string `json:"timezone"`
}

// UpdateSettings changes the given fields and keeps the rest, starting from
// the defaults when the user has no settings row.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다."})
		return
	}

	if req.SendTime != nil && !sendTimePattern.MatchString(*req.SendTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sendTime must be HH:MM"})
		return
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil || *req.Timezone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone"})
			return
		}
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	current, err := h.users.GetSettings(ctx, userID)
	if err != nil {
		slog.Error("error fetching email settings", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	settings := model.DefaultEmailSettings(userID)
	if current != nil {
		settings = *current
	}
	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.SendTime != nil {
		settings.SendTime = *req.SendTime
	}
	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}

	if err := h.users.UpsertSettings(ctx, &settings); err != nil {
		slog.Error("error saving email settings", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func (h *SettingsHandler) SendTestEmail(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		slog.Error("error fetching user", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "이메일 발송 중 오류가 발생했습니다."})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	settings, err := h.users.GetSettings(ctx, userID)
	if err != nil {
		slog.Error("error fetching email settings", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "이메일 발송 중 오류가 발생했습니다."})
		return
	}
	if settings == nil || !settings.Enabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "이메일 브리핑이 비활성화되어 있습니다."})
		return
	}

	result := h.mailer.SendTest(ctx, user.Email, user.DisplayName())
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "이메일 발송에 실패했습니다."
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "테스트 이메일이 발송되었습니다."})
}
