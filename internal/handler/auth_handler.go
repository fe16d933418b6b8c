package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junggyoo/oh-my-stock/internal/auth"
	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/junggyoo/oh-my-stock/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, email string, name *string, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, name, email *string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	GetSettings(ctx context.Context, userID string) (*model.EmailSettings, error)
}

type TokenIssuer interface {
	TokenVerifier
	Issue(userID string) (string, error)
}

type AuthHandler struct {
	users        UserStore
	tokens       TokenIssuer
	maxAge       int
	secureCookie bool
}

func NewAuthHandler(users UserStore, tokens TokenIssuer, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		users:        users,
		tokens:       tokens,
		maxAge:       int(auth.TokenTTL.Seconds()),
		secureCookie: secureCookie,
	}
}

type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다."})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "이메일을 입력해주세요."})
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "비밀번호는 6자 이상이어야 합니다."})
		return
	}
	if req.Name != nil && *req.Name == "" {
		req.Name = nil
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("error hashing password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "회원가입 중 오류가 발생했습니다."})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email, req.Name, hash)
	if errors.Is(err, repository.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "이미 사용 중인 이메일입니다."})
		return
	}
	if err != nil {
		slog.Error("error creating user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "회원가입 중 오류가 발생했습니다."})
		return
	}

	if !h.setSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(*user, nil)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "이메일과 비밀번호를 입력해주세요."})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		slog.Error("error fetching user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "로그인 중 오류가 발생했습니다."})
		return
	}

	if user == nil || user.PasswordHash == nil || !auth.VerifyPassword(req.Password, *user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "이메일 또는 비밀번호가 올바르지 않습니다."})
		return
	}

	if !h.setSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(*user, nil)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, currentUserID(c))
	if err != nil {
		slog.Error("error fetching user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "사용자 정보를 가져오는 중 오류가 발생했습니다."})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "인증이 필요합니다."})
		return
	}

	settings, err := h.users.GetSettings(ctx, user.ID)
	if err != nil {
		slog.Error("error fetching email settings", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "사용자 정보를 가져오는 중 오류가 발생했습니다."})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user, settings))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다."})
		return
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "이메일을 입력해주세요."})
			return
		}
		req.Email = &trimmed
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUserID(c), req.Name, req.Email)
	if errors.Is(err, repository.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "이미 사용 중인 이메일입니다."})
		return
	}
	if err != nil {
		slog.Error("error updating profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user, nil))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다."})
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "새 비밀번호는 6자 이상이어야 합니다."})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetByID(ctx, currentUserID(c))
	if err != nil {
		slog.Error("error fetching user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.PasswordHash != nil {
		if req.CurrentPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "현재 비밀번호를 입력해주세요."})
			return
		}
		if !auth.VerifyPassword(req.CurrentPassword, *user.PasswordHash) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "현재 비밀번호가 올바르지 않습니다."})
			return
		}
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("error hashing password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "비밀번호 변경 중 오류가 발생했습니다."})
		return
	}

	if err := h.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		slog.Error("error updating password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "비밀번호가 변경되었습니다."})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), currentUserID(c)); err != nil {
		slog.Error("error deleting user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "계정이 삭제되었습니다."})
}

func (h *AuthHandler) setSession(c *gin.Context, userID string) bool {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		slog.Error("error issuing token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "인증 토큰 발급에 실패했습니다."})
		return false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, h.maxAge, "/", "", h.secureCookie, true)
	return true
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.secureCookie, true)
}
