package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vantahire/internal/config"
	"vantahire/internal/domain"
	"vantahire/internal/domain/dto"
	"vantahire/internal/middleware"
)

type AuthHandler struct {
	authService domain.AuthenticationService
	config      *config.Config
}

func NewAuthHandler(authService domain.AuthenticationService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens *domain.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken,
		int(h.config.JWT.AccessTokenTTL.Seconds()), "/", "", h.config.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, tokens.RefreshToken,
		int(h.config.JWT.RefreshTokenTTL.Seconds()), "/api", "", h.config.CookieSecure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.config.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/api", "", h.config.CookieSecure, true)
}

// Register handles POST /api/register. Admin accounts cannot be self registered.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := domain.ValidateStruct(&req); err != nil {
		respondError(c, err, "Failed to register")
		return
	}

	user := &domain.User{
		Username:  req.Username,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      domain.Role(req.Role),
	}
	result, err := h.authService.Register(c.Request.Context(), user, req.Password, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to register")
		return
	}

	h.setSessionCookies(c, result.Tokens)
	c.JSON(http.StatusCreated, result.User)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := domain.ValidateStruct(&req); err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	h.setSessionCookies(c, result.Tokens)
	c.JSON(http.StatusOK, result.User)
}

// Logout always clears cookies; the session is revoked when the caller had one.
func (h *AuthHandler) Logout(c *gin.Context) {
	if info := actor(c); info != nil {
		if err := h.authService.Logout(c.Request.Context(), info.SessionID); err != nil {
			respondError(c, err, "Failed to revoke session")
			return
		}
	}
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	info := actor(c)
	if info == nil {
		respondError(c, domain.ErrUnauthorized, "")
		return
	}
	user, err := h.authService.CurrentUser(c.Request.Context(), info.UserID)
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// RefreshToken accepts the refresh token from its cookie or a JSON body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.RefreshTokenCookie)
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.ShouldBindJSON(&req)
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		errorJSON(c, http.StatusUnauthorized, "Refresh token required", "MISSING_AUTH")
		return
	}

	tokens, err := h.authService.RefreshAccessToken(c.Request.Context(), refreshToken, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		h.clearSessionCookies(c)
		errorJSON(c, http.StatusUnauthorized, "Invalid refresh token", "TOKEN_INVALID")
		return
	}

	h.setSessionCookies(c, tokens)
	c.JSON(http.StatusOK, gin.H{"message": "Session refreshed"})
}
