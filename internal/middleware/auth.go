package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vantahire/internal/domain"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	ctxUserID    = "user_id"
	ctxSessionID = "session_id"
	ctxUserRole  = "user_role"
)

// TokenValidator resolves an access token to the session it belongs to.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, tokenString string) (*domain.AuthInfo, error)
}

// AuthMiddleware requires a valid access token from the Authorization header or the session cookie.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, errCode := extractToken(c)
		if tokenString == "" {
			abortJSON(c, http.StatusUnauthorized, "Authentication required", errCode)
			return
		}

		info, err := validator.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "Invalid or expired session", "TOKEN_INVALID")
			return
		}
		setAuthInfo(c, info)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is present and never rejects.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, _ := extractToken(c); tokenString != "" {
			if info, err := validator.ValidateAccessToken(c.Request.Context(), tokenString); err == nil {
				setAuthInfo(c, info)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, string) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return "", "INVALID_AUTH_FORMAT"
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return "", "EMPTY_TOKEN"
		}
		return tokenString, ""
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, ""
	}
	return "", "MISSING_AUTH"
}

func setAuthInfo(c *gin.Context, info *domain.AuthInfo) {
	c.Set(ctxUserID, info.UserID)
	c.Set(ctxSessionID, info.SessionID)
	c.Set(ctxUserRole, info.Role)
}

// CurrentUser returns the authenticated caller set by AuthMiddleware or OptionalAuth.
func CurrentUser(c *gin.Context) (*domain.AuthInfo, bool) {
	userID, ok := c.Get(ctxUserID)
	if !ok {
		return nil, false
	}
	info := &domain.AuthInfo{UserID: userID.(int64)}
	if v, ok := c.Get(ctxSessionID); ok {
		info.SessionID = v.(string)
	}
	if v, ok := c.Get(ctxUserRole); ok {
		info.Role = v.(domain.Role)
	}
	return info, true
}

func abortJSON(c *gin.Context, code int, message, errorCode string) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": message,
		"code":  errorCode,
	})
}
