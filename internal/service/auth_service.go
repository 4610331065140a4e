package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"vantahire/internal/config"
	"vantahire/internal/domain"
)

type authenticationService struct {
	userRepo        domain.UserRepository
	sessionRepo     domain.SessionRepository
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

type Claims struct {
	UserID    int64       `json:"user_id"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"session_id"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

func NewAuthenticationService(
	cfg config.JWTConfig,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
) domain.AuthenticationService {
	accessTTL, refreshTTL := cfg.AccessTokenTTL, cfg.RefreshTokenTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &authenticationService{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		jwtSecret:       []byte(cfg.Secret),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

func (s *authenticationService) Register(ctx context.Context, user *domain.User, password, userAgent, ipAddress string) (*domain.AuthResult, error) {
	user.Username = strings.TrimSpace(user.Username)
	if user.Role == "" {
		user.Role = domain.RoleCandidate
	}
	if user.Role == domain.RoleAdmin || !user.Role.Valid() {
		return nil, domain.NewValidationError("role", "role must be candidate or recruiter", domain.ErrInvalidField)
	}

	existing, err := s.userRepo.GetByUsername(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

func (s *authenticationService) Login(ctx context.Context, username, password, userAgent, ipAddress string) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

func (s *authenticationService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *authenticationService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *authenticationService) generateTokenPair(ctx context.Context, user *domain.User, userAgent, ipAddress string) (*domain.TokenPair, error) {
	sessionID := uuid.New().String()
	now := time.Now()

	accessToken, err := s.signToken(user, sessionID, tokenTypeAccess, now.Add(s.accessTokenTTL))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.signToken(user, sessionID, tokenTypeRefresh, now.Add(s.refreshTokenTTL))
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:           sessionID,
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.refreshTokenTTL),
		CreatedAt:    now,
		LastUsedAt:   now,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

func (s *authenticationService) signToken(user *domain.User, sessionID, tokenType string, expiresAt time.Time) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authenticationService) parseToken(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected HMAC algorithm: %v", method.Alg())
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", expectedType, claims.TokenType)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("invalid user ID in token")
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, fmt.Errorf("invalid session ID in token")
	}
	return claims, nil
}

func (s *authenticationService) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.AuthInfo, error) {
	claims, err := s.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	// a token outlives its session after logout or a role change
	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("session verification failed: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found")
	}
	if time.Now().After(session.ExpiresAt) {
		go s.sessionRepo.Delete(context.Background(), session.ID)
		return nil, fmt.Errorf("session expired")
	}

	go func() {
		if err := s.sessionRepo.UpdateLastUsed(context.Background(), claims.SessionID); err != nil {
			log.Debug().Err(err).Msg("failed to touch session")
		}
	}()

	return &domain.AuthInfo{
		UserID:    claims.UserID,
		Role:      session.Role,
		SessionID: claims.SessionID,
	}, nil
}

// RefreshAccessToken rotates the session: the old refresh token stops working.
func (s *authenticationService) RefreshAccessToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.ID != claims.SessionID {
		return nil, fmt.Errorf("session not found")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke old session: %w", err)
	}
	return s.generateTokenPair(ctx, user, userAgent, ipAddress)
}
