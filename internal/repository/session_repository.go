package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vantahire/internal/domain"
)

type sessionRepository struct {
	client        *redis.Client
	userSetExpiry time.Duration
}

func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &sessionRepository{
		client:        client,
		userSetExpiry: 30 * 24 * time.Hour,
	}
}

func sessionKey(id string) string        { return fmt.Sprintf("session:%s", id) }
func refreshTokenKey(token string) string { return fmt.Sprintf("refresh_token:%s", token) }
func userSessionsKey(userID int64) string { return fmt.Sprintf("user_sessions:%d", userID) }

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), sessionData, ttl)
	pipe.Set(ctx, refreshTokenKey(session.RefreshToken), session.ID, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), r.userSetExpiry)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	sessionID, err := r.client.Get(ctx, refreshTokenKey(refreshToken)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, sessionID)
}

func (r *sessionRepository) update(ctx context.Context, session *domain.Session) error {
	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.ID), sessionData, time.Until(session.ExpiresAt)).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.Del(ctx, refreshTokenKey(session.RefreshToken))
	pipe.SRem(ctx, userSessionsKey(session.UserID), sessionID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	sessionIDs, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, id := range sessionIDs {
		session, err := r.GetByID(ctx, id)
		if err != nil || session == nil {
			continue
		}
		pipe.Del(ctx, sessionKey(id))
		pipe.Del(ctx, refreshTokenKey(session.RefreshToken))
	}
	pipe.Del(ctx, userSessionsKey(userID))

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) UpdateLastUsed(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil || session == nil {
		return err
	}

	session.LastUsedAt = time.Now()
	return r.update(ctx, session)
}
