package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
)

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, actor *domain.AuthInfo, userID int64, role domain.Role) (*domain.User, error)
}

type userService struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
}

func NewUserService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository) UserService {
	return &userService{userRepo: userRepo, sessionRepo: sessionRepo}
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateRole changes a user's role and revokes their sessions so the new role applies on next login.
// Admins cannot change their own role.
func (s *userService) UpdateRole(ctx context.Context, actor *domain.AuthInfo, userID int64, role domain.Role) (*domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "invalid role", domain.ErrInvalidField)
	}
	if actor.UserID == userID {
		return nil, fmt.Errorf("%w: cannot change your own role", domain.ErrConflict)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if user.Role == role {
		return user, nil
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to revoke sessions after role change")
	}

	log.Info().Int64("user_id", userID).Str("from", string(user.Role)).Str("to", string(role)).
		Int64("admin_id", actor.UserID).Msg("user role updated")
	user.Role = role
	return user, nil
}
