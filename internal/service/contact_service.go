package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
	"vantahire/internal/domain/dto"
)

type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) (*domain.ContactSubmission, error)
}

type contactService struct {
	repo     domain.ContactRepository
	notifier Notifier
	sanitize *domain.SecuritySanitizer
}

func NewContactService(repo domain.ContactRepository, notifier Notifier) ContactService {
	return &contactService{repo: repo, notifier: notifier, sanitize: domain.NewSecuritySanitizer()}
}

func (s *contactService) Submit(ctx context.Context, req *dto.ContactRequest) (*domain.ContactSubmission, error) {
	if err := domain.ValidateStruct(req); err != nil {
		return nil, err
	}

	submission := req.ToSubmission()
	submission.Message = s.sanitize.SanitizeString(submission.Message)
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save contact submission: %w", err)
	}

	s.notifier.ContactSubmitted(submission)
	log.Info().Int64("submission_id", submission.ID).Msg("contact submission stored")
	return submission, nil
}
