package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
	"vantahire/internal/domain/dto"
	"vantahire/internal/upload"
)

// Notifier is the subset of notify.Notifier the services depend on.
type Notifier interface {
	ApplicationSubmitted(job *domain.Job, app *domain.Application, recruiter *domain.User)
	ApplicationStatusChanged(job *domain.Job, app *domain.Application)
	ContactSubmitted(submission *domain.ContactSubmission)
}

type ResumeFile struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

type ApplicationService interface {
	Apply(ctx context.Context, jobID int64, req *dto.ApplicationRequest, resume *ResumeFile) (*domain.Application, error)
	ListForJob(ctx context.Context, actor *domain.AuthInfo, jobID int64) ([]*domain.Application, error)
	UpdateStatus(ctx context.Context, actor *domain.AuthInfo, id int64, req *dto.ApplicationStatusRequest) (*domain.Application, error)
	ListMine(ctx context.Context, actor *domain.AuthInfo) ([]*domain.ApplicationWithJob, error)
}

type applicationService struct {
	appRepo       domain.ApplicationRepository
	jobRepo       domain.JobRepository
	userRepo      domain.UserRepository
	analyticsRepo domain.AnalyticsRepository
	resumes       upload.ResumeStore
	notifier      Notifier
}

func NewApplicationService(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	userRepo domain.UserRepository,
	analyticsRepo domain.AnalyticsRepository,
	resumes upload.ResumeStore,
	notifier Notifier,
) ApplicationService {
	return &applicationService{
		appRepo:       appRepo,
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		analyticsRepo: analyticsRepo,
		resumes:       resumes,
		notifier:      notifier,
	}
}

func (s *applicationService) Apply(ctx context.Context, jobID int64, req *dto.ApplicationRequest, resume *ResumeFile) (*domain.Application, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if resume == nil && req.ResumeURL == "" {
		return nil, domain.NewValidationError("resume", "resume required", domain.ErrRequired)
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if !job.IsActive || job.Status != domain.JobStatusApproved {
		return nil, domain.ErrJobInactive
	}

	resumeURL := req.ResumeURL
	if resume != nil {
		data, err := upload.ReadResume(resume.Body, resume.Size, resume.ContentType)
		if err != nil {
			return nil, domain.NewValidationError("resume", err.Error(), domain.ErrInvalidField)
		}
		resumeURL, err = s.resumes.Store(ctx, resume.Filename, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to store resume: %w", err)
		}
	}

	app := req.ToApplication(jobID, resumeURL)
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	if err := s.analyticsRepo.IncrementApplyClicks(ctx, jobID); err != nil {
		log.Warn().Err(err).Int64("job_id", jobID).Msg("failed to record apply click")
	}

	recruiter, err := s.userRepo.GetByID(ctx, job.PostedBy)
	if err != nil {
		log.Warn().Err(err).Int64("job_id", jobID).Msg("failed to load recruiter for notification")
	}
	s.notifier.ApplicationSubmitted(job, app, recruiter)

	log.Info().Int64("application_id", app.ID).Int64("job_id", jobID).Msg("application submitted")
	return app, nil
}

func (s *applicationService) ownedJob(ctx context.Context, actor *domain.AuthInfo, jobID int64) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if !canManage(actor, job) {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

func (s *applicationService) ListForJob(ctx context.Context, actor *domain.AuthInfo, jobID int64) ([]*domain.Application, error) {
	if _, err := s.ownedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, actor *domain.AuthInfo, id int64, req *dto.ApplicationStatusRequest) (*domain.Application, error) {
	if err := domain.ValidateStruct(req); err != nil {
		return nil, err
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	job, err := s.ownedJob(ctx, actor, app.JobID)
	if err != nil {
		return nil, err
	}

	status := domain.ApplicationStatus(req.Status)
	if err := s.appRepo.UpdateStatus(ctx, id, status, req.Notes); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	changed := app.Status != status
	app.Status = status
	app.Notes = req.Notes
	if changed {
		s.notifier.ApplicationStatusChanged(job, app)
	}
	return app, nil
}

// ListMine matches applications by the caller's username, which doubles as their email.
func (s *applicationService) ListMine(ctx context.Context, actor *domain.AuthInfo) ([]*domain.ApplicationWithJob, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	apps, err := s.appRepo.ListByEmail(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}
