package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
	"vantahire/internal/domain/dto"
)

type JobService interface {
	Create(ctx context.Context, actor *domain.AuthInfo, req *dto.JobCreateRequest) (*domain.Job, error)
	ListPublic(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error)
	ListAll(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error)
	Get(ctx context.Context, actor *domain.AuthInfo, id int64) (*domain.Job, error)
	ListMine(ctx context.Context, actor *domain.AuthInfo) ([]*domain.Job, error)
	SetActive(ctx context.Context, actor *domain.AuthInfo, id int64, active bool) (*domain.Job, error)
	Review(ctx context.Context, actor *domain.AuthInfo, id int64, req *dto.JobReviewRequest) (*domain.Job, error)
	Stats(ctx context.Context) (*domain.AdminStats, error)
	ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error)
	ArchiveRejected(ctx context.Context) (int64, error)
}

type jobService struct {
	jobRepo       domain.JobRepository
	analyticsRepo domain.AnalyticsRepository
	cache         domain.JobPageCache
}

func NewJobService(jobRepo domain.JobRepository, analyticsRepo domain.AnalyticsRepository, cache domain.JobPageCache) JobService {
	return &jobService{jobRepo: jobRepo, analyticsRepo: analyticsRepo, cache: cache}
}

// canManage reports whether actor may change a job: admins always, recruiters for their own postings.
func canManage(actor *domain.AuthInfo, job *domain.Job) bool {
	if actor == nil {
		return false
	}
	if actor.Role == domain.RoleAdmin {
		return true
	}
	return actor.Role == domain.RoleRecruiter && job.PostedBy == actor.UserID
}

func (s *jobService) Create(ctx context.Context, actor *domain.AuthInfo, req *dto.JobCreateRequest) (*domain.Job, error) {
	if actor == nil || !actor.Role.CanPostJobs() {
		return nil, domain.ErrForbidden
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := req.ToJob(actor.UserID)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	s.flushCache(ctx)

	log.Info().Int64("job_id", job.ID).Int64("posted_by", actor.UserID).Msg("job created, awaiting review")
	return job, nil
}

// CacheKey renders a filter in a canonical form: sorted params, deduplicated
// skills, empty values omitted. Search and location match with ILIKE so they
// fold case; skills match exactly and keep theirs.
func CacheKey(f domain.JobFilter) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	if f.Search != "" {
		v.Set("search", strings.ToLower(f.Search))
	}
	if f.Location != "" {
		v.Set("location", strings.ToLower(f.Location))
	}
	if f.Type != "" {
		v.Set("type", string(f.Type))
	}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	if len(f.Skills) > 0 {
		seen := map[string]struct{}{}
		var skills []string
		for _, sk := range f.Skills {
			k := strings.TrimSpace(sk)
			if k == "" {
				continue
			}
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				skills = append(skills, k)
			}
		}
		sort.Strings(skills)
		if len(skills) > 0 {
			v.Set("skills", strings.Join(skills, ","))
		}
	}
	return v.Encode()
}

func (s *jobService) ListPublic(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error) {
	filter.Public = true
	filter.Status = ""
	filter.Normalize()

	key := CacheKey(filter)
	if page, ok := s.cache.Get(ctx, key); ok {
		return page, nil
	}

	page, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, page); err != nil {
		log.Warn().Err(err).Msg("failed to cache job page")
	}
	return page, nil
}

func (s *jobService) ListAll(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error) {
	filter.Public = false
	filter.Normalize()
	return s.list(ctx, filter)
}

func (s *jobService) list(ctx context.Context, filter domain.JobFilter) (*domain.JobPage, error) {
	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return &domain.JobPage{
		Jobs:       jobs,
		Pagination: domain.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// Get hides postings that are not live from everyone but their owner and admins.
func (s *jobService) Get(ctx context.Context, actor *domain.AuthInfo, id int64) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}

	live := job.IsActive && job.Status == domain.JobStatusApproved
	if !live && !canManage(actor, job) {
		return nil, domain.ErrNotFound
	}

	if live {
		if err := s.analyticsRepo.IncrementViews(ctx, job.ID); err != nil {
			log.Warn().Err(err).Int64("job_id", job.ID).Msg("failed to record job view")
		}
	}
	return job, nil
}

func (s *jobService) ListMine(ctx context.Context, actor *domain.AuthInfo) ([]*domain.Job, error) {
	jobs, err := s.jobRepo.ListByPoster(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *jobService) SetActive(ctx context.Context, actor *domain.AuthInfo, id int64, active bool) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if !canManage(actor, job) {
		return nil, domain.ErrForbidden
	}

	if err := s.jobRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	job.IsActive = active
	s.flushCache(ctx)
	return job, nil
}

func (s *jobService) Review(ctx context.Context, actor *domain.AuthInfo, id int64, req *dto.JobReviewRequest) (*domain.Job, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if err := domain.ValidateStruct(req); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}

	next := domain.JobStatus(req.Status)
	if !job.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, job.Status, next)
	}
	if err := s.jobRepo.Review(ctx, id, next, strings.TrimSpace(req.ReviewComments), actor.UserID); err != nil {
		return nil, err
	}
	s.flushCache(ctx)

	now := time.Now()
	job.Status = next
	job.ReviewComments = strings.TrimSpace(req.ReviewComments)
	job.ReviewedBy = &actor.UserID
	job.ReviewedAt = &now

	log.Info().Int64("job_id", id).Str("status", string(next)).Int64("reviewer", actor.UserID).Msg("job reviewed")
	return job, nil
}

func (s *jobService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.analyticsRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return stats, nil
}

func (s *jobService) ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.jobRepo.DeactivateOlderThan(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.flushCache(ctx)
	}
	return n, nil
}

func (s *jobService) ArchiveRejected(ctx context.Context) (int64, error) {
	n, err := s.jobRepo.DeactivateByStatus(ctx, domain.JobStatusRejected)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.flushCache(ctx)
	}
	return n, nil
}

func (s *jobService) flushCache(ctx context.Context) {
	if err := s.cache.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to flush job page cache")
	}
}
