// Package scheduler runs periodic job board maintenance.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	// ExpireSpec runs daily at 02:00.
	ExpireSpec = "0 2 * * *"
	// ArchiveSpec runs Sundays at 03:00.
	ArchiveSpec = "0 3 * * 0"

	JobMaxAge  = 60 * 24 * time.Hour
	jobTimeout = 5 * time.Minute
)

// Maintainer is implemented by service.JobService.
type Maintainer interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error)
	ArchiveRejected(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	jobs   Maintainer
	maxAge time.Duration
}

func New(jobs Maintainer) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		jobs:   jobs,
		maxAge: JobMaxAge,
	}
	if _, err := s.cron.AddFunc(ExpireSpec, func() { s.ExpireJobs(context.Background()) }); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(ArchiveSpec, func() { s.ArchiveRejected(context.Background()) }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("entries", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop waits for running tasks to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) ExpireJobs(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	n, err := s.jobs.ExpireStale(ctx, s.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("failed to expire stale jobs")
		return
	}
	log.Info().Int64("count", n).Msg("expired stale jobs")
}

func (s *Scheduler) ArchiveRejected(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	n, err := s.jobs.ArchiveRejected(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to archive rejected jobs")
		return
	}
	log.Info().Int64("count", n).Msg("archived rejected jobs")
}
