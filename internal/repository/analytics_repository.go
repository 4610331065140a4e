package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vantahire/internal/domain"
)

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) domain.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) IncrementViews(ctx context.Context, jobID int64) error {
	query := `
        INSERT INTO job_analytics (job_id, views, apply_clicks, conversion_rate)
        VALUES ($1, 1, 0, 0)
        ON CONFLICT (job_id) DO UPDATE SET
            views = job_analytics.views + 1,
            conversion_rate = ROUND(job_analytics.apply_clicks::numeric / (job_analytics.views + 1) * 100, 2),
            updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, jobID); err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

func (r *analyticsRepository) IncrementApplyClicks(ctx context.Context, jobID int64) error {
	query := `
        INSERT INTO job_analytics (job_id, views, apply_clicks, conversion_rate)
        VALUES ($1, 0, 1, 0)
        ON CONFLICT (job_id) DO UPDATE SET
            apply_clicks = job_analytics.apply_clicks + 1,
            conversion_rate = COALESCE(ROUND((job_analytics.apply_clicks + 1)::numeric / NULLIF(job_analytics.views, 0) * 100, 2), 0),
            updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, jobID); err != nil {
		return fmt.Errorf("failed to increment apply clicks: %w", err)
	}
	return nil
}

func (r *analyticsRepository) Get(ctx context.Context, jobID int64) (*domain.JobAnalytics, error) {
	query := `
        SELECT job_id, views, apply_clicks, conversion_rate, ai_score_cache, ai_model_version, updated_at
        FROM job_analytics WHERE job_id = $1`

	a := &domain.JobAnalytics{}
	var score sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, jobID).Scan(
		&a.JobID, &a.Views, &a.ApplyClicks, &a.ConversionRate, &score, &a.AIModelVersion, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job analytics: %w", err)
	}
	if score.Valid {
		v := int(score.Int64)
		a.AIScore = &v
	}
	return a, nil
}

func (r *analyticsRepository) SaveAIScore(ctx context.Context, jobID int64, score int, modelVersion string) error {
	query := `
        INSERT INTO job_analytics (job_id, ai_score_cache, ai_model_version)
        VALUES ($1, $2, $3)
        ON CONFLICT (job_id) DO UPDATE SET
            ai_score_cache = EXCLUDED.ai_score_cache,
            ai_model_version = EXCLUDED.ai_model_version,
            updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, jobID, score, modelVersion); err != nil {
		return fmt.Errorf("failed to save ai score: %w", err)
	}
	return nil
}

func (r *analyticsRepository) Stats(ctx context.Context) (*domain.AdminStats, error) {
	query := `
        SELECT
            (SELECT COUNT(*) FROM jobs),
            (SELECT COUNT(*) FROM jobs WHERE is_active = TRUE),
            (SELECT COUNT(*) FROM jobs WHERE status = 'pending'),
            (SELECT COUNT(*) FROM applications),
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM users WHERE role = 'recruiter')`

	s := &domain.AdminStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.TotalJobs, &s.ActiveJobs, &s.PendingJobs, &s.TotalApplications, &s.TotalUsers, &s.TotalRecruiters)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin stats: %w", err)
	}
	return s, nil
}

func (r *analyticsRepository) Performance(ctx context.Context, postedBy int64, since time.Time) ([]*domain.JobPerformance, error) {
	query := `
        SELECT j.id, j.title, j.location, j.status, j.is_active,
               COALESCE(a.views, 0), COALESCE(a.apply_clicks, 0), COALESCE(a.conversion_rate, 0),
               COALESCE(c.total, 0), a.ai_score_cache, j.created_at
        FROM jobs j
        LEFT JOIN job_analytics a ON a.job_id = j.id
        LEFT JOIN (SELECT job_id, COUNT(*) AS total FROM applications GROUP BY job_id) c ON c.job_id = j.id
        WHERE j.created_at >= $1 AND ($2::bigint = 0 OR j.posted_by = $2::bigint)
        ORDER BY j.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, since, postedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to query job performance: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.JobPerformance, 0)
	for rows.Next() {
		p := &domain.JobPerformance{}
		var score sql.NullInt64
		if err := rows.Scan(&p.JobID, &p.Title, &p.Location, &p.Status, &p.IsActive, &p.Views,
			&p.ApplyClicks, &p.ConversionRate, &p.TotalApplications, &score, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job performance: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			p.AIScore = &v
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}
