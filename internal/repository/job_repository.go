package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
)

type postgresJobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) domain.JobRepository {
	return &postgresJobRepository{db: db}
}

const jobColumns = `id, title, location, type, description, skills, deadline, posted_by, status,
        is_active, review_comments, reviewed_by, reviewed_at, expires_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	job := &domain.Job{}
	var (
		skills     pq.StringArray
		deadline   sql.NullTime
		reviewedBy sql.NullInt64
		reviewedAt sql.NullTime
		expiresAt  sql.NullTime
	)
	err := row.Scan(&job.ID, &job.Title, &job.Location, &job.Type, &job.Description, &skills,
		&deadline, &job.PostedBy, &job.Status, &job.IsActive, &job.ReviewComments,
		&reviewedBy, &reviewedAt, &expiresAt, &job.CreatedAt)
	if err != nil {
		return nil, err
	}

	job.Skills = []string(skills)
	if job.Skills == nil {
		job.Skills = []string{}
	}
	if deadline.Valid {
		job.Deadline = &deadline.Time
	}
	if reviewedBy.Valid {
		job.ReviewedBy = &reviewedBy.Int64
	}
	if reviewedAt.Valid {
		job.ReviewedAt = &reviewedAt.Time
	}
	if expiresAt.Valid {
		job.ExpiresAt = &expiresAt.Time
	}
	return job, nil
}

func (j *postgresJobRepository) Create(ctx context.Context, job *domain.Job) error {
	query := `
        INSERT INTO jobs (title, location, type, description, skills, deadline, posted_by, status, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`

	var deadline sql.NullTime
	if job.Deadline != nil {
		deadline = sql.NullTime{Time: *job.Deadline, Valid: true}
	}

	err := j.db.QueryRowContext(ctx, query,
		job.Title, job.Location, job.Type, job.Description, pq.Array(job.Skills),
		deadline, job.PostedBy, job.Status, job.IsActive,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to create job")
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (j *postgresJobRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(j.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// buildJobWhere renders the filter as a WHERE clause with positional arguments.
func buildJobWhere(filter domain.JobFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Public {
		conds = append(conds, "is_active = TRUE", "status = "+next(string(domain.JobStatusApproved)))
	} else if filter.Status != "" {
		conds = append(conds, "status = "+next(string(filter.Status)))
	}
	if filter.Location != "" {
		conds = append(conds, "location ILIKE "+next("%"+escapeLike(filter.Location)+"%"))
	}
	if filter.Type != "" {
		conds = append(conds, "type = "+next(string(filter.Type)))
	}
	if filter.Search != "" {
		p := next("%" + escapeLike(filter.Search) + "%")
		conds = append(conds, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if len(filter.Skills) > 0 {
		conds = append(conds, "skills && "+next(pq.Array(filter.Skills)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (j *postgresJobRepository) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, int, error) {
	filter.Normalize()
	where, args := buildJobWhere(filter)

	var total int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	jobs, err := j.queryJobs(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (j *postgresJobRepository) ListByPoster(ctx context.Context, userID int64) ([]*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE posted_by = $1 ORDER BY created_at DESC`
	return j.queryJobs(ctx, query, userID)
}

func (j *postgresJobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]*domain.Job, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return jobs, nil
}

// Review only touches pending jobs so concurrent reviews cannot overwrite each other.
func (j *postgresJobRepository) Review(ctx context.Context, id int64, status domain.JobStatus, comments string, reviewerID int64) error {
	query := `
        UPDATE jobs
        SET status = $1, review_comments = $2, reviewed_by = $3, reviewed_at = NOW()
        WHERE id = $4 AND status = 'pending'`

	result, err := j.db.ExecContext(ctx, query, status, comments, reviewerID, id)
	if err != nil {
		log.Error().Err(err).Int64("job_id", id).Msg("failed to review job")
		return fmt.Errorf("failed to review job: %w", err)
	}
	if err := checkRowsAffected(result); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidTransition
		}
		return err
	}
	return nil
}

func (j *postgresJobRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := j.db.ExecContext(ctx, `UPDATE jobs SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return checkRowsAffected(result)
}

func (j *postgresJobRepository) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE jobs SET is_active = FALSE, expires_at = NOW() WHERE is_active = TRUE AND created_at < $1`

	result, err := j.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire jobs: %w", err)
	}
	return result.RowsAffected()
}

func (j *postgresJobRepository) DeactivateByStatus(ctx context.Context, status domain.JobStatus) (int64, error) {
	query := `UPDATE jobs SET is_active = FALSE WHERE is_active = TRUE AND status = $1`

	result, err := j.db.ExecContext(ctx, query, status)
	if err != nil {
		return 0, fmt.Errorf("failed to archive jobs: %w", err)
	}
	return result.RowsAffected()
}
