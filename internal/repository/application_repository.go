package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) domain.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, job_id, name, email, phone, resume_url, cover_letter, status, notes, submitted_at, updated_at`

func scanApplication(row rowScanner, extra ...any) (*domain.Application, error) {
	app := &domain.Application{}
	dest := []any{&app.ID, &app.JobID, &app.Name, &app.Email, &app.Phone, &app.ResumeURL,
		&app.CoverLetter, &app.Status, &app.Notes, &app.SubmittedAt, &app.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `
        INSERT INTO applications (job_id, name, email, phone, resume_url, cover_letter, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, submitted_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		app.JobID, app.Name, app.Email, app.Phone, app.ResumeURL, app.CoverLetter, app.Status,
	).Scan(&app.ID, &app.SubmittedAt, &app.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Int64("job_id", app.JobID).Msg("failed to create application")
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID int64) ([]*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 ORDER BY submitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) ListByEmail(ctx context.Context, email string) ([]*domain.ApplicationWithJob, error) {
	query := `
        SELECT a.id, a.job_id, a.name, a.email, a.phone, a.resume_url, a.cover_letter, a.status,
               a.notes, a.submitted_at, a.updated_at, j.title, j.location
        FROM applications a
        JOIN jobs j ON j.id = a.job_id
        WHERE LOWER(a.email) = LOWER($1)
        ORDER BY a.submitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*domain.ApplicationWithJob, 0)
	for rows.Next() {
		var title, location string
		app, err := scanApplication(rows, &title, &location)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, &domain.ApplicationWithJob{Application: *app, JobTitle: title, JobLocation: location})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes string) error {
	query := `UPDATE applications SET status = $1, notes = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return checkRowsAffected(result)
}
