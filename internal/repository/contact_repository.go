package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vantahire/internal/domain"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, s *domain.ContactSubmission) error {
	query := `
        INSERT INTO contact_submissions (name, email, phone, company, location, message)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, submitted_at`

	if err := r.db.QueryRowContext(ctx, query, s.Name, s.Email, s.Phone, s.Company, s.Location, s.Message).
		Scan(&s.ID, &s.SubmittedAt); err != nil {
		return fmt.Errorf("failed to save contact submission: %w", err)
	}
	return nil
}
