// internal/domain/interface.go
package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateRole(ctx context.Context, id int64, role Role) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	UpdateLastUsed(ctx context.Context, sessionID string) error
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	List(ctx context.Context, filter JobFilter) ([]*Job, int, error)
	ListByPoster(ctx context.Context, userID int64) ([]*Job, error)
	Review(ctx context.Context, id int64, status JobStatus, comments string, reviewerID int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeactivateByStatus(ctx context.Context, status JobStatus) (int64, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	ListByJob(ctx context.Context, jobID int64) ([]*Application, error)
	ListByEmail(ctx context.Context, email string) ([]*ApplicationWithJob, error)
	UpdateStatus(ctx context.Context, id int64, status ApplicationStatus, notes string) error
}

type AnalyticsRepository interface {
	IncrementViews(ctx context.Context, jobID int64) error
	IncrementApplyClicks(ctx context.Context, jobID int64) error
	Get(ctx context.Context, jobID int64) (*JobAnalytics, error)
	SaveAIScore(ctx context.Context, jobID int64, score int, modelVersion string) error
	Stats(ctx context.Context) (*AdminStats, error)
	// Performance lists per-job metrics created since the given time. postedBy == 0 means all jobs.
	Performance(ctx context.Context, postedBy int64, since time.Time) ([]*JobPerformance, error)
}

type ContactRepository interface {
	Create(ctx context.Context, submission *ContactSubmission) error
}

// JobPageCache caches public job listing pages keyed by canonical query.
type JobPageCache interface {
	Get(ctx context.Context, key string) (*JobPage, bool)
	Set(ctx context.Context, key string, page *JobPage) error
	Flush(ctx context.Context) error
}

type AuthenticationService interface {
	Register(ctx context.Context, user *User, password, userAgent, ipAddress string) (*AuthResult, error)
	Login(ctx context.Context, username, password, userAgent, ipAddress string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, userID int64) (*User, error)

	ValidateAccessToken(ctx context.Context, tokenString string) (*AuthInfo, error)
	RefreshAccessToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error)
}
