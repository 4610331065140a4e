package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationShortlisted, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

type Application struct {
	ID          int64             `json:"id"`
	JobID       int64             `json:"jobId"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	ResumeURL   string            `json:"resumeUrl"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	SubmittedAt time.Time         `json:"submittedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ApplicationWithJob is used by candidate facing listings.
type ApplicationWithJob struct {
	Application
	JobTitle    string `json:"jobTitle"`
	JobLocation string `json:"jobLocation"`
}
