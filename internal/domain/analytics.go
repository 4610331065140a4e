package domain

import (
	"math"
	"time"
)

type JobAnalytics struct {
	JobID          int64     `json:"jobId"`
	Views          int       `json:"views"`
	ApplyClicks    int       `json:"applyClicks"`
	ConversionRate float64   `json:"conversionRate"`
	AIScore        *int      `json:"aiScoreCache,omitempty"`
	AIModelVersion string    `json:"aiModelVersion,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ConversionRateOf returns apply clicks per view as a percentage rounded to two decimals.
func ConversionRateOf(views, applyClicks int) float64 {
	if views <= 0 {
		return 0
	}
	return math.Round(float64(applyClicks)/float64(views)*10000) / 100
}

type AdminStats struct {
	TotalJobs         int `json:"totalJobs"`
	ActiveJobs        int `json:"activeJobs"`
	PendingJobs       int `json:"pendingJobs"`
	TotalApplications int `json:"totalApplications"`
	TotalUsers        int `json:"totalUsers"`
	TotalRecruiters   int `json:"totalRecruiters"`
}

// JobPerformance is one row of the analytics export.
type JobPerformance struct {
	JobID             int64     `json:"jobId"`
	Title             string    `json:"title"`
	Location          string    `json:"location"`
	Status            JobStatus `json:"status"`
	IsActive          bool      `json:"isActive"`
	Views             int       `json:"views"`
	ApplyClicks       int       `json:"applyClicks"`
	ConversionRate    float64   `json:"conversionRate"`
	TotalApplications int       `json:"totalApplications"`
	AIScore           *int      `json:"aiScore,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type ContactSubmission struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}
