package client

import (
	"time"

	"vantahire/internal/domain"
)

type Job struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Location       string     `json:"location"`
	Type           string     `json:"type"`
	Description    string     `json:"description"`
	Skills         []string   `json:"skills"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	PostedBy       int64      `json:"postedBy"`
	Status         string     `json:"status"`
	IsActive       bool       `json:"isActive"`
	ReviewComments string     `json:"reviewComments,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Page struct {
	Jobs       []Job      `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}

type AdminStats struct {
	TotalJobs         int `json:"totalJobs"`
	ActiveJobs        int `json:"activeJobs"`
	PendingJobs       int `json:"pendingJobs"`
	TotalApplications int `json:"totalApplications"`
	TotalUsers        int `json:"totalUsers"`
	TotalRecruiters   int `json:"totalRecruiters"`
}

type ClientConfig struct {
	ApolloAppID *string `json:"apolloAppId"`
}

// JobTypes are the values the server accepts for Job.Type.
var JobTypes = jobTypeNames()

func jobTypeNames() []string {
	names := make([]string, len(domain.JobTypes))
	for i, t := range domain.JobTypes {
		names[i] = string(t)
	}
	return names
}
