package domain

import (
	"math"
	"time"
)

type JobType string

const (
	JobTypeFullTime JobType = "full-time"
	JobTypePartTime JobType = "part-time"
	JobTypeContract JobType = "contract"
	JobTypeRemote   JobType = "remote"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeRemote}

func (t JobType) Valid() bool {
	for _, jt := range JobTypes {
		if t == jt {
			return true
		}
	}
	return false
}

type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusApproved JobStatus = "approved"
	JobStatusRejected JobStatus = "rejected"
)

// CanTransition reports whether a review may move a job from s to next.
// Only pending jobs can be reviewed; approved and rejected are terminal.
func (s JobStatus) CanTransition(next JobStatus) bool {
	if s != JobStatusPending {
		return false
	}
	return next == JobStatusApproved || next == JobStatusRejected
}

type Job struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Location       string     `json:"location"`
	Type           JobType    `json:"type"`
	Description    string     `json:"description"`
	Skills         []string   `json:"skills"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	PostedBy       int64      `json:"postedBy"`
	Status         JobStatus  `json:"status"`
	IsActive       bool       `json:"isActive"`
	ReviewComments string     `json:"reviewComments,omitempty"`
	ReviewedBy     *int64     `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// JobFilter is the server side view of a job search. Zero values mean "no constraint".
type JobFilter struct {
	Search   string
	Location string
	Type     JobType
	Skills   []string
	Status   JobStatus
	// Public restricts the result to active, approved postings.
	Public bool
	Page   int
	Limit  int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Normalize clamps paging values to their allowed range.
func (f *JobFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

func (f JobFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

type JobPage struct {
	Jobs       []*Job     `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}
