package dto

import (
	"strings"
	"time"

	"vantahire/internal/domain"
)

type JobCreateRequest struct {
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Deadline    string   `json:"deadline,omitempty"`
}

// Validate checks fields in form order so the first error names the first bad field.
func (req *JobCreateRequest) Validate() error {
	b := domain.NewValidationBuilder()
	b.String("title", req.Title).NotEmpty().MaxLength(100).SecureSanitize()
	b.String("location", req.Location).NotEmpty().MaxLength(100).SecureSanitize()
	b.String("type", req.Type).NotEmpty().OneOf(jobTypeNames()...)
	b.String("description", req.Description).NotEmpty().MinLength(10).MaxLength(5000)
	b.Date("deadline", req.Deadline).ISO8601()
	b.Strings("skills", req.Skills).MaxLength(20).EachNotEmpty().EachMaxLength(50).Unique().EachSecureSanitize()
	return b.Build()
}

func (req *JobCreateRequest) Normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Type = strings.TrimSpace(req.Type)
	req.Description = strings.TrimSpace(req.Description)
	req.Deadline = strings.TrimSpace(req.Deadline)
	skills := make([]string, 0, len(req.Skills))
	for _, s := range req.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	req.Skills = skills
}

func (req *JobCreateRequest) ToJob(postedBy int64) *domain.Job {
	job := &domain.Job{
		Title:       req.Title,
		Location:    req.Location,
		Type:        domain.JobType(req.Type),
		Description: req.Description,
		Skills:      req.Skills,
		PostedBy:    postedBy,
		Status:      domain.JobStatusPending,
		IsActive:    true,
	}
	if req.Deadline != "" {
		if d, err := time.Parse(domain.DateLayout, req.Deadline); err == nil {
			job.Deadline = &d
		}
	}
	return job
}

func jobTypeNames() []string {
	names := make([]string, len(domain.JobTypes))
	for i, t := range domain.JobTypes {
		names[i] = string(t)
	}
	return names
}

type JobListQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Location string `form:"location"`
	Type     string `form:"type"`
	Skills   string `form:"skills"`
	Status   string `form:"status"`
}

// ToFilter converts query parameters into a filter, ignoring empty values and the "all" type.
func (q JobListQuery) ToFilter() domain.JobFilter {
	f := domain.JobFilter{
		Search:   strings.TrimSpace(q.Search),
		Location: strings.TrimSpace(q.Location),
		Page:     q.Page,
		Limit:    q.Limit,
		Status:   domain.JobStatus(strings.TrimSpace(q.Status)),
	}
	if t := strings.TrimSpace(q.Type); t != "" && t != "all" {
		f.Type = domain.JobType(t)
	}
	for _, s := range strings.Split(q.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.Skills = append(f.Skills, s)
		}
	}
	f.Normalize()
	return f
}

type JobActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type JobReviewRequest struct {
	Status         string `json:"status" validate:"required,oneof=approved rejected"`
	ReviewComments string `json:"reviewComments" validate:"max=1000"`
}
