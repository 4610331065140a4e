package client

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"vantahire/internal/domain"
	"vantahire/internal/domain/dto"
)

// JobDraft is the job post form. It survives failed submissions.
type JobDraft struct {
	Title       string
	Location    string
	Type        string
	Description string
	Deadline    string
	Skills      []string
}

// AddSkill appends a trimmed skill. Empty and duplicate skills are rejected.
func (d *JobDraft) AddSkill(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return &ValidationError{Field: "skills", Message: "skill required"}
	}
	for _, existing := range d.Skills {
		if existing == s {
			return ErrDuplicateSkill
		}
	}
	d.Skills = append(d.Skills, s)
	return nil
}

// RemoveSkill removes s by exact match and reports whether it was present.
func (d *JobDraft) RemoveSkill(s string) bool {
	for i, existing := range d.Skills {
		if existing == s {
			d.Skills = append(d.Skills[:i], d.Skills[i+1:]...)
			return true
		}
	}
	return false
}

func fieldErr(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// firstError reduces the server's ordered field errors to the first one.
// Item errors such as "skills[2]" are reported on the list field.
func firstError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	var errs domain.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	field := errs[0].Field
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return fieldErr(field, errs[0].Message)
}

// Validate applies the same rules the server applies to a job post and
// returns the first failing field in form order, or nil.
func (d *JobDraft) Validate() *ValidationError {
	req := dto.JobCreateRequest{
		Title:       d.Title,
		Location:    d.Location,
		Type:        d.Type,
		Description: d.Description,
		Skills:      append([]string{}, d.Skills...),
		Deadline:    d.Deadline,
	}
	req.Normalize()
	return firstError(req.Validate())
}

func (d *JobDraft) normalized() JobDraft {
	return JobDraft{
		Title:       strings.TrimSpace(d.Title),
		Location:    strings.TrimSpace(d.Location),
		Type:        strings.TrimSpace(d.Type),
		Description: strings.TrimSpace(d.Description),
		Deadline:    strings.TrimSpace(d.Deadline),
		Skills:      append([]string{}, d.Skills...),
	}
}

// inflight guards a form against double submission.
type inflight struct {
	mu   sync.Mutex
	busy bool
}

func (f *inflight) acquire() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return false
	}
	f.busy = true
	return true
}

func (f *inflight) release() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

func (f *inflight) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// ListingPath is where a successful post navigates.
const ListingPath = "/jobs"

type PostResult struct {
	Job      Job
	Navigate string
}

type PostForm struct {
	inflight
	Draft JobDraft
	jobs  *JobsClient
}

func NewPostForm(jobs *JobsClient) *PostForm {
	return &PostForm{jobs: jobs}
}

// Submit validates locally, then creates the job. Invalid drafts never reach
// the network. On success the job list cache is dropped and the draft cleared;
// on failure the draft is kept.
func (f *PostForm) Submit(ctx context.Context) (*PostResult, error) {
	if !f.acquire() {
		return nil, ErrSubmitInFlight
	}
	defer f.release()

	if verr := f.Draft.Validate(); verr != nil {
		return nil, verr
	}

	job, err := f.jobs.Create(ctx, f.Draft.normalized())
	if err != nil {
		return nil, err
	}
	f.Draft = JobDraft{}
	return &PostResult{Job: job, Navigate: ListingPath}, nil
}

type ApplicationDraft struct {
	Name        string
	Email       string
	Phone       string
	CoverLetter string
	ResumeURL   string

	// ResumeName and Resume carry an uploaded PDF instead of ResumeURL.
	ResumeName string
	Resume     io.Reader
}

// Validate applies the server's application rules plus the resume requirement.
func (d *ApplicationDraft) Validate() *ValidationError {
	req := dto.ApplicationRequest{
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		CoverLetter: d.CoverLetter,
		ResumeURL:   d.ResumeURL,
	}
	req.Normalize()
	if verr := firstError(req.Validate()); verr != nil {
		return verr
	}
	if d.Resume == nil && req.ResumeURL == "" {
		return fieldErr("resume", "resume required")
	}
	return nil
}

type ApplyResult struct {
	ApplicationID int64 `json:"applicationId"`
	Success       bool  `json:"success"`
}

type ApplyForm struct {
	inflight
	JobID int64
	Draft ApplicationDraft
	api   *API
}

func NewApplyForm(api *API, jobID int64) *ApplyForm {
	return &ApplyForm{api: api, JobID: jobID}
}

func (f *ApplyForm) Submit(ctx context.Context) (*ApplyResult, error) {
	if !f.acquire() {
		return nil, ErrSubmitInFlight
	}
	defer f.release()

	if verr := f.Draft.Validate(); verr != nil {
		return nil, verr
	}

	fields := map[string]string{
		"name":        strings.TrimSpace(f.Draft.Name),
		"email":       strings.TrimSpace(f.Draft.Email),
		"phone":       strings.TrimSpace(f.Draft.Phone),
		"coverLetter": strings.TrimSpace(f.Draft.CoverLetter),
	}
	if u := strings.TrimSpace(f.Draft.ResumeURL); u != "" {
		fields["resumeUrl"] = u
	}

	resumeName := f.Draft.ResumeName
	if resumeName == "" {
		resumeName = "resume.pdf"
	}

	var res ApplyResult
	path := "/api/jobs/" + strconv.FormatInt(f.JobID, 10) + "/applications"
	if err := f.api.Upload(ctx, path, fields, "resume", resumeName, f.Draft.Resume, &res); err != nil {
		return nil, err
	}
	f.Draft = ApplicationDraft{}
	return &res, nil
}

