package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"vantahire/internal/domain"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]*domain.User{}}
	for _, u := range users {
		r.nextID++
		if u.ID == 0 {
			u.ID = r.nextID
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) {
			return domain.ErrUsernameTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id int64, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	return nil
}

type fakeJobRepo struct {
	jobs    map[int64]*domain.Job
	nextID  int64
	filters []domain.JobFilter
}

func newFakeJobRepo(jobs ...*domain.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: map[int64]*domain.Job{}}
	for _, j := range jobs {
		r.nextID++
		if j.ID == 0 {
			j.ID = r.nextID
		}
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(_ context.Context, job *domain.Job) error {
	r.nextID++
	job.ID = r.nextID
	job.CreatedAt = time.Now()
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id int64) (*domain.Job, error) {
	if j, ok := r.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeJobRepo) List(_ context.Context, filter domain.JobFilter) ([]*domain.Job, int, error) {
	r.filters = append(r.filters, filter)
	var out []*domain.Job
	for _, j := range r.jobs {
		if filter.Public && !(j.IsActive && j.Status == domain.JobStatusApproved) {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out, len(out), nil
}

func (r *fakeJobRepo) ListByPoster(_ context.Context, userID int64) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, j := range r.jobs {
		if j.PostedBy == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Review(_ context.Context, id int64, status domain.JobStatus, comments string, reviewerID int64) error {
	j, ok := r.jobs[id]
	if !ok || j.Status != domain.JobStatusPending {
		return domain.ErrInvalidTransition
	}
	j.Status = status
	j.ReviewComments = comments
	j.ReviewedBy = &reviewerID
	return nil
}

func (r *fakeJobRepo) SetActive(_ context.Context, id int64, active bool) error {
	j, ok := r.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.IsActive = active
	return nil
}

func (r *fakeJobRepo) DeactivateOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, j := range r.jobs {
		if j.IsActive && j.CreatedAt.Before(cutoff) {
			j.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeJobRepo) DeactivateByStatus(_ context.Context, status domain.JobStatus) (int64, error) {
	var n int64
	for _, j := range r.jobs {
		if j.IsActive && j.Status == status {
			j.IsActive = false
			n++
		}
	}
	return n, nil
}

type fakeApplicationRepo struct {
	apps   map[int64]*domain.Application
	nextID int64
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[int64]*domain.Application{}}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.nextID++
	app.ID = r.nextID
	app.SubmittedAt = time.Now()
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	if a, ok := r.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeApplicationRepo) ListByJob(_ context.Context, jobID int64) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByEmail(_ context.Context, email string) ([]*domain.ApplicationWithJob, error) {
	var out []*domain.ApplicationWithJob
	for _, a := range r.apps {
		if strings.EqualFold(a.Email, email) {
			out = append(out, &domain.ApplicationWithJob{Application: *a})
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus, notes string) error {
	a, ok := r.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	a.Notes = notes
	return nil
}

type fakeAnalyticsRepo struct {
	views     map[int64]int
	clicks    map[int64]int
	analytics map[int64]*domain.JobAnalytics
	scores    map[int64]int
	postedBy  int64
	since     time.Time
	perf      []*domain.JobPerformance
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{
		views:     map[int64]int{},
		clicks:    map[int64]int{},
		analytics: map[int64]*domain.JobAnalytics{},
		scores:    map[int64]int{},
	}
}

func (r *fakeAnalyticsRepo) IncrementViews(_ context.Context, jobID int64) error {
	r.views[jobID]++
	return nil
}

func (r *fakeAnalyticsRepo) IncrementApplyClicks(_ context.Context, jobID int64) error {
	r.clicks[jobID]++
	return nil
}

func (r *fakeAnalyticsRepo) Get(_ context.Context, jobID int64) (*domain.JobAnalytics, error) {
	return r.analytics[jobID], nil
}

func (r *fakeAnalyticsRepo) SaveAIScore(_ context.Context, jobID int64, score int, _ string) error {
	r.scores[jobID] = score
	return nil
}

func (r *fakeAnalyticsRepo) Stats(_ context.Context) (*domain.AdminStats, error) {
	return &domain.AdminStats{TotalJobs: 3, ActiveJobs: 2, PendingJobs: 1}, nil
}

func (r *fakeAnalyticsRepo) Performance(_ context.Context, postedBy int64, since time.Time) ([]*domain.JobPerformance, error) {
	r.postedBy = postedBy
	r.since = since
	return r.perf, nil
}

type fakeJobCache struct {
	pages   map[string]*domain.JobPage
	flushes int
}

func newFakeJobCache() *fakeJobCache {
	return &fakeJobCache{pages: map[string]*domain.JobPage{}}
}

func (c *fakeJobCache) Get(_ context.Context, key string) (*domain.JobPage, bool) {
	p, ok := c.pages[key]
	return p, ok
}

func (c *fakeJobCache) Set(_ context.Context, key string, page *domain.JobPage) error {
	c.pages[key] = page
	return nil
}

func (c *fakeJobCache) Flush(_ context.Context) error {
	c.pages = map[string]*domain.JobPage{}
	c.flushes++
	return nil
}

type recordingNotifier struct {
	submitted []*domain.Application
	recruiter *domain.User
	changed   []*domain.Application
	contacts  []*domain.ContactSubmission
}

func (n *recordingNotifier) ApplicationSubmitted(_ *domain.Job, app *domain.Application, recruiter *domain.User) {
	n.submitted = append(n.submitted, app)
	n.recruiter = recruiter
}

func (n *recordingNotifier) ApplicationStatusChanged(_ *domain.Job, app *domain.Application) {
	n.changed = append(n.changed, app)
}

func (n *recordingNotifier) ContactSubmitted(s *domain.ContactSubmission) {
	n.contacts = append(n.contacts, s)
}

type fakeResumeStore struct {
	stored []string
}

func (s *fakeResumeStore) Store(_ context.Context, filename string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	s.stored = append(s.stored, filename)
	return "https://files.example.com/" + filename, nil
}

func liveJob(id, postedBy int64) *domain.Job {
	return &domain.Job{
		ID:          id,
		Title:       "Backend Engineer",
		Location:    "Remote",
		Type:        domain.JobTypeRemote,
		Description: "Build and run the job board backend.",
		Skills:      []string{"go"},
		PostedBy:    postedBy,
		Status:      domain.JobStatusApproved,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
}

func recruiter(id int64) *domain.AuthInfo {
	return &domain.AuthInfo{UserID: id, Role: domain.RoleRecruiter, SessionID: "s"}
}

func admin(id int64) *domain.AuthInfo {
	return &domain.AuthInfo{UserID: id, Role: domain.RoleAdmin, SessionID: "s"}
}

func candidate(id int64) *domain.AuthInfo {
	return &domain.AuthInfo{UserID: id, Role: domain.RoleCandidate, SessionID: "s"}
}
