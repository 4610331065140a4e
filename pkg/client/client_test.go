package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantahire/pkg/access"
)

// fakeServer is a minimal job board backend.
type fakeServer struct {
	*httptest.Server
	jobRequests  atomic.Int32
	postRequests atomic.Int32
	postStatus   int
	holdPosts    atomic.Bool
	postGate     chan struct{}
	searchGate   chan struct{}
	heldSearches atomic.Int32
	user         *access.Principal
	mu           sync.Mutex
	lastQuery    string
	lastUpload   map[string]string
	uploadedFile string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{
		postStatus: http.StatusCreated,
		postGate:   make(chan struct{}),
		searchGate: make(chan struct{}),
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/user", func(w http.ResponseWriter, r *http.Request) {
		user := fs.currentUser()
		if _, err := r.Cookie("access_token"); err != nil || user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			return
		}
		writeJSON(w, http.StatusOK, user)
	})
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
			return
		}
		user := &access.Principal{ID: 2, Username: body["username"], Role: access.RoleRecruiter}
		fs.setUser(user)
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "t", Path: "/"})
		writeJSON(w, http.StatusOK, user)
	})
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		fs.setUser(nil)
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		fs.jobRequests.Add(1)
		fs.mu.Lock()
		fs.lastQuery = r.URL.RawQuery
		fs.mu.Unlock()
		if r.URL.Query().Get("search") == "broken" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{not json"))
			return
		}
		if r.URL.Query().Get("search") == "held" {
			// the first request waits for the test; later ones answer at once
			title := "new"
			if fs.heldSearches.Add(1) == 1 {
				<-fs.searchGate
				title = "old"
			}
			writeJSON(w, http.StatusOK, Page{Jobs: []Job{{ID: 1, Title: title}}, Pagination: Pagination{Page: 1, Limit: 10}})
			return
		}
		if r.URL.Query().Get("search") == "none" {
			writeJSON(w, http.StatusOK, map[string]any{"jobs": []Job{}, "pagination": Pagination{Page: 1, Limit: 10}})
			return
		}
		writeJSON(w, http.StatusOK, Page{
			Jobs:       []Job{{ID: 1, Title: "Go Engineer", Skills: []string{"go"}}},
			Pagination: Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
		})
	})
	mux.HandleFunc("POST /api/jobs", func(w http.ResponseWriter, r *http.Request) {
		fs.postRequests.Add(1)
		if fs.holdPosts.Load() {
			<-fs.postGate
		}
		switch fs.status() {
		case http.StatusCreated:
			var job Job
			_ = json.NewDecoder(r.Body).Decode(&job)
			job.ID, job.Status = 9, "pending"
			writeJSON(w, http.StatusCreated, job)
		case http.StatusBadRequest:
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "Validation failed",
				"details": []FieldError{{Field: "description", Message: "description contains unsafe HTML"}},
			})
		default:
			writeJSON(w, fs.postStatus, map[string]string{"error": "boom", "code": "INTERNAL_ERROR"})
		}
	})
	mux.HandleFunc("POST /api/jobs/{id}/applications", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		fs.mu.Lock()
		fs.lastUpload = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fs.lastUpload[k] = v[0]
		}
		if f, h, err := r.FormFile("resume"); err == nil {
			data, _ := io.ReadAll(f)
			fs.uploadedFile = h.Header.Get("Content-Type") + ":" + string(data)
		}
		fs.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "applicationId": 33})
	})
	mux.HandleFunc("GET /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
			return
		}
		writeJSON(w, http.StatusOK, Job{ID: 1, Title: "Go Engineer", Description: strings.Repeat("d", 350)})
	})
	mux.HandleFunc("GET /api/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, map[string]string{})
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) currentUser() *access.Principal {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.user
}

func (fs *fakeServer) setUser(p *access.Principal) {
	fs.mu.Lock()
	fs.user = p
	fs.mu.Unlock()
}

func (fs *fakeServer) status() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.postStatus
}

func (fs *fakeServer) setStatus(code int) {
	fs.mu.Lock()
	fs.postStatus = code
	fs.mu.Unlock()
}

func (fs *fakeServer) query() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lastQuery
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestAPI(t *testing.T, fs *fakeServer, opts ...Option) *API {
	t.Helper()
	api, err := NewAPI(fs.URL, opts...)
	require.NoError(t, err)
	return api
}

func TestSessionLifecycle(t *testing.T) {
	fs := newFakeServer(t)
	cache := NewMemoryCache()
	s := NewSession(newTestAPI(t, fs), cache)
	ctx := context.Background()

	assert.True(t, s.State().Loading)
	assert.Equal(t, access.Loading, s.Check("/recruiter-dashboard").Kind)

	require.NoError(t, s.Init(ctx))
	assert.False(t, s.State().Loading)
	assert.Nil(t, s.State().Principal)
	assert.Equal(t, access.Decision{Kind: access.Redirect, Target: access.AuthPath}, s.Check("/recruiter-dashboard"))

	_, err := s.Login(ctx, "rita", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)

	p, err := s.Login(ctx, "rita", "secret123")
	require.NoError(t, err)
	assert.Equal(t, access.RoleRecruiter, p.Role)
	assert.Equal(t, access.Render, s.Check("/recruiter-dashboard").Kind)
	assert.Equal(t, access.Decision{Kind: access.Redirect, Target: access.RecruiterHub}, s.Check("/admin"))

	cache.Set("jobs?page=1", Page{})
	require.NoError(t, s.Logout(ctx))
	assert.Nil(t, s.State().Principal)
	assert.Zero(t, cache.Len())
}

func TestSessionInitWithExistingCookie(t *testing.T) {
	fs := newFakeServer(t)
	api := newTestAPI(t, fs)
	first := NewSession(api, nil)
	_, err := first.Login(context.Background(), "cara", "secret123")
	require.NoError(t, err)
	fs.setUser(&access.Principal{ID: 5, Username: "cara", Role: access.RoleCandidate})

	s := NewSession(api, nil)
	require.NoError(t, s.Init(context.Background()))
	require.NotNil(t, s.State().Principal)
	assert.Equal(t, access.Decision{Kind: access.Redirect, Target: access.JobsPath}, s.Check("/recruiter-dashboard"))
}

func TestSearchIsCachedPerCanonicalKey(t *testing.T) {
	fs := newFakeServer(t)
	jobs := NewJobsClient(newTestAPI(t, fs), NewMemoryCache())
	ctx := context.Background()

	p1, err := jobs.Search(ctx, Canonical(Filter{Search: "go", Type: "all"}))
	require.NoError(t, err)
	p2, err := jobs.Search(ctx, Canonical(Filter{Search: " go ", Page: 1}))
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.EqualValues(t, 1, fs.jobRequests.Load())
	assert.Equal(t, "page=1&search=go", fs.query())

	_, err = jobs.Search(ctx, Canonical(Filter{Search: "go", Page: 2}))
	require.NoError(t, err)
	assert.EqualValues(t, 2, fs.jobRequests.Load())
}

func TestSearchSharesConcurrentRequests(t *testing.T) {
	fs := newFakeServer(t)
	jobs := NewJobsClient(newTestAPI(t, fs), NewMemoryCache())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := jobs.Search(context.Background(), Canonical(Filter{Location: "Remote"}))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, fs.jobRequests.Load(), int32(8))
	_, ok := jobs.Cache().Get(Canonical(Filter{Location: "Remote"}).Key())
	assert.True(t, ok)
}

func TestSearchEmptyVersusFailure(t *testing.T) {
	fs := newFakeServer(t)
	jobs := NewJobsClient(newTestAPI(t, fs), NewMemoryCache())
	ctx := context.Background()

	page, err := jobs.Search(ctx, Canonical(Filter{Search: "none"}))
	require.NoError(t, err)
	assert.Empty(t, page.Jobs)
	assert.NotNil(t, page.Jobs)

	_, err = jobs.Search(ctx, Canonical(Filter{Search: "broken"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, IsRetryable(err))
	_, cached := jobs.Cache().Get(Canonical(Filter{Search: "broken"}).Key())
	assert.False(t, cached)
}

func TestSearchDropsResponseThatRacedInvalidation(t *testing.T) {
	fs := newFakeServer(t)
	cache := NewMemoryCache()
	jobs := NewJobsClient(newTestAPI(t, fs), cache)
	q := Canonical(Filter{Search: "held"})

	done := make(chan Page, 1)
	go func() {
		p, err := jobs.Search(context.Background(), q)
		assert.NoError(t, err)
		done <- p
	}()
	require.Eventually(t, func() bool { return fs.heldSearches.Load() == 1 }, time.Second, 5*time.Millisecond)

	cache.InvalidatePrefix(JobsKeyPrefix)
	close(fs.searchGate)
	assert.Equal(t, "old", (<-done).Jobs[0].Title)
	_, cached := cache.Get(q.Key())
	assert.False(t, cached)

	page, err := jobs.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "new", page.Jobs[0].Title)
	assert.EqualValues(t, 2, fs.heldSearches.Load())

	_, cached = cache.Get(q.Key())
	assert.True(t, cached)
}

func TestSearchCancelledCallerDoesNotFailOthers(t *testing.T) {
	fs := newFakeServer(t)
	jobs := NewJobsClient(newTestAPI(t, fs), nil)
	q := Canonical(Filter{Search: "held"})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := jobs.Search(ctx, q)
		first <- err
	}()
	require.Eventually(t, func() bool { return fs.heldSearches.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	// the shared request is still running, so this caller joins it
	second := make(chan error, 1)
	var page Page
	go func() {
		var err error
		page, err = jobs.Search(context.Background(), q)
		second <- err
	}()
	close(fs.searchGate)

	require.NoError(t, <-second)
	assert.Equal(t, "old", page.Jobs[0].Title)
	assert.EqualValues(t, 1, fs.heldSearches.Load())
}

func TestMemoryCacheGeneration(t *testing.T) {
	c := NewMemoryCache()
	gen := c.Generation()
	assert.True(t, c.SetIfCurrent("jobs?page=1", Page{}, gen))

	c.Invalidate("jobs?page=2")
	assert.False(t, c.SetIfCurrent("jobs?page=3", Page{}, gen))
	_, ok := c.Get("jobs?page=3")
	assert.False(t, ok)

	c.InvalidatePrefix("")
	assert.Equal(t, gen+2, c.Generation())
	assert.Zero(t, c.Len())
}

func TestTimeoutIsDistinct(t *testing.T) {
	fs := newFakeServer(t)
	api := newTestAPI(t, fs, WithTimeout(50*time.Millisecond))

	err := api.Do(context.Background(), http.MethodGet, "/api/slow", nil, nil, nil)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsRetryable(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = api.Do(ctx, http.MethodGet, "/api/slow", nil, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsRetryable(err))
}

func TestTransportErrorWhenServerDown(t *testing.T) {
	api, err := NewAPI("http://127.0.0.1:1")
	require.NoError(t, err)
	err = api.Do(context.Background(), http.MethodGet, "/api/jobs", nil, nil, nil)
	assert.True(t, errors.Is(err, ErrTransport) || errors.Is(err, ErrTimeout))
}

func TestGetJobNotFound(t *testing.T) {
	fs := newFakeServer(t)
	jobs := NewJobsClient(newTestAPI(t, fs), nil)

	job, err := jobs.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, NewDetailView(job).Job.Description, 350)

	_, err = jobs.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func validDraft() JobDraft {
	return JobDraft{
		Title:       "Go Engineer",
		Location:    "Remote",
		Type:        "remote",
		Description: "Build the job board backend.",
		Skills:      []string{"go"},
	}
}

func TestPostFormEmptyTitleMakesNoRequest(t *testing.T) {
	fs := newFakeServer(t)
	form := NewPostForm(NewJobsClient(newTestAPI(t, fs), nil))
	form.Draft = validDraft()
	form.Draft.Title = "  "

	_, err := form.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "title required", verr.Message)
	assert.Zero(t, fs.postRequests.Load())
}

func TestPostFormSuccessInvalidatesCache(t *testing.T) {
	fs := newFakeServer(t)
	cache := NewMemoryCache()
	jobs := NewJobsClient(newTestAPI(t, fs), cache)
	ctx := context.Background()

	_, err := jobs.Search(ctx, Canonical(Filter{}))
	require.NoError(t, err)
	cache.Set("other", Page{})

	form := NewPostForm(jobs)
	form.Draft = validDraft()
	res, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.Job.ID)
	assert.Equal(t, "/jobs", res.Navigate)
	assert.Equal(t, JobDraft{}, form.Draft)

	_, ok := cache.Get(Canonical(Filter{}).Key())
	assert.False(t, ok)
	_, ok = cache.Get("other")
	assert.True(t, ok)

	_, err = jobs.Search(ctx, Canonical(Filter{}))
	require.NoError(t, err)
	assert.EqualValues(t, 2, fs.jobRequests.Load())
}

func TestPostFormFailureKeepsDraft(t *testing.T) {
	fs := newFakeServer(t)
	form := NewPostForm(NewJobsClient(newTestAPI(t, fs), nil))
	form.Draft = validDraft()

	fs.setStatus(http.StatusInternalServerError)
	_, err := form.Submit(context.Background())
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, validDraft(), form.Draft)

	fs.setStatus(http.StatusBadRequest)
	_, err = form.Submit(context.Background())
	var sve *ServerValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, "description", sve.Fields[0].Field)
	assert.False(t, IsRetryable(err))
	assert.Equal(t, validDraft(), form.Draft)
}

func TestPostFormConcurrentSubmitsPostOnce(t *testing.T) {
	fs := newFakeServer(t)
	form := NewPostForm(NewJobsClient(newTestAPI(t, fs), nil))
	form.Draft = validDraft()

	var wg sync.WaitGroup
	var ok, busy, invalid atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := form.Submit(context.Background())
			var verr *ValidationError
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrSubmitInFlight):
				busy.Add(1)
			case errors.As(err, &verr):
				// a later submit sees the cleared draft
				invalid.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 8, ok.Load()+busy.Load()+invalid.Load())
	assert.EqualValues(t, 1, fs.postRequests.Load())
}

func TestPostFormRejectsDoubleSubmit(t *testing.T) {
	fs := newFakeServer(t)
	fs.holdPosts.Store(true)
	form := NewPostForm(NewJobsClient(newTestAPI(t, fs), nil))
	form.Draft = validDraft()

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return form.Pending() && fs.postRequests.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(fs.postGate)
	require.NoError(t, <-done)
	assert.EqualValues(t, 1, fs.postRequests.Load())
	assert.False(t, form.Pending())
}

func TestDraftSkills(t *testing.T) {
	var d JobDraft
	require.NoError(t, d.AddSkill(" go "))
	assert.ErrorIs(t, d.AddSkill("go"), ErrDuplicateSkill)
	require.NoError(t, d.AddSkill("Go"))
	var verr *ValidationError
	assert.ErrorAs(t, d.AddSkill("  "), &verr)

	assert.False(t, d.RemoveSkill("GO"))
	assert.True(t, d.RemoveSkill("go"))
	assert.Equal(t, []string{"Go"}, d.Skills)
}

func TestDraftValidationOrder(t *testing.T) {
	d := JobDraft{}
	assert.Equal(t, "title required", d.Validate().Message)

	d.Title = "T"
	assert.Equal(t, "location", d.Validate().Field)

	d.Location = "L"
	d.Type = "freelance"
	assert.Equal(t, "type", d.Validate().Field)

	d.Type = "contract"
	d.Description = "short"
	assert.Equal(t, "description", d.Validate().Field)

	d.Description = "long enough description"
	d.Deadline = "31/12/2024"
	assert.Equal(t, "deadline", d.Validate().Field)

	d.Deadline = "2024-12-31"
	assert.Nil(t, d.Validate())
}

func TestApplyForm(t *testing.T) {
	fs := newFakeServer(t)
	form := NewApplyForm(newTestAPI(t, fs), 1)
	ctx := context.Background()

	form.Draft = ApplicationDraft{Name: "Ann", Email: "ann@example.com", Phone: "5551234567"}
	_, err := form.Submit(ctx)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "resume", verr.Field)

	form.Draft.Email = "ann"
	_, err = form.Submit(ctx)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	form.Draft.Email = "ann@example.com"
	form.Draft.Phone = "12"
	_, err = form.Submit(ctx)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)
	form.Draft.Phone = "5551234567"

	form.Draft.Email = "ann@example.com"
	form.Draft.ResumeName = "cv.pdf"
	form.Draft.Resume = strings.NewReader("%PDF-1.4")
	res, err := form.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(33), res.ApplicationID)
	fs.mu.Lock()
	assert.Equal(t, "Ann", fs.lastUpload["name"])
	assert.Equal(t, "application/pdf:%PDF-1.4", fs.uploadedFile)
	fs.mu.Unlock()
	assert.Equal(t, ApplicationDraft{}, form.Draft)
}
