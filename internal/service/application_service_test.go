package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantahire/internal/domain"
	"vantahire/internal/domain/dto"
)

type applicationFixture struct {
	svc       ApplicationService
	apps      *fakeApplicationRepo
	jobs      *fakeJobRepo
	analytics *fakeAnalyticsRepo
	notifier  *recordingNotifier
	resumes   *fakeResumeStore
}

func newApplicationFixture(jobs ...*domain.Job) *applicationFixture {
	f := &applicationFixture{
		apps:      newFakeApplicationRepo(),
		jobs:      newFakeJobRepo(jobs...),
		analytics: newFakeAnalyticsRepo(),
		notifier:  &recordingNotifier{},
		resumes:   &fakeResumeStore{},
	}
	users := newFakeUserRepo(
		&domain.User{ID: 7, Username: "recruiter@example.com", Role: domain.RoleRecruiter},
		&domain.User{ID: 20, Username: "ann@example.com", Role: domain.RoleCandidate},
	)
	f.svc = NewApplicationService(f.apps, f.jobs, users, f.analytics, f.resumes, f.notifier)
	return f
}

func applicationRequest() *dto.ApplicationRequest {
	return &dto.ApplicationRequest{
		Name:  "Ann Lee",
		Email: "ann@example.com",
		Phone: "+1 555 123 4567",
	}
}

func pdfResume() *ResumeFile {
	data := []byte("%PDF-1.4 resume")
	return &ResumeFile{Filename: "cv.pdf", Size: int64(len(data)), ContentType: "application/pdf", Body: bytes.NewReader(data)}
}

func TestApplyStoresResumeAndNotifies(t *testing.T) {
	f := newApplicationFixture(liveJob(1, 7))

	app, err := f.svc.Apply(context.Background(), 1, applicationRequest(), pdfResume())
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, "https://files.example.com/cv.pdf", app.ResumeURL)
	assert.Equal(t, 1, f.analytics.clicks[1])
	require.Len(t, f.notifier.submitted, 1)
	require.NotNil(t, f.notifier.recruiter)
	assert.Equal(t, "recruiter@example.com", f.notifier.recruiter.Username)
}

func TestApplyAcceptsResumeURL(t *testing.T) {
	f := newApplicationFixture(liveJob(1, 7))
	req := applicationRequest()
	req.ResumeURL = "https://cdn.example.com/cv.pdf"

	app, err := f.svc.Apply(context.Background(), 1, req, nil)
	require.NoError(t, err)
	assert.Equal(t, req.ResumeURL, app.ResumeURL)
	assert.Empty(t, f.resumes.stored)
}

func TestApplyRejections(t *testing.T) {
	inactive := liveJob(2, 7)
	inactive.IsActive = false
	f := newApplicationFixture(liveJob(1, 7), inactive)
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, 1, applicationRequest(), nil)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "resume", vErr.Field)

	_, err = f.svc.Apply(ctx, 99, applicationRequest(), pdfResume())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Apply(ctx, 2, applicationRequest(), pdfResume())
	assert.ErrorIs(t, err, domain.ErrJobInactive)

	bad := applicationRequest()
	bad.Email = "not-an-email"
	_, err = f.svc.Apply(ctx, 1, bad, pdfResume())
	var errs domain.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "email", errs[0].Field)

	notPDF := &ResumeFile{Filename: "cv.doc", Size: 4, ContentType: "application/pdf", Body: bytes.NewReader([]byte("DOC!"))}
	_, err = f.svc.Apply(ctx, 1, applicationRequest(), notPDF)
	require.ErrorAs(t, err, &vErr)

	assert.Empty(t, f.apps.apps)
	assert.Empty(t, f.notifier.submitted)
}

func TestApplicationStatusUpdates(t *testing.T) {
	f := newApplicationFixture(liveJob(1, 7))
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, 1, applicationRequest(), pdfResume())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, recruiter(8), app.ID, &dto.ApplicationStatusRequest{Status: "hired"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, recruiter(7), app.ID, &dto.ApplicationStatusRequest{Status: "archived"})
	var errs domain.ValidationErrors
	assert.ErrorAs(t, err, &errs)

	updated, err := f.svc.UpdateStatus(ctx, recruiter(7), app.ID, &dto.ApplicationStatusRequest{Status: "shortlisted", Notes: "strong"})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationShortlisted, updated.Status)
	assert.Len(t, f.notifier.changed, 1)

	// same status again does not re-notify
	_, err = f.svc.UpdateStatus(ctx, admin(1), app.ID, &dto.ApplicationStatusRequest{Status: "shortlisted"})
	require.NoError(t, err)
	assert.Len(t, f.notifier.changed, 1)

	_, err = f.svc.UpdateStatus(ctx, admin(1), 404, &dto.ApplicationStatusRequest{Status: "hired"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationListings(t *testing.T) {
	f := newApplicationFixture(liveJob(1, 7))
	ctx := context.Background()
	_, err := f.svc.Apply(ctx, 1, applicationRequest(), pdfResume())
	require.NoError(t, err)

	_, err = f.svc.ListForJob(ctx, recruiter(8), 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	apps, err := f.svc.ListForJob(ctx, recruiter(7), 1)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	mine, err := f.svc.ListMine(ctx, candidate(20))
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
