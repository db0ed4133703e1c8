package applicationsrv_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/application"
	"github.com/Abraxas-365/vieclam/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mocks
// ============================================================================

type mockRepo struct {
	ApplyFunc           func(ctx context.Context, app *application.Application) error
	GetByIDFunc         func(ctx context.Context, id kernel.ApplicationID) (*application.Application, error)
	UpdateStatusFunc    func(ctx context.Context, app *application.Application) error
	ListByCandidateFunc func(ctx context.Context, candidateID kernel.UserID, p kernel.PaginationOptions) (*kernel.Paginated[application.ApplicationWithJob], error)
	ListByJobFunc       func(ctx context.Context, jobID kernel.JobID, status application.ApplicationStatus, p kernel.PaginationOptions) (*kernel.Paginated[application.ApplicationWithCandidate], error)
}

func (m *mockRepo) Apply(ctx context.Context, app *application.Application) error {
	return m.ApplyFunc(ctx, app)
}

func (m *mockRepo) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, app *application.Application) error {
	return m.UpdateStatusFunc(ctx, app)
}

func (m *mockRepo) ListByCandidate(ctx context.Context, candidateID kernel.UserID, p kernel.PaginationOptions) (*kernel.Paginated[application.ApplicationWithJob], error) {
	return m.ListByCandidateFunc(ctx, candidateID, p)
}

func (m *mockRepo) ListByJob(ctx context.Context, jobID kernel.JobID, status application.ApplicationStatus, p kernel.PaginationOptions) (*kernel.Paginated[application.ApplicationWithCandidate], error) {
	return m.ListByJobFunc(ctx, jobID, status, p)
}

// jobOwners maps job IDs to their companies
type jobOwners map[kernel.JobID]kernel.CompanyID

func (j jobOwners) CompanyOf(_ context.Context, id kernel.JobID) (kernel.CompanyID, error) {
	companyID, ok := j[id]
	if !ok {
		return "", job.ErrJobNotFound()
	}
	return companyID, nil
}

type members map[kernel.UserID]kernel.CompanyID

func (m members) CanManage(_ context.Context, actor *kernel.Actor, companyID kernel.CompanyID) (bool, error) {
	return actor.IsAdmin() || m[actor.UserID] == companyID, nil
}

var (
	candidate = &kernel.Actor{UserID: "cand-1", Role: kernel.RoleCandidate}
	other     = &kernel.Actor{UserID: "cand-2", Role: kernel.RoleCandidate}
	employer  = &kernel.Actor{UserID: "emp-1", Role: kernel.RoleEmployer}
	outsider  = &kernel.Actor{UserID: "emp-2", Role: kernel.RoleEmployer}
)

func newService(repo *mockRepo) *applicationsrv.ApplicationService {
	return applicationsrv.NewApplicationService(
		repo,
		jobOwners{"job-1": "co-1"},
		members{"emp-1": "co-1", "emp-2": "co-2"},
	)
}

func stored(status application.ApplicationStatus) *application.Application {
	return &application.Application{
		ID:          "app-1",
		JobID:       "job-1",
		CandidateID: "cand-1",
		Status:      status,
	}
}

// ============================================================================
// Apply
// ============================================================================

func TestApply(t *testing.T) {
	var saved *application.Application
	repo := &mockRepo{ApplyFunc: func(_ context.Context, app *application.Application) error {
		saved = app
		return nil
	}}

	resp, err := newService(repo).Apply(context.Background(), "job-1",
		application.ApplyRequest{CoverLetter: "  Tôi rất quan tâm  "}, candidate)
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, kernel.JobID("job-1"), saved.JobID)
	assert.Equal(t, kernel.UserID("cand-1"), saved.CandidateID)
	assert.Equal(t, application.ApplicationStatusPending, saved.Status)
	assert.Equal(t, "Tôi rất quan tâm", saved.CoverLetter)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.ID, resp.ID)
}

func TestApply_Rejections(t *testing.T) {
	repo := &mockRepo{ApplyFunc: func(context.Context, *application.Application) error {
		t.Fatal("repository must not be reached")
		return nil
	}}
	svc := newService(repo)

	_, err := svc.Apply(context.Background(), "job-1", application.ApplyRequest{}, employer)
	assert.True(t, errx.IsCode(err, application.CodeCandidateOnly))

	_, err = svc.Apply(context.Background(), "job-1", application.ApplyRequest{}, nil)
	assert.True(t, errx.IsCode(err, application.CodeCandidateOnly))

	_, err = svc.Apply(context.Background(), "", application.ApplyRequest{}, candidate)
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))

	_, err = svc.Apply(context.Background(), "job-1",
		application.ApplyRequest{CoverLetter: strings.Repeat("a", 5001)}, candidate)
	assert.True(t, errx.IsCode(err, validatex.CodeInvalidInput))
}

func TestApply_PropagatesStoreErrors(t *testing.T) {
	for _, want := range []*errx.Error{
		application.ErrApplicationAlreadyExists(),
		application.ErrJobNotOpen(),
		job.ErrJobNotFound(),
	} {
		repo := &mockRepo{ApplyFunc: func(context.Context, *application.Application) error { return want }}
		_, err := newService(repo).Apply(context.Background(), "job-1", application.ApplyRequest{}, candidate)
		assert.True(t, errx.IsCode(err, want.Code), want.Code)
	}
}

// ============================================================================
// Withdraw
// ============================================================================

func TestWithdraw(t *testing.T) {
	var updated *application.Application
	repo := &mockRepo{
		GetByIDFunc: func(context.Context, kernel.ApplicationID) (*application.Application, error) {
			return stored(application.ApplicationStatusShortlisted), nil
		},
		UpdateStatusFunc: func(_ context.Context, app *application.Application) error {
			updated = app
			return nil
		},
	}

	resp, err := newService(repo).Withdraw(context.Background(), "app-1", candidate)
	require.NoError(t, err)
	assert.Equal(t, application.ApplicationStatusWithdrawn, resp.Status)
	require.NotNil(t, updated)
	assert.Equal(t, application.ApplicationStatusWithdrawn, updated.Status)
}

func TestWithdraw_OtherCandidateReadsAsMissing(t *testing.T) {
	repo := &mockRepo{GetByIDFunc: func(context.Context, kernel.ApplicationID) (*application.Application, error) {
		return stored(application.ApplicationStatusPending), nil
	}}

	_, err := newService(repo).Withdraw(context.Background(), "app-1", other)
	assert.True(t, errx.IsCode(err, application.CodeApplicationNotFound))
}

func TestWithdraw_ClosedApplication(t *testing.T) {
	for _, status := range []application.ApplicationStatus{
		application.ApplicationStatusHired,
		application.ApplicationStatusRejected,
		application.ApplicationStatusWithdrawn,
	} {
		repo := &mockRepo{GetByIDFunc: func(context.Context, kernel.ApplicationID) (*application.Application, error) {
			return stored(status), nil
		}}

		_, err := newService(repo).Withdraw(context.Background(), "app-1", candidate)
		assert.True(t, errx.IsCode(err, application.CodeCannotWithdraw), status)
	}
}

// ============================================================================
// UpdateStatus
// ============================================================================

func TestUpdateStatus(t *testing.T) {
	var updated *application.Application
	repo := &mockRepo{
		GetByIDFunc: func(context.Context, kernel.ApplicationID) (*application.Application, error) {
			return stored(application.ApplicationStatusPending), nil
		},
		UpdateStatusFunc: func(_ context.Context, app *application.Application) error {
			updated = app
			return nil
		},
	}

	resp, err := newService(repo).UpdateStatus(context.Background(), "app-1",
		application.UpdateStatusRequest{Status: application.ApplicationStatusReviewing}, employer)
	require.NoError(t, err)
	assert.Equal(t, application.ApplicationStatusReviewing, resp.Status)
	assert.Equal(t, application.ApplicationStatusReviewing, updated.Status)
}

func TestUpdateStatus_SkippingStagesIsRejected(t *testing.T) {
	repo := &mockRepo{GetByIDFunc: func(context.Context, kernel.ApplicationID) (*application.Application, error) {
		return stored(application.ApplicationStatusPending), nil
	}}

	_, err := newService(repo).UpdateStatus(context.Background(), "app-1",
		application.UpdateStatusRequest{Status: application.ApplicationStatusHired}, employer)
	assert.True(t, errx.IsCode(err, application.CodeInvalidStatusTransition))
}

func TestUpdateStatus_InvalidTarget(t *testing.T) {
	svc := newService(&mockRepo{})

	_, err := svc.UpdateStatus(context.Background(), "app-1",
		application.UpdateStatusRequest{Status: application.ApplicationStatusWithdrawn}, employer)
	assert.True(t, errx.IsCode(err, validatex.CodeInvalidInput))
}

func TestUpdateStatus_OtherCompanyReadsAsMissing(t *testing.T) {
	repo := &mockRepo{GetByIDFunc: func(context.Context, kernel.ApplicationID) (*application.Application, error) {
		return stored(application.ApplicationStatusPending), nil
	}}

	_, err := newService(repo).UpdateStatus(context.Background(), "app-1",
		application.UpdateStatusRequest{Status: application.ApplicationStatusReviewing}, outsider)
	assert.True(t, errx.IsCode(err, application.CodeApplicationNotFound))
}

func TestUpdateStatus_StoreFailureIsNotMasked(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &mockRepo{
		GetByIDFunc: func(context.Context, kernel.ApplicationID) (*application.Application, error) {
			return stored(application.ApplicationStatusPending), nil
		},
		UpdateStatusFunc: func(context.Context, *application.Application) error { return boom },
	}

	_, err := newService(repo).UpdateStatus(context.Background(), "app-1",
		application.UpdateStatusRequest{Status: application.ApplicationStatusRejected}, employer)
	assert.ErrorIs(t, err, boom)
}

// ============================================================================
// Listings
// ============================================================================

func TestListMine(t *testing.T) {
	repo := &mockRepo{ListByCandidateFunc: func(_ context.Context, candidateID kernel.UserID, p kernel.PaginationOptions) (*kernel.Paginated[application.ApplicationWithJob], error) {
		assert.Equal(t, kernel.UserID("cand-1"), candidateID)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.PageSize)
		return kernel.NewPaginated([]application.ApplicationWithJob{}, p, 0), nil
	}}

	page, err := newService(repo).ListMine(context.Background(), application.ListMyApplicationsRequest{}, candidate)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page.Total)

	_, err = newService(repo).ListMine(context.Background(), application.ListMyApplicationsRequest{}, employer)
	assert.True(t, errx.IsCode(err, application.CodeCandidateOnly))

	_, err = newService(repo).ListMine(context.Background(), application.ListMyApplicationsRequest{Limit: 101}, candidate)
	assert.True(t, errx.IsCode(err, validatex.CodeInvalidInput))
}

func TestListForJob(t *testing.T) {
	repo := &mockRepo{ListByJobFunc: func(_ context.Context, jobID kernel.JobID, status application.ApplicationStatus, p kernel.PaginationOptions) (*kernel.Paginated[application.ApplicationWithCandidate], error) {
		assert.Equal(t, kernel.JobID("job-1"), jobID)
		assert.Equal(t, application.ApplicationStatusShortlisted, status)
		assert.Equal(t, 2, p.Page)
		return kernel.NewPaginated([]application.ApplicationWithCandidate{}, p, 25), nil
	}}
	svc := newService(repo)

	page, err := svc.ListForJob(context.Background(), "job-1",
		application.ListJobApplicationsRequest{Status: "shortlisted", Page: 2}, employer)
	require.NoError(t, err)
	assert.Equal(t, 25, page.Page.Total)

	_, err = svc.ListForJob(context.Background(), "job-1", application.ListJobApplicationsRequest{}, outsider)
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))

	_, err = svc.ListForJob(context.Background(), "job-404", application.ListJobApplicationsRequest{}, employer)
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))

	_, err = svc.ListForJob(context.Background(), "job-1",
		application.ListJobApplicationsRequest{Status: "archived"}, employer)
	assert.True(t, errx.IsCode(err, validatex.CodeInvalidInput))
}
