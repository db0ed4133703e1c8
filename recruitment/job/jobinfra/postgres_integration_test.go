//go:build integration

package jobinfra_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/testx"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/Abraxas-365/vieclam/recruitment/job/jobinfra"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDB    *sqlx.DB
	testRedis *redis.Client
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	env, err := testx.NewEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "skipping integration tests:", err)
		os.Exit(0)
	}

	testDB, err = env.Postgres(ctx)
	if err == nil {
		testRedis, err = env.Redis(ctx)
	}
	if err != nil {
		env.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	code := m.Run()
	env.Close()
	os.Exit(code)
}

func seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, testx.Truncate(ctx, testDB, "saved_jobs", "applications", "job_skills", "jobs", "skills", "company_members", "companies", "users"))

	_, err := testDB.ExecContext(ctx, `
		INSERT INTO users (id, email, role) VALUES ('emp-1', 'hr@acme.vn', 'employer'), ('cand-1', 'an@mail.vn', 'candidate');
		INSERT INTO companies (id, name, slug, is_verified) VALUES ('co-1', 'Acme Việt Nam', 'acme-viet-nam', TRUE), ('co-2', 'Beta', 'beta', FALSE);
		INSERT INTO company_members (company_id, user_id, role) VALUES ('co-1', 'emp-1', 'owner');
		INSERT INTO skills (id, name, category) VALUES ('go', 'Go', 'backend'), ('sql', 'SQL', 'data'), ('react', 'React', 'frontend');`)
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }

func newJob(id, slug string, mutate ...func(j *job.Job)) *job.Job {
	now := time.Now().UTC().Truncate(time.Microsecond)
	j := &job.Job{
		ID:              kernel.JobID(id),
		Title:           slug,
		Slug:            slug,
		Description:     "Mô tả công việc",
		Currency:        kernel.CurrencyVND,
		EmploymentType:  job.EmploymentFullTime,
		ExperienceLevel: job.ExperienceJunior,
		Location:        "Hà Nội",
		CompanyID:       "co-1",
		PostedBy:        "emp-1",
		Status:          job.JobStatusPublished,
		PublishedAt:     &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, m := range mutate {
		m(j)
	}
	return j
}

func TestCreateAndLoadListing(t *testing.T) {
	seed(t)
	ctx := context.Background()
	repo := jobinfra.NewPostgresJobRepository(testDB)

	j := newJob("job-1", "lap-trinh-vien-go", func(j *job.Job) {
		j.SalaryMin = ptr(int64(20_000_000))
		j.SalaryMax = ptr(int64(30_000_000))
	})
	require.NoError(t, repo.Create(ctx, j))
	require.NoError(t, repo.AddSkills(ctx, j.ID, []job.SkillAssignment{
		{SkillID: "go", IsRequired: true},
		{SkillID: "sql"},
	}))

	listing, err := repo.GetListingBySlug(ctx, "lap-trinh-vien-go")
	require.NoError(t, err)
	assert.Equal(t, "Acme Việt Nam", listing.Company.Name)
	assert.True(t, listing.Company.IsVerified)
	require.Len(t, listing.Skills, 2)
	assert.Equal(t, kernel.SkillID("go"), listing.Skills[0].SkillID)
	assert.True(t, listing.Skills[0].IsRequired)
	assert.Equal(t, int64(30_000_000), *listing.Job.SalaryMax)

	exists, err := repo.SlugExists(ctx, "lap-trinh-vien-go", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "lap-trinh-vien-go", j.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreate_ConstraintErrors(t *testing.T) {
	seed(t)
	ctx := context.Background()
	repo := jobinfra.NewPostgresJobRepository(testDB)

	require.NoError(t, repo.Create(ctx, newJob("job-1", "dev")))

	err := repo.Create(ctx, newJob("job-2", "dev"))
	assert.True(t, errx.IsCode(err, job.CodeSlugTaken))

	err = repo.Create(ctx, newJob("job-3", "dev-2", func(j *job.Job) {
		j.SalaryMin = ptr(int64(10))
		j.SalaryMax = ptr(int64(5))
	}))
	assert.True(t, errx.IsCode(err, job.CodeInvalidSalaryRange))

	err = repo.Create(ctx, newJob("job-4", "dev-3", func(j *job.Job) { j.CompanyID = "missing" }))
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestUpdate_ReplacesSkills(t *testing.T) {
	seed(t)
	ctx := context.Background()
	repo := jobinfra.NewPostgresJobRepository(testDB)

	j := newJob("job-1", "dev")
	require.NoError(t, repo.Create(ctx, j))
	require.NoError(t, repo.AddSkills(ctx, j.ID, []job.SkillAssignment{{SkillID: "go"}, {SkillID: "sql"}}))

	j.Title = "Senior dev"
	j.Slug = "senior-dev"
	require.NoError(t, repo.Update(ctx, j, &[]job.SkillAssignment{{SkillID: "react", IsRequired: true}}))

	listing, err := repo.GetListing(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "senior-dev", listing.Job.Slug)
	require.Len(t, listing.Skills, 1)
	assert.Equal(t, kernel.SkillID("react"), listing.Skills[0].SkillID)

	// Nil skills leave the set alone.
	require.NoError(t, repo.Update(ctx, j, nil))
	listing, err = repo.GetListing(ctx, j.ID)
	require.NoError(t, err)
	assert.Len(t, listing.Skills, 1)

	// An unknown skill rolls back the whole update.
	j.Title = "Rolled back"
	err = repo.Update(ctx, j, &[]job.SkillAssignment{{SkillID: "cobol"}})
	require.Error(t, err)
	stored, err := repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior dev", stored.Title)
}

func TestSearch(t *testing.T) {
	seed(t)
	ctx := context.Background()
	repo := jobinfra.NewPostgresJobRepository(testDB)
	now := time.Now().UTC()

	fixtures := []*job.Job{
		newJob("job-go", "go-backend", func(j *job.Job) {
			j.Title = "Golang Backend 100%"
			j.SalaryMin, j.SalaryMax = ptr(int64(25_000_000)), ptr(int64(40_000_000))
			j.IsRemote = true
		}),
		newJob("job-react", "react-frontend", func(j *job.Job) {
			j.Title = "React Frontend"
			j.Location = "Hồ Chí Minh"
			j.SalaryMin, j.SalaryMax = ptr(int64(15_000_000)), ptr(int64(20_000_000))
		}),
		newJob("job-nosalary", "thoa-thuan", func(j *job.Job) { j.Title = "Lương thỏa thuận" }),
		newJob("job-draft", "draft", func(j *job.Job) { j.Status = job.JobStatusDraft }),
		newJob("job-expired", "expired", func(j *job.Job) {
			past := now.Add(-time.Hour)
			j.ExpiresAt = &past
		}),
		newJob("job-other", "other-co", func(j *job.Job) { j.CompanyID = "co-2" }),
	}
	for _, j := range fixtures {
		require.NoError(t, repo.Create(ctx, j))
	}
	require.NoError(t, repo.AddSkills(ctx, "job-go", []job.SkillAssignment{{SkillID: "go"}, {SkillID: "sql"}}))
	require.NoError(t, repo.AddSkills(ctx, "job-react", []job.SkillAssignment{{SkillID: "react"}}))

	search := func(f job.SearchFilter, s job.Sort, p kernel.PaginationOptions) *kernel.Paginated[job.Listing] {
		t.Helper()
		page, err := repo.Search(ctx, job.PublicFilter(f, now), s, p)
		require.NoError(t, err)
		return page
	}
	ids := func(page *kernel.Paginated[job.Listing]) []kernel.JobID {
		out := make([]kernel.JobID, len(page.Items))
		for i, l := range page.Items {
			out[i] = l.Job.ID
		}
		return out
	}
	firstPage := kernel.NewPaginationOptions(1, 20)

	t.Run("public visibility", func(t *testing.T) {
		page := search(job.SearchFilter{}, job.DefaultSort, firstPage)
		assert.ElementsMatch(t, []kernel.JobID{"job-go", "job-react", "job-nosalary", "job-other"}, ids(page))
		assert.Equal(t, 4, page.Page.Total)
	})

	t.Run("skills match any", func(t *testing.T) {
		page := search(job.SearchFilter{SkillIDs: []kernel.SkillID{"sql", "react"}}, job.DefaultSort, firstPage)
		assert.ElementsMatch(t, []kernel.JobID{"job-go", "job-react"}, ids(page))
		// Matching on one skill still returns every skill of the job.
		for _, l := range page.Items {
			if l.Job.ID == "job-go" {
				assert.Len(t, l.Skills, 2)
			}
		}
	})

	t.Run("salary bounds skip unknown salaries", func(t *testing.T) {
		page := search(job.SearchFilter{SalaryMin: ptr(int64(15_000_000))}, job.DefaultSort, firstPage)
		assert.ElementsMatch(t, []kernel.JobID{"job-go", "job-react"}, ids(page))

		page = search(job.SearchFilter{SalaryMax: ptr(int64(30_000_000))}, job.DefaultSort, firstPage)
		assert.Equal(t, []kernel.JobID{"job-react"}, ids(page))
	})

	t.Run("text query escapes wildcards", func(t *testing.T) {
		page := search(job.SearchFilter{Query: "100%"}, job.DefaultSort, firstPage)
		assert.Equal(t, []kernel.JobID{"job-go"}, ids(page))

		page = search(job.SearchFilter{Query: "%"}, job.DefaultSort, firstPage)
		assert.Equal(t, []kernel.JobID{"job-go"}, ids(page))
	})

	t.Run("location and remote", func(t *testing.T) {
		page := search(job.SearchFilter{Location: "minh"}, job.DefaultSort, firstPage)
		assert.Equal(t, []kernel.JobID{"job-react"}, ids(page))

		page = search(job.SearchFilter{IsRemote: ptr(true)}, job.DefaultSort, firstPage)
		assert.Equal(t, []kernel.JobID{"job-go"}, ids(page))
	})

	t.Run("sort puts nulls last", func(t *testing.T) {
		page := search(job.SearchFilter{CompanyID: ptr(kernel.CompanyID("co-1"))},
			job.Sort{Field: job.SortBySalaryMax, Order: job.SortDesc}, firstPage)
		assert.Equal(t, []kernel.JobID{"job-go", "job-react", "job-nosalary"}, ids(page))

		page = search(job.SearchFilter{CompanyID: ptr(kernel.CompanyID("co-1"))},
			job.Sort{Field: job.SortBySalaryMax, Order: job.SortAsc}, firstPage)
		assert.Equal(t, []kernel.JobID{"job-react", "job-go", "job-nosalary"}, ids(page))
	})

	t.Run("pagination total matches filter", func(t *testing.T) {
		page := search(job.SearchFilter{}, job.DefaultSort, kernel.NewPaginationOptions(2, 3))
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 4, page.Page.Total)
		assert.False(t, page.Page.HasNext)
		assert.True(t, page.Page.HasPrevious)

		page = search(job.SearchFilter{}, job.DefaultSort, kernel.NewPaginationOptions(9, 3))
		assert.Empty(t, page.Items)
		assert.Equal(t, 4, page.Page.Total)
	})
}

func TestDelete(t *testing.T) {
	seed(t)
	ctx := context.Background()
	repo := jobinfra.NewPostgresJobRepository(testDB)

	require.NoError(t, repo.Create(ctx, newJob("job-1", "one")))
	require.NoError(t, repo.AddSkills(ctx, "job-1", []job.SkillAssignment{{SkillID: "go"}}))
	_, err := testDB.ExecContext(ctx, `INSERT INTO saved_jobs (user_id, job_id) VALUES ('cand-1', 'job-1')`)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "job-1"))
	_, err = repo.GetByID(ctx, "job-1")
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))

	var leftovers int
	require.NoError(t, testDB.GetContext(ctx, &leftovers,
		`SELECT (SELECT COUNT(*) FROM job_skills WHERE job_id = 'job-1') + (SELECT COUNT(*) FROM saved_jobs WHERE job_id = 'job-1')`))
	assert.Zero(t, leftovers)

	require.NoError(t, repo.Create(ctx, newJob("job-2", "two", func(j *job.Job) { j.ApplicationCount = 1 })))
	err = repo.Delete(ctx, "job-2")
	assert.True(t, errx.IsCode(err, job.CodeJobHasApplications))

	err = repo.Delete(ctx, "missing")
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))
}

func TestViewerStateAndExpiry(t *testing.T) {
	seed(t)
	ctx := context.Background()
	repo := jobinfra.NewPostgresJobRepository(testDB)
	now := time.Now().UTC()

	past := now.Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, newJob("job-1", "one", func(j *job.Job) { j.ExpiresAt = &past })))
	_, err := testDB.ExecContext(ctx, `
		INSERT INTO saved_jobs (user_id, job_id) VALUES ('cand-1', 'job-1');
		INSERT INTO applications (id, job_id, candidate_id, status) VALUES ('app-1', 'job-1', 'cand-1', 'withdrawn');`)
	require.NoError(t, err)

	state, err := repo.ViewerState(ctx, "job-1", "cand-1")
	require.NoError(t, err)
	assert.True(t, state.IsSaved)
	assert.False(t, state.HasApplied)

	require.NoError(t, repo.IncrementViewCount(ctx, "job-1"))
	j, err := repo.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), j.ViewCount)

	slugs, err := repo.ExpireDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, slugs)

	slugs, err = repo.ExpireDue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestGetStamp(t *testing.T) {
	seed(t)
	ctx := context.Background()
	repo := jobinfra.NewPostgresJobRepository(testDB)

	j := newJob("job-1", "dev", func(j *job.Job) {
		j.SalaryMin = ptr(int64(10_000_000))
		j.SalaryMax = ptr(int64(20_000_000))
	})
	require.NoError(t, repo.Create(ctx, j))

	stamp, err := repo.GetStamp(ctx, j.ID)
	require.NoError(t, err)
	assert.True(t, stamp.UpdatedAt.Equal(j.UpdatedAt))
	assert.Zero(t, stamp.ApplicationCount)

	_, err = testDB.ExecContext(ctx, `UPDATE jobs SET application_count = 3 WHERE id = 'job-1'`)
	require.NoError(t, err)
	require.NoError(t, repo.IncrementViewCount(ctx, j.ID))

	stamp, err = repo.GetStamp(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stamp.ApplicationCount)
	assert.Equal(t, int64(1), stamp.ViewCount)
	assert.True(t, stamp.UpdatedAt.Equal(j.UpdatedAt), "counters do not bump the version")

	// Clearing the salary writes NULLs and moves the version.
	j.SalaryMin, j.SalaryMax = nil, nil
	j.UpdatedAt = j.UpdatedAt.Add(time.Second)
	require.NoError(t, repo.Update(ctx, j, nil))

	stored, err := repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.SalaryMin)
	assert.Nil(t, stored.SalaryMax)

	stamp, err = repo.GetStamp(ctx, j.ID)
	require.NoError(t, err)
	assert.True(t, stamp.UpdatedAt.Equal(j.UpdatedAt))

	_, err = repo.GetStamp(ctx, "missing")
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))
}

func TestRedisJobCache(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testRedis.FlushDB(ctx).Err())
	cache := jobinfra.NewRedisJobCache(testRedis, time.Minute)

	miss, err := cache.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, miss)

	listing := &job.Listing{
		Job:    *newJob("job-1", "ky-su"),
		Skills: []job.JobSkill{{SkillID: "go", Name: "Go"}},
	}
	require.NoError(t, cache.Set(ctx, listing))

	hit, err := cache.Get(ctx, "ky-su")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, listing.Job.ID, hit.Job.ID)
	assert.Equal(t, listing.Skills, hit.Skills)

	require.NoError(t, cache.Invalidate(ctx, "ky-su", "ky-su", ""))
	miss, err = cache.Get(ctx, "ky-su")
	require.NoError(t, err)
	assert.Nil(t, miss)
}
