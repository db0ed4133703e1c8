package job_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTo_Matrix(t *testing.T) {
	all := []job.JobStatus{
		job.JobStatusDraft, job.JobStatusPublished, job.JobStatusPaused,
		job.JobStatusClosed, job.JobStatusExpired,
	}
	allowed := map[job.JobStatus][]job.JobStatus{
		job.JobStatusDraft:     {job.JobStatusPublished, job.JobStatusClosed},
		job.JobStatusPublished: {job.JobStatusPaused, job.JobStatusClosed, job.JobStatusExpired},
		job.JobStatusPaused:    {job.JobStatusPublished, job.JobStatusClosed},
		job.JobStatusClosed:    {job.JobStatusPublished},
		job.JobStatusExpired:   {job.JobStatusPublished},
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, from := range all {
		for _, to := range all {
			j := &job.Job{Status: from}
			err := j.TransitionTo(to, now)

			want := from == to
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			if want {
				assert.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, j.Status)
			} else {
				assert.True(t, errx.IsCode(err, job.CodeInvalidStatusTransition), "%s -> %s", from, to)
				assert.Equal(t, from, j.Status)
			}
		}
	}
}

func TestTransitionTo_PublishedAtSetOnce(t *testing.T) {
	first := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	j := &job.Job{Status: job.JobStatusDraft}
	require.NoError(t, j.TransitionTo(job.JobStatusPublished, first))
	require.NotNil(t, j.PublishedAt)
	assert.Equal(t, first, *j.PublishedAt)

	require.NoError(t, j.TransitionTo(job.JobStatusPublished, later))
	assert.Equal(t, first, *j.PublishedAt)

	require.NoError(t, j.TransitionTo(job.JobStatusPaused, later))
	require.NoError(t, j.TransitionTo(job.JobStatusPublished, later))
	assert.Equal(t, first, *j.PublishedAt)
}

func TestTransitionTo_UnknownStatus(t *testing.T) {
	j := &job.Job{Status: job.JobStatusDraft}
	err := j.TransitionTo("archived", time.Now())
	assert.True(t, errx.IsCode(err, job.CodeInvalidStatusTransition))
}

func TestParseSort(t *testing.T) {
	s, err := job.ParseSort("", "")
	require.NoError(t, err)
	assert.Equal(t, job.DefaultSort, s)

	s, err = job.ParseSort("salary_min", "ASC")
	require.NoError(t, err)
	assert.Equal(t, job.Sort{Field: job.SortBySalaryMin, Order: job.SortAsc}, s)

	_, err = job.ParseSort("id; DROP TABLE jobs", "")
	assert.True(t, errx.IsCode(err, job.CodeInvalidSort))

	_, err = job.ParseSort("title", "sideways")
	assert.True(t, errx.IsCode(err, job.CodeInvalidSort))
}

func TestCountMatchedSkills(t *testing.T) {
	skills := []job.JobSkill{{SkillID: "go"}, {SkillID: "sql"}, {SkillID: "k8s"}}

	assert.Equal(t, 2, job.CountMatchedSkills(skills, []kernel.SkillID{"go", "k8s", "rust"}))
	assert.Equal(t, 0, job.CountMatchedSkills(skills, nil))
	assert.Equal(t, 0, job.CountMatchedSkills(nil, []kernel.SkillID{"go"}))
}

func TestSearchJobsRequest_ToFilter(t *testing.T) {
	remote := true
	salaryMin := int64(10_000_000)
	req := job.SearchJobsRequest{
		Query:           "  golang ",
		EmploymentType:  "full_time",
		ExperienceLevel: "senior",
		CompanyID:       "co-1",
		IsRemote:        &remote,
		SalaryMin:       &salaryMin,
		Skills:          []string{"go", " go ", "", "sql"},
	}

	f := req.ToFilter()
	assert.Equal(t, "golang", f.Query)
	assert.Equal(t, job.EmploymentFullTime, *f.EmploymentType)
	assert.Equal(t, job.ExperienceSenior, *f.ExperienceLevel)
	assert.Equal(t, kernel.CompanyID("co-1"), *f.CompanyID)
	assert.Equal(t, []kernel.SkillID{"go", "sql"}, f.SkillIDs)
	assert.Nil(t, f.Statuses)

	now := time.Now()
	pub := job.PublicFilter(f, now)
	assert.Equal(t, []job.JobStatus{job.JobStatusPublished}, pub.Statuses)
	assert.Equal(t, now, *pub.ActiveAt)
}

func TestUniqueAssignments(t *testing.T) {
	got := job.UniqueAssignments([]job.SkillAssignment{
		{SkillID: "go", IsRequired: true},
		{SkillID: "sql"},
		{SkillID: "go", IsRequired: false},
	})
	assert.Equal(t, []job.SkillAssignment{{SkillID: "go"}, {SkillID: "sql"}}, got)
}
