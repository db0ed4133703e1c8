package jobinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/company"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	constraintSlug        = "jobs_slug_key"
	constraintSalaryRange = "jobs_salary_range_check"
)

// PostgresJobRepository implements job.Repository using PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository
func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

var _ job.Repository = (*PostgresJobRepository)(nil)

// ============================================================================
// Database Models
// ============================================================================

type jobModel struct {
	ID               string     `db:"id"`
	Title            string     `db:"title"`
	Slug             string     `db:"slug"`
	Description      string     `db:"description"`
	Requirements     string     `db:"requirements"`
	Benefits         string     `db:"benefits"`
	SalaryMin        *int64     `db:"salary_min"`
	SalaryMax        *int64     `db:"salary_max"`
	Currency         string     `db:"currency"`
	EmploymentType   string     `db:"employment_type"`
	ExperienceLevel  string     `db:"experience_level"`
	Location         string     `db:"location"`
	IsRemote         bool       `db:"is_remote"`
	CompanyID        string     `db:"company_id"`
	PostedBy         string     `db:"posted_by"`
	Status           string     `db:"status"`
	ApplicationCount int        `db:"application_count"`
	ViewCount        int64      `db:"view_count"`
	ExpiresAt        *time.Time `db:"expires_at"`
	PublishedAt      *time.Time `db:"published_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// listingModel is a job row joined with its company summary
type listingModel struct {
	jobModel
	CompanyName       string `db:"company_name"`
	CompanySlug       string `db:"company_slug"`
	CompanyLogoURL    string `db:"company_logo_url"`
	CompanyLocation   string `db:"company_location"`
	CompanyIsVerified bool   `db:"company_is_verified"`
}

type jobSkillModel struct {
	JobID      string `db:"job_id"`
	SkillID    string `db:"skill_id"`
	Name       string `db:"name"`
	Category   string `db:"category"`
	IsRequired bool   `db:"is_required"`
}

func (m *jobModel) toEntity() *job.Job {
	return &job.Job{
		ID:               kernel.JobID(m.ID),
		Title:            m.Title,
		Slug:             m.Slug,
		Description:      m.Description,
		Requirements:     m.Requirements,
		Benefits:         m.Benefits,
		SalaryMin:        m.SalaryMin,
		SalaryMax:        m.SalaryMax,
		Currency:         kernel.Currency(m.Currency),
		EmploymentType:   job.EmploymentType(m.EmploymentType),
		ExperienceLevel:  job.ExperienceLevel(m.ExperienceLevel),
		Location:         m.Location,
		IsRemote:         m.IsRemote,
		CompanyID:        kernel.CompanyID(m.CompanyID),
		PostedBy:         kernel.UserID(m.PostedBy),
		Status:           job.JobStatus(m.Status),
		ApplicationCount: m.ApplicationCount,
		ViewCount:        m.ViewCount,
		ExpiresAt:        m.ExpiresAt,
		PublishedAt:      m.PublishedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (m *listingModel) toListing() job.Listing {
	return job.Listing{
		Job: *m.jobModel.toEntity(),
		Company: company.Summary{
			ID:         kernel.CompanyID(m.CompanyID),
			Name:       m.CompanyName,
			Slug:       m.CompanySlug,
			LogoURL:    m.CompanyLogoURL,
			Location:   m.CompanyLocation,
			IsVerified: m.CompanyIsVerified,
		},
		Skills: []job.JobSkill{},
	}
}

func fromEntity(j *job.Job) *jobModel {
	return &jobModel{
		ID:               j.ID.String(),
		Title:            j.Title,
		Slug:             j.Slug,
		Description:      j.Description,
		Requirements:     j.Requirements,
		Benefits:         j.Benefits,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		Currency:         string(j.Currency),
		EmploymentType:   string(j.EmploymentType),
		ExperienceLevel:  string(j.ExperienceLevel),
		Location:         j.Location,
		IsRemote:         j.IsRemote,
		CompanyID:        j.CompanyID.String(),
		PostedBy:         j.PostedBy.String(),
		Status:           string(j.Status),
		ApplicationCount: j.ApplicationCount,
		ViewCount:        j.ViewCount,
		ExpiresAt:        j.ExpiresAt,
		PublishedAt:      j.PublishedAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

const jobColumns = `
	j.id, j.title, j.slug, j.description, j.requirements, j.benefits,
	j.salary_min, j.salary_max, j.currency, j.employment_type, j.experience_level,
	j.location, j.is_remote, j.company_id, j.posted_by, j.status,
	j.application_count, j.view_count, j.expires_at, j.published_at,
	j.created_at, j.updated_at`

const listingColumns = jobColumns + `,
	c.name AS company_name, c.slug AS company_slug, c.logo_url AS company_logo_url,
	c.location AS company_location, c.is_verified AS company_is_verified`

// mapWriteError translates constraint violations into domain errors
func mapWriteError(err error, action string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505" && pqErr.Constraint == constraintSlug:
			return job.ErrSlugTaken()
		case pqErr.Code == "23514" && pqErr.Constraint == constraintSalaryRange:
			return job.ErrInvalidSalaryRange()
		case pqErr.Code == "23503": // foreign_key_violation
			return errx.Wrap(err, "invalid reference", errx.TypeValidation).
				WithDetail("constraint", pqErr.Constraint)
		}
	}
	return errx.Wrap(err, "failed to "+action, errx.TypeInternal)
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new job
func (r *PostgresJobRepository) Create(ctx context.Context, j *job.Job) error {
	query := `
		INSERT INTO jobs (
			id, title, slug, description, requirements, benefits,
			salary_min, salary_max, currency, employment_type, experience_level,
			location, is_remote, company_id, posted_by, status,
			application_count, view_count, expires_at, published_at,
			created_at, updated_at
		) VALUES (
			:id, :title, :slug, :description, :requirements, :benefits,
			:salary_min, :salary_max, :currency, :employment_type, :experience_level,
			:location, :is_remote, :company_id, :posted_by, :status,
			:application_count, :view_count, :expires_at, :published_at,
			:created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, fromEntity(j)); err != nil {
		return mapWriteError(err, "create job")
	}
	return nil
}

// AddSkills attaches skills to a job, updating is_required of existing rows
func (r *PostgresJobRepository) AddSkills(ctx context.Context, id kernel.JobID, skills []job.SkillAssignment) error {
	if len(skills) == 0 {
		return nil
	}
	if err := insertSkills(ctx, r.db, id, skills); err != nil {
		return mapWriteError(err, "add job skills")
	}
	return nil
}

func insertSkills(ctx context.Context, ex sqlx.ExecerContext, id kernel.JobID, skills []job.SkillAssignment) error {
	ids := make([]string, len(skills))
	required := make([]bool, len(skills))
	for i, s := range skills {
		ids[i] = s.SkillID.String()
		required[i] = s.IsRequired
	}

	query := `
		INSERT INTO job_skills (job_id, skill_id, is_required)
		SELECT $1, s.skill_id, s.is_required
		FROM UNNEST($2::text[], $3::boolean[]) AS s(skill_id, is_required)
		ON CONFLICT (job_id, skill_id) DO UPDATE SET is_required = EXCLUDED.is_required`

	_, err := ex.ExecContext(ctx, query, id.String(), pq.Array(ids), pq.Array(required))
	return err
}

// Update saves the job and optionally replaces its skills, atomically
func (r *PostgresJobRepository) Update(ctx context.Context, j *job.Job, skills *[]job.SkillAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	query := `
		UPDATE jobs SET
			title = :title,
			slug = :slug,
			description = :description,
			requirements = :requirements,
			benefits = :benefits,
			salary_min = :salary_min,
			salary_max = :salary_max,
			currency = :currency,
			employment_type = :employment_type,
			experience_level = :experience_level,
			location = :location,
			is_remote = :is_remote,
			status = :status,
			expires_at = :expires_at,
			published_at = :published_at,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := tx.NamedExecContext(ctx, query, fromEntity(j))
	if err != nil {
		return mapWriteError(err, "update job")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rows == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", j.ID)
	}

	if skills != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM job_skills WHERE job_id = $1`, j.ID.String()); err != nil {
			return errx.Wrap(err, "failed to clear job skills", errx.TypeInternal)
		}
		if len(*skills) > 0 {
			if err := insertSkills(ctx, tx, j.ID, *skills); err != nil {
				return mapWriteError(err, "replace job skills")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit job update", errx.TypeInternal)
	}
	return nil
}

// GetByID retrieves a job by ID
func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	var model jobModel
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.id = $1`
	if err := r.db.GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id)
		}
		return nil, errx.Wrap(err, "failed to get job", errx.TypeInternal)
	}
	return model.toEntity(), nil
}

// GetListing retrieves a job with company and skills by ID
func (r *PostgresJobRepository) GetListing(ctx context.Context, id kernel.JobID) (*job.Listing, error) {
	return r.getListing(ctx, "j.id = $1", id.String())
}

// GetListingBySlug retrieves a job with company and skills by slug
func (r *PostgresJobRepository) GetListingBySlug(ctx context.Context, slug string) (*job.Listing, error) {
	return r.getListing(ctx, "j.slug = $1", slug)
}

func (r *PostgresJobRepository) getListing(ctx context.Context, cond string, arg string) (*job.Listing, error) {
	var model listingModel
	query := `SELECT ` + listingColumns + ` ` + fromJobs + ` WHERE ` + cond
	if err := r.db.GetContext(ctx, &model, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound()
		}
		return nil, errx.Wrap(err, "failed to get job", errx.TypeInternal)
	}

	listings := []job.Listing{model.toListing()}
	if err := r.attachSkills(ctx, listings); err != nil {
		return nil, err
	}
	return &listings[0], nil
}

// GetListings loads listings for ids in one round trip, skipping unknown ids
func (r *PostgresJobRepository) GetListings(ctx context.Context, ids []kernel.JobID) ([]job.Listing, error) {
	if len(ids) == 0 {
		return []job.Listing{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var models []listingModel
	query := `SELECT ` + listingColumns + ` ` + fromJobs + ` WHERE j.id = ANY($1)`
	if err := r.db.SelectContext(ctx, &models, query, pq.Array(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to get jobs", errx.TypeInternal)
	}

	listings := make([]job.Listing, 0, len(models))
	for i := range models {
		listings = append(listings, models[i].toListing())
	}
	if err := r.attachSkills(ctx, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// SlugExists checks for a slug collision, ignoring excludeID
func (r *PostgresJobRepository) SlugExists(ctx context.Context, slug string, excludeID kernel.JobID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM jobs WHERE slug = $1 AND id <> $2)`
	if err := r.db.GetContext(ctx, &exists, query, slug, excludeID.String()); err != nil {
		return false, errx.Wrap(err, "failed to check slug", errx.TypeInternal)
	}
	return exists, nil
}

// Search runs the page query and the count query over the same predicate list
func (r *PostgresJobRepository) Search(
	ctx context.Context,
	filter job.SearchFilter,
	sort job.Sort,
	pagination kernel.PaginationOptions,
) (*kernel.Paginated[job.Listing], error) {
	p := buildPredicates(filter)
	where := p.where()

	var total int
	countQuery := r.db.Rebind(fmt.Sprintf(`SELECT COUNT(*) %s %s`, fromJobs, where))
	if err := r.db.GetContext(ctx, &total, countQuery, p.args...); err != nil {
		return nil, errx.Wrap(err, "failed to count jobs", errx.TypeInternal)
	}

	listings := []job.Listing{}
	if total > pagination.Offset() {
		query := r.db.Rebind(fmt.Sprintf(`SELECT %s %s %s %s LIMIT ? OFFSET ?`,
			listingColumns, fromJobs, where, orderBy(sort)))
		args := append(append([]any{}, p.args...), pagination.PageSize, pagination.Offset())

		var models []listingModel
		if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
			return nil, errx.Wrap(err, "failed to search jobs", errx.TypeInternal)
		}
		for i := range models {
			listings = append(listings, models[i].toListing())
		}
		if err := r.attachSkills(ctx, listings); err != nil {
			return nil, err
		}
	}

	return kernel.NewPaginated(listings, pagination, total), nil
}

// attachSkills loads skills for all listings in one query
func (r *PostgresJobRepository) attachSkills(ctx context.Context, listings []job.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]string, len(listings))
	index := make(map[string]int, len(listings))
	for i, l := range listings {
		ids[i] = l.Job.ID.String()
		index[ids[i]] = i
	}

	query := `
		SELECT js.job_id, js.skill_id, s.name, s.category, js.is_required
		FROM job_skills js
		JOIN skills s ON s.id = js.skill_id
		WHERE js.job_id = ANY($1)
		ORDER BY js.is_required DESC, s.name ASC`

	var models []jobSkillModel
	if err := r.db.SelectContext(ctx, &models, query, pq.Array(ids)); err != nil {
		return errx.Wrap(err, "failed to load job skills", errx.TypeInternal)
	}

	for _, m := range models {
		i, ok := index[m.JobID]
		if !ok {
			continue
		}
		listings[i].Skills = append(listings[i].Skills, job.JobSkill{
			SkillID:    kernel.SkillID(m.SkillID),
			Name:       m.Name,
			Category:   m.Category,
			IsRequired: m.IsRequired,
		})
	}
	return nil
}

// Delete removes the job, its skills and saved entries in one transaction
func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	var applicationCount int
	if err := tx.GetContext(ctx, &applicationCount,
		`SELECT application_count FROM jobs WHERE id = $1 FOR UPDATE`, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return job.ErrJobNotFound().WithDetail("job_id", id)
		}
		return errx.Wrap(err, "failed to lock job", errx.TypeInternal)
	}
	if applicationCount > 0 {
		return job.ErrJobHasApplications().WithDetail("application_count", applicationCount)
	}

	for _, stmt := range []string{
		`DELETE FROM job_skills WHERE job_id = $1`,
		`DELETE FROM saved_jobs WHERE job_id = $1`,
		`DELETE FROM jobs WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id.String()); err != nil {
			return mapWriteError(err, "delete job")
		}
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit job deletion", errx.TypeInternal)
	}
	return nil
}

// ViewerState reports the caller's saved/applied flags for a job
func (r *PostgresJobRepository) ViewerState(ctx context.Context, id kernel.JobID, userID kernel.UserID) (job.ViewerState, error) {
	var state job.ViewerState
	query := `
		SELECT
			EXISTS(SELECT 1 FROM saved_jobs WHERE job_id = $1 AND user_id = $2) AS is_saved,
			EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2 AND status <> 'withdrawn') AS has_applied`
	if err := r.db.GetContext(ctx, &state, query, id.String(), userID.String()); err != nil {
		return job.ViewerState{}, errx.Wrap(err, "failed to load viewer state", errx.TypeInternal)
	}
	return state, nil
}

// GetStamp reads the version and counters of a job
func (r *PostgresJobRepository) GetStamp(ctx context.Context, id kernel.JobID) (*job.Stamp, error) {
	var stamp job.Stamp
	query := `SELECT updated_at, application_count, view_count FROM jobs WHERE id = $1`
	if err := r.db.GetContext(ctx, &stamp, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id)
		}
		return nil, errx.Wrap(err, "failed to get job stamp", errx.TypeInternal)
	}
	return &stamp, nil
}

// IncrementViewCount bumps the view counter
func (r *PostgresJobRepository) IncrementViewCount(ctx context.Context, id kernel.JobID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`, id.String()); err != nil {
		return errx.Wrap(err, "failed to increment view count", errx.TypeInternal)
	}
	return nil
}

// ExpireDue flips published jobs whose expires_at has passed
func (r *PostgresJobRepository) ExpireDue(ctx context.Context, now time.Time) ([]string, error) {
	query := `
		UPDATE jobs SET status = 'expired', updated_at = $1
		WHERE status = 'published' AND expires_at IS NOT NULL AND expires_at <= $1
		RETURNING slug`

	var slugs []string
	if err := r.db.SelectContext(ctx, &slugs, query, now); err != nil {
		return nil, errx.Wrap(err, "failed to expire jobs", errx.TypeInternal)
	}
	return slugs, nil
}

// CompanyOf returns the company owning a job
func (r *PostgresJobRepository) CompanyOf(ctx context.Context, id kernel.JobID) (kernel.CompanyID, error) {
	var companyID string
	if err := r.db.GetContext(ctx, &companyID, `SELECT company_id FROM jobs WHERE id = $1`, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", job.ErrJobNotFound().WithDetail("job_id", id)
		}
		return "", errx.Wrap(err, "failed to get job company", errx.TypeInternal)
	}
	return kernel.CompanyID(companyID), nil
}
