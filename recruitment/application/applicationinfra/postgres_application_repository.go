package applicationinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/application"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/jmoiron/sqlx"
)

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)

// ============================================================================
// Database Models
// ============================================================================

type applicationModel struct {
	ID          string    `db:"id"`
	JobID       string    `db:"job_id"`
	CandidateID string    `db:"candidate_id"`
	CoverLetter string    `db:"cover_letter"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// applicationWithJobModel for the candidate's joined listing
type applicationWithJobModel struct {
	applicationModel
	JobTitle    string `db:"job_title"`
	JobSlug     string `db:"job_slug"`
	JobStatus   string `db:"job_status"`
	CompanyID   string `db:"company_id"`
	CompanyName string `db:"company_name"`
}

// applicationWithCandidateModel for the employer's joined listing
type applicationWithCandidateModel struct {
	applicationModel
	FullName string `db:"full_name"`
	Email    string `db:"email"`
}

// toEntity converts database model to domain entity
func (m *applicationModel) toEntity() *application.Application {
	return &application.Application{
		ID:          kernel.ApplicationID(m.ID),
		JobID:       kernel.JobID(m.JobID),
		CandidateID: kernel.UserID(m.CandidateID),
		CoverLetter: m.CoverLetter,
		Status:      application.ApplicationStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m *applicationWithJobModel) toDetails() application.ApplicationWithJob {
	return application.ApplicationWithJob{
		Application: *m.toEntity(),
		Job: application.JobSummary{
			ID:          kernel.JobID(m.JobID),
			Title:       m.JobTitle,
			Slug:        m.JobSlug,
			Status:      m.JobStatus,
			CompanyID:   kernel.CompanyID(m.CompanyID),
			CompanyName: m.CompanyName,
		},
	}
}

func (m *applicationWithCandidateModel) toDetails() application.ApplicationWithCandidate {
	return application.ApplicationWithCandidate{
		Application: *m.toEntity(),
		Candidate: application.CandidateSummary{
			ID:       kernel.UserID(m.CandidateID),
			FullName: m.FullName,
			Email:    kernel.Email(m.Email),
		},
	}
}

const applicationColumns = `a.id, a.job_id, a.candidate_id, a.cover_letter, a.status, a.created_at, a.updated_at`

// ============================================================================
// Repository Implementation
// ============================================================================

// Apply inserts or reactivates an application and counts it on the job
func (r *PostgresApplicationRepository) Apply(ctx context.Context, app *application.Application) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	var target struct {
		Status    string     `db:"status"`
		ExpiresAt *time.Time `db:"expires_at"`
	}
	err = tx.GetContext(ctx, &target,
		`SELECT status, expires_at FROM jobs WHERE id = $1 FOR UPDATE`, app.JobID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return job.ErrJobNotFound().WithDetail("job_id", app.JobID)
		}
		return errx.Wrap(err, "failed to lock job", errx.TypeInternal)
	}
	if target.Status != string(job.JobStatusPublished) ||
		(target.ExpiresAt != nil && !target.ExpiresAt.After(app.CreatedAt)) {
		return application.ErrJobNotOpen().WithDetail("job_status", target.Status)
	}

	// A withdrawn row is brought back to pending; an active one is left alone
	// and RETURNING yields nothing.
	query := `
		INSERT INTO applications (id, job_id, candidate_id, cover_letter, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT ON CONSTRAINT applications_job_candidate_key DO UPDATE
			SET status = EXCLUDED.status,
				cover_letter = EXCLUDED.cover_letter,
				updated_at = EXCLUDED.updated_at
			WHERE applications.status = 'withdrawn'
		RETURNING id, created_at, (xmax = 0) AS inserted`

	var stored struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		Inserted  bool      `db:"inserted"`
	}
	err = tx.GetContext(ctx, &stored, query,
		app.ID.String(), app.JobID.String(), app.CandidateID.String(),
		app.CoverLetter, string(app.Status), app.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return application.ErrApplicationAlreadyExists().WithDetail("job_id", app.JobID)
		}
		return errx.Wrap(err, "failed to create application", errx.TypeInternal)
	}

	if stored.Inserted {
		if _, err := tx.ExecContext(ctx,
			`UPDATE jobs SET application_count = application_count + 1 WHERE id = $1`, app.JobID.String()); err != nil {
			return errx.Wrap(err, "failed to count application", errx.TypeInternal)
		}
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit application", errx.TypeInternal)
	}

	app.ID = kernel.ApplicationID(stored.ID)
	app.CreatedAt = stored.CreatedAt
	return nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	var model applicationModel
	query := `SELECT ` + applicationColumns + ` FROM applications a WHERE a.id = $1`

	if err := r.db.GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id)
		}
		return nil, errx.Wrap(err, "failed to get application", errx.TypeInternal)
	}
	return model.toEntity(), nil
}

// UpdateStatus saves the status of an application
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, app *application.Application) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
		app.ID.String(), string(app.Status), app.UpdatedAt)
	if err != nil {
		return errx.Wrap(err, "failed to update application", errx.TypeInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rows == 0 {
		return application.ErrApplicationNotFound().WithDetail("application_id", app.ID)
	}
	return nil
}

// ListByCandidate retrieves a candidate's applications with job details
func (r *PostgresApplicationRepository) ListByCandidate(
	ctx context.Context,
	candidateID kernel.UserID,
	pagination kernel.PaginationOptions,
) (*kernel.Paginated[application.ApplicationWithJob], error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM applications WHERE candidate_id = $1`, candidateID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to count applications", errx.TypeInternal)
	}

	query := `
		SELECT ` + applicationColumns + `,
			j.title AS job_title, j.slug AS job_slug, j.status AS job_status,
			c.id AS company_id, c.name AS company_name
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN companies c ON c.id = j.company_id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2 OFFSET $3`

	var models []applicationWithJobModel
	if err := r.db.SelectContext(ctx, &models, query,
		candidateID.String(), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, errx.Wrap(err, "failed to list applications", errx.TypeInternal)
	}

	items := make([]application.ApplicationWithJob, 0, len(models))
	for i := range models {
		items = append(items, models[i].toDetails())
	}
	return kernel.NewPaginated(items, pagination, total), nil
}

// ListByJob retrieves the applicants of a job, optionally filtered by status
func (r *PostgresApplicationRepository) ListByJob(
	ctx context.Context,
	jobID kernel.JobID,
	status application.ApplicationStatus,
	pagination kernel.PaginationOptions,
) (*kernel.Paginated[application.ApplicationWithCandidate], error) {
	where := `WHERE a.job_id = $1 AND ($2::text = '' OR a.status = $2::text)`

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM applications a `+where, jobID.String(), string(status)); err != nil {
		return nil, errx.Wrap(err, "failed to count applications", errx.TypeInternal)
	}

	query := `
		SELECT ` + applicationColumns + `, u.full_name, u.email
		FROM applications a
		JOIN users u ON u.id = a.candidate_id
		` + where + `
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $3 OFFSET $4`

	var models []applicationWithCandidateModel
	if err := r.db.SelectContext(ctx, &models, query,
		jobID.String(), string(status), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, errx.Wrap(err, "failed to list applications", errx.TypeInternal)
	}

	items := make([]application.ApplicationWithCandidate, 0, len(models))
	for i := range models {
		items = append(items, models[i].toDetails())
	}
	return kernel.NewPaginated(items, pagination, total), nil
}
