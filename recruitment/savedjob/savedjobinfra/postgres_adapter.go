package savedjobinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/Abraxas-365/vieclam/recruitment/savedjob"
	"github.com/jmoiron/sqlx"
)

// PostgresSavedJobRepository implements savedjob.Repository using PostgreSQL
type PostgresSavedJobRepository struct {
	db *sqlx.DB
}

// NewPostgresSavedJobRepository creates a new PostgreSQL saved job repository
func NewPostgresSavedJobRepository(db *sqlx.DB) *PostgresSavedJobRepository {
	return &PostgresSavedJobRepository{db: db}
}

var _ savedjob.Repository = (*PostgresSavedJobRepository)(nil)

type savedJobModel struct {
	UserID    string    `db:"user_id"`
	JobID     string    `db:"job_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (m *savedJobModel) toEntity() savedjob.SavedJob {
	return savedjob.SavedJob{
		UserID:    kernel.UserID(m.UserID),
		JobID:     kernel.JobID(m.JobID),
		CreatedAt: m.CreatedAt,
	}
}

// Save inserts the bookmark only while the job is published
func (r *PostgresSavedJobRepository) Save(ctx context.Context, saved *savedjob.SavedJob) error {
	// The no-op update makes RETURNING yield the existing row on conflict
	query := `
		INSERT INTO saved_jobs (user_id, job_id, created_at)
		SELECT $1, j.id, $3 FROM jobs j WHERE j.id = $2 AND j.status = 'published'
		ON CONFLICT (user_id, job_id) DO UPDATE SET created_at = saved_jobs.created_at
		RETURNING created_at`

	var createdAt time.Time
	err := r.db.GetContext(ctx, &createdAt, query,
		saved.UserID.String(), saved.JobID.String(), saved.CreatedAt)
	if err == nil {
		saved.CreatedAt = createdAt
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return errx.Wrap(err, "failed to save job", errx.TypeInternal)
	}

	// Nothing selected: the job is missing or not published
	var status string
	if err := r.db.GetContext(ctx, &status, `SELECT status FROM jobs WHERE id = $1`, saved.JobID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return job.ErrJobNotFound().WithDetail("job_id", saved.JobID)
		}
		return errx.Wrap(err, "failed to get job status", errx.TypeInternal)
	}
	return savedjob.ErrJobNotPublished().WithDetail("job_status", status)
}

// Remove deletes a bookmark
func (r *PostgresSavedJobRepository) Remove(ctx context.Context, userID kernel.UserID, jobID kernel.JobID) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`, userID.String(), jobID.String()); err != nil {
		return errx.Wrap(err, "failed to remove saved job", errx.TypeInternal)
	}
	return nil
}

// ListByUser retrieves a page of bookmarks
func (r *PostgresSavedJobRepository) ListByUser(
	ctx context.Context,
	userID kernel.UserID,
	pagination kernel.PaginationOptions,
) (*kernel.Paginated[savedjob.SavedJob], error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM saved_jobs WHERE user_id = $1`, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to count saved jobs", errx.TypeInternal)
	}

	query := `
		SELECT user_id, job_id, created_at
		FROM saved_jobs
		WHERE user_id = $1
		ORDER BY created_at DESC, job_id ASC
		LIMIT $2 OFFSET $3`

	var models []savedJobModel
	if err := r.db.SelectContext(ctx, &models, query,
		userID.String(), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, errx.Wrap(err, "failed to list saved jobs", errx.TypeInternal)
	}

	items := make([]savedjob.SavedJob, 0, len(models))
	for i := range models {
		items = append(items, models[i].toEntity())
	}
	return kernel.NewPaginated(items, pagination, total), nil
}
