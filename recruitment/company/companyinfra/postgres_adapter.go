package companyinfra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/company"
	"github.com/jmoiron/sqlx"
)

// PostgresCompanyRepository implements company.Repository using PostgreSQL
type PostgresCompanyRepository struct {
	db *sqlx.DB
}

// NewPostgresCompanyRepository creates a new PostgreSQL company repository
func NewPostgresCompanyRepository(db *sqlx.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

var _ company.Repository = (*PostgresCompanyRepository)(nil)

type companyModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Slug         string    `db:"slug"`
	Description  string    `db:"description"`
	Website      string    `db:"website"`
	LogoURL      string    `db:"logo_url"`
	Location     string    `db:"location"`
	IsVerified   bool      `db:"is_verified"`
	ContactEmail string    `db:"contact_email"`
	ContactPhone string    `db:"contact_phone"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m *companyModel) toEntity() *company.Company {
	return &company.Company{
		ID:           kernel.CompanyID(m.ID),
		Name:         m.Name,
		Slug:         m.Slug,
		Description:  m.Description,
		Website:      m.Website,
		LogoURL:      m.LogoURL,
		Location:     m.Location,
		IsVerified:   m.IsVerified,
		ContactEmail: kernel.Email(m.ContactEmail),
		ContactPhone: m.ContactPhone,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

const selectCompany = `
	SELECT id, name, slug, description, website, logo_url, location,
	       is_verified, contact_email, contact_phone, created_at, updated_at
	FROM companies`

// GetByID retrieves a company by ID
func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id kernel.CompanyID) (*company.Company, error) {
	return r.getOne(ctx, selectCompany+` WHERE id = $1`, id.String())
}

// GetBySlug retrieves a company by slug
func (r *PostgresCompanyRepository) GetBySlug(ctx context.Context, slug string) (*company.Company, error) {
	return r.getOne(ctx, selectCompany+` WHERE slug = $1`, slug)
}

func (r *PostgresCompanyRepository) getOne(ctx context.Context, query string, arg string) (*company.Company, error) {
	var model companyModel
	if err := r.db.GetContext(ctx, &model, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, company.ErrCompanyNotFound()
		}
		return nil, errx.Wrap(err, "failed to get company", errx.TypeInternal)
	}
	return model.toEntity(), nil
}

// IsMember checks the company_members table
func (r *PostgresCompanyRepository) IsMember(ctx context.Context, companyID kernel.CompanyID, userID kernel.UserID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM company_members WHERE company_id = $1 AND user_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, companyID.String(), userID.String()); err != nil {
		return false, errx.Wrap(err, "failed to check company membership", errx.TypeInternal)
	}
	return exists, nil
}
