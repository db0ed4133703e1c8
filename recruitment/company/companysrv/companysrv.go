package companysrv

import (
	"context"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/company"
)

// CompanyService exposes company lookups and membership checks
type CompanyService struct {
	repo company.Repository
}

// NewCompanyService creates a new company service
func NewCompanyService(repo company.Repository) *CompanyService {
	return &CompanyService{repo: repo}
}

// GetCompany retrieves a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id kernel.CompanyID) (*company.Company, error) {
	if id.IsEmpty() {
		return nil, company.ErrCompanyNotFound()
	}
	return s.repo.GetByID(ctx, id)
}

// GetCompanyBySlug retrieves a company by slug
func (s *CompanyService) GetCompanyBySlug(ctx context.Context, slug string) (*company.Company, error) {
	if slug == "" {
		return nil, company.ErrCompanyNotFound()
	}
	return s.repo.GetBySlug(ctx, slug)
}

// CanManage reports whether actor may manage the company's jobs and applicants.
// Admins manage every company; anonymous callers none.
func (s *CompanyService) CanManage(ctx context.Context, actor *kernel.Actor, companyID kernel.CompanyID) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.IsAdmin() {
		return true, nil
	}
	return s.repo.IsMember(ctx, companyID, actor.UserID)
}

// RequireManager is CanManage returning COMPANY.NOT_MEMBER on refusal
func (s *CompanyService) RequireManager(ctx context.Context, actor *kernel.Actor, companyID kernel.CompanyID) error {
	ok, err := s.CanManage(ctx, actor, companyID)
	if err != nil {
		return err
	}
	if !ok {
		return company.ErrNotMember().WithDetail("company_id", companyID)
	}
	return nil
}
