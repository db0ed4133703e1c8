package company

import (
	"context"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

type Repository interface {
	// GetByID retrieves a company by ID
	GetByID(ctx context.Context, id kernel.CompanyID) (*Company, error)

	// GetBySlug retrieves a company by its public slug
	GetBySlug(ctx context.Context, slug string) (*Company, error)

	// IsMember reports whether the user belongs to the company
	IsMember(ctx context.Context, companyID kernel.CompanyID, userID kernel.UserID) (bool, error)
}
