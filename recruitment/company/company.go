package company

import (
	"time"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

// MemberRole is the role a user holds inside a company
type MemberRole string

const (
	MemberRoleOwner     MemberRole = "owner"
	MemberRoleRecruiter MemberRole = "recruiter"
)

// Company is an employer that posts jobs
type Company struct {
	ID           kernel.CompanyID `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Website      string           `json:"website,omitempty"`
	LogoURL      string           `json:"logo_url,omitempty"`
	Location     string           `json:"location,omitempty"`
	IsVerified   bool             `json:"is_verified"`
	ContactEmail kernel.Email     `json:"contact_email,omitempty"`
	ContactPhone string           `json:"contact_phone,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Summary is the company shape embedded in job listings
type Summary struct {
	ID         kernel.CompanyID `json:"id"`
	Name       string           `json:"name"`
	Slug       string           `json:"slug"`
	LogoURL    string           `json:"logo_url,omitempty"`
	Location   string           `json:"location,omitempty"`
	IsVerified bool             `json:"is_verified"`
}

func (c *Company) ToSummary() Summary {
	return Summary{
		ID:         c.ID,
		Name:       c.Name,
		Slug:       c.Slug,
		LogoURL:    c.LogoURL,
		Location:   c.Location,
		IsVerified: c.IsVerified,
	}
}
