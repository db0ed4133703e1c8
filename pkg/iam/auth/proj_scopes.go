package auth

import "github.com/Abraxas-365/vieclam/pkg/kernel"

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - Job board
// ============================================================================

const (
	ScopeAll = "*"

	// Job scopes
	ScopeJobsAll    = "jobs:*"
	ScopeJobsWrite  = "jobs:write"
	ScopeJobsDelete = "jobs:delete"

	// Application scopes
	ScopeApplicationsAll    = "applications:*"
	ScopeApplicationsWrite  = "applications:write"  // Apply and withdraw
	ScopeApplicationsReview = "applications:review" // Review applicants of own company

	// Saved job scopes
	ScopeSavedJobsAll   = "saved_jobs:*"
	ScopeSavedJobsRead  = "saved_jobs:read"
	ScopeSavedJobsWrite = "saved_jobs:write"

	// Skill catalogue
	ScopeSkillsWrite = "skills:write"
)

// DomainScopeCategories organizes domain-specific scopes
var DomainScopeCategories = map[string][]string{
	"Jobs": {
		ScopeJobsAll,
		ScopeJobsWrite,
		ScopeJobsDelete,
	},
	"Applications": {
		ScopeApplicationsAll,
		ScopeApplicationsWrite,
		ScopeApplicationsReview,
	},
	"SavedJobs": {
		ScopeSavedJobsAll,
		ScopeSavedJobsRead,
		ScopeSavedJobsWrite,
	},
	"Skills": {
		ScopeSkillsWrite,
	},
}

// RoleScopes grants scopes to each platform role
var RoleScopes = map[kernel.UserRole][]string{
	kernel.RoleCandidate: {
		ScopeApplicationsWrite,
		ScopeSavedJobsAll,
	},
	kernel.RoleEmployer: {
		ScopeJobsWrite,
		ScopeJobsDelete,
		ScopeApplicationsReview,
		ScopeSavedJobsRead,
	},
	kernel.RoleAdmin: {
		ScopeAll,
	},
}

// ScopesForRole returns the scopes granted to role
func ScopesForRole(role kernel.UserRole) []string {
	return RoleScopes[role]
}

// ScopeMatches reports whether granted covers required, honoring "*" and "<resource>:*"
func ScopeMatches(granted, required string) bool {
	if granted == ScopeAll || granted == required {
		return true
	}
	if n := len(granted); n > 2 && granted[n-2:] == ":*" {
		prefix := granted[:n-1]
		return len(required) > len(prefix) && required[:len(prefix)] == prefix
	}
	return false
}
