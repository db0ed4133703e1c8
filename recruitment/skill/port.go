package skill

import (
	"context"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
)

type Repository interface {
	// List returns catalogue entries ordered by name
	List(ctx context.Context, filter ListFilter) ([]Skill, error)

	// GetByIDs returns the skills that exist among ids
	GetByIDs(ctx context.Context, ids []kernel.SkillID) ([]Skill, error)

	// Create adds a skill; duplicate names (case-insensitive) conflict
	Create(ctx context.Context, s *Skill) error
}
