package skillsrv

import (
	"context"
	"strings"

	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/skill"
	"github.com/google/uuid"
)

// SkillService manages the skill catalogue
type SkillService struct {
	repo skill.Repository
}

// NewSkillService creates a new skill service
func NewSkillService(repo skill.Repository) *SkillService {
	return &SkillService{repo: repo}
}

// ListSkills returns the catalogue
func (s *SkillService) ListSkills(ctx context.Context, filter skill.ListFilter) ([]skill.Skill, error) {
	if err := validatex.Struct(filter); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// CreateSkill adds a catalogue entry. Admin only.
func (s *SkillService) CreateSkill(ctx context.Context, req skill.CreateSkillRequest, actor *kernel.Actor) (*skill.Skill, error) {
	if !actor.IsAdmin() {
		return nil, skill.ErrInsufficientPermissions()
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	sk := &skill.Skill{
		ID:       kernel.NewSkillID(uuid.NewString()),
		Name:     req.Name,
		Category: req.Category,
	}
	if err := s.repo.Create(ctx, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// MissingIDs returns the subset of ids that does not exist in the catalogue
func (s *SkillService) MissingIDs(ctx context.Context, ids []kernel.SkillID) ([]kernel.SkillID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	known := make(map[kernel.SkillID]struct{}, len(found))
	for _, sk := range found {
		known[sk.ID] = struct{}{}
	}

	var missing []kernel.SkillID
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
