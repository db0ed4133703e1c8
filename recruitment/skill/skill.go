package skill

import "github.com/Abraxas-365/vieclam/pkg/kernel"

// Skill is an entry of the shared skill catalogue
type Skill struct {
	ID       kernel.SkillID `json:"id"`
	Name     string         `json:"name"`
	Category string         `json:"category,omitempty"`
}

// ListFilter narrows a catalogue listing
type ListFilter struct {
	Category string `query:"category" validate:"omitempty,max=100"`
	Query    string `query:"q" validate:"omitempty,max=100"`
}

// CreateSkillRequest adds a skill to the catalogue
type CreateSkillRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Category string `json:"category" validate:"omitempty,max=100"`
}
