package skillsrv_test

import (
	"context"
	"testing"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/skill"
	"github.com/Abraxas-365/vieclam/recruitment/skill/skillsrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	ListFunc     func(ctx context.Context, filter skill.ListFilter) ([]skill.Skill, error)
	GetByIDsFunc func(ctx context.Context, ids []kernel.SkillID) ([]skill.Skill, error)
	CreateFunc   func(ctx context.Context, s *skill.Skill) error
}

func (m *mockRepo) List(ctx context.Context, filter skill.ListFilter) ([]skill.Skill, error) {
	return m.ListFunc(ctx, filter)
}

func (m *mockRepo) GetByIDs(ctx context.Context, ids []kernel.SkillID) ([]skill.Skill, error) {
	return m.GetByIDsFunc(ctx, ids)
}

func (m *mockRepo) Create(ctx context.Context, s *skill.Skill) error {
	return m.CreateFunc(ctx, s)
}

var admin = &kernel.Actor{UserID: "admin-1", Role: kernel.RoleAdmin}

func TestCreateSkill(t *testing.T) {
	var stored *skill.Skill
	svc := skillsrv.NewSkillService(&mockRepo{
		CreateFunc: func(_ context.Context, s *skill.Skill) error {
			stored = s
			return nil
		},
	})

	sk, err := svc.CreateSkill(context.Background(), skill.CreateSkillRequest{Name: "  Golang ", Category: "backend"}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Golang", sk.Name)
	assert.NotEmpty(t, sk.ID)
	assert.Same(t, stored, sk)
}

func TestCreateSkill_RequiresAdmin(t *testing.T) {
	svc := skillsrv.NewSkillService(&mockRepo{})

	_, err := svc.CreateSkill(context.Background(), skill.CreateSkillRequest{Name: "Go"},
		&kernel.Actor{UserID: "emp", Role: kernel.RoleEmployer})
	assert.True(t, errx.IsCode(err, skill.CodeInsufficientPermissions))

	_, err = svc.CreateSkill(context.Background(), skill.CreateSkillRequest{Name: "Go"}, nil)
	assert.True(t, errx.IsCode(err, skill.CodeInsufficientPermissions))
}

func TestCreateSkill_BlankName(t *testing.T) {
	svc := skillsrv.NewSkillService(&mockRepo{})
	_, err := svc.CreateSkill(context.Background(), skill.CreateSkillRequest{Name: "   "}, admin)
	assert.True(t, errx.IsCode(err, validatex.CodeInvalidInput))
}

func TestMissingIDs(t *testing.T) {
	svc := skillsrv.NewSkillService(&mockRepo{
		GetByIDsFunc: func(_ context.Context, ids []kernel.SkillID) ([]skill.Skill, error) {
			return []skill.Skill{{ID: "go"}, {ID: "sql"}}, nil
		},
	})

	missing, err := svc.MissingIDs(context.Background(), []kernel.SkillID{"go", "rust", "sql", "zig"})
	require.NoError(t, err)
	assert.Equal(t, []kernel.SkillID{"rust", "zig"}, missing)

	missing, err = svc.MissingIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
