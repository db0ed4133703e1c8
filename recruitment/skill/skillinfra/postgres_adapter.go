package skillinfra

import (
	"context"
	"strings"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/recruitment/skill"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresSkillRepository implements skill.Repository using PostgreSQL
type PostgresSkillRepository struct {
	db *sqlx.DB
}

// NewPostgresSkillRepository creates a new PostgreSQL skill repository
func NewPostgresSkillRepository(db *sqlx.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

var _ skill.Repository = (*PostgresSkillRepository)(nil)

type skillModel struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Category string `db:"category"`
}

func (m skillModel) toEntity() skill.Skill {
	return skill.Skill{
		ID:       kernel.SkillID(m.ID),
		Name:     m.Name,
		Category: m.Category,
	}
}

func toEntities(models []skillModel) []skill.Skill {
	out := make([]skill.Skill, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out
}

// List returns catalogue entries filtered by category and name substring
func (r *PostgresSkillRepository) List(ctx context.Context, filter skill.ListFilter) ([]skill.Skill, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		conds = append(conds, `name ILIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q)+"%")
	}

	query := `SELECT id, name, category FROM skills`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC"

	var models []skillModel
	if err := r.db.SelectContext(ctx, &models, r.db.Rebind(query), args...); err != nil {
		return nil, errx.Wrap(err, "failed to list skills", errx.TypeInternal)
	}
	return toEntities(models), nil
}

// GetByIDs returns the existing skills among ids
func (r *PostgresSkillRepository) GetByIDs(ctx context.Context, ids []kernel.SkillID) ([]skill.Skill, error) {
	if len(ids) == 0 {
		return []skill.Skill{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var models []skillModel
	query := `SELECT id, name, category FROM skills WHERE id = ANY($1) ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &models, query, pq.Array(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to get skills", errx.TypeInternal)
	}
	return toEntities(models), nil
}

// Create inserts a skill
func (r *PostgresSkillRepository) Create(ctx context.Context, s *skill.Skill) error {
	query := `INSERT INTO skills (id, name, category) VALUES (:id, :name, :category)`
	model := skillModel{ID: s.ID.String(), Name: s.Name, Category: s.Category}

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return skill.ErrSkillAlreadyExists().WithDetail("name", s.Name)
		}
		return errx.Wrap(err, "failed to create skill", errx.TypeInternal)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
