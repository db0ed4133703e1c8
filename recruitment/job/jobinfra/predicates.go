package jobinfra

import (
	"strings"

	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/lib/pq"
)

// fromJobs is shared by the page query and the count query
const fromJobs = `FROM jobs j JOIN companies c ON c.id = j.company_id`

// predicates is an AND-ed list of SQL conditions using "?" bind vars
type predicates struct {
	clauses []string
	args    []any
}

func (p *predicates) add(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

// where renders the WHERE clause, or "" when unconstrained
func (p *predicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.clauses, " AND ")
}

// buildPredicates compiles a filter into the single predicate list consumed
// by both the page query and the count query.
func buildPredicates(f job.SearchFilter) predicates {
	var p predicates

	if len(f.Statuses) == 1 {
		p.add("j.status = ?", string(f.Statuses[0]))
	} else if len(f.Statuses) > 1 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		p.add("j.status = ANY(?)", pq.Array(statuses))
	}

	if f.ActiveAt != nil {
		p.add("(j.expires_at IS NULL OR j.expires_at > ?)", *f.ActiveAt)
	}

	if f.Query != "" {
		pattern := likePattern(f.Query)
		p.add(`(j.title ILIKE ? ESCAPE '\' OR j.description ILIKE ? ESCAPE '\' OR j.requirements ILIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}

	if f.Location != "" {
		p.add(`j.location ILIKE ? ESCAPE '\'`, likePattern(f.Location))
	}

	if f.EmploymentType != nil {
		p.add("j.employment_type = ?", string(*f.EmploymentType))
	}

	if f.ExperienceLevel != nil {
		p.add("j.experience_level = ?", string(*f.ExperienceLevel))
	}

	// Bounds on the job's own range; NULL columns never match.
	if f.SalaryMin != nil {
		p.add("j.salary_min >= ?", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		p.add("j.salary_max <= ?", *f.SalaryMax)
	}

	if f.CompanyID != nil {
		p.add("j.company_id = ?", f.CompanyID.String())
	}

	if f.IsRemote != nil {
		p.add("j.is_remote = ?", *f.IsRemote)
	}

	if len(f.SkillIDs) > 0 {
		ids := make([]string, len(f.SkillIDs))
		for i, id := range f.SkillIDs {
			ids[i] = id.String()
		}
		p.add("EXISTS (SELECT 1 FROM job_skills js WHERE js.job_id = j.id AND js.skill_id = ANY(?))", pq.Array(ids))
	}

	return p
}

var sortColumns = map[job.SortField]string{
	job.SortByCreatedAt:        "j.created_at",
	job.SortByPublishedAt:      "j.published_at",
	job.SortBySalaryMin:        "j.salary_min",
	job.SortBySalaryMax:        "j.salary_max",
	job.SortByTitle:            "j.title",
	job.SortByApplicationCount: "j.application_count",
}

// orderBy renders an allow-listed ORDER BY with a stable id tiebreak
func orderBy(s job.Sort) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[job.DefaultSort.Field]
	}
	dir := "DESC"
	if s.Order == job.SortAsc {
		dir = "ASC"
	}
	return "ORDER BY " + col + " " + dir + " NULLS LAST, j.id " + dir
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring ILIKE with metacharacters escaped
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
