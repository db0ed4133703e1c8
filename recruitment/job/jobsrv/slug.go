package jobsrv

import (
	"context"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/slugx"
	"github.com/Abraxas-365/vieclam/recruitment/job"
)

const (
	// MaxSlugAttempts bounds the probes of one resolution: base, base-1 ... base-19
	MaxSlugAttempts = 20

	// fallbackSlug replaces titles that slugify to nothing
	fallbackSlug = "job"
)

// SlugChecker probes storage for slug collisions
type SlugChecker interface {
	SlugExists(ctx context.Context, slug string, excludeID kernel.JobID) (bool, error)
}

// SlugResolver finds a free slug by suffixing -1, -2, ... to the base.
// The unique index on jobs.slug stays the source of truth.
type SlugResolver struct {
	checker     SlugChecker
	maxAttempts int
}

// NewSlugResolver creates a resolver bounded to MaxSlugAttempts probes
func NewSlugResolver(checker SlugChecker) *SlugResolver {
	return &SlugResolver{
		checker:     checker,
		maxAttempts: MaxSlugAttempts,
	}
}

// BaseSlug slugifies title, never returning an empty slug
func BaseSlug(title string) string {
	if s := slugx.Make(title); s != "" {
		return s
	}
	return fallbackSlug
}

// Resolve returns the first candidate not used by a job other than excludeID
func (r *SlugResolver) Resolve(ctx context.Context, base string, excludeID kernel.JobID) (string, error) {
	if base == "" {
		base = fallbackSlug
	}

	for n := 0; n < r.maxAttempts; n++ {
		candidate := slugx.WithSuffix(base, n)

		taken, err := r.checker.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", errx.Wrap(err, "failed to check slug availability", errx.TypeInternal)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", job.ErrSlugExhausted().
		WithDetail("base", base).
		WithDetail("attempts", r.maxAttempts)
}
