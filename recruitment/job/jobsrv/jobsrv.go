package jobsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/Abraxas-365/vieclam/pkg/validatex"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/google/uuid"
)

// maxSlugRetries bounds re-resolution after an insert loses a slug race
const maxSlugRetries = 3

// JobService provides business operations for jobs
type JobService struct {
	jobRepo job.Repository
	cache   job.Cache
	members job.MembershipChecker
	skills  job.SkillCatalog
	slugs   *SlugResolver
	now     func() time.Time
}

// NewJobService creates a new instance of the job service
func NewJobService(
	jobRepo job.Repository,
	cache job.Cache,
	members job.MembershipChecker,
	skills job.SkillCatalog,
) *JobService {
	return &JobService{
		jobRepo: jobRepo,
		cache:   cache,
		members: members,
		skills:  skills,
		slugs:   NewSlugResolver(jobRepo),
		now:     time.Now,
	}
}

// ============================================================================
// Commands
// ============================================================================

// CreateJob validates the request, picks a unique slug and stores a draft job.
// Skills are attached afterwards on a best-effort basis.
func (s *JobService) CreateJob(ctx context.Context, req job.CreateJobRequest, actor *kernel.Actor) (*job.JobResponse, error) {
	if actor == nil {
		return nil, job.ErrInsufficientPermissions()
	}

	req.Normalize()
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	salary := kernel.SalaryRange{Min: req.SalaryMin, Max: req.SalaryMax}
	if !salary.IsValid() {
		return nil, job.ErrInvalidSalaryRange()
	}

	if err := s.requireManager(ctx, actor, req.CompanyID); err != nil {
		return nil, err
	}

	skills := job.UniqueAssignments(req.Skills)
	if err := s.checkSkills(ctx, skills); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = kernel.DefaultCurrency
	}

	now := s.now()
	newJob := &job.Job{
		ID:              kernel.NewJobID(uuid.NewString()),
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Benefits:        req.Benefits,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		Currency:        currency,
		EmploymentType:  req.EmploymentType,
		ExperienceLevel: req.ExperienceLevel,
		Location:        req.Location,
		IsRemote:        req.IsRemote,
		CompanyID:       req.CompanyID,
		PostedBy:        actor.UserID,
		Status:          job.JobStatusDraft,
		ExpiresAt:       req.ExpiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	base := BaseSlug(req.Title)
	err := s.withFreshSlug(ctx, newJob, base, func() error {
		return s.jobRepo.Create(ctx, newJob)
	})
	if err != nil {
		return nil, err
	}

	if len(skills) > 0 {
		if err := s.jobRepo.AddSkills(ctx, newJob.ID, skills); err != nil {
			logx.WithFields(logx.Fields{
				"job_id": newJob.ID,
				"skills": len(skills),
			}).Warnf("job created without skills: %v", err)
		}
	}

	listing, err := s.jobRepo.GetListing(ctx, newJob.ID)
	if err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"job_id":     newJob.ID,
		"slug":       newJob.Slug,
		"company_id": newJob.CompanyID,
	}).Info("job created")

	resp := job.NewJobResponse(*listing)
	return &resp, nil
}

// UpdateJob applies the fields present in req. The slug is recomputed only
// when the title changes; skills are replaced when present.
func (s *JobService) UpdateJob(ctx context.Context, id kernel.JobID, req job.UpdateJobRequest, actor *kernel.Actor) (*job.JobResponse, error) {
	existing, err := s.getManagedJob(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	var skills *[]job.SkillAssignment
	if req.Skills != nil {
		unique := job.UniqueAssignments(*req.Skills)
		if err := s.checkSkills(ctx, unique); err != nil {
			return nil, err
		}
		if unique == nil {
			unique = []job.SkillAssignment{}
		}
		skills = &unique
	}

	now := s.now()
	updated := *existing
	titleChanged := applyUpdate(&updated, req)

	if !updated.Salary().IsValid() {
		return nil, job.ErrInvalidSalaryRange()
	}
	if req.Status != nil {
		if err := updated.TransitionTo(*req.Status, now); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = now

	save := func() error { return s.jobRepo.Update(ctx, &updated, skills) }
	if titleChanged {
		err = s.withFreshSlug(ctx, &updated, BaseSlug(updated.Title), save)
	} else {
		err = save()
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, existing.Slug, updated.Slug)

	listing, err := s.jobRepo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := job.NewJobResponse(*listing)
	return &resp, nil
}

// applyUpdate copies the present fields of req onto j and reports whether the title changed
func applyUpdate(j *job.Job, req job.UpdateJobRequest) bool {
	titleChanged := false
	if req.Title != nil && *req.Title != j.Title {
		j.Title = *req.Title
		titleChanged = true
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.Requirements != nil {
		j.Requirements = *req.Requirements
	}
	if req.Benefits != nil {
		j.Benefits = *req.Benefits
	}
	if req.SalaryMin != nil {
		j.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		j.SalaryMax = req.SalaryMax
	}
	if req.Currency != nil {
		j.Currency = *req.Currency
	}
	if req.EmploymentType != nil {
		j.EmploymentType = *req.EmploymentType
	}
	if req.ExperienceLevel != nil {
		j.ExperienceLevel = *req.ExperienceLevel
	}
	if req.Location != nil {
		j.Location = *req.Location
	}
	if req.IsRemote != nil {
		j.IsRemote = *req.IsRemote
	}
	if req.ExpiresAt != nil {
		j.ExpiresAt = req.ExpiresAt
	}
	if req.ClearSalary {
		j.SalaryMin, j.SalaryMax = nil, nil
	}
	if req.ClearExpiresAt {
		j.ExpiresAt = nil
	}
	return titleChanged
}

// DeleteJob removes a job nobody has applied to
func (s *JobService) DeleteJob(ctx context.Context, id kernel.JobID, actor *kernel.Actor) error {
	existing, err := s.getManagedJob(ctx, id, actor)
	if err != nil {
		return err
	}
	if !existing.CanBeDeleted() {
		return job.ErrJobHasApplications().WithDetail("application_count", existing.ApplicationCount)
	}

	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.Slug)

	logx.WithFields(logx.Fields{"job_id": id, "slug": existing.Slug}).Info("job deleted")
	return nil
}

// ExpireDueJobs marks published jobs past expires_at as expired
func (s *JobService) ExpireDueJobs(ctx context.Context) (int, error) {
	slugs, err := s.jobRepo.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if len(slugs) > 0 {
		s.invalidate(ctx, slugs...)
		logx.Infof("Expired %d job(s)", len(slugs))
	}
	return len(slugs), nil
}

// ============================================================================
// Queries
// ============================================================================

// ListJobs lists published jobs, optionally of one company
func (s *JobService) ListJobs(ctx context.Context, req job.ListJobsRequest) (*job.PaginatedJobsResponse, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	var filter job.SearchFilter
	if req.CompanyID != "" {
		id := kernel.CompanyID(req.CompanyID)
		filter.CompanyID = &id
	}

	return s.search(ctx, job.PublicFilter(filter, s.now()), job.DefaultSort,
		kernel.NewPaginationOptions(req.Page, req.Limit))
}

// SearchJobs runs the full public filter composition
func (s *JobService) SearchJobs(ctx context.Context, req job.SearchJobsRequest) (*job.PaginatedJobsResponse, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	filter := req.ToFilter()
	if filter.SalaryMin != nil && filter.SalaryMax != nil && *filter.SalaryMin > *filter.SalaryMax {
		return nil, job.ErrInvalidSalaryRange()
	}

	sort, err := job.ParseSort(req.SortBy, req.SortOrder)
	if err != nil {
		return nil, err
	}

	page, err := s.search(ctx, job.PublicFilter(filter, s.now()), sort,
		kernel.NewPaginationOptions(req.Page, req.Limit))
	if err != nil {
		return nil, err
	}

	if len(filter.SkillIDs) > 0 {
		for i := range page.Items {
			n := job.CountMatchedSkills(page.Items[i].Skills, filter.SkillIDs)
			page.Items[i].MatchedSkills = &n
		}
	}
	return page, nil
}

// GetCompanyJobs lists a company's jobs. Members and admins see every status,
// everyone else only published ones.
func (s *JobService) GetCompanyJobs(ctx context.Context, companyID kernel.CompanyID, req job.CompanyJobsRequest, actor *kernel.Actor) (*job.PaginatedJobsResponse, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	pagination := kernel.NewPaginationOptions(req.Page, req.Limit)

	canManage, err := s.members.CanManage(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}

	filter := job.SearchFilter{CompanyID: &companyID}
	if canManage {
		if req.Status != "" {
			filter.Statuses = []job.JobStatus{job.JobStatus(req.Status)}
		}
	} else {
		if req.Status != "" && job.JobStatus(req.Status) != job.JobStatusPublished {
			return kernel.NewPaginated([]job.JobResponse{}, pagination, 0), nil
		}
		filter = job.PublicFilter(filter, s.now())
	}

	return s.search(ctx, filter, job.DefaultSort, pagination)
}

// GetJobBySlug serves a job page through the cache and counts the view
func (s *JobService) GetJobBySlug(ctx context.Context, slug string, actor *kernel.Actor) (*job.JobDetailsResponse, error) {
	if slug == "" {
		return nil, job.ErrJobNotFound()
	}

	listing := s.cachedListing(ctx, slug)
	if listing == nil {
		var err error
		listing, err = s.jobRepo.GetListingBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, listing); err != nil {
			logx.Warnf("job cache write failed for %s: %v", slug, err)
		}
	}

	details, err := s.details(ctx, listing, actor)
	if err != nil {
		return nil, err
	}

	if listing.Job.IsVisibleAt(s.now()) {
		if err := s.jobRepo.IncrementViewCount(ctx, listing.Job.ID); err != nil {
			logx.Warnf("view count not recorded for job %s: %v", listing.Job.ID, err)
		}
	}
	return details, nil
}

// GetJobDetails returns one job by ID with the caller's state
func (s *JobService) GetJobDetails(ctx context.Context, id kernel.JobID, actor *kernel.Actor) (*job.JobDetailsResponse, error) {
	if id.IsEmpty() {
		return nil, job.ErrJobNotFound()
	}
	listing, err := s.jobRepo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, listing, actor)
}

// ============================================================================
// Helpers
// ============================================================================

func (s *JobService) search(ctx context.Context, filter job.SearchFilter, sort job.Sort, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	page, err := s.jobRepo.Search(ctx, filter, sort, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to search jobs", errx.TypeInternal)
	}
	return kernel.MapPaginated(page, job.NewJobResponse), nil
}

// cachedListing returns the cached listing for slug when it still matches the
// stored row, with the live counters laid over it. Anything else reads as a miss.
func (s *JobService) cachedListing(ctx context.Context, slug string) *job.Listing {
	listing, err := s.cache.Get(ctx, slug)
	if err != nil {
		logx.Warnf("job cache read failed for %s: %v", slug, err)
		return nil
	}
	if listing == nil {
		return nil
	}

	stamp, err := s.jobRepo.GetStamp(ctx, listing.Job.ID)
	if err != nil {
		if !errx.IsCode(err, job.CodeJobNotFound) {
			logx.Warnf("job stamp read failed for %s: %v", slug, err)
		}
		s.invalidate(ctx, slug)
		return nil
	}
	// A listing cached by a read that raced an update carries the old version
	if !stamp.UpdatedAt.Equal(listing.Job.UpdatedAt) {
		s.invalidate(ctx, slug)
		return nil
	}

	listing.Job.ApplicationCount = stamp.ApplicationCount
	listing.Job.ViewCount = stamp.ViewCount
	return listing
}

// details enforces visibility and attaches the caller's saved/applied flags
func (s *JobService) details(ctx context.Context, listing *job.Listing, actor *kernel.Actor) (*job.JobDetailsResponse, error) {
	if !listing.Job.IsVisibleAt(s.now()) {
		ok, err := s.members.CanManage(ctx, actor, listing.Job.CompanyID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, job.ErrJobNotFound()
		}
	}

	resp := &job.JobDetailsResponse{JobResponse: job.NewJobResponse(*listing)}
	if actor != nil {
		state, err := s.jobRepo.ViewerState(ctx, listing.Job.ID, actor.UserID)
		if err != nil {
			return nil, err
		}
		resp.IsSaved = state.IsSaved
		resp.HasApplied = state.HasApplied
	}
	return resp, nil
}

// getManagedJob loads a job the actor may manage. Jobs of other companies read as not found.
func (s *JobService) getManagedJob(ctx context.Context, id kernel.JobID, actor *kernel.Actor) (*job.Job, error) {
	if actor == nil {
		return nil, job.ErrInsufficientPermissions()
	}
	existing, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.members.CanManage(ctx, actor, existing.CompanyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, job.ErrJobNotFound().WithDetail("job_id", id)
	}
	return existing, nil
}

func (s *JobService) requireManager(ctx context.Context, actor *kernel.Actor, companyID kernel.CompanyID) error {
	ok, err := s.members.CanManage(ctx, actor, companyID)
	if err != nil {
		return err
	}
	if !ok {
		return job.ErrInsufficientPermissions().WithDetail("company_id", companyID)
	}
	return nil
}

func (s *JobService) checkSkills(ctx context.Context, skills []job.SkillAssignment) error {
	if len(skills) == 0 {
		return nil
	}
	ids := make([]kernel.SkillID, len(skills))
	for i, a := range skills {
		ids[i] = a.SkillID
	}
	missing, err := s.skills.MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return job.ErrUnknownSkills().WithDetail("skill_ids", missing)
	}
	return nil
}

// withFreshSlug resolves a slug for j and runs save, re-resolving when the
// unique index rejects a slug taken concurrently.
func (s *JobService) withFreshSlug(ctx context.Context, j *job.Job, base string, save func() error) error {
	var err error
	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		j.Slug, err = s.slugs.Resolve(ctx, base, j.ID)
		if err != nil {
			return err
		}

		err = save()
		if !errx.IsCode(err, job.CodeSlugTaken) {
			return err
		}
		logx.Debugf("slug %s taken concurrently, retrying", j.Slug)
	}
	return err
}

func (s *JobService) invalidate(ctx context.Context, slugs ...string) {
	if err := s.cache.Invalidate(ctx, slugs...); err != nil {
		logx.Warnf("job cache invalidation failed for %v: %v", slugs, err)
	}
}
