package services

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rozgar/jobportal/internal/cache"
	"github.com/rozgar/jobportal/internal/events"
	"github.com/rozgar/jobportal/internal/models"
	mongorepo "github.com/rozgar/jobportal/internal/repositories/mongo"
	"github.com/rozgar/jobportal/internal/sideeffect"
	"github.com/rozgar/jobportal/internal/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	City         string   `json:"city"`
	Pincode      string   `json:"pincode"`
	Salary       int64    `json:"salary"`
	Status       string   `json:"status"`
	Requirements []string `json:"requirements"`
}

// JobPatch is a partial update; nil fields are left alone.
type JobPatch struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	City         *string   `json:"city"`
	Pincode      *string   `json:"pincode"`
	Salary       *int64    `json:"salary"`
	Status       *string   `json:"status"`
	Requirements *[]string `json:"requirements"`
}

type JobQuery struct {
	Category string
	City     string
	Pincode  string
	Status   string
	Search   string
	Page     int64
	Limit    int64
}

type JobPage struct {
	Jobs        []models.Job `json:"jobs"`
	Count       int          `json:"count"`
	Total       int64        `json:"total"`
	TotalPages  int64        `json:"totalPages"`
	CurrentPage int64        `json:"currentPage"`
}

type JobService interface {
	Create(ctx context.Context, employerID string, in JobInput) (*models.Job, error)
	Get(ctx context.Context, jobID string) (*models.Job, error)
	List(ctx context.Context, q JobQuery) (*JobPage, error)
	ListMine(ctx context.Context, employerID string) ([]models.Job, error)
	Update(ctx context.Context, jobID, actorID string, role models.UserRole, patch JobPatch) (*models.Job, error)
	Delete(ctx context.Context, jobID, actorID string, role models.UserRole) error
}

type jobService struct {
	jobs      mongorepo.JobRepository
	cache     cache.Cache
	publisher events.Publisher
	runner    *sideeffect.Runner
}

func NewJobService(jobs mongorepo.JobRepository, c cache.Cache, pub events.Publisher, l *logrus.Logger) JobService {
	if c == nil {
		c = cache.Noop{}
	}
	return &jobService{
		jobs:      jobs,
		cache:     c,
		publisher: pub,
		runner:    sideeffect.NewRunner(l),
	}
}

// JobSlug is the title slug plus the last six hex digits of the id.
func JobSlug(title string, id primitive.ObjectID) string {
	hex := id.Hex()
	base := slug.Make(title)
	if base == "" {
		base = "job"
	}
	return base + "-" + hex[len(hex)-6:]
}

func (s *jobService) Create(ctx context.Context, employerID string, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	eid, err := parseID(op, "user id", employerID)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.City = strings.TrimSpace(in.City)
	in.Pincode = strings.TrimSpace(in.Pincode)

	if in.Title == "" || in.Description == "" || in.Category == "" || in.City == "" || in.Pincode == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title, description, category, city and pincode are required", nil)
	}
	if in.Salary < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "salary must not be negative", nil)
	}

	status := models.JobOpen
	if in.Status != "" {
		st, ok := models.ParseJobStatus(in.Status)
		if !ok {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid job status", nil)
		}
		status = st
	}

	id := primitive.NewObjectID()
	job := &models.Job{
		ID:           id,
		Title:        in.Title,
		Slug:         JobSlug(in.Title, id),
		Description:  in.Description,
		Category:     in.Category,
		City:         in.City,
		Pincode:      in.Pincode,
		Salary:       in.Salary,
		Status:       status,
		EmployerID:   eid,
		Requirements: in.Requirements,
	}
	if job.Requirements == nil {
		job.Requirements = []string{}
	}

	if err := s.jobs.Insert(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}

	if s.publisher != nil {
		ev := events.JobPosted{
			JobID:      job.ID.Hex(),
			EmployerID: employerID,
			Title:      job.Title,
			PostedAt:   job.CreatedAt,
		}
		s.runner.Run(ctx, "publish:job_posted", logrus.Fields{"op": op, "job_id": ev.JobID}, func(ctx context.Context) error {
			return s.publisher.PublishJobPosted(ctx, ev)
		})
	}
	return job, nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "JobService.Get"

	id, err := parseID(op, "job id", jobID)
	if err != nil {
		return nil, err
	}

	key := cache.JobKey(jobID)
	var cached models.Job
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, MsgJobNotFound, "failed to load job", err)
	}
	_ = s.cache.SetJSON(ctx, key, job, cache.JobTTL)
	return job, nil
}

func (s *jobService) List(ctx context.Context, q JobQuery) (*JobPage, error) {
	const op = "JobService.List"

	f := models.JobFilter{
		Category: strings.TrimSpace(q.Category),
		City:     strings.TrimSpace(q.City),
		Pincode:  strings.TrimSpace(q.Pincode),
		Search:   strings.TrimSpace(q.Search),
	}
	if q.Status != "" {
		st, ok := models.ParseJobStatus(q.Status)
		if !ok {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid job status", nil)
		}
		f.Status = st
	}
	page, limit := normalizePage(q.Page, q.Limit)
	f.Skip, f.Limit = (page-1)*limit, limit

	jobs, total, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return &JobPage{
		Jobs:        jobs,
		Count:       len(jobs),
		Total:       total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (s *jobService) ListMine(ctx context.Context, employerID string) ([]models.Job, error) {
	const op = "JobService.ListMine"

	eid, err := parseID(op, "user id", employerID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListByEmployer(ctx, eid)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return jobs, nil
}

// authorize loads the job and checks the actor owns it, unless admin.
func (s *jobService) authorize(ctx context.Context, op, jobID, actorID string, role models.UserRole) (*models.Job, error) {
	id, err := parseID(op, "job id", jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(op, MsgJobNotFound, "failed to load job", err)
	}
	if role != models.RoleAdmin && job.EmployerID.Hex() != actorID {
		return nil, utils.E(utils.CodeForbidden, op, "Not authorized to modify this job", nil)
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, jobID, actorID string, role models.UserRole, patch JobPatch) (*models.Job, error) {
	const op = "JobService.Update"

	job, err := s.authorize(ctx, op, jobID, actorID, role)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	str := func(field string, v *string) error {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			return utils.E(utils.CodeInvalidArgument, op, field+" must not be empty", nil)
		}
		set[field] = t
		return nil
	}
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"title", patch.Title},
		{"description", patch.Description},
		{"category", patch.Category},
		{"city", patch.City},
		{"pincode", patch.Pincode},
	} {
		if err := str(f.name, f.v); err != nil {
			return nil, err
		}
	}
	if patch.Salary != nil {
		if *patch.Salary < 0 {
			return nil, utils.E(utils.CodeInvalidArgument, op, "salary must not be negative", nil)
		}
		set["salary"] = *patch.Salary
	}
	if patch.Status != nil {
		st, ok := models.ParseJobStatus(*patch.Status)
		if !ok {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid job status", nil)
		}
		set["status"] = st
	}
	if patch.Requirements != nil {
		set["requirements"] = *patch.Requirements
	}
	if len(set) == 0 {
		return job, nil
	}

	updated, err := s.jobs.Update(ctx, job.ID, set)
	if err != nil {
		return nil, notFoundOr(op, MsgJobNotFound, "failed to update job", err)
	}
	_ = s.cache.Del(ctx, cache.JobKey(jobID))
	return updated, nil
}

// Delete never touches applications; they keep their snapshot.
func (s *jobService) Delete(ctx context.Context, jobID, actorID string, role models.UserRole) error {
	const op = "JobService.Delete"

	job, err := s.authorize(ctx, op, jobID, actorID, role)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, job.ID); err != nil {
		return notFoundOr(op, MsgJobNotFound, "failed to delete job", err)
	}
	_ = s.cache.Del(ctx, cache.JobKey(jobID))
	return nil
}
