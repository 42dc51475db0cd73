package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rozgar/jobportal/internal/models"
	mongorepo "github.com/rozgar/jobportal/internal/repositories/mongo"
	pgrepo "github.com/rozgar/jobportal/internal/repositories/postgres"
	"github.com/rozgar/jobportal/internal/sideeffect"
	"github.com/rozgar/jobportal/internal/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/datatypes"
)

// User-facing apply failures.
const (
	MsgJobNotFound       = "Job not found"
	MsgJobNotOpen        = "This job is no longer accepting applications"
	MsgAlreadyApplied    = "You have already applied for this job"
	MsgAlreadyProcessed  = "Cannot withdraw an application that has already been processed"
	MsgInvalidStatus     = "Invalid status"
	MsgApplicationAbsent = "Application not found"
)

type EmployerApplicationsPage struct {
	Applications []models.EmployerApplication `json:"applications"`
	Count        int                          `json:"count"`
	Total        int64                        `json:"total"`
	TotalPages   int64                        `json:"totalPages"`
	CurrentPage  int64                        `json:"currentPage"`
}

type ApplicationService interface {
	Apply(ctx context.Context, userID, jobID, coverLetter string) (*models.Application, error)
	UpdateStatus(ctx context.Context, applicationID, status, actorID string) (*models.Application, error)
	Withdraw(ctx context.Context, applicationID, actorID string) error
	AdminDelete(ctx context.Context, applicationID, adminID string) error
	ListMine(ctx context.Context, userID string) ([]models.Application, error)
	ListForEmployer(ctx context.Context, employerID string, page, limit int64) (*EmployerApplicationsPage, error)
	History(ctx context.Context, applicationID, actorID string, role models.UserRole) ([]models.ApplicationEvent, error)
}

type applicationService struct {
	apps     mongorepo.ApplicationRepository
	jobs     mongorepo.JobRepository
	users    mongorepo.UserRepository
	audit    pgrepo.ApplicationEventRepository // nil disables the audit trail
	notifier Notifier
	policy   models.TransitionPolicy
	runner   *sideeffect.Runner
	now      func() time.Time
}

func NewApplicationService(
	apps mongorepo.ApplicationRepository,
	jobs mongorepo.JobRepository,
	users mongorepo.UserRepository,
	audit pgrepo.ApplicationEventRepository,
	notifier Notifier,
	policy models.TransitionPolicy,
	l *logrus.Logger,
) ApplicationService {
	if policy == nil {
		policy = models.PermissiveTransitions
	}
	return &applicationService{
		apps:     apps,
		jobs:     jobs,
		users:    users,
		audit:    audit,
		notifier: notifier,
		policy:   policy,
		runner:   sideeffect.NewRunner(l),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *applicationService) Apply(ctx context.Context, userID, jobID, coverLetter string) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	uid, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	jid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, MsgJobNotFound, err)
	}

	job, err := s.jobs.FindByID(ctx, jid)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInvalidArgument, op, MsgJobNotFound, err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.Status != models.JobOpen {
		return nil, utils.E(utils.CodeInvalidArgument, op, MsgJobNotOpen, nil)
	}

	// fast path; the unique index below is what actually guarantees it
	if _, err := s.apps.FindByUserAndJob(ctx, uid, jid); err == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, MsgAlreadyApplied, nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}

	now := s.now()
	app := &models.Application{
		UserID:      uid,
		JobID:       jid,
		EmployerID:  job.EmployerID,
		JobData:     models.SnapshotOf(job),
		AppliedDate: now,
		Status:      models.StatusApplied,
		CoverLetter: coverLetter,
		UpdatedAt:   now,
	}
	if err := s.apps.Insert(ctx, app); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeInvalidArgument, op, MsgAlreadyApplied, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}

	s.record(ctx, app, userID, models.EventApplied, "", models.StatusApplied, nil)
	return app, nil
}

// ownerOf is the live job's employer, or the employer captured at apply time
// once the job is gone.
func (s *applicationService) ownerOf(ctx context.Context, app *models.Application) (primitive.ObjectID, error) {
	job, err := s.jobs.FindByID(ctx, app.JobID)
	if errors.Is(err, utils.ErrNotFound) {
		return app.EmployerID, nil
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return job.EmployerID, nil
}

func statusNotification(app *models.Application, to models.ApplicationStatus) *models.Notification {
	title := app.JobData.Title
	var n *models.Notification
	switch to {
	case models.StatusAccepted:
		n = models.ForUser(app.UserID, models.NotifyApplicationStatus, models.PriorityHigh,
			"Application Accepted",
			fmt.Sprintf("Congratulations! Your application for %q has been accepted. The employer will contact you soon.", title))
	case models.StatusRejected:
		n = models.ForUser(app.UserID, models.NotifyApplicationStatus, models.PriorityMedium,
			"Application Update",
			fmt.Sprintf("There is an update on your application for %q. Keep exploring other opportunities on the portal.", title))
	case models.StatusReviewed:
		n = models.ForUser(app.UserID, models.NotifyApplicationStatus, models.PriorityMedium,
			"Application Reviewed",
			fmt.Sprintf("Your application for %q has been reviewed by the employer.", title))
	default:
		return nil
	}
	return n.About(models.RelatedApplication, app.ID)
}

func (s *applicationService) UpdateStatus(ctx context.Context, applicationID, status, actorID string) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	to, ok := models.ParseApplicationStatus(status)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, MsgInvalidStatus, nil)
	}
	aid, err := parseID(op, "application id", applicationID)
	if err != nil {
		return nil, err
	}
	actor, err := parseID(op, "user id", actorID)
	if err != nil {
		return nil, err
	}

	app, err := s.apps.FindByID(ctx, aid)
	if err != nil {
		return nil, notFoundOr(op, MsgApplicationAbsent, "failed to load application", err)
	}

	owner, err := s.ownerOf(ctx, app)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if owner != actor {
		return nil, utils.E(utils.CodeForbidden, op, "Not authorized to update this application", nil)
	}

	from := app.Status
	if from == to {
		return app, nil
	}
	if !s.policy.Allowed(from, to) {
		return nil, utils.E(utils.CodeInvalidArgument, op,
			fmt.Sprintf("Cannot change application status from %s to %s", from, to), nil)
	}

	now := s.now()
	if err := s.apps.UpdateStatus(ctx, aid, to, now); err != nil {
		return nil, notFoundOr(op, MsgApplicationAbsent, "failed to update application", err)
	}
	app.Status = to
	app.UpdatedAt = now

	var notified []string
	if n := statusNotification(app, to); n != nil && s.notifier != nil {
		if res := s.notifier.Emit(ctx, n); !res.Failed() {
			notified = append(notified, app.UserID.Hex())
		}
	}

	s.record(ctx, app, actorID, models.EventStatusChanged, from, to, notified)
	return app, nil
}

func (s *applicationService) Withdraw(ctx context.Context, applicationID, actorID string) error {
	const op = "ApplicationService.Withdraw"

	aid, err := parseID(op, "application id", applicationID)
	if err != nil {
		return err
	}
	actor, err := parseID(op, "user id", actorID)
	if err != nil {
		return err
	}

	app, err := s.apps.FindByID(ctx, aid)
	if err != nil {
		return notFoundOr(op, MsgApplicationAbsent, "failed to load application", err)
	}
	if app.UserID != actor {
		return utils.E(utils.CodeForbidden, op, "Not authorized to withdraw this application", nil)
	}
	if app.Status != models.StatusApplied {
		return utils.E(utils.CodeInvalidArgument, op, MsgAlreadyProcessed, nil)
	}

	// the status guard runs again inside the delete; an employer may have
	// processed the application since it was read
	deleted, err := s.apps.DeleteIfStatus(ctx, aid, models.StatusApplied)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to withdraw application", err)
	}
	if !deleted {
		if _, err := s.apps.FindByID(ctx, aid); err != nil {
			return notFoundOr(op, MsgApplicationAbsent, "failed to load application", err)
		}
		return utils.E(utils.CodeInvalidArgument, op, MsgAlreadyProcessed, nil)
	}

	var notified []string
	if s.notifier != nil {
		employer, err := s.ownerOf(ctx, app)
		if err != nil {
			employer = app.EmployerID
		}
		n := models.ForUser(employer, models.NotifyApplicationWithdrawn, models.PriorityLow,
			"Application Withdrawn",
			fmt.Sprintf("An applicant has withdrawn their application for %q.", app.JobData.Title)).
			About(models.RelatedJob, app.JobID)
		if res := s.notifier.Emit(ctx, n); !res.Failed() {
			notified = append(notified, employer.Hex())
		}
	}

	s.record(ctx, app, actorID, models.EventWithdrawn, app.Status, "", notified)
	return nil
}

func (s *applicationService) AdminDelete(ctx context.Context, applicationID, adminID string) error {
	const op = "ApplicationService.AdminDelete"

	aid, err := parseID(op, "application id", applicationID)
	if err != nil {
		return err
	}
	app, err := s.apps.FindByID(ctx, aid)
	if err != nil {
		return notFoundOr(op, MsgApplicationAbsent, "failed to load application", err)
	}
	if err := s.apps.Delete(ctx, aid); err != nil {
		return notFoundOr(op, MsgApplicationAbsent, "failed to delete application", err)
	}

	s.record(ctx, app, adminID, models.EventDeleted, app.Status, "", nil)
	return nil
}

func (s *applicationService) ListMine(ctx context.Context, userID string) ([]models.Application, error) {
	const op = "ApplicationService.ListMine"

	uid, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByUser(ctx, uid)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return apps, nil
}

func (s *applicationService) ListForEmployer(ctx context.Context, employerID string, page, limit int64) (*EmployerApplicationsPage, error) {
	const op = "ApplicationService.ListForEmployer"

	eid, err := parseID(op, "user id", employerID)
	if err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	apps, total, err := s.apps.ListByEmployer(ctx, eid, (page-1)*limit, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}

	seen := make(map[primitive.ObjectID]struct{}, len(apps))
	ids := make([]primitive.ObjectID, 0, len(apps))
	for _, a := range apps {
		if _, ok := seen[a.UserID]; !ok {
			seen[a.UserID] = struct{}{}
			ids = append(ids, a.UserID)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load applicants", err)
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	out := make([]models.EmployerApplication, 0, len(apps))
	for _, a := range apps {
		ea := models.EmployerApplication{Application: a}
		if u, ok := byID[a.UserID]; ok {
			ea.Applicant = u.AsApplicant()
		}
		out = append(out, ea)
	}

	return &EmployerApplicationsPage{
		Applications: out,
		Count:        len(out),
		Total:        total,
		TotalPages:   totalPages(total, limit),
		CurrentPage:  page,
	}, nil
}

func (s *applicationService) History(ctx context.Context, applicationID, actorID string, role models.UserRole) ([]models.ApplicationEvent, error) {
	const op = "ApplicationService.History"

	aid, err := parseID(op, "application id", applicationID)
	if err != nil {
		return nil, err
	}
	if s.audit == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "Application history is not available", nil)
	}

	evs, err := s.audit.ListByApplication(ctx, aid.Hex())
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load application history", err)
	}

	// participants come from the live document, or from the trail once it is gone
	var applicant, employer string
	app, err := s.apps.FindByID(ctx, aid)
	switch {
	case err == nil:
		applicant, employer = app.UserID.Hex(), app.EmployerID.Hex()
		if owner, oerr := s.ownerOf(ctx, app); oerr == nil {
			employer = owner.Hex()
		}
	case errors.Is(err, utils.ErrNotFound):
		if len(evs) == 0 {
			return nil, utils.E(utils.CodeNotFound, op, MsgApplicationAbsent, err)
		}
		applicant, employer = evs[0].ApplicantID, evs[0].EmployerID
	default:
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	if role != models.RoleAdmin && actorID != applicant && actorID != employer {
		return nil, utils.E(utils.CodeForbidden, op, "Not authorized to view this application", nil)
	}
	return evs, nil
}

// record appends to the audit trail; failures never reach the caller.
func (s *applicationService) record(ctx context.Context, app *models.Application, actorID string, kind models.ApplicationEventKind, from, to models.ApplicationStatus, notified []string) {
	if s.audit == nil {
		return
	}
	fields := logrus.Fields{"op": "ApplicationService.record", "application_id": app.ID.Hex(), "kind": kind}

	s.runner.Run(ctx, "audit:"+string(kind), fields, func(ctx context.Context) error {
		meta, err := json.Marshal(map[string]any{"jobTitle": app.JobData.Title})
		if err != nil {
			return err
		}
		if notified == nil {
			notified = []string{}
		}
		return s.audit.Insert(ctx, &models.ApplicationEvent{
			ApplicationID: app.ID.Hex(),
			JobID:         app.JobID.Hex(),
			ApplicantID:   app.UserID.Hex(),
			EmployerID:    app.EmployerID.Hex(),
			ActorID:       actorID,
			Kind:          kind,
			FromStatus:    string(from),
			ToStatus:      string(to),
			Notified:      notified,
			Metadata:      datatypes.JSON(meta),
			CreatedAt:     s.now(),
		})
	})
}
