package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rozgar/jobportal/internal/logger"
	"github.com/rozgar/jobportal/internal/mocks"
	"github.com/rozgar/jobportal/internal/models"
	"github.com/rozgar/jobportal/internal/services"
	"github.com/rozgar/jobportal/internal/sideeffect"
	"github.com/rozgar/jobportal/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type appFixture struct {
	apps     *mocks.ApplicationRepository
	jobs     *mocks.JobRepository
	users    *mocks.UserRepository
	audit    *mocks.ApplicationEventRepository
	notifier *mocks.Notifier

	worker   primitive.ObjectID
	employer primitive.ObjectID
	job      *models.Job
}

func newAppFixture() *appFixture {
	employer := primitive.NewObjectID()
	return &appFixture{
		apps:     new(mocks.ApplicationRepository),
		jobs:     new(mocks.JobRepository),
		users:    new(mocks.UserRepository),
		audit:    new(mocks.ApplicationEventRepository),
		notifier: new(mocks.Notifier),
		worker:   primitive.NewObjectID(),
		employer: employer,
		job: &models.Job{
			ID:         primitive.NewObjectID(),
			Title:      "Plumber",
			City:       "Pune",
			Pincode:    "411001",
			Salary:     30000,
			Status:     models.JobOpen,
			EmployerID: employer,
		},
	}
}

// svc builds the service without an audit trail.
func (f *appFixture) svc(policy models.TransitionPolicy) services.ApplicationService {
	return services.NewApplicationService(f.apps, f.jobs, f.users, nil, f.notifier, policy, logger.Discard())
}

func (f *appFixture) application(status models.ApplicationStatus) *models.Application {
	return &models.Application{
		ID:         primitive.NewObjectID(),
		UserID:     f.worker,
		JobID:      f.job.ID,
		EmployerID: f.employer,
		JobData:    models.SnapshotOf(f.job),
		Status:     status,
	}
}

func assertCode(t *testing.T, err error, code utils.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, code), "want %s, got %v", code, err)
	if msg != "" {
		assert.Equal(t, msg, utils.PublicMessage(err))
	}
}

func TestApply_CreatesApplicationWithSnapshot(t *testing.T) {
	f := newAppFixture()
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.apps.On("FindByUserAndJob", mock.Anything, f.worker, f.job.ID).Return(nil, utils.ErrNotFound)

	var stored models.Application
	f.apps.On("Insert", mock.Anything, mock.AnythingOfType("*models.Application")).
		Run(func(args mock.Arguments) { stored = *args.Get(1).(*models.Application) }).
		Return(nil)

	app, err := f.svc(nil).Apply(context.Background(), f.worker.Hex(), f.job.ID.Hex(), "I have 5 years experience")
	require.NoError(t, err)

	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Equal(t, f.employer, app.EmployerID)
	assert.Equal(t, int64(30000), app.JobData.Salary)
	assert.Equal(t, models.JobOpen, app.JobData.Status)
	assert.False(t, app.AppliedDate.IsZero())

	// the employer edits the job through the job service
	raise, title, closed := int64(35000), "Senior Plumber", string(models.JobClosed)
	edited := *f.job
	edited.Salary, edited.Title, edited.Status = raise, title, models.JobClosed
	f.jobs.On("Update", mock.Anything, f.job.ID, mock.Anything).Return(&edited, nil).Once()

	jobs := services.NewJobService(f.jobs, nil, nil, logger.Discard())
	_, err = jobs.Update(context.Background(), f.job.ID.Hex(), f.employer.Hex(), models.RoleEmployer,
		services.JobPatch{Salary: &raise, Title: &title, Status: &closed})
	require.NoError(t, err)

	f.apps.On("ListByUser", mock.Anything, f.worker).Return([]models.Application{stored}, nil)
	mine, err := f.svc(nil).ListMine(context.Background(), f.worker.Hex())
	require.NoError(t, err)
	require.Len(t, mine, 1)

	assert.Equal(t, int64(30000), mine[0].JobData.Salary)
	assert.Equal(t, "Plumber", mine[0].JobData.Title)
	assert.Equal(t, models.JobOpen, mine[0].JobData.Status)
	f.apps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestApply_SecondApplicationForSamePairFails(t *testing.T) {
	f := newAppFixture()
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.apps.On("FindByUserAndJob", mock.Anything, f.worker, f.job.ID).Return(f.application(models.StatusApplied), nil)

	_, err := f.svc(nil).Apply(context.Background(), f.worker.Hex(), f.job.ID.Hex(), "")

	assertCode(t, err, utils.CodeInvalidArgument, services.MsgAlreadyApplied)
	f.apps.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestApply_UniqueIndexViolationIsDuplicate(t *testing.T) {
	// both requests passed the pre-check; the index rejects the loser
	f := newAppFixture()
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.apps.On("FindByUserAndJob", mock.Anything, f.worker, f.job.ID).Return(nil, utils.ErrNotFound)
	f.apps.On("Insert", mock.Anything, mock.Anything).Return(utils.ErrDuplicate)

	_, err := f.svc(nil).Apply(context.Background(), f.worker.Hex(), f.job.ID.Hex(), "")

	assertCode(t, err, utils.CodeInvalidArgument, services.MsgAlreadyApplied)
}

func TestApply_JobNotOpenAlwaysFails(t *testing.T) {
	for _, st := range []models.JobStatus{models.JobClosed, models.JobReviewing} {
		t.Run(string(st), func(t *testing.T) {
			f := newAppFixture()
			f.job.Status = st
			f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)

			_, err := f.svc(nil).Apply(context.Background(), f.worker.Hex(), f.job.ID.Hex(), "")

			assertCode(t, err, utils.CodeInvalidArgument, services.MsgJobNotOpen)
			f.apps.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestApply_MissingJob(t *testing.T) {
	f := newAppFixture()
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(nil, utils.ErrNotFound)

	_, err := f.svc(nil).Apply(context.Background(), f.worker.Hex(), f.job.ID.Hex(), "")
	assertCode(t, err, utils.CodeInvalidArgument, services.MsgJobNotFound)

	_, err = f.svc(nil).Apply(context.Background(), f.worker.Hex(), "not-an-id", "")
	assertCode(t, err, utils.CodeInvalidArgument, services.MsgJobNotFound)
}

func TestApply_RecordsAuditEvent(t *testing.T) {
	f := newAppFixture()
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.apps.On("FindByUserAndJob", mock.Anything, f.worker, f.job.ID).Return(nil, utils.ErrNotFound)
	f.apps.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.audit.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.ApplicationEvent) bool {
		return e.Kind == models.EventApplied && e.ToStatus == "applied" && e.ApplicantID == f.worker.Hex()
	})).Return(errors.New("postgres down"))

	svc := services.NewApplicationService(f.apps, f.jobs, f.users, f.audit, f.notifier, nil, logger.Discard())
	_, err := svc.Apply(context.Background(), f.worker.Hex(), f.job.ID.Hex(), "")

	require.NoError(t, err, "audit failure must not fail the apply")
	f.audit.AssertExpectations(t)
}

func TestUpdateStatus_AcceptedNotifiesOnceAndRepeatIsSilent(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.apps.On("UpdateStatus", mock.Anything, app.ID, models.StatusAccepted, mock.Anything).Return(nil).Once()
	f.notifier.On("Emit", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Title == "Application Accepted" &&
			n.Priority == models.PriorityHigh &&
			n.Recipient == models.RecipientUser &&
			*n.UserID == f.worker &&
			n.RelatedKind == models.RelatedApplication
	})).Return(sideeffect.OK("notification")).Once()

	svc := f.svc(nil)
	got, err := svc.UpdateStatus(context.Background(), app.ID.Hex(), "accepted", f.employer.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)

	// accepted -> accepted
	got, err = svc.UpdateStatus(context.Background(), app.ID.Hex(), "accepted", f.employer.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)

	f.notifier.AssertNumberOfCalls(t, "Emit", 1)
	f.apps.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	for _, st := range []models.ApplicationStatus{models.StatusApplied, models.StatusReviewed, models.StatusRejected} {
		t.Run(string(st), func(t *testing.T) {
			f := newAppFixture()
			app := f.application(st)
			f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
			f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)

			got, err := f.svc(nil).UpdateStatus(context.Background(), app.ID.Hex(), string(st), f.employer.Hex())

			require.NoError(t, err)
			assert.Equal(t, st, got.Status)
			f.apps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.notifier.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatus_NotificationPerTarget(t *testing.T) {
	cases := []struct {
		to       models.ApplicationStatus
		title    string
		priority models.Priority
	}{
		{models.StatusReviewed, "Application Reviewed", models.PriorityMedium},
		{models.StatusRejected, "Application Update", models.PriorityMedium},
	}
	for _, tc := range cases {
		t.Run(string(tc.to), func(t *testing.T) {
			f := newAppFixture()
			app := f.application(models.StatusApplied)
			f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
			f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
			f.apps.On("UpdateStatus", mock.Anything, app.ID, tc.to, mock.Anything).Return(nil)
			f.notifier.On("Emit", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
				return n.Title == tc.title && n.Priority == tc.priority
			})).Return(sideeffect.OK("notification")).Once()

			_, err := f.svc(nil).UpdateStatus(context.Background(), app.ID.Hex(), string(tc.to), f.employer.Hex())

			require.NoError(t, err)
			f.notifier.AssertExpectations(t)
		})
	}
}

func TestUpdateStatus_RejectedWordingIsNeutral(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.apps.On("UpdateStatus", mock.Anything, app.ID, models.StatusRejected, mock.Anything).Return(nil)

	var sent *models.Notification
	f.notifier.On("Emit", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*models.Notification) }).
		Return(sideeffect.OK("notification"))

	_, err := f.svc(nil).UpdateStatus(context.Background(), app.ID.Hex(), "rejected", f.employer.Hex())
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.NotContains(t, sent.Message, "reject")
	assert.NotContains(t, sent.Title, "Reject")
}

func TestUpdateStatus_NonOwnerIsForbiddenAndNothingChanges(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)

	other := primitive.NewObjectID()
	_, err := f.svc(nil).UpdateStatus(context.Background(), app.ID.Hex(), "accepted", other.Hex())

	assertCode(t, err, utils.CodeForbidden, "")
	assert.Equal(t, models.StatusApplied, app.Status)
	f.apps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestUpdateStatus_InvalidStatusAndMissingApplication(t *testing.T) {
	f := newAppFixture()
	missing := primitive.NewObjectID()
	f.apps.On("FindByID", mock.Anything, missing).Return(nil, utils.ErrNotFound)

	_, err := f.svc(nil).UpdateStatus(context.Background(), missing.Hex(), "hired", f.employer.Hex())
	assertCode(t, err, utils.CodeInvalidArgument, services.MsgInvalidStatus)

	_, err = f.svc(nil).UpdateStatus(context.Background(), missing.Hex(), "Accepted", f.employer.Hex())
	assertCode(t, err, utils.CodeInvalidArgument, services.MsgInvalidStatus)

	_, err = f.svc(nil).UpdateStatus(context.Background(), missing.Hex(), "accepted", f.employer.Hex())
	assertCode(t, err, utils.CodeNotFound, services.MsgApplicationAbsent)
}

func TestUpdateStatus_DeletedJobFallsBackToCapturedEmployer(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(nil, utils.ErrNotFound)
	f.apps.On("UpdateStatus", mock.Anything, app.ID, models.StatusReviewed, mock.Anything).Return(nil)
	f.notifier.On("Emit", mock.Anything, mock.Anything).Return(sideeffect.OK("notification"))

	_, err := f.svc(nil).UpdateStatus(context.Background(), app.ID.Hex(), "reviewed", f.employer.Hex())
	require.NoError(t, err)
}

func TestUpdateStatus_NotificationFailureDoesNotFailUpdate(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.apps.On("UpdateStatus", mock.Anything, app.ID, models.StatusAccepted, mock.Anything).Return(nil)
	f.notifier.On("Emit", mock.Anything, mock.Anything).
		Return(sideeffect.Result{Name: "notification", Err: errors.New("mongo timeout")})

	got, err := f.svc(nil).UpdateStatus(context.Background(), app.ID.Hex(), "accepted", f.employer.Hex())

	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
}

// The default policy is permissive: terminal statuses can be reopened.
func TestUpdateStatus_PermissivePolicyAllowsAnyTransition(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusAccepted)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.apps.On("UpdateStatus", mock.Anything, app.ID, models.StatusApplied, mock.Anything).Return(nil)

	got, err := f.svc(models.PermissiveTransitions).UpdateStatus(context.Background(), app.ID.Hex(), "applied", f.employer.Hex())

	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, got.Status)
	// no message is defined for a move back to applied
	f.notifier.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

// With APPLICATION_STRICT_TRANSITIONS the table is forward-only.
func TestUpdateStatus_StrictPolicyRejectsBackwardTransition(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusRejected)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)

	_, err := f.svc(models.StrictTransitions).UpdateStatus(context.Background(), app.ID.Hex(), "accepted", f.employer.Hex())

	assertCode(t, err, utils.CodeInvalidArgument, "")
	assert.Equal(t, models.StatusRejected, app.Status)
	f.apps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdraw_AppliedDeletesAndNotifiesEmployer(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.apps.On("DeleteIfStatus", mock.Anything, app.ID, models.StatusApplied).Return(true, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.notifier.On("Emit", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Type == models.NotifyApplicationWithdrawn &&
			n.Priority == models.PriorityLow &&
			*n.UserID == f.employer
	})).Return(sideeffect.OK("notification")).Once()

	err := f.svc(nil).Withdraw(context.Background(), app.ID.Hex(), f.worker.Hex())

	require.NoError(t, err)
	f.apps.AssertCalled(t, "DeleteIfStatus", mock.Anything, app.ID, models.StatusApplied)
	f.notifier.AssertExpectations(t)
}

func TestWithdraw_NotificationFailureIsSwallowed(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.apps.On("DeleteIfStatus", mock.Anything, app.ID, models.StatusApplied).Return(true, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)
	f.notifier.On("Emit", mock.Anything, mock.Anything).
		Return(sideeffect.Result{Name: "notification", Err: errors.New("boom")})

	assert.NoError(t, f.svc(nil).Withdraw(context.Background(), app.ID.Hex(), f.worker.Hex()))
}

func TestWithdraw_ProcessedApplicationAlwaysFails(t *testing.T) {
	for _, st := range []models.ApplicationStatus{models.StatusReviewed, models.StatusAccepted, models.StatusRejected} {
		t.Run(string(st), func(t *testing.T) {
			f := newAppFixture()
			app := f.application(st)
			f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)

			err := f.svc(nil).Withdraw(context.Background(), app.ID.Hex(), f.worker.Hex())

			assertCode(t, err, utils.CodeInvalidArgument, services.MsgAlreadyProcessed)
			f.apps.AssertNotCalled(t, "DeleteIfStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestWithdraw_OnlyOwnerAndMissing(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	missing := primitive.NewObjectID()
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.apps.On("FindByID", mock.Anything, missing).Return(nil, utils.ErrNotFound)

	err := f.svc(nil).Withdraw(context.Background(), app.ID.Hex(), primitive.NewObjectID().Hex())
	assertCode(t, err, utils.CodeForbidden, "")

	err = f.svc(nil).Withdraw(context.Background(), missing.Hex(), f.worker.Hex())
	assertCode(t, err, utils.CodeNotFound, "")

	f.apps.AssertNotCalled(t, "DeleteIfStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdraw_EmployerDecidesBetweenReadAndDelete(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	decided := *app
	decided.Status = models.StatusAccepted
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil).Once()
	f.apps.On("FindByID", mock.Anything, app.ID).Return(&decided, nil).Once()
	f.apps.On("DeleteIfStatus", mock.Anything, app.ID, models.StatusApplied).Return(false, nil)

	err := f.svc(nil).Withdraw(context.Background(), app.ID.Hex(), f.worker.Hex())

	assertCode(t, err, utils.CodeInvalidArgument, services.MsgAlreadyProcessed)
	f.apps.AssertNumberOfCalls(t, "FindByID", 2)
	f.notifier.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestWithdraw_RemovedBetweenReadAndDelete(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil).Once()
	f.apps.On("FindByID", mock.Anything, app.ID).Return(nil, utils.ErrNotFound).Once()
	f.apps.On("DeleteIfStatus", mock.Anything, app.ID, models.StatusApplied).Return(false, nil)

	err := f.svc(nil).Withdraw(context.Background(), app.ID.Hex(), f.worker.Hex())

	assertCode(t, err, utils.CodeNotFound, services.MsgApplicationAbsent)
	f.notifier.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestAdminDelete_AnyStatusNoNotification(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusAccepted)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.apps.On("Delete", mock.Anything, app.ID).Return(nil)

	require.NoError(t, f.svc(nil).AdminDelete(context.Background(), app.ID.Hex(), primitive.NewObjectID().Hex()))
	f.notifier.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestListForEmployer_PagingAndApplicants(t *testing.T) {
	f := newAppFixture()
	a1 := f.application(models.StatusApplied)
	a2 := f.application(models.StatusReviewed)
	a2.UserID = primitive.NewObjectID() // applicant account since deleted

	f.apps.On("ListByEmployer", mock.Anything, f.employer, int64(0), int64(10)).
		Return([]models.Application{*a1, *a2}, int64(25), nil)
	f.users.On("FindByIDs", mock.Anything, []primitive.ObjectID{f.worker, a2.UserID}).
		Return([]models.User{{ID: f.worker, Name: "Asha", Email: "asha@example.com", City: "Pune", Skills: []string{"welding"}}}, nil)

	page, err := f.svc(nil).ListForEmployer(context.Background(), f.employer.Hex(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.CurrentPage)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.Count)
	require.NotNil(t, page.Applications[0].Applicant)
	assert.Equal(t, "Asha", page.Applications[0].Applicant.Name)
	assert.Nil(t, page.Applications[1].Applicant)
}

func TestListForEmployer_LimitIsCapped(t *testing.T) {
	f := newAppFixture()
	f.apps.On("ListByEmployer", mock.Anything, f.employer, int64(200), int64(100)).
		Return([]models.Application{}, int64(0), nil)
	f.users.On("FindByIDs", mock.Anything, []primitive.ObjectID{}).Return([]models.User{}, nil)

	page, err := f.svc(nil).ListForEmployer(context.Background(), f.employer.Hex(), 3, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.CurrentPage)
	assert.Equal(t, int64(0), page.TotalPages)
}

func TestHistory_Authorization(t *testing.T) {
	f := newAppFixture()
	app := f.application(models.StatusApplied)
	evs := []models.ApplicationEvent{{ApplicationID: app.ID.Hex(), Kind: models.EventApplied, ApplicantID: f.worker.Hex(), EmployerID: f.employer.Hex()}}
	f.audit.On("ListByApplication", mock.Anything, app.ID.Hex()).Return(evs, nil)
	f.apps.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	f.jobs.On("FindByID", mock.Anything, f.job.ID).Return(f.job, nil)

	svc := services.NewApplicationService(f.apps, f.jobs, f.users, f.audit, f.notifier, nil, logger.Discard())

	got, err := svc.History(context.Background(), app.ID.Hex(), f.worker.Hex(), models.RoleWorker)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.History(context.Background(), app.ID.Hex(), f.employer.Hex(), models.RoleEmployer)
	require.NoError(t, err)

	_, err = svc.History(context.Background(), app.ID.Hex(), primitive.NewObjectID().Hex(), models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.History(context.Background(), app.ID.Hex(), primitive.NewObjectID().Hex(), models.RoleWorker)
	assertCode(t, err, utils.CodeForbidden, "")
}

func TestHistory_WithdrawnApplicationUsesTrail(t *testing.T) {
	f := newAppFixture()
	gone := primitive.NewObjectID()
	evs := []models.ApplicationEvent{
		{ApplicationID: gone.Hex(), Kind: models.EventApplied, ApplicantID: f.worker.Hex(), EmployerID: f.employer.Hex()},
		{ApplicationID: gone.Hex(), Kind: models.EventWithdrawn, ApplicantID: f.worker.Hex(), EmployerID: f.employer.Hex()},
	}
	f.audit.On("ListByApplication", mock.Anything, gone.Hex()).Return(evs, nil)
	f.apps.On("FindByID", mock.Anything, gone).Return(nil, utils.ErrNotFound)

	svc := services.NewApplicationService(f.apps, f.jobs, f.users, f.audit, f.notifier, nil, logger.Discard())

	got, err := svc.History(context.Background(), gone.Hex(), f.worker.Hex(), models.RoleWorker)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
