package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/rozgar/jobportal/internal/cache"
	"github.com/rozgar/jobportal/internal/events"
	"github.com/rozgar/jobportal/internal/logger"
	"github.com/rozgar/jobportal/internal/mocks"
	"github.com/rozgar/jobportal/internal/models"
	"github.com/rozgar/jobportal/internal/services"
	"github.com/rozgar/jobportal/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validJobInput() services.JobInput {
	return services.JobInput{
		Title:       "Senior Electrician",
		Description: "Wiring for a new site",
		Category:    "construction",
		City:        "Nagpur",
		Pincode:     "440001",
		Salary:      30000,
	}
}

func TestJobSlug(t *testing.T) {
	id := primitive.NewObjectID()
	s := services.JobSlug("Senior Electrician (Night Shift)", id)

	assert.Regexp(t, regexp.MustCompile(`^senior-electrician-night-shift-[0-9a-f]{6}$`), s)
	assert.Equal(t, id.Hex()[18:], s[len(s)-6:])
	assert.Regexp(t, `^job-[0-9a-f]{6}$`, services.JobSlug("!!!", id))
}

func TestCreateJob_DefaultsAndPublishes(t *testing.T) {
	jobs := new(mocks.JobRepository)
	pub := new(mocks.Publisher)
	employer := primitive.NewObjectID()

	jobs.On("Insert", mock.Anything, mock.AnythingOfType("*models.Job")).Return(nil)
	pub.On("PublishJobPosted", mock.Anything, mock.MatchedBy(func(ev events.JobPosted) bool {
		return ev.EmployerID == employer.Hex() && ev.Title == "Senior Electrician"
	})).Return(nil).Once()

	svc := services.NewJobService(jobs, cache.Noop{}, pub, logger.Discard())
	job, err := svc.Create(context.Background(), employer.Hex(), validJobInput())

	require.NoError(t, err)
	assert.Equal(t, models.JobOpen, job.Status)
	assert.Equal(t, employer, job.EmployerID)
	assert.False(t, job.ID.IsZero())
	assert.Equal(t, services.JobSlug(job.Title, job.ID), job.Slug)
	assert.NotNil(t, job.Requirements)
	pub.AssertExpectations(t)
}

func TestCreateJob_PublishFailureDoesNotFailCreate(t *testing.T) {
	jobs := new(mocks.JobRepository)
	pub := new(mocks.Publisher)
	jobs.On("Insert", mock.Anything, mock.Anything).Return(nil)
	pub.On("PublishJobPosted", mock.Anything, mock.Anything).Return(errors.New("1 of 3 writes failed"))

	svc := services.NewJobService(jobs, cache.Noop{}, pub, logger.Discard())
	job, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), validJobInput())

	require.NoError(t, err)
	assert.NotNil(t, job)
}

// With the inline publisher, the fan-out has settled before Create returns.
func TestCreateJob_InlineFanoutCompletesBeforeReturn(t *testing.T) {
	jobs := new(mocks.JobRepository)
	notifs := new(mocks.NotificationRepository)
	users := new(mocks.UserRepository)

	workers := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	jobs.On("Insert", mock.Anything, mock.Anything).Return(nil)
	users.On("ListIDsByRole", mock.Anything, models.RoleWorker).Return(workers, nil)
	notifs.On("InsertOnce", mock.Anything, mock.Anything).Return(true, nil)

	notifier := services.NewNotificationService(notifs, users, cache.Noop{}, nil, logger.Discard(), 16)
	svc := services.NewJobService(jobs, cache.Noop{}, events.NewInlinePublisher(notifier), logger.Discard())

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), validJobInput())

	require.NoError(t, err)
	notifs.AssertNumberOfCalls(t, "InsertOnce", 3)
}

func TestCreateJob_Validation(t *testing.T) {
	svc := services.NewJobService(new(mocks.JobRepository), cache.Noop{}, nil, logger.Discard())
	employer := primitive.NewObjectID().Hex()

	in := validJobInput()
	in.Title = "  "
	_, err := svc.Create(context.Background(), employer, in)
	assertCode(t, err, utils.CodeInvalidArgument, "")

	in = validJobInput()
	in.Salary = -1
	_, err = svc.Create(context.Background(), employer, in)
	assertCode(t, err, utils.CodeInvalidArgument, "")

	in = validJobInput()
	in.Status = "archived"
	_, err = svc.Create(context.Background(), employer, in)
	assertCode(t, err, utils.CodeInvalidArgument, "")
}

func TestUpdateJob_OwnerOrAdmin(t *testing.T) {
	jobs := new(mocks.JobRepository)
	c := new(mocks.Cache)
	owner := primitive.NewObjectID()
	job := &models.Job{ID: primitive.NewObjectID(), Title: "Cook", EmployerID: owner, Status: models.JobOpen}

	closed := "closed"
	jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	jobs.On("Update", mock.Anything, job.ID, bson.M{"status": models.JobClosed}).
		Return(&models.Job{ID: job.ID, Status: models.JobClosed}, nil)
	c.On("Del", mock.Anything, cache.JobKey(job.ID.Hex())).Return(nil)

	svc := services.NewJobService(jobs, c, nil, logger.Discard())

	_, err := svc.Update(context.Background(), job.ID.Hex(), primitive.NewObjectID().Hex(), models.RoleEmployer, services.JobPatch{Status: &closed})
	assertCode(t, err, utils.CodeForbidden, "")

	got, err := svc.Update(context.Background(), job.ID.Hex(), owner.Hex(), models.RoleEmployer, services.JobPatch{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, models.JobClosed, got.Status)

	_, err = svc.Update(context.Background(), job.ID.Hex(), primitive.NewObjectID().Hex(), models.RoleAdmin, services.JobPatch{Status: &closed})
	require.NoError(t, err)

	bad := "paused"
	_, err = svc.Update(context.Background(), job.ID.Hex(), owner.Hex(), models.RoleEmployer, services.JobPatch{Status: &bad})
	assertCode(t, err, utils.CodeInvalidArgument, "")

	c.AssertNumberOfCalls(t, "Del", 2)
}

func TestDeleteJob_NoCascade(t *testing.T) {
	jobs := new(mocks.JobRepository)
	owner := primitive.NewObjectID()
	job := &models.Job{ID: primitive.NewObjectID(), EmployerID: owner}
	jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	jobs.On("Delete", mock.Anything, job.ID).Return(nil)

	svc := services.NewJobService(jobs, cache.Noop{}, nil, logger.Discard())
	require.NoError(t, svc.Delete(context.Background(), job.ID.Hex(), owner.Hex(), models.RoleEmployer))
	jobs.AssertExpectations(t)
}

func TestGetJob_NotFound(t *testing.T) {
	jobs := new(mocks.JobRepository)
	id := primitive.NewObjectID()
	jobs.On("FindByID", mock.Anything, id).Return(nil, utils.ErrNotFound)

	svc := services.NewJobService(jobs, cache.Noop{}, nil, logger.Discard())
	_, err := svc.Get(context.Background(), id.Hex())
	assertCode(t, err, utils.CodeNotFound, services.MsgJobNotFound)
}

func TestListJobs_FilterAndPaging(t *testing.T) {
	jobs := new(mocks.JobRepository)
	jobs.On("List", mock.Anything, models.JobFilter{
		City: "Pune", Status: models.JobOpen, Search: "driver", Skip: 20, Limit: 10,
	}).Return([]models.Job{{Title: "Driver"}}, int64(21), nil)

	svc := services.NewJobService(jobs, cache.Noop{}, nil, logger.Discard())
	page, err := svc.List(context.Background(), services.JobQuery{City: " Pune ", Status: "open", Search: "driver", Page: 3})

	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, int64(3), page.CurrentPage)
	assert.Equal(t, 1, page.Count)
}
