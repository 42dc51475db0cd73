package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/rozgar/jobportal/internal/models"
	"github.com/rozgar/jobportal/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestApplicationRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert duplicate maps to ErrDuplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))
		repo := NewApplicationRepo(mt.DB)

		err := repo.Insert(context.Background(), &models.Application{
			ID:     primitive.NewObjectID(),
			UserID: primitive.NewObjectID(),
			JobID:  primitive.NewObjectID(),
		})
		assert.ErrorIs(t, err, utils.ErrDuplicate)
	})

	mt.Run("find missing maps to ErrNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.applications", mtest.FirstBatch))
		repo := NewApplicationRepo(mt.DB)

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})

	mt.Run("update status on missing application", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})
		repo := NewApplicationRepo(mt.DB)

		err := repo.UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusAccepted, time.Now())
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})

	mt.Run("delete if status filters on current status", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})
		repo := NewApplicationRepo(mt.DB)

		deleted, err := repo.DeleteIfStatus(context.Background(), primitive.NewObjectID(), models.StatusApplied)
		require.NoError(t, err)
		assert.True(t, deleted)

		evt := mt.GetStartedEvent()
		require.NotNil(t, evt)
		assert.Equal(t, "applied", evt.Command.Lookup("deletes", "0", "q", "status").StringValue())
	})

	mt.Run("delete if status loses to a concurrent decision", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})
		repo := NewApplicationRepo(mt.DB)

		deleted, err := repo.DeleteIfStatus(context.Background(), primitive.NewObjectID(), models.StatusApplied)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestUserRepo_ListIDsByRole(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes ids across batches", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, "db.users", mtest.FirstBatch, bson.D{{Key: "_id", Value: a}})
		next := mtest.CreateCursorResponse(0, "db.users", mtest.NextBatch, bson.D{{Key: "_id", Value: b}})
		mt.AddMockResponses(first, next)

		ids, err := NewUserRepo(mt.DB).ListIDsByRole(context.Background(), models.RoleWorker)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{a, b}, ids)
	})

	mt.Run("delete of unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		err := NewUserRepo(mt.DB).Delete(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})
}

func TestNotificationRepo_InsertOnce(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("requires a dedupe key", func(mt *mtest.T) {
		n := models.ForUser(primitive.NewObjectID(), models.NotifyJobPosted, models.PriorityLow, "t", "m")
		_, err := NewNotificationRepo(mt.DB).InsertOnce(context.Background(), n)
		assert.Error(t, err)
	})

	mt.Run("upsert creates", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "n", Value: 1},
			{Key: "nModified", Value: 0},
			{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
		})
		n := models.ForUser(primitive.NewObjectID(), models.NotifyJobPosted, models.PriorityLow, "t", "m")
		n.DedupeKey = "job_posted:a:b"

		created, err := NewNotificationRepo(mt.DB).InsertOnce(context.Background(), n)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, id, n.ID)
	})

	mt.Run("existing key is not rewritten", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 0}})
		n := models.ForUser(primitive.NewObjectID(), models.NotifyJobPosted, models.PriorityLow, "t", "m")
		n.DedupeKey = "job_posted:a:b"

		created, err := NewNotificationRepo(mt.DB).InsertOnce(context.Background(), n)
		require.NoError(t, err)
		assert.False(t, created)
	})

	mt.Run("lost upsert race", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))
		n := models.ForUser(primitive.NewObjectID(), models.NotifyJobPosted, models.PriorityLow, "t", "m")
		n.DedupeKey = "job_posted:a:b"

		created, err := NewNotificationRepo(mt.DB).InsertOnce(context.Background(), n)
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestJobQuery(t *testing.T) {
	q := jobQuery(models.JobFilter{City: "Navi Mumbai (W)", Search: "c++", Status: models.JobOpen})

	assert.Equal(t, primitive.Regex{Pattern: `^Navi Mumbai \(W\)$`, Options: "i"}, q["city"])
	assert.Equal(t, models.JobOpen, q["status"])
	or, ok := q["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 2)
	assert.Equal(t, bson.M{"title": primitive.Regex{Pattern: `c\+\+`, Options: "i"}}, or[0])

	assert.Empty(t, jobQuery(models.JobFilter{}))
}

func TestInboxQuery_AdminScopeOnlyForAdmins(t *testing.T) {
	uid := primitive.NewObjectID()
	assert.Len(t, inboxQuery(uid, false)["$or"], 2)
	assert.Len(t, inboxQuery(uid, true)["$or"], 3)
}
