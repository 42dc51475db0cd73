package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rozgar/jobportal/internal/models"
	"github.com/rozgar/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	// InsertOnce upserts on n.DedupeKey and reports whether a new document was written.
	InsertOnce(ctx context.Context, n *models.Notification) (bool, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID, includeAdmin, unreadOnly bool, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID primitive.ObjectID, at time.Time) (int64, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type notificationRepo struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepository {
	return &notificationRepo{col: db.Collection("notifications")}
}

func (r *notificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, n)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = id
	}
	return nil
}

func (r *notificationRepo) InsertOnce(ctx context.Context, n *models.Notification) (bool, error) {
	if n.DedupeKey == "" {
		return false, errors.New("InsertOnce requires a dedupe key")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"dedupe_key": n.DedupeKey},
		bson.M{"$setOnInsert": n},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// lost an upsert race with another consumer of the same event
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if res.UpsertedCount == 0 {
		return false, nil
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		n.ID = id
	}
	return true, nil
}

func (r *notificationRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var n models.Notification
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func inboxQuery(userID primitive.ObjectID, includeAdmin bool) bson.M {
	scopes := bson.A{
		bson.M{"recipient": models.RecipientUser, "user_id": userID},
		bson.M{"recipient": models.RecipientAll},
	}
	if includeAdmin {
		scopes = append(scopes, bson.M{"recipient": models.RecipientAdmin})
	}
	return bson.M{"$or": scopes}
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID primitive.ObjectID, includeAdmin, unreadOnly bool, limit int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	q := inboxQuery(userID, includeAdmin)
	if unreadOnly {
		q["is_read"] = false
	}

	cur, err := r.col.Find(ctx, q,
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Notification, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Notification, error) {
	var n models.Notification
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at.UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAllRead only touches notifications addressed to this user directly.
func (r *notificationRepo) MarkAllRead(ctx context.Context, userID primitive.ObjectID, at time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"recipient": models.RecipientUser, "user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at.UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"recipient": models.RecipientUser,
		"user_id":   userID,
		"is_read":   false,
	})
}
