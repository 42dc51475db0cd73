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

type ApplicationRepository interface {
	// Insert returns utils.ErrDuplicate when (user, job) already exists.
	Insert(ctx context.Context, a *models.Application) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
	FindByUserAndJob(ctx context.Context, userID, jobID primitive.ObjectID) (*models.Application, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Application, error)
	ListByEmployer(ctx context.Context, employerID primitive.ObjectID, skip, limit int64) ([]models.Application, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteIfStatus deletes only while the stored status still equals status
	// and reports whether a document was removed.
	DeleteIfStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) (bool, error)
}

type applicationRepo struct {
	col *mongo.Collection
}

func NewApplicationRepo(db *mongo.Database) ApplicationRepository {
	return &applicationRepo{col: db.Collection("applications")}
}

func (r *applicationRepo) Insert(ctx context.Context, a *models.Application) error {
	res, err := r.col.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

func (r *applicationRepo) findOne(ctx context.Context, q bson.M) (*models.Application, error) {
	var a models.Application
	err := r.col.FindOne(ctx, q).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *applicationRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *applicationRepo) FindByUserAndJob(ctx context.Context, userID, jobID primitive.ObjectID) (*models.Application, error) {
	return r.findOne(ctx, bson.M{"user": userID, "job": jobID})
}

func (r *applicationRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Application, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"user": userID},
		options.Find().SetSort(bson.D{{Key: "applied_date", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Application, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *applicationRepo) ListByEmployer(ctx context.Context, employerID primitive.ObjectID, skip, limit int64) ([]models.Application, int64, error) {
	q := bson.M{"employer": employerID}

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.col.Find(ctx, q,
		options.Find().
			SetSort(bson.D{{Key: "applied_date", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit),
	)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := make([]models.Application, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateStatus touches status and updated_at only; job_data is never rewritten.
func (r *applicationRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": at.UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) DeleteIfStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "status": status})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
