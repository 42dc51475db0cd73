package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(db *mongo.Database) error {
	if db == nil {
		return errors.New("mongo database is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	plan := map[string][]mongo.IndexModel{
		"users": {
			// one account per email per role
			{
				Keys:    bson.D{{Key: "email", Value: 1}, {Key: "role", Value: 1}},
				Options: options.Index().SetName("uniq_email_role").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "role", Value: 1}},
				Options: options.Index().SetName("by_role"),
			},
		},
		"jobs": {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetName("uniq_slug").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "employer", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("by_employer_created"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("by_status_created"),
			},
		},
		"applications": {
			// at most one application per (worker, job), enforced by storage
			{
				Keys:    bson.D{{Key: "user", Value: 1}, {Key: "job", Value: 1}},
				Options: options.Index().SetName("uniq_user_job").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "employer", Value: 1}, {Key: "applied_date", Value: -1}},
				Options: options.Index().SetName("by_employer_applied"),
			},
			{
				Keys:    bson.D{{Key: "user", Value: 1}, {Key: "applied_date", Value: -1}},
				Options: options.Index().SetName("by_user_applied"),
			},
		},
		"notifications": {
			{
				Keys: bson.D{{Key: "dedupe_key", Value: 1}},
				Options: options.Index().
					SetName("uniq_dedupe_key").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"dedupe_key": bson.M{"$exists": true}}),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("by_user_created"),
			},
			{
				Keys:    bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("by_recipient_created"),
			},
		},
	}

	for col, models := range plan {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes for %s: %w", col, err)
		}
	}
	return nil
}
