package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobStatus string

const (
	JobOpen      JobStatus = "open"
	JobClosed    JobStatus = "closed"
	JobReviewing JobStatus = "reviewing"
)

// ParseJobStatus accepts only the exact lowercase values. Job status has no
// transition table: any state may follow any other.
func ParseJobStatus(s string) (JobStatus, bool) {
	switch st := JobStatus(s); st {
	case JobOpen, JobClosed, JobReviewing:
		return st, true
	}
	return "", false
}

type Job struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Slug         string             `bson:"slug" json:"slug"`
	Description  string             `bson:"description" json:"description"`
	Category     string             `bson:"category" json:"category"`
	City         string             `bson:"city" json:"city"`
	Pincode      string             `bson:"pincode" json:"pincode"`
	Salary       int64              `bson:"salary" json:"salary"`
	Status       JobStatus          `bson:"status" json:"status"`
	EmployerID   primitive.ObjectID `bson:"employer" json:"employer"`
	Requirements []string           `bson:"requirements,omitempty" json:"requirements"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// JobFilter drives the public job listing.
type JobFilter struct {
	Category string
	City     string
	Pincode  string
	Status   JobStatus
	Search   string
	Skip     int64
	Limit    int64
}
