package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationStatus string

const (
	StatusApplied  ApplicationStatus = "applied"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus is case-sensitive.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch st := ApplicationStatus(s); st {
	case StatusApplied, StatusReviewed, StatusAccepted, StatusRejected:
		return st, true
	}
	return "", false
}

// JobSnapshot is copied from the job when the application is created and is
// never refreshed afterwards, even if the job changes or is deleted.
type JobSnapshot struct {
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	City        string    `bson:"city" json:"city"`
	Pincode     string    `bson:"pincode" json:"pincode"`
	Salary      int64     `bson:"salary" json:"salary"`
	Status      JobStatus `bson:"status" json:"status"`
}

func SnapshotOf(j *Job) JobSnapshot {
	return JobSnapshot{
		Title:       j.Title,
		Description: j.Description,
		Category:    j.Category,
		City:        j.City,
		Pincode:     j.Pincode,
		Salary:      j.Salary,
		Status:      j.Status,
	}
}

// Application is stored in the "applications" collection; (user, job) is unique.
type Application struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"user"`
	JobID       primitive.ObjectID `bson:"job" json:"job"`
	EmployerID  primitive.ObjectID `bson:"employer" json:"employer"`
	JobData     JobSnapshot        `bson:"job_data" json:"jobData"`
	AppliedDate time.Time          `bson:"applied_date" json:"appliedDate"`
	Status      ApplicationStatus  `bson:"status" json:"status"`
	CoverLetter string             `bson:"cover_letter,omitempty" json:"coverLetter"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// EmployerApplication is the employer-facing view with the applicant attached.
type EmployerApplication struct {
	Application
	Applicant *Applicant `json:"applicant,omitempty"`
}
