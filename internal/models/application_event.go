package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type ApplicationEventKind string

const (
	EventApplied       ApplicationEventKind = "applied"
	EventStatusChanged ApplicationEventKind = "status_changed"
	EventWithdrawn     ApplicationEventKind = "withdrawn"
	EventDeleted       ApplicationEventKind = "deleted"
)

// ApplicationEvent is the Postgres audit trail of an application. It outlives
// the Mongo document, so withdrawn and deleted applications keep a history.
type ApplicationEvent struct {
	ID            string               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ApplicationID string               `gorm:"column:application_id;type:text;index" json:"applicationId"`
	JobID         string               `gorm:"column:job_id;type:text;index" json:"jobId"`
	ApplicantID   string               `gorm:"column:applicant_id;type:text;index" json:"applicantId"`
	EmployerID    string               `gorm:"column:employer_id;type:text;index" json:"employerId"`
	ActorID       string               `gorm:"column:actor_id;type:text" json:"actorId"`
	Kind          ApplicationEventKind `gorm:"column:kind;type:text" json:"kind"`
	FromStatus    string               `gorm:"column:from_status;type:text" json:"fromStatus,omitempty"`
	ToStatus      string               `gorm:"column:to_status;type:text" json:"toStatus,omitempty"`
	Notified      pq.StringArray       `gorm:"column:notified;type:text[]" json:"notified"`
	Metadata      datatypes.JSON       `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time            `gorm:"column:created_at;type:timestamptz;index" json:"createdAt"`
}

func (ApplicationEvent) TableName() string { return "application_events" }
