package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotifyJobPosted            NotificationType = "job_posted"
	NotifyApplicationStatus    NotificationType = "application_status"
	NotifyApplicationWithdrawn NotificationType = "application_withdrawn"
)

type RecipientScope string

const (
	RecipientAdmin RecipientScope = "admin"
	RecipientAll   RecipientScope = "all"
	RecipientUser  RecipientScope = "user"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type RelatedKind string

const (
	RelatedJob         RelatedKind = "job"
	RelatedApplication RelatedKind = "application"
)

// Notification is append-only: the system never deletes one, and the only
// mutation is the target user marking it read.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type        NotificationType    `bson:"type" json:"type"`
	Title       string              `bson:"title" json:"title"`
	Message     string              `bson:"message" json:"message"`
	Recipient   RecipientScope      `bson:"recipient" json:"recipient"`
	UserID      *primitive.ObjectID `bson:"user_id,omitempty" json:"user,omitempty"`
	RelatedID   *primitive.ObjectID `bson:"related_id,omitempty" json:"relatedId,omitempty"`
	RelatedKind RelatedKind         `bson:"related_kind,omitempty" json:"relatedKind,omitempty"`
	Priority    Priority            `bson:"priority" json:"priority"`
	IsRead      bool                `bson:"is_read" json:"isRead"`
	ReadAt      *time.Time          `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`

	// DedupeKey makes repeated deliveries of the same event collapse into one document.
	DedupeKey string `bson:"dedupe_key,omitempty" json:"-"`
}

var (
	ErrNotificationType       = errors.New("unknown notification type")
	ErrNotificationScope      = errors.New("unknown recipient scope")
	ErrNotificationPriority   = errors.New("unknown notification priority")
	ErrNotificationTarget     = errors.New("user-scoped notification requires a target user")
	ErrNotificationUntargeted = errors.New("only user-scoped notifications may carry a target user")
	ErrNotificationText       = errors.New("notification title and message are required")
)

func (n *Notification) Validate() error {
	switch n.Type {
	case NotifyJobPosted, NotifyApplicationStatus, NotifyApplicationWithdrawn:
	default:
		return ErrNotificationType
	}
	switch n.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrNotificationPriority
	}
	switch n.Recipient {
	case RecipientUser:
		if n.UserID == nil || n.UserID.IsZero() {
			return ErrNotificationTarget
		}
	case RecipientAll, RecipientAdmin:
		if n.UserID != nil {
			return ErrNotificationUntargeted
		}
	default:
		return ErrNotificationScope
	}
	if n.Title == "" || n.Message == "" {
		return ErrNotificationText
	}
	return nil
}

// ForUser builds a user-scoped notification.
func ForUser(userID primitive.ObjectID, typ NotificationType, priority Priority, title, message string) *Notification {
	uid := userID
	return &Notification{
		Type:      typ,
		Title:     title,
		Message:   message,
		Recipient: RecipientUser,
		UserID:    &uid,
		Priority:  priority,
	}
}

func (n *Notification) About(kind RelatedKind, id primitive.ObjectID) *Notification {
	rid := id
	n.RelatedKind = kind
	n.RelatedID = &rid
	return n
}
