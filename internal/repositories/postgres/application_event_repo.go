package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rozgar/jobportal/internal/models"
	"gorm.io/gorm"
)

type ApplicationEventRepository interface {
	Insert(ctx context.Context, e *models.ApplicationEvent) error
	ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationEvent, error)
}

type applicationEventRepo struct {
	db *gorm.DB
}

func NewApplicationEventRepo(db *gorm.DB) ApplicationEventRepository {
	return &applicationEventRepo{db: db}
}

func (r *applicationEventRepo) Insert(ctx context.Context, e *models.ApplicationEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

// ListByApplication returns the history oldest first.
func (r *applicationEventRepo) ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationEvent, error) {
	rows := make([]models.ApplicationEvent, 0)
	err := historyQuery(r.db.WithContext(ctx), applicationID, &rows).Error
	return rows, err
}

func historyQuery(tx *gorm.DB, applicationID string, rows *[]models.ApplicationEvent) *gorm.DB {
	return tx.Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(rows)
}
