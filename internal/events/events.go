// Package events carries JobPosted from job creation to the notification
// fan-out, either in-process or through a Redis Stream.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const JobPostedStream = "jobs:posted"

type JobPosted struct {
	JobID      string
	EmployerID string
	Title      string
	PostedAt   time.Time
}

// Values is the stream field encoding of the event.
func (e JobPosted) Values() map[string]any {
	return map[string]any{
		"job_id":      e.JobID,
		"employer_id": e.EmployerID,
		"title":       e.Title,
		"posted_at":   e.PostedAt.UTC().Format(time.RFC3339Nano),
	}
}

var ErrMalformedEvent = errors.New("malformed job posted event")

func JobPostedFromValues(v map[string]any) (JobPosted, error) {
	str := func(k string) string {
		s, _ := v[k].(string)
		return s
	}

	ev := JobPosted{
		JobID:      str("job_id"),
		EmployerID: str("employer_id"),
		Title:      str("title"),
	}
	if ev.JobID == "" || ev.EmployerID == "" {
		return JobPosted{}, ErrMalformedEvent
	}
	if ts := str("posted_at"); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return JobPosted{}, fmt.Errorf("%w: posted_at: %v", ErrMalformedEvent, err)
		}
		ev.PostedAt = t
	}
	return ev, nil
}

type Handler interface {
	HandleJobPosted(ctx context.Context, ev JobPosted) error
}

type Publisher interface {
	PublishJobPosted(ctx context.Context, ev JobPosted) error
}

// InlinePublisher runs the handler in the caller's goroutine and waits for it.
type InlinePublisher struct {
	h Handler
}

func NewInlinePublisher(h Handler) *InlinePublisher {
	return &InlinePublisher{h: h}
}

func (p *InlinePublisher) PublishJobPosted(ctx context.Context, ev JobPosted) error {
	return p.h.HandleJobPosted(ctx, ev)
}

type RedisStreamPublisher struct {
	rdb    redis.Cmdable
	stream string
}

func NewRedisStreamPublisher(rdb redis.Cmdable) *RedisStreamPublisher {
	return &RedisStreamPublisher{rdb: rdb, stream: JobPostedStream}
}

func (p *RedisStreamPublisher) PublishJobPosted(ctx context.Context, ev JobPosted) error {
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: ev.Values(),
	}).Err()
}
