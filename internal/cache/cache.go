package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const (
	UnreadCountTTL = 60 * time.Second
	JobTTL         = 5 * time.Minute
)

func UnreadCountKey(userID string) string { return "notifications:unread:" + userID }

func JobKey(jobID string) string { return "jobs:detail:" + jobID }

// Noop never hits. Used when Redis is not configured.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Del(context.Context, ...string) error                     { return nil }
