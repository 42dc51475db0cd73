package workers

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rozgar/jobportal/internal/events"
	"github.com/sirupsen/logrus"
)

// JobPostedPool consumes events.JobPostedStream with a consumer group.
// A message is acked only after the handler succeeds; failed messages stay
// pending until Reclaim picks them up again.
type JobPostedPool struct {
	Redis      redis.Cmdable
	Handler    events.Handler
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
	ReclaimIdle    time.Duration

	wg sync.WaitGroup
}

func (p *JobPostedPool) defaults() error {
	if p.Redis == nil || p.Handler == nil {
		return errors.New("JobPostedPool missing dependency: Redis/Handler must be set")
	}
	if p.Stream == "" {
		p.Stream = events.JobPostedStream
	}
	if p.Group == "" {
		p.Group = "notify-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.ReclaimIdle <= 0 {
		p.ReclaimIdle = 5 * time.Minute
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	return nil
}

func (p *JobPostedPool) Start(ctx context.Context) error {
	if err := p.defaults(); err != nil {
		return err
	}

	// BUSYGROUP on restart is expected
	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err()

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.runConsumer(ctx, consumer)
		}()
	}
	return nil
}

// Wait blocks until every consumer has returned after ctx is cancelled.
func (p *JobPostedPool) Wait() { p.wg.Wait() }

func (p *JobPostedPool) runConsumer(ctx context.Context, consumer string) {
	for {
		if ctx.Err() != nil {
			return
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.process(ctx, msg)
			}
		}
	}
}

func (p *JobPostedPool) process(ctx context.Context, msg redis.XMessage) {
	if !p.handle(ctx, msg) {
		return
	}
	if err := p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err(); err != nil {
		p.Logger.WithError(err).WithField("redis_id", msg.ID).Warn("xack failed")
	}
}

// handle reports whether msg should be acked.
func (p *JobPostedPool) handle(ctx context.Context, msg redis.XMessage) bool {
	log := p.Logger.WithField("redis_id", msg.ID)

	ev, err := events.JobPostedFromValues(msg.Values)
	if err != nil {
		// redelivery can never fix a bad payload
		log.WithError(err).Error("dropping malformed message")
		return true
	}
	log = log.WithFields(logrus.Fields{"job_id": ev.JobID, "employer_id": ev.EmployerID})

	start := time.Now()
	if err := p.Handler.HandleJobPosted(ctx, ev); err != nil {
		log.WithError(err).Warn("fan-out incomplete; leaving message pending")
		return false
	}
	log.WithField("took_ms", time.Since(start).Milliseconds()).Info("fan-out complete")
	return true
}

// Reclaim claims messages idle longer than ReclaimIdle and re-runs them.
func (p *JobPostedPool) Reclaim(ctx context.Context) (int, error) {
	if err := p.defaults(); err != nil {
		return 0, err
	}

	claimed := 0
	start := "0-0"
	for {
		msgs, next, err := p.Redis.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   p.Stream,
			Group:    p.Group,
			Consumer: p.ConsumerPrefix + "-reclaim",
			MinIdle:  p.ReclaimIdle,
			Start:    start,
			Count:    50,
		}).Result()
		if err != nil {
			return claimed, err
		}

		for _, msg := range msgs {
			claimed++
			p.process(ctx, msg)
		}
		if next == "0-0" || len(msgs) == 0 {
			return claimed, nil
		}
		start = next
	}
}
