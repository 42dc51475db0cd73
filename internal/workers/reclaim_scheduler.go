package workers

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Reclaimer interface {
	Reclaim(ctx context.Context) (int, error)
}

// ReclaimScheduler periodically re-runs stuck fan-out messages.
type ReclaimScheduler struct {
	cron *cron.Cron
	r    Reclaimer
	log  *logrus.Logger
	spec string
}

func NewReclaimScheduler(r Reclaimer, l *logrus.Logger, spec string) *ReclaimScheduler {
	if spec == "" {
		spec = "@every 1m"
	}
	return &ReclaimScheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		r:    r,
		log:  l,
		spec: spec,
	}
}

func (s *ReclaimScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.log.WithField("spec", s.spec).Info("reclaim scheduler started")
	return nil
}

// Stop waits for a running reclaim to finish.
func (s *ReclaimScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("reclaim scheduler stopped")
}

func (s *ReclaimScheduler) RunOnce(ctx context.Context) {
	n, err := s.r.Reclaim(ctx)
	if err != nil {
		s.log.WithError(err).Warn("reclaim failed")
		return
	}
	if n > 0 {
		s.log.WithField("claimed", n).Info("reclaimed pending job posted messages")
	}
}
