package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rozgar/jobportal/internal/cache"
	"github.com/rozgar/jobportal/internal/events"
	"github.com/rozgar/jobportal/internal/models"
	mongorepo "github.com/rozgar/jobportal/internal/repositories/mongo"
	"github.com/rozgar/jobportal/internal/sideeffect"
	"github.com/rozgar/jobportal/internal/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Notifier is the narrow emit-only view used by the lifecycle services.
type Notifier interface {
	Emit(ctx context.Context, n *models.Notification) sideeffect.Result
}

type NotificationService interface {
	Notifier
	events.Handler

	List(ctx context.Context, userID string, role models.UserRole, unreadOnly bool, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// Broadcaster pushes a stored notification to live listeners.
type Broadcaster interface {
	Publish(ctx context.Context, n *models.Notification) error
}

func NotificationChannel(userID string) string { return "notifications:user:" + userID }

type RedisBroadcaster struct {
	rdb redis.Cmdable
}

func NewRedisBroadcaster(rdb redis.Cmdable) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, n *models.Notification) error {
	if n.UserID == nil {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, NotificationChannel(n.UserID.Hex()), payload).Err()
}

const DefaultFanoutConcurrency = 16

type notificationService struct {
	notifs      mongorepo.NotificationRepository
	users       mongorepo.UserRepository
	cache       cache.Cache
	broadcaster Broadcaster
	runner      *sideeffect.Runner
	log         *logrus.Logger
	concurrency int
}

func NewNotificationService(
	notifs mongorepo.NotificationRepository,
	users mongorepo.UserRepository,
	c cache.Cache,
	b Broadcaster,
	l *logrus.Logger,
	concurrency int,
) NotificationService {
	if c == nil {
		c = cache.Noop{}
	}
	if l == nil {
		l = logrus.New()
	}
	if concurrency <= 0 {
		concurrency = DefaultFanoutConcurrency
	}
	return &notificationService{
		notifs:      notifs,
		users:       users,
		cache:       c,
		broadcaster: b,
		runner:      sideeffect.NewRunner(l),
		log:         l,
		concurrency: concurrency,
	}
}

func (s *notificationService) Emit(ctx context.Context, n *models.Notification) sideeffect.Result {
	fields := logrus.Fields{"op": "NotificationService.Emit", "type": n.Type, "recipient": n.Recipient}
	if n.UserID != nil {
		fields["user_id"] = n.UserID.Hex()
	}

	return s.runner.Run(ctx, "notification:"+string(n.Type), fields, func(ctx context.Context) error {
		if err := n.Validate(); err != nil {
			return err
		}
		if err := s.notifs.Insert(ctx, n); err != nil {
			return err
		}
		s.delivered(ctx, n)
		return nil
	})
}

// delivered runs after a notification is stored. Both steps are advisory.
func (s *notificationService) delivered(ctx context.Context, n *models.Notification) {
	if n.UserID == nil {
		return
	}
	uid := n.UserID.Hex()
	if err := s.cache.Del(ctx, cache.UnreadCountKey(uid)); err != nil {
		s.log.WithError(err).WithField("user_id", uid).Debug("unread count invalidation failed")
	}
	if s.broadcaster != nil {
		if err := s.broadcaster.Publish(ctx, n); err != nil {
			s.log.WithError(err).WithField("user_id", uid).Debug("notification broadcast failed")
		}
	}
}

func jobPostedDedupeKey(jobID, workerID primitive.ObjectID) string {
	return "job_posted:" + jobID.Hex() + ":" + workerID.Hex()
}

// HandleJobPosted writes one job_posted notification per worker. Writes run
// concurrently up to the configured limit, every write is attempted, and the
// joined error of the failed ones is returned. Re-running the same event only
// fills in what is missing.
func (s *notificationService) HandleJobPosted(ctx context.Context, ev events.JobPosted) error {
	const op = "NotificationService.HandleJobPosted"

	jobID, err := primitive.ObjectIDFromHex(ev.JobID)
	if err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "invalid job id", err)
	}

	workers, err := s.users.ListIDsByRole(ctx, models.RoleWorker)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to list workers", err)
	}

	message := "A new job has been posted. Check it out!"
	if ev.Title != "" {
		message = fmt.Sprintf("A new job %q has been posted. Check it out!", ev.Title)
	}

	var (
		mu       sync.Mutex
		errs     []error
		inserted int
	)
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, wid := range workers {
		g.Go(func() error {
			n := models.ForUser(wid, models.NotifyJobPosted, models.PriorityLow, "New Job Posted", message).
				About(models.RelatedJob, jobID)
			n.DedupeKey = jobPostedDedupeKey(jobID, wid)

			created, err := s.notifs.InsertOnce(ctx, n)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("worker %s: %w", wid.Hex(), err))
				mu.Unlock()
				return nil
			}
			if created {
				mu.Lock()
				inserted++
				mu.Unlock()
				s.delivered(ctx, n)
			}
			return nil
		})
	}
	_ = g.Wait()

	log := s.log.WithFields(logrus.Fields{
		"op":       op,
		"job_id":   ev.JobID,
		"workers":  len(workers),
		"inserted": inserted,
		"failed":   len(errs),
	})
	if len(errs) > 0 {
		log.Warn("job posted fan-out incomplete")
		return errors.Join(errs...)
	}
	log.Info("job posted fan-out done")
	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, role models.UserRole, unreadOnly bool, limit int64) ([]models.Notification, error) {
	const op = "NotificationService.List"

	uid, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = 50
	case limit > 100:
		limit = 100
	}

	out, err := s.notifs.ListForUser(ctx, uid, role == models.RoleAdmin, unreadOnly, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list notifications", err)
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	const op = "NotificationService.MarkRead"

	uid, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	nid, err := parseID(op, "notification id", notificationID)
	if err != nil {
		return nil, err
	}

	n, err := s.notifs.FindByID(ctx, nid)
	if err != nil {
		return nil, notFoundOr(op, "Notification not found", "failed to load notification", err)
	}
	if n.Recipient != models.RecipientUser || n.UserID == nil || *n.UserID != uid {
		return nil, utils.E(utils.CodeForbidden, op, "Not authorized to update this notification", nil)
	}
	if n.IsRead {
		return n, nil
	}

	updated, err := s.notifs.MarkRead(ctx, nid, time.Now().UTC())
	if err != nil {
		return nil, notFoundOr(op, "Notification not found", "failed to mark notification read", err)
	}
	_ = s.cache.Del(ctx, cache.UnreadCountKey(userID))
	return updated, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	const op = "NotificationService.MarkAllRead"

	uid, err := parseID(op, "user id", userID)
	if err != nil {
		return 0, err
	}
	n, err := s.notifs.MarkAllRead(ctx, uid, time.Now().UTC())
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to mark notifications read", err)
	}
	_ = s.cache.Del(ctx, cache.UnreadCountKey(userID))
	return n, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	const op = "NotificationService.UnreadCount"

	uid, err := parseID(op, "user id", userID)
	if err != nil {
		return 0, err
	}

	key := cache.UnreadCountKey(userID)
	var cached int64
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	count, err := s.notifs.CountUnread(ctx, uid)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to count unread notifications", err)
	}
	if err := s.cache.SetJSON(ctx, key, count, cache.UnreadCountTTL); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Debug("unread count cache write failed")
	}
	return count, nil
}
