package notification

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
	"laundry-service-backend/internal/telemetry"
)

// ReminderJob creates one pickup reminder per order that has been ready for
// longer than the configured threshold.
type ReminderJob struct {
	store   store.Store
	after   time.Duration
	pusher  Pusher
	cron    *cron.Cron
	log     *zap.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
}

func NewReminderJob(s store.Store, after time.Duration, pusher Pusher, log *zap.Logger, metrics *telemetry.Metrics) *ReminderJob {
	return &ReminderJob{
		store:   s,
		after:   after,
		pusher:  pusher,
		cron:    cron.New(),
		log:     log.Named("reminder"),
		metrics: metrics,
		now:     time.Now,
	}
}

// Start schedules RunOnce using a cron spec such as "@every 15m".
func (j *ReminderJob) Start(schedule string) error {
	_, err := j.cron.AddFunc(schedule, func() {
		ctx := context.Background()
		n, err := j.RunOnce(ctx)
		if err != nil {
			j.log.Error("reminder run failed", zap.Error(err))
			return
		}
		if n > 0 {
			j.log.Info("pickup reminders created", zap.Int("count", n))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.log.Info("reminder job started", zap.String("schedule", schedule))
	return nil
}

// Stop waits for a running pass to finish.
func (j *ReminderJob) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info("reminder job stopped")
}

// RunOnce creates the missing reminders and returns how many it created.
func (j *ReminderJob) RunOnce(ctx context.Context) (int, error) {
	cutoff := j.now().UTC().Add(-j.after)
	orders, err := j.store.ListOrders(ctx, store.OrderFilter{
		Statuses:      []model.OrderStatus{model.OrderReady},
		UpdatedBefore: &cutoff,
	})
	if err != nil {
		return 0, err
	}

	dispatcher := NewDispatcher(j.store)
	created := 0
	for _, order := range orders {
		sent, err := j.store.NotificationExists(ctx, order.Code, model.NotificationReminder)
		if err != nil {
			return created, err
		}
		if sent {
			continue
		}

		user, err := j.store.GetUserByCode(ctx, order.CustomerID)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return created, err
		}

		n, err := dispatcher.Notify(ctx, user.ID, order.Code, reminderMessage, model.NotificationReminder)
		if err != nil {
			return created, err
		}
		created++
		if j.pusher != nil {
			j.pusher.Dispatch(*n)
		}
	}

	j.metrics.RemindersCreated(ctx, created)
	return created, nil
}
