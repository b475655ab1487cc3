package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
	"laundry-service-backend/internal/telemetry"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the Sender backed by webpush-go.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Payload is the JSON body delivered to the browser.
type Payload struct {
	Title   string                 `json:"title"`
	Body    string                 `json:"body"`
	OrderID string                 `json:"order_id,omitempty"`
	Type    model.NotificationType `json:"type"`
}

// Pusher accepts stored notifications for best-effort delivery.
type Pusher interface {
	Dispatch(n model.Notification) bool
}

// WorkerPool fans stored notifications out to the user's push subscriptions.
type WorkerPool struct {
	size    int
	jobs    chan model.Notification
	store   store.Store
	webpush *webpush.Options
	sender  Sender
	log     *zap.Logger
	metrics *telemetry.Metrics
}

// NewWorkerPool creates a pool of size workers reading from a queue of
// queueSize notifications.
func NewWorkerPool(size, queueSize int, s store.Store, webpushOptions *webpush.Options, log *zap.Logger, metrics *telemetry.Metrics) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan model.Notification, queueSize),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log.Named("push"),
		metrics: metrics,
	}
}

// Start launches the worker goroutines. They stop when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log := wp.log.With(zap.Int("worker", id))
	log.Debug("push worker started")
	for {
		select {
		case n := <-wp.jobs:
			wp.deliver(ctx, n)
		case <-ctx.Done():
			log.Debug("push worker shutting down")
			return
		}
	}
}

// Dispatch queues n without blocking. It reports false when the queue is
// full; the notification record already exists so nothing is lost.
func (wp *WorkerPool) Dispatch(n model.Notification) bool {
	select {
	case wp.jobs <- n:
		return true
	default:
		wp.log.Warn("push queue full, dropping delivery",
			zap.Uint("notification_id", n.ID), zap.Uint("user_id", n.UserID))
		wp.metrics.PushDelivery(context.Background(), "dropped")
		return false
	}
}

func (wp *WorkerPool) deliver(ctx context.Context, n model.Notification) {
	subs, err := wp.store.ListSubscriptions(ctx, n.UserID)
	if err != nil {
		wp.log.Error("failed to load subscriptions", zap.Uint("user_id", n.UserID), zap.Error(err))
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(Payload{
		Title:   "Laundry update",
		Body:    n.Message,
		OrderID: n.OrderID,
		Type:    n.Type,
	})
	if err != nil {
		wp.log.Error("failed to encode push payload", zap.Error(err))
		return
	}

	for _, sub := range subs {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn("push send failed", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		wp.metrics.PushDelivery(ctx, "error")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		wp.metrics.PushDelivery(ctx, "gone")
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
		return
	}
	if resp.StatusCode >= http.StatusBadRequest {
		wp.metrics.PushDelivery(ctx, "rejected")
		return
	}
	wp.metrics.PushDelivery(ctx, "sent")
}
