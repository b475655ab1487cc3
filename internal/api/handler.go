package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"laundry-service-backend/internal/account"
	"laundry-service-backend/internal/feedback"
	"laundry-service-backend/internal/machine"
	"laundry-service-backend/internal/notification"
	"laundry-service-backend/internal/order"
	"laundry-service-backend/internal/stats"
	"laundry-service-backend/internal/store"
)

// Services groups the domain services behind the HTTP handlers.
type Services struct {
	Orders        *order.Service
	Stats         *stats.Aggregator
	Feedback      *feedback.Service
	Machines      *machine.Service
	Accounts      *account.Service
	Notifications *notification.Dispatcher
	Store         store.Store
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     Services
	webpush *webpush.Options
	log     *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc Services, webpushOptions *webpush.Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		svc:     svc,
		webpush: webpushOptions,
		log:     log,
	}
}
