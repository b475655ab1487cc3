package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"laundry-service-backend/internal/logger"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/mw"
)

// RouterOptions tunes the middleware chain.
type RouterOptions struct {
	ServiceName     string
	RateLimitPerSec float64
	RateLimitBurst  int
	IdempotencyTTL  time.Duration
	Metrics         http.Handler
	Logger          *zap.Logger
}

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	SetupValidator()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.RateLimitPerSec <= 0 {
		opts.RateLimitPerSec = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 5
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 5 * time.Minute
	}

	r := gin.New()
	r.Use(mw.RequestID(), logger.GinMiddleware(log), logger.Recovery(log))
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst)

	// Replayed responses expire after the TTL, cleaned up every two TTLs.
	replayStore := cache.New(opts.IdempotencyTTL, 2*opts.IdempotencyTTL)
	idempotent := mw.Idempotency(replayStore, opts.IdempotencyTTL)

	listUsers := []gin.HandlerFunc{handler.ListUsers}
	if accounts := handler.svc.Accounts; accounts != nil && accounts.TokensEnabled() {
		listUsers = append([]gin.HandlerFunc{mw.BearerAuth(accounts, string(model.RoleAdmin))}, listUsers...)
	}

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/orders", idempotent, handler.CreateOrder)
		api.GET("/orders", handler.ListOrders)
		api.GET("/orders/track", handler.TrackOrder)
		api.GET("/orders/:orderId", handler.GetOrder)
		api.PATCH("/orders/:orderId", handler.UpdateOrder)

		api.GET("/machines", handler.ListMachines)
		api.POST("/machines", idempotent, handler.CreateMachine)
		api.PATCH("/machines/:machineId", handler.UpdateMachine)

		api.GET("/users", listUsers...)
		api.POST("/users", idempotent, handler.RegisterUser)
		api.POST("/auth/login", handler.Login)

		api.GET("/stats", handler.GetStats)

		api.GET("/feedback", handler.ListFeedback)
		api.POST("/feedback", idempotent, handler.SubmitFeedback)

		api.GET("/notifications", handler.ListNotifications)
		api.PATCH("/notifications", handler.MarkNotificationRead)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
