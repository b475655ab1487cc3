package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
)

// Store defines the interface for all database operations. Implementations
// return errs types: NotFoundError for missing rows, ConflictError for
// unique violations and PersistenceError for anything else.
type Store interface {
	// Transaction runs fn against a Store bound to a single database
	// transaction. A returned error or a panic rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, code string) (*model.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	CountOrders(ctx context.Context, filter OrderFilter) (int64, error)
	SumOrderWeight(ctx context.Context, filter OrderFilter) (float64, error)
	OrderCodeExists(ctx context.Context, code string) (bool, error)
	UpdateOrderStatus(ctx context.Context, code string, version int, update StatusUpdate) error

	CreateMachine(ctx context.Context, machine *model.Machine) error
	GetMachine(ctx context.Context, id uint) (*model.Machine, error)
	ListMachines(ctx context.Context) ([]model.Machine, error)
	UpdateMachineStatus(ctx context.Context, id uint, status model.MachineStatus) error
	CountMachines(ctx context.Context, statuses ...model.MachineStatus) (int64, error)

	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByCode(ctx context.Context, code string) (*model.User, error)
	UserCodeExists(ctx context.Context, code string) (bool, error)
	ListUsers(ctx context.Context, role model.Role) ([]model.User, error)
	CountUsers(ctx context.Context, role model.Role) (int64, error)

	AppendLog(ctx context.Context, entry *model.LaundryLog) error
	ListLogs(ctx context.Context, orderCode string, newestFirst bool) ([]model.LaundryLog, error)
	CountLogs(ctx context.Context, orderCode string) (int64, error)

	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, userID uint, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint) error
	NotificationExists(ctx context.Context, orderCode string, typ model.NotificationType) (bool, error)

	CreateFeedback(ctx context.Context, fb *model.Feedback) error
	ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.Feedback, error)
	FeedbackExists(ctx context.Context, customerID, orderCode string) (bool, error)

	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context, userID uint) ([]model.PushSubscription, error)
}

// OrderFilter narrows order queries. Zero fields are ignored.
type OrderFilter struct {
	CustomerID    string
	Code          string
	Statuses      []model.OrderStatus
	UpdatedBefore *time.Time
	Limit         int
}

// FeedbackFilter narrows feedback queries. Zero fields are ignored.
type FeedbackFilter struct {
	CustomerID string
	OrderID    string
}

// StatusUpdate carries the columns written by a status transition.
type StatusUpdate struct {
	Status              model.OrderStatus
	MachineID           *uint
	EstimatedCompletion *time.Time
	ActualCompletion    *time.Time
	At                  time.Time
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
	if err != nil && !isTyped(err) {
		return errs.NewPersistenceError("transaction", err)
	}
	return err
}

// translate maps a gorm error to an errs type. op names the operation for
// the log.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.NewConflictErrorWithCause(op+": duplicate key", err)
	default:
		return errs.NewPersistenceError(op, err)
	}
}

func isTyped(err error) bool {
	for _, target := range []error{
		errs.ErrValidation,
		errs.ErrNotFound,
		errs.ErrConflict,
		errs.ErrInvalidTransition,
		errs.ErrStaleOrder,
		errs.ErrGenerationExhausted,
		errs.ErrUnauthorized,
		errs.ErrTooManyAttempts,
		errs.ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *gormStore) exists(ctx context.Context, m any, query string, args ...any) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(m).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
