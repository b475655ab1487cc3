package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"laundry-service-backend/internal/audit"
	"laundry-service-backend/internal/codegen"
	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/events"
	"laundry-service-backend/internal/logger"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/notification"
	"laundry-service-backend/internal/store"
	"laundry-service-backend/internal/telemetry"
)

// CreateRequest is the input of Create. Zero optional fields take the
// order defaults.
type CreateRequest struct {
	CustomerID  string  `json:"customer_id"`
	WeightKg    float64 `json:"weight_kg"`
	CycleType   string  `json:"cycle_type"`
	TempSetting string  `json:"temp_setting"`
	SpinSpeed   int     `json:"spin_speed"`
	Notes       string  `json:"notes"`
}

// TransitionRequest moves an order to Status. MachineID assigns a machine,
// EmployeeID adds an audit entry.
type TransitionRequest struct {
	OrderID    string
	Status     string
	MachineID  *uint
	EmployeeID string
	Notes      string
}

// ListFilter narrows List. Empty fields are ignored.
type ListFilter struct {
	CustomerID string
	OrderID    string
	Status     string
}

// View is an order decorated with display names.
type View struct {
	model.Order
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	MachineName     string `json:"machine_name"`
	MachineLocation string `json:"machine_location,omitempty"`
}

// Detail is an order with its audit trail.
type Detail struct {
	Order *View              `json:"order"`
	Logs  []model.LaundryLog `json:"logs"`
}

// Service runs order operations against a store.
type Service struct {
	store     store.Store
	generator *codegen.Generator
	publisher events.Publisher
	pusher    notification.Pusher
	metrics   *telemetry.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithPusher(p notification.Pusher) Option {
	return func(s *Service) { s.pusher = p }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st store.Store, generator *codegen.Generator, opts ...Option) *Service {
	s := &Service{
		store:     st,
		generator: generator,
		publisher: events.Noop{},
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates req, generates an order code and stores the order as
// pending together with the customer's "received" notification.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Order, error) {
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	if req.CustomerID == "" {
		return nil, errs.NewValidationError("customer_id", "customer_id is required")
	}
	if req.WeightKg < 0 {
		return nil, errs.NewValidationError("weight_kg", "weight_kg must not be negative")
	}
	if req.SpinSpeed < 0 {
		return nil, errs.NewValidationError("spin_speed", "spin_speed must not be negative")
	}

	customer, err := s.store.GetUserByCode(ctx, req.CustomerID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.NewNotFoundErrorWithCause("Customer", req.CustomerID, err)
	}
	if err != nil {
		return nil, err
	}

	code, err := s.generator.Generate(ctx, codegen.OrderCode, s.store.OrderCodeExists)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		Code:        code,
		CustomerID:  req.CustomerID,
		WeightKg:    req.WeightKg,
		CycleType:   withDefault(req.CycleType, model.DefaultCycleType),
		TempSetting: withDefault(req.TempSetting, model.DefaultTempSetting),
		SpinSpeed:   req.SpinSpeed,
		Status:      model.OrderPending,
		Notes:       req.Notes,
		Version:     1,
	}
	if order.SpinSpeed == 0 {
		order.SpinSpeed = model.DefaultSpinSpeed
	}

	var received *model.Notification
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		received, err = notification.NewDispatcher(tx).Notify(ctx, customer.ID, order.Code,
			notification.MessageFor(model.OrderPending), notification.TypeFor(model.OrderPending))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Info("order created",
		zap.String("order_id", order.Code),
		zap.String("customer_id", order.CustomerID))
	s.push(received)
	return order, nil
}

// Transition validates and applies a status change. The status write, the
// machine update, the audit entry and the notification commit together or
// not at all. Metrics, the event and the push run after commit.
func (s *Service) Transition(ctx context.Context, req TransitionRequest) (*model.Order, error) {
	to, err := ParseStatus(req.Status)
	if err != nil {
		s.metrics.TransitionRejected(ctx, "validation")
		return nil, err
	}

	var (
		from    model.OrderStatus
		updated *model.Order
		notice  *model.Notification
	)
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		order, err := tx.GetOrder(ctx, req.OrderID)
		if err != nil {
			return err
		}
		from = order.Status

		if !CanTransition(from, to) {
			return errs.NewTransitionError(string(from), string(to))
		}

		prev, next := order.MachineID, order.MachineID
		if req.MachineID != nil {
			machine, err := tx.GetMachine(ctx, *req.MachineID)
			if err != nil {
				return err
			}
			next = req.MachineID
			if reassigned(prev, next) && !to.Terminal() && machine.Status != model.MachineAvailable {
				return errs.NewConflictError(fmt.Sprintf("Machine %s is %s", machine.Name, machine.Status))
			}
		}

		now := s.now().UTC()
		update := store.StatusUpdate{Status: to, MachineID: req.MachineID, At: now}
		switch to {
		case model.OrderInProgress:
			eta := now.Add(CycleDuration(order.CycleType))
			update.EstimatedCompletion = &eta
		case model.OrderCompleted:
			update.ActualCompletion = &now
		}
		if err := tx.UpdateOrderStatus(ctx, order.Code, order.Version, update); err != nil {
			return err
		}

		if err := coupleMachine(ctx, tx, prev, next, to); err != nil {
			return err
		}

		if req.EmployeeID != "" {
			if _, err := audit.NewWriter(tx).Record(ctx, order.Code, req.EmployeeID, "Status changed to "+string(to), req.Notes); err != nil {
				return err
			}
		}

		customer, err := tx.GetUserByCode(ctx, order.CustomerID)
		switch {
		case errors.Is(err, errs.ErrNotFound):
		case err != nil:
			return err
		default:
			notice, err = notification.NewDispatcher(tx).Notify(ctx, customer.ID, order.Code,
				notification.MessageFor(to), notification.TypeFor(to))
			if err != nil {
				return err
			}
		}

		updated, err = tx.GetOrder(ctx, order.Code)
		return err
	})
	if err != nil {
		s.metrics.TransitionRejected(ctx, rejectReason(err))
		return nil, err
	}

	s.afterTransition(ctx, updated, from, req, notice)
	return updated, nil
}

func (s *Service) afterTransition(ctx context.Context, order *model.Order, from model.OrderStatus, req TransitionRequest, notice *model.Notification) {
	log := s.logger(ctx).With(
		zap.String("order_id", order.Code),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
	)
	log.Info("order status changed")

	s.metrics.Transition(ctx, string(from), string(order.Status))

	event := events.StatusChanged{
		EventID:    uuid.NewString(),
		OrderID:    order.Code,
		CustomerID: order.CustomerID,
		From:       string(from),
		To:         string(order.Status),
		MachineID:  order.MachineID,
		EmployeeID: req.EmployeeID,
		Timestamp:  order.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, order.Code, event); err != nil {
		log.Warn("failed to publish status event", zap.Error(err))
	}

	s.push(notice)
}

func (s *Service) push(n *model.Notification) {
	if n != nil && s.pusher != nil {
		s.pusher.Dispatch(*n)
	}
}

// Get returns the order with its audit log, newest entry first.
func (s *Service) Get(ctx context.Context, code string) (*Detail, error) {
	return s.detail(ctx, code, true)
}

// TrackOrder returns the order with its audit log in chronological order.
func (s *Service) TrackOrder(ctx context.Context, code string) (*Detail, error) {
	return s.detail(ctx, code, false)
}

// TrackCustomer returns every order of customerID, newest first.
func (s *Service) TrackCustomer(ctx context.Context, customerID string) ([]View, error) {
	return s.List(ctx, ListFilter{CustomerID: customerID})
}

// List returns matching orders, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]View, error) {
	f := store.OrderFilter{CustomerID: filter.CustomerID, Code: filter.OrderID}
	if filter.Status != "" {
		status, err := ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f.Statuses = []model.OrderStatus{status}
	}

	orders, err := s.store.ListOrders(ctx, f)
	if err != nil {
		return nil, err
	}

	names := make(map[string]*model.User)
	views := make([]View, 0, len(orders))
	for _, o := range orders {
		customer, ok := names[o.CustomerID]
		if !ok {
			customer, err = s.customer(ctx, o.CustomerID)
			if err != nil {
				return nil, err
			}
			names[o.CustomerID] = customer
		}
		views = append(views, newView(o, customer))
	}
	return views, nil
}

func (s *Service) detail(ctx context.Context, code string, newestFirst bool) (*Detail, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errs.NewValidationError("order_id", "order_id is required")
	}

	order, err := s.store.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	customer, err := s.customer(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	logs, err := audit.NewWriter(s.store).List(ctx, code, newestFirst)
	if err != nil {
		return nil, err
	}

	view := newView(*order, customer)
	return &Detail{Order: &view, Logs: logs}, nil
}

// customer returns nil when no account carries code.
func (s *Service) customer(ctx context.Context, code string) (*model.User, error) {
	u, err := s.store.GetUserByCode(ctx, code)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	if id := logger.RequestID(ctx); id != "" {
		return s.log.With(zap.String("request_id", id))
	}
	return s.log
}

func newView(o model.Order, customer *model.User) View {
	v := View{Order: o}
	if customer != nil {
		v.CustomerName = customer.FullName
		v.CustomerPhone = customer.Phone
	}
	if o.Machine != nil {
		v.MachineName = o.Machine.Name
		v.MachineLocation = o.Machine.Location
	}
	return v
}

// coupleMachine keeps machine status in step with the order holding it. A
// machine the order moves away from is released. A newly assigned machine
// is claimed while the order is active. The held machine is released when
// the order reaches a terminal status.
func coupleMachine(ctx context.Context, tx store.Store, prev, next *uint, to model.OrderStatus) error {
	changed := reassigned(prev, next)
	if prev != nil && changed {
		if err := tx.UpdateMachineStatus(ctx, *prev, model.MachineAvailable); err != nil {
			return err
		}
	}

	switch {
	case next == nil:
		return nil
	case to.Terminal():
		if changed {
			return nil
		}
		return tx.UpdateMachineStatus(ctx, *next, model.MachineAvailable)
	case changed:
		return tx.UpdateMachineStatus(ctx, *next, model.MachineInUse)
	}
	return nil
}

// reassigned reports whether next names a machine other than prev.
func reassigned(prev, next *uint) bool {
	return next != nil && (prev == nil || *prev != *next)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, errs.ErrStaleOrder):
		return "stale"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrConflict):
		return "conflict"
	case errors.Is(err, errs.ErrValidation):
		return "validation"
	default:
		return "persistence"
	}
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
