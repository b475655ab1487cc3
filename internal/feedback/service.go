// Package feedback accepts customer ratings.
package feedback

import (
	"context"
	"errors"
	"strings"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
)

const duplicateMessage = "Feedback already submitted for this order"

// SubmitRequest is the input of Submit. OrderID is optional.
type SubmitRequest struct {
	CustomerID string                 `json:"customer_id"`
	OrderID    string                 `json:"order_id"`
	Rating     int                    `json:"rating"`
	Comment    string                 `json:"comment"`
	Category   model.FeedbackCategory `json:"category"`
}

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Submit stores one rating. A customer may rate a given order once.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*model.Feedback, error) {
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.OrderID = strings.TrimSpace(req.OrderID)

	if req.CustomerID == "" || req.Rating == 0 {
		return nil, errs.NewValidationError("customer_id", "Customer ID and rating are required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errs.NewValidationError("rating", "Rating must be between 1 and 5")
	}
	if req.Category == "" {
		req.Category = model.FeedbackGeneral
	}
	if !req.Category.Valid() {
		return nil, errs.NewValidationError("category", "Invalid feedback category")
	}

	fb := &model.Feedback{
		CustomerID: req.CustomerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Category:   req.Category,
	}

	if req.OrderID != "" {
		if _, err := s.store.GetOrder(ctx, req.OrderID); err != nil {
			return nil, err
		}
		exists, err := s.store.FeedbackExists(ctx, req.CustomerID, req.OrderID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.NewConflictError(duplicateMessage)
		}
		orderID := req.OrderID
		fb.OrderID = &orderID
	}

	if err := s.store.CreateFeedback(ctx, fb); err != nil {
		// A concurrent submission can pass the check above; the unique
		// index catches it.
		if errors.Is(err, errs.ErrConflict) {
			return nil, errs.NewConflictErrorWithCause(duplicateMessage, err)
		}
		return nil, err
	}
	return fb, nil
}

func (s *Service) List(ctx context.Context, customerID, orderID string) ([]model.Feedback, error) {
	return s.store.ListFeedback(ctx, store.FeedbackFilter{CustomerID: customerID, OrderID: orderID})
}
