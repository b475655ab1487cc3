package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/store"
	"laundry-service-backend/internal/testutil"
)

func TestService_Submit(t *testing.T) {
	gormDB := testutil.NewDB(t)
	svc := NewService(store.NewGormStore(gormDB))
	ctx := context.Background()
	testutil.SeedOrder(t, gormDB, "ORDAAAA0001", "CUS000001", model.OrderCompleted)

	fb, err := svc.Submit(ctx, SubmitRequest{CustomerID: "CUS000001", OrderID: "ORDAAAA0001", Rating: 5, Comment: "crisp"})
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackGeneral, fb.Category)
	require.NotNil(t, fb.OrderID)

	_, err = svc.Submit(ctx, SubmitRequest{CustomerID: "CUS000001", OrderID: "ORDAAAA0001", Rating: 2})
	var ce *errs.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Feedback already submitted for this order", ce.Error())

	// Without an order, any number of ratings is allowed.
	for i := 0; i < 2; i++ {
		_, err = svc.Submit(ctx, SubmitRequest{CustomerID: "CUS000001", Rating: 4, Category: model.FeedbackMachine})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "CUS000001", "")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = svc.List(ctx, "", "ORDAAAA0001")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_SubmitValidation(t *testing.T) {
	gormDB := testutil.NewDB(t)
	svc := NewService(store.NewGormStore(gormDB))
	ctx := context.Background()

	testCases := []struct {
		name    string
		req     SubmitRequest
		wantErr error
	}{
		{name: "missing customer", req: SubmitRequest{Rating: 3}, wantErr: errs.ErrValidation},
		{name: "missing rating", req: SubmitRequest{CustomerID: "CUS000001"}, wantErr: errs.ErrValidation},
		{name: "rating too high", req: SubmitRequest{CustomerID: "CUS000001", Rating: 6}, wantErr: errs.ErrValidation},
		{name: "rating negative", req: SubmitRequest{CustomerID: "CUS000001", Rating: -1}, wantErr: errs.ErrValidation},
		{name: "unknown category", req: SubmitRequest{CustomerID: "CUS000001", Rating: 3, Category: "vibes"}, wantErr: errs.ErrValidation},
		{name: "unknown order", req: SubmitRequest{CustomerID: "CUS000001", OrderID: "ORDNOPE0000", Rating: 3}, wantErr: errs.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
