package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"laundry-service-backend/config"
	"laundry-service-backend/internal/account"
	"laundry-service-backend/internal/codegen"
	"laundry-service-backend/internal/feedback"
	"laundry-service-backend/internal/machine"
	"laundry-service-backend/internal/model"
	"laundry-service-backend/internal/notification"
	"laundry-service-backend/internal/order"
	"laundry-service-backend/internal/stats"
	"laundry-service-backend/internal/store"
	"laundry-service-backend/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gormDB := testutil.NewDB(t)
	s := store.NewGormStore(gormDB)
	gen := codegen.New()

	handler := NewHandler(Services{
		Orders:        order.NewService(s, gen),
		Stats:         stats.NewAggregator(s),
		Feedback:      feedback.NewService(s),
		Machines:      machine.NewService(s),
		Accounts:      account.NewService(s, gen, config.AuthConfig{JWTSecret: "test-secret", TokenTTLMinutes: 60, MaxLoginAttempts: 3, LockoutMinutes: 15, BcryptCost: bcrypt.MinCost}),
		Notifications: notification.NewDispatcher(s),
		Store:         s,
	}, nil, nil)

	r := NewRouter(handler, RouterOptions{RateLimitPerSec: 1000, RateLimitBurst: 1000})
	return r, gormDB
}

func do(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPutSubscription_EmptyBody(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodPut, "/api/subscriptions", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}

func TestSubscriptions_RoundTrip(t *testing.T) {
	r, gormDB := newTestRouter(t)
	user := testutil.SeedUser(t, gormDB, model.RoleCustomer, "CUS000001")
	endpoint := "https://push.example.com/send/abc%3D%3D"

	w := do(t, r, http.MethodPut, "/api/subscriptions", gin.H{
		"endpoint": endpoint, "p256dh": "key", "auth": "secret", "user_id": user.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, endpoint, decode(t, w)["endpoint"])

	w = do(t, r, http.MethodPut, "/api/subscriptions", gin.H{
		"endpoint": endpoint, "p256dh": "key", "auth": "secret", "user_id": 999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, "/api/subscriptions", gin.H{"endpoint": endpoint})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/subscriptions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVAPIDPublicKey_NotConfigured(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/vapid_public_key", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOrders_HTTPLifecycle(t *testing.T) {
	r, gormDB := newTestRouter(t)
	testutil.SeedUser(t, gormDB, model.RoleCustomer, "CUS000001")
	testutil.SeedUser(t, gormDB, model.RoleEmployee, "EMP000001")
	m := testutil.SeedMachine(t, gormDB, "Washer 1", model.MachineAvailable)

	w := do(t, r, http.MethodPost, "/api/orders", gin.H{"customer_id": "CUS000001", "weight_kg": 4.2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	code, _ := decode(t, w)["order_id"].(string)
	require.Len(t, code, 11)

	w = do(t, r, http.MethodPatch, "/api/orders/"+code, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "pending cannot jump to completed")

	w = do(t, r, http.MethodPatch, "/api/orders/"+code, gin.H{"status": "spinning"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status: spinning", decode(t, w)["error"])

	w = do(t, r, http.MethodPatch, "/api/orders/"+code, gin.H{
		"status": "in-progress", "machine_id": m.ID, "employee_id": "EMP000001",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, status := range []string{"washing", "drying", "ready-for-pickup", "completed"} {
		w = do(t, r, http.MethodPatch, "/api/orders/"+code, gin.H{"status": status, "employee_id": "EMP000001"})
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", status, w.Body.String())
	}
	got := decode(t, w)["order"].(map[string]any)
	assert.Equal(t, "completed", got["status"])

	w = do(t, r, http.MethodGet, "/api/orders/"+code, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode(t, w)["logs"].([]any)
	assert.Len(t, logs, 5)

	w = do(t, r, http.MethodGet, "/api/orders/track?customer_id=CUS000001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 1)

	w = do(t, r, http.MethodGet, "/api/orders/track", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Order ID or Customer ID required", decode(t, w)["error"])

	w = do(t, r, http.MethodGet, "/api/orders/ORDNOPE0000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/machines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	machines := decode(t, w)["machines"].([]any)
	assert.Equal(t, "available", machines[0].(map[string]any)["status"])
}

func TestOrders_CreateIdempotent(t *testing.T) {
	r, gormDB := newTestRouter(t)
	testutil.SeedUser(t, gormDB, model.RoleCustomer, "CUS000001")
	body := gin.H{"customer_id": "CUS000001"}

	first := do(t, r, http.MethodPost, "/api/orders", body, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, first.Code)
	second := do(t, r, http.MethodPost, "/api/orders", body, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, second.Code)

	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, decode(t, first)["order_id"], decode(t, second)["order_id"])

	var n int64
	require.NoError(t, gormDB.Model(&model.Order{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	w := do(t, r, http.MethodPost, "/api/orders", gin.H{"customer_id": "CUS404404"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsers_RegisterAndLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/users", gin.H{
		"email": "ann@example.com", "password": "hunter2", "full_name": "Ann", "role": "customer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Regexp(t, `^CUS[A-Z0-9]{6}$`, body["code"])
	assert.NotContains(t, w.Body.String(), "password")

	w = do(t, r, http.MethodPost, "/api/users", gin.H{
		"email": "ann@example.com", "password": "x", "full_name": "Ann", "role": "customer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decode(t, w)["error"])

	w = do(t, r, http.MethodPost, "/api/users", gin.H{"email": "bo@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", decode(t, w)["error"])

	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "ann@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "ANN@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	customerToken, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, customerToken)

	w = do(t, r, http.MethodGet, "/api/users?role=customer", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/api/users?role=customer", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/api/users?role=customer", nil, "Authorization", "Bearer "+customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPost, "/api/users", gin.H{
		"email": "root@example.com", "password": "toor", "full_name": "Root", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "root@example.com", "password": "toor"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	adminToken, _ := decode(t, w)["token"].(string)

	w = do(t, r, http.MethodGet, "/api/users?role=customer", nil, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["users"], 1)
}

func TestUsers_LoginLockout(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/users", gin.H{
		"email": "cy@example.com", "password": "pw", "full_name": "Cy", "role": "employee",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < 3; i++ {
		w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "cy@example.com", "password": "bad"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "cy@example.com", "password": "pw"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestStats(t *testing.T) {
	r, gormDB := newTestRouter(t)
	testutil.SeedOrder(t, gormDB, "ORDAAAA0001", "CUS000001", model.OrderPending)
	testutil.SeedOrder(t, gormDB, "ORDAAAA0002", "CUS000001", model.OrderWashing)

	w := do(t, r, http.MethodGet, "/api/stats?role=admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["totalOrders"])
	assert.EqualValues(t, 1, body["pendingOrders"])

	w = do(t, r, http.MethodGet, "/api/stats?role=customer&customer_id=CUS000001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 10, decode(t, w)["totalWeight"])

	w = do(t, r, http.MethodGet, "/api/stats?role=guest", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid role", decode(t, w)["error"])
}

func TestFeedback(t *testing.T) {
	r, gormDB := newTestRouter(t)
	testutil.SeedOrder(t, gormDB, "ORDAAAA0001", "CUS000001", model.OrderCompleted)
	body := gin.H{"customer_id": "CUS000001", "order_id": "ORDAAAA0001", "rating": 4, "category": "service"}

	w := do(t, r, http.MethodPost, "/api/feedback", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/feedback", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Feedback already submitted for this order", decode(t, w)["error"])

	w = do(t, r, http.MethodPost, "/api/feedback", gin.H{"customer_id": "CUS000001", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating must be between 1 and 5", decode(t, w)["error"])

	w = do(t, r, http.MethodGet, "/api/feedback?customer_id=CUS000001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["feedback"], 1)
}

func TestMachines(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/machines", gin.H{"machine_name": "Dryer 1", "machine_type": "dryer", "capacity_kg": 9})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["machine"].(map[string]any)["id"]

	path := fmt.Sprintf("/api/machines/%v", id)
	w = do(t, r, http.MethodPatch, path, gin.H{"status": "maintenance"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "maintenance", decode(t, w)["machine"].(map[string]any)["status"])

	w = do(t, r, http.MethodPatch, path, gin.H{"status": "exploded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPatch, "/api/machines/abc", gin.H{"status": "available"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPatch, "/api/machines/404", gin.H{"status": "available"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotifications(t *testing.T) {
	r, gormDB := newTestRouter(t)
	customer := testutil.SeedUser(t, gormDB, model.RoleCustomer, "CUS000001")

	w := do(t, r, http.MethodPost, "/api/orders", gin.H{"customer_id": "CUS000001"})
	require.Equal(t, http.StatusCreated, w.Code)

	q := url.Values{"user_id": {fmt.Sprint(customer.ID)}}
	w = do(t, r, http.MethodGet, "/api/notifications?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["notifications"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, false, first["is_read"])

	w = do(t, r, http.MethodPatch, "/api/notifications", gin.H{"notification_id": first["id"]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = do(t, r, http.MethodPatch, "/api/notifications", gin.H{"notification_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
