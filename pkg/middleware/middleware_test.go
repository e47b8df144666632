package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"carrental/pkg/auth"
	"carrental/pkg/logger"
	"carrental/pkg/metrics"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec)["message"])
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

	fast := RequestTimeout(time.Second)(okHandler())
	rec = httptest.NewRecorder()
	fast.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(okHandler())

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		want        int
	}{
		{"json", http.MethodPost, "application/json; charset=utf-8", "{}", http.StatusOK},
		{"multipart", http.MethodPost, "multipart/form-data; boundary=x", "--x--", http.StatusOK},
		{"text", http.MethodPost, "text/plain", "hi", http.StatusUnsupportedMediaType},
		{"empty body put", http.MethodPut, "", "", http.StatusOK},
		{"get ignores", http.MethodGet, "text/plain", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/bookings", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRateLimit(t *testing.T) {
	rl := NewKeyedRateLimiter(2, time.Minute, nil, logger.Discard())
	defer rl.Stop()
	h := RateLimit(rl)(okHandler())

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:1234"
	assert.Equal(t, "192.168.1.5", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"b1"}}`))
	}))

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString("{}"))
		req.Header.Set(IdempotencyHeader, key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send("k1")
	second := send("k1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, int32(1), calls.Load())

	send("k2")
	assert.Equal(t, int32(2), calls.Load())
}

type mapCache struct{ m map[string][]byte }

func (c *mapCache) Get(_ context.Context, key string, result any) (bool, error) {
	b, ok := c.m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, result)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	c.m[key] = b
	return err
}

func (c *mapCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.m, k)
	}
	return nil
}

func TestCacheIdempotencyStore(t *testing.T) {
	store := NewCacheIdempotencyStore(&mapCache{m: map[string][]byte{}}, time.Minute)
	ctx := context.Background()

	_, found := store.Get(ctx, "k")
	assert.False(t, found)

	store.Set(ctx, "k", &CachedResponse{StatusCode: 201, Body: []byte("x")})
	got, found := store.Get(ctx, "k")
	require.True(t, found)
	assert.Equal(t, 201, got.StatusCode)
	assert.Equal(t, []byte("x"), got.Body)
}

func TestHTTPMetrics_RouteLabel(t *testing.T) {
	assert.Equal(t, "/api/bookings/:id/cancel", routeLabel("/api/bookings/65a000000000000000000001/cancel"))
	assert.Equal(t, "/uploads/:file", routeLabel("/uploads/1700000000000-abc.png"))

	h := HTTPMetrics(metrics.New())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGate(t *testing.T) {
	maker := auth.NewJWTMaker("gate-test-secret-0123456789", time.Hour)
	gate := NewGate(maker, logger.Discard())

	userToken, err := maker.Generate(&model.User{ID: "u1", Username: "jane", Role: model.RoleUser})
	require.NoError(t, err)
	adminToken, err := maker.Generate(&model.User{ID: "a1", Username: "root", Role: model.RoleAdmin})
	require.NoError(t, err)

	var caller *auth.Identity
	handle := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		caller, _ = auth.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name   string
		handle httprouter.Handle
		header string
		want   int
	}{
		{"missing token", gate.Authenticate(handle), "", http.StatusUnauthorized},
		{"garbage token", gate.Authenticate(handle), "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", gate.Authenticate(handle), "Basic " + userToken, http.StatusUnauthorized},
		{"user authenticated", gate.Authenticate(handle), "Bearer " + userToken, http.StatusOK},
		{"user lacks capability", gate.Require(model.CapManageVehicles, handle), "Bearer " + userToken, http.StatusForbidden},
		{"admin has capability", gate.Require(model.CapManageVehicles, handle), "Bearer " + adminToken, http.StatusOK},
		{"role mismatch", gate.RequireRole(model.RoleAdmin, handle), "Bearer " + userToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.handle(rec, req, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	gate.Authenticate(handle)(httptest.NewRecorder(), req, nil)
	require.NotNil(t, caller)
	assert.Equal(t, "a1", caller.UserID)
	assert.True(t, caller.IsAdmin())
}
