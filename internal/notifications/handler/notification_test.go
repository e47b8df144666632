package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/events"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockNotificationService struct {
	listFunc     func(ctx context.Context, status string, limit int, offset int64) ([]*model.AdminNotification, int64, error)
	markReadFunc func(ctx context.Context, id string) (*model.AdminNotification, error)
}

func (m *mockNotificationService) HandleEvent(context.Context, events.BookingEvent) error {
	return nil
}

func (m *mockNotificationService) List(ctx context.Context, status string, limit int, offset int64) ([]*model.AdminNotification, int64, error) {
	return m.listFunc(ctx, status, limit, offset)
}

func (m *mockNotificationService) MarkRead(ctx context.Context, id string) (*model.AdminNotification, error) {
	return m.markReadFunc(ctx, id)
}

const secret = "notification-test-secret-0123456789"

func setup(svc *mockNotificationService) (*httprouter.Router, auth.TokenMaker) {
	maker := auth.NewJWTMaker(secret, time.Hour)
	router := httprouter.New()
	NewNotificationHandler(svc, middleware.NewGate(maker, logger.Discard()), logger.Discard()).RegisterRoutes(router)
	return router, maker
}

func bearer(t *testing.T, maker auth.TokenMaker, role model.Role) string {
	token, err := maker.Generate(&model.User{ID: "u1", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestList_PassesStatusFilter(t *testing.T) {
	var gotStatus string
	router, maker := setup(&mockNotificationService{
		listFunc: func(_ context.Context, status string, limit int, offset int64) ([]*model.AdminNotification, int64, error) {
			gotStatus = status
			return []*model.AdminNotification{{ID: "n1", Title: "New booking"}}, 1, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/notifications?status=unread", nil)
	req.Header.Set("Authorization", bearer(t, maker, model.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unread", gotStatus)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["total_count"])
}

func TestList_RequiresAdmin(t *testing.T) {
	router, maker := setup(&mockNotificationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/notifications", nil)
	req.Header.Set("Authorization", bearer(t, maker, model.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMarkRead(t *testing.T) {
	router, maker := setup(&mockNotificationService{
		markReadFunc: func(_ context.Context, id string) (*model.AdminNotification, error) {
			if id == "missing" {
				return nil, apperrors.NotFoundWithID("Notification", id)
			}
			return &model.AdminNotification{ID: id, Status: model.NotificationRead}, nil
		},
	})

	tests := []struct {
		id   string
		want int
	}{
		{"n1", http.StatusOK},
		{"missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/admin/notifications/"+tt.id+"/read", nil)
			req.Header.Set("Authorization", bearer(t, maker, model.RoleAdmin))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
