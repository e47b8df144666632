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
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAdminService struct {
	stats *model.AdminStats
}

func (m *mockAdminService) Stats(context.Context) (*model.AdminStats, error) {
	return m.stats, nil
}

type mockUserService struct {
	promoted string
	deleteBy *auth.Identity
}

func (m *mockUserService) Register(context.Context, *model.RegisterRequest) (*model.User, error) {
	return nil, nil
}

func (m *mockUserService) CreateAdmin(context.Context, *model.RegisterRequest) (*model.User, error) {
	return nil, nil
}

func (m *mockUserService) GetByID(_ context.Context, id string) (*model.User, error) {
	return &model.User{ID: id}, nil
}

func (m *mockUserService) GetAll(context.Context) ([]*model.User, error) {
	return []*model.User{{ID: "u1"}, {ID: "u2"}}, nil
}

func (m *mockUserService) Update(_ context.Context, _ *auth.Identity, id string, _ *model.UserUpdate) (*model.User, error) {
	return &model.User{ID: id}, nil
}

func (m *mockUserService) Promote(_ context.Context, id string) (*model.User, error) {
	m.promoted = id
	return &model.User{ID: id, Role: model.RoleAdmin}, nil
}

func (m *mockUserService) Delete(_ context.Context, actor *auth.Identity, id string) error {
	m.deleteBy = actor
	if actor.UserID == id {
		return apperrors.Forbidden("Admins cannot delete themselves")
	}
	return nil
}

const secret = "admin-test-secret-0123456789"

func setup(users *mockUserService) (*httprouter.Router, auth.TokenMaker) {
	maker := auth.NewJWTMaker(secret, time.Hour)
	router := httprouter.New()
	stats := &mockAdminService{stats: &model.AdminStats{TotalUsers: 3, BookingsByStatus: map[string]int64{"pending": 1}}}
	NewAdminHandler(stats, users, middleware.NewGate(maker, logger.Discard()), logger.Discard()).RegisterRoutes(router)
	return router, maker
}

func do(t *testing.T, router http.Handler, maker auth.TokenMaker, role model.Role, method, path string) *httptest.ResponseRecorder {
	token, err := maker.Generate(&model.User{ID: "admin-1", Role: role})
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStats(t *testing.T) {
	router, maker := setup(&mockUserService{})

	rec := do(t, router, maker, model.RoleAdmin, http.MethodGet, "/api/admin/stats")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data model.AdminStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Data.TotalUsers)
	assert.Equal(t, int64(1), body.Data.BookingsByStatus["pending"])
}

func TestRoutes_RequireAdmin(t *testing.T) {
	router, maker := setup(&mockUserService{})

	for _, path := range []string{"/api/admin/stats", "/api/admin/users"} {
		rec := do(t, router, maker, model.RoleUser, http.MethodGet, path)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestPromoteUser(t *testing.T) {
	users := &mockUserService{}
	router, maker := setup(users)

	rec := do(t, router, maker, model.RoleAdmin, http.MethodPut, "/api/admin/users/u2/promote")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u2", users.promoted)
}

func TestDeleteUser_Self(t *testing.T) {
	users := &mockUserService{}
	router, maker := setup(users)

	rec := do(t, router, maker, model.RoleAdmin, http.MethodDelete, "/api/admin/users/admin-1")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, users.deleteBy)
	assert.Equal(t, "admin-1", users.deleteBy.UserID)
}
