package service

import (
	"context"
	"errors"
	"testing"

	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/logger"
	"carrental/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	total, admins int64
	err           error
}

func (m *mockUsers) Count(context.Context) (int64, error) { return m.total, m.err }

func (m *mockUsers) CountByRole(_ context.Context, role model.Role) (int64, error) {
	if role != model.RoleAdmin {
		return 0, nil
	}
	return m.admins, nil
}

type mockVehicles struct{ total int64 }

func (m *mockVehicles) Count(context.Context) (int64, error) { return m.total, nil }

type mockBookings struct {
	total    int64
	byStatus map[string]int64
}

func (m *mockBookings) Count(context.Context) (int64, error) { return m.total, nil }

func (m *mockBookings) CountByStatus(context.Context) (map[string]int64, error) {
	return m.byStatus, nil
}

func TestStats(t *testing.T) {
	svc := NewAdminService(
		&mockUsers{total: 12, admins: 2},
		&mockVehicles{total: 5},
		&mockBookings{total: 7, byStatus: map[string]int64{"pending": 3, "confirmed": 2, "cancelled": 1, "completed": 1}},
		&config.Config{Log: logger.Discard()},
	)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalAdmins)
	assert.Equal(t, int64(5), stats.TotalCars)
	assert.Equal(t, int64(7), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.BookingsByStatus["pending"])
}

func TestStats_StoreFailure(t *testing.T) {
	svc := NewAdminService(
		&mockUsers{err: errors.New("connection reset")},
		&mockVehicles{},
		&mockBookings{byStatus: map[string]int64{}},
		&config.Config{Log: logger.Discard()},
	)

	stats, err := svc.Stats(context.Background())

	require.Error(t, err)
	assert.Nil(t, stats)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}
