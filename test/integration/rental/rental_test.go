//go:build integration

package rental

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"carrental/pkg/client"
	"carrental/pkg/model"
	"carrental/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingStart(daysAhead int) time.Time {
	return time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, daysAhead)
}

func TestBookingLifecycle(t *testing.T) {
	anon, admin := testutil.NewTestEnv().Setup(t)
	user, login := testutil.RegisterAndLogin(t, anon)
	vehicle := testutil.CreateVehicle(t, admin, "Swift Lifecycle", 1500)
	start := bookingStart(40)

	resp, err := user.CreateBooking(testutil.BookingRequest(login.UserID, vehicle.ID, start, 4))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))
	booking, err := client.DecodeMessageData[model.Booking](resp)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, booking.Status)

	t.Run("overlapping range is rejected", func(t *testing.T) {
		resp, err := user.CreateBooking(testutil.BookingRequest(login.UserID, vehicle.ID, start.AddDate(0, 0, 2), 4))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("back to back range is accepted", func(t *testing.T) {
		resp, err := user.CreateBooking(testutil.BookingRequest(login.UserID, vehicle.ID, start.AddDate(0, 0, 4), 2))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))
	})

	t.Run("owner sees the booking with joined vehicle", func(t *testing.T) {
		resp, err := user.UserBookings(login.UserID)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var views []model.BookingView
		require.NoError(t, resp.DecodeData(&views))
		require.Len(t, views, 2)
		require.NotNil(t, views[0].Vehicle)
		assert.Equal(t, vehicle.ID, views[0].Vehicle.ID)
	})

	t.Run("owner cancels while pending", func(t *testing.T) {
		resp, err := user.CancelBooking(booking.ID, "plans changed")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))

		cancelled, err := client.DecodeMessageData[model.Booking](resp)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, cancelled.Status)
		assert.Equal(t, "plans changed", cancelled.CancellationReason)
	})

	t.Run("cancelling twice is rejected", func(t *testing.T) {
		resp, err := user.CancelBooking(booking.ID, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("admin is notified of the cancellation", func(t *testing.T) {
		require.Eventually(t, func() bool {
			resp, err := admin.Notifications("unread")
			if err != nil || resp.StatusCode != http.StatusOK {
				return false
			}
			var items []model.AdminNotification
			if err := resp.DecodeData(&items); err != nil {
				return false
			}
			for _, n := range items {
				if n.BookingID == booking.ID && n.Title == "Booking cancelled" {
					return true
				}
			}
			return false
		}, 10*time.Second, 200*time.Millisecond)
	})
}

func TestAdminApprovesBooking(t *testing.T) {
	anon, admin := testutil.NewTestEnv().Setup(t)
	user, login := testutil.RegisterAndLogin(t, anon)
	vehicle := testutil.CreateVehicle(t, admin, "City Approve", 2200)

	resp, err := user.CreateBooking(testutil.BookingRequest(login.UserID, vehicle.ID, bookingStart(60), 3))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))
	booking, err := client.DecodeMessageData[model.Booking](resp)
	require.NoError(t, err)

	resp, err = admin.UpdateBookingStatus(booking.ID, model.BookingStatusUpdate{Status: string(model.BookingConfirmed)})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))
	confirmed, err := client.DecodeMessageData[model.Booking](resp)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, confirmed.Status)
	assert.NotEmpty(t, confirmed.ApprovedBy)

	resp, err = user.CancelBooking(booking.ID, "too late")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = user.UpdateBookingStatus(booking.ID, model.BookingStatusUpdate{Status: string(model.BookingCompleted)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConcurrentBookingsForOneVehicle(t *testing.T) {
	anon, admin := testutil.NewTestEnv().Setup(t)
	vehicle := testutil.CreateVehicle(t, admin, "Race Car", 3000)
	start := bookingStart(80)

	const workers = 8
	users := make([]*client.RentalClient, workers)
	ids := make([]string, workers)
	for i := range users {
		c, login := testutil.RegisterAndLogin(t, anon)
		users[i], ids[i] = c, login.UserID
	}

	var wg sync.WaitGroup
	codes := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := users[i].CreateBooking(testutil.BookingRequest(ids[i], vehicle.ID, start, 5))
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			codes[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestAuthorizationRules(t *testing.T) {
	anon, admin := testutil.NewTestEnv().Setup(t)
	alice, aliceLogin := testutil.RegisterAndLogin(t, anon)
	_, bobLogin := testutil.RegisterAndLogin(t, anon)
	vehicle := testutil.CreateVehicle(t, admin, "Guarded", 1000)

	t.Run("booking for someone else is forbidden", func(t *testing.T) {
		resp, err := alice.CreateBooking(testutil.BookingRequest(bobLogin.UserID, vehicle.ID, bookingStart(100), 1))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("reading someone else's bookings is forbidden", func(t *testing.T) {
		resp, err := alice.UserBookings(bobLogin.UserID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("listing all bookings needs admin", func(t *testing.T) {
		resp, err := alice.ListBookings(10, 0)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := anon.CreateBooking(testutil.BookingRequest(aliceLogin.UserID, vehicle.ID, bookingStart(100), 1))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("admin stats", func(t *testing.T) {
		resp, err := admin.AdminStats()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats model.AdminStats
		require.NoError(t, resp.DecodeData(&stats))
		assert.GreaterOrEqual(t, stats.TotalUsers, int64(3))
		assert.GreaterOrEqual(t, stats.TotalAdmins, int64(1))
		assert.Contains(t, stats.BookingsByStatus, "pending")
	})
}
