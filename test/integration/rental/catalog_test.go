//go:build integration

package rental

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"carrental/pkg/client"
	"carrental/pkg/model"
	"carrental/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleCatalog(t *testing.T) {
	anon, admin := testutil.NewTestEnv().Setup(t)
	vehicle := testutil.CreateVehicle(t, admin, "Catalog Swift", 1800)
	require.True(t, vehicle.Available)

	t.Run("public read includes image url", func(t *testing.T) {
		resp, err := anon.GetVehicle(vehicle.ID)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got model.Vehicle
		require.NoError(t, resp.DecodeData(&got))
		assert.True(t, strings.HasSuffix(got.ImageURL, got.Image), got.ImageURL)
	})

	t.Run("uploaded image is served", func(t *testing.T) {
		resp, err := anon.HTTP().GET("/" + vehicle.Image)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("listed publicly", func(t *testing.T) {
		resp, err := anon.ListVehicles()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var all []model.Vehicle
		require.NoError(t, resp.DecodeData(&all))
		var found bool
		for _, v := range all {
			found = found || v.ID == vehicle.ID
		}
		assert.True(t, found)
	})

	t.Run("partial update", func(t *testing.T) {
		price := 2100.0
		resp, err := admin.UpdateVehicle(vehicle.ID, model.VehicleUpdate{PricePerDay: &price})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))

		updated, err := client.DecodeMessageData[model.Vehicle](resp)
		require.NoError(t, err)
		assert.Equal(t, price, updated.PricePerDay)
		assert.Equal(t, vehicle.Name, updated.Name)
	})

	t.Run("create without image is rejected", func(t *testing.T) {
		resp, err := admin.CreateVehicle(map[string]string{"name": "No Image", "brand": "Tata", "pricePerDay": "900"}, "", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("users cannot manage vehicles", func(t *testing.T) {
		user, _ := testutil.RegisterAndLogin(t, anon)
		resp, err := user.DeleteVehicle(vehicle.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		resp, err := admin.DeleteVehicle(vehicle.ID)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = anon.GetVehicle(vehicle.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAdminDeletesBooking(t *testing.T) {
	anon, admin := testutil.NewTestEnv().Setup(t)
	user, login := testutil.RegisterAndLogin(t, anon)
	vehicle := testutil.CreateVehicle(t, admin, "Delete Target", 1200)

	resp, err := user.CreateBooking(testutil.BookingRequest(login.UserID, vehicle.ID, bookingStart(120), 2))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))
	booking, err := client.DecodeMessageData[model.Booking](resp)
	require.NoError(t, err)

	resp, err = user.GetBooking(booking.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var details model.BookingDetails
	require.NoError(t, resp.DecodeData(&details))
	require.NotNil(t, details.User)
	assert.Equal(t, login.Username, details.User.Username)

	resp, err = admin.DeleteBooking(booking.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = admin.GetBooking(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var notification *model.AdminNotification
	require.Eventually(t, func() bool {
		resp, err := admin.Notifications("unread")
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		var items []*model.AdminNotification
		if err := resp.DecodeData(&items); err != nil {
			return false
		}
		for _, n := range items {
			if n.BookingID == booking.ID && n.Title == "Booking deleted" {
				notification = n
				return true
			}
		}
		return false
	}, 10*time.Second, 200*time.Millisecond)

	resp, err = admin.MarkNotificationRead(notification.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	read, err := client.DecodeMessageData[model.AdminNotification](resp)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationRead, read.Status)
}
