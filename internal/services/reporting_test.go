package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
	"github.com/Esayas077/Backend/internal/storage"
)

func TestDashboardSummary(t *testing.T) {
	store := storage.NewMemoryStore()
	deliveries := NewDeliveryService(store, &fakeFileStore{}, firstPolicy{})
	reporting := NewReportingService(store)

	summary, err := reporting.DashboardSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Total)

	for i := 0; i < 3; i++ {
		addDriver(t, store, "D")
		_, _, err := deliveries.CreateDelivery(validRequest())
		require.NoError(t, err)
	}
	require.NoError(t, deliveries.UpdateStatus(1, models.StatusOnTheWay))
	require.NoError(t, deliveries.UpdateStatus(2, models.StatusDelivered))

	summary, err = reporting.DashboardSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(1), summary.Pending)
	assert.Equal(t, int64(1), summary.OnTheWay)
	assert.Equal(t, int64(1), summary.Delivered)
}

func TestStaffDashboard(t *testing.T) {
	store := storage.NewMemoryStore()
	auth := NewAuthService(store, &fakeMailer{}, NewTokenService("test-secret"))
	deliveries := NewDeliveryService(store, &fakeFileStore{}, firstPolicy{})
	reporting := NewReportingService(store)

	requester := register(t, auth, "ron", "ron@example.com", models.RoleRequester)
	staff := register(t, auth, "sam", "sam@example.com", models.RoleStaff)

	// Requester and unknown ids are both denied
	_, err := reporting.StaffDashboard(requester.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	_, err = reporting.StaffDashboard(999)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// Staff with no deliveries in the system sees a not-found
	_, err = reporting.StaffDashboard(staff.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	addDriver(t, store, "Bob")
	_, _, err = deliveries.CreateDelivery(validRequest())
	require.NoError(t, err)

	// Staff sees every delivery, unscoped
	all, err := reporting.StaffDashboard(staff.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
