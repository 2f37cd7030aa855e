package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
	"github.com/Esayas077/Backend/internal/storage"
)

// firstPolicy always picks the first available driver, for deterministic tests.
type firstPolicy struct{}

func (firstPolicy) Select(drivers []*models.Driver) *models.Driver { return drivers[0] }

type fakeFileStore struct {
	filename string
	data     []byte
	err      error
}

func (f *fakeFileStore) SaveProof(filename string, data []byte) error {
	if f.err != nil {
		return apperr.Wrap(apperr.KindStorage, "Failed to save file", f.err)
	}
	f.filename = filename
	f.data = data
	return nil
}

func newDeliveryFixture() (*DeliveryService, *storage.MemoryStore, *fakeFileStore) {
	store := storage.NewMemoryStore()
	files := &fakeFileStore{}
	svc := NewDeliveryService(store, files, firstPolicy{})
	return svc, store, files
}

func addDriver(t *testing.T, store *storage.MemoryStore, name string) *models.Driver {
	t.Helper()
	driver, err := store.CreateDriver(&models.Driver{Name: name, IsAvailable: true})
	require.NoError(t, err)
	return driver
}

func validRequest() *models.DeliveryRequest {
	return &models.DeliveryRequest{
		SenderName:      "Alice",
		ReceiverAddress: "12 Oak St",
		PackageInfo:     "1 box, 2kg",
	}
}

func TestCreateDeliveryValidation(t *testing.T) {
	svc, _, _ := newDeliveryFixture()

	for _, req := range []*models.DeliveryRequest{
		{ReceiverAddress: "12 Oak St", PackageInfo: "1 box"},
		{SenderName: "Alice", PackageInfo: "1 box"},
		{SenderName: "Alice", ReceiverAddress: "12 Oak St"},
	} {
		_, _, err := svc.CreateDelivery(req)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	}
}

func TestCreateDeliveryNoAvailableDrivers(t *testing.T) {
	svc, _, _ := newDeliveryFixture()

	_, _, err := svc.CreateDelivery(validRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNoCapacity))

	// No delivery row was created
	_, err = svc.History("Alice")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateDeliveryAssignsAndClaimsDriver(t *testing.T) {
	svc, store, _ := newDeliveryFixture()
	bob := addDriver(t, store, "Bob")

	delivery, driver, err := svc.CreateDelivery(validRequest())
	require.NoError(t, err)
	assert.Equal(t, bob.ID, driver.ID)
	assert.Equal(t, "Bob", driver.Name)
	assert.Equal(t, models.StatusPending, delivery.Status)
	assert.Equal(t, bob.ID, delivery.AssignedDriverID)
	assert.Equal(t, "Medium", delivery.Priority)
	assert.Nil(t, delivery.DeliveryNote)

	// The driver pool now shows Bob unavailable
	stored, err := store.GetDriver(bob.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	// And a second create finds nobody left
	_, _, err = svc.CreateDelivery(validRequest())
	assert.True(t, apperr.IsKind(err, apperr.KindNoCapacity))
}

func TestCreateDeliveryOptionalFields(t *testing.T) {
	svc, store, _ := newDeliveryFixture()
	addDriver(t, store, "Bob")

	req := validRequest()
	req.DeliveryNote = "leave at the door"
	req.Priority = "High"

	delivery, _, err := svc.CreateDelivery(req)
	require.NoError(t, err)
	require.NotNil(t, delivery.DeliveryNote)
	assert.Equal(t, "leave at the door", *delivery.DeliveryNote)
	assert.Equal(t, "High", delivery.Priority)
}

func TestRandomPolicy(t *testing.T) {
	a := &models.Driver{Name: "A"}
	a.ID = 1
	b := &models.Driver{Name: "B"}
	b.ID = 2

	policy := NewRandomPolicy()

	// A singleton pool is always picked
	for i := 0; i < 10; i++ {
		assert.Equal(t, a, policy.Select([]*models.Driver{a}))
	}

	// Both members of a larger pool get picked eventually
	seen := map[uint]bool{}
	for i := 0; i < 200; i++ {
		seen[policy.Select([]*models.Driver{a, b}).ID] = true
	}
	assert.True(t, seen[1] && seen[2])
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _, _ := newDeliveryFixture()

	err := svc.UpdateStatus(1, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = svc.UpdateStatus(1, "lost")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = svc.UpdateStatus(42, models.StatusDelivered)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateStatusAppendsLedger(t *testing.T) {
	svc, store, _ := newDeliveryFixture()
	addDriver(t, store, "Bob")
	delivery, _, err := svc.CreateDelivery(validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(delivery.ID, models.StatusOnTheWay))

	stored, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnTheWay, stored.Status)

	timeline, err := svc.Timeline(delivery.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, models.StatusOnTheWay, timeline[0].Status)
}

func TestStatusTransitionsAreUnrestricted(t *testing.T) {
	svc, store, _ := newDeliveryFixture()
	addDriver(t, store, "Bob")
	delivery, _, err := svc.CreateDelivery(validRequest())
	require.NoError(t, err)

	// Any member of the enum may move to any other, including going back
	// from delivered and re-applying the current value.
	sequence := []string{
		models.StatusOnTheWay,
		models.StatusDelivered,
		models.StatusPending,
		models.StatusPending,
		models.StatusDelivered,
	}
	for _, status := range sequence {
		require.NoError(t, svc.UpdateStatus(delivery.ID, status))
	}

	timeline, err := svc.Timeline(delivery.ID)
	require.NoError(t, err)
	require.Len(t, timeline, len(sequence))
	for i, entry := range timeline {
		assert.Equal(t, sequence[i], entry.Status)
	}
}

func TestTimelineOrderedOldestFirst(t *testing.T) {
	svc, store, _ := newDeliveryFixture()
	addDriver(t, store, "Bob")
	delivery, _, err := svc.CreateDelivery(validRequest())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.UpdateStatus(delivery.ID, models.StatusOnTheWay))
		time.Sleep(time.Millisecond)
	}

	timeline, err := svc.Timeline(delivery.ID)
	require.NoError(t, err)
	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i].UpdatedAt.Before(timeline[i-1].UpdatedAt))
	}
}

func TestTimelineNotFound(t *testing.T) {
	svc, _, _ := newDeliveryFixture()
	_, err := svc.Timeline(42)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListAssigned(t *testing.T) {
	svc, store, _ := newDeliveryFixture()
	bob := addDriver(t, store, "Bob")

	_, err := svc.ListAssigned(bob.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, _, err = svc.CreateDelivery(validRequest())
	require.NoError(t, err)

	deliveries, err := svc.ListAssigned(bob.ID)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, bob.ID, deliveries[0].AssignedDriverID)
}

func TestUploadProof(t *testing.T) {
	svc, store, files := newDeliveryFixture()
	addDriver(t, store, "Bob")
	delivery, _, err := svc.CreateDelivery(validRequest())
	require.NoError(t, err)

	_, err = svc.UploadProof(delivery.ID, "photo.jpg", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	filename, err := svc.UploadProof(delivery.ID, "photo.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("proof_%d_%d_photo.jpg", delivery.ID, at.UnixMilli()), filename)
	assert.Equal(t, filename, files.filename)
	assert.Equal(t, []byte("jpeg-bytes"), files.data)

	stored, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ProofOfDelivery)
	assert.Equal(t, filename, *stored.ProofOfDelivery)
}

func TestUploadProofStorageFailure(t *testing.T) {
	svc, store, files := newDeliveryFixture()
	addDriver(t, store, "Bob")
	delivery, _, err := svc.CreateDelivery(validRequest())
	require.NoError(t, err)

	files.err = errors.New("disk full")
	_, err = svc.UploadProof(delivery.ID, "photo.jpg", []byte("jpeg-bytes"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindStorage))

	stored, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ProofOfDelivery)
}

func TestUploadProofRowUpdateFailureOrphansFile(t *testing.T) {
	svc, _, files := newDeliveryFixture()

	_, err := svc.UploadProof(42, "photo.jpg", []byte("jpeg-bytes"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// The file landed before the row update failed
	assert.NotEmpty(t, files.filename)
}

func TestHistoryAndDetail(t *testing.T) {
	svc, store, _ := newDeliveryFixture()
	addDriver(t, store, "Bob")
	delivery, _, err := svc.CreateDelivery(validRequest())
	require.NoError(t, err)

	history, err := svc.History("Alice")
	require.NoError(t, err)
	require.Len(t, history, 1)

	_, err = svc.History("Nobody")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	detail, err := svc.Detail(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Oak St", detail.ReceiverAddress)

	_, err = svc.Detail(999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestReleaseDriver(t *testing.T) {
	svc, store, _ := newDeliveryFixture()
	bob := addDriver(t, store, "Bob")

	_, _, err := svc.CreateDelivery(validRequest())
	require.NoError(t, err)

	stored, err := store.GetDriver(bob.ID)
	require.NoError(t, err)
	require.False(t, stored.IsAvailable)

	require.NoError(t, svc.ReleaseDriver(bob.ID))

	stored, err = store.GetDriver(bob.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAvailable)

	err = svc.ReleaseDriver(999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
