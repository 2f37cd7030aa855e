package services

import (
	"fmt"
	"time"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
	"github.com/Esayas077/Backend/internal/storage"
)

// DeliveryService manages the delivery lifecycle: creation with driver
// assignment, status transitions with the append-only ledger, and proof
// uploads.
type DeliveryService struct {
	store  storage.Store
	files  storage.FileStore
	policy SelectionPolicy

	now func() time.Time
}

// NewDeliveryService creates a delivery service with the given selection
// policy (uniform-random in production).
func NewDeliveryService(store storage.Store, files storage.FileStore, policy SelectionPolicy) *DeliveryService {
	return &DeliveryService{
		store:  store,
		files:  files,
		policy: policy,
		now:    time.Now,
	}
}

// CreateDelivery validates the request, picks a driver from the available
// pool, and creates the delivery while claiming that driver. Returns the
// stored delivery and the assigned driver's record.
func (s *DeliveryService) CreateDelivery(req *models.DeliveryRequest) (*models.Delivery, *models.Driver, error) {
	if req.SenderName == "" || req.ReceiverAddress == "" || req.PackageInfo == "" {
		return nil, nil, apperr.New(apperr.KindValidation, "All required fields must be filled")
	}

	drivers, err := s.store.GetAvailableDrivers()
	if err != nil {
		return nil, nil, err
	}
	if len(drivers) == 0 {
		return nil, nil, apperr.New(apperr.KindNoCapacity, "No available drivers found")
	}

	driver := s.policy.Select(drivers)

	delivery := &models.Delivery{
		SenderName:       req.SenderName,
		ReceiverAddress:  req.ReceiverAddress,
		PackageInfo:      req.PackageInfo,
		Status:           models.StatusPending,
		AssignedDriverID: driver.ID,
		Priority:         "Medium",
	}
	if req.DeliveryNote != "" {
		delivery.DeliveryNote = &req.DeliveryNote
	}
	if req.Priority != "" {
		delivery.Priority = req.Priority
	}

	delivery, err = s.store.CreateDelivery(delivery)
	if err != nil {
		return nil, nil, err
	}
	return delivery, driver, nil
}

// ListAssigned returns every delivery assigned to the driver.
func (s *DeliveryService) ListAssigned(driverID uint) ([]*models.Delivery, error) {
	deliveries, err := s.store.GetDeliveriesByDriver(driverID)
	if err != nil {
		return nil, err
	}
	if len(deliveries) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "No deliveries found for this driver")
	}
	return deliveries, nil
}

// UpdateStatus moves the delivery to the given status and appends a ledger
// row. Any enum member may move to any other, including re-applying the
// current value. The ledger append runs after the update; if it fails the
// status change stands and the failure is surfaced as a delivery error.
func (s *DeliveryService) UpdateStatus(deliveryID uint, status string) error {
	if status == "" {
		return apperr.New(apperr.KindValidation, "Status is required")
	}
	if !models.ValidStatus(status) {
		return apperr.New(apperr.KindValidation, "Invalid status value")
	}

	if err := s.store.UpdateDeliveryStatus(deliveryID, status); err != nil {
		return err
	}
	return s.store.AppendStatusUpdate(deliveryID, status)
}

// UploadProof stores the artifact under a timestamped name and records that
// name on the delivery row. A failed row update can leave the file orphaned
// on disk.
func (s *DeliveryService) UploadProof(deliveryID uint, originalName string, data []byte) (string, error) {
	if originalName == "" || len(data) == 0 {
		return "", apperr.New(apperr.KindValidation, "No file uploaded")
	}

	filename := fmt.Sprintf("proof_%d_%d_%s", deliveryID, s.now().UnixMilli(), originalName)

	if err := s.files.SaveProof(filename, data); err != nil {
		return "", err
	}
	if err := s.store.SetProofOfDelivery(deliveryID, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// History returns every delivery created under the given sender name.
func (s *DeliveryService) History(senderName string) ([]*models.Delivery, error) {
	deliveries, err := s.store.GetDeliveriesBySender(senderName)
	if err != nil {
		return nil, err
	}
	if len(deliveries) == 0 {
		return nil, apperr.New(apperr.KindNotFound,
			fmt.Sprintf("No deliveries found for sender %q", senderName))
	}
	return deliveries, nil
}

// Detail returns a single delivery by id.
func (s *DeliveryService) Detail(deliveryID uint) (*models.Delivery, error) {
	return s.store.GetDelivery(deliveryID)
}

// Timeline returns the delivery's status ledger ordered oldest first.
func (s *DeliveryService) Timeline(deliveryID uint) ([]*models.DeliveryStatusUpdate, error) {
	timeline, err := s.store.GetStatusTimeline(deliveryID)
	if err != nil {
		return nil, err
	}
	if len(timeline) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "No timeline found for this delivery")
	}
	return timeline, nil
}

// ReleaseDriver returns a driver to the available pool. Nothing in the HTTP
// surface calls this; it completes the pool model so capacity can be given
// back operationally.
func (s *DeliveryService) ReleaseDriver(driverID uint) error {
	return s.store.ReleaseDriver(driverID)
}
