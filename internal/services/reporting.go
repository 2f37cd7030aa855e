package services

import (
	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
	"github.com/Esayas077/Backend/internal/storage"
)

// ReportingService serves the read-only aggregation queries.
type ReportingService struct {
	store storage.Store
}

// NewReportingService creates a reporting service.
func NewReportingService(store storage.Store) *ReportingService {
	return &ReportingService{store: store}
}

// DashboardSummary returns total and per-status delivery counts as a
// point-in-time snapshot.
func (s *ReportingService) DashboardSummary() (*models.DashboardSummary, error) {
	return s.store.CountDeliveriesByStatus()
}

// StaffDashboard verifies the caller is a staff user, then returns every
// delivery in the system, unscoped.
func (s *ReportingService) StaffDashboard(userID uint) ([]*models.Delivery, error) {
	if _, err := s.store.GetStaffByID(userID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.New(apperr.KindForbidden, "Access denied. User is not staff.")
		}
		return nil, err
	}

	deliveries, err := s.store.GetAllDeliveries()
	if err != nil {
		return nil, err
	}
	if len(deliveries) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "No deliveries found.")
	}
	return deliveries, nil
}
