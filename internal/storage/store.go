package storage

import (
	"sync"
	"time"

	"github.com/Esayas077/Backend/internal/models"
)

var (
	storeInstance Store
	storeMu       sync.RWMutex
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return storeInstance
}

// Store defines the interface for storage operations. Implementations return
// apperr taxonomy errors: Conflict on uniqueness violations, NotFound when no
// row matched, Db for anything else.
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByEmailAndOTP(email, code string) (*models.User, error)
	GetStaffByID(id uint) (*models.User, error)
	UpdateUser(id uint, update *models.UserUpdate) error
	DeleteUser(id uint) error
	SetResetCode(email, code string, expires time.Time) error
	ResetPassword(email, hashedPassword string) error

	// Driver pool operations
	CreateDriver(driver *models.Driver) (*models.Driver, error)
	GetDriver(id uint) (*models.Driver, error)
	GetAvailableDrivers() ([]*models.Driver, error)
	ReleaseDriver(id uint) error

	// Delivery operations. CreateDelivery inserts the row and claims the
	// assigned driver as a single unit.
	CreateDelivery(delivery *models.Delivery) (*models.Delivery, error)
	GetDelivery(id uint) (*models.Delivery, error)
	GetDeliveriesByDriver(driverID uint) ([]*models.Delivery, error)
	GetDeliveriesBySender(senderName string) ([]*models.Delivery, error)
	GetAllDeliveries() ([]*models.Delivery, error)
	UpdateDeliveryStatus(id uint, status string) error
	SetProofOfDelivery(id uint, filename string) error

	// Status ledger operations
	AppendStatusUpdate(deliveryID uint, status string) error
	GetStatusTimeline(deliveryID uint) ([]*models.DeliveryStatusUpdate, error)

	// Reporting operations
	CountDeliveriesByStatus() (*models.DashboardSummary, error)
}
