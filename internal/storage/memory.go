package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
)

// MemoryStore holds all data in memory. Used for tests and for local runs
// with USE_MEMORY_STORE=true.
type MemoryStore struct {
	users      map[uint]*models.User
	drivers    map[uint]*models.Driver
	deliveries map[uint]*models.Delivery
	updates    []*models.DeliveryStatusUpdate

	mu sync.RWMutex

	// Counters for ID generation
	userCounter     uint
	driverCounter   uint
	deliveryCounter uint
	updateCounter   uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint]*models.User),
		drivers:    make(map[uint]*models.Driver),
		deliveries: make(map[uint]*models.Delivery),
	}
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, apperr.New(apperr.KindConflict, "Username or Email already exists")
		}
	}

	m.userCounter++
	user.ID = m.userCounter
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	m.users[user.ID] = user
	return user, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "User not found")
}

func (m *MemoryStore) GetUserByEmailAndOTP(email, code string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email && u.OTP != nil && *u.OTP == code {
			return u, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "Invalid OTP or email")
}

func (m *MemoryStore) GetStaffByID(id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, exists := m.users[id]
	if !exists || u.Role != models.RoleStaff {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	return u, nil
}

func (m *MemoryStore) UpdateUser(id uint, update *models.UserUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, exists := m.users[id]
	if !exists {
		return apperr.New(apperr.KindNotFound, "User not found")
	}

	for _, other := range m.users {
		if other.ID == id {
			continue
		}
		if (update.Username != "" && other.Username == update.Username) ||
			(update.Email != "" && other.Email == update.Email) {
			return apperr.New(apperr.KindConflict, "Username or Email already exists")
		}
	}

	if update.Username != "" {
		u.Username = update.Username
	}
	if update.Email != "" {
		u.Email = update.Email
	}
	if update.Password != "" {
		u.Password = update.Password
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) DeleteUser(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[id]; !exists {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	delete(m.users, id)
	return nil
}

func (m *MemoryStore) SetResetCode(email, code string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			c := code
			e := expires
			u.OTP = &c
			u.OTPExpires = &e
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return apperr.New(apperr.KindNotFound, "User not found")
}

func (m *MemoryStore) ResetPassword(email, hashedPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			u.Password = hashedPassword
			u.OTP = nil
			u.OTPExpires = nil
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return apperr.New(apperr.KindNotFound, "User not found")
}

// Driver pool operations

func (m *MemoryStore) CreateDriver(driver *models.Driver) (*models.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.driverCounter++
	driver.ID = m.driverCounter
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt

	m.drivers[driver.ID] = driver
	return driver, nil
}

func (m *MemoryStore) GetDriver(id uint) (*models.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	driver, exists := m.drivers[id]
	if !exists {
		return nil, apperr.New(apperr.KindNotFound, "Driver not found")
	}
	return driver, nil
}

func (m *MemoryStore) GetAvailableDrivers() ([]*models.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var drivers []*models.Driver
	for _, d := range m.drivers {
		if d.IsAvailable {
			drivers = append(drivers, d)
		}
	}
	// Stable order so a deterministic selection policy sees a deterministic pool.
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].ID < drivers[j].ID })
	return drivers, nil
}

func (m *MemoryStore) ReleaseDriver(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	driver, exists := m.drivers[id]
	if !exists {
		return apperr.New(apperr.KindNotFound, "Driver not found")
	}
	driver.IsAvailable = true
	driver.UpdatedAt = time.Now()
	return nil
}

// Delivery operations

func (m *MemoryStore) CreateDelivery(delivery *models.Delivery) (*models.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	driver, exists := m.drivers[delivery.AssignedDriverID]
	if !exists {
		return nil, apperr.New(apperr.KindDb, "Failed to create delivery")
	}

	m.deliveryCounter++
	delivery.ID = m.deliveryCounter
	delivery.CreatedAt = time.Now()
	delivery.UpdatedAt = delivery.CreatedAt

	m.deliveries[delivery.ID] = delivery
	driver.IsAvailable = false
	driver.UpdatedAt = delivery.CreatedAt
	return delivery, nil
}

func (m *MemoryStore) GetDelivery(id uint) (*models.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	delivery, exists := m.deliveries[id]
	if !exists {
		return nil, apperr.New(apperr.KindNotFound, "Delivery not found")
	}
	return delivery, nil
}

func (m *MemoryStore) GetDeliveriesByDriver(driverID uint) ([]*models.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var deliveries []*models.Delivery
	for _, d := range m.deliveries {
		if d.AssignedDriverID == driverID {
			deliveries = append(deliveries, d)
		}
	}
	return deliveries, nil
}

func (m *MemoryStore) GetDeliveriesBySender(senderName string) ([]*models.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var deliveries []*models.Delivery
	for _, d := range m.deliveries {
		if d.SenderName == senderName {
			deliveries = append(deliveries, d)
		}
	}
	return deliveries, nil
}

func (m *MemoryStore) GetAllDeliveries() ([]*models.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var deliveries []*models.Delivery
	for _, d := range m.deliveries {
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

func (m *MemoryStore) UpdateDeliveryStatus(id uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delivery, exists := m.deliveries[id]
	if !exists {
		return apperr.New(apperr.KindNotFound, "Delivery not found")
	}
	delivery.Status = status
	delivery.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) SetProofOfDelivery(id uint, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delivery, exists := m.deliveries[id]
	if !exists {
		return apperr.New(apperr.KindNotFound, "Delivery not found")
	}
	delivery.ProofOfDelivery = &filename
	delivery.UpdatedAt = time.Now()
	return nil
}

// Status ledger operations

func (m *MemoryStore) AppendStatusUpdate(deliveryID uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCounter++
	m.updates = append(m.updates, &models.DeliveryStatusUpdate{
		ID:         m.updateCounter,
		DeliveryID: deliveryID,
		Status:     status,
		UpdatedAt:  time.Now(),
	})
	return nil
}

func (m *MemoryStore) GetStatusTimeline(deliveryID uint) ([]*models.DeliveryStatusUpdate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var timeline []*models.DeliveryStatusUpdate
	for _, u := range m.updates {
		if u.DeliveryID == deliveryID {
			timeline = append(timeline, u)
		}
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].UpdatedAt.Before(timeline[j].UpdatedAt)
	})
	return timeline, nil
}

// Reporting operations

func (m *MemoryStore) CountDeliveriesByStatus() (*models.DashboardSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := &models.DashboardSummary{}
	for _, d := range m.deliveries {
		summary.Total++
		switch d.Status {
		case models.StatusPending:
			summary.Pending++
		case models.StatusOnTheWay:
			summary.OnTheWay++
		case models.StatusDelivered:
			summary.Delivered++
		}
	}
	return summary, nil
}
