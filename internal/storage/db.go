package storage

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
)

// DatabaseStore implements Store on top of GORM/PostgreSQL.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given database handle.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// User operations

func (s *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := s.db.Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperr.New(apperr.KindConflict, "Username or Email already exists")
		}
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return user, nil
}

func (s *DatabaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByEmailAndOTP(email, code string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ? AND otp = ?", email, code).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Invalid OTP or email")
		}
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetStaffByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND role = ?", id, models.RoleStaff).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(id uint, update *models.UserUpdate) error {
	fields := map[string]interface{}{}
	if update.Username != "" {
		fields["username"] = update.Username
	}
	if update.Email != "" {
		fields["email"] = update.Email
	}
	if update.Password != "" {
		fields["password"] = update.Password
	}

	res := s.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return apperr.New(apperr.KindConflict, "Username or Email already exists")
		}
		return apperr.Wrap(apperr.KindDb, "Database error", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	return nil
}

func (s *DatabaseStore) DeleteUser(id uint) error {
	res := s.db.Unscoped().Delete(&models.User{}, id)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDb, "Database error", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	return nil
}

func (s *DatabaseStore) SetResetCode(email, code string, expires time.Time) error {
	res := s.db.Model(&models.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"otp":         code,
		"otp_expires": expires,
	})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDb, "Failed to save OTP", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	return nil
}

func (s *DatabaseStore) ResetPassword(email, hashedPassword string) error {
	res := s.db.Model(&models.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"password":    hashedPassword,
		"otp":         nil,
		"otp_expires": nil,
	})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDb, "Failed to reset password", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "User not found")
	}
	return nil
}

// Driver pool operations

func (s *DatabaseStore) CreateDriver(driver *models.Driver) (*models.Driver, error) {
	if err := s.db.Create(driver).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return driver, nil
}

func (s *DatabaseStore) GetDriver(id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := s.db.First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Driver not found")
		}
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return &driver, nil
}

func (s *DatabaseStore) GetAvailableDrivers() ([]*models.Driver, error) {
	var drivers []*models.Driver
	if err := s.db.Where("is_available = ?", true).Find(&drivers).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return drivers, nil
}

func (s *DatabaseStore) ReleaseDriver(id uint) error {
	res := s.db.Model(&models.Driver{}).Where("id = ?", id).Update("is_available", true)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDb, "Database error", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "Driver not found")
	}
	return nil
}

// Delivery operations

// CreateDelivery inserts the delivery row and marks the assigned driver
// unavailable inside one transaction, so a delivery can never land without
// its driver claim.
func (s *DatabaseStore) CreateDelivery(delivery *models.Delivery) (*models.Delivery, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(delivery).Error; err != nil {
			return err
		}
		return tx.Model(&models.Driver{}).
			Where("id = ?", delivery.AssignedDriverID).
			Update("is_available", false).Error
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Failed to create delivery", err)
	}
	return delivery, nil
}

func (s *DatabaseStore) GetDelivery(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := s.db.First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Delivery not found")
		}
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return &delivery, nil
}

func (s *DatabaseStore) GetDeliveriesByDriver(driverID uint) ([]*models.Delivery, error) {
	var deliveries []*models.Delivery
	err := s.db.Where("assigned_driver_id = ?", driverID).Find(&deliveries).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return deliveries, nil
}

func (s *DatabaseStore) GetDeliveriesBySender(senderName string) ([]*models.Delivery, error) {
	var deliveries []*models.Delivery
	err := s.db.Where("sender_name = ?", senderName).Find(&deliveries).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return deliveries, nil
}

func (s *DatabaseStore) GetAllDeliveries() ([]*models.Delivery, error) {
	var deliveries []*models.Delivery
	if err := s.db.Find(&deliveries).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return deliveries, nil
}

func (s *DatabaseStore) UpdateDeliveryStatus(id uint, status string) error {
	res := s.db.Model(&models.Delivery{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDb, "Database error", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "Delivery not found")
	}
	return nil
}

func (s *DatabaseStore) SetProofOfDelivery(id uint, filename string) error {
	res := s.db.Model(&models.Delivery{}).Where("id = ?", id).Update("proof_of_delivery", filename)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindDb, "Failed to save proof in DB", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "Delivery not found")
	}
	return nil
}

// Status ledger operations

func (s *DatabaseStore) AppendStatusUpdate(deliveryID uint, status string) error {
	entry := models.DeliveryStatusUpdate{
		DeliveryID: deliveryID,
		Status:     status,
		UpdatedAt:  time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return apperr.Wrap(apperr.KindDelivery, "Failed to log status history", err)
	}
	return nil
}

func (s *DatabaseStore) GetStatusTimeline(deliveryID uint) ([]*models.DeliveryStatusUpdate, error) {
	var updates []*models.DeliveryStatusUpdate
	err := s.db.Where("delivery_id = ?", deliveryID).
		Order("updated_at ASC").
		Find(&updates).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	return updates, nil
}

// Reporting operations

func (s *DatabaseStore) CountDeliveriesByStatus() (*models.DashboardSummary, error) {
	var summary models.DashboardSummary

	counts := []struct {
		status string
		dest   *int64
	}{
		{models.StatusPending, &summary.Pending},
		{models.StatusOnTheWay, &summary.OnTheWay},
		{models.StatusDelivered, &summary.Delivered},
	}

	if err := s.db.Model(&models.Delivery{}).Count(&summary.Total).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
	}
	for _, c := range counts {
		err := s.db.Model(&models.Delivery{}).Where("status = ?", c.status).Count(c.dest).Error
		if err != nil {
			return nil, apperr.Wrap(apperr.KindDb, "Database error", err)
		}
	}
	return &summary, nil
}
