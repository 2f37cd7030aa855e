package models

import (
	"time"

	"gorm.io/gorm"
)

// Delivery statuses. The enum is open: any status may move to any other,
// including re-applying the current one.
const (
	StatusPending   = "pending"
	StatusOnTheWay  = "on the way"
	StatusDelivered = "delivered"
)

// ValidStatus reports whether status is a member of the delivery status enum.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusOnTheWay, StatusDelivered:
		return true
	}
	return false
}

// Delivery is a package handed to a driver. AssignedDriverID is set once at
// creation and never changes; ProofOfDelivery holds the stored filename of
// the uploaded proof artifact once one exists.
type Delivery struct {
	gorm.Model

	SenderName       string  `json:"sender_name" gorm:"not null"`
	ReceiverAddress  string  `json:"receiver_address" gorm:"not null"`
	PackageInfo      string  `json:"package_info" gorm:"not null"`
	DeliveryNote     *string `json:"delivery_note"`
	Status           string  `json:"status" gorm:"not null;default:pending"`
	AssignedDriverID uint    `json:"assigned_driver_id"`
	Priority         string  `json:"priority" gorm:"default:Medium"`
	ProofOfDelivery  *string `json:"proof_of_delivery"`
}

// DeliveryRequest is the request payload for /create-delivery.
type DeliveryRequest struct {
	SenderName      string `json:"sender_name"`
	ReceiverAddress string `json:"receiver_address"`
	PackageInfo     string `json:"package_info"`
	DeliveryNote    string `json:"delivery_note"`
	Priority        string `json:"priority"`
}

// DeliveryStatusUpdate is one row of the append-only status ledger. Rows are
// never updated or deleted; duplicates are recorded verbatim.
type DeliveryStatusUpdate struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DeliveryID uint      `json:"delivery_id" gorm:"index;not null"`
	Status     string    `json:"status" gorm:"not null"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DashboardSummary is the aggregate snapshot returned by /dashboard-summary.
type DashboardSummary struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	OnTheWay  int64 `json:"on_the_way"`
	Delivered int64 `json:"delivered"`
}
