package models

import "gorm.io/gorm"

// Driver is a member of the delivery pool. IsAvailable flips to false when a
// delivery is assigned; ReleaseDriver is the only operation that sets it back.
type Driver struct {
	gorm.Model

	Name        string `json:"name" gorm:"not null"`
	IsAvailable bool   `json:"is_available" gorm:"default:true"`
}
