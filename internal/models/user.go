package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can register with.
const (
	RoleRequester = "requester"
	RoleStaff     = "staff"
)

// ValidRole reports whether role is one of the allowed registration roles.
func ValidRole(role string) bool {
	return role == RoleRequester || role == RoleStaff
}

// User represents an account in the system. Password holds the bcrypt hash,
// never the plaintext. OTP and OTPExpires carry the active password-reset
// code; both are nil when no reset is in flight.
type User struct {
	gorm.Model

	Username   string     `json:"username" gorm:"uniqueIndex;not null"`
	Email      string     `json:"email" gorm:"uniqueIndex;not null"`
	Password   string     `json:"-" gorm:"not null"`
	Role       string     `json:"role" gorm:"not null"`
	OTP        *string    `json:"-"`
	OTPExpires *time.Time `json:"-"`
}

// UserRegistration is the request payload for /register.
type UserRegistration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserUpdate is the request payload for PUT /user/:id. Empty fields are left
// untouched; at least one must be set.
type UserUpdate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Empty reports whether no updatable field was supplied.
func (u *UserUpdate) Empty() bool {
	return u.Username == "" && u.Email == "" && u.Password == ""
}
