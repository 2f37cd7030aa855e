package services

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
	"github.com/Esayas077/Backend/internal/storage"
	"github.com/Esayas077/Backend/internal/utils"
)

// otpTTL is how long a password-reset code stays valid.
const otpTTL = 5 * time.Minute

// invalidCredentials is returned for both unknown emails and wrong passwords
// so login failures cannot be used to enumerate accounts.
const invalidCredentials = "Invalid email or password"

// AuthService handles registration, login, account updates, and the
// forgot/reset-password flow.
type AuthService struct {
	store  storage.Store
	mailer Mailer
	tokens *TokenService

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewAuthService creates an auth service.
func NewAuthService(store storage.Store, mailer Mailer, tokens *TokenService) *AuthService {
	return &AuthService{
		store:  store,
		mailer: mailer,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register validates the payload, hashes the password, and stores the user.
func (s *AuthService) Register(reg *models.UserRegistration) (*models.User, error) {
	if reg.Username == "" || reg.Email == "" || reg.Password == "" || reg.Role == "" {
		return nil, apperr.New(apperr.KindValidation,
			"All fields (username, email, password, role) are required")
	}
	if !models.ValidRole(reg.Role) {
		return nil, apperr.New(apperr.KindValidation,
			"Invalid role. Must be 'requester' or 'staff'")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDb, "Server error", err)
	}

	return s.store.CreateUser(&models.User{
		Username: reg.Username,
		Email:    reg.Email,
		Password: string(hashed),
		Role:     reg.Role,
	})
}

// Login verifies credentials and issues a one-hour session token. Unknown
// emails and wrong passwords produce the identical error.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, apperr.New(apperr.KindValidation, "Email and password are required")
	}

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", nil, apperr.New(apperr.KindAuth, invalidCredentials)
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, apperr.New(apperr.KindAuth, invalidCredentials)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// UpdateUser applies a partial update; at least one field must be supplied.
func (s *AuthService) UpdateUser(id uint, update *models.UserUpdate) error {
	if update.Empty() {
		return apperr.New(apperr.KindValidation,
			"At least one field (username, email, or password) must be provided for update")
	}

	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperr.Wrap(apperr.KindDb, "Server error", err)
		}
		update.Password = string(hashed)
	}

	return s.store.UpdateUser(id, update)
}

// DeleteUser removes the user row outright.
func (s *AuthService) DeleteUser(id uint) error {
	return s.store.DeleteUser(id)
}

// RequestPasswordReset generates a 6-digit code valid for five minutes,
// persists it on the user row, then dispatches it by mail. The code stays
// persisted even when dispatch fails.
func (s *AuthService) RequestPasswordReset(email string) error {
	if email == "" {
		return apperr.New(apperr.KindValidation, "Email is required")
	}

	if _, err := s.store.GetUserByEmail(email); err != nil {
		return err
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return apperr.Wrap(apperr.KindDb, "Failed to generate OTP", err)
	}

	if err := s.store.SetResetCode(email, code, s.now().Add(otpTTL)); err != nil {
		return err
	}

	return s.mailer.SendResetCode(email, code)
}

// ConfirmPasswordReset checks the code and its expiry, then replaces the
// password and consumes the code.
func (s *AuthService) ConfirmPasswordReset(email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return apperr.New(apperr.KindValidation, "All fields are required")
	}

	user, err := s.store.GetUserByEmailAndOTP(email, code)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.New(apperr.KindValidation, "Invalid OTP or email")
		}
		return err
	}

	if user.OTPExpires == nil || s.now().After(*user.OTPExpires) {
		return apperr.New(apperr.KindValidation, "OTP has expired")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.KindDb, "Server error", err)
	}

	return s.store.ResetPassword(email, string(hashed))
}
