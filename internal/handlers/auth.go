package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
	"github.com/Esayas077/Backend/internal/services"
)

// AuthHandler handles account and password-reset requests.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// parseID parses a numeric path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, apperr.New(apperr.KindValidation, "Invalid "+name)
	}
	return uint(id), nil
}

// Register handles POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var reg models.UserRegistration
	if err := c.BodyParser(&reg); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	if _, err := h.auth.Register(&reg); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	token, user, err := h.auth.Login(body.Email, body.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"token":    token,
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// UpdateUser handles PUT /user/:id
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var update models.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	if err := h.auth.UpdateUser(id, &update); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User updated successfully"})
}

// DeleteUser handles DELETE /user/:id
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.auth.DeleteUser(id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// ForgotPassword handles POST /forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	if err := h.auth.RequestPasswordReset(body.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "OTP sent to email successfully"})
}

// ResetPassword handles POST /reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var body struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	if err := h.auth.ConfirmPasswordReset(body.Email, body.OTP, body.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password reset successful"})
}
