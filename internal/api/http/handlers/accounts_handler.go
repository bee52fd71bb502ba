package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/dto"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/service"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// AccountsHandler exposes the identity lifecycle endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Signup handles POST /accounts/signup.
func (h *AccountsHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" || req.ConfirmEmailURL == "" {
		return apperrors.NewValidationError("full_name, email, password, confirm_email_url required", nil)
	}

	if err := h.accounts.Signup(c.Context(), req.FullName, req.Email, req.Password, req.ConfirmEmailURL); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"status": "confirmation_sent"},
	})
}

// ConfirmEmail handles POST /accounts/confirm_email.
func (h *AccountsHandler) ConfirmEmail(c *fiber.Ctx) error {
	var req dto.ConfirmEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.accounts.ConfirmEmail(c.Context(), req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "email_confirmed"}})
}

// Login handles POST /accounts/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	token, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{TokenType: "bearer", AccessToken: token})
}

// Profile handles GET /accounts/profile.
func (h *AccountsHandler) Profile(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	return c.JSON(fiber.Map{"data": dto.ProfileResponse{
		UUID:     user.UUID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     string(user.Role),
	}})
}

// UpdateProfile handles PATCH /accounts/profile.
func (h *AccountsHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" && req.Email == "" {
		return apperrors.NewValidationError("nothing to update", nil)
	}

	if err := h.accounts.UpdateProfile(c.Context(), user, req.FullName, req.Email, req.ConfirmEmailURL); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "profile_updated"}})
}

// ChangePassword handles POST /accounts/change_password.
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("old and new password required", nil)
	}

	if err := h.accounts.ChangePassword(c.Context(), user, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

// ResetPassword handles POST /accounts/reset_password.
func (h *AccountsHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	if err := h.accounts.RequestPasswordReset(c.Context(), req.Email, req.ConfirmEmailURL); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{"status": "reset_requested"},
	})
}

// ConfirmResetPassword handles POST /accounts/confirm_reset_password.
func (h *AccountsHandler) ConfirmResetPassword(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.NewPassword == "" {
		return apperrors.NewValidationError("new password required", nil)
	}

	if err := h.accounts.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}
