package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Signup handles POST /api/auth/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, token, exp, err := h.auth.Signup(c.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// ChangePassword handles POST /api/auth/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("old_password and new_password required", nil)
	}
	if err := h.auth.ChangePassword(c.Context(), principal.UserID, req.OldPassword, req.NewPassword); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return c.JSON(fiber.Map{"success": true})
}
