package handlers

import (
	"treva/internal/apperrors"
	"treva/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the open authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
}

// CredentialsRequest is the shared body for register and login: either
// email+password or an external identity id.
type CredentialsRequest struct {
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password" validate:"omitempty,min=6"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name" validate:"omitempty,max=100"`
}

// HandleRegister creates an account and returns a session token.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, apperrors.ErrInvalidJSON)
	}
	if err := h.validate.Struct(req); err != nil {
		return Fail(c, apperrors.ErrInvalidInput.WithCause(err))
	}

	token, err := h.authService.Register(req.Email, req.Password, req.ExternalID, req.Name)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusCreated, fiber.Map{
		"message": "User registered successfully",
		"token":   token,
	})
}

// HandleLogin authenticates and returns a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, apperrors.ErrInvalidJSON)
	}
	if err := h.validate.Struct(req); err != nil {
		return Fail(c, apperrors.ErrInvalidInput.WithCause(err))
	}

	token, err := h.authService.Login(req.Email, req.Password, req.ExternalID, req.Name)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
