package handlers

import (
	"net/http"

	"gymetra/internal/middleware"
	"gymetra/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, logger zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRequest represents the signup request payload
type RegisterRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Identification *int64  `json:"identification" validate:"omitempty,gte=100000"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UpdateProfileRequest carries the editable profile fields; omitted fields are kept.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Identification *int64  `json:"identification" validate:"omitempty,gte=100000"`
}

// Register creates a CLIENT account and logs it in
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.Request().Context(), services.RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		Phone:          req.Phone,
		Identification: req.Identification,
	})
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to register user")
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to log in")
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the bearer token used for this request.
func (h *AuthHandlers) Logout(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return toHTTPError(h.logger, err, "Failed to log out")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	user, err := h.authService.GetProfile(c.Request().Context(), caller.UserID)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) UpdateUser(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), caller, userID, services.ProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Identification: req.Identification,
	})
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to update user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return toHTTPError(h.logger, err, "Failed to start password recovery")
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Recovery code sent",
	})
}

func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return toHTTPError(h.logger, err, "Failed to reset password")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password updated",
	})
}
