package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/lead-distribution/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	Admin   adminPayload `json:"admin"`
}

// Login authenticates the administrator and returns a bearer token.
//
// @Summary      Administrator login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	token, admin, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		Admin:   adminPayload{ID: admin.ID, Email: admin.Email, Name: admin.Name},
	})
}

// SetupAdmin bootstraps the single administrator account.
//
// @Summary      Create the initial administrator
// @Tags         auth
// @Produce      json
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /auth/setup-admin [post]
func (h *AuthHandler) SetupAdmin(c echo.Context) error {
	admin, err := h.authService.Bootstrap(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "admin created successfully",
		"admin":   adminPayload{ID: admin.ID, Email: admin.Email, Name: admin.Name},
	})
}
