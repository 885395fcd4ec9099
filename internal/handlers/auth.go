package handlers

import (
	"minipay/internal/models"
	"minipay/internal/services/auth"
	"minipay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes login and token endpoints.
type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginUser handles POST /login requests.
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	user, accessToken, refreshToken, err := h.service.Login(req.Login, req.Password)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "login successful", fiber.Map{
		"user":          user.Profile(),
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// RefreshToken handles POST /refresh requests.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	accessToken, refreshToken, err := h.service.RefreshTokens(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c)
	}

	return response.Success(c, "tokens refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// LogoutUser handles POST /logout requests.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	if err := h.service.Logout(claims.UserID); err != nil {
		return response.ServerError(c, "failed to log out")
	}
	return response.Success(c, "logged out", nil)
}
