package handlers

import (
	"minipay/internal/models"
	"minipay/internal/services/user"
	"minipay/internal/utils/pagination"
	"minipay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler exposes registration and profile endpoints.
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterUser handles POST /register requests.
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	created, err := h.service.Register(c.Context(), &input)
	if err != nil {
		return response.DomainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user registered",
		"data":    created.Profile(),
	})
}

// GetMe handles GET /users/me requests. The own profile includes the
// balance, read fresh from storage.
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	u, err := h.service.GetByID(claims.UserID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "profile", u)
}

// ListUsers handles GET /users requests with pagination.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	profiles, total, err := h.service.List(p)
	if err != nil {
		return response.ServerError(c, "failed to list users")
	}
	p.Total = total

	return c.JSON(pagination.Response(p, profiles))
}

// UploadAvatar handles POST /users/me/avatar multipart requests.
func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	file, err := c.FormFile("avatar")
	if err != nil {
		return response.BadRequest(c, "avatar file is required")
	}

	u, err := h.service.UpdateAvatar(c.Context(), claims.UserID, file)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "avatar updated", u.Profile())
}
