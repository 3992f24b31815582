package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/delivery-auth/internal/api/dto"
	"github.com/spec-kit/delivery-auth/internal/service"
)

// UsersHandler exposes directory endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /users. Admin only, enforced by the route table.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// GetByID handles GET /users/:id. Admin only, enforced by the route table.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// GetOwned handles GET /users/profile/:userId. The ownership guard has
// already established the caller is the owner or an admin.
func (h *UsersHandler) GetOwned(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
