package api

import "github.com/gofiber/fiber/v2"

// ManagerAccess admits admins and managers.
func (handler *Handler) ManagerAccess(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	if !user.CanManageMembers() {
		return apiError(c, fiber.StatusForbidden, "manager access required")
	}
	return c.Next()
}

// AdminAccess admits organization admins and the owner.
func (handler *Handler) AdminAccess(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	if !user.IsOrganizationAdmin() {
		return apiError(c, fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}
