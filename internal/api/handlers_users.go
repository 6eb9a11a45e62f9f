package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/services"
)

type profileUpdateInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Status    *string `json:"status"`
}

type memberUpdateInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
}

func (handler *Handler) ListMembers(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	members, err := handler.users.List(user.OrganizationID, c.Query("role"), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"members": userViews(members)})
}

func (handler *Handler) GetMember(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	targetID := c.Params("id")
	if targetID != user.ID && !user.CanManageMembers() {
		return apiError(c, fiber.StatusForbidden, "not permitted")
	}
	member, err := handler.users.Get(targetID, user.OrganizationID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(userView(member))
}

func (handler *Handler) TeamStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	stats, err := handler.users.TeamStats(user.OrganizationID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(teamStatsView(stats))
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input profileUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	updated, err := handler.users.UpdateSelf(user, services.ProfileUpdate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Status:    input.Status,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(userView(updated))
}

func (handler *Handler) UpdateMember(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input memberUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	updated, err := handler.users.UpdateMember(user, c.Params("id"), services.MemberUpdate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(userView(updated))
}

func (handler *Handler) RemoveMember(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	if err := handler.users.RemoveMember(user, c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
