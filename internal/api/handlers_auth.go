package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/services"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

type acceptInviteInput struct {
	Token     string `json:"token"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type forgotPasswordInput struct {
	Email string `json:"email"`
}

type resetPasswordInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, pair, err := handler.sessions.Login(input.Email, input.Password)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":   userView(user),
		"tokens": pair,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	handler.sessions.Logout(user)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Refresh(c *fiber.Ctx) error {
	var input refreshInput
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return apiError(c, fiber.StatusBadRequest, "refresh token required")
	}

	user, pair, err := handler.sessions.Refresh(input.RefreshToken)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":   userView(user),
		"tokens": pair,
	})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	return c.JSON(userView(*user))
}

func (handler *Handler) AcceptInvite(c *fiber.Ctx) error {
	var input acceptInviteInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, pair, err := handler.organizations.AcceptInvitation(services.AcceptInvitationInput{
		Token:     input.Token,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   userView(user),
		"tokens": pair,
	})
}

// ForgotPassword always answers 200; whether the address exists is not
// disclosed.
func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	var input forgotPasswordInput
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return apiError(c, fiber.StatusBadRequest, "email required")
	}
	if err := handler.passwordResets.RequestReset(input.Email); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "if the address exists, a reset link has been sent"})
}

func (handler *Handler) ResetPassword(c *fiber.Ctx) error {
	var input resetPasswordInput
	if err := c.BodyParser(&input); err != nil || input.Token == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.passwordResets.ResetPassword(input.Token, input.Password); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
