package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/services"
)

type registerOrganizationInput struct {
	OrganizationName string `json:"organization_name"`
	Domain           string `json:"domain"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	TermsAccepted    bool   `json:"terms_accepted"`
	PrivacyAccepted  bool   `json:"privacy_accepted"`
}

type updateOrganizationInput struct {
	Name     string `json:"name"`
	MaxUsers int    `json:"max_users"`
}

type inviteInput struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (handler *Handler) RegisterOrganization(c *fiber.Ctx) error {
	var input registerOrganizationInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.OrganizationName == "" || input.Domain == "" || input.Email == "" {
		return apiError(c, fiber.StatusBadRequest, "organization name, domain and email are required")
	}

	owner, organization, pair, err := handler.organizations.Register(services.RegistrationInput{
		OrganizationName: input.OrganizationName,
		Domain:           input.Domain,
		Email:            input.Email,
		Password:         input.Password,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		TermsAccepted:    input.TermsAccepted,
		PrivacyAccepted:  input.PrivacyAccepted,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":         userView(owner),
		"organization": organizationView(organization),
		"tokens":       pair,
	})
}

func (handler *Handler) GetOrganization(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	organization, err := handler.organizations.Get(user.OrganizationID)
	if err != nil {
		return handler.serviceError(c, services.ErrOrganizationMissing)
	}
	return c.JSON(organizationView(organization))
}

func (handler *Handler) UpdateOrganization(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input updateOrganizationInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	organization, err := handler.organizations.Update(user.OrganizationID, input.Name, input.MaxUsers)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(organizationView(organization))
}

func (handler *Handler) OrganizationStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	stats, err := handler.organizations.Stats(user.OrganizationID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(statsView(stats))
}

func (handler *Handler) OrganizationPolicy(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	policy, err := handler.organizations.Policy(user.OrganizationID)
	if err != nil {
		return handler.serviceError(c, services.ErrOrganizationMissing)
	}
	return c.JSON(policyView(policy))
}

func (handler *Handler) InviteMember(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input inviteInput
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return apiError(c, fiber.StatusBadRequest, "email required")
	}

	invitation, err := handler.organizations.Invite(user, input.Email, input.Role)
	if err != nil {
		return handler.serviceError(c, err)
	}
	view := invitationView(services.InvitationView{
		Invitation:     invitation,
		ComputedStatus: "pending",
	})
	// Only the creation response carries the token, so the inviter can
	// forward the link when mail delivery is unavailable.
	view["token"] = invitation.Token
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (handler *Handler) ListInvitations(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	invitations, err := handler.organizations.ListInvitations(user.OrganizationID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(invitations))
	for _, invitation := range invitations {
		views = append(views, invitationView(invitation))
	}
	return c.JSON(fiber.Map{"invitations": views})
}

func (handler *Handler) OrganizationAuditLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	entries, err := handler.organizations.AuditLog(user.OrganizationID, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		views = append(views, auditLogView(entry))
	}
	return c.JSON(fiber.Map{"audit_log": views})
}
