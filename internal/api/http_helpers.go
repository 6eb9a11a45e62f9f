package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func (handler *Handler) unauthorized(c *fiber.Ctx, reason string, message string) error {
	handler.collectors.IncAuthFailure(reason)
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return apiError(c, fiber.StatusUnauthorized, message)
}

// serviceError maps the service layer's sentinel errors onto HTTP
// statuses. Anything unrecognized is a 500 with a generic message.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTimeEntryNotFound),
		errors.Is(err, services.ErrScreenshotNotFound),
		errors.Is(err, services.ErrAlertNotFound),
		errors.Is(err, services.ErrGoalNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrOrganizationMissing),
		errors.Is(err, services.ErrNoActiveTimer):
		return apiError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		return handler.unauthorized(c, "invalid_credentials", err.Error())
	case errors.Is(err, services.ErrNeedsReauthentication):
		return handler.unauthorized(c, "legacy_token", err.Error())
	case errors.Is(err, services.ErrAccountNeedsMigration):
		return handler.unauthorized(c, "unmigrated_account", err.Error())
	case errors.Is(err, auth.ErrExpiredToken):
		return handler.unauthorized(c, "expired_token", err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		return handler.unauthorized(c, "invalid_token", err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDomainTaken),
		errors.Is(err, services.ErrInvitationPending),
		errors.Is(err, services.ErrInvitationAccepted),
		errors.Is(err, services.ErrTimerAlreadyRunning):
		return apiError(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, services.ErrSeatLimitReached),
		errors.Is(err, services.ErrOrganizationClosed),
		errors.Is(err, services.ErrNotPermitted),
		errors.Is(err, services.ErrOwnerProtected),
		errors.Is(err, services.ErrForbiddenRole),
		errors.Is(err, services.ErrSelfRemoval):
		return apiError(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, services.ErrInvitationExpired):
		return apiError(c, fiber.StatusGone, err.Error())

	case errors.Is(err, services.ErrTermsNotAccepted),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidTimeRange),
		errors.Is(err, services.ErrResetTokenInvalid),
		errors.Is(err, services.ErrTimerNotPausable),
		errors.Is(err, services.ErrTimerNotResumable),
		errors.Is(err, auth.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	return c.QueryInt(key, fallback)
}

// parseDateQuery reads a YYYY-MM-DD query parameter, falling back when
// absent and erroring only on malformed input.
func parseDateQuery(c *fiber.Ctx, key string, fallback time.Time) (time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}
