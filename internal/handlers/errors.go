package handlers

import (
	"errors"

	domainErrors "beamscan/internal/errors"
	"beamscan/internal/services/remotescan"
	"beamscan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domainErrors.ErrCameraNotRunning), errors.Is(err, domainErrors.ErrNoPromptPending):
		return fiber.StatusConflict
	case errors.Is(err, remotescan.ErrInvalidMode):
		return fiber.StatusBadRequest
	}

	switch domainErrors.CategoryOf(err) {
	case domainErrors.CategoryPermission:
		return fiber.StatusForbidden
	case domainErrors.CategoryCapture:
		return fiber.StatusServiceUnavailable
	case domainErrors.CategorySession:
		return fiber.StatusGone
	}
	return fiber.StatusInternalServerError
}

// writeError keeps internal error text off the wire.
func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	de, ok := domainErrors.As(err)
	if !ok {
		return response.ServerError(c, "internal server error")
	}
	return response.DomainError(c, status, de.Code, de.Message)
}
