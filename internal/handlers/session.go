package handlers

import (
	"context"
	"errors"
	"time"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
	"beamscan/internal/middleware"
	"beamscan/internal/services/remotescan"
	"beamscan/internal/utils/response"
	"beamscan/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionHandler drives scan sessions for clients that own the camera.
type SessionHandler struct {
	scans   remotescan.Service
	maxWait time.Duration
}

func NewSessionHandler(scans remotescan.Service, maxWait time.Duration) *SessionHandler {
	return &SessionHandler{
		scans:   scans,
		maxWait: maxWait,
	}
}

func (h *SessionHandler) Open(c *fiber.Ctx) error {
	var req OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.OneOf("mode", req.Mode, string(scan.ModePayment), string(scan.ModeIdentity))
	permission, err := scan.ParsePermissionState(req.Permission)
	v.Check(err == nil, "permission", "must be one of undetermined, authorized, denied, restricted")
	if !v.Valid() {
		return response.ValidationError(c, v.Error())
	}

	view, err := h.scans.Open(remotescan.OpenRequest{
		Mode:          scan.Mode(req.Mode),
		Permission:    permission,
		DevicePresent: req.Device == nil || *req.Device,
		DeviceID:      middleware.DeviceID(c, ""),
	})
	if err != nil {
		return writeError(c, err)
	}
	c.Status(fiber.StatusCreated)
	return response.Success(c, "Scan session opened", toSessionResponse(view))
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid session id")
	}
	view, err := h.scans.Get(id)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "Scan session retrieved", toSessionResponse(view))
}

// AnswerPermission delivers the user's answer to the camera prompt.
func (h *SessionHandler) AnswerPermission(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid session id")
	}
	var req PermissionAnswer
	if err := c.BodyParser(&req); err != nil || req.Granted == nil {
		return response.BadRequest(c, "granted must be set")
	}
	if err := h.scans.Answer(id, *req.Granted); err != nil {
		return writeError(c, err)
	}
	return h.Get(c)
}

// PushFrame hands one decoded string to the session's camera.
func (h *SessionHandler) PushFrame(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid session id")
	}
	var req FrameRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.scans.Push(id, req.Payload); err != nil {
		return writeError(c, err)
	}
	c.Status(fiber.StatusAccepted)
	return response.Success(c, "Frame received", nil)
}

// Result long-polls for the outcome. A session still scanning when the wait
// ends answers 202 with its current status.
func (h *SessionHandler) Result(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid session id")
	}

	wait := h.maxWait
	if raw := c.Query("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return response.BadRequest(c, "wait must be a non-negative duration")
		}
		if d < wait {
			wait = d
		}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), wait)
	defer cancel()
	res, err := h.scans.Wait(ctx, id)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		view, err := h.scans.Get(id)
		if err != nil {
			return writeError(c, err)
		}
		c.Status(fiber.StatusAccepted)
		return response.Success(c, "Scan in progress", toSessionResponse(view))
	case err != nil:
		if _, ok := domainErrors.As(err); ok {
			return response.DomainError(c, statusFor(err), domainErrors.CodeOf(err), domainErrors.UserMessage(err))
		}
		return writeError(c, err)
	}
	return response.Success(c, resultMessage(res), res)
}

func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid session id")
	}
	if err := h.scans.Cancel(id); err != nil {
		return writeError(c, err)
	}
	return response.Success(c, domainErrors.MessageCancelled, nil)
}

func sessionID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}
