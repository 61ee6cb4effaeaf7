package handlers

import (
	"beamscan/internal/domain/scan"
	"beamscan/internal/middleware"
	"beamscan/internal/repositories"
	"beamscan/internal/services/remotescan"
	"beamscan/internal/utils"
	"beamscan/internal/utils/response"
	"beamscan/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ScanHandler struct {
	scans   remotescan.Service
	records repositories.ScanRecordRepository
}

func NewScanHandler(scans remotescan.Service, records repositories.ScanRecordRepository) *ScanHandler {
	return &ScanHandler{
		scans:   scans,
		records: records,
	}
}

// Resolve classifies a payload the client decoded itself.
func (h *ScanHandler) Resolve(c *fiber.Ctx) error {
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.OneOf("mode", req.Mode, string(scan.ModePayment), string(scan.ModeIdentity))
	if !v.Valid() {
		return response.ValidationError(c, v.Error())
	}

	res, err := h.scans.Resolve(c.UserContext(), remotescan.ResolveRequest{
		Mode:     scan.Mode(req.Mode),
		Payload:  req.Payload,
		DeviceID: middleware.DeviceID(c, ""),
	})
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, resultMessage(res), res)
}

// ListScans returns the scan history of the calling device, or of every
// device when the API runs without authentication.
func (h *ScanHandler) ListScans(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, utils.HistoryPageSize)

	records, total, err := h.records.ListByDevice(c.UserContext(), middleware.DeviceID(c, ""), p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to get scan history")
	}
	p.SetTotal(total)

	out := make([]ScanRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toScanRecordResponse(r))
	}
	return response.Success(c, "Scan history retrieved", utils.NewPaginatedResponse(out, p))
}
