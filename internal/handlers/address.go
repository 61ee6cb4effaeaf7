package handlers

import (
	"time"

	"beamscan/internal/models"
	"beamscan/internal/repositories"
	"beamscan/internal/utils/response"
	"beamscan/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler serves the address book.
type AddressHandler struct {
	addresses repositories.AddressRepository
	validator validation.AddressValidator
	now       func() time.Time
}

func NewAddressHandler(addresses repositories.AddressRepository, validator validation.AddressValidator) *AddressHandler {
	return &AddressHandler{
		addresses: addresses,
		validator: validator,
		now:       time.Now,
	}
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	state, err := models.ParseAddressState(c.Query("state"))
	if err != nil {
		return response.BadRequest(c, "state must be one of active, expired, contacts")
	}

	now := h.now()
	addrs, err := h.addresses.List(c.UserContext(), state, now)
	if err != nil {
		return response.ServerError(c, "Failed to get addresses")
	}

	out := make([]AddressResponse, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, toAddressResponse(a, now))
	}
	return response.Success(c, "Addresses retrieved", out)
}

func (h *AddressHandler) Create(c *fiber.Ctx) error {
	var req CreateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.Required("wallet_id", req.WalletID)
	v.Check(req.WalletID == "" || h.validator.IsValid(req.WalletID), "wallet_id", "is not a valid address")
	v.MaxLength("label", req.Label, validation.MaxLabelLength)
	var expiresIn time.Duration
	if req.ExpiresIn != "" {
		d, err := time.ParseDuration(req.ExpiresIn)
		v.Check(err == nil && d > 0, "expires_in", "must be a positive duration")
		expiresIn = d
	}
	if !v.Valid() {
		return response.ValidationError(c, v.Error())
	}

	addr := &models.Address{
		WalletID: req.WalletID,
		Label:    req.Label,
		Own:      req.Own,
		Duration: expiresIn,
	}
	addr.CreatedAt = h.now()
	if err := h.addresses.Create(c.UserContext(), addr); err != nil {
		return response.ServerError(c, "Failed to save address")
	}

	c.Status(fiber.StatusCreated)
	return response.Success(c, "Address saved", toAddressResponse(addr, h.now()))
}
