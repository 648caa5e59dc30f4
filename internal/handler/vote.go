package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/model"
	"github.com/User133445/memevote-sub000/internal/service"
	"github.com/User133445/memevote-sub000/pkg/hash"
)

type VoteHandler struct {
	gate   *service.GateService
	ipSalt string
}

func NewVoteHandler(gate *service.GateService, ipSalt string) *VoteHandler {
	return &VoteHandler{gate: gate, ipSalt: ipSalt}
}

// Submit handles POST /api/votes
func (h *VoteHandler) Submit(c fiber.Ctx) error {
	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	accountID, errMsg := middleware.ValidateAccountID(req.AccountID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.AccountID = accountID

	contentID, errMsg := middleware.ValidateContentID(req.ContentID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ContentID = contentID

	direction, errMsg := middleware.ValidateDirection(req.Direction)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Direction = direction

	req.DeviceFingerprint = middleware.ValidateFingerprint(req.DeviceFingerprint)

	// The raw IP never leaves this handler; signals compare hashes only.
	ipHash := hash.HashIP(c.IP(), h.ipSalt)

	resp, err := h.gate.Submit(c.Context(), req, "acct:"+req.AccountID, ipHash)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit vote")
	}

	return c.Status(statusForReason(resp)).JSON(resp)
}

// Withdraw handles DELETE /api/votes
func (h *VoteHandler) Withdraw(c fiber.Ctx) error {
	var req model.VoteWithdrawRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	accountID, errMsg := middleware.ValidateAccountID(req.AccountID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.AccountID = accountID

	contentID, errMsg := middleware.ValidateContentID(req.ContentID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.ContentID = contentID

	resp, err := h.gate.Withdraw(c.Context(), req, "acct:"+req.AccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Vote not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to withdraw vote")
	}

	return c.Status(statusForReason(resp)).JSON(resp)
}

// statusForReason maps policy outcomes to HTTP status. Policy rejections
// stay 200 with a machine-readable reason in the body; only transport-level
// conditions change the status code.
func statusForReason(resp *model.VoteResponse) int {
	if resp.Accepted {
		return fiber.StatusOK
	}
	switch resp.Reason {
	case model.ReasonInvalidInput:
		return fiber.StatusBadRequest
	case model.ReasonRateLimited:
		return fiber.StatusTooManyRequests
	case model.ReasonUpstreamUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusOK
	}
}
