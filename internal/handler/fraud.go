package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/model"
	"github.com/User133445/memevote-sub000/internal/repository"
	"github.com/User133445/memevote-sub000/internal/service"
	"github.com/User133445/memevote-sub000/pkg/hash"
)

const defaultAssessmentLimit = 50

type FraudHandler struct {
	gate        *service.GateService
	assessments *repository.FraudRepo
	ipSalt      string
}

func NewFraudHandler(gate *service.GateService, assessments *repository.FraudRepo, ipSalt string) *FraudHandler {
	return &FraudHandler{gate: gate, assessments: assessments, ipSalt: ipSalt}
}

// Precheck handles POST /api/votes/precheck — the advisory fraud boundary.
// It mutates nothing and consumes no vote quota; the submit path re-validates
// independently, so skipping the pre-check bypasses nothing.
func (h *FraudHandler) Precheck(c fiber.Ctx) error {
	var req model.PrecheckRequest
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

	if req.Direction != "" {
		direction, errMsg := middleware.ValidateDirection(req.Direction)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Direction = direction
	}

	req.DeviceFingerprint = middleware.ValidateFingerprint(req.DeviceFingerprint)

	resp, err := h.gate.Precheck(c.Context(), req, hash.HashIP(c.IP(), h.ipSalt))
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to run pre-check")
	}

	return c.JSON(resp)
}

// Assessments handles GET /api/accounts/:accountId/assessments — the
// write-once audit trail for moderation review.
func (h *FraudHandler) Assessments(c fiber.Ctx) error {
	accountID, errMsg := middleware.ValidateAccountID(c.Params("accountId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	limit := fiber.Query[int](c, "limit", defaultAssessmentLimit)
	if limit < 1 || limit > 200 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "limit must be between 1 and 200")
	}

	out, err := h.assessments.AssessmentsForAccount(c.Context(), accountID, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read assessments")
	}

	return c.JSON(fiber.Map{
		"accountId":   accountID,
		"assessments": out,
	})
}
