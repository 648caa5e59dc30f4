package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/repository"
	"github.com/User133445/memevote-sub000/internal/service"
)

const defaultLedgerLimit = 50

type RewardHandler struct {
	rewards *service.RewardService
	ledger  *repository.RewardRepo
}

func NewRewardHandler(rewards *service.RewardService, ledger *repository.RewardRepo) *RewardHandler {
	return &RewardHandler{rewards: rewards, ledger: ledger}
}

// Distribute handles POST /api/rewards/distribute — the manual trigger for
// the daily run. Accepts an optional ?date=YYYY-MM-DD (default: previous UTC
// day, matching the scheduled run). Idempotent per day.
func (h *RewardHandler) Distribute(c fiber.Ctx) error {
	date := time.Now().UTC().AddDate(0, 0, -1)
	if raw := fiber.Query[string](c, "date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "date must be YYYY-MM-DD")
		}
		date = parsed
	}

	summary, err := h.rewards.Distribute(c.Context(), date)
	if err != nil {
		var ledgerErr *repository.InconsistentLedgerError
		if errors.As(err, &ledgerErr) {
			return middleware.ErrorResponse(c, fiber.StatusConflict, "LEDGER_INCONSISTENT", ledgerErr.Error())
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Reward distribution failed")
	}

	return c.JSON(summary)
}

// Ledger handles GET /api/rewards/:accountId — the account's ledger entries.
func (h *RewardHandler) Ledger(c fiber.Ctx) error {
	accountID, errMsg := middleware.ValidateAccountID(c.Params("accountId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	limit := fiber.Query[int](c, "limit", defaultLedgerLimit)
	if limit < 1 || limit > 200 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "limit must be between 1 and 200")
	}

	entries, err := h.ledger.EntriesForAccount(c.Context(), accountID, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read ledger")
	}

	return c.JSON(fiber.Map{
		"accountId": accountID,
		"entries":   entries,
	})
}
