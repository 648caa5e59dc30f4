package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/model"
	"github.com/User133445/memevote-sub000/internal/repository"
	"github.com/User133445/memevote-sub000/internal/service"
)

type AccountHandler struct {
	accounts *repository.AccountRepo
	tiers    *service.TierService
}

func NewAccountHandler(accounts *repository.AccountRepo, tiers *service.TierService) *AccountHandler {
	return &AccountHandler{accounts: accounts, tiers: tiers}
}

// Get handles GET /api/accounts/:accountId — tier, quota, and earnings view.
func (h *AccountHandler) Get(c fiber.Ctx) error {
	accountID, errMsg := middleware.ValidateAccountID(c.Params("accountId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	acct, err := h.accounts.Find(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Account not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup account")
	}

	used, err := h.accounts.VotesUsedToday(c.Context(), accountID, time.Now())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup account")
	}

	tier := h.tiers.TierFor(acct.StakedAmount)
	tierName := "baseline"
	if tier != nil {
		tierName = tier.Name
	}

	return c.JSON(model.AccountResponse{
		AccountID:          acct.AccountID,
		StakedAmount:       acct.StakedAmount,
		Tier:               tierName,
		Quota:              h.tiers.QuotaFor(tier, used),
		TotalVotes:         acct.TotalVotes,
		CumulativeEarnings: acct.CumulativeEarnings,
		AccountAge:         int(time.Since(acct.CreatedAt).Hours() / 24),
	})
}
