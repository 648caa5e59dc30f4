package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/User133445/memevote-sub000/internal/model"
)

// Field length limits matching database schema constraints.
const (
	MaxAccountIDLen   = 64  // accounts.account_id VARCHAR(64)
	MaxContentIDLen   = 64  // content_items.content_id VARCHAR(64)
	MaxFingerprintLen = 128 // votes.fingerprint VARCHAR(128)
)

var (
	// idRe matches opaque platform identifiers: alphanumeric, dash, underscore.
	idRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateAccountID checks that an account ID is well-formed and within DB limits.
func ValidateAccountID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "accountId is required"
	}
	if len(id) > MaxAccountIDLen {
		return "", "accountId must be at most 64 characters"
	}
	if !idRe.MatchString(id) {
		return "", "accountId contains invalid characters"
	}
	return id, ""
}

// ValidateContentID checks that a content ID is well-formed and within DB limits.
func ValidateContentID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "contentId is required"
	}
	if len(id) > MaxContentIDLen {
		return "", "contentId must be at most 64 characters"
	}
	if !idRe.MatchString(id) {
		return "", "contentId contains invalid characters"
	}
	return id, ""
}

// ValidateDirection checks that a vote direction is one of the two polarities.
func ValidateDirection(dir string) (string, string) {
	dir = strings.ToLower(strings.TrimSpace(dir))
	if dir == "" {
		return "", "direction is required"
	}
	if !model.Direction(dir).Valid() {
		return "", "direction must be \"up\" or \"down\""
	}
	return dir, ""
}

// ValidateFingerprint trims and truncates a device fingerprint to DB limits.
// An absent fingerprint is allowed; the related signals simply do not fire.
func ValidateFingerprint(fp string) string {
	fp = strings.TrimSpace(fp)
	if len(fp) > MaxFingerprintLen {
		fp = fp[:MaxFingerprintLen]
	}
	return fp
}
