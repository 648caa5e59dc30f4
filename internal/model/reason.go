package model

// Reason is a machine-readable rejection code. Callers localize messaging
// from the code; the free-text message is advisory only.
type Reason string

const (
	ReasonRateLimited         Reason = "rate_limited"
	ReasonVelocityExceeded    Reason = "velocity_exceeded"
	ReasonTimingAnomaly       Reason = "timing_anomaly"
	ReasonFraudBlocked        Reason = "fraud_blocked"
	ReasonQuotaExceeded       Reason = "quota_exceeded"
	ReasonCooldownActive      Reason = "cooldown_active"
	ReasonUpstreamUnavailable Reason = "upstream_unavailable"
	ReasonInvalidInput        Reason = "invalid_input"
)
