package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/User133445/memevote-sub000/internal/metrics"
	"github.com/User133445/memevote-sub000/internal/model"
	"github.com/User133445/memevote-sub000/internal/ratelimit"
)

// AccountDirectory is the account lookup surface the gate reads from.
type AccountDirectory interface {
	Ensure(ctx context.Context, accountID string) (*model.Account, error)
	VotesUsedToday(ctx context.Context, accountID string, now time.Time) (int, error)
}

// VoteLedger applies and reads votes. Apply and Withdraw are the only
// mutating operations in the pipeline and must serialize concurrent votes
// on the same content item.
type VoteLedger interface {
	LastVoteOnItem(ctx context.Context, contentID, accountID string) (*model.VoteRecord, error)
	Apply(ctx context.Context, contentID, accountID string, dir model.Direction, ipHash, fingerprint string) (*model.VoteOutcome, error)
	Withdraw(ctx context.Context, contentID, accountID string) (*model.VoteOutcome, error)
}

// SignalSource assembles the read-only fraud inputs for one attempt.
type SignalSource interface {
	Gather(ctx context.Context, q model.SignalQuery) (*model.FraudSignals, error)
}

// AssessmentLog persists write-once fraud assessments.
type AssessmentLog interface {
	Record(ctx context.Context, a *model.FraudAssessment) error
}

// GateService runs every vote attempt through the ordered eligibility
// pipeline: rate limit → hard rejects → fraud score → quota → cooldown →
// applied. Each stage short-circuits; rejecting paths are pure reads and
// only the applied stage mutates state.
type GateService struct {
	limiter  *ratelimit.Limiter
	tiers    *TierService
	fraud    *FraudService
	accounts AccountDirectory
	votes    VoteLedger
	signals  SignalSource
	audit    AssessmentLog
	cache    *CacheService
	log      zerolog.Logger
	now      func() time.Time
}

func NewGateService(
	limiter *ratelimit.Limiter,
	tiers *TierService,
	fraud *FraudService,
	accounts AccountDirectory,
	votes VoteLedger,
	signals SignalSource,
	audit AssessmentLog,
	cache *CacheService,
	log zerolog.Logger,
) *GateService {
	return &GateService{
		limiter:  limiter,
		tiers:    tiers,
		fraud:    fraud,
		accounts: accounts,
		votes:    votes,
		signals:  signals,
		audit:    audit,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

func reject(reason model.Reason) *model.VoteResponse {
	metrics.ObserveVote(false, string(reason))
	return &model.VoteResponse{Accepted: false, Reason: reason}
}

func rejectWithQuota(reason model.Reason, quota model.QuotaSnapshot) *model.VoteResponse {
	metrics.ObserveVote(false, string(reason))
	return &model.VoteResponse{Accepted: false, Reason: reason, Quota: &quota}
}

// Submit runs the full pipeline for one vote attempt. A returned error is an
// internal fault; every policy outcome arrives as a response with a
// machine-readable reason.
func (g *GateService) Submit(ctx context.Context, req model.VoteRequest, callerIdentity, ipHash string) (*model.VoteResponse, error) {
	start := g.now()
	defer func() {
		if metrics.GateDuration != nil {
			metrics.GateDuration.Observe(time.Since(start).Seconds())
		}
	}()

	dir := model.Direction(req.Direction)
	if !dir.Valid() {
		return reject(model.ReasonInvalidInput), nil
	}

	// Rate limit. A counter-store fault fails open with a distinct metric;
	// the in-memory store cannot fault, so this only fires on shared stores.
	decision, err := g.limiter.Check(ctx, callerIdentity)
	if err != nil {
		g.log.Warn().Err(err).Str("identity", callerIdentity).Msg("rate limiter store unavailable, failing open")
		metrics.IncLimiterFailOpen()
	} else if !decision.Allowed {
		return reject(model.ReasonRateLimited), nil
	}

	// Fraud. Signal gathering faults fail open by explicit policy: voting
	// availability is prioritized over an individual check.
	signals, err := g.signals.Gather(ctx, model.SignalQuery{
		AccountID:   req.AccountID,
		ContentID:   req.ContentID,
		IPHash:      ipHash,
		Fingerprint: req.DeviceFingerprint,
	})
	if err != nil {
		g.log.Warn().Err(err).Str("account", req.AccountID).Msg("fraud signals unavailable, failing open")
		metrics.IncFraudFailOpen()
	} else {
		if g.fraud.VelocityExceeded(*signals) {
			return reject(model.ReasonVelocityExceeded), nil
		}
		if g.fraud.TimingAnomaly(*signals) {
			return reject(model.ReasonTimingAnomaly), nil
		}

		res := g.fraud.Evaluate(*signals)
		if recErr := g.audit.Record(ctx, &model.FraudAssessment{
			AccountID: req.AccountID,
			ContentID: req.ContentID,
			Score:     res.Score,
			Flags:     res.Flags,
			CreatedAt: g.now(),
		}); recErr != nil {
			g.log.Warn().Err(recErr).Msg("fraud assessment write failed")
		}
		if g.fraud.Flagged(res.Score) {
			return reject(model.ReasonFraudBlocked), nil
		}
	}

	// Quota. A failed stake lookup downgrades to the baseline tier
	// (least-privileged); a failed usage lookup fails closed, since assuming
	// zero quota used on an outage is a direct abuse vector.
	var tier *model.Tier
	acct, err := g.accounts.Ensure(ctx, req.AccountID)
	if err != nil {
		g.log.Warn().Err(err).Str("account", req.AccountID).Msg("account lookup failed, assuming baseline tier")
	} else {
		tier = g.tiers.TierFor(acct.StakedAmount)
	}

	used, err := g.accounts.VotesUsedToday(ctx, req.AccountID, g.now())
	if err != nil {
		return reject(model.ReasonUpstreamUnavailable), nil
	}

	quota := g.tiers.QuotaFor(tier, used)
	if !quota.Unlimited && quota.Remaining <= 0 {
		return rejectWithQuota(model.ReasonQuotaExceeded, quota), nil
	}

	// Cooldown, against the account's prior vote on this specific item.
	prior, err := g.votes.LastVoteOnItem(ctx, req.ContentID, req.AccountID)
	if err != nil {
		return reject(model.ReasonUpstreamUnavailable), nil
	}
	if prior != nil && prior.Direction != dir {
		if g.now().Sub(prior.UpdatedAt) < g.tiers.CooldownFor(tier) {
			return rejectWithQuota(model.ReasonCooldownActive, quota), nil
		}
	}

	// Applied: the only mutating stage. An identical replay is a no-op
	// inside Apply, never a double count.
	outcome, err := g.votes.Apply(ctx, req.ContentID, req.AccountID, dir, ipHash, req.DeviceFingerprint)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if cerr := g.cache.InvalidateContent(ctx, req.ContentID); cerr != nil {
			g.log.Warn().Err(cerr).Str("content", req.ContentID).Msg("cache invalidate failed")
		}
	}

	snapshot := quota
	if !snapshot.Unlimited && outcome.Change != model.VoteNoop && snapshot.Remaining > 0 {
		snapshot.Remaining--
	}

	metrics.ObserveVote(true, string(outcome.Change))
	return &model.VoteResponse{Accepted: true, NewScore: outcome.NewScore, Quota: &snapshot}, nil
}

// Withdraw removes an existing vote (∓1). Withdrawals share the caller's
// rate limit but skip fraud, quota, and cooldown: undoing a vote is never
// an abuse vector the way casting one is.
func (g *GateService) Withdraw(ctx context.Context, req model.VoteWithdrawRequest, callerIdentity string) (*model.VoteResponse, error) {
	decision, err := g.limiter.Check(ctx, callerIdentity)
	if err != nil {
		g.log.Warn().Err(err).Msg("rate limiter store unavailable, failing open")
		metrics.IncLimiterFailOpen()
	} else if !decision.Allowed {
		return reject(model.ReasonRateLimited), nil
	}

	outcome, err := g.votes.Withdraw(ctx, req.ContentID, req.AccountID)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if cerr := g.cache.InvalidateContent(ctx, req.ContentID); cerr != nil {
			g.log.Warn().Err(cerr).Str("content", req.ContentID).Msg("cache invalidate failed")
		}
	}

	metrics.ObserveVote(true, string(outcome.Change))
	return &model.VoteResponse{Accepted: true, NewScore: outcome.NewScore}, nil
}

// Precheck is the advisory fraud boundary. It shares the evaluator with
// Submit but mutates nothing and consumes no rate-limit or quota slots; the
// vote path re-validates independently, so skipping the pre-check bypasses
// nothing.
func (g *GateService) Precheck(ctx context.Context, req model.PrecheckRequest, ipHash string) (*model.PrecheckResponse, error) {
	signals, err := g.signals.Gather(ctx, model.SignalQuery{
		AccountID:   req.AccountID,
		ContentID:   req.ContentID,
		IPHash:      ipHash,
		Fingerprint: req.DeviceFingerprint,
	})
	if err != nil {
		g.log.Warn().Err(err).Msg("precheck signals unavailable, failing open")
		metrics.IncFraudFailOpen()
		return &model.PrecheckResponse{Allowed: true}, nil
	}

	if g.fraud.VelocityExceeded(*signals) {
		return &model.PrecheckResponse{Allowed: false, Suspicious: true, Reason: model.ReasonVelocityExceeded}, nil
	}
	if g.fraud.TimingAnomaly(*signals) {
		return &model.PrecheckResponse{Allowed: false, Suspicious: true, Reason: model.ReasonTimingAnomaly}, nil
	}

	res := g.fraud.Evaluate(*signals)
	if g.fraud.Flagged(res.Score) {
		return &model.PrecheckResponse{Allowed: false, Suspicious: true, Reason: model.ReasonFraudBlocked}, nil
	}

	return &model.PrecheckResponse{Allowed: true, Suspicious: len(res.Flags) > 0}, nil
}
