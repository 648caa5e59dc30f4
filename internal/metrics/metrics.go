package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds all Prometheus metrics for the voting engine.
var (
	VoteAttempts *prometheus.CounterVec

	// FraudFailOpen counts votes that proceeded past the fraud stage because
	// its data sources were unavailable. A sustained nonzero rate means the
	// fail-open policy is degrading integrity and operators should look.
	FraudFailOpen prometheus.Counter

	LimiterFailOpen prometheus.Counter

	GateDuration        prometheus.Histogram
	TrendingRunDuration prometheus.Histogram
	RewardRunDuration   prometheus.Histogram
	RewardEntries       prometheus.Counter

	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	DBPoolActive     prometheus.GaugeFunc
	DBPoolIdle       prometheus.GaugeFunc
)

// Init registers all collectors. Call once at startup.
func Init(pool *pgxpool.Pool) {
	VoteAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memevote_vote_attempts_total",
			Help: "Vote attempts by outcome and rejection reason.",
		},
		[]string{"outcome", "reason"},
	)

	FraudFailOpen = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memevote_fraud_fail_open_total",
			Help: "Votes allowed past the fraud stage because signal gathering failed.",
		},
	)

	LimiterFailOpen = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memevote_limiter_fail_open_total",
			Help: "Votes allowed past the rate limiter because the counter store failed.",
		},
	)

	GateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "memevote_gate_duration_seconds",
			Help:    "Duration of the vote eligibility pipeline.",
			Buckets: prometheus.DefBuckets,
		},
	)

	TrendingRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "memevote_trending_run_duration_seconds",
			Help:    "Duration of trending recomputation runs.",
			Buckets: prometheus.DefBuckets,
		},
	)

	RewardRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "memevote_reward_run_duration_seconds",
			Help:    "Duration of daily reward distribution runs.",
			Buckets: prometheus.DefBuckets,
		},
	)

	RewardEntries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memevote_reward_entries_total",
			Help: "Reward ledger entries written.",
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "memevote_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "memevote_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memevote_cache_hits_total",
			Help: "Total Redis cache hits.",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memevote_cache_misses_total",
			Help: "Total Redis cache misses.",
		},
	)

	if pool != nil {
		DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "memevote_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "memevote_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(DBPoolActive, DBPoolIdle)
	}

	prometheus.MustRegister(
		VoteAttempts,
		FraudFailOpen,
		LimiterFailOpen,
		GateDuration,
		TrendingRunDuration,
		RewardRunDuration,
		RewardEntries,
		RequestDuration,
		RequestsInFlight,
		CacheHits,
		CacheMisses,
	)
}

// ObserveVote records one vote attempt outcome. Safe before Init in tests.
func ObserveVote(accepted bool, reason string) {
	if VoteAttempts == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	VoteAttempts.WithLabelValues(outcome, reason).Inc()
}

// IncFraudFailOpen emits the distinct fail-open event. Safe before Init.
func IncFraudFailOpen() {
	if FraudFailOpen != nil {
		FraudFailOpen.Inc()
	}
}

// IncLimiterFailOpen emits the limiter fail-open event. Safe before Init.
func IncLimiterFailOpen() {
	if LimiterFailOpen != nil {
		LimiterFailOpen.Inc()
	}
}
